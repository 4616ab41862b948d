// cmd/minidb/main.go
//
// minidb is an interactive shell over the in-memory SQL engine.
//
// Usage:
//
//	minidb [-config path.yaml]
//
// There is no database file to name: every minidb process starts from an
// empty catalog and the state is gone when it exits (spec.md's Non-goals
// rule out durability and crash recovery).
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"minidb/pkg/engine"
)

const (
	prompt     = "minidb> "
	contPrompt = "    ...> "
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file (optional)")
	flag.Parse()

	cfg := engine.DefaultConfig()
	if *configPath != "" {
		loaded, err := engine.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "minidb: loading config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	eng := engine.New(cfg)
	runREPL(eng, os.Stdin, os.Stdout, os.Stderr)
}

func runREPL(eng *engine.Engine, in *os.File, out, errOut *os.File) {
	scanner := bufio.NewScanner(in)
	var buf strings.Builder

	fmt.Fprint(out, prompt)
	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)

		if buf.Len() == 0 {
			switch strings.ToLower(trimmed) {
			case ".exit", ".quit":
				return
			case "":
				fmt.Fprint(out, prompt)
				continue
			}
		}

		buf.WriteString(line)
		buf.WriteByte('\n')

		if !strings.HasSuffix(trimmed, ";") {
			fmt.Fprint(out, contPrompt)
			continue
		}

		sql := strings.TrimSpace(buf.String())
		buf.Reset()
		runStatement(eng, sql, out, errOut)
		fmt.Fprint(out, prompt)
	}
}

func runStatement(eng *engine.Engine, sql string, out, errOut *os.File) {
	res, err := eng.Execute(sql)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return
	}
	if len(res.Columns) == 0 {
		fmt.Fprintf(out, "OK (%d row(s) affected)\n", res.RowsAffected)
		return
	}
	fmt.Fprintln(out, strings.Join(res.Columns, "\t"))
	for _, row := range res.Rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = fmt.Sprintf("%v", v)
		}
		fmt.Fprintln(out, strings.Join(cells, "\t"))
	}
	fmt.Fprintf(out, "(%d row(s))\n", len(res.Rows))
}
