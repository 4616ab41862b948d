// pkg/engine/engine.go
package engine

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/k0kubun/pp/v3"

	"minidb/pkg/schema"
	"minidb/pkg/sql/executor"
	"minidb/pkg/sql/parser"
	"minidb/pkg/types"
)

// Engine is the single-process, single-connection boundary spec.md §6
// describes: one catalog, one executor, no network listener and no
// on-disk file, matching the Non-goals that rule out durability and
// concurrent multi-writer access.
type Engine struct {
	cat  *schema.Catalog
	exec *executor.Executor
	log  *slog.Logger
	cfg  Config
}

// New builds a ready-to-use in-memory engine from cfg.
func New(cfg Config) *Engine {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}))
	cat := schema.NewCatalog()
	execCfg := executor.Config{
		DefaultIndexKind: cfg.indexKind(),
		BTreeOrder:       cfg.BTreeOrder,
		HashBucketCount:  cfg.HashBucketCount,
	}
	pp.ColoringEnabled = false
	return &Engine{
		cat:  cat,
		exec: executor.New(cat, execCfg, logger),
		log:  logger,
		cfg:  cfg,
	}
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// QueryResult is the Go-native view of a statement's outcome: Values are
// unwrapped to plain Go types so callers outside this module never need
// to import pkg/types.
type QueryResult struct {
	Columns      []string
	Rows         [][]any
	RowsAffected int64
}

// Execute parses and runs one SQL statement. At LogLevel "debug" it also
// pretty-prints the parsed statement tree before running it, the same
// spot-check a developer would reach for with a debugger (SPEC_FULL.md
// §2's ambient tooling).
func (e *Engine) Execute(sql string) (*QueryResult, error) {
	p := parser.New(sql)
	stmt, err := p.Parse()
	if err != nil {
		return nil, err
	}
	if e.log.Enabled(context.Background(), slog.LevelDebug) {
		e.log.Debug("parsed statement", "ast", pp.Sprint(stmt))
	}
	res, err := e.exec.ExecuteParsed(stmt)
	if err != nil {
		return nil, err
	}
	return convertResult(res), nil
}

func convertResult(r *executor.Result) *QueryResult {
	if r == nil {
		return &QueryResult{}
	}
	rows := make([][]any, len(r.Rows))
	for i, row := range r.Rows {
		rows[i] = make([]any, len(row))
		for j, v := range row {
			rows[i][j] = valueToGo(v)
		}
	}
	return &QueryResult{Columns: r.Columns, Rows: rows, RowsAffected: r.RowsAffected}
}

func valueToGo(v types.Value) any {
	switch v.Type() {
	case types.TypeNull:
		return nil
	case types.TypeInt:
		return v.Int()
	case types.TypeFloat:
		return v.Float()
	case types.TypeBoolean:
		return v.Bool()
	case types.TypeDecimal:
		return v.DecimalFloat()
	case types.TypeString:
		return v.Text()
	case types.TypeBlob:
		return v.Blob()
	case types.TypeTime, types.TypeDate, types.TypeError:
		return v.String()
	default:
		return nil
	}
}

// FindTable exposes read-only table lookup at the boundary (spec.md §6).
func (e *Engine) FindTable(name string) (*schema.Table, bool) {
	return e.cat.FindTable(name)
}

// Catalog exposes the underlying catalog for introspection tools (a REPL's
// `.tables`/`.schema` commands, a test harness inspecting statistics).
func (e *Engine) Catalog() *schema.Catalog {
	return e.cat
}

// Reset clears every table, index, and statistic, matching spec.md §3's
// reset_database lifecycle operation.
func (e *Engine) Reset() {
	e.cat.Reset()
}
