// pkg/sql/optimizer/plan.go
package optimizer

import (
	"minidb/pkg/sql/lexer"
	"minidb/pkg/types"
)

// ScanKind distinguishes the two access strategies spec.md §4.6 lets the
// planner choose between.
type ScanKind int

const (
	SeqScan ScanKind = iota
	IndexScan
)

func (k ScanKind) String() string {
	if k == IndexScan {
		return "INDEX_SCAN"
	}
	return "SEQ_SCAN"
}

// Plan is the chosen access strategy for one table reference in a query,
// annotated with the cost estimate that won it the decision (surfaced
// verbatim by EXPLAIN, SPEC_FULL.md §5). PredicateOp/PredicateValue carry
// the single comparison the index scan is driven by, so the executor can
// replay it against the index without re-walking the WHERE clause itself.
type Plan struct {
	Table          string
	Kind           ScanKind
	IndexName      string // set when Kind == IndexScan
	IndexColumn    string
	PredicateOp    lexer.TokenType
	PredicateValue types.Value
	EstimatedRows  int64
	EstimatedCost  float64
	Reason         string
}
