// pkg/sql/optimizer/planner.go
package optimizer

import (
	"fmt"

	"minidb/pkg/schema"
	"minidb/pkg/sql/lexer"
	"minidb/pkg/sql/parser"
	"minidb/pkg/types"
)

// ChoosePlan picks SEQ_SCAN or INDEX_SCAN for one table reference, per
// the cost-based rule in spec.md §4.6: an index-assisted scan wins only
// when its estimated cost is lower than a full scan, which in practice
// means an equality predicate on an indexed column, or a range predicate
// whose estimated selectivity stays under RangeSelectivityCutoff.
func ChoosePlan(cat *schema.Catalog, table string, where parser.Expression) (*Plan, error) {
	stats := cat.Stats(table)
	if stats == nil {
		return nil, fmt.Errorf("no statistics for table %s", table)
	}
	rows := stats.TotalRows
	seqCost := SeqScanCost(rows)
	best := &Plan{Table: table, Kind: SeqScan, EstimatedRows: rows, EstimatedCost: seqCost, Reason: "no usable index"}

	for _, pred := range findIndexablePredicates(where, table) {
		idx, ok := cat.IndexForColumn(table, pred.column)
		if !ok {
			continue
		}
		colStats := stats.Columns[pred.column]
		var selectivity float64
		var estRows int64
		if pred.op == lexer.EQ {
			if colStats != nil {
				selectivity = colStats.EqualitySelectivity(rows)
			} else {
				selectivity = 1
			}
		} else {
			min, max := rangeBounds(pred)
			if colStats != nil {
				selectivity = colStats.RangeSelectivity(min, max)
			} else {
				selectivity = RangeSelectivityCutoff
			}
			if selectivity > RangeSelectivityCutoff {
				continue
			}
		}
		estRows = int64(float64(rows) * selectivity)
		if estRows < 1 {
			estRows = 1
		}
		cost := IndexScanCost(rows, estRows)
		if cost < best.EstimatedCost {
			best = &Plan{
				Table: table, Kind: IndexScan, IndexName: idx.Name, IndexColumn: pred.column,
				PredicateOp: pred.op, PredicateValue: pred.value,
				EstimatedRows: estRows, EstimatedCost: cost,
				Reason: fmt.Sprintf("%s scan on %s.%s beats sequential scan (%.2f < %.2f)", idx.Kind, table, pred.column, cost, seqCost),
			}
		}
	}
	return best, nil
}

// rangeBounds converts a single range predicate into the [min, max] bound
// pair schema.ColumnStats.RangeSelectivity expects.
func rangeBounds(pred indexablePredicate) (min, max *types.Value) {
	v := pred.value
	switch pred.op {
	case lexer.LT, lexer.LTE:
		return nil, &v
	case lexer.GT, lexer.GTE:
		return &v, nil
	default:
		return nil, nil
	}
}
