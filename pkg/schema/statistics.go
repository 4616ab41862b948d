// pkg/schema/statistics.go
package schema

import "minidb/pkg/types"

// ColumnStats is the per-column slice of TableStats described in
// spec.md §3: used only by the planner's selectivity estimates.
type ColumnStats struct {
	RowCount       int64
	DistinctValues int64
	Min            types.Value
	Max            types.Value
	AvgWidth       float64
	HasStats       bool
}

// TableStats holds total_rows plus per-column statistics for one table.
type TableStats struct {
	TotalRows int64
	Columns   map[string]*ColumnStats
}

// NewTableStats seeds an empty stats record for a freshly created table
// (total_rows=0, per spec.md §4.5's CREATE TABLE behavior).
func NewTableStats(def TableDef) *TableStats {
	cols := make(map[string]*ColumnStats, len(def.Columns))
	for _, c := range def.Columns {
		cols[c.Name] = &ColumnStats{Min: types.NewNull(), Max: types.NewNull()}
	}
	return &TableStats{Columns: cols}
}

// EqualitySelectivity estimates the fraction of rows an equality
// predicate on this column is expected to match, per spec.md §4.6:
// 1/distinct_values, falling back to 1/row_count.
func (cs *ColumnStats) EqualitySelectivity(tableRows int64) float64 {
	if cs.DistinctValues > 0 {
		return 1.0 / float64(cs.DistinctValues)
	}
	if tableRows > 0 {
		return 1.0 / float64(tableRows)
	}
	return 1.0
}

// RangeSelectivity estimates the fraction of rows a range predicate is
// expected to match. Defaults to the fixed 0.3 estimate from spec.md
// §4.6, narrowed when min/max statistics are available and at least one
// bound is given.
func (cs *ColumnStats) RangeSelectivity(min, max *types.Value) float64 {
	const defaultRangeSelectivity = 0.3
	if !cs.HasStats || cs.Min.IsNull() || cs.Max.IsNull() {
		return defaultRangeSelectivity
	}
	span := types.Compare(cs.Max, cs.Min)
	if span == 0 {
		return defaultRangeSelectivity
	}
	lo, hi := cs.Min, cs.Max
	if min != nil && types.Compare(*min, lo) > 0 {
		lo = *min
	}
	if max != nil && types.Compare(*max, hi) < 0 {
		hi = *max
	}
	if !lo.IsNumeric() || !hi.IsNumeric() || !cs.Min.IsNumeric() || !cs.Max.IsNumeric() {
		return defaultRangeSelectivity
	}
	total := cs.Max.AsFloat64() - cs.Min.AsFloat64()
	if total <= 0 {
		return defaultRangeSelectivity
	}
	frac := (hi.AsFloat64() - lo.AsFloat64()) / total
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	return frac
}

// Refresh recomputes statistics for a table from its live rows, used by
// both DML side effects and the ANALYZE statement (SPEC_FULL.md §5).
func Refresh(stats *TableStats, def TableDef, rows []types.Row) {
	stats.TotalRows = int64(len(rows))
	for ci, col := range def.Columns {
		cs, ok := stats.Columns[col.Name]
		if !ok {
			cs = &ColumnStats{}
			stats.Columns[col.Name] = cs
		}
		distinct := make(map[string]struct{})
		var rowCount int64
		var widthSum float64
		var min, max types.Value
		haveBound := false
		for _, row := range rows {
			v := row.At(ci)
			if v.IsNull() {
				continue
			}
			rowCount++
			widthSum += float64(len(v.String()))
			distinct[v.String()] = struct{}{}
			if !haveBound {
				min, max = v, v
				haveBound = true
				continue
			}
			if types.Compare(v, min) < 0 {
				min = v
			}
			if types.Compare(v, max) > 0 {
				max = v
			}
		}
		cs.RowCount = rowCount
		cs.DistinctValues = int64(len(distinct))
		if rowCount > 0 {
			cs.AvgWidth = widthSum / float64(rowCount)
		} else {
			cs.AvgWidth = 0
		}
		if haveBound {
			cs.Min, cs.Max = min, max
		} else {
			cs.Min, cs.Max = types.NewNull(), types.NewNull()
		}
		cs.HasStats = true
	}
}
