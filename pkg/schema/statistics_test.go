// pkg/schema/statistics_test.go
package schema

import (
	"testing"

	"minidb/pkg/types"
)

func TestEqualitySelectivityUsesDistinctValues(t *testing.T) {
	cs := &ColumnStats{DistinctValues: 4}
	if got := cs.EqualitySelectivity(100); got != 0.25 {
		t.Errorf("expected 0.25, got %v", got)
	}
}

func TestEqualitySelectivityFallsBackToRowCount(t *testing.T) {
	cs := &ColumnStats{}
	if got := cs.EqualitySelectivity(10); got != 0.1 {
		t.Errorf("expected 0.1, got %v", got)
	}
}

func TestEqualitySelectivityNoStatsAtAll(t *testing.T) {
	cs := &ColumnStats{}
	if got := cs.EqualitySelectivity(0); got != 1.0 {
		t.Errorf("expected 1.0 with no stats and no rows, got %v", got)
	}
}

func TestRangeSelectivityDefaultsWithoutStats(t *testing.T) {
	cs := &ColumnStats{}
	if got := cs.RangeSelectivity(nil, nil); got != 0.3 {
		t.Errorf("expected default 0.3, got %v", got)
	}
}

func TestRangeSelectivityNarrowsWithBounds(t *testing.T) {
	cs := &ColumnStats{
		HasStats: true,
		Min:      types.NewInt(0),
		Max:      types.NewInt(100),
	}
	min := types.NewInt(0)
	max := types.NewInt(50)
	got := cs.RangeSelectivity(&min, &max)
	if got != 0.5 {
		t.Errorf("expected 0.5, got %v", got)
	}
}

func TestRefreshComputesStats(t *testing.T) {
	def := TableDef{Columns: []ColumnDef{{Name: "age", Type: types.TypeInt}}}
	stats := NewTableStats(def)
	rows := []types.Row{
		{types.NewInt(20)},
		{types.NewInt(30)},
		{types.NewInt(20)},
		{types.NewNull()},
	}
	Refresh(stats, def, rows)
	if stats.TotalRows != 4 {
		t.Errorf("expected 4 total rows, got %d", stats.TotalRows)
	}
	cs := stats.Columns["age"]
	if cs.RowCount != 3 {
		t.Errorf("expected 3 non-null rows, got %d", cs.RowCount)
	}
	if cs.DistinctValues != 2 {
		t.Errorf("expected 2 distinct values, got %d", cs.DistinctValues)
	}
	if cs.Min.Int() != 20 || cs.Max.Int() != 30 {
		t.Errorf("expected min=20 max=30, got min=%v max=%v", cs.Min, cs.Max)
	}
}

func TestRefreshAllNullColumn(t *testing.T) {
	def := TableDef{Columns: []ColumnDef{{Name: "x", Type: types.TypeInt}}}
	stats := NewTableStats(def)
	rows := []types.Row{{types.NewNull()}, {types.NewNull()}}
	Refresh(stats, def, rows)
	cs := stats.Columns["x"]
	if !cs.Min.IsNull() || !cs.Max.IsNull() {
		t.Error("expected min/max to stay NULL when every value is NULL")
	}
	if cs.RowCount != 0 {
		t.Errorf("expected 0 non-null rows, got %d", cs.RowCount)
	}
}
