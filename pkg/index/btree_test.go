// pkg/index/btree_test.go
package index

import (
	"sort"
	"testing"

	"minidb/pkg/types"
)

func TestBTreeInsertAndFindEqual(t *testing.T) {
	bt := NewBTree(2)
	for i := 0; i < 20; i++ {
		bt.Insert(types.NewInt(int64(i)), i)
	}
	got := bt.FindEqual(types.NewInt(13))
	if len(got) != 1 || got[0] != 13 {
		t.Errorf("expected [13], got %v", got)
	}
	if len(bt.FindEqual(types.NewInt(99))) != 0 {
		t.Error("expected no match for an absent key")
	}
}

func TestBTreeFindRange(t *testing.T) {
	bt := NewBTree(4)
	for i := 0; i < 50; i++ {
		bt.Insert(types.NewInt(int64(i)), i)
	}
	min := types.NewInt(10)
	max := types.NewInt(15)
	got := bt.FindRange(&min, &max)
	sort.Ints(got)
	want := []int{10, 11, 12, 13, 14, 15}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("expected %v, got %v", want, got)
			break
		}
	}
}

func TestBTreeFindRangeOpenBounds(t *testing.T) {
	bt := NewBTree(3)
	for i := 0; i < 10; i++ {
		bt.Insert(types.NewInt(int64(i)), i)
	}
	max := types.NewInt(2)
	got := bt.FindRange(nil, &max)
	sort.Ints(got)
	want := []int{0, 1, 2}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestBTreeDelete(t *testing.T) {
	bt := NewBTree(2)
	for i := 0; i < 10; i++ {
		bt.Insert(types.NewInt(int64(i)), i)
	}
	bt.Delete(types.NewInt(5), 5)
	if len(bt.FindEqual(types.NewInt(5))) != 0 {
		t.Error("expected key 5 to be gone after Delete")
	}
	if bt.KeyCount() != 9 {
		t.Errorf("expected KeyCount 9, got %d", bt.KeyCount())
	}
}

func TestBTreeKeyCountAcrossSplits(t *testing.T) {
	bt := NewBTree(2)
	const n = 100
	for i := 0; i < n; i++ {
		bt.Insert(types.NewInt(int64(i)), i)
	}
	if bt.KeyCount() != n {
		t.Errorf("expected KeyCount %d, got %d", n, bt.KeyCount())
	}
	min := types.NewInt(0)
	max := types.NewInt(int64(n - 1))
	got := bt.FindRange(&min, &max)
	if len(got) != n {
		t.Errorf("expected %d entries in full range, got %d", n, len(got))
	}
}

func TestBuildBTreeSkipsNulls(t *testing.T) {
	rows := []types.Row{
		{types.NewInt(1)},
		{types.NewNull()},
		{types.NewInt(2)},
	}
	bt := BuildBTree(4, rows, 0)
	if bt.KeyCount() != 2 {
		t.Errorf("expected 2 indexed entries (NULLs skipped), got %d", bt.KeyCount())
	}
}
