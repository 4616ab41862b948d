// pkg/index/hash_test.go
package index

import (
	"sort"
	"testing"

	"minidb/pkg/types"
)

func TestHashInsertFindEqual(t *testing.T) {
	h := NewHash(8)
	h.Insert(types.NewInt(5), 0)
	h.Insert(types.NewInt(5), 3)
	h.Insert(types.NewInt(6), 1)

	got := h.FindEqual(types.NewInt(5))
	sort.Ints(got)
	if len(got) != 2 || got[0] != 0 || got[1] != 3 {
		t.Errorf("expected [0 3], got %v", got)
	}
	if len(h.FindEqual(types.NewInt(99))) != 0 {
		t.Error("expected no matches for an absent key")
	}
}

func TestHashDelete(t *testing.T) {
	h := NewHash(8)
	h.Insert(types.NewString("a"), 0)
	h.Insert(types.NewString("a"), 1)
	h.Delete(types.NewString("a"), 0)

	got := h.FindEqual(types.NewString("a"))
	if len(got) != 1 || got[0] != 1 {
		t.Errorf("expected [1] to remain, got %v", got)
	}
	if h.KeyCount() != 1 {
		t.Errorf("expected KeyCount 1, got %d", h.KeyCount())
	}
}

func TestHashDeleteMissingIsNoop(t *testing.T) {
	h := NewHash(8)
	if err := h.Delete(types.NewInt(1), 0); err != nil {
		t.Errorf("expected no error deleting a missing key, got %v", err)
	}
}

func TestHashFindRangeScansAllBuckets(t *testing.T) {
	h := NewHash(4)
	for i := 0; i < 10; i++ {
		h.Insert(types.NewInt(int64(i)), i)
	}
	min := types.NewInt(3)
	max := types.NewInt(6)
	got := h.FindRange(&min, &max)
	sort.Ints(got)
	want := []int{3, 4, 5, 6}
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

func TestHashKeyCount(t *testing.T) {
	h := NewHash(8)
	if h.KeyCount() != 0 {
		t.Error("expected a new hash to have KeyCount 0")
	}
	h.Insert(types.NewInt(1), 0)
	h.Insert(types.NewInt(2), 1)
	if h.KeyCount() != 2 {
		t.Errorf("expected KeyCount 2, got %d", h.KeyCount())
	}
}

func TestBuildHashSkipsNulls(t *testing.T) {
	rows := []types.Row{
		{types.NewInt(1)},
		{types.NewNull()},
		{types.NewInt(2)},
	}
	h := BuildHash(8, rows, 0)
	if h.KeyCount() != 2 {
		t.Errorf("expected 2 indexed entries (NULLs skipped), got %d", h.KeyCount())
	}
}
