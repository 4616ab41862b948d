// pkg/types/row_test.go
package types

import "testing"

func TestRowCloneDeepCopies(t *testing.T) {
	r := Row{NewInt(1), NewBlob([]byte{1, 2, 3})}
	cp := r.Clone()
	cp[1].Blob()[0] = 0xff
	if r[1].Blob()[0] == 0xff {
		t.Error("Clone should not alias the source row's blob payload")
	}
}

func TestRowAtInBounds(t *testing.T) {
	r := Row{NewInt(10), NewString("x")}
	if r.At(1).Text() != "x" {
		t.Errorf("expected 'x', got %v", r.At(1))
	}
}

func TestRowAtOutOfBoundsReturnsNull(t *testing.T) {
	r := Row{NewInt(10)}
	if !r.At(5).IsNull() {
		t.Error("expected out-of-range At to return NULL")
	}
	if !r.At(-1).IsNull() {
		t.Error("expected negative index At to return NULL")
	}
}
