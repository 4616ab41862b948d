// pkg/dberr/error_test.go
package dberr

import "testing"

func TestNewErrorMessage(t *testing.T) {
	err := New(Schema, CodeTableNotFound, "no such table")
	if err.Error() != "SCHEMA: no such table" {
		t.Errorf("unexpected message: %q", err.Error())
	}
}

func TestNewTableIncludesTableInMessage(t *testing.T) {
	err := NewTable(Constraint, CodeUniqueViolation, "duplicate key", "users")
	want := "CONSTRAINT: duplicate key (table=users)"
	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}
}

func TestNewColumnCarriesColumnField(t *testing.T) {
	err := NewColumn(Constraint, CodeNotNullViolation, "must not be null", "users", "email")
	if err.Column != "email" || err.Table != "users" {
		t.Errorf("expected table=users column=email, got table=%s column=%s", err.Table, err.Column)
	}
}

func TestKindString(t *testing.T) {
	cases := map[Kind]string{
		Schema:     "SCHEMA",
		Type:       "TYPE",
		Constraint: "CONSTRAINT",
		Resource:   "RESOURCE",
		Internal:   "INTERNAL",
	}
	for kind, want := range cases {
		if got := kind.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", kind, got, want)
		}
	}
}

func TestEngineErrorSatisfiesErrorInterface(t *testing.T) {
	var err error = New(Internal, "X", "boom")
	if err.Error() == "" {
		t.Error("expected a non-empty error message")
	}
}
