// pkg/types/value_test.go
package types

import "testing"

func TestValueNull(t *testing.T) {
	v := NewNull()
	if v.Type() != TypeNull {
		t.Errorf("expected TypeNull, got %v", v.Type())
	}
	if !v.IsNull() {
		t.Error("expected IsNull to return true")
	}
}

func TestValueInt(t *testing.T) {
	v := NewInt(42)
	if v.Type() != TypeInt {
		t.Errorf("expected TypeInt, got %v", v.Type())
	}
	if v.Int() != 42 {
		t.Errorf("expected 42, got %d", v.Int())
	}
}

func TestValueFloat(t *testing.T) {
	v := NewFloat(3.14)
	if v.Type() != TypeFloat {
		t.Errorf("expected TypeFloat, got %v", v.Type())
	}
	if v.Float() != 3.14 {
		t.Errorf("expected 3.14, got %f", v.Float())
	}
}

func TestValueString(t *testing.T) {
	v := NewString("hello")
	if v.Type() != TypeString {
		t.Errorf("expected TypeString, got %v", v.Type())
	}
	if v.Text() != "hello" {
		t.Errorf("expected 'hello', got %s", v.Text())
	}
}

func TestValueBlob(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03}
	v := NewBlob(data)
	if v.Type() != TypeBlob {
		t.Errorf("expected TypeBlob, got %v", v.Type())
	}
	if string(v.Blob()) != string(data) {
		t.Errorf("expected %v, got %v", data, v.Blob())
	}
}

func TestValueBlobIsOwned(t *testing.T) {
	data := []byte{1, 2, 3}
	v := NewBlob(data)
	data[0] = 0xff
	if v.Blob()[0] == 0xff {
		t.Error("NewBlob aliased the caller's backing array")
	}
	out := v.Blob()
	out[0] = 0xaa
	if v.Blob()[0] == 0xaa {
		t.Error("Blob() leaked the internal backing array")
	}
}

func TestValueDecimal(t *testing.T) {
	v := NewDecimal(10, 2, 12345)
	precision, scale, scaled := v.DecimalParts()
	if precision != 10 || scale != 2 || scaled != 12345 {
		t.Errorf("unexpected decimal parts: %d %d %d", precision, scale, scaled)
	}
	if got := v.DecimalFloat(); got != 123.45 {
		t.Errorf("expected 123.45, got %v", got)
	}
}

func TestPackUnpackTime(t *testing.T) {
	v := PackTime(13, 45, 9)
	h, m, s := v.UnpackTime()
	if h != 13 || m != 45 || s != 9 {
		t.Errorf("expected 13:45:09, got %02d:%02d:%02d", h, m, s)
	}
}

func TestPackUnpackDate(t *testing.T) {
	v := PackDate(2024, 11, 30)
	y, mo, d := v.UnpackDate()
	if y != 2024 || mo != 11 || d != 30 {
		t.Errorf("expected 2024-11-30, got %04d-%02d-%02d", y, mo, d)
	}
}

func TestValueClone(t *testing.T) {
	v := NewBlob([]byte{9, 9, 9})
	cp := v.Clone()
	b := cp.Blob()
	b[0] = 0
	if v.Blob()[0] == 0 {
		t.Error("Clone shared backing storage with the original")
	}
}

func TestEqualNullIsNeverEqual(t *testing.T) {
	if Equal(NewNull(), NewNull()) {
		t.Error("NULL should never equal NULL")
	}
	if Equal(NewNull(), NewInt(0)) {
		t.Error("NULL should never equal a non-NULL value")
	}
}

func TestEqualNumericPromotion(t *testing.T) {
	if !Equal(NewInt(3), NewFloat(3.0)) {
		t.Error("expected INT 3 to equal FLOAT 3.0")
	}
	if Equal(NewInt(3), NewFloat(3.1)) {
		t.Error("expected INT 3 to not equal FLOAT 3.1")
	}
}

func TestEqualCrossTypeNonNumeric(t *testing.T) {
	if Equal(NewString("3"), NewInt(3)) {
		t.Error("STRING and INT should never be equal")
	}
}

func TestCompareNumeric(t *testing.T) {
	if Compare(NewInt(1), NewInt(2)) >= 0 {
		t.Error("expected 1 < 2")
	}
	if Compare(NewFloat(2.5), NewInt(2)) <= 0 {
		t.Error("expected 2.5 > 2")
	}
	if Compare(NewInt(5), NewInt(5)) != 0 {
		t.Error("expected 5 == 5")
	}
}

func TestCompareString(t *testing.T) {
	if Compare(NewString("apple"), NewString("banana")) >= 0 {
		t.Error("expected apple < banana")
	}
}

func TestCompareIncomparableTypesOrderByTag(t *testing.T) {
	// STRING and BOOLEAN carry no natural cross-type order; Compare falls
	// back to type tag so a sort over a mixed column stays total instead
	// of panicking or flip-flopping.
	a, b := NewString("x"), NewBoolean(true)
	if Compare(a, b) == 0 {
		t.Error("expected distinct type tags to compare unequal")
	}
	if Compare(a, b) != -Compare(b, a) {
		t.Error("Compare should be antisymmetric across type tags")
	}
}

func TestIsNumeric(t *testing.T) {
	cases := []struct {
		v    Value
		want bool
	}{
		{NewInt(1), true},
		{NewFloat(1), true},
		{NewDecimal(5, 2, 100), true},
		{NewString("1"), false},
		{NewBoolean(true), false},
		{NewNull(), false},
	}
	for _, c := range cases {
		if got := c.v.IsNumeric(); got != c.want {
			t.Errorf("IsNumeric(%v) = %v, want %v", c.v, got, c.want)
		}
	}
}

func TestValueStringRendering(t *testing.T) {
	if NewNull().String() != "NULL" {
		t.Error("NULL should render as NULL")
	}
	if NewBoolean(true).String() != "true" {
		t.Error("expected true to render as 'true'")
	}
	if NewInt(7).String() != "7" {
		t.Errorf("expected '7', got %q", NewInt(7).String())
	}
}
