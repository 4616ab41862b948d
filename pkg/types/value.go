// pkg/types/value.go
package types

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ValueType is the tag of a Value variant.
type ValueType int

const (
	TypeNull ValueType = iota
	TypeInt
	TypeFloat
	TypeBoolean
	TypeDecimal
	TypeString
	TypeBlob
	TypeTime
	TypeDate
	TypeError
)

func (t ValueType) String() string {
	switch t {
	case TypeNull:
		return "NULL"
	case TypeInt:
		return "INT"
	case TypeFloat:
		return "FLOAT"
	case TypeBoolean:
		return "BOOLEAN"
	case TypeDecimal:
		return "DECIMAL"
	case TypeString:
		return "STRING"
	case TypeBlob:
		return "BLOB"
	case TypeTime:
		return "TIME"
	case TypeDate:
		return "DATE"
	case TypeError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Value is a tagged variant holding one of the cases in spec.md §3.
// String and blob payloads are owned: copying a Value that carries one
// (via Clone) deep-copies the backing buffer so aliasing a row into a
// new slot never lets two rows share mutable storage.
type Value struct {
	typ       ValueType
	intVal    int64 // INT, DECIMAL (scaled), packed TIME, packed DATE
	floatVal  float64
	boolVal   bool
	precision int // DECIMAL
	scale     int // DECIMAL
	textVal   string
	blobVal   []byte
	errMsg    string
}

func NewNull() Value            { return Value{typ: TypeNull} }
func NewInt(i int64) Value      { return Value{typ: TypeInt, intVal: i} }
func NewFloat(f float64) Value  { return Value{typ: TypeFloat, floatVal: f} }
func NewBoolean(b bool) Value   { return Value{typ: TypeBoolean, boolVal: b} }
func NewString(s string) Value  { return Value{typ: TypeString, textVal: s} }
func NewError(msg string) Value { return Value{typ: TypeError, errMsg: msg} }

func NewDecimal(precision, scale int, scaled int64) Value {
	return Value{typ: TypeDecimal, precision: precision, scale: scale, intVal: scaled}
}

func NewBlob(b []byte) Value {
	if b == nil {
		return Value{typ: TypeBlob}
	}
	cp := make([]byte, len(b))
	copy(cp, b)
	return Value{typ: TypeBlob, blobVal: cp}
}

// PackTime packs hour/minute/second into the layout described in spec.md
// §3: seconds in the low 6 bits, minutes in the next 6, hour in the next 8.
func PackTime(hour, minute, second int) Value {
	packed := int64(second&0x3F) | int64(minute&0x3F)<<6 | int64(hour&0xFF)<<12
	return Value{typ: TypeTime, intVal: packed}
}

// PackDate packs day/month/year into day in the low 5 bits, month in the
// next 4, year in the next 22, per spec.md §3.
func PackDate(year, month, day int) Value {
	packed := int64(day&0x1F) | int64(month&0xF)<<5 | int64(year&0x3FFFFF)<<9
	return Value{typ: TypeDate, intVal: packed}
}

func (v Value) Type() ValueType { return v.typ }
func (v Value) IsNull() bool    { return v.typ == TypeNull }
func (v Value) IsError() bool   { return v.typ == TypeError }

func (v Value) Int() int64     { return v.intVal }
func (v Value) Float() float64 { return v.floatVal }
func (v Value) Bool() bool     { return v.boolVal }
func (v Value) Text() string   { return v.textVal }
func (v Value) ErrMsg() string { return v.errMsg }

func (v Value) Blob() []byte {
	if v.blobVal == nil {
		return nil
	}
	cp := make([]byte, len(v.blobVal))
	copy(cp, v.blobVal)
	return cp
}

func (v Value) DecimalParts() (precision, scale int, scaled int64) {
	return v.precision, v.scale, v.intVal
}

// DecimalFloat returns the decimal's value as a float64, for arithmetic
// that promotes into FLOAT.
func (v Value) DecimalFloat() float64 {
	return float64(v.intVal) / math.Pow10(v.scale)
}

// UnpackTime returns the hour, minute, second encoded in a TIME value.
func (v Value) UnpackTime() (hour, minute, second int) {
	p := v.intVal
	second = int(p & 0x3F)
	minute = int((p >> 6) & 0x3F)
	hour = int((p >> 12) & 0xFF)
	return
}

// UnpackDate returns the year, month, day encoded in a DATE value.
func (v Value) UnpackDate() (year, month, day int) {
	p := v.intVal
	day = int(p & 0x1F)
	month = int((p >> 5) & 0xF)
	year = int((p >> 9) & 0x3FFFFF)
	return
}

// Clone deep-copies any owned payload so the result may be stored into a
// new row or stats entry without aliasing the source's backing buffer.
func (v Value) Clone() Value {
	cp := v
	if v.blobVal != nil {
		cp.blobVal = make([]byte, len(v.blobVal))
		copy(cp.blobVal, v.blobVal)
	}
	return cp
}

// String renders a Value for diagnostics, CONCAT, and LIKE's textual
// coercion of non-string operands.
func (v Value) String() string {
	switch v.typ {
	case TypeNull:
		return "NULL"
	case TypeInt:
		return strconv.FormatInt(v.intVal, 10)
	case TypeFloat:
		return strconv.FormatFloat(v.floatVal, 'g', -1, 64)
	case TypeBoolean:
		if v.boolVal {
			return "true"
		}
		return "false"
	case TypeDecimal:
		return strconv.FormatFloat(v.DecimalFloat(), 'f', v.scale, 64)
	case TypeString:
		return v.textVal
	case TypeBlob:
		var sb strings.Builder
		sb.WriteString("x'")
		for _, b := range v.blobVal {
			fmt.Fprintf(&sb, "%02x", b)
		}
		sb.WriteByte('\'')
		return sb.String()
	case TypeTime:
		h, m, s := v.UnpackTime()
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	case TypeDate:
		y, m, d := v.UnpackDate()
		return fmt.Sprintf("%04d-%02d-%02d", y, m, d)
	case TypeError:
		return "ERROR: " + v.errMsg
	default:
		return "?"
	}
}

// IsNumeric reports whether the value participates in numeric promotion.
func (v Value) IsNumeric() bool {
	switch v.typ {
	case TypeInt, TypeFloat, TypeDecimal:
		return true
	default:
		return false
	}
}

// AsFloat64 converts a numeric value to float64 for comparison/promotion.
// The caller must check IsNumeric first.
func (v Value) AsFloat64() float64 {
	switch v.typ {
	case TypeInt:
		return float64(v.intVal)
	case TypeFloat:
		return v.floatVal
	case TypeDecimal:
		return v.DecimalFloat()
	default:
		return 0
	}
}

// Equal implements value equality used by UNIQUE/PRIMARY KEY checks,
// DISTINCT, IN-lists, and index key comparison. NULL is never equal to
// anything, including another NULL (see spec.md §3: "x = NULL is false").
func Equal(a, b Value) bool {
	if a.typ == TypeNull || b.typ == TypeNull {
		return false
	}
	if a.IsNumeric() && b.IsNumeric() {
		return a.AsFloat64() == b.AsFloat64()
	}
	if a.typ != b.typ {
		return false
	}
	switch a.typ {
	case TypeBoolean:
		return a.boolVal == b.boolVal
	case TypeString:
		return a.textVal == b.textVal
	case TypeBlob:
		return string(a.blobVal) == string(b.blobVal)
	case TypeTime, TypeDate:
		return a.intVal == b.intVal
	default:
		return false
	}
}

// Compare orders two non-NULL values for B-tree keys and ORDER BY.
// Cross-type numeric comparison promotes through float64; string
// ordering is byte-lexicographic, matching spec.md §4.4.
func Compare(a, b Value) int {
	if a.IsNumeric() && b.IsNumeric() {
		af, bf := a.AsFloat64(), b.AsFloat64()
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		default:
			return 0
		}
	}
	if a.typ == TypeString && b.typ == TypeString {
		return strings.Compare(a.textVal, b.textVal)
	}
	if (a.typ == TypeTime && b.typ == TypeTime) || (a.typ == TypeDate && b.typ == TypeDate) {
		switch {
		case a.intVal < b.intVal:
			return -1
		case a.intVal > b.intVal:
			return 1
		default:
			return 0
		}
	}
	if a.typ == TypeBoolean && b.typ == TypeBoolean {
		switch {
		case !a.boolVal && b.boolVal:
			return -1
		case a.boolVal && !b.boolVal:
			return 1
		default:
			return 0
		}
	}
	// Incomparable types order by type tag so sorts stay total.
	switch {
	case a.typ < b.typ:
		return -1
	case a.typ > b.typ:
		return 1
	default:
		return 0
	}
}
