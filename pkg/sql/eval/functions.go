// pkg/sql/eval/functions.go
package eval

import (
	"math"
	"unicode/utf8"

	"minidb/pkg/dberr"
	"minidb/pkg/sql/parser"
	"minidb/pkg/types"
)

var aggregateNames = map[string]bool{
	"COUNT": true, "SUM": true, "AVG": true, "MIN": true, "MAX": true,
}

// evalFunction dispatches a scalar function call. Aggregate names reach
// here only when misused outside an aggregated SELECT; the executor
// intercepts them at the projection stage for the normal case (spec.md
// §4.5).
func evalFunction(e *parser.FunctionCall, ctx *Context) (types.Value, error) {
	if aggregateNames[e.Name] {
		return types.Value{}, dberr.New(dberr.Type, dberr.CodeTypeMismatch,
			e.Name+"() is only valid as a top-level projection")
	}

	args := make([]types.Value, len(e.Args))
	for i, a := range e.Args {
		v, err := Eval(a, ctx)
		if err != nil {
			return types.Value{}, err
		}
		args[i] = v
	}

	switch e.Name {
	case "ABS":
		return fn1Numeric(args, func(f float64) float64 { return math.Abs(f) })
	case "SQRT":
		return fn1Numeric(args, math.Sqrt)
	case "FLOOR":
		return fn1Numeric(args, math.Floor)
	case "CEIL":
		return fn1Numeric(args, math.Ceil)
	case "ROUND":
		return fnRound(args)
	case "MOD":
		return fnMod(args)
	case "POW":
		return fn2Numeric(args, math.Pow)
	case "UPPER":
		return fnCase(args, true)
	case "LOWER":
		return fnCase(args, false)
	case "LEN":
		return fnLen(args)
	case "MID":
		return fnMid(args)
	case "LEFT":
		return fnLeftRight(args, true)
	case "RIGHT":
		return fnLeftRight(args, false)
	case "CONCAT":
		return fnConcat(args)
	case "COALESCE":
		return fnCoalesce(args)
	case "NULLIF":
		return fnNullIf(args)
	case "CASE":
		return fnCaseTernary(args)
	case "HOUR", "MINUTE", "SECOND":
		return fnTimePart(e.Name, args)
	case "YEAR", "MONTH", "DAY":
		return fnDatePart(e.Name, args)
	default:
		return types.Value{}, dberr.New(dberr.Type, dberr.CodeTypeMismatch, "unknown function: "+e.Name)
	}
}

func argErr(name string) error {
	return dberr.New(dberr.Type, dberr.CodeTypeMismatch, name+"() called with the wrong number or type of arguments")
}

func fn1Numeric(args []types.Value, f func(float64) float64) (types.Value, error) {
	if len(args) != 1 {
		return types.Value{}, argErr("function")
	}
	if args[0].IsNull() {
		return types.NewNull(), nil
	}
	if !args[0].IsNumeric() {
		return types.Value{}, argErr("function")
	}
	return types.NewFloat(f(args[0].AsFloat64())), nil
}

func fn2Numeric(args []types.Value, f func(float64, float64) float64) (types.Value, error) {
	if len(args) != 2 {
		return types.Value{}, argErr("function")
	}
	if args[0].IsNull() || args[1].IsNull() {
		return types.NewNull(), nil
	}
	if !args[0].IsNumeric() || !args[1].IsNumeric() {
		return types.Value{}, argErr("function")
	}
	return types.NewFloat(f(args[0].AsFloat64(), args[1].AsFloat64())), nil
}

// fnRound rounds half-away-from-zero (spec.md §4.5), unlike Go's
// round-half-to-even default for some operations.
func fnRound(args []types.Value) (types.Value, error) {
	if len(args) < 1 || len(args) > 2 {
		return types.Value{}, argErr("ROUND")
	}
	if args[0].IsNull() {
		return types.NewNull(), nil
	}
	if !args[0].IsNumeric() {
		return types.Value{}, argErr("ROUND")
	}
	digits := 0
	if len(args) == 2 {
		if args[1].IsNull() {
			return types.NewNull(), nil
		}
		digits = int(args[1].Int())
	}
	scale := math.Pow10(digits)
	v := args[0].AsFloat64() * scale
	var rounded float64
	if v >= 0 {
		rounded = math.Floor(v + 0.5)
	} else {
		rounded = math.Ceil(v - 0.5)
	}
	return types.NewFloat(rounded / scale), nil
}

func fnMod(args []types.Value) (types.Value, error) {
	if len(args) != 2 {
		return types.Value{}, argErr("MOD")
	}
	if args[0].IsNull() || args[1].IsNull() {
		return types.NewNull(), nil
	}
	if args[0].Type() == types.TypeInt && args[1].Type() == types.TypeInt {
		if args[1].Int() == 0 {
			return types.NewError("division by zero"), nil
		}
		return types.NewInt(args[0].Int() % args[1].Int()), nil
	}
	if !args[0].IsNumeric() || !args[1].IsNumeric() {
		return types.Value{}, argErr("MOD")
	}
	b := args[1].AsFloat64()
	if b == 0 {
		return types.NewError("division by zero"), nil
	}
	return types.NewFloat(math.Mod(args[0].AsFloat64(), b)), nil
}

func fnCase(args []types.Value, upper bool) (types.Value, error) {
	if len(args) != 1 {
		return types.Value{}, argErr("function")
	}
	if args[0].IsNull() {
		return types.NewNull(), nil
	}
	s := args[0].String()
	if upper {
		return types.NewString(toUpperASCIIAware(s)), nil
	}
	return types.NewString(toLowerASCIIAware(s)), nil
}

func toUpperASCIIAware(s string) string {
	r := []rune(s)
	for i, c := range r {
		if c >= 'a' && c <= 'z' {
			r[i] = c - ('a' - 'A')
		}
	}
	return string(r)
}

func toLowerASCIIAware(s string) string {
	r := []rune(s)
	for i, c := range r {
		if c >= 'A' && c <= 'Z' {
			r[i] = c + ('a' - 'A')
		}
	}
	return string(r)
}

// fnLen counts Unicode code points, not bytes (spec.md §4.5).
func fnLen(args []types.Value) (types.Value, error) {
	if len(args) != 1 {
		return types.Value{}, argErr("LEN")
	}
	if args[0].IsNull() {
		return types.NewNull(), nil
	}
	return types.NewInt(int64(utf8.RuneCountInString(args[0].String()))), nil
}

func fnMid(args []types.Value) (types.Value, error) {
	if len(args) != 3 {
		return types.Value{}, argErr("MID")
	}
	if args[0].IsNull() || args[1].IsNull() || args[2].IsNull() {
		return types.NewNull(), nil
	}
	r := []rune(args[0].String())
	start := int(args[1].Int())
	length := int(args[2].Int())
	if start < 1 {
		start = 1
	}
	if start > len(r) || length <= 0 {
		return types.NewString(""), nil
	}
	end := start - 1 + length
	if end > len(r) {
		end = len(r)
	}
	return types.NewString(string(r[start-1 : end])), nil
}

func fnLeftRight(args []types.Value, left bool) (types.Value, error) {
	if len(args) != 2 {
		return types.Value{}, argErr("function")
	}
	if args[0].IsNull() || args[1].IsNull() {
		return types.NewNull(), nil
	}
	r := []rune(args[0].String())
	n := int(args[1].Int())
	if n < 0 {
		n = 0
	}
	if n > len(r) {
		n = len(r)
	}
	if left {
		return types.NewString(string(r[:n])), nil
	}
	return types.NewString(string(r[len(r)-n:])), nil
}

func fnConcat(args []types.Value) (types.Value, error) {
	var sb []rune
	for _, a := range args {
		if a.IsNull() {
			return types.NewNull(), nil
		}
		sb = append(sb, []rune(a.String())...)
	}
	return types.NewString(string(sb)), nil
}

func fnCoalesce(args []types.Value) (types.Value, error) {
	for _, a := range args {
		if !a.IsNull() {
			return a, nil
		}
	}
	return types.NewNull(), nil
}

func fnNullIf(args []types.Value) (types.Value, error) {
	if len(args) != 2 {
		return types.Value{}, argErr("NULLIF")
	}
	if !args[0].IsNull() && !args[1].IsNull() && types.Equal(args[0], args[1]) {
		return types.NewNull(), nil
	}
	return args[0], nil
}

// fnCaseTernary implements CASE as the 3-argument ternary CASE(cond, then,
// else) this module supports, rather than full CASE WHEN...END syntax
// (spec.md §4.5).
func fnCaseTernary(args []types.Value) (types.Value, error) {
	if len(args) != 3 {
		return types.Value{}, argErr("CASE")
	}
	t := Truthy(args[0])
	if t != nil && *t {
		return args[1], nil
	}
	return args[2], nil
}

func fnTimePart(name string, args []types.Value) (types.Value, error) {
	if len(args) != 1 {
		return types.Value{}, argErr(name)
	}
	if args[0].IsNull() {
		return types.NewNull(), nil
	}
	if args[0].Type() != types.TypeTime {
		return types.Value{}, argErr(name)
	}
	h, m, s := args[0].UnpackTime()
	switch name {
	case "HOUR":
		return types.NewInt(int64(h)), nil
	case "MINUTE":
		return types.NewInt(int64(m)), nil
	default:
		return types.NewInt(int64(s)), nil
	}
}

func fnDatePart(name string, args []types.Value) (types.Value, error) {
	if len(args) != 1 {
		return types.Value{}, argErr(name)
	}
	if args[0].IsNull() {
		return types.NewNull(), nil
	}
	if args[0].Type() != types.TypeDate {
		return types.Value{}, argErr(name)
	}
	y, mo, d := args[0].UnpackDate()
	switch name {
	case "YEAR":
		return types.NewInt(int64(y)), nil
	case "MONTH":
		return types.NewInt(int64(mo)), nil
	default:
		return types.NewInt(int64(d)), nil
	}
}
