// pkg/sql/eval/like.go
package eval

import (
	"minidb/pkg/sql/parser"
	"minidb/pkg/types"
)

func evalLike(e *parser.LikeExpr, ctx *Context) (types.Value, error) {
	left, err := Eval(e.Left, ctx)
	if err != nil {
		return types.Value{}, err
	}
	pattern, err := Eval(e.Pattern, ctx)
	if err != nil {
		return types.Value{}, err
	}
	if left.IsNull() || pattern.IsNull() {
		return types.NewNull(), nil
	}
	matched := matchLike([]rune(left.String()), []rune(pattern.Text()))
	if e.Not {
		return types.NewBoolean(!matched), nil
	}
	return types.NewBoolean(matched), nil
}

// matchLike implements spec.md §4.3's wildcard set: '%' and '*' match any
// run of characters (including none), '_' and '?' match exactly one, and
// a backslash escapes the following wildcard into a literal character.
func matchLike(text, pattern []rune) bool {
	return likeMatch(text, pattern)
}

func likeMatch(text, pattern []rune) bool {
	if len(pattern) == 0 {
		return len(text) == 0
	}
	p := pattern[0]
	switch p {
	case '\\':
		if len(pattern) < 2 {
			return len(text) == 1 && text[0] == p
		}
		if len(text) == 0 || text[0] != pattern[1] {
			return false
		}
		return likeMatch(text[1:], pattern[2:])
	case '%', '*':
		if likeMatch(text, pattern[1:]) {
			return true
		}
		for i := 0; i < len(text); i++ {
			if likeMatch(text[i+1:], pattern[1:]) {
				return true
			}
		}
		return false
	case '_', '?':
		if len(text) == 0 {
			return false
		}
		return likeMatch(text[1:], pattern[1:])
	default:
		if len(text) == 0 || text[0] != p {
			return false
		}
		return likeMatch(text[1:], pattern[1:])
	}
}
