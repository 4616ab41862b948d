// pkg/sql/lexer/token.go
package lexer

import "strings"

// TokenType is the tag of a lexical token.
type TokenType int

const (
	EOF TokenType = iota
	ILLEGAL

	// Literals
	IDENT
	INT
	FLOAT
	STRING

	// Operators
	PLUS
	MINUS
	STAR
	SLASH
	PERCENT
	EQ
	NEQ
	LT
	LTE
	GT
	GTE

	// Punctuation
	COMMA
	SEMICOLON
	LPAREN
	RPAREN
	DOT

	// Clause keywords
	SELECT
	FROM
	WHERE
	INSERT
	INTO
	VALUES
	UPDATE
	SET
	DELETE
	CREATE
	DROP
	TABLE
	INDEX
	ON
	PRIMARY
	KEY
	UNIQUE
	NOT
	NULL_KW
	REFERENCES
	FOREIGN
	CHECK
	AND
	OR
	LIKE
	IN
	EXISTS
	ORDER
	BY
	AS
	ASC
	DESC
	DISTINCT
	LIMIT
	JOIN
	INNER
	STRICT
	IS
	ANALYZE
	EXPLAIN
	QUERY
	PLAN

	// Value-type keywords (declared column types)
	INT_TYPE
	FLOAT_TYPE
	BOOLEAN_TYPE
	DECIMAL_TYPE
	STRING_TYPE
	BLOB_TYPE
	TIME_TYPE
	DATE_TYPE

	// Aggregate function names
	COUNT
	SUM
	AVG
	MIN
	MAX

	// Scalar function names
	ABS
	SQRT
	MOD
	POW
	ROUND
	FLOOR
	CEIL
	UPPER
	LOWER
	LEN
	MID
	LEFT
	RIGHT
	CONCAT
	COALESCE
	NULLIF
	CASE
	HOUR
	MINUTE
	SECOND
	YEAR
	MONTH
	DAY
)

// Token is one lexical unit: its type, its literal text, and its
// zero-based line/column for structured diagnostics (spec.md §4.2).
type Token struct {
	Type    TokenType
	Literal string
	Line    int
	Column  int
	Pos     int // byte offset in source
}

var keywords = map[string]TokenType{
	"SELECT":     SELECT,
	"FROM":       FROM,
	"WHERE":      WHERE,
	"INSERT":     INSERT,
	"INTO":       INTO,
	"VALUES":     VALUES,
	"UPDATE":     UPDATE,
	"SET":        SET,
	"DELETE":     DELETE,
	"CREATE":     CREATE,
	"DROP":       DROP,
	"TABLE":      TABLE,
	"INDEX":      INDEX,
	"ON":         ON,
	"PRIMARY":    PRIMARY,
	"KEY":        KEY,
	"UNIQUE":     UNIQUE,
	"NOT":        NOT,
	"NULL":       NULL_KW,
	"REFERENCES": REFERENCES,
	"FOREIGN":    FOREIGN,
	"CHECK":      CHECK,
	"AND":        AND,
	"OR":         OR,
	"LIKE":       LIKE,
	"IN":         IN,
	"EXISTS":     EXISTS,
	"ORDER":      ORDER,
	"BY":         BY,
	"AS":         AS,
	"ASC":        ASC,
	"DESC":       DESC,
	"DISTINCT":   DISTINCT,
	"LIMIT":      LIMIT,
	"JOIN":       JOIN,
	"INNER":      INNER,
	"STRICT":     STRICT,
	"IS":         IS,
	"ANALYZE":    ANALYZE,
	"EXPLAIN":    EXPLAIN,
	"QUERY":      QUERY,
	"PLAN":       PLAN,

	"INT":     INT_TYPE,
	"FLOAT":   FLOAT_TYPE,
	"BOOLEAN": BOOLEAN_TYPE,
	"DECIMAL": DECIMAL_TYPE,
	"STRING":  STRING_TYPE,
	"TEXT":    STRING_TYPE,
	"BLOB":    BLOB_TYPE,
	"TIME":    TIME_TYPE,
	"DATE":    DATE_TYPE,

	"COUNT": COUNT,
	"SUM":   SUM,
	"AVG":   AVG,
	"MIN":   MIN,
	"MAX":   MAX,

	"ABS":      ABS,
	"SQRT":     SQRT,
	"MOD":      MOD,
	"POW":      POW,
	"ROUND":    ROUND,
	"FLOOR":    FLOOR,
	"CEIL":     CEIL,
	"UPPER":    UPPER,
	"LOWER":    LOWER,
	"LEN":      LEN,
	"MID":      MID,
	"LEFT":     LEFT,
	"RIGHT":    RIGHT,
	"CONCAT":   CONCAT,
	"COALESCE": COALESCE,
	"NULLIF":   NULLIF,
	"CASE":     CASE,
	"HOUR":     HOUR,
	"MINUTE":   MINUTE,
	"SECOND":   SECOND,
	"YEAR":     YEAR,
	"MONTH":    MONTH,
	"DAY":      DAY,
}

// LookupIdent classifies an uppercased identifier as a keyword token, or
// returns IDENT. Identifiers themselves stay case-sensitive; only
// keyword matching is case-insensitive (spec.md §6).
func LookupIdent(upper string) TokenType {
	if tok, ok := keywords[upper]; ok {
		return tok
	}
	return IDENT
}

var tokenNames = map[TokenType]string{
	EOF: "EOF", ILLEGAL: "ILLEGAL", IDENT: "IDENT", INT: "INT", FLOAT: "FLOAT", STRING: "STRING",
	PLUS: "+", MINUS: "-", STAR: "*", SLASH: "/", PERCENT: "%",
	EQ: "=", NEQ: "!=", LT: "<", LTE: "<=", GT: ">", GTE: ">=",
	COMMA: ",", SEMICOLON: ";", LPAREN: "(", RPAREN: ")", DOT: ".",
}

func init() {
	for name, tok := range keywords {
		tokenNames[tok] = name
	}
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return "TOKEN(" + strings.TrimSpace("?") + ")"
}
