// pkg/sql/parser/parser.go
package parser

import (
	"strconv"
	"strings"

	"minidb/pkg/sql/lexer"
	"minidb/pkg/types"
)

// Parser is a recursive-descent, Pratt-style SQL parser over a cur/peek
// token pair (spec.md §4.2). It never touches a catalog: table and column
// existence is resolved later, against live schema state, by the
// executor.
type Parser struct {
	lexer      *lexer.Lexer
	cur        lexer.Token
	peek       lexer.Token
	tokenIndex int
}

// New creates a Parser over the given SQL source text.
func New(input string) *Parser {
	p := &Parser{lexer: lexer.New(input)}
	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) nextToken() {
	p.cur = p.peek
	p.peek = p.lexer.NextToken()
	p.tokenIndex++
}

// AtEOF reports whether the parser has consumed every statement in its
// input, letting a caller loop Parse across a semicolon-separated script.
func (p *Parser) AtEOF() bool { return p.cur.Type == lexer.EOF }

// Parse parses a single statement and, if one follows, consumes its
// trailing semicolon, leaving the parser on the first token after it.
func (p *Parser) Parse() (Statement, error) {
	var stmt Statement
	var err error

	switch p.cur.Type {
	case lexer.CREATE:
		stmt, err = p.parseCreate()
	case lexer.DROP:
		stmt, err = p.parseDrop()
	case lexer.INSERT:
		stmt, err = p.parseInsert()
	case lexer.UPDATE:
		stmt, err = p.parseUpdate()
	case lexer.DELETE:
		stmt, err = p.parseDelete()
	case lexer.SELECT:
		stmt, err = p.parseSelect()
	case lexer.EXPLAIN:
		stmt, err = p.parseExplain()
	case lexer.ANALYZE:
		stmt, err = p.parseAnalyze()
	case lexer.EOF:
		return nil, p.errf(UnexpectedEnd, "empty statement", "")
	default:
		return nil, p.unexpectedCur("a statement")
	}
	if err != nil {
		return nil, err
	}
	if p.peekIs(lexer.SEMICOLON) {
		p.nextToken()
	}
	p.nextToken()
	return stmt, nil
}

// --- DDL ---

func (p *Parser) parseCreate() (Statement, error) {
	p.nextToken() // consume CREATE
	strict := false
	if p.cur.Type == lexer.STRICT {
		strict = true
		p.nextToken()
	}
	switch p.cur.Type {
	case lexer.TABLE:
		return p.parseCreateTable(strict)
	case lexer.INDEX:
		return p.parseCreateIndex()
	default:
		return nil, p.unexpectedCur("TABLE or INDEX")
	}
}

func (p *Parser) parseCreateTable(strict bool) (Statement, error) {
	if !p.expectPeek(lexer.IDENT) {
		return nil, p.missingPeek("table name")
	}
	stmt := &CreateTableStmt{TableName: p.cur.Literal, Strict: strict}
	if !p.expectPeek(lexer.LPAREN) {
		return nil, p.missingPeek("(")
	}
	p.nextToken()
	for {
		if p.cur.Type == lexer.CHECK {
			expr, err := p.parseParenCheck()
			if err != nil {
				return nil, err
			}
			stmt.TableChecks = append(stmt.TableChecks, expr)
		} else {
			col, err := p.parseColumnSpec()
			if err != nil {
				return nil, err
			}
			stmt.Columns = append(stmt.Columns, col)
		}
		if !p.peekIs(lexer.COMMA) {
			break
		}
		p.nextToken()
		p.nextToken()
	}
	if !p.expectPeek(lexer.RPAREN) {
		return nil, p.missingPeek(")")
	}
	if len(stmt.Columns) == 0 {
		return nil, p.errf(InvalidSyntax, "table must declare at least one column", "")
	}
	if len(stmt.Columns) > MaxColumns {
		return nil, p.errf(TooManyColumns, "table declares more than the maximum number of columns", "")
	}
	return stmt, nil
}

func (p *Parser) parseParenCheck() (Expression, error) {
	if !p.expectPeek(lexer.LPAREN) {
		return nil, p.missingPeek("(")
	}
	p.nextToken()
	expr, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	if !p.expectPeek(lexer.RPAREN) {
		return nil, p.missingPeek(")")
	}
	return expr, nil
}

func (p *Parser) parseColumnSpec() (ColumnSpec, error) {
	if p.cur.Type != lexer.IDENT {
		return ColumnSpec{}, p.unexpectedCur("column name")
	}
	spec := ColumnSpec{Name: p.cur.Literal}
	p.nextToken()

	switch p.cur.Type {
	case lexer.INT_TYPE:
		spec.Type = types.TypeInt
	case lexer.FLOAT_TYPE:
		spec.Type = types.TypeFloat
	case lexer.BOOLEAN_TYPE:
		spec.Type = types.TypeBoolean
	case lexer.STRING_TYPE:
		spec.Type = types.TypeString
	case lexer.BLOB_TYPE:
		spec.Type = types.TypeBlob
	case lexer.TIME_TYPE:
		spec.Type = types.TypeTime
	case lexer.DATE_TYPE:
		spec.Type = types.TypeDate
	case lexer.DECIMAL_TYPE:
		spec.Type = types.TypeDecimal
		if p.peekIs(lexer.LPAREN) {
			p.nextToken()
			if !p.expectPeek(lexer.INT) {
				return ColumnSpec{}, p.missingPeek("precision")
			}
			prec, err := strconv.Atoi(p.cur.Literal)
			if err != nil {
				return ColumnSpec{}, p.invalidNumber()
			}
			spec.Precision = prec
			if !p.expectPeek(lexer.COMMA) {
				return ColumnSpec{}, p.missingPeek(",")
			}
			if !p.expectPeek(lexer.INT) {
				return ColumnSpec{}, p.missingPeek("scale")
			}
			scale, err := strconv.Atoi(p.cur.Literal)
			if err != nil {
				return ColumnSpec{}, p.invalidNumber()
			}
			spec.Scale = scale
			if !p.expectPeek(lexer.RPAREN) {
				return ColumnSpec{}, p.missingPeek(")")
			}
		}
	default:
		return ColumnSpec{}, p.unexpectedCur("a column type")
	}

	for {
		switch p.peek.Type {
		case lexer.NOT:
			p.nextToken()
			if !p.expectPeek(lexer.NULL_KW) {
				return ColumnSpec{}, p.missingPeek("NULL")
			}
			spec.NotNull = true
		case lexer.PRIMARY:
			p.nextToken()
			if !p.expectPeek(lexer.KEY) {
				return ColumnSpec{}, p.missingPeek("KEY")
			}
			spec.PrimaryKey = true
		case lexer.UNIQUE:
			p.nextToken()
			spec.Unique = true
		case lexer.FOREIGN:
			p.nextToken()
			if !p.expectPeek(lexer.KEY) {
				return ColumnSpec{}, p.missingPeek("KEY")
			}
			if err := p.parseReferences(&spec); err != nil {
				return ColumnSpec{}, err
			}
		case lexer.REFERENCES:
			p.nextToken()
			if err := p.parseReferences(&spec); err != nil {
				return ColumnSpec{}, err
			}
		case lexer.CHECK:
			p.nextToken()
			expr, err := p.parseParenCheck()
			if err != nil {
				return ColumnSpec{}, err
			}
			spec.HasCheck = true
			spec.CheckExpr = expr
		default:
			return spec, nil
		}
	}
}

// parseReferences parses `table (column)` with cur already on REFERENCES.
func (p *Parser) parseReferences(spec *ColumnSpec) error {
	spec.ForeignKey = true
	if !p.expectPeek(lexer.IDENT) {
		return p.missingPeek("referenced table")
	}
	spec.RefTable = p.cur.Literal
	if !p.expectPeek(lexer.LPAREN) {
		return p.missingPeek("(")
	}
	if !p.expectPeek(lexer.IDENT) {
		return p.missingPeek("referenced column")
	}
	spec.RefColumn = p.cur.Literal
	if !p.expectPeek(lexer.RPAREN) {
		return p.missingPeek(")")
	}
	return nil
}

func (p *Parser) parseCreateIndex() (Statement, error) {
	if !p.expectPeek(lexer.IDENT) {
		return nil, p.missingPeek("index name")
	}
	stmt := &CreateIndexStmt{IndexName: p.cur.Literal}
	if !p.expectPeek(lexer.ON) {
		return nil, p.missingPeek("ON")
	}
	if !p.expectPeek(lexer.IDENT) {
		return nil, p.missingPeek("table name")
	}
	stmt.TableName = p.cur.Literal
	if !p.expectPeek(lexer.LPAREN) {
		return nil, p.missingPeek("(")
	}
	p.nextToken()
	for {
		if p.cur.Type != lexer.IDENT {
			return nil, p.unexpectedCur("column name")
		}
		stmt.Columns = append(stmt.Columns, p.cur.Literal)
		if !p.peekIs(lexer.COMMA) {
			break
		}
		p.nextToken()
		p.nextToken()
	}
	if !p.expectPeek(lexer.RPAREN) {
		return nil, p.missingPeek(")")
	}
	if p.peekIs(lexer.IDENT) {
		up := strings.ToUpper(p.peek.Literal)
		if up == "HASH" || up == "BTREE" {
			p.nextToken()
			stmt.Kind = up
		}
	}
	return stmt, nil
}

func (p *Parser) parseDrop() (Statement, error) {
	p.nextToken() // consume DROP
	switch p.cur.Type {
	case lexer.TABLE:
		if !p.expectPeek(lexer.IDENT) {
			return nil, p.missingPeek("table name")
		}
		return &DropTableStmt{TableName: p.cur.Literal}, nil
	case lexer.INDEX:
		if !p.expectPeek(lexer.IDENT) {
			return nil, p.missingPeek("index name")
		}
		return &DropIndexStmt{IndexName: p.cur.Literal}, nil
	default:
		return nil, p.unexpectedCur("TABLE or INDEX")
	}
}

// --- DML ---

func (p *Parser) parseInsert() (Statement, error) {
	if !p.expectPeek(lexer.INTO) {
		return nil, p.missingPeek("INTO")
	}
	if !p.expectPeek(lexer.IDENT) {
		return nil, p.missingPeek("table name")
	}
	stmt := &InsertStmt{TableName: p.cur.Literal}

	if p.peekIs(lexer.LPAREN) {
		p.nextToken()
		p.nextToken()
		for {
			if p.cur.Type != lexer.IDENT {
				return nil, p.unexpectedCur("column name")
			}
			stmt.Columns = append(stmt.Columns, p.cur.Literal)
			if !p.peekIs(lexer.COMMA) {
				break
			}
			p.nextToken()
			p.nextToken()
		}
		if !p.expectPeek(lexer.RPAREN) {
			return nil, p.missingPeek(")")
		}
	}

	if !p.expectPeek(lexer.VALUES) {
		return nil, p.missingPeek("VALUES")
	}
	for {
		if !p.expectPeek(lexer.LPAREN) {
			return nil, p.missingPeek("(")
		}
		p.nextToken()
		var row []Expression
		for {
			expr, err := p.parseExpression(LOWEST)
			if err != nil {
				return nil, err
			}
			row = append(row, expr)
			if !p.peekIs(lexer.COMMA) {
				break
			}
			p.nextToken()
			p.nextToken()
		}
		if !p.expectPeek(lexer.RPAREN) {
			return nil, p.missingPeek(")")
		}
		stmt.Rows = append(stmt.Rows, row)
		if !p.peekIs(lexer.COMMA) {
			break
		}
		p.nextToken()
	}
	return stmt, nil
}

func (p *Parser) parseUpdate() (Statement, error) {
	if !p.expectPeek(lexer.IDENT) {
		return nil, p.missingPeek("table name")
	}
	stmt := &UpdateStmt{TableName: p.cur.Literal}
	if !p.expectPeek(lexer.SET) {
		return nil, p.missingPeek("SET")
	}
	p.nextToken()
	for {
		if p.cur.Type != lexer.IDENT {
			return nil, p.unexpectedCur("column name")
		}
		col := p.cur.Literal
		if !p.expectPeek(lexer.EQ) {
			return nil, p.missingPeek("=")
		}
		p.nextToken()
		val, err := p.parseExpression(LOWEST)
		if err != nil {
			return nil, err
		}
		stmt.Assignments = append(stmt.Assignments, Assignment{Column: col, Value: val})
		if !p.peekIs(lexer.COMMA) {
			break
		}
		p.nextToken()
		p.nextToken()
	}
	if p.peekIs(lexer.WHERE) {
		p.nextToken()
		p.nextToken()
		where, err := p.parseExpression(LOWEST)
		if err != nil {
			return nil, err
		}
		stmt.Where = where
	}
	return stmt, nil
}

func (p *Parser) parseDelete() (Statement, error) {
	if !p.expectPeek(lexer.FROM) {
		return nil, p.missingPeek("FROM")
	}
	if !p.expectPeek(lexer.IDENT) {
		return nil, p.missingPeek("table name")
	}
	stmt := &DeleteStmt{TableName: p.cur.Literal}
	if p.peekIs(lexer.WHERE) {
		p.nextToken()
		p.nextToken()
		where, err := p.parseExpression(LOWEST)
		if err != nil {
			return nil, err
		}
		stmt.Where = where
	}
	return stmt, nil
}

// --- SELECT ---

func (p *Parser) parseSelect() (Statement, error) {
	return p.parseSelectBody()
}

// parseSelectBody parses a SELECT with cur positioned on the SELECT
// token; it is shared by top-level SELECTs and parenthesized subqueries.
func (p *Parser) parseSelectBody() (*SelectStmt, error) {
	stmt := &SelectStmt{}
	if p.peekIs(lexer.DISTINCT) {
		p.nextToken()
		stmt.Distinct = true
	}
	p.nextToken()

	for {
		item, err := p.parseSelectItem()
		if err != nil {
			return nil, err
		}
		stmt.Projections = append(stmt.Projections, item)
		if !p.peekIs(lexer.COMMA) {
			break
		}
		p.nextToken()
		p.nextToken()
	}

	if !p.expectPeek(lexer.FROM) {
		return nil, p.missingPeek("FROM")
	}
	if !p.expectPeek(lexer.IDENT) {
		return nil, p.missingPeek("table name")
	}
	stmt.From = p.cur.Literal

	join, err := p.parseOptionalJoin()
	if err != nil {
		return nil, err
	}
	stmt.Join = join

	if p.peekIs(lexer.WHERE) {
		p.nextToken()
		p.nextToken()
		where, err := p.parseExpression(LOWEST)
		if err != nil {
			return nil, err
		}
		stmt.Where = where
	}

	if p.peekIs(lexer.ORDER) {
		p.nextToken()
		if !p.expectPeek(lexer.BY) {
			return nil, p.missingPeek("BY")
		}
		p.nextToken()
		for {
			expr, err := p.parseExpression(LOWEST)
			if err != nil {
				return nil, err
			}
			item := OrderItem{Expr: expr}
			if p.peekIs(lexer.ASC) {
				p.nextToken()
			} else if p.peekIs(lexer.DESC) {
				p.nextToken()
				item.Desc = true
			}
			stmt.OrderBy = append(stmt.OrderBy, item)
			if !p.peekIs(lexer.COMMA) {
				break
			}
			p.nextToken()
			p.nextToken()
		}
	}

	if p.peekIs(lexer.LIMIT) {
		p.nextToken()
		p.nextToken()
		lim, err := p.parseExpression(LOWEST)
		if err != nil {
			return nil, err
		}
		stmt.Limit = lim
	}

	return stmt, nil
}

func (p *Parser) parseOptionalJoin() (*JoinClause, error) {
	kind := InnerJoin
	switch {
	case p.peekIs(lexer.JOIN):
		p.nextToken()
	case p.peekIs(lexer.INNER):
		p.nextToken()
		if !p.expectPeek(lexer.JOIN) {
			return nil, p.missingPeek("JOIN")
		}
	case p.peekIs(lexer.LEFT):
		p.nextToken()
		if !p.expectPeek(lexer.JOIN) {
			return nil, p.missingPeek("JOIN")
		}
		kind = LeftJoin
	default:
		return nil, nil
	}
	if !p.expectPeek(lexer.IDENT) {
		return nil, p.missingPeek("joined table name")
	}
	join := &JoinClause{Kind: kind, Table: p.cur.Literal}
	if !p.expectPeek(lexer.ON) {
		return nil, p.missingPeek("ON")
	}
	p.nextToken()
	on, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	join.On = on
	return join, nil
}

func (p *Parser) parseSelectItem() (SelectItem, error) {
	if p.cur.Type == lexer.STAR {
		return SelectItem{Star: true}, nil
	}
	expr, err := p.parseExpression(LOWEST)
	if err != nil {
		return SelectItem{}, err
	}
	item := SelectItem{Expr: expr}
	if p.peekIs(lexer.AS) {
		p.nextToken()
		if !p.expectPeek(lexer.IDENT) {
			return SelectItem{}, p.missingPeek("alias")
		}
		item.Alias = p.cur.Literal
	} else if p.peekIs(lexer.IDENT) {
		p.nextToken()
		item.Alias = p.cur.Literal
	}
	return item, nil
}

// --- supplemented statements ---

func (p *Parser) parseExplain() (Statement, error) {
	p.nextToken() // consume EXPLAIN
	if p.cur.Type == lexer.QUERY {
		if !p.expectPeek(lexer.PLAN) {
			return nil, p.missingPeek("PLAN")
		}
		p.nextToken()
	}
	if p.cur.Type != lexer.SELECT {
		return nil, p.unexpectedCur("SELECT")
	}
	query, err := p.parseSelectBody()
	if err != nil {
		return nil, err
	}
	return &ExplainStmt{Query: query}, nil
}

func (p *Parser) parseAnalyze() (Statement, error) {
	if !p.expectPeek(lexer.IDENT) {
		return nil, p.missingPeek("table name")
	}
	return &AnalyzeStmt{TableName: p.cur.Literal}, nil
}

// --- expressions ---

const (
	_ int = iota
	LOWEST
	OR_PREC
	AND_PREC
	EQUALS // =, !=, <>, <, <=, >, >=, LIKE, IN, IS
	SUM    // +, -
	PRODUCT
	PREFIX // unary -, NOT
	CALL   // .
)

var precedences = map[lexer.TokenType]int{
	lexer.OR:      OR_PREC,
	lexer.AND:     AND_PREC,
	lexer.EQ:      EQUALS,
	lexer.NEQ:     EQUALS,
	lexer.LT:      EQUALS,
	lexer.LTE:     EQUALS,
	lexer.GT:      EQUALS,
	lexer.GTE:     EQUALS,
	lexer.LIKE:    EQUALS,
	lexer.IN:      EQUALS,
	lexer.IS:      EQUALS,
	lexer.NOT:     EQUALS,
	lexer.PLUS:    SUM,
	lexer.MINUS:   SUM,
	lexer.STAR:    PRODUCT,
	lexer.SLASH:   PRODUCT,
	lexer.PERCENT: PRODUCT,
	lexer.DOT:     CALL,
}

var scalarFuncTokens = map[lexer.TokenType]bool{
	lexer.ABS: true, lexer.SQRT: true, lexer.MOD: true, lexer.POW: true,
	lexer.ROUND: true, lexer.FLOOR: true, lexer.CEIL: true, lexer.UPPER: true,
	lexer.LOWER: true, lexer.LEN: true, lexer.MID: true, lexer.LEFT: true,
	lexer.RIGHT: true, lexer.CONCAT: true, lexer.COALESCE: true, lexer.NULLIF: true,
	lexer.CASE: true, lexer.HOUR: true, lexer.MINUTE: true, lexer.SECOND: true,
	lexer.YEAR: true, lexer.MONTH: true, lexer.DAY: true,
}

var aggregateFuncTokens = map[lexer.TokenType]bool{
	lexer.COUNT: true, lexer.SUM: true, lexer.AVG: true, lexer.MIN: true, lexer.MAX: true,
}

func (p *Parser) parseExpression(precedence int) (Expression, error) {
	left, err := p.parsePrefixExpression()
	if err != nil {
		return nil, err
	}
	for precedence < p.peekPrecedence() {
		p.nextToken()
		left, err = p.parseInfixExpression(left)
		if err != nil {
			return nil, err
		}
	}
	return left, nil
}

func (p *Parser) parsePrefixExpression() (Expression, error) {
	switch {
	case p.cur.Type == lexer.INT:
		n, err := strconv.ParseInt(p.cur.Literal, 10, 64)
		if err != nil {
			return nil, p.invalidNumber()
		}
		return &Literal{Value: types.NewInt(n)}, nil
	case p.cur.Type == lexer.FLOAT:
		f, err := strconv.ParseFloat(p.cur.Literal, 64)
		if err != nil {
			return nil, p.invalidNumber()
		}
		return &Literal{Value: types.NewFloat(f)}, nil
	case p.cur.Type == lexer.STRING:
		return &Literal{Value: types.NewString(p.cur.Literal)}, nil
	case p.cur.Type == lexer.NULL_KW:
		return &Literal{Value: types.NewNull()}, nil
	case p.cur.Type == lexer.NOT:
		if p.peekIs(lexer.EXISTS) {
			p.nextToken()
			return p.parseExistsExpr(true)
		}
		p.nextToken()
		right, err := p.parseExpression(PREFIX)
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{Op: lexer.NOT, Right: right}, nil
	case p.cur.Type == lexer.MINUS:
		p.nextToken()
		right, err := p.parseExpression(PREFIX)
		if err != nil {
			return nil, err
		}
		if lit, ok := right.(*Literal); ok {
			switch lit.Value.Type() {
			case types.TypeInt:
				return &Literal{Value: types.NewInt(-lit.Value.Int())}, nil
			case types.TypeFloat:
				return &Literal{Value: types.NewFloat(-lit.Value.Float())}, nil
			}
		}
		return &UnaryExpr{Op: lexer.MINUS, Right: right}, nil
	case p.cur.Type == lexer.EXISTS:
		return p.parseExistsExpr(false)
	case p.cur.Type == lexer.LPAREN:
		p.nextToken()
		if p.cur.Type == lexer.SELECT {
			sub, err := p.parseSelectBody()
			if err != nil {
				return nil, err
			}
			if !p.expectPeek(lexer.RPAREN) {
				return nil, p.missingPeek(")")
			}
			return &SubqueryExpr{Query: sub}, nil
		}
		expr, err := p.parseExpression(LOWEST)
		if err != nil {
			return nil, err
		}
		if !p.expectPeek(lexer.RPAREN) {
			return nil, p.missingPeek(")")
		}
		return expr, nil
	case p.cur.Type == lexer.IDENT:
		if p.peekIs(lexer.LPAREN) {
			return p.parseFunctionCall(p.cur.Literal)
		}
		if p.peekIs(lexer.DOT) {
			table := p.cur.Literal
			p.nextToken() // DOT
			if !p.expectPeek(lexer.IDENT) {
				return nil, p.missingPeek("column name")
			}
			return &ColumnRef{Table: table, Name: p.cur.Literal}, nil
		}
		return &ColumnRef{Name: p.cur.Literal}, nil
	case aggregateFuncTokens[p.cur.Type] || scalarFuncTokens[p.cur.Type]:
		return p.parseFunctionCall(strings.ToUpper(p.cur.Literal))
	case p.cur.Type == lexer.ILLEGAL && p.cur.Literal == "unterminated string":
		return nil, p.errf(UnterminatedString, "unterminated string literal", "")
	default:
		return nil, p.unexpectedCur("an expression")
	}
}

func (p *Parser) parseExistsExpr(not bool) (Expression, error) {
	if !p.expectPeek(lexer.LPAREN) {
		return nil, p.missingPeek("(")
	}
	if !p.expectPeek(lexer.SELECT) {
		return nil, p.missingPeek("SELECT")
	}
	sub, err := p.parseSelectBody()
	if err != nil {
		return nil, err
	}
	if !p.expectPeek(lexer.RPAREN) {
		return nil, p.missingPeek(")")
	}
	return &ExistsExpr{Subquery: sub, Not: not}, nil
}

func (p *Parser) parseFunctionCall(name string) (Expression, error) {
	if !p.expectPeek(lexer.LPAREN) {
		return nil, p.missingPeek("(")
	}
	call := &FunctionCall{Name: name}
	if p.peekIs(lexer.STAR) {
		p.nextToken()
		call.Star = true
		if !p.expectPeek(lexer.RPAREN) {
			return nil, p.missingPeek(")")
		}
		return call, nil
	}
	if p.peekIs(lexer.RPAREN) {
		p.nextToken()
		return call, nil
	}
	p.nextToken()
	if p.cur.Type == lexer.DISTINCT {
		call.Distinct = true
		p.nextToken()
	}
	for {
		arg, err := p.parseExpression(LOWEST)
		if err != nil {
			return nil, err
		}
		call.Args = append(call.Args, arg)
		if !p.peekIs(lexer.COMMA) {
			break
		}
		p.nextToken()
		p.nextToken()
	}
	if !p.expectPeek(lexer.RPAREN) {
		return nil, p.missingPeek(")")
	}
	return call, nil
}

func (p *Parser) parseInfixExpression(left Expression) (Expression, error) {
	switch p.cur.Type {
	case lexer.DOT:
		colRef, ok := left.(*ColumnRef)
		if !ok {
			return nil, p.unexpectedCur("identifier before '.'")
		}
		if !p.expectPeek(lexer.IDENT) {
			return nil, p.missingPeek("column name")
		}
		return &ColumnRef{Table: colRef.Name, Name: p.cur.Literal}, nil
	case lexer.LIKE:
		p.nextToken()
		pattern, err := p.parseExpression(EQUALS)
		if err != nil {
			return nil, err
		}
		return &LikeExpr{Left: left, Pattern: pattern}, nil
	case lexer.IS:
		not := false
		if p.peekIs(lexer.NOT) {
			p.nextToken()
			not = true
		}
		if !p.expectPeek(lexer.NULL_KW) {
			return nil, p.missingPeek("NULL")
		}
		return &IsNullExpr{Expr: left, Not: not}, nil
	case lexer.IN:
		return p.parseInExpression(left, false)
	case lexer.NOT:
		if p.peekIs(lexer.LIKE) {
			p.nextToken()
			p.nextToken()
			pattern, err := p.parseExpression(EQUALS)
			if err != nil {
				return nil, err
			}
			return &LikeExpr{Left: left, Pattern: pattern, Not: true}, nil
		}
		if p.peekIs(lexer.IN) {
			p.nextToken()
			return p.parseInExpression(left, true)
		}
		return nil, p.missingPeek("LIKE or IN after NOT")
	default:
		op := p.cur.Type
		prec := p.curPrecedence()
		p.nextToken()
		right, err := p.parseExpression(prec)
		if err != nil {
			return nil, err
		}
		return &BinaryExpr{Left: left, Op: op, Right: right}, nil
	}
}

func (p *Parser) parseInExpression(left Expression, not bool) (Expression, error) {
	if !p.expectPeek(lexer.LPAREN) {
		return nil, p.missingPeek("(")
	}
	if p.peekIs(lexer.SELECT) {
		p.nextToken()
		sub, err := p.parseSelectBody()
		if err != nil {
			return nil, err
		}
		if !p.expectPeek(lexer.RPAREN) {
			return nil, p.missingPeek(")")
		}
		return &InExpr{Left: left, Subquery: sub, Not: not}, nil
	}
	p.nextToken()
	var list []Expression
	for {
		item, err := p.parseExpression(LOWEST)
		if err != nil {
			return nil, err
		}
		list = append(list, item)
		if !p.peekIs(lexer.COMMA) {
			break
		}
		p.nextToken()
		p.nextToken()
	}
	if !p.expectPeek(lexer.RPAREN) {
		return nil, p.missingPeek(")")
	}
	return &InExpr{Left: left, List: list, Not: not}, nil
}

// --- token helpers ---

func (p *Parser) peekIs(t lexer.TokenType) bool { return p.peek.Type == t }

func (p *Parser) expectPeek(t lexer.TokenType) bool {
	if p.peekIs(t) {
		p.nextToken()
		return true
	}
	return false
}

func (p *Parser) peekPrecedence() int {
	if prec, ok := precedences[p.peek.Type]; ok {
		return prec
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if prec, ok := precedences[p.cur.Type]; ok {
		return prec
	}
	return LOWEST
}

// --- diagnostics ---

func (p *Parser) errf(code ErrorCode, message, expected string) *Diagnostic {
	return &Diagnostic{
		Code: code, Message: message, Expected: expected, Found: p.cur.Type.String(),
		Line: p.cur.Line, Column: p.cur.Column, TokenIndex: p.tokenIndex,
	}
}

func (p *Parser) unexpectedCur(expected string) *Diagnostic {
	return &Diagnostic{
		Code: UnexpectedToken, Message: "unexpected token", Expected: expected,
		Found: p.cur.Literal, Line: p.cur.Line, Column: p.cur.Column, TokenIndex: p.tokenIndex,
	}
}

func (p *Parser) missingPeek(expected string) *Diagnostic {
	return &Diagnostic{
		Code: MissingToken, Message: "missing expected token", Expected: expected,
		Found: p.peek.Literal, Line: p.peek.Line, Column: p.peek.Column, TokenIndex: p.tokenIndex,
	}
}

func (p *Parser) invalidNumber() *Diagnostic {
	return &Diagnostic{
		Code: InvalidNumber, Message: "invalid numeric literal", Found: p.cur.Literal,
		Line: p.cur.Line, Column: p.cur.Column, TokenIndex: p.tokenIndex,
	}
}

// ParseExpressionString parses a standalone expression. The executor does
// not use it: CHECK constraints stay in the form parsed with their CREATE
// TABLE statement.
func ParseExpressionString(input string) (Expression, error) {
	p := New(input)
	return p.parseExpression(LOWEST)
}
