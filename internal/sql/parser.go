package sql

import (
	"fmt"
	"strings"

	"pagedb/internal/engine"
	"pagedb/internal/expr"
	"pagedb/internal/schema"
)

// parser walks a flat token stream with one token of lookahead, in the
// style of a conventional recursive-descent parser; askorykh-goDB instead
// slices the raw string at keyword boundaries, which the WHERE grammar
// here outgrows once And/Or nest.
type parser struct {
	toks []token
	pos  int
}

// Parse parses one statement (SELECT, INSERT, UPDATE or DELETE) and returns
// the corresponding engine Statement value (a SelectStmt, InsertStmt,
// UpdateStmt or DeleteStmt). A trailing ';' is tolerated and ignored.
func Parse(src string) (any, error) {
	toks, err := tokenize(strings.TrimSuffix(strings.TrimSpace(src), ";"))
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}

	kw, err := p.expectKeyword()
	if err != nil {
		return nil, err
	}
	var stmt any
	switch kw {
	case "SELECT":
		stmt, err = p.parseSelect()
	case "INSERT":
		stmt, err = p.parseInsert()
	case "UPDATE":
		stmt, err = p.parseUpdate()
	case "DELETE":
		stmt, err = p.parseDelete()
	default:
		return nil, fmt.Errorf("sql: unsupported statement %q", kw)
	}
	if err != nil {
		return nil, err
	}
	if err := p.expectEOF(); err != nil {
		return nil, err
	}
	return stmt, nil
}

func tokenize(src string) ([]token, error) {
	lx := newLexer(src)
	var toks []token
	for {
		t, err := lx.next()
		if err != nil {
			return nil, err
		}
		if t.kind == tokEOF {
			return toks, nil
		}
		toks = append(toks, t)
	}
}

func (p *parser) peek() token {
	if p.pos >= len(p.toks) {
		return token{kind: tokEOF}
	}
	return p.toks[p.pos]
}

func (p *parser) advance() token {
	t := p.peek()
	if p.pos < len(p.toks) {
		p.pos++
	}
	return t
}

func (p *parser) expectEOF() error {
	if p.peek().kind != tokEOF {
		return fmt.Errorf("sql: unexpected trailing token %q", p.peek().text)
	}
	return nil
}

func (p *parser) expectKeyword() (string, error) {
	t := p.advance()
	if t.kind != tokKeyword {
		return "", fmt.Errorf("sql: expected keyword, got %q", t.text)
	}
	return t.text, nil
}

func (p *parser) expectKeywordIs(kw string) error {
	got, err := p.expectKeyword()
	if err != nil {
		return err
	}
	if got != kw {
		return fmt.Errorf("sql: expected %q, got %q", kw, got)
	}
	return nil
}

func (p *parser) expectIdent() (string, error) {
	t := p.advance()
	if t.kind != tokIdent {
		return "", fmt.Errorf("sql: expected identifier, got %q", t.text)
	}
	return t.text, nil
}

func (p *parser) peekKeyword(kw string) bool {
	t := p.peek()
	return t.kind == tokKeyword && t.text == kw
}

func (p *parser) consumeIfKeyword(kw string) bool {
	if p.peekKeyword(kw) {
		p.pos++
		return true
	}
	return false
}

// parseIdentList parses a comma-separated list of identifiers.
func (p *parser) parseIdentList() ([]string, error) {
	var out []string
	for {
		name, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		out = append(out, name)
		if p.peek().kind != tokComma {
			return out, nil
		}
		p.pos++
	}
}

// parseLiteral parses one literal token into a schema.Literal.
func (p *parser) parseLiteral() (schema.Literal, error) {
	t := p.advance()
	switch t.kind {
	case tokUint:
		v, err := parseUintText(t.text)
		if err != nil {
			return schema.Literal{}, fmt.Errorf("sql: bad uint literal %q: %w", t.text, err)
		}
		return schema.Uint(v), nil
	case tokInt:
		v, err := parseIntText(t.text)
		if err != nil {
			return schema.Literal{}, fmt.Errorf("sql: bad int literal %q: %w", t.text, err)
		}
		return schema.Int(v), nil
	case tokFloat:
		v, err := parseFloatText(t.text)
		if err != nil {
			return schema.Literal{}, fmt.Errorf("sql: bad float literal %q: %w", t.text, err)
		}
		return schema.Float(v), nil
	case tokString:
		return schema.String(t.text), nil
	default:
		return schema.Literal{}, fmt.Errorf("sql: expected literal, got %q", t.text)
	}
}

// parseLimitSkip parses the optional trailing `[LIMIT N] [SKIP N]` clauses,
// in either order, per spec §6.
func (p *parser) parseLimitSkip() (limit *uint64, skip uint64, err error) {
	for {
		switch {
		case p.consumeIfKeyword("LIMIT"):
			n, err := p.parseUintToken()
			if err != nil {
				return nil, 0, err
			}
			limit = &n
		case p.consumeIfKeyword("SKIP"):
			n, err := p.parseUintToken()
			if err != nil {
				return nil, 0, err
			}
			skip = n
		default:
			return limit, skip, nil
		}
	}
}

func (p *parser) parseUintToken() (uint64, error) {
	t := p.advance()
	if t.kind != tokUint {
		return 0, fmt.Errorf("sql: expected unsigned integer, got %q", t.text)
	}
	return parseUintText(t.text)
}

// parseWhereOpt parses an optional `WHERE expr` clause.
func (p *parser) parseWhereOpt() (expr.Expression, error) {
	if !p.consumeIfKeyword("WHERE") {
		return nil, nil
	}
	return p.parseChain()
}

// parseChain parses a flat run of Primary expressions joined by a single
// operator kind (all AND or all OR); mixing AND and OR at the same nesting
// level without an explicit parenthesised group is a parse error, per spec
// §6's "strictly parenthesised" WHERE grammar.
func (p *parser) parseChain() (expr.Expression, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	var op string
	for {
		switch {
		case p.peekKeyword("AND"):
			if op == "" {
				op = "AND"
			} else if op != "AND" {
				return nil, fmt.Errorf("sql: mixing AND and OR requires parentheses")
			}
			p.pos++
			right, err := p.parsePrimary()
			if err != nil {
				return nil, err
			}
			left = expr.And{Left: left, Right: right}
		case p.peekKeyword("OR"):
			if op == "" {
				op = "OR"
			} else if op != "OR" {
				return nil, fmt.Errorf("sql: mixing AND and OR requires parentheses")
			}
			p.pos++
			right, err := p.parsePrimary()
			if err != nil {
				return nil, err
			}
			left = expr.Or{Left: left, Right: right}
		default:
			return left, nil
		}
	}
}

// parsePrimary parses either a parenthesised sub-expression or a single
// `ident OP literal` comparison.
func (p *parser) parsePrimary() (expr.Expression, error) {
	if p.peek().kind == tokLParen {
		p.pos++
		inner, err := p.parseChain()
		if err != nil {
			return nil, err
		}
		if p.peek().kind != tokRParen {
			return nil, fmt.Errorf("sql: expected ')', got %q", p.peek().text)
		}
		p.pos++
		return inner, nil
	}
	return p.parseComparison()
}

func (p *parser) parseComparison() (expr.Expression, error) {
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	opTok := p.advance()
	op, err := comparisonFor(opTok)
	if err != nil {
		return nil, err
	}
	lit, err := p.parseLiteral()
	if err != nil {
		return nil, err
	}
	return expr.Binary{Left: name, Op: op, Right: lit}, nil
}

func comparisonFor(t token) (expr.Comparison, error) {
	switch t.kind {
	case tokEq:
		return expr.Equals, nil
	case tokNotEq:
		return expr.NotEquals, nil
	case tokLt:
		return expr.LessThan, nil
	case tokLtEq:
		return expr.LessThanEquals, nil
	case tokGt:
		return expr.MoreThan, nil
	case tokGtEq:
		return expr.MoreThanEquals, nil
	default:
		return 0, fmt.Errorf("sql: expected comparison operator, got %q", t.text)
	}
}

// parseSelect parses `SELECT col,... FROM T [WHERE expr] [LIMIT N] [SKIP N]`.
// `SELECT *` requests every column.
func (p *parser) parseSelect() (engine.SelectStmt, error) {
	var cols []string
	switch p.peek().kind {
	case tokStar:
		p.pos++
	case tokIdent:
		list, err := p.parseIdentList()
		if err != nil {
			return engine.SelectStmt{}, err
		}
		cols = list
	default:
		return engine.SelectStmt{}, fmt.Errorf("sql: expected column list or '*', got %q", p.peek().text)
	}
	if err := p.expectKeywordIs("FROM"); err != nil {
		return engine.SelectStmt{}, err
	}
	table, err := p.expectIdent()
	if err != nil {
		return engine.SelectStmt{}, err
	}
	where, err := p.parseWhereOpt()
	if err != nil {
		return engine.SelectStmt{}, err
	}
	limit, skip, err := p.parseLimitSkip()
	if err != nil {
		return engine.SelectStmt{}, err
	}
	return engine.SelectStmt{Table: table, Columns: cols, Where: where, Limit: limit, Skip: skip}, nil
}

// parseInsert parses `INSERT INTO T (col,...) VALUES (lit,...)`.
func (p *parser) parseInsert() (engine.InsertStmt, error) {
	if err := p.expectKeywordIs("INTO"); err != nil {
		return engine.InsertStmt{}, err
	}
	table, err := p.expectIdent()
	if err != nil {
		return engine.InsertStmt{}, err
	}
	if p.peek().kind != tokLParen {
		return engine.InsertStmt{}, fmt.Errorf("sql: expected '(' after table name, got %q", p.peek().text)
	}
	p.pos++
	cols, err := p.parseIdentList()
	if err != nil {
		return engine.InsertStmt{}, err
	}
	if p.peek().kind != tokRParen {
		return engine.InsertStmt{}, fmt.Errorf("sql: expected ')', got %q", p.peek().text)
	}
	p.pos++

	if err := p.expectKeywordIs("VALUES"); err != nil {
		return engine.InsertStmt{}, err
	}
	if p.peek().kind != tokLParen {
		return engine.InsertStmt{}, fmt.Errorf("sql: expected '(' after VALUES, got %q", p.peek().text)
	}
	p.pos++
	var vals []schema.Literal
	for {
		lit, err := p.parseLiteral()
		if err != nil {
			return engine.InsertStmt{}, err
		}
		vals = append(vals, lit)
		if p.peek().kind != tokComma {
			break
		}
		p.pos++
	}
	if p.peek().kind != tokRParen {
		return engine.InsertStmt{}, fmt.Errorf("sql: expected ')', got %q", p.peek().text)
	}
	p.pos++

	if len(cols) != len(vals) {
		return engine.InsertStmt{}, fmt.Errorf("sql: insert column list has %d names but %d values", len(cols), len(vals))
	}
	cvs := make([]engine.ColumnValue, len(cols))
	for i := range cols {
		cvs[i] = engine.ColumnValue{Name: cols[i], Value: vals[i]}
	}
	return engine.InsertStmt{Table: table, Values: cvs}, nil
}

// parseUpdate parses `UPDATE T SET col = lit,... [WHERE expr] [LIMIT N] [SKIP N]`.
func (p *parser) parseUpdate() (engine.UpdateStmt, error) {
	table, err := p.expectIdent()
	if err != nil {
		return engine.UpdateStmt{}, err
	}
	if err := p.expectKeywordIs("SET"); err != nil {
		return engine.UpdateStmt{}, err
	}
	var set []engine.ColumnValue
	for {
		name, err := p.expectIdent()
		if err != nil {
			return engine.UpdateStmt{}, err
		}
		if p.peek().kind != tokEq {
			return engine.UpdateStmt{}, fmt.Errorf("sql: expected '=' in SET clause, got %q", p.peek().text)
		}
		p.pos++
		lit, err := p.parseLiteral()
		if err != nil {
			return engine.UpdateStmt{}, err
		}
		set = append(set, engine.ColumnValue{Name: name, Value: lit})
		if p.peek().kind != tokComma {
			break
		}
		p.pos++
	}
	where, err := p.parseWhereOpt()
	if err != nil {
		return engine.UpdateStmt{}, err
	}
	limit, skip, err := p.parseLimitSkip()
	if err != nil {
		return engine.UpdateStmt{}, err
	}
	return engine.UpdateStmt{Table: table, Set: set, Where: where, Limit: limit, Skip: skip}, nil
}

// parseDelete parses `DELETE FROM T [WHERE expr]`. The statement always
// parses successfully; engine.ExecuteDelete is what rejects it.
func (p *parser) parseDelete() (engine.DeleteStmt, error) {
	if err := p.expectKeywordIs("FROM"); err != nil {
		return engine.DeleteStmt{}, err
	}
	table, err := p.expectIdent()
	if err != nil {
		return engine.DeleteStmt{}, err
	}
	where, err := p.parseWhereOpt()
	if err != nil {
		return engine.DeleteStmt{}, err
	}
	return engine.DeleteStmt{Table: table, Where: where}, nil
}
