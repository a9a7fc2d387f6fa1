package resolve

import (
	"fmt"
	"strconv"
)

// Node is a compiled expression tree node.
type Node interface {
	node()
}

// NumberLit is a numeric literal.
type NumberLit struct {
	Value float64
}

// BoolLit is a true/false literal.
type BoolLit struct {
	Value bool
}

// PathRef is a field path reference, resolved against a build at
// evaluation time.
type PathRef struct {
	Path string
}

// UnaryOp is negation or logical not.
type UnaryOp struct {
	Op      string
	Operand Node
}

// BinaryOp is an arithmetic, comparison, or boolean operation.
type BinaryOp struct {
	Op    string
	Left  Node
	Right Node
}

func (*NumberLit) node() {}
func (*BoolLit) node()   {}
func (*PathRef) node()   {}
func (*UnaryOp) node()   {}
func (*BinaryOp) node()  {}

// Compile parses an expression into a tree. The grammar is fixed and
// minimal: numbers, field paths, + - * /, parentheses, one comparison
// per level, and and/or/not. There is no call syntax, no indexing, and
// no name lookup beyond field paths, so rule text can never execute
// anything.
//
// Precedence, loosest first: or, and, not, comparison, additive,
// multiplicative, unary minus.
func Compile(input string) (Node, error) {
	p := newParser(input)
	n := p.parseOr()
	if p.err != nil {
		return nil, p.err
	}
	if p.cur.Type != TokenEOF {
		return nil, fmt.Errorf("unexpected token %q", p.cur.Literal)
	}
	return n, nil
}

type parser struct {
	lex  *Lexer
	cur  Token
	peek Token
	err  error
}

func newParser(input string) *parser {
	p := &parser{lex: NewLexer(input)}
	p.next()
	p.next()
	return p
}

func (p *parser) next() {
	p.cur = p.peek
	p.peek = p.lex.NextToken()
}

func (p *parser) fail(format string, args ...any) Node {
	if p.err == nil {
		p.err = fmt.Errorf(format, args...)
	}
	return nil
}

func (p *parser) parseOr() Node {
	left := p.parseAnd()
	for p.err == nil && p.cur.Type == TokenOr {
		p.next()
		right := p.parseAnd()
		left = &BinaryOp{Op: "or", Left: left, Right: right}
	}
	return left
}

func (p *parser) parseAnd() Node {
	left := p.parseNot()
	for p.err == nil && p.cur.Type == TokenAnd {
		p.next()
		right := p.parseNot()
		left = &BinaryOp{Op: "and", Left: left, Right: right}
	}
	return left
}

func (p *parser) parseNot() Node {
	if p.cur.Type == TokenNot {
		p.next()
		return &UnaryOp{Op: "not", Operand: p.parseNot()}
	}
	return p.parseComparison()
}

var comparisonOps = map[TokenType]string{
	TokenLT:  "<",
	TokenLTE: "<=",
	TokenGT:  ">",
	TokenGTE: ">=",
	TokenEQ:  "==",
	TokenNEQ: "!=",
}

func (p *parser) parseComparison() Node {
	left := p.parseAdditive()
	op, ok := comparisonOps[p.cur.Type]
	if !ok {
		return left
	}
	p.next()
	right := p.parseAdditive()
	return &BinaryOp{Op: op, Left: left, Right: right}
}

func (p *parser) parseAdditive() Node {
	left := p.parseMultiplicative()
	for p.err == nil && (p.cur.Type == TokenPlus || p.cur.Type == TokenMinus) {
		op := p.cur.Literal
		p.next()
		right := p.parseMultiplicative()
		left = &BinaryOp{Op: op, Left: left, Right: right}
	}
	return left
}

func (p *parser) parseMultiplicative() Node {
	left := p.parseUnary()
	for p.err == nil && (p.cur.Type == TokenStar || p.cur.Type == TokenSlash) {
		op := p.cur.Literal
		p.next()
		right := p.parseUnary()
		left = &BinaryOp{Op: op, Left: left, Right: right}
	}
	return left
}

func (p *parser) parseUnary() Node {
	if p.cur.Type == TokenMinus {
		p.next()
		return &UnaryOp{Op: "-", Operand: p.parseUnary()}
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() Node {
	switch p.cur.Type {
	case TokenNumber:
		v, err := strconv.ParseFloat(p.cur.Literal, 64)
		if err != nil {
			return p.fail("bad number %q", p.cur.Literal)
		}
		p.next()
		return &NumberLit{Value: v}
	case TokenTrue:
		p.next()
		return &BoolLit{Value: true}
	case TokenFalse:
		p.next()
		return &BoolLit{Value: false}
	case TokenPath:
		n := &PathRef{Path: p.cur.Literal}
		p.next()
		return n
	case TokenLParen:
		p.next()
		n := p.parseOr()
		if p.cur.Type != TokenRParen {
			return p.fail("missing closing parenthesis")
		}
		p.next()
		return n
	case TokenEOF:
		return p.fail("unexpected end of expression")
	}
	return p.fail("unexpected token %q", p.cur.Literal)
}
