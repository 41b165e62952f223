package syntax

import (
	"fmt"
	"strconv"

	"github.com/tabexcli/tabex/pkg/value"
)

// ParseError reports a syntax error at a byte offset into the source
// expression.
type ParseError struct {
	Pos int
	Msg string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at offset %d: %s", e.Pos, e.Msg)
}

const (
	precLowest = iota
	precOr
	precAnd
	precEquality
	precComparison
	precAdditive
	precMultiplicative
	precUnary
)

var binaryPrecedence = map[string]int{
	"or": precOr, "||": precOr,
	"and": precAnd, "&&": precAnd,
	"==": precEquality, "!=": precEquality,
	"<": precComparison, "<=": precComparison, ">": precComparison, ">=": precComparison,
	"+": precAdditive, "-": precAdditive,
	"*": precMultiplicative, "/": precMultiplicative, "%": precMultiplicative,
}

// Parser is a recursive-descent, precedence-climbing parser over the
// expression language.
type Parser struct {
	lex  Lexer
	cur  Token
	peek Token
}

// Parse parses a complete expression from src.
func Parse(src string) (Node, error) {
	p := &Parser{lex: *NewLexer(src)}
	p.advance()
	p.advance()

	expr, err := p.parseExpr(precLowest)
	if err != nil {
		return nil, err
	}
	if p.cur.Kind != EOF {
		return nil, &ParseError{Pos: p.cur.Pos, Msg: "unexpected trailing input: " + p.cur.Literal}
	}
	return expr, nil
}

func (p *Parser) advance() {
	p.cur = p.peek
	p.peek = p.lex.NextToken()
}

func (p *Parser) snapshot() (Lexer, Token, Token) {
	return p.lex, p.cur, p.peek
}

func (p *Parser) restore(lex Lexer, cur, peek Token) {
	p.lex = lex
	p.cur = cur
	p.peek = peek
}

func (p *Parser) expect(k Kind) (Token, error) {
	if p.cur.Kind != k {
		return Token{}, &ParseError{Pos: p.cur.Pos, Msg: fmt.Sprintf("expected %s, got %s %q", k, p.cur.Kind, p.cur.Literal)}
	}
	tok := p.cur
	p.advance()
	return tok, nil
}

func (p *Parser) parseExpr(minPrec int) (Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for p.cur.Kind == OPERATOR {
		prec, ok := binaryPrecedence[p.cur.Literal]
		if !ok || prec < minPrec {
			break
		}
		op := p.cur.Literal
		p.advance()
		right, err := p.parseExpr(prec + 1)
		if err != nil {
			return nil, err
		}
		left = FunctionCall{Name: op, Args: []Argument{{Value: left}, {Value: right}}}
	}

	return left, nil
}

func (p *Parser) parseUnary() (Node, error) {
	if p.cur.Kind == OPERATOR && (p.cur.Literal == "not" || p.cur.Literal == "!") {
		p.advance()
		operand, err := p.parseExpr(precUnary)
		if err != nil {
			return nil, err
		}
		return FunctionCall{Name: "not", Args: []Argument{{Value: operand}}}, nil
	}
	if p.cur.Kind == OPERATOR && p.cur.Literal == "-" {
		p.advance()
		operand, err := p.parseExpr(precUnary)
		if err != nil {
			return nil, err
		}
		// A minus sign directly on a numeric literal yields a negative
		// literal, so col(-1) stays statically analyzable.
		if lit, ok := operand.(Literal); ok {
			if i, isInt := lit.Value.Int(); isInt {
				return Literal{Value: value.FromInt(-i)}, nil
			}
			if f, isFloat := lit.Value.Float(); isFloat {
				return Literal{Value: value.FromFloat(-f)}, nil
			}
		}
		return FunctionCall{Name: "neg", Args: []Argument{{Value: operand}}}, nil
	}
	return p.parsePrimary()
}

func (p *Parser) parsePrimary() (Node, error) {
	switch p.cur.Kind {
	case INT:
		lit := p.cur.Literal
		p.advance()
		n, err := strconv.ParseInt(lit, 10, 64)
		if err != nil {
			return nil, &ParseError{Pos: p.cur.Pos, Msg: "invalid integer literal: " + lit}
		}
		return Literal{Value: value.FromInt(n)}, nil

	case FLOAT:
		lit := p.cur.Literal
		p.advance()
		f, err := strconv.ParseFloat(lit, 64)
		if err != nil {
			return nil, &ParseError{Pos: p.cur.Pos, Msg: "invalid float literal: " + lit}
		}
		return Literal{Value: value.FromFloat(f)}, nil

	case STRING:
		lit := p.cur.Literal
		p.advance()
		return Literal{Value: value.FromString(lit)}, nil

	case LBRACK:
		return p.parseListLiteral()

	case LPAREN:
		if lambda, ok, err := p.tryParseParenLambda(); err != nil {
			return nil, err
		} else if ok {
			return lambda, nil
		}
		p.advance() // consume (
		inner, err := p.parseExpr(precLowest)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(RPAREN); err != nil {
			return nil, err
		}
		return inner, nil

	case IDENT:
		return p.parseIdentOrCall()

	default:
		return nil, &ParseError{Pos: p.cur.Pos, Msg: "unexpected token " + p.cur.Kind.String()}
	}
}

func (p *Parser) parseListLiteral() (Node, error) {
	p.advance() // consume [
	var items []Node
	for p.cur.Kind != RBRACK {
		item, err := p.parseExpr(precLowest)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		if p.cur.Kind == COMMA {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(RBRACK); err != nil {
		return nil, err
	}
	return ListLiteral{Items: items}, nil
}

// tryParseParenLambda attempts to parse "(" ident ("," ident)* ")" "=>" to
// recognize a multi-parameter lambda. It backtracks cleanly (restoring
// lexer/token state) when the lookahead doesn't match, so that ordinary
// parenthesized grouping keeps working.
func (p *Parser) tryParseParenLambda() (Node, bool, error) {
	savedLex, savedCur, savedPeek := p.snapshot()

	p.advance() // consume (
	var params []string
	ok := true
	for p.cur.Kind != RPAREN {
		if p.cur.Kind != IDENT {
			ok = false
			break
		}
		params = append(params, p.cur.Literal)
		p.advance()
		if p.cur.Kind == COMMA {
			p.advance()
			continue
		}
		break
	}

	if ok && p.cur.Kind == RPAREN {
		p.advance() // consume )
		if p.cur.Kind == ARROW {
			p.advance()
			body, err := p.parseExpr(precLowest)
			if err != nil {
				return nil, false, err
			}
			return Lambda{Params: params, Body: body}, true, nil
		}
	}

	p.restore(savedLex, savedCur, savedPeek)
	return nil, false, nil
}

func (p *Parser) parseIdentOrCall() (Node, error) {
	name := p.cur.Literal
	p.advance()

	switch name {
	case "true":
		return Literal{Value: value.FromBool(true)}, nil
	case "false":
		return Literal{Value: value.FromBool(false)}, nil
	case "none", "null":
		return Literal{Value: value.None()}, nil
	}

	if p.cur.Kind == ARROW {
		p.advance()
		body, err := p.parseExpr(precLowest)
		if err != nil {
			return nil, err
		}
		return Lambda{Params: []string{name}, Body: body}, nil
	}

	if p.cur.Kind != LPAREN {
		return Identifier{Name: name}, nil
	}

	p.advance() // consume (
	var args []Argument
	for p.cur.Kind != RPAREN {
		arg, err := p.parseArgument()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.cur.Kind == COMMA {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(RPAREN); err != nil {
		return nil, err
	}
	return FunctionCall{Name: name, Args: args}, nil
}

func (p *Parser) parseArgument() (Argument, error) {
	if p.cur.Kind == IDENT && p.peek.Kind == COLON {
		name := p.cur.Literal
		p.advance() // ident
		p.advance() // colon
		val, err := p.parseExpr(precLowest)
		if err != nil {
			return Argument{}, err
		}
		return Argument{Name: name, Value: val}, nil
	}
	val, err := p.parseExpr(precLowest)
	if err != nil {
		return Argument{}, err
	}
	return Argument{Value: val}, nil
}
