package expr

import "fmt"

// Compile tokenizes and parses source into an Expression.
//
// It returns a *SyntaxError when tokenization fails (invalid characters,
// unbalanced parentheses, empty operand positions) and a *ParseError when
// the token stream cannot build a valid expression tree (for example a
// dangling operator).
func Compile(source string) (*Expression, error) {
	tokens, err := tokenize(source)
	if err != nil {
		return nil, err
	}

	p := &parser{source: source, tokens: tokens}

	root, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}

	// The whole token stream must be consumed.
	if tok := p.peek(); tok.kind != tokenEOF {
		return nil, &ParseError{
			Source:   source,
			Position: tok.pos,
			Message:  fmt.Sprintf("unexpected %q", tok.text),
		}
	}

	return &Expression{source: source, root: root}, nil
}

// parser is a precedence-climbing parser over a token stream.
type parser struct {
	source string
	tokens []token
	next   int
}

func (p *parser) peek() token {
	return p.tokens[p.next]
}

func (p *parser) advance() token {
	tok := p.tokens[p.next]
	if tok.kind != tokenEOF {
		p.next++
	}
	return tok
}

// precedence of binary operators. Zero means "not a binary operator".
func precedence(kind tokenKind) int {
	switch kind {
	case tokenPlus, tokenMinus:
		return 1
	case tokenStar, tokenSlash:
		return 2
	case tokenCaret:
		return 3
	}
	return 0
}

func operator(kind tokenKind) binaryOp {
	switch kind {
	case tokenPlus:
		return opAdd
	case tokenMinus:
		return opSub
	case tokenStar:
		return opMul
	case tokenSlash:
		return opDiv
	default:
		return opPow
	}
}

// parseExpression parses binary operator chains at or above minPrec.
// ^ is right-associative; the other operators are left-associative.
func (p *parser) parseExpression(minPrec int) (node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for {
		tok := p.peek()
		prec := precedence(tok.kind)
		if prec == 0 || prec < minPrec {
			return left, nil
		}
		p.advance()

		nextMin := prec + 1
		if tok.kind == tokenCaret {
			nextMin = prec
		}

		right, err := p.parseExpression(nextMin)
		if err != nil {
			return nil, err
		}

		left = &binaryNode{op: operator(tok.kind), left: left, right: right}
	}
}

// parseUnary parses an optional run of unary minus operators followed by
// an operand. Unary minus binds tighter than every binary operator,
// including ^.
func (p *parser) parseUnary() (node, error) {
	if p.peek().kind == tokenMinus {
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &negNode{operand: operand}, nil
	}
	return p.parseOperand()
}

// parseOperand parses a literal, an identifier, or a parenthesized
// subexpression.
func (p *parser) parseOperand() (node, error) {
	tok := p.advance()

	switch tok.kind {
	case tokenNumber:
		return &literalNode{value: tok.value}, nil

	case tokenIdent:
		return &identNode{name: tok.text}, nil

	case tokenLParen:
		inner, err := p.parseExpression(0)
		if err != nil {
			return nil, err
		}
		closing := p.advance()
		if closing.kind != tokenRParen {
			return nil, &ParseError{
				Source:   p.source,
				Position: closing.pos,
				Message:  "expected ')'",
			}
		}
		return inner, nil

	case tokenEOF:
		return nil, &ParseError{
			Source:   p.source,
			Position: tok.pos,
			Message:  "unexpected end of expression",
		}

	default:
		return nil, &ParseError{
			Source:   p.source,
			Position: tok.pos,
			Message:  fmt.Sprintf("unexpected %q", tok.text),
		}
	}
}
