package expr

import (
	"fmt"
	"strconv"
	"unicode"
)

// tokenKind identifies a lexical token class.
type tokenKind int

const (
	tokenNumber tokenKind = iota
	tokenIdent
	tokenPlus
	tokenMinus
	tokenStar
	tokenSlash
	tokenCaret
	tokenLParen
	tokenRParen
	tokenEOF
)

// token is a single lexical token with its source position.
type token struct {
	kind  tokenKind
	text  string
	value float64 // populated for tokenNumber
	pos   int     // rune offset in the source
}

// tokenize splits source into tokens. It returns a *SyntaxError for
// invalid characters, unbalanced parentheses, empty operand positions
// ("()"), and malformed numeric literals. The returned slice always ends
// with a tokenEOF token.
func tokenize(source string) ([]token, error) {
	runes := []rune(source)
	tokens := make([]token, 0, len(runes))
	depth := 0

	i := 0
	for i < len(runes) {
		r := runes[i]

		switch {
		case unicode.IsSpace(r):
			i++

		case r >= '0' && r <= '9' || r == '.':
			start := i
			for i < len(runes) && (runes[i] >= '0' && runes[i] <= '9' || runes[i] == '.') {
				i++
			}
			text := string(runes[start:i])
			value, err := strconv.ParseFloat(text, 64)
			if err != nil {
				return nil, &SyntaxError{
					Source:   source,
					Position: start,
					Message:  fmt.Sprintf("invalid numeric literal %q", text),
				}
			}
			tokens = append(tokens, token{kind: tokenNumber, text: text, value: value, pos: start})

		case r == '_' || unicode.IsLetter(r):
			start := i
			for i < len(runes) && (runes[i] == '_' || unicode.IsLetter(runes[i]) || unicode.IsDigit(runes[i])) {
				i++
			}
			tokens = append(tokens, token{kind: tokenIdent, text: string(runes[start:i]), pos: start})

		case r == '(':
			depth++
			tokens = append(tokens, token{kind: tokenLParen, text: "(", pos: i})
			i++

		case r == ')':
			depth--
			if depth < 0 {
				return nil, &SyntaxError{
					Source:   source,
					Position: i,
					Message:  "unbalanced parentheses: unexpected ')'",
				}
			}
			if len(tokens) > 0 && tokens[len(tokens)-1].kind == tokenLParen {
				return nil, &SyntaxError{
					Source:   source,
					Position: i,
					Message:  "empty operand position: '()' contains no expression",
				}
			}
			tokens = append(tokens, token{kind: tokenRParen, text: ")", pos: i})
			i++

		case r == '+' || r == '-' || r == '*' || r == '/' || r == '^':
			var kind tokenKind
			switch r {
			case '+':
				kind = tokenPlus
			case '-':
				kind = tokenMinus
			case '*':
				kind = tokenStar
			case '/':
				kind = tokenSlash
			case '^':
				kind = tokenCaret
			}
			tokens = append(tokens, token{kind: kind, text: string(r), pos: i})
			i++

		default:
			return nil, &SyntaxError{
				Source:   source,
				Position: i,
				Message:  fmt.Sprintf("invalid character %q", string(r)),
			}
		}
	}

	if depth > 0 {
		return nil, &SyntaxError{
			Source:   source,
			Position: len(runes),
			Message:  "unbalanced parentheses: missing ')'",
		}
	}

	if len(tokens) == 0 {
		return nil, &SyntaxError{
			Source:   source,
			Position: -1,
			Message:  "expression is empty",
		}
	}

	tokens = append(tokens, token{kind: tokenEOF, pos: len(runes)})
	return tokens, nil
}
