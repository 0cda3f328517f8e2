package expr

import "fmt"

// SyntaxError reports a failure detected while tokenizing an expression:
// an invalid character, unbalanced parentheses, or an empty operand
// position such as "()".
type SyntaxError struct {
	// Source is the expression text that failed to tokenize.
	Source string

	// Position is the zero-based rune offset of the offending input,
	// or -1 when the error concerns the expression as a whole.
	Position int

	// Message describes the failure.
	Message string
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	if e.Position >= 0 {
		return fmt.Sprintf("syntax error at position %d: %s", e.Position, e.Message)
	}
	return fmt.Sprintf("syntax error: %s", e.Message)
}

// ParseError reports a token stream that cannot be assembled into a valid
// expression tree, such as a dangling operator or a missing operand.
type ParseError struct {
	// Source is the expression text that failed to parse.
	Source string

	// Position is the zero-based rune offset of the offending token,
	// or -1 when the error concerns the expression as a whole.
	Position int

	// Message describes the failure.
	Message string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Position >= 0 {
		return fmt.Sprintf("parse error at position %d: %s", e.Position, e.Message)
	}
	return fmt.Sprintf("parse error: %s", e.Message)
}
