// Package expr implements the arithmetic expression language used by
// transformation rules.
//
// The grammar is deliberately minimal: numeric literals, identifiers,
// the binary operators + - * / ^, unary minus, and parentheses. There is
// no assignment, no function call syntax, and no control flow.
//
// Precedence, highest first:
//
//	unary minus
//	^ (right-associative)
//	* /
//	+ -
//
// All binary operators except ^ are left-associative.
//
// # Usage
//
// Compile an expression once and evaluate it many times:
//
//	e, err := expr.Compile("eyeBlinkLeft * 100")
//	if err != nil {
//	    // *expr.SyntaxError or *expr.ParseError
//	}
//	v := e.Evaluate(map[string]float64{"eyeBlinkLeft": 0.5}) // 50
//
// Identifiers with no binding evaluate to 0. Division follows IEEE 754
// semantics: dividing by zero yields an infinity or NaN rather than an
// error. Callers that need finite, bounded output clamp the result
// themselves.
package expr
