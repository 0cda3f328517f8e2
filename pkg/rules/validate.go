package rules

import (
	"errors"
	"fmt"
	"strings"

	"facelink/hermes/pkg/expr"
)

// ValidationError describes why a single rule failed validation.
type ValidationError struct {
	// Name is the rule's name, possibly empty.
	Name string

	// Expression is the rule's expression source, possibly empty.
	Expression string

	// Message is the human-readable failure description.
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("rule %q: %s", e.Name, e.Message)
	}
	return e.Message
}

// InvalidRule records a rule that failed validation, with the failure
// message.
type InvalidRule struct {
	Name       string
	Expression string
	Err        string
}

// Validate checks a single rule and compiles its expression. It returns
// a *ValidationError when the name is missing, the expression is empty,
// min exceeds max, or the expression fails to compile.
func Validate(r Rule) (*CompiledRule, error) {
	if strings.TrimSpace(r.Name) == "" {
		return nil, &ValidationError{
			Name:       r.Name,
			Expression: r.Expression,
			Message:    "rule name is missing",
		}
	}

	if strings.TrimSpace(r.Expression) == "" {
		return nil, &ValidationError{
			Name:       r.Name,
			Expression: r.Expression,
			Message:    "empty expression",
		}
	}

	if r.Min > r.Max {
		return nil, &ValidationError{
			Name:       r.Name,
			Expression: r.Expression,
			Message:    fmt.Sprintf("min %v is greater than max %v", r.Min, r.Max),
		}
	}

	compiled, err := expr.Compile(r.Expression)
	if err != nil {
		var syntaxErr *expr.SyntaxError
		if errors.As(err, &syntaxErr) {
			return nil, &ValidationError{
				Name:       r.Name,
				Expression: r.Expression,
				Message:    fmt.Sprintf("Syntax error in expression %q: %s", r.Expression, syntaxErr.Message),
			}
		}
		return nil, &ValidationError{
			Name:       r.Name,
			Expression: r.Expression,
			Message:    fmt.Sprintf("Error parsing the expression: %v", err),
		}
	}

	return &CompiledRule{Rule: r, compiled: compiled}, nil
}

// ValidateAll validates every entry independently and partitions the
// batch into valid and invalid rules. Entries never short-circuit each
// other. A repeated name keeps the last valid entry.
func ValidateAll(entries []Rule) (valid []*CompiledRule, invalid []InvalidRule) {
	byName := make(map[string]int)

	for _, entry := range entries {
		compiled, err := Validate(entry)
		if err != nil {
			var vErr *ValidationError
			errors.As(err, &vErr)
			invalid = append(invalid, InvalidRule{
				Name:       vErr.Name,
				Expression: vErr.Expression,
				Err:        vErr.Message,
			})
			continue
		}

		// Last one wins for duplicate names.
		if i, seen := byName[compiled.Name]; seen {
			valid[i] = compiled
			continue
		}
		byName[compiled.Name] = len(valid)
		valid = append(valid, compiled)
	}

	return valid, invalid
}
