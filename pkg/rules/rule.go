package rules

import (
	"encoding/json"
	"fmt"
	"math"

	"facelink/hermes/pkg/expr"
)

// Rule is one named transformation from tracking values to an avatar
// parameter. Immutable once validated.
type Rule struct {
	// Name is the output parameter name. Unique within a rule file
	// (duplicates resolve last-one-wins, see Decode).
	Name string `json:"name"`

	// Expression is the arithmetic expression source. The JSON field is
	// "func"; a null or absent value is normalized to the empty string.
	Expression string `json:"func"`

	// Min and Max bound the evaluated output.
	Min float64 `json:"min"`
	Max float64 `json:"max"`

	// DefaultValue is substituted when evaluation produces a non-finite
	// result, and is reported to the endpoint as the parameter default.
	DefaultValue float64 `json:"defaultValue"`
}

// UnmarshalJSON decodes a rule entry, normalizing a null or absent
// "func" field to the empty string so it fails validation as an empty
// expression rather than as a decode error.
func (r *Rule) UnmarshalJSON(data []byte) error {
	var raw struct {
		Name         string  `json:"name"`
		Func         *string `json:"func"`
		Min          float64 `json:"min"`
		Max          float64 `json:"max"`
		DefaultValue float64 `json:"defaultValue"`
	}

	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	r.Name = raw.Name
	r.Min = raw.Min
	r.Max = raw.Max
	r.DefaultValue = raw.DefaultValue
	if raw.Func != nil {
		r.Expression = *raw.Func
	} else {
		r.Expression = ""
	}

	return nil
}

// Decode parses a JSON rule-file payload into its rule entries.
// The payload must be a JSON array. Duplicate names are not rejected
// here; validation keeps the last entry for a repeated name.
func Decode(data []byte) ([]Rule, error) {
	var entries []Rule
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to deserialize transformation rules: %w", err)
	}
	return entries, nil
}

// CompiledRule pairs a validated rule with its compiled expression.
// Produced only by Validate; safe for concurrent use.
type CompiledRule struct {
	Rule

	compiled *expr.Expression
}

// Evaluate computes the rule's output for the given tracking-value
// bindings. Non-finite expression results are replaced by the rule's
// default value, and the result is clamped to [Min, Max].
func (c *CompiledRule) Evaluate(bindings map[string]float64) float64 {
	v := c.compiled.Evaluate(bindings)

	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = c.DefaultValue
	}

	if v < c.Min {
		v = c.Min
	}
	if v > c.Max {
		v = c.Max
	}

	return v
}

// Expr exposes the compiled expression, e.g. for identifier inspection.
func (c *CompiledRule) Expr() *expr.Expression {
	return c.compiled
}
