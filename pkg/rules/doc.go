// Package rules defines the transformation-rule data model and its
// validation.
//
// A transformation rule maps live tracking values onto one avatar
// parameter: it names the parameter, carries an arithmetic expression
// over tracking-value identifiers, and bounds the output with a
// [min, max] range and a default value.
//
// Rules arrive as a JSON array (see Decode). Each entry is validated
// independently: a bad entry never aborts the batch, it is collected as
// an InvalidRule alongside whichever entries validated cleanly. Validation
// compiles the expression through package expr, so a validated rule is
// immediately evaluable.
//
// Evaluation through CompiledRule.Evaluate clamps the raw expression
// result to the rule's range and substitutes the default value when the
// expression produces a non-finite result (for example a division by
// zero).
package rules
