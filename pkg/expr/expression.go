package expr

import (
	"math"
	"sort"
)

// Expression is a compiled arithmetic expression. It is immutable and
// safe for concurrent evaluation.
type Expression struct {
	source string
	root   node
}

// node is a single operator-tree node.
type node interface {
	eval(bindings map[string]float64) float64
	collect(idents map[string]struct{})
}

// literalNode is a numeric constant.
type literalNode struct {
	value float64
}

func (n *literalNode) eval(map[string]float64) float64 { return n.value }
func (n *literalNode) collect(map[string]struct{})     {}

// identNode references a named input value. Unbound names evaluate to 0.
type identNode struct {
	name string
}

func (n *identNode) eval(bindings map[string]float64) float64 {
	return bindings[n.name]
}

func (n *identNode) collect(idents map[string]struct{}) {
	idents[n.name] = struct{}{}
}

// negNode is unary minus.
type negNode struct {
	operand node
}

func (n *negNode) eval(bindings map[string]float64) float64 {
	return -n.operand.eval(bindings)
}

func (n *negNode) collect(idents map[string]struct{}) {
	n.operand.collect(idents)
}

// binaryOp identifies a binary operator.
type binaryOp int

const (
	opAdd binaryOp = iota
	opSub
	opMul
	opDiv
	opPow
)

// binaryNode applies a binary operator to two operands.
type binaryNode struct {
	op    binaryOp
	left  node
	right node
}

func (n *binaryNode) eval(bindings map[string]float64) float64 {
	l := n.left.eval(bindings)
	r := n.right.eval(bindings)

	switch n.op {
	case opAdd:
		return l + r
	case opSub:
		return l - r
	case opMul:
		return l * r
	case opDiv:
		// IEEE 754: x/0 is an infinity, 0/0 is NaN.
		return l / r
	case opPow:
		return math.Pow(l, r)
	}
	return math.NaN()
}

func (n *binaryNode) collect(idents map[string]struct{}) {
	n.left.collect(idents)
	n.right.collect(idents)
}

// Source returns the original expression text.
func (e *Expression) Source() string {
	return e.source
}

// Evaluate computes the expression's value with the given identifier
// bindings. Identifiers absent from bindings evaluate to 0. The result
// may be non-finite (infinity or NaN); Evaluate never clamps.
func (e *Expression) Evaluate(bindings map[string]float64) float64 {
	return e.root.eval(bindings)
}

// Identifiers returns the sorted set of identifier names referenced by
// the expression.
func (e *Expression) Identifiers() []string {
	set := make(map[string]struct{})
	e.root.collect(set)

	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
