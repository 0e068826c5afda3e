package condition

import (
	"fmt"
	"strings"
)

// Conjunction is an ordered, non-empty sequence of children rendered joined
// by " and ", wrapped in its own parentheses, with an optional permission
// clause appended outside those parentheses.
type Conjunction struct {
	Children []Expr
	Policy   PermissionPolicy
}

// Disjunction is the OR counterpart of Conjunction.
type Disjunction struct {
	Children []Expr
	Policy   PermissionPolicy
}

// And builds a Conjunction. Creating one with no children is a construction
// error. Permission options are applied in order, but Bypass always wins
// over Require regardless of option order (see renderGroup).
func And(children []Expr, opts ...PermOpt) (*Conjunction, error) {
	if len(children) == 0 {
		return nil, fmt.Errorf("condition: conjunction requires at least one child")
	}
	var policy PermissionPolicy
	for _, opt := range opts {
		opt(&policy)
	}
	return &Conjunction{Children: children, Policy: policy}, nil
}

// Or builds a Disjunction. Creating one with no children is a construction
// error.
func Or(children []Expr, opts ...PermOpt) (*Disjunction, error) {
	if len(children) == 0 {
		return nil, fmt.Errorf("condition: disjunction requires at least one child")
	}
	var policy PermissionPolicy
	for _, opt := range opts {
		opt(&policy)
	}
	return &Disjunction{Children: children, Policy: policy}, nil
}

// Not wraps child in a Negation. Total over any Expr.
func Not(child Expr) *Negation {
	return &Negation{Child: child}
}

// Parenthesize wraps child in a Paren. Total over any Expr.
func Parenthesize(child Expr) *Paren {
	return &Paren{Child: child}
}

func (c *Conjunction) Render() string {
	return renderGroup(c.Children, " and ", c.Policy)
}

func (c *Disjunction) Render() string {
	return renderGroup(c.Children, " or ", c.Policy)
}

func renderGroup(children []Expr, sep string, policy PermissionPolicy) string {
	parts := make([]string, len(children))
	for i, child := range children {
		parts[i] = child.Render()
	}
	inner := "(" + strings.Join(parts, sep) + ")"
	if policy.Require && !policy.Bypass {
		return inner + " and " + policy.clause()
	}
	return inner
}
