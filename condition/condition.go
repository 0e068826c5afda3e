// Package condition implements the composable boolean-expression algebra that
// underlies every query this library builds: a small set of immutable node
// types, each able to render itself to a single SQL-like fragment, plus the
// permission-scoping protocol attached to the two group variants.
//
// Nodes are small concrete types behind the Expr interface rather than a class
// hierarchy: each node type implements Render for itself, and the combinators
// (And, Or, Not, Parenthesize) are free functions rather than methods. This
// keeps every node a pure, side-effect-free value —
// rendering never touches global state, and composing two nodes always
// produces a new node rather than mutating either operand.
package condition

import (
	"fmt"
	"strings"
)

// Expr is the base interface every condition node satisfies. Render is the
// node's single responsibility: produce the SQL-like fragment for this node
// and nothing else. It is a pure function of the node's own fields.
type Expr interface {
	Render() string
}

// IsEmptyable is implemented by node types whose Render can legitimately
// produce the empty string (Inclusion, Exclusion, Raw). Callers must check
// IsEmpty before splicing such a node into a larger expression.
type IsEmptyable interface {
	IsEmpty() bool
}

// Operator is a field-comparison operator.
type Operator string

const (
	OpContains Operator = "contains"
	OpMatches  Operator = "matches"
	OpEQ       Operator = "="
	OpGT       Operator = ">"
	OpGE       Operator = ">="
	OpLT       Operator = "<"
	OpLE       Operator = "<="
)

// FieldComparison renders "<field> <op> <value>". String values are escaped
// and single-quoted; numeric and boolean values render unquoted.
type FieldComparison struct {
	Field string
	Op    Operator
	Value any
}

// NewField validates field and builds a field comparison.
func NewField(field string, op Operator, value any) (*FieldComparison, error) {
	if err := ValidateFieldName(field); err != nil {
		return nil, err
	}
	return &FieldComparison{Field: field, Op: op, Value: value}, nil
}

func (c *FieldComparison) Render() string {
	return fmt.Sprintf("%s %s %s", c.Field, c.Op, renderValue(c.Value))
}

func renderValue(v any) string {
	switch t := v.(type) {
	case string:
		return "'" + EscapeValue(t) + "'"
	default:
		return fmt.Sprint(v)
	}
}

// FuzzyContains renders a fuzzy-match clause against a bound query parameter,
// mirroring Vespa's `({maxEditDistance:N, prefix:true}fuzzy(@ref))` annotation.
type FuzzyContains struct {
	Field           string
	QueryRef        string
	MaxEditDistance int
	Prefix          bool
}

// NewFuzzyContains validates field and builds a fuzzy-match condition.
func NewFuzzyContains(field, queryRef string, maxEditDistance int, prefix bool) (*FuzzyContains, error) {
	if err := ValidateFieldName(field); err != nil {
		return nil, err
	}
	if queryRef == "" {
		return nil, fmt.Errorf("condition: fuzzy-contains query reference must not be empty")
	}
	return &FuzzyContains{Field: field, QueryRef: queryRef, MaxEditDistance: maxEditDistance, Prefix: prefix}, nil
}

func (c *FuzzyContains) Render() string {
	return fmt.Sprintf("%s contains ({maxEditDistance:%d, prefix:%t}fuzzy(@%s))",
		c.Field, c.MaxEditDistance, c.Prefix, c.QueryRef)
}

// UserInput renders a lexical-search clause with a target-hits hint.
type UserInput struct {
	QueryRef   string
	TargetHits int
}

// NewUserInput builds a lexical-search condition bound to queryRef.
func NewUserInput(queryRef string, targetHits int) (*UserInput, error) {
	if queryRef == "" {
		return nil, fmt.Errorf("condition: user-input query reference must not be empty")
	}
	return &UserInput{QueryRef: queryRef, TargetHits: targetHits}, nil
}

func (c *UserInput) Render() string {
	if c.TargetHits > 0 {
		return fmt.Sprintf(`([{"targetHits":%d}]userInput(@%s))`, c.TargetHits, c.QueryRef)
	}
	return fmt.Sprintf("userInput(@%s)", c.QueryRef)
}

// NearestNeighbor renders a vector-similarity clause. The canonical argument
// order is (field, queryRef) — see DESIGN.md for the Open Question this
// resolves (the source corpus is inconsistent about argument order).
type NearestNeighbor struct {
	Field      string
	QueryRef   string
	TargetHits int
}

// NewNearestNeighbor validates field and builds a vector-similarity condition.
func NewNearestNeighbor(field, queryRef string, targetHits int) (*NearestNeighbor, error) {
	if err := ValidateFieldName(field); err != nil {
		return nil, err
	}
	if queryRef == "" {
		return nil, fmt.Errorf("condition: nearest-neighbor query reference must not be empty")
	}
	return &NearestNeighbor{Field: field, QueryRef: queryRef, TargetHits: targetHits}, nil
}

func (c *NearestNeighbor) Render() string {
	hits := c.TargetHits
	if hits <= 0 {
		hits = 1
	}
	return fmt.Sprintf(`([{"targetHits":%d}]nearestNeighbor(%s, %s))`, hits, c.Field, c.QueryRef)
}

// TimestampRange renders "fromField >= from and toField <= to", omitting
// whichever side is absent. At least one bound must be present.
type TimestampRange struct {
	FromField string
	ToField   string
	From      *int64
	To        *int64
}

// NewTimestampRange builds a timestamp-range condition. from/to are epoch
// milliseconds; at least one must be non-nil.
func NewTimestampRange(fromField, toField string, from, to *int64) (*TimestampRange, error) {
	if from == nil && to == nil {
		return nil, fmt.Errorf("condition: timestamp range requires at least one bound")
	}
	if from != nil {
		if err := ValidateFieldName(fromField); err != nil {
			return nil, err
		}
	}
	if to != nil {
		if err := ValidateFieldName(toField); err != nil {
			return nil, err
		}
	}
	return &TimestampRange{FromField: fromField, ToField: toField, From: from, To: to}, nil
}

func (c *TimestampRange) Render() string {
	var parts []string
	if c.From != nil {
		parts = append(parts, fmt.Sprintf("%s >= %d", c.FromField, *c.From))
	}
	if c.To != nil {
		parts = append(parts, fmt.Sprintf("%s <= %d", c.ToField, *c.To))
	}
	return strings.Join(parts, " and ")
}

// Negation renders "!(child)". Unary and total over any Expr.
type Negation struct {
	Child Expr
}

func (c *Negation) Render() string {
	return "!(" + c.Child.Render() + ")"
}

// Paren renders "(child)". Parenthesizing an already-parenthesized node adds
// one more wrap and nothing else — semantically idempotent, textually not.
type Paren struct {
	Child Expr
}

func (c *Paren) Render() string {
	return "(" + c.Child.Render() + ")"
}

// Raw is an uninterpreted SQL fragment, an escape hatch for text this
// package has no node for.
type Raw struct {
	Fragment string
}

// NewRaw wraps an uninterpreted fragment.
func NewRaw(fragment string) *Raw {
	return &Raw{Fragment: fragment}
}

func (c *Raw) Render() string {
	return c.Fragment
}

// IsEmpty reports whether the fragment is blank.
func (c *Raw) IsEmpty() bool {
	return c.Fragment == ""
}
