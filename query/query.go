// Package query assembles a complete query from a condition tree, a source
// list, ordering, pagination and grouping — the product the Query
// Composition Core hands to the transport layer. Query and Builder values
// are short-lived: created per call, rendered once via Build or
// BuildProfile, then discarded.
package query

import (
	"fmt"
	"strings"

	"github.com/vespabridge/searchkit/condition"
)

// AllSources is the sentinel source list meaning "search every corpus".
const AllSources = "*"

// Direction is an ordering direction.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Order is an orderBy clause.
type Order struct {
	Field     string
	Direction Direction
}

// Query is the builder's product: sources, an optional WHERE predicate,
// ordering, pagination, grouping, the session principal, and a recorded
// default target-hits hint (see Builder.TargetHits).
type Query struct {
	Sources    []string
	Root       condition.Expr
	Order      *Order
	Limit      *int
	Offset     *int
	GroupBy    string
	Principal  string
	TargetHits int
}

// Profile pairs a rendered query with the ranking profile that should score
// it — the product of Builder.BuildProfile.
type Profile struct {
	RankingProfile string
	YQL            string
}

// Builder assembles a Query. Every method mutates the in-progress builder
// and returns it for chaining; Build/BuildProfile are the only
// side-effectful steps — a Builder is single-use.
type Builder struct {
	q   Query
	err error
}

// New starts a new builder for the given principal (the session email bound
// as @email in permission clauses).
func New(principal string) *Builder {
	return &Builder{q: Query{Principal: principal}}
}

// From sets the source list. Pass AllSources to select every corpus.
func (b *Builder) From(sources ...string) *Builder {
	b.q.Sources = sources
	return b
}

// Where sets (replaces) the root predicate.
func (b *Builder) Where(cond condition.Expr) *Builder {
	b.q.Root = cond
	return b
}

// WhereOr is a convenience for Where(Or(conds...)), silently dropping nil or
// IsEmpty children so callers can pass optional conditions without manual
// filtering.
func (b *Builder) WhereOr(conds ...condition.Expr) *Builder {
	nonEmpty := filterEmpty(conds)
	if len(nonEmpty) == 0 {
		return b
	}
	if len(nonEmpty) == 1 {
		return b.Where(nonEmpty[0])
	}
	group, err := condition.Or(nonEmpty)
	if err != nil {
		b.err = err
		return b
	}
	return b.Where(group)
}

func filterEmpty(conds []condition.Expr) []condition.Expr {
	out := make([]condition.Expr, 0, len(conds))
	for _, c := range conds {
		if c == nil {
			continue
		}
		if emptyable, ok := c.(condition.IsEmptyable); ok && emptyable.IsEmpty() {
			continue
		}
		out = append(out, c)
	}
	return out
}

// conjoin ANDs cond onto the existing root, or sets it as the root if none
// is set yet.
func (b *Builder) conjoin(cond condition.Expr) {
	if cond == nil {
		return
	}
	if emptyable, ok := cond.(condition.IsEmptyable); ok && emptyable.IsEmpty() {
		return
	}
	if b.q.Root == nil {
		b.q.Root = cond
		return
	}
	group, err := condition.And([]condition.Expr{b.q.Root, cond})
	if err != nil {
		b.err = err
		return
	}
	b.q.Root = group
}

// FilterByApp conjoins a contains('app', ...) condition: a single contains
// clause for one app, a disjunction for several.
func (b *Builder) FilterByApp(apps ...string) *Builder {
	return b.filterField("app", apps)
}

// FilterByEntity conjoins an analogous condition on field "entity".
func (b *Builder) FilterByEntity(entities ...string) *Builder {
	return b.filterField("entity", entities)
}

func (b *Builder) filterField(field string, values []string) *Builder {
	if b.err != nil || len(values) == 0 {
		return b
	}
	inclusion, err := condition.NewInclusion(field, values)
	if err != nil {
		b.err = err
		return b
	}
	if inclusion.IsEmpty() {
		return b
	}
	b.conjoin(inclusion)
	return b
}

// ExcludeDocIds conjoins an Exclusion; ignored when the exclusion is empty.
func (b *Builder) ExcludeDocIds(ids ...string) *Builder {
	if b.err != nil {
		return b
	}
	excl := condition.NewExclusion(ids)
	b.conjoin(excl)
	return b
}

// OrderBy sets the ordering clause; field is validated.
func (b *Builder) OrderBy(field string, dir Direction) *Builder {
	if b.err != nil {
		return b
	}
	if err := condition.ValidateFieldName(field); err != nil {
		b.err = err
		return b
	}
	b.q.Order = &Order{Field: field, Direction: dir}
	return b
}

// Limit sets the result-count cap. limit(0) is preserved and meaningful:
// "count only / aggregate only".
func (b *Builder) Limit(n int) *Builder {
	if b.err != nil {
		return b
	}
	if n < 0 {
		b.err = fmt.Errorf("query: limit must be >= 0, got %d", n)
		return b
	}
	b.q.Limit = &n
	return b
}

// Offset sets the pagination offset.
func (b *Builder) Offset(n int) *Builder {
	if b.err != nil {
		return b
	}
	if n < 0 {
		b.err = fmt.Errorf("query: offset must be >= 0, got %d", n)
		return b
	}
	b.q.Offset = &n
	return b
}

// GroupBy attaches an uninterpreted grouping tail.
func (b *Builder) GroupBy(rawExpr string) *Builder {
	b.q.GroupBy = rawExpr
	return b
}

// TargetHits records a default target-hits hint on the Query value. Build
// does not render it; profile builders take their hint from
// profile.HybridParams.TargetHits.
func (b *Builder) TargetHits(hits int) *Builder {
	b.q.TargetHits = hits
	return b
}

// Build renders the query to its YQL-like string form.
//
//	select * from sources <srcs> where <cond> order by <field> <dir> limit <n> offset <n> | <groupBy>
//
// Clauses whose value is unset are omitted. When no root predicate is set the
// predicate renders as "where true": "select * from sources * where true" is
// the valid degenerate form with no predicate and no sources configured.
func (b *Builder) Build() (string, error) {
	if b.err != nil {
		return "", b.err
	}

	var sb strings.Builder
	sb.WriteString("select * from sources ")
	if len(b.q.Sources) == 0 {
		sb.WriteString(AllSources)
	} else {
		sb.WriteString(strings.Join(b.q.Sources, ", "))
	}

	if b.q.Root != nil {
		sb.WriteString(" where ")
		sb.WriteString(b.q.Root.Render())
	} else {
		sb.WriteString(" where true")
	}

	if b.q.Order != nil {
		sb.WriteString(fmt.Sprintf(" order by %s %s", b.q.Order.Field, b.q.Order.Direction))
	}

	if b.q.Limit != nil {
		sb.WriteString(fmt.Sprintf(" limit %d", *b.q.Limit))
	}

	if b.q.Offset != nil {
		sb.WriteString(fmt.Sprintf(" offset %d", *b.q.Offset))
	}

	if b.q.GroupBy != "" {
		sb.WriteString(" | ")
		sb.WriteString(b.q.GroupBy)
	}

	return sb.String(), nil
}

// BuildProfile renders the query and pairs it with rankProfile.
func (b *Builder) BuildProfile(rankProfile string) (Profile, error) {
	yql, err := b.Build()
	if err != nil {
		return Profile{}, err
	}
	return Profile{RankingProfile: rankProfile, YQL: yql}, nil
}

// Query returns the builder's in-progress query value, mainly useful for
// inspection in tests.
func (b *Builder) Query() Query {
	return b.q
}
