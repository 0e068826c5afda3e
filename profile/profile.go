// Package profile turns high-level search intent — a query string, an
// optional time window, app/entity filters, explicit id sets — into a
// condition.Expr tree ready for the query Builder. Each function here
// mirrors one of the corpus's per-application search shapes; all of them
// compose the same hybrid lexical+vector core and differ only in which time
// field, permission policy, and extra filters they layer on top.
package profile

import (
	"regexp"
	"strings"

	"github.com/vespabridge/searchkit/condition"
)

// HybridParams configures the lexical+vector core shared by every profile.
type HybridParams struct {
	// QueryRef is the bound query parameter name, typically "query".
	QueryRef string
	// EmbeddingRef is the bound embedding parameter name, typically "e".
	EmbeddingRef string
	// VectorField is the nearest-neighbor field, e.g. chunk_embeddings or
	// text_embeddings.
	VectorField string
	TargetHits  int
}

// TimeRange is an optional [From, To] bound, either side of which may be nil.
type TimeRange struct {
	From *int64
	To   *int64
}

// DefaultTimeFields are the four time field names a corpus may use; the
// default hybrid profile doesn't know which one a given schema has, so it
// unions across all of them.
var DefaultTimeFields = []string{"updatedAt", "creationTime", "startTime", "timestamp"}

// HybridCore builds Or(UserInput(@queryRef, hits), NearestNeighbor(vectorField, @embeddingRef, hits)),
// the lexical+vector condition every profile builder composes with.
func HybridCore(p HybridParams) (condition.Expr, error) {
	userInput, err := condition.NewUserInput(p.QueryRef, p.TargetHits)
	if err != nil {
		return nil, err
	}
	nn, err := condition.NewNearestNeighbor(p.VectorField, p.EmbeddingRef, p.TargetHits)
	if err != nil {
		return nil, err
	}
	return condition.Or([]condition.Expr{userInput, nn})
}

// UnionTimeFilter builds a TimestampRange per field and Or's them together,
// since the caller can't know in advance which of fields a matched document
// will actually carry. Returns nil, nil if both bounds are nil.
func UnionTimeFilter(tr *TimeRange, fields ...string) (condition.Expr, error) {
	if tr == nil || (tr.From == nil && tr.To == nil) {
		return nil, nil
	}
	ranges := make([]condition.Expr, 0, len(fields))
	for _, field := range fields {
		rng, err := condition.NewTimestampRange(field, field, tr.From, tr.To)
		if err != nil {
			return nil, err
		}
		ranges = append(ranges, rng)
	}
	if len(ranges) == 1 {
		return ranges[0], nil
	}
	return condition.Or(ranges)
}

// SingleTimeFilter builds a TimestampRange on a single, known field. Returns
// nil, nil if both bounds are nil.
func SingleTimeFilter(tr *TimeRange, field string) (condition.Expr, error) {
	if tr == nil || (tr.From == nil && tr.To == nil) {
		return nil, nil
	}
	return condition.NewTimestampRange(field, field, tr.From, tr.To)
}

// andNonNil conjoins the non-nil exprs, skipping gaps left by optional
// filters. Returns an error if the resulting set is empty.
func andNonNil(exprs ...condition.Expr) (condition.Expr, error) {
	nonNil := make([]condition.Expr, 0, len(exprs))
	for _, e := range exprs {
		if e == nil {
			continue
		}
		if emptyable, ok := e.(condition.IsEmptyable); ok && emptyable.IsEmpty() {
			continue
		}
		nonNil = append(nonNil, e)
	}
	if len(nonNil) == 1 {
		return nonNil[0], nil
	}
	return condition.And(nonNil)
}

// DefaultHybrid is the §4.5.1 profile: corpora without an app-specific
// override. The hybrid core optionally conjoined with a time filter unioned
// across every recognized time field.
func DefaultHybrid(p HybridParams, tr *TimeRange) (condition.Expr, error) {
	core, err := HybridCore(p)
	if err != nil {
		return nil, err
	}
	timeFilter, err := UnionTimeFilter(tr, DefaultTimeFields...)
	if err != nil {
		return nil, err
	}
	return andNonNil(core, timeFilter)
}

// Workspace is the §4.5.2 profile for contacts/users. It Or's a
// permission-based branch (scoped to the caller's workspace membership) with
// an ownership-based branch (scoped to docs the caller owns or can see via
// an explicit app/entity filter).
func Workspace(principal string, p HybridParams, tr *TimeRange, apps, entities []string) (condition.Expr, error) {
	core, err := HybridCore(p)
	if err != nil {
		return nil, err
	}
	timeFilter, err := SingleTimeFilter(tr, "creationTime")
	if err != nil {
		return nil, err
	}

	permParts := []condition.Expr{core, timeFilter}
	if len(apps) == 0 && len(entities) == 0 {
		workspaceApp, err := condition.NewField("app", condition.OpContains, "GoogleWorkspace")
		if err != nil {
			return nil, err
		}
		permParts = append(permParts, workspaceApp)
	}
	permGroup, err := groupNonNil(permParts, condition.WithPermissionsField(principal))
	if err != nil {
		return nil, err
	}

	ownParts := []condition.Expr{core, timeFilter}
	appFilter, err := inclusionOrNil("app", apps)
	if err != nil {
		return nil, err
	}
	entityFilter, err := inclusionOrNil("entity", entities)
	if err != nil {
		return nil, err
	}
	ownParts = append(ownParts, appFilter, entityFilter)
	ownGroup, err := groupNonNil(ownParts, condition.WithOwnerPermissions(principal))
	if err != nil {
		return nil, err
	}

	return condition.Or([]condition.Expr{permGroup, ownGroup})
}

// groupNonNil drops nil/empty members of parts, then builds a Conjunction
// carrying opts. A single survivor is still wrapped in a Conjunction, so the
// permission policy in opts is kept. Returns nil, nil if nothing survives.
func groupNonNil(parts []condition.Expr, opts ...condition.PermOpt) (condition.Expr, error) {
	nonNil := make([]condition.Expr, 0, len(parts))
	for _, p := range parts {
		if p == nil {
			continue
		}
		if emptyable, ok := p.(condition.IsEmptyable); ok && emptyable.IsEmpty() {
			continue
		}
		nonNil = append(nonNil, p)
	}
	if len(nonNil) == 0 {
		return nil, nil
	}
	return condition.And(nonNil, opts...)
}

func inclusionOrNil(field string, values []string) (condition.Expr, error) {
	if len(values) == 0 {
		return nil, nil
	}
	incl, err := condition.NewInclusion(field, values)
	if err != nil {
		return nil, err
	}
	if incl.IsEmpty() {
		return nil, nil
	}
	return incl, nil
}

// Gmail is the §4.5.3 profile: hybrid core and a timestamp filter on
// "timestamp", optionally narrowed by an excluded-labels negation and an
// intent filter.
func Gmail(p HybridParams, tr *TimeRange, excludedLabels []string, intent *Intent) (condition.Expr, error) {
	core, err := HybridCore(p)
	if err != nil {
		return nil, err
	}
	timeFilter, err := SingleTimeFilter(tr, "timestamp")
	if err != nil {
		return nil, err
	}

	var labelExclusion condition.Expr
	if len(excludedLabels) > 0 {
		labels, err := condition.NewInclusion("labels", excludedLabels)
		if err != nil {
			return nil, err
		}
		if len(labels.Values) > 1 {
			// A multi-value Inclusion already renders its own parentheses;
			// prefix it with "!" directly so the clause reads
			// !(labels contains 'A' or labels contains 'B').
			labelExclusion = condition.NewRaw("!" + labels.Render())
		} else if !labels.IsEmpty() {
			labelExclusion = condition.Not(labels)
		}
	}

	var intentFilter condition.Expr
	if intent != nil {
		intentFilter, err = BuildIntentFilter(*intent)
		if err != nil {
			return nil, err
		}
	}

	return andNonNil(core, timeFilter, labelExclusion, intentFilter)
}

// Drive is the §4.5.4 profile: hybrid core and a timestamp filter on
// "updatedAt", optionally narrowed to an explicit docId set. The docId
// filter bypasses the permission clause entirely — the caller already
// supplied a concrete file-id set it's authorized to see.
func Drive(p HybridParams, tr *TimeRange, docIDs []string) (condition.Expr, error) {
	return idScopedHybrid(p, tr, "updatedAt", "docId", docIDs)
}

// Calendar is the §4.5.5 profile: hybrid core and a timestamp filter on
// "startTime".
func Calendar(p HybridParams, tr *TimeRange) (condition.Expr, error) {
	core, err := HybridCore(p)
	if err != nil {
		return nil, err
	}
	timeFilter, err := SingleTimeFilter(tr, "startTime")
	if err != nil {
		return nil, err
	}
	return andNonNil(core, timeFilter)
}

// Slack is the §4.5.6 profile: same shape as Drive but scoped to
// "updatedAt" and an optional channel-id set rather than a docId set.
func Slack(p HybridParams, tr *TimeRange, channelIDs []string) (condition.Expr, error) {
	return idScopedHybrid(p, tr, "updatedAt", "channelId", channelIDs)
}

// idScopedHybrid is the Drive/Slack shared shape: hybrid core and a time
// filter, optionally conjoined with a bypass-permissions id inclusion.
func idScopedHybrid(p HybridParams, tr *TimeRange, timeField, idField string, ids []string) (condition.Expr, error) {
	core, err := HybridCore(p)
	if err != nil {
		return nil, err
	}
	timeFilter, err := SingleTimeFilter(tr, timeField)
	if err != nil {
		return nil, err
	}

	parts := []condition.Expr{core, timeFilter}
	var opts []condition.PermOpt
	if len(ids) > 0 {
		incl, err := inclusionOrNil(idField, ids)
		if err != nil {
			return nil, err
		}
		if incl != nil {
			parts = append(parts, incl)
			opts = append(opts, condition.WithoutPermissions())
		}
	}
	return groupNonNil(parts, opts...)
}

// DataSource is the §4.5.7 data-source profile: a bypass-permissions group
// of the hybrid core conjoined with an inclusion over dataSourceId.
func DataSource(p HybridParams, dataSourceIDs []string) (condition.Expr, error) {
	return scopedKnowledgeSearch(p, map[string][]string{"dataSourceId": dataSourceIDs})
}

// KnowledgeBase is the §4.5.7 knowledge-base profile: a bypass-permissions
// group of the hybrid core conjoined with an Or across one or more of
// collection ids, folder ids, and file/doc ids.
func KnowledgeBase(p HybridParams, collectionIDs, folderIDs, docIDs []string) (condition.Expr, error) {
	return scopedKnowledgeSearch(p, map[string][]string{
		"clId":  collectionIDs,
		"clFd":  folderIDs,
		"docId": docIDs,
	})
}

// scopedKnowledgeSearch builds the hybrid core conjoined (bypass-permissions)
// with an Or across whichever id fields in idSets are non-empty. idSets is a
// map so both DataSource (one field) and KnowledgeBase (up to three fields)
// can share the implementation; Go map iteration order doesn't matter here
// because the fields are disjoined, not ordered against each other.
func scopedKnowledgeSearch(p HybridParams, idSets map[string][]string) (condition.Expr, error) {
	core, err := HybridCore(p)
	if err != nil {
		return nil, err
	}

	var idFilters []condition.Expr
	for field, ids := range idSets {
		filter, err := inclusionOrNil(field, ids)
		if err != nil {
			return nil, err
		}
		if filter != nil {
			idFilters = append(idFilters, filter)
		}
	}

	var combined condition.Expr
	if len(idFilters) == 1 {
		combined = idFilters[0]
	} else if len(idFilters) > 1 {
		combined, err = condition.Or(idFilters)
		if err != nil {
			return nil, err
		}
	}

	return groupNonNil([]condition.Expr{core, combined}, condition.WithoutPermissions())
}

// emailPattern is the loose address shape used to decide whether an Intent
// carries a real filter or is a name-only no-op.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Intent is a structured breakdown of a query into recipient/subject fields,
// per §4.5.8.
type Intent struct {
	From    []string
	To      []string
	Cc      []string
	Bcc     []string
	Subject []string
}

// hasSignal reports whether intent carries at least one value that looks
// like an email address, or a non-blank subject. A name-only intent (no
// email-shaped recipient, no subject) has no signal and the filter is
// skipped entirely.
func (in Intent) hasSignal() bool {
	for _, set := range [][]string{in.From, in.To, in.Cc, in.Bcc} {
		for _, v := range set {
			if emailPattern.MatchString(strings.TrimSpace(v)) {
				return true
			}
		}
	}
	for _, s := range in.Subject {
		if strings.TrimSpace(s) != "" {
			return true
		}
	}
	return false
}

// BuildIntentFilter builds the §4.5.8 intent filter: each non-empty field
// set becomes an Inclusion, disjoined within the set and conjoined across
// sets. Returns nil, nil when the intent has no signal (invariant 8.1.7).
func BuildIntentFilter(intent Intent) (condition.Expr, error) {
	if !intent.hasSignal() {
		return nil, nil
	}

	fields := []struct {
		name   string
		values []string
	}{
		{"from", intent.From},
		{"to", intent.To},
		{"cc", intent.Cc},
		{"bcc", intent.Bcc},
		{"subject", intent.Subject},
	}

	var parts []condition.Expr
	for _, f := range fields {
		incl, err := inclusionOrNil(f.name, f.values)
		if err != nil {
			return nil, err
		}
		if incl != nil {
			parts = append(parts, incl)
		}
	}
	if len(parts) == 0 {
		return nil, nil
	}
	if len(parts) == 1 {
		return parts[0], nil
	}
	return condition.And(parts)
}
