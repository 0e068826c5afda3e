package client

import (
	"context"
	"time"

	"github.com/samber/lo"

	"github.com/vespabridge/searchkit/condition"
	"github.com/vespabridge/searchkit/query"
	"github.com/vespabridge/searchkit/tracing"
	"github.com/vespabridge/searchkit/transport"
)

// autocompleteMaxEditDistance and autocompletePrefix configure every fuzzy
// branch of the autocomplete clause.
const (
	autocompleteMaxEditDistance = 2
	autocompletePrefix          = true
)

// autocompleteFuzzyFields are the per-corpus fuzzy-match fields the
// autocomplete dispatcher fans out across.
var autocompleteFuzzyFields = []string{"title_fuzzy", "subject_fuzzy", "query_text", "name_fuzzy", "email_fuzzy"}

// AutocompleteHit is one de-duplicated autocomplete result.
type AutocompleteHit struct {
	Email  string
	Fields map[string]any
}

// Autocomplete is the §4.7 autocomplete dispatcher: a hand-composed
// fuzzy-prefix clause across five corpus fields, each scoped by its own
// permission predicate and unioned together. Results are de-duplicated by
// email after the transport responds.
func (c *Client) Autocomplete(ctx context.Context, queryText, principal string, limit int) ([]AutocompleteHit, error) {
	ctx, finish := tracing.StartSpan(ctx, "autocomplete")
	var err error
	defer func() { finish(&err) }()

	var branches []condition.Expr
	for _, field := range autocompleteFuzzyFields {
		fuzzy, ferr := condition.NewFuzzyContains(field, "query", autocompleteMaxEditDistance, autocompletePrefix)
		if ferr != nil {
			err = ferr
			return nil, err
		}

		var branch condition.Expr
		switch field {
		case "name_fuzzy", "email_fuzzy":
			workspaceApp, werr := condition.NewField("app", condition.OpContains, "GoogleWorkspace")
			if werr != nil {
				err = werr
				return nil, err
			}
			branch, err = condition.And([]condition.Expr{fuzzy, workspaceApp})
		case "title_fuzzy", "subject_fuzzy":
			branch, err = condition.And([]condition.Expr{fuzzy}, condition.WithOwnerPermissions(principal))
		default:
			branch, err = condition.And([]condition.Expr{fuzzy}, condition.WithPermissionsField(principal))
		}
		if err != nil {
			return nil, err
		}
		branches = append(branches, branch)
	}

	root, err := condition.Or(branches)
	if err != nil {
		return nil, err
	}

	prof, err := query.New(principal).
		From(query.AllSources).
		Where(root).
		Limit(limit).
		BuildProfile("autocomplete")
	if err != nil {
		return nil, err
	}

	base := transport.Payload{
		transport.KeyQuery:               queryText,
		transport.KeyEmail:               principal,
		transport.KeyHits:                limit,
		transport.KeyTimeout:             c.config.RequestTimeout.String(),
		transport.KeyPresentationSummary: "autocomplete",
	}

	start := time.Now()
	var resp *transport.Response
	resp, err = c.runQuery(ctx, base, prof)
	c.metrics.Observe("autocomplete", time.Since(start).Seconds(), err)
	if err != nil {
		return nil, err
	}

	hits := make([]AutocompleteHit, 0, len(resp.Hits))
	for _, h := range resp.Hits {
		fields, _ := h["fields"].(map[string]any)
		email, _ := fields["email"].(string)
		hits = append(hits, AutocompleteHit{Email: email, Fields: fields})
	}

	deduped := lo.UniqBy(hits, func(h AutocompleteHit) string { return h.Email })
	return deduped, nil
}
