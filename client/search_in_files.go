package client

import (
	"context"
	"time"

	"github.com/vespabridge/searchkit/condition"
	"github.com/vespabridge/searchkit/profile"
	"github.com/vespabridge/searchkit/query"
	"github.com/vespabridge/searchkit/tracing"
	"github.com/vespabridge/searchkit/transport"
)

// SearchInFiles is the §4.7 docId-scoped dispatcher: the same hybrid shape
// as Search, but constrained to an explicit file-id set, unioning the
// distinct field strategies each corpus uses (chunk/text embeddings for
// files and Slack, bare user-input for contacts).
func (c *Client) SearchInFiles(ctx context.Context, queryText, principal string, fileIDs []string, opts Options) (*transport.Response, error) {
	ctx, finish := tracing.StartSpan(ctx, "search_in_files")
	var err error
	defer func() { finish(&err) }()

	vector, err := c.embedQuery(ctx, queryText)
	if err != nil {
		return nil, err
	}

	hits := opts.targetHitsOrDefault()
	chunkBranch, err := profile.Drive(hybridParams("chunk_embeddings", hits), nil, fileIDs)
	if err != nil {
		return nil, err
	}
	textBranch, err := profile.Drive(hybridParams("text_embeddings", hits), nil, fileIDs)
	if err != nil {
		return nil, err
	}
	contactsCore, err := condition.NewUserInput("query", hits)
	if err != nil {
		return nil, err
	}
	docIDs, err := condition.NewInclusion("docId", fileIDs)
	if err != nil {
		return nil, err
	}
	contactsBranch, err := condition.And([]condition.Expr{contactsCore, docIDs}, condition.WithoutPermissions())
	if err != nil {
		return nil, err
	}

	root, err := condition.Or([]condition.Expr{chunkBranch, textBranch, contactsBranch})
	if err != nil {
		return nil, err
	}

	builder := query.New(principal).From(query.AllSources).Where(root)
	if opts.Limit != nil {
		builder = builder.Limit(*opts.Limit)
	}
	rankProfile := opts.RankingProfile
	if rankProfile == "" {
		rankProfile = "nativeRank"
	}
	prof, err := builder.BuildProfile(rankProfile)
	if err != nil {
		return nil, err
	}

	base, err := c.basePayload(ctx, queryText, principal, vector, opts, false)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	var resp *transport.Response
	resp, err = c.runQuery(ctx, base, prof)
	c.metrics.Observe("search_in_files", time.Since(start).Seconds(), err)
	return resp, err
}
