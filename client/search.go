package client

import (
	"context"
	"time"

	"github.com/vespabridge/searchkit/condition"
	"github.com/vespabridge/searchkit/profile"
	"github.com/vespabridge/searchkit/query"
	"github.com/vespabridge/searchkit/source"
	"github.com/vespabridge/searchkit/tracing"
	"github.com/vespabridge/searchkit/transport"
)

// SearchRequest configures Client.Search.
type SearchRequest struct {
	QueryText string
	Principal string
	Sources   []string
	// DisconnectedApps are apps whose schemas are excluded from Sources
	// via source.Available.
	DisconnectedApps []source.App
	App              []string
	Entity           []string
	Opts             Options
}

// Search is the §4.7 general hybrid search dispatcher: it Or's the default
// hybrid profile with the Workspace and Gmail profiles, so a single
// multi-corpus search composes all three branches. The branches are included
// whatever schemas Sources holds; Sources only sets the source list.
func (c *Client) Search(ctx context.Context, req SearchRequest) (*transport.Response, error) {
	ctx, finish := tracing.StartSpan(ctx, "search")
	var err error
	defer func() { finish(&err) }()

	sources := source.Available(req.Sources, req.DisconnectedApps)

	vector, err := c.embedQuery(ctx, req.QueryText)
	if err != nil {
		return nil, err
	}

	hp := hybridParams("chunk_embeddings", req.Opts.targetHitsOrDefault())
	defaultCond, err := profile.DefaultHybrid(hp, nil)
	if err != nil {
		return nil, err
	}
	workspaceCond, err := profile.Workspace(req.Principal, hp, nil, req.App, req.Entity)
	if err != nil {
		return nil, err
	}
	gmailCond, err := profile.Gmail(hp, nil, nil, nil)
	if err != nil {
		return nil, err
	}

	root, err := condition.Or([]condition.Expr{defaultCond, workspaceCond, gmailCond})
	if err != nil {
		return nil, err
	}

	builder := query.New(req.Principal).From(sources...).Where(root)
	if req.Opts.Limit != nil {
		builder = builder.Limit(*req.Opts.Limit)
	}
	if len(req.Opts.ExcludedDocIDs) > 0 {
		builder = builder.ExcludeDocIds(req.Opts.ExcludedDocIDs...)
	}
	if len(req.App) > 0 {
		builder = builder.FilterByApp(req.App...)
	}
	if len(req.Entity) > 0 {
		builder = builder.FilterByEntity(req.Entity...)
	}

	rankProfile := req.Opts.RankingProfile
	if rankProfile == "" {
		rankProfile = "nativeRank"
	}
	prof, err := builder.BuildProfile(rankProfile)
	if err != nil {
		return nil, err
	}

	base, err := c.basePayload(ctx, req.QueryText, req.Principal, vector, req.Opts, false)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	var resp *transport.Response
	resp, err = c.runQuery(ctx, base, prof)
	c.metrics.Observe("search", time.Since(start).Seconds(), err)
	return resp, err
}
