package client

import (
	"context"
	"time"

	"github.com/vespabridge/searchkit/profile"
	"github.com/vespabridge/searchkit/query"
	"github.com/vespabridge/searchkit/source"
	"github.com/vespabridge/searchkit/tracing"
	"github.com/vespabridge/searchkit/transport"
)

// groupByAppEntity is the §8.2 scenario-5 grouping expression.
const groupByAppEntity = "all(group(app) each(group(entity) each(output(count()))))"

// GroupSearchRequest configures Client.GroupSearch.
type GroupSearchRequest struct {
	QueryText        string
	Principal        string
	Sources          []string
	DisconnectedApps []source.App
	Opts             Options
}

// GroupSearch is the §4.7 aggregate-counts dispatcher: limit=0, grouped by
// (app, entity).
func (c *Client) GroupSearch(ctx context.Context, req GroupSearchRequest) (*transport.Response, error) {
	ctx, finish := tracing.StartSpan(ctx, "group_search")
	var err error
	defer func() { finish(&err) }()

	sources := source.Available(req.Sources, req.DisconnectedApps)

	vector, err := c.embedQuery(ctx, req.QueryText)
	if err != nil {
		return nil, err
	}

	hp := hybridParams("chunk_embeddings", req.Opts.targetHitsOrDefault())
	root, err := profile.DefaultHybrid(hp, nil)
	if err != nil {
		return nil, err
	}
	zero := 0
	prof, err := query.New(req.Principal).
		From(sources...).
		Where(root).
		Limit(zero).
		GroupBy(groupByAppEntity).
		BuildProfile("nativeRank")
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
	c.metrics.Observe("group_search", time.Since(start).Seconds(), err)
	return resp, err
}
