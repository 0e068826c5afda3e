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

// ItemsRequest configures Client.GetItems and Client.GetThreadItems.
type ItemsRequest struct {
	Principal string
	Sources   []string
	TimeField string
	Direction query.Direction
	Limit     *int
	Offset    *int
	Intent    *profile.Intent
}

// GetItems is the §4.7 filter-only retrieval dispatcher: no ranking
// (ranking.profile=unranked), ordered by a time field, optionally narrowed
// by an intent filter.
func (c *Client) GetItems(ctx context.Context, req ItemsRequest) (*transport.Response, error) {
	ctx, finish := tracing.StartSpan(ctx, "get_items")
	var err error
	defer func() { finish(&err) }()

	var root condition.Expr
	if req.Intent != nil {
		root, err = profile.BuildIntentFilter(*req.Intent)
		if err != nil {
			return nil, err
		}
	}

	builder := query.New(req.Principal).From(req.Sources...)
	if root != nil {
		builder = builder.Where(root)
	}
	dir := req.Direction
	if dir == "" {
		dir = query.Desc
	}
	builder = builder.OrderBy(req.TimeField, dir)
	if req.Limit != nil {
		builder = builder.Limit(*req.Limit)
	}
	if req.Offset != nil {
		builder = builder.Offset(*req.Offset)
	}
	prof, err := builder.BuildProfile("unranked")
	if err != nil {
		return nil, err
	}

	opts := Options{Limit: req.Limit, Offset: req.Offset}
	base, err := c.basePayload(ctx, "", req.Principal, nil, opts, req.Intent != nil)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	var resp *transport.Response
	resp, err = c.runQuery(ctx, base, prof)
	c.metrics.Observe("get_items", time.Since(start).Seconds(), err)
	return resp, err
}

// ThreadItemsRequest configures Client.GetThreadItems.
type ThreadItemsRequest struct {
	ItemsRequest
	ThreadID string
	// FilterQuery, when set, narrows the thread to messages matching a
	// hybrid lexical+vector clause (the Slack filter-query branch from
	// spec.md §9 Open Question (b): the embedding call it depends on is
	// awaited here before the transport call is issued).
	FilterQuery string
}

// GetThreadItems is GetItems scoped to a single Slack thread, with an
// optional hybrid filter-query narrowing the thread further.
func (c *Client) GetThreadItems(ctx context.Context, req ThreadItemsRequest) (*transport.Response, error) {
	ctx, finish := tracing.StartSpan(ctx, "get_thread_items")
	var err error
	defer func() { finish(&err) }()

	threadFilter, err := condition.NewField("threadId", condition.OpContains, req.ThreadID)
	if err != nil {
		return nil, err
	}

	var root condition.Expr = threadFilter
	var vector []float32
	if req.FilterQuery != "" {
		// Must await: the embedding call that backs this branch runs
		// synchronously here, not fired-and-forgotten.
		vector, err = c.embedQuery(ctx, req.FilterQuery)
		if err != nil {
			return nil, err
		}
		hybridCore, herr := profile.HybridCore(hybridParams("text_embeddings", defaultTargetHits))
		if herr != nil {
			err = herr
			return nil, err
		}
		root, err = condition.And([]condition.Expr{threadFilter, hybridCore})
		if err != nil {
			return nil, err
		}
	}
	if req.Intent != nil {
		intentFilter, ierr := profile.BuildIntentFilter(*req.Intent)
		if ierr != nil {
			err = ierr
			return nil, err
		}
		if intentFilter != nil {
			root, err = condition.And([]condition.Expr{root, intentFilter})
			if err != nil {
				return nil, err
			}
		}
	}

	builder := query.New(req.Principal).From(req.Sources...).Where(root)
	dir := req.Direction
	if dir == "" {
		dir = query.Asc
	}
	builder = builder.OrderBy(req.TimeField, dir)
	if req.Limit != nil {
		builder = builder.Limit(*req.Limit)
	}
	prof, err := builder.BuildProfile("unranked")
	if err != nil {
		return nil, err
	}

	opts := Options{Limit: req.Limit}
	base, err := c.basePayload(ctx, req.FilterQuery, req.Principal, vector, opts, req.Intent != nil)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	var resp *transport.Response
	resp, err = c.runQuery(ctx, base, prof)
	c.metrics.Observe("get_thread_items", time.Since(start).Seconds(), err)
	return resp, err
}
