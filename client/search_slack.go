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

// SlackSearchRequest configures Client.SearchSlack.
type SlackSearchRequest struct {
	QueryText  string
	Principal  string
	ChannelIDs []string
	ThreadID   string
	UserID     string
	Opts       Options
}

// SearchSlack is the §4.7 Slack dispatcher: the hybrid Slack profile,
// optionally narrowed to one thread and/or one user.
func (c *Client) SearchSlack(ctx context.Context, req SlackSearchRequest) (*transport.Response, error) {
	ctx, finish := tracing.StartSpan(ctx, "search_slack")
	var err error
	defer func() { finish(&err) }()

	vector, err := c.embedQuery(ctx, req.QueryText)
	if err != nil {
		return nil, err
	}

	hp := hybridParams("text_embeddings", req.Opts.targetHitsOrDefault())
	root, err := profile.Slack(hp, nil, req.ChannelIDs)
	if err != nil {
		return nil, err
	}

	if req.ThreadID != "" {
		threadFilter, terr := condition.NewField("threadId", condition.OpContains, req.ThreadID)
		if terr != nil {
			err = terr
			return nil, err
		}
		root, err = condition.And([]condition.Expr{root, threadFilter})
		if err != nil {
			return nil, err
		}
	}
	if req.UserID != "" {
		userFilter, uerr := condition.NewField("userId", condition.OpContains, req.UserID)
		if uerr != nil {
			err = uerr
			return nil, err
		}
		root, err = condition.And([]condition.Expr{root, userFilter})
		if err != nil {
			return nil, err
		}
	}

	builder := query.New(req.Principal).From("chat_message").Where(root)
	if req.Opts.Limit != nil {
		builder = builder.Limit(*req.Opts.Limit)
	}
	prof, err := builder.BuildProfile("nativeRank")
	if err != nil {
		return nil, err
	}

	base, err := c.basePayload(ctx, req.QueryText, req.Principal, vector, req.Opts, false)
	if err != nil {
		return nil, err
	}
	if req.UserID != "" {
		base[transport.KeyUserID] = req.UserID
	}
	for i, ch := range req.ChannelIDs {
		if i == 0 {
			base[transport.KeyChannelID] = ch
		}
	}

	start := time.Now()
	var resp *transport.Response
	resp, err = c.runQuery(ctx, base, prof)
	c.metrics.Observe("search_slack", time.Since(start).Seconds(), err)
	return resp, err
}
