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

// KnowledgeBaseSelection narrows an agent search to specific knowledge-base
// collections, folders, and/or files.
type KnowledgeBaseSelection struct {
	CollectionIDs []string
	FolderIDs     []string
	DocIDs        []string
}

// AgentSearchRequest configures Client.SearchAgent.
type AgentSearchRequest struct {
	QueryText       string
	Principal       string
	App             []string
	Entity          []string
	AllowedApps     []source.App
	DataSourceIDs   []string
	DriveDocIDs     []string
	SlackChannelIDs []string
	KnowledgeBase   *KnowledgeBaseSelection
	Intent          *profile.Intent
	Opts            Options
}

// SearchAgent is the §4.7 allow-list-driven dispatcher: Agent mode inverts
// source selection (source.ForAllowList) and combines whichever scoped
// branches the caller supplied — data-source, drive doc-ids, slack channel
// ids, knowledge-base selections, and Gmail intent — into one Or.
func (c *Client) SearchAgent(ctx context.Context, req AgentSearchRequest) (*transport.Response, error) {
	ctx, finish := tracing.StartSpan(ctx, "search_agent")
	var err error
	defer func() { finish(&err) }()

	sources := source.ForAllowList(req.AllowedApps)

	vector, err := c.embedQuery(ctx, req.QueryText)
	if err != nil {
		return nil, err
	}

	hits := req.Opts.targetHitsOrDefault()
	var branches []condition.Expr

	defaultCond, err := profile.DefaultHybrid(hybridParams("chunk_embeddings", hits), nil)
	if err != nil {
		return nil, err
	}
	branches = append(branches, defaultCond)

	if len(req.DataSourceIDs) > 0 {
		b, berr := profile.DataSource(hybridParams("chunk_embeddings", hits), req.DataSourceIDs)
		if berr != nil {
			err = berr
			return nil, err
		}
		branches = append(branches, b)
	}

	if len(req.DriveDocIDs) > 0 {
		b, berr := profile.Drive(hybridParams("chunk_embeddings", hits), nil, req.DriveDocIDs)
		if berr != nil {
			err = berr
			return nil, err
		}
		branches = append(branches, b)
	}

	if len(req.SlackChannelIDs) > 0 {
		b, berr := profile.Slack(hybridParams("text_embeddings", hits), nil, req.SlackChannelIDs)
		if berr != nil {
			err = berr
			return nil, err
		}
		branches = append(branches, b)
	}

	if req.KnowledgeBase != nil {
		b, berr := profile.KnowledgeBase(hybridParams("chunk_embeddings", hits),
			req.KnowledgeBase.CollectionIDs, req.KnowledgeBase.FolderIDs, req.KnowledgeBase.DocIDs)
		if berr != nil {
			err = berr
			return nil, err
		}
		branches = append(branches, b)
	}

	if req.Intent != nil {
		gmailBranch, berr := profile.Gmail(hybridParams("chunk_embeddings", hits), nil, nil, req.Intent)
		if berr != nil {
			err = berr
			return nil, err
		}
		branches = append(branches, gmailBranch)
	}

	root, err := condition.Or(branches)
	if err != nil {
		return nil, err
	}

	builder := query.New(req.Principal).From(sources...).Where(root)
	if req.Opts.Limit != nil {
		builder = builder.Limit(*req.Opts.Limit)
	}
	if len(req.App) > 0 {
		builder = builder.FilterByApp(req.App...)
	}
	if len(req.Entity) > 0 {
		builder = builder.FilterByEntity(req.Entity...)
	}
	prof, err := builder.BuildProfile("nativeRank")
	if err != nil {
		return nil, err
	}

	base, err := c.basePayload(ctx, req.QueryText, req.Principal, vector, req.Opts, req.Intent != nil)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	var resp *transport.Response
	resp, err = c.runQuery(ctx, base, prof)
	c.metrics.Observe("search_agent", time.Since(start).Seconds(), err)
	return resp, err
}
