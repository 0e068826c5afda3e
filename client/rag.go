package client

import (
	"context"
	"strings"
	"time"

	searcherrors "github.com/vespabridge/searchkit/errors"
	"github.com/vespabridge/searchkit/profile"
	"github.com/vespabridge/searchkit/query"
	"github.com/vespabridge/searchkit/tracing"
	"github.com/vespabridge/searchkit/transport"
)

// RAGRequest configures Client.SearchCollectionRAG.
type RAGRequest struct {
	QueryText    string
	Principal    string
	DocIDs       []string
	ParentDocIDs []string
	Limit        *int
	Offset       *int
	Alpha        float64
	RankProfile  string
}

// SearchCollectionRAG is the §4.7 retrieval-augmented-generation dispatcher:
// hybrid search restricted to knowledge-base items, scoped by an optional
// docId/parentDocId set. Rejects an empty query synchronously.
func (c *Client) SearchCollectionRAG(ctx context.Context, req RAGRequest) (*transport.Response, error) {
	ctx, finish := tracing.StartSpan(ctx, "search_collection_rag")
	var err error
	defer func() { finish(&err) }()

	if strings.TrimSpace(req.QueryText) == "" {
		err = searcherrors.Validation("searchCollectionRAG: query must not be empty")
		return nil, err
	}

	vector, err := c.embedQuery(ctx, req.QueryText)
	if err != nil {
		return nil, err
	}

	hp := hybridParams("chunk_embeddings", 100)
	root, err := profile.KnowledgeBase(hp, nil, req.ParentDocIDs, req.DocIDs)
	if err != nil {
		return nil, err
	}

	builder := query.New(req.Principal).From("collection_item").Where(root)
	if req.Limit != nil {
		builder = builder.Limit(*req.Limit)
	}
	if req.Offset != nil {
		builder = builder.Offset(*req.Offset)
	}
	rankProfile := req.RankProfile
	if rankProfile == "" {
		rankProfile = "nativeRank"
	}
	prof, err := builder.BuildProfile(rankProfile)
	if err != nil {
		return nil, err
	}

	opts := Options{Limit: req.Limit, Offset: req.Offset, Alpha: req.Alpha}
	base, err := c.basePayload(ctx, req.QueryText, req.Principal, vector, opts, false)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	var resp *transport.Response
	resp, err = c.runQuery(ctx, base, prof)
	c.metrics.Observe("search_collection_rag", time.Since(start).Seconds(), err)
	return resp, err
}
