// Package client implements the Dispatch API (spec.md §4.7): the public
// operations that turn a caller's intent into a profile-built condition
// tree, a rendered query, a transport payload, and finally a transport
// call. Composition (condition/query/profile) stays pure; this package is
// where embedding, retries, metrics, and tracing — the I/O-bound concerns —
// live.
package client

import (
	"context"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vespabridge/searchkit/config"
	"github.com/vespabridge/searchkit/embedding"
	searcherrors "github.com/vespabridge/searchkit/errors"
	"github.com/vespabridge/searchkit/metrics"
	"github.com/vespabridge/searchkit/profile"
	"github.com/vespabridge/searchkit/query"
	"github.com/vespabridge/searchkit/transport"
)

// Client is the Dispatch API. Build one with New; its methods are safe for
// concurrent use (§5: the core is stateless and re-entrant).
type Client struct {
	transport   transport.Transport
	config      config.Config
	embedder    embedding.Embedder
	tokenBudget *embedding.TokenBudget
	metrics     *metrics.Metrics
}

// New builds a Client, registering its metrics against reg. embedder may be
// nil for callers who never search hybrid corpora requiring a query vector
// (e.g. a pure ingestion client); any operation that needs one will fail
// with a validation error if it's missing. Pass a distinct
// prometheus.Registerer per Client sharing a process (e.g.
// prometheus.NewRegistry()) — registering the same collectors against
// prometheus.DefaultRegisterer twice panics.
func New(t transport.Transport, cfg config.Config, embedder embedding.Embedder, reg prometheus.Registerer) *Client {
	return &Client{
		transport: t,
		config:    cfg,
		embedder:  embedder,
		metrics:   metrics.New(reg),
	}
}

// WithMetrics overrides the Metrics collector, e.g. to register against a
// private registry in tests.
func (c *Client) WithMetrics(m *metrics.Metrics) *Client {
	c.metrics = m
	return c
}

// WithTokenBudget installs a TokenBudget that embedQuery truncates a query
// through before it is embedded.
func (c *Client) WithTokenBudget(b *embedding.TokenBudget) *Client {
	c.tokenBudget = b
	return c
}

// Options shared by most search-shaped dispatch operations.
type Options struct {
	Limit            *int
	Offset           *int
	ExcludedDocIDs   []string
	Debug            bool
	RankingProfile   string
	TargetHits       int
	Alpha            float64
	RecencyDecayRate float64
}

// defaultTargetHits is the target-hits hint used when a caller doesn't
// specify one.
const defaultTargetHits = 100

func (o Options) targetHitsOrDefault() int {
	if o.TargetHits > 0 {
		return o.TargetHits
	}
	return defaultTargetHits
}

// embedQuery validates that text is embeddable before Vespa's own
// embed(@query) expression evaluates it server-side. The vector it returns
// is never sent on the wire (input.query(e) always binds the literal
// "embed(@query)", per spec.md §4.7/§8.2.1); a failure here lets a bad
// embedding configuration fail fast with a clear error instead of an opaque
// server-side one. Text is truncated to the configured token budget first,
// if one is installed, so an overlong query doesn't get rejected outright.
// Returns a validation error if the client has no embedder configured.
func (c *Client) embedQuery(ctx context.Context, text string) ([]float32, error) {
	if c.embedder == nil {
		return nil, searcherrors.Validation("client has no embedder configured")
	}
	if c.tokenBudget != nil {
		text = c.tokenBudget.Truncate(text)
	}
	return c.embedder.EmbedQuery(ctx, text)
}

// hybridParams builds profile.HybridParams for a query string bound as
// "query" and an embedding bound as "e", the convention every profile
// builder and payload assembly in this package shares.
func hybridParams(vectorField string, targetHits int) profile.HybridParams {
	return profile.HybridParams{
		QueryRef:     "query",
		EmbeddingRef: "e",
		VectorField:  vectorField,
		TargetHits:   targetHits,
	}
}

// basePayload builds the parameter set every dispatch operation binds, per
// spec.md §4.7: query, email, input.query(e)/(alpha)/(recency_decay_rate)/
// (is_intent_search), hits/offset, timeout, and (in debug mode)
// listFeatures/tracelevel. alpha, recency_decay_rate, and is_intent_search
// are always bound, including their zero value — §4.7 lists them as
// unconditionally forwarded, not omitted when unset.
func (c *Client) basePayload(ctx context.Context, queryText, principal string, vector []float32, opts Options, isIntentSearch bool) (transport.Payload, error) {
	p := transport.Payload{
		transport.KeyQuery:                  queryText,
		transport.KeyEmail:                  principal,
		transport.KeyTimeout:                c.config.RequestTimeout.String(),
		transport.KeyInputQueryAlpha:        opts.Alpha,
		transport.KeyInputQueryRecencyDecay: opts.RecencyDecayRate,
	}
	if isIntentSearch {
		p[transport.KeyInputQueryIsIntent] = 1.0
	} else {
		p[transport.KeyInputQueryIsIntent] = 0.0
	}
	if vector != nil {
		p[transport.KeyInputQueryEmbedding] = "embed(@query)"
	}

	limit := c.config.Page
	if opts.Limit != nil {
		limit = *opts.Limit
	}
	p[transport.KeyHits] = limit

	if opts.Offset != nil {
		p[transport.KeyOffset] = *opts.Offset
	}

	if opts.Debug || c.config.IsDebugMode {
		p[transport.KeyRankingListFeatures] = true
		p[transport.KeyTraceLevel] = 4
	}

	return p, nil
}

// runQuery issues yql/rankProfile against the transport, merging them into
// base. Shared by every dispatch operation below.
func (c *Client) runQuery(ctx context.Context, base transport.Payload, prof query.Profile) (*transport.Response, error) {
	base[transport.KeyYQL] = prof.YQL
	if prof.RankingProfile != "" {
		base[transport.KeyRankingProfile] = prof.RankingProfile
	}
	resp, err := c.transport.Search(ctx, base)
	if err != nil {
		slog.Error("search err", slog.String("err", err.Error()), slog.String("yql", prof.YQL))
	}
	return resp, err
}
