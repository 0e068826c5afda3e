package client_test

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vespabridge/searchkit/client"
	"github.com/vespabridge/searchkit/config"
	searcherrors "github.com/vespabridge/searchkit/errors"
	"github.com/vespabridge/searchkit/profile"
	"github.com/vespabridge/searchkit/source"
	"github.com/vespabridge/searchkit/transport"
)

func newTestClient(t *testing.T, tr transport.Transport) *client.Client {
	t.Helper()
	cfg := config.Default()
	return client.New(tr, cfg, &fakeEmbedder{}, prometheus.NewRegistry())
}

func TestSearchBuildsExpectedPayloadAndYQL(t *testing.T) {
	var gotYQL string
	var gotPayload transport.Payload
	tr := &fakeTransport{
		searchFunc: func(ctx context.Context, payload transport.Payload) (*transport.Response, error) {
			gotYQL = payload[transport.KeyYQL].(string)
			gotPayload = payload
			assert.Equal(t, "u@x.com", payload[transport.KeyEmail])
			return &transport.Response{Hits: []map[string]any{}}, nil
		},
	}
	c := newTestClient(t, tr)

	limit := 10
	_, err := c.Search(context.Background(), client.SearchRequest{
		QueryText: "alpha",
		Principal: "u@x.com",
		Sources:   []string{"file", "user", "mail"},
		Opts:      client.Options{Limit: &limit},
	})
	require.NoError(t, err)
	assert.Contains(t, gotYQL, "select * from sources file, user, mail")
	assert.Equal(t, "embed(@query)", gotPayload[transport.KeyInputQueryEmbedding])
	assert.Equal(t, 0.0, gotPayload[transport.KeyInputQueryIsIntent])
	assert.Equal(t, 0.0, gotPayload[transport.KeyInputQueryAlpha])
	assert.Equal(t, 0.0, gotPayload[transport.KeyInputQueryRecencyDecay])
}

func TestSearchPropagatesEmbedderFailure(t *testing.T) {
	tr := &fakeTransport{
		searchFunc: func(ctx context.Context, payload transport.Payload) (*transport.Response, error) {
			t.Fatal("transport should not be called when embedding fails")
			return nil, nil
		},
	}
	cfg := config.Default()
	c := client.New(tr, cfg, &fakeEmbedder{err: fmt.Errorf("embedding service down")}, prometheus.NewRegistry())

	_, err := c.Search(context.Background(), client.SearchRequest{QueryText: "x", Principal: "u@x.com"})
	require.Error(t, err)
}

func TestGroupSearchShape(t *testing.T) {
	var gotYQL string
	tr := &fakeTransport{
		searchFunc: func(ctx context.Context, payload transport.Payload) (*transport.Response, error) {
			gotYQL = payload[transport.KeyYQL].(string)
			return &transport.Response{}, nil
		},
	}
	c := newTestClient(t, tr)

	_, err := c.GroupSearch(context.Background(), client.GroupSearchRequest{
		QueryText: "alpha",
		Principal: "u@x.com",
		Sources:   []string{"*"},
	})
	require.NoError(t, err)
	assert.Contains(t, gotYQL, "limit 0")
	assert.Contains(t, gotYQL, "all(group(app) each(group(entity) each(output(count()))))")
}

func TestSearchExcludesDisconnectedAppSchemas(t *testing.T) {
	var gotYQL string
	tr := &fakeTransport{
		searchFunc: func(ctx context.Context, payload transport.Payload) (*transport.Response, error) {
			gotYQL = payload[transport.KeyYQL].(string)
			return &transport.Response{}, nil
		},
	}
	c := newTestClient(t, tr)

	_, err := c.Search(context.Background(), client.SearchRequest{
		QueryText:        "alpha",
		Principal:        "u@x.com",
		Sources:          []string{"file", "mail", "mail_attachment"},
		DisconnectedApps: []source.App{source.Gmail},
	})
	require.NoError(t, err)
	assert.Contains(t, gotYQL, "select * from sources file")
	assert.NotContains(t, gotYQL, "mail_attachment")
}

func TestUpsertDocumentRetriesOnThrottling(t *testing.T) {
	var attempts int32
	tr := &fakeTransport{
		insertFunc: func(ctx context.Context, ref transport.DocumentRef, fields map[string]any) error {
			n := atomic.AddInt32(&attempts, 1)
			if n == 1 {
				return fmt.Errorf("request throttled, slow down")
			}
			return nil
		},
	}
	cfg := config.Default()
	cfg.RetryDelay = time.Millisecond // keep the test fast; schedule shape is covered by client package docs/spec, not wall-clock here
	c := client.New(tr, cfg, &fakeEmbedder{}, prometheus.NewRegistry())

	err := c.UpsertDocument(context.Background(), transport.DocumentRef{Namespace: "ns", Schema: "file", DocID: "d1"}, map[string]any{"a": 1})
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&attempts))
}

func TestUpsertDocumentFailsFastOnNonThrottlingError(t *testing.T) {
	var attempts int32
	tr := &fakeTransport{
		insertFunc: func(ctx context.Context, ref transport.DocumentRef, fields map[string]any) error {
			atomic.AddInt32(&attempts, 1)
			return fmt.Errorf("schema validation rejected")
		},
	}
	c := newTestClient(t, tr)

	err := c.UpsertDocument(context.Background(), transport.DocumentRef{Namespace: "ns", Schema: "file", DocID: "d1"}, map[string]any{"a": 1})
	require.Error(t, err)
	assert.True(t, searcherrors.Is(err, searcherrors.KindInsertFailure))
	assert.Equal(t, int32(1), atomic.LoadInt32(&attempts))
}

func TestGetDocumentOrNilConvertsNotFound(t *testing.T) {
	tr := &fakeTransport{
		getDocumentFunc: func(ctx context.Context, ref transport.DocumentRef) (map[string]any, error) {
			return nil, searcherrors.RetrievalFailure(ref.DocID, ref.Schema)
		},
	}
	c := newTestClient(t, tr)

	doc, err := c.GetDocumentOrNil(context.Background(), transport.DocumentRef{Namespace: "ns", Schema: "file", DocID: "missing"})
	require.NoError(t, err)
	assert.Nil(t, doc)
}

func TestFetchAllByNameConcatenatesBatches(t *testing.T) {
	tr := &fakeTransport{
		searchFunc: func(ctx context.Context, payload transport.Payload) (*transport.Response, error) {
			if _, isCount := payload[transport.KeyOffset]; !isCount {
				return &transport.Response{TotalCount: 5}, nil
			}
			return &transport.Response{
				Hits: []map[string]any{
					{"id": "doc", "fields": map[string]any{"x": 1}},
				},
			}, nil
		},
	}
	c := newTestClient(t, tr)

	docs, err := c.FetchAllByName(context.Background(), "file", client.FetchAllOptions{Concurrency: 2, BatchSize: 2})
	require.NoError(t, err)
	assert.Len(t, docs, 3) // ceil(5/2) = 3 batches, one doc each in this fake
}

func TestFetchAllByNameFailsFastOnBatchError(t *testing.T) {
	tr := &fakeTransport{
		searchFunc: func(ctx context.Context, payload transport.Payload) (*transport.Response, error) {
			if _, isCount := payload[transport.KeyOffset]; !isCount {
				return &transport.Response{TotalCount: 10}, nil
			}
			return nil, fmt.Errorf("batch failed")
		},
	}
	c := newTestClient(t, tr)

	_, err := c.FetchAllByName(context.Background(), "file", client.FetchAllOptions{Concurrency: 2, BatchSize: 2})
	require.Error(t, err)
}

func TestGetItemsBindsIsIntentSearchWhenIntentPresent(t *testing.T) {
	var gotPayload transport.Payload
	tr := &fakeTransport{
		searchFunc: func(ctx context.Context, payload transport.Payload) (*transport.Response, error) {
			gotPayload = payload
			return &transport.Response{}, nil
		},
	}
	c := newTestClient(t, tr)

	_, err := c.GetItems(context.Background(), client.ItemsRequest{
		Principal: "u@x.com",
		Sources:   []string{"mail"},
		TimeField: "createdAt",
		Intent:    &profile.Intent{From: []string{"a@b.com"}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1.0, gotPayload[transport.KeyInputQueryIsIntent])
}

func TestGetItemsBindsIsIntentSearchFalseWithoutIntent(t *testing.T) {
	var gotPayload transport.Payload
	tr := &fakeTransport{
		searchFunc: func(ctx context.Context, payload transport.Payload) (*transport.Response, error) {
			gotPayload = payload
			return &transport.Response{}, nil
		},
	}
	c := newTestClient(t, tr)

	_, err := c.GetItems(context.Background(), client.ItemsRequest{
		Principal: "u@x.com",
		Sources:   []string{"mail"},
		TimeField: "createdAt",
	})
	require.NoError(t, err)
	assert.Equal(t, 0.0, gotPayload[transport.KeyInputQueryIsIntent])
}

func TestSearchCollectionRAGRejectsEmptyQuery(t *testing.T) {
	tr := &fakeTransport{}
	c := newTestClient(t, tr)

	_, err := c.SearchCollectionRAG(context.Background(), client.RAGRequest{QueryText: "  ", Principal: "u@x.com"})
	require.Error(t, err)
	assert.True(t, searcherrors.Is(err, searcherrors.KindValidation))
}
