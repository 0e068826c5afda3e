package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	searcherrors "github.com/vespabridge/searchkit/errors"
)

// HTTPTransport speaks the Vespa Document/Query HTTP API: POST /search/
// for reads, and the /document/v1/{namespace}/{schema}/docid/{docId} feed
// path for per-document writes. It is the one concrete Transport this
// repository ships — the core works against the interface, not this type.
type HTTPTransport struct {
	QueryEndpoint string
	FeedEndpoint  string
	HTTPClient    *http.Client
}

// NewHTTPTransport builds an HTTPTransport against the given query/feed
// base URLs, using http.DefaultClient if client is nil.
func NewHTTPTransport(queryEndpoint, feedEndpoint string, client *http.Client) *HTTPTransport {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPTransport{
		QueryEndpoint: queryEndpoint,
		FeedEndpoint:  feedEndpoint,
		HTTPClient:    client,
	}
}

var _ Transport = (*HTTPTransport)(nil)

func (t *HTTPTransport) Search(ctx context.Context, payload Payload) (*Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, searcherrors.Transport(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.QueryEndpoint+"/search/", bytes.NewReader(body))
	if err != nil {
		return nil, searcherrors.Transport(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.HTTPClient.Do(req)
	if err != nil {
		return nil, searcherrors.SearchFailure(err, nil)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, searcherrors.SearchFailure(statusError(resp), nil)
	}

	var wire struct {
		Root struct {
			Fields struct {
				TotalCount int `json:"totalCount"`
			} `json:"fields"`
			Children []map[string]any `json:"children"`
		} `json:"root"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return nil, searcherrors.SearchFailure(err, nil)
	}

	return &Response{
		Hits:       wire.Root.Children,
		TotalCount: wire.Root.Fields.TotalCount,
	}, nil
}

func (t *HTTPTransport) Insert(ctx context.Context, ref DocumentRef, fields map[string]any) error {
	return t.feed(ctx, http.MethodPost, ref, map[string]any{"fields": fields})
}

func (t *HTTPTransport) UpdateDocument(ctx context.Context, ref DocumentRef, fields map[string]any) error {
	updates := make(map[string]any, len(fields))
	for k, v := range fields {
		updates[k] = map[string]any{"assign": v}
	}
	return t.feed(ctx, http.MethodPut, ref, map[string]any{"fields": updates})
}

func (t *HTTPTransport) DeleteDocument(ctx context.Context, ref DocumentRef) error {
	return t.feed(ctx, http.MethodDelete, ref, nil)
}

func (t *HTTPTransport) feed(ctx context.Context, method string, ref DocumentRef, body map[string]any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return searcherrors.InsertFailure(err, ref.DocID, ref.Schema)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, t.docURL(ref), reader)
	if err != nil {
		return searcherrors.InsertFailure(err, ref.DocID, ref.Schema)
	}
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := t.HTTPClient.Do(req)
	if err != nil {
		return searcherrors.InsertFailure(err, ref.DocID, ref.Schema)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return searcherrors.InsertFailure(statusError(resp), ref.DocID, ref.Schema)
	}
	return nil
}

func (t *HTTPTransport) GetDocument(ctx context.Context, ref DocumentRef) (map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.docURL(ref), nil)
	if err != nil {
		return nil, searcherrors.Transport(err)
	}

	resp, err := t.HTTPClient.Do(req)
	if err != nil {
		return nil, searcherrors.Transport(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, searcherrors.RetrievalFailure(ref.DocID, ref.Schema)
	}
	if resp.StatusCode >= 300 {
		return nil, searcherrors.Transport(statusError(resp))
	}

	var wire struct {
		Fields map[string]any `json:"fields"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return nil, searcherrors.Transport(err)
	}
	return wire.Fields, nil
}

func (t *HTTPTransport) GetDocumentsByDocIDs(ctx context.Context, namespace, schema string, docIDs []string) ([]map[string]any, error) {
	out := make([]map[string]any, 0, len(docIDs))
	for _, id := range docIDs {
		doc, err := t.GetDocument(ctx, DocumentRef{Namespace: namespace, Schema: schema, DocID: id})
		if searcherrors.Is(err, searcherrors.KindRetrievalFailure) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, nil
}

func (t *HTTPTransport) GetDocumentsByThreadID(ctx context.Context, namespace, schema, threadID string) ([]map[string]any, error) {
	resp, err := t.Search(ctx, Payload{
		KeyYQL: fmt.Sprintf("select * from sources %s where threadId contains '%s'", schema, threadID),
	})
	if err != nil {
		return nil, err
	}
	return resp.Hits, nil
}

func (t *HTTPTransport) IfDocumentsExist(ctx context.Context, namespace, schema string, docIDs []string) (map[string]bool, error) {
	exists := make(map[string]bool, len(docIDs))
	for _, id := range docIDs {
		_, err := t.GetDocument(ctx, DocumentRef{Namespace: namespace, Schema: schema, DocID: id})
		switch {
		case err == nil:
			exists[id] = true
		case searcherrors.Is(err, searcherrors.KindRetrievalFailure):
			exists[id] = false
		default:
			return nil, err
		}
	}
	return exists, nil
}

func (t *HTTPTransport) docURL(ref DocumentRef) string {
	return fmt.Sprintf("%s/document/v1/%s/%s/docid/%s", t.FeedEndpoint, ref.Namespace, ref.Schema, ref.DocID)
}

func statusError(resp *http.Response) error {
	return fmt.Errorf("unexpected status %d", resp.StatusCode)
}
