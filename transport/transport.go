// Package transport is the boundary between the query composition core and
// the wire. It performs no query construction of its own: callers hand it a
// fully-prepared Payload and it marshals/sends it, nothing more.
package transport

import "context"

// Payload is an unordered map of string-keyed fields bound to a request.
// Recognized keys are named as constants in payload.go.
type Payload map[string]any

// DocumentRef identifies a single document for the per-document operations.
type DocumentRef struct {
	Namespace string
	Schema    string
	DocID     string
}

// Response is the raw decoded search/group response.
type Response struct {
	// Hits is the decoded "root.children" array of the Vespa-style
	// response, left as raw maps since each schema shapes its fields
	// differently.
	Hits []map[string]any
	// TotalCount is "root.fields.totalCount", used by fetchAllByName to
	// compute the batch count.
	TotalCount int
}

// Transport is the contract named in spec.md §6.1. The core never
// constructs a query against this interface beyond handing it a Payload; it
// is otherwise opaque.
type Transport interface {
	Search(ctx context.Context, payload Payload) (*Response, error)
	Insert(ctx context.Context, ref DocumentRef, fields map[string]any) error
	UpdateDocument(ctx context.Context, ref DocumentRef, fields map[string]any) error
	GetDocument(ctx context.Context, ref DocumentRef) (map[string]any, error)
	DeleteDocument(ctx context.Context, ref DocumentRef) error
	GetDocumentsByDocIDs(ctx context.Context, namespace, schema string, docIDs []string) ([]map[string]any, error)
	GetDocumentsByThreadID(ctx context.Context, namespace, schema, threadID string) ([]map[string]any, error)
	IfDocumentsExist(ctx context.Context, namespace, schema string, docIDs []string) (map[string]bool, error)
}
