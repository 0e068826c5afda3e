package client_test

import (
	"context"

	"github.com/vespabridge/searchkit/transport"
)

// fakeTransport is a hand-rolled test double: a struct of function fields,
// the same adapter shape the teacher repo uses for writeFunc in
// vector_store.go. No mocking framework involved.
type fakeTransport struct {
	searchFunc               func(ctx context.Context, payload transport.Payload) (*transport.Response, error)
	insertFunc               func(ctx context.Context, ref transport.DocumentRef, fields map[string]any) error
	updateDocumentFunc       func(ctx context.Context, ref transport.DocumentRef, fields map[string]any) error
	getDocumentFunc          func(ctx context.Context, ref transport.DocumentRef) (map[string]any, error)
	deleteDocumentFunc       func(ctx context.Context, ref transport.DocumentRef) error
	getDocumentsByDocIDsFunc func(ctx context.Context, namespace, schema string, docIDs []string) ([]map[string]any, error)
	getDocumentsByThreadFunc func(ctx context.Context, namespace, schema, threadID string) ([]map[string]any, error)
	ifDocumentsExistFunc     func(ctx context.Context, namespace, schema string, docIDs []string) (map[string]bool, error)
}

func (f *fakeTransport) Search(ctx context.Context, payload transport.Payload) (*transport.Response, error) {
	return f.searchFunc(ctx, payload)
}

func (f *fakeTransport) Insert(ctx context.Context, ref transport.DocumentRef, fields map[string]any) error {
	return f.insertFunc(ctx, ref, fields)
}

func (f *fakeTransport) UpdateDocument(ctx context.Context, ref transport.DocumentRef, fields map[string]any) error {
	return f.updateDocumentFunc(ctx, ref, fields)
}

func (f *fakeTransport) GetDocument(ctx context.Context, ref transport.DocumentRef) (map[string]any, error) {
	return f.getDocumentFunc(ctx, ref)
}

func (f *fakeTransport) DeleteDocument(ctx context.Context, ref transport.DocumentRef) error {
	return f.deleteDocumentFunc(ctx, ref)
}

func (f *fakeTransport) GetDocumentsByDocIDs(ctx context.Context, namespace, schema string, docIDs []string) ([]map[string]any, error) {
	return f.getDocumentsByDocIDsFunc(ctx, namespace, schema, docIDs)
}

func (f *fakeTransport) GetDocumentsByThreadID(ctx context.Context, namespace, schema, threadID string) ([]map[string]any, error) {
	return f.getDocumentsByThreadFunc(ctx, namespace, schema, threadID)
}

func (f *fakeTransport) IfDocumentsExist(ctx context.Context, namespace, schema string, docIDs []string) (map[string]bool, error) {
	return f.ifDocumentsExistFunc(ctx, namespace, schema, docIDs)
}

var _ transport.Transport = (*fakeTransport)(nil)
