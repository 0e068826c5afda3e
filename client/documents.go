package client

import (
	"context"

	searcherrors "github.com/vespabridge/searchkit/errors"
	"github.com/vespabridge/searchkit/tracing"
	"github.com/vespabridge/searchkit/transport"
)

// UpsertDocument creates or replaces a document's fields, retrying on
// transport throttling per the insert retry discipline of spec.md §5.
func (c *Client) UpsertDocument(ctx context.Context, ref transport.DocumentRef, fields map[string]any) error {
	ctx, finish := tracing.StartSpan(ctx, "upsert_document")
	var err error
	defer func() { finish(&err) }()

	err = c.insertWithRetry(ctx, ref.DocID, ref.Schema, func(ctx context.Context) error {
		return c.transport.Insert(ctx, ref, fields)
	})
	return err
}

// DeleteDocument removes a document. Errors are fatal on first occurrence;
// delete is not part of the retry discipline.
func (c *Client) DeleteDocument(ctx context.Context, ref transport.DocumentRef) error {
	ctx, finish := tracing.StartSpan(ctx, "delete_document")
	var err error
	defer func() { finish(&err) }()

	if err = c.transport.DeleteDocument(ctx, ref); err != nil {
		err = searcherrors.InsertFailure(err, ref.DocID, ref.Schema)
	}
	return err
}

// GetDocument fetches a single document by id. Returns a
// KindRetrievalFailure error when the document does not exist.
func (c *Client) GetDocument(ctx context.Context, ref transport.DocumentRef) (map[string]any, error) {
	ctx, finish := tracing.StartSpan(ctx, "get_document")
	var err error
	defer func() { finish(&err) }()

	var doc map[string]any
	doc, err = c.transport.GetDocument(ctx, ref)
	return doc, err
}

// GetDocumentOrNil is GetDocument but converts a not-found result into
// (nil, nil) instead of an error, per spec.md §7's "get-or-null" policy.
func (c *Client) GetDocumentOrNil(ctx context.Context, ref transport.DocumentRef) (map[string]any, error) {
	doc, err := c.GetDocument(ctx, ref)
	if err != nil {
		if searcherrors.Is(err, searcherrors.KindRetrievalFailure) {
			return nil, nil
		}
		return nil, err
	}
	return doc, nil
}

// IfDocumentsExist checks existence for a batch of docIds without ever
// returning an error for an individual not-found (spec.md §7).
func (c *Client) IfDocumentsExist(ctx context.Context, namespace, schema string, docIDs []string) (map[string]bool, error) {
	ctx, finish := tracing.StartSpan(ctx, "if_documents_exist")
	var err error
	defer func() { finish(&err) }()

	var exists map[string]bool
	exists, err = c.transport.IfDocumentsExist(ctx, namespace, schema, docIDs)
	return exists, err
}
