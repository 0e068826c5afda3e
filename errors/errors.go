// Package errors attaches a small, stable taxonomy of error kinds to every
// error this library returns, built on top of github.com/samber/oops so
// callers get a stack trace and structured context alongside the kind.
package errors

import (
	"github.com/samber/oops"
)

// Kind classifies why an operation failed. It is a property of the error,
// not a distinct Go type — callers recover it with Of instead of a
// type switch.
type Kind string

const (
	// KindValidation marks a composition-phase failure: a rejected field
	// name, a malformed condition, an empty boolean group, an empty RAG
	// query. Never retried.
	KindValidation Kind = "validation"
	// KindSearchFailure marks a transport failure during a read.
	KindSearchFailure Kind = "search_failure"
	// KindInsertFailure marks a transport failure during a create/update/
	// delete.
	KindInsertFailure Kind = "insert_failure"
	// KindRetrievalFailure marks a required document not being found,
	// distinct from the get-or-nil form which converts this into a nil
	// result instead of an error.
	KindRetrievalFailure Kind = "retrieval_failure"
	// KindTransport marks an unclassified transport/network error.
	KindTransport Kind = "transport"
)

// Validation builds a KindValidation error.
func Validation(format string, args ...any) error {
	return oops.Code(string(KindValidation)).Errorf(format, args...)
}

// SearchFailure wraps cause as a KindSearchFailure error, recording the
// corpus sources that were being searched.
func SearchFailure(cause error, sources []string) error {
	return oops.Code(string(KindSearchFailure)).
		With("sources", sources).
		Wrapf(cause, "search failed")
}

// InsertFailure wraps cause as a KindInsertFailure error, recording the
// docId and schema of the document being written.
func InsertFailure(cause error, docID, schema string) error {
	return oops.Code(string(KindInsertFailure)).
		With("docId", docID).
		With("schema", schema).
		Wrapf(cause, "insert failed")
}

// RetrievalFailure builds a KindRetrievalFailure error for a required
// document that was not found.
func RetrievalFailure(docID, schema string) error {
	return oops.Code(string(KindRetrievalFailure)).
		With("docId", docID).
		With("schema", schema).
		Errorf("document not found")
}

// Transport wraps cause as an unclassified KindTransport error.
func Transport(cause error) error {
	return oops.Code(string(KindTransport)).Wrapf(cause, "transport error")
}

// Of recovers the Kind attached to err, and false if err carries none (e.g.
// it didn't originate from this package).
func Of(err error) (Kind, bool) {
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return "", false
	}
	code := oopsErr.Code()
	if code == "" {
		return "", false
	}
	return Kind(code), true
}

// Is reports whether err carries the given Kind.
func Is(err error, kind Kind) bool {
	k, ok := Of(err)
	return ok && k == kind
}
