package errors_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	searcherrors "github.com/vespabridge/searchkit/errors"
)

func TestValidationCarriesKind(t *testing.T) {
	err := searcherrors.Validation("field %q is invalid", "foo bar")
	assert.True(t, searcherrors.Is(err, searcherrors.KindValidation))
	assert.False(t, searcherrors.Is(err, searcherrors.KindTransport))
}

func TestInsertFailureCarriesDocContext(t *testing.T) {
	err := searcherrors.InsertFailure(fmt.Errorf("boom"), "doc1", "file")
	kind, ok := searcherrors.Of(err)
	assert.True(t, ok)
	assert.Equal(t, searcherrors.KindInsertFailure, kind)
}

func TestRetrievalFailureKind(t *testing.T) {
	err := searcherrors.RetrievalFailure("doc1", "mail")
	assert.True(t, searcherrors.Is(err, searcherrors.KindRetrievalFailure))
}

func TestOfReturnsFalseForPlainError(t *testing.T) {
	_, ok := searcherrors.Of(fmt.Errorf("plain"))
	assert.False(t, ok)
}
