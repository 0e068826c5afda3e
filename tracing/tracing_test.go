package tracing_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vespabridge/searchkit/tracing"
)

func TestStartSpanRecordsErrorWithoutPanicking(t *testing.T) {
	ctx, finish := tracing.StartSpan(context.Background(), "search")
	err := fmt.Errorf("boom")
	finish(&err)
	assert.NotNil(t, ctx)
}

func TestStartSpanNilErrorIsSafe(t *testing.T) {
	_, finish := tracing.StartSpan(context.Background(), "search")
	assert.NotPanics(t, func() { finish(nil) })
}
