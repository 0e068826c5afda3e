// Package embedding embeds query strings and trims oversized queries before
// they reach the embedding model. The client uses the resulting vector only
// to check that a query embeds; the payload binds the literal embed(@query)
// instead, and the lexical query text is sent untrimmed. Composition (package
// condition) stays pure; embedding a query string is an I/O-bound Dispatch
// API concern that runs before a condition tree is ever rendered.
package embedding

import (
	"context"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/pkoukk/tiktoken-go"

	searcherrors "github.com/vespabridge/searchkit/errors"
)

// Embedder turns a query string into the vector used for nearest-neighbor
// matching.
type Embedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// OpenAIEmbedder implements Embedder via the OpenAI embeddings endpoint.
type OpenAIEmbedder struct {
	client openai.Client
	model  string
}

// NewOpenAIEmbedder builds an embedder bound to a model name (e.g.
// "text-embedding-3-small"); apiKey configures the underlying client.
func NewOpenAIEmbedder(apiKey, model string) *OpenAIEmbedder {
	return &OpenAIEmbedder{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}
}

// EmbedQuery requests a single embedding vector for text.
func (e *OpenAIEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	resp, err := e.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Model: e.model,
		Input: openai.EmbeddingNewParamsInputUnion{
			OfString: openai.String(text),
		},
	})
	if err != nil {
		return nil, searcherrors.Transport(err)
	}
	if len(resp.Data) == 0 {
		return nil, searcherrors.Validation("embedding response contained no vectors")
	}

	raw := resp.Data[0].Embedding
	vec := make([]float32, len(raw))
	for i, f := range raw {
		vec[i] = float32(f)
	}
	return vec, nil
}

// TokenBudget truncates an overlong query to a maximum token count before
// it is embedded, using the same tokenizer the target embedding model
// expects.
type TokenBudget struct {
	encoding  *tiktoken.Tiktoken
	maxTokens int
}

// NewTokenBudget builds a TokenBudget for encodingName (e.g. "cl100k_base")
// with a maximum of maxTokens tokens.
func NewTokenBudget(encodingName string, maxTokens int) (*TokenBudget, error) {
	enc, err := tiktoken.GetEncoding(encodingName)
	if err != nil {
		return nil, searcherrors.Validation("unknown token encoding %q: %v", encodingName, err)
	}
	return &TokenBudget{encoding: enc, maxTokens: maxTokens}, nil
}

// Truncate returns query unchanged if it fits within the budget, or the
// prefix of its first MaxTokens tokens decoded back to text.
func (b *TokenBudget) Truncate(query string) string {
	tokens := b.encoding.Encode(query, nil, nil)
	if len(tokens) <= b.maxTokens {
		return query
	}
	return b.encoding.Decode(tokens[:b.maxTokens])
}
