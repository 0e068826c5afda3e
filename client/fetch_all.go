package client

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/semaphore"

	searcherrors "github.com/vespabridge/searchkit/errors"
	"github.com/vespabridge/searchkit/query"
	"github.com/vespabridge/searchkit/tracing"
	"github.com/vespabridge/searchkit/transport"
)

// Document is one fetched record: its corpus-assigned id and its decoded
// field map.
type Document struct {
	DocID  string
	Fields map[string]any
}

// FetchAllOptions configures Client.FetchAllByName. Concurrency and
// BatchSize default to the client's configured values when zero.
type FetchAllOptions struct {
	Concurrency int
	BatchSize   int
}

// FetchAllByName implements spec.md §5's fetchAllByName: a count query
// followed by ⌈total/batchSize⌉ batched queries issued concurrently under a
// semaphore, ordered by descending createdAt, results concatenated in
// completion order. A single batch failure fails the whole operation; no
// partial result is returned.
func (c *Client) FetchAllByName(ctx context.Context, name string, opts FetchAllOptions) ([]Document, error) {
	ctx, finish := tracing.StartSpan(ctx, "fetch_all_by_name")
	var err error
	defer func() { finish(&err) }()

	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = c.config.FetchConcurrency
	}
	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = c.config.FetchBatchSize
	}

	countProf, err := query.New("").From(name).Limit(0).BuildProfile("unranked")
	if err != nil {
		return nil, err
	}
	countResp, err := c.runQuery(ctx, transport.Payload{transport.KeyTimeout: c.config.RequestTimeout.String()}, countProf)
	if err != nil {
		return nil, err
	}

	total := countResp.TotalCount
	if total == 0 {
		return nil, nil
	}
	numBatches := (total + batchSize - 1) / batchSize

	sem := semaphore.NewWeighted(int64(concurrency))
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		results  []Document
		firstErr error
	)

	for batch := 0; batch < numBatches; batch++ {
		if err := sem.Acquire(ctx, 1); err != nil {
			firstErr = err
			break
		}
		wg.Add(1)
		go func(batch int) {
			defer sem.Release(1)
			defer wg.Done()

			offset := batch * batchSize
			prof, berr := query.New("").
				From(name).
				OrderBy("createdAt", query.Desc).
				Limit(batchSize).
				Offset(offset).
				BuildProfile("unranked")
			if berr == nil {
				var resp *transport.Response
				resp, berr = c.runQuery(ctx, transport.Payload{
					transport.KeyTimeout: c.config.RequestTimeout.String(),
					transport.KeyOffset:  offset,
					transport.KeyHits:    batchSize,
				}, prof)
				if berr == nil {
					c.metrics.FetchBatches.Inc()
					docs := make([]Document, 0, len(resp.Hits))
					for _, h := range resp.Hits {
						fields, _ := h["fields"].(map[string]any)
						id, _ := h["id"].(string)
						docs = append(docs, Document{DocID: id, Fields: fields})
					}
					mu.Lock()
					results = append(results, docs...)
					mu.Unlock()
					return
				}
			}

			mu.Lock()
			if firstErr == nil {
				firstErr = berr
				cancel()
			}
			mu.Unlock()
		}(batch)
	}

	wg.Wait()

	if firstErr != nil {
		err = searcherrors.SearchFailure(fmt.Errorf("batch fetch of %q failed: %w", name, firstErr), []string{name})
		return nil, err
	}
	return results, nil
}
