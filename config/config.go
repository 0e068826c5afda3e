// Package config loads typed configuration for the client via koanf,
// layering environment variables over an optional config file.
package config

import (
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds every option named in the transport/dispatch contract. Zero
// values are not valid configuration; use Default() as a starting point.
type Config struct {
	// MaxRetryAttempts bounds the insert retry loop (§5).
	MaxRetryAttempts int `koanf:"max_retry_attempts"`
	// RetryDelay is the base delay for exponential backoff; the Nth retry
	// waits RetryDelay * 2^N.
	RetryDelay time.Duration `koanf:"retry_delay"`
	// Page is the default result limit when a caller omits one.
	Page int `koanf:"page"`
	// IsDebugMode enables debug payload fields (ranking.listFeatures,
	// tracelevel).
	IsDebugMode bool `koanf:"is_debug_mode"`
	// UserQueryUpdateInterval is the minimum interval between query-history
	// record updates for the same principal.
	UserQueryUpdateInterval time.Duration `koanf:"user_query_update_interval"`
	// Namespace and Cluster are passed through to the transport untouched.
	Namespace string `koanf:"namespace"`
	Cluster   string `koanf:"cluster"`
	// FeedEndpoint and QueryEndpoint are the transport's base URLs for
	// writes and reads respectively.
	FeedEndpoint  string `koanf:"feed_endpoint"`
	QueryEndpoint string `koanf:"query_endpoint"`
	// FetchConcurrency bounds the semaphore in client.FetchAllByName.
	FetchConcurrency int `koanf:"fetch_concurrency"`
	// FetchBatchSize is the page size of each batched fetch query.
	FetchBatchSize int `koanf:"fetch_batch_size"`
	// RequestTimeout is the per-request transport deadline (spec.md §4.7's
	// default "30s").
	RequestTimeout time.Duration `koanf:"request_timeout"`
}

// Default returns the documented defaults: 8 max retry attempts, a 2s base
// retry delay, fetch concurrency 3, fetch batch size 400, 30s timeout.
func Default() Config {
	return Config{
		MaxRetryAttempts:        8,
		RetryDelay:              2 * time.Second,
		Page:                    20,
		FetchConcurrency:        3,
		FetchBatchSize:          400,
		RequestTimeout:          30 * time.Second,
		UserQueryUpdateInterval: time.Minute,
	}
}

// Load merges Default() with an optional YAML config file (if path is
// non-empty) and environment variables prefixed with "SEARCHKIT_", in that
// precedence order (env wins over file, file wins over defaults).
func Load(path string) (Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, err
		}
	}

	if err := k.Load(env.Provider("SEARCHKIT_", ".", envKeyTransformer), nil); err != nil {
		return Config{}, err
	}

	// Unmarshal onto the defaults rather than a zero Config: koanf/
	// mapstructure only overwrites the fields actually present in the
	// loaded file/env sources, leaving every other default untouched.
	out := Default()
	if err := k.Unmarshal("", &out); err != nil {
		return Config{}, err
	}
	return out, nil
}

// envKeyTransformer turns SEARCHKIT_MAX_RETRY_ATTEMPTS into
// max_retry_attempts, matching the struct tags above.
func envKeyTransformer(s string) string {
	s = strings.TrimPrefix(s, "SEARCHKIT_")
	return strings.ToLower(s)
}
