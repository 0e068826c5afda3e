package transport

// Payload field names, per spec.md §6.2. Kept as constants so client/ and
// transport/ can't drift on a stringly-typed key.
const (
	KeyYQL                    = "yql"
	KeyQuery                  = "query"
	KeyEmail                  = "email"
	KeyHits                   = "hits"
	KeyOffset                 = "offset"
	KeyTimeout                = "timeout"
	KeyRankingProfile         = "ranking.profile"
	KeyRankingListFeatures    = "ranking.listFeatures"
	KeyTraceLevel             = "tracelevel"
	KeyPresentationSummary    = "presentation.summary"
	KeyInputQueryEmbedding    = "input.query(e)"
	KeyInputQueryAlpha        = "input.query(alpha)"
	KeyInputQueryRecencyDecay = "input.query(recency_decay_rate)"
	KeyInputQueryIsIntent     = "input.query(is_intent_search)"
	KeyMaxHits                = "maxHits"
	KeyMaxOffset              = "maxOffset"
	KeyApp                    = "app"
	KeyEntity                 = "entity"
	KeyChannelID              = "channelId"
	KeyUserID                 = "userId"
)

// DefaultTimeout is the §4.7 default request timeout.
const DefaultTimeout = "30s"
