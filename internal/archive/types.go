package archive

import "time"

// Spoiler tiers, in ascending disclosure order. A query at tier T sees
// chunks tagged at tiers up to and including T.
const (
	TierS1 = "S1" // spoiler-free
	TierS2 = "S2" // minor spoilers
	TierS3 = "S3" // full spoilers
)

// MetadataTierKey is the metadata field carrying a chunk's spoiler tier.
const MetadataTierKey = "spoiler_tier"

// tierOrder maps each tier to its position for cap comparisons.
var tierOrder = map[string]int{TierS1: 1, TierS2: 2, TierS3: 3}

// ValidTier reports whether tier names a known spoiler tier.
func ValidTier(tier string) bool {
	_, ok := tierOrder[tier]
	return ok
}

// allowedTiers returns every tier at or below max. An unknown max allows
// only the spoiler-free tier.
func allowedTiers(max string) []string {
	cap, ok := tierOrder[max]
	if !ok {
		cap = tierOrder[TierS1]
	}
	tiers := make([]string, 0, cap)
	for _, t := range []string{TierS1, TierS2, TierS3} {
		if tierOrder[t] <= cap {
			tiers = append(tiers, t)
		}
	}
	return tiers
}

// Chunk is one canonical lore document in the Archives.
type Chunk struct {
	ID        string            // stable identifier, e.g. "canon:the-mesh"
	Content   string            // chunk text, embedded on insert
	Metadata  map[string]string // spoiler tier, source, topic
	CreatedAt time.Time
}

// Result is a retrieved chunk with its similarity score. Higher is more
// similar; the retriever returns results in descending score order.
type Result struct {
	Chunk      Chunk
	Similarity float64
}

// SearchOption configures retrieval via functional options.
type SearchOption func(*searchConfig)

type searchConfig struct {
	maxTier string
}

// WithMaxSpoilerTier caps results at the given spoiler tier. Without this
// option retrieval sees every tier.
func WithMaxSpoilerTier(tier string) SearchOption {
	return func(c *searchConfig) {
		c.maxTier = tier
	}
}

func buildSearchConfig(opts []SearchOption) *searchConfig {
	cfg := &searchConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
