// Package rank implements the tag ranking and note relevance engine: the tag
// index, Jaccard similarity, frequency/recency scoring, maximal-marginal-
// relevance diversification, tag bar composition, and the direct/related
// partition of the note collection.
//
// Every function here is pure over the note snapshot it is given; nothing
// holds state across calls.
package rank

import "time"

// Params are the engine's tuning constants. They are configuration defaults,
// not laws of the domain; the YAML config can override each of them.
type Params struct {
	// RecencyWindow is the linear decay window for recency scoring. A tag or
	// note used right now scores 1; anything older than the window scores 0.
	RecencyWindow time.Duration

	// RecencyWeight scales the recency term in a tag's base score. Small on
	// purpose: frequency organizes, recency tie-breaks.
	RecencyWeight float64

	// Lambda trades relevance against diversity in MMR selection. Close to 1
	// favors relevance; the default still breaks up near-duplicate clusters.
	Lambda float64

	// RelatedThreshold is the minimum mean similarity to the selection for a
	// tag to be promoted into the "related" group of the tag bar.
	RelatedThreshold float64

	// TagBarLimit caps the diversified tag list. Zero means unlimited.
	TagBarLimit int
}

// DefaultParams returns the tuned defaults.
func DefaultParams() Params {
	return Params{
		RecencyWindow:    30 * 24 * time.Hour,
		RecencyWeight:    0.2,
		Lambda:           0.92,
		RelatedThreshold: 0.2,
		TagBarLimit:      0,
	}
}

// Recency maps a timestamp to [0,1]: 1 for "right now", linearly decaying to
// 0 at the far edge of the window.
func Recency(t, now time.Time, window time.Duration) float64 {
	if window <= 0 || t.IsZero() {
		return 0
	}
	age := now.Sub(t)
	if age <= 0 {
		return 1
	}
	if age >= window {
		return 0
	}
	return 1 - float64(age)/float64(window)
}
