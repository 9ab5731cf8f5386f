package rank

import (
	"sort"
	"time"

	"github.com/starford/ansuz/internal/models"
)

// Index maps each tag to the set of note ids carrying it, plus the derived
// statistics scoring needs. It is ephemeral: rebuilt from the note snapshot
// whenever the collection changes, never persisted.
type Index struct {
	sets     map[string]map[string]struct{}
	lastUsed map[string]time.Time
	maxCount int
}

// Build constructs the tag index from a note snapshot.
func Build(notes []models.Note) *Index {
	ix := &Index{
		sets:     make(map[string]map[string]struct{}),
		lastUsed: make(map[string]time.Time),
	}
	for i := range notes {
		n := &notes[i]
		touched := n.Touched()
		for _, tag := range n.Tags {
			set := ix.sets[tag]
			if set == nil {
				set = make(map[string]struct{})
				ix.sets[tag] = set
			}
			set[n.ID] = struct{}{}
			if touched.After(ix.lastUsed[tag]) {
				ix.lastUsed[tag] = touched
			}
			if len(set) > ix.maxCount {
				ix.maxCount = len(set)
			}
		}
	}
	return ix
}

// Tags returns every indexed tag sorted lexically, giving callers a
// deterministic candidate order regardless of map iteration.
func (ix *Index) Tags() []string {
	out := make([]string, 0, len(ix.sets))
	for tag := range ix.sets {
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}

// Count returns how many notes carry the tag.
func (ix *Index) Count(tag string) int {
	return len(ix.sets[tag])
}

// LastUsed returns the most recent Touched time across notes carrying the
// tag; zero time for unknown tags.
func (ix *Index) LastUsed(tag string) time.Time {
	return ix.lastUsed[tag]
}

// Similarity returns the Jaccard coefficient of the two tags' note-id sets.
// Identical tags score 1 by definition (avoids the 0/0 case); a tag with an
// empty set scores 0 against everything else.
func (ix *Index) Similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	setA, setB := ix.sets[a], ix.sets[b]
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}
	// Iterate the smaller set.
	if len(setB) < len(setA) {
		setA, setB = setB, setA
	}
	inter := 0
	for id := range setA {
		if _, ok := setB[id]; ok {
			inter++
		}
	}
	union := len(setA) + len(setB) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// BaseScore is a tag's standalone desirability prior to any diversity
// adjustment: occurrence count normalized against the most-used tag, plus a
// small recency term.
func (ix *Index) BaseScore(tag string, now time.Time, p Params) float64 {
	if ix.maxCount == 0 {
		return 0
	}
	freq := float64(ix.Count(tag)) / float64(ix.maxCount)
	return freq + p.RecencyWeight*Recency(ix.lastUsed[tag], now, p.RecencyWindow)
}
