package rank

import (
	"sort"
	"time"

	"github.com/starford/ansuz/internal/models"
)

// Relevance weights for the "related" score. Direct tag overlap dominates;
// co-occurrence catches adjacent topics with zero overlap; recency and tag
// count are tie-breaking nudges an order of magnitude smaller.
const (
	overlapWeight  = 5.0
	recencyWeight  = 0.5
	tagCountWeight = 0.1
)

// ScoredNote pairs a note with its relevance score.
type ScoredNote struct {
	Note  models.Note
	Score float64
}

// DirectAndRelated partitions the collection for a tag selection.
//
// Direct holds every note whose tag set is a superset of the selection,
// sorted most-recently-touched first. Related holds every other note scored
// by overlap, tag co-occurrence, recency, and tag count, sorted by score
// descending. An empty selection returns empty partitions; "nothing is
// filtered, show everything" is the caller's decision.
func DirectAndRelated(notes []models.Note, selected []string, now time.Time, p Params) ([]models.Note, []ScoredNote) {
	if len(selected) == 0 {
		return []models.Note{}, []ScoredNote{}
	}

	ix := Build(notes)
	selSet := make(map[string]struct{}, len(selected))
	for _, t := range selected {
		selSet[t] = struct{}{}
	}

	direct := make([]models.Note, 0, len(notes))
	related := make([]ScoredNote, 0, len(notes))

	for i := range notes {
		n := notes[i]
		if n.HasAllTags(selected) {
			direct = append(direct, n)
			continue
		}

		overlap := 0
		for _, t := range n.Tags {
			if _, ok := selSet[t]; ok {
				overlap++
			}
		}

		// Sum of pairwise Jaccard similarities over every (selected, note
		// tag) pair, computed against the whole collection's index.
		coOccur := 0.0
		for _, s := range selected {
			for _, t := range n.Tags {
				coOccur += ix.Similarity(s, t)
			}
		}

		score := overlapWeight*float64(overlap) +
			coOccur +
			recencyWeight*Recency(n.Touched(), now, p.RecencyWindow) +
			tagCountWeight*float64(len(n.Tags))
		related = append(related, ScoredNote{Note: n, Score: score})
	}

	sort.SliceStable(direct, func(i, j int) bool {
		return direct[i].Touched().After(direct[j].Touched())
	})
	sort.SliceStable(related, func(i, j int) bool {
		return related[i].Score > related[j].Score
	})

	return direct, related
}
