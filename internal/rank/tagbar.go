package rank

import (
	"sort"
	"time"

	"github.com/starford/ansuz/internal/models"
)

// ComposeTagBar returns the full ordered tag list offered for filtering.
//
// With no active filter the entire tag population is diversified with MMR:
// everything, best-first, de-duplicated. With a filter active the selected
// tags stay locked at the front in their existing order, followed by tags
// related to the whole selection (mean similarity >= threshold, sorted by
// relatedness + base score), followed by the diversified remainder.
func ComposeTagBar(notes []models.Note, selected []string, now time.Time, p Params) []string {
	ix := Build(notes)
	all := ix.Tags()

	score := func(t string) float64 { return ix.BaseScore(t, now, p) }

	// Params uses 0 for "no display cap"; RankDiverse uses negative.
	limit := p.TagBarLimit
	if limit <= 0 {
		limit = -1
	}

	if len(selected) == 0 {
		return RankDiverse(all, score, ix.Similarity, p.Lambda, limit)
	}

	chosen := make(map[string]struct{}, len(selected))
	for _, t := range selected {
		chosen[t] = struct{}{}
	}

	type relTag struct {
		tag string
		rel float64
	}
	var related []relTag
	var other []string

	for _, t := range all {
		if _, ok := chosen[t]; ok {
			continue
		}
		// Relatedness is the mean similarity to every selected tag: a tag
		// must correlate with the whole selection to be promoted, not just
		// one member of it.
		sum := 0.0
		for _, s := range selected {
			sum += ix.Similarity(t, s)
		}
		rel := sum / float64(len(selected))
		if rel >= p.RelatedThreshold {
			related = append(related, relTag{tag: t, rel: rel})
		} else {
			other = append(other, t)
		}
	}

	sort.SliceStable(related, func(i, j int) bool {
		return related[i].rel+score(related[i].tag) > related[j].rel+score(related[j].tag)
	})

	diversified := RankDiverse(other, score, ix.Similarity, p.Lambda, limit)

	out := make([]string, 0, len(selected)+len(related)+len(diversified))
	out = append(out, selected...)
	for _, r := range related {
		out = append(out, r.tag)
	}
	out = append(out, diversified...)
	return out
}
