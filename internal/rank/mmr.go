package rank

// RankDiverse reorders candidates by greedy maximal marginal relevance:
// each step picks the candidate maximizing
//
//	lambda*score(t) - (1-lambda)*max(sim(t, chosen...))
//
// so high-scoring tags surface first but near-duplicates of what is already
// chosen are pushed down. Ties go to the first candidate encountered, which
// is deterministic as long as the caller passes candidates in a stable order.
// A negative limit means no limit; limit 0 returns an empty result. The
// result never contains duplicates and never exceeds min(limit, len(candidates)).
func RankDiverse(candidates []string, score func(string) float64, sim func(a, b string) float64, lambda float64, limit int) []string {
	if len(candidates) == 0 || limit == 0 {
		return []string{}
	}
	if limit < 0 || limit > len(candidates) {
		limit = len(candidates)
	}

	remaining := make([]string, len(candidates))
	copy(remaining, candidates)
	chosen := make([]string, 0, limit)

	for len(chosen) < limit && len(remaining) > 0 {
		bestIdx := -1
		bestValue := 0.0
		for i, t := range remaining {
			penalty := 0.0
			for _, c := range chosen {
				if s := sim(t, c); s > penalty {
					penalty = s
				}
			}
			value := lambda*score(t) - (1-lambda)*penalty
			if bestIdx < 0 || value > bestValue {
				bestIdx = i
				bestValue = value
			}
		}
		if bestIdx < 0 {
			break
		}
		chosen = append(chosen, remaining[bestIdx])
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
	}
	return chosen
}
