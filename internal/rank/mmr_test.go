package rank

import (
	"reflect"
	"testing"
)

// Fixture from a small palette of tags with mutually similar pairs:
// red/blue co-occur heavily (0.8), green/cyan moderately (0.6), and the two
// clusters barely overlap (0.1).
func mmrFixture() (candidates []string, score func(string) float64, sim func(a, b string) float64) {
	scores := map[string]float64{"red": 1.0, "blue": 0.9, "green": 0.8, "cyan": 0.7}
	sims := map[[2]string]float64{
		{"red", "blue"}:   0.8,
		{"green", "cyan"}: 0.6,
		{"red", "green"}:  0.1,
		{"red", "cyan"}:   0.1,
		{"blue", "green"}: 0.1,
		{"blue", "cyan"}:  0.1,
	}
	score = func(t string) float64 { return scores[t] }
	sim = func(a, b string) float64 {
		if a == b {
			return 1
		}
		if v, ok := sims[[2]string{a, b}]; ok {
			return v
		}
		return sims[[2]string{b, a}]
	}
	return []string{"red", "blue", "green", "cyan"}, score, sim
}

func TestRankDiverse_LambdaOneIsPureScoreOrder(t *testing.T) {
	candidates, score, sim := mmrFixture()
	got := RankDiverse(candidates, score, sim, 1.0, -1)
	want := []string{"red", "blue", "green", "cyan"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("lambda=1 order = %v, want %v", got, want)
	}
}

func TestRankDiverse_Diversification(t *testing.T) {
	candidates, score, sim := mmrFixture()
	got := RankDiverse(candidates, score, sim, 0.9, 3)

	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	if got[0] != "red" {
		t.Errorf("first pick = %q, want red (highest score, no penalty yet)", got[0])
	}
	hasGreenOrCyan := false
	for _, tag := range got {
		if tag == "green" || tag == "cyan" {
			hasGreenOrCyan = true
		}
	}
	if !hasGreenOrCyan {
		t.Errorf("result %v should include a tag from the dissimilar cluster", got)
	}
}

func TestRankDiverse_NoDuplicatesAndLength(t *testing.T) {
	candidates, score, sim := mmrFixture()
	for _, limit := range []int{-1, 0, 1, 2, 4, 10} {
		got := RankDiverse(candidates, score, sim, 0.92, limit)

		wantLen := len(candidates)
		if limit >= 0 && limit < wantLen {
			wantLen = limit
		}
		if len(got) != wantLen {
			t.Errorf("limit=%d: len = %d, want %d", limit, len(got), wantLen)
		}
		seen := make(map[string]struct{})
		for _, tag := range got {
			if _, dup := seen[tag]; dup {
				t.Errorf("limit=%d: duplicate tag %q in %v", limit, tag, got)
			}
			seen[tag] = struct{}{}
		}
	}
}

func TestRankDiverse_EmptyCandidates(t *testing.T) {
	got := RankDiverse(nil, func(string) float64 { return 0 }, func(a, b string) float64 { return 0 }, 0.92, 5)
	if len(got) != 0 {
		t.Errorf("empty candidates produced %v", got)
	}
}

func TestRankDiverse_TieBreakIsFirstEncountered(t *testing.T) {
	// All scores equal, no similarity: candidate order must be preserved.
	flat := func(string) float64 { return 0.5 }
	noSim := func(a, b string) float64 { return 0 }
	got := RankDiverse([]string{"b", "a", "c"}, flat, noSim, 0.92, -1)
	want := []string{"b", "a", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("tie order = %v, want %v", got, want)
	}
}
