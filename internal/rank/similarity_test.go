package rank

import (
	"testing"
	"time"

	"github.com/starford/ansuz/internal/models"
)

func similarityFixture() *Index {
	now := time.Now()
	return Build([]models.Note{
		note("1", now, "go", "web"),
		note("2", now, "go", "web", "http"),
		note("3", now, "go"),
		note("4", now, "cooking"),
	})
}

func TestSimilarity_BoundsAndSymmetry(t *testing.T) {
	ix := similarityFixture()
	tags := ix.Tags()
	for _, a := range tags {
		for _, b := range tags {
			s := ix.Similarity(a, b)
			if s < 0 || s > 1 {
				t.Errorf("Similarity(%s,%s) = %v out of [0,1]", a, b, s)
			}
			if r := ix.Similarity(b, a); r != s {
				t.Errorf("Similarity not symmetric for (%s,%s): %v vs %v", a, b, s, r)
			}
		}
	}
}

func TestSimilarity_SelfIsOne(t *testing.T) {
	ix := similarityFixture()
	for _, tag := range append(ix.Tags(), "never-seen") {
		if s := ix.Similarity(tag, tag); s != 1 {
			t.Errorf("Similarity(%s,%s) = %v, want 1", tag, tag, s)
		}
	}
}

func TestSimilarity_Values(t *testing.T) {
	ix := similarityFixture()
	// go={1,2,3}, web={1,2}: intersection 2, union 3.
	if s := ix.Similarity("go", "web"); s != 2.0/3.0 {
		t.Errorf("Similarity(go,web) = %v, want 2/3", s)
	}
	// Disjoint sets.
	if s := ix.Similarity("go", "cooking"); s != 0 {
		t.Errorf("Similarity(go,cooking) = %v, want 0", s)
	}
	// Unknown tag has an empty set.
	if s := ix.Similarity("go", "ghost"); s != 0 {
		t.Errorf("Similarity(go,ghost) = %v, want 0", s)
	}
}
