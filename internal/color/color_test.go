package color

import (
	"encoding/json"
	"io"
	"log/slog"
	"regexp"
	"testing"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/starford/ansuz/internal/storage"
)

var hexRe = regexp.MustCompile(`^#[0-9a-f]{6}$`)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestColorFor_Deterministic(t *testing.T) {
	e := NewEngine(storage.NewMemory(), discardLogger())
	tags := []string{"work", "travel", "recipes", "go", "ideas", "Работа", "日本語"}
	for _, tag := range tags {
		first := e.ColorFor(tag)
		if !hexRe.MatchString(first) {
			t.Errorf("ColorFor(%q) = %q, not a hex color", tag, first)
		}
		for i := 0; i < 3; i++ {
			if got := e.ColorFor(tag); got != first {
				t.Errorf("ColorFor(%q) changed: %q then %q", tag, first, got)
			}
		}
	}
}

func TestColorFor_CaseNormalized(t *testing.T) {
	e := NewEngine(storage.NewMemory(), discardLogger())
	if e.ColorFor("Work") != e.ColorFor("work") {
		t.Error("tag case should not change the color")
	}
}

func TestAssign_ContrastTarget(t *testing.T) {
	// Every palette-derived assignment for these tags is known to converge
	// within the iteration cap.
	for _, tag := range []string{"work", "travel", "recipes", "go", "ideas", "home", "music", "books"} {
		hex := Assign(tag)
		c, err := colorful.Hex(hex)
		if err != nil {
			t.Fatalf("Assign(%q) = %q: %v", tag, hex, err)
		}
		if ratio := ContrastWithWhite(c); ratio < 4.5 {
			t.Errorf("Assign(%q) = %q, contrast %.2f < 4.5", tag, hex, ratio)
		}
	}
}

func TestDarkenForContrast_ConvergentHue(t *testing.T) {
	got := darkenForContrast("#60a5fa")
	c, err := colorful.Hex(got)
	if err != nil {
		t.Fatal(err)
	}
	if ratio := ContrastWithWhite(c); ratio < 4.5 {
		t.Errorf("contrast = %.2f, want >= 4.5", ratio)
	}
}

func TestDarkenForContrast_AlreadyCompliant(t *testing.T) {
	// Near-black already clears 4.5:1 and must come back unchanged.
	if got := darkenForContrast("#111111"); got != "#111111" {
		t.Errorf("compliant color changed to %q", got)
	}
}

func TestContrastWithWhite_Bounds(t *testing.T) {
	white, _ := colorful.Hex("#ffffff")
	black, _ := colorful.Hex("#000000")
	if got := ContrastWithWhite(white); got < 0.99 || got > 1.01 {
		t.Errorf("white vs white = %.3f, want 1", got)
	}
	if got := ContrastWithWhite(black); got < 20.99 || got > 21.01 {
		t.Errorf("black vs white = %.3f, want 21", got)
	}
}

func TestColorFor_PersistsAssignments(t *testing.T) {
	mem := storage.NewMemory()
	e := NewEngine(mem, discardLogger())
	want := e.ColorFor("persisted")

	data, ok, _ := mem.Get(storage.KeyTagColors)
	if !ok {
		t.Fatal("color map was not persisted")
	}
	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatal(err)
	}
	if m["persisted"] != want {
		t.Errorf("persisted color = %q, want %q", m["persisted"], want)
	}

	// A fresh engine over the same store must serve the stored color.
	e2 := NewEngine(mem, discardLogger())
	if got := e2.ColorFor("persisted"); got != want {
		t.Errorf("reloaded color = %q, want %q", got, want)
	}
}

func TestColorFor_PersistFailureSwallowed(t *testing.T) {
	mem := storage.NewMemory()
	mem.FailSets = true
	e := NewEngine(mem, discardLogger())

	first := e.ColorFor("volatile")
	if first == "" {
		t.Fatal("no color despite persist failure")
	}
	// Session-local memoization still holds.
	if got := e.ColorFor("volatile"); got != first {
		t.Errorf("in-memory assignment not stable: %q vs %q", first, got)
	}
}

func TestNewEngine_CorruptMapStartsEmpty(t *testing.T) {
	mem := storage.NewMemory()
	_ = mem.Set(storage.KeyTagColors, []byte("{broken"))
	e := NewEngine(mem, discardLogger())
	if got := e.ColorFor("tag"); !hexRe.MatchString(got) {
		t.Errorf("ColorFor after corrupt load = %q", got)
	}
}
