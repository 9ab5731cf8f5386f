// Package color assigns each tag a deterministic background color readable
// under white foreground text. Assignments are memoized in a persistent
// tag-color map; a lost persist is harmless because the hash-based
// assignment recomputes identically next session.
package color

import (
	"encoding/json"
	"hash/fnv"
	"log/slog"
	"math"
	"sync"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/starford/ansuz/internal/models"
	"github.com/starford/ansuz/internal/storage"
)

// palette is a fixed set of distinguishable base hues. The contrast loop
// darkens them as needed, so the palette only has to be well-spread, not
// pre-compliant.
var palette = []string{
	"#3b82f6", // blue
	"#10b981", // green
	"#f59e0b", // amber
	"#ef4444", // red
	"#8b5cf6", // violet
	"#ec4899", // pink
	"#06b6d4", // cyan
	"#f97316", // orange
	"#14b8a6", // teal
	"#a855f7", // purple
	"#6366f1", // indigo
	"#84cc16", // lime
}

const (
	minContrast    = 4.5
	lightnessStep  = 0.03
	saturationStep = 0.01
	maxIterations  = 60
)

// Engine memoizes tag colors and writes new assignments back to the
// key-value store. Persist failures are swallowed: the in-memory map keeps
// serving for the rest of the session.
type Engine struct {
	provider storage.Provider
	logger   *slog.Logger

	mu    sync.Mutex
	cache map[string]string
}

// NewEngine creates an engine seeded from the persisted tag-color map.
// Corrupt or missing persisted data falls back to an empty map.
func NewEngine(provider storage.Provider, logger *slog.Logger) *Engine {
	e := &Engine{
		provider: provider,
		logger:   logger,
		cache:    make(map[string]string),
	}
	data, ok, err := provider.Get(storage.KeyTagColors)
	if err != nil {
		logger.Warn("color: load failed", slog.String("error", err.Error()))
		return e
	}
	if ok {
		if err := json.Unmarshal(data, &e.cache); err != nil {
			logger.Warn("color: corrupt color map, starting empty", slog.String("error", err.Error()))
			e.cache = make(map[string]string)
		}
	}
	return e
}

// ColorFor returns the hex background color for a tag, assigning and
// persisting one on first use.
func (e *Engine) ColorFor(tag string) string {
	tag = models.NormalizeTag(tag)

	e.mu.Lock()
	defer e.mu.Unlock()

	if hex, ok := e.cache[tag]; ok {
		return hex
	}

	hex := Assign(tag)
	e.cache[tag] = hex
	e.persistLocked()
	return hex
}

// persistLocked writes the color map back to the store, best effort.
func (e *Engine) persistLocked() {
	data, err := json.Marshal(e.cache)
	if err != nil {
		return
	}
	if err := e.provider.Set(storage.KeyTagColors, data); err != nil {
		e.logger.Warn("color: persist failed", slog.String("error", err.Error()))
	}
}

// Assign computes the color for a tag without any cache: FNV-1a hash into
// the palette, then darkened until it clears the contrast target.
func Assign(tag string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(tag))
	base := palette[int(h.Sum32()%uint32(len(palette)))]
	return darkenForContrast(base)
}

// darkenForContrast lowers lightness (and nudges saturation up) in HSL space
// until the WCAG contrast ratio against white reaches 4.5:1. Some hues
// cannot reach the target before going black, so the loop is capped and
// returns its best effort.
func darkenForContrast(hex string) string {
	c, err := colorful.Hex(hex)
	if err != nil {
		return hex
	}
	for i := 0; i < maxIterations; i++ {
		if ContrastWithWhite(c) >= minContrast {
			break
		}
		h, s, l := c.Hsl()
		l -= lightnessStep
		if l < 0 {
			l = 0
		}
		s += saturationStep
		if s > 1 {
			s = 1
		}
		c = colorful.Hsl(h, s, l).Clamped()
	}
	return c.Hex()
}

// ContrastWithWhite returns the WCAG contrast ratio between the color and
// pure white (relative luminance 1.0).
func ContrastWithWhite(c colorful.Color) float64 {
	return (1.0 + 0.05) / (relativeLuminance(c) + 0.05)
}

// relativeLuminance combines gamma-linearized sRGB channels with the
// standard coefficients.
func relativeLuminance(c colorful.Color) float64 {
	return 0.2126*linearize(c.R) + 0.7152*linearize(c.G) + 0.0722*linearize(c.B)
}

func linearize(ch float64) float64 {
	if ch <= 0.03928 {
		return ch / 12.92
	}
	return math.Pow((ch+0.055)/1.055, 2.4)
}
