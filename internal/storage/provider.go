// Package storage provides the key-value blob store backing the note
// collection and the tag color map.
package storage

// Provider is the minimal key-value contract the rest of the application
// depends on. Values are opaque JSON blobs; callers own (de)serialization.
// Set failures are surfaced here but swallowed by callers that can keep
// serving from in-memory state.
type Provider interface {
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte) error
	Close() error
}

// Well-known keys.
const (
	KeyNotes     = "notes"
	KeyTagColors = "tag_colors"
)
