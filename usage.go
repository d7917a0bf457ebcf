package toolbox

import (
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// UsageEntry records one successful tool invocation.
type UsageEntry struct {
	ID        string         `json:"id"`
	Tool      string         `json:"tool"`
	Arguments map[string]any `json:"arguments"`
	Result    *Result        `json:"result"`
	Time      time.Time      `json:"time"`
	Duration  time.Duration  `json:"duration"`
}

// UsageRecorder observes executed tool calls. Recorders are purely
// observational: they never influence the response, and the dispatcher
// shields itself from a misbehaving implementation.
type UsageRecorder interface {
	Record(entry UsageEntry)
}

// NopRecorder discards everything. It is the recorder of choice when
// analytics are disabled.
type NopRecorder struct{}

func (NopRecorder) Record(UsageEntry) {}

// MemoryRecorder keeps entries in an in-memory, append-only list for the
// process lifetime. Unbounded growth is accepted.
type MemoryRecorder struct {
	mu      sync.Mutex
	entries []UsageEntry
}

// NewMemoryRecorder creates an empty in-memory recorder.
func NewMemoryRecorder() *MemoryRecorder {
	return &MemoryRecorder{}
}

func (r *MemoryRecorder) Record(entry UsageEntry) {
	if entry.ID == "" {
		entry.ID = ulid.Make().String()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
}

// Entries returns a copy of everything recorded so far.
func (r *MemoryRecorder) Entries() []UsageEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]UsageEntry, len(r.entries))
	copy(out, r.entries)
	return out
}
