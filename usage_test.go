package toolbox

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRecorderAppends(t *testing.T) {
	rec := NewMemoryRecorder()

	rec.Record(UsageEntry{
		Tool:      "calculator",
		Arguments: map[string]any{"operation": "add", "a": 1.0, "b": 2.0},
		Result:    Ok(3.0),
		Time:      time.Now(),
		Duration:  time.Millisecond,
	})
	rec.Record(UsageEntry{Tool: "system_info", Result: Ok(nil), Time: time.Now()})

	entries := rec.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "calculator", entries[0].Tool)
	assert.Equal(t, "system_info", entries[1].Tool)

	// Each entry gets a unique ULID assigned on record.
	assert.NotEmpty(t, entries[0].ID)
	assert.NotEmpty(t, entries[1].ID)
	assert.NotEqual(t, entries[0].ID, entries[1].ID)
}

func TestMemoryRecorderEntriesIsACopy(t *testing.T) {
	rec := NewMemoryRecorder()
	rec.Record(UsageEntry{Tool: "a"})

	entries := rec.Entries()
	entries[0].Tool = "mutated"

	assert.Equal(t, "a", rec.Entries()[0].Tool)
}

func TestConfigRecorderSelection(t *testing.T) {
	on := Config{Analytics: true}
	_, ok := on.Recorder().(*MemoryRecorder)
	assert.True(t, ok)

	off := Config{Analytics: false}
	_, ok = off.Recorder().(NopRecorder)
	assert.True(t, ok)
}
