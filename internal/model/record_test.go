package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordAccessors(t *testing.T) {
	r := Record{
		FieldID:        "agent_1",
		FieldCreatedAt: "2024-01-15T09:00:00Z",
		FieldUpdatedAt: "2024-01-16T09:00:00Z",
		FieldUserID:    "user_abc",
		FieldVersion:   3,
	}

	assert.Equal(t, "agent_1", r.ID())
	assert.Equal(t, "2024-01-15T09:00:00Z", r.CreatedAt())
	assert.Equal(t, "2024-01-16T09:00:00Z", r.UpdatedAt())
	assert.Equal(t, "user_abc", r.UserID())
	assert.Equal(t, 3, r.Version())
}

func TestRecordVersionAcceptsFloat(t *testing.T) {
	// json.Unmarshal into map[string]any yields float64 for numbers.
	assert.Equal(t, 2, Record{FieldVersion: float64(2)}.Version())
	assert.Equal(t, 5, Record{FieldVersion: int64(5)}.Version())
	assert.Equal(t, 0, Record{}.Version())
	assert.Equal(t, 0, Record{FieldVersion: "2"}.Version())
}

func TestRecordCloneIsDeep(t *testing.T) {
	r := Record{
		"name":  "Aria",
		"voice": map[string]any{"lang": "en-US"},
		"tags":  []any{"sales"},
	}

	c := r.Clone()
	c["name"] = "Marcus"
	c["voice"].(map[string]any)["lang"] = "de-DE"
	c["tags"].([]any)[0] = "support"

	assert.Equal(t, "Aria", r["name"])
	assert.Equal(t, "en-US", r["voice"].(map[string]any)["lang"])
	assert.Equal(t, "sales", r["tags"].([]any)[0])
}

func TestRecordCloneNil(t *testing.T) {
	var r Record
	assert.Nil(t, r.Clone())
}

func TestRecordMergeProtectsIdentityFields(t *testing.T) {
	base := Record{
		FieldID:        "call_1",
		FieldCreatedAt: "2024-01-01T00:00:00Z",
		FieldUserID:    "user_a",
		"status":       "queued",
	}

	out := base.Merge(Record{
		FieldID:        "call_evil",
		FieldCreatedAt: "2030-01-01T00:00:00Z",
		FieldUserID:    "user_b",
		"status":       "completed",
		"duration_sec": 42,
	})

	assert.Equal(t, "call_1", out.ID())
	assert.Equal(t, "2024-01-01T00:00:00Z", out.CreatedAt())
	assert.Equal(t, "user_a", out.UserID())
	assert.Equal(t, "completed", out["status"])
	assert.Equal(t, 42, out["duration_sec"])

	// Merge works on a copy.
	require.Equal(t, "queued", base["status"])
}
