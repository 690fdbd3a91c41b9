package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStorageKey(t *testing.T) {
	assert.Equal(t, "voxboard_user_1_agents", StorageKey("user_1", "agents"))
	assert.Equal(t, "voxboard_demo-user-id_calls", StorageKey("demo-user-id", "calls"))
}

func TestOwnsKey(t *testing.T) {
	assert.True(t, OwnsKey("user_1", "voxboard_user_1_agents"))
	assert.False(t, OwnsKey("user_1", "voxboard_user_2_agents"))
	assert.False(t, OwnsKey("user_1", "voxboard_current_user"))
}
