package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"missioncontrol/internal/adapters/memory"
)

func TestSelect(t *testing.T) {
	assert.Equal(t, BackendMemory, Select(""))
	assert.Equal(t, BackendPostgres, Select("postgres://localhost/mc"))
	assert.Equal(t, "postgres", BackendPostgres.String())
	assert.Equal(t, "memory", BackendMemory.String())
}

func TestOpenMemory(t *testing.T) {
	store, err := Open(context.Background(), BackendMemory, "", false)
	require.NoError(t, err)
	_, ok := store.(*memory.Store)
	assert.True(t, ok, "expected memory store")
}
