package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadWriteRemoveClear(t *testing.T) {
	store := New()
	ctx := context.Background()

	_, found, err := store.Read(ctx, "todos")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Write(ctx, "todos", `[{"id":"a"}]`))
	value, found, err := store.Read(ctx, "todos")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, `[{"id":"a"}]`, value)

	require.NoError(t, store.Write(ctx, "todos", "replaced"))
	value, _, _ = store.Read(ctx, "todos")
	assert.Equal(t, "replaced", value)

	require.NoError(t, store.Remove(ctx, "todos"))
	_, found, _ = store.Read(ctx, "todos")
	assert.False(t, found)

	// Removing an absent key is fine.
	require.NoError(t, store.Remove(ctx, "todos"))

	require.NoError(t, store.Write(ctx, "a", "1"))
	require.NoError(t, store.Write(ctx, "b", "2"))
	require.NoError(t, store.Clear(ctx))
	_, found, _ = store.Read(ctx, "a")
	assert.False(t, found)
	_, found, _ = store.Read(ctx, "b")
	assert.False(t, found)
}

func TestFailureInjection(t *testing.T) {
	store := New()
	ctx := context.Background()

	require.NoError(t, store.Write(ctx, "todos", "before"))

	store.FailWrites(true)
	err := store.Write(ctx, "todos", "after")
	require.ErrorIs(t, err, ErrWriteFailed)

	// The stored value is untouched and the attempt was counted.
	value, found, _ := store.Read(ctx, "todos")
	require.True(t, found)
	assert.Equal(t, "before", value)
	assert.Equal(t, 2, store.WriteCount())

	store.FailWrites(false)
	require.NoError(t, store.Write(ctx, "todos", "after"))
	value, _, _ = store.Read(ctx, "todos")
	assert.Equal(t, "after", value)
}

func TestIdentityTag(t *testing.T) {
	assert.Equal(t, "memory", New().IdentityTag())
}
