package keyspace_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/invoicer/internal/keyspace"
)

func TestMemory_GetSet(t *testing.T) {
	ctx := context.Background()
	m := keyspace.NewMemory()

	_, ok, err := m.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, m.Set(ctx, "k", "v1"))
	require.NoError(t, m.Set(ctx, "k", "v2"))

	v, ok, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v2", v)
	assert.ElementsMatch(t, []string{"k"}, m.Keys())
}

func TestMemory_Concurrent(t *testing.T) {
	ctx := context.Background()
	m := keyspace.NewMemory()

	var wg sync.WaitGroup

	for i := range 20 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			key := fmt.Sprintf("k%d", i)
			_ = m.Set(ctx, key, key)
			_, _, _ = m.Get(ctx, key)
		}()
	}

	wg.Wait()
	assert.Len(t, m.Keys(), 20)
}
