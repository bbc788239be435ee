package netsync

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableLifecycle(t *testing.T) {
	table := NewTable()

	table.Join("a", DefaultSpawn(400, 300))
	st, ok := table.Get("a")
	require.True(t, ok)
	assert.Equal(t, 400.0, st.Position.X)
	assert.Equal(t, 0.0, st.Angle)

	moved := DefaultSpawn(120, 340)
	moved.Angle = 1.2
	assert.True(t, table.Update("a", moved))

	snap := table.Snapshot()
	assert.Equal(t, moved, snap["a"])

	// snapshots are copies
	snap["a"] = DefaultSpawn(0, 0)
	st, _ = table.Get("a")
	assert.Equal(t, moved, st)

	table.Remove("a")
	assert.Equal(t, 0, table.Len())
	assert.False(t, table.Update("a", moved))
	_, ok = table.Get("a")
	assert.False(t, ok)
}

func TestTableUpdateSnapshot(t *testing.T) {
	table := NewTable()
	table.Join("a", DefaultSpawn(400, 300))
	table.Join("b", DefaultSpawn(400, 300))

	players, ok := table.UpdateSnapshot("a", DefaultSpawn(1, 2))
	require.True(t, ok)
	assert.Len(t, players, 2)
	assert.Equal(t, 1.0, players["a"].Position.X)

	players, ok = table.UpdateSnapshot("gone", DefaultSpawn(5, 5))
	assert.False(t, ok)
	assert.Len(t, players, 2)
	assert.NotContains(t, players, "gone")
}

func TestTableConcurrentWriters(t *testing.T) {
	table := NewTable()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		id := fmt.Sprintf("p%d", i)
		table.Join(id, DefaultSpawn(0, 0))

		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for n := 0; n < 100; n++ {
				players, ok := table.UpdateSnapshot(id, DefaultSpawn(float64(n), float64(i)))
				assert.True(t, ok)
				assert.Equal(t, float64(n), players[id].Position.X)
			}
		}(i)
	}
	wg.Wait()

	for i, st := range table.Snapshot() {
		assert.Equal(t, 99.0, st.Position.X, i)
	}
}
