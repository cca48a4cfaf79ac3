package structure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRingCapacityMustBePowerOfTwo(t *testing.T) {
	arena := NewArena(1 << 20)

	assert.Panics(t, func() {
		_ = NewRing[uint64](arena, 1000)
	})
	assert.Panics(t, func() {
		_ = NewRing[uint64](arena, 0)
	})
	assert.NotPanics(t, func() {
		_ = NewRing[uint64](arena, 1024)
	})
}

func TestRingFifoOrder(t *testing.T) {
	arena := NewArena(1 << 16)
	ring := NewRing[uint64](arena, 16)

	for i := uint64(1); i <= 10; i++ {
		require.True(t, ring.Push(i))
	}
	assert.Equal(t, 10, ring.Len())

	var out uint64
	for i := uint64(1); i <= 10; i++ {
		require.True(t, ring.Pop(&out))
		assert.Equal(t, i, out)
	}
	assert.True(t, ring.Empty())
	assert.False(t, ring.Pop(&out))
}

func TestRingFullBoundary(t *testing.T) {
	const capacity = 1 << 16

	arena := NewArena(capacity*8 + 4096)
	ring := NewRing[uint64](arena, capacity)

	// Exactly capacity pushes succeed with no interleaved pop.
	for i := uint64(0); i < capacity; i++ {
		require.True(t, ring.Push(i), "push %d", i)
	}

	// The capacity+1-th push fails.
	assert.False(t, ring.Push(uint64(capacity)))

	// One pop returns the first payload pushed.
	var out uint64
	require.True(t, ring.Pop(&out))
	assert.Equal(t, uint64(0), out)

	// Which frees exactly one slot.
	assert.True(t, ring.Push(uint64(capacity)))
	assert.False(t, ring.Push(uint64(capacity+1)))
}

func TestRingInterleavedWrap(t *testing.T) {
	arena := NewArena(1 << 12)
	ring := NewRing[uint64](arena, 8)

	// Push/pop far past capacity to exercise index wrapping.
	var out uint64
	for i := uint64(0); i < 1000; i++ {
		require.True(t, ring.Push(i))
		require.True(t, ring.Pop(&out))
		assert.Equal(t, i, out)
	}
}

func TestRingCrossGoroutineOrder(t *testing.T) {
	const n = 200_000

	arena := NewArena(1 << 16)
	ring := NewRing[uint64](arena, 1024)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := uint64(1); i <= n; {
			if ring.Push(i) {
				i++
			}
		}
	}()

	var out uint64
	for i := uint64(1); i <= n; {
		if ring.Pop(&out) {
			if out != i {
				t.Fatalf("pop %d observed payload %d", i, out)
			}
			i++
		}
	}
	<-done
	assert.True(t, ring.Empty())
}
