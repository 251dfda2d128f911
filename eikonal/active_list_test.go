package eikonal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestActiveList(t *testing.T) {
	al := NewActiveList()
	assert.Equal(t, 0, al.Len())
	assert.Empty(t, al.Snapshot())

	for _, id := range []int{7, 3, 9, 1} {
		assert.True(t, al.Add(id))
	}
	assert.False(t, al.Add(3))
	assert.Equal(t, 4, al.Len())
	assert.Equal(t, []int{1, 3, 7, 9}, al.Snapshot())

	snap := al.Snapshot()
	assert.True(t, al.Remove(7))
	assert.False(t, al.Remove(7))
	assert.False(t, al.Remove(42))
	assert.Equal(t, []int{1, 3, 7, 9}, snap)
	assert.Equal(t, []int{1, 3, 9}, al.Snapshot())
	assert.False(t, al.Contains(7))
	assert.True(t, al.Contains(9))

	// Removing the last slot and re-adding keeps the index consistent
	assert.True(t, al.Remove(1))
	assert.True(t, al.Remove(9))
	assert.True(t, al.Add(9))
	assert.Equal(t, []int{3, 9}, al.Snapshot())
	for _, id := range al.Snapshot() {
		assert.True(t, al.Remove(id))
	}
	assert.Equal(t, 0, al.Len())

	al.Add(5)
	al.Reset()
	assert.Equal(t, 0, al.Len())
	assert.False(t, al.Contains(5))
	assert.True(t, al.Add(5))
}
