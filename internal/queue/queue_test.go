package queue_test

import (
	"testing"

	"github.com/gungnir479/pta/internal/queue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueue(t *testing.T) {
	var q queue.Queue[int]
	assert.True(t, q.Empty())
	assert.PanicsWithError(t, queue.ErrEmpty.Error(), func() { q.Pop() })

	q.Push(1)
	q.Push(2)
	require.Equal(t, 2, q.Len())

	assert.Equal(t, 1, q.Pop())
	q.Push(3)
	assert.Equal(t, 2, q.Pop())
	assert.Equal(t, 3, q.Pop())
	assert.True(t, q.Empty())

	// Reusable after draining.
	q.Push(4)
	assert.Equal(t, 4, q.Pop())
}
