package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memCounter struct {
	mu     sync.Mutex
	counts map[string]int64
	fail   bool
}

func (m *memCounter) IncrementViews(_ context.Context, id string, n int64) error {
	if m.fail {
		return errors.New("db down")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.counts == nil {
		m.counts = map[string]int64{}
	}
	m.counts[id] += n
	return nil
}

func TestViewRecorder_DrainsOnStop(t *testing.T) {
	c := &memCounter{}
	r := NewViewRecorder(c, 100)
	for i := 0; i < 30; i++ {
		r.Enqueue("a")
	}
	r.Enqueue("b")

	stop := r.Start(3)
	require.NoError(t, stop(context.Background()))
	assert.EqualValues(t, 30, c.counts["a"])
	assert.EqualValues(t, 1, c.counts["b"])
	assert.Zero(t, r.QueueLen())

	// 停止后的浏览直接丢弃
	assert.False(t, r.Enqueue("a"))
	assert.Zero(t, r.QueueLen())
	require.NoError(t, stop(context.Background()), "stop is idempotent")
}

func TestViewRecorder_DropsWhenFull(t *testing.T) {
	r := NewViewRecorder(&memCounter{}, 2)
	assert.True(t, r.Enqueue("a"))
	assert.True(t, r.Enqueue("b"))
	assert.False(t, r.Enqueue("c"))
	assert.Equal(t, 2, r.QueueLen())
}

func TestViewRecorder_NilSafeAndErrors(t *testing.T) {
	var r *ViewRecorder
	assert.NotPanics(t, func() { r.Enqueue("x") })

	failing := NewViewRecorder(&memCounter{fail: true}, 10)
	failing.Enqueue("x")
	stop := failing.Start(1)
	assert.NoError(t, stop(context.Background()))
}

func TestViewRecorder_EnqueueRacingStopIsNeverLost(t *testing.T) {
	c := &memCounter{}
	r := NewViewRecorder(c, 100000)
	stop := r.Start(4)

	var (
		accepted atomic.Int64
		wg       sync.WaitGroup
		begin    = make(chan struct{})
	)
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-begin
			for i := 0; i < 2000; i++ {
				if r.Enqueue("p") {
					accepted.Add(1)
				}
			}
		}()
	}
	close(begin)
	require.NoError(t, stop(context.Background()))
	wg.Wait()

	c.mu.Lock()
	defer c.mu.Unlock()
	assert.Equal(t, accepted.Load(), c.counts["p"], "every accepted view is recorded")
	assert.Zero(t, r.QueueLen())
}
