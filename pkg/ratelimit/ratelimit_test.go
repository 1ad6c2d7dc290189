package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllow_PerKeyBurst(t *testing.T) {
	kl := New(1, 2, time.Minute)
	defer kl.Stop()

	assert.True(t, kl.Allow("a"))
	assert.True(t, kl.Allow("a"))
	assert.False(t, kl.Allow("a"), "burst exhausted")
	assert.True(t, kl.Allow("b"), "other keys are independent")
	assert.Equal(t, 2, kl.Len())
}

func TestWait_ContextCanceled(t *testing.T) {
	kl := New(0.001, 1, time.Minute)
	defer kl.Stop()

	require.True(t, kl.Allow("k"))
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.Error(t, kl.Wait(ctx, "k"))
}

func TestEvict(t *testing.T) {
	kl := New(1, 1, time.Minute)
	defer kl.Stop()

	kl.Allow("old")
	kl.evict(time.Now().Add(2 * time.Minute))
	assert.Equal(t, 0, kl.Len())
}
