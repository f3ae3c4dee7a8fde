package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPingsServer(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := New(context.Background(), mr.Addr(), WithPoolSize(4), WithTimeouts(time.Second, time.Second))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	assert.Equal(t, 4, client.Options().PoolSize)
	assert.Equal(t, time.Second, client.Options().DialTimeout)
}

func TestNewFailsWhenUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := New(context.Background(), addr, WithTimeouts(200*time.Millisecond, 200*time.Millisecond))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "platform/cache: ping")
}
