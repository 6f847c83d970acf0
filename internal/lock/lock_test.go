package lock

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalSerializesSameKey(t *testing.T) {
	l := NewLocal(time.Second)
	ctx := context.Background()

	var mu sync.Mutex
	inside, maxInside := 0, 0
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := l.Lock(ctx, BookingKey("2025-01-15"))
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			inside++
			if inside > maxInside {
				maxInside = inside
			}
			mu.Unlock()
			time.Sleep(time.Millisecond)
			mu.Lock()
			inside--
			mu.Unlock()
			assert.NoError(t, release(ctx))
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, maxInside)
	assert.Empty(t, l.slots)
}

func TestLocalDifferentKeysDoNotBlock(t *testing.T) {
	l := NewLocal(time.Second)
	ctx := context.Background()
	r1, err := l.Lock(ctx, "a")
	require.NoError(t, err)
	defer r1(ctx)

	timed, cancel := context.WithTimeout(ctx, 100*time.Millisecond)
	defer cancel()
	r2, err := l.Lock(timed, "b")
	require.NoError(t, err)
	assert.NoError(t, r2(ctx))
}

func TestLocalTimeout(t *testing.T) {
	l := NewLocal(time.Second)
	ctx := context.Background()
	release, err := l.Lock(ctx, "a")
	require.NoError(t, err)

	timed, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	_, err = l.Lock(timed, "a")
	assert.ErrorIs(t, err, ErrTimeout)

	require.NoError(t, release(ctx))
	require.NoError(t, release(ctx), "second release is a no-op")

	again, err := l.Lock(ctx, "a")
	require.NoError(t, err)
	assert.NoError(t, again(ctx))
}

func TestLocalGivesUpAfterWait(t *testing.T) {
	l := NewLocal(30 * time.Millisecond)
	ctx := context.Background()
	release, err := l.Lock(ctx, BookingKey("2025-01-15"))
	require.NoError(t, err)
	defer release(ctx)

	start := time.Now()
	_, err = l.Lock(ctx, BookingKey("2025-01-15"))
	assert.ErrorIs(t, err, ErrTimeout)
	assert.Less(t, time.Since(start), time.Second)
}

func TestRedisLock(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	ctx := context.Background()
	client, err := NewRedisClient(ctx, addr, "", 0)
	require.NoError(t, err)
	defer client.Close()

	l := NewRedis(client, time.Second, 100*time.Millisecond)
	key := BookingKey("test-" + time.Now().Format(time.RFC3339Nano))

	release, err := l.Lock(ctx, key)
	require.NoError(t, err)

	_, err = l.Lock(ctx, key)
	assert.ErrorIs(t, err, ErrTimeout)

	require.NoError(t, release(ctx))
	again, err := l.Lock(ctx, key)
	require.NoError(t, err)
	assert.NoError(t, again(ctx))
}
