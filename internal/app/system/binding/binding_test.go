package binding

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func awaitT[K comparable, T any](t *testing.T, b *Binding[K, T]) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, b.Await(ctx))
}

func TestSet_FetchesOnlyOnValueChange(t *testing.T) {
	var calls atomic.Int32
	b := New(func(ctx context.Context, key int) (string, error) {
		calls.Add(1)
		return "page", nil
	})

	assert.True(t, b.Set(1))
	awaitT(t, b)
	assert.False(t, b.Set(1), "same key must not refetch")
	awaitT(t, b)
	assert.True(t, b.Set(2))
	awaitT(t, b)

	assert.Equal(t, int32(2), calls.Load())
}

func TestSuccess_SetsDataAndClearsError(t *testing.T) {
	fail := true
	var mu sync.Mutex
	b := New(func(ctx context.Context, key int) (int, error) {
		mu.Lock()
		defer mu.Unlock()
		if fail {
			return 0, errors.New("down")
		}
		return key * 10, nil
	})

	b.Set(1)
	awaitT(t, b)
	snap := b.Snapshot()
	require.Error(t, snap.Err)
	assert.Nil(t, snap.Data)

	mu.Lock()
	fail = false
	mu.Unlock()
	b.Refresh()
	awaitT(t, b)

	snap = b.Snapshot()
	assert.NoError(t, snap.Err)
	require.NotNil(t, snap.Data)
	assert.Equal(t, 10, *snap.Data)
	assert.False(t, snap.Loading)
}

func TestFailure_KeepsLastGoodData(t *testing.T) {
	b := New(func(ctx context.Context, key int) (int, error) {
		if key == 2 {
			return 0, errors.New("server error")
		}
		return key, nil
	})

	b.Set(1)
	awaitT(t, b)
	b.Set(2)
	awaitT(t, b)

	snap := b.Snapshot()
	assert.EqualError(t, snap.Err, "server error")
	require.NotNil(t, snap.Data)
	assert.Equal(t, 1, *snap.Data, "stale data is retained on failure")
	assert.False(t, snap.Loading)
	assert.Equal(t, 2, snap.Key)
}

func TestLoading_KeepsPreviousData(t *testing.T) {
	release := make(chan struct{})
	b := New(func(ctx context.Context, key int) (int, error) {
		if key == 2 {
			<-release
		}
		return key, nil
	})

	b.Set(1)
	awaitT(t, b)
	b.Set(2)

	snap := b.Snapshot()
	assert.True(t, snap.Loading)
	require.NotNil(t, snap.Data)
	assert.Equal(t, 1, *snap.Data)

	close(release)
	awaitT(t, b)
	assert.Equal(t, 2, *b.Snapshot().Data)
}

func TestLatestRequestWins(t *testing.T) {
	slow := make(chan struct{})
	slowDone := make(chan struct{})
	b := New(func(ctx context.Context, key string) (string, error) {
		if key == "old" {
			<-slow
			defer close(slowDone)
		}
		return key, nil
	})

	b.Set("old")
	b.Set("new")
	awaitT(t, b)
	require.Equal(t, "new", *b.Snapshot().Data)

	// The older, slower response resolves after the newer one.
	close(slow)
	<-slowDone
	time.Sleep(10 * time.Millisecond)

	snap := b.Snapshot()
	assert.Equal(t, "new", *snap.Data)
	assert.False(t, snap.Loading)
}

func TestLatestRequestWins_OlderFailureIgnored(t *testing.T) {
	slow := make(chan struct{})
	b := New(func(ctx context.Context, key int) (int, error) {
		if key == 1 {
			<-slow
			return 0, errors.New("late failure")
		}
		return key, nil
	})

	b.Set(1)
	b.Set(2)
	awaitT(t, b)
	close(slow)
	time.Sleep(10 * time.Millisecond)

	snap := b.Snapshot()
	assert.NoError(t, snap.Err)
	assert.Equal(t, 2, *snap.Data)
}

func TestRefresh_NoKeyIsNoop(t *testing.T) {
	var calls atomic.Int32
	b := New(func(ctx context.Context, key int) (int, error) {
		calls.Add(1)
		return key, nil
	})

	b.Refresh()
	awaitT(t, b)
	assert.Equal(t, int32(0), calls.Load())
	assert.False(t, b.Snapshot().HasKey)
}

func TestAwait_ContextDeadline(t *testing.T) {
	block := make(chan struct{})
	defer close(block)
	b := New(func(ctx context.Context, key int) (int, error) {
		<-block
		return key, nil
	})
	b.Set(1)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, b.Await(ctx), context.DeadlineExceeded)
	assert.True(t, b.Snapshot().Loading)
}

func TestFetchTimeout(t *testing.T) {
	b := New(func(ctx context.Context, key int) (int, error) {
		<-ctx.Done()
		return 0, ctx.Err()
	}, WithTimeout(10*time.Millisecond))

	b.Set(1)
	awaitT(t, b)
	assert.ErrorIs(t, b.Snapshot().Err, context.DeadlineExceeded)
}
