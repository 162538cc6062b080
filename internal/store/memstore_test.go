package store

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemStoreAdmitMemberRespectsCapacity(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	ok, err := s.AdmitMember(ctx, "room:x:members", "a", 2)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.AdmitMember(ctx, "room:x:members", "b", 2)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.AdmitMember(ctx, "room:x:members", "c", 2)
	require.NoError(t, err)
	assert.False(t, ok)

	n, err := s.SCard(ctx, "room:x:members")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestMemStoreAdmitMemberUnboundedWhenCapacityZero(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	for i := 0; i < 50; i++ {
		ok, err := s.AdmitMember(ctx, "room:g:members", fmt.Sprintf("tok-%d", i), 0)
		require.NoError(t, err)
		assert.True(t, ok)
	}
}

// Any interleaving of concurrent admissions must admit at most the capacity.
func TestAdmitMemberConcurrentNeverExceedsCapacity(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	const attempts = 64
	var wg sync.WaitGroup
	results := make([]bool, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ok, err := s.AdmitMember(ctx, "room:p:members", fmt.Sprintf("tok-%d", i), 2)
			assert.NoError(t, err)
			results[i] = ok
		}(i)
	}
	wg.Wait()

	admitted := 0
	for _, ok := range results {
		if ok {
			admitted++
		}
	}
	assert.Equal(t, 2, admitted)

	n, err := s.SCard(ctx, "room:p:members")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestMemStoreTTL(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	now := time.Now()
	s.SetClock(func() time.Time { return now })

	_, err := s.TTL(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Set(ctx, "k", "v", time.Minute))
	d, err := s.TTL(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, time.Minute, d)

	require.NoError(t, s.HSet(ctx, "h", map[string]string{"f": "v"}))
	d, err = s.TTL(ctx, "h")
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), d)
}

func TestMemStoreExpiryRemovesKey(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	base := time.Now()
	now := base
	s.SetClock(func() time.Time { return now })

	require.NoError(t, s.HSet(ctx, "room:z", map[string]string{"kind": "private"}))
	require.NoError(t, s.Expire(ctx, "room:z", 10*time.Minute))

	exists, err := s.Exists(ctx, "room:z")
	require.NoError(t, err)
	assert.True(t, exists)

	now = base.Add(10*time.Minute + time.Second)

	exists, err = s.Exists(ctx, "room:z")
	require.NoError(t, err)
	assert.False(t, exists)

	fields, err := s.HGetAll(ctx, "room:z")
	require.NoError(t, err)
	assert.Empty(t, fields)
}

func TestMemStoreListOrder(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	for _, v := range []string{"one", "two", "three"} {
		require.NoError(t, s.RPush(ctx, "log", v))
	}

	entries, err := s.LRange(ctx, "log")
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two", "three"}, entries)
}
