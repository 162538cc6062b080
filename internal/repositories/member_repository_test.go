package repositories

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ephemeral-chat/internal/store"
)

func TestAdmitUpToCapacity(t *testing.T) {
	repo := NewMemberRepo(store.NewMemStore())
	ctx := context.Background()

	ok, err := repo.Admit(ctx, "r1", "a", 2)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Admit(ctx, "r1", "b", 2)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Admit(ctx, "r1", "c", 2)
	require.NoError(t, err)
	assert.False(t, ok)

	n, err := repo.Count(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestConcurrentAdmissionsNeverExceedTwo(t *testing.T) {
	repo := NewMemberRepo(store.NewMemStore())
	ctx := context.Background()

	const attempts = 100
	var wg sync.WaitGroup
	admitted := make(chan string, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			token := fmt.Sprintf("tok-%d", i)
			ok, err := repo.Admit(ctx, "r1", token, 2)
			if err == nil && ok {
				admitted <- token
			}
		}(i)
	}
	wg.Wait()
	close(admitted)

	count := 0
	for range admitted {
		count++
	}
	assert.Equal(t, 2, count)
}

func TestRemoveFreesSlot(t *testing.T) {
	repo := NewMemberRepo(store.NewMemStore())
	ctx := context.Background()

	ok, _ := repo.Admit(ctx, "r1", "a", 2)
	require.True(t, ok)
	ok, _ = repo.Admit(ctx, "r1", "b", 2)
	require.True(t, ok)

	require.NoError(t, repo.Remove(ctx, "r1", "a"))

	live, err := repo.IsMember(ctx, "r1", "a")
	require.NoError(t, err)
	assert.False(t, live)

	ok, err = repo.Admit(ctx, "r1", "c", 2)
	require.NoError(t, err)
	assert.True(t, ok)
}
