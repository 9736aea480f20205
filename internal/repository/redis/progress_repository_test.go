package redis_test

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vytor/linguaflash/internal/repository/redis"
)

// Runs against a real server; set REDIS_ADDR to enable.
func TestProgressRepository_RoundTrip(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	ctx := context.Background()

	rdb, err := redis.Open(ctx, addr, 0)
	require.NoError(t, err)
	defer rdb.Close()

	repo := redis.NewProgressRepository(rdb)
	userID := "test-" + uuid.NewString()
	t.Cleanup(func() { _ = repo.Delete(context.Background(), userID) })

	doc, err := repo.Get(ctx, userID)
	require.NoError(t, err)
	assert.Nil(t, doc)

	require.NoError(t, repo.Put(ctx, userID, []byte(`{"totalXP":20}`)))
	doc, err = repo.Get(ctx, userID)
	require.NoError(t, err)
	assert.JSONEq(t, `{"totalXP":20}`, string(doc))

	ids, err := repo.ListUserIDs(ctx)
	require.NoError(t, err)
	assert.Contains(t, ids, userID)

	require.NoError(t, repo.Delete(ctx, userID))
	doc, err = repo.Get(ctx, userID)
	require.NoError(t, err)
	assert.Nil(t, doc)
}
