package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) Cache {
	t.Helper()
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL not set")
	}
	c, err := NewRedisCache(context.Background(), url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.(*redisCache).Close() })
	return c
}

func TestJSONRoundTripAndDelete(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()
	key := "test:" + uuid.NewString()

	type profile struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	require.NoError(t, c.SetJSON(ctx, key, profile{ID: "u1", Name: "alice"}, time.Minute))

	var got profile
	require.NoError(t, c.GetJSON(ctx, key, &got))
	assert.Equal(t, "alice", got.Name)

	require.NoError(t, c.Delete(ctx, key))
	require.ErrorIs(t, c.GetJSON(ctx, key, &got), ErrMiss)
}

func TestDeleteNoKeys(t *testing.T) {
	c := &redisCache{}
	require.NoError(t, c.Delete(context.Background()))
}
