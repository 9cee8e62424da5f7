package lock

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenRedis_InvalidURL(t *testing.T) {
	_, err := OpenRedis(context.Background(), "not a url")
	assert.Error(t, err)
}

func TestRedisLocker(t *testing.T) {
	url := os.Getenv("RECEIVING_TEST_REDIS_URL")
	if url == "" {
		t.Skip("RECEIVING_TEST_REDIS_URL not set")
	}

	ctx := context.Background()
	locker, err := OpenRedis(ctx, url)
	require.NoError(t, err)
	defer locker.Close()

	key := "receiving:test:" + uuid.NewString()

	lease, err := locker.Obtain(ctx, key, 5*time.Second)
	require.NoError(t, err)

	_, err = locker.Obtain(ctx, key, 5*time.Second)
	assert.ErrorIs(t, err, ErrNotObtained)

	require.NoError(t, lease.Release(ctx))

	again, err := locker.Obtain(ctx, key, 5*time.Second)
	require.NoError(t, err)
	require.NoError(t, again.Release(ctx))
}
