package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	client = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client = nil })
	return mr
}

type cachedProfile struct {
	ID     string `json:"id"`
	Handle string `json:"handle"`
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "post:42", PostKey(42))
	assert.Equal(t, "profile:abc", ProfileKey("abc"))
}

func TestGetSetJSON(t *testing.T) {
	setupMiniredis(t)
	ctx := context.Background()

	var out cachedProfile
	found, err := GetJSON(ctx, "profile:missing", &out)
	require.NoError(t, err)
	assert.False(t, found)

	in := cachedProfile{ID: "p1", Handle: "runner42"}
	require.NoError(t, SetJSON(ctx, "profile:p1", in, time.Minute))

	found, err = GetJSON(ctx, "profile:p1", &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, in, out)
}

func TestGetJSON_NilClientIsNoop(t *testing.T) {
	client = nil

	var out cachedProfile
	found, err := GetJSON(context.Background(), "profile:p1", &out)
	require.NoError(t, err)
	assert.False(t, found)

	assert.NoError(t, SetJSON(context.Background(), "profile:p1", out, time.Minute))
}

func TestInvalidate(t *testing.T) {
	mr := setupMiniredis(t)
	ctx := context.Background()

	require.NoError(t, SetJSON(ctx, "post:1", cachedProfile{ID: "x"}, time.Minute))
	require.True(t, mr.Exists("post:1"))

	Invalidate(ctx, "post:1")
	assert.False(t, mr.Exists("post:1"))
}

func TestAside(t *testing.T) {
	setupMiniredis(t)
	ctx := context.Background()

	fetches := 0
	fetch := func(dest *cachedProfile) func() error {
		return func() error {
			fetches++
			*dest = cachedProfile{ID: "p1", Handle: "runner42"}
			return nil
		}
	}

	var first cachedProfile
	require.NoError(t, Aside(ctx, "profile:p1", &first, time.Minute, fetch(&first)))
	assert.Equal(t, 1, fetches)

	// second read is served from the cache
	var second cachedProfile
	require.NoError(t, Aside(ctx, "profile:p1", &second, time.Minute, fetch(&second)))
	assert.Equal(t, 1, fetches)
	assert.Equal(t, first, second)
}

func TestAside_FetchErrorPropagates(t *testing.T) {
	setupMiniredis(t)

	wantErr := errors.New("boom")
	var out cachedProfile
	err := Aside(context.Background(), "profile:p1", &out, time.Minute, func() error {
		return wantErr
	})
	assert.ErrorIs(t, err, wantErr)
}
