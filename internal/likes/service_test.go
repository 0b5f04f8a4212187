package likes

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"soundcrate/internal/cache"
	"soundcrate/internal/store"
)

type fakeStore struct {
	count      int
	countCalls int
	albums     map[string]bool
	liked      map[string]bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		albums: map[string]bool{"album-1": true},
		liked:  map[string]bool{},
	}
}

func (f *fakeStore) AlbumExists(_ context.Context, albumID string) error {
	if !f.albums[albumID] {
		return store.ErrAlbumNotFound
	}
	return nil
}

func (f *fakeStore) InsertAlbumLike(_ context.Context, albumID, userID string) (string, error) {
	key := userID + "/" + albumID
	if f.liked[key] {
		return "", store.ErrAlreadyLiked
	}
	f.liked[key] = true
	f.count++
	return "like-1", nil
}

func (f *fakeStore) DeleteAlbumLike(_ context.Context, albumID, userID string) error {
	key := userID + "/" + albumID
	if !f.liked[key] {
		return store.ErrLikeNotFound
	}
	delete(f.liked, key)
	f.count--
	return nil
}

func (f *fakeStore) CountAlbumLikes(_ context.Context, _ string) (int, error) {
	f.countCalls++
	return f.count, nil
}

func newTestService(t *testing.T) (*Service, *fakeStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	st := newFakeStore()
	return New(st, cache.NewWithClient(client), zerolog.Nop()), st, mr
}

func TestCountColdThenWarm(t *testing.T) {
	svc, st, mr := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Like(ctx, "album-1", "user-1"))
	require.NoError(t, svc.Like(ctx, "album-1", "user-2"))

	count, source, err := svc.Count(ctx, "album-1")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, SourceDB, source)

	// The first read repopulated the cache.
	got, err := mr.Get("album-likes:album-1")
	require.NoError(t, err)
	assert.Equal(t, "2", got)

	count, source, err = svc.Count(ctx, "album-1")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, SourceCache, source)
	assert.Equal(t, 1, st.countCalls)
}

func TestMutationInvalidatesCache(t *testing.T) {
	svc, _, mr := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Like(ctx, "album-1", "user-1"))

	_, _, err := svc.Count(ctx, "album-1")
	require.NoError(t, err)
	assert.True(t, mr.Exists("album-likes:album-1"))

	require.NoError(t, svc.Like(ctx, "album-1", "user-2"))
	assert.False(t, mr.Exists("album-likes:album-1"))

	count, source, err := svc.Count(ctx, "album-1")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, SourceDB, source)
}

func TestUnlikeInvalidatesCache(t *testing.T) {
	svc, _, mr := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Like(ctx, "album-1", "user-1"))
	_, _, err := svc.Count(ctx, "album-1")
	require.NoError(t, err)

	require.NoError(t, svc.Unlike(ctx, "album-1", "user-1"))
	assert.False(t, mr.Exists("album-likes:album-1"))

	count, _, err := svc.Count(ctx, "album-1")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestCountCacheUnavailableFallsBack(t *testing.T) {
	svc, _, mr := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Like(ctx, "album-1", "user-1"))

	mr.Close()

	count, source, err := svc.Count(ctx, "album-1")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, SourceDB, source)
}

func TestCountMalformedCacheEntryRecomputes(t *testing.T) {
	svc, _, mr := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Like(ctx, "album-1", "user-1"))
	require.NoError(t, mr.Set("album-likes:album-1", "not-a-number"))

	count, source, err := svc.Count(ctx, "album-1")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, SourceDB, source)

	// The bad entry was replaced by the recomputed value.
	got, err := mr.Get("album-likes:album-1")
	require.NoError(t, err)
	assert.Equal(t, "1", got)
}

func TestLikeUnknownAlbum(t *testing.T) {
	svc, _, _ := newTestService(t)

	err := svc.Like(context.Background(), "album-missing", "user-1")
	assert.True(t, errors.Is(err, store.ErrAlbumNotFound))
}

func TestLikeDuplicate(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Like(ctx, "album-1", "user-1"))
	err := svc.Like(ctx, "album-1", "user-1")
	assert.True(t, errors.Is(err, store.ErrAlreadyLiked))
}

func TestCountUnknownAlbum(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, _, err := svc.Count(context.Background(), "album-missing")
	assert.True(t, errors.Is(err, store.ErrAlbumNotFound))
}
