// Package likes owns the cache-aside protocol for the album like counter.
// Postgres is the only source of truth; Redis memoizes the count and is
// invalidated, never updated in place, on every mutation.
package likes

import (
	"context"
	"strconv"

	"github.com/rs/zerolog"

	"soundcrate/internal/cache"
)

// Source tags where a count was served from. It surfaces to API callers as
// the X-Data-Source response header.
type Source string

const (
	// SourceCache marks a count served from the memoized entry.
	SourceCache Source = "cache"
	// SourceDB marks a count recomputed from the authoritative store.
	SourceDB Source = "db"
)

// Store captures the persistence needs of the like counter.
type Store interface {
	AlbumExists(ctx context.Context, albumID string) error
	InsertAlbumLike(ctx context.Context, albumID, userID string) (string, error)
	DeleteAlbumLike(ctx context.Context, albumID, userID string) error
	CountAlbumLikes(ctx context.Context, albumID string) (int, error)
}

// Cache is the slice of the cache client the service uses.
type Cache interface {
	Lookup(ctx context.Context, key string) (string, cache.Outcome)
	Store(ctx context.Context, key, value string) error
	Invalidate(ctx context.Context, key string) error
}

// Service coordinates like mutations and read-through counting.
type Service struct {
	store Store
	cache Cache
	log   zerolog.Logger
}

// New constructs a Service over the given store and cache.
func New(store Store, cache Cache, log zerolog.Logger) *Service {
	return &Service{store: store, cache: cache, log: log}
}

func cacheKey(albumID string) string {
	return "album-likes:" + albumID
}

// Like records that the user likes the album. The authoritative insert
// commits before the cache entry is invalidated; the reverse order would let
// a concurrent reader repopulate the cache with the pre-write count.
func (s *Service) Like(ctx context.Context, albumID, userID string) error {
	if err := s.store.AlbumExists(ctx, albumID); err != nil {
		return err
	}
	if _, err := s.store.InsertAlbumLike(ctx, albumID, userID); err != nil {
		return err
	}
	s.invalidate(ctx, albumID)
	return nil
}

// Unlike removes the user's like for the album.
func (s *Service) Unlike(ctx context.Context, albumID, userID string) error {
	if err := s.store.DeleteAlbumLike(ctx, albumID, userID); err != nil {
		return err
	}
	s.invalidate(ctx, albumID)
	return nil
}

// Count returns the album's like count and where it came from. Cache
// problems never fail the read: a miss and an unreachable backend both fall
// back to the authoritative store.
func (s *Service) Count(ctx context.Context, albumID string) (int, Source, error) {
	key := cacheKey(albumID)

	val, outcome := s.cache.Lookup(ctx, key)
	switch outcome {
	case cache.Hit:
		count, err := strconv.Atoi(val)
		if err == nil {
			return count, SourceCache, nil
		}
		// Undecodable entry: treat as a miss and recompute.
		s.log.Warn().Str("album_id", albumID).Str("value", val).Msg("discarding malformed cached like count")
	case cache.Unavailable:
		s.log.Warn().Str("album_id", albumID).Msg("like count cache unavailable, falling back to store")
	}

	if err := s.store.AlbumExists(ctx, albumID); err != nil {
		return 0, "", err
	}

	count, err := s.store.CountAlbumLikes(ctx, albumID)
	if err != nil {
		return 0, "", err
	}

	// Best effort repopulation; a failed write must not fail the read.
	if err := s.cache.Store(ctx, key, strconv.Itoa(count)); err != nil {
		s.log.Warn().Err(err).Str("album_id", albumID).Msg("failed to repopulate like count cache")
	}

	return count, SourceDB, nil
}

// invalidate drops the memoized count after a committed mutation. A failed
// delete is logged rather than returned: the write already succeeded, and
// the stale entry lasts at most until the next successful invalidation.
func (s *Service) invalidate(ctx context.Context, albumID string) {
	if err := s.cache.Invalidate(ctx, cacheKey(albumID)); err != nil {
		s.log.Warn().Err(err).Str("album_id", albumID).Msg("failed to invalidate like count cache")
	}
}
