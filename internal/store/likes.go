package store

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrAlreadyLiked signals the user already likes the album.
	ErrAlreadyLiked = errors.New("album already liked")
	// ErrLikeNotFound signals no matching like relationship exists.
	ErrLikeNotFound = errors.New("like not found")
)

// InsertAlbumLike records a like relationship. At most one may exist per
// (user, album) pair; the unique constraint is the sole correctness guard
// under concurrent likers.
func (s *Store) InsertAlbumLike(ctx context.Context, albumID, userID string) (string, error) {
	id := newID("like")
	var returned string
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO user_album_likes (id, user_id, album_id)
		VALUES ($1, $2, $3)
		RETURNING id
	`, id, userID, albumID).Scan(&returned)
	if err != nil {
		if isUniqueViolation(err) {
			return "", ErrAlreadyLiked
		}
		return "", fmt.Errorf("insert album like: %w", err)
	}

	return returned, nil
}

// DeleteAlbumLike removes the like relationship for the pair.
func (s *Store) DeleteAlbumLike(ctx context.Context, albumID, userID string) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM user_album_likes
		WHERE album_id = $1 AND user_id = $2
	`, albumID, userID)
	if err != nil {
		return fmt.Errorf("delete album like: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrLikeNotFound
	}
	return nil
}

// CountAlbumLikes computes the authoritative like count for an album.
func (s *Store) CountAlbumLikes(ctx context.Context, albumID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM user_album_likes
		WHERE album_id = $1
	`, albumID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count album likes: %w", err)
	}
	return count, nil
}
