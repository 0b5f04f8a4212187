package store

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrCollaborationExists signals the user already collaborates on the playlist.
	ErrCollaborationExists = errors.New("collaboration already exists")
	// ErrCollaborationNotFound signals a missing collaboration record.
	ErrCollaborationNotFound = errors.New("collaboration not found")
)

// AddCollaboration grants a user access to someone else's playlist.
func (s *Store) AddCollaboration(ctx context.Context, playlistID, userID string) (string, error) {
	if err := s.UserExists(ctx, userID); err != nil {
		return "", err
	}

	id := newID("collab")
	var returned string
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO playlist_collaborations (id, playlist_id, user_id)
		VALUES ($1, $2, $3)
		RETURNING id
	`, id, playlistID, userID).Scan(&returned)
	if err != nil {
		if isUniqueViolation(err) {
			return "", ErrCollaborationExists
		}
		return "", fmt.Errorf("insert collaboration: %w", err)
	}

	return returned, nil
}

// DeleteCollaboration revokes a collaborator's access.
func (s *Store) DeleteCollaboration(ctx context.Context, playlistID, userID string) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM playlist_collaborations
		WHERE playlist_id = $1 AND user_id = $2
	`, playlistID, userID)
	if err != nil {
		return fmt.Errorf("delete collaboration: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrCollaborationNotFound
	}
	return nil
}
