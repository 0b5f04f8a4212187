package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrPlaylistNotFound signals a missing playlist record.
	ErrPlaylistNotFound = errors.New("playlist not found")
	// ErrForbidden indicates the user may not touch the resource.
	ErrForbidden = errors.New("forbidden")
	// ErrSongNotInPlaylist signals the song is not attached to the playlist.
	ErrSongNotInPlaylist = errors.New("song not found in playlist")
)

// Playlist models a user-owned song collection.
type Playlist struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
}

// PlaylistSummary is the metadata slice used by the export worker.
type PlaylistSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// AddPlaylist inserts a playlist owned by the given user.
func (s *Store) AddPlaylist(ctx context.Context, name, ownerID string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("playlist name is required")
	}

	id := newID("playlist")
	var returned string
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO playlists (id, name, owner)
		VALUES ($1, $2, $3)
		RETURNING id
	`, id, strings.TrimSpace(name), ownerID).Scan(&returned)
	if err != nil {
		return "", fmt.Errorf("insert playlist: %w", err)
	}

	return returned, nil
}

// ListPlaylists returns playlists the user owns or collaborates on.
func (s *Store) ListPlaylists(ctx context.Context, userID string) ([]Playlist, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT p.id, p.name, u.username
		FROM playlists p
		JOIN users u ON u.id = p.owner
		LEFT JOIN playlist_collaborations c ON c.playlist_id = p.id
		WHERE p.owner = $1 OR c.user_id = $1
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("select playlists: %w", err)
	}
	defer rows.Close()

	var playlists []Playlist
	for rows.Next() {
		var playlist Playlist
		if err := rows.Scan(&playlist.ID, &playlist.Name, &playlist.Username); err != nil {
			return nil, fmt.Errorf("scan playlist: %w", err)
		}
		playlists = append(playlists, playlist)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate playlists: %w", err)
	}

	return playlists, nil
}

// DeletePlaylist removes a playlist by id.
func (s *Store) DeletePlaylist(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM playlists
		WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("delete playlist: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrPlaylistNotFound
	}
	return nil
}

// VerifyPlaylistOwner checks the playlist exists and is owned by the user.
func (s *Store) VerifyPlaylistOwner(ctx context.Context, playlistID, userID string) error {
	var owner string
	err := s.db.QueryRowContext(ctx, `
		SELECT owner
		FROM playlists
		WHERE id = $1
	`, playlistID).Scan(&owner)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrPlaylistNotFound
		}
		return fmt.Errorf("lookup playlist owner: %w", err)
	}
	if owner != userID {
		return ErrForbidden
	}
	return nil
}

// VerifyPlaylistAccess allows the owner and any collaborator through.
func (s *Store) VerifyPlaylistAccess(ctx context.Context, playlistID, userID string) error {
	err := s.VerifyPlaylistOwner(ctx, playlistID, userID)
	if err == nil || !errors.Is(err, ErrForbidden) {
		return err
	}

	var found string
	err = s.db.QueryRowContext(ctx, `
		SELECT id
		FROM playlist_collaborations
		WHERE playlist_id = $1 AND user_id = $2
	`, playlistID, userID).Scan(&found)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrForbidden
		}
		return fmt.Errorf("lookup collaboration: %w", err)
	}
	return nil
}

// AddPlaylistSong attaches an existing song to a playlist.
func (s *Store) AddPlaylistSong(ctx context.Context, playlistID, songID string) (string, error) {
	var exists string
	err := s.db.QueryRowContext(ctx, `
		SELECT id
		FROM songs
		WHERE id = $1
	`, songID).Scan(&exists)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrSongNotFound
		}
		return "", fmt.Errorf("lookup song: %w", err)
	}

	id := newID("playlistsong")
	var returned string
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO playlist_songs (id, playlist_id, song_id)
		VALUES ($1, $2, $3)
		RETURNING id
	`, id, playlistID, songID).Scan(&returned)
	if err != nil {
		return "", fmt.Errorf("insert playlist song: %w", err)
	}

	return returned, nil
}

// RemovePlaylistSong detaches a song from a playlist.
func (s *Store) RemovePlaylistSong(ctx context.Context, playlistID, songID string) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM playlist_songs
		WHERE playlist_id = $1 AND song_id = $2
	`, playlistID, songID)
	if err != nil {
		return fmt.Errorf("delete playlist song: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrSongNotInPlaylist
	}
	return nil
}

// PlaylistByID returns the playlist metadata used in detail views and exports.
func (s *Store) PlaylistByID(ctx context.Context, id string) (PlaylistSummary, error) {
	var summary PlaylistSummary
	err := s.db.QueryRowContext(ctx, `
		SELECT p.id, p.name
		FROM playlists p
		WHERE p.id = $1
	`, id).Scan(&summary.ID, &summary.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return PlaylistSummary{}, ErrPlaylistNotFound
		}
		return PlaylistSummary{}, fmt.Errorf("select playlist: %w", err)
	}
	return summary, nil
}

// PlaylistSongs returns the songs attached to a playlist in the store's
// natural return order. No sort is imposed on top of it.
func (s *Store) PlaylistSongs(ctx context.Context, playlistID string) ([]SongSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.id, s.title, s.performer
		FROM songs s
		LEFT JOIN playlist_songs ps ON ps.song_id = s.id
		WHERE ps.playlist_id = $1
	`, playlistID)
	if err != nil {
		return nil, fmt.Errorf("select playlist songs: %w", err)
	}
	defer rows.Close()

	var songs []SongSummary
	for rows.Next() {
		var song SongSummary
		if err := rows.Scan(&song.ID, &song.Title, &song.Performer); err != nil {
			return nil, fmt.Errorf("scan playlist song: %w", err)
		}
		songs = append(songs, song)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate playlist songs: %w", err)
	}

	return songs, nil
}
