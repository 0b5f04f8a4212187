package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidAlbum indicates validation failure for album data.
	ErrInvalidAlbum = errors.New("invalid album")
	// ErrAlbumNotFound signals a missing album record.
	ErrAlbumNotFound = errors.New("album not found")
)

// Album models a catalogue record.
type Album struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Year int    `json:"year"`
}

// AlbumDetail is an album together with the songs attached to it.
type AlbumDetail struct {
	Album
	Songs []SongSummary `json:"songs"`
}

// AddAlbum inserts a new album and returns its generated id.
func (s *Store) AddAlbum(ctx context.Context, name string, year int) (string, error) {
	if err := validateAlbum(name, year); err != nil {
		return "", err
	}

	id := newID("album")
	var returned string
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO albums (id, name, year)
		VALUES ($1, $2, $3)
		RETURNING id
	`, id, strings.TrimSpace(name), year).Scan(&returned)
	if err != nil {
		return "", fmt.Errorf("insert album: %w", err)
	}

	return returned, nil
}

// AlbumByID returns an album and its songs.
func (s *Store) AlbumByID(ctx context.Context, id string) (AlbumDetail, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT a.id, a.name, a.year, s.id, s.title, s.performer
		FROM albums a
		LEFT JOIN songs s ON s.album_id = a.id
		WHERE a.id = $1
	`, id)
	if err != nil {
		return AlbumDetail{}, fmt.Errorf("select album: %w", err)
	}
	defer rows.Close()

	var (
		detail AlbumDetail
		found  bool
	)
	for rows.Next() {
		var (
			songID        sql.NullString
			songTitle     sql.NullString
			songPerformer sql.NullString
		)
		if err := rows.Scan(&detail.ID, &detail.Name, &detail.Year, &songID, &songTitle, &songPerformer); err != nil {
			return AlbumDetail{}, fmt.Errorf("scan album: %w", err)
		}
		found = true
		if songID.Valid {
			detail.Songs = append(detail.Songs, SongSummary{
				ID:        songID.String,
				Title:     songTitle.String,
				Performer: songPerformer.String,
			})
		}
	}
	if err := rows.Err(); err != nil {
		return AlbumDetail{}, fmt.Errorf("iterate album: %w", err)
	}
	if !found {
		return AlbumDetail{}, ErrAlbumNotFound
	}

	return detail, nil
}

// UpdateAlbum replaces the album's name and year.
func (s *Store) UpdateAlbum(ctx context.Context, id, name string, year int) error {
	if err := validateAlbum(name, year); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE albums
		SET name = $1, year = $2
		WHERE id = $3
	`, strings.TrimSpace(name), year, id)
	if err != nil {
		return fmt.Errorf("update album: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrAlbumNotFound
	}
	return nil
}

// DeleteAlbum removes an album by id.
func (s *Store) DeleteAlbum(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM albums
		WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("delete album: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrAlbumNotFound
	}
	return nil
}

// AlbumExists reports ErrAlbumNotFound when no album carries the id.
func (s *Store) AlbumExists(ctx context.Context, id string) error {
	var found string
	err := s.db.QueryRowContext(ctx, `
		SELECT id
		FROM albums
		WHERE id = $1
	`, id).Scan(&found)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrAlbumNotFound
		}
		return fmt.Errorf("lookup album: %w", err)
	}
	return nil
}

func validateAlbum(name string, year int) error {
	switch {
	case strings.TrimSpace(name) == "":
		return fmt.Errorf("%w: name is required", ErrInvalidAlbum)
	case year <= 0:
		return fmt.Errorf("%w: year must be positive", ErrInvalidAlbum)
	}
	return nil
}
