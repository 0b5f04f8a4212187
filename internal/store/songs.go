package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidSong indicates validation failure for song data.
	ErrInvalidSong = errors.New("invalid song")
	// ErrSongNotFound signals a missing song record.
	ErrSongNotFound = errors.New("song not found")
)

// Song models a single track in the catalogue.
type Song struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Year      int     `json:"year"`
	Genre     string  `json:"genre"`
	Performer string  `json:"performer"`
	Duration  *int    `json:"duration,omitempty"`
	AlbumID   *string `json:"albumId,omitempty"`
}

// SongSummary is the short form used in listings and export documents.
type SongSummary struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Performer string `json:"performer"`
}

// SongFilter constrains the results returned by ListSongs.
type SongFilter struct {
	Title     string
	Performer string
}

// AddSong inserts a new song and returns its generated id.
func (s *Store) AddSong(ctx context.Context, song Song) (string, error) {
	if err := validateSong(song); err != nil {
		return "", err
	}

	id := newID("song")
	var returned string
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO songs (id, title, year, genre, performer, duration, album_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, id, strings.TrimSpace(song.Title), song.Year, song.Genre, strings.TrimSpace(song.Performer), song.Duration, song.AlbumID).Scan(&returned)
	if err != nil {
		return "", fmt.Errorf("insert song: %w", err)
	}

	return returned, nil
}

// ListSongs returns song summaries matching the provided filter.
func (s *Store) ListSongs(ctx context.Context, filter SongFilter) ([]SongSummary, error) {
	query := `
		SELECT id, title, performer
		FROM songs
	`

	var (
		clauses []string
		args    []any
	)

	if title := strings.TrimSpace(filter.Title); title != "" {
		args = append(args, "%"+title+"%")
		clauses = append(clauses, fmt.Sprintf("title ILIKE $%d", len(args)))
	}
	if performer := strings.TrimSpace(filter.Performer); performer != "" {
		args = append(args, "%"+performer+"%")
		clauses = append(clauses, fmt.Sprintf("performer ILIKE $%d", len(args)))
	}

	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select songs: %w", err)
	}
	defer rows.Close()

	var songs []SongSummary
	for rows.Next() {
		var song SongSummary
		if err := rows.Scan(&song.ID, &song.Title, &song.Performer); err != nil {
			return nil, fmt.Errorf("scan song: %w", err)
		}
		songs = append(songs, song)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate songs: %w", err)
	}

	return songs, nil
}

// SongByID returns a single song by its identifier.
func (s *Store) SongByID(ctx context.Context, id string) (Song, error) {
	var (
		song     Song
		duration sql.NullInt64
		albumID  sql.NullString
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, title, year, genre, performer, duration, album_id
		FROM songs
		WHERE id = $1
	`, id).Scan(&song.ID, &song.Title, &song.Year, &song.Genre, &song.Performer, &duration, &albumID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Song{}, ErrSongNotFound
		}
		return Song{}, fmt.Errorf("select song: %w", err)
	}

	if duration.Valid {
		val := int(duration.Int64)
		song.Duration = &val
	}
	if albumID.Valid {
		song.AlbumID = &albumID.String
	}

	return song, nil
}

// UpdateSong replaces the song's attributes.
func (s *Store) UpdateSong(ctx context.Context, id string, song Song) error {
	if err := validateSong(song); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE songs
		SET title = $1, year = $2, genre = $3, performer = $4, duration = $5, album_id = $6
		WHERE id = $7
	`, strings.TrimSpace(song.Title), song.Year, song.Genre, strings.TrimSpace(song.Performer), song.Duration, song.AlbumID, id)
	if err != nil {
		return fmt.Errorf("update song: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrSongNotFound
	}
	return nil
}

// DeleteSong removes a song by id.
func (s *Store) DeleteSong(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM songs
		WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("delete song: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrSongNotFound
	}
	return nil
}

func validateSong(song Song) error {
	switch {
	case strings.TrimSpace(song.Title) == "":
		return fmt.Errorf("%w: title is required", ErrInvalidSong)
	case strings.TrimSpace(song.Performer) == "":
		return fmt.Errorf("%w: performer is required", ErrInvalidSong)
	case song.Year <= 0:
		return fmt.Errorf("%w: year must be positive", ErrInvalidSong)
	}
	return nil
}
