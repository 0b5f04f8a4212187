package store

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestValidateAlbum(t *testing.T) {
	tests := []struct {
		name      string
		albumName string
		year      int
		wantErr   bool
	}{
		{name: "valid album", albumName: "Viva la Vida", year: 2008},
		{name: "missing name", albumName: "   ", year: 2008, wantErr: true},
		{name: "invalid year", albumName: "Viva la Vida", year: 0, wantErr: true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			err := validateAlbum(tc.albumName, tc.year)
			if tc.wantErr && err == nil {
				t.Fatalf("expected error but got nil")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("expected nil error but got %v", err)
			}
		})
	}
}

func TestAddAlbumSuccess(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	mock.ExpectQuery(regexp.QuoteMeta(`
		INSERT INTO albums (id, name, year)
		VALUES ($1, $2, $3)
		RETURNING id
	`)).
		WithArgs(sqlmock.AnyArg(), "Viva la Vida", 2008).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("album-abc"))

	id, err := s.AddAlbum(context.Background(), "  Viva la Vida ", 2008)
	if err != nil {
		t.Fatalf("AddAlbum error: %v", err)
	}
	if id != "album-abc" {
		t.Fatalf("expected album-abc, got %q", id)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAddAlbumInvalid(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	if _, err := s.AddAlbum(context.Background(), "", 2008); !errors.Is(err, ErrInvalidAlbum) {
		t.Fatalf("expected ErrInvalidAlbum, got %v", err)
	}
}

func TestAlbumByIDWithSongs(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT a.id, a.name, a.year, s.id, s.title, s.performer
		FROM albums a
		LEFT JOIN songs s ON s.album_id = a.id
		WHERE a.id = $1
	`)).
		WithArgs("album-1").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "year", "song_id", "title", "performer",
		}).
			AddRow("album-1", "Viva la Vida", 2008, "song-1", "Life in Technicolor", "Coldplay").
			AddRow("album-1", "Viva la Vida", 2008, "song-2", "Cemeteries of London", "Coldplay"))

	detail, err := s.AlbumByID(context.Background(), "album-1")
	if err != nil {
		t.Fatalf("AlbumByID error: %v", err)
	}
	if detail.Name != "Viva la Vida" || len(detail.Songs) != 2 {
		t.Fatalf("unexpected detail: %#v", detail)
	}
	if detail.Songs[1].Title != "Cemeteries of London" {
		t.Fatalf("unexpected songs: %#v", detail.Songs)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAlbumByIDWithoutSongs(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT a.id, a.name, a.year, s.id, s.title, s.performer
		FROM albums a
		LEFT JOIN songs s ON s.album_id = a.id
		WHERE a.id = $1
	`)).
		WithArgs("album-1").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "year", "song_id", "title", "performer",
		}).AddRow("album-1", "Viva la Vida", 2008, nil, nil, nil))

	detail, err := s.AlbumByID(context.Background(), "album-1")
	if err != nil {
		t.Fatalf("AlbumByID error: %v", err)
	}
	if len(detail.Songs) != 0 {
		t.Fatalf("expected no songs, got %#v", detail.Songs)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAlbumByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT a.id, a.name, a.year, s.id, s.title, s.performer
		FROM albums a
		LEFT JOIN songs s ON s.album_id = a.id
		WHERE a.id = $1
	`)).
		WithArgs("album-missing").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "year", "song_id", "title", "performer",
		}))

	_, err = s.AlbumByID(context.Background(), "album-missing")
	if !errors.Is(err, ErrAlbumNotFound) {
		t.Fatalf("expected ErrAlbumNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpdateAlbumNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	mock.ExpectExec(regexp.QuoteMeta(`
		UPDATE albums
		SET name = $1, year = $2
		WHERE id = $3
	`)).
		WithArgs("New Name", 2010, "album-missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := s.UpdateAlbum(context.Background(), "album-missing", "New Name", 2010); !errors.Is(err, ErrAlbumNotFound) {
		t.Fatalf("expected ErrAlbumNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDeleteAlbumSuccess(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	mock.ExpectExec(regexp.QuoteMeta(`
		DELETE FROM albums
		WHERE id = $1
	`)).
		WithArgs("album-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := s.DeleteAlbum(context.Background(), "album-1"); err != nil {
		t.Fatalf("DeleteAlbum error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
