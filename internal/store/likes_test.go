package store

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestInsertAlbumLikeSuccess(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	mock.ExpectQuery(regexp.QuoteMeta(`
		INSERT INTO user_album_likes (id, user_id, album_id)
		VALUES ($1, $2, $3)
		RETURNING id
	`)).
		WithArgs(sqlmock.AnyArg(), "user-1", "album-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("like-abc"))

	id, err := s.InsertAlbumLike(context.Background(), "album-1", "user-1")
	if err != nil {
		t.Fatalf("InsertAlbumLike error: %v", err)
	}
	if id != "like-abc" {
		t.Fatalf("expected like-abc, got %q", id)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestInsertAlbumLikeDuplicate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	mock.ExpectQuery(regexp.QuoteMeta(`
		INSERT INTO user_album_likes (id, user_id, album_id)
		VALUES ($1, $2, $3)
		RETURNING id
	`)).
		WithArgs(sqlmock.AnyArg(), "user-1", "album-1").
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err = s.InsertAlbumLike(context.Background(), "album-1", "user-1")
	if !errors.Is(err, ErrAlreadyLiked) {
		t.Fatalf("expected ErrAlreadyLiked, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDeleteAlbumLikeNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	mock.ExpectExec(regexp.QuoteMeta(`
		DELETE FROM user_album_likes
		WHERE album_id = $1 AND user_id = $2
	`)).
		WithArgs("album-1", "user-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := s.DeleteAlbumLike(context.Background(), "album-1", "user-1"); !errors.Is(err, ErrLikeNotFound) {
		t.Fatalf("expected ErrLikeNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDeleteAlbumLikeSuccess(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	mock.ExpectExec(regexp.QuoteMeta(`
		DELETE FROM user_album_likes
		WHERE album_id = $1 AND user_id = $2
	`)).
		WithArgs("album-1", "user-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := s.DeleteAlbumLike(context.Background(), "album-1", "user-1"); err != nil {
		t.Fatalf("DeleteAlbumLike error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCountAlbumLikes(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT COUNT(*)
		FROM user_album_likes
		WHERE album_id = $1
	`)).
		WithArgs("album-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	count, err := s.CountAlbumLikes(context.Background(), "album-1")
	if err != nil {
		t.Fatalf("CountAlbumLikes error: %v", err)
	}
	if count != 7 {
		t.Fatalf("expected 7, got %d", count)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
