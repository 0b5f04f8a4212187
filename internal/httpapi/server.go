package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"soundcrate/internal/export"
	"soundcrate/internal/likes"
	"soundcrate/internal/store"
)

// AlbumStore captures the persistence needs for album handlers.
type AlbumStore interface {
	AddAlbum(ctx context.Context, name string, year int) (string, error)
	AlbumByID(ctx context.Context, id string) (store.AlbumDetail, error)
	UpdateAlbum(ctx context.Context, id, name string, year int) error
	DeleteAlbum(ctx context.Context, id string) error
}

// SongStore captures the persistence needs for song handlers.
type SongStore interface {
	AddSong(ctx context.Context, song store.Song) (string, error)
	ListSongs(ctx context.Context, filter store.SongFilter) ([]store.SongSummary, error)
	SongByID(ctx context.Context, id string) (store.Song, error)
	UpdateSong(ctx context.Context, id string, song store.Song) error
	DeleteSong(ctx context.Context, id string) error
}

// UserStore captures registration, login and refresh-token persistence.
type UserStore interface {
	AddUser(ctx context.Context, username, password, fullname string) (string, error)
	VerifyCredential(ctx context.Context, username, password string) (string, error)
	AddRefreshToken(ctx context.Context, token string) error
	VerifyRefreshToken(ctx context.Context, token string) error
	DeleteRefreshToken(ctx context.Context, token string) error
}

// PlaylistStore captures playlist, membership and collaboration workflows.
type PlaylistStore interface {
	AddPlaylist(ctx context.Context, name, ownerID string) (string, error)
	ListPlaylists(ctx context.Context, userID string) ([]store.Playlist, error)
	DeletePlaylist(ctx context.Context, id string) error
	VerifyPlaylistOwner(ctx context.Context, playlistID, userID string) error
	VerifyPlaylistAccess(ctx context.Context, playlistID, userID string) error
	AddPlaylistSong(ctx context.Context, playlistID, songID string) (string, error)
	RemovePlaylistSong(ctx context.Context, playlistID, songID string) error
	PlaylistByID(ctx context.Context, id string) (store.PlaylistSummary, error)
	PlaylistSongs(ctx context.Context, playlistID string) ([]store.SongSummary, error)
	AddCollaboration(ctx context.Context, playlistID, userID string) (string, error)
	DeleteCollaboration(ctx context.Context, playlistID, userID string) error
}

// LikeService exposes the cache-aside like counter.
type LikeService interface {
	Like(ctx context.Context, albumID, userID string) error
	Unlike(ctx context.Context, albumID, userID string) error
	Count(ctx context.Context, albumID string) (int, likes.Source, error)
}

// ExportProducer enqueues export jobs.
type ExportProducer interface {
	Send(ctx context.Context, queue string, job export.Job) error
}

// TokenManager issues and verifies the JWT pair.
type TokenManager interface {
	GenerateAccess(userID string) (string, error)
	GenerateRefresh(userID string) (string, error)
	VerifyAccess(token string) (string, error)
	VerifyRefresh(token string) (string, error)
}

// Server wires HTTP handlers to the underlying services.
type Server struct {
	albums    AlbumStore
	songs     SongStore
	users     UserStore
	playlists PlaylistStore
	likes     LikeService
	exports   ExportProducer
	tokens    TokenManager
}

// New configures a Server with the given collaborators.
func New(
	albums AlbumStore,
	songs SongStore,
	users UserStore,
	playlists PlaylistStore,
	likeSvc LikeService,
	exports ExportProducer,
	tokens TokenManager,
) *Server {
	return &Server{
		albums:    albums,
		songs:     songs,
		users:     users,
		playlists: playlists,
		likes:     likeSvc,
		exports:   exports,
		tokens:    tokens,
	}
}

// Routes exposes the HTTP handlers.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	// Albums
	mux.HandleFunc("POST /albums", s.handleCreateAlbum)
	mux.HandleFunc("GET /albums/{id}", s.handleGetAlbum)
	mux.HandleFunc("PUT /albums/{id}", s.handleUpdateAlbum)
	mux.HandleFunc("DELETE /albums/{id}", s.handleDeleteAlbum)

	// Album likes
	mux.HandleFunc("POST /albums/{id}/likes", s.handleLikeAlbum)
	mux.HandleFunc("DELETE /albums/{id}/likes", s.handleUnlikeAlbum)
	mux.HandleFunc("GET /albums/{id}/likes", s.handleGetAlbumLikes)

	// Songs
	mux.HandleFunc("POST /songs", s.handleCreateSong)
	mux.HandleFunc("GET /songs", s.handleListSongs)
	mux.HandleFunc("GET /songs/{id}", s.handleGetSong)
	mux.HandleFunc("PUT /songs/{id}", s.handleUpdateSong)
	mux.HandleFunc("DELETE /songs/{id}", s.handleDeleteSong)

	// Users and authentications
	mux.HandleFunc("POST /users", s.handleCreateUser)
	mux.HandleFunc("POST /authentications", s.handleLogin)
	mux.HandleFunc("PUT /authentications", s.handleRefresh)
	mux.HandleFunc("DELETE /authentications", s.handleLogout)

	// Playlists
	mux.HandleFunc("POST /playlists", s.handleCreatePlaylist)
	mux.HandleFunc("GET /playlists", s.handleListPlaylists)
	mux.HandleFunc("DELETE /playlists/{id}", s.handleDeletePlaylist)
	mux.HandleFunc("POST /playlists/{id}/songs", s.handleAddPlaylistSong)
	mux.HandleFunc("GET /playlists/{id}/songs", s.handleGetPlaylistSongs)
	mux.HandleFunc("DELETE /playlists/{id}/songs", s.handleRemovePlaylistSong)

	// Collaborations
	mux.HandleFunc("POST /collaborations", s.handleAddCollaboration)
	mux.HandleFunc("DELETE /collaborations", s.handleDeleteCollaboration)

	// Exports
	mux.HandleFunc("POST /export/playlists/{id}", s.handleExportPlaylist)

	return mux
}

type errorResponse struct {
	Error string `json:"error"`
}

// authenticate resolves the caller's user id from the bearer token. It
// writes a 401 response and returns "" when the token is missing or bad.
func (s *Server) authenticate(w http.ResponseWriter, r *http.Request) string {
	token := parseBearerToken(r.Header.Get("Authorization"))
	if token == "" {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing bearer token"})
		return ""
	}
	userID, err := s.tokens.VerifyAccess(token)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid access token"})
		return ""
	}
	return userID
}

func parseBearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}
