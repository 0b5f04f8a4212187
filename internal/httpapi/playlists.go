package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"soundcrate/internal/store"
)

type playlistRequest struct {
	Name string `json:"name"`
}

type playlistSongRequest struct {
	SongID string `json:"songId"`
}

type collaborationRequest struct {
	PlaylistID string `json:"playlistId"`
	UserID     string `json:"userId"`
}

func playlistErrStatus(err error) int {
	switch {
	case errors.Is(err, store.ErrPlaylistNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) handleCreatePlaylist(w http.ResponseWriter, r *http.Request) {
	userID := s.authenticate(w, r)
	if userID == "" {
		return
	}

	var req playlistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}

	id, err := s.playlists.AddPlaylist(r.Context(), req.Name, userID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusCreated, struct {
		PlaylistID string `json:"playlistId"`
	}{PlaylistID: id})
}

func (s *Server) handleListPlaylists(w http.ResponseWriter, r *http.Request) {
	userID := s.authenticate(w, r)
	if userID == "" {
		return
	}

	playlists, err := s.playlists.ListPlaylists(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	if playlists == nil {
		playlists = []store.Playlist{}
	}
	writeJSON(w, http.StatusOK, struct {
		Playlists []store.Playlist `json:"playlists"`
	}{Playlists: playlists})
}

func (s *Server) handleDeletePlaylist(w http.ResponseWriter, r *http.Request) {
	userID := s.authenticate(w, r)
	if userID == "" {
		return
	}

	playlistID := r.PathValue("id")
	if err := s.playlists.VerifyPlaylistOwner(r.Context(), playlistID, userID); err != nil {
		writeJSON(w, playlistErrStatus(err), errorResponse{Error: err.Error()})
		return
	}

	if err := s.playlists.DeletePlaylist(r.Context(), playlistID); err != nil {
		writeJSON(w, playlistErrStatus(err), errorResponse{Error: err.Error()})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAddPlaylistSong(w http.ResponseWriter, r *http.Request) {
	userID := s.authenticate(w, r)
	if userID == "" {
		return
	}

	playlistID := r.PathValue("id")
	if err := s.playlists.VerifyPlaylistAccess(r.Context(), playlistID, userID); err != nil {
		writeJSON(w, playlistErrStatus(err), errorResponse{Error: err.Error()})
		return
	}

	var req playlistSongRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}

	if _, err := s.playlists.AddPlaylistSong(r.Context(), playlistID, req.SongID); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, store.ErrSongNotFound) {
			status = http.StatusNotFound
		}
		writeJSON(w, status, errorResponse{Error: err.Error()})
		return
	}

	w.WriteHeader(http.StatusCreated)
}

func (s *Server) handleGetPlaylistSongs(w http.ResponseWriter, r *http.Request) {
	userID := s.authenticate(w, r)
	if userID == "" {
		return
	}

	playlistID := r.PathValue("id")
	if err := s.playlists.VerifyPlaylistAccess(r.Context(), playlistID, userID); err != nil {
		writeJSON(w, playlistErrStatus(err), errorResponse{Error: err.Error()})
		return
	}

	playlist, err := s.playlists.PlaylistByID(r.Context(), playlistID)
	if err != nil {
		writeJSON(w, playlistErrStatus(err), errorResponse{Error: err.Error()})
		return
	}

	songs, err := s.playlists.PlaylistSongs(r.Context(), playlistID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	if songs == nil {
		songs = []store.SongSummary{}
	}

	writeJSON(w, http.StatusOK, struct {
		Playlist store.PlaylistSummary `json:"playlist"`
		Songs    []store.SongSummary   `json:"songs"`
	}{Playlist: playlist, Songs: songs})
}

func (s *Server) handleRemovePlaylistSong(w http.ResponseWriter, r *http.Request) {
	userID := s.authenticate(w, r)
	if userID == "" {
		return
	}

	playlistID := r.PathValue("id")
	if err := s.playlists.VerifyPlaylistAccess(r.Context(), playlistID, userID); err != nil {
		writeJSON(w, playlistErrStatus(err), errorResponse{Error: err.Error()})
		return
	}

	var req playlistSongRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}

	if err := s.playlists.RemovePlaylistSong(r.Context(), playlistID, req.SongID); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, store.ErrSongNotInPlaylist) {
			status = http.StatusNotFound
		}
		writeJSON(w, status, errorResponse{Error: err.Error()})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAddCollaboration(w http.ResponseWriter, r *http.Request) {
	userID := s.authenticate(w, r)
	if userID == "" {
		return
	}

	var req collaborationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}

	if err := s.playlists.VerifyPlaylistOwner(r.Context(), req.PlaylistID, userID); err != nil {
		writeJSON(w, playlistErrStatus(err), errorResponse{Error: err.Error()})
		return
	}

	id, err := s.playlists.AddCollaboration(r.Context(), req.PlaylistID, req.UserID)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, store.ErrUserNotFound):
			status = http.StatusNotFound
		case errors.Is(err, store.ErrCollaborationExists):
			status = http.StatusConflict
		}
		writeJSON(w, status, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusCreated, struct {
		CollaborationID string `json:"collaborationId"`
	}{CollaborationID: id})
}

func (s *Server) handleDeleteCollaboration(w http.ResponseWriter, r *http.Request) {
	userID := s.authenticate(w, r)
	if userID == "" {
		return
	}

	var req collaborationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}

	if err := s.playlists.VerifyPlaylistOwner(r.Context(), req.PlaylistID, userID); err != nil {
		writeJSON(w, playlistErrStatus(err), errorResponse{Error: err.Error()})
		return
	}

	if err := s.playlists.DeleteCollaboration(r.Context(), req.PlaylistID, req.UserID); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, store.ErrCollaborationNotFound) {
			status = http.StatusNotFound
		}
		writeJSON(w, status, errorResponse{Error: err.Error()})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
