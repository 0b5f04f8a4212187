package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"soundcrate/internal/likes"
	"soundcrate/internal/store"
)

type albumRequest struct {
	Name string `json:"name"`
	Year int    `json:"year"`
}

func (s *Server) handleCreateAlbum(w http.ResponseWriter, r *http.Request) {
	var req albumRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}

	id, err := s.albums.AddAlbum(r.Context(), req.Name, req.Year)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, store.ErrInvalidAlbum) {
			status = http.StatusBadRequest
		}
		writeJSON(w, status, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusCreated, struct {
		AlbumID string `json:"albumId"`
	}{AlbumID: id})
}

func (s *Server) handleGetAlbum(w http.ResponseWriter, r *http.Request) {
	album, err := s.albums.AlbumByID(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, store.ErrAlbumNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "album not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	if album.Songs == nil {
		album.Songs = []store.SongSummary{}
	}
	writeJSON(w, http.StatusOK, struct {
		Album store.AlbumDetail `json:"album"`
	}{Album: album})
}

func (s *Server) handleUpdateAlbum(w http.ResponseWriter, r *http.Request) {
	var req albumRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}

	if err := s.albums.UpdateAlbum(r.Context(), r.PathValue("id"), req.Name, req.Year); err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, store.ErrAlbumNotFound):
			status = http.StatusNotFound
		case errors.Is(err, store.ErrInvalidAlbum):
			status = http.StatusBadRequest
		}
		writeJSON(w, status, errorResponse{Error: err.Error()})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteAlbum(w http.ResponseWriter, r *http.Request) {
	if err := s.albums.DeleteAlbum(r.Context(), r.PathValue("id")); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, store.ErrAlbumNotFound) {
			status = http.StatusNotFound
		}
		writeJSON(w, status, errorResponse{Error: err.Error()})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleLikeAlbum(w http.ResponseWriter, r *http.Request) {
	userID := s.authenticate(w, r)
	if userID == "" {
		return
	}

	if err := s.likes.Like(r.Context(), r.PathValue("id"), userID); err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, store.ErrAlbumNotFound):
			status = http.StatusNotFound
		case errors.Is(err, store.ErrAlreadyLiked):
			status = http.StatusConflict
		}
		writeJSON(w, status, errorResponse{Error: err.Error()})
		return
	}

	w.WriteHeader(http.StatusCreated)
}

func (s *Server) handleUnlikeAlbum(w http.ResponseWriter, r *http.Request) {
	userID := s.authenticate(w, r)
	if userID == "" {
		return
	}

	if err := s.likes.Unlike(r.Context(), r.PathValue("id"), userID); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, store.ErrLikeNotFound) {
			status = http.StatusNotFound
		}
		writeJSON(w, status, errorResponse{Error: err.Error()})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetAlbumLikes(w http.ResponseWriter, r *http.Request) {
	count, source, err := s.likes.Count(r.Context(), r.PathValue("id"))
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, store.ErrAlbumNotFound) {
			status = http.StatusNotFound
		}
		writeJSON(w, status, errorResponse{Error: err.Error()})
		return
	}

	// The source tag is observable so cache behavior can be verified from
	// the outside.
	if source == likes.SourceCache {
		w.Header().Set("X-Data-Source", "cache")
	}
	writeJSON(w, http.StatusOK, struct {
		Likes int `json:"likes"`
	}{Likes: count})
}
