package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"soundcrate/internal/store"
)

type songRequest struct {
	Title     string  `json:"title"`
	Year      int     `json:"year"`
	Genre     string  `json:"genre"`
	Performer string  `json:"performer"`
	Duration  *int    `json:"duration"`
	AlbumID   *string `json:"albumId"`
}

func (req songRequest) song() store.Song {
	return store.Song{
		Title:     req.Title,
		Year:      req.Year,
		Genre:     req.Genre,
		Performer: req.Performer,
		Duration:  req.Duration,
		AlbumID:   req.AlbumID,
	}
}

func (s *Server) handleCreateSong(w http.ResponseWriter, r *http.Request) {
	var req songRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}

	id, err := s.songs.AddSong(r.Context(), req.song())
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, store.ErrInvalidSong) {
			status = http.StatusBadRequest
		}
		writeJSON(w, status, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusCreated, struct {
		SongID string `json:"songId"`
	}{SongID: id})
}

func (s *Server) handleListSongs(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := store.SongFilter{
		Title:     query.Get("title"),
		Performer: query.Get("performer"),
	}

	songs, err := s.songs.ListSongs(r.Context(), filter)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	if songs == nil {
		songs = []store.SongSummary{}
	}
	writeJSON(w, http.StatusOK, struct {
		Songs []store.SongSummary `json:"songs"`
	}{Songs: songs})
}

func (s *Server) handleGetSong(w http.ResponseWriter, r *http.Request) {
	song, err := s.songs.SongByID(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, store.ErrSongNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "song not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Song store.Song `json:"song"`
	}{Song: song})
}

func (s *Server) handleUpdateSong(w http.ResponseWriter, r *http.Request) {
	var req songRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}

	if err := s.songs.UpdateSong(r.Context(), r.PathValue("id"), req.song()); err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, store.ErrSongNotFound):
			status = http.StatusNotFound
		case errors.Is(err, store.ErrInvalidSong):
			status = http.StatusBadRequest
		}
		writeJSON(w, status, errorResponse{Error: err.Error()})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteSong(w http.ResponseWriter, r *http.Request) {
	if err := s.songs.DeleteSong(r.Context(), r.PathValue("id")); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, store.ErrSongNotFound) {
			status = http.StatusNotFound
		}
		writeJSON(w, status, errorResponse{Error: err.Error()})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
