package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"soundcrate/internal/export"
)

type exportRequest struct {
	TargetEmail string `json:"targetEmail"`
}

func (s *Server) handleExportPlaylist(w http.ResponseWriter, r *http.Request) {
	userID := s.authenticate(w, r)
	if userID == "" {
		return
	}

	var req exportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}
	if !strings.Contains(req.TargetEmail, "@") {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "targetEmail must be a valid email address"})
		return
	}

	playlistID := r.PathValue("id")
	if err := s.playlists.VerifyPlaylistOwner(r.Context(), playlistID, userID); err != nil {
		writeJSON(w, playlistErrStatus(err), errorResponse{Error: err.Error()})
		return
	}

	job := export.Job{PlaylistID: playlistID, TargetEmail: req.TargetEmail}
	if err := s.exports.Send(r.Context(), export.QueueName, job); err != nil {
		// A broker failure fails the request; pretending the job was
		// enqueued would lose it silently.
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusAccepted, struct {
		Message string `json:"message"`
	}{Message: "your export request is being processed"})
}
