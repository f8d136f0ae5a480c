package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/jonathan/committee-minutes/internal/types"
)

// handleCreateMeeting creates a meeting with its agenda.
func (s *Server) handleCreateMeeting(w http.ResponseWriter, r *http.Request) {
	var req types.CreateMeetingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	meeting, err := s.meetings.CreateMeeting(r.Context(), &req)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, meeting)
}

// handleImportMeeting creates a meeting from an uploaded minutes document.
func (s *Server) handleImportMeeting(w http.ResponseWriter, r *http.Request) {
	raw, err := s.readUpload(w, r, "file")
	if err != nil {
		s.serviceError(w, r, err)
		return
	}

	result, err := s.meetings.CreateFromMinutes(r.Context(), raw)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, result)
}

// handleListMeetings lists meetings, paginated by ?limit= and ?offset=.
func (s *Server) handleListMeetings(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	offset, err := queryInt(r, "offset")
	if err != nil {
		s.serviceError(w, r, err)
		return
	}

	list, err := s.meetings.ListMeetings(r.Context(), limit, offset)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"meetings": list,
		"count":    len(list),
	})
}

// handleGetMeeting returns one meeting.
func (s *Server) handleGetMeeting(w http.ResponseWriter, r *http.Request) {
	meeting, err := s.meetings.GetMeeting(r.Context(), r.PathValue("id"))
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, meeting)
}

// handleDeleteMeeting removes a meeting and its documents.
func (s *Server) handleDeleteMeeting(w http.ResponseWriter, r *http.Request) {
	if err := s.meetings.DeleteMeeting(r.Context(), r.PathValue("id")); err != nil {
		s.serviceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleImportMinutes merges an uploaded minutes document into a meeting.
func (s *Server) handleImportMinutes(w http.ResponseWriter, r *http.Request) {
	raw, err := s.readUpload(w, r, "file")
	if err != nil {
		s.serviceError(w, r, err)
		return
	}

	result, err := s.meetings.ImportMinutes(r.Context(), r.PathValue("id"), raw)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

func queryInt(r *http.Request, key string) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, &ErrValidation{Field: key, Message: "must be a non-negative integer"}
	}
	return n, nil
}
