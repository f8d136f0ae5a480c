package server

import (
	"net/http"
)

// handleTranscribe transcribes an uploaded recording of a meeting.
func (s *Server) handleTranscribe(w http.ResponseWriter, r *http.Request) {
	raw, err := s.readUpload(w, r, "audio")
	if err != nil {
		s.serviceError(w, r, err)
		return
	}

	transcript, err := s.meetings.TranscribeRecording(r.Context(), r.PathValue("id"), raw)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, transcript)
}

// handleListTranscripts lists the transcripts of a meeting.
func (s *Server) handleListTranscripts(w http.ResponseWriter, r *http.Request) {
	list, err := s.meetings.ListTranscripts(r.Context(), r.PathValue("id"))
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"transcripts": list,
		"count":       len(list),
	})
}
