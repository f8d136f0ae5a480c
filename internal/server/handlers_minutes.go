package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/jonathan/committee-minutes/internal/parsing"
	"github.com/jonathan/committee-minutes/internal/schemas"
	"github.com/jonathan/committee-minutes/internal/types"
)

// handleParseMinutes parses an uploaded DOCX and returns the result without
// storing anything. ?validate=true also checks the output against the
// parsed meeting schema.
func (s *Server) handleParseMinutes(w http.ResponseWriter, r *http.Request) {
	raw, err := s.readUpload(w, r, "file")
	if err != nil {
		s.serviceError(w, r, err)
		return
	}

	parsed, err := s.parser.Parse(raw)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}

	if validate, _ := strconv.ParseBool(r.URL.Query().Get("validate")); validate {
		if err := schemas.ValidateParsedMeeting(parsed); err != nil {
			s.serviceError(w, r, err)
			return
		}
	}

	s.jsonResponse(w, http.StatusOK, parsed)
}

// handleMatchMinutes binds parsed agenda items to an existing agenda by title.
func (s *Server) handleMatchMinutes(w http.ResponseWriter, r *http.Request) {
	var req types.MatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.serviceError(w, r, err)
		return
	}

	matches := parsing.MatchPVToAgenda(req.Parsed, req.Existing)
	s.jsonResponse(w, http.StatusOK, types.MatchResponse{
		Matches:   matches,
		Unmatched: len(req.Parsed) - len(matches),
	})
}
