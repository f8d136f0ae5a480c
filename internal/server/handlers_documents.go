package server

import (
	"mime"
	"net/http"
	"strconv"

	"github.com/jonathan/committee-minutes/internal/types"
)

// handleListDocuments lists the documents attached to a meeting.
func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := s.meetings.ListDocuments(r.Context(), r.PathValue("id"))
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"documents": docs,
		"count":     len(docs),
	})
}

// handleUploadDocument attaches a file to a meeting. The form field "kind"
// defaults to "other".
func (s *Server) handleUploadDocument(w http.ResponseWriter, r *http.Request) {
	raw, err := s.readUpload(w, r, "file")
	if err != nil {
		s.serviceError(w, r, err)
		return
	}

	kind := r.FormValue("kind")
	if kind == "" {
		kind = types.DocumentOther
	}

	doc, err := s.meetings.UploadDocument(r.Context(), r.PathValue("id"), kind, raw)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, doc)
}

// handleDocumentContent streams a stored document back to the client.
func (s *Server) handleDocumentContent(w http.ResponseWriter, r *http.Request) {
	doc, data, err := s.meetings.DocumentContent(r.Context(), r.PathValue("id"))
	if err != nil {
		s.serviceError(w, r, err)
		return
	}

	contentType := doc.MIMEType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": doc.Filename}))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		s.logger.Warn("failed to write document content", "document_id", doc.ID, "error", err)
	}
}
