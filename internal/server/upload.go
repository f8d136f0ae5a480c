package server

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/jonathan/committee-minutes/internal/docx"
	"github.com/jonathan/committee-minutes/internal/types"
)

// multipartMemory is how much of a multipart form is buffered in memory.
const multipartMemory = 8 << 20

// uploadTypes covers extensions missing from most system MIME tables.
var uploadTypes = map[string]string{
	".docx": docx.MIMEType,
	".mp3":  "audio/mpeg",
	".m4a":  "audio/mp4",
	".wav":  "audio/wav",
	".ogg":  "audio/ogg",
	".webm": "audio/webm",
	".flac": "audio/flac",
}

// readUpload reads the named multipart file field into a RawDocument. The
// whole request body is capped at the configured upload limit.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request, field string) (types.RawDocument, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return types.RawDocument{}, &ErrUploadTooLarge{Limit: s.maxUploadBytes}
		}
		return types.RawDocument{}, &ErrValidation{Field: field, Message: "expected a multipart form upload"}
	}

	file, header, err := r.FormFile(field)
	if err != nil {
		return types.RawDocument{}, &ErrValidation{Field: field, Message: "file is required"}
	}
	defer file.Close() //nolint:errcheck // read-only multipart file

	data, err := io.ReadAll(file)
	if err != nil {
		return types.RawDocument{}, &ErrValidation{Field: field, Message: "could not read file"}
	}
	if len(data) == 0 {
		return types.RawDocument{}, &ErrValidation{Field: field, Message: "file is empty"}
	}

	return types.RawDocument{
		Filename: filepath.Base(header.Filename),
		MIMEType: detectContentType(header.Header.Get("Content-Type"), header.Filename, data),
		Content:  data,
	}, nil
}

// detectContentType prefers the declared type, then the file extension, then
// content sniffing.
func detectContentType(declared, filename string, data []byte) string {
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if known, ok := uploadTypes[ext]; ok {
		return known
	}
	if byExt := mime.TypeByExtension(ext); byExt != "" {
		return byExt
	}
	if declared != "" {
		return declared
	}
	return http.DetectContentType(data)
}
