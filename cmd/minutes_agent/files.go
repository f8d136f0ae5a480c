package main

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonathan/committee-minutes/internal/docx"
	"github.com/jonathan/committee-minutes/internal/schemas"
	"github.com/jonathan/committee-minutes/internal/types"
)

// fileTypes covers extensions missing from most system MIME tables.
var fileTypes = map[string]string{
	".docx": docx.MIMEType,
	".mp3":  "audio/mpeg",
	".m4a":  "audio/mp4",
	".wav":  "audio/wav",
	".ogg":  "audio/ogg",
	".webm": "audio/webm",
	".flac": "audio/flac",
}

// readRawDocument loads a file from disk, guessing its media type from the
// extension unless mimeType is set.
func readRawDocument(path, mimeType string) (types.RawDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.RawDocument{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if mimeType == "" {
		ext := strings.ToLower(filepath.Ext(path))
		if known, ok := fileTypes[ext]; ok {
			mimeType = known
		} else {
			mimeType = mime.TypeByExtension(ext)
		}
	}
	return types.RawDocument{
		Filename: filepath.Base(path),
		MIMEType: mimeType,
		Content:  data,
	}, nil
}

// readJSONFile decodes a JSON file into v.
func readJSONFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// validateJSONFile checks a JSON file against an embedded schema.
func validateJSONFile(path, schema string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := schemas.ValidateJSON(schema, data); err != nil {
		return fmt.Errorf("%s does not validate against schema: %w", path, err)
	}
	return nil
}

// readAgenda accepts either a bare array of agenda items or a meeting object.
func readAgenda(path string) ([]types.AgendaItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var items []types.AgendaItem
	if err := json.Unmarshal(data, &items); err == nil {
		return items, nil
	}

	var meeting types.Meeting
	if err := json.Unmarshal(data, &meeting); err != nil {
		return nil, fmt.Errorf("failed to parse agenda %s: expected an array of agenda items or a meeting", path)
	}
	return meeting.AgendaItems, nil
}

// writeJSON writes v as indented JSON to outPath, or to w when outPath is empty.
func writeJSON(w io.Writer, outPath string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	data = append(data, '\n')

	if outPath == "" {
		_, err = w.Write(data)
		return err
	}
	if err := os.WriteFile(outPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
