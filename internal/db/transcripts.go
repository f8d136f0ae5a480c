package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jonathan/committee-minutes/internal/types"
)

// CreateTranscript stores a transcript of a meeting recording
func (db *DB) CreateTranscript(ctx context.Context, t *types.Transcript) error {
	segments := t.Segments
	if segments == nil {
		segments = []types.TranscriptSegment{}
	}
	segmentsJSON, err := json.Marshal(segments)
	if err != nil {
		return fmt.Errorf("failed to marshal transcript segments: %w", err)
	}

	err = db.pool.QueryRow(ctx,
		`INSERT INTO transcripts (meeting_id, document_id, model, text, segments)
		 VALUES ($1, NULLIF($2, '')::uuid, $3, $4, $5)
		 RETURNING id, created_at`,
		t.MeetingID, t.DocumentID, t.Model, t.Text, segmentsJSON,
	).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create transcript: %w", err)
	}
	return nil
}

// ListTranscripts returns the transcripts of a meeting, oldest first
func (db *DB) ListTranscripts(ctx context.Context, meetingID string) ([]types.Transcript, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, meeting_id, COALESCE(document_id::text, ''), model, text, segments, created_at
		 FROM transcripts WHERE meeting_id = $1 ORDER BY created_at`,
		meetingID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list transcripts: %w", err)
	}
	defer rows.Close()

	transcripts := []types.Transcript{}
	for rows.Next() {
		var t types.Transcript
		var segments []byte
		if err := rows.Scan(&t.ID, &t.MeetingID, &t.DocumentID, &t.Model, &t.Text, &segments, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan transcript: %w", err)
		}
		if err := json.Unmarshal(segments, &t.Segments); err != nil {
			return nil, fmt.Errorf("failed to unmarshal transcript segments: %w", err)
		}
		transcripts = append(transcripts, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transcripts: %w", err)
	}
	return transcripts, nil
}
