package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jonathan/committee-minutes/internal/types"
)

const documentColumns = `id, meeting_id, kind, filename, mime_type, storage_key, size_bytes, page_count, created_at`

// CreateDocument records an uploaded document. A preset ID is kept so the
// storage key can be derived before the row exists.
func (db *DB) CreateDocument(ctx context.Context, d *types.Document) error {
	err := db.pool.QueryRow(ctx,
		`INSERT INTO documents (id, meeting_id, kind, filename, mime_type, storage_key, size_bytes, page_count)
		 VALUES (COALESCE(NULLIF($1, '')::uuid, gen_random_uuid()), $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at`,
		d.ID, d.MeetingID, d.Kind, d.Filename, d.MIMEType, d.StorageKey, d.SizeBytes, d.PageCount,
	).Scan(&d.ID, &d.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create document: %w", err)
	}
	return nil
}

// GetDocument retrieves a document by ID. Returns nil, nil when it does not exist.
func (db *DB) GetDocument(ctx context.Context, id string) (*types.Document, error) {
	var d types.Document
	err := db.pool.QueryRow(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE id = $1`, id,
	).Scan(&d.ID, &d.MeetingID, &d.Kind, &d.Filename, &d.MIMEType, &d.StorageKey, &d.SizeBytes, &d.PageCount, &d.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return &d, nil
}

// ListDocuments returns the documents of a meeting in upload order
func (db *DB) ListDocuments(ctx context.Context, meetingID string) ([]types.Document, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE meeting_id = $1 ORDER BY created_at`,
		meetingID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	docs := []types.Document{}
	for rows.Next() {
		var d types.Document
		if err := rows.Scan(&d.ID, &d.MeetingID, &d.Kind, &d.Filename, &d.MIMEType, &d.StorageKey, &d.SizeBytes, &d.PageCount, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate documents: %w", err)
	}
	return docs, nil
}

// DeleteDocument removes a document record
func (db *DB) DeleteDocument(ctx context.Context, id string) error {
	if _, err := db.pool.Exec(ctx, `DELETE FROM documents WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return nil
}
