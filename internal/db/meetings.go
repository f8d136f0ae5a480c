package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jonathan/committee-minutes/internal/types"
)

const meetingColumns = `id, title, date, meeting_number, agenda_items, attendees, created_at, updated_at`

// CreateMeeting inserts a meeting and fills in its ID and timestamps
func (db *DB) CreateMeeting(ctx context.Context, m *types.Meeting) error {
	agenda, attendees, err := marshalMeetingLists(m)
	if err != nil {
		return err
	}

	err = db.pool.QueryRow(ctx,
		`INSERT INTO meetings (title, date, meeting_number, agenda_items, attendees)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at, updated_at`,
		m.Title, m.Date, m.MeetingNumber, agenda, attendees,
	).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create meeting: %w", err)
	}
	return nil
}

// GetMeeting retrieves a meeting by ID. Returns nil, nil when it does not exist.
func (db *DB) GetMeeting(ctx context.Context, id string) (*types.Meeting, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+meetingColumns+` FROM meetings WHERE id = $1`, id)

	m, err := scanMeeting(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get meeting: %w", err)
	}
	return m, nil
}

// ListMeetings returns meetings, most recent date first
func (db *DB) ListMeetings(ctx context.Context, limit, offset int) ([]types.Meeting, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := db.pool.Query(ctx,
		`SELECT `+meetingColumns+` FROM meetings
		 ORDER BY date DESC, created_at DESC
		 LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list meetings: %w", err)
	}
	defer rows.Close()

	meetings := []types.Meeting{}
	for rows.Next() {
		m, err := scanMeeting(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan meeting: %w", err)
		}
		meetings = append(meetings, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate meetings: %w", err)
	}
	return meetings, nil
}

// UpdateMeeting replaces the stored fields of a meeting if it has not been
// updated since m was read. Returns false when the meeting does not exist or
// its updated_at no longer equals m.UpdatedAt.
func (db *DB) UpdateMeeting(ctx context.Context, m *types.Meeting) (bool, error) {
	agenda, attendees, err := marshalMeetingLists(m)
	if err != nil {
		return false, err
	}

	err = db.pool.QueryRow(ctx,
		`UPDATE meetings
		 SET title = $2, date = $3, meeting_number = $4, agenda_items = $5, attendees = $6, updated_at = NOW()
		 WHERE id = $1 AND updated_at = $7
		 RETURNING updated_at`,
		m.ID, m.Title, m.Date, m.MeetingNumber, agenda, attendees, m.UpdatedAt,
	).Scan(&m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to update meeting: %w", err)
	}
	return true, nil
}

// DeleteMeeting removes a meeting with its documents and transcripts.
// Returns false when the meeting does not exist.
func (db *DB) DeleteMeeting(ctx context.Context, id string) (bool, error) {
	tag, err := db.pool.Exec(ctx, `DELETE FROM meetings WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete meeting: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func marshalMeetingLists(m *types.Meeting) (agenda, attendees []byte, err error) {
	items := m.AgendaItems
	if items == nil {
		items = []types.AgendaItem{}
	}
	people := m.Attendees
	if people == nil {
		people = []types.Attendee{}
	}

	agenda, err = json.Marshal(items)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal agenda items: %w", err)
	}
	attendees, err = json.Marshal(people)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal attendees: %w", err)
	}
	return agenda, attendees, nil
}

func scanMeeting(row pgx.Row) (*types.Meeting, error) {
	var m types.Meeting
	var agenda, attendees []byte
	if err := row.Scan(&m.ID, &m.Title, &m.Date, &m.MeetingNumber, &agenda, &attendees, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(agenda, &m.AgendaItems); err != nil {
		return nil, fmt.Errorf("failed to unmarshal agenda items: %w", err)
	}
	if err := json.Unmarshal(attendees, &m.Attendees); err != nil {
		return nil, fmt.Errorf("failed to unmarshal attendees: %w", err)
	}
	return &m, nil
}
