package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	audit "portal/pkg/platform/audit"
	txcontext "portal/pkg/platform/tx"
)

//go:embed schema.sql
var schema string

// Store implements audit.Store on PostgreSQL. Appends join the transaction
// carried in ctx, so an audit row commits or rolls back with the business
// write it describes.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// EnsureSchema creates the audit_events table if it does not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure audit schema: %w", err)
	}
	return nil
}

func (s *Store) Append(ctx context.Context, event audit.Event) error {
	query := `
		INSERT INTO audit_events (id, category, action, subject, subject_id_hash, decision, request_id, client_ip, user_agent, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := txcontext.ExecutorFrom(ctx, s.db).ExecContext(ctx, query,
		event.ID,
		string(event.Category),
		string(event.Action),
		event.Subject,
		event.SubjectIDHash,
		event.Decision,
		event.RequestID,
		event.ClientIP,
		event.UserAgent,
		event.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	return nil
}

// ListBySubject returns the events recorded for a hashed subject, oldest first.
func (s *Store) ListBySubject(ctx context.Context, subjectIDHash string) ([]audit.Event, error) {
	query := `
		SELECT id, category, action, subject, subject_id_hash, decision, request_id, client_ip, user_agent, occurred_at
		FROM audit_events
		WHERE subject_id_hash = $1
		ORDER BY occurred_at
	`
	rows, err := txcontext.ExecutorFrom(ctx, s.db).QueryContext(ctx, query, subjectIDHash)
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	defer rows.Close()

	var events []audit.Event
	for rows.Next() {
		var (
			e        audit.Event
			category string
			action   string
		)
		if err := rows.Scan(&e.ID, &category, &action, &e.Subject, &e.SubjectIDHash, &e.Decision, &e.RequestID, &e.ClientIP, &e.UserAgent, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		e.Category = audit.EventCategory(category)
		e.Action = audit.Action(action)
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}
	return events, nil
}
