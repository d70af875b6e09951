package registration

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"portal/internal/registration/models"
	"portal/pkg/platform/sentinel"
	txcontext "portal/pkg/platform/tx"
)

const uniqueViolation = "23505"

//go:embed schema.sql
var schema string

// PostgresStore persists registrations in PostgreSQL. Identity and contact
// are stored as JSONB. Writes join the transaction carried in ctx.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed registration store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the registrations table if it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure registrations schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Create(ctx context.Context, reg *models.Registration) error {
	identity, err := json.Marshal(reg.Identity)
	if err != nil {
		return fmt.Errorf("marshal identity: %w", err)
	}
	contact, err := json.Marshal(reg.Contact)
	if err != nil {
		return fmt.Errorf("marshal contact: %w", err)
	}

	query := `
		INSERT INTO registrations (id, document, kind, identity, contact, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err = txcontext.ExecutorFrom(ctx, s.db).ExecContext(ctx, query, reg.ID, reg.Document, string(reg.Kind), identity, contact, reg.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("create registration: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByDocument(ctx context.Context, document string) (*models.Registration, error) {
	query := `
		SELECT id, document, kind, identity, contact, created_at
		FROM registrations
		WHERE document = $1
	`
	var (
		reg      models.Registration
		kind     string
		identity []byte
		contact  []byte
	)
	err := txcontext.ExecutorFrom(ctx, s.db).QueryRowContext(ctx, query, document).Scan(&reg.ID, &reg.Document, &kind, &identity, &contact, &reg.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find registration by document: %w", err)
	}
	reg.Kind = models.Kind(kind)
	if err := json.Unmarshal(identity, &reg.Identity); err != nil {
		return nil, fmt.Errorf("unmarshal identity: %w", err)
	}
	if err := json.Unmarshal(contact, &reg.Contact); err != nil {
		return nil, fmt.Errorf("unmarshal contact: %w", err)
	}
	return &reg, nil
}
