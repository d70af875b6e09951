// Package audit records compliance events without storing raw identifiers.
// Subjects are kept masked and hashed so the trail can be correlated with a
// CUIL/CUIT without holding it in clear text.
package audit

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// EventCategory classifies audit events by purpose and retention.
type EventCategory string

const (
	// CategoryCompliance events have regulatory significance and are written
	// synchronously.
	CategoryCompliance EventCategory = "compliance"
)

// Action names an audited operation.
type Action string

const (
	ActionRegistrationCompleted Action = "registration_completed"
)

// Event is one audit record.
type Event struct {
	ID            string
	Category      EventCategory
	Timestamp     time.Time
	Action        Action
	Subject       string // masked document, safe for display
	SubjectIDHash string // SHA-256 of the compact document
	Decision      string
	RequestID     string
	ClientIP      string
	UserAgent     string
}

// Store persists audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
}

// HashSubjectID returns the hex SHA-256 of a compact identifier.
func HashSubjectID(subjectID string) string {
	sum := sha256.Sum256([]byte(subjectID))
	return hex.EncodeToString(sum[:])
}
