// Package models holds the registration wizard's draft and registration types
// and the rules for moving a draft between steps.
package models

import (
	"fmt"
	"strings"
	"time"

	dErrors "portal/pkg/domain-errors"
	"portal/pkg/taxid"
)

// Kind is the type of account being registered.
type Kind string

const (
	KindPersonal Kind = "personal"
	KindCompany  Kind = "company"
)

// IsValid reports whether k is a supported kind.
func (k Kind) IsValid() bool {
	return k == KindPersonal || k == KindCompany
}

// Step is the wizard step a draft is waiting on.
type Step string

const (
	StepIdentity Step = "identity"
	StepContact  Step = "contact"
	StepReview   Step = "review"
)

const (
	minPhoneDigits = 8
	maxPhoneDigits = 15

	MaxNameLength  = 100
	MaxEmailLength = 254
	MaxFieldLength = 64
)

// Identity is the verified identity of a draft. Document is always the
// compact CUIL/CUIT.
type Identity struct {
	Document          string `json:"document"`
	DocumentFormatted string `json:"document_formatted"`
	NationalID        string `json:"national_id,omitempty"`
	Category          string `json:"category,omitempty"`
	FirstName         string `json:"first_name,omitempty"`
	LastName          string `json:"last_name,omitempty"`
	LegalName         string `json:"legal_name,omitempty"`
}

// Contact is the contact step payload.
type Contact struct {
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Draft is an in-progress registration.
type Draft struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	Step      Step      `json:"step"`
	Identity  *Identity `json:"identity,omitempty"`
	Contact   *Contact  `json:"contact,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// NewDraft starts a draft at the identity step.
func NewDraft(id string, kind Kind, now time.Time, ttl time.Duration) (*Draft, error) {
	if !kind.IsValid() {
		return nil, dErrors.New(dErrors.CodeValidation, "kind must be personal or company")
	}
	return &Draft{
		ID:        id,
		Kind:      kind,
		Step:      StepIdentity,
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(ttl),
	}, nil
}

// ApplyIdentity records identity and moves the draft to the contact step.
// Re-submitting identity from a later step sends the draft back to contact.
func (d *Draft) ApplyIdentity(identity *Identity, now time.Time) {
	d.Identity = identity
	d.Step = StepContact
	d.UpdatedAt = now
}

// ApplyContact records contact details. Identity must be set first.
func (d *Draft) ApplyContact(contact *Contact, now time.Time) error {
	if d.Identity == nil {
		return dErrors.New(dErrors.CodeInvariantViolation, "identity step must be completed first")
	}
	d.Contact = contact
	d.Step = StepReview
	d.UpdatedAt = now
	return nil
}

// Touch slides the draft expiry after a successful update.
func (d *Draft) Touch(now time.Time, ttl time.Duration) {
	d.ExpiresAt = now.Add(ttl)
}

// Complete turns a reviewed draft into a registration.
func (d *Draft) Complete(id string, now time.Time) (*Registration, error) {
	if d.Step != StepReview || d.Identity == nil || d.Contact == nil {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "draft is not ready to complete")
	}
	return &Registration{
		ID:        id,
		Document:  d.Identity.Document,
		Kind:      d.Kind,
		Identity:  *d.Identity,
		Contact:   *d.Contact,
		CreatedAt: now,
	}, nil
}

// Registration is a completed sign-up, unique by Document.
type Registration struct {
	ID        string    `json:"id"`
	Document  string    `json:"document"`
	Kind      Kind      `json:"kind"`
	Identity  Identity  `json:"identity"`
	Contact   Contact   `json:"contact"`
	CreatedAt time.Time `json:"created_at"`
}

// NewPersonalIdentity derives the CUIL from the national ID and category.
func NewPersonalIdentity(nationalID, category, firstName, lastName string) (*Identity, error) {
	if firstName == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "first_name is required")
	}
	if lastName == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "last_name is required")
	}
	if category == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "category is required")
	}
	doc, ok := taxid.Compute(nationalID, category)
	if !ok {
		return nil, dErrors.New(dErrors.CodeValidation, "national_id must have 7 or 8 digits")
	}
	return &Identity{
		Document:          doc.Compact(),
		DocumentFormatted: doc.Formatted(),
		NationalID:        doc.NationalID(),
		Category:          taxid.ParseCategory(category).String(),
		FirstName:         firstName,
		LastName:          lastName,
	}, nil
}

// NewCompanyIdentity accepts a CUIT in either representation. The check
// digit must verify.
func NewCompanyIdentity(cuit, legalName string) (*Identity, error) {
	if legalName == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "legal_name is required")
	}
	doc, ok := taxid.ParseDocumentID(cuit)
	if !ok {
		return nil, dErrors.New(dErrors.CodeValidation, "cuit is not a valid CUIT")
	}
	return &Identity{
		Document:          doc.Compact(),
		DocumentFormatted: doc.Formatted(),
		LegalName:         legalName,
	}, nil
}

// NewContact validates email and phone. The phone is stored as digits only.
func NewContact(email, phone string) (*Contact, error) {
	local, domain, found := strings.Cut(email, "@")
	if !found || local == "" || domain == "" || strings.Contains(domain, "@") {
		return nil, dErrors.New(dErrors.CodeValidation, "email is not valid")
	}
	digits := taxid.Digits(phone)
	if len(digits) < minPhoneDigits || len(digits) > maxPhoneDigits {
		return nil, dErrors.New(dErrors.CodeValidation,
			fmt.Sprintf("phone must have between %d and %d digits", minPhoneDigits, maxPhoneDigits))
	}
	return &Contact{Email: email, Phone: digits}, nil
}
