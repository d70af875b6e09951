package models

import (
	"fmt"

	dErrors "portal/pkg/domain-errors"
)

type StartDraftRequest struct {
	Kind string `json:"kind"`
}

func (r *StartDraftRequest) Validate() error {
	if r.Kind == "" {
		return dErrors.New(dErrors.CodeBadRequest, "kind is required")
	}
	if !Kind(r.Kind).IsValid() {
		return dErrors.New(dErrors.CodeBadRequest, "kind must be personal or company")
	}
	return nil
}

// IdentityRequest carries both shapes; which fields apply depends on the
// draft kind.
type IdentityRequest struct {
	NationalID string `json:"national_id,omitempty"`
	Category   string `json:"category,omitempty"`
	FirstName  string `json:"first_name,omitempty"`
	LastName   string `json:"last_name,omitempty"`
	CUIT       string `json:"cuit,omitempty"`
	LegalName  string `json:"legal_name,omitempty"`
}

func (r *IdentityRequest) Validate() error {
	fields := []struct {
		name  string
		value string
		max   int
	}{
		{"national_id", r.NationalID, MaxFieldLength},
		{"category", r.Category, MaxFieldLength},
		{"first_name", r.FirstName, MaxNameLength},
		{"last_name", r.LastName, MaxNameLength},
		{"cuit", r.CUIT, MaxFieldLength},
		{"legal_name", r.LegalName, MaxNameLength},
	}
	for _, f := range fields {
		if len(f.value) > f.max {
			return dErrors.New(dErrors.CodeBadRequest, fmt.Sprintf("%s must be %d characters or less", f.name, f.max))
		}
	}
	return nil
}

type ContactRequest struct {
	Email string `json:"email"`
	Phone string `json:"phone"`
}

func (r *ContactRequest) Validate() error {
	if r.Email == "" {
		return dErrors.New(dErrors.CodeBadRequest, "email is required")
	}
	if r.Phone == "" {
		return dErrors.New(dErrors.CodeBadRequest, "phone is required")
	}
	if len(r.Email) > MaxEmailLength {
		return dErrors.New(dErrors.CodeBadRequest, fmt.Sprintf("email must be %d characters or less", MaxEmailLength))
	}
	if len(r.Phone) > MaxFieldLength {
		return dErrors.New(dErrors.CodeBadRequest, fmt.Sprintf("phone must be %d characters or less", MaxFieldLength))
	}
	return nil
}
