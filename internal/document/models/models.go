package models

import (
	"fmt"

	dErrors "portal/pkg/domain-errors"
	"portal/pkg/taxid"
)

// Input bounds. Generous enough for punctuation, small enough to keep junk
// out of logs and metrics.
const (
	MaxNationalIDLength = 32
	MaxCategoryLength   = 32
	MaxDocumentLength   = 64
)

// Operation names used for metrics and spans.
const (
	OperationCompute  = "compute"
	OperationValidate = "validate"
	OperationFormat   = "format"
	OperationExtract  = "extract"
)

// Result is a computed CUIL/CUIT in both representations.
type Result struct {
	Compact    string `json:"compact"`
	Formatted  string `json:"formatted"`
	Prefix     string `json:"prefix"`
	NationalID string `json:"national_id"`
	CheckDigit int    `json:"check_digit"`
}

// NewResult converts a taxid.DocumentID into its transport shape.
func NewResult(doc taxid.DocumentID) *Result {
	return &Result{
		Compact:    doc.Compact(),
		Formatted:  doc.Formatted(),
		Prefix:     doc.Prefix(),
		NationalID: doc.NationalID(),
		CheckDigit: doc.CheckDigit(),
	}
}

// Validation is the verdict for a submitted document. WellFormed is true for
// eleven digits regardless of the check digit.
type Validation struct {
	Valid      bool   `json:"valid"`
	WellFormed bool   `json:"well_formed"`
	Formatted  string `json:"formatted"`
}

type ComputeRequest struct {
	NationalID string `json:"national_id"`
	Category   string `json:"category"`
}

func (r *ComputeRequest) Validate() error {
	if r.NationalID == "" {
		return dErrors.New(dErrors.CodeBadRequest, "national_id is required")
	}
	if r.Category == "" {
		return dErrors.New(dErrors.CodeBadRequest, "category is required")
	}
	if len(r.NationalID) > MaxNationalIDLength {
		return dErrors.New(dErrors.CodeBadRequest, fmt.Sprintf("national_id must be %d characters or less", MaxNationalIDLength))
	}
	if len(r.Category) > MaxCategoryLength {
		return dErrors.New(dErrors.CodeBadRequest, fmt.Sprintf("category must be %d characters or less", MaxCategoryLength))
	}
	return nil
}

// DocumentRequest is the body of validate, format and extract.
type DocumentRequest struct {
	Document string `json:"document"`
}

func (r *DocumentRequest) Validate() error {
	if r.Document == "" {
		return dErrors.New(dErrors.CodeBadRequest, "document is required")
	}
	if len(r.Document) > MaxDocumentLength {
		return dErrors.New(dErrors.CodeBadRequest, fmt.Sprintf("document must be %d characters or less", MaxDocumentLength))
	}
	return nil
}

type FormatResponse struct {
	Formatted string `json:"formatted"`
}

type ExtractResponse struct {
	NationalID string `json:"national_id"`
}
