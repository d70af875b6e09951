package taxid

import "strings"

const (
	// NationalIDLength is the canonical DNI length inside a CUIL/CUIT.
	NationalIDLength = 8
	// DocumentLength is the number of digits in a well-formed CUIL/CUIT.
	DocumentLength = 11

	shortNationalIDLength = 7
	prefixLength          = 2
	checkDigitOffset      = DocumentLength - 1

	// forcedCheckDigit is used when every candidate prefix is rejected.
	forcedCheckDigit = 9
)

// weights are the AFIP multipliers for the first ten digits.
var weights = [checkDigitOffset]int{5, 4, 3, 2, 7, 6, 5, 4, 3, 2}

// DocumentID is a well-formed CUIL/CUIT. The zero value is "absent".
type DocumentID struct {
	compact string
}

// Compact returns the eleven contiguous digits.
func (d DocumentID) Compact() string {
	return d.compact
}

// Formatted returns the PP-NNNNNNNN-C rendering.
func (d DocumentID) Formatted() string {
	if d.IsZero() {
		return ""
	}
	return hyphenate(d.compact)
}

// Prefix returns the two category digits.
func (d DocumentID) Prefix() string {
	if d.IsZero() {
		return ""
	}
	return d.compact[:prefixLength]
}

// NationalID returns the embedded eight digit national ID.
func (d DocumentID) NationalID() string {
	if d.IsZero() {
		return ""
	}
	return d.compact[prefixLength:checkDigitOffset]
}

// CheckDigit returns the verifier digit as an int, or -1 when absent.
func (d DocumentID) CheckDigit() int {
	if d.IsZero() {
		return -1
	}
	return int(d.compact[checkDigitOffset] - '0')
}

// IsZero reports whether d is the absent value.
func (d DocumentID) IsZero() bool {
	return d.compact == ""
}

// String returns the formatted representation.
func (d DocumentID) String() string {
	return d.Formatted()
}

// MarshalText encodes the compact form so persisted and cached values stay
// free of presentation hyphens.
func (d DocumentID) MarshalText() ([]byte, error) {
	return []byte(d.compact), nil
}

// Compute derives the CUIL for a national ID and category marker.
//
// ok is false when either argument is empty or the national ID does not
// normalize to eight digits.
func Compute(nationalID, category string) (DocumentID, bool) {
	if nationalID == "" || category == "" {
		return DocumentID{}, false
	}
	normalized, ok := NormalizeNationalID(nationalID)
	if !ok {
		return DocumentID{}, false
	}

	prefixes := ParseCategory(category).Prefixes()
	for _, prefix := range prefixes {
		base := prefix + normalized
		switch r := remainder(base); r {
		case 11:
			return DocumentID{compact: base + "0"}, true
		case 10:
			continue
		default:
			return DocumentID{compact: base + string(rune('0'+r))}, true
		}
	}

	return DocumentID{compact: prefixes[0] + normalized + string(rune('0'+forcedCheckDigit))}, true
}

// Validate reports whether document is eleven digits (after stripping) with a
// matching check digit. A remainder of 10 maps to 9.
func Validate(document string) bool {
	digits := Digits(document)
	if len(digits) != DocumentLength {
		return false
	}
	expected := remainder(digits[:checkDigitOffset])
	switch expected {
	case 11:
		expected = 0
	case 10:
		expected = forcedCheckDigit
	}
	return int(digits[checkDigitOffset]-'0') == expected
}

// Format renders document as PP-NNNNNNNN-C. Input that is not eleven digits
// after stripping is returned unchanged.
func Format(document string) string {
	digits := Digits(document)
	if len(digits) != DocumentLength {
		return document
	}
	return hyphenate(digits)
}

// ExtractNationalID returns the eight digit national ID embedded in a
// well-formed document. The check digit is not verified.
func ExtractNationalID(document string) (string, bool) {
	digits := Digits(document)
	if len(digits) != DocumentLength {
		return "", false
	}
	return digits[prefixLength:checkDigitOffset], true
}

// ParseDocumentID accepts either representation and returns a DocumentID
// only when the input is well-formed and its check digit validates.
func ParseDocumentID(document string) (DocumentID, bool) {
	if !Validate(document) {
		return DocumentID{}, false
	}
	return DocumentID{compact: Digits(document)}, true
}

// NormalizeNationalID strips non-digits and zero pads seven digit inputs.
func NormalizeNationalID(nationalID string) (string, bool) {
	digits := Digits(nationalID)
	if len(digits) == shortNationalIDLength {
		digits = "0" + digits
	}
	if len(digits) != NationalIDLength {
		return "", false
	}
	return digits, true
}

// Digits drops every byte that is not an ASCII digit.
func Digits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if c := s[i]; c >= '0' && c <= '9' {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// Mask renders a document for logs, keeping the prefix, the last four digits
// of the national ID and the check digit: "20-****5977-5". Anything that is
// not well-formed becomes "***".
func Mask(document string) string {
	digits := Digits(document)
	if len(digits) != DocumentLength {
		return "***"
	}
	return digits[:prefixLength] + "-****" + digits[6:checkDigitOffset] + "-" + digits[checkDigitOffset:]
}

// remainder returns 11 - (weighted sum mod 11) for a ten digit base, which is
// always in [1, 11].
func remainder(base string) int {
	sum := 0
	for i, w := range weights {
		sum += int(base[i]-'0') * w
	}
	return 11 - sum%11
}

func hyphenate(digits string) string {
	return digits[:prefixLength] + "-" + digits[prefixLength:checkDigitOffset] + "-" + digits[checkDigitOffset:]
}
