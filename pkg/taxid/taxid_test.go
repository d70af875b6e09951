package taxid_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	"portal/pkg/taxid"
)

type TaxIDSuite struct {
	suite.Suite
}

func TestTaxIDSuite(t *testing.T) {
	suite.Run(t, new(TaxIDSuite))
}

func (s *TaxIDSuite) TestComputeKnownVectors() {
	tests := []struct {
		name       string
		nationalID string
		category   string
		compact    string
		formatted  string
	}{
		// 2*5+0*4+2*3+0*2+6*7+1*6+5*5+9*4+7*3+7*2 = 160; 160 % 11 = 6; 11 - 6 = 5
		{"published male example", "20615977", "masculino", "20206159775", "20-20615977-5"},
		{"male first prefix", "12345678", "masculino", "20123456786", "20-12345678-6"},
		{"female remainder 11 maps to 0", "12345678", "femenino", "27123456780", "27-12345678-0"},
		{"other category", "12345678", "no binario", "23123456785", "23-12345678-5"},
		{"male remainder 11 maps to 0", "00000006", "masculino", "20000000060", "20-00000006-0"},
		{"male falls through to 23", "00000001", "masculino", "23000000019", "23-00000001-9"},
		{"female falls through to 23", "00000012", "femenino", "23000000124", "23-00000012-4"},
		{"other falls through to 24", "00000006", "otro", "24000000066", "24-00000006-6"},
		{"seven digits padded and falls through", "1234567", "femenino", "23012345674", "23-01234567-4"},
		{"punctuated national id", "12.345.678", "masculino", "20123456786", "20-12345678-6"},
		{"category is case insensitive", "12345678", "MASCULINO", "20123456786", "20-12345678-6"},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			doc, ok := taxid.Compute(tt.nationalID, tt.category)
			s.Require().True(ok)
			s.Equal(tt.compact, doc.Compact())
			s.Equal(tt.formatted, doc.Formatted())
			s.True(taxid.Validate(doc.Compact()))
		})
	}
}

func (s *TaxIDSuite) TestComputeAbsent() {
	tests := []struct {
		name       string
		nationalID string
		category   string
	}{
		{"empty national id", "", "masculino"},
		{"empty category", "12345678", ""},
		{"nine digits", "123456789", "masculino"},
		{"six digits", "123456", "femenino"},
		{"letters only", "abcdefgh", "masculino"},
		{"digits hidden in garbage still too short", "a1b2c3", "masculino"},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			doc, ok := taxid.Compute(tt.nationalID, tt.category)
			s.False(ok)
			s.True(doc.IsZero())
			s.Equal("", doc.Formatted())
			s.Equal(-1, doc.CheckDigit())
		})
	}
}

func (s *TaxIDSuite) TestComputeProperties() {
	categories := []string{"masculino", "femenino", "otro"}

	for n := 0; n < 100_000_000; n += 99_991 {
		nationalID := fmt.Sprintf("%08d", n)
		for _, category := range categories {
			doc, ok := taxid.Compute(nationalID, category)
			s.Require().True(ok, "compute %s/%s", nationalID, category)

			s.Len(doc.Compact(), taxid.DocumentLength)
			s.Contains(taxid.ParseCategory(category).Prefixes(), doc.Prefix())
			s.Equal(doc.Formatted(), taxid.Format(doc.Compact()))
			s.Equal(strings.ReplaceAll(doc.Formatted(), "-", ""), doc.Compact())

			extracted, ok := taxid.ExtractNationalID(doc.Compact())
			s.Require().True(ok)
			s.Equal(nationalID, extracted)
			s.Equal(nationalID, doc.NationalID())
		}
	}
}

func (s *TaxIDSuite) TestComputeMalePrefixSelection() {
	for n := 0; n < 100_000_000; n += 1_000_003 {
		nationalID := fmt.Sprintf("%08d", n)
		doc, ok := taxid.Compute(nationalID, "masculino")
		s.Require().True(ok)

		// "20"+id and "23"+id differ by 12 in the weighted sum, so whenever 20
		// is rejected 23 always succeeds.
		primary := "20" + nationalID + "0"
		if weightedRemainder(primary) == 10 {
			s.Equal("23", doc.Prefix(), nationalID)
		} else {
			s.Equal("20", doc.Prefix(), nationalID)
		}
	}
}

func (s *TaxIDSuite) TestSevenDigitInputMatchesPadded() {
	short, ok := taxid.Compute("7654321", "masculino")
	s.Require().True(ok)
	padded, ok := taxid.Compute("07654321", "masculino")
	s.Require().True(ok)
	s.Equal(padded, short)

	extracted, ok := taxid.ExtractNationalID(short.Compact())
	s.Require().True(ok)
	s.Equal("07654321", extracted)
}

func (s *TaxIDSuite) TestValidate() {
	tests := []struct {
		name     string
		document string
		want     bool
	}{
		{"compact valid", "20206159775", true},
		{"formatted valid", "20-20615977-5", true},
		{"wrong check digit", "20-20615977-4", false},
		{"remainder 11 expects 0", "27-12345678-0", true},
		{"remainder 10 expects 9", "20-00000001-9", true},
		{"remainder 10 rejects 0", "20-00000001-0", false},
		{"too short", "2020615977", false},
		{"too long", "202061597755", false},
		{"empty", "", false},
		{"spaces and dots ignored", "20 206.159.77 5", true},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.Equal(tt.want, taxid.Validate(tt.document))
		})
	}
}

func (s *TaxIDSuite) TestValidateIsHyphenInsensitive() {
	s.Equal(taxid.Validate("20123456789"), taxid.Validate("20-12345678-9"))
	s.False(taxid.Validate("20-12345678-9"))
	s.Equal(taxid.Validate("20123456786"), taxid.Validate("20-12345678-6"))
	s.True(taxid.Validate("20-12345678-6"))
}

// Compute never emits 20-00000001-9 but Validate accepts it. Both rules are
// kept as they are.
func (s *TaxIDSuite) TestComputeValidateAsymmetry() {
	doc, ok := taxid.Compute("00000001", "masculino")
	s.Require().True(ok)
	s.Equal("23000000019", doc.Compact())
	s.True(taxid.Validate("20000000019"))
}

func (s *TaxIDSuite) TestFormat() {
	s.Equal("20-20615977-5", taxid.Format("20206159775"))
	s.Equal("20-20615977-5", taxid.Format("20-20615977-5"))
	s.Equal("20-20615977-5", taxid.Format("20.20615977/5"))
	s.Equal("2020615977", taxid.Format("2020615977"))
	s.Equal("not a cuit", taxid.Format("not a cuit"))
	s.Equal("", taxid.Format(""))
}

func (s *TaxIDSuite) TestExtractNationalID() {
	s.Run("formatted input", func() {
		id, ok := taxid.ExtractNationalID("20-20615977-5")
		s.Require().True(ok)
		s.Equal("20615977", id)
	})

	s.Run("check digit is not verified", func() {
		id, ok := taxid.ExtractNationalID("20-20615977-0")
		s.Require().True(ok)
		s.Equal("20615977", id)
	})

	s.Run("wrong length is absent", func() {
		_, ok := taxid.ExtractNationalID("20-2061597-5")
		s.False(ok)
	})
}

func (s *TaxIDSuite) TestParseDocumentID() {
	s.Run("company cuit", func() {
		// 3*5+0*4+7*3+1*2+2*7+3*6+4*5+5*4+6*3+7*2 = 142; 142 % 11 = 10; 11 - 10 = 1
		doc, ok := taxid.ParseDocumentID("30-71234567-1")
		s.Require().True(ok)
		s.Equal("30712345671", doc.Compact())
		s.Equal("30", doc.Prefix())
	})

	s.Run("valid computed", func() {
		doc, ok := taxid.ParseDocumentID("20-20615977-5")
		s.Require().True(ok)
		s.Equal("20", doc.Prefix())
		s.Equal("20615977", doc.NationalID())
		s.Equal(5, doc.CheckDigit())
		s.Equal("20-20615977-5", doc.String())
	})

	s.Run("invalid check digit", func() {
		_, ok := taxid.ParseDocumentID("20-20615977-4")
		s.False(ok)
	})
}

func (s *TaxIDSuite) TestMask() {
	s.Equal("20-****5977-5", taxid.Mask("20206159775"))
	s.Equal("20-****5977-5", taxid.Mask("20-20615977-5"))
	s.Equal("***", taxid.Mask("12345"))
}

func (s *TaxIDSuite) TestMarshalText() {
	doc, ok := taxid.Compute("20615977", "masculino")
	s.Require().True(ok)
	text, err := doc.MarshalText()
	s.Require().NoError(err)
	s.Equal("20206159775", string(text))
}

func (s *TaxIDSuite) TestCategory() {
	s.Equal(taxid.CategoryMale, taxid.ParseCategory("Masculino"))
	s.Equal(taxid.CategoryFemale, taxid.ParseCategory("FEMENINO"))
	s.Equal(taxid.CategoryOther, taxid.ParseCategory("x"))
	s.Equal(taxid.CategoryOther, taxid.ParseCategory(""))

	s.Equal([]string{"20", "23"}, taxid.CategoryMale.Prefixes())
	s.Equal([]string{"27", "23"}, taxid.CategoryFemale.Prefixes())
	s.Equal([]string{"23", "24"}, taxid.CategoryOther.Prefixes())

	prefixes := taxid.CategoryMale.Prefixes()
	prefixes[0] = "99"
	s.Equal([]string{"20", "23"}, taxid.CategoryMale.Prefixes(), "prefixes must be copied")
}

func (s *TaxIDSuite) TestNormalizeNationalID() {
	id, ok := taxid.NormalizeNationalID("1.234.567")
	s.Require().True(ok)
	s.Equal("01234567", id)

	_, ok = taxid.NormalizeNationalID("123")
	s.False(ok)
}

func weightedRemainder(document string) int {
	w := []int{5, 4, 3, 2, 7, 6, 5, 4, 3, 2}
	sum := 0
	for i, weight := range w {
		sum += int(document[i]-'0') * weight
	}
	return 11 - sum%11
}
