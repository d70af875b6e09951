package taxid

import "strings"

// Category selects the prefix candidates tried when computing a CUIL.
type Category int

const (
	// CategoryOther covers any marker that is not masculino or femenino.
	CategoryOther Category = iota
	CategoryMale
	CategoryFemale
)

const (
	markerMale   = "masculino"
	markerFemale = "femenino"
	markerOther  = "otro"
)

var categoryPrefixes = map[Category][]string{
	CategoryMale:   {"20", "23"},
	CategoryFemale: {"27", "23"},
	CategoryOther:  {"23", "24"},
}

// ParseCategory maps a marker to a Category, ignoring case. Unknown markers
// are CategoryOther rather than an error.
func ParseCategory(marker string) Category {
	switch strings.ToLower(marker) {
	case markerMale:
		return CategoryMale
	case markerFemale:
		return CategoryFemale
	default:
		return CategoryOther
	}
}

// Prefixes returns the candidate prefixes in the order Compute tries them.
// The returned slice is a copy.
func (c Category) Prefixes() []string {
	prefixes, ok := categoryPrefixes[c]
	if !ok {
		prefixes = categoryPrefixes[CategoryOther]
	}
	return append([]string(nil), prefixes...)
}

func (c Category) String() string {
	switch c {
	case CategoryMale:
		return markerMale
	case CategoryFemale:
		return markerFemale
	default:
		return markerOther
	}
}
