package roster

import "strings"

// Group is one side of the binary partition assigned by the roster.
type Group string

const (
	GroupMale   Group = "Male"
	GroupFemale Group = "Female"
)

// Groups lists both groups in report order.
var Groups = []Group{GroupFemale, GroupMale}

// Other returns the complementary group.
func (g Group) Other() Group {
	if g == GroupMale {
		return GroupFemale
	}
	return GroupMale
}

// Valid reports whether g is one of the two known groups.
func (g Group) Valid() bool {
	return g == GroupMale || g == GroupFemale
}

// Slug is the lower-case form used in output file names.
func (g Group) Slug() string {
	return strings.ToLower(string(g))
}

// ParseGroup maps a roster cell to a Group, case-insensitively.
func ParseGroup(value string) (Group, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "male", "m":
		return GroupMale, true
	case "female", "f":
		return GroupFemale, true
	default:
		return "", false
	}
}
