// internal/workflow/sections_test.go
package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/recordsdesk/rmd-backend/internal/models"
)

func TestAssignSectionByCategory(t *testing.T) {
	assert.Equal(t, SectionBusinessNames, AssignSection(models.CategoryBusinessName, "1234567"))
	assert.Equal(t, SectionIncorporatedTrustees, AssignSection(models.CategoryIncorporatedTrustee, "1234567"))
}

func TestAssignSectionByRange(t *testing.T) {
	cases := []struct {
		registration string
		section      string
	}{
		{"1", "Wing A"},
		{"171600", "Wing A"},
		{"171601", "Wing B Team 1"},
		{"305500", "Wing B Team 1"},
		{"305501", "Wing B Team 2"},
		{"470800", "Wing B Team 2"},
		{"470801", "Wing B Team 3"},
		{"672700", "Wing B Team 3"},
		{"672701", "Wing B Team 4"},
		{"849699", "Wing B Team 4"},
		{"849700", "Wing B Team 5"},
		{"1056399", "Wing B Team 5"},
		{"1056400", "Wing B Team 6"},
		{"1279070", "Wing B Team 6"},
		{"1279071", "Wing B Team 7"},
		{"1561239", "Wing B Team 7"}, // boundary shared with Team 8; first range wins
		{"1561240", "Wing B Team 8"},
		{"1748499", "Wing B Team 8"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.section, AssignSection(models.CategoryLLC, tc.registration),
			"registration %s", tc.registration)
	}
}

func TestAssignSectionStripsPrefix(t *testing.T) {
	// Alphabetic prefixes are ignored; only the leading digit run counts.
	assert.Equal(t, "Wing B Team 3", AssignSection(models.CategoryLLC, "rc0000500000"))
	assert.Equal(t, "Wing A", AssignSection(models.CategoryLLC, "RC150000"))
}

func TestAssignSectionUndefined(t *testing.T) {
	assert.Equal(t, SectionUndefined, AssignSection(models.CategoryLLC, "0"))
	assert.Equal(t, SectionUndefined, AssignSection(models.CategoryLLC, "1748500"))
	assert.Equal(t, SectionUndefined, AssignSection(models.CategoryLLC, "no-digits"))
	assert.Equal(t, SectionUndefined, AssignSection(models.CategoryLLC, ""))
}

func TestRegistrationSuffix(t *testing.T) {
	number, ok := registrationSuffix("bn0000500000")
	assert.True(t, ok)
	assert.Equal(t, 500000, number)

	// Trailing non-digits after the digit run are ignored.
	number, ok = registrationSuffix("rc12345-A")
	assert.True(t, ok)
	assert.Equal(t, 12345, number)

	_, ok = registrationSuffix("abc")
	assert.False(t, ok)
}
