// internal/workflow/sections.go
package workflow

import (
	"strconv"
	"unicode"

	"github.com/recordsdesk/rmd-backend/internal/models"
)

const (
	SectionBusinessNames        = "Business Names"
	SectionIncorporatedTrustees = "Incorporated Trustees"
	// SectionUndefined is a valid terminal routing value, not an error.
	SectionUndefined = "Section not defined"
)

type sectionRange struct {
	min     int
	max     int
	section string
}

// Registration-number ranges, inclusive on both ends, scanned in order with
// first match winning. 1,561,239 appears in both the Team 7 and Team 8 rows;
// the scan order means Team 7 takes it.
var sectionRanges = []sectionRange{
	{1, 171600, "Wing A"},
	{171601, 305500, "Wing B Team 1"},
	{305501, 470800, "Wing B Team 2"},
	{470801, 672700, "Wing B Team 3"},
	{672701, 849699, "Wing B Team 4"},
	{849700, 1056399, "Wing B Team 5"},
	{1056400, 1279070, "Wing B Team 6"},
	{1279071, 1561239, "Wing B Team 7"},
	{1561239, 1748499, "Wing B Team 8"},
}

// AssignSection routes a new request to its handling unit. Business names and
// incorporated trustees have dedicated sections; everything else is routed by
// the numeric part of the registration number.
func AssignSection(category models.CompanyCategory, registrationNumber string) string {
	switch category {
	case models.CategoryBusinessName:
		return SectionBusinessNames
	case models.CategoryIncorporatedTrustee:
		return SectionIncorporatedTrustees
	}

	number, ok := registrationSuffix(registrationNumber)
	if !ok {
		return SectionUndefined
	}

	for _, r := range sectionRanges {
		if number >= r.min && number <= r.max {
			return r.section
		}
	}
	return SectionUndefined
}

// registrationSuffix strips any non-digit prefix (e.g. "bn", "rc") and parses
// the leading digit run that follows.
func registrationSuffix(registrationNumber string) (int, bool) {
	runes := []rune(registrationNumber)

	start := 0
	for start < len(runes) && !unicode.IsDigit(runes[start]) {
		start++
	}

	end := start
	for end < len(runes) && unicode.IsDigit(runes[end]) {
		end++
	}

	if start == end {
		return 0, false
	}

	number, err := strconv.Atoi(string(runes[start:end]))
	if err != nil {
		return 0, false
	}
	return number, true
}
