// internal/note/fields.go
//
// Primitive field kinds used by the release document: the two Low/Medium/High
// ratings, link categories, and a calendar date with no time component.

package note

import (
	"fmt"
	"time"
)

// RiskLevel rates how risky a service change is.
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// RiskLevels lists the accepted values in display order.
var RiskLevels = []RiskLevel{RiskLow, RiskMedium, RiskHigh}

// Valid reports whether r is one of the three accepted values.
func (r RiskLevel) Valid() bool {
	return r == RiskLow || r == RiskMedium || r == RiskHigh
}

// Caption returns the explanatory text shown next to a selected risk level.
func (r RiskLevel) Caption() string {
	switch r {
	case RiskLow:
		return "Simple change, config only or small function tweaks."
	case RiskMedium:
		return "More significant changes to larger application components."
	case RiskHigh:
		return "Major changes across multiple components or non-backwards-compatible modifications."
	}
	return ""
}

// BenefitLevel rates the value a service change delivers.
type BenefitLevel string

const (
	BenefitLow    BenefitLevel = "Low"
	BenefitMedium BenefitLevel = "Medium"
	BenefitHigh   BenefitLevel = "High"
)

// BenefitLevels lists the accepted values in display order.
var BenefitLevels = []BenefitLevel{BenefitLow, BenefitMedium, BenefitHigh}

// Valid reports whether b is one of the three accepted values.
func (b BenefitLevel) Valid() bool {
	return b == BenefitLow || b == BenefitMedium || b == BenefitHigh
}

// Caption returns the explanatory text shown next to a selected benefit level.
func (b BenefitLevel) Caption() string {
	switch b {
	case BenefitLow:
		return "Minor improvements or maintenance."
	case BenefitMedium:
		return "Noticeable value or efficiency gains."
	case BenefitHigh:
		return "Significant new features or major customer impact."
	}
	return ""
}

// LinkCategory names one of the per-service link lists.
type LinkCategory string

const (
	CategoryPR            LinkCategory = "pr"
	CategoryDesign        LinkCategory = "design"
	CategoryQualityReport LinkCategory = "quality_report"
	CategoryAdditional    LinkCategory = "additional"
)

// LinkCategories lists the accepted categories in display order.
var LinkCategories = []LinkCategory{CategoryPR, CategoryDesign, CategoryQualityReport, CategoryAdditional}

// Valid reports whether c names a known link list.
func (c LinkCategory) Valid() bool {
	switch c {
	case CategoryPR, CategoryDesign, CategoryQualityReport, CategoryAdditional:
		return true
	}
	return false
}

// Label returns the human-readable name for the category.
func (c LinkCategory) Label() string {
	switch c {
	case CategoryPR:
		return "PR links"
	case CategoryDesign:
		return "Design links"
	case CategoryQualityReport:
		return "Quality report links"
	case CategoryAdditional:
		return "Additional links"
	}
	return string(c)
}

// dateLayout is the ISO-8601 calendar date form, e.g. "2026-03-17".
const dateLayout = "2006-01-02"

// Date is a calendar date with no time-of-day or timezone. The zero value
// means "unset", which is how a fresh release starts.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseDate parses an ISO-8601 date string. The empty string parses to the
// unset date.
func ParseDate(s string) (Date, error) {
	if s == "" {
		return Date{}, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q is not a YYYY-MM-DD date", ErrInvalidDate, s)
	}
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}, nil
}

// DateOf builds a Date from components without validating them; call
// Validate (or go through ParseDate) before storing it in a release.
func DateOf(year int, month time.Month, day int) Date {
	return Date{Year: year, Month: month, Day: day}
}

// IsZero reports whether the date is unset.
func (d Date) IsZero() bool {
	return d == Date{}
}

// Validate checks that the date is unset or a real calendar day.
func (d Date) Validate() error {
	if d.IsZero() {
		return nil
	}
	// Round-trip through time.Date: an out-of-range day (e.g. Feb 30)
	// normalizes to a different date and is caught by the comparison.
	t := time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
	if t.Year() != d.Year || t.Month() != d.Month || t.Day() != d.Day || d.Year < 1 {
		return fmt.Errorf("%w: %04d-%02d-%02d is not a calendar date", ErrInvalidDate, d.Year, int(d.Month), d.Day)
	}
	return nil
}

// String renders the date in ISO-8601 form, or "" when unset.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}
