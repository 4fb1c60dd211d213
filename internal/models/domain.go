// Package models defines the tracked domains, their entry types, partial
// entries (patches) used for updates and imports, and the per-domain
// validation rules.
package models

import (
	"fmt"

	"github.com/dmitrijs2005/lifevault/internal/common"
)

// Domain classifies an entry kind. Each domain is stored in its own table.
type Domain string

const (
	DomainProductivity Domain = "productivity"
	DomainFinance      Domain = "finance"
	DomainHealth       Domain = "health"
	DomainMetabolic    Domain = "metabolic"
	DomainDigital      Domain = "digital"
	DomainMindfulness  Domain = "mindfulness"
	DomainReading      Domain = "reading"
)

// Domains lists every domain in canonical order.
var Domains = []Domain{
	DomainProductivity,
	DomainFinance,
	DomainHealth,
	DomainMetabolic,
	DomainDigital,
	DomainMindfulness,
	DomainReading,
}

// ParseDomain converts s into a Domain, rejecting unknown names.
func ParseDomain(s string) (Domain, error) {
	d := Domain(s)
	if !d.Valid() {
		return "", fmt.Errorf("%w: %q", common.ErrUnknownDomain, s)
	}
	return d, nil
}

// Valid reports whether d is one of the known domains.
func (d Domain) Valid() bool {
	switch d {
	case DomainProductivity, DomainFinance, DomainHealth, DomainMetabolic,
		DomainDigital, DomainMindfulness, DomainReading:
		return true
	}
	return false
}

// Table returns the name of the encrypted-record table backing d.
func (d Domain) Table() string {
	return string(d) + "_logs"
}

// Label returns a human-readable name for d.
func (d Domain) Label() string {
	switch d {
	case DomainProductivity:
		return "Productivity"
	case DomainFinance:
		return "Finance"
	case DomainHealth:
		return "Health"
	case DomainMetabolic:
		return "Metabolic"
	case DomainDigital:
		return "Digital Wellbeing"
	case DomainMindfulness:
		return "Mindfulness"
	case DomainReading:
		return "Reading"
	}
	return string(d)
}

// NumericFields lists the fields of d that must parse as numbers when they
// arrive as text (imports).
func (d Domain) NumericFields() []string {
	switch d {
	case DomainProductivity:
		return []string{"tasksPlanned", "tasksCompleted", "focusRating", "deepWorkHours"}
	case DomainFinance:
		return []string{"totalAssets", "totalLiabilities", "netWorth"}
	case DomainHealth:
		return []string{"restingHR", "hrv", "sleepDuration", "activeMinutes", "steps"}
	case DomainMetabolic:
		return []string{"gutMicrobiomeScore", "dailyFoodScore", "fiberIntake", "glucoseResponse", "fatResponse"}
	case DomainDigital:
		return []string{"totalScreenTime", "unlocks"}
	case DomainMindfulness:
		return []string{"duration", "qualityRating", "streakCount"}
	case DomainReading:
		return []string{"pagesRead", "highlightsCount", "currentPage", "totalPages"}
	}
	return nil
}

// IsNumericField reports whether field is numeric in d.
func (d Domain) IsNumericField(field string) bool {
	for _, f := range d.NumericFields() {
		if f == field {
			return true
		}
	}
	return false
}
