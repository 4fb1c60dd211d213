package adapters

import (
	"strings"

	"github.com/dmitrijs2005/lifevault/internal/models"
	"github.com/shopspring/decimal"
)

// Fitbit maps Fitbit CSV/JSON exports onto the health domain.
func Fitbit() *Adapter {
	return &Adapter{
		Source: "fitbit",
		Label:  "Fitbit",
		Domain: models.DomainHealth,
		FieldMappings: []FieldMapping{
			{ExternalField: "Date", InternalField: "date"},
			{ExternalField: "date", InternalField: "date"},
			{ExternalField: "Resting Heart Rate", InternalField: "restingHR"},
			{ExternalField: "resting_heart_rate", InternalField: "restingHR"},
			{ExternalField: "Heart Rate Variability", InternalField: "hrv"},
			{ExternalField: "hrv", InternalField: "hrv"},
			{ExternalField: "Sleep Duration", InternalField: "sleepDuration"},
			{ExternalField: "sleep_duration", InternalField: "sleepDuration"},
			{ExternalField: "Minutes Fairly Active", InternalField: "activeMinutes", Transform: Number},
			{ExternalField: "Minutes Very Active", InternalField: "activeMinutes", Transform: Number},
			{ExternalField: "active_minutes", InternalField: "activeMinutes"},
			{ExternalField: "Steps", InternalField: "steps", Transform: Number},
			{ExternalField: "steps", InternalField: "steps"},
		},
	}
}

// Monarch maps Monarch Money exports onto the finance domain.
func Monarch() *Adapter {
	return &Adapter{
		Source: "monarch",
		Label:  "Monarch Money",
		Domain: models.DomainFinance,
		FieldMappings: []FieldMapping{
			{ExternalField: "Date", InternalField: "date"},
			{ExternalField: "date", InternalField: "date"},
			{ExternalField: "Total Assets", InternalField: "totalAssets", Transform: Amount},
			{ExternalField: "total_assets", InternalField: "totalAssets"},
			{ExternalField: "Assets", InternalField: "totalAssets", Transform: Amount},
			{ExternalField: "Total Liabilities", InternalField: "totalLiabilities", Transform: Amount},
			{ExternalField: "total_liabilities", InternalField: "totalLiabilities"},
			{ExternalField: "Liabilities", InternalField: "totalLiabilities", Transform: Amount},
			{ExternalField: "Net Worth", InternalField: "netWorth", Transform: Amount},
			{ExternalField: "net_worth", InternalField: "netWorth"},
		},
	}
}

// Number strips thousands separators, so "12,345" becomes "12345".
func Number(v string) string {
	return strings.ReplaceAll(strings.TrimSpace(v), ",", "")
}

// Amount normalizes a formatted currency amount such as "$1,234.50" or
// "(250.00)" to a plain decimal string. Values that do not parse are
// returned unchanged so that coercion can report them.
func Amount(v string) string {
	s := strings.TrimSpace(v)
	neg := strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")")
	if neg {
		s = s[1 : len(s)-1]
	}
	s = strings.Map(func(r rune) rune {
		switch r {
		case '$', '€', '£', ',', ' ':
			return -1
		}
		return r
	}, s)

	d, err := decimal.NewFromString(s)
	if err != nil {
		return v
	}
	if neg {
		d = d.Neg()
	}
	return d.String()
}
