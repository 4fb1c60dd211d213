package models

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/lifevault/internal/common"
)

const (
	msgNonNegative  = "Must be >= 0"
	msgRating       = "Must be between 1 and 5"
	msgHeartRate    = "Must be between 20 and 250"
	msgDateRequired = "Date is required"
)

// ValidationError describes a single rejected field.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult collects every failed field check of one entry.
type ValidationResult struct {
	Errors []ValidationError `json:"errors,omitempty"`
}

// Valid reports whether no check failed.
func (r ValidationResult) Valid() bool { return len(r.Errors) == 0 }

// Messages returns errors formatted as "field: message".
func (r ValidationResult) Messages() []string {
	out := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		out = append(out, e.Field+": "+e.Message)
	}
	return out
}

func (r *ValidationResult) add(field, message string) {
	r.Errors = append(r.Errors, ValidationError{Field: field, Message: message})
}

// ValidationFailedError is returned by write operations when an entry does
// not pass its domain validator.
type ValidationFailedError struct {
	Domain Domain
	Errors []ValidationError
}

func (e *ValidationFailedError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, v := range e.Errors {
		parts = append(parts, v.Field+": "+v.Message)
	}
	return fmt.Sprintf("invalid %s entry: %s", e.Domain, strings.Join(parts, "; "))
}

func (e *ValidationFailedError) Unwrap() error { return common.ErrValidation }

func nonNegative(r *ValidationResult, field string, v *float64) {
	if v == nil || *v < 0 {
		r.add(field, msgNonNegative)
	}
}

func between(r *ValidationResult, field, msg string, v *float64, lo, hi float64) {
	if v == nil || *v < lo || *v > hi {
		r.add(field, msg)
	}
}

func required[T any](r *ValidationResult, field, msg string, v *T) {
	if v == nil {
		r.add(field, msg)
	}
}

func requiredText(r *ValidationResult, field, msg string, v *string) {
	if v == nil || *v == "" {
		r.add(field, msg)
	}
}

func ValidateProductivityLog(p ProductivityPatch) ValidationResult {
	var r ValidationResult
	nonNegative(&r, "tasksPlanned", p.TasksPlanned)
	nonNegative(&r, "tasksCompleted", p.TasksCompleted)
	between(&r, "focusRating", msgRating, p.FocusRating, 1, 5)
	nonNegative(&r, "deepWorkHours", p.DeepWorkHours)
	requiredText(&r, "date", msgDateRequired, p.Date)
	return r
}

func ValidateFinanceLog(p FinancePatch) ValidationResult {
	var r ValidationResult
	required(&r, "totalAssets", "Total assets is required", p.TotalAssets)
	required(&r, "totalLiabilities", "Total liabilities is required", p.TotalLiabilities)
	requiredText(&r, "date", msgDateRequired, p.Date)
	return r
}

func ValidateHealthLog(p HealthPatch) ValidationResult {
	var r ValidationResult
	between(&r, "restingHR", msgHeartRate, p.RestingHR, 20, 250)
	nonNegative(&r, "hrv", p.HRV)
	nonNegative(&r, "sleepDuration", p.SleepDuration)
	requiredText(&r, "date", msgDateRequired, p.Date)
	return r
}

func ValidateMetabolicLog(p MetabolicPatch) ValidationResult {
	var r ValidationResult
	required(&r, "gutMicrobiomeScore", "Gut microbiome score is required", p.GutMicrobiomeScore)
	required(&r, "dailyFoodScore", "Daily food score is required", p.DailyFoodScore)
	nonNegative(&r, "fiberIntake", p.FiberIntake)
	requiredText(&r, "date", msgDateRequired, p.Date)
	return r
}

func ValidateDigitalLog(p DigitalPatch) ValidationResult {
	var r ValidationResult
	nonNegative(&r, "totalScreenTime", p.TotalScreenTime)
	nonNegative(&r, "unlocks", p.Unlocks)
	requiredText(&r, "date", msgDateRequired, p.Date)
	return r
}

func ValidateMindfulnessLog(p MindfulnessPatch) ValidationResult {
	var r ValidationResult
	requiredText(&r, "meditationType", "Meditation type is required", p.MeditationType)
	nonNegative(&r, "duration", p.Duration)
	between(&r, "qualityRating", msgRating, p.QualityRating, 1, 5)
	requiredText(&r, "date", msgDateRequired, p.Date)
	return r
}

func ValidateReadingLog(p ReadingPatch) ValidationResult {
	var r ValidationResult
	requiredText(&r, "bookTitle", "Book title is required", p.BookTitle)
	nonNegative(&r, "pagesRead", p.PagesRead)
	nonNegative(&r, "highlightsCount", p.HighlightsCount)
	requiredText(&r, "date", msgDateRequired, p.Date)
	return r
}
