package models

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Patch is a partial entry: nil fields are absent. Patches carry no id or
// timestamps, so merging one can never rewrite the identity of an entry.
type Patch interface {
	Domain() Domain
	Validate() ValidationResult
	// DateValue returns the patched date or "" when absent.
	DateValue() string
	// Build creates a new entry from the patch; absent fields stay zero.
	Build() Entry
	apply(e Entry)
}

// Merge copies every present field of p onto e.
func Merge(e Entry, p Patch) error {
	if e.Domain() != p.Domain() {
		return fmt.Errorf("cannot merge %s patch into %s entry", p.Domain(), e.Domain())
	}
	p.apply(e)
	return nil
}

// NewPatch returns an empty patch for domain d.
func NewPatch(d Domain) (Patch, error) {
	switch d {
	case DomainProductivity:
		return &ProductivityPatch{}, nil
	case DomainFinance:
		return &FinancePatch{}, nil
	case DomainHealth:
		return &HealthPatch{}, nil
	case DomainMetabolic:
		return &MetabolicPatch{}, nil
	case DomainDigital:
		return &DigitalPatch{}, nil
	case DomainMindfulness:
		return &MindfulnessPatch{}, nil
	case DomainReading:
		return &ReadingPatch{}, nil
	}
	_, err := ParseDomain(string(d))
	return nil, err
}

// PatchFromFields decodes loosely typed fields (for instance a coerced import
// row) into a patch of domain d. Unknown fields are ignored.
func PatchFromFields(d Domain, fields map[string]any) (Patch, error) {
	p, err := NewPatch(d)
	if err != nil {
		return nil, err
	}
	b, err := json.Marshal(fields)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(b, p); err != nil {
		return nil, fmt.Errorf("decode %s fields: %w", d, err)
	}
	return p, nil
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

func strOrEmpty(p *string) string { return deref(p) }

// ProductivityPatch is a partial ProductivityLog.
type ProductivityPatch struct {
	Date           *string  `json:"date,omitempty"`
	TasksPlanned   *float64 `json:"tasksPlanned,omitempty"`
	TasksCompleted *float64 `json:"tasksCompleted,omitempty"`
	FocusRating    *float64 `json:"focusRating,omitempty"`
	DeepWorkHours  *float64 `json:"deepWorkHours,omitempty"`
	Notes          *string  `json:"notes,omitempty"`
}

func (*ProductivityPatch) Domain() Domain { return DomainProductivity }
func (p *ProductivityPatch) DateValue() string { return strOrEmpty(p.Date) }
func (p *ProductivityPatch) Validate() ValidationResult { return ValidateProductivityLog(*p) }

func (p *ProductivityPatch) Build() Entry {
	e := &ProductivityLog{}
	p.apply(e)
	return e
}

func (p *ProductivityPatch) apply(e Entry) {
	l := e.(*ProductivityLog)
	set(&l.Date, p.Date)
	set(&l.TasksPlanned, p.TasksPlanned)
	set(&l.TasksCompleted, p.TasksCompleted)
	set(&l.FocusRating, p.FocusRating)
	set(&l.DeepWorkHours, p.DeepWorkHours)
	set(&l.Notes, p.Notes)
}

func (l *ProductivityLog) patch() Patch {
	return &ProductivityPatch{
		Date:           &l.Date,
		TasksPlanned:   &l.TasksPlanned,
		TasksCompleted: &l.TasksCompleted,
		FocusRating:    &l.FocusRating,
		DeepWorkHours:  &l.DeepWorkHours,
		Notes:          &l.Notes,
	}
}

// FinancePatch is a partial FinanceLog.
type FinancePatch struct {
	Date             *string            `json:"date,omitempty"`
	TotalAssets      *float64           `json:"totalAssets,omitempty"`
	TotalLiabilities *float64           `json:"totalLiabilities,omitempty"`
	NetWorth         *float64           `json:"netWorth,omitempty"`
	CategorySpending map[string]float64 `json:"categorySpending,omitempty"`
	Notes            *string            `json:"notes,omitempty"`
}

func (*FinancePatch) Domain() Domain { return DomainFinance }
func (p *FinancePatch) DateValue() string { return strOrEmpty(p.Date) }
func (p *FinancePatch) Validate() ValidationResult { return ValidateFinanceLog(*p) }

func (p *FinancePatch) Build() Entry {
	e := &FinanceLog{}
	p.apply(e)
	return e
}

// apply recomputes net worth when balances change and no explicit net worth
// is given.
func (p *FinancePatch) apply(e Entry) {
	l := e.(*FinanceLog)
	set(&l.Date, p.Date)
	set(&l.TotalAssets, p.TotalAssets)
	set(&l.TotalLiabilities, p.TotalLiabilities)
	if p.NetWorth != nil {
		l.NetWorth = *p.NetWorth
	} else if p.TotalAssets != nil || p.TotalLiabilities != nil {
		l.NetWorth = NetWorth(l.TotalAssets, l.TotalLiabilities)
	}
	if p.CategorySpending != nil {
		l.CategorySpending = p.CategorySpending
	}
	set(&l.Notes, p.Notes)
}

func (l *FinanceLog) patch() Patch {
	return &FinancePatch{
		Date:             &l.Date,
		TotalAssets:      &l.TotalAssets,
		TotalLiabilities: &l.TotalLiabilities,
		NetWorth:         &l.NetWorth,
		CategorySpending: l.CategorySpending,
		Notes:            &l.Notes,
	}
}

// NetWorth subtracts liabilities from assets in decimal arithmetic so that
// currency amounts like 0.1 + 0.2 do not pick up binary rounding noise.
func NetWorth(assets, liabilities float64) float64 {
	return decimal.NewFromFloat(assets).Sub(decimal.NewFromFloat(liabilities)).InexactFloat64()
}

// HealthPatch is a partial HealthLog.
type HealthPatch struct {
	Date          *string      `json:"date,omitempty"`
	RestingHR     *float64     `json:"restingHR,omitempty"`
	HRV           *float64     `json:"hrv,omitempty"`
	SleepDuration *float64     `json:"sleepDuration,omitempty"`
	SleepStages   *SleepStages `json:"sleepStages,omitempty"`
	ActiveMinutes *float64     `json:"activeMinutes,omitempty"`
	Steps         *float64     `json:"steps,omitempty"`
	Notes         *string      `json:"notes,omitempty"`
}

func (*HealthPatch) Domain() Domain { return DomainHealth }
func (p *HealthPatch) DateValue() string { return strOrEmpty(p.Date) }
func (p *HealthPatch) Validate() ValidationResult { return ValidateHealthLog(*p) }

func (p *HealthPatch) Build() Entry {
	e := &HealthLog{}
	p.apply(e)
	return e
}

func (p *HealthPatch) apply(e Entry) {
	l := e.(*HealthLog)
	set(&l.Date, p.Date)
	set(&l.RestingHR, p.RestingHR)
	set(&l.HRV, p.HRV)
	set(&l.SleepDuration, p.SleepDuration)
	set(&l.SleepStages, p.SleepStages)
	set(&l.ActiveMinutes, p.ActiveMinutes)
	if p.Steps != nil {
		l.Steps = Ptr(*p.Steps)
	}
	set(&l.Notes, p.Notes)
}

func (l *HealthLog) patch() Patch {
	return &HealthPatch{
		Date:          &l.Date,
		RestingHR:     &l.RestingHR,
		HRV:           &l.HRV,
		SleepDuration: &l.SleepDuration,
		SleepStages:   &l.SleepStages,
		ActiveMinutes: &l.ActiveMinutes,
		Steps:         l.Steps,
		Notes:         &l.Notes,
	}
}

// MetabolicPatch is a partial MetabolicLog.
type MetabolicPatch struct {
	Date               *string     `json:"date,omitempty"`
	GutMicrobiomeScore *float64    `json:"gutMicrobiomeScore,omitempty"`
	DailyFoodScore     *float64    `json:"dailyFoodScore,omitempty"`
	FiberIntake        *float64    `json:"fiberIntake,omitempty"`
	GlucoseResponse    *float64    `json:"glucoseResponse,omitempty"`
	FatResponse        *float64    `json:"fatResponse,omitempty"`
	Meals              []MealEntry `json:"meals,omitempty"`
	Notes              *string     `json:"notes,omitempty"`
}

func (*MetabolicPatch) Domain() Domain { return DomainMetabolic }
func (p *MetabolicPatch) DateValue() string { return strOrEmpty(p.Date) }
func (p *MetabolicPatch) Validate() ValidationResult { return ValidateMetabolicLog(*p) }

func (p *MetabolicPatch) Build() Entry {
	e := &MetabolicLog{}
	p.apply(e)
	return e
}

func (p *MetabolicPatch) apply(e Entry) {
	l := e.(*MetabolicLog)
	set(&l.Date, p.Date)
	set(&l.GutMicrobiomeScore, p.GutMicrobiomeScore)
	set(&l.DailyFoodScore, p.DailyFoodScore)
	set(&l.FiberIntake, p.FiberIntake)
	if p.GlucoseResponse != nil {
		l.GlucoseResponse = Ptr(*p.GlucoseResponse)
	}
	if p.FatResponse != nil {
		l.FatResponse = Ptr(*p.FatResponse)
	}
	if p.Meals != nil {
		l.Meals = p.Meals
	}
	set(&l.Notes, p.Notes)
}

func (l *MetabolicLog) patch() Patch {
	return &MetabolicPatch{
		Date:               &l.Date,
		GutMicrobiomeScore: &l.GutMicrobiomeScore,
		DailyFoodScore:     &l.DailyFoodScore,
		FiberIntake:        &l.FiberIntake,
		GlucoseResponse:    l.GlucoseResponse,
		FatResponse:        l.FatResponse,
		Meals:              l.Meals,
		Notes:              &l.Notes,
	}
}

// DigitalPatch is a partial DigitalLog.
type DigitalPatch struct {
	Date            *string    `json:"date,omitempty"`
	TotalScreenTime *float64   `json:"totalScreenTime,omitempty"`
	Unlocks         *float64   `json:"unlocks,omitempty"`
	TopApps         []AppUsage `json:"topApps,omitempty"`
	Notes           *string    `json:"notes,omitempty"`
}

func (*DigitalPatch) Domain() Domain { return DomainDigital }
func (p *DigitalPatch) DateValue() string { return strOrEmpty(p.Date) }
func (p *DigitalPatch) Validate() ValidationResult { return ValidateDigitalLog(*p) }

func (p *DigitalPatch) Build() Entry {
	e := &DigitalLog{}
	p.apply(e)
	return e
}

func (p *DigitalPatch) apply(e Entry) {
	l := e.(*DigitalLog)
	set(&l.Date, p.Date)
	set(&l.TotalScreenTime, p.TotalScreenTime)
	set(&l.Unlocks, p.Unlocks)
	if p.TopApps != nil {
		l.TopApps = p.TopApps
	}
	set(&l.Notes, p.Notes)
}

func (l *DigitalLog) patch() Patch {
	return &DigitalPatch{
		Date:            &l.Date,
		TotalScreenTime: &l.TotalScreenTime,
		Unlocks:         &l.Unlocks,
		TopApps:         l.TopApps,
		Notes:           &l.Notes,
	}
}

// MindfulnessPatch is a partial MindfulnessLog.
type MindfulnessPatch struct {
	Date           *string  `json:"date,omitempty"`
	MeditationType *string  `json:"meditationType,omitempty"`
	Duration       *float64 `json:"duration,omitempty"`
	QualityRating  *float64 `json:"qualityRating,omitempty"`
	StreakCount    *float64 `json:"streakCount,omitempty"`
	Notes          *string  `json:"notes,omitempty"`
}

func (*MindfulnessPatch) Domain() Domain { return DomainMindfulness }
func (p *MindfulnessPatch) DateValue() string { return strOrEmpty(p.Date) }
func (p *MindfulnessPatch) Validate() ValidationResult { return ValidateMindfulnessLog(*p) }

func (p *MindfulnessPatch) Build() Entry {
	e := &MindfulnessLog{}
	p.apply(e)
	return e
}

func (p *MindfulnessPatch) apply(e Entry) {
	l := e.(*MindfulnessLog)
	set(&l.Date, p.Date)
	set(&l.MeditationType, p.MeditationType)
	set(&l.Duration, p.Duration)
	set(&l.QualityRating, p.QualityRating)
	set(&l.StreakCount, p.StreakCount)
	set(&l.Notes, p.Notes)
}

func (l *MindfulnessLog) patch() Patch {
	return &MindfulnessPatch{
		Date:           &l.Date,
		MeditationType: &l.MeditationType,
		Duration:       &l.Duration,
		QualityRating:  &l.QualityRating,
		StreakCount:    &l.StreakCount,
		Notes:          &l.Notes,
	}
}

// ReadingPatch is a partial ReadingLog.
type ReadingPatch struct {
	Date            *string  `json:"date,omitempty"`
	BookTitle       *string  `json:"bookTitle,omitempty"`
	PagesRead       *float64 `json:"pagesRead,omitempty"`
	HighlightsCount *float64 `json:"highlightsCount,omitempty"`
	CurrentPage     *float64 `json:"currentPage,omitempty"`
	TotalPages      *float64 `json:"totalPages,omitempty"`
	Notes           *string  `json:"notes,omitempty"`
}

func (*ReadingPatch) Domain() Domain { return DomainReading }
func (p *ReadingPatch) DateValue() string { return strOrEmpty(p.Date) }
func (p *ReadingPatch) Validate() ValidationResult { return ValidateReadingLog(*p) }

func (p *ReadingPatch) Build() Entry {
	e := &ReadingLog{}
	p.apply(e)
	return e
}

func (p *ReadingPatch) apply(e Entry) {
	l := e.(*ReadingLog)
	set(&l.Date, p.Date)
	set(&l.BookTitle, p.BookTitle)
	set(&l.PagesRead, p.PagesRead)
	set(&l.HighlightsCount, p.HighlightsCount)
	if p.CurrentPage != nil {
		l.CurrentPage = Ptr(*p.CurrentPage)
	}
	if p.TotalPages != nil {
		l.TotalPages = Ptr(*p.TotalPages)
	}
	set(&l.Notes, p.Notes)
}

func (l *ReadingLog) patch() Patch {
	return &ReadingPatch{
		Date:            &l.Date,
		BookTitle:       &l.BookTitle,
		PagesRead:       &l.PagesRead,
		HighlightsCount: &l.HighlightsCount,
		CurrentPage:     l.CurrentPage,
		TotalPages:      l.TotalPages,
		Notes:           &l.Notes,
	}
}
