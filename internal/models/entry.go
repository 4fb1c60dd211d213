package models

import (
	"fmt"

	"github.com/dmitrijs2005/lifevault/internal/common"
)

// Base holds the fields shared by every entry. Dates are YYYY-MM-DD,
// timestamps are Unix milliseconds.
type Base struct {
	ID        string `json:"id"`
	Date      string `json:"date"`
	CreatedAt int64  `json:"createdAt"`
	UpdatedAt int64  `json:"updatedAt"`
}

// Meta gives access to the shared fields of any entry.
func (b *Base) Meta() *Base { return b }

// Entry is a decrypted log record of one of the seven domains.
// Concrete values are pointers to the *Log types of this package.
type Entry interface {
	Domain() Domain
	Meta() *Base
	patch() Patch
}

// ProductivityLog tracks planned work against what got done.
type ProductivityLog struct {
	Base
	TasksPlanned   float64 `json:"tasksPlanned"`
	TasksCompleted float64 `json:"tasksCompleted"`
	FocusRating    float64 `json:"focusRating"` // 1-5
	DeepWorkHours  float64 `json:"deepWorkHours"`
	Notes          string  `json:"notes,omitempty"`
}

func (*ProductivityLog) Domain() Domain { return DomainProductivity }

// FinanceLog is a point-in-time balance snapshot.
type FinanceLog struct {
	Base
	TotalAssets      float64            `json:"totalAssets"`
	TotalLiabilities float64            `json:"totalLiabilities"`
	NetWorth         float64            `json:"netWorth"`
	CategorySpending map[string]float64 `json:"categorySpending,omitempty"`
	Notes            string             `json:"notes,omitempty"`
}

func (*FinanceLog) Domain() Domain { return DomainFinance }

// SleepStages splits a night into hours per stage.
type SleepStages struct {
	REM   float64 `json:"rem"`
	Deep  float64 `json:"deep"`
	Core  float64 `json:"core"`
	Awake float64 `json:"awake"`
}

// HealthLog holds vitals and sleep.
type HealthLog struct {
	Base
	RestingHR     float64     `json:"restingHR"`
	HRV           float64     `json:"hrv"`
	SleepDuration float64     `json:"sleepDuration"` // hours
	SleepStages   SleepStages `json:"sleepStages"`
	ActiveMinutes float64     `json:"activeMinutes"`
	Steps         *float64    `json:"steps,omitempty"`
	Notes         string      `json:"notes,omitempty"`
}

func (*HealthLog) Domain() Domain { return DomainHealth }

// MealEntry is one scored meal; Time is HH:MM.
type MealEntry struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
	Time  string  `json:"time"`
}

// MetabolicLog holds nutrition scores.
type MetabolicLog struct {
	Base
	GutMicrobiomeScore float64     `json:"gutMicrobiomeScore"`
	DailyFoodScore     float64     `json:"dailyFoodScore"`
	FiberIntake        float64     `json:"fiberIntake"` // grams
	GlucoseResponse    *float64    `json:"glucoseResponse,omitempty"`
	FatResponse        *float64    `json:"fatResponse,omitempty"`
	Meals              []MealEntry `json:"meals,omitempty"`
	Notes              string      `json:"notes,omitempty"`
}

func (*MetabolicLog) Domain() Domain { return DomainMetabolic }

// AppUsage is screen time spent in a single app.
type AppUsage struct {
	Name    string  `json:"name"`
	Minutes float64 `json:"minutes"`
}

// DigitalLog tracks phone usage.
type DigitalLog struct {
	Base
	TotalScreenTime float64    `json:"totalScreenTime"` // minutes
	Unlocks         float64    `json:"unlocks"`
	TopApps         []AppUsage `json:"topApps,omitempty"`
	Notes           string     `json:"notes,omitempty"`
}

func (*DigitalLog) Domain() Domain { return DomainDigital }

// MindfulnessLog is a meditation session.
type MindfulnessLog struct {
	Base
	MeditationType string  `json:"meditationType"`
	Duration       float64 `json:"duration"`      // minutes
	QualityRating  float64 `json:"qualityRating"` // 1-5
	StreakCount    float64 `json:"streakCount"`
	Notes          string  `json:"notes,omitempty"`
}

func (*MindfulnessLog) Domain() Domain { return DomainMindfulness }

// ReadingLog is a reading session for one book.
type ReadingLog struct {
	Base
	BookTitle       string   `json:"bookTitle"`
	PagesRead       float64  `json:"pagesRead"`
	HighlightsCount float64  `json:"highlightsCount"`
	CurrentPage     *float64 `json:"currentPage,omitempty"`
	TotalPages      *float64 `json:"totalPages,omitempty"`
	Notes           string   `json:"notes,omitempty"`
}

func (*ReadingLog) Domain() Domain { return DomainReading }

// NewEntry returns an empty entry of domain d, suitable as a decode target.
func NewEntry(d Domain) (Entry, error) {
	switch d {
	case DomainProductivity:
		return &ProductivityLog{}, nil
	case DomainFinance:
		return &FinanceLog{}, nil
	case DomainHealth:
		return &HealthLog{}, nil
	case DomainMetabolic:
		return &MetabolicLog{}, nil
	case DomainDigital:
		return &DigitalLog{}, nil
	case DomainMindfulness:
		return &MindfulnessLog{}, nil
	case DomainReading:
		return &ReadingLog{}, nil
	}
	return nil, fmt.Errorf("%w: %q", common.ErrUnknownDomain, d)
}

// Validate runs the domain validator over a complete entry.
func Validate(e Entry) ValidationResult {
	return e.patch().Validate()
}

// Ptr returns a pointer to v. Handy for building patches.
func Ptr[T any](v T) *T { return &v }
