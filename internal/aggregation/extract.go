package aggregation

import (
	"github.com/dmitrijs2005/lifevault/internal/models"
)

// Metrics maps a metric name to its aggregated value.
type Metrics map[string]float64

// MetricNames lists the metrics produced for d, in display order.
func MetricNames(d models.Domain) []string {
	switch d {
	case models.DomainProductivity:
		return []string{"tasksPlanned", "tasksCompleted", "focusRating", "deepWorkHours"}
	case models.DomainFinance:
		return []string{"totalAssets", "totalLiabilities", "netWorth"}
	case models.DomainHealth:
		return []string{"restingHR", "hrv", "sleepDuration", "activeMinutes"}
	case models.DomainMetabolic:
		return []string{"gutMicrobiomeScore", "dailyFoodScore", "fiberIntake"}
	case models.DomainDigital:
		return []string{"totalScreenTime", "unlocks"}
	case models.DomainMindfulness:
		return []string{"duration", "qualityRating"}
	case models.DomainReading:
		return []string{"pagesRead", "highlightsCount"}
	}
	return nil
}

func pluck[T any](entries []models.Entry, f func(*T) float64) []float64 {
	out := make([]float64, 0, len(entries))
	for _, e := range entries {
		if v, ok := any(e).(*T); ok {
			out = append(out, f(v))
		}
	}
	return out
}

// ExtractMetrics aggregates entries of domain d. Count-like fields are
// summed, ratings and vitals averaged. Finance reports the last entry's
// balances as they are: balances are snapshots, not daily flows.
func ExtractMetrics(d models.Domain, entries []models.Entry) Metrics {
	switch d {
	case models.DomainProductivity:
		return Metrics{
			"tasksPlanned":   Sum(pluck(entries, func(e *models.ProductivityLog) float64 { return e.TasksPlanned })),
			"tasksCompleted": Sum(pluck(entries, func(e *models.ProductivityLog) float64 { return e.TasksCompleted })),
			"focusRating":    Average(pluck(entries, func(e *models.ProductivityLog) float64 { return e.FocusRating })),
			"deepWorkHours":  Sum(pluck(entries, func(e *models.ProductivityLog) float64 { return e.DeepWorkHours })),
		}
	case models.DomainFinance:
		m := Metrics{"totalAssets": 0, "totalLiabilities": 0, "netWorth": 0}
		for i := len(entries) - 1; i >= 0; i-- {
			if f, ok := entries[i].(*models.FinanceLog); ok {
				m["totalAssets"] = f.TotalAssets
				m["totalLiabilities"] = f.TotalLiabilities
				m["netWorth"] = f.NetWorth
				break
			}
		}
		return m
	case models.DomainHealth:
		return Metrics{
			"restingHR":     Average(pluck(entries, func(e *models.HealthLog) float64 { return e.RestingHR })),
			"hrv":           Average(pluck(entries, func(e *models.HealthLog) float64 { return e.HRV })),
			"sleepDuration": Average(pluck(entries, func(e *models.HealthLog) float64 { return e.SleepDuration })),
			"activeMinutes": Sum(pluck(entries, func(e *models.HealthLog) float64 { return e.ActiveMinutes })),
		}
	case models.DomainMetabolic:
		return Metrics{
			"gutMicrobiomeScore": Average(pluck(entries, func(e *models.MetabolicLog) float64 { return e.GutMicrobiomeScore })),
			"dailyFoodScore":     Average(pluck(entries, func(e *models.MetabolicLog) float64 { return e.DailyFoodScore })),
			"fiberIntake":        Average(pluck(entries, func(e *models.MetabolicLog) float64 { return e.FiberIntake })),
		}
	case models.DomainDigital:
		return Metrics{
			"totalScreenTime": Sum(pluck(entries, func(e *models.DigitalLog) float64 { return e.TotalScreenTime })),
			"unlocks":         Sum(pluck(entries, func(e *models.DigitalLog) float64 { return e.Unlocks })),
		}
	case models.DomainMindfulness:
		return Metrics{
			"duration":      Sum(pluck(entries, func(e *models.MindfulnessLog) float64 { return e.Duration })),
			"qualityRating": Average(pluck(entries, func(e *models.MindfulnessLog) float64 { return e.QualityRating })),
		}
	case models.DomainReading:
		return Metrics{
			"pagesRead":       Sum(pluck(entries, func(e *models.ReadingLog) float64 { return e.PagesRead })),
			"highlightsCount": Sum(pluck(entries, func(e *models.ReadingLog) float64 { return e.HighlightsCount })),
		}
	}
	return Metrics{}
}
