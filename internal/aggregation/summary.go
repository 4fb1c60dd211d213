package aggregation

import (
	"github.com/dmitrijs2005/lifevault/internal/models"
)

type DailySummary struct {
	Domain  models.Domain `json:"domain"`
	Date    string        `json:"date"`
	Metrics Metrics       `json:"metrics"`
}

type WeeklySummary struct {
	Domain    models.Domain `json:"domain"`
	WeekStart string        `json:"weekStart"`
	WeekEnd   string        `json:"weekEnd"`
	Metrics   Metrics       `json:"metrics"`
	Count     int           `json:"count"`
}

type MonthlySummary struct {
	Domain  models.Domain `json:"domain"`
	Month   string        `json:"month"`
	Metrics Metrics       `json:"metrics"`
	Count   int           `json:"count"`
	// DeltaFromPrevious is the percentage change of each metric against
	// the preceding month; empty for the first month.
	DeltaFromPrevious Metrics `json:"deltaFromPrevious"`
}

func ComputeDailySummaries(d models.Domain, entries []models.Entry) []DailySummary {
	groups := GroupByDate(entries)
	out := make([]DailySummary, 0, len(groups))
	for _, g := range groups {
		out = append(out, DailySummary{Domain: d, Date: g.Key, Metrics: ExtractMetrics(d, g.Entries)})
	}
	return out
}

func ComputeWeeklySummaries(d models.Domain, entries []models.Entry) []WeeklySummary {
	groups := GroupByWeek(entries)
	out := make([]WeeklySummary, 0, len(groups))
	for _, g := range groups {
		out = append(out, WeeklySummary{
			Domain:    d,
			WeekStart: g.Key,
			WeekEnd:   AddDays(g.Key, 6),
			Metrics:   ExtractMetrics(d, g.Entries),
			Count:     len(g.Entries),
		})
	}
	return out
}

func ComputeMonthlySummaries(d models.Domain, entries []models.Entry) []MonthlySummary {
	groups := GroupByMonth(entries)
	out := make([]MonthlySummary, 0, len(groups))

	var prev Metrics
	for _, g := range groups {
		m := ExtractMetrics(d, g.Entries)
		delta := Metrics{}
		if prev != nil {
			for k, v := range m {
				delta[k] = PercentageDelta(v, prev[k])
			}
		}
		out = append(out, MonthlySummary{
			Domain:            d,
			Month:             g.Key,
			Metrics:           m,
			Count:             len(g.Entries),
			DeltaFromPrevious: delta,
		})
		prev = m
	}
	return out
}
