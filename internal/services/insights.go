package services

import (
	"context"
	"math"
	"sync"

	"github.com/dmitrijs2005/lifevault/internal/aggregation"
	"github.com/dmitrijs2005/lifevault/internal/logging"
	"github.com/dmitrijs2005/lifevault/internal/models"
	"github.com/dmitrijs2005/lifevault/internal/trends"
	"golang.org/x/sync/errgroup"
)

// Metric names used in insight output.
const (
	MetricFocusRating        = "Focus Rating"
	MetricDeepWorkHours      = "Deep Work Hours"
	MetricSleepDuration      = "Sleep Duration"
	MetricRestingHR          = "Resting HR"
	MetricMeditation         = "Meditation"
	MetricMeditationDuration = "Meditation Duration"
	MetricReading            = "Reading"
	MetricPagesRead          = "Pages Read"
)

// EntryLoader loads every decrypted entry of a domain.
type EntryLoader interface {
	GetAllEntries(ctx context.Context, d models.Domain) ([]models.Entry, error)
}

// Insights is the result of one refresh: summaries per domain and the
// patterns found in the key metric series.
type Insights struct {
	Daily   map[models.Domain][]aggregation.DailySummary   `json:"daily"`
	Weekly  map[models.Domain][]aggregation.WeeklySummary  `json:"weekly"`
	Monthly map[models.Domain][]aggregation.MonthlySummary `json:"monthly"`

	Anomalies          []trends.Anomaly           `json:"anomalies"`
	SignificantChanges []trends.SignificantChange `json:"significantChanges"`
	Correlations       []trends.CorrelationHint   `json:"correlations"`
	PersonalBests      []trends.PersonalBest      `json:"personalBests"`
	Streaks            []trends.Streak            `json:"streaks"`
}

// WeekComparison holds the metrics of the last two weekly summaries.
type WeekComparison struct {
	ThisWeek aggregation.Metrics `json:"thisWeek"`
	LastWeek aggregation.Metrics `json:"lastWeek"`
}

// InsightService loads all entries and computes Insights.
type InsightService struct {
	entries EntryLoader
	logger  logging.Logger
}

func NewInsightService(entries EntryLoader, logger logging.Logger) *InsightService {
	if logger == nil {
		logger = logging.Discard()
	}
	return &InsightService{entries: entries, logger: logger}
}

// Refresh loads every domain and analyzes it. It fails if any domain
// cannot be loaded, including when the vault is locked.
func (s *InsightService) Refresh(ctx context.Context) (*Insights, error) {
	all, err := s.loadAll(ctx)
	if err != nil {
		s.logger.Error(ctx, "insight refresh failed", "error", err)
		return nil, err
	}
	ins := Analyze(all)
	s.logger.Debug(ctx, "insights refreshed",
		"anomalies", len(ins.Anomalies), "streaks", len(ins.Streaks), "correlations", len(ins.Correlations))
	return ins, nil
}

func (s *InsightService) loadAll(ctx context.Context) (map[models.Domain][]models.Entry, error) {
	var mu sync.Mutex
	all := make(map[models.Domain][]models.Entry, len(models.Domains))

	g, ctx := errgroup.WithContext(ctx)
	for _, d := range models.Domains {
		g.Go(func() error {
			entries, err := s.entries.GetAllEntries(ctx, d)
			if err != nil {
				return err
			}
			mu.Lock()
			all[d] = entries
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return all, nil
}

// Analyze computes summaries for every domain and runs the trend analyses
// over the tracked series. Entries of each domain must be ordered by date.
func Analyze(all map[models.Domain][]models.Entry) *Insights {
	ins := &Insights{
		Daily:              make(map[models.Domain][]aggregation.DailySummary, len(models.Domains)),
		Weekly:             make(map[models.Domain][]aggregation.WeeklySummary, len(models.Domains)),
		Monthly:            make(map[models.Domain][]aggregation.MonthlySummary, len(models.Domains)),
		Anomalies:          []trends.Anomaly{},
		SignificantChanges: []trends.SignificantChange{},
		Correlations:       []trends.CorrelationHint{},
		PersonalBests:      []trends.PersonalBest{},
		Streaks:            []trends.Streak{},
	}
	for _, d := range models.Domains {
		ins.Daily[d] = aggregation.ComputeDailySummaries(d, all[d])
		ins.Weekly[d] = aggregation.ComputeWeeklySummaries(d, all[d])
		ins.Monthly[d] = aggregation.ComputeMonthlySummaries(d, all[d])
	}

	prod := typed[models.ProductivityLog](all[models.DomainProductivity])
	if len(prod) > 0 {
		dates := datesOf(prod)
		focus := valuesOf(prod, func(l *models.ProductivityLog) float64 { return l.FocusRating })
		deep := valuesOf(prod, func(l *models.ProductivityLog) float64 { return l.DeepWorkHours })

		ins.anomalies(dates, focus, MetricFocusRating)
		ins.anomalies(dates, deep, MetricDeepWorkHours)
		ins.changes(focus, MetricFocusRating)
		ins.Streaks = append(ins.Streaks, trends.DetectStreaks(dates, focus, MetricFocusRating, 3)...)
		ins.best(dates, deep, MetricDeepWorkHours)
	}

	health := typed[models.HealthLog](all[models.DomainHealth])
	if len(health) > 0 {
		dates := datesOf(health)
		sleep := valuesOf(health, func(l *models.HealthLog) float64 { return l.SleepDuration })
		hr := valuesOf(health, func(l *models.HealthLog) float64 { return l.RestingHR })

		ins.anomalies(dates, sleep, MetricSleepDuration)
		ins.anomalies(dates, hr, MetricRestingHR)
		ins.changes(sleep, MetricSleepDuration)
		ins.Streaks = append(ins.Streaks, trends.DetectStreaks(dates, sleep, MetricSleepDuration, 7)...)
		ins.best(dates, sleep, MetricSleepDuration)
	}

	mind := typed[models.MindfulnessLog](all[models.DomainMindfulness])
	if len(mind) > 0 {
		dates := datesOf(mind)
		dur := valuesOf(mind, func(l *models.MindfulnessLog) float64 { return l.Duration })
		ins.Streaks = append(ins.Streaks, trends.DetectStreaks(dates, dur, MetricMeditation, 1)...)
		ins.best(dates, dur, MetricMeditationDuration)
	}

	reading := typed[models.ReadingLog](all[models.DomainReading])
	if len(reading) > 0 {
		dates := datesOf(reading)
		pages := valuesOf(reading, func(l *models.ReadingLog) float64 { return l.PagesRead })
		ins.Streaks = append(ins.Streaks, trends.DetectStreaks(dates, pages, MetricReading, 1)...)
		ins.best(dates, pages, MetricPagesRead)
	}

	if len(prod) > 0 && len(mind) > 0 {
		ins.meditationFocus(prod, mind)
	}
	return ins
}

func (ins *Insights) anomalies(dates []string, values []float64, metric string) {
	ins.Anomalies = append(ins.Anomalies, trends.DetectAnomalies(dates, values, metric, trends.DefaultAnomalyThreshold)...)
}

func (ins *Insights) changes(values []float64, metric string) {
	ins.SignificantChanges = append(ins.SignificantChanges, trends.DetectSignificantChanges(values, metric, trends.DefaultChangeThreshold)...)
}

func (ins *Insights) best(dates []string, values []float64, metric string) {
	if b := trends.FindPersonalBest(dates, values, metric, trends.BestMax); b != nil {
		ins.PersonalBests = append(ins.PersonalBests, *b)
	}
}

// meditationFocus correlates meditation duration with focus rating over the
// dates present in both domains. The last entry of a date wins.
func (ins *Insights) meditationFocus(prod []*models.ProductivityLog, mind []*models.MindfulnessLog) {
	focusByDate := make(map[string]float64, len(prod))
	var order []string
	for _, p := range prod {
		if _, ok := focusByDate[p.Date]; !ok {
			order = append(order, p.Date)
		}
		focusByDate[p.Date] = p.FocusRating
	}
	durByDate := make(map[string]float64, len(mind))
	for _, m := range mind {
		durByDate[m.Date] = m.Duration
	}

	var focus, dur []float64
	for _, date := range order {
		if d, ok := durByDate[date]; ok {
			focus = append(focus, focusByDate[date])
			dur = append(dur, d)
		}
	}
	if len(focus) < 3 {
		return
	}
	ins.Correlations = append(ins.Correlations, trends.DetectCorrelations([]trends.MetricPair{{
		NameA:   MetricMeditationDuration,
		ValuesA: dur,
		NameB:   MetricFocusRating,
		ValuesB: focus,
	}}, trends.DefaultCorrelationThreshold)...)
}

// WeekComparison returns the last two weekly summaries of d, or nil when
// fewer than two weeks have data.
func (ins *Insights) WeekComparison(d models.Domain) *WeekComparison {
	w := ins.Weekly[d]
	if len(w) < 2 {
		return nil
	}
	return &WeekComparison{ThisWeek: w[len(w)-1].Metrics, LastWeek: w[len(w)-2].Metrics}
}

func (ins *Insights) streaksFor(metric string) []trends.Streak {
	var out []trends.Streak
	for _, s := range ins.Streaks {
		if s.Metric == metric {
			out = append(out, s)
		}
	}
	return out
}

// LongestStreak returns the longest streak of metric, or nil.
func (ins *Insights) LongestStreak(metric string) *trends.Streak {
	return trends.FindLongestStreak(ins.streaksFor(metric))
}

// CurrentStreak returns the ongoing streak of metric, or nil.
func (ins *Insights) CurrentStreak(metric string) *trends.Streak {
	return trends.FindCurrentStreak(ins.streaksFor(metric))
}

// GoalsWithProgress measures each goal against the latest daily summary of
// its domain. Percentage is capped at 100 and is 0 for a zero target.
func (ins *Insights) GoalsWithProgress(goals []Goal) []GoalWithProgress {
	out := make([]GoalWithProgress, 0, len(goals))
	for _, g := range goals {
		var current float64
		if daily := ins.Daily[g.Domain]; len(daily) > 0 {
			current = daily[len(daily)-1].Metrics[g.Metric]
		}
		var pct float64
		if g.Target != 0 {
			pct = math.Min(100, current/g.Target*100)
		}
		out = append(out, GoalWithProgress{Goal: g, Current: current, Percentage: pct})
	}
	return out
}

func typed[T any](entries []models.Entry) []*T {
	out := make([]*T, 0, len(entries))
	for _, e := range entries {
		if t, ok := any(e).(*T); ok {
			out = append(out, t)
		}
	}
	return out
}

func datesOf[E interface{ Meta() *models.Base }](items []E) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Meta().Date
	}
	return out
}

func valuesOf[T any](items []*T, f func(*T) float64) []float64 {
	out := make([]float64, len(items))
	for i, it := range items {
		out[i] = f(it)
	}
	return out
}
