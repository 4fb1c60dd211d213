// Package trends finds patterns in metric series: moving averages,
// anomalies, streaks, week-over-week changes, correlations and personal
// bests. Series are parallel dates/values slices ordered by date.
package trends

import (
	"fmt"
	"math"

	"github.com/dmitrijs2005/lifevault/internal/aggregation"
)

type Direction string

const (
	High Direction = "high"
	Low  Direction = "low"
	Up   Direction = "up"
	Down Direction = "down"
)

// Defaults used by the insight refresh.
const (
	DefaultAnomalyThreshold     = 2.0
	DefaultChangeThreshold      = 15.0
	DefaultCorrelationThreshold = 0.5
)

type Anomaly struct {
	Date      string    `json:"date"`
	Metric    string    `json:"metric"`
	Value     float64   `json:"value"`
	Mean      float64   `json:"mean"`
	StdDev    float64   `json:"stdDev"`
	Direction Direction `json:"direction"`
}

// Streak is a run of consecutive points at or above a threshold. Active
// marks the run that reaches the most recent point.
type Streak struct {
	Metric    string `json:"metric"`
	Count     int    `json:"count"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Active    bool   `json:"active"`
}

type SignificantChange struct {
	Metric          string    `json:"metric"`
	CurrentWeekAvg  float64   `json:"currentWeekAvg"`
	PreviousWeekAvg float64   `json:"previousWeekAvg"`
	DeltaPercent    float64   `json:"deltaPercent"`
	Direction       Direction `json:"direction"`
}

type CorrelationHint struct {
	MetricA     string  `json:"metricA"`
	MetricB     string  `json:"metricB"`
	Correlation float64 `json:"correlation"`
	Description string  `json:"description"`
}

// MetricPair is an input to DetectCorrelations; values are aligned by index.
type MetricPair struct {
	NameA   string
	ValuesA []float64
	NameB   string
	ValuesB []float64
}

type BestType string

const (
	BestMax BestType = "max"
	BestMin BestType = "min"
)

type PersonalBest struct {
	Metric string   `json:"metric"`
	Value  float64  `json:"value"`
	Date   string   `json:"date"`
	Type   BestType `json:"type"`
}

func dateAt(dates []string, i int) string {
	if i < 0 || i >= len(dates) {
		return ""
	}
	return dates[i]
}

// MovingAverage returns the trailing mean over window points; the first
// points average whatever precedes them.
func MovingAverage(values []float64, window int) []float64 {
	if len(values) == 0 {
		return []float64{}
	}
	if window < 1 {
		window = 1
	}
	out := make([]float64, len(values))
	for i := range values {
		start := max(0, i-window+1)
		out[i] = aggregation.Average(values[start : i+1])
	}
	return out
}

func MovingAverage7(values []float64) []float64  { return MovingAverage(values, 7) }
func MovingAverage30(values []float64) []float64 { return MovingAverage(values, 30) }

// StandardDeviation is the population standard deviation, 0 for fewer than
// two values.
func StandardDeviation(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	mean := aggregation.Average(values)
	var sq float64
	for _, v := range values {
		sq += (v - mean) * (v - mean)
	}
	return math.Sqrt(sq / float64(len(values)))
}

// DetectAnomalies flags points more than threshold standard deviations away
// from the mean. It needs at least three points and some spread.
func DetectAnomalies(dates []string, values []float64, metric string, threshold float64) []Anomaly {
	if len(values) < 3 {
		return nil
	}
	mean := aggregation.Average(values)
	sd := StandardDeviation(values)
	if sd == 0 {
		return nil
	}

	var out []Anomaly
	for i, v := range values {
		if math.Abs(v-mean)/sd <= threshold {
			continue
		}
		dir := Low
		if v > mean {
			dir = High
		}
		out = append(out, Anomaly{
			Date:      dateAt(dates, i),
			Metric:    metric,
			Value:     v,
			Mean:      mean,
			StdDev:    sd,
			Direction: dir,
		})
	}
	return out
}

// DetectStreaks returns every maximal run of values >= threshold.
func DetectStreaks(dates []string, values []float64, metric string, threshold float64) []Streak {
	var out []Streak
	start, count := 0, 0
	for i, v := range values {
		if v >= threshold {
			if count == 0 {
				start = i
			}
			count++
			continue
		}
		if count > 0 {
			out = append(out, Streak{
				Metric:    metric,
				Count:     count,
				StartDate: dateAt(dates, start),
				EndDate:   dateAt(dates, i-1),
			})
		}
		count = 0
	}
	if count > 0 {
		out = append(out, Streak{
			Metric:    metric,
			Count:     count,
			StartDate: dateAt(dates, start),
			EndDate:   dateAt(dates, len(values)-1),
			Active:    true,
		})
	}
	return out
}

// DetectSignificantChanges compares the mean of the last 7 points with the
// 7 before them and reports a change of at least threshold percent.
func DetectSignificantChanges(values []float64, metric string, threshold float64) []SignificantChange {
	if len(values) < 14 {
		return nil
	}
	cur := aggregation.Average(values[len(values)-7:])
	prev := aggregation.Average(values[len(values)-14 : len(values)-7])
	if cur == 0 && prev == 0 {
		return nil
	}

	delta := aggregation.PercentageDelta(cur, prev)
	if math.Abs(delta) < threshold {
		return nil
	}
	dir := Down
	if delta > 0 {
		dir = Up
	}
	return []SignificantChange{{
		Metric:          metric,
		CurrentWeekAvg:  cur,
		PreviousWeekAvg: prev,
		DeltaPercent:    delta,
		Direction:       dir,
	}}
}

// PearsonCorrelation computes r over the common prefix of xs and ys. It is 0
// for fewer than three points or when either series is constant.
func PearsonCorrelation(xs, ys []float64) float64 {
	n := min(len(xs), len(ys))
	if n < 3 {
		return 0
	}
	xs, ys = xs[:n], ys[:n]
	mx, my := aggregation.Average(xs), aggregation.Average(ys)

	var num, dx2, dy2 float64
	for i := 0; i < n; i++ {
		dx, dy := xs[i]-mx, ys[i]-my
		num += dx * dy
		dx2 += dx * dx
		dy2 += dy * dy
	}
	den := math.Sqrt(dx2 * dy2)
	if den == 0 {
		return 0
	}
	return num / den
}

// DetectCorrelations returns a hint for each pair with |r| >= threshold.
func DetectCorrelations(pairs []MetricPair, threshold float64) []CorrelationHint {
	var out []CorrelationHint
	for _, p := range pairs {
		r := PearsonCorrelation(p.ValuesA, p.ValuesB)
		if math.Abs(r) < threshold {
			continue
		}
		dir := "negatively"
		if r > 0 {
			dir = "positively"
		}
		out = append(out, CorrelationHint{
			MetricA:     p.NameA,
			MetricB:     p.NameB,
			Correlation: r,
			Description: fmt.Sprintf("%s is %s correlated with %s", p.NameA, dir, p.NameB),
		})
	}
	return out
}

// FindPersonalBest returns the highest (or lowest) value and its date; the
// earliest occurrence wins ties. It returns nil for an empty series.
func FindPersonalBest(dates []string, values []float64, metric string, typ BestType) *PersonalBest {
	if len(values) == 0 {
		return nil
	}
	best := 0
	for i := 1; i < len(values); i++ {
		if typ == BestMin {
			if values[i] < values[best] {
				best = i
			}
		} else if values[i] > values[best] {
			best = i
		}
	}
	if typ != BestMin {
		typ = BestMax
	}
	return &PersonalBest{Metric: metric, Value: values[best], Date: dateAt(dates, best), Type: typ}
}

// FindLongestStreak returns the streak with the highest count, the first
// one on ties, or nil.
func FindLongestStreak(streaks []Streak) *Streak {
	if len(streaks) == 0 {
		return nil
	}
	best := streaks[0]
	for _, s := range streaks[1:] {
		if s.Count > best.Count {
			best = s
		}
	}
	return &best
}

// FindCurrentStreak returns the last active streak or nil.
func FindCurrentStreak(streaks []Streak) *Streak {
	for i := len(streaks) - 1; i >= 0; i-- {
		if streaks[i].Active {
			s := streaks[i]
			return &s
		}
	}
	return nil
}
