package trends

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func days(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("2024-01-%02d", i+1)
	}
	return out
}

func TestMovingAverage(t *testing.T) {
	assert.Equal(t, []float64{}, MovingAverage(nil, 7))
	assert.Equal(t, []float64{1, 1.5, 2, 3}, MovingAverage([]float64{1, 2, 3, 4}, 3))
	assert.Len(t, MovingAverage7(make([]float64, 10)), 10)
	assert.Equal(t, []float64{2, 3}, MovingAverage30([]float64{2, 4}))
}

func TestStandardDeviation(t *testing.T) {
	assert.Zero(t, StandardDeviation(nil))
	assert.Zero(t, StandardDeviation([]float64{5}))
	assert.Zero(t, StandardDeviation([]float64{3, 3, 3}))
	assert.Equal(t, 2.0, StandardDeviation([]float64{2, 4, 4, 4, 5, 5, 7, 9}))
}

func TestDetectAnomalies_HighOutlier(t *testing.T) {
	values := []float64{5, 5, 5, 5, 5, 5, 5, 5, 5, 20}
	got := DetectAnomalies(days(10), values, "Focus", DefaultAnomalyThreshold)

	require.Len(t, got, 1)
	assert.Equal(t, "2024-01-10", got[0].Date)
	assert.Equal(t, High, got[0].Direction)
	assert.Equal(t, 20.0, got[0].Value)
	assert.Equal(t, 6.5, got[0].Mean)
	assert.Equal(t, 4.5, got[0].StdDev)
}

func TestDetectAnomalies_LowOutlierAndGuards(t *testing.T) {
	values := []float64{10, 10, 10, 10, 10, 10, 10, 10, 10, 1}
	got := DetectAnomalies(days(10), values, "Sleep", 2)
	require.Len(t, got, 1)
	assert.Equal(t, Low, got[0].Direction)

	assert.Empty(t, DetectAnomalies(days(2), []float64{1, 100}, "x", 2), "needs three points")
	assert.Empty(t, DetectAnomalies(days(4), []float64{3, 3, 3, 3}, "x", 2), "needs spread")
}

func TestDetectStreaks(t *testing.T) {
	d := []string{"d1", "d2", "d3", "d4", "d5"}
	got := DetectStreaks(d, []float64{3, 4, 5, 2, 4}, "Focus", 3)

	require.Len(t, got, 2)
	assert.Equal(t, Streak{Metric: "Focus", Count: 3, StartDate: "d1", EndDate: "d3", Active: false}, got[0])
	assert.Equal(t, Streak{Metric: "Focus", Count: 1, StartDate: "d5", EndDate: "d5", Active: true}, got[1])

	assert.Empty(t, DetectStreaks(nil, nil, "x", 1))
	assert.Empty(t, DetectStreaks(d, []float64{0, 0, 0, 0, 0}, "x", 1))
}

func TestDetectSignificantChanges(t *testing.T) {
	var values []float64
	for i := 0; i < 7; i++ {
		values = append(values, 4)
	}
	for i := 0; i < 7; i++ {
		values = append(values, 5)
	}
	got := DetectSignificantChanges(values, "Focus", DefaultChangeThreshold)
	require.Len(t, got, 1)
	assert.Equal(t, Up, got[0].Direction)
	assert.Equal(t, 25.0, got[0].DeltaPercent)
	assert.Equal(t, 5.0, got[0].CurrentWeekAvg)
	assert.Equal(t, 4.0, got[0].PreviousWeekAvg)

	assert.Empty(t, DetectSignificantChanges(values[:13], "Focus", 15), "needs 14 points")
	assert.Empty(t, DetectSignificantChanges(make([]float64, 14), "zero", 15))

	small := append(append([]float64{}, values[:7]...), 4.4, 4.4, 4.4, 4.4, 4.4, 4.4, 4.4)
	assert.Empty(t, DetectSignificantChanges(small, "Focus", 15), "10% is below threshold")

	down := append(append([]float64{}, values[7:]...), values[:7]...)
	got = DetectSignificantChanges(down, "Focus", 15)
	require.Len(t, got, 1)
	assert.Equal(t, Down, got[0].Direction)
}

func TestPearsonCorrelation(t *testing.T) {
	assert.InDelta(t, 1.0, PearsonCorrelation([]float64{1, 2, 3, 4}, []float64{2, 4, 6, 8}), 1e-12)
	assert.InDelta(t, -1.0, PearsonCorrelation([]float64{1, 2, 3}, []float64{3, 2, 1}), 1e-12)
	assert.Zero(t, PearsonCorrelation([]float64{1, 2}, []float64{1, 2}))
	assert.Zero(t, PearsonCorrelation([]float64{1, 1, 1}, []float64{1, 2, 3}))
	// only the overlapping prefix counts
	assert.InDelta(t, 1.0, PearsonCorrelation([]float64{1, 2, 3, 100}, []float64{1, 2, 3}), 1e-12)
}

func TestDetectCorrelations(t *testing.T) {
	pairs := []MetricPair{
		{NameA: "Meditation Duration", ValuesA: []float64{10, 20, 30}, NameB: "Focus Rating", ValuesB: []float64{2, 3, 4}},
		{NameA: "A", ValuesA: []float64{1, 2, 3}, NameB: "B", ValuesB: []float64{3, 2, 1}},
		{NameA: "C", ValuesA: []float64{1, 2, 3, 4}, NameB: "D", ValuesB: []float64{1, -1, -1, 1}},
	}
	got := DetectCorrelations(pairs, DefaultCorrelationThreshold)
	require.Len(t, got, 2)
	assert.Equal(t, "Meditation Duration is positively correlated with Focus Rating", got[0].Description)
	assert.Equal(t, "A is negatively correlated with B", got[1].Description)
}

func TestFindPersonalBest(t *testing.T) {
	d := []string{"a", "b", "c", "d"}
	v := []float64{3, 7, 7, 1}

	best := FindPersonalBest(d, v, "Pages", BestMax)
	require.NotNil(t, best)
	assert.Equal(t, PersonalBest{Metric: "Pages", Value: 7, Date: "b", Type: BestMax}, *best)

	low := FindPersonalBest(d, v, "HR", BestMin)
	require.NotNil(t, low)
	assert.Equal(t, "d", low.Date)

	assert.Nil(t, FindPersonalBest(nil, nil, "x", BestMax))
}

func TestFindLongestAndCurrentStreak(t *testing.T) {
	assert.Nil(t, FindLongestStreak(nil))
	assert.Nil(t, FindCurrentStreak(nil))

	s := []Streak{
		{Metric: "m", Count: 2, StartDate: "a"},
		{Metric: "m", Count: 5, StartDate: "b"},
		{Metric: "m", Count: 5, StartDate: "c"},
		{Metric: "m", Count: 1, StartDate: "d", Active: true},
	}
	assert.Equal(t, "b", FindLongestStreak(s).StartDate)
	assert.Equal(t, "d", FindCurrentStreak(s).StartDate)
	assert.Nil(t, FindCurrentStreak(s[:3]))
}
