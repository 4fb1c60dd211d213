package aggregation

import (
	"slices"
	"time"

	"github.com/dmitrijs2005/lifevault/internal/models"
)

const dateLayout = "2006-01-02"

// Group is a set of entries sharing a key (a date, a week start or a month).
// Entries keep their input order.
type Group struct {
	Key     string
	Entries []models.Entry
}

// ISOWeekStart returns the Monday on or before date. Unparseable dates are
// returned unchanged.
func ISOWeekStart(date string) string {
	t, err := time.Parse(dateLayout, date)
	if err != nil {
		return date
	}
	offset := (int(t.Weekday()) + 6) % 7
	return t.AddDate(0, 0, -offset).Format(dateLayout)
}

// AddDays shifts a YYYY-MM-DD date by n days.
func AddDays(date string, n int) string {
	t, err := time.Parse(dateLayout, date)
	if err != nil {
		return date
	}
	return t.AddDate(0, 0, n).Format(dateLayout)
}

// Month returns the YYYY-MM prefix of date.
func Month(date string) string {
	if len(date) < 7 {
		return date
	}
	return date[:7]
}

func groupBy(entries []models.Entry, key func(string) string) []Group {
	idx := map[string]int{}
	var groups []Group
	for _, e := range entries {
		k := key(e.Meta().Date)
		i, ok := idx[k]
		if !ok {
			i = len(groups)
			idx[k] = i
			groups = append(groups, Group{Key: k})
		}
		groups[i].Entries = append(groups[i].Entries, e)
	}
	slices.SortStableFunc(groups, func(a, b Group) int {
		switch {
		case a.Key < b.Key:
			return -1
		case a.Key > b.Key:
			return 1
		}
		return 0
	})
	return groups
}

// GroupByDate groups entries by exact date, sorted by date.
func GroupByDate(entries []models.Entry) []Group {
	return groupBy(entries, func(d string) string { return d })
}

// GroupByWeek groups entries by ISO week start, sorted.
func GroupByWeek(entries []models.Entry) []Group {
	return groupBy(entries, ISOWeekStart)
}

// GroupByMonth groups entries by calendar month, sorted.
func GroupByMonth(entries []models.Entry) []Group {
	return groupBy(entries, Month)
}
