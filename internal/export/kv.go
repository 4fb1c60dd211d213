package export

import (
	"strconv"

	"github.com/Rhymond/go-money"
	"github.com/dmitrijs2005/lifevault/internal/models"
	"github.com/shopspring/decimal"
)

// kv is one labeled value of an exported entry.
type kv struct {
	Key   string
	Value any
}

// entryKV lists the exported fields of e in display order.
func entryKV(e models.Entry) []kv {
	switch l := e.(type) {
	case *models.ProductivityLog:
		return []kv{
			{"Tasks Planned", l.TasksPlanned},
			{"Tasks Completed", l.TasksCompleted},
			{"Focus Rating", l.FocusRating},
			{"Deep Work Hours", l.DeepWorkHours},
		}
	case *models.FinanceLog:
		return []kv{
			{"Total Assets", amount(l.TotalAssets)},
			{"Total Liabilities", amount(l.TotalLiabilities)},
			{"Net Worth", amount(l.NetWorth)},
		}
	case *models.HealthLog:
		return []kv{
			{"Resting HR", l.RestingHR},
			{"HRV", l.HRV},
			{"Sleep Duration", l.SleepDuration},
			{"Active Minutes", l.ActiveMinutes},
		}
	case *models.MetabolicLog:
		return []kv{
			{"Gut Microbiome Score", l.GutMicrobiomeScore},
			{"Daily Food Score", l.DailyFoodScore},
			{"Fiber Intake", l.FiberIntake},
		}
	case *models.DigitalLog:
		return []kv{
			{"Screen Time", l.TotalScreenTime},
			{"Unlocks", l.Unlocks},
		}
	case *models.MindfulnessLog:
		return []kv{
			{"Meditation Type", l.MeditationType},
			{"Duration", l.Duration},
			{"Quality Rating", l.QualityRating},
		}
	case *models.ReadingLog:
		return []kv{
			{"Book Title", l.BookTitle},
			{"Pages Read", l.PagesRead},
			{"Highlights", l.HighlightsCount},
		}
	}
	return nil
}

type unit struct {
	Field string
	Unit  string
}

// units lists the unit of each summarized field of d.
func units(d models.Domain) []unit {
	switch d {
	case models.DomainProductivity:
		return []unit{{"tasksPlanned", "count"}, {"tasksCompleted", "count"}, {"focusRating", "1-5 scale"}, {"deepWorkHours", "hours"}}
	case models.DomainFinance:
		return []unit{{"totalAssets", "currency"}, {"totalLiabilities", "currency"}, {"netWorth", "currency"}}
	case models.DomainHealth:
		return []unit{{"restingHR", "bpm"}, {"hrv", "ms"}, {"sleepDuration", "hours"}, {"activeMinutes", "minutes"}}
	case models.DomainMetabolic:
		return []unit{{"gutMicrobiomeScore", "score"}, {"dailyFoodScore", "score"}, {"fiberIntake", "grams"}}
	case models.DomainDigital:
		return []unit{{"totalScreenTime", "minutes"}, {"unlocks", "count"}}
	case models.DomainMindfulness:
		return []unit{{"duration", "minutes"}, {"qualityRating", "1-5 scale"}}
	case models.DomainReading:
		return []unit{{"pagesRead", "pages"}, {"highlightsCount", "count"}}
	}
	return nil
}

// amount marks a finance value so the Markdown digest can format it as
// currency.
type amount float64

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// formatValue renders v. Amounts use the currency format when currency is
// a known ISO 4217 code.
func formatValue(v any, currency string) string {
	switch t := v.(type) {
	case amount:
		if currency != "" {
			if s, ok := formatMoney(float64(t), currency); ok {
				return s
			}
		}
		return formatNumber(float64(t))
	case float64:
		return formatNumber(t)
	case string:
		return t
	}
	return ""
}

func formatMoney(v float64, code string) (string, bool) {
	cur := money.GetCurrency(code)
	if cur == nil {
		return "", false
	}
	minor := decimal.NewFromFloat(v).Shift(int32(cur.Fraction)).Round(0)
	return cur.Formatter().Format(minor.IntPart()), true
}
