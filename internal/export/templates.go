package export

import (
	"fmt"
	"time"
)

// Template is a preset export scope.
type Template string

const (
	TemplateWeekly      Template = "weekly"
	TemplateMonthly     Template = "monthly"
	TemplateCorrelation Template = "correlation"
	TemplateCustom      Template = "custom"
)

type TemplateInfo struct {
	ID          Template `json:"id"`
	Label       string   `json:"label"`
	Description string   `json:"description"`
}

var Templates = []TemplateInfo{
	{TemplateWeekly, "Weekly Summary", "Last 7 days of data across all selected domains"},
	{TemplateMonthly, "Monthly Review", "Last 30 days of data with trend indicators"},
	{TemplateCorrelation, "Correlation Analysis", "Data formatted for cross-domain pattern detection"},
	{TemplateCustom, "Custom Query", "Choose your own date range and domains"},
}

// ParseTemplate validates s as a template id.
func ParseTemplate(s string) (Template, error) {
	for _, t := range Templates {
		if string(t.ID) == s {
			return t.ID, nil
		}
	}
	return "", fmt.Errorf("unknown export template %q", s)
}

// TemplateDateRange returns the inclusive range a template covers, ending
// on the UTC date of now. Custom defaults to the last 7 days.
func TemplateDateRange(t Template, now time.Time) (start, end string) {
	days := 7
	switch t {
	case TemplateMonthly:
		days = 30
	case TemplateCorrelation:
		days = 90
	}
	now = now.UTC()
	return now.AddDate(0, 0, -days).Format(time.DateOnly), now.Format(time.DateOnly)
}

// PromptSuggestion is a ready-made question to ask about an export.
type PromptSuggestion struct {
	Title       string `json:"title"`
	Prompt      string `json:"prompt"`
	Description string `json:"description"`
}

var PromptSuggestions = []PromptSuggestion{
	{
		Title:       "Meditation & Productivity Correlation",
		Prompt:      "Analyze the correlation between meditation duration/quality and productivity metrics (focus rating, deep work hours). Identify any patterns where meditation sessions precede better or worse focus days.",
		Description: "Find links between mindfulness practice and work output",
	},
	{
		Title:       "Sleep Quality Impact",
		Prompt:      "Examine how sleep duration and sleep stages (REM, deep, core) affect next-day productivity and exercise performance. Identify optimal sleep patterns.",
		Description: "Understand how sleep affects your day",
	},
	{
		Title:       "Diet & Energy Patterns",
		Prompt:      "Analyze the relationship between metabolic scores (food score, fiber intake, glucose response) and health metrics (HRV, active minutes). What dietary patterns correlate with better physical performance?",
		Description: "Connect nutrition to physical health",
	},
	{
		Title:       "Screen Time Effects",
		Prompt:      "Investigate how daily screen time and phone unlocks correlate with sleep quality, meditation consistency, and reading habits. Identify threshold effects.",
		Description: "Measure the impact of digital habits",
	},
	{
		Title:       "Schedule Optimization",
		Prompt:      "Based on the data, suggest optimal daily schedule adjustments. When should I meditate, exercise, do deep work, and read for maximum effectiveness? Use the focus patterns and energy levels from the data.",
		Description: "Get personalized schedule recommendations",
	},
	{
		Title:       "Weekly Trend Summary",
		Prompt:      "Provide a concise weekly summary. What improved this week vs last? What declined? What are the top 3 areas needing attention? Highlight any anomalies.",
		Description: "Quick weekly health check on all domains",
	},
}
