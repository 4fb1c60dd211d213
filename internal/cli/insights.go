package cli

import (
	"context"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/lifevault/internal/aggregation"
	"github.com/dmitrijs2005/lifevault/internal/models"
	"github.com/dmitrijs2005/lifevault/internal/services"
)

// Summary prints daily, weekly (default) or monthly summaries of a domain.
func (a *App) Summary(ctx context.Context, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return usage("summary <domain> [daily|weekly|monthly]")
	}
	d, err := models.ParseDomain(args[0])
	if err != nil {
		return err
	}
	period := "weekly"
	if len(args) == 2 {
		period = args[1]
	}

	entries, err := a.entries.GetAllEntries(ctx, d)
	if err != nil {
		return err
	}
	names := aggregation.MetricNames(d)

	var b strings.Builder
	fmt.Fprintf(&b, "# %s %s summary\n\n", d.Label(), period)
	fmt.Fprintf(&b, "| Period | %s |\n", strings.Join(names, " | "))
	fmt.Fprintf(&b, "|---%s|\n", strings.Repeat("|---", len(names)))
	row := func(label string, m aggregation.Metrics) {
		cells := make([]string, 0, len(names))
		for _, n := range names {
			cells = append(cells, num(round1(m[n])))
		}
		fmt.Fprintf(&b, "| %s | %s |\n", label, strings.Join(cells, " | "))
	}

	switch period {
	case "daily":
		for _, s := range aggregation.ComputeDailySummaries(d, entries) {
			row(s.Date, s.Metrics)
		}
	case "weekly":
		for _, s := range aggregation.ComputeWeeklySummaries(d, entries) {
			row(s.WeekStart+" to "+s.WeekEnd, s.Metrics)
		}
	case "monthly":
		for _, s := range aggregation.ComputeMonthlySummaries(d, entries) {
			row(s.Month, s.Metrics)
		}
	default:
		return fmt.Errorf("unknown period %q", period)
	}

	if len(entries) == 0 {
		b.WriteString("\nNo entries yet.\n")
	}
	a.showMarkdown(ctx, b.String())
	return nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Insights refreshes the analysis over all domains and prints it.
func (a *App) Insights(ctx context.Context, _ []string) error {
	ins, err := a.insights.Refresh(ctx)
	if err != nil {
		return err
	}
	a.showMarkdown(ctx, insightsMarkdown(ins))
	return nil
}

func insightsMarkdown(ins *services.Insights) string {
	var b strings.Builder
	b.WriteString("# Insights\n")

	section := func(title string, n int) bool {
		fmt.Fprintf(&b, "\n## %s\n\n", title)
		if n == 0 {
			b.WriteString("None found.\n")
			return false
		}
		return true
	}

	if section("Anomalies", len(ins.Anomalies)) {
		for _, an := range ins.Anomalies {
			fmt.Fprintf(&b, "- %s: %s = %s (%s, mean %.1f)\n", an.Date, an.Metric, num(an.Value), an.Direction, an.Mean)
		}
	}
	if section("Week over week", len(ins.SignificantChanges)) {
		for _, c := range ins.SignificantChanges {
			fmt.Fprintf(&b, "- %s %s %.1f%% (%.1f vs %.1f)\n", c.Metric, c.Direction, c.DeltaPercent, c.CurrentWeekAvg, c.PreviousWeekAvg)
		}
	}
	if section("Correlations", len(ins.Correlations)) {
		for _, c := range ins.Correlations {
			fmt.Fprintf(&b, "- %s (r = %.2f)\n", c.Description, c.Correlation)
		}
	}
	if section("Streaks", len(ins.Streaks)) {
		for _, s := range ins.Streaks {
			active := ""
			if s.Active {
				active = ", active"
			}
			fmt.Fprintf(&b, "- %s: %d days, %s to %s%s\n", s.Metric, s.Count, s.StartDate, s.EndDate, active)
		}
	}
	if section("Personal bests", len(ins.PersonalBests)) {
		for _, p := range ins.PersonalBests {
			fmt.Fprintf(&b, "- %s: %s on %s\n", p.Metric, num(p.Value), p.Date)
		}
	}

	var domains []models.Domain
	for _, d := range models.Domains {
		if ins.WeekComparison(d) != nil {
			domains = append(domains, d)
		}
	}
	if section("This week vs last week", len(domains)) {
		for _, d := range domains {
			wc := ins.WeekComparison(d)
			names := aggregation.MetricNames(d)
			parts := make([]string, 0, len(names))
			for _, n := range names {
				parts = append(parts, fmt.Sprintf("%s %s (was %s)", n, num(round1(wc.ThisWeek[n])), num(round1(wc.LastWeek[n]))))
			}
			fmt.Fprintf(&b, "- **%s**: %s\n", d.Label(), strings.Join(parts, ", "))
		}
	}
	return b.String()
}

// Goals lists goals with today's progress, or adds/removes one:
//
//	goals add <domain> <metric> <target> [label...]
//	goals rm <index>
func (a *App) Goals(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return a.listGoals(ctx)
	}
	switch args[0] {
	case "add":
		if len(args) < 4 {
			return usage("goals add <domain> <metric> <target> [label...]")
		}
		d, err := models.ParseDomain(args[1])
		if err != nil {
			return err
		}
		if !slices.Contains(aggregation.MetricNames(d), args[2]) {
			return fmt.Errorf("unknown metric %q for %s, expected one of %s", args[2], d, strings.Join(aggregation.MetricNames(d), ", "))
		}
		target, err := strconv.ParseFloat(args[3], 64)
		if err != nil || target < 0 {
			return fmt.Errorf("target must be a non-negative number, got %q", args[3])
		}
		label := strings.Join(args[4:], " ")
		if label == "" {
			label = fmt.Sprintf("%s %s", d.Label(), args[2])
		}
		if err := a.prefs.AddGoal(ctx, services.Goal{Domain: d, Metric: args[2], Target: target, Label: label}); err != nil {
			return err
		}
		a.println("Goal added.")
		return nil
	case "rm":
		if len(args) != 2 {
			return usage("goals rm <index>")
		}
		i, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("index must be a number, got %q", args[1])
		}
		if err := a.prefs.RemoveGoal(ctx, i-1); err != nil {
			return err
		}
		a.println("Goal removed.")
		return nil
	}
	return usage("goals [add|rm]")
}

func (a *App) listGoals(ctx context.Context) error {
	goals, err := a.prefs.Goals(ctx)
	if err != nil {
		return err
	}
	if len(goals) == 0 {
		a.println("No goals yet. Add one with 'goals add <domain> <metric> <target> [label]'.")
		return nil
	}
	if !a.isUnlocked() {
		for i, g := range goals {
			a.printf("%d. %s: %s %s target %s\n", i+1, g.Label, g.Domain, g.Metric, num(g.Target))
		}
		return nil
	}

	ins, err := a.insights.Refresh(ctx)
	if err != nil {
		return err
	}
	for i, g := range ins.GoalsWithProgress(goals) {
		a.printf("%d. %s: %s / %s (%s%%)\n", i+1, g.Label, num(round1(g.Current)), num(g.Target), num(round1(g.Percentage)))
	}
	return nil
}
