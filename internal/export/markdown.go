package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/lifevault/internal/trends"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

const noDataNotice = "No data available for the selected domains and date range."

// MarkdownKV renders the digest: a header with range and domains, a units
// reference, the anomalies in range and one line per entry in the form
//
//	2024-01-15: [ANOMALY] {Focus Rating: 4, Deep Work Hours: 2.5}
//
// where the marker appears only on dates that have an anomaly.
func (x *Exporter) MarkdownKV(data Data, opts Options) string {
	var b strings.Builder
	line := func(format string, args ...any) {
		fmt.Fprintf(&b, format, args...)
		b.WriteByte('\n')
	}

	labels := make([]string, 0, len(opts.Domains))
	for _, d := range opts.Domains {
		labels = append(labels, d.Label())
	}
	line("# Life Tracking Data Export")
	line("")
	line("**Date Range:** %s to %s", opts.StartDate, opts.EndDate)
	line("**Domains:** %s", strings.Join(labels, ", "))
	line("")

	line("## Units")
	for _, d := range opts.Domains {
		us := units(d)
		parts := make([]string, 0, len(us))
		for _, u := range us {
			parts = append(parts, fmt.Sprintf("%s (%s)", u.Field, u.Unit))
		}
		line("- **%s**: %s", d.Label(), strings.Join(parts, ", "))
	}
	line("")

	if grouped := groupAnomalies(opts.anomalies(data)); len(grouped) > 0 {
		line("## Anomalies")
		for _, a := range grouped {
			line("- [ANOMALY] %s: %s = %s (mean: %.1f, %s)", a.Date, a.Metric, formatNumber(a.Value), a.Mean, a.Direction)
		}
		line("")
	}

	flagged := make(map[string]bool, len(data.Anomalies))
	for _, a := range data.Anomalies {
		flagged[a.Date] = true
	}

	hasData := false
	for _, d := range opts.Domains {
		entries := opts.entries(data, d)
		if len(entries) == 0 {
			continue
		}
		hasData = true
		line("## %s", d.Label())
		line("")
		for _, e := range entries {
			pairs := entryKV(e)
			parts := make([]string, 0, len(pairs))
			for _, p := range pairs {
				parts = append(parts, p.Key+": "+formatValue(p.Value, x.Currency))
			}
			marker := ""
			if flagged[e.Meta().Date] {
				marker = " [ANOMALY]"
			}
			line("%s:%s {%s}", e.Meta().Date, marker, strings.Join(parts, ", "))
		}
		line("")
	}

	if !hasData {
		line(noDataNotice)
		line("")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// groupAnomalies orders anomalies by the first appearance of their
// date and metric.
func groupAnomalies(in []trends.Anomaly) []trends.Anomaly {
	type key struct{ date, metric string }
	var order []key
	groups := map[key][]trends.Anomaly{}
	for _, a := range in {
		k := key{a.Date, a.Metric}
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], a)
	}
	out := make([]trends.Anomaly, 0, len(in))
	for _, k := range order {
		out = append(out, groups[k]...)
	}
	return out
}

var md = goldmark.New(goldmark.WithExtensions(extension.GFM))

// RenderHTML converts a Markdown digest into an HTML fragment.
func RenderHTML(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return buf.String(), nil
}
