// Package export renders decrypted entries for sharing: a Markdown
// key-value digest meant for people and language models, a JSON document
// and a flat CSV table.
package export

import (
	"fmt"
	"sort"
	"time"

	"github.com/dmitrijs2005/lifevault/internal/models"
	"github.com/dmitrijs2005/lifevault/internal/trends"
)

type Format string

const (
	FormatMarkdownKV Format = "markdown-kv"
	FormatJSON       Format = "json"
	FormatCSV        Format = "csv"
)

// ParseFormat validates s as an export format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatMarkdownKV, FormatJSON, FormatCSV:
		return f, nil
	}
	return "", fmt.Errorf("unknown export format %q (want markdown-kv, json or csv)", s)
}

// Options selects what to export. Dates are inclusive YYYY-MM-DD bounds.
type Options struct {
	Domains   []models.Domain
	StartDate string
	EndDate   string
	Format    Format
	Template  Template
}

// Data is the material to export. Entries need not be filtered or sorted.
type Data struct {
	Entries   map[models.Domain][]models.Entry
	Anomalies []trends.Anomaly
}

// Exporter renders Data. Currency, when set to an ISO 4217 code, formats
// finance amounts in the Markdown digest.
type Exporter struct {
	Currency string
	now      func() time.Time
}

func New(currency string) *Exporter {
	return &Exporter{Currency: currency, now: time.Now}
}

// Export renders data in opts.Format.
func (x *Exporter) Export(data Data, opts Options) ([]byte, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	switch opts.Format {
	case FormatMarkdownKV:
		return []byte(x.MarkdownKV(data, opts)), nil
	case FormatJSON:
		return x.JSON(data, opts)
	case FormatCSV:
		s, err := x.CSV(data, opts)
		return []byte(s), err
	}
	return nil, fmt.Errorf("unknown export format %q", opts.Format)
}

func (o Options) validate() error {
	for _, d := range o.Domains {
		if !d.Valid() {
			return fmt.Errorf("export domain %q: unknown", d)
		}
	}
	for _, s := range []string{o.StartDate, o.EndDate} {
		if _, err := time.Parse(time.DateOnly, s); err != nil {
			return fmt.Errorf("export date %q: %w", s, err)
		}
	}
	if o.StartDate > o.EndDate {
		return fmt.Errorf("export range %s to %s is empty", o.StartDate, o.EndDate)
	}
	return nil
}

func (o Options) inRange(date string) bool {
	return date >= o.StartDate && date <= o.EndDate
}

// entries returns the entries of d inside the range, ordered by date.
func (o Options) entries(data Data, d models.Domain) []models.Entry {
	out := []models.Entry{}
	for _, e := range data.Entries[d] {
		if o.inRange(e.Meta().Date) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Meta().Date < out[j].Meta().Date })
	return out
}

func (o Options) anomalies(data Data) []trends.Anomaly {
	out := []trends.Anomaly{}
	for _, a := range data.Anomalies {
		if o.inRange(a.Date) {
			out = append(out, a)
		}
	}
	return out
}
