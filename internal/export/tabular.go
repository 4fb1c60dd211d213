package export

import (
	"encoding/csv"
	"encoding/json"
	"strings"

	"github.com/dmitrijs2005/lifevault/internal/models"
	"github.com/dmitrijs2005/lifevault/internal/trends"
)

type jsonMetadata struct {
	ExportedAt string          `json:"exportedAt"`
	StartDate  string          `json:"startDate"`
	EndDate    string          `json:"endDate"`
	Domains    []models.Domain `json:"domains"`
}

type jsonDocument struct {
	Metadata  jsonMetadata                     `json:"metadata"`
	Data      map[models.Domain][]models.Entry `json:"data"`
	Anomalies []trends.Anomaly                 `json:"anomalies"`
}

// JSON renders metadata, the entries in range per selected domain (an empty
// array for a domain without data) and the anomalies in range.
func (x *Exporter) JSON(data Data, opts Options) ([]byte, error) {
	doc := jsonDocument{
		Metadata: jsonMetadata{
			ExportedAt: x.now().UTC().Format("2006-01-02T15:04:05.000Z"),
			StartDate:  opts.StartDate,
			EndDate:    opts.EndDate,
			Domains:    opts.Domains,
		},
		Data:      make(map[models.Domain][]models.Entry, len(opts.Domains)),
		Anomalies: opts.anomalies(data),
	}
	if doc.Metadata.Domains == nil {
		doc.Metadata.Domains = []models.Domain{}
	}
	for _, d := range opts.Domains {
		doc.Data[d] = opts.entries(data, d)
	}
	return json.MarshalIndent(doc, "", "  ")
}

// CSV renders one row per entry with date and domain columns followed by
// the union of all entry fields in first-seen order. Fields a row lacks are
// left empty.
func (x *Exporter) CSV(data Data, opts Options) (string, error) {
	headers := []string{"date", "domain"}
	seen := map[string]bool{"date": true, "domain": true}

	type row map[string]string
	var rows []row
	for _, d := range opts.Domains {
		for _, e := range opts.entries(data, d) {
			r := row{"date": e.Meta().Date, "domain": string(d)}
			for _, p := range entryKV(e) {
				if !seen[p.Key] {
					seen[p.Key] = true
					headers = append(headers, p.Key)
				}
				r[p.Key] = formatValue(p.Value, "")
			}
			rows = append(rows, r)
		}
	}

	var b strings.Builder
	w := csv.NewWriter(&b)
	if err := w.Write(headers); err != nil {
		return "", err
	}
	rec := make([]string, len(headers))
	for _, r := range rows {
		for i, h := range headers {
			rec[i] = r[h]
		}
		if err := w.Write(rec); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return strings.TrimSuffix(b.String(), "\n"), nil
}
