// Package importer turns parsed rows into domain entries: it maps external
// columns, coerces values, validates, detects date conflicts and finally
// commits the approved rows through a Sink.
//
// A dry run never writes anything. Commit consumes a dry-run result as is
// and does not validate again.
package importer

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/dmitrijs2005/lifevault/internal/adapters"
	"github.com/dmitrijs2005/lifevault/internal/logging"
	"github.com/dmitrijs2005/lifevault/internal/models"
	"github.com/shopspring/decimal"
)

// ConflictPolicy decides what happens to a row whose date already has data.
type ConflictPolicy string

const (
	PolicyReplace ConflictPolicy = "replace"
	PolicySkip    ConflictPolicy = "skip"
	PolicyMerge   ConflictPolicy = "merge"
)

// ParsePolicy validates s as a ConflictPolicy.
func ParsePolicy(s string) (ConflictPolicy, error) {
	switch p := ConflictPolicy(s); p {
	case PolicyReplace, PolicySkip, PolicyMerge:
		return p, nil
	}
	return "", fmt.Errorf("unknown conflict policy %q (want replace, skip or merge)", s)
}

// ConflictAction is the action tagged on a preview row.
type ConflictAction string

const (
	ActionNone    ConflictAction = "none"
	ActionReplace ConflictAction = "replace"
	ActionSkip    ConflictAction = "skip"
	ActionMerge   ConflictAction = "merge"
)

// Config describes one import.
type Config struct {
	Domain         models.Domain
	Rows           []map[string]string
	FieldMappings  []adapters.FieldMapping
	ConflictPolicy ConflictPolicy
	// ExistingDates holds the dates that already have entries in Domain.
	ExistingDates map[string]bool
}

// RowError is a problem with one field of one row. Row is the 0-based index
// into Config.Rows.
type RowError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e RowError) String() string {
	if e.Field == "" {
		return fmt.Sprintf("row %d: %s", e.Row, e.Message)
	}
	return fmt.Sprintf("row %d: %s: %s", e.Row, e.Field, e.Message)
}

// PreviewRow is the dry-run outcome for one input row.
type PreviewRow struct {
	Index          int            `json:"index"`
	Date           string         `json:"date"`
	Mapped         map[string]any `json:"mapped"`
	Valid          bool           `json:"valid"`
	Errors         []RowError     `json:"errors"`
	IsConflict     bool           `json:"isConflict"`
	ConflictAction ConflictAction `json:"conflictAction"`

	patch models.Patch
}

// DryRunResult is the preview of an import.
type DryRunResult struct {
	Domain         models.Domain  `json:"domain"`
	ConflictPolicy ConflictPolicy `json:"conflictPolicy"`
	TotalCount     int            `json:"totalCount"`
	ValidCount     int            `json:"validCount"`
	InvalidCount   int            `json:"invalidCount"`
	// ConflictCount counts valid rows whose date already exists.
	ConflictCount int          `json:"conflictCount"`
	Rows          []PreviewRow `json:"rows"`
	Errors        []RowError   `json:"errors"`
}

const msgBlankCell = " (empty cells count as missing)"

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// DryRun maps, coerces and validates every row of cfg and tags date
// conflicts. Row problems are reported in the result; an error is returned
// only for an unusable Config.
func DryRun(cfg Config) (*DryRunResult, error) {
	if !cfg.Domain.Valid() {
		return nil, fmt.Errorf("import domain %q: unknown", cfg.Domain)
	}
	if _, err := ParsePolicy(string(cfg.ConflictPolicy)); err != nil {
		return nil, err
	}

	res := &DryRunResult{
		Domain:         cfg.Domain,
		ConflictPolicy: cfg.ConflictPolicy,
		TotalCount:     len(cfg.Rows),
		Rows:           make([]PreviewRow, 0, len(cfg.Rows)),
		Errors:         []RowError{},
	}

	for i, raw := range cfg.Rows {
		row := previewRow(cfg, i, raw)
		if row.Valid {
			res.ValidCount++
			if row.IsConflict {
				res.ConflictCount++
			}
		} else {
			res.InvalidCount++
		}
		res.Errors = append(res.Errors, row.Errors...)
		res.Rows = append(res.Rows, row)
	}
	return res, nil
}

func previewRow(cfg Config, i int, raw map[string]string) PreviewRow {
	mapped := adapters.Apply(cfg.FieldMappings, raw)
	data, errs := coerce(cfg.Domain, i, mapped)

	p, err := models.PatchFromFields(cfg.Domain, data)
	if err != nil {
		errs = append(errs, RowError{Row: i, Message: err.Error()})
	} else {
		for _, ve := range p.Validate().Errors {
			msg := ve.Message
			if v, ok := mapped[ve.Field]; ok && strings.TrimSpace(v) == "" && cfg.Domain.IsNumericField(ve.Field) {
				msg += msgBlankCell
			}
			errs = append(errs, RowError{Row: i, Field: ve.Field, Message: msg})
		}
	}

	date, _ := data["date"].(string)
	row := PreviewRow{
		Index:          i,
		Date:           date,
		Mapped:         data,
		Valid:          len(errs) == 0,
		Errors:         errs,
		IsConflict:     cfg.ExistingDates[date],
		ConflictAction: ActionNone,
		patch:          p,
	}
	if row.IsConflict {
		row.ConflictAction = ConflictAction(cfg.ConflictPolicy)
	}
	return row
}

// Coerce applies the import coercion rules to a single set of fields, for
// entries typed in by hand.
func Coerce(d models.Domain, fields map[string]string) (map[string]any, []RowError) {
	return coerce(d, 0, fields)
}

// coerce converts numeric fields of d to numbers and checks the date shape.
// Empty numeric cells are treated as absent. Other fields pass through as
// strings.
func coerce(d models.Domain, i int, mapped map[string]string) (map[string]any, []RowError) {
	fields := make([]string, 0, len(mapped))
	for f := range mapped {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	data := make(map[string]any, len(mapped))
	errs := []RowError{}
	for _, f := range fields {
		v := mapped[f]
		switch {
		case f == "date":
			if !datePattern.MatchString(v) {
				errs = append(errs, RowError{Row: i, Field: f,
					Message: fmt.Sprintf("Invalid date format: %q (expected YYYY-MM-DD)", v)})
			}
			data[f] = v
		case d.IsNumericField(f):
			s := strings.TrimSpace(v)
			if s == "" {
				continue
			}
			n, err := decimal.NewFromString(s)
			if err != nil {
				errs = append(errs, RowError{Row: i, Field: f,
					Message: fmt.Sprintf("Cannot convert %q to number", v)})
				continue
			}
			data[f] = n.InexactFloat64()
		default:
			data[f] = v
		}
	}
	return data, errs
}

// Sink persists committed rows.
type Sink interface {
	// Insert stores p as a new entry.
	Insert(ctx context.Context, d models.Domain, p models.Patch) error
	// Replace removes the entries on date and stores p.
	Replace(ctx context.Context, d models.Domain, date string, p models.Patch) error
	// Merge merges p into the entries on date.
	Merge(ctx context.Context, d models.Domain, date string, p models.Patch) error
}

// CommitResult counts what Commit did. Replaced and Merged rows are also
// counted as Committed.
type CommitResult struct {
	Committed int        `json:"committedCount"`
	Skipped   int        `json:"skippedCount"`
	Replaced  int        `json:"replacedCount"`
	Merged    int        `json:"mergedCount"`
	Errors    []RowError `json:"errors"`
}

// Importer commits dry-run results through a Sink.
type Importer struct {
	sink   Sink
	logger logging.Logger
}

func New(sink Sink, logger logging.Logger) *Importer {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Importer{sink: sink, logger: logger}
}

// Commit writes the rows of preview approved by their conflict action.
// Invalid rows and rows tagged skip are skipped. A row the sink rejects is
// recorded in Errors and the remaining rows still go through. Commit stops
// early only when ctx is done.
func (im *Importer) Commit(ctx context.Context, preview *DryRunResult) (*CommitResult, error) {
	res := &CommitResult{Errors: []RowError{}}
	d := preview.Domain

	for _, row := range preview.Rows {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if !row.Valid || row.patch == nil {
			res.Skipped++
			continue
		}

		var err error
		action := ActionNone
		if row.IsConflict {
			action = row.ConflictAction
		}
		switch action {
		case ActionSkip:
			res.Skipped++
			continue
		case ActionReplace:
			err = im.sink.Replace(ctx, d, row.Date, row.patch)
		case ActionMerge:
			err = im.sink.Merge(ctx, d, row.Date, row.patch)
		default:
			err = im.sink.Insert(ctx, d, row.patch)
		}

		if err != nil {
			im.logger.Warn(ctx, "import row failed", "domain", d, "row", row.Index, "error", err)
			res.Errors = append(res.Errors, RowError{Row: row.Index, Message: err.Error()})
			continue
		}
		res.Committed++
		switch action {
		case ActionReplace:
			res.Replaced++
		case ActionMerge:
			res.Merged++
		}
	}

	im.logger.Info(ctx, "import committed", "domain", d,
		"committed", res.Committed, "skipped", res.Skipped, "failed", len(res.Errors))
	return res, nil
}
