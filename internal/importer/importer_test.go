package importer

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/lifevault/internal/adapters"
	"github.com/dmitrijs2005/lifevault/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sinkCall struct {
	op   string
	date string
	p    models.Patch
}

type fakeSink struct {
	calls []sinkCall
	fail  map[string]error
}

func (f *fakeSink) record(op, date string, p models.Patch) error {
	if err := f.fail[date]; err != nil {
		return err
	}
	f.calls = append(f.calls, sinkCall{op: op, date: date, p: p})
	return nil
}

func (f *fakeSink) Insert(_ context.Context, _ models.Domain, p models.Patch) error {
	return f.record("insert", p.DateValue(), p)
}

func (f *fakeSink) Replace(_ context.Context, _ models.Domain, date string, p models.Patch) error {
	return f.record("replace", date, p)
}

func (f *fakeSink) Merge(_ context.Context, _ models.Domain, date string, p models.Patch) error {
	return f.record("merge", date, p)
}

func identity(fields ...string) []adapters.FieldMapping {
	out := make([]adapters.FieldMapping, 0, len(fields))
	for _, f := range fields {
		out = append(out, adapters.FieldMapping{ExternalField: f, InternalField: f})
	}
	return out
}

var healthFields = identity("date", "restingHR", "hrv", "sleepDuration", "steps", "notes")

func healthRow(date string) map[string]string {
	return map[string]string{"date": date, "restingHR": "58", "hrv": "45", "sleepDuration": "7.5"}
}

func TestDryRun_InvalidRow(t *testing.T) {
	res, err := DryRun(Config{
		Domain:         models.DomainHealth,
		Rows:           []map[string]string{{"date": "", "restingHR": "not-a-number", "hrv": "40", "sleepDuration": "7"}},
		FieldMappings:  healthFields,
		ConflictPolicy: PolicySkip,
	})
	require.NoError(t, err)

	require.Len(t, res.Rows, 1)
	row := res.Rows[0]
	assert.False(t, row.Valid)
	require.NotEmpty(t, row.Errors)

	fields := map[string]bool{}
	for _, e := range row.Errors {
		fields[e.Field] = true
		assert.Equal(t, 0, e.Row)
	}
	assert.True(t, fields["restingHR"])
	assert.True(t, fields["date"])
	assert.Contains(t, row.Errors, RowError{Row: 0, Field: "restingHR", Message: `Cannot convert "not-a-number" to number`})
	assert.Contains(t, row.Errors, RowError{Row: 0, Field: "date", Message: `Invalid date format: "" (expected YYYY-MM-DD)`})

	assert.Equal(t, 1, res.TotalCount)
	assert.Equal(t, 0, res.ValidCount)
	assert.Equal(t, 1, res.InvalidCount)
	assert.Equal(t, res.TotalCount, res.ValidCount+res.InvalidCount)
	assert.Equal(t, row.Errors, res.Errors)
}

func TestDryRun_CountsAndConflicts(t *testing.T) {
	rows := []map[string]string{
		healthRow("2024-01-15"),
		healthRow("2024-01-16"),
		{"date": "2024/01/17", "restingHR": "58", "hrv": "45", "sleepDuration": "7"},
		{"date": "2024-01-16", "restingHR": "10", "hrv": "45", "sleepDuration": "7"},
	}
	res, err := DryRun(Config{
		Domain:         models.DomainHealth,
		Rows:           rows,
		FieldMappings:  healthFields,
		ConflictPolicy: PolicyMerge,
		ExistingDates:  map[string]bool{"2024-01-16": true},
	})
	require.NoError(t, err)

	assert.Equal(t, 4, res.TotalCount)
	assert.Equal(t, 2, res.ValidCount)
	assert.Equal(t, 2, res.InvalidCount)
	// the invalid conflicting row is not counted
	assert.Equal(t, 1, res.ConflictCount)

	assert.Equal(t, ActionNone, res.Rows[0].ConflictAction)
	assert.True(t, res.Rows[1].IsConflict)
	assert.Equal(t, ActionMerge, res.Rows[1].ConflictAction)
	assert.True(t, res.Rows[3].IsConflict)
	assert.False(t, res.Rows[3].Valid)
	assert.Equal(t, "restingHR", res.Rows[3].Errors[0].Field)
}

func TestDryRun_Coercion(t *testing.T) {
	res, err := DryRun(Config{
		Domain:         models.DomainHealth,
		Rows:           []map[string]string{{"date": "2024-01-15", "restingHR": " 58 ", "hrv": "4.5e1", "sleepDuration": "7.5", "steps": "", "notes": "felt good", "ignored": "x"}},
		FieldMappings:  healthFields,
		ConflictPolicy: PolicySkip,
	})
	require.NoError(t, err)

	row := res.Rows[0]
	require.True(t, row.Valid, row.Errors)
	assert.Equal(t, map[string]any{
		"date":          "2024-01-15",
		"restingHR":     58.0,
		"hrv":           45.0,
		"sleepDuration": 7.5,
		"notes":         "felt good",
	}, row.Mapped)

	e := row.patch.Build().(*models.HealthLog)
	assert.Equal(t, 58.0, e.RestingHR)
	assert.Equal(t, "felt good", e.Notes)
	assert.Nil(t, e.Steps)
}

func TestDryRun_BlankRequiredNumber(t *testing.T) {
	res, err := DryRun(Config{
		Domain:         models.DomainHealth,
		Rows:           []map[string]string{{"date": "2024-01-15", "restingHR": "  ", "hrv": "45", "sleepDuration": "7"}},
		FieldMappings:  healthFields,
		ConflictPolicy: PolicySkip,
	})
	require.NoError(t, err)

	row := res.Rows[0]
	assert.False(t, row.Valid)
	assert.Equal(t, []RowError{{Row: 0, Field: "restingHR", Message: "Must be between 20 and 250 (empty cells count as missing)"}}, row.Errors)

	// a column that is absent altogether keeps the plain message
	res, err = DryRun(Config{
		Domain:         models.DomainHealth,
		Rows:           []map[string]string{{"date": "2024-01-15", "hrv": "45", "sleepDuration": "7"}},
		FieldMappings:  healthFields,
		ConflictPolicy: PolicySkip,
	})
	require.NoError(t, err)
	assert.Equal(t, []RowError{{Row: 0, Field: "restingHR", Message: "Must be between 20 and 250"}}, res.Rows[0].Errors)
}

func TestDryRun_RejectsConfig(t *testing.T) {
	_, err := DryRun(Config{Domain: "sports", ConflictPolicy: PolicySkip})
	assert.Error(t, err)

	_, err = DryRun(Config{Domain: models.DomainHealth, ConflictPolicy: "overwrite"})
	assert.Error(t, err)
}

func TestDryRun_WithAdapter(t *testing.T) {
	res, err := DryRun(Config{
		Domain: models.DomainFinance,
		Rows: []map[string]string{
			{"Date": "2024-01-31", "Total Assets": "$10,000.30", "Total Liabilities": "2,500.10"},
		},
		FieldMappings:  adapters.Monarch().FieldMappings,
		ConflictPolicy: PolicyReplace,
	})
	require.NoError(t, err)
	require.True(t, res.Rows[0].Valid, res.Rows[0].Errors)

	e := res.Rows[0].patch.Build().(*models.FinanceLog)
	assert.Equal(t, 10000.3, e.TotalAssets)
	assert.Equal(t, 2500.1, e.TotalLiabilities)
	assert.Equal(t, 7500.2, e.NetWorth)
}

func TestCommit_SkipPolicy(t *testing.T) {
	rows := []map[string]string{
		healthRow("2024-01-15"),
		healthRow("2024-01-16"),
		healthRow("2024-01-17"),
		healthRow("2024-01-18"),
	}
	preview, err := DryRun(Config{
		Domain:         models.DomainHealth,
		Rows:           rows,
		FieldMappings:  healthFields,
		ConflictPolicy: PolicySkip,
		ExistingDates:  map[string]bool{"2024-01-17": true},
	})
	require.NoError(t, err)
	require.Equal(t, 4, preview.ValidCount)

	sink := &fakeSink{}
	res, err := New(sink, nil).Commit(context.Background(), preview)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Skipped)
	assert.Equal(t, 3, res.Committed)
	assert.Zero(t, res.Replaced)
	assert.Zero(t, res.Merged)
	require.Len(t, sink.calls, 3)
	for _, c := range sink.calls {
		assert.Equal(t, "insert", c.op)
		assert.NotEqual(t, "2024-01-17", c.date)
	}
}

func TestCommit_ReplaceAndMerge(t *testing.T) {
	for _, tc := range []struct {
		policy ConflictPolicy
		op     string
	}{
		{PolicyReplace, "replace"},
		{PolicyMerge, "merge"},
	} {
		t.Run(string(tc.policy), func(t *testing.T) {
			preview, err := DryRun(Config{
				Domain:         models.DomainHealth,
				Rows:           []map[string]string{healthRow("2024-01-15"), healthRow("2024-01-16"), {"date": "bad"}},
				FieldMappings:  healthFields,
				ConflictPolicy: tc.policy,
				ExistingDates:  map[string]bool{"2024-01-15": true},
			})
			require.NoError(t, err)

			sink := &fakeSink{}
			res, err := New(sink, nil).Commit(context.Background(), preview)
			require.NoError(t, err)

			assert.Equal(t, 2, res.Committed)
			assert.Equal(t, 1, res.Skipped)
			if tc.policy == PolicyReplace {
				assert.Equal(t, 1, res.Replaced)
				assert.Zero(t, res.Merged)
			} else {
				assert.Equal(t, 1, res.Merged)
				assert.Zero(t, res.Replaced)
			}
			require.Len(t, sink.calls, 2)
			assert.Equal(t, tc.op, sink.calls[0].op)
			assert.Equal(t, "2024-01-15", sink.calls[0].date)
			assert.Equal(t, "insert", sink.calls[1].op)
		})
	}
}

func TestCommit_SinkFailureDoesNotStopBatch(t *testing.T) {
	preview, err := DryRun(Config{
		Domain:         models.DomainHealth,
		Rows:           []map[string]string{healthRow("2024-01-15"), healthRow("2024-01-16"), healthRow("2024-01-17")},
		FieldMappings:  healthFields,
		ConflictPolicy: PolicySkip,
	})
	require.NoError(t, err)

	sink := &fakeSink{fail: map[string]error{"2024-01-16": errors.New("disk full")}}
	res, err := New(sink, nil).Commit(context.Background(), preview)
	require.NoError(t, err)

	assert.Equal(t, 2, res.Committed)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, 1, res.Errors[0].Row)
	assert.Contains(t, res.Errors[0].Message, "disk full")
}

func TestCommit_ContextCanceled(t *testing.T) {
	preview, err := DryRun(Config{
		Domain:         models.DomainHealth,
		Rows:           []map[string]string{healthRow("2024-01-15")},
		FieldMappings:  healthFields,
		ConflictPolicy: PolicySkip,
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = New(&fakeSink{}, nil).Commit(ctx, preview)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("merge")
	require.NoError(t, err)
	assert.Equal(t, PolicyMerge, p)

	_, err = ParsePolicy("none")
	assert.Error(t, err)
}

func TestCoerce_ManualFields(t *testing.T) {
	data, errs := Coerce(models.DomainReading, map[string]string{
		"date":      "2024-02-01",
		"bookTitle": "Dune",
		"pagesRead": " 42 ",
	})
	assert.Empty(t, errs)
	assert.Equal(t, map[string]any{"date": "2024-02-01", "bookTitle": "Dune", "pagesRead": 42.0}, data)

	_, errs = Coerce(models.DomainReading, map[string]string{"pagesRead": "lots"})
	require.Len(t, errs, 1)
	assert.Equal(t, "pagesRead", errs[0].Field)
}
