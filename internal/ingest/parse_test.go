package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCSV(t *testing.T) {
	tests := []struct {
		name    string
		content string
		opts    CSVOptions
		headers []string
		rows    []Row
		diags   int
	}{
		{
			name:    "simple",
			content: "date,steps\n2024-01-15,9000\n2024-01-16,7000\n",
			headers: []string{"date", "steps"},
			rows:    []Row{{"date": "2024-01-15", "steps": "9000"}, {"date": "2024-01-16", "steps": "7000"}},
		},
		{
			name:    "quoted delimiter newline and escaped quote",
			content: "date,notes\n2024-01-15,\"ran, then \"\"rested\"\"\nall day\"\n",
			headers: []string{"date", "notes"},
			rows:    []Row{{"date": "2024-01-15", "notes": "ran, then \"rested\"\nall day"}},
		},
		{
			name:    "custom delimiter",
			content: "date;steps\n2024-01-15;9000",
			opts:    CSVOptions{Delimiter: ';'},
			headers: []string{"date", "steps"},
			rows:    []Row{{"date": "2024-01-15", "steps": "9000"}},
		},
		{
			name:    "blank lines skipped",
			content: "date,steps\n\n2024-01-15,9000\n\n\n2024-01-16,1\n",
			headers: []string{"date", "steps"},
			rows:    []Row{{"date": "2024-01-15", "steps": "9000"}, {"date": "2024-01-16", "steps": "1"}},
		},
		{
			name:    "empty",
			content: "  \n ",
			headers: []string{},
			rows:    []Row{},
		},
		{
			name:    "header only",
			content: "date,steps",
			headers: []string{"date", "steps"},
			rows:    []Row{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ParseCSV(tt.content, tt.opts)
			assert.Equal(t, tt.headers, res.Headers)
			assert.Equal(t, tt.rows, res.Rows)
			assert.Len(t, res.Diagnostics, tt.diags)
		})
	}
}

func TestParseCSV_QuotedWhitespaceKept(t *testing.T) {
	res := ParseCSV("title , pages\n\"  Dune  \",  40 \nHyperion ,\" 12\"\n", CSVOptions{})

	assert.Equal(t, []string{"title", "pages"}, res.Headers)
	require.Len(t, res.Rows, 2)
	assert.Equal(t, Row{"title": "  Dune  ", "pages": "40"}, res.Rows[0])
	assert.Equal(t, Row{"title": "Hyperion", "pages": " 12"}, res.Rows[1])
	assert.Empty(t, res.Diagnostics)
}

func TestParseCSV_FieldCountMismatch(t *testing.T) {
	res := ParseCSV("date,steps,hrv\n2024-01-15,9000\n2024-01-16,1,2,3\n2024-01-17,5,6", CSVOptions{})

	require.Len(t, res.Rows, 3)
	assert.Equal(t, Row{"date": "2024-01-15", "steps": "9000"}, res.Rows[0])
	assert.Equal(t, Row{"date": "2024-01-16", "steps": "1", "hrv": "2"}, res.Rows[1])
	assert.Equal(t, Row{"date": "2024-01-17", "steps": "5", "hrv": "6"}, res.Rows[2])

	require.Len(t, res.Diagnostics, 2)
	assert.Equal(t, Diagnostic{Row: 1, Message: "Expected 3 fields but got 2"}, res.Diagnostics[0])
	assert.Equal(t, Diagnostic{Row: 2, Message: "Expected 3 fields but got 4"}, res.Diagnostics[1])
}

func TestParseJSON(t *testing.T) {
	tests := []struct {
		name    string
		content string
		opts    JSONOptions
		headers []string
		rows    []Row
		diags   []string
	}{
		{
			name:    "root array",
			content: `[{"date":"2024-01-15","steps":9000,"ok":true},{"date":"2024-01-16","hrv":null}]`,
			headers: []string{"date", "ok", "steps", "hrv"},
			rows: []Row{
				{"date": "2024-01-15", "steps": "9000", "ok": "true"},
				{"date": "2024-01-16", "hrv": ""},
			},
		},
		{
			name:    "data wrapper",
			content: `{"data":[{"date":"2024-01-15","weight":72.5}]}`,
			headers: []string{"date", "weight"},
			rows:    []Row{{"date": "2024-01-15", "weight": "72.5"}},
		},
		{
			name:    "records wrapper",
			content: `{"meta":1,"records":[{"a":"1"}]}`,
			headers: []string{"a"},
			rows:    []Row{{"a": "1"}},
		},
		{
			name:    "entries wrapper",
			content: `{"entries":[{"a":"1"}]}`,
			headers: []string{"a"},
			rows:    []Row{{"a": "1"}},
		},
		{
			name:    "non-object elements skipped",
			content: `[{"a":"1"}, 5, "x"]`,
			headers: []string{"a"},
			rows:    []Row{{"a": "1"}},
			diags:   []string{"Record is not an object", "Record is not an object"},
		},
		{
			name:    "nested values kept as json",
			content: `[{"stages":{"deep":60}}]`,
			headers: []string{"stages"},
			rows:    []Row{{"stages": `{"deep":60}`}},
		},
		{
			name:    "records path",
			content: `{"response":{"items":[{"date":"2024-01-15"}]}}`,
			opts:    JSONOptions{RecordsPath: "$.response.items"},
			headers: []string{"date"},
			rows:    []Row{{"date": "2024-01-15"}},
		},
		{
			name:    "no recognizable array",
			content: `{"foo":[1]}`,
			headers: []string{},
			rows:    []Row{},
			diags:   []string{"JSON does not contain a recognizable array of records"},
		},
		{
			name:    "scalar root",
			content: `42`,
			headers: []string{},
			rows:    []Row{},
			diags:   []string{"JSON root must be an array or object"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ParseJSON(tt.content, tt.opts)
			assert.Equal(t, tt.headers, res.Headers)
			assert.Equal(t, tt.rows, res.Rows)
			msgs := make([]string, 0, len(res.Diagnostics))
			for _, d := range res.Diagnostics {
				msgs = append(msgs, d.Message)
			}
			if tt.diags == nil {
				tt.diags = []string{}
			}
			assert.Equal(t, tt.diags, msgs)
		})
	}
}

func TestParseJSON_Invalid(t *testing.T) {
	res := ParseJSON(`[{"a":`, JSONOptions{})
	assert.Empty(t, res.Rows)
	assert.Empty(t, res.Headers)
	require.Len(t, res.Diagnostics, 1)
	assert.Contains(t, res.Diagnostics[0].Message, "Invalid JSON")
}

func TestParseJSON_TrailingData(t *testing.T) {
	for _, content := range []string{
		`[{"a":"1"}] trailing garbage`,
		`[{"a":"1"}][{"a":"2"}]`,
		`{"data":[{"a":"1"}]} {}`,
	} {
		res := ParseJSON(content, JSONOptions{})
		assert.Empty(t, res.Rows, content)
		assert.Empty(t, res.Headers, content)
		require.Len(t, res.Diagnostics, 1, content)
		assert.Contains(t, res.Diagnostics[0].Message, "Invalid JSON", content)
	}

	res := ParseJSON("[{\"a\":\"1\"}]\n  \n", JSONOptions{})
	assert.Equal(t, []Row{{"a": "1"}}, res.Rows)
	assert.Empty(t, res.Diagnostics)
}

func TestParseJSON_RecordsPathNotArray(t *testing.T) {
	res := ParseJSON(`{"a":{"b":1}}`, JSONOptions{RecordsPath: "$.a"})
	assert.Empty(t, res.Rows)
	require.Len(t, res.Diagnostics, 1)
	assert.Contains(t, res.Diagnostics[0].Message, "does not select an array")
}

func TestDetectFormat(t *testing.T) {
	assert.Equal(t, FormatJSON, DetectFormat("  [1]"))
	assert.Equal(t, FormatJSON, DetectFormat("\n{\"a\":1}"))
	assert.Equal(t, FormatCSV, DetectFormat("date,steps"))
	assert.Equal(t, FormatCSV, DetectFormat(""))
}

func TestParse(t *testing.T) {
	res := Parse(`[{"a":"1"}]`, Options{})
	assert.Equal(t, []Row{{"a": "1"}}, res.Rows)

	res = Parse("a\n1", Options{})
	assert.Equal(t, []Row{{"a": "1"}}, res.Rows)

	res = Parse("a|b\n1|2", Options{Format: FormatCSV, CSV: CSVOptions{Delimiter: '|'}})
	assert.Equal(t, []Row{{"a": "1", "b": "2"}}, res.Rows)
}
