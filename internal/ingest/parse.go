// Package ingest turns raw CSV or JSON text into uniform rows of string
// values keyed by column name. Parsing never fails hard: problems are
// reported as diagnostics next to whatever rows could be recovered.
package ingest

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/PaesslerAG/jsonpath"
)

// Format of an input document.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// Row maps a column header to its raw string value.
type Row map[string]string

// Diagnostic is a recoverable problem found while parsing. Row is the
// 1-based data row it refers to, or 0 for document-level problems.
type Diagnostic struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ParseResult holds the recovered rows and the problems met on the way.
type ParseResult struct {
	Headers     []string     `json:"headers"`
	Rows        []Row        `json:"rows"`
	Diagnostics []Diagnostic `json:"diagnostics"`
}

func emptyResult() *ParseResult {
	return &ParseResult{Headers: []string{}, Rows: []Row{}, Diagnostics: []Diagnostic{}}
}

func (res *ParseResult) diag(row int, format string, args ...any) {
	res.Diagnostics = append(res.Diagnostics, Diagnostic{Row: row, Message: fmt.Sprintf(format, args...)})
}

// CSVOptions configures ParseCSV. A zero Delimiter means comma.
type CSVOptions struct {
	Delimiter rune
}

// ParseCSV reads RFC 4180 style CSV. The first record is the header row.
// Quoted fields may contain the delimiter, newlines and doubled quotes.
// Blank lines are skipped. Unquoted values are trimmed; quoted values are
// kept as written. A row with a different number of fields than the
// header gets a diagnostic; a short row keeps the fields it has and extra
// fields are dropped.
func ParseCSV(content string, opts CSVOptions) *ParseResult {
	res := emptyResult()
	content = strings.TrimSpace(content)
	if content == "" {
		return res
	}

	r := csv.NewReader(strings.NewReader(content))
	if opts.Delimiter != 0 {
		r.Comma = opts.Delimiter
	}
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	lines := strings.Split(content, "\n")
	line := 0
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				res.diag(line, "line %d: %v", perr.StartLine, perr.Err)
				continue
			}
			res.diag(line, "%v", err)
			break
		}
		if blank(rec) {
			continue
		}

		if line == 0 {
			res.Headers = trimAll(rec)
			line++
			continue
		}

		if len(rec) != len(res.Headers) {
			res.diag(line, "Expected %d fields but got %d", len(res.Headers), len(rec))
		}
		row := make(Row, len(res.Headers))
		for i, h := range res.Headers {
			if i >= len(rec) {
				break
			}
			if quotedAt(r, lines, i) {
				row[h] = rec[i]
			} else {
				row[h] = strings.TrimSpace(rec[i])
			}
		}
		res.Rows = append(res.Rows, row)
		line++
	}
	return res
}

// quotedAt reports whether field i of the last record read starts with a
// quote in the source text.
func quotedAt(r *csv.Reader, lines []string, i int) bool {
	l, c := r.FieldPos(i)
	if l < 1 || l > len(lines) || c < 1 || c > len(lines[l-1]) {
		return false
	}
	return lines[l-1][c-1] == '"'
}

func blank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

func trimAll(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = strings.TrimSpace(s)
	}
	return out
}

// JSONOptions configures ParseJSON. RecordsPath is a JSONPath expression
// such as "$.response.items" that selects the record array. Without it the
// root array is used, or the first of the data, records and entries keys
// that holds an array.
type JSONOptions struct {
	RecordsPath string
}

var wrapperKeys = []string{"data", "records", "entries"}

// ParseJSON reads an array of flat objects. Headers are the union of all
// object keys in first-seen order, with each record's own keys sorted.
// Values are stringified; null becomes the empty string. Elements that are
// not objects are skipped.
func ParseJSON(content string, opts JSONOptions) *ParseResult {
	res := emptyResult()

	dec := json.NewDecoder(strings.NewReader(content))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		res.diag(0, "Invalid JSON: %v", err)
		return res
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		res.diag(0, "Invalid JSON: unexpected data after the top-level value")
		return res
	}

	items, ok := res.locate(doc, opts)
	if !ok {
		return res
	}

	seen := make(map[string]bool)
	for i, it := range items {
		obj, ok := it.(map[string]any)
		if !ok {
			res.diag(i+1, "Record is not an object")
			continue
		}
		keys := make([]string, 0, len(obj))
		for k := range obj {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		row := make(Row, len(obj))
		for _, k := range keys {
			if !seen[k] {
				seen[k] = true
				res.Headers = append(res.Headers, k)
			}
			row[k] = stringify(obj[k])
		}
		res.Rows = append(res.Rows, row)
	}
	return res
}

func (res *ParseResult) locate(doc any, opts JSONOptions) ([]any, bool) {
	if opts.RecordsPath != "" {
		v, err := jsonpath.Get(opts.RecordsPath, doc)
		if err != nil {
			res.diag(0, "Records path %q: %v", opts.RecordsPath, err)
			return nil, false
		}
		// Wildcard paths yield a list holding the array.
		if list, ok := v.([]any); ok && len(list) == 1 {
			if inner, ok := list[0].([]any); ok {
				v = inner
			}
		}
		items, ok := v.([]any)
		if !ok {
			res.diag(0, "Records path %q does not select an array", opts.RecordsPath)
			return nil, false
		}
		return items, true
	}

	switch v := doc.(type) {
	case []any:
		return v, true
	case map[string]any:
		for _, k := range wrapperKeys {
			if items, ok := v[k].([]any); ok {
				return items, true
			}
		}
		res.diag(0, "JSON does not contain a recognizable array of records")
		return nil, false
	default:
		res.diag(0, "JSON root must be an array or object")
		return nil, false
	}
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		if t {
			return "true"
		}
		return "false"
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	}
}

// DetectFormat guesses the format from the first non-blank character.
func DetectFormat(content string) Format {
	trimmed := bytes.TrimSpace([]byte(content))
	if len(trimmed) > 0 && (trimmed[0] == '[' || trimmed[0] == '{') {
		return FormatJSON
	}
	return FormatCSV
}

// Options bundles the per-format options used by Parse.
type Options struct {
	Format Format
	CSV    CSVOptions
	JSON   JSONOptions
}

// Parse parses content in opts.Format, detecting it when empty.
func Parse(content string, opts Options) *ParseResult {
	f := opts.Format
	if f == "" {
		f = DetectFormat(content)
	}
	if f == FormatJSON {
		return ParseJSON(content, opts.JSON)
	}
	return ParseCSV(content, opts.CSV)
}
