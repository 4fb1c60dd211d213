package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/lifevault/internal/adapters"
	"github.com/dmitrijs2005/lifevault/internal/common"
	"github.com/dmitrijs2005/lifevault/internal/importer"
	"github.com/dmitrijs2005/lifevault/internal/ingest"
	"github.com/dmitrijs2005/lifevault/internal/models"
)

// maxShownErrors caps the row errors printed for a dry run.
const maxShownErrors = 10

type importArgs struct {
	file      string
	domain    string
	adapter   string
	policy    string
	format    string
	delimiter string
	path      string
	yes       bool
}

func parseImportArgs(args []string) (*importArgs, *flag.FlagSet, error) {
	ia := &importArgs{}
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&ia.domain, "domain", "", "target domain; columns must use field names")
	fs.StringVar(&ia.adapter, "adapter", "", "source preset (see 'adapters'); sets the domain")
	fs.StringVar(&ia.policy, "policy", string(importer.PolicySkip), "conflict policy: replace, skip or merge")
	fs.StringVar(&ia.format, "format", "", "csv or json (detected when empty)")
	fs.StringVar(&ia.delimiter, "delimiter", ",", "CSV field delimiter")
	fs.StringVar(&ia.path, "path", "", "JSONPath selecting the records array, e.g. $.data.rows")
	fs.BoolVar(&ia.yes, "yes", false, "commit without asking")

	if err := fs.Parse(args); err != nil {
		return nil, fs, err
	}
	if fs.NArg() != 1 {
		return nil, fs, usage("import [flags] <file>")
	}
	ia.file = fs.Arg(0)
	return ia, fs, nil
}

func (ia *importArgs) parseOptions() (ingest.Options, error) {
	opts := ingest.Options{
		Format: ingest.Format(ia.format),
		JSON:   ingest.JSONOptions{RecordsPath: ia.path},
	}
	switch opts.Format {
	case "", ingest.FormatCSV, ingest.FormatJSON:
	default:
		return opts, fmt.Errorf("unknown format %q", ia.format)
	}
	r := []rune(ia.delimiter)
	if len(r) != 1 {
		return opts, fmt.Errorf("delimiter must be a single character, got %q", ia.delimiter)
	}
	opts.CSV.Delimiter = r[0]
	return opts, nil
}

// target resolves the domain and field mappings of an import. Without an
// adapter every column maps to the field of the same name.
func (a *App) target(ia *importArgs, headers []string) (models.Domain, []adapters.FieldMapping, error) {
	if ia.adapter != "" {
		ad, ok := a.adapters.Get(ia.adapter)
		if !ok {
			return "", nil, fmt.Errorf("unknown adapter %q", ia.adapter)
		}
		if ia.domain != "" && models.Domain(ia.domain) != ad.Domain {
			return "", nil, fmt.Errorf("adapter %s imports into %s, not %s", ad.Source, ad.Domain, ia.domain)
		}
		return ad.Domain, ad.FieldMappings, nil
	}
	if ia.domain == "" {
		return "", nil, errors.New("either -domain or -adapter is required")
	}
	d, err := models.ParseDomain(ia.domain)
	if err != nil {
		return "", nil, err
	}
	mappings := make([]adapters.FieldMapping, 0, len(headers))
	for _, h := range headers {
		mappings = append(mappings, adapters.FieldMapping{ExternalField: h, InternalField: h})
	}
	return d, mappings, nil
}

// Import parses a CSV or JSON file, previews the mapped rows and commits
// them after confirmation.
func (a *App) Import(ctx context.Context, args []string) error {
	ia, fs, err := parseImportArgs(args)
	if errors.Is(err, flag.ErrHelp) {
		fs.SetOutput(a.out)
		fs.PrintDefaults()
		return nil
	}
	if err != nil {
		return err
	}
	if !a.isUnlocked() {
		return common.ErrVaultLocked
	}
	policy, err := importer.ParsePolicy(ia.policy)
	if err != nil {
		return err
	}
	opts, err := ia.parseOptions()
	if err != nil {
		return err
	}

	content, err := os.ReadFile(ia.file)
	if err != nil {
		return fmt.Errorf("read %s: %w", ia.file, err)
	}
	parsed := ingest.Parse(string(content), opts)
	for _, d := range parsed.Diagnostics {
		a.printf("  parse warning, row %d: %s\n", d.Row, d.Message)
	}

	d, mappings, err := a.target(ia, parsed.Headers)
	if err != nil {
		return err
	}
	existing, err := a.entries.ExistingDates(ctx, d)
	if err != nil {
		return err
	}

	rows := make([]map[string]string, 0, len(parsed.Rows))
	for _, r := range parsed.Rows {
		rows = append(rows, r)
	}
	preview, err := importer.DryRun(importer.Config{
		Domain:         d,
		Rows:           rows,
		FieldMappings:  mappings,
		ConflictPolicy: policy,
		ExistingDates:  existing,
	})
	if err != nil {
		return err
	}
	a.printPreview(preview)

	if preview.ValidCount == 0 {
		a.println("Nothing to import.")
		return nil
	}
	if !ia.yes && !Confirm(a.reader, fmt.Sprintf("Import %d valid row(s) into %s?", preview.ValidCount, d.Label()), a.out) {
		a.println("Cancelled.")
		return nil
	}

	res, err := a.importer.Commit(ctx, preview)
	if err != nil {
		return err
	}
	a.printf("Committed %d (replaced %d, merged %d), skipped %d, failed %d.\n",
		res.Committed, res.Replaced, res.Merged, res.Skipped, len(res.Errors))
	for _, e := range res.Errors {
		a.println("  " + e.String())
	}
	return nil
}

func (a *App) printPreview(p *importer.DryRunResult) {
	a.printf("Dry run for %s: %d row(s), %d valid, %d invalid, %d conflicting (policy %s).\n",
		p.Domain.Label(), p.TotalCount, p.ValidCount, p.InvalidCount, p.ConflictCount, p.ConflictPolicy)
	for i, e := range p.Errors {
		if i == maxShownErrors {
			a.printf("  ... and %d more error(s)\n", len(p.Errors)-maxShownErrors)
			break
		}
		a.println("  " + e.String())
	}
}

// Adapters lists the registered import presets.
func (a *App) Adapters(_ context.Context, _ []string) error {
	for _, ad := range a.adapters.List() {
		a.printf("%-10s %-16s -> %s (%d fields)\n", ad.Source, ad.Label, ad.Domain, len(ad.FieldMappings))
	}
	return nil
}
