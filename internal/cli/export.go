package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/lifevault/internal/export"
	"github.com/dmitrijs2005/lifevault/internal/models"
)

type exportArgs struct {
	format   export.Format
	template export.Template
	from     string
	to       string
	domains  []models.Domain
	output   string
}

func parseExportArgs(args []string, a *App) (*exportArgs, *flag.FlagSet, error) {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	tmpl := fs.String("t", string(export.TemplateWeekly), "template: weekly, monthly, correlation or custom")
	from := fs.String("from", "", "first date, YYYY-MM-DD (overrides the template)")
	to := fs.String("to", "", "last date, YYYY-MM-DD (overrides the template)")
	domains := fs.String("domains", "", "comma-separated domains (default all)")
	output := fs.String("o", "", "write to this file; a .html file gets the digest as HTML")

	if len(args) == 0 {
		return nil, fs, usage("export <markdown-kv|json|csv> [flags]")
	}
	if args[0] == "-h" || args[0] == "-help" {
		return nil, fs, flag.ErrHelp
	}
	format, err := export.ParseFormat(args[0])
	if err != nil {
		return nil, fs, err
	}
	if err := fs.Parse(args[1:]); err != nil {
		return nil, fs, err
	}

	ea := &exportArgs{format: format, output: *output}
	if ea.template, err = export.ParseTemplate(*tmpl); err != nil {
		return nil, fs, err
	}
	ea.from, ea.to = export.TemplateDateRange(ea.template, a.now())
	if *from != "" {
		ea.from = *from
	}
	if *to != "" {
		ea.to = *to
	}

	if *domains == "" {
		ea.domains = append(ea.domains, models.Domains...)
	} else {
		for _, s := range strings.Split(*domains, ",") {
			d, err := models.ParseDomain(strings.TrimSpace(s))
			if err != nil {
				return nil, fs, err
			}
			ea.domains = append(ea.domains, d)
		}
	}
	return ea, fs, nil
}

// Export renders the selected entries and the anomalies in range. Output
// goes to the terminal unless -o names a file.
func (a *App) Export(ctx context.Context, args []string) error {
	ea, fs, err := parseExportArgs(args, a)
	if errors.Is(err, flag.ErrHelp) {
		fs.SetOutput(a.out)
		a.println("usage: export <markdown-kv|json|csv> [flags]")
		fs.PrintDefaults()
		return nil
	}
	if err != nil {
		return err
	}

	data := export.Data{Entries: make(map[models.Domain][]models.Entry, len(ea.domains))}
	for _, d := range ea.domains {
		entries, err := a.entries.GetEntriesByDateRange(ctx, d, ea.from, ea.to)
		if err != nil {
			return err
		}
		data.Entries[d] = entries
	}
	ins, err := a.insights.Refresh(ctx)
	if err != nil {
		return err
	}
	data.Anomalies = ins.Anomalies

	out, err := a.exporter.Export(data, export.Options{
		Domains:   ea.domains,
		StartDate: ea.from,
		EndDate:   ea.to,
		Format:    ea.format,
		Template:  ea.template,
	})
	if err != nil {
		return err
	}

	if ea.output == "" {
		if ea.format == export.FormatMarkdownKV {
			a.showMarkdown(ctx, string(out))
		} else {
			a.println(string(out))
		}
		return nil
	}

	if strings.EqualFold(filepath.Ext(ea.output), ".html") {
		if ea.format != export.FormatMarkdownKV {
			return errors.New("only markdown-kv can be written as HTML")
		}
		html, err := export.RenderHTML(string(out))
		if err != nil {
			return err
		}
		out = []byte(html)
	}
	if err := os.WriteFile(ea.output, out, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", ea.output, err)
	}
	a.printf("Exported %s to %s (%s to %s).\n", ea.format, ea.output, ea.from, ea.to)
	return nil
}

// Prompts lists ready-made questions to ask about an export.
func (a *App) Prompts(ctx context.Context, _ []string) error {
	var b strings.Builder
	b.WriteString("# Prompt suggestions\n")
	for _, p := range export.PromptSuggestions {
		fmt.Fprintf(&b, "\n## %s\n\n_%s_\n\n%s\n", p.Title, p.Description, p.Prompt)
	}
	b.WriteString("\n# Export templates\n\n")
	for _, t := range export.Templates {
		fmt.Fprintf(&b, "- **%s** (`-t %s`): %s\n", t.Label, t.ID, t.Description)
	}
	a.showMarkdown(ctx, b.String())
	return nil
}
