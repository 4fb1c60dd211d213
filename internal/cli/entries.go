package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/lifevault/internal/aggregation"
	"github.com/dmitrijs2005/lifevault/internal/common"
	"github.com/dmitrijs2005/lifevault/internal/importer"
	"github.com/dmitrijs2005/lifevault/internal/models"
)

func usage(u string) error {
	return fmt.Errorf("usage: %s", u)
}

func (a *App) today() string {
	return a.now().Format(time.DateOnly)
}

// domainArg parses args[0] as a domain when args has exactly n elements.
func domainArg(args []string, n int, u string) (models.Domain, error) {
	if len(args) != n {
		return "", usage(u)
	}
	return models.ParseDomain(args[0])
}

// readPatch prompts for the fields of d and turns them into a patch.
func (a *App) readPatch(d models.Domain, prompt string) (models.Patch, map[string]string, error) {
	fields, err := GetFields(a.reader, prompt, a.out)
	if err != nil {
		return nil, nil, err
	}
	data, errs := importer.Coerce(d, fields)
	if len(errs) > 0 {
		msgs := make([]string, 0, len(errs))
		for _, e := range errs {
			msgs = append(msgs, e.Field+": "+e.Message)
		}
		return nil, nil, errors.New(strings.Join(msgs, "; "))
	}
	p, err := models.PatchFromFields(d, data)
	if err != nil {
		return nil, nil, err
	}
	return p, fields, nil
}

func fieldsHint(d models.Domain) string {
	return "date, " + strings.Join(d.NumericFields(), ", ") + ", notes"
}

// Add prompts for a new entry of the given domain. The date defaults to
// today.
func (a *App) Add(ctx context.Context, args []string) error {
	d, err := domainArg(args, 1, "add <domain>")
	if err != nil {
		return err
	}
	if !a.isUnlocked() {
		return common.ErrVaultLocked
	}

	p, fields, err := a.readPatch(d, fmt.Sprintf("New %s entry. Fields: %s", d.Label(), fieldsHint(d)))
	if err != nil {
		return err
	}
	e := p.Build()
	if _, ok := fields["date"]; !ok {
		e.Meta().Date = a.today()
	}

	id, err := a.entries.AddEntry(ctx, e)
	if err != nil {
		return err
	}
	a.printf("Added %s entry %s for %s.\n", d, id, e.Meta().Date)
	return nil
}

// Update merges typed-in fields into an existing entry.
func (a *App) Update(ctx context.Context, args []string) error {
	d, err := domainArg(args, 2, "update <domain> <id>")
	if err != nil {
		return err
	}
	if !a.isUnlocked() {
		return common.ErrVaultLocked
	}

	p, _, err := a.readPatch(d, fmt.Sprintf("Fields to change (%s)", fieldsHint(d)))
	if err != nil {
		return err
	}
	e, err := a.entries.UpdateEntry(ctx, d, args[1], p)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return fmt.Errorf("no %s entry with id %s", d, args[1])
		}
		return err
	}
	a.printf("Updated %s entry %s.\n", d, e.Meta().ID)
	return nil
}

// Show prints one decrypted entry as JSON.
func (a *App) Show(ctx context.Context, args []string) error {
	d, err := domainArg(args, 2, "show <domain> <id>")
	if err != nil {
		return err
	}
	e, err := a.entries.GetEntry(ctx, d, args[1])
	if err != nil {
		return err
	}
	if e == nil {
		return fmt.Errorf("no %s entry with id %s", d, args[1])
	}
	b, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return err
	}
	a.println(string(b))
	return nil
}

// List prints the entries of a domain, optionally limited to a date range.
func (a *App) List(ctx context.Context, args []string) error {
	if len(args) != 1 && len(args) != 3 {
		return usage("list <domain> [from to]")
	}
	d, err := models.ParseDomain(args[0])
	if err != nil {
		return err
	}

	var entries []models.Entry
	if len(args) == 3 {
		entries, err = a.entries.GetEntriesByDateRange(ctx, d, args[1], args[2])
	} else {
		entries, err = a.entries.GetAllEntries(ctx, d)
	}
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		a.println("No entries.")
		return nil
	}
	for _, e := range entries {
		a.printf("%s  %s  %s\n", e.Meta().Date, e.Meta().ID, metricLine(d, e))
	}
	a.printf("%d entr%s.\n", len(entries), plural(len(entries), "y", "ies"))
	return nil
}

// metricLine renders the summarized metrics of a single entry.
func metricLine(d models.Domain, e models.Entry) string {
	m := aggregation.ExtractMetrics(d, []models.Entry{e})
	parts := make([]string, 0, len(m))
	for _, name := range aggregation.MetricNames(d) {
		if v, ok := m[name]; ok {
			parts = append(parts, name+"="+strconv.FormatFloat(v, 'f', -1, 64))
		}
	}
	return strings.Join(parts, " ")
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// Delete removes one entry.
func (a *App) Delete(ctx context.Context, args []string) error {
	d, err := domainArg(args, 2, "delete <domain> <id>")
	if err != nil {
		return err
	}
	if err := a.entries.DeleteEntry(ctx, d, args[1]); err != nil {
		return err
	}
	a.printf("Deleted %s entry %s.\n", d, args[1])
	return nil
}

// Clear deletes every entry of a domain, or of all domains, after
// confirmation.
func (a *App) Clear(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("clear <domain|all>")
	}
	if args[0] == "all" {
		if !Confirm(a.reader, "Delete ALL entries of every domain?", a.out) {
			a.println("Cancelled.")
			return nil
		}
		if err := a.entries.ClearAllData(ctx); err != nil {
			return err
		}
		a.println("All entries deleted.")
		return nil
	}

	d, err := models.ParseDomain(args[0])
	if err != nil {
		return err
	}
	if !Confirm(a.reader, fmt.Sprintf("Delete all %s entries?", d.Label()), a.out) {
		a.println("Cancelled.")
		return nil
	}
	if err := a.entries.ClearTable(ctx, d); err != nil {
		return err
	}
	a.printf("All %s entries deleted.\n", d)
	return nil
}
