package cli

import (
	"context"
	"strconv"

	"github.com/charmbracelet/glamour"
)

// wordWrap is the column width of rendered Markdown.
const wordWrap = 100

// showMarkdown prints md, styled for the terminal with the saved theme when
// the output is a terminal and as plain Markdown otherwise.
func (a *App) showMarkdown(ctx context.Context, md string) {
	if !a.styled {
		a.println(md)
		return
	}
	out, err := a.renderMarkdown(ctx, md)
	if err != nil {
		a.logger.Warn(ctx, "rendering markdown", "error", err)
		a.println(md)
		return
	}
	a.printf("%s", out)
}

func (a *App) renderMarkdown(ctx context.Context, md string) (string, error) {
	theme, err := a.prefs.Theme(ctx)
	if err != nil {
		return "", err
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(string(theme)),
		glamour.WithWordWrap(wordWrap),
	)
	if err != nil {
		return "", err
	}
	return r.Render(md)
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
