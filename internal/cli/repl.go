package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/lifevault/internal/common"
)

// execIface is the command surface the REPL dispatches to. App satisfies
// it; tests provide a recording stub.
type execIface interface {
	isUnlocked() bool
	activity()

	Init(ctx context.Context, args []string) error
	Unlock(ctx context.Context, args []string) error
	Lock(ctx context.Context, args []string) error
	ChangePassword(ctx context.Context, args []string) error

	Add(ctx context.Context, args []string) error
	Update(ctx context.Context, args []string) error
	Show(ctx context.Context, args []string) error
	List(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	Clear(ctx context.Context, args []string) error

	Import(ctx context.Context, args []string) error
	Adapters(ctx context.Context, args []string) error

	Summary(ctx context.Context, args []string) error
	Insights(ctx context.Context, args []string) error
	Goals(ctx context.Context, args []string) error
	Export(ctx context.Context, args []string) error
	Prompts(ctx context.Context, args []string) error

	Theme(ctx context.Context, args []string) error
	Settings(ctx context.Context, args []string) error
}

const helpLocked = `Available commands:
  init                      create the master password
  unlock                    unlock the vault
  adapters                  list import adapters
  prompts                   list analysis prompt suggestions
  goals [add|rm]            manage daily goals
  theme [dark|light|toggle] show or change the theme
  settings [autolock N] [font small|medium|large]
  clear <domain|all>        delete stored entries
  exit | quit`

const helpUnlocked = `Available commands:
  add <domain>                          add an entry
  update <domain> <id>                  change fields of an entry
  show <domain> <id>                    show one entry
  list <domain> [from to]               list entries, dates as YYYY-MM-DD
  delete <domain> <id>                  delete an entry
  clear <domain|all>                    delete stored entries
  import <file> [flags]                 import CSV or JSON (see 'import -h')
  adapters                              list import adapters
  summary <domain> [daily|weekly|monthly]
  insights                              anomalies, trends, streaks and bests
  goals [add|rm]                        goals with today's progress
  export <markdown-kv|json|csv> [flags] export data (see 'export -h')
  prompts                               list analysis prompt suggestions
  theme [dark|light|toggle]
  settings [autolock N] [font small|medium|large]
  passwd                                change the master password
  lock
  exit | quit`

// runREPL reads commands from reader until EOF, "exit"/"quit" or ctx is
// done. The first token selects the command; the rest are its arguments.
// Handler errors are printed and the loop continues.
func runREPL(ctx context.Context, a execIface, w io.Writer, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		fmt.Fprintf(w, "lifevault (%s)> ", statusFn())
		line, err := readLine(reader)
		if err != nil {
			fmt.Fprintln(w)
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]
		a.activity()

		var handler func(context.Context, []string) error
		switch cmd {
		case "help":
			if a.isUnlocked() {
				fmt.Fprintln(w, helpUnlocked)
			} else {
				fmt.Fprintln(w, helpLocked)
			}
			continue
		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return
		case "init":
			handler = a.Init
		case "unlock":
			handler = a.Unlock
		case "lock":
			handler = a.Lock
		case "passwd":
			handler = a.ChangePassword
		case "add":
			handler = a.Add
		case "update":
			handler = a.Update
		case "show":
			handler = a.Show
		case "l", "list":
			handler = a.List
		case "delete":
			handler = a.Delete
		case "clear":
			handler = a.Clear
		case "import":
			handler = a.Import
		case "adapters":
			handler = a.Adapters
		case "summary":
			handler = a.Summary
		case "insights":
			handler = a.Insights
		case "goals":
			handler = a.Goals
		case "export":
			handler = a.Export
		case "prompts":
			handler = a.Prompts
		case "theme":
			handler = a.Theme
		case "settings":
			handler = a.Settings
		default:
			fmt.Fprintln(w, "Unknown command:", cmd)
			continue
		}

		if err := handler(ctx, args); err != nil {
			fmt.Fprintln(w, "Error:", describe(err))
		}
	}
}

// describe turns well-known errors into user-facing text.
func describe(err error) string {
	switch {
	case errors.Is(err, common.ErrVaultLocked):
		return "the vault is locked, run 'unlock' first"
	case errors.Is(err, common.ErrInvalidPassword):
		return "invalid password"
	case errors.Is(err, common.ErrNoPassword):
		return "no master password yet, run 'init' first"
	case errors.Is(err, common.ErrPasswordSet):
		return "a master password is already set, use 'passwd' to change it"
	case errors.Is(err, common.ErrDecryption):
		return "stored data could not be decrypted with the current key"
	}
	return err.Error()
}
