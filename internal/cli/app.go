package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/lifevault/internal/adapters"
	"github.com/dmitrijs2005/lifevault/internal/config"
	"github.com/dmitrijs2005/lifevault/internal/export"
	"github.com/dmitrijs2005/lifevault/internal/importer"
	"github.com/dmitrijs2005/lifevault/internal/logging"
	"github.com/dmitrijs2005/lifevault/internal/services"
	"github.com/dmitrijs2005/lifevault/internal/vault"
	"golang.org/x/term"
)

// autoLockCheckInterval is how often the watcher compares idle time with
// the auto-lock setting.
const autoLockCheckInterval = 10 * time.Second

var newSession = vault.NewSession

type App struct {
	config   *config.Config
	logger   logging.Logger
	session  *vault.Session
	vault    *vault.Service
	entries  *services.EntryService
	prefs    *services.PreferenceService
	insights *services.InsightService
	adapters *adapters.Registry
	importer *importer.Importer
	exporter *export.Exporter

	reader *bufio.Reader
	out    io.Writer
	// styled enables glamour rendering; off when out is not a terminal.
	styled bool
	// readSecret reads a password without echo.
	readSecret func(prompt string) ([]byte, error)
	now        func() time.Time
}

// NewApp wires the services on top of an initialized database.
func NewApp(c *config.Config, db *sql.DB, logger logging.Logger, in io.Reader, out io.Writer) *App {
	if logger == nil {
		logger = logging.Discard()
	}
	session := newSession()
	entries := services.NewEntryService(db, session, logger)

	a := &App{
		config:   c,
		logger:   logger,
		session:  session,
		vault:    vault.NewService(db, session, logger),
		entries:  entries,
		prefs:    services.NewPreferenceService(db).WithAutoLockDefault(c.AutoLockMinutes()),
		insights: services.NewInsightService(entries, logger),
		adapters: adapters.NewRegistry(),
		importer: importer.New(entries.ImportSink(), logger),
		exporter: export.New(c.Currency),
		reader:   bufio.NewReader(in),
		out:      &syncWriter{w: out},
		now:      time.Now,
	}

	if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		a.styled = true
	}
	a.readSecret = a.defaultReadSecret
	return a
}

// syncWriter serializes writes from the REPL and the auto-lock watcher.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

// defaultReadSecret reads without echo from a terminal stdin and falls back
// to a plain line when stdin is piped.
func (a *App) defaultReadSecret(prompt string) ([]byte, error) {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		return GetPassword(a.out, prompt)
	}
	line, err := GetSimpleText(a.reader, prompt, a.out)
	if err != nil {
		return nil, err
	}
	return []byte(line), nil
}

func (a *App) isUnlocked() bool {
	return a.session.State() == vault.Unlocked
}

// activity resets the idle timer of an unlocked vault.
func (a *App) activity() {
	if a.isUnlocked() {
		a.session.Touch()
	}
}

func (a *App) status() string {
	return a.session.State().String()
}

func (a *App) initSignalHandler(cancel context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancel()
	}()
}

// Run greets the user, starts the auto-lock watcher and blocks in the REPL.
// The vault is locked when Run returns.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	a.initSignalHandler(cancel)
	defer a.vault.Lock(context.Background())

	if err := a.greet(ctx); err != nil {
		return err
	}

	go a.StartAutoLockWatcher(ctx, autoLockCheckInterval)

	runREPL(ctx, a, a.out, a.status, a.reader)
	return nil
}

func (a *App) greet(ctx context.Context) error {
	seen, err := a.prefs.WelcomeSeen(ctx)
	if err != nil {
		return err
	}
	if !seen {
		a.println("Welcome to lifevault: your life logs, encrypted on this device.")
		a.println("Nothing leaves this machine unless you export it.")
		if err := a.prefs.MarkWelcomeSeen(ctx); err != nil {
			return err
		}
	}

	has, err := a.vault.HasPassword(ctx)
	if err != nil {
		return err
	}
	if has {
		a.println("Vault is locked. Type 'unlock' to continue or 'help' for commands.")
	} else {
		a.println("No master password yet. Type 'init' to create one.")
	}
	return nil
}
