// Package cli provides the interactive lifevault command-line client.
//
// It wires configuration, the local encrypted store and the analytics
// services into a read-eval-print loop. A background watcher locks the
// vault after the configured idle period.
//
// Commands that read or write entries need an unlocked vault:
//   - add, update, show, list, delete
//   - summary, insights, goals (progress), export
//   - import, passwd
//
// Commands that touch only plaintext metadata work while locked:
//   - init, unlock, lock
//   - theme, settings, goals (add, rm), adapters, prompts
//   - clear
//
// The REPL is started via App.Run(ctx), which blocks until the user exits
// or ctx is canceled.
package cli
