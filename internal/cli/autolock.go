package cli

import (
	"context"
	"time"
)

// StartAutoLockWatcher locks the vault once it has been idle for the
// auto-lock period. It checks every interval until ctx is done.
func (a *App) StartAutoLockWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkAutoLock(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// checkAutoLock locks an idle vault and reports whether it did.
func (a *App) checkAutoLock(ctx context.Context) bool {
	timeout, err := a.autoLockTimeout(ctx)
	if err != nil {
		a.logger.Warn(ctx, "reading auto-lock setting", "error", err)
		return false
	}
	if !a.session.LockIfIdle(timeout) {
		return false
	}
	a.logger.Info(ctx, "vault auto-locked", "idle", timeout)
	a.println()
	a.println("Vault locked after", timeout, "of inactivity.")
	return true
}

// autoLockTimeout is the saved setting, or the configured default when
// nothing was saved. Zero disables auto-lock.
func (a *App) autoLockTimeout(ctx context.Context) (time.Duration, error) {
	s, err := a.prefs.Settings(ctx)
	if err != nil {
		return 0, err
	}
	return time.Duration(s.AutoLockTimeoutMinutes) * time.Minute, nil
}
