package cli

import (
	"bytes"
	"context"
	"errors"

	"github.com/dmitrijs2005/lifevault/internal/common"
)

var errPasswordMismatch = errors.New("passwords do not match")

// newPassword asks for a password twice and returns it when both match.
func (a *App) newPassword(prompt string) ([]byte, error) {
	pw, err := a.readSecret(prompt)
	if err != nil {
		return nil, err
	}
	confirm, err := a.readSecret("Repeat password")
	if err != nil {
		common.WipeByteArray(pw)
		return nil, err
	}
	defer common.WipeByteArray(confirm)
	if !bytes.Equal(pw, confirm) {
		common.WipeByteArray(pw)
		return nil, errPasswordMismatch
	}
	return pw, nil
}

// Init sets up the master password of a new vault and unlocks it.
func (a *App) Init(ctx context.Context, _ []string) error {
	has, err := a.vault.HasPassword(ctx)
	if err != nil {
		return err
	}
	if has {
		return common.ErrPasswordSet
	}

	pw, err := a.newPassword("Choose master password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pw)

	if err := a.vault.SetupPassword(ctx, pw); err != nil {
		return err
	}
	a.println("Vault created and unlocked. There is no way to recover a forgotten password.")
	return nil
}

// Unlock asks for the master password and opens the session.
func (a *App) Unlock(ctx context.Context, _ []string) error {
	if a.isUnlocked() {
		a.println("Already unlocked.")
		return nil
	}
	pw, err := a.readSecret("Master password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pw)

	if err := a.vault.Unlock(ctx, pw); err != nil {
		return err
	}
	a.println("Unlocked.")
	return nil
}

// Lock wipes the key from memory.
func (a *App) Lock(ctx context.Context, _ []string) error {
	a.vault.Lock(ctx)
	a.println("Locked.")
	return nil
}

// ChangePassword rotates the master key and re-encrypts every record.
func (a *App) ChangePassword(ctx context.Context, _ []string) error {
	if !a.isUnlocked() {
		return common.ErrVaultLocked
	}
	current, err := a.readSecret("Current password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(current)

	next, err := a.newPassword("New password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(next)

	res, err := a.vault.ChangePassword(ctx, current, next, a.entries)
	if err != nil {
		return err
	}
	a.printf("Password changed. %d record(s) re-encrypted.\n", res.TotalRecords)
	if len(res.Errors) > 0 {
		a.printf("%d record(s) could not be re-encrypted:\n", len(res.Errors))
		for _, e := range res.Errors {
			a.println("  " + e)
		}
	}
	return nil
}
