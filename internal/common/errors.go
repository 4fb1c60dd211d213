// Package common defines sentinel errors and small helpers shared across the
// vault, the record store and the import pipeline. Callers should use
// errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Vault errors.
	ErrVaultLocked     = errors.New("vault is locked")
	ErrInvalidPassword = errors.New("invalid password")
	ErrNoPassword      = errors.New("no master password set")
	ErrPasswordSet     = errors.New("master password already set")

	// Crypto errors (wrong key or tampered ciphertext).
	ErrDecryption = errors.New("decryption failed")

	// Domain errors.
	ErrUnknownDomain = errors.New("unknown domain")
	ErrValidation    = errors.New("validation failed")
)
