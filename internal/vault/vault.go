package vault

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"encoding/base64"
	"fmt"

	"github.com/dmitrijs2005/lifevault/internal/common"
	"github.com/dmitrijs2005/lifevault/internal/cryptox"
	"github.com/dmitrijs2005/lifevault/internal/dbx"
	"github.com/dmitrijs2005/lifevault/internal/logging"
	"github.com/dmitrijs2005/lifevault/internal/models"
	"github.com/dmitrijs2005/lifevault/internal/repositories/metadata"
)

// Metadata keys owned by the vault.
const (
	KeySalt        = "salt"
	KeyHasPassword = "has_password"
	KeyVerifier    = "verifier"
)

// Rekeyer rotates every stored record from oldKey to newKey through tx.
type Rekeyer interface {
	ReEncryptAllDataTx(ctx context.Context, tx dbx.DBTX, oldKey, newKey []byte) (*models.ReEncryptResult, error)
}

// Service implements master password setup, unlock, lock and change on top
// of the metadata store and a Session.
type Service struct {
	db      *sql.DB
	session *Session
	logger  logging.Logger
	derive  func(password, salt []byte) []byte
}

func NewService(db *sql.DB, session *Session, logger logging.Logger) *Service {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Service{db: db, session: session, logger: logger, derive: cryptox.DeriveKey}
}

func (s *Service) Session() *Session { return s.session }

func (s *Service) metadataRepo(db dbx.DBTX) metadata.Repository {
	return metadata.NewSQLiteRepository(db)
}

// HasPassword reports whether a master password was ever set up.
func (s *Service) HasPassword(ctx context.Context) (bool, error) {
	v, err := s.metadataRepo(s.db).Get(ctx, KeyHasPassword)
	if err != nil {
		return false, err
	}
	return string(v) == "true", nil
}

// SetupPassword initializes a new vault: it generates a salt, derives the
// master key, persists salt and verifier, and unlocks the session.
func (s *Service) SetupPassword(ctx context.Context, password []byte) error {
	has, err := s.HasPassword(ctx)
	if err != nil {
		return err
	}
	if has {
		return common.ErrPasswordSet
	}
	if len(password) == 0 {
		return fmt.Errorf("%w: empty password", common.ErrInvalidPassword)
	}

	salt, err := cryptox.GenerateSalt()
	if err != nil {
		return err
	}
	key := s.derive(password, salt)
	defer common.WipeByteArray(key)

	if err := s.saveKeyMaterial(ctx, salt, key); err != nil {
		return fmt.Errorf("saving key material: %w", err)
	}
	s.session.Open(key)
	s.logger.Info(ctx, "vault initialized")
	return nil
}

func (s *Service) saveKeyMaterial(ctx context.Context, salt, key []byte) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return s.saveKeyMaterialTx(ctx, tx, salt, key)
	})
}

func (s *Service) saveKeyMaterialTx(ctx context.Context, tx dbx.DBTX, salt, key []byte) error {
	return s.metadataRepo(tx).SetAll(ctx, map[string][]byte{
		KeySalt:        []byte(base64.StdEncoding.EncodeToString(salt)),
		KeyVerifier:    cryptox.MakeVerifier(key),
		KeyHasPassword: []byte("true"),
	})
}

// deriveChecked derives the key for password from the stored salt and
// compares it with the stored verifier. Vaults without a verifier accept any
// key; a wrong password then surfaces as ErrDecryption on first read.
func (s *Service) deriveChecked(ctx context.Context, password []byte) ([]byte, error) {
	repo := s.metadataRepo(s.db)

	encSalt, err := repo.Get(ctx, KeySalt)
	if err != nil {
		return nil, err
	}
	if encSalt == nil {
		return nil, common.ErrNoPassword
	}
	salt, err := base64.StdEncoding.DecodeString(string(encSalt))
	if err != nil {
		return nil, fmt.Errorf("corrupt salt: %w", err)
	}

	key := s.derive(password, salt)

	verifier, err := repo.Get(ctx, KeyVerifier)
	if err != nil {
		common.WipeByteArray(key)
		return nil, err
	}
	if verifier != nil && subtle.ConstantTimeCompare(verifier, cryptox.MakeVerifier(key)) == 0 {
		common.WipeByteArray(key)
		return nil, common.ErrInvalidPassword
	}
	return key, nil
}

// Unlock derives the master key from password and opens the session.
func (s *Service) Unlock(ctx context.Context, password []byte) error {
	key, err := s.deriveChecked(ctx, password)
	if err != nil {
		s.logger.Warn(ctx, "unlock failed", "error", err)
		return err
	}
	defer common.WipeByteArray(key)

	s.session.Open(key)
	s.logger.Info(ctx, "vault unlocked")
	return nil
}

// Lock clears the in-memory key.
func (s *Service) Lock(ctx context.Context) {
	s.session.Lock()
	s.logger.Info(ctx, "vault locked")
}

// ChangePassword rotates the master key. The vault must be unlocked and
// current must match the key in use. Re-encryption and the new salt and
// verifier are written in one transaction, so an aborted rotation leaves
// the vault on the old password. Records that fail to rotate are reported
// in the result and keep their old encryption.
//
// The session switches to the new key only if it is still unlocked; a vault
// that auto-locked during the rotation stays locked.
func (s *Service) ChangePassword(ctx context.Context, current, next []byte, rekey Rekeyer) (*models.ReEncryptResult, error) {
	oldKey, err := s.session.Key()
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(oldKey)

	if len(next) == 0 {
		return nil, fmt.Errorf("%w: empty password", common.ErrInvalidPassword)
	}

	candidate, err := s.deriveChecked(ctx, current)
	if err != nil {
		return nil, err
	}
	match := subtle.ConstantTimeCompare(candidate, oldKey) == 1
	common.WipeByteArray(candidate)
	if !match {
		return nil, common.ErrInvalidPassword
	}

	salt, err := cryptox.GenerateSalt()
	if err != nil {
		return nil, err
	}
	newKey := s.derive(next, salt)
	defer common.WipeByteArray(newKey)

	res, err := dbx.WithTxValue(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) (*models.ReEncryptResult, error) {
		res, err := rekey.ReEncryptAllDataTx(ctx, tx, oldKey, newKey)
		if err != nil {
			return nil, fmt.Errorf("re-encrypting records: %w", err)
		}
		if err := s.saveKeyMaterialTx(ctx, tx, salt, newKey); err != nil {
			return nil, fmt.Errorf("saving key material: %w", err)
		}
		return res, nil
	})
	if err != nil {
		s.logger.Warn(ctx, "password change rolled back", "error", err)
		return nil, err
	}
	for _, e := range res.Errors {
		s.logger.Warn(ctx, "record not re-encrypted", "error", e)
	}

	if s.session.State() == Unlocked {
		s.session.Open(newKey)
	} else {
		s.logger.Info(ctx, "vault locked during password change, staying locked")
	}
	s.logger.Info(ctx, "master password changed", "records", res.TotalRecords, "failed", len(res.Errors))
	return res, nil
}
