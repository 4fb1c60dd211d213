// Package services contains the application services of the vault: the
// encrypted record store, key rotation, insight refresh and preferences.
package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/lifevault/internal/common"
	"github.com/dmitrijs2005/lifevault/internal/cryptox"
	"github.com/dmitrijs2005/lifevault/internal/dbx"
	"github.com/dmitrijs2005/lifevault/internal/logging"
	"github.com/dmitrijs2005/lifevault/internal/models"
	"github.com/dmitrijs2005/lifevault/internal/repositories/records"
	"github.com/dmitrijs2005/lifevault/internal/vault"
	"github.com/google/uuid"
)

// EntryService translates between plaintext entries and encrypted records.
// Every read or write that touches a payload needs an unlocked session and
// fails with common.ErrVaultLocked otherwise.
type EntryService struct {
	db      *sql.DB
	session *vault.Session
	logger  logging.Logger
	now     func() time.Time
}

func NewEntryService(db *sql.DB, session *vault.Session, logger logging.Logger) *EntryService {
	if logger == nil {
		logger = logging.Discard()
	}
	return &EntryService{db: db, session: session, logger: logger, now: time.Now}
}

func (s *EntryService) repo(db dbx.DBTX) records.Repository {
	return records.NewSQLiteRepository(db)
}

func (s *EntryService) nowMillis() int64 {
	return s.now().UnixMilli()
}

func seal(e models.Entry, key []byte) (*models.EncryptedRecord, error) {
	enc, err := cryptox.EncryptObject(e, key)
	if err != nil {
		return nil, fmt.Errorf("encryption error: %w", err)
	}
	m := e.Meta()
	return &models.EncryptedRecord{
		ID:         m.ID,
		Date:       m.Date,
		Ciphertext: enc.Ciphertext,
		IV:         enc.IV,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}, nil
}

func open(d models.Domain, rec *models.EncryptedRecord, key []byte) (models.Entry, error) {
	e, err := models.NewEntry(d)
	if err != nil {
		return nil, err
	}
	data := cryptox.EncryptedData{Ciphertext: rec.Ciphertext, IV: rec.IV}
	if err := cryptox.DecryptObject(data, key, e); err != nil {
		return nil, fmt.Errorf("%s/%s: %w", d.Table(), rec.ID, err)
	}
	return e, nil
}

func validate(e models.Entry) error {
	if res := models.Validate(e); !res.Valid() {
		return &models.ValidationFailedError{Domain: e.Domain(), Errors: res.Errors}
	}
	return nil
}

// AddEntry assigns a new id and timestamps to e, validates, encrypts and
// stores it, and returns the id. Any id or timestamps already on e are
// overwritten.
func (s *EntryService) AddEntry(ctx context.Context, e models.Entry) (string, error) {
	key, err := s.session.Key()
	if err != nil {
		return "", err
	}
	defer common.WipeByteArray(key)
	return s.add(ctx, s.db, e, key)
}

func (s *EntryService) add(ctx context.Context, db dbx.DBTX, e models.Entry, key []byte) (string, error) {
	if err := validate(e); err != nil {
		return "", err
	}

	now := s.nowMillis()
	m := e.Meta()
	m.ID = uuid.NewString()
	m.CreatedAt = now
	m.UpdatedAt = now

	rec, err := seal(e, key)
	if err != nil {
		return "", err
	}
	if err := s.repo(db).Insert(ctx, e.Domain(), rec); err != nil {
		return "", fmt.Errorf("saving error: %w", err)
	}
	s.logger.Debug(ctx, "entry added", "domain", e.Domain(), "id", m.ID, "date", m.Date)
	return m.ID, nil
}

// GetEntry returns the decrypted entry, or (nil, nil) when id is unknown.
func (s *EntryService) GetEntry(ctx context.Context, d models.Domain, id string) (models.Entry, error) {
	key, err := s.session.Key()
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(key)

	rec, err := s.repo(s.db).GetByID(ctx, d, id)
	if err != nil {
		return nil, fmt.Errorf("error retrieving entry: %w", err)
	}
	if rec == nil {
		return nil, nil
	}
	return open(d, rec, key)
}

// UpdateEntry merges p over the stored entry, refreshes updatedAt and writes
// it back. The id and createdAt never change. The merged entry must still
// pass validation.
func (s *EntryService) UpdateEntry(ctx context.Context, d models.Domain, id string, p models.Patch) (models.Entry, error) {
	key, err := s.session.Key()
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(key)

	return dbx.WithTxValue(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) (models.Entry, error) {
		rec, err := s.repo(tx).GetByID(ctx, d, id)
		if err != nil {
			return nil, fmt.Errorf("error retrieving entry: %w", err)
		}
		if rec == nil {
			return nil, fmt.Errorf("entry %s in %s: %w", id, d.Table(), common.ErrorNotFound)
		}
		return s.mergeRecord(ctx, tx, d, rec, p, key)
	})
}

func (s *EntryService) mergeRecord(ctx context.Context, db dbx.DBTX, d models.Domain, rec *models.EncryptedRecord, p models.Patch, key []byte) (models.Entry, error) {
	e, err := open(d, rec, key)
	if err != nil {
		return nil, err
	}
	if err := models.Merge(e, p); err != nil {
		return nil, err
	}
	m := e.Meta()
	m.ID = rec.ID
	m.CreatedAt = rec.CreatedAt
	m.UpdatedAt = s.nowMillis()

	if err := validate(e); err != nil {
		return nil, err
	}
	sealed, err := seal(e, key)
	if err != nil {
		return nil, err
	}
	if err := s.repo(db).Update(ctx, d, sealed); err != nil {
		return nil, err
	}
	return e, nil
}

// DeleteEntry removes an entry. Deleting needs no key and a missing id is
// not an error.
func (s *EntryService) DeleteEntry(ctx context.Context, d models.Domain, id string) error {
	if err := s.repo(s.db).DeleteByID(ctx, d, id); err != nil {
		return fmt.Errorf("error deleting entry: %w", err)
	}
	return nil
}

// GetAllEntries decrypts every entry of d, ordered by date. A single record
// that fails to decrypt fails the whole call.
func (s *EntryService) GetAllEntries(ctx context.Context, d models.Domain) ([]models.Entry, error) {
	key, err := s.session.Key()
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(key)

	recs, err := s.repo(s.db).GetAll(ctx, d)
	if err != nil {
		return nil, err
	}
	return openAll(d, recs, key)
}

// GetEntriesByDateRange decrypts entries with start <= date <= end.
func (s *EntryService) GetEntriesByDateRange(ctx context.Context, d models.Domain, start, end string) ([]models.Entry, error) {
	key, err := s.session.Key()
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(key)

	recs, err := s.repo(s.db).GetByDateRange(ctx, d, start, end)
	if err != nil {
		return nil, err
	}
	return openAll(d, recs, key)
}

func openAll(d models.Domain, recs []models.EncryptedRecord, key []byte) ([]models.Entry, error) {
	out := make([]models.Entry, 0, len(recs))
	for i := range recs {
		e, err := open(d, &recs[i], key)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// ExistingDates returns the set of dates that already hold entries in d.
// Dates are stored in the clear, so this works while locked.
func (s *EntryService) ExistingDates(ctx context.Context, d models.Domain) (map[string]bool, error) {
	dates, err := s.repo(s.db).Dates(ctx, d)
	if err != nil {
		return nil, err
	}
	set := make(map[string]bool, len(dates))
	for _, date := range dates {
		set[date] = true
	}
	return set, nil
}

// Count returns the number of stored entries of d.
func (s *EntryService) Count(ctx context.Context, d models.Domain) (int, error) {
	return s.repo(s.db).Count(ctx, d)
}

func (s *EntryService) ClearTable(ctx context.Context, d models.Domain) error {
	return s.repo(s.db).Clear(ctx, d)
}

// ClearAllData empties every domain table in one transaction. Vault
// metadata (salt, verifier, preferences) is left alone.
func (s *EntryService) ClearAllData(ctx context.Context) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repo(tx)
		for _, d := range models.Domains {
			if err := repo.Clear(ctx, d); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.Info(ctx, "all entries cleared")
	return nil
}
