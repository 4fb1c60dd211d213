package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/lifevault/internal/cryptox"
	"github.com/dmitrijs2005/lifevault/internal/dbx"
	"github.com/dmitrijs2005/lifevault/internal/models"
)

// ReEncryptAllData rotates every record of every domain from oldKey to
// newKey in a single transaction. See ReEncryptAllDataTx.
func (s *EntryService) ReEncryptAllData(ctx context.Context, oldKey, newKey []byte) (*models.ReEncryptResult, error) {
	return dbx.WithTxValue(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) (*models.ReEncryptResult, error) {
		return s.ReEncryptAllDataTx(ctx, tx, oldKey, newKey)
	})
}

// ReEncryptAllDataTx rotates every record through tx. Payloads are re-sealed
// byte for byte; id, date and createdAt are kept and updatedAt is refreshed.
// A record that fails is reported as "table/id: reason" and the batch moves
// on. Cancellation and listing errors abort the batch, and the caller must
// roll tx back.
func (s *EntryService) ReEncryptAllDataTx(ctx context.Context, tx dbx.DBTX, oldKey, newKey []byte) (*models.ReEncryptResult, error) {
	res := &models.ReEncryptResult{Errors: []string{}}
	repo := s.repo(tx)

	for _, d := range models.Domains {
		recs, err := repo.GetAll(ctx, d)
		if err != nil {
			return nil, fmt.Errorf("listing %s: %w", d.Table(), err)
		}

		for i := range recs {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			rec := &recs[i]
			if err := s.reEncryptRecord(ctx, tx, d, rec, oldKey, newKey); err != nil {
				res.Errors = append(res.Errors, fmt.Sprintf("%s/%s: %v", d.Table(), rec.ID, err))
				continue
			}
			res.TotalRecords++
		}
	}

	s.logger.Info(ctx, "re-encryption finished", "records", res.TotalRecords, "failed", len(res.Errors))
	return res, nil
}

func (s *EntryService) reEncryptRecord(ctx context.Context, tx dbx.DBTX, d models.Domain, rec *models.EncryptedRecord, oldKey, newKey []byte) error {
	plain, err := cryptox.Decrypt(cryptox.EncryptedData{Ciphertext: rec.Ciphertext, IV: rec.IV}, oldKey)
	if err != nil {
		return err
	}
	enc, err := cryptox.Encrypt(plain, newKey)
	if err != nil {
		return err
	}
	rec.Ciphertext = enc.Ciphertext
	rec.IV = enc.IV
	rec.UpdatedAt = s.nowMillis()
	return s.repo(tx).Update(ctx, d, rec)
}
