package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/lifevault/internal/common"
	"github.com/dmitrijs2005/lifevault/internal/dbx"
	"github.com/dmitrijs2005/lifevault/internal/models"
)

// ImportSink persists committed import rows through an EntryService.
type ImportSink struct {
	s *EntryService
}

// ImportSink returns the write side used by the import pipeline.
func (s *EntryService) ImportSink() *ImportSink {
	return &ImportSink{s: s}
}

// Insert stores p as a new entry.
func (k *ImportSink) Insert(ctx context.Context, d models.Domain, p models.Patch) error {
	if p.Domain() != d {
		return fmt.Errorf("%s row for %s import", p.Domain(), d)
	}
	_, err := k.s.AddEntry(ctx, p.Build())
	return err
}

// Replace deletes every entry on date and stores p in its place, atomically.
func (k *ImportSink) Replace(ctx context.Context, d models.Domain, date string, p models.Patch) error {
	key, err := k.s.session.Key()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(key)

	return dbx.WithTx(ctx, k.s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		n, err := k.s.repo(tx).DeleteByDate(ctx, d, date)
		if err != nil {
			return err
		}
		k.s.logger.Debug(ctx, "replacing entries", "domain", d, "date", date, "removed", n)
		_, err = k.s.add(ctx, tx, p.Build(), key)
		return err
	})
}

// Merge merges p into every entry on date. When the date turns out to be
// empty, p is inserted instead.
func (k *ImportSink) Merge(ctx context.Context, d models.Domain, date string, p models.Patch) error {
	key, err := k.s.session.Key()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(key)

	return dbx.WithTx(ctx, k.s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		recs, err := k.s.repo(tx).GetByDate(ctx, d, date)
		if err != nil {
			return err
		}
		if len(recs) == 0 {
			_, err = k.s.add(ctx, tx, p.Build(), key)
			return err
		}
		for i := range recs {
			if _, err := k.s.mergeRecord(ctx, tx, d, &recs[i], p, key); err != nil {
				return err
			}
		}
		return nil
	})
}
