// Package records persists encrypted domain records in SQLite.
//
// Each domain has its own <domain>_logs table holding id, date, the base64
// ciphertext and IV, and creation/update timestamps. Only id and date are
// plaintext; they exist so that range queries and import conflict checks can
// run without decrypting anything.
//
// Typical usage:
//
//	repo := records.NewSQLiteRepository(db)
//	_ = repo.Insert(ctx, models.DomainHealth, rec)
//	week, _ := repo.GetByDateRange(ctx, models.DomainHealth, "2024-01-01", "2024-01-07")
//
// The repository is bound to a dbx.DBTX, so the same code runs against a
// *sql.DB or inside dbx.WithTx.
package records
