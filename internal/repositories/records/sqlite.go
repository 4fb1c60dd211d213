package records

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/lifevault/internal/common"
	"github.com/dmitrijs2005/lifevault/internal/dbx"
	"github.com/dmitrijs2005/lifevault/internal/models"
)

const columns = `id, date, ciphertext, iv, created_at, updated_at`

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// table returns the table of d. Table names cannot be bound as parameters,
// so only known domains ever reach a query string.
func table(d models.Domain) (string, error) {
	if !d.Valid() {
		return "", fmt.Errorf("%w: %q", common.ErrUnknownDomain, d)
	}
	return d.Table(), nil
}

func (r *SQLiteRepository) Insert(ctx context.Context, d models.Domain, rec *models.EncryptedRecord) error {
	t, err := table(d)
	if err != nil {
		return err
	}
	query := `INSERT INTO ` + t + ` (` + columns + `) VALUES (?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query, rec.ID, rec.Date, rec.Ciphertext, rec.IV, rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert %s record: %w", d, err)
	}
	return nil
}

func (r *SQLiteRepository) Update(ctx context.Context, d models.Domain, rec *models.EncryptedRecord) error {
	t, err := table(d)
	if err != nil {
		return err
	}
	query := `UPDATE ` + t + ` SET date = ?, ciphertext = ?, iv = ?, updated_at = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, rec.Date, rec.Ciphertext, rec.IV, rec.UpdatedAt, rec.ID)
	if err != nil {
		return fmt.Errorf("failed to update %s record: %w", d, err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra == 0 {
		return fmt.Errorf("%s record %s: %w", d, rec.ID, common.ErrorNotFound)
	}
	return nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, d models.Domain, id string) (*models.EncryptedRecord, error) {
	t, err := table(d)
	if err != nil {
		return nil, err
	}
	row := r.db.QueryRowContext(ctx, `SELECT `+columns+` FROM `+t+` WHERE id = ?`, id)

	rec := &models.EncryptedRecord{}
	err = row.Scan(&rec.ID, &rec.Date, &rec.Ciphertext, &rec.IV, &rec.CreatedAt, &rec.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query row scan failed: %w", err)
	}
	return rec, nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context, d models.Domain) ([]models.EncryptedRecord, error) {
	t, err := table(d)
	if err != nil {
		return nil, err
	}
	return r.query(ctx, `SELECT `+columns+` FROM `+t+` ORDER BY date, created_at`)
}

func (r *SQLiteRepository) GetByDateRange(ctx context.Context, d models.Domain, start, end string) ([]models.EncryptedRecord, error) {
	t, err := table(d)
	if err != nil {
		return nil, err
	}
	return r.query(ctx, `SELECT `+columns+` FROM `+t+` WHERE date >= ? AND date <= ? ORDER BY date, created_at`, start, end)
}

func (r *SQLiteRepository) GetByDate(ctx context.Context, d models.Domain, date string) ([]models.EncryptedRecord, error) {
	t, err := table(d)
	if err != nil {
		return nil, err
	}
	return r.query(ctx, `SELECT `+columns+` FROM `+t+` WHERE date = ? ORDER BY created_at`, date)
}

func (r *SQLiteRepository) query(ctx context.Context, query string, args ...any) ([]models.EncryptedRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select records: %w", err)
	}
	defer rows.Close()

	var result []models.EncryptedRecord
	for rows.Next() {
		var rec models.EncryptedRecord
		if err := rows.Scan(&rec.ID, &rec.Date, &rec.Ciphertext, &rec.IV, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) Dates(ctx context.Context, d models.Domain) ([]string, error) {
	t, err := table(d)
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT date FROM `+t+` ORDER BY date`)
	if err != nil {
		return nil, fmt.Errorf("failed to select dates: %w", err)
	}
	defer rows.Close()

	var dates []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		dates = append(dates, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return dates, nil
}

func (r *SQLiteRepository) Count(ctx context.Context, d models.Domain) (int, error) {
	t, err := table(d)
	if err != nil {
		return 0, err
	}
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+t).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count %s records: %w", d, err)
	}
	return n, nil
}

func (r *SQLiteRepository) DeleteByID(ctx context.Context, d models.Domain, id string) error {
	t, err := table(d)
	if err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM `+t+` WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete %s record: %w", d, err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteByDate(ctx context.Context, d models.Domain, date string) (int64, error) {
	t, err := table(d)
	if err != nil {
		return 0, err
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM `+t+` WHERE date = ?`, date)
	if err != nil {
		return 0, fmt.Errorf("failed to delete %s records on %s: %w", d, date, err)
	}
	return res.RowsAffected()
}

func (r *SQLiteRepository) Clear(ctx context.Context, d models.Domain) error {
	t, err := table(d)
	if err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM `+t); err != nil {
		return fmt.Errorf("failed to clear %s: %w", t, err)
	}
	return nil
}
