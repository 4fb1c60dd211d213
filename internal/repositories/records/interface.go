package records

import (
	"context"

	"github.com/dmitrijs2005/lifevault/internal/models"
)

// Repository stores encrypted records, one table per domain.
type Repository interface {
	// Insert adds a new record. Inserting an existing id fails.
	Insert(ctx context.Context, d models.Domain, rec *models.EncryptedRecord) error

	// Update overwrites date, payload and updated_at of an existing record.
	// It returns common.ErrorNotFound when no row has rec.ID.
	Update(ctx context.Context, d models.Domain, rec *models.EncryptedRecord) error

	// GetByID returns (nil, nil) when the record does not exist.
	GetByID(ctx context.Context, d models.Domain, id string) (*models.EncryptedRecord, error)

	// GetAll returns every record ordered by date.
	GetAll(ctx context.Context, d models.Domain) ([]models.EncryptedRecord, error)

	// GetByDateRange returns records with start <= date <= end, ordered by date.
	GetByDateRange(ctx context.Context, d models.Domain, start, end string) ([]models.EncryptedRecord, error)

	// GetByDate returns all records on a single day.
	GetByDate(ctx context.Context, d models.Domain, date string) ([]models.EncryptedRecord, error)

	// Dates returns the distinct dates that have at least one record.
	Dates(ctx context.Context, d models.Domain) ([]string, error)

	// Count returns the number of stored records.
	Count(ctx context.Context, d models.Domain) (int, error)

	// DeleteByID removes a record; deleting a missing id is not an error.
	DeleteByID(ctx context.Context, d models.Domain, id string) error

	// DeleteByDate removes every record on date and reports how many went.
	DeleteByDate(ctx context.Context, d models.Domain, date string) (int64, error)

	// Clear empties the domain table.
	Clear(ctx context.Context, d models.Domain) error
}
