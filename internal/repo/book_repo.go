// Package repo implements the data persistence layer for the book feed,
// backed by GORM. This file provides repository functions for the Book model.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations.
// They follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When a book is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-bookfeed-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// CreateBook inserts a new Book row. The book ID is a randomly generated
// UUID (string), and CreatedAt is set to UTC. The caller is expected to have
// validated the fields and derived catalogID already.
//
// On success, it returns the persisted Book. On failure, it returns a DB error.
func CreateBook(ctx context.Context, db *gorm.DB, title, marketplaceURL, endorsementURL, catalogID string) (*domain.Book, error) {
	b := &domain.Book{
		ID:             uuid.NewString(),
		Title:          title,
		MarketplaceURL: marketplaceURL,
		EndorsementURL: endorsementURL,
		CatalogID:      catalogID,
		CreatedAt:      time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(b).Error; err != nil {
		return nil, err
	}
	return b, nil
}

// ListBooks returns all books ordered by creation time descending (most
// recent first). It returns an empty slice when the feed is empty. On DB
// error, it returns the error.
func ListBooks(ctx context.Context, db *gorm.DB) ([]domain.Book, error) {
	var out []domain.Book
	err := db.WithContext(ctx).
		Order("created_at desc").
		Find(&out).Error
	return out, err
}

// GetBook fetches a single book by its ID. If the record does not exist,
// it returns ErrNotFound. On other DB errors, the raw error is returned.
func GetBook(ctx context.Context, db *gorm.DB, id string) (*domain.Book, error) {
	var b domain.Book
	err := db.WithContext(ctx).
		Where("id = ?", id).
		First(&b).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// UpdateBook replaces the three editable fields of a book plus the derived
// catalog code. If no rows are affected (book missing), it returns
// ErrNotFound. On DB error, the raw error is returned.
//
// CreatedAt is never touched; UpdatedAt is maintained by GORM.
func UpdateBook(ctx context.Context, db *gorm.DB, id, title, marketplaceURL, endorsementURL, catalogID string) error {
	res := db.WithContext(ctx).
		Model(&domain.Book{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"title":           title,
			"marketplace_url": marketplaceURL,
			"endorsement_url": endorsementURL,
			"catalog_id":      catalogID,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteBook removes a book by ID. If no rows are affected (book missing),
// it returns ErrNotFound. On DB error, the raw error is returned.
func DeleteBook(ctx context.Context, db *gorm.DB, id string) error {
	res := db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&domain.Book{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// BooksStats returns aggregate metadata for the feed: the total number of
// rows and the maximum UpdatedAt timestamp among them. It backs weak ETag
// generation for the listing endpoint; the timestamp keeps the driver's full
// sub-second precision so same-second edits remain distinguishable. When the
// feed is empty, the returned count is 0 and maxUpdatedAt is nil.
func BooksStats(ctx context.Context, db *gorm.DB) (count int64, maxUpdatedAt *time.Time, err error) {
	q := db.WithContext(ctx).Model(&domain.Book{})

	if err = q.Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	// Get latest updated_at (avoid MAX() -> TEXT in SQLite)
	var row struct {
		UpdatedAt time.Time
	}
	if err = q.Select("updated_at").Order("updated_at DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.UpdatedAt, nil
}
