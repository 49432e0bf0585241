// Package services – BookService
//
// This file implements the BookService, which manages the book recommendation
// lifecycle. It validates the three editable fields, derives the catalog code
// from the marketplace link on every write (the code is never user-entered),
// and coordinates repository operations for the newest-first listing and for
// create, update, and delete.
//
// Service-level errors (e.g., ErrBookNotFound, ErrMissingField) are returned
// for predictable cases so handlers can map them to HTTP results consistently.
package services

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"gorm.io/gorm"

	"github.com/tbourn/go-bookfeed-backend/internal/domain"
	"github.com/tbourn/go-bookfeed-backend/internal/extract"
)

// BookRepo defines the repository contract required by BookService.
// Implementations are responsible for persistence of the book aggregate.
type BookRepo interface {
	// CreateBook inserts a new book row with a derived catalog code.
	CreateBook(ctx context.Context, db *gorm.DB, title, marketplaceURL, endorsementURL, catalogID string) (*domain.Book, error)

	// ListBooks returns all books, newest first.
	ListBooks(ctx context.Context, db *gorm.DB) ([]domain.Book, error)

	// GetBook fetches a book by ID.
	GetBook(ctx context.Context, db *gorm.DB, id string) (*domain.Book, error)

	// UpdateBook replaces the editable fields plus the derived catalog code.
	UpdateBook(ctx context.Context, db *gorm.DB, id, title, marketplaceURL, endorsementURL, catalogID string) error

	// DeleteBook removes a book by ID.
	DeleteBook(ctx context.Context, db *gorm.DB, id string) error
}

// BookInput carries the three editable fields of a book. The catalog code is
// deliberately absent: it is always recomputed from MarketplaceURL.
type BookInput struct {
	Title          string
	MarketplaceURL string
	EndorsementURL string
}

// BookService provides the feed listing and the admin create/update/delete
// operations. It owns field validation and catalog-code derivation.
type BookService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Repo is the book repository used by this service.
	Repo BookRepo
}

// NewBookService constructs a BookService.
func NewBookService(db *gorm.DB, r BookRepo) *BookService {
	return &BookService{DB: db, Repo: r}
}

// List returns every book ordered newest first. A book whose catalog code
// could not be derived carries an empty CatalogID; rows never expose null.
func (s *BookService) List(ctx context.Context) ([]domain.Book, error) {
	return s.Repo.ListBooks(ctx, s.DB)
}

// Get returns a single book by ID, or ErrBookNotFound.
func (s *BookService) Get(ctx context.Context, id string) (*domain.Book, error) {
	b, err := s.Repo.GetBook(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}
	return b, nil
}

// Create validates in and inserts a new book. The catalog code is derived
// from the marketplace link; a link matching no known shape yields an empty
// code, which is not an error. Validation failures never reach the store.
func (s *BookService) Create(ctx context.Context, in BookInput) (*domain.Book, error) {
	in = trimInput(in)
	if err := validateInput(in); err != nil {
		return nil, err
	}
	code, _ := extract.CatalogID(in.MarketplaceURL)
	return s.Repo.CreateBook(ctx, s.DB, in.Title, in.MarketplaceURL, in.EndorsementURL, code)
}

// Update replaces the three editable fields of the book identified by id and
// recomputes the catalog code from the (possibly changed) marketplace link.
// The old code is never inherited. Returns ErrBookNotFound for unknown ids.
func (s *BookService) Update(ctx context.Context, id string, in BookInput) (*domain.Book, error) {
	in = trimInput(in)
	if err := validateInput(in); err != nil {
		return nil, err
	}
	code, _ := extract.CatalogID(in.MarketplaceURL)
	if err := s.Repo.UpdateBook(ctx, s.DB, id, in.Title, in.MarketplaceURL, in.EndorsementURL, code); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}
	return s.Get(ctx, id)
}

// Delete removes the book identified by id. Returns ErrBookNotFound for
// unknown ids. Confirmation is a client concern; the service deletes exactly
// what it is told to.
func (s *BookService) Delete(ctx context.Context, id string) error {
	if err := s.Repo.DeleteBook(ctx, s.DB, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBookNotFound
		}
		return err
	}
	return nil
}

// trimInput strips surrounding whitespace from all editable fields.
func trimInput(in BookInput) BookInput {
	in.Title = strings.TrimSpace(in.Title)
	in.MarketplaceURL = strings.TrimSpace(in.MarketplaceURL)
	in.EndorsementURL = strings.TrimSpace(in.EndorsementURL)
	return in
}

// validateInput enforces the persisted-record invariants: all three fields
// non-empty, both links absolute http(s) URLs.
func validateInput(in BookInput) error {
	if in.Title == "" || in.MarketplaceURL == "" || in.EndorsementURL == "" {
		return ErrMissingField
	}
	for _, raw := range []string{in.MarketplaceURL, in.EndorsementURL} {
		u, err := url.Parse(raw)
		if err != nil || !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return ErrInvalidURL
		}
	}
	return nil
}
