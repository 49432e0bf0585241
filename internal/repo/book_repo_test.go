package repo

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-bookfeed-backend/internal/domain"
)

func newBookRepoDB(t *testing.T, migrate ...any) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), fmt.Sprintf("book_repo_test_%d.db", time.Now().UnixNano()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	// Ensure the file handle is released before TempDir cleanup (Windows needs this).
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	if len(migrate) > 0 {
		if err := db.AutoMigrate(migrate...); err != nil {
			t.Fatalf("automigrate: %v", err)
		}
	}
	return db
}

func TestCreateBook_Error_NoTable(t *testing.T) {
	db := newBookRepoDB(t /* no migrations */)
	b, err := CreateBook(context.Background(), db, "T", "https://a", "https://x", "")
	if err == nil || b != nil {
		t.Fatalf("expected error creating without table, got book=%v err=%v", b, err)
	}
}

func TestCreateBook_Success_PersistsAndSetsFields(t *testing.T) {
	db := newBookRepoDB(t, &domain.Book{})

	start := time.Now().UTC().Add(-time.Minute)
	b, err := CreateBook(context.Background(), db,
		"The Effective Engineer",
		"https://www.amazon.com/dp/0996128107",
		"https://x.com/reader/status/123",
		"0996128107")
	if err != nil {
		t.Fatalf("CreateBook: %v", err)
	}
	if b.ID == "" || b.Title != "The Effective Engineer" || b.CatalogID != "0996128107" {
		t.Fatalf("unexpected Book fields: %+v", b)
	}
	if b.CreatedAt.Before(start) {
		t.Fatalf("CreatedAt not set: %v", b.CreatedAt)
	}

	got, err := GetBook(context.Background(), db, b.ID)
	if err != nil {
		t.Fatalf("GetBook: %v", err)
	}
	if got.MarketplaceURL != b.MarketplaceURL || got.EndorsementURL != b.EndorsementURL {
		t.Fatalf("roundtrip mismatch: %+v", got)
	}
}

func TestListBooks_NewestFirst(t *testing.T) {
	db := newBookRepoDB(t, &domain.Book{})
	ctx := context.Background()

	// Insert with explicit timestamps so ordering is deterministic.
	old := &domain.Book{ID: "b-old", Title: "Old", MarketplaceURL: "https://a/1", EndorsementURL: "https://x/1",
		CreatedAt: time.Now().UTC().Add(-time.Hour)}
	fresh := &domain.Book{ID: "b-new", Title: "New", MarketplaceURL: "https://a/2", EndorsementURL: "https://x/2",
		CreatedAt: time.Now().UTC()}
	if err := db.Create(old).Error; err != nil {
		t.Fatalf("seed old: %v", err)
	}
	if err := db.Create(fresh).Error; err != nil {
		t.Fatalf("seed fresh: %v", err)
	}

	out, err := ListBooks(ctx, db)
	if err != nil {
		t.Fatalf("ListBooks: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("len = %d; want 2", len(out))
	}
	if out[0].ID != "b-new" || out[1].ID != "b-old" {
		t.Fatalf("order = [%s %s]; want [b-new b-old]", out[0].ID, out[1].ID)
	}
}

func TestListBooks_Empty(t *testing.T) {
	db := newBookRepoDB(t, &domain.Book{})
	out, err := ListBooks(context.Background(), db)
	if err != nil {
		t.Fatalf("ListBooks: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("len = %d; want 0", len(out))
	}
}

func TestGetBook_NotFound(t *testing.T) {
	db := newBookRepoDB(t, &domain.Book{})
	if _, err := GetBook(context.Background(), db, "nope"); err != ErrNotFound {
		t.Fatalf("err = %v; want ErrNotFound", err)
	}
}

func TestUpdateBook_ReplacesEditableFieldsAndCatalogID(t *testing.T) {
	db := newBookRepoDB(t, &domain.Book{})
	ctx := context.Background()

	b, err := CreateBook(ctx, db, "Old Title", "https://a/old", "https://x/old", "OLDCODE123")
	if err != nil {
		t.Fatalf("CreateBook: %v", err)
	}

	err = UpdateBook(ctx, db, b.ID, "New Title", "https://a/new", "https://x/new", "NEWCODE456")
	if err != nil {
		t.Fatalf("UpdateBook: %v", err)
	}

	got, err := GetBook(ctx, db, b.ID)
	if err != nil {
		t.Fatalf("GetBook: %v", err)
	}
	if got.Title != "New Title" || got.MarketplaceURL != "https://a/new" ||
		got.EndorsementURL != "https://x/new" || got.CatalogID != "NEWCODE456" {
		t.Fatalf("update not applied: %+v", got)
	}
	// Allow for driver timestamp precision; CreatedAt must not move.
	if d := got.CreatedAt.Sub(b.CreatedAt); d < -time.Second || d > time.Second {
		t.Fatalf("CreatedAt changed on update: %v -> %v", b.CreatedAt, got.CreatedAt)
	}
}

func TestUpdateBook_NotFound(t *testing.T) {
	db := newBookRepoDB(t, &domain.Book{})
	err := UpdateBook(context.Background(), db, "missing", "T", "https://a", "https://x", "")
	if err != ErrNotFound {
		t.Fatalf("err = %v; want ErrNotFound", err)
	}
}

func TestDeleteBook_RemovesRow(t *testing.T) {
	db := newBookRepoDB(t, &domain.Book{})
	ctx := context.Background()

	b, err := CreateBook(ctx, db, "T", "https://a", "https://x", "")
	if err != nil {
		t.Fatalf("CreateBook: %v", err)
	}
	if err := DeleteBook(ctx, db, b.ID); err != nil {
		t.Fatalf("DeleteBook: %v", err)
	}
	if _, err := GetBook(ctx, db, b.ID); err != ErrNotFound {
		t.Fatalf("book still present after delete: err=%v", err)
	}

	out, err := ListBooks(ctx, db)
	if err != nil {
		t.Fatalf("ListBooks: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("listing still contains deleted book: %v", out)
	}
}

func TestDeleteBook_NotFound(t *testing.T) {
	db := newBookRepoDB(t, &domain.Book{})
	if err := DeleteBook(context.Background(), db, "missing"); err != ErrNotFound {
		t.Fatalf("err = %v; want ErrNotFound", err)
	}
}

func TestBooksStats(t *testing.T) {
	db := newBookRepoDB(t, &domain.Book{})
	ctx := context.Background()

	count, maxTS, err := BooksStats(ctx, db)
	if err != nil {
		t.Fatalf("BooksStats empty: %v", err)
	}
	if count != 0 || maxTS != nil {
		t.Fatalf("empty stats = (%d, %v); want (0, nil)", count, maxTS)
	}

	if _, err := CreateBook(ctx, db, "T", "https://a", "https://x", ""); err != nil {
		t.Fatalf("CreateBook: %v", err)
	}
	count, maxTS, err = BooksStats(ctx, db)
	if err != nil {
		t.Fatalf("BooksStats: %v", err)
	}
	if count != 1 || maxTS == nil {
		t.Fatalf("stats = (%d, %v); want (1, non-nil)", count, maxTS)
	}
}
