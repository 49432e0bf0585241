package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-bookfeed-backend/internal/domain"
	"github.com/tbourn/go-bookfeed-backend/internal/repo"
	"github.com/tbourn/go-bookfeed-backend/internal/services"
)

// ---------- test DB + repo shim ----------

func newBookDB(t *testing.T) *gorm.DB {
	t.Helper()

	// Unique DSN per call to avoid cross-test contamination
	dsn := fmt.Sprintf("file:book_handlers_%s?mode=memory&cache=shared", uuid.NewString())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&domain.Book{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// Minimal shim implementing services.BookRepo using the repo package,
// mirroring the wiring in router.go.
type testBookRepo struct{}

func (testBookRepo) CreateBook(ctx context.Context, db *gorm.DB, title, marketplaceURL, endorsementURL, catalogID string) (*domain.Book, error) {
	return repo.CreateBook(ctx, db, title, marketplaceURL, endorsementURL, catalogID)
}

func (testBookRepo) ListBooks(ctx context.Context, db *gorm.DB) ([]domain.Book, error) {
	return repo.ListBooks(ctx, db)
}

func (testBookRepo) GetBook(ctx context.Context, db *gorm.DB, id string) (*domain.Book, error) {
	return repo.GetBook(ctx, db, id)
}

func (testBookRepo) UpdateBook(ctx context.Context, db *gorm.DB, id, title, marketplaceURL, endorsementURL, catalogID string) error {
	return repo.UpdateBook(ctx, db, id, title, marketplaceURL, endorsementURL, catalogID)
}

func (testBookRepo) DeleteBook(ctx context.Context, db *gorm.DB, id string) error {
	return repo.DeleteBook(ctx, db, id)
}

// ---------- flexible service stubs ----------

type stubBookSvc struct {
	list   func(context.Context) ([]domain.Book, error)
	get    func(context.Context, string) (*domain.Book, error)
	create func(context.Context, services.BookInput) (*domain.Book, error)
	update func(context.Context, string, services.BookInput) (*domain.Book, error)
	del    func(context.Context, string) error
}

func (s stubBookSvc) List(ctx context.Context) ([]domain.Book, error) {
	if s.list != nil {
		return s.list(ctx)
	}
	return nil, nil
}

func (s stubBookSvc) Get(ctx context.Context, id string) (*domain.Book, error) {
	if s.get != nil {
		return s.get(ctx, id)
	}
	return &domain.Book{ID: id}, nil
}

func (s stubBookSvc) Create(ctx context.Context, in services.BookInput) (*domain.Book, error) {
	if s.create != nil {
		return s.create(ctx, in)
	}
	return &domain.Book{ID: "b1", Title: in.Title}, nil
}

func (s stubBookSvc) Update(ctx context.Context, id string, in services.BookInput) (*domain.Book, error) {
	if s.update != nil {
		return s.update(ctx, id, in)
	}
	return &domain.Book{ID: id, Title: in.Title}, nil
}

func (s stubBookSvc) Delete(ctx context.Context, id string) error {
	if s.del != nil {
		return s.del(ctx, id)
	}
	return nil
}

type stubEmbedSvc struct {
	resolve func(context.Context, *domain.Book) *services.EmbedResult
}

func (s stubEmbedSvc) Resolve(ctx context.Context, b *domain.Book) *services.EmbedResult {
	if s.resolve != nil {
		return s.resolve(ctx, b)
	}
	return &services.EmbedResult{Fallback: true, URL: b.EndorsementURL}
}

type stubGateSvc struct {
	login  func(string) (string, time.Time, error)
	logout func(string)
}

func (s stubGateSvc) Login(password string) (string, time.Time, error) {
	if s.login != nil {
		return s.login(password)
	}
	return "tok", time.Now().Add(time.Hour), nil
}

func (s stubGateSvc) Logout(token string) {
	if s.logout != nil {
		s.logout(token)
	}
}

// ---------- router helper ----------

func newBookRouter(h *Handlers) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/books", h.ListBooks)
	r.POST("/books", h.CreateBook)
	r.PUT("/books/:id", h.UpdateBook)
	r.DELETE("/books/:id", h.DeleteBook)
	r.GET("/books/:id/embed", h.GetBookEmbed)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ---------- tests ----------

func TestListBooks_EmptyFeedIsEmptyArray(t *testing.T) {
	h := New(stubBookSvc{}, stubEmbedSvc{}, stubGateSvc{})
	r := newBookRouter(h)

	w := doJSON(t, r, http.MethodGet, "/books", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp ListBooksResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if resp.Books == nil || len(resp.Books) != 0 {
		t.Fatalf("expected empty array, got %v", resp.Books)
	}
}

func TestListBooks_ServiceErrorIs500(t *testing.T) {
	h := New(stubBookSvc{
		list: func(context.Context) ([]domain.Book, error) { return nil, fmt.Errorf("boom") },
	}, stubEmbedSvc{}, stubGateSvc{})
	r := newBookRouter(h)

	w := doJSON(t, r, http.MethodGet, "/books", nil)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	var er ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &er); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if er.Code != ErrCodeListFailed {
		t.Fatalf("expected code %q, got %q", ErrCodeListFailed, er.Code)
	}
}

func TestListBooks_ETagAndNotModified(t *testing.T) {
	db := newBookDB(t)
	svc := services.NewBookService(db, testBookRepo{})
	h := New(svc, stubEmbedSvc{}, stubGateSvc{}).
		WithBookStats(func(ctx context.Context) (int64, *time.Time, error) {
			return repo.BooksStats(ctx, db)
		})
	r := newBookRouter(h)

	if _, err := svc.Create(context.Background(), services.BookInput{
		Title:          "The Pragmatic Programmer",
		MarketplaceURL: "https://www.amazon.com/dp/0135957052",
		EndorsementURL: "https://x.com/user/status/1234567890",
	}); err != nil {
		t.Fatalf("seed book: %v", err)
	}

	w1 := doJSON(t, r, http.MethodGet, "/books", nil)
	if w1.Code != http.StatusOK {
		t.Fatalf("first list should be 200, got %d", w1.Code)
	}
	etag := w1.Header().Get("ETag")
	if etag == "" {
		t.Fatalf("expected ETag on listing")
	}

	req := httptest.NewRequest(http.MethodGet, "/books", nil)
	req.Header.Set("If-None-Match", etag)
	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, req)
	if w2.Code != http.StatusNotModified {
		t.Fatalf("expected 304 with matching ETag, got %d", w2.Code)
	}

	// A write invalidates the tag.
	if _, err := svc.Create(context.Background(), services.BookInput{
		Title:          "Clean Code",
		MarketplaceURL: "https://www.amazon.com/dp/0132350882",
		EndorsementURL: "https://x.com/user/status/987654321",
	}); err != nil {
		t.Fatalf("seed second book: %v", err)
	}
	req3 := httptest.NewRequest(http.MethodGet, "/books", nil)
	req3.Header.Set("If-None-Match", etag)
	w3 := httptest.NewRecorder()
	r.ServeHTTP(w3, req3)
	if w3.Code != http.StatusOK {
		t.Fatalf("expected 200 after write, got %d", w3.Code)
	}
}

func TestListBooks_ETagWorksThroughStubService(t *testing.T) {
	ts := time.Now()
	h := New(stubBookSvc{}, stubEmbedSvc{}, stubGateSvc{}).
		WithBookStats(func(context.Context) (int64, *time.Time, error) {
			return 1, &ts, nil
		})
	r := newBookRouter(h)

	w := doJSON(t, r, http.MethodGet, "/books", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w.Header().Get("ETag") == "" {
		t.Fatalf("expected ETag even with a non-concrete book service")
	}
}

func TestListBooks_ETagChangesWithinSameSecond(t *testing.T) {
	ts := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	h := New(stubBookSvc{}, stubEmbedSvc{}, stubGateSvc{}).
		WithBookStats(func(context.Context) (int64, *time.Time, error) {
			return 1, &ts, nil
		})
	r := newBookRouter(h)

	w1 := doJSON(t, r, http.MethodGet, "/books", nil)
	etag := w1.Header().Get("ETag")
	if etag == "" {
		t.Fatalf("expected ETag on first listing")
	}

	// An edit landing later within the same wall-clock second must still
	// invalidate the tag.
	ts = ts.Add(500 * time.Millisecond)
	req := httptest.NewRequest(http.MethodGet, "/books", nil)
	req.Header.Set("If-None-Match", etag)
	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, req)
	if w2.Code != http.StatusOK {
		t.Fatalf("expected 200 after sub-second update, got %d", w2.Code)
	}
	if got := w2.Header().Get("ETag"); got == etag {
		t.Fatalf("tag did not change across a sub-second update: %q", got)
	}
}

func TestCreateBook_Success(t *testing.T) {
	var gotInput services.BookInput
	h := New(stubBookSvc{
		create: func(_ context.Context, in services.BookInput) (*domain.Book, error) {
			gotInput = in
			return &domain.Book{ID: "b1", Title: in.Title, CatalogID: "0135957052"}, nil
		},
	}, stubEmbedSvc{}, stubGateSvc{})
	r := newBookRouter(h)

	w := doJSON(t, r, http.MethodPost, "/books", BookRequest{
		Title:          "The Pragmatic Programmer",
		MarketplaceURL: "https://www.amazon.com/dp/0135957052",
		EndorsementURL: "https://x.com/user/status/1234567890",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", w.Code, w.Body.String())
	}
	if gotInput.Title != "The Pragmatic Programmer" {
		t.Fatalf("service received wrong input: %+v", gotInput)
	}
	var book domain.Book
	if err := json.Unmarshal(w.Body.Bytes(), &book); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if book.CatalogID != "0135957052" {
		t.Fatalf("expected catalog id in response, got %q", book.CatalogID)
	}
}

func TestCreateBook_MissingFieldsAre400(t *testing.T) {
	h := New(stubBookSvc{}, stubEmbedSvc{}, stubGateSvc{})
	r := newBookRouter(h)

	w := doJSON(t, r, http.MethodPost, "/books", map[string]string{"title": "only a title"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestCreateBook_ValidationSentinelIs400(t *testing.T) {
	h := New(stubBookSvc{
		create: func(context.Context, services.BookInput) (*domain.Book, error) {
			return nil, fmt.Errorf("marketplace_url: %w", services.ErrInvalidURL)
		},
	}, stubEmbedSvc{}, stubGateSvc{})
	r := newBookRouter(h)

	w := doJSON(t, r, http.MethodPost, "/books", BookRequest{
		Title:          "X",
		MarketplaceURL: "not-a-url",
		EndorsementURL: "https://x.com/user/status/1",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid URL, got %d", w.Code)
	}
}

func TestUpdateBook_NotFoundIs404(t *testing.T) {
	h := New(stubBookSvc{
		update: func(context.Context, string, services.BookInput) (*domain.Book, error) {
			return nil, services.ErrBookNotFound
		},
	}, stubEmbedSvc{}, stubGateSvc{})
	r := newBookRouter(h)

	w := doJSON(t, r, http.MethodPut, "/books/missing", BookRequest{
		Title:          "X",
		MarketplaceURL: "https://www.amazon.com/dp/0135957052",
		EndorsementURL: "https://x.com/user/status/1",
	})
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestUpdateBook_ReturnsUpdatedRow(t *testing.T) {
	h := New(stubBookSvc{
		update: func(_ context.Context, id string, in services.BookInput) (*domain.Book, error) {
			return &domain.Book{ID: id, Title: in.Title}, nil
		},
	}, stubEmbedSvc{}, stubGateSvc{})
	r := newBookRouter(h)

	w := doJSON(t, r, http.MethodPut, "/books/b1", BookRequest{
		Title:          "New Title",
		MarketplaceURL: "https://www.amazon.com/dp/0135957052",
		EndorsementURL: "https://x.com/user/status/1",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var book domain.Book
	if err := json.Unmarshal(w.Body.Bytes(), &book); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if book.ID != "b1" || book.Title != "New Title" {
		t.Fatalf("unexpected body: %+v", book)
	}
}

func TestDeleteBook_NoContentAndNotFound(t *testing.T) {
	var deleted string
	h := New(stubBookSvc{
		del: func(_ context.Context, id string) error {
			if deleted != "" {
				return services.ErrBookNotFound
			}
			deleted = id
			return nil
		},
	}, stubEmbedSvc{}, stubGateSvc{})
	r := newBookRouter(h)

	w := doJSON(t, r, http.MethodDelete, "/books/b1", nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	if deleted != "b1" {
		t.Fatalf("expected delete keyed by id, got %q", deleted)
	}

	w2 := doJSON(t, r, http.MethodDelete, "/books/b1", nil)
	if w2.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on second delete, got %d", w2.Code)
	}
}
