// Book HTTP handlers.
//
// This file exposes the REST endpoints for the book catalog:
//   - GET    /books        (public feed listing, ETag support)
//   - POST   /books        (admin create)
//   - PUT    /books/{id}   (admin full replace)
//   - DELETE /books/{id}   (admin delete)
//
// Handlers are transport-thin: they validate input, call application
// services, and translate results into HTTP responses (including conditional
// responses).
package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-bookfeed-backend/internal/domain"
	"github.com/tbourn/go-bookfeed-backend/internal/services"
)

//
// Service contracts (context-aware)
//

// BookService defines the catalog operations consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type BookService interface {
	// List returns every book, newest first.
	List(ctx context.Context) ([]domain.Book, error)
	// Get returns one book by id.
	Get(ctx context.Context, id string) (*domain.Book, error)
	// Create validates the input and stores a new book.
	Create(ctx context.Context, in services.BookInput) (*domain.Book, error)
	// Update replaces the editable fields of an existing book.
	Update(ctx context.Context, id string, in services.BookInput) (*domain.Book, error)
	// Delete removes a book by id.
	Delete(ctx context.Context, id string) error
}

// EmbedService resolves the endorsement-post embed for one book.
type EmbedService interface {
	// Resolve never fails; it degrades to a plain-link fallback.
	Resolve(ctx context.Context, book *domain.Book) *services.EmbedResult
}

// GateService defines the admin gate operations consumed by HTTP handlers.
type GateService interface {
	// Login checks the password and issues a session token.
	Login(password string) (token string, expiresAt time.Time, err error)
	// Logout revokes a session token.
	Logout(token string)
}

// BookStats reports a cheap change signal for the feed: the row count and the
// most recent update time. It backs conditional GETs; a nil func disables the
// ETag path without affecting the listing itself.
type BookStats func(ctx context.Context) (count int64, maxUpdatedAt *time.Time, err error)

//
// Handler wiring
//

// Handlers groups the HTTP endpoints for books, embeds, and the admin gate.
// It depends on abstract service interfaces to keep transport concerns
// separate from business logic.
type Handlers struct {
	bookSvc   BookService
	embedSvc  EmbedService
	gateSvc   GateService
	bookStats BookStats
}

// New constructs a Handlers instance bound to the given services.
func New(bookSvc BookService, embedSvc EmbedService, gateSvc GateService) *Handlers {
	return &Handlers{bookSvc: bookSvc, embedSvc: embedSvc, gateSvc: gateSvc}
}

// WithBookStats enables conditional feed GETs using fn as the change signal.
func (h *Handlers) WithBookStats(fn BookStats) *Handlers {
	h.bookStats = fn
	return h
}

//
// DTOs
//

// BookRequest is the JSON payload for creating or replacing a book.
// All three fields are required; the URLs must be absolute http(s) URLs.
type BookRequest struct {
	Title          string `json:"title" binding:"required" example:"The Pragmatic Programmer"`
	MarketplaceURL string `json:"marketplace_url" binding:"required" example:"https://www.amazon.com/dp/0135957052"`
	EndorsementURL string `json:"endorsement_url" binding:"required" example:"https://x.com/user/status/1234567890"`
}

// ListBooksResponse wraps the feed listing.
type ListBooksResponse struct {
	Books []domain.Book `json:"books"`
}

//
// Handlers
//

// ListBooks godoc
// @ID          listBooks
// @Summary     List all books
// @Description Returns every book newest-first. Supports weak ETag via If-None-Match and may return 304.
// @Tags        Books
// @Produce     json
//
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"  example(W/\"books:3:1724848000123456789\")
//
// @Success     200  {object} handlers.ListBooksResponse
// @Header      200  {string} ETag "Weak ETag for current result"
// @Success     304  {string} string "Not Modified"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /books [get]
func (h *Handlers) ListBooks(c *gin.Context) {
	ctx := c.Request.Context()

	// ETag pre-check (best effort). Nanosecond precision so edits landing in
	// the same second still change the tag.
	if h.bookStats != nil {
		count, maxTS, err := h.bookStats(ctx)
		if err == nil {
			var ts int64
			if maxTS != nil {
				ts = maxTS.UnixNano()
			}
			etag := fmt.Sprintf(`W/"books:%d:%d"`, count, ts)
			c.Header("ETag", etag)
			if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
				c.Status(http.StatusNotModified)
				return
			}
		}
	}

	items, err := h.bookSvc.List(ctx)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	if items == nil {
		items = []domain.Book{}
	}
	ok(c, http.StatusOK, ListBooksResponse{Books: items})
}

// CreateBook godoc
// @ID          createBook
// @Summary     Add a book
// @Description Stores a new book recommendation. The catalog id is derived from the marketplace URL server-side.
// @Tags        Books
// @Accept      json
// @Produce     json
// @Security    AdminSession
//
// @Param       body  body  handlers.BookRequest  true  "Book payload"
//
// @Success     201  {object} domain.Book
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     401  {object} handlers.ErrorResponse "Admin session required"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /books [post]
func (h *Handlers) CreateBook(c *gin.Context) {
	var req BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "title, marketplace_url and endorsement_url are required")
		return
	}

	book, err := h.bookSvc.Create(c.Request.Context(), services.BookInput{
		Title:          req.Title,
		MarketplaceURL: req.MarketplaceURL,
		EndorsementURL: req.EndorsementURL,
	})
	if err != nil {
		if isValidationError(err) {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, err.Error())
		return
	}
	ok(c, http.StatusCreated, book)
}

// UpdateBook godoc
// @ID          updateBook
// @Summary     Replace a book
// @Description Fully replaces the editable fields of a book. The catalog id is recomputed, never inherited.
// @Tags        Books
// @Accept      json
// @Produce     json
// @Security    AdminSession
//
// @Param       id    path  string                true  "Book ID (UUID)" format(uuid)
// @Param       body  body  handlers.BookRequest  true  "Replacement payload"
//
// @Success     200  {object} domain.Book
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     401  {object} handlers.ErrorResponse "Admin session required"
// @Failure     404  {object} handlers.ErrorResponse "Book not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /books/{id} [put]
func (h *Handlers) UpdateBook(c *gin.Context) {
	id := c.Param("id")

	var req BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "title, marketplace_url and endorsement_url are required")
		return
	}

	book, err := h.bookSvc.Update(c.Request.Context(), id, services.BookInput{
		Title:          req.Title,
		MarketplaceURL: req.MarketplaceURL,
		EndorsementURL: req.EndorsementURL,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrBookNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "book not found")
		case isValidationError(err):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		default:
			fail(c, http.StatusInternalServerError, ErrCodeUpdateFailed, err.Error())
		}
		return
	}
	ok(c, http.StatusOK, book)
}

// DeleteBook godoc
// @ID          deleteBook
// @Summary     Remove a book
// @Description Deletes a book from the feed.
// @Tags        Books
// @Produce     json
// @Security    AdminSession
//
// @Param       id  path  string  true  "Book ID (UUID)" format(uuid)
//
// @Success     204  {string} string "No Content"
// @Failure     401  {object} handlers.ErrorResponse "Admin session required"
// @Failure     404  {object} handlers.ErrorResponse "Book not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /books/{id} [delete]
func (h *Handlers) DeleteBook(c *gin.Context) {
	id := c.Param("id")

	if err := h.bookSvc.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, services.ErrBookNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "book not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeDeleteFailed, err.Error())
		return
	}
	noContent(c)
}

// isValidationError reports whether err is one of the input-shape sentinels
// that map to 400 rather than 500.
func isValidationError(err error) bool {
	return errors.Is(err, services.ErrMissingField) || errors.Is(err, services.ErrInvalidURL)
}
