// Embed HTTP handler.
//
// This file exposes the endpoint that resolves the endorsement-post embed
// for a single feed card:
//   - GET /books/{id}/embed
//
// Embed resolution never fails outright: when the post id cannot be
// extracted, the widget is unavailable, or rendering yields nothing, the
// response degrades to a plain-link fallback carrying the raw endorsement
// URL. The rendered/fallback split is recorded as a Prometheus counter.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-bookfeed-backend/internal/http/middleware"
	"github.com/tbourn/go-bookfeed-backend/internal/services"
)

// GetBookEmbed godoc
// @ID          getBookEmbed
// @Summary     Resolve the embed for a book
// @Description Returns the embedded endorsement post markup, or a plain-link fallback when the embed cannot be produced.
// @Tags        Books
// @Produce     json
//
// @Param       id  path  string  true  "Book ID (UUID)" format(uuid)
//
// @Success     200  {object} services.EmbedResult
// @Failure     404  {object} handlers.ErrorResponse "Book not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /books/{id}/embed [get]
func (h *Handlers) GetBookEmbed(c *gin.Context) {
	ctx := c.Request.Context()

	book, err := h.bookSvc.Get(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrBookNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "book not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}

	res := h.embedSvc.Resolve(ctx, book)
	if res.Fallback {
		middleware.CountEmbedResolution("fallback")
	} else {
		middleware.CountEmbedResolution("rendered")
	}
	ok(c, http.StatusOK, res)
}
