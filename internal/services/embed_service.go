// Package services – EmbedService
//
// This file implements the EmbedService, which resolves the embedded
// endorsement post for a feed card. Resolution follows a fixed sequence:
// extract the post id, wait (bounded) for the widget to become ready, ask it
// to render, and fall back to a plain outbound link whenever any step cannot
// produce markup. Embed failures are never surfaced as errors: the card
// always has the direct link to offer.
package services

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tbourn/go-bookfeed-backend/internal/domain"
	"github.com/tbourn/go-bookfeed-backend/internal/extract"
	"github.com/tbourn/go-bookfeed-backend/internal/widget"
)

// EmbedResult is the outcome of resolving one card's embed.
//
// When Fallback is true, HTML is empty and the card renders URL as a plain
// link. URL always carries the original endorsement link, rendered or not,
// so the UI can offer it regardless of embed outcome.
type EmbedResult struct {
	PostID     string `json:"post_id,omitempty"`
	HTML       string `json:"html,omitempty"`
	AuthorName string `json:"author_name,omitempty"`
	Fallback   bool   `json:"fallback"`
	URL        string `json:"url"`
}

// EmbedService resolves endorsement-post embeds through an injected widget
// client, with an optional cache in front of it.
type EmbedService struct {
	// Widget is the injected embed capability.
	Widget widget.Client
	// Cache holds rendered embeds; may be nil.
	Cache *EmbedCache
	// PollInterval is the gap between widget readiness checks.
	PollInterval time.Duration
	// ReadyTimeout bounds the readiness poll before falling back.
	ReadyTimeout time.Duration
	// Opts is the fixed presentation for every card.
	Opts widget.Options
}

// NewEmbedService constructs an EmbedService with the feed's fixed
// presentation options.
func NewEmbedService(w widget.Client, cache *EmbedCache, pollInterval, readyTimeout time.Duration) *EmbedService {
	return &EmbedService{
		Widget:       w,
		Cache:        cache,
		PollInterval: pollInterval,
		ReadyTimeout: readyTimeout,
		Opts:         widget.DefaultOptions(),
	}
}

// Resolve produces the embed for book.
//
// Sequence:
//  1. Extract the post id from the endorsement URL. No match → fallback
//     immediately; the widget is never called.
//  2. Cache hit for the post id → rendered result without touching the widget.
//  3. Wait for the widget, polling every PollInterval up to ReadyTimeout.
//     Never ready in time → fallback.
//  4. Render. Errors and empty markup → fallback; otherwise the rendered
//     result is cached and returned.
//
// Resolve never returns an error: every failure path degrades to the plain
// link, and the reason is logged for diagnostics.
func (s *EmbedService) Resolve(ctx context.Context, book *domain.Book) *EmbedResult {
	fallback := &EmbedResult{Fallback: true, URL: book.EndorsementURL}

	postID, ok := extract.PostID(book.EndorsementURL)
	if !ok {
		log.Debug().Str("book_id", book.ID).Str("endorsement_url", book.EndorsementURL).
			Msg("endorsement url has no post id, using fallback link")
		return fallback
	}
	fallback.PostID = postID

	if emb := s.Cache.Get(ctx, postID); emb != nil && emb.HTML != "" {
		return s.rendered(book, emb)
	}

	if !widget.WaitReady(ctx, s.Widget, s.PollInterval, s.ReadyTimeout) {
		log.Warn().Str("book_id", book.ID).Str("post_id", postID).
			Dur("timeout", s.ReadyTimeout).Msg("widget not ready in time, using fallback link")
		return fallback
	}

	emb, err := s.Widget.RenderPost(ctx, postID, s.Opts)
	if err != nil {
		log.Warn().Err(err).Str("book_id", book.ID).Str("post_id", postID).
			Msg("widget render failed, using fallback link")
		return fallback
	}
	if emb == nil || emb.HTML == "" {
		log.Warn().Str("book_id", book.ID).Str("post_id", postID).
			Msg("widget returned no markup, using fallback link")
		return fallback
	}

	s.Cache.Put(ctx, postID, emb)
	return s.rendered(book, emb)
}

// rendered shapes a successful widget result for the card.
func (s *EmbedService) rendered(book *domain.Book, emb *widget.Embed) *EmbedResult {
	return &EmbedResult{
		PostID:     emb.PostID,
		HTML:       emb.HTML,
		AuthorName: emb.AuthorName,
		Fallback:   false,
		URL:        book.EndorsementURL,
	}
}
