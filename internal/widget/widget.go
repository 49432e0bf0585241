// Package widget abstracts the third-party post-embedding capability behind
// an injected Client interface. The production implementation talks to the
// publisher's oEmbed endpoint; tests substitute fakes. Keeping the widget
// behind an interface (instead of shared global state) lets the embed service
// poll for readiness with an explicit bound and decide its own fallback.
package widget

import "context"

// Options control how a rendered post is presented. The feed always renders
// with the same fixed presentation: light theme, centered at full width,
// without the surrounding conversation thread.
type Options struct {
	// Theme is the rendering theme, "light" or "dark".
	Theme string
	// Align positions the embed within its container ("left"|"center"|"right").
	Align string
	// HideThread omits the conversation above the post.
	HideThread bool
	// OmitScript skips the loader script in the returned markup. The feed
	// loads the shared script once per page, so per-card markup never
	// includes it.
	OmitScript bool
}

// DefaultOptions returns the fixed presentation used by feed cards.
func DefaultOptions() Options {
	return Options{
		Theme:      "light",
		Align:      "center",
		HideThread: true,
		OmitScript: true,
	}
}

// Embed is the rendered result for a single post.
//
// HTML may be empty even on a successful call; callers must treat an empty
// result as "nothing to show" and fall back to a plain link.
type Embed struct {
	// PostID is the numeric post identifier that was rendered.
	PostID string `json:"post_id"`
	// HTML is the embeddable markup returned by the widget.
	HTML string `json:"html"`
	// AuthorName is the display name of the post author, when known.
	AuthorName string `json:"author_name,omitempty"`
	// URL is the canonical URL of the post.
	URL string `json:"url,omitempty"`
}

// Client is the injected widget capability.
//
// Implementations must be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type Client interface {
	// Ready reports whether the widget can currently render posts.
	// Implementations should make Ready cheap once it has succeeded once.
	Ready(ctx context.Context) bool

	// RenderPost renders the post identified by postID with the given
	// presentation options. A nil error with empty HTML means the widget
	// had nothing to render for this post.
	RenderPost(ctx context.Context, postID string, opts Options) (*Embed, error)
}
