// oEmbed-backed widget client.
//
// OEmbedClient implements Client against the publisher's oEmbed endpoint
// (https://publish.twitter.com/oembed by default). Readiness is probed with a
// lightweight request and latched: once the upstream has answered anything at
// all, the client stays ready for its lifetime.
package widget

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync/atomic"
	"time"
)

// OEmbedClient renders posts through an oEmbed HTTP endpoint.
type OEmbedClient struct {
	endpoint string
	http     *http.Client
	ready    atomic.Bool
}

// NewOEmbedClient constructs an OEmbedClient for the given endpoint with a
// per-request timeout.
func NewOEmbedClient(endpoint string, timeout time.Duration) *OEmbedClient {
	return &OEmbedClient{
		endpoint: endpoint,
		http:     &http.Client{Timeout: timeout},
	}
}

// Ready probes the oEmbed endpoint once and latches the result. Any HTTP
// response (including 4xx) counts as ready: it proves the upstream is
// reachable, which is all the poll is waiting for. Transport failures
// (DNS, connect, timeout) leave the client not ready.
func (c *OEmbedClient) Ready(ctx context.Context) bool {
	if c.ready.Load() {
		return true
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.endpoint, nil)
	if err != nil {
		return false
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return false
	}
	_ = resp.Body.Close()
	c.ready.Store(true)
	return true
}

// oembedResponse is the subset of the oEmbed payload the feed consumes.
type oembedResponse struct {
	URL        string `json:"url"`
	AuthorName string `json:"author_name"`
	HTML       string `json:"html"`
}

// RenderPost fetches embeddable markup for postID. The post URL handed to the
// endpoint uses the canonical /i/status/ form, which resolves regardless of
// the author's handle.
//
// Errors are returned for transport failures and non-2xx responses; a 2xx
// response with empty markup is returned as-is so the caller can fall back.
func (c *OEmbedClient) RenderPost(ctx context.Context, postID string, opts Options) (*Embed, error) {
	q := url.Values{}
	q.Set("url", "https://twitter.com/i/status/"+postID)
	if opts.Theme != "" {
		q.Set("theme", opts.Theme)
	}
	if opts.Align != "" {
		q.Set("align", opts.Align)
	}
	if opts.HideThread {
		q.Set("hide_thread", "true")
	}
	if opts.OmitScript {
		q.Set("omit_script", "true")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("oembed: unexpected status %d for post %s", resp.StatusCode, postID)
	}

	var body oembedResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("oembed: decode response: %w", err)
	}

	return &Embed{
		PostID:     postID,
		HTML:       body.HTML,
		AuthorName: body.AuthorName,
		URL:        body.URL,
	}, nil
}
