// Package extract contains the pure identifier extractors used when books
// are written and when embeds are resolved. Both functions are plain string
// pattern matches: they report "no match" through their second return value
// and leave the fallback decision to the caller.
package extract

import "regexp"

// catalogPatterns are the known product-page URL shapes, tried in order.
// Each captures a 10-character alphanumeric catalog code.
var catalogPatterns = []*regexp.Regexp{
	regexp.MustCompile(`/dp/([A-Z0-9]{10})`),
	regexp.MustCompile(`/product/([A-Z0-9]{10})`),
	regexp.MustCompile(`/gp/product/([A-Z0-9]{10})`),
	regexp.MustCompile(`asin=([A-Z0-9]{10})`),
}

// postIDPattern matches a social status URL of the form
// <host>/<user>/status/<digits> on twitter.com or x.com.
var postIDPattern = regexp.MustCompile(`(?:twitter\.com|x\.com)/\w+/status/(\d+)`)

// CatalogID extracts the 10-character catalog code from a marketplace
// product URL. It tries the known path and query shapes in order and
// returns the first capture. The boolean is false when no pattern matches;
// malformed input is just another non-match, never a panic.
func CatalogID(url string) (string, bool) {
	for _, re := range catalogPatterns {
		if m := re.FindStringSubmatch(url); m != nil {
			return m[1], true
		}
	}
	return "", false
}

// PostID extracts the numeric post identifier from a social status URL.
// The boolean is false when the URL does not have the status shape.
func PostID(url string) (string, bool) {
	if m := postIDPattern.FindStringSubmatch(url); m != nil {
		return m[1], true
	}
	return "", false
}
