package storefront

import (
	"strings"

	"github.com/dlclark/regexp2"
)

const (
	titleOpen  = "<title>"
	titleClose = " on Steam</title>"

	// characters that are not allowed in file names on common filesystems
	forbiddenChars = `\/:*?"<>|`
)

// discounted store pages prefix the title with "Save N% on "
var discountPrefix = regexp2.MustCompile(`^Save [0-9]+% on `, regexp2.None)

// ExtractTitle returns the raw text between the store page title markers.
// This is a text search over the page, not an HTML parse: it breaks as soon
// as the store changes its title format.
func ExtractTitle(page string) (string, bool) {
	start := strings.Index(page, titleOpen)
	if start == -1 {
		return "", false
	}
	start += len(titleOpen)

	end := strings.Index(page[start:], titleClose)
	if end == -1 {
		return "", false
	}

	return page[start : start+end], true
}

// SanitizeTitle turns a raw store title into a folder name: the discount
// banner is dropped, then every forbidden file name character is removed.
func SanitizeTitle(raw string) string {
	title, err := discountPrefix.Replace(raw, "", -1, 1)
	if err != nil {
		// regexp2 only fails on match timeouts, which are not configured
		title = raw
	}

	title = strings.Map(func(r rune) rune {
		switch {
		case strings.ContainsRune(forbiddenChars, r):
			return -1
		case r == '\r' || r == '\n' || r == '\t':
			return ' '
		}
		return r
	}, title)

	return strings.TrimSpace(title)
}
