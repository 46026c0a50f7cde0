// Package detect decides whether fetched content is raw JSON and derives the
// title shown for a document.
package detect

import (
	"mime"
	"net/url"
	"path"
	"strings"
)

// TitleSuffix is appended to every document title.
const TitleSuffix = " – JSON Formatter"

// IsJSONContentType reports whether a Content-Type header names JSON.
// Parameters such as charset are ignored.
func IsJSONContentType(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	switch mediaType {
	case "application/json", "text/json":
		return true
	default:
		return false
	}
}

// RawJSON returns the JSON text carried by body and whether it looks like
// JSON at all. Content served as JSON is always accepted; anything else must
// start with an object or array.
func RawJSON(contentType, body string) (string, bool) {
	text := strings.TrimSpace(body)
	if text == "" {
		return "", false
	}
	if IsJSONContentType(contentType) {
		return text, true
	}
	if strings.HasPrefix(text, "{") || strings.HasPrefix(text, "[") {
		return text, true
	}
	return "", false
}

// Title derives a document title from a URL or file path: the last path
// segment, URL-decoded, or "JSON" when there is none.
func Title(location string) string {
	name := ""
	if location != "" {
		p := location
		if u, err := url.Parse(location); err == nil && u.Scheme != "" && u.Host != "" {
			p = u.EscapedPath()
		}
		p = strings.ReplaceAll(p, `\`, "/")
		if !strings.HasSuffix(p, "/") {
			name = path.Base(p)
		}
		if name == "." || name == "/" {
			name = ""
		}
		if decoded, err := url.PathUnescape(name); err == nil {
			name = decoded
		}
	}
	if name == "" {
		name = "JSON"
	}
	return name + TitleSuffix
}
