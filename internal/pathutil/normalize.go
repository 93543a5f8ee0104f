// Package pathutil maps build artifacts to URL pathnames and matches pathnames against
// wildcard patterns.
package pathutil

import "strings"

// artifactPrefixes are build-output directories that never appear in public URLs.
// Order matters: the first matching prefix is stripped and no other.
var artifactPrefixes = []string{
	"server/pages/",
	"server/app/",
	"static/chunks/app/",
	"static/chunks/pages/",
	"static/",
	"server/",
}

// NormalizePath converts a file path relative to a build-output root into a canonical pathname.
//
//	index.html            -> /
//	about.html            -> /about
//	about/index.html      -> /about/
//	server/pages/a.html   -> /a
func NormalizePath(relPath string) string {
	p := strings.ReplaceAll(relPath, "\\", "/")
	p = strings.TrimPrefix(p, "./")

	for _, prefix := range artifactPrefixes {
		if strings.HasPrefix(p, prefix) {
			p = strings.TrimPrefix(p, prefix)
			break
		}
	}

	switch {
	case strings.HasSuffix(p, ".html"):
		p = strings.TrimSuffix(p, ".html")
	case strings.HasSuffix(p, ".htm"):
		p = strings.TrimSuffix(p, ".htm")
	}

	trimmed := strings.Trim(p, "/")
	if trimmed == "" || trimmed == "index" {
		return "/"
	}

	// Directory-style routes keep a trailing slash so /about/ and /about stay distinguishable.
	if strings.HasSuffix(p, "/index") {
		p = strings.TrimSuffix(p, "index")
	}

	return EnsureLeadingSlash(p)
}

// EnsureLeadingSlash returns p with exactly one leading slash.
func EnsureLeadingSlash(p string) string {
	return "/" + strings.TrimLeft(p, "/")
}
