// Package pathutil rewrites manifest entry points so they stay valid once a
// package is relocated into its distribution directory.
package pathutil

import "strings"

// StripLeadingSlash removes a single leading "./" or "/" from s.
func StripLeadingSlash(s string) string {
	if strings.HasPrefix(s, "./") {
		return s[2:]
	}
	return strings.TrimPrefix(s, "/")
}

// Normalize makes path relative to outDir.
//
// Both arguments lose one leading "./" or "/", the first occurrence of the
// stripped outDir is removed from the stripped path, and any "./" or "/"
// prefixes left at the front are trimmed. A remainder of "." becomes empty.
// Dots that begin a file or directory name are kept. An empty outDir only
// performs the leading-slash normalization.
func Normalize(path, outDir string) string {
	p := StripLeadingSlash(path)
	if d := StripLeadingSlash(outDir); d != "" {
		p = strings.Replace(p, d, "", 1)
	}
	for {
		trimmed := StripLeadingSlash(p)
		if trimmed == p {
			break
		}
		p = trimmed
	}
	if p == "." {
		return ""
	}
	return p
}
