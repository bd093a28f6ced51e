// Package pathutil converts between stored entry names and slash-separated
// fs.FS paths.
package pathutil

import "strings"

// IsSeparator reports whether c separates path elements in an entry name.
// Names written by Windows tooling use '\', others '/'.
func IsSeparator(c rune) bool {
	return c == '/' || c == '\\'
}

// Rooted reports whether name starts with a separator.
func Rooted(name string) bool {
	return name != "" && IsSeparator(rune(name[0]))
}

// Elements returns the non-empty elements of name.
func Elements(name string) []string {
	return strings.FieldsFunc(name, IsSeparator)
}

// WithSeparator rewrites a slash-separated path to use sep.
func WithSeparator(path string, sep rune) string {
	if sep == '/' {
		return path
	}
	return strings.ReplaceAll(path, "/", string(sep))
}
