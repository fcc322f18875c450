// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package route

import (
	"strings"
)

// markdownFamily lists engine format names that produce Markdown text.
var markdownFamily = map[string]bool{
	"markdown":          true,
	"markdown_strict":   true,
	"markdown_phpextra": true,
	"markdown_mmd":      true,
	"markdown_github":   true,
	"gfm":               true,
	"commonmark":        true,
	"commonmark_x":      true,
}

// htmlFamily lists engine format names that produce HTML text.
var htmlFamily = map[string]bool{
	"html":  true,
	"html4": true,
	"html5": true,
}

// ExtensionFor maps an output format name to its canonical file extension.
// Markdown variants map to "md", HTML variants to "html". Any other format
// name maps to itself verbatim, keeping the function total: an unknown
// format is never an error, its name just doubles as the extension.
func ExtensionFor(format string) string {
	if markdownFamily[format] {
		return "md"
	}
	if htmlFamily[format] {
		return "html"
	}
	return format
}

// highlightModes maps canonical extensions to scratch-view highlight modes.
var highlightModes = map[string]string{
	"md":       "markdown",
	"html":     "html",
	"latex":    "latex",
	"tex":      "latex",
	"rst":      "rst",
	"org":      "org",
	"json":     "json",
	"ipynb":    "json",
	"plain":    "text",
	"asciidoc": "asciidoc",
}

// HighlightMode returns the scratch-view highlight mode for an output
// format, and whether one is known. Unknown formats get no highlighting.
func HighlightMode(format string) (string, bool) {
	mode, ok := highlightModes[ExtensionFor(format)]
	return mode, ok
}

// ScratchName builds the name for a scratch view from a sanitized source
// label and the target format's canonical extension.
func ScratchName(label, format string) string {
	ext := ExtensionFor(format)
	if ext == "" {
		ext = "txt"
	}
	return sanitizeLabel(label) + "." + ext
}

// sanitizeLabel strips characters that are unsafe in file names.
func sanitizeLabel(label string) string {
	if label == "" {
		return "untitled"
	}
	var b strings.Builder
	for _, r := range label {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == '_' || r == '.':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
