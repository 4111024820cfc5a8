// Package ui renders update checks for the terminal.
package ui

import (
	"fmt"
	"strings"

	appErrors "vercheck/internal/errors"
)

// Format selects how a result is written.
type Format string

const (
	// FormatText is the single-line "<version>;<url>" form.
	FormatText Format = "text"
	// FormatRich is a colored card with release notes.
	FormatRich Format = "rich"
	// FormatPlain is the card without escape sequences.
	FormatPlain Format = "plain"
	// FormatJSON is a machine-readable document.
	FormatJSON Format = "json"
)

// Formats lists the accepted formats in help order.
var Formats = []Format{FormatText, FormatRich, FormatPlain, FormatJSON}

// ParseFormat accepts a format name case-insensitively. Empty means text.
func ParseFormat(s string) (Format, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" {
		return FormatText, nil
	}
	for _, f := range Formats {
		if string(f) == name {
			return f, nil
		}
	}
	return "", appErrors.New(appErrors.CodeConfigurationError,
		fmt.Sprintf("unknown output format %q", s), nil)
}
