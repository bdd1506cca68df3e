package gapreport

import (
	"fmt"
	"strings"

	"github.com/mattn/go-isatty"
)

// Format selects how reports are printed.
type Format string

// Output formats.
const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// ParseFormat validates s. Empty input is allowed and means "detect".
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case FormatTable, FormatJSON, FormatYAML, "":
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q (want table, json or yaml)", ErrUnknownFormat, s)
	}
}

// DetectFormat keeps an explicit format, otherwise picks a table for a
// terminal and JSON for pipes and redirects.
func DetectFormat(explicit Format, fd uintptr) Format {
	if explicit != "" {
		return explicit
	}
	if isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd) {
		return FormatTable
	}
	return FormatJSON
}
