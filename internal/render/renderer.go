// Package render defines the format-agnostic report renderer consumed by
// every checker and by the result aggregator, plus the markdown, plain text,
// and HTML backends. Checkers emit only structured calls; raw markup never
// crosses the package boundary.
package render

import (
	"fmt"
	"strings"
)

const (
	// WarningMarker prefixes warning-styled text; issue counting scans for it.
	WarningMarker = "⚠️"
	// ErrorMarker prefixes error-styled text; issue counting scans for it.
	ErrorMarker = "❌"

	// FormatMarkdown, FormatText, and FormatHTML name the supported output
	// formats.
	FormatMarkdown = "markdown"
	FormatText     = "text"
	FormatHTML     = "html"

	markdownAliasConstant             = "md"
	unsupportedFormatTemplateConstant = "unsupported report format %q"
)

// Renderer exposes the primitive operations used to build report fragments.
type Renderer interface {
	Header1(title string) string
	Header2(title string) string
	Header3(title string) string
	Paragraph(text string) string
	Table(headers []string, rows [][]string) string
	Warning(text string) string
	Info(text string) string
	Error(text string) string
	OpenSection() string
	CloseSection() string
}

// ContainsIssueMarker reports whether the fragment carries a warning or
// error marker. Every checker and renderer honors the same substring
// convention, so this is the single issue-detection point.
func ContainsIssueMarker(fragment string) bool {
	return strings.Contains(fragment, WarningMarker) || strings.Contains(fragment, ErrorMarker)
}

// NewRenderer builds the renderer for the requested format, accepting the
// "md" alias for markdown.
func NewRenderer(format string) (Renderer, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatMarkdown, markdownAliasConstant:
		return &MarkdownRenderer{}, nil
	case FormatText:
		return &TextRenderer{}, nil
	case FormatHTML:
		return &HTMLRenderer{}, nil
	default:
		return nil, fmt.Errorf(unsupportedFormatTemplateConstant, format)
	}
}

// NormalizeFormat canonicalizes a format selector, reporting whether it is
// supported.
func NormalizeFormat(format string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatMarkdown, markdownAliasConstant:
		return FormatMarkdown, true
	case FormatText:
		return FormatText, true
	case FormatHTML:
		return FormatHTML, true
	default:
		return "", false
	}
}

// FileExtension maps a canonical format to its report file extension.
func FileExtension(format string) string {
	switch format {
	case FormatMarkdown:
		return "md"
	case FormatText:
		return "txt"
	default:
		return "html"
	}
}
