package render

import (
	"fmt"
	"strings"
)

// MarkdownRenderer emits GitHub-flavored markdown fragments.
type MarkdownRenderer struct{}

// Header1 renders a level-one heading.
func (renderer *MarkdownRenderer) Header1(title string) string {
	return fmt.Sprintf("# %s\n\n", title)
}

// Header2 renders a level-two heading.
func (renderer *MarkdownRenderer) Header2(title string) string {
	return fmt.Sprintf("## %s\n\n", title)
}

// Header3 renders a level-three heading.
func (renderer *MarkdownRenderer) Header3(title string) string {
	return fmt.Sprintf("### %s\n\n", title)
}

// Paragraph renders a text paragraph.
func (renderer *MarkdownRenderer) Paragraph(text string) string {
	return fmt.Sprintf("%s\n\n", text)
}

// Table renders a markdown table with a header row.
func (renderer *MarkdownRenderer) Table(headers []string, rows [][]string) string {
	var builder strings.Builder
	builder.WriteString("| " + strings.Join(headers, " | ") + " |\n")

	separators := make([]string, len(headers))
	for headerIndex := range headers {
		separators[headerIndex] = "---"
	}
	builder.WriteString("| " + strings.Join(separators, " | ") + " |\n")

	for _, row := range rows {
		builder.WriteString("| " + strings.Join(row, " | ") + " |\n")
	}
	builder.WriteString("\n")
	return builder.String()
}

// Warning renders warning-styled text carrying the shared warning marker.
func (renderer *MarkdownRenderer) Warning(text string) string {
	return fmt.Sprintf("%s %s\n\n", WarningMarker, text)
}

// Info renders informational text.
func (renderer *MarkdownRenderer) Info(text string) string {
	return fmt.Sprintf("ℹ️ %s\n\n", text)
}

// Error renders error-styled text carrying the shared error marker.
func (renderer *MarkdownRenderer) Error(text string) string {
	return fmt.Sprintf("%s %s\n\n", ErrorMarker, text)
}

// OpenSection starts an indented block quote section.
func (renderer *MarkdownRenderer) OpenSection() string {
	return ""
}

// CloseSection ends the current section.
func (renderer *MarkdownRenderer) CloseSection() string {
	return "\n"
}
