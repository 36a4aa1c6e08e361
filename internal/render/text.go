package render

import (
	"fmt"
	"strings"
)

const textColumnSeparatorConstant = " | "

// TextRenderer emits plain-text fragments.
type TextRenderer struct{}

// Header1 renders a level-one heading with full underline.
func (renderer *TextRenderer) Header1(title string) string {
	return fmt.Sprintf("%s\n%s\n\n", title, strings.Repeat("=", len([]rune(title))))
}

// Header2 renders a level-two heading with light underline.
func (renderer *TextRenderer) Header2(title string) string {
	return fmt.Sprintf("%s\n%s\n\n", title, strings.Repeat("-", len([]rune(title))))
}

// Header3 renders a level-three heading.
func (renderer *TextRenderer) Header3(title string) string {
	return fmt.Sprintf("%s\n\n", title)
}

// Paragraph renders a text paragraph.
func (renderer *TextRenderer) Paragraph(text string) string {
	return fmt.Sprintf("%s\n\n", text)
}

// Table renders rows as separator-joined lines under a header line.
func (renderer *TextRenderer) Table(headers []string, rows [][]string) string {
	var builder strings.Builder
	builder.WriteString(strings.Join(headers, textColumnSeparatorConstant) + "\n")
	for _, row := range rows {
		builder.WriteString(strings.Join(row, textColumnSeparatorConstant) + "\n")
	}
	builder.WriteString("\n")
	return builder.String()
}

// Warning renders warning-styled text carrying the shared warning marker.
func (renderer *TextRenderer) Warning(text string) string {
	return fmt.Sprintf("%s %s\n", WarningMarker, text)
}

// Info renders informational text.
func (renderer *TextRenderer) Info(text string) string {
	return fmt.Sprintf("%s\n", text)
}

// Error renders error-styled text carrying the shared error marker.
func (renderer *TextRenderer) Error(text string) string {
	return fmt.Sprintf("%s %s\n", ErrorMarker, text)
}

// OpenSection starts an indented section.
func (renderer *TextRenderer) OpenSection() string {
	return ""
}

// CloseSection ends the current section.
func (renderer *TextRenderer) CloseSection() string {
	return "\n"
}
