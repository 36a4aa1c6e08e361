package render

import (
	"fmt"
	"html"
	"strings"
)

// HTMLRenderer emits escaped HTML fragments. Document shell and styling are
// added by the report writer, not here.
type HTMLRenderer struct{}

// Header1 renders a level-one heading.
func (renderer *HTMLRenderer) Header1(title string) string {
	return fmt.Sprintf("<h1>%s</h1>\n", html.EscapeString(title))
}

// Header2 renders a level-two heading.
func (renderer *HTMLRenderer) Header2(title string) string {
	return fmt.Sprintf("<h2>%s</h2>\n", html.EscapeString(title))
}

// Header3 renders a level-three heading.
func (renderer *HTMLRenderer) Header3(title string) string {
	return fmt.Sprintf("<h3>%s</h3>\n", html.EscapeString(title))
}

// Paragraph renders a text paragraph.
func (renderer *HTMLRenderer) Paragraph(text string) string {
	return fmt.Sprintf("<p>%s</p>\n", html.EscapeString(text))
}

// Table renders an HTML table with a header row.
func (renderer *HTMLRenderer) Table(headers []string, rows [][]string) string {
	var builder strings.Builder
	builder.WriteString("<table>\n<tr>")
	for _, header := range headers {
		builder.WriteString("<th>" + html.EscapeString(header) + "</th>")
	}
	builder.WriteString("</tr>\n")
	for _, row := range rows {
		builder.WriteString("<tr>")
		for _, cell := range row {
			builder.WriteString("<td>" + html.EscapeString(cell) + "</td>")
		}
		builder.WriteString("</tr>\n")
	}
	builder.WriteString("</table>\n")
	return builder.String()
}

// Warning renders warning-styled text carrying the shared warning marker.
func (renderer *HTMLRenderer) Warning(text string) string {
	return fmt.Sprintf("<p class=\"warning\">%s %s</p>\n", WarningMarker, html.EscapeString(text))
}

// Info renders informational text.
func (renderer *HTMLRenderer) Info(text string) string {
	return fmt.Sprintf("<p class=\"info\">%s</p>\n", html.EscapeString(text))
}

// Error renders error-styled text carrying the shared error marker.
func (renderer *HTMLRenderer) Error(text string) string {
	return fmt.Sprintf("<p class=\"error\">%s %s</p>\n", ErrorMarker, html.EscapeString(text))
}

// OpenSection starts an indented section.
func (renderer *HTMLRenderer) OpenSection() string {
	return "<div class=\"section\">\n"
}

// CloseSection ends the current section.
func (renderer *HTMLRenderer) CloseSection() string {
	return "</div>\n"
}
