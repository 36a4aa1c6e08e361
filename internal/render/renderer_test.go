package render_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/wscheck/internal/render"
)

func TestNewRendererSupportedFormats(testInstance *testing.T) {
	testCases := []struct {
		name         string
		format       string
		expectsError bool
	}{
		{name: "markdown", format: "markdown", expectsError: false},
		{name: "markdown_alias", format: "md", expectsError: false},
		{name: "text", format: "text", expectsError: false},
		{name: "html", format: "HTML", expectsError: false},
		{name: "unsupported", format: "pdf", expectsError: true},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subTest *testing.T) {
			renderer, creationError := render.NewRenderer(testCase.format)
			if testCase.expectsError {
				require.Error(subTest, creationError)
				return
			}
			require.NoError(subTest, creationError)
			require.NotNil(subTest, renderer)
		})
	}
}

func TestContainsIssueMarker(testInstance *testing.T) {
	markdownRenderer := &render.MarkdownRenderer{}
	require.True(testInstance, render.ContainsIssueMarker(markdownRenderer.Warning("outdated dependency")))
	require.True(testInstance, render.ContainsIssueMarker(markdownRenderer.Error("checker failed")))
	require.False(testInstance, render.ContainsIssueMarker(markdownRenderer.Info("all good")))
	require.False(testInstance, render.ContainsIssueMarker(""))
}

func TestMarkdownTable(testInstance *testing.T) {
	markdownRenderer := &render.MarkdownRenderer{}
	table := markdownRenderer.Table([]string{"Group", "Artifact"}, [][]string{{"org.demo", "widget"}})
	require.Contains(testInstance, table, "| Group | Artifact |")
	require.Contains(testInstance, table, "| --- | --- |")
	require.Contains(testInstance, table, "| org.demo | widget |")
}

func TestHTMLRendererEscapesContent(testInstance *testing.T) {
	htmlRenderer := &render.HTMLRenderer{}
	paragraph := htmlRenderer.Paragraph("<script>alert(1)</script>")
	require.NotContains(testInstance, paragraph, "<script>")
	require.Contains(testInstance, paragraph, "&lt;script&gt;")
}

func TestNormalizeFormat(testInstance *testing.T) {
	canonicalFormat, supported := render.NormalizeFormat("MD")
	require.True(testInstance, supported)
	require.Equal(testInstance, render.FormatMarkdown, canonicalFormat)

	_, unsupported := render.NormalizeFormat("pdf")
	require.False(testInstance, unsupported)
}

func TestTextHeadersUnderlined(testInstance *testing.T) {
	textRenderer := &render.TextRenderer{}
	header := textRenderer.Header1("Report")
	lines := strings.Split(header, "\n")
	require.Equal(testInstance, "Report", lines[0])
	require.Equal(testInstance, "======", lines[1])
}
