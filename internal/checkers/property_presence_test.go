package checkers_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/wscheck/internal/checkers"
	"github.com/temirov/wscheck/internal/render"
	"github.com/temirov/wscheck/internal/workspace"
)

func TestPropertyPresenceCheckerReportsMissingProperties(testInstance *testing.T) {
	rootModule := &workspace.Module{
		Name: "demo",
		Properties: map[string]string{
			"workspace.encoding": "UTF-8",
		},
	}

	analysis := buildAnalysisContext(rootModule, nil)
	analysis.PropertiesToCheck = []string{
		"workspace.encoding",
		"workspace.toolchain",
		"workspace.toolchain",
		"component.name",
		"team.contact",
	}

	checker := checkers.NewPropertyPresenceChecker(nil)
	fragment, checkError := checker.Check(context.Background(), analysis)
	require.NoError(testInstance, checkError)

	require.Contains(testInstance, fragment, render.ErrorMarker)
	require.NotContains(testInstance, fragment, "| workspace.encoding |")
	require.Contains(testInstance, fragment, "Suggested value: stable")
	require.Contains(testInstance, fragment, "Suggested value: XXX-0007")
	require.Contains(testInstance, fragment, "team.contact")

	// Duplicated configuration entries produce a single finding.
	require.Equal(testInstance, 1, strings.Count(fragment, "workspace.toolchain"))
}

func TestPropertyPresenceCheckerStaysSilentWhenEverythingDeclared(testInstance *testing.T) {
	rootModule := &workspace.Module{
		Name: "demo",
		Properties: map[string]string{
			"workspace.encoding":  "UTF-8",
			"workspace.toolchain": "stable",
		},
	}

	analysis := buildAnalysisContext(rootModule, nil)
	analysis.PropertiesToCheck = []string{"workspace.encoding", "workspace.toolchain"}

	checker := checkers.NewPropertyPresenceChecker(nil)
	fragment, checkError := checker.Check(context.Background(), analysis)
	require.NoError(testInstance, checkError)
	require.Empty(testInstance, fragment)
}
