package checkers_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/wscheck/internal/checkers"
	"github.com/temirov/wscheck/internal/render"
	"github.com/temirov/wscheck/internal/workspace"
)

func TestHardcodedVersionCheckerFlagsLiteralVersions(testInstance *testing.T) {
	rootModule := &workspace.Module{
		Name: "demo",
		Properties: map[string]string{
			"client.version": "2.4.0",
		},
		Dependencies: []workspace.Dependency{
			{
				Coordinate: workspace.Coordinate{Group: "org.example", Artifact: "core"},
				Version:    "1.2.3",
			},
			{
				Coordinate: workspace.Coordinate{Group: "org.example", Artifact: "client"},
				Version:    "${client.version}",
				Scope:      "runtime",
			},
			{
				Coordinate: workspace.Coordinate{Group: "org.example", Artifact: "managed"},
			},
		},
	}

	checker := checkers.NewHardcodedVersionChecker(nil)
	fragment, checkError := checker.Check(context.Background(), buildAnalysisContext(rootModule, nil))
	require.NoError(testInstance, checkError)

	require.Contains(testInstance, fragment, render.ErrorMarker)
	require.Contains(testInstance, fragment, "| org.example | core | 1.2.3 | compile |")
	require.NotContains(testInstance, fragment, "client")
	require.NotContains(testInstance, fragment, "managed")
}

func TestResolverDependentCheckersStaySilentWithoutResolver(testInstance *testing.T) {
	rootModule := &workspace.Module{
		Name: "demo",
		Dependencies: []workspace.Dependency{
			{
				Coordinate: workspace.Coordinate{Group: "org.example", Artifact: "core"},
				Version:    "1.2.3",
			},
		},
	}
	analysis := &checkers.Context{
		Module:   rootModule,
		Root:     rootModule,
		Versions: stubQueryService{},
		Renderer: &render.MarkdownRenderer{},
	}

	resolverDependentCheckers := []checkers.Checker{
		checkers.NewHardcodedVersionChecker(nil),
		checkers.NewRedefinedDependencyVersionChecker(nil),
		checkers.NewOutdatedDependenciesChecker(nil),
	}
	for _, resolverDependentChecker := range resolverDependentCheckers {
		fragment, checkError := resolverDependentChecker.Check(context.Background(), analysis)
		require.NoError(testInstance, checkError, resolverDependentChecker.ID())
		require.Empty(testInstance, fragment, resolverDependentChecker.ID())
	}
}

func TestHardcodedVersionCheckerStaysSilentOnIndirectVersions(testInstance *testing.T) {
	rootModule := &workspace.Module{
		Name: "demo",
		Dependencies: []workspace.Dependency{
			{
				Coordinate: workspace.Coordinate{Group: "org.example", Artifact: "core"},
				Version:    "${core.version}",
			},
		},
	}

	checker := checkers.NewHardcodedVersionChecker(nil)
	fragment, checkError := checker.Check(context.Background(), buildAnalysisContext(rootModule, nil))
	require.NoError(testInstance, checkError)
	require.Empty(testInstance, fragment)
}
