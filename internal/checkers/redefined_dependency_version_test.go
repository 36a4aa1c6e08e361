package checkers_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/wscheck/internal/checkers"
	"github.com/temirov/wscheck/internal/render"
	"github.com/temirov/wscheck/internal/workspace"
)

func TestRedefinedDependencyVersionCheckerComparesResolvedValues(testInstance *testing.T) {
	coreCoordinate := workspace.Coordinate{Group: "org.example", Artifact: "core"}
	clientCoordinate := workspace.Coordinate{Group: "org.example", Artifact: "client"}

	rootModule := &workspace.Module{
		Name: "demo",
		Properties: map[string]string{
			"core.version":   "1.0.0",
			"client.version": "2.0.0",
		},
		Dependencies: []workspace.Dependency{
			{Coordinate: coreCoordinate, Version: "${core.version}"},
			{Coordinate: clientCoordinate, Version: "${client.version}"},
		},
	}
	childModule := &workspace.Module{
		Name:   "demo-impl",
		Parent: rootModule,
		Dependencies: []workspace.Dependency{
			// Literal differing from the resolved ancestor declaration.
			{Coordinate: coreCoordinate, Version: "1.1.0"},
			// Indirect reference resolving to the same effective value.
			{Coordinate: clientCoordinate, Version: "${client.version}"},
		},
	}
	rootModule.Children = []*workspace.Module{childModule}

	checker := checkers.NewRedefinedDependencyVersionChecker(nil)
	fragment, checkError := checker.Check(context.Background(), buildAnalysisContext(childModule, nil))
	require.NoError(testInstance, checkError)

	require.Contains(testInstance, fragment, render.WarningMarker)
	require.Contains(testInstance, fragment, "| org.example:core | 1.0.0 | 1.1.0 |")
	require.NotContains(testInstance, fragment, "org.example:client")
}

func TestRedefinedDependencyVersionCheckerStaysSilentWithoutAncestors(testInstance *testing.T) {
	rootModule := &workspace.Module{
		Name: "demo",
		Dependencies: []workspace.Dependency{
			{Coordinate: workspace.Coordinate{Group: "org.example", Artifact: "core"}, Version: "1.0.0"},
		},
	}

	checker := checkers.NewRedefinedDependencyVersionChecker(nil)
	fragment, checkError := checker.Check(context.Background(), buildAnalysisContext(rootModule, nil))
	require.NoError(testInstance, checkError)
	require.Empty(testInstance, fragment)
}
