package checkers_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/wscheck/internal/checkers"
	"github.com/temirov/wscheck/internal/render"
	"github.com/temirov/wscheck/internal/versions"
	"github.com/temirov/wscheck/internal/workspace"
)

func TestOutdatedDependenciesCheckerRendersOutdatedAndUnknownRows(testInstance *testing.T) {
	rootModule := &workspace.Module{
		Name: "demo",
		Properties: map[string]string{
			"client.version": "3.0.0",
		},
		Dependencies: []workspace.Dependency{
			{Coordinate: workspace.Coordinate{Group: "org.example", Artifact: "core"}, Version: "1.0.0"},
			{Coordinate: workspace.Coordinate{Group: "org.example", Artifact: "client"}, Version: "${client.version}"},
			{Coordinate: workspace.Coordinate{Group: "org.example", Artifact: "unreachable"}, Version: "2.0.0"},
			{Coordinate: workspace.Coordinate{Group: "org.example", Artifact: "testonly"}, Version: "1.0.0", Scope: "test"},
			{Coordinate: workspace.Coordinate{Group: "org.example", Artifact: "unresolved"}, Version: "${missing.version}"},
			{Coordinate: workspace.Coordinate{Group: "org.example", Artifact: "managed"}},
		},
	}

	queryService := stubQueryService{
		outcomesByCoordinate: map[string]versions.Outcome{
			"org.example:core":   {Known: true, LatestStable: "1.4.0"},
			"org.example:client": {Known: true, LatestStable: "3.0.0"},
		},
	}

	checker := checkers.NewOutdatedDependenciesChecker(nil)
	fragment, checkError := checker.Check(context.Background(), buildAnalysisContext(rootModule, queryService))
	require.NoError(testInstance, checkError)

	require.Contains(testInstance, fragment, render.WarningMarker)
	require.Contains(testInstance, fragment, "| org.example | core | 1.0.0 | 1.4.0 |")
	require.Contains(testInstance, fragment, "Remote versions could not be determined for:")
	require.Contains(testInstance, fragment, "| org.example | unreachable | 2.0.0 |")
	// Up to date, test-scoped, unresolvable, and managed dependencies stay out.
	require.NotContains(testInstance, fragment, "client")
	require.NotContains(testInstance, fragment, "testonly")
	require.NotContains(testInstance, fragment, "unresolved")
	require.NotContains(testInstance, fragment, "managed")
}

func TestOutdatedDependenciesCheckerResolvesIndirectVersionsBeforeQuerying(testInstance *testing.T) {
	rootModule := &workspace.Module{
		Name: "demo",
		Properties: map[string]string{
			"core.version": "1.0.0",
		},
		Dependencies: []workspace.Dependency{
			{Coordinate: workspace.Coordinate{Group: "org.example", Artifact: "core"}, Version: "${core.version}"},
		},
	}

	queryService := stubQueryService{
		outcomesByCoordinate: map[string]versions.Outcome{
			"org.example:core": {Known: true, LatestStable: "2.0.0"},
		},
	}

	checker := checkers.NewOutdatedDependenciesChecker(nil)
	fragment, checkError := checker.Check(context.Background(), buildAnalysisContext(rootModule, queryService))
	require.NoError(testInstance, checkError)

	require.Contains(testInstance, fragment, "| org.example | core | 1.0.0 | 2.0.0 |")
}

func TestOutdatedDependenciesCheckerStaysSilentWithoutEligibleDependencies(testInstance *testing.T) {
	rootModule := &workspace.Module{
		Name: "demo",
		Dependencies: []workspace.Dependency{
			{Coordinate: workspace.Coordinate{Group: "org.example", Artifact: "testonly"}, Version: "1.0.0", Scope: "test"},
		},
	}

	checker := checkers.NewOutdatedDependenciesChecker(nil)
	fragment, checkError := checker.Check(context.Background(), buildAnalysisContext(rootModule, stubQueryService{}))
	require.NoError(testInstance, checkError)
	require.Empty(testInstance, fragment)
}
