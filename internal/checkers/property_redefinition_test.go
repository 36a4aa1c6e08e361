package checkers_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/wscheck/internal/checkers"
	"github.com/temirov/wscheck/internal/render"
	"github.com/temirov/wscheck/internal/workspace"
)

func TestPropertyRedefinitionCheckerSeparatesIdenticalFromOverriding(testInstance *testing.T) {
	rootModule := &workspace.Module{
		Name: "demo",
		Properties: map[string]string{
			"workspace.encoding":  "UTF-8",
			"workspace.toolchain": "stable",
		},
	}
	childModule := &workspace.Module{
		Name:   "demo-impl",
		Parent: rootModule,
		Properties: map[string]string{
			"workspace.encoding":  "UTF-8",
			"workspace.toolchain": "beta",
			"impl.only":           "local",
		},
	}
	rootModule.Children = []*workspace.Module{childModule}

	checker := checkers.NewPropertyRedefinitionChecker(nil)
	fragment, checkError := checker.Check(context.Background(), buildAnalysisContext(childModule, nil))
	require.NoError(testInstance, checkError)

	require.Contains(testInstance, fragment, render.WarningMarker)
	require.Contains(testInstance, fragment, "Properties re-declared with the value already inherited (redundant):")
	require.Contains(testInstance, fragment, "| workspace.encoding | UTF-8 | UTF-8 | demo |")
	require.Contains(testInstance, fragment, "Properties overriding an inherited value:")
	require.Contains(testInstance, fragment, "| workspace.toolchain | stable | beta | demo |")
	require.NotContains(testInstance, fragment, "impl.only")
}

func TestPropertyRedefinitionCheckerSkipsRootModule(testInstance *testing.T) {
	rootModule := &workspace.Module{
		Name: "demo",
		Properties: map[string]string{
			"workspace.encoding": "UTF-8",
		},
	}

	checker := checkers.NewPropertyRedefinitionChecker(nil)
	fragment, checkError := checker.Check(context.Background(), buildAnalysisContext(rootModule, nil))
	require.NoError(testInstance, checkError)
	require.Empty(testInstance, fragment)
}

func TestPropertyRedefinitionCheckerUsesNearestAncestorDeclaration(testInstance *testing.T) {
	rootModule := &workspace.Module{
		Name:       "demo",
		Properties: map[string]string{"shared.flag": "root-value"},
	}
	middleModule := &workspace.Module{
		Name:       "demo-impl",
		Parent:     rootModule,
		Properties: map[string]string{"shared.flag": "middle-value"},
	}
	leafModule := &workspace.Module{
		Name:       "demo-impl-local",
		Parent:     middleModule,
		Properties: map[string]string{"shared.flag": "leaf-value"},
	}
	rootModule.Children = []*workspace.Module{middleModule}
	middleModule.Children = []*workspace.Module{leafModule}

	checker := checkers.NewPropertyRedefinitionChecker(nil)
	fragment, checkError := checker.Check(context.Background(), buildAnalysisContext(leafModule, nil))
	require.NoError(testInstance, checkError)

	require.Contains(testInstance, fragment, "| shared.flag | middle-value | leaf-value | demo-impl |")
	require.NotContains(testInstance, fragment, "root-value")
}
