package engine_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/temirov/wscheck/internal/checkers"
	"github.com/temirov/wscheck/internal/engine"
	"github.com/temirov/wscheck/internal/render"
	"github.com/temirov/wscheck/internal/workspace"
)

type scriptedChecker struct {
	identifier    string
	fragment      string
	failureError  error
	panicValue    any
	executionTime time.Duration
}

func (checker scriptedChecker) ID() string {
	return checker.identifier
}

func (checker scriptedChecker) Check(executionContext context.Context, analysis *checkers.Context) (string, error) {
	if checker.panicValue != nil {
		panic(checker.panicValue)
	}
	// Sleeps unconditionally so a hung implementation that ignores its
	// context can be simulated.
	if checker.executionTime > 0 {
		time.Sleep(checker.executionTime)
	}
	if checker.failureError != nil {
		return "", checker.failureError
	}
	return checker.fragment, nil
}

func buildRegistry(testInstance *testing.T, registeredCheckers ...checkers.Checker) *checkers.Registry {
	testInstance.Helper()
	registry := checkers.NewRegistry()
	for _, registeredChecker := range registeredCheckers {
		require.NoError(testInstance, registry.Register(registeredChecker.ID(), registeredChecker))
	}
	return registry
}

func buildWorkspaceTree() *workspace.Module {
	rootModule := &workspace.Module{Name: "demo"}
	apiModule := &workspace.Module{Name: "demo-api", Parent: rootModule}
	implModule := &workspace.Module{Name: "demo-impl", Parent: rootModule}
	rootModule.Children = []*workspace.Module{apiModule, implModule}
	return rootModule
}

func defaultRunOptions() engine.RunOptions {
	return engine.RunOptions{
		CheckerTimeout: 5 * time.Second,
		Renderer:       &render.MarkdownRenderer{},
	}
}

func TestSchedulerIsolatesFailingUnitsFromSiblings(testInstance *testing.T) {
	registry := buildRegistry(
		testInstance,
		scriptedChecker{identifier: "boom", panicValue: "broken invariant"},
		scriptedChecker{identifier: "crash", failureError: errors.New("descriptor unreadable")},
		scriptedChecker{identifier: "steady", fragment: "steady finding\n"},
	)
	applicability, unknownIdentifiers := checkers.NewApplicabilityResolver(checkers.ApplicabilityRules{}, nil, registry.IDs())
	require.Empty(testInstance, unknownIdentifiers)

	scheduler := engine.NewScheduler(nil, registry, applicability)
	resultsByModule, runError := scheduler.Run(context.Background(), buildWorkspaceTree(), defaultRunOptions())
	require.NoError(testInstance, runError)
	require.Len(testInstance, resultsByModule, 3)

	for _, moduleName := range []string{"demo", "demo-api", "demo-impl"} {
		moduleResults := resultsByModule[moduleName]
		require.Len(testInstance, moduleResults, 3, moduleName)

		// Registry order: boom, crash, steady.
		require.Equal(testInstance, engine.UnitStateFailed, moduleResults[0].State)
		require.Contains(testInstance, moduleResults[0].Fragment, render.ErrorMarker)
		require.Contains(testInstance, moduleResults[0].Fragment, "broken invariant")

		require.Equal(testInstance, engine.UnitStateFailed, moduleResults[1].State)
		require.Contains(testInstance, moduleResults[1].Fragment, "descriptor unreadable")

		require.Equal(testInstance, engine.UnitStateCompleted, moduleResults[2].State)
		require.Equal(testInstance, "steady finding\n", moduleResults[2].Fragment)
	}
}

func TestSchedulerAbandonsHungCheckersAfterTimeout(testInstance *testing.T) {
	registry := buildRegistry(
		testInstance,
		scriptedChecker{identifier: "hung", executionTime: time.Minute},
		scriptedChecker{identifier: "steady", fragment: "steady finding\n"},
	)
	applicability, _ := checkers.NewApplicabilityResolver(checkers.ApplicabilityRules{}, nil, registry.IDs())
	scheduler := engine.NewScheduler(nil, registry, applicability)

	options := defaultRunOptions()
	options.CheckerTimeout = 50 * time.Millisecond

	startedAt := time.Now()
	resultsByModule, runError := scheduler.Run(context.Background(), &workspace.Module{Name: "demo"}, options)
	require.NoError(testInstance, runError)
	require.Less(testInstance, time.Since(startedAt), 2*time.Second)

	moduleResults := resultsByModule["demo"]
	require.Len(testInstance, moduleResults, 2)
	require.Equal(testInstance, engine.UnitStateTimedOut, moduleResults[0].State)
	require.Contains(testInstance, moduleResults[0].Fragment, render.WarningMarker)
	require.Equal(testInstance, engine.UnitStateCompleted, moduleResults[1].State)
}

func TestSchedulerHonorsApplicabilityRules(testInstance *testing.T) {
	registry := buildRegistry(
		testInstance,
		scriptedChecker{identifier: "rootOnly", fragment: "root finding\n"},
		scriptedChecker{identifier: "apiOnly", fragment: "api finding\n"},
	)
	rules := checkers.ApplicabilityRules{
		RootOnlyIdentifiers: map[string]struct{}{"rootOnly": {}},
		SuffixByIdentifier:  map[string]string{"apiOnly": "-api"},
	}
	applicability, _ := checkers.NewApplicabilityResolver(rules, nil, registry.IDs())
	scheduler := engine.NewScheduler(nil, registry, applicability)

	resultsByModule, runError := scheduler.Run(context.Background(), buildWorkspaceTree(), defaultRunOptions())
	require.NoError(testInstance, runError)

	require.Len(testInstance, resultsByModule["demo"], 1)
	require.Equal(testInstance, "rootOnly", resultsByModule["demo"][0].CheckerIdentifier)

	require.Len(testInstance, resultsByModule["demo-api"], 1)
	require.Equal(testInstance, "apiOnly", resultsByModule["demo-api"][0].CheckerIdentifier)

	_, implAnalyzed := resultsByModule["demo-impl"]
	require.False(testInstance, implAnalyzed)
}

func TestSchedulerExcludesMatchingDescendantsButNeverTheRoot(testInstance *testing.T) {
	registry := buildRegistry(testInstance, scriptedChecker{identifier: "steady", fragment: "steady finding\n"})
	applicability, _ := checkers.NewApplicabilityResolver(checkers.ApplicabilityRules{}, nil, registry.IDs())
	scheduler := engine.NewScheduler(nil, registry, applicability)

	rootModule := &workspace.Module{Name: "demo-local"}
	localModule := &workspace.Module{Name: "demo-impl-local", Parent: rootModule}
	implModule := &workspace.Module{Name: "demo-impl", Parent: rootModule}
	rootModule.Children = []*workspace.Module{localModule, implModule}

	options := defaultRunOptions()
	options.ExcludePatterns = []string{"*-local"}

	resultsByModule, runError := scheduler.Run(context.Background(), rootModule, options)
	require.NoError(testInstance, runError)

	// The root matches the pattern but is never excluded.
	require.Contains(testInstance, resultsByModule, "demo-local")
	require.Contains(testInstance, resultsByModule, "demo-impl")
	require.NotContains(testInstance, resultsByModule, "demo-impl-local")
}

func TestSchedulerRejectsMissingCollaborators(testInstance *testing.T) {
	registry := buildRegistry(testInstance, scriptedChecker{identifier: "steady"})
	applicability, _ := checkers.NewApplicabilityResolver(checkers.ApplicabilityRules{}, nil, registry.IDs())
	scheduler := engine.NewScheduler(nil, registry, applicability)

	_, nilRootError := scheduler.Run(context.Background(), nil, defaultRunOptions())
	require.Error(testInstance, nilRootError)

	_, nilRendererError := scheduler.Run(context.Background(), &workspace.Module{Name: "demo"}, engine.RunOptions{})
	require.Error(testInstance, nilRendererError)
}
