package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/temirov/wscheck/internal/checkers"
	"github.com/temirov/wscheck/internal/properties"
	"github.com/temirov/wscheck/internal/render"
	"github.com/temirov/wscheck/internal/versions"
	"github.com/temirov/wscheck/internal/workspace"
)

const (
	defaultCheckerTimeoutConstant     = 60 * time.Second
	defaultModuleWorkerCountConstant  = 4
	defaultCheckerWorkerCountConstant = 4

	timeoutFragmentTemplateConstant = "Checker %s on module %s exceeded the %s timeout and was abandoned."
	failureFragmentTemplateConstant = "Checker %s on module %s failed: %v"
	panicMessageTemplateConstant    = "checker panicked: %v"

	nilRootErrorConstant     = "workspace root must not be nil"
	nilRendererErrorConstant = "renderer must not be nil"

	moduleExcludedMessageConstant     = "module excluded from analysis"
	invalidExcludePatternConstant     = "invalid exclude pattern"
	unitTimedOutMessageConstant       = "checker timed out"
	unitFailedMessageConstant         = "checker failed"
	logFieldModuleNameConstant        = "module_name"
	logFieldCheckerIdentifierConstant = "checker_id"
	logFieldExcludePatternConstant    = "exclude_pattern"
	logFieldTimeoutConstant           = "timeout"
)

// RunOptions tunes one scheduler run. Zero values fall back to defaults.
type RunOptions struct {
	CheckerTimeout     time.Duration
	ModuleWorkerCount  int
	CheckerWorkerCount int
	ExcludePatterns    []string
	PropertiesToCheck  []string
	Resolver           *properties.Resolver
	Versions           versions.QueryService
	Renderer           render.Renderer
}

func (options RunOptions) withDefaults() RunOptions {
	if options.CheckerTimeout <= 0 {
		options.CheckerTimeout = defaultCheckerTimeoutConstant
	}
	if options.ModuleWorkerCount <= 0 {
		options.ModuleWorkerCount = defaultModuleWorkerCountConstant
	}
	if options.CheckerWorkerCount <= 0 {
		options.CheckerWorkerCount = defaultCheckerWorkerCountConstant
	}
	return options
}

// Scheduler fans analysis units out across modules and checkers. Modules run
// concurrently up to the module worker limit, and within each module the
// applicable checkers run concurrently up to the checker worker limit. A
// failing, panicking, or hung unit never affects sibling units: the failure
// becomes a diagnostic fragment in that unit's result and the run continues.
type Scheduler struct {
	logger        *zap.Logger
	registry      *checkers.Registry
	applicability *checkers.ApplicabilityResolver
}

// NewScheduler constructs a scheduler over the registry and applicability
// resolver.
func NewScheduler(logger *zap.Logger, registry *checkers.Registry, applicability *checkers.ApplicabilityResolver) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{logger: logger, registry: registry, applicability: applicability}
}

// Run executes every applicable (module, checker) unit and returns the
// results grouped by module name. Within a module the results follow the
// registry's sorted identifier order regardless of completion order.
func (scheduler *Scheduler) Run(executionContext context.Context, rootModule *workspace.Module, options RunOptions) (map[string][]UnitResult, error) {
	if rootModule == nil {
		return nil, errors.New(nilRootErrorConstant)
	}
	if options.Renderer == nil {
		return nil, errors.New(nilRendererErrorConstant)
	}
	options = options.withDefaults()

	analyzedModules := scheduler.selectModules(rootModule, options.ExcludePatterns)
	checkerIdentifiers := scheduler.registry.IDs()

	resultsByModule := make(map[string][]UnitResult, len(analyzedModules))
	var resultsMutex sync.Mutex

	moduleGroup, moduleContext := errgroup.WithContext(executionContext)
	moduleGroup.SetLimit(options.ModuleWorkerCount)

	for _, analyzedModule := range analyzedModules {
		analyzedModule := analyzedModule
		moduleGroup.Go(func() error {
			moduleResults := scheduler.runModule(moduleContext, analyzedModule, rootModule, checkerIdentifiers, options)
			if len(moduleResults) == 0 {
				return nil
			}
			resultsMutex.Lock()
			resultsByModule[analyzedModule.Name] = moduleResults
			resultsMutex.Unlock()
			return nil
		})
	}

	// Unit failures surface as result fragments, never as group errors.
	_ = moduleGroup.Wait()
	return resultsByModule, nil
}

// selectModules returns the root plus every descendant whose name matches no
// exclude pattern. The root is never excluded.
func (scheduler *Scheduler) selectModules(rootModule *workspace.Module, excludePatterns []string) []*workspace.Module {
	selectedModules := []*workspace.Module{rootModule}
	for _, descendantModule := range rootModule.Descendants() {
		if scheduler.moduleExcluded(descendantModule.Name, excludePatterns) {
			continue
		}
		selectedModules = append(selectedModules, descendantModule)
	}
	return selectedModules
}

func (scheduler *Scheduler) moduleExcluded(moduleName string, excludePatterns []string) bool {
	for _, excludePattern := range excludePatterns {
		matched, matchError := doublestar.Match(excludePattern, moduleName)
		if matchError != nil {
			scheduler.logger.Warn(
				invalidExcludePatternConstant,
				zap.String(logFieldExcludePatternConstant, excludePattern),
				zap.Error(matchError),
			)
			continue
		}
		if matched {
			scheduler.logger.Info(
				moduleExcludedMessageConstant,
				zap.String(logFieldModuleNameConstant, moduleName),
				zap.String(logFieldExcludePatternConstant, excludePattern),
			)
			return true
		}
	}
	return false
}

func (scheduler *Scheduler) runModule(executionContext context.Context, analyzedModule *workspace.Module, rootModule *workspace.Module, checkerIdentifiers []string, options RunOptions) []UnitResult {
	type plannedUnit struct {
		resultIndex       int
		checkerIdentifier string
		checkerInstance   checkers.Checker
	}

	var plannedUnits []plannedUnit
	isRoot := analyzedModule == rootModule
	for _, checkerIdentifier := range checkerIdentifiers {
		if scheduler.applicability != nil && !scheduler.applicability.Applies(checkerIdentifier, analyzedModule, isRoot) {
			continue
		}
		checkerInstance, found := scheduler.registry.Lookup(checkerIdentifier)
		if !found {
			continue
		}
		plannedUnits = append(plannedUnits, plannedUnit{
			resultIndex:       len(plannedUnits),
			checkerIdentifier: checkerIdentifier,
			checkerInstance:   checkerInstance,
		})
	}
	if len(plannedUnits) == 0 {
		return nil
	}

	moduleResults := make([]UnitResult, len(plannedUnits))
	checkerGroup, checkerContext := errgroup.WithContext(executionContext)
	checkerGroup.SetLimit(options.CheckerWorkerCount)

	for _, unit := range plannedUnits {
		unit := unit
		checkerGroup.Go(func() error {
			analysis := &checkers.Context{
				Module:            analyzedModule,
				Root:              rootModule,
				PropertiesToCheck: options.PropertiesToCheck,
				Resolver:          options.Resolver,
				Versions:          options.Versions,
				Renderer:          options.Renderer,
			}
			moduleResults[unit.resultIndex] = scheduler.executeUnit(checkerContext, unit.checkerIdentifier, unit.checkerInstance, analysis, options)
			return nil
		})
	}

	_ = checkerGroup.Wait()
	return moduleResults
}

type unitOutcome struct {
	fragment     string
	failureError error
}

// executeUnit runs one checker under the per-unit timeout. The checker runs
// in its own goroutine so a hung implementation can be abandoned: on timeout
// the unit resolves immediately and the goroutine is left to drain into a
// buffered channel.
func (scheduler *Scheduler) executeUnit(executionContext context.Context, checkerIdentifier string, checkerInstance checkers.Checker, analysis *checkers.Context, options RunOptions) UnitResult {
	unitContext, cancelUnit := context.WithTimeout(executionContext, options.CheckerTimeout)
	defer cancelUnit()

	outcomeChannel := make(chan unitOutcome, 1)
	go func() {
		defer func() {
			if recovered := recover(); recovered != nil {
				outcomeChannel <- unitOutcome{failureError: fmt.Errorf(panicMessageTemplateConstant, recovered)}
			}
		}()
		fragment, checkError := checkerInstance.Check(unitContext, analysis)
		outcomeChannel <- unitOutcome{fragment: fragment, failureError: checkError}
	}()

	moduleName := analysis.Module.Name
	select {
	case <-unitContext.Done():
		if errors.Is(unitContext.Err(), context.DeadlineExceeded) {
			scheduler.logger.Warn(
				unitTimedOutMessageConstant,
				zap.String(logFieldModuleNameConstant, moduleName),
				zap.String(logFieldCheckerIdentifierConstant, checkerIdentifier),
				zap.Duration(logFieldTimeoutConstant, options.CheckerTimeout),
			)
			return UnitResult{
				ModuleName:        moduleName,
				CheckerIdentifier: checkerIdentifier,
				State:             UnitStateTimedOut,
				Fragment:          options.Renderer.Warning(fmt.Sprintf(timeoutFragmentTemplateConstant, checkerIdentifier, moduleName, options.CheckerTimeout)),
			}
		}
		return UnitResult{
			ModuleName:        moduleName,
			CheckerIdentifier: checkerIdentifier,
			State:             UnitStateFailed,
			Fragment:          options.Renderer.Error(fmt.Sprintf(failureFragmentTemplateConstant, checkerIdentifier, moduleName, unitContext.Err())),
		}
	case outcome := <-outcomeChannel:
		if outcome.failureError != nil {
			scheduler.logger.Error(
				unitFailedMessageConstant,
				zap.String(logFieldModuleNameConstant, moduleName),
				zap.String(logFieldCheckerIdentifierConstant, checkerIdentifier),
				zap.Error(outcome.failureError),
			)
			return UnitResult{
				ModuleName:        moduleName,
				CheckerIdentifier: checkerIdentifier,
				State:             UnitStateFailed,
				Fragment:          options.Renderer.Error(fmt.Sprintf(failureFragmentTemplateConstant, checkerIdentifier, moduleName, outcome.failureError)),
			}
		}
		return UnitResult{
			ModuleName:        moduleName,
			CheckerIdentifier: checkerIdentifier,
			State:             UnitStateCompleted,
			Fragment:          outcome.fragment,
		}
	}
}
