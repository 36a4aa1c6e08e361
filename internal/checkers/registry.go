package checkers

import (
	"fmt"
	"sort"

	"go.uber.org/zap"
)

const duplicateCheckerTemplateConstant = "checker %q registered twice"

// Checker identifiers for the built-in analysis modules.
const (
	CheckerIDExpectedModules            = "expectedModules"
	CheckerIDPropertyPresence           = "propertyPresence"
	CheckerIDInterfaceConformity        = "interfaceConformity"
	CheckerIDHardcodedVersion           = "hardcodedVersion"
	CheckerIDRedefinedDependencyVersion = "redefinedDependencyVersion"
	CheckerIDPropertyRedefinition       = "propertyRedefinition"
	CheckerIDRedundantProperties        = "redundantProperties"
	CheckerIDOutdatedDependencies       = "outdatedDependencies"
)

// Factory constructs a checker instance with the provided logger.
type Factory func(logger *zap.Logger) Checker

// Registry maps checker identifiers to shared instances. Population happens
// explicitly at startup; there is no runtime discovery mechanism.
type Registry struct {
	instances map[string]Checker
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{instances: map[string]Checker{}}
}

// NewDefaultRegistry creates a registry populated with every built-in
// checker.
func NewDefaultRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}

	registry := NewRegistry()
	builtinFactories := map[string]Factory{
		CheckerIDExpectedModules:            func(checkerLogger *zap.Logger) Checker { return NewExpectedModulesChecker(checkerLogger) },
		CheckerIDPropertyPresence:           func(checkerLogger *zap.Logger) Checker { return NewPropertyPresenceChecker(checkerLogger) },
		CheckerIDInterfaceConformity:        func(checkerLogger *zap.Logger) Checker { return NewInterfaceConformityChecker(checkerLogger, "") },
		CheckerIDHardcodedVersion:           func(checkerLogger *zap.Logger) Checker { return NewHardcodedVersionChecker(checkerLogger) },
		CheckerIDRedefinedDependencyVersion: func(checkerLogger *zap.Logger) Checker { return NewRedefinedDependencyVersionChecker(checkerLogger) },
		CheckerIDPropertyRedefinition:       func(checkerLogger *zap.Logger) Checker { return NewPropertyRedefinitionChecker(checkerLogger) },
		CheckerIDRedundantProperties:        func(checkerLogger *zap.Logger) Checker { return NewRedundantPropertiesChecker(checkerLogger) },
		CheckerIDOutdatedDependencies:       func(checkerLogger *zap.Logger) Checker { return NewOutdatedDependenciesChecker(checkerLogger) },
	}

	for checkerIdentifier, checkerFactory := range builtinFactories {
		// Identifiers are unique by construction of the map above.
		_ = registry.Register(checkerIdentifier, checkerFactory(logger))
	}

	return registry
}

// Register adds a checker instance under its identifier. Registering the
// same identifier twice is an error.
func (registry *Registry) Register(checkerIdentifier string, checkerInstance Checker) error {
	if _, exists := registry.instances[checkerIdentifier]; exists {
		return fmt.Errorf(duplicateCheckerTemplateConstant, checkerIdentifier)
	}
	registry.instances[checkerIdentifier] = checkerInstance
	return nil
}

// Lookup returns the checker registered under the identifier.
func (registry *Registry) Lookup(checkerIdentifier string) (Checker, bool) {
	checkerInstance, found := registry.instances[checkerIdentifier]
	return checkerInstance, found
}

// IDs lists every registered identifier in sorted order.
func (registry *Registry) IDs() []string {
	identifiers := make([]string, 0, len(registry.instances))
	for checkerIdentifier := range registry.instances {
		identifiers = append(identifiers, checkerIdentifier)
	}
	sort.Strings(identifiers)
	return identifiers
}
