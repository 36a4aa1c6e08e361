package checkers

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/wscheck/internal/workspace"
)

const (
	redefinedVersionTitleTemplateConstant = "Redefined dependency versions in %s"
	redefinedVersionHeaderConstant        = "The following dependencies redefine a version already inherited from an ancestor:"
	dependencyColumnHeaderConstant        = "Dependency"
	inheritedVersionColumnConstant        = "Inherited version"
	redefinedVersionColumnConstant        = "Redefined version"
	redefinedVersionLogMessageConstant    = "dependency version redefinition"
	logFieldInheritedVersionConstant      = "inherited_version"
	logFieldDeclaredVersionConstant       = "declared_version"
)

// RedefinedDependencyVersionChecker compares a module's resolved dependency
// versions against the resolved versions its nearest ancestor declares for
// the same coordinate. Both sides resolve through the property resolver so
// indirect references compare by effective value.
type RedefinedDependencyVersionChecker struct {
	logger *zap.Logger
}

// NewRedefinedDependencyVersionChecker constructs the checker.
func NewRedefinedDependencyVersionChecker(logger *zap.Logger) *RedefinedDependencyVersionChecker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedefinedDependencyVersionChecker{logger: logger}
}

// ID returns the checker identifier.
func (checker *RedefinedDependencyVersionChecker) ID() string {
	return CheckerIDRedefinedDependencyVersion
}

type inheritedDeclaration struct {
	version      string
	owningModule *workspace.Module
}

// Check reports dependencies whose resolved version differs from the
// resolved ancestor declaration for the same coordinate.
func (checker *RedefinedDependencyVersionChecker) Check(executionContext context.Context, analysis *Context) (string, error) {
	if analysis.Resolver == nil {
		return "", nil
	}

	inheritedDeclarations := collectInheritedDeclarations(analysis.Module)
	if len(inheritedDeclarations) == 0 {
		return "", nil
	}

	var redefinedRows [][]string
	for _, dependency := range analysis.Module.Dependencies {
		declaredVersion := strings.TrimSpace(dependency.Version)
		if len(declaredVersion) == 0 {
			continue
		}

		inherited, inheritedFound := inheritedDeclarations[dependency.Coordinate]
		if !inheritedFound {
			continue
		}

		resolvedDeclared := analysis.Resolver.Resolve(analysis.Module, declaredVersion)
		resolvedInherited := analysis.Resolver.Resolve(inherited.owningModule, inherited.version)
		if resolvedDeclared == resolvedInherited {
			continue
		}

		checker.logger.Warn(
			redefinedVersionLogMessageConstant,
			zap.String(logFieldDependencyConstant, dependency.Coordinate.String()),
			zap.String(logFieldInheritedVersionConstant, resolvedInherited),
			zap.String(logFieldDeclaredVersionConstant, resolvedDeclared),
		)
		redefinedRows = append(redefinedRows, []string{
			dependency.Coordinate.String(),
			resolvedInherited,
			resolvedDeclared,
		})
	}

	if len(redefinedRows) == 0 {
		return "", nil
	}

	renderer := analysis.Renderer
	var fragment strings.Builder
	fragment.WriteString(renderer.Header3(fmt.Sprintf(redefinedVersionTitleTemplateConstant, analysis.Module.Name)))
	fragment.WriteString(renderer.OpenSection())
	fragment.WriteString(renderer.Warning(redefinedVersionHeaderConstant))
	fragment.WriteString(renderer.Table(
		[]string{dependencyColumnHeaderConstant, inheritedVersionColumnConstant, redefinedVersionColumnConstant},
		redefinedRows,
	))
	fragment.WriteString(renderer.CloseSection())
	return fragment.String(), nil
}

// collectInheritedDeclarations maps each coordinate to its nearest ancestor
// declaration. Nearer ancestors win because the chain is walked outward.
func collectInheritedDeclarations(module *workspace.Module) map[workspace.Coordinate]inheritedDeclaration {
	inherited := make(map[workspace.Coordinate]inheritedDeclaration)
	for _, ancestor := range module.AncestorChain() {
		for _, dependency := range ancestor.Dependencies {
			if len(strings.TrimSpace(dependency.Version)) == 0 {
				continue
			}
			if _, alreadyRecorded := inherited[dependency.Coordinate]; alreadyRecorded {
				continue
			}
			inherited[dependency.Coordinate] = inheritedDeclaration{
				version:      strings.TrimSpace(dependency.Version),
				owningModule: ancestor,
			}
		}
	}
	return inherited
}
