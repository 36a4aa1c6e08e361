package checkers

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

const (
	hardcodedVersionTitleTemplateConstant = "Hardcoded versions in %s"
	hardcodedVersionHeaderConstant        = "The following dependencies declare a literal version instead of a property reference:"
	hardcodedVersionAdviceConstant        = "Replace literal versions with ${name} properties declared on the workspace root."
	groupColumnHeaderConstant             = "Group"
	artifactColumnHeaderConstant          = "Artifact"
	versionColumnHeaderConstant           = "Version"
	scopeColumnHeaderConstant             = "Scope"
	defaultDependencyScopeConstant        = "compile"
	hardcodedVersionLogMessageConstant    = "hardcoded dependency version"
	logFieldDependencyConstant            = "dependency"
	logFieldVersionConstant               = "version"
)

// HardcodedVersionChecker flags dependency versions that resolve without
// ever passing through a ${name} indirection.
type HardcodedVersionChecker struct {
	logger *zap.Logger
}

// NewHardcodedVersionChecker constructs the checker.
func NewHardcodedVersionChecker(logger *zap.Logger) *HardcodedVersionChecker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HardcodedVersionChecker{logger: logger}
}

// ID returns the checker identifier.
func (checker *HardcodedVersionChecker) ID() string {
	return CheckerIDHardcodedVersion
}

// Check reports dependencies whose version string is hardcoded.
func (checker *HardcodedVersionChecker) Check(executionContext context.Context, analysis *Context) (string, error) {
	if analysis.Resolver == nil {
		return "", nil
	}

	var hardcodedRows [][]string
	for _, dependency := range analysis.Module.Dependencies {
		trimmedVersion := strings.TrimSpace(dependency.Version)
		if len(trimmedVersion) == 0 {
			continue
		}
		if !analysis.Resolver.ResolvesWithoutReference(trimmedVersion) {
			continue
		}

		checker.logger.Warn(
			hardcodedVersionLogMessageConstant,
			zap.String(logFieldDependencyConstant, dependency.Coordinate.String()),
			zap.String(logFieldVersionConstant, trimmedVersion),
		)

		dependencyScope := dependency.Scope
		if len(dependencyScope) == 0 {
			dependencyScope = defaultDependencyScopeConstant
		}
		hardcodedRows = append(hardcodedRows, []string{
			dependency.Coordinate.Group,
			dependency.Coordinate.Artifact,
			trimmedVersion,
			dependencyScope,
		})
	}

	if len(hardcodedRows) == 0 {
		return "", nil
	}

	renderer := analysis.Renderer
	var fragment strings.Builder
	fragment.WriteString(renderer.Header3(fmt.Sprintf(hardcodedVersionTitleTemplateConstant, analysis.Module.Name)))
	fragment.WriteString(renderer.OpenSection())
	fragment.WriteString(renderer.Error(hardcodedVersionHeaderConstant))
	fragment.WriteString(renderer.Table(
		[]string{groupColumnHeaderConstant, artifactColumnHeaderConstant, versionColumnHeaderConstant, scopeColumnHeaderConstant},
		hardcodedRows,
	))
	fragment.WriteString(renderer.Paragraph(hardcodedVersionAdviceConstant))
	fragment.WriteString(renderer.CloseSection())
	return fragment.String(), nil
}
