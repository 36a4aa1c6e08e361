package checkers

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/wscheck/internal/versions"
)

const (
	outdatedDependenciesTitleTemplateConstant  = "Outdated dependencies in %s"
	outdatedDependenciesHeaderTemplateConstant = "%d outdated dependency declaration(s) found:"
	unknownOutcomesHeaderConstant              = "Remote versions could not be determined for:"
	currentVersionColumnConstant               = "Current version"
	latestStableColumnConstant                 = "Latest stable"
	updateAdviceConstant                       = "Verify compatibility before updating dependency versions."
	outdatedDependencyLogMessageConstant       = "outdated dependency detected"
	logFieldLatestStableConstant               = "latest_stable"
)

// ignoredDependencyScopes excludes scopes whose versions are controlled
// elsewhere from remote version checks.
var ignoredDependencyScopes = map[string]struct{}{
	"system":   {},
	"test":     {},
	"provided": {},
}

// OutdatedDependenciesChecker queries remote package sources for every
// literally versioned dependency and reports declarations behind the latest
// stable release. Query failures degrade to "could not determine" rows.
type OutdatedDependenciesChecker struct {
	logger *zap.Logger
}

// NewOutdatedDependenciesChecker constructs the checker.
func NewOutdatedDependenciesChecker(logger *zap.Logger) *OutdatedDependenciesChecker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OutdatedDependenciesChecker{logger: logger}
}

// ID returns the checker identifier.
func (checker *OutdatedDependenciesChecker) ID() string {
	return CheckerIDOutdatedDependencies
}

// Check submits one query per eligible dependency and renders the outcomes.
func (checker *OutdatedDependenciesChecker) Check(executionContext context.Context, analysis *Context) (string, error) {
	if analysis.Versions == nil || analysis.Resolver == nil {
		return "", nil
	}

	pendingQueries := checker.collectQueries(analysis)
	if len(pendingQueries) == 0 {
		return "", nil
	}

	outcomes := analysis.Versions.CheckLatest(executionContext, pendingQueries)

	var outdatedRows [][]string
	var unknownRows [][]string
	for _, outcome := range outcomes {
		switch {
		case outcome.Outdated():
			checker.logger.Warn(
				outdatedDependencyLogMessageConstant,
				zap.String(logFieldDependencyConstant, outcome.Coordinate.String()),
				zap.String(logFieldVersionConstant, outcome.CurrentVersion),
				zap.String(logFieldLatestStableConstant, outcome.LatestStable),
			)
			outdatedRows = append(outdatedRows, []string{
				outcome.Coordinate.Group,
				outcome.Coordinate.Artifact,
				outcome.CurrentVersion,
				outcome.LatestStable,
			})
		case !outcome.Known:
			unknownRows = append(unknownRows, []string{
				outcome.Coordinate.Group,
				outcome.Coordinate.Artifact,
				outcome.CurrentVersion,
			})
		}
	}

	sort.Slice(outdatedRows, func(firstIndex int, secondIndex int) bool {
		return outdatedRows[firstIndex][0] < outdatedRows[secondIndex][0]
	})
	sort.Slice(unknownRows, func(firstIndex int, secondIndex int) bool {
		return unknownRows[firstIndex][0] < unknownRows[secondIndex][0]
	})

	if len(outdatedRows) == 0 && len(unknownRows) == 0 {
		return "", nil
	}

	renderer := analysis.Renderer
	var fragment strings.Builder
	fragment.WriteString(renderer.Header3(fmt.Sprintf(outdatedDependenciesTitleTemplateConstant, analysis.Module.Name)))
	fragment.WriteString(renderer.OpenSection())

	if len(outdatedRows) > 0 {
		fragment.WriteString(renderer.Warning(fmt.Sprintf(outdatedDependenciesHeaderTemplateConstant, len(outdatedRows))))
		fragment.WriteString(renderer.Table(
			[]string{groupColumnHeaderConstant, artifactColumnHeaderConstant, currentVersionColumnConstant, latestStableColumnConstant},
			outdatedRows,
		))
	}

	if len(unknownRows) > 0 {
		fragment.WriteString(renderer.Info(unknownOutcomesHeaderConstant))
		fragment.WriteString(renderer.Table(
			[]string{groupColumnHeaderConstant, artifactColumnHeaderConstant, currentVersionColumnConstant},
			unknownRows,
		))
	}

	fragment.WriteString(renderer.Paragraph(updateAdviceConstant))
	fragment.WriteString(renderer.CloseSection())
	return fragment.String(), nil
}

func (checker *OutdatedDependenciesChecker) collectQueries(analysis *Context) []versions.Query {
	var pendingQueries []versions.Query
	for _, dependency := range analysis.Module.Dependencies {
		declaredVersion := strings.TrimSpace(dependency.Version)
		if len(declaredVersion) == 0 {
			continue
		}
		// Indirect versions are audited by the hardcoded/redefinition
		// checkers; remote queries need a literal version.
		if !analysis.Resolver.ResolvesWithoutReference(declaredVersion) {
			declaredVersion = analysis.Resolver.Resolve(analysis.Module, declaredVersion)
			if strings.Contains(declaredVersion, "${") {
				continue
			}
		}
		if _, ignored := ignoredDependencyScopes[dependency.Scope]; ignored {
			continue
		}
		pendingQueries = append(pendingQueries, versions.Query{
			Coordinate:     dependency.Coordinate,
			CurrentVersion: declaredVersion,
		})
	}
	return pendingQueries
}
