package checkers_test

import (
	"context"

	"github.com/temirov/wscheck/internal/checkers"
	"github.com/temirov/wscheck/internal/properties"
	"github.com/temirov/wscheck/internal/render"
	"github.com/temirov/wscheck/internal/versions"
	"github.com/temirov/wscheck/internal/workspace"
)

type stubQueryService struct {
	outcomesByCoordinate map[string]versions.Outcome
}

func (service stubQueryService) CheckLatest(queryContext context.Context, queries []versions.Query) []versions.Outcome {
	outcomes := make([]versions.Outcome, 0, len(queries))
	for _, pendingQuery := range queries {
		if outcome, found := service.outcomesByCoordinate[pendingQuery.Coordinate.String()]; found {
			outcome.Coordinate = pendingQuery.Coordinate
			outcome.CurrentVersion = pendingQuery.CurrentVersion
			outcomes = append(outcomes, outcome)
			continue
		}
		outcomes = append(outcomes, versions.Outcome{
			Coordinate:     pendingQuery.Coordinate,
			CurrentVersion: pendingQuery.CurrentVersion,
		})
	}
	return outcomes
}

func buildAnalysisContext(module *workspace.Module, queryService versions.QueryService) *checkers.Context {
	return &checkers.Context{
		Module:   module,
		Root:     module.Root(),
		Resolver: properties.NewResolver(nil, nil),
		Versions: queryService,
		Renderer: &render.MarkdownRenderer{},
	}
}
