package engine

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/temirov/wscheck/internal/render"
	"github.com/temirov/wscheck/internal/workspace"
)

const (
	reportTitleTemplateConstant           = "Workspace analysis report: %s"
	generatedAtTemplateConstant           = "Generated: %s"
	generatedAtLayoutConstant             = "2006-01-02 15:04:05 MST"
	moduleSectionTemplateConstant         = "Module %s"
	issueSummaryTemplateConstant          = "Issues found: %d"
	noIssuesSummaryConstant               = "No issues found."
	unknownCheckerWarningTemplateConstant = "Unknown checker identifier %q was requested and skipped."
)

// Aggregator assembles unit results into a single report document and counts
// issue-carrying fragments. Observe is safe for concurrent use.
type Aggregator struct {
	renderer   render.Renderer
	clock      func() time.Time
	issueCount atomic.Int64
}

// NewAggregator constructs an aggregator. A nil clock falls back to the wall
// clock; tests inject a fixed one.
func NewAggregator(renderer render.Renderer, clock func() time.Time) *Aggregator {
	if clock == nil {
		clock = time.Now
	}
	return &Aggregator{renderer: renderer, clock: clock}
}

// Observe counts the fragment when it carries a warning or error marker.
func (aggregator *Aggregator) Observe(fragment string) {
	if render.ContainsIssueMarker(fragment) {
		aggregator.issueCount.Add(1)
	}
}

// IssueCount returns the number of issue-carrying fragments observed so far.
func (aggregator *Aggregator) IssueCount() int {
	return int(aggregator.issueCount.Load())
}

// UnknownCheckerWarning renders the configuration warning for a requested
// identifier no registered checker answers to.
func (aggregator *Aggregator) UnknownCheckerWarning(checkerIdentifier string) string {
	return aggregator.renderer.Warning(fmt.Sprintf(unknownCheckerWarningTemplateConstant, checkerIdentifier))
}

// Build assembles the full report: title, generation timestamp, configuration
// warnings, issue summary, then one section per module with the root first
// and the remaining modules sorted by name. Modules whose units produced no
// fragments are omitted. Every fragment and configuration warning passes
// through Observe before the summary is rendered.
func (aggregator *Aggregator) Build(rootModule *workspace.Module, resultsByModule map[string][]UnitResult, configurationWarnings []string) string {
	var moduleSections strings.Builder
	for _, moduleName := range ModuleOrder(rootModule) {
		moduleResults, analyzed := resultsByModule[moduleName]
		if !analyzed {
			continue
		}

		var moduleFragments strings.Builder
		for _, unitResult := range moduleResults {
			if len(unitResult.Fragment) == 0 {
				continue
			}
			aggregator.Observe(unitResult.Fragment)
			moduleFragments.WriteString(unitResult.Fragment)
		}
		if moduleFragments.Len() == 0 {
			continue
		}

		moduleSections.WriteString(aggregator.renderer.Header2(fmt.Sprintf(moduleSectionTemplateConstant, moduleName)))
		moduleSections.WriteString(aggregator.renderer.OpenSection())
		moduleSections.WriteString(moduleFragments.String())
		moduleSections.WriteString(aggregator.renderer.CloseSection())
	}

	for _, configurationWarning := range configurationWarnings {
		aggregator.Observe(configurationWarning)
	}

	var report strings.Builder
	report.WriteString(aggregator.renderer.Header1(fmt.Sprintf(reportTitleTemplateConstant, rootModule.Name)))
	report.WriteString(aggregator.renderer.Paragraph(fmt.Sprintf(generatedAtTemplateConstant, aggregator.clock().Format(generatedAtLayoutConstant))))

	for _, configurationWarning := range configurationWarnings {
		report.WriteString(configurationWarning)
	}

	summaryText := noIssuesSummaryConstant
	if issueCount := aggregator.IssueCount(); issueCount > 0 {
		summaryText = fmt.Sprintf(issueSummaryTemplateConstant, issueCount)
	}
	report.WriteString(aggregator.renderer.Paragraph(summaryText))
	report.WriteString(moduleSections.String())
	return report.String()
}

// ModuleOrder returns the deterministic report order: the root first, then
// every descendant sorted by name.
func ModuleOrder(rootModule *workspace.Module) []string {
	moduleNames := []string{rootModule.Name}
	for _, descendantModule := range rootModule.Descendants() {
		moduleNames = append(moduleNames, descendantModule.Name)
	}
	return moduleNames
}
