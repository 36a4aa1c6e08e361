// Package check wires the workspace analysis command: workspace discovery,
// checker scheduling, report aggregation, and report delivery.
package check

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/wscheck/internal/checkers"
	"github.com/temirov/wscheck/internal/engine"
	"github.com/temirov/wscheck/internal/properties"
	"github.com/temirov/wscheck/internal/render"
	"github.com/temirov/wscheck/internal/utils"
	flagutils "github.com/temirov/wscheck/internal/utils/flags"
	"github.com/temirov/wscheck/internal/versions"
	"github.com/temirov/wscheck/internal/workspace"
)

const (
	commandUseConstant              = "check"
	commandShortDescriptionConstant = "Analyze a module workspace and produce a report"
	commandLongDescriptionConstant  = "check discovers the workspace module tree, runs the configured checkers concurrently, and writes an aggregated analysis report."

	rootFlagNameConstant                  = "root"
	rootFlagDescriptionConstant           = "Workspace root directory"
	checkersFlagNameConstant              = "checkers"
	checkersFlagDescriptionConstant       = "Checker identifiers to run (default: all registered)"
	propertiesFlagNameConstant            = "properties"
	propertiesFlagDescriptionConstant     = "Property names whose presence on the root is verified"
	formatFlagNameConstant                = "format"
	formatFlagDescriptionConstant         = "Report output format (repeatable)"
	outputDirFlagNameConstant             = "output-dir"
	outputDirFlagDescriptionConstant      = "Directory receiving the report file; stdout when unset"
	reportNameFlagNameConstant            = "report-name"
	reportNameFlagDescriptionConstant     = "Base name of the report file"
	checkerTimeoutFlagNameConstant        = "checker-timeout"
	checkerTimeoutFlagDescriptionConstant = "Per-checker execution timeout"
	moduleWorkersFlagNameConstant         = "module-workers"
	moduleWorkersFlagDescriptionConstant  = "Maximum modules analyzed concurrently"
	checkerWorkersFlagNameConstant        = "checker-workers"
	checkerWorkersFlagDescriptionConstant = "Maximum checkers running concurrently per module"
	queryWorkersFlagNameConstant          = "query-workers"
	queryWorkersFlagDescriptionConstant   = "Maximum concurrent remote version queries"
	excludeFlagNameConstant               = "exclude"
	excludeFlagDescriptionConstant        = "Module name patterns excluded from analysis"
	registryFlagNameConstant              = "registry"
	registryFlagDescriptionConstant       = "Package registry base URLs for version queries"
	failOnIssuesFlagNameConstant          = "fail-on-issues"
	failOnIssuesFlagDescriptionConstant   = "Exit with an error when the report contains issues"

	unsupportedFormatMessageConstant        = "unsupported report format requested, falling back to markdown"
	workspaceDiscoveryErrorTemplateConstant = "unable to discover workspace: %w"
	queryServiceErrorTemplateConstant       = "unable to construct version query service: %w"
	outputDirectoryErrorTemplateConstant    = "unable to create output directory %s: %w"
	reportWriteErrorTemplateConstant        = "unable to write report %s: %w"
	issuesFoundErrorTemplateConstant        = "analysis reported %d issue(s)"
	unknownCheckersMessageConstant          = "unknown checker identifiers requested"
	analysisStartedMessageConstant          = "workspace analysis started"
	analysisFinishedMessageConstant         = "workspace analysis finished"
	reportWrittenMessageConstant            = "report written"
	logFieldWorkspaceRootConstant           = "workspace_root"
	logFieldReportPathConstant              = "report_path"
	logFieldIssueCountConstant              = "issue_count"
	logFieldUnknownIdentifiersConstant      = "unknown_identifiers"
	logFieldModuleCountConstant             = "module_count"
	logFieldReportFormatConstant            = "report_format"
	reportFileNameTemplateConstant          = "%s.%s"
	htmlShellOpeningTemplateConstant        = "<!DOCTYPE html>\n<html>\n<head><meta charset=\"utf-8\"><title>%s</title></head>\n<body>\n"
	htmlShellClosingConstant                = "</body>\n</html>\n"
	reportFilePermissionsConstant           = 0o644
	outputDirectoryPermissionsConstant      = 0o755
)

// LoggerProvider supplies the logger configured by the root command.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the check command. Collaborators left nil fall
// back to production implementations.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider func() CommandConfiguration
	WorkspaceProvider     workspace.Provider
	QueryService          versions.QueryService
	Clock                 func() time.Time
}

// Build constructs the check command with its flag set.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		RunE:  builder.run,
	}

	formatUsage := flagutils.FormatChoiceUsage(
		defaultReportFormatConstant,
		[]string{render.FormatMarkdown, render.FormatText, render.FormatHTML},
		formatFlagDescriptionConstant,
	)

	command.Flags().String(rootFlagNameConstant, defaultWorkspaceRootConstant, rootFlagDescriptionConstant)
	command.Flags().StringSlice(checkersFlagNameConstant, nil, checkersFlagDescriptionConstant)
	command.Flags().StringSlice(propertiesFlagNameConstant, nil, propertiesFlagDescriptionConstant)
	command.Flags().StringSlice(formatFlagNameConstant, []string{defaultReportFormatConstant}, formatUsage)
	command.Flags().String(outputDirFlagNameConstant, "", outputDirFlagDescriptionConstant)
	command.Flags().String(reportNameFlagNameConstant, defaultReportNameConstant, reportNameFlagDescriptionConstant)
	command.Flags().Duration(checkerTimeoutFlagNameConstant, defaultCheckerTimeoutConstant, checkerTimeoutFlagDescriptionConstant)
	command.Flags().Int(moduleWorkersFlagNameConstant, defaultModuleWorkersConstant, moduleWorkersFlagDescriptionConstant)
	command.Flags().Int(checkerWorkersFlagNameConstant, defaultCheckerWorkersConstant, checkerWorkersFlagDescriptionConstant)
	command.Flags().Int(queryWorkersFlagNameConstant, defaultQueryWorkersConstant, queryWorkersFlagDescriptionConstant)
	command.Flags().StringSlice(excludeFlagNameConstant, nil, excludeFlagDescriptionConstant)
	command.Flags().StringSlice(registryFlagNameConstant, nil, registryFlagDescriptionConstant)
	command.Flags().Bool(failOnIssuesFlagNameConstant, false, failOnIssuesFlagDescriptionConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	logger := builder.resolveLogger()
	configuration := builder.resolveConfiguration(command)

	reportFormats := resolveReportFormats(logger, configuration.Formats)

	logger.Info(analysisStartedMessageConstant, zap.String(logFieldWorkspaceRootConstant, configuration.Root))

	workspaceProvider := builder.WorkspaceProvider
	if workspaceProvider == nil {
		workspaceProvider = workspace.NewFilesystemProvider(logger)
	}
	rootModule, discoveryError := workspaceProvider.DiscoverWorkspace(command.Context(), configuration.Root)
	if discoveryError != nil {
		return fmt.Errorf(workspaceDiscoveryErrorTemplateConstant, discoveryError)
	}

	queryService, queryServiceError := builder.resolveQueryService(logger, configuration)
	if queryServiceError != nil {
		return fmt.Errorf(queryServiceErrorTemplateConstant, queryServiceError)
	}

	registry := checkers.NewDefaultRegistry(logger)
	applicability, unknownIdentifiers := checkers.NewApplicabilityResolver(
		checkers.DefaultApplicabilityRules(),
		configuration.Checkers,
		registry.IDs(),
	)
	if len(unknownIdentifiers) > 0 {
		logger.Warn(unknownCheckersMessageConstant, zap.Strings(logFieldUnknownIdentifiersConstant, unknownIdentifiers))
	}

	scheduler := engine.NewScheduler(logger, registry, applicability)

	// Checkers render fragments through the format's renderer, so each
	// requested format is its own analysis pass; the version cache absorbs
	// the repeat remote queries.
	var issueCount int
	var moduleCount int
	for _, reportFormat := range reportFormats {
		renderer, rendererError := render.NewRenderer(reportFormat)
		if rendererError != nil {
			return rendererError
		}

		resultsByModule, runError := scheduler.Run(command.Context(), rootModule, engine.RunOptions{
			CheckerTimeout:     configuration.CheckerTimeout,
			ModuleWorkerCount:  configuration.ModuleWorkers,
			CheckerWorkerCount: configuration.CheckerWorkers,
			ExcludePatterns:    configuration.Exclude,
			PropertiesToCheck:  configuration.Properties,
			Resolver:           properties.NewResolver(logger, nil),
			Versions:           queryService,
			Renderer:           renderer,
		})
		if runError != nil {
			return runError
		}

		aggregator := engine.NewAggregator(renderer, builder.Clock)
		configurationWarnings := make([]string, 0, len(unknownIdentifiers))
		for _, unknownIdentifier := range unknownIdentifiers {
			configurationWarnings = append(configurationWarnings, aggregator.UnknownCheckerWarning(unknownIdentifier))
		}
		reportContent := aggregator.Build(rootModule, resultsByModule, configurationWarnings)
		if reportFormat == render.FormatHTML {
			reportContent = fmt.Sprintf(htmlShellOpeningTemplateConstant, rootModule.Name) + reportContent + htmlShellClosingConstant
		}

		if deliveryError := builder.deliverReport(command, logger, configuration, reportFormat, reportContent); deliveryError != nil {
			return deliveryError
		}

		issueCount = aggregator.IssueCount()
		moduleCount = len(resultsByModule)
	}

	logger.Info(
		analysisFinishedMessageConstant,
		zap.Int(logFieldModuleCountConstant, moduleCount),
		zap.Int(logFieldIssueCountConstant, issueCount),
	)

	if configuration.FailOnIssues && issueCount > 0 {
		return fmt.Errorf(issuesFoundErrorTemplateConstant, issueCount)
	}
	return nil
}

// resolveReportFormats canonicalizes the requested formats, replacing
// unsupported values with markdown and dropping duplicates. An empty request
// yields markdown alone.
func resolveReportFormats(logger *zap.Logger, requestedFormats []string) []string {
	resolvedFormats := make([]string, 0, len(requestedFormats))
	seenFormats := make(map[string]struct{}, len(requestedFormats))
	for _, requestedFormat := range requestedFormats {
		canonicalFormat, formatSupported := render.NormalizeFormat(requestedFormat)
		if !formatSupported {
			logger.Warn(unsupportedFormatMessageConstant, zap.String(logFieldReportFormatConstant, requestedFormat))
			canonicalFormat = render.FormatMarkdown
		}
		if _, alreadySeen := seenFormats[canonicalFormat]; alreadySeen {
			continue
		}
		seenFormats[canonicalFormat] = struct{}{}
		resolvedFormats = append(resolvedFormats, canonicalFormat)
	}
	if len(resolvedFormats) == 0 {
		resolvedFormats = append(resolvedFormats, render.FormatMarkdown)
	}
	return resolvedFormats
}

func (builder *CommandBuilder) deliverReport(command *cobra.Command, logger *zap.Logger, configuration CommandConfiguration, reportFormat string, reportContent string) error {
	if len(configuration.OutputDirectory) == 0 {
		outputWriter := utils.NewFlushingWriter(command.OutOrStdout())
		_, writeError := outputWriter.Write([]byte(reportContent))
		return writeError
	}

	if directoryError := os.MkdirAll(configuration.OutputDirectory, outputDirectoryPermissionsConstant); directoryError != nil {
		return fmt.Errorf(outputDirectoryErrorTemplateConstant, configuration.OutputDirectory, directoryError)
	}

	reportFileName := fmt.Sprintf(reportFileNameTemplateConstant, configuration.ReportName, render.FileExtension(reportFormat))
	reportPath := filepath.Join(configuration.OutputDirectory, reportFileName)
	if writeError := os.WriteFile(reportPath, []byte(reportContent), reportFilePermissionsConstant); writeError != nil {
		return fmt.Errorf(reportWriteErrorTemplateConstant, reportPath, writeError)
	}

	logger.Info(reportWrittenMessageConstant, zap.String(logFieldReportPathConstant, reportPath))
	return nil
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider != nil {
		if logger := builder.LoggerProvider(); logger != nil {
			return logger
		}
	}
	return zap.NewNop()
}

func (builder *CommandBuilder) resolveConfiguration(command *cobra.Command) CommandConfiguration {
	configuration := CommandConfiguration{}
	if builder.ConfigurationProvider != nil {
		configuration = builder.ConfigurationProvider()
	}
	configuration = configuration.sanitize()

	commandFlags := command.Flags()
	if commandFlags.Changed(rootFlagNameConstant) {
		configuration.Root, _ = commandFlags.GetString(rootFlagNameConstant)
	}
	if commandFlags.Changed(checkersFlagNameConstant) {
		configuration.Checkers, _ = commandFlags.GetStringSlice(checkersFlagNameConstant)
	}
	if commandFlags.Changed(propertiesFlagNameConstant) {
		configuration.Properties, _ = commandFlags.GetStringSlice(propertiesFlagNameConstant)
	}
	if commandFlags.Changed(formatFlagNameConstant) {
		configuration.Formats, _ = commandFlags.GetStringSlice(formatFlagNameConstant)
	}
	if commandFlags.Changed(outputDirFlagNameConstant) {
		configuration.OutputDirectory, _ = commandFlags.GetString(outputDirFlagNameConstant)
	}
	if commandFlags.Changed(reportNameFlagNameConstant) {
		configuration.ReportName, _ = commandFlags.GetString(reportNameFlagNameConstant)
	}
	if commandFlags.Changed(checkerTimeoutFlagNameConstant) {
		configuration.CheckerTimeout, _ = commandFlags.GetDuration(checkerTimeoutFlagNameConstant)
	}
	if commandFlags.Changed(moduleWorkersFlagNameConstant) {
		configuration.ModuleWorkers, _ = commandFlags.GetInt(moduleWorkersFlagNameConstant)
	}
	if commandFlags.Changed(checkerWorkersFlagNameConstant) {
		configuration.CheckerWorkers, _ = commandFlags.GetInt(checkerWorkersFlagNameConstant)
	}
	if commandFlags.Changed(queryWorkersFlagNameConstant) {
		configuration.QueryWorkers, _ = commandFlags.GetInt(queryWorkersFlagNameConstant)
	}
	if commandFlags.Changed(excludeFlagNameConstant) {
		configuration.Exclude, _ = commandFlags.GetStringSlice(excludeFlagNameConstant)
	}
	if commandFlags.Changed(registryFlagNameConstant) {
		configuration.Registries, _ = commandFlags.GetStringSlice(registryFlagNameConstant)
	}
	if commandFlags.Changed(failOnIssuesFlagNameConstant) {
		configuration.FailOnIssues, _ = commandFlags.GetBool(failOnIssuesFlagNameConstant)
	}

	return configuration.sanitize()
}

func (builder *CommandBuilder) resolveQueryService(logger *zap.Logger, configuration CommandConfiguration) (versions.QueryService, error) {
	if builder.QueryService != nil {
		return builder.QueryService, nil
	}
	packageSource := versions.NewHTTPPackageSource(logger, nil, configuration.Registries)
	return versions.NewRemoteQueryService(logger, packageSource, versions.ServiceConfiguration{
		WorkerCount:  configuration.QueryWorkers,
		QueryTimeout: configuration.QueryTimeout,
	})
}
