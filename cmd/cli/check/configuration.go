package check

import (
	"strings"
	"time"
)

const (
	defaultWorkspaceRootConstant  = "."
	defaultReportFormatConstant   = "markdown"
	defaultReportNameConstant     = "workspace-report"
	defaultCheckerTimeoutConstant = 60 * time.Second
	defaultModuleWorkersConstant  = 4
	defaultCheckerWorkersConstant = 4
	defaultQueryWorkersConstant   = 8
	defaultQueryTimeoutConstant   = 10 * time.Second

	configurationRootKeySuffixConstant           = ".root"
	configurationCheckersKeySuffixConstant       = ".checkers"
	configurationPropertiesKeySuffixConstant     = ".properties"
	configurationFormatsKeySuffixConstant        = ".formats"
	configurationOutputDirKeySuffixConstant      = ".output_dir"
	configurationReportNameKeySuffixConstant     = ".report_name"
	configurationCheckerTimeoutKeySuffixConstant = ".checker_timeout"
	configurationModuleWorkersKeySuffixConstant  = ".module_workers"
	configurationCheckerWorkersKeySuffixConstant = ".checker_workers"
	configurationQueryWorkersKeySuffixConstant   = ".query_workers"
	configurationQueryTimeoutKeySuffixConstant   = ".query_timeout"
	configurationExcludeKeySuffixConstant        = ".exclude"
	configurationRegistriesKeySuffixConstant     = ".registries"
	configurationFailOnIssuesKeySuffixConstant   = ".fail_on_issues"
)

// CommandConfiguration captures configuration values for the check command.
type CommandConfiguration struct {
	Root            string        `mapstructure:"root"`
	Checkers        []string      `mapstructure:"checkers"`
	Properties      []string      `mapstructure:"properties"`
	Formats         []string      `mapstructure:"formats"`
	OutputDirectory string        `mapstructure:"output_dir"`
	ReportName      string        `mapstructure:"report_name"`
	CheckerTimeout  time.Duration `mapstructure:"checker_timeout"`
	ModuleWorkers   int           `mapstructure:"module_workers"`
	CheckerWorkers  int           `mapstructure:"checker_workers"`
	QueryWorkers    int           `mapstructure:"query_workers"`
	QueryTimeout    time.Duration `mapstructure:"query_timeout"`
	Exclude         []string      `mapstructure:"exclude"`
	Registries      []string      `mapstructure:"registries"`
	FailOnIssues    bool          `mapstructure:"fail_on_issues"`
}

// DefaultConfigurationValues provides Viper defaults for the check command
// keyed under the provided configuration prefix.
func DefaultConfigurationValues(configurationPrefix string) map[string]any {
	return map[string]any{
		configurationPrefix + configurationRootKeySuffixConstant:           defaultWorkspaceRootConstant,
		configurationPrefix + configurationFormatsKeySuffixConstant:        []string{defaultReportFormatConstant},
		configurationPrefix + configurationReportNameKeySuffixConstant:     defaultReportNameConstant,
		configurationPrefix + configurationCheckerTimeoutKeySuffixConstant: defaultCheckerTimeoutConstant,
		configurationPrefix + configurationModuleWorkersKeySuffixConstant:  defaultModuleWorkersConstant,
		configurationPrefix + configurationCheckerWorkersKeySuffixConstant: defaultCheckerWorkersConstant,
		configurationPrefix + configurationQueryWorkersKeySuffixConstant:   defaultQueryWorkersConstant,
		configurationPrefix + configurationQueryTimeoutKeySuffixConstant:   defaultQueryTimeoutConstant,
		configurationPrefix + configurationFailOnIssuesKeySuffixConstant:   false,
	}
}

// sanitize normalizes configuration values and fills unset ones with the
// defaults.
func (configuration CommandConfiguration) sanitize() CommandConfiguration {
	sanitized := configuration
	sanitized.Root = strings.TrimSpace(configuration.Root)
	if len(sanitized.Root) == 0 {
		sanitized.Root = defaultWorkspaceRootConstant
	}
	sanitized.Formats = sanitizeList(configuration.Formats)
	if len(sanitized.Formats) == 0 {
		sanitized.Formats = []string{defaultReportFormatConstant}
	}
	sanitized.ReportName = strings.TrimSpace(configuration.ReportName)
	if len(sanitized.ReportName) == 0 {
		sanitized.ReportName = defaultReportNameConstant
	}
	if sanitized.CheckerTimeout <= 0 {
		sanitized.CheckerTimeout = defaultCheckerTimeoutConstant
	}
	if sanitized.ModuleWorkers <= 0 {
		sanitized.ModuleWorkers = defaultModuleWorkersConstant
	}
	if sanitized.CheckerWorkers <= 0 {
		sanitized.CheckerWorkers = defaultCheckerWorkersConstant
	}
	if sanitized.QueryWorkers <= 0 {
		sanitized.QueryWorkers = defaultQueryWorkersConstant
	}
	if sanitized.QueryTimeout <= 0 {
		sanitized.QueryTimeout = defaultQueryTimeoutConstant
	}
	sanitized.Checkers = sanitizeList(configuration.Checkers)
	sanitized.Properties = sanitizeList(configuration.Properties)
	sanitized.Exclude = sanitizeList(configuration.Exclude)
	sanitized.Registries = sanitizeList(configuration.Registries)
	return sanitized
}

func sanitizeList(rawValues []string) []string {
	trimmedValues := make([]string, 0, len(rawValues))
	for _, candidateValue := range rawValues {
		trimmedValue := strings.TrimSpace(candidateValue)
		if len(trimmedValue) == 0 {
			continue
		}
		trimmedValues = append(trimmedValues, trimmedValue)
	}
	return trimmedValues
}
