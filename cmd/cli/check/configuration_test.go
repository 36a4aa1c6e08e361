package check_test

import (
	"testing"
	"time"

	mapstructure "github.com/go-viper/mapstructure/v2"
	"github.com/stretchr/testify/require"

	"github.com/temirov/wscheck/cmd/cli/check"
)

func decodeConfiguration(testingInstance testing.TB, values map[string]any) check.CommandConfiguration {
	testingInstance.Helper()

	var configuration check.CommandConfiguration
	decoder, decoderError := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:    "mapstructure",
		DecodeHook: mapstructure.StringToTimeDurationHookFunc(),
		Result:     &configuration,
	})
	require.NoError(testingInstance, decoderError)
	require.NoError(testingInstance, decoder.Decode(values))
	return configuration
}

func TestCommandConfigurationDecodesFromConfigurationMap(testInstance *testing.T) {
	configuration := decodeConfiguration(testInstance, map[string]any{
		"root":            "/workspace/demo",
		"checkers":        []string{"expectedModules", "hardcodedVersion"},
		"properties":      []string{"workspace.encoding"},
		"formats":         []string{"html"},
		"output_dir":      "/tmp/reports",
		"report_name":     "audit",
		"checker_timeout": "45s",
		"module_workers":  2,
		"query_workers":   16,
		"exclude":         []string{"*-local"},
		"registries":      []string{"https://registry.example.com"},
		"fail_on_issues":  true,
	})

	require.Equal(testInstance, "/workspace/demo", configuration.Root)
	require.Equal(testInstance, []string{"expectedModules", "hardcodedVersion"}, configuration.Checkers)
	require.Equal(testInstance, []string{"html"}, configuration.Formats)
	require.Equal(testInstance, 45*time.Second, configuration.CheckerTimeout)
	require.Equal(testInstance, 2, configuration.ModuleWorkers)
	require.Equal(testInstance, 16, configuration.QueryWorkers)
	require.Equal(testInstance, []string{"*-local"}, configuration.Exclude)
	require.True(testInstance, configuration.FailOnIssues)
}

func TestDefaultConfigurationValuesCoverTunableKeys(testInstance *testing.T) {
	defaultValues := check.DefaultConfigurationValues("tools.check")

	require.Equal(testInstance, ".", defaultValues["tools.check.root"])
	require.Equal(testInstance, []string{"markdown"}, defaultValues["tools.check.formats"])
	require.Equal(testInstance, "workspace-report", defaultValues["tools.check.report_name"])
	require.Equal(testInstance, 60*time.Second, defaultValues["tools.check.checker_timeout"])
	require.Equal(testInstance, 8, defaultValues["tools.check.query_workers"])
	require.Equal(testInstance, false, defaultValues["tools.check.fail_on_issues"])
}
