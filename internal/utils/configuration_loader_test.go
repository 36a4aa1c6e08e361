package utils_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/wscheck/internal/utils"
)

type analysisConfiguration struct {
	Analysis struct {
		Format         string `mapstructure:"format"`
		CheckerTimeout string `mapstructure:"checker_timeout"`
		FailOnIssues   bool   `mapstructure:"fail_on_issues"`
	} `mapstructure:"analysis"`
}

func TestLoadConfigurationLayersEmbeddedFileAndDefaults(testInstance *testing.T) {
	embeddedConfiguration := []byte("analysis:\n  format: markdown\n  checker_timeout: 60s\n")

	configurationDirectory := testInstance.TempDir()
	configurationFilePath := filepath.Join(configurationDirectory, "config.yaml")
	require.NoError(testInstance, os.WriteFile(configurationFilePath, []byte("analysis:\n  format: html\n"), 0o644))

	loader := utils.NewConfigurationLoader("config", "yaml", "WSCHECK", []string{configurationDirectory}, embeddedConfiguration)

	var configuration analysisConfiguration
	loadedConfiguration, loadError := loader.LoadConfiguration(
		configurationFilePath,
		map[string]any{"analysis.fail_on_issues": true},
		&configuration,
	)
	require.NoError(testInstance, loadError)

	// File overrides embedded; embedded fills gaps; defaults fill the rest.
	require.Equal(testInstance, "html", configuration.Analysis.Format)
	require.Equal(testInstance, "60s", configuration.Analysis.CheckerTimeout)
	require.True(testInstance, configuration.Analysis.FailOnIssues)
	require.Equal(testInstance, configurationFilePath, loadedConfiguration.ConfigFileUsed)
}

func TestLoadConfigurationToleratesMissingFile(testInstance *testing.T) {
	loader := utils.NewConfigurationLoader("config", "yaml", "WSCHECK", []string{testInstance.TempDir()}, nil)

	var configuration analysisConfiguration
	_, loadError := loader.LoadConfiguration("", map[string]any{"analysis.format": "markdown"}, &configuration)
	require.NoError(testInstance, loadError)
	require.Equal(testInstance, "markdown", configuration.Analysis.Format)
}

func TestLoadConfigurationReportsUnreadableFile(testInstance *testing.T) {
	configurationDirectory := testInstance.TempDir()
	brokenFilePath := filepath.Join(configurationDirectory, "config.yaml")
	require.NoError(testInstance, os.WriteFile(brokenFilePath, []byte(":\n  - ["), 0o644))

	loader := utils.NewConfigurationLoader("config", "yaml", "WSCHECK", []string{configurationDirectory}, nil)

	var configuration analysisConfiguration
	_, loadError := loader.LoadConfiguration(brokenFilePath, nil, &configuration)
	require.Error(testInstance, loadError)
}
