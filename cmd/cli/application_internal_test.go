package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewApplicationRegistersCheckCommand(testInstance *testing.T) {
	application := NewApplication()
	require.NotNil(testInstance, application.rootCommand)

	commandNames := make([]string, 0)
	for _, registeredCommand := range application.rootCommand.Commands() {
		commandNames = append(commandNames, registeredCommand.Name())
	}
	require.Contains(testInstance, commandNames, "check")
}

func TestApplicationRunsCheckAgainstWorkspaceFixture(testInstance *testing.T) {
	workspaceRoot := testInstance.TempDir()
	rootDescriptor := "name: demo\nmodules:\n  - demo-api\n  - demo-impl\n  - demo-local\n"
	require.NoError(testInstance, os.WriteFile(filepath.Join(workspaceRoot, "module.yaml"), []byte(rootDescriptor), 0o644))
	for _, moduleName := range []string{"demo-api", "demo-impl", "demo-local"} {
		modulePath := filepath.Join(workspaceRoot, moduleName)
		require.NoError(testInstance, os.MkdirAll(modulePath, 0o755))
		require.NoError(testInstance, os.WriteFile(filepath.Join(modulePath, "module.yaml"), []byte("name: "+moduleName+"\n"), 0o644))
	}

	outputDirectory := filepath.Join(testInstance.TempDir(), "reports")

	application := NewApplication()
	application.rootCommand.SetArgs([]string{
		"check",
		"--root", workspaceRoot,
		"--output-dir", outputDirectory,
		"--properties", "",
	})
	require.NoError(testInstance, application.Execute())

	reportContent, readError := os.ReadFile(filepath.Join(outputDirectory, "workspace-report.md"))
	require.NoError(testInstance, readError)
	require.Contains(testInstance, string(reportContent), "# Workspace analysis report: demo")
}

func TestApplicationDefaultsComeFromEmbeddedConfiguration(testInstance *testing.T) {
	application := NewApplication()
	require.NoError(testInstance, application.initializeConfiguration(application.rootCommand))

	checkConfiguration := application.configuration.Tools.Check
	require.Equal(testInstance, []string{"markdown"}, checkConfiguration.Formats)
	require.Equal(testInstance, "workspace-report", checkConfiguration.ReportName)
	require.Contains(testInstance, checkConfiguration.Properties, "workspace.encoding")
}
