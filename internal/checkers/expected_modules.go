package checkers

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/wscheck/internal/workspace"
)

const (
	expectedModulesReportTitleConstant       = "Module structure"
	completelyMissingHeaderConstant          = "Expected modules neither declared nor present on disk:"
	declaredButMissingHeaderConstant         = "Declared modules missing on disk:"
	presentButUndeclaredHeaderConstant       = "Modules present on disk but not declared:"
	missingDescriptorHeaderConstant          = "Declared modules without a descriptor:"
	moduleColumnHeaderConstant               = "Module"
	declareModuleAdviceConstant              = "Declare the module in the root descriptor or remove the stale directory."
	missingModuleLogMessageConstant          = "missing module detected"
	logFieldExpectedModuleConstant           = "module"
	logFieldExpectedCategoryConstant         = "category"
	categoryCompletelyMissingConstant        = "completely_missing"
	categoryDeclaredButMissingConstant       = "declared_but_missing"
	categoryPresentButUndeclaredConstant     = "present_but_undeclared"
	categoryMissingDescriptorConstant        = "missing_descriptor"
)

// conventionalModuleSuffixes derives sibling modules expected to exist for a
// workspace named after its root.
var conventionalModuleSuffixes = []string{"-api", "-impl", "-local"}

// ExpectedModulesChecker verifies that declared child modules exist on disk
// with a descriptor, that on-disk modules are declared, and that modules
// expected by naming convention are present. Runs on the workspace root only.
type ExpectedModulesChecker struct {
	logger *zap.Logger
}

// NewExpectedModulesChecker constructs the checker.
func NewExpectedModulesChecker(logger *zap.Logger) *ExpectedModulesChecker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExpectedModulesChecker{logger: logger}
}

// ID returns the checker identifier.
func (checker *ExpectedModulesChecker) ID() string {
	return CheckerIDExpectedModules
}

type moduleStructureFindings struct {
	completelyMissing    []string
	declaredButMissing   []string
	presentButUndeclared []string
	missingDescriptor    []string
}

func (findings moduleStructureFindings) hasIssues() bool {
	return len(findings.completelyMissing) > 0 ||
		len(findings.declaredButMissing) > 0 ||
		len(findings.presentButUndeclared) > 0 ||
		len(findings.missingDescriptor) > 0
}

// Check analyzes the root module's declared children against the filesystem.
func (checker *ExpectedModulesChecker) Check(executionContext context.Context, analysis *Context) (string, error) {
	rootModule := analysis.Module
	findings := checker.analyzeStructure(rootModule)
	if !findings.hasIssues() {
		return "", nil
	}

	renderer := analysis.Renderer
	var fragment strings.Builder
	fragment.WriteString(renderer.Header3(expectedModulesReportTitleConstant))
	fragment.WriteString(renderer.OpenSection())

	checker.appendFindingSection(&fragment, analysis, completelyMissingHeaderConstant, findings.completelyMissing, categoryCompletelyMissingConstant)
	checker.appendFindingSection(&fragment, analysis, declaredButMissingHeaderConstant, findings.declaredButMissing, categoryDeclaredButMissingConstant)
	checker.appendFindingSection(&fragment, analysis, presentButUndeclaredHeaderConstant, findings.presentButUndeclared, categoryPresentButUndeclaredConstant)
	checker.appendFindingSection(&fragment, analysis, missingDescriptorHeaderConstant, findings.missingDescriptor, categoryMissingDescriptorConstant)

	fragment.WriteString(renderer.Paragraph(declareModuleAdviceConstant))
	fragment.WriteString(renderer.CloseSection())
	return fragment.String(), nil
}

func (checker *ExpectedModulesChecker) analyzeStructure(rootModule *workspace.Module) moduleStructureFindings {
	declaredSet := make(map[string]struct{}, len(rootModule.DeclaredModules))
	for _, declaredName := range rootModule.DeclaredModules {
		declaredSet[declaredName] = struct{}{}
	}

	expectedNames := make([]string, 0, len(rootModule.DeclaredModules)+len(conventionalModuleSuffixes))
	expectedNames = append(expectedNames, rootModule.DeclaredModules...)
	for _, conventionalSuffix := range conventionalModuleSuffixes {
		conventionalName := rootModule.Name + conventionalSuffix
		if _, alreadyDeclared := declaredSet[conventionalName]; !alreadyDeclared {
			expectedNames = append(expectedNames, conventionalName)
		}
	}

	var findings moduleStructureFindings
	for _, expectedName := range expectedNames {
		_, declared := declaredSet[expectedName]
		modulePath := filepath.Join(rootModule.Path, expectedName)
		existsOnDisk := directoryExists(modulePath)
		descriptorPresent := fileExists(filepath.Join(modulePath, workspace.DescriptorFileName))

		switch {
		case !declared && !existsOnDisk:
			findings.completelyMissing = append(findings.completelyMissing, expectedName)
		case declared && !existsOnDisk:
			findings.declaredButMissing = append(findings.declaredButMissing, expectedName)
		case !declared:
			findings.presentButUndeclared = append(findings.presentButUndeclared, expectedName)
		case !descriptorPresent:
			findings.missingDescriptor = append(findings.missingDescriptor, expectedName)
		}
	}

	sort.Strings(findings.completelyMissing)
	sort.Strings(findings.declaredButMissing)
	sort.Strings(findings.presentButUndeclared)
	sort.Strings(findings.missingDescriptor)
	return findings
}

func (checker *ExpectedModulesChecker) appendFindingSection(fragment *strings.Builder, analysis *Context, header string, moduleNames []string, category string) {
	if len(moduleNames) == 0 {
		return
	}

	fragment.WriteString(analysis.Renderer.Error(header))
	rows := make([][]string, 0, len(moduleNames))
	for _, moduleName := range moduleNames {
		checker.logger.Warn(
			missingModuleLogMessageConstant,
			zap.String(logFieldExpectedModuleConstant, moduleName),
			zap.String(logFieldExpectedCategoryConstant, category),
		)
		rows = append(rows, []string{moduleName})
	}
	fragment.WriteString(analysis.Renderer.Table([]string{moduleColumnHeaderConstant}, rows))
}

func directoryExists(candidatePath string) bool {
	fileInformation, statError := os.Stat(candidatePath)
	return statError == nil && fileInformation.IsDir()
}

func fileExists(candidatePath string) bool {
	fileInformation, statError := os.Stat(candidatePath)
	return statError == nil && !fileInformation.IsDir()
}
