package checkers

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/zap"

	"github.com/temirov/wscheck/internal/workspace"
)

const (
	interfaceConformityTitleTemplateConstant = "Unreferenced interfaces in %s"
	unreferencedInterfacesHeaderConstant     = "The following interfaces are declared here but referenced by no other module:"
	interfaceColumnHeaderConstant            = "Interface"
	interfaceDeclarationTokenConstant        = "interface "
	defaultSourceGlobConstant                = "src/**/*"
	sourceScanFailedMessageConstant          = "source scan failed"
	logFieldSourceGlobConstant               = "source_glob"
)

// InterfaceConformityChecker scans an api module's sources for interface
// declarations and reports names no sibling module refers to. Applies only
// to api-suffixed modules through the applicability rules.
type InterfaceConformityChecker struct {
	logger     *zap.Logger
	sourceGlob string
}

// NewInterfaceConformityChecker constructs the checker with an optional
// source glob override (doublestar syntax, relative to the module path).
func NewInterfaceConformityChecker(logger *zap.Logger, sourceGlob string) *InterfaceConformityChecker {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(strings.TrimSpace(sourceGlob)) == 0 {
		sourceGlob = defaultSourceGlobConstant
	}
	return &InterfaceConformityChecker{logger: logger, sourceGlob: sourceGlob}
}

// ID returns the checker identifier.
func (checker *InterfaceConformityChecker) ID() string {
	return CheckerIDInterfaceConformity
}

// Check collects interface names from the module and searches every other
// module in the workspace for references.
func (checker *InterfaceConformityChecker) Check(executionContext context.Context, analysis *Context) (string, error) {
	interfaceNames := checker.collectInterfaceNames(analysis.Module)
	if len(interfaceNames) == 0 {
		return "", nil
	}

	siblingContent := checker.collectSiblingContent(analysis)

	var unreferencedRows [][]string
	for _, interfaceName := range interfaceNames {
		if strings.Contains(siblingContent, interfaceName) {
			continue
		}
		unreferencedRows = append(unreferencedRows, []string{interfaceName})
	}

	if len(unreferencedRows) == 0 {
		return "", nil
	}

	renderer := analysis.Renderer
	var fragment strings.Builder
	fragment.WriteString(renderer.Header3(fmt.Sprintf(interfaceConformityTitleTemplateConstant, analysis.Module.Name)))
	fragment.WriteString(renderer.OpenSection())
	fragment.WriteString(renderer.Warning(unreferencedInterfacesHeaderConstant))
	fragment.WriteString(renderer.Table([]string{interfaceColumnHeaderConstant}, unreferencedRows))
	fragment.WriteString(renderer.CloseSection())
	return fragment.String(), nil
}

func (checker *InterfaceConformityChecker) collectInterfaceNames(module *workspace.Module) []string {
	var interfaceNames []string
	seenNames := map[string]struct{}{}
	for _, sourceContent := range checker.readSourceFiles(module) {
		for _, sourceLine := range strings.Split(sourceContent, "\n") {
			interfaceName, found := extractInterfaceName(sourceLine)
			if !found {
				continue
			}
			if _, duplicated := seenNames[interfaceName]; duplicated {
				continue
			}
			seenNames[interfaceName] = struct{}{}
			interfaceNames = append(interfaceNames, interfaceName)
		}
	}
	return interfaceNames
}

func (checker *InterfaceConformityChecker) collectSiblingContent(analysis *Context) string {
	var builder strings.Builder
	workspaceModules := append([]*workspace.Module{analysis.Root}, analysis.Root.Descendants()...)
	for _, candidateModule := range workspaceModules {
		if candidateModule == analysis.Module {
			continue
		}
		builder.WriteString(candidateModule.RawDescriptor)
		for _, sourceContent := range checker.readSourceFiles(candidateModule) {
			builder.WriteString(sourceContent)
		}
	}
	return builder.String()
}

func (checker *InterfaceConformityChecker) readSourceFiles(module *workspace.Module) []string {
	moduleFileSystem := os.DirFS(module.Path)
	matchedPaths, globError := doublestar.Glob(moduleFileSystem, checker.sourceGlob)
	if globError != nil {
		checker.logger.Warn(
			sourceScanFailedMessageConstant,
			zap.String(logFieldModuleNameConstant, module.Name),
			zap.String(logFieldSourceGlobConstant, checker.sourceGlob),
			zap.Error(globError),
		)
		return nil
	}

	var sourceContents []string
	for _, matchedPath := range matchedPaths {
		fileInformation, statError := fs.Stat(moduleFileSystem, matchedPath)
		if statError != nil || fileInformation.IsDir() {
			continue
		}
		fileContent, readError := os.ReadFile(filepath.Join(module.Path, filepath.FromSlash(matchedPath)))
		if readError != nil {
			continue
		}
		sourceContents = append(sourceContents, string(fileContent))
	}
	return sourceContents
}

func extractInterfaceName(sourceLine string) (string, bool) {
	tokenIndex := strings.Index(sourceLine, interfaceDeclarationTokenConstant)
	if tokenIndex < 0 {
		return "", false
	}

	remainder := strings.TrimSpace(sourceLine[tokenIndex+len(interfaceDeclarationTokenConstant):])
	fields := strings.Fields(remainder)
	if len(fields) == 0 {
		return "", false
	}

	interfaceName := fields[0]
	for _, stopCharacter := range []string{"<", "{", "("} {
		if stopIndex := strings.Index(interfaceName, stopCharacter); stopIndex >= 0 {
			interfaceName = interfaceName[:stopIndex]
		}
	}
	if len(interfaceName) == 0 {
		return "", false
	}
	return interfaceName, true
}
