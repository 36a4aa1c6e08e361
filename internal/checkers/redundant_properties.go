package checkers

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/wscheck/internal/workspace"
)

const (
	redundantPropertiesTitleTemplateConstant = "Unused properties in %s"
	unusedPropertiesHeaderConstant           = "The following properties are declared but never referenced:"
	propertyReferenceTemplateConstant        = "${%s}"
	propertyValueColumnConstant              = "Value"
	unusedPropertyLogMessageConstant         = "unused property detected"
)

// RedundantPropertiesChecker reports properties that are declared on a
// module but whose ${name} reference never appears in the module's own
// descriptor or any descendant descriptor.
type RedundantPropertiesChecker struct {
	logger *zap.Logger
}

// NewRedundantPropertiesChecker constructs the checker.
func NewRedundantPropertiesChecker(logger *zap.Logger) *RedundantPropertiesChecker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedundantPropertiesChecker{logger: logger}
}

// ID returns the checker identifier.
func (checker *RedundantPropertiesChecker) ID() string {
	return CheckerIDRedundantProperties
}

// Check scans the combined descriptor content of the module subtree for
// references to each declared property.
func (checker *RedundantPropertiesChecker) Check(executionContext context.Context, analysis *Context) (string, error) {
	if len(analysis.Module.Properties) == 0 {
		return "", nil
	}

	combinedDescriptorContent := combineDescriptorContent(analysis.Module)

	propertyKeys := make([]string, 0, len(analysis.Module.Properties))
	for propertyKey := range analysis.Module.Properties {
		propertyKeys = append(propertyKeys, propertyKey)
	}
	sort.Strings(propertyKeys)

	var unusedRows [][]string
	for _, propertyKey := range propertyKeys {
		propertyReference := fmt.Sprintf(propertyReferenceTemplateConstant, propertyKey)
		if strings.Contains(combinedDescriptorContent, propertyReference) {
			continue
		}

		checker.logger.Warn(
			unusedPropertyLogMessageConstant,
			zap.String(logFieldPropertyKeyConstant, propertyKey),
		)
		unusedRows = append(unusedRows, []string{propertyKey, analysis.Module.Properties[propertyKey]})
	}

	if len(unusedRows) == 0 {
		return "", nil
	}

	renderer := analysis.Renderer
	var fragment strings.Builder
	fragment.WriteString(renderer.Header3(fmt.Sprintf(redundantPropertiesTitleTemplateConstant, analysis.Module.Name)))
	fragment.WriteString(renderer.OpenSection())
	fragment.WriteString(renderer.Warning(unusedPropertiesHeaderConstant))
	fragment.WriteString(renderer.Table([]string{propertyKeyColumnConstant, propertyValueColumnConstant}, unusedRows))
	fragment.WriteString(renderer.CloseSection())
	return fragment.String(), nil
}

func combineDescriptorContent(module *workspace.Module) string {
	var builder strings.Builder
	builder.WriteString(module.RawDescriptor)
	for _, descendant := range module.Descendants() {
		builder.WriteString(descendant.RawDescriptor)
	}
	return builder.String()
}
