package checkers

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
)

const (
	propertyRedefinitionTitleTemplateConstant = "Property redefinitions in %s"
	identicalRedefinitionHeaderConstant       = "Properties re-declared with the value already inherited (redundant):"
	overridingRedefinitionHeaderConstant      = "Properties overriding an inherited value:"
	inheritedValueColumnConstant              = "Inherited value"
	redefinedValueColumnConstant              = "Redefined value"
	ancestorColumnHeaderConstant              = "Declared by"
	propertyRedefinitionLogMessageConstant    = "property redefinition detected"
	logFieldAncestorNameConstant              = "ancestor_name"
)

// PropertyRedefinitionChecker reports module properties that re-declare a
// key already present on an ancestor, distinguishing identical (redundant)
// redefinitions from overriding ones.
type PropertyRedefinitionChecker struct {
	logger *zap.Logger
}

// NewPropertyRedefinitionChecker constructs the checker.
func NewPropertyRedefinitionChecker(logger *zap.Logger) *PropertyRedefinitionChecker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PropertyRedefinitionChecker{logger: logger}
}

// ID returns the checker identifier.
func (checker *PropertyRedefinitionChecker) ID() string {
	return CheckerIDPropertyRedefinition
}

// Check compares the module's properties against the ancestor chain.
func (checker *PropertyRedefinitionChecker) Check(executionContext context.Context, analysis *Context) (string, error) {
	if analysis.Module.IsRoot() {
		return "", nil
	}

	propertyKeys := make([]string, 0, len(analysis.Module.Properties))
	for propertyKey := range analysis.Module.Properties {
		propertyKeys = append(propertyKeys, propertyKey)
	}
	sort.Strings(propertyKeys)

	var identicalRows [][]string
	var overridingRows [][]string
	for _, propertyKey := range propertyKeys {
		localValue := analysis.Module.Properties[propertyKey]
		ancestorName, inheritedValue, inheritedFound := nearestAncestorProperty(analysis, propertyKey)
		if !inheritedFound {
			continue
		}

		checker.logger.Warn(
			propertyRedefinitionLogMessageConstant,
			zap.String(logFieldPropertyKeyConstant, propertyKey),
			zap.String(logFieldAncestorNameConstant, ancestorName),
		)

		row := []string{propertyKey, inheritedValue, localValue, ancestorName}
		if localValue == inheritedValue {
			identicalRows = append(identicalRows, row)
		} else {
			overridingRows = append(overridingRows, row)
		}
	}

	if len(identicalRows) == 0 && len(overridingRows) == 0 {
		return "", nil
	}

	renderer := analysis.Renderer
	tableHeaders := []string{propertyKeyColumnConstant, inheritedValueColumnConstant, redefinedValueColumnConstant, ancestorColumnHeaderConstant}

	var fragment strings.Builder
	fragment.WriteString(renderer.Header3(fmt.Sprintf(propertyRedefinitionTitleTemplateConstant, analysis.Module.Name)))
	fragment.WriteString(renderer.OpenSection())
	if len(identicalRows) > 0 {
		fragment.WriteString(renderer.Warning(identicalRedefinitionHeaderConstant))
		fragment.WriteString(renderer.Table(tableHeaders, identicalRows))
	}
	if len(overridingRows) > 0 {
		fragment.WriteString(renderer.Warning(overridingRedefinitionHeaderConstant))
		fragment.WriteString(renderer.Table(tableHeaders, overridingRows))
	}
	fragment.WriteString(renderer.CloseSection())
	return fragment.String(), nil
}

func nearestAncestorProperty(analysis *Context, propertyKey string) (string, string, bool) {
	for _, ancestor := range analysis.Module.AncestorChain() {
		if inheritedValue, found := ancestor.Properties[propertyKey]; found {
			return ancestor.Name, inheritedValue, true
		}
	}
	return "", "", false
}
