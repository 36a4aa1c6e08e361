package checkers

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

const (
	propertyPresenceTitleTemplateConstant = "Missing properties in %s"
	missingPropertiesHeaderConstant       = "The following required properties are not declared:"
	propertyKeyColumnConstant             = "Key"
	propertyStatusColumnConstant          = "Status"
	propertySuggestionColumnConstant      = "Suggestion"
	propertyMissingStatusConstant         = "missing"
	propertySuggestionTemplateConstant    = "Suggested value: %s"
	missingPropertyLogMessageConstant     = "required property missing"
	logFieldPropertyKeyConstant           = "property_key"
)

// knownPropertySuggestions maps well-known property keys to suggested
// values surfaced alongside the missing-property finding.
var knownPropertySuggestions = map[string]string{
	"workspace.encoding":  "UTF-8",
	"workspace.toolchain": "stable",
	"component.name":      "XXX-0007",
}

// PropertyPresenceChecker verifies that every configured property name is
// declared on the workspace root. Runs on the root only.
type PropertyPresenceChecker struct {
	logger *zap.Logger
}

// NewPropertyPresenceChecker constructs the checker.
func NewPropertyPresenceChecker(logger *zap.Logger) *PropertyPresenceChecker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PropertyPresenceChecker{logger: logger}
}

// ID returns the checker identifier.
func (checker *PropertyPresenceChecker) ID() string {
	return CheckerIDPropertyPresence
}

// Check reports configured property names absent from the root's properties.
func (checker *PropertyPresenceChecker) Check(executionContext context.Context, analysis *Context) (string, error) {
	uniquePropertyNames := deduplicatePreservingOrder(analysis.PropertiesToCheck)

	var missingRows [][]string
	for _, propertyName := range uniquePropertyNames {
		if _, declared := analysis.Module.Properties[propertyName]; declared {
			continue
		}

		checker.logger.Warn(
			missingPropertyLogMessageConstant,
			zap.String(logFieldPropertyKeyConstant, propertyName),
		)

		suggestionText := ""
		if suggestedValue, suggested := knownPropertySuggestions[propertyName]; suggested {
			suggestionText = fmt.Sprintf(propertySuggestionTemplateConstant, suggestedValue)
		}
		missingRows = append(missingRows, []string{propertyName, propertyMissingStatusConstant, suggestionText})
	}

	if len(missingRows) == 0 {
		return "", nil
	}

	renderer := analysis.Renderer
	var fragment strings.Builder
	fragment.WriteString(renderer.Header3(fmt.Sprintf(propertyPresenceTitleTemplateConstant, analysis.Module.Name)))
	fragment.WriteString(renderer.OpenSection())
	fragment.WriteString(renderer.Error(missingPropertiesHeaderConstant))
	fragment.WriteString(renderer.Table(
		[]string{propertyKeyColumnConstant, propertyStatusColumnConstant, propertySuggestionColumnConstant},
		missingRows,
	))
	fragment.WriteString(renderer.CloseSection())
	return fragment.String(), nil
}

func deduplicatePreservingOrder(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	var unique []string
	for _, value := range values {
		trimmedValue := strings.TrimSpace(value)
		if len(trimmedValue) == 0 {
			continue
		}
		if _, duplicated := seen[trimmedValue]; duplicated {
			continue
		}
		seen[trimmedValue] = struct{}{}
		unique = append(unique, trimmedValue)
	}
	return unique
}
