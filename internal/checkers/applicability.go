package checkers

import (
	"strings"

	"github.com/temirov/wscheck/internal/workspace"
)

const apiModuleSuffixConstant = "-api"

// ApplicabilityRules declares which checker identifiers are scoped to the
// workspace root and which require a module-name suffix. Identifiers absent
// from both maps apply to every module unconditionally.
type ApplicabilityRules struct {
	RootOnlyIdentifiers map[string]struct{}
	SuffixByIdentifier  map[string]string
}

// DefaultApplicabilityRules returns the rule set for the built-in checkers:
// workspace-structure and required-property checks run on the root only, and
// interface conformity runs on api-suffixed modules only.
func DefaultApplicabilityRules() ApplicabilityRules {
	return ApplicabilityRules{
		RootOnlyIdentifiers: map[string]struct{}{
			CheckerIDExpectedModules:  {},
			CheckerIDPropertyPresence: {},
		},
		SuffixByIdentifier: map[string]string{
			CheckerIDInterfaceConformity: apiModuleSuffixConstant,
		},
	}
}

// ApplicabilityResolver decides, for a (checker, module) pair, whether the
// checker must run. When a requested subset is configured, identifiers
// outside the subset never apply.
type ApplicabilityResolver struct {
	rules                ApplicabilityRules
	requestedIdentifiers map[string]struct{}
}

// NewApplicabilityResolver builds a resolver over the rule set. The
// requested subset restricts the applicable universe; unknown requested
// identifiers are returned so callers can surface configuration warnings
// without failing the run.
func NewApplicabilityResolver(rules ApplicabilityRules, requestedIdentifiers []string, knownIdentifiers []string) (*ApplicabilityResolver, []string) {
	knownSet := make(map[string]struct{}, len(knownIdentifiers))
	for _, knownIdentifier := range knownIdentifiers {
		knownSet[knownIdentifier] = struct{}{}
	}

	var requestedSet map[string]struct{}
	var unknownIdentifiers []string
	if len(requestedIdentifiers) > 0 {
		requestedSet = make(map[string]struct{}, len(requestedIdentifiers))
		for _, requestedIdentifier := range requestedIdentifiers {
			trimmedIdentifier := strings.TrimSpace(requestedIdentifier)
			if len(trimmedIdentifier) == 0 {
				continue
			}
			requestedSet[trimmedIdentifier] = struct{}{}
			if _, known := knownSet[trimmedIdentifier]; !known {
				unknownIdentifiers = append(unknownIdentifiers, trimmedIdentifier)
			}
		}
	}

	return &ApplicabilityResolver{rules: rules, requestedIdentifiers: requestedSet}, unknownIdentifiers
}

// Applies reports whether the checker must run on the module.
func (resolver *ApplicabilityResolver) Applies(checkerIdentifier string, module *workspace.Module, isRoot bool) bool {
	if resolver.requestedIdentifiers != nil {
		if _, requested := resolver.requestedIdentifiers[checkerIdentifier]; !requested {
			return false
		}
	}

	if _, rootOnly := resolver.rules.RootOnlyIdentifiers[checkerIdentifier]; rootOnly && !isRoot {
		return false
	}

	if requiredSuffix, suffixScoped := resolver.rules.SuffixByIdentifier[checkerIdentifier]; suffixScoped {
		if module == nil || !strings.HasSuffix(module.Name, requiredSuffix) {
			return false
		}
	}

	return true
}
