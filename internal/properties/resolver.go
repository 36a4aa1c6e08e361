// Package properties resolves indirect ${name} references declared in module
// descriptors against the owning module, its ancestor chain, and a
// process-wide fallback source.
package properties

import (
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/wscheck/internal/workspace"
)

const (
	referenceOpenTokenConstant  = "${"
	referenceCloseTokenConstant = "}"

	// substitutionCeilingConstant bounds the number of substitution passes so
	// circular references terminate.
	substitutionCeilingConstant = 10

	ceilingReachedMessageConstant = "property substitution ceiling reached"
	logFieldValueConstant         = "value"
	logFieldModuleNameConstant    = "module_name"
)

// Resolver performs repeated placeholder substitution. Instances are
// stateless apart from construction-time collaborators and safe for
// concurrent use.
type Resolver struct {
	logger         *zap.Logger
	fallbackValues map[string]string
}

// NewResolver constructs a resolver with an optional logger and an optional
// process-wide fallback property source consulted after the ancestor chain.
func NewResolver(logger *zap.Logger, fallbackValues map[string]string) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	duplicatedFallback := make(map[string]string, len(fallbackValues))
	for fallbackKey, fallbackValue := range fallbackValues {
		duplicatedFallback[fallbackKey] = fallbackValue
	}
	return &Resolver{logger: logger, fallbackValues: duplicatedFallback}
}

// Resolve substitutes ${name} references in value until none remain, an
// unresolvable reference is found, or the substitution ceiling is reached.
// Unresolvable references are preserved verbatim. On hitting the ceiling the
// last intermediate value is returned and a warning is logged.
func (resolver *Resolver) Resolve(owningModule *workspace.Module, value string) string {
	currentValue := value
	for iteration := 0; iteration < substitutionCeilingConstant; iteration++ {
		referenceName, found := firstReference(currentValue)
		if !found {
			return currentValue
		}

		replacement, resolvable := resolver.lookup(owningModule, referenceName)
		if !resolvable {
			return currentValue
		}

		reference := referenceOpenTokenConstant + referenceName + referenceCloseTokenConstant
		currentValue = strings.Replace(currentValue, reference, replacement, 1)
	}

	resolver.logger.Warn(
		ceilingReachedMessageConstant,
		zap.String(logFieldValueConstant, value),
		zap.String(logFieldModuleNameConstant, moduleName(owningModule)),
	)
	return currentValue
}

// ResolvesWithoutReference reports whether the value never passes through a
// ${name} indirection, meaning the value is hardcoded rather than resolved
// from a property.
func (resolver *Resolver) ResolvesWithoutReference(value string) bool {
	return !strings.Contains(value, referenceOpenTokenConstant)
}

func (resolver *Resolver) lookup(owningModule *workspace.Module, referenceName string) (string, bool) {
	if owningModule != nil {
		if value, found := owningModule.LookupProperty(referenceName); found {
			return value, true
		}
	}
	if value, found := resolver.fallbackValues[referenceName]; found {
		return value, true
	}
	return "", false
}

func firstReference(value string) (string, bool) {
	openIndex := strings.Index(value, referenceOpenTokenConstant)
	if openIndex < 0 {
		return "", false
	}
	closeIndex := strings.Index(value[openIndex:], referenceCloseTokenConstant)
	if closeIndex < 0 {
		return "", false
	}
	return value[openIndex+len(referenceOpenTokenConstant) : openIndex+closeIndex], true
}

func moduleName(module *workspace.Module) string {
	if module == nil {
		return ""
	}
	return module.Name
}
