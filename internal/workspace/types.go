package workspace

import (
	"fmt"
	"sort"
)

const coordinateTemplateConstant = "%s:%s"

// Coordinate identifies a dependency independently of its version.
type Coordinate struct {
	Group    string `yaml:"group"`
	Artifact string `yaml:"artifact"`
}

// String renders the coordinate in the canonical group:artifact form.
func (coordinate Coordinate) String() string {
	return fmt.Sprintf(coordinateTemplateConstant, coordinate.Group, coordinate.Artifact)
}

// Dependency couples a coordinate with a declared version string. The version
// may be a literal or an indirect ${name} reference.
type Dependency struct {
	Coordinate Coordinate
	Version    string
	Scope      string
}

// Module is one unit in the analyzed workspace tree. The root module has a
// nil Parent.
type Module struct {
	Name            string
	Path            string
	Parent          *Module
	Children        []*Module
	DeclaredModules []string
	Properties      map[string]string
	Dependencies    []Dependency
	RawDescriptor   string
}

// IsRoot reports whether the module is the workspace root.
func (module *Module) IsRoot() bool {
	return module.Parent == nil
}

// Root walks the parent chain to the workspace root.
func (module *Module) Root() *Module {
	current := module
	for current.Parent != nil {
		current = current.Parent
	}
	return current
}

// AncestorChain returns the module's ancestors ordered nearest first.
func (module *Module) AncestorChain() []*Module {
	var ancestors []*Module
	for current := module.Parent; current != nil; current = current.Parent {
		ancestors = append(ancestors, current)
	}
	return ancestors
}

// Descendants returns every module below the receiver, sorted by name.
func (module *Module) Descendants() []*Module {
	var collected []*Module
	var visit func(current *Module)
	visit = func(current *Module) {
		for _, child := range current.Children {
			collected = append(collected, child)
			visit(child)
		}
	}
	visit(module)
	sort.Slice(collected, func(firstIndex int, secondIndex int) bool {
		return collected[firstIndex].Name < collected[secondIndex].Name
	})
	return collected
}

// LookupProperty searches the module's own properties and then the ancestor
// chain, nearest ancestor first.
func (module *Module) LookupProperty(key string) (string, bool) {
	if value, found := module.Properties[key]; found {
		return value, true
	}
	for _, ancestor := range module.AncestorChain() {
		if value, found := ancestor.Properties[key]; found {
			return value, true
		}
	}
	return "", false
}
