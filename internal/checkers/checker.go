package checkers

import (
	"context"

	"github.com/temirov/wscheck/internal/properties"
	"github.com/temirov/wscheck/internal/render"
	"github.com/temirov/wscheck/internal/versions"
	"github.com/temirov/wscheck/internal/workspace"
)

const logFieldModuleNameConstant = "module_name"

// Checker analyzes one module and produces a rendered report fragment. An
// empty fragment means "no issue". Implementations must be safe for
// concurrent invocation across modules.
type Checker interface {
	ID() string
	Check(executionContext context.Context, analysis *Context) (string, error)
}

// Context carries everything a single checker invocation may consult. It is
// built fresh per (module, checker) execution by the scheduler, owned
// exclusively for the duration of that run, and discarded afterwards.
type Context struct {
	Module            *workspace.Module
	Root              *workspace.Module
	PropertiesToCheck []string
	Resolver          *properties.Resolver
	Versions          versions.QueryService
	Renderer          render.Renderer
}

// IsRoot reports whether the context targets the workspace root.
func (analysis *Context) IsRoot() bool {
	return analysis.Module != nil && analysis.Module.IsRoot()
}
