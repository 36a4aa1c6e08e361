package workspace

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const (
	// DescriptorFileName is the per-module descriptor consumed by the
	// filesystem provider.
	DescriptorFileName = "module.yaml"

	descriptorReadErrorTemplateConstant   = "unable to read descriptor %s: %w"
	descriptorParseErrorTemplateConstant  = "unable to parse descriptor %s: %w"
	descriptorMissingNameTemplateConstant = "descriptor %s declares no module name"
	childDescriptorSkippedMessageConstant = "child module descriptor unavailable"
	logFieldModuleNameConstant            = "module_name"
	logFieldChildNameConstant             = "child_name"
	logFieldDescriptorPathConstant        = "descriptor_path"
)

// Provider discovers the workspace module tree rooted at the provided path.
type Provider interface {
	DiscoverWorkspace(discoveryContext context.Context, rootPath string) (*Module, error)
}

type moduleDescriptor struct {
	Name         string                 `yaml:"name"`
	Modules      []string               `yaml:"modules"`
	Properties   map[string]string      `yaml:"properties"`
	Dependencies []dependencyDescriptor `yaml:"dependencies"`
}

type dependencyDescriptor struct {
	Group    string `yaml:"group"`
	Artifact string `yaml:"artifact"`
	Version  string `yaml:"version"`
	Scope    string `yaml:"scope"`
}

// FilesystemProvider reads module.yaml descriptors from disk and links them
// into a module tree. A root descriptor that cannot be read or parsed is a
// fatal error; a declared child whose descriptor is absent is skipped with a
// debug log entry so structural checkers can report it.
type FilesystemProvider struct {
	logger *zap.Logger
}

// NewFilesystemProvider constructs a provider with an optional logger.
func NewFilesystemProvider(logger *zap.Logger) *FilesystemProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FilesystemProvider{logger: logger}
}

// DiscoverWorkspace loads the root descriptor and recursively attaches every
// declared child module that exists on disk.
func (provider *FilesystemProvider) DiscoverWorkspace(discoveryContext context.Context, rootPath string) (*Module, error) {
	rootModule, rootError := provider.loadModule(rootPath, nil)
	if rootError != nil {
		return nil, rootError
	}

	if attachError := provider.attachChildren(discoveryContext, rootModule); attachError != nil {
		return nil, attachError
	}

	return rootModule, nil
}

func (provider *FilesystemProvider) attachChildren(discoveryContext context.Context, parentModule *Module) error {
	for _, childName := range parentModule.DeclaredModules {
		if contextError := discoveryContext.Err(); contextError != nil {
			return contextError
		}

		childPath := filepath.Join(parentModule.Path, childName)
		descriptorPath := filepath.Join(childPath, DescriptorFileName)
		if _, statError := os.Stat(descriptorPath); statError != nil {
			provider.logger.Debug(
				childDescriptorSkippedMessageConstant,
				zap.String(logFieldModuleNameConstant, parentModule.Name),
				zap.String(logFieldChildNameConstant, childName),
				zap.String(logFieldDescriptorPathConstant, descriptorPath),
			)
			continue
		}

		childModule, childError := provider.loadModule(childPath, parentModule)
		if childError != nil {
			return childError
		}

		parentModule.Children = append(parentModule.Children, childModule)
		if attachError := provider.attachChildren(discoveryContext, childModule); attachError != nil {
			return attachError
		}
	}
	return nil
}

func (provider *FilesystemProvider) loadModule(modulePath string, parentModule *Module) (*Module, error) {
	descriptorPath := filepath.Join(modulePath, DescriptorFileName)
	descriptorContent, readError := os.ReadFile(descriptorPath)
	if readError != nil {
		return nil, fmt.Errorf(descriptorReadErrorTemplateConstant, descriptorPath, readError)
	}

	var descriptor moduleDescriptor
	if parseError := yaml.Unmarshal(descriptorContent, &descriptor); parseError != nil {
		return nil, fmt.Errorf(descriptorParseErrorTemplateConstant, descriptorPath, parseError)
	}

	moduleName := strings.TrimSpace(descriptor.Name)
	if len(moduleName) == 0 {
		return nil, fmt.Errorf(descriptorMissingNameTemplateConstant, descriptorPath)
	}

	properties := descriptor.Properties
	if properties == nil {
		properties = map[string]string{}
	}

	dependencies := make([]Dependency, 0, len(descriptor.Dependencies))
	for _, declared := range descriptor.Dependencies {
		dependencies = append(dependencies, Dependency{
			Coordinate: Coordinate{Group: declared.Group, Artifact: declared.Artifact},
			Version:    declared.Version,
			Scope:      declared.Scope,
		})
	}

	return &Module{
		Name:            moduleName,
		Path:            modulePath,
		Parent:          parentModule,
		DeclaredModules: append([]string{}, descriptor.Modules...),
		Properties:      properties,
		Dependencies:    dependencies,
		RawDescriptor:   string(descriptorContent),
	}, nil
}
