package properties_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/wscheck/internal/properties"
	"github.com/temirov/wscheck/internal/workspace"
)

func buildModuleChain() *workspace.Module {
	rootModule := &workspace.Module{
		Name: "root",
		Properties: map[string]string{
			"commons.version": "1.2.0",
			"shared":          "from-root",
			"chained":         "${commons.version}",
		},
	}
	leafModule := &workspace.Module{
		Name:   "leaf",
		Parent: rootModule,
		Properties: map[string]string{
			"shared": "from-leaf",
			"cycle":  "${cycle}",
			"nested": "prefix-${chained}-suffix",
		},
	}
	return leafModule
}

func TestResolverResolve(testInstance *testing.T) {
	leafModule := buildModuleChain()
	resolver := properties.NewResolver(nil, map[string]string{"fallback.key": "fallback-value"})

	testCases := []struct {
		name          string
		value         string
		expectedValue string
	}{
		{name: "literal_untouched", value: "1.0.0", expectedValue: "1.0.0"},
		{name: "own_property_wins", value: "${shared}", expectedValue: "from-leaf"},
		{name: "ancestor_property", value: "${commons.version}", expectedValue: "1.2.0"},
		{name: "chained_indirection", value: "${nested}", expectedValue: "prefix-1.2.0-suffix"},
		{name: "fallback_source", value: "${fallback.key}", expectedValue: "fallback-value"},
		{name: "unresolved_preserved_verbatim", value: "${totally.unknown}", expectedValue: "${totally.unknown}"},
		{name: "partial_resolution_stops", value: "${shared}-${totally.unknown}", expectedValue: "from-leaf-${totally.unknown}"},
		{name: "unterminated_reference", value: "${broken", expectedValue: "${broken"},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subTest *testing.T) {
			require.Equal(subTest, testCase.expectedValue, resolver.Resolve(leafModule, testCase.value))
		})
	}
}

func TestResolverCircularReferenceTerminates(testInstance *testing.T) {
	leafModule := buildModuleChain()
	resolver := properties.NewResolver(nil, nil)

	resolvedValue := resolver.Resolve(leafModule, "${cycle}")
	require.Equal(testInstance, "${cycle}", resolvedValue)
}

func TestResolverNilModuleUsesFallbackOnly(testInstance *testing.T) {
	resolver := properties.NewResolver(nil, map[string]string{"key": "value"})
	require.Equal(testInstance, "value", resolver.Resolve(nil, "${key}"))
	require.Equal(testInstance, "${other}", resolver.Resolve(nil, "${other}"))
}

func TestResolvesWithoutReference(testInstance *testing.T) {
	resolver := properties.NewResolver(nil, nil)
	require.True(testInstance, resolver.ResolvesWithoutReference("1.2.0"))
	require.False(testInstance, resolver.ResolvesWithoutReference("${commons.version}"))
}
