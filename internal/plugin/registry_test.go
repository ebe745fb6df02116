package plugin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubPlugin is a minimal plugin for registry and host tests.
type stubPlugin struct {
	BasePlugin
	metadata PluginMetadata
	order    int
}

func (s *stubPlugin) Metadata() PluginMetadata { return s.metadata }
func (s *stubPlugin) Order() int               { return s.order }

func newStub(name, version string, pluginType PluginType, order int) *stubPlugin {
	return &stubPlugin{
		metadata: PluginMetadata{Name: name, Version: version, Type: pluginType},
		order:    order,
	}
}

func registerAll(t *testing.T, registry *Registry, plugins ...Plugin) {
	t.Helper()
	for _, p := range plugins {
		require.NoError(t, registry.Register(p))
	}
}

func TestPluginMetadataValidation(t *testing.T) {
	tests := []struct {
		name      string
		metadata  PluginMetadata
		expectErr bool
	}{
		{"valid metadata", PluginMetadata{Name: "social", Version: "v1.0.0", Type: PluginTypeAsset}, false},
		{"missing name", PluginMetadata{Version: "v1.0.0", Type: PluginTypeAsset}, true},
		{"missing version", PluginMetadata{Name: "social", Type: PluginTypeAsset}, true},
		{"invalid type", PluginMetadata{Name: "social", Version: "v1.0.0", Type: "theme"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.metadata.Validate()
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
	assert.Equal(t, "social@v1.0.0 (asset)", PluginMetadata{Name: "social", Version: "v1.0.0", Type: PluginTypeAsset}.String())
}

func TestRegistryRegister(t *testing.T) {
	registry := NewRegistry()
	p := newStub("exclude", "v1.0.0", PluginTypeFilter, 0)

	require.NoError(t, registry.Register(p))
	assert.Error(t, registry.Register(p), "duplicate registration")
	assert.Error(t, registry.Register(nil))
	assert.Error(t, registry.Register(newStub("", "v1.0.0", PluginTypeFilter, 0)))
	require.NoError(t, registry.Register(newStub("exclude", "v2.0.0", PluginTypeFilter, 0)))

	plugins := registry.List()
	require.Len(t, plugins, 2)
	assert.Same(t, p, plugins[0])
}

func TestRegistryListOrder(t *testing.T) {
	registry := NewRegistry()
	registerAll(t, registry,
		newStub("lightbox", "v1", PluginTypeRewrite, 30),
		newStub("video", "v1", PluginTypeRewrite, 10),
		newStub("social", "v1", PluginTypeAsset, 0),
		newStub("exclude", "v1", PluginTypeFilter, 0),
		newStub("image", "v1", PluginTypeRewrite, 20),
	)

	var names []string
	for _, p := range registry.List() {
		names = append(names, p.Metadata().Name)
	}
	assert.Equal(t, []string{"exclude", "social", "video", "image", "lightbox"}, names)
}
