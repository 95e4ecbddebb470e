// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package graphics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gviegas/gp3d/driver"
)

func writeConfig(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, DefaultSwapchainImageCount, cfg.ImageCount)
	assert.Equal(t, 1, cfg.SampleCount)
	assert.Equal(t, driver.D24unS8ui, cfg.DepthStencilFormat)
	assert.True(t, cfg.VSync)
	assert.False(t, cfg.Debug)
}

func TestLoadConfigTOML(t *testing.T) {
	path := writeConfig(t, "gp3d.toml", `
backend = "vulkan"
sample_count = 4
depth_stencil_format = "D32f"
debug = true
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	want := DefaultConfig()
	want.Backend = "vulkan"
	want.SampleCount = 4
	want.DepthStencilFormat = driver.D32f
	want.Debug = true
	assert.Equal(t, want, cfg)
}

func TestLoadConfigYAML(t *testing.T) {
	path := writeConfig(t, "gp3d.yaml", `
image_count: 2
depth_stencil_format: FUndefined
shader_root: assets/shaders
shader_ext: .bin
vsync: false
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	want := DefaultConfig()
	want.ImageCount = 2
	want.DepthStencilFormat = driver.FUndefined
	want.ShaderRoot = "assets/shaders"
	want.ShaderExt = ".bin"
	want.VSync = false
	assert.Equal(t, want, cfg)
}

func TestLoadConfigErrors(t *testing.T) {
	for _, x := range [...]struct {
		name, data string
	}{
		{"a.toml", "image_count = 0"},
		{"b.toml", "sample_count = 3"},
		{"c.yml", "depth_stencil_format: RGBA8un"},
		{"d.yml", "depth_stencil_format: D48"},
		{"e.toml", "shader_ext = \"spv\""},
		{"f.json", "{}"},
		{"g.toml", "backend = "},
	} {
		_, err := LoadConfig(writeConfig(t, x.name, x.data))
		assert.ErrorIs(t, err, ErrConfig, x.name)
	}
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestNewInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ImageCount = MaxSwapchainImageCount + 1
	_, err := New(&cfg)
	assert.ErrorIs(t, err, ErrConfig)
}
