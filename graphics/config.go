// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package graphics

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"gviegas/gp3d/driver"
)

// DefaultSwapchainImageCount is the number of swapchain
// images used when Config.ImageCount is not set.
const DefaultSwapchainImageCount = 3

// MaxSwapchainImageCount is the maximum value of
// Config.ImageCount.
const MaxSwapchainImageCount = 8

// ErrConfig means that a Config is invalid.
var ErrConfig = errors.New("graphics: invalid configuration")

// Config is used to configure a Graphics.
type Config struct {
	// Name of the driver to use. Any registered driver
	// whose name contains this string (ignoring case)
	// is considered.
	//
	// Default is the empty string, which selects the
	// first driver that opens.
	Backend string `toml:"backend" yaml:"backend"`

	// Number of swapchain images.
	//
	// Default is DefaultSwapchainImageCount.
	ImageCount int `toml:"image_count" yaml:"image_count"`

	// Sample count of the swapchain render passes.
	// If greater than 1, rendering targets multisample
	// attachments that are resolved into the swapchain
	// images when the render pass ends.
	//
	// Default is 1.
	SampleCount int `toml:"sample_count" yaml:"sample_count"`

	// Depth/stencil format of the swapchain render
	// passes. FUndefined means no depth/stencil
	// attachment.
	//
	// Default is D24unS8ui.
	DepthStencilFormat driver.Format `toml:"depth_stencil_format" yaml:"depth_stencil_format"`

	// Directory against which CreateShader resolves
	// shader URLs.
	//
	// Default is "shaders".
	ShaderRoot string `toml:"shader_root" yaml:"shader_root"`

	// Extension of compiled shader files. It replaces
	// the driver's default extension (e.g., ".spv" for
	// Vulkan).
	//
	// Default is the empty string.
	ShaderExt string `toml:"shader_ext" yaml:"shader_ext"`

	// Whether presentation waits for the vertical blank.
	//
	// Default is true.
	VSync bool `toml:"vsync" yaml:"vsync"`

	// Whether drivers should validate API usage.
	//
	// Default is false.
	Debug bool `toml:"debug" yaml:"debug"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		ImageCount:         DefaultSwapchainImageCount,
		SampleCount:        1,
		DepthStencilFormat: driver.D24unS8ui,
		ShaderRoot:         "shaders",
		VSync:              true,
	}
}

// LoadConfig reads a configuration file.
// The file is decoded as TOML if its extension is
// ".toml" and as YAML if it is ".yaml" or ".yml".
// Keys missing from the file keep their default values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		err = toml.Unmarshal(b, &cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &cfg)
	default:
		return cfg, fmt.Errorf("%w: unknown file extension %q", ErrConfig, ext)
	}
	if err != nil {
		return cfg, fmt.Errorf("%w: %s: %w", ErrConfig, path, err)
	}
	return cfg, cfg.Validate()
}

// Validate checks that c is a valid configuration.
func (c *Config) Validate() error {
	switch {
	case c.ImageCount < 1 || c.ImageCount > MaxSwapchainImageCount:
		return fmt.Errorf("%w: image count %d", ErrConfig, c.ImageCount)
	case c.SampleCount < 1 || c.SampleCount&(c.SampleCount-1) != 0:
		return fmt.Errorf("%w: sample count %d", ErrConfig, c.SampleCount)
	case c.DepthStencilFormat != driver.FUndefined && !c.DepthStencilFormat.IsDepthStencil():
		return fmt.Errorf("%w: depth/stencil format %v", ErrConfig, c.DepthStencilFormat)
	case c.ShaderExt != "" && !strings.HasPrefix(c.ShaderExt, "."):
		return fmt.Errorf("%w: shader extension %q", ErrConfig, c.ShaderExt)
	}
	return nil
}
