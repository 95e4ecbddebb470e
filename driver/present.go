// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package driver

import (
	"errors"

	"gviegas/gp3d/wsi"
)

// ErrCannotPresent means that the driver and/or device do not
// support presentation.
var ErrCannotPresent = errors.New("driver: presentation not supported")

// ErrWindow represents an error related to a specific window.
// This error usually indicates that a window misconfiguration
// is preventing correct operation.
var ErrWindow = errors.New("driver: window-related error")

// ErrSwapchain represents an error related to a specific
// swapchain.
// This error usually indicates that changes to the window or
// compositor made the swapchain unusable.
var ErrSwapchain = errors.New("driver: swapchain-related error")

// ErrNoBackbuffer means that all available backbuffers
// were acquired.
// Backbuffers are released during presentation.
var ErrNoBackbuffer = errors.New("driver: all backbuffers in use")

// Presenter is the interface that a GPU may implement
// to enable presentation on a display.
type Presenter interface {
	// NewSwapchain creates a new swapchain.
	// Only one swapchain can be associated with a specific
	// wsi.Window at a time.
	NewSwapchain(win wsi.Window, imageCount int) (Swapchain, error)
}

// Swapchain is the interface that defines a n-buffered
// swapchain for presentation.
// To present, one calls Next to obtain the index of a
// texture to target, transitions the texture from
// UPresent to UColorAttachment, records commands as
// needed, transitions the texture back to UPresent,
// submits these commands and then calls Present.
type Swapchain interface {
	Destroyer

	// Textures returns the list of textures that
	// comprises the swapchain.
	// They wrap swapchain images, so their HostOwned
	// method returns false. Their usage includes
	// UColorAttachment and UPresent.
	// This value remains unchanged as long as the
	// swapchain's Destroy or Recreate methods are
	// not called.
	// Swapchain textures are in the UPresent state
	// when created/recreated.
	Textures() []Texture

	// Next returns the index of the next writable
	// texture.
	Next() (int, error)

	// Present presents the texture identified by
	// index.
	// The command buffer that transitions the texture
	// to UPresent must be submitted before this method
	// is called.
	Present(index int) error

	// Recreate recreates the swapchain using the
	// window's current size.
	// It is meant to be called after the window is
	// resized or in response to a ErrSwapchain error.
	// Textures from before the call become invalid.
	Recreate() error

	// Format returns the textures' Format.
	Format() Format
}

// VSyncer is the interface that a Swapchain may implement
// to let the caller choose whether presentation waits
// for the vertical blank.
// Swapchains that do not implement it always wait.
type VSyncer interface {
	SetVSync(on bool) error
}
