// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Package wsi provides window system integration (WSI)
// for GPU drivers.
// Because a system need not have a window system, WSI
// is conditionally supported: building with the nowsi
// tag leaves out the GLFW platform, in which case only
// headless windows can be created.
// The headless tag is taken by goki/vulkan.
package wsi

import (
	"errors"
	"sync"
	"unsafe"
)

// Window is the interface that defines a drawable window.
// The purpose of a window is to provide a surface into
// which a GPU can draw.
type Window interface {
	// Map makes the window visible.
	Map() error

	// Unmap hides the window.
	Unmap() error

	// Resize resizes the window.
	Resize(width, height int) error

	// SetTitle sets the window's title.
	SetTitle(title string) error

	// Close closes the window.
	Close()

	// Width returns the window's width.
	Width() int

	// Height returns the window's height.
	Height() int

	// Title returns the window's title.
	Title() string
}

// VulkanWindow is the interface that windows backed by
// a native surface implement to let a Vulkan driver
// present on them.
type VulkanWindow interface {
	Window

	// InstanceExtensions returns the names of the
	// instance extensions required to create surfaces.
	InstanceExtensions() []string

	// CreateSurface creates a VkSurfaceKHR for the
	// given VkInstance.
	CreateSurface(instance any) (uintptr, error)
}

// ErrMissing means that no WSI platform is available.
var ErrMissing = errors.New("wsi: no wsi implementation")

// NewWindow creates a new window.
func NewWindow(width, height int, title string) (Window, error) {
	mu.Lock()
	defer mu.Unlock()
	if windowCount >= MaxWindows {
		return nil, errors.New("wsi: too many windows")
	}
	win, err := newWindow(width, height, title)
	if err != nil {
		return nil, err
	}
	addWindow(win)
	return win, nil
}

var newWindow func(int, int, string) (Window, error)

// The maximum number of windows that can exist at any
// given time.
const MaxWindows = 16

// Windows returns all created windows.
// The returned value becomes out of date after calls to
// NewWindow, NewHeadless and Window.Close.
func Windows() []Window {
	mu.Lock()
	defer mu.Unlock()
	if windowCount == 0 {
		return nil
	}
	wins := make([]Window, 0, windowCount)
	for i := range createdWindows {
		if createdWindows[i] != nil {
			wins = append(wins, createdWindows[i])
		}
	}
	return wins
}

// addWindow adds win to createdWindows and increments
// windowCount.
// The caller must hold mu and must have checked that
// there is room for win.
func addWindow(win Window) {
	for i := range createdWindows {
		if createdWindows[i] == nil {
			createdWindows[i] = win
			windowCount++
			return
		}
	}
}

// closeWindow removes win from createdWindows and
// decrements windowCount.
// It must be called by implementations on win.Close.
// Note that win must be comparable.
func closeWindow(win Window) {
	mu.Lock()
	defer mu.Unlock()
	for i := range createdWindows {
		if createdWindows[i] == win {
			createdWindows[i] = nil
			windowCount--
			return
		}
	}
}

var (
	mu             sync.Mutex
	windowCount    int
	createdWindows [MaxWindows]Window
)

// WindowHandler is the interface that defines the methods
// for handling window events.
type WindowHandler interface {
	// WindowClose is called when a window is closed.
	WindowClose(win Window)

	// WindowResize is called when a window is resized.
	WindowResize(win Window, newWidth, newHeight int)
}

// SetWindowHandler sets the global WindowHandler.
func SetWindowHandler(wh WindowHandler) {
	windowHandler = wh
}

var windowHandler WindowHandler

// Dispatch dispatches queued events.
func Dispatch() {
	dispatch()
}

var dispatch func()

// AppName returns the string used to identify the application.
// Its use is platform-specific.
func AppName() string {
	return appName
}

// SetAppName updates the string used to identify the
// application.
func SetAppName(s string) {
	setAppName(s)
	appName = s
}

var (
	appName    string
	setAppName func(string)
)

// VulkanProcAddr returns the address of the platform's
// vkGetInstanceProcAddr.
// It fails with ErrMissing if the platform cannot
// provide one.
func VulkanProcAddr() (unsafe.Pointer, error) {
	return vulkanProcAddr()
}

var vulkanProcAddr func() (unsafe.Pointer, error)

// VulkanInstanceExtensions returns the names of the
// instance extensions that the platform requires for
// surface creation, or nil if it cannot present.
func VulkanInstanceExtensions() []string {
	return vulkanInstanceExts()
}

var vulkanInstanceExts func() []string

// Platform identifies an underlying platform used to
// implement wsi.
type Platform int

// Platforms.
const (
	// None means that only headless windows are
	// available. In this case, calls to NewWindow
	// will always fail, and calls to Dispatch
	// will do nothing.
	None Platform = iota
	GLFW
)

// PlatformInUse identifies the underlying platform which
// wsi is using.
func PlatformInUse() Platform {
	return platform
}

var platform Platform
