// Copyright 2022 Gustavo C. Viegas. All rights reserved.

//go:build !nowsi

package wsi

import (
	"errors"
	"runtime"
	"unsafe"

	"github.com/go-gl/glfw/v3.3/glfw"
)

func init() {
	// GLFW must be called from the main thread.
	runtime.LockOSThread()
	newWindow = newWindowGLFW
	dispatch = dispatchGLFW
	setAppName = setAppNameGLFW
	vulkanProcAddr = vulkanProcAddrGLFW
	vulkanInstanceExts = vulkanInstanceExtsGLFW
	platform = GLFW
}

var glfwInit bool

// initGLFW initializes GLFW if it has not been
// initialized yet.
func initGLFW() error {
	if glfwInit {
		return nil
	}
	if err := glfw.Init(); err != nil {
		return errors.Join(ErrMissing, err)
	}
	glfwInit = true
	return nil
}

// windowGLFW implements Window and VulkanWindow.
type windowGLFW struct {
	win    *glfw.Window
	width  int
	height int
	title  string
}

func newWindowGLFW(width, height int, title string) (Window, error) {
	if err := initGLFW(); err != nil {
		return nil, err
	}
	glfw.DefaultWindowHints()
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Visible, glfw.False)
	win, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		return nil, err
	}
	w := &windowGLFW{
		win:    win,
		width:  width,
		height: height,
		title:  title,
	}
	win.SetSizeCallback(func(_ *glfw.Window, width, height int) {
		if width == w.width && height == w.height {
			return
		}
		w.width = width
		w.height = height
		if windowHandler != nil {
			windowHandler.WindowResize(w, width, height)
		}
	})
	win.SetCloseCallback(func(*glfw.Window) {
		if windowHandler != nil {
			windowHandler.WindowClose(w)
		}
	})
	return w, nil
}

// Map implements Window.
func (w *windowGLFW) Map() error {
	w.win.Show()
	return nil
}

// Unmap implements Window.
func (w *windowGLFW) Unmap() error {
	w.win.Hide()
	return nil
}

// Resize implements Window.
func (w *windowGLFW) Resize(width, height int) error {
	if width < 1 || height < 1 {
		return errors.New("wsi: invalid window size")
	}
	w.win.SetSize(width, height)
	return nil
}

// SetTitle implements Window.
func (w *windowGLFW) SetTitle(title string) error {
	w.win.SetTitle(title)
	w.title = title
	return nil
}

// Close implements Window.
func (w *windowGLFW) Close() {
	if w.win == nil {
		return
	}
	w.win.Destroy()
	w.win = nil
	closeWindow(w)
}

// Width implements Window.
func (w *windowGLFW) Width() int { return w.width }

// Height implements Window.
func (w *windowGLFW) Height() int { return w.height }

// Title implements Window.
func (w *windowGLFW) Title() string { return w.title }

// InstanceExtensions implements VulkanWindow.
func (w *windowGLFW) InstanceExtensions() []string {
	return w.win.GetRequiredInstanceExtensions()
}

// CreateSurface implements VulkanWindow.
func (w *windowGLFW) CreateSurface(instance any) (uintptr, error) {
	return w.win.CreateWindowSurface(instance, nil)
}

func dispatchGLFW() {
	if glfwInit {
		glfw.PollEvents()
	}
}

// GLFW has no notion of application name.
func setAppNameGLFW(string) {}

func vulkanProcAddrGLFW() (unsafe.Pointer, error) {
	if err := initGLFW(); err != nil {
		return nil, err
	}
	if !glfw.VulkanSupported() {
		return nil, errors.New("wsi: Vulkan loader not found")
	}
	return glfw.GetVulkanGetInstanceProcAddress(), nil
}

func vulkanInstanceExtsGLFW() []string {
	if initGLFW() != nil || !glfw.VulkanSupported() {
		return nil
	}
	// The receiver is not used.
	var w *glfw.Window
	return w.GetRequiredInstanceExtensions()
}
