// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package wsi

import "errors"

// Headless is a window with no on-screen presence.
// It is available on every platform and is meant for
// offscreen rendering and for tests: drivers that
// support it present into host memory.
type Headless struct {
	width  int
	height int
	title  string
	mapped bool
	closed bool
}

// NewHeadless creates a new headless window.
func NewHeadless(width, height int) (*Headless, error) {
	if width < 1 || height < 1 {
		return nil, errors.New("wsi: invalid window size")
	}
	mu.Lock()
	defer mu.Unlock()
	if windowCount >= MaxWindows {
		return nil, errors.New("wsi: too many windows")
	}
	win := &Headless{width: width, height: height}
	addWindow(win)
	return win, nil
}

// Map implements Window.
func (w *Headless) Map() error {
	w.mapped = true
	return nil
}

// Unmap implements Window.
func (w *Headless) Unmap() error {
	w.mapped = false
	return nil
}

// Resize implements Window.
// The WindowHandler, if any, is notified synchronously.
func (w *Headless) Resize(width, height int) error {
	if width < 1 || height < 1 {
		return errors.New("wsi: invalid window size")
	}
	if width == w.width && height == w.height {
		return nil
	}
	w.width = width
	w.height = height
	if windowHandler != nil {
		windowHandler.WindowResize(w, width, height)
	}
	return nil
}

// SetTitle implements Window.
func (w *Headless) SetTitle(title string) error {
	w.title = title
	return nil
}

// Close implements Window.
func (w *Headless) Close() {
	if w.closed {
		return
	}
	w.closed = true
	closeWindow(w)
	if windowHandler != nil {
		windowHandler.WindowClose(w)
	}
}

// Width implements Window.
func (w *Headless) Width() int { return w.width }

// Height implements Window.
func (w *Headless) Height() int { return w.height }

// Title implements Window.
func (w *Headless) Title() string { return w.title }

// Mapped returns whether the window is mapped.
func (w *Headless) Mapped() bool { return w.mapped }
