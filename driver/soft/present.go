// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package soft

import (
	"fmt"
	"sync"

	"gviegas/gp3d/driver"
	"gviegas/gp3d/wsi"
)

// Swapchain image format.
const swapchainFormat = driver.BGRA8un

// Swapchain image usage.
const swapchainUsage = driver.UColorAttachment | driver.UPresent | driver.UTransferSrc | driver.UResolveDst

// Image status.
const (
	imgFree = iota
	imgAcquired
	imgQueued
)

// swapchain implements driver.Swapchain.
// Any wsi.Window can be presented on, since images are
// kept in host memory and presentation only releases
// them.
type swapchain struct {
	d     *Driver
	win   wsi.Window
	count int

	mu     sync.Mutex
	cond   sync.Cond
	width  int
	height int
	views  []driver.Texture
	status []int
}

// NewSwapchain creates a new swapchain.
func (d *Driver) NewSwapchain(win wsi.Window, imageCount int) (driver.Swapchain, error) {
	if win == nil {
		return nil, fmt.Errorf("%w: nil window", driver.ErrWindow)
	}
	if imageCount < 1 {
		return nil, fmt.Errorf("%w: invalid image count %d", driver.ErrSwapchain, imageCount)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.wins[win]; ok {
		return nil, fmt.Errorf("%w: window already has a swapchain", driver.ErrWindow)
	}
	s := &swapchain{d: d, win: win, count: imageCount}
	s.cond.L = &s.mu
	if err := s.alloc(); err != nil {
		return nil, err
	}
	if d.wins == nil {
		d.wins = make(map[wsi.Window]*swapchain)
	}
	d.wins[win] = s
	d.live.Add(1)
	logger().Info("swapchain created", "width", s.width, "height", s.height, "images", imageCount)
	return s, nil
}

// alloc allocates the swapchain images using the
// window's current size.
// The caller must hold s.mu or have exclusive access
// to s.
func (s *swapchain) alloc() error {
	w, h := s.win.Width(), s.win.Height()
	if w <= 0 || h <= 0 {
		return fmt.Errorf("%w: window has zero area", driver.ErrWindow)
	}
	views := make([]driver.Texture, s.count)
	for i := range views {
		t, err := s.d.newTexture(driver.TextureDesc{
			Type:        driver.Tex2D,
			Width:       w,
			Height:      h,
			Depth:       1,
			MipLevels:   1,
			Format:      swapchainFormat,
			Usage:       swapchainUsage,
			SampleCount: 1,
		}, false)
		if err != nil {
			return err
		}
		views[i] = t
	}
	s.width, s.height = w, h
	s.views = views
	s.status = make([]int, s.count)
	return nil
}

// Textures returns the swapchain images.
func (s *swapchain) Textures() []driver.Texture {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.views
}

// Next returns the index of the next writable image.
func (s *swapchain) Next() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.win.Width() != s.width || s.win.Height() != s.height {
		return -1, fmt.Errorf("%w: window was resized", driver.ErrSwapchain)
	}
	for {
		queued := false
		for i, st := range s.status {
			switch st {
			case imgFree:
				s.status[i] = imgAcquired
				return i, nil
			case imgQueued:
				queued = true
			}
		}
		if !queued {
			return -1, driver.ErrNoBackbuffer
		}
		s.cond.Wait()
	}
}

// Present presents the image identified by index.
func (s *swapchain) Present(index int) error {
	s.mu.Lock()
	if index < 0 || index >= len(s.status) || s.status[index] != imgAcquired {
		s.mu.Unlock()
		return fmt.Errorf("%w: image %d was not acquired", driver.ErrSwapchain, index)
	}
	s.status[index] = imgQueued
	t := s.views[index].(*texture)
	s.mu.Unlock()
	s.d.enqueue(func() {
		if t.state != driver.UPresent {
			s.d.warn("presented image not in UPresent state", "index", index, "state", t.state)
		}
		s.d.count(func(st *Stats) { st.Presents++ })
		s.mu.Lock()
		if index < len(s.status) && s.views[index] == driver.Texture(t) {
			s.status[index] = imgFree
		}
		s.mu.Unlock()
		s.cond.Broadcast()
	})
	return nil
}

// Recreate recreates the swapchain using the window's
// current size.
func (s *swapchain) Recreate() error {
	s.d.WaitIdle()
	s.mu.Lock()
	defer s.mu.Unlock()
	old := s.views
	if err := s.alloc(); err != nil {
		return err
	}
	for _, t := range old {
		t.Destroy()
	}
	s.cond.Broadcast()
	logger().Info("swapchain recreated", "width", s.width, "height", s.height)
	return nil
}

// Format returns the swapchain image format.
func (s *swapchain) Format() driver.Format { return swapchainFormat }

// Destroy destroys the swapchain.
func (s *swapchain) Destroy() {
	if s == nil || s.d == nil {
		return
	}
	d := s.d
	d.WaitIdle()
	d.mu.Lock()
	delete(d.wins, s.win)
	d.mu.Unlock()
	s.mu.Lock()
	for _, t := range s.views {
		t.Destroy()
	}
	s.views = nil
	s.status = nil
	s.d = nil
	s.mu.Unlock()
	s.cond.Broadcast()
	d.live.Add(-1)
}
