// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Package graphics implements a device that creates GPU
// resources and records, submits and presents frames.
//
// Drivers are not imported by this package. Programs
// must import the driver packages they want to use for
// their side effects, as in:
//
//	import _ "gviegas/gp3d/driver/vk"
//
// A Graphics is not safe for concurrent use. All calls,
// including those on the Frame and CommandBuffer values
// it returns, must be made from a single goroutine.
package graphics

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"gviegas/gp3d/driver"
	"gviegas/gp3d/wsi"
)

var (
	// ErrNotInitialized means that Initialize was not
	// called or that the Graphics was closed.
	ErrNotInitialized = errors.New("graphics: not initialized")

	// ErrInitialized means that Initialize was called
	// on a Graphics that is already initialized.
	ErrInitialized = errors.New("graphics: already initialized")

	// ErrNoDriver means that no registered driver
	// could be opened.
	ErrNoDriver = errors.New("graphics: driver not found")
)

// Graphics is the device through which resources are
// created and frames are rendered and presented.
type Graphics struct {
	cfg Config
	drv driver.Driver
	gpu driver.GPU
	win wsi.Window
	sc  driver.Swapchain

	// Swapchain render passes, indexed by image.
	// Their multisample and depth/stencil attachments
	// are shared.
	passes []driver.RenderPass
	msaa   driver.Texture
	ds     driver.Texture
	// Incremented every time the swapchain passes are
	// recreated. Frames from other generations are
	// stale.
	gen uint64

	slots []slot

	width   int
	height  int
	resized bool
	// Set when presentation reports that the swapchain
	// is out of date.
	stale bool

	// Objects created by the caller and not destroyed
	// yet, and the attachments that CreateRenderPass
	// created for each render pass.
	objs  map[driver.Destroyer]struct{}
	owned map[driver.RenderPass][]driver.Texture
	// Recorded state of every texture in use.
	states map[driver.Texture]driver.TextureUsage

	reg Registry
}

// slot holds the per-image recording objects.
type slot struct {
	cb    CommandBuffer
	fence driver.Fence
	// Last value submitted with fence.
	value uint64
}

// New creates a new Graphics.
// The returned value must be initialized before use.
func New(config *Config) (*Graphics, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	g := &Graphics{cfg: *config}
	g.reg.g = g
	return g, nil
}

func logger() *slog.Logger { return driver.Logger().With("pkg", "graphics") }

// openDriver opens any driver whose name contains the
// name string. It is case insensitive.
// If name is the empty string, then all registered
// drivers are considered.
func openDriver(name string, debug bool) (driver.Driver, driver.GPU, error) {
	err := ErrNoDriver
	name = strings.ToLower(name)
	for _, drv := range driver.Drivers() {
		if !strings.Contains(strings.ToLower(drv.Name()), name) {
			continue
		}
		if dbg, ok := drv.(driver.Debugger); ok {
			dbg.SetDebug(debug)
		}
		var gpu driver.GPU
		if gpu, err = drv.Open(); err != nil {
			logger().Debug("driver failed to open", "driver", drv.Name(), "err", err)
			continue
		}
		return drv, gpu, nil
	}
	return nil, nil, err
}

// Initialize opens a driver and creates a swapchain for
// win.
func (g *Graphics) Initialize(win wsi.Window) (err error) {
	if g.gpu != nil {
		return ErrInitialized
	}
	if win == nil {
		return fmt.Errorf("%w: nil window", driver.ErrWindow)
	}
	drv, gpu, err := openDriver(g.cfg.Backend, g.cfg.Debug)
	if err != nil {
		logger().Error("no driver", "backend", g.cfg.Backend, "err", err)
		return err
	}
	pres, ok := gpu.(driver.Presenter)
	if !ok {
		drv.Close()
		return driver.ErrCannotPresent
	}
	g.drv, g.gpu, g.win = drv, gpu, win
	defer func() {
		if err != nil {
			logger().Error("initialization failed", "driver", drv.Name(), "err", err)
			g.Close()
		}
	}()
	g.objs = make(map[driver.Destroyer]struct{})
	g.owned = make(map[driver.RenderPass][]driver.Texture)
	g.states = make(map[driver.Texture]driver.TextureUsage)

	if g.sc, err = pres.NewSwapchain(win, g.cfg.ImageCount); err != nil {
		return err
	}
	if vs, ok := g.sc.(driver.VSyncer); ok {
		if err = vs.SetVSync(g.cfg.VSync); err != nil {
			return err
		}
	}
	if err = g.newTargets(); err != nil {
		return err
	}
	g.slots = make([]slot, len(g.passes))
	for i := range g.slots {
		s := &g.slots[i]
		if s.cb.cb, err = gpu.NewCmdBuffer(); err != nil {
			return err
		}
		if s.fence, err = gpu.NewFence(); err != nil {
			return err
		}
		s.cb.g = g
	}
	logger().Info("initialized", "driver", drv.Name(), "width", g.width, "height", g.height, "images", len(g.passes))
	return nil
}

// IsInitialized returns whether g was initialized and
// not closed yet.
func (g *Graphics) IsInitialized() bool { return g.gpu != nil }

// Width returns the width of the swapchain images.
func (g *Graphics) Width() int { return g.width }

// Height returns the height of the swapchain images.
func (g *Graphics) Height() int { return g.height }

// IsResized returns whether the swapchain was resized
// and no frame was presented since.
func (g *Graphics) IsResized() bool { return g.resized }

// Config returns the configuration of g.
func (g *Graphics) Config() Config { return g.cfg }

// Driver returns the driver in use.
func (g *Graphics) Driver() driver.Driver { return g.drv }

// GPU returns the driver.GPU in use.
func (g *Graphics) GPU() driver.GPU { return g.gpu }

// Limits returns the limits of the GPU in use.
func (g *Graphics) Limits() driver.Limits { return g.gpu.Limits() }

// Registry returns the render target registry of g.
func (g *Graphics) Registry() *Registry { return &g.reg }

// ObjectCount returns the number of objects created
// through g that were not destroyed yet.
func (g *Graphics) ObjectCount() int { return len(g.objs) }

// newTargets creates the render passes that target the
// swapchain images.
func (g *Graphics) newTargets() (err error) {
	views := g.sc.Textures()
	if len(views) == 0 {
		return fmt.Errorf("%w: no images", driver.ErrSwapchain)
	}
	desc := views[0].Desc()
	w, h := desc.Width, desc.Height
	samples := g.cfg.SampleCount
	defer func() {
		if err != nil {
			g.destroyTargets()
		}
	}()
	if samples > 1 {
		if g.msaa, err = g.gpu.NewTexture(&driver.TextureDesc{
			Type:        driver.Tex2D,
			Width:       w,
			Height:      h,
			Depth:       1,
			MipLevels:   1,
			Format:      g.sc.Format(),
			Usage:       driver.UColorAttachment | driver.UResolveSrc,
			SampleCount: samples,
		}, nil); err != nil {
			return
		}
		g.track(g.msaa)
	}
	if g.cfg.DepthStencilFormat != driver.FUndefined {
		if g.ds, err = g.gpu.NewTexture(&driver.TextureDesc{
			Type:        driver.Tex2D,
			Width:       w,
			Height:      h,
			Depth:       1,
			MipLevels:   1,
			Format:      g.cfg.DepthStencilFormat,
			Usage:       driver.UDepthStencilAttachment,
			SampleCount: samples,
		}, nil); err != nil {
			return
		}
		g.track(g.ds)
	}
	g.passes = make([]driver.RenderPass, len(views))
	for i, v := range views {
		g.track(v)
		pd := driver.RenderPassDesc{
			Width:                  w,
			Height:                 h,
			ColorFormat:            g.sc.Format(),
			DepthStencilFormat:     g.cfg.DepthStencilFormat,
			SampleCount:            samples,
			ColorAttachments:       []driver.Texture{v},
			DepthStencilAttachment: g.ds,
		}
		if samples > 1 {
			pd.ColorMultisampleAttachments = []driver.Texture{g.msaa}
		}
		if g.passes[i], err = g.gpu.NewRenderPass(&pd); err != nil {
			return
		}
	}
	g.width, g.height = w, h
	g.gen++
	return nil
}

// destroyTargets destroys the objects created by
// newTargets.
func (g *Graphics) destroyTargets() {
	for _, p := range g.passes {
		if p != nil {
			p.Destroy()
		}
	}
	g.passes = nil
	if g.sc != nil {
		for _, v := range g.sc.Textures() {
			delete(g.states, v)
		}
	}
	for _, t := range [...]*driver.Texture{&g.msaa, &g.ds} {
		if *t != nil {
			delete(g.states, *t)
			(*t).Destroy()
			*t = nil
		}
	}
}

// recreate recreates the swapchain and the render
// passes that target it.
func (g *Graphics) recreate() error {
	if err := g.gpu.WaitIdle(); err != nil {
		return err
	}
	g.destroyTargets()
	if err := g.sc.Recreate(); err != nil {
		logger().Error("swapchain recreation failed", "err", err)
		return err
	}
	if err := g.newTargets(); err != nil {
		logger().Error("swapchain render pass creation failed", "err", err)
		return err
	}
	for i := range g.slots {
		g.slots[i].cb.reset()
	}
	g.resized = true
	g.stale = false
	logger().Info("swapchain recreated", "width", g.width, "height", g.height)
	return nil
}

// Resize resizes the window and the swapchain.
func (g *Graphics) Resize(width, height int) error {
	if g.gpu == nil {
		return ErrNotInitialized
	}
	if width == g.width && height == g.height {
		return nil
	}
	if err := g.win.Resize(width, height); err != nil {
		return fmt.Errorf("%w: %w", driver.ErrWindow, err)
	}
	return g.recreate()
}

// Close destroys every object created through g and
// closes the driver.
// Objects that the caller did not destroy are destroyed
// as well, and a warning is logged.
// Close does not close the window.
func (g *Graphics) Close() {
	if g.gpu == nil {
		return
	}
	if err := g.gpu.WaitIdle(); err != nil {
		logger().Warn("WaitIdle failed during close", "err", err)
	}
	g.reg.clear()
	if n := len(g.objs); n > 0 {
		logger().Warn("objects not destroyed", "count", n)
		g.destroyAll()
	}
	for i := range g.slots {
		s := &g.slots[i]
		if s.cb.cb != nil {
			s.cb.cb.Destroy()
		}
		if s.fence != nil {
			s.fence.Destroy()
		}
	}
	g.slots = nil
	g.destroyTargets()
	if g.sc != nil {
		g.sc.Destroy()
		g.sc = nil
	}
	g.drv.Close()
	logger().Info("closed", "driver", g.drv.Name())
	*g = Graphics{cfg: g.cfg}
	g.reg.g = g
}

// track records the initial state of t.
func (g *Graphics) track(t driver.Texture) {
	g.states[t] = t.Desc().Usage.Initial()
}

// state returns the recorded state of t.
func (g *Graphics) state(t driver.Texture) driver.TextureUsage {
	if s, ok := g.states[t]; ok {
		return s
	}
	return t.Desc().Usage.Initial()
}
