// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package vk

import (
	"errors"
	"fmt"
	"sync"
	"time"

	vk "github.com/goki/vulkan"

	"gviegas/gp3d/driver"
	"gviegas/gp3d/wsi"
)

// nextTimeout bounds the wait for an image to be acquired.
const nextTimeout = uint64(time.Second)

// swapchain implements driver.Swapchain and driver.VSyncer.
type swapchain struct {
	d      *Driver
	win    wsi.Window
	sf     vk.Surface
	sc     vk.Swapchain
	format driver.Format
	extent vk.Extent2D
	views  []driver.Texture
	vsync  bool

	mu sync.Mutex
	// Number of images that can be acquired at once and
	// number of images currently acquired.
	maxAcq int
	curAcq int
	// Acquisition semaphores. There is one more than the
	// number of images that can be acquired, and
	// viewSync maps an acquired image to the semaphore
	// used to acquire it.
	nextSem  []vk.Semaphore
	syncUsed []bool
	viewSync []int
	// Presentation semaphores, one per image. pending
	// is set when a submission signals presSem.
	presSem []vk.Semaphore
	pending []bool
	broken  bool
}

// NewSwapchain creates a new swapchain.
func (d *Driver) NewSwapchain(win wsi.Window, imageCount int) (driver.Swapchain, error) {
	if !d.swapchain {
		return nil, driver.ErrCannotPresent
	}
	vwin, ok := win.(wsi.VulkanWindow)
	if !ok {
		return nil, fmt.Errorf("%w: window has no native surface", driver.ErrCannotPresent)
	}
	p, err := vwin.CreateSurface(d.inst)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", driver.ErrWindow, err)
	}
	s := &swapchain{
		d:     d,
		win:   win,
		sf:    vk.SurfaceFromPointer(p),
		vsync: true,
	}
	var supp vk.Bool32
	if err := checkResult(vk.GetPhysicalDeviceSurfaceSupport(d.pdev, d.qfam, s.sf, &supp)); err != nil {
		s.Destroy()
		return nil, err
	}
	if supp != vk.True {
		s.Destroy()
		return nil, driver.ErrCannotPresent
	}
	if err := s.create(max(imageCount, 1)); err != nil {
		s.Destroy()
		return nil, err
	}
	if err := s.initViews(); err != nil {
		s.Destroy()
		return nil, err
	}
	if err := s.initSync(); err != nil {
		s.Destroy()
		return nil, err
	}
	driver.Logger().Info("vulkan swapchain created", "images", len(s.views), "format", s.format, "width", win.Width(), "height", win.Height())
	return s, nil
}

// preferred lists the surface formats that s looks for, in
// order of preference.
var preferred = [...]vk.Format{
	vk.FormatB8g8r8a8Unorm,
	vk.FormatR8g8b8a8Unorm,
}

// create creates a new VkSwapchainKHR, replacing s.sc if
// it is not nil. n is the desired image count.
func (s *swapchain) create(n int) error {
	var capab vk.SurfaceCapabilities
	if err := checkResult(vk.GetPhysicalDeviceSurfaceCapabilities(s.d.pdev, s.sf, &capab)); err != nil {
		return err
	}
	capab.Deref()
	capab.CurrentExtent.Deref()
	capab.MinImageExtent.Deref()
	capab.MaxImageExtent.Deref()

	nimg := max(uint32(n), capab.MinImageCount)
	if capab.MaxImageCount != 0 {
		nimg = min(nimg, capab.MaxImageCount)
	}

	extent := capab.CurrentExtent
	if extent.Width == ^uint32(0) {
		extent.Width = min(max(uint32(s.win.Width()), capab.MinImageExtent.Width), capab.MaxImageExtent.Width)
		extent.Height = min(max(uint32(s.win.Height()), capab.MinImageExtent.Height), capab.MaxImageExtent.Height)
	}
	if extent.Width == 0 || extent.Height == 0 {
		return fmt.Errorf("%w: zero-sized surface", driver.ErrWindow)
	}

	xform := vk.SurfaceTransformFlagBits(capab.CurrentTransform)
	if vk.SurfaceTransformFlagBits(capab.SupportedTransforms)&vk.SurfaceTransformIdentityBit != 0 {
		xform = vk.SurfaceTransformIdentityBit
	}

	calpha := vk.CompositeAlphaOpaqueBit
	for _, x := range [...]vk.CompositeAlphaFlagBits{
		vk.CompositeAlphaOpaqueBit,
		vk.CompositeAlphaInheritBit,
		vk.CompositeAlphaPreMultipliedBit,
		vk.CompositeAlphaPostMultipliedBit,
	} {
		if vk.CompositeAlphaFlagBits(capab.SupportedCompositeAlpha)&x != 0 {
			calpha = x
			break
		}
	}

	sf, err := s.selectFormat()
	if err != nil {
		return err
	}
	mode, err := s.selectMode()
	if err != nil {
		return err
	}

	usage := vk.ImageUsageFlags(vk.ImageUsageColorAttachmentBit)
	if capab.SupportedUsageFlags&vk.ImageUsageFlags(vk.ImageUsageTransferDstBit) != 0 {
		usage |= vk.ImageUsageFlags(vk.ImageUsageTransferDstBit)
	}
	if capab.SupportedUsageFlags&vk.ImageUsageFlags(vk.ImageUsageTransferSrcBit) != 0 {
		usage |= vk.ImageUsageFlags(vk.ImageUsageTransferSrcBit)
	}

	info := vk.SwapchainCreateInfo{
		SType:            vk.StructureTypeSwapchainCreateInfo,
		Surface:          s.sf,
		MinImageCount:    nimg,
		ImageFormat:      sf.Format,
		ImageColorSpace:  sf.ColorSpace,
		ImageExtent:      extent,
		ImageArrayLayers: 1,
		ImageUsage:       usage,
		ImageSharingMode: vk.SharingModeExclusive,
		PreTransform:     xform,
		CompositeAlpha:   calpha,
		PresentMode:      mode,
		Clipped:          vk.True,
		OldSwapchain:     s.sc,
	}
	var sc vk.Swapchain
	err = checkResult(vk.CreateSwapchain(s.d.dev, &info, nil, &sc))
	if s.sc != nil {
		// The old swapchain is retired either way.
		vk.DestroySwapchain(s.d.dev, s.sc, nil)
		s.sc = nil
	}
	if err != nil {
		return err
	}
	s.sc = sc
	s.format = formatOf(sf.Format)
	s.extent = extent
	s.curAcq = 0
	s.broken = false
	return nil
}

// selectFormat selects the surface format of s.
func (s *swapchain) selectFormat() (vk.SurfaceFormat, error) {
	var n uint32
	if err := checkResult(vk.GetPhysicalDeviceSurfaceFormats(s.d.pdev, s.sf, &n, nil)); err != nil {
		return vk.SurfaceFormat{}, err
	}
	if n == 0 {
		return vk.SurfaceFormat{}, driver.ErrCannotPresent
	}
	fmts := make([]vk.SurfaceFormat, n)
	if err := checkResult(vk.GetPhysicalDeviceSurfaceFormats(s.d.pdev, s.sf, &n, fmts)); err != nil {
		return vk.SurfaceFormat{}, err
	}
	for i := range fmts {
		fmts[i].Deref()
	}
	if len(fmts) == 1 && fmts[0].Format == vk.FormatUndefined {
		return vk.SurfaceFormat{
			Format:     preferred[0],
			ColorSpace: vk.ColorSpaceSrgbNonlinear,
		}, nil
	}
	for _, pf := range preferred {
		for _, f := range fmts {
			if f.Format == pf {
				return f, nil
			}
		}
	}
	// Any format that textures can represent will do.
	for _, f := range fmts {
		if formatOf(f.Format) != driver.FUndefined {
			return f, nil
		}
	}
	return vk.SurfaceFormat{}, fmt.Errorf("%w: no usable surface format", driver.ErrCannotPresent)
}

// selectMode selects the present mode of s.
// FIFO is always available. Without vertical sync,
// MAILBOX is preferred over IMMEDIATE.
func (s *swapchain) selectMode() (vk.PresentMode, error) {
	if s.vsync {
		return vk.PresentModeFifo, nil
	}
	var n uint32
	if err := checkResult(vk.GetPhysicalDeviceSurfacePresentModes(s.d.pdev, s.sf, &n, nil)); err != nil {
		return 0, err
	}
	modes := make([]vk.PresentMode, n)
	if err := checkResult(vk.GetPhysicalDeviceSurfacePresentModes(s.d.pdev, s.sf, &n, modes)); err != nil {
		return 0, err
	}
	mode := vk.PresentModeFifo
	for _, m := range modes {
		switch m {
		case vk.PresentModeMailbox:
			return m, nil
		case vk.PresentModeImmediate:
			mode = m
		}
	}
	return mode, nil
}

// initViews creates the textures of s from the swapchain
// images. Textures that s already has are destroyed.
func (s *swapchain) initViews() error {
	s.destroyViews()
	var n uint32
	if err := checkResult(vk.GetSwapchainImages(s.d.dev, s.sc, &n, nil)); err != nil {
		return err
	}
	imgs := make([]vk.Image, n)
	if err := checkResult(vk.GetSwapchainImages(s.d.dev, s.sc, &n, imgs)); err != nil {
		return err
	}
	desc := driver.TextureDesc{
		Type:        driver.Tex2D,
		Width:       int(s.extent.Width),
		Height:      int(s.extent.Height),
		Depth:       1,
		Format:      s.format,
		MipLevels:   1,
		SampleCount: 1,
		Usage:       driver.UColorAttachment | driver.UPresent | driver.UTransferDst,
	}
	s.views = make([]driver.Texture, 0, n)
	for i, img := range imgs {
		t := &texture{
			d:    s.d,
			s:    s,
			idx:  i,
			img:  img,
			fmt:  convFormat(s.format),
			desc: desc,
			subres: vk.ImageSubresourceRange{
				AspectMask: vk.ImageAspectFlags(vk.ImageAspectColorBit),
				LevelCount: 1,
				LayerCount: 1,
			},
		}
		if err := t.initViews(); err != nil {
			s.destroyViews()
			return err
		}
		s.views = append(s.views, t)
	}
	return nil
}

// destroyViews destroys the textures of s.
// The swapchain images are not destroyed.
func (s *swapchain) destroyViews() {
	for _, t := range s.views {
		t.Destroy()
	}
	s.views = nil
}

func (s *swapchain) newSem() (vk.Semaphore, error) {
	info := vk.SemaphoreCreateInfo{SType: vk.StructureTypeSemaphoreCreateInfo}
	var sem vk.Semaphore
	err := checkResult(vk.CreateSemaphore(s.d.dev, &info, nil, &sem))
	return sem, err
}

// initSync creates the semaphores of s.
// Semaphores that s already has are destroyed, so the
// device must be idle.
func (s *swapchain) initSync() error {
	s.destroySync()
	n := len(s.views)
	s.maxAcq = n
	s.nextSem = make([]vk.Semaphore, 0, n+1)
	s.syncUsed = make([]bool, n+1)
	s.viewSync = make([]int, n)
	s.presSem = make([]vk.Semaphore, 0, n)
	s.pending = make([]bool, n)
	for range n + 1 {
		sem, err := s.newSem()
		if err != nil {
			return err
		}
		s.nextSem = append(s.nextSem, sem)
	}
	for range n {
		sem, err := s.newSem()
		if err != nil {
			return err
		}
		s.presSem = append(s.presSem, sem)
	}
	return nil
}

// destroySync destroys the semaphores of s.
func (s *swapchain) destroySync() {
	for _, sem := range s.nextSem {
		vk.DestroySemaphore(s.d.dev, sem, nil)
	}
	for _, sem := range s.presSem {
		vk.DestroySemaphore(s.d.dev, sem, nil)
	}
	s.nextSem = nil
	s.presSem = nil
	s.syncUsed = nil
	s.viewSync = nil
	s.pending = nil
}

// Textures returns the swapchain's textures.
func (s *swapchain) Textures() []driver.Texture {
	return append([]driver.Texture(nil), s.views...)
}

// Format returns the format of the swapchain's textures.
func (s *swapchain) Format() driver.Format { return s.format }

// Next returns the index of the next writable texture.
func (s *swapchain) Next() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.broken {
		return -1, driver.ErrSwapchain
	}
	if s.curAcq >= s.maxAcq {
		return -1, driver.ErrNoBackbuffer
	}
	sync := -1
	for i, used := range s.syncUsed {
		if !used {
			sync = i
			break
		}
	}
	if sync == -1 {
		return -1, driver.ErrNoBackbuffer
	}
	var idx uint32
	res := vk.AcquireNextImage(s.d.dev, s.sc, nextTimeout, s.nextSem[sync], nil, &idx)
	switch res {
	case vk.Success, vk.Suboptimal:
		s.curAcq++
		s.syncUsed[sync] = true
		s.viewSync[idx] = sync
		s.pending[idx] = false
		// Suboptimal images can still be presented.
		s.broken = res == vk.Suboptimal
		return int(idx), nil
	case vk.Timeout, vk.NotReady:
		return -1, driver.ErrNoBackbuffer
	case vk.ErrorOutOfDate:
		s.broken = true
		return -1, driver.ErrSwapchain
	}
	if err := checkResult(res); err != nil {
		if errors.Is(err, driver.ErrWindow) {
			s.broken = true
		}
		return -1, err
	}
	panic(fmt.Sprintf("unexpected result from vkAcquireNextImageKHR: %d", res))
}

// Present presents the texture identified by index.
func (s *swapchain) Present(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.views) {
		return fmt.Errorf("%w: texture index %d out of range", driver.ErrSwapchain, index)
	}
	sync := s.viewSync[index]
	if !s.syncUsed[sync] {
		return fmt.Errorf("%w: texture %d was not acquired", driver.ErrSwapchain, index)
	}
	if !s.pending[index] {
		return fmt.Errorf("%w: texture %d has no submission to wait for", driver.ErrSwapchain, index)
	}
	info := vk.PresentInfo{
		SType:              vk.StructureTypePresentInfo,
		WaitSemaphoreCount: 1,
		PWaitSemaphores:    []vk.Semaphore{s.presSem[index]},
		SwapchainCount:     1,
		PSwapchains:        []vk.Swapchain{s.sc},
		PImageIndices:      []uint32{uint32(index)},
	}
	s.d.qmu.Lock()
	res := vk.QueuePresent(s.d.que, &info)
	s.d.qmu.Unlock()
	s.curAcq--
	s.syncUsed[sync] = false
	s.pending[index] = false
	switch res {
	case vk.Success:
		return nil
	case vk.Suboptimal, vk.ErrorOutOfDate:
		s.broken = true
		return driver.ErrSwapchain
	}
	if err := checkResult(res); err != nil {
		return err
	}
	panic(fmt.Sprintf("unexpected result from vkQueuePresentKHR: %d", res))
}

// Recreate recreates the swapchain.
func (s *swapchain) Recreate() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recreate()
}

// recreate recreates the swapchain using the window's
// current size. s.mu must be held.
func (s *swapchain) recreate() error {
	if err := s.d.WaitIdle(); err != nil {
		return err
	}
	n := len(s.views)
	if err := s.create(n); err != nil {
		s.broken = true
		return err
	}
	if err := s.initViews(); err != nil {
		s.broken = true
		return err
	}
	if err := s.initSync(); err != nil {
		s.broken = true
		return err
	}
	driver.Logger().Debug("vulkan swapchain recreated", "images", len(s.views), "width", s.win.Width(), "height", s.win.Height())
	return nil
}

// SetVSync sets whether presentation waits for the
// vertical blank. The swapchain is recreated if the
// setting changes, so textures become invalid.
func (s *swapchain) SetVSync(on bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.vsync == on {
		return nil
	}
	s.vsync = on
	return s.recreate()
}

// Destroy destroys the swapchain.
func (s *swapchain) Destroy() {
	if s == nil {
		return
	}
	if s.d != nil {
		s.d.WaitIdle()
		s.destroyViews()
		s.destroySync()
		if s.sc != nil {
			vk.DestroySwapchain(s.d.dev, s.sc, nil)
		}
		if s.sf != nil {
			vk.DestroySurface(s.d.inst, s.sf, nil)
		}
	}
	*s = swapchain{}
}
