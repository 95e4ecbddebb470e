// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package vk

import (
	"fmt"

	vk "github.com/goki/vulkan"

	"gviegas/gp3d/driver"
)

// texture implements driver.Texture.
type texture struct {
	d    *Driver
	m    *memory    // Created by Driver.NewTexture (s field is nil).
	s    *swapchain // Created by Driver.NewSwapchain (m field is nil).
	idx  int        // Index in s.
	img  vk.Image
	fmt  vk.Format
	desc driver.TextureDesc

	// view covers every mip level and layer and is the
	// one bound to descriptors. attView is the view used
	// as a render pass attachment. It covers the first
	// mip level and layer only.
	view    vk.ImageView
	attView vk.ImageView
	subres  vk.ImageSubresourceRange
}

// checkTexture validates desc against the limits of d and
// resolves its mip count.
func (d *Driver) checkTexture(desc *driver.TextureDesc) error {
	fail := func(format string, a ...any) error {
		return fmt.Errorf("vk: invalid texture: %s", fmt.Sprintf(format, a...))
	}
	if desc.Width < 1 || desc.Height < 1 || desc.Depth < 1 {
		return fail("size %dx%dx%d", desc.Width, desc.Height, desc.Depth)
	}
	switch desc.Type {
	case driver.Tex1D:
		if desc.Width > d.lim.MaxTexture1D || desc.Height != 1 || desc.Depth != 1 {
			return fail("1D size %dx%dx%d", desc.Width, desc.Height, desc.Depth)
		}
	case driver.Tex2D:
		if max(desc.Width, desc.Height) > d.lim.MaxTexture2D || desc.Depth != 1 {
			return fail("2D size %dx%dx%d", desc.Width, desc.Height, desc.Depth)
		}
	case driver.TexCube:
		if desc.Width != desc.Height || desc.Width > d.lim.MaxTextureCube || desc.Depth != 1 {
			return fail("cube size %dx%dx%d", desc.Width, desc.Height, desc.Depth)
		}
	case driver.Tex3D:
		if max(desc.Width, desc.Height, desc.Depth) > d.lim.MaxTexture3D {
			return fail("3D size %dx%dx%d", desc.Width, desc.Height, desc.Depth)
		}
	default:
		return fail("undefined type")
	}
	if desc.Format <= driver.FUndefined || int(desc.Format) >= driver.FormatN {
		return fail("format %v", desc.Format)
	}
	if desc.Usage == driver.UUndefined {
		return fail("no usage")
	}
	if desc.Format.IsDepthStencil() {
		if desc.Usage&(driver.UColorAttachment|driver.UStorage|driver.UPresent) != 0 {
			return fail("depth/stencil format %v with color usage", desc.Format)
		}
	} else if desc.Usage&driver.UDepthStencilAttachment != 0 {
		return fail("color format %v with depth/stencil usage", desc.Format)
	}
	desc.SampleCount = max(desc.SampleCount, 1)
	if s := desc.SampleCount; s > d.lim.MaxSamples || s&(s-1) != 0 {
		return fail("sample count %d", s)
	}
	desc.MipLevels = desc.MipCount()
	if desc.SampleCount > 1 {
		if desc.Type != driver.Tex2D {
			return fail("multisample %v texture", desc.Type)
		}
		desc.MipLevels = 1
	}
	return nil
}

// convUsage converts a driver.TextureUsage to a
// VkImageUsageFlags.
// Transfers are always allowed, since creation may need
// to upload data and resolves are copies.
func convUsage(u driver.TextureUsage) vk.ImageUsageFlags {
	flags := vk.ImageUsageFlags(vk.ImageUsageTransferSrcBit | vk.ImageUsageTransferDstBit)
	if u&driver.USampled != 0 {
		flags |= vk.ImageUsageFlags(vk.ImageUsageSampledBit)
	}
	if u&driver.UStorage != 0 {
		flags |= vk.ImageUsageFlags(vk.ImageUsageStorageBit)
	}
	if u&(driver.UColorAttachment|driver.UPresent) != 0 {
		flags |= vk.ImageUsageFlags(vk.ImageUsageColorAttachmentBit)
	}
	if u&driver.UDepthStencilAttachment != 0 {
		flags |= vk.ImageUsageFlags(vk.ImageUsageDepthStencilAttachmentBit)
	}
	return flags
}

// NewTexture creates a new texture.
func (d *Driver) NewTexture(desc *driver.TextureDesc, data []byte) (driver.Texture, error) {
	dsc := *desc
	if err := d.checkTexture(&dsc); err != nil {
		return nil, err
	}
	layers := dsc.Layers()
	var n int
	if data != nil {
		n = dsc.Width * dsc.Height * dsc.Depth * dsc.Format.PixelSize()
		if len(data) != n*layers {
			return nil, fmt.Errorf("vk: texture data size %d (want %d)", len(data), n*layers)
		}
	}

	format := convFormat(dsc.Format)
	usage := convUsage(dsc.Usage)
	var typ vk.ImageType
	var flags vk.ImageCreateFlags
	switch dsc.Type {
	case driver.Tex1D:
		typ = vk.ImageType1d
	case driver.Tex2D:
		typ = vk.ImageType2d
	case driver.TexCube:
		typ = vk.ImageType2d
		flags |= vk.ImageCreateFlags(vk.ImageCreateCubeCompatibleBit)
	case driver.Tex3D:
		typ = vk.ImageType3d
	}

	var prop vk.ImageFormatProperties
	res := vk.GetPhysicalDeviceImageFormatProperties(d.pdev, format, typ, vk.ImageTilingOptimal, usage, flags, &prop)
	if err := checkResult(res); err != nil {
		return nil, err
	}
	prop.Deref()
	if vk.SampleCountFlags(convSamples(dsc.SampleCount))&prop.SampleCounts == 0 {
		return nil, fmt.Errorf("%w: %d samples with format %v", driver.ErrUnsupported, dsc.SampleCount, dsc.Format)
	}

	info := vk.ImageCreateInfo{
		SType:     vk.StructureTypeImageCreateInfo,
		Flags:     flags,
		ImageType: typ,
		Format:    format,
		Extent: vk.Extent3D{
			Width:  uint32(dsc.Width),
			Height: uint32(dsc.Height),
			Depth:  uint32(dsc.Depth),
		},
		MipLevels:     uint32(dsc.MipLevels),
		ArrayLayers:   uint32(layers),
		Samples:       convSamples(dsc.SampleCount),
		Tiling:        vk.ImageTilingOptimal,
		Usage:         usage,
		SharingMode:   vk.SharingModeExclusive,
		InitialLayout: vk.ImageLayoutUndefined,
	}
	var img vk.Image
	err := checkResult(vk.CreateImage(d.dev, &info, nil, &img))
	if err != nil {
		return nil, err
	}

	var req vk.MemoryRequirements
	vk.GetImageMemoryRequirements(d.dev, img, &req)
	req.Deref()
	m, err := d.newMemory(req, false)
	if err != nil {
		vk.DestroyImage(d.dev, img, nil)
		return nil, err
	}
	err = checkResult(vk.BindImageMemory(d.dev, img, m.mem, 0))
	if err != nil {
		m.free()
		vk.DestroyImage(d.dev, img, nil)
		return nil, err
	}
	m.bound = true

	t := &texture{
		d:    d,
		m:    m,
		img:  img,
		fmt:  format,
		desc: dsc,
		subres: vk.ImageSubresourceRange{
			AspectMask: aspectOf(dsc.Format),
			LevelCount: uint32(dsc.MipLevels),
			LayerCount: uint32(layers),
		},
	}
	if err := t.initViews(); err != nil {
		t.Destroy()
		return nil, err
	}
	if err := t.init(data, n); err != nil {
		t.Destroy()
		return nil, err
	}
	driver.Logger().Debug("vulkan texture created", "type", dsc.Type, "width", dsc.Width, "height", dsc.Height, "format", dsc.Format, "usage", dsc.Usage)
	return t, nil
}

// initViews creates the image views of t.
func (t *texture) initViews() error {
	var viewType vk.ImageViewType
	switch t.desc.Type {
	case driver.Tex1D:
		viewType = vk.ImageViewType1d
	case driver.Tex2D:
		viewType = vk.ImageViewType2d
	case driver.TexCube:
		viewType = vk.ImageViewTypeCube
	case driver.Tex3D:
		viewType = vk.ImageViewType3d
	}
	subres := t.subres
	if t.desc.Format.IsDepthStencil() && t.desc.Usage&driver.USampled != 0 {
		// Sampling reads a single aspect.
		if t.desc.Format.HasDepth() {
			subres.AspectMask = vk.ImageAspectFlags(vk.ImageAspectDepthBit)
		} else {
			subres.AspectMask = vk.ImageAspectFlags(vk.ImageAspectStencilBit)
		}
	}
	view, err := t.newView(viewType, subres)
	if err != nil {
		return err
	}
	t.view = view
	if t.desc.Usage&(driver.UColorAttachment|driver.UDepthStencilAttachment|driver.UPresent) == 0 {
		return nil
	}
	if subres.AspectMask == t.subres.AspectMask && t.desc.MipLevels == 1 && t.desc.Type == driver.Tex2D {
		t.attView = t.view
		return nil
	}
	view, err = t.newView(vk.ImageViewType2d, vk.ImageSubresourceRange{
		AspectMask: t.subres.AspectMask,
		LevelCount: 1,
		LayerCount: 1,
	})
	if err != nil {
		return err
	}
	t.attView = view
	return nil
}

// newView creates a new image view of t.
func (t *texture) newView(typ vk.ImageViewType, subres vk.ImageSubresourceRange) (vk.ImageView, error) {
	info := vk.ImageViewCreateInfo{
		SType:    vk.StructureTypeImageViewCreateInfo,
		Image:    t.img,
		ViewType: typ,
		Format:   t.fmt,
		Components: vk.ComponentMapping{
			R: vk.ComponentSwizzleIdentity,
			G: vk.ComponentSwizzleIdentity,
			B: vk.ComponentSwizzleIdentity,
			A: vk.ComponentSwizzleIdentity,
		},
		SubresourceRange: subres,
	}
	var view vk.ImageView
	if err := checkResult(vk.CreateImageView(t.d.dev, &info, nil, &view)); err != nil {
		return nil, err
	}
	return view, nil
}

// init uploads data (if any) to the first mip level of
// every layer and places t in its initial state.
// n is the size of a single layer.
func (t *texture) init(data []byte, n int) error {
	init := t.desc.Usage.Initial()
	if data == nil {
		return t.d.oneShot(func(cb vk.CommandBuffer) {
			barrier(cb, t.img, t.subres, vk.ImageLayoutUndefined, driver.UUndefined, init)
		})
	}
	stg, err := t.d.newBuffer(vk.BufferUsageFlags(vk.BufferUsageTransferSrcBit), int64(len(data)), true)
	if err != nil {
		return err
	}
	defer stg.Destroy()
	copy(stg.m.p, data)
	layers := t.desc.Layers()
	return t.d.oneShot(func(cb vk.CommandBuffer) {
		barrier(cb, t.img, t.subres, vk.ImageLayoutUndefined, driver.UUndefined, driver.UTransferDst)
		region := vk.BufferImageCopy{
			ImageSubresource: vk.ImageSubresourceLayers{
				AspectMask: t.subres.AspectMask,
				LayerCount: uint32(layers),
			},
			ImageExtent: vk.Extent3D{
				Width:  uint32(t.desc.Width),
				Height: uint32(t.desc.Height),
				Depth:  uint32(t.desc.Depth),
			},
		}
		vk.CmdCopyBufferToImage(cb, stg.buf, t.img, vk.ImageLayoutTransferDstOptimal, 1, []vk.BufferImageCopy{region})
		if init != driver.UTransferDst {
			barrier(cb, t.img, t.subres, layoutOf(driver.UTransferDst), driver.UTransferDst, init)
		}
	})
}

// Desc returns the texture description.
func (t *texture) Desc() driver.TextureDesc { return t.desc }

// HostOwned returns whether t owns its image.
func (t *texture) HostOwned() bool { return t.s == nil }

// Destroy destroys the texture.
// Swapchain textures only release their views.
func (t *texture) Destroy() {
	if t == nil {
		return
	}
	if t.d != nil {
		if t.attView != nil && t.attView != t.view {
			vk.DestroyImageView(t.d.dev, t.attView, nil)
		}
		if t.view != nil {
			vk.DestroyImageView(t.d.dev, t.view, nil)
		}
		if t.m != nil {
			vk.DestroyImage(t.d.dev, t.img, nil)
			t.m.free()
		}
	}
	*t = texture{}
}
