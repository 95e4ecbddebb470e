// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package soft

import (
	"errors"
	"fmt"

	"gviegas/gp3d/driver"
)

// texture implements driver.Texture.
type texture struct {
	d     *Driver
	desc  driver.TextureDesc
	owned bool
	// Storage of each subresource, indexed by
	// layer*desc.MipLevels + level. Multisample
	// texels are stored contiguously per pixel.
	sub [][]byte
	// Current state. Only accessed during execution.
	state driver.TextureUsage
}

// validUsage is the union of all texture usage bits.
const validUsage = driver.UTransferSrc | driver.UTransferDst | driver.USampled |
	driver.UStorage | driver.UColorAttachment | driver.UDepthStencilAttachment |
	driver.UResolveSrc | driver.UResolveDst | driver.UPresent

// checkTexture validates desc and resolves its mip count.
func checkTexture(desc *driver.TextureDesc) error {
	fail := func(format string, a ...any) error {
		return fmt.Errorf("soft: invalid texture: %s", fmt.Sprintf(format, a...))
	}
	if desc.Width < 1 || desc.Height < 1 || desc.Depth < 1 {
		return fail("size %dx%dx%d", desc.Width, desc.Height, desc.Depth)
	}
	switch desc.Type {
	case driver.Tex1D:
		if desc.Width > maxTexture1D || desc.Height != 1 || desc.Depth != 1 {
			return fail("1D size %dx%dx%d", desc.Width, desc.Height, desc.Depth)
		}
	case driver.Tex2D:
		if max(desc.Width, desc.Height) > maxTexture2D || desc.Depth != 1 {
			return fail("2D size %dx%dx%d", desc.Width, desc.Height, desc.Depth)
		}
	case driver.TexCube:
		if desc.Width != desc.Height || desc.Width > maxTextureCube || desc.Depth != 1 {
			return fail("cube size %dx%dx%d", desc.Width, desc.Height, desc.Depth)
		}
	case driver.Tex3D:
		if max(desc.Width, desc.Height, desc.Depth) > maxTexture3D {
			return fail("3D size %dx%dx%d", desc.Width, desc.Height, desc.Depth)
		}
	default:
		return fail("undefined type")
	}
	if desc.Format <= driver.FUndefined || int(desc.Format) >= driver.FormatN {
		return fail("format %v", desc.Format)
	}
	if desc.Usage == 0 || desc.Usage&^validUsage != 0 {
		return fail("usage %#x", desc.Usage)
	}
	if desc.Format.IsDepthStencil() {
		if desc.Usage&(driver.UColorAttachment|driver.UStorage|driver.UPresent) != 0 {
			return fail("depth/stencil format %v with color usage", desc.Format)
		}
	} else if desc.Usage&driver.UDepthStencilAttachment != 0 {
		return fail("color format %v with depth/stencil usage", desc.Format)
	}
	desc.SampleCount = max(desc.SampleCount, 1)
	if s := desc.SampleCount; s > maxSamples || s&(s-1) != 0 {
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

// levelSize returns the size in bytes of a single
// layer of the given mip level.
func levelSize(desc *driver.TextureDesc, level int) int {
	w := max(desc.Width>>level, 1)
	h := max(desc.Height>>level, 1)
	d := max(desc.Depth>>level, 1)
	return w * h * d * desc.Format.PixelSize() * desc.SampleCount
}

// NewTexture creates a new texture.
func (d *Driver) NewTexture(desc *driver.TextureDesc, data []byte) (driver.Texture, error) {
	t, err := d.newTexture(*desc, true)
	if err != nil {
		return nil, err
	}
	if data != nil {
		n := levelSize(&t.desc, 0)
		if len(data) != n*t.desc.Layers() {
			t.Destroy()
			return nil, fmt.Errorf("soft: texture data size %d (want %d)", len(data), n*t.desc.Layers())
		}
		for i := range t.desc.Layers() {
			copy(t.sub[i*t.desc.MipLevels], data[i*n:])
		}
	}
	logger().Debug("texture created", "type", t.desc.Type, "width", t.desc.Width, "height", t.desc.Height, "format", t.desc.Format, "usage", t.desc.Usage)
	return t, nil
}

// newTexture allocates a texture's storage and places
// the texture in its initial state.
func (d *Driver) newTexture(desc driver.TextureDesc, owned bool) (*texture, error) {
	if err := checkTexture(&desc); err != nil {
		return nil, err
	}
	layers := desc.Layers()
	sub := make([][]byte, layers*desc.MipLevels)
	for i := range layers {
		for j := range desc.MipLevels {
			p, err := alloc(int64(levelSize(&desc, j)))
			if err != nil {
				return nil, err
			}
			sub[i*desc.MipLevels+j] = p
		}
	}
	if owned {
		d.live.Add(1)
	}
	return &texture{
		d:     d,
		desc:  desc,
		owned: owned,
		sub:   sub,
		state: desc.Usage.Initial(),
	}, nil
}

// Desc returns the texture description.
func (t *texture) Desc() driver.TextureDesc { return t.desc }

// HostOwned returns whether t owns its storage.
func (t *texture) HostOwned() bool { return t.owned }

// Destroy destroys the texture.
// Textures that wrap swapchain images are invalidated
// but their storage is left to the swapchain.
func (t *texture) Destroy() {
	if t == nil || t.d == nil {
		return
	}
	if t.owned {
		t.d.live.Add(-1)
	}
	*t = texture{}
}

// sampler implements driver.Sampler.
type sampler struct {
	d    *Driver
	desc driver.SamplerDesc
}

// NewSampler creates a new sampler.
func (d *Driver) NewSampler(desc *driver.SamplerDesc) (driver.Sampler, error) {
	for _, f := range [...]driver.Filter{desc.Min, desc.Mag, desc.Mipmap} {
		if f < 0 || int(f) >= driver.FilterN {
			return nil, errors.New("soft: undefined sampler filter")
		}
	}
	for _, a := range [...]driver.AddrMode{desc.AddrU, desc.AddrV, desc.AddrW} {
		if a < 0 || int(a) >= driver.AddrModeN {
			return nil, errors.New("soft: undefined sampler address mode")
		}
	}
	switch {
	case desc.MaxAniso > maxAnisotropy:
		return nil, fmt.Errorf("soft: sampler anisotropy %d (max %d)", desc.MaxAniso, maxAnisotropy)
	case desc.Compare && (desc.Cmp < 0 || int(desc.Cmp) >= driver.CmpFuncN):
		return nil, errors.New("soft: undefined sampler compare function")
	case desc.MinLOD < 0 || desc.MaxLOD < desc.MinLOD:
		return nil, fmt.Errorf("soft: sampler LOD range [%g, %g]", desc.MinLOD, desc.MaxLOD)
	case desc.Border < 0 || int(desc.Border) >= driver.BorderColorN:
		return nil, errors.New("soft: undefined sampler border color")
	}
	d.live.Add(1)
	return &sampler{d: d, desc: *desc}, nil
}

// Desc returns the sampler description.
func (s *sampler) Desc() driver.SamplerDesc { return s.desc }

// Destroy destroys the sampler.
func (s *sampler) Destroy() {
	if s == nil || s.d == nil {
		return
	}
	s.d.live.Add(-1)
	*s = sampler{}
}
