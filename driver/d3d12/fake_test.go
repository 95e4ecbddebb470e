// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package d3d12

import (
	"gviegas/gp3d/driver"
)

type fakeTexture struct{ desc driver.TextureDesc }

func (t *fakeTexture) Destroy()                 {}
func (t *fakeTexture) Desc() driver.TextureDesc { return t.desc }
func (t *fakeTexture) HostOwned() bool          { return true }

func newTexture(f driver.Format, w, h, samples int, usage driver.TextureUsage) *fakeTexture {
	return &fakeTexture{driver.TextureDesc{
		Type:        driver.Tex2D,
		Width:       w,
		Height:      h,
		Depth:       1,
		MipLevels:   1,
		Format:      f,
		Usage:       usage,
		SampleCount: samples,
	}}
}

type fakeBuffer struct {
	usage  driver.BufferUsage
	size   int64
	stride int
}

func (b *fakeBuffer) Destroy()                  {}
func (b *fakeBuffer) Usage() driver.BufferUsage { return b.usage }
func (b *fakeBuffer) Size() int64               { return b.size }
func (b *fakeBuffer) Stride() int               { return b.stride }
func (b *fakeBuffer) Visible() bool             { return false }
func (b *fakeBuffer) Bytes() []byte             { return nil }

type fakePass struct{ desc driver.RenderPassDesc }

func (p *fakePass) Destroy()                    {}
func (p *fakePass) Desc() driver.RenderPassDesc { return p.desc }

// newPass creates a pass with n color attachments and a
// D24unS8ui depth/stencil attachment.
func newPass(n, samples int) *fakePass {
	desc := driver.RenderPassDesc{
		Width:              640,
		Height:             480,
		ColorFormat:        driver.RGBA8un,
		DepthStencilFormat: driver.D24unS8ui,
		SampleCount:        samples,
	}
	for range n {
		desc.ColorAttachments = append(desc.ColorAttachments, newTexture(driver.RGBA8un, 640, 480, 1, driver.UColorAttachment|driver.UResolveDst))
		if samples > 1 {
			desc.ColorMultisampleAttachments = append(desc.ColorMultisampleAttachments, newTexture(driver.RGBA8un, 640, 480, samples, driver.UColorAttachment|driver.UResolveSrc))
		}
	}
	desc.DepthStencilAttachment = newTexture(driver.D24unS8ui, 640, 480, samples, driver.UDepthStencilAttachment)
	return &fakePass{desc}
}

type fakeDescSet struct {
	ds []driver.Descriptor
	hl driver.HeapLayout
}

func (s *fakeDescSet) Destroy()                         {}
func (s *fakeDescSet) Descriptors() []driver.Descriptor { return s.ds }
func (s *fakeDescSet) Layout() driver.HeapLayout        { return s.hl }

// testDescriptors returns a uniform buffer, a texture
// array of 2, a sampler array of 2 and another uniform
// buffer, in this order.
func testDescriptors() []driver.Descriptor {
	return []driver.Descriptor{
		{Type: driver.DUniform, Binding: 0, Count: 1, Stages: driver.SVertex | driver.SFragment},
		{Type: driver.DTexture, Binding: 1, Count: 2, Stages: driver.SFragment},
		{Type: driver.DSampler, Binding: 2, Count: 2, Stages: driver.SFragment},
		{Type: driver.DUniform, Binding: 3, Count: 1, Stages: driver.SVertex},
	}
}

func newDescSet(ds []driver.Descriptor) *fakeDescSet {
	hl, err := driver.LayoutDescriptors(ds)
	if err != nil {
		panic(err)
	}
	return &fakeDescSet{ds, hl}
}

type fakeShader struct{}

func (fakeShader) Destroy() {}
