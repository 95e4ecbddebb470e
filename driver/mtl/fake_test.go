// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package mtl

import (
	"gviegas/gp3d/driver"
)

type fakeTexture struct{ desc driver.TextureDesc }

func (t *fakeTexture) Destroy()                 {}
func (t *fakeTexture) Desc() driver.TextureDesc { return t.desc }
func (t *fakeTexture) HostOwned() bool          { return true }

func tex2D(f driver.Format, samples int, usage driver.TextureUsage) *fakeTexture {
	return &fakeTexture{driver.TextureDesc{
		Type:        driver.Tex2D,
		Width:       800,
		Height:      600,
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
func (b *fakeBuffer) Visible() bool             { return true }
func (b *fakeBuffer) Bytes() []byte             { return make([]byte, b.size) }

type fakeSampler struct{}

func (fakeSampler) Destroy()                 {}
func (fakeSampler) Desc() driver.SamplerDesc { return driver.DefaultSampler() }

type fakePass struct{ desc driver.RenderPassDesc }

func (p *fakePass) Destroy()                    {}
func (p *fakePass) Desc() driver.RenderPassDesc { return p.desc }

// passWith creates an 800x600 pass with n BGRA8un color
// attachments and, unless ds is FUndefined, a
// depth/stencil attachment of format ds.
func passWith(n, samples int, ds driver.Format) *fakePass {
	desc := driver.RenderPassDesc{
		Width:              800,
		Height:             600,
		ColorFormat:        driver.BGRA8un,
		DepthStencilFormat: ds,
		SampleCount:        samples,
	}
	for range n {
		desc.ColorAttachments = append(desc.ColorAttachments, tex2D(driver.BGRA8un, 1, driver.UColorAttachment|driver.UResolveDst))
		if samples > 1 {
			desc.ColorMultisampleAttachments = append(desc.ColorMultisampleAttachments, tex2D(driver.BGRA8un, samples, driver.UColorAttachment|driver.UResolveSrc))
		}
	}
	if ds != driver.FUndefined {
		desc.DepthStencilAttachment = tex2D(ds, samples, driver.UDepthStencilAttachment)
	}
	return &fakePass{desc}
}

type fakeDescSet struct {
	ds []driver.Descriptor
	hl driver.HeapLayout
}

func (s *fakeDescSet) Destroy()                         {}
func (s *fakeDescSet) Descriptors() []driver.Descriptor { return s.ds }
func (s *fakeDescSet) Layout() driver.HeapLayout        { return s.hl }

// descSet creates a set with a vertex uniform buffer, a
// fragment texture array of 3 and a fragment sampler.
// Every slot has a resource.
func descSet() *fakeDescSet {
	ds := []driver.Descriptor{
		{
			Type:    driver.DUniform,
			Binding: 0,
			Count:   1,
			Stages:  driver.SVertex,
			Buffers: []driver.Buffer{&fakeBuffer{driver.UUniformBuffer, 256, 0}},
		},
		{
			Type:     driver.DTexture,
			Binding:  1,
			Count:    3,
			Stages:   driver.SFragment,
			Textures: []driver.Texture{tex2D(driver.RGBA8un, 1, driver.USampled), tex2D(driver.RGBA8un, 1, driver.USampled), tex2D(driver.R8un, 1, driver.USampled)},
		},
		{
			Type:     driver.DSampler,
			Binding:  2,
			Count:    1,
			Stages:   driver.SFragment,
			Samplers: []driver.Sampler{fakeSampler{}},
		},
	}
	hl, err := driver.LayoutDescriptors(ds)
	if err != nil {
		panic(err)
	}
	return &fakeDescSet{ds, hl}
}

type fakeShader struct{}

func (fakeShader) Destroy() {}
