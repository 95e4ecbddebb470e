// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package vk

import (
	"errors"
	"testing"

	"gviegas/gp3d/driver"
)

// newAttachment creates a 2D texture for use as a render
// pass attachment. It is destroyed when t finishes.
func newAttachment(t *testing.T, f driver.Format, w, h, samples int) driver.Texture {
	t.Helper()
	u := driver.UColorAttachment | driver.UTransferSrc | driver.UResolveSrc
	if f.IsDepthStencil() {
		u = driver.UDepthStencilAttachment
	} else if samples == 1 {
		u |= driver.UResolveDst | driver.USampled
	}
	tex, err := tDrv.NewTexture(&driver.TextureDesc{
		Type:        driver.Tex2D,
		Width:       w,
		Height:      h,
		Depth:       1,
		MipLevels:   1,
		Format:      f,
		Usage:       u,
		SampleCount: samples,
	}, nil)
	if err != nil {
		t.Fatalf("tDrv.NewTexture failed, cannot create attachment\n%v", err)
	}
	t.Cleanup(tex.Destroy)
	return tex
}

func TestRenderPass(t *testing.T) {
	checkDevice(t)
	const w, h = 320, 240
	color := newAttachment(t, driver.RGBA8un, w, h, 1)
	color2 := newAttachment(t, driver.RGBA8un, w, h, 1)
	depth := newAttachment(t, driver.D16un, w, h, 1)

	descs := []driver.RenderPassDesc{
		{
			Width:            w,
			Height:           h,
			ColorFormat:      driver.RGBA8un,
			SampleCount:      1,
			ColorAttachments: []driver.Texture{color},
		},
		{
			Width:                  w,
			Height:                 h,
			ColorFormat:            driver.RGBA8un,
			DepthStencilFormat:     driver.D16un,
			SampleCount:            1,
			ColorAttachments:       []driver.Texture{color, color2},
			DepthStencilAttachment: depth,
		},
		{
			Width:                  w,
			Height:                 h,
			DepthStencilFormat:     driver.D16un,
			SampleCount:            1,
			DepthStencilAttachment: depth,
		},
	}
	if tDrv.Limits().MaxSamples >= 4 {
		ms := newAttachment(t, driver.RGBA8un, w, h, 4)
		msDepth := newAttachment(t, driver.D16un, w, h, 4)
		descs = append(descs, driver.RenderPassDesc{
			Width:                       w,
			Height:                      h,
			ColorFormat:                 driver.RGBA8un,
			DepthStencilFormat:          driver.D16un,
			SampleCount:                 4,
			ColorAttachments:            []driver.Texture{color},
			ColorMultisampleAttachments: []driver.Texture{ms},
			DepthStencilAttachment:      msDepth,
		})
	}
	for i := range descs {
		desc := &descs[i]
		pass, err := tDrv.NewRenderPass(desc)
		if err != nil {
			t.Errorf("tDrv.NewRenderPass(#%d)\nhave %v\nwant nil", i, err)
			continue
		}
		p := pass.(*renderPass)
		if p.pass == nil || p.fb == nil {
			t.Errorf("tDrv.NewRenderPass(#%d): p.pass, p.fb\nhave %v, %v\nwant valid handles", i, p.pass, p.fb)
		}
		if p.ncolor != desc.ColorAttachmentCount() {
			t.Errorf("tDrv.NewRenderPass(#%d): p.ncolor\nhave %d\nwant %d", i, p.ncolor, desc.ColorAttachmentCount())
		}
		d := p.Desc()
		if d.Width != w || d.Height != h || d.SampleCount != desc.SampleCount {
			t.Errorf("p.Desc()\nhave %+v\nwant %+v", d, *desc)
		}
		p.Destroy()
		if p.d != nil || p.pass != nil || p.fb != nil {
			t.Errorf("p.Destroy(#%d)\nhave non-zero\nwant renderPass{}", i)
		}
	}

	bad := []driver.RenderPassDesc{
		{Width: w, Height: h, SampleCount: 1},
		{Width: w, Height: h, ColorFormat: driver.RGBA8un, SampleCount: 1, ColorAttachments: []driver.Texture{depth}},
		{Width: w + 1, Height: h, ColorFormat: driver.RGBA8un, SampleCount: 1, ColorAttachments: []driver.Texture{color}},
		{Width: w, Height: h, ColorFormat: driver.RGBA8un, SampleCount: 4, ColorAttachments: []driver.Texture{color}},
		{Width: tDrv.Limits().MaxPassSize[0] + 1, Height: h, DepthStencilFormat: driver.D16un, SampleCount: 1, DepthStencilAttachment: depth},
	}
	for i := range bad {
		if _, err := tDrv.NewRenderPass(&bad[i]); !errors.Is(err, driver.ErrRenderPass) {
			t.Errorf("tDrv.NewRenderPass(bad #%d)\nhave %v\nwant %v", i, err, driver.ErrRenderPass)
		}
	}
}
