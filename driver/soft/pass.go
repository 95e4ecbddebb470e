// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package soft

import (
	"fmt"

	"gviegas/gp3d/driver"
)

// renderPass implements driver.RenderPass.
type renderPass struct {
	d    *Driver
	desc driver.RenderPassDesc
	// Textures that rendering writes to, resolved from
	// desc.Targets.
	color []*texture
	ds    *texture
}

// NewRenderPass creates a new render pass.
func (d *Driver) NewRenderPass(desc *driver.RenderPassDesc) (driver.RenderPass, error) {
	if err := desc.Validate(); err != nil {
		return nil, err
	}
	p := &renderPass{
		d: d,
		desc: driver.RenderPassDesc{
			Width:                       desc.Width,
			Height:                      desc.Height,
			ColorFormat:                 desc.ColorFormat,
			DepthStencilFormat:          desc.DepthStencilFormat,
			SampleCount:                 desc.SampleCount,
			ColorAttachments:            append([]driver.Texture(nil), desc.ColorAttachments...),
			ColorMultisampleAttachments: append([]driver.Texture(nil), desc.ColorMultisampleAttachments...),
			DepthStencilAttachment:      desc.DepthStencilAttachment,
		},
	}
	for i, t := range p.desc.Targets() {
		t := t.(*texture)
		if t.desc.Usage&driver.UColorAttachment == 0 {
			return nil, fmt.Errorf("%w: color attachment %d lacks UColorAttachment usage", driver.ErrRenderPass, i)
		}
		p.color = append(p.color, t)
	}
	if p.desc.DepthStencilAttachment != nil {
		p.ds = p.desc.DepthStencilAttachment.(*texture)
		if p.ds.desc.Usage&driver.UDepthStencilAttachment == 0 {
			return nil, fmt.Errorf("%w: depth/stencil attachment lacks UDepthStencilAttachment usage", driver.ErrRenderPass)
		}
	}
	d.live.Add(1)
	return p, nil
}

// Desc returns the render pass description.
func (p *renderPass) Desc() driver.RenderPassDesc { return p.desc }

// passKey identifies the render passes with which a
// pipeline can be used.
type passKey struct {
	color   driver.Format
	ds      driver.Format
	samples int
	count   int
}

// key returns the passKey of p.
func (p *renderPass) key() passKey {
	return passKey{
		color:   p.desc.ColorFormat,
		ds:      p.desc.DepthStencilFormat,
		samples: p.desc.SampleCount,
		count:   len(p.desc.ColorAttachments),
	}
}

// Destroy destroys the render pass.
// The attachments are not destroyed.
func (p *renderPass) Destroy() {
	if p == nil || p.d == nil {
		return
	}
	p.d.live.Add(-1)
	*p = renderPass{}
}
