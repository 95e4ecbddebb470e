// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package driver

import (
	"errors"
	"fmt"
)

// MaxColorAttachments is the maximum number of color
// attachments in a render pass.
const MaxColorAttachments = 8

// RenderPassDesc describes a render pass and the
// textures it renders to.
// All color attachments share ColorFormat.
// When SampleCount is greater than 1, rendering targets
// ColorMultisampleAttachments (which have SampleCount
// samples), and ColorAttachments are the single-sample
// textures into which they are resolved.
// The attachment textures are not owned by the render
// pass.
type RenderPassDesc struct {
	Width                       int
	Height                      int
	ColorFormat                 Format
	DepthStencilFormat          Format
	SampleCount                 int
	ColorAttachments            []Texture
	ColorMultisampleAttachments []Texture
	DepthStencilAttachment      Texture
}

// ColorAttachmentCount returns the number of color
// attachments.
func (d *RenderPassDesc) ColorAttachmentCount() int { return len(d.ColorAttachments) }

// Multisampled returns whether the pass renders to
// multisample attachments.
func (d *RenderPassDesc) Multisampled() bool { return d.SampleCount > 1 }

// Targets returns the color textures that rendering
// writes to: the multisample attachments if the pass
// is multisampled, or the color attachments otherwise.
func (d *RenderPassDesc) Targets() []Texture {
	if d.Multisampled() {
		return d.ColorMultisampleAttachments
	}
	return d.ColorAttachments
}

// ErrRenderPass means that a render pass description is
// invalid.
var ErrRenderPass = errors.New("driver: invalid render pass")

// Validate checks that d is a valid render pass
// description.
func (d *RenderPassDesc) Validate() error {
	fail := func(format string, a ...any) error {
		return fmt.Errorf("%w: %s", ErrRenderPass, fmt.Sprintf(format, a...))
	}
	if d.Width < 1 || d.Height < 1 {
		return fail("size %dx%d", d.Width, d.Height)
	}
	if d.SampleCount < 1 {
		return fail("sample count %d", d.SampleCount)
	}
	n := len(d.ColorAttachments)
	if n > MaxColorAttachments {
		return fail("%d color attachments (max %d)", n, MaxColorAttachments)
	}
	if n > 0 && (d.ColorFormat == FUndefined || d.ColorFormat.IsDepthStencil()) {
		return fail("color format %v", d.ColorFormat)
	}
	if d.Multisampled() {
		if len(d.ColorMultisampleAttachments) != n {
			return fail("%d multisample attachments for %d color attachments", len(d.ColorMultisampleAttachments), n)
		}
	} else if len(d.ColorMultisampleAttachments) != 0 {
		return fail("multisample attachments in a single-sample pass")
	}
	check := func(t Texture, f Format, samples int) error {
		if t == nil {
			return fail("nil attachment")
		}
		td := t.Desc()
		switch {
		case td.Format != f:
			return fail("attachment format %v (want %v)", td.Format, f)
		case td.Width != d.Width || td.Height != d.Height:
			return fail("attachment size %dx%d (want %dx%d)", td.Width, td.Height, d.Width, d.Height)
		case max(td.SampleCount, 1) != samples:
			return fail("attachment sample count %d (want %d)", td.SampleCount, samples)
		}
		return nil
	}
	for _, t := range d.ColorAttachments {
		if err := check(t, d.ColorFormat, 1); err != nil {
			return err
		}
	}
	for _, t := range d.ColorMultisampleAttachments {
		if err := check(t, d.ColorFormat, d.SampleCount); err != nil {
			return err
		}
	}
	switch {
	case d.DepthStencilFormat == FUndefined:
		if d.DepthStencilAttachment != nil {
			return fail("depth/stencil attachment with undefined format")
		}
	case !d.DepthStencilFormat.IsDepthStencil():
		return fail("depth/stencil format %v", d.DepthStencilFormat)
	default:
		if err := check(d.DepthStencilAttachment, d.DepthStencilFormat, d.SampleCount); err != nil {
			return err
		}
	}
	if n == 0 && d.DepthStencilAttachment == nil {
		return fail("no attachments")
	}
	return nil
}

// RenderPass is the interface that defines a render pass
// into which draw commands operate.
// Attachments are loaded on begin and stored on end; they
// are cleared explicitly with the ClearColor and
// ClearDepthStencil commands.
type RenderPass interface {
	Destroyer

	// Desc returns the description of the render pass.
	Desc() RenderPassDesc
}
