// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package vk

import (
	"fmt"

	vk "github.com/goki/vulkan"

	"gviegas/gp3d/driver"
)

// renderPass implements driver.RenderPass.
// It has a single subpass and its own framebuffer.
type renderPass struct {
	d    *Driver
	pass vk.RenderPass
	fb   vk.Framebuffer
	desc driver.RenderPassDesc
	// Number of color attachments.
	ncolor int
}

// NewRenderPass creates a new render pass.
// Attachments are loaded and stored, and every attachment
// stays in its attachment layout.
func (d *Driver) NewRenderPass(desc *driver.RenderPassDesc) (driver.RenderPass, error) {
	if err := desc.Validate(); err != nil {
		return nil, err
	}
	if desc.Width > d.lim.MaxPassSize[0] || desc.Height > d.lim.MaxPassSize[1] {
		return nil, fmt.Errorf("%w: size %dx%d", driver.ErrRenderPass, desc.Width, desc.Height)
	}
	if len(desc.ColorAttachments) > d.lim.MaxColorAttachments {
		return nil, fmt.Errorf("%w: %d color attachments", driver.ErrRenderPass, len(desc.ColorAttachments))
	}
	dsc := *desc
	dsc.ColorAttachments = append([]driver.Texture(nil), desc.ColorAttachments...)
	dsc.ColorMultisampleAttachments = append([]driver.Texture(nil), desc.ColorMultisampleAttachments...)

	targets := dsc.Targets()
	samples := convSamples(dsc.SampleCount)
	atts := make([]vk.AttachmentDescription, 0, len(targets)+1)
	views := make([]vk.ImageView, 0, cap(atts))
	refs := make([]vk.AttachmentReference, 0, len(targets))
	for _, t := range targets {
		refs = append(refs, vk.AttachmentReference{
			Attachment: uint32(len(atts)),
			Layout:     vk.ImageLayoutColorAttachmentOptimal,
		})
		atts = append(atts, vk.AttachmentDescription{
			Format:         convFormat(dsc.ColorFormat),
			Samples:        samples,
			LoadOp:         vk.AttachmentLoadOpLoad,
			StoreOp:        vk.AttachmentStoreOpStore,
			StencilLoadOp:  vk.AttachmentLoadOpDontCare,
			StencilStoreOp: vk.AttachmentStoreOpDontCare,
			InitialLayout:  vk.ImageLayoutColorAttachmentOptimal,
			FinalLayout:    vk.ImageLayoutColorAttachmentOptimal,
		})
		views = append(views, t.(*texture).attView)
	}
	subpass := vk.SubpassDescription{
		PipelineBindPoint:    vk.PipelineBindPointGraphics,
		ColorAttachmentCount: uint32(len(refs)),
		PColorAttachments:    refs,
	}
	if t := dsc.DepthStencilAttachment; t != nil {
		subpass.PDepthStencilAttachment = &vk.AttachmentReference{
			Attachment: uint32(len(atts)),
			Layout:     vk.ImageLayoutDepthStencilAttachmentOptimal,
		}
		atts = append(atts, vk.AttachmentDescription{
			Format:         convFormat(dsc.DepthStencilFormat),
			Samples:        samples,
			LoadOp:         vk.AttachmentLoadOpLoad,
			StoreOp:        vk.AttachmentStoreOpStore,
			StencilLoadOp:  vk.AttachmentLoadOpLoad,
			StencilStoreOp: vk.AttachmentStoreOpStore,
			InitialLayout:  vk.ImageLayoutDepthStencilAttachmentOptimal,
			FinalLayout:    vk.ImageLayoutDepthStencilAttachmentOptimal,
		})
		views = append(views, t.(*texture).attView)
	}
	_, srcStg := syncOf(driver.UColorAttachment)
	_, dsStg := syncOf(driver.UDepthStencilAttachment)
	access, _ := syncOf(driver.UColorAttachment)
	dsAccess, _ := syncOf(driver.UDepthStencilAttachment)
	dep := vk.SubpassDependency{
		SrcSubpass:    vk.SubpassExternal,
		DstSubpass:    0,
		SrcStageMask:  srcStg | dsStg,
		DstStageMask:  srcStg | dsStg,
		SrcAccessMask: access | dsAccess,
		DstAccessMask: access | dsAccess,
	}
	info := vk.RenderPassCreateInfo{
		SType:           vk.StructureTypeRenderPassCreateInfo,
		AttachmentCount: uint32(len(atts)),
		PAttachments:    atts,
		SubpassCount:    1,
		PSubpasses:      []vk.SubpassDescription{subpass},
		DependencyCount: 1,
		PDependencies:   []vk.SubpassDependency{dep},
	}
	var pass vk.RenderPass
	if err := checkResult(vk.CreateRenderPass(d.dev, &info, nil, &pass)); err != nil {
		return nil, err
	}
	p := &renderPass{
		d:      d,
		pass:   pass,
		desc:   dsc,
		ncolor: len(targets),
	}
	finfo := vk.FramebufferCreateInfo{
		SType:           vk.StructureTypeFramebufferCreateInfo,
		RenderPass:      pass,
		AttachmentCount: uint32(len(views)),
		PAttachments:    views,
		Width:           uint32(dsc.Width),
		Height:          uint32(dsc.Height),
		Layers:          1,
	}
	var fb vk.Framebuffer
	if err := checkResult(vk.CreateFramebuffer(d.dev, &finfo, nil, &fb)); err != nil {
		p.Destroy()
		return nil, err
	}
	p.fb = fb
	driver.Logger().Debug("vulkan render pass created", "width", dsc.Width, "height", dsc.Height, "colors", len(targets), "samples", dsc.SampleCount)
	return p, nil
}

// Desc returns the description of the render pass.
func (p *renderPass) Desc() driver.RenderPassDesc { return p.desc }

// Destroy destroys the render pass.
func (p *renderPass) Destroy() {
	if p == nil {
		return
	}
	if p.d != nil {
		if p.fb != nil {
			vk.DestroyFramebuffer(p.d.dev, p.fb, nil)
		}
		vk.DestroyRenderPass(p.d.dev, p.pass, nil)
	}
	*p = renderPass{}
}
