// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package vk

import (
	vk "github.com/goki/vulkan"

	"gviegas/gp3d/driver"
)

// cmdBuffer implements driver.CmdBuffer.
type cmdBuffer struct {
	d     *Driver
	pool  vk.CommandPool
	cb    vk.CommandBuffer
	begun bool
	ended bool

	// Current render pass.
	pass *renderPass

	// When set, sc indicates that the command buffer
	// renders to the swapchain image scImg, so its
	// submission must wait for the image to be acquired
	// and signal its presentation.
	sc    *swapchain
	scImg int
}

// NewCmdBuffer creates a new command buffer.
// The command buffer handle is allocated from an exclusive command pool.
func (d *Driver) NewCmdBuffer() (driver.CmdBuffer, error) {
	var pool vk.CommandPool
	poolInfo := vk.CommandPoolCreateInfo{
		SType:            vk.StructureTypeCommandPoolCreateInfo,
		Flags:            vk.CommandPoolCreateFlags(vk.CommandPoolCreateResetCommandBufferBit),
		QueueFamilyIndex: d.qfam,
	}
	err := checkResult(vk.CreateCommandPool(d.dev, &poolInfo, nil, &pool))
	if err != nil {
		return nil, err
	}
	cbs := make([]vk.CommandBuffer, 1)
	cbInfo := vk.CommandBufferAllocateInfo{
		SType:              vk.StructureTypeCommandBufferAllocateInfo,
		CommandPool:        pool,
		Level:              vk.CommandBufferLevelPrimary,
		CommandBufferCount: 1,
	}
	err = checkResult(vk.AllocateCommandBuffers(d.dev, &cbInfo, cbs))
	if err != nil {
		vk.DestroyCommandPool(d.dev, pool, nil)
		return nil, err
	}
	return &cmdBuffer{
		d:     d,
		pool:  pool,
		cb:    cbs[0],
		scImg: -1,
	}, nil
}

// Begin puts the command buffer in the recording state.
func (cb *cmdBuffer) Begin() error {
	if cb.begun {
		return nil
	}
	if cb.ended {
		if err := cb.Reset(); err != nil {
			return err
		}
	}
	info := vk.CommandBufferBeginInfo{
		SType: vk.StructureTypeCommandBufferBeginInfo,
		Flags: vk.CommandBufferUsageFlags(vk.CommandBufferUsageOneTimeSubmitBit),
	}
	if err := checkResult(vk.BeginCommandBuffer(cb.cb, &info)); err != nil {
		return err
	}
	cb.begun = true
	return nil
}

// End puts the command buffer in the executable state.
func (cb *cmdBuffer) End() error {
	if !cb.begun {
		return driver.ErrNotEnded
	}
	cb.begun = false
	cb.pass = nil
	if err := checkResult(vk.EndCommandBuffer(cb.cb)); err != nil {
		cb.Reset()
		return err
	}
	cb.ended = true
	return nil
}

// Reset puts the command buffer in the initial state.
func (cb *cmdBuffer) Reset() error {
	err := checkResult(vk.ResetCommandPool(cb.d.dev, cb.pool, 0))
	cb.begun = false
	cb.ended = false
	cb.pass = nil
	cb.sc = nil
	cb.scImg = -1
	return err
}

// barrier records an image memory barrier that moves img
// from the from state (whose layout is old) to the to
// state.
func barrier(cb vk.CommandBuffer, img vk.Image, subres vk.ImageSubresourceRange, old vk.ImageLayout, from, to driver.TextureUsage) {
	if to == driver.UUndefined {
		return
	}
	acc1, stg1 := syncOf(from)
	acc2, stg2 := syncOf(to)
	if from == driver.UPresent {
		// The acquire semaphore is waited on at this
		// stage.
		stg1 = vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit)
	}
	vk.CmdPipelineBarrier(cb, stg1, stg2, 0, 0, nil, 0, nil, 1, []vk.ImageMemoryBarrier{{
		SType:               vk.StructureTypeImageMemoryBarrier,
		SrcAccessMask:       acc1,
		DstAccessMask:       acc2,
		OldLayout:           old,
		NewLayout:           layoutOf(to),
		SrcQueueFamilyIndex: vk.QueueFamilyIgnored,
		DstQueueFamilyIndex: vk.QueueFamilyIgnored,
		Image:               img,
		SubresourceRange:    subres,
	}})
}

// Transition moves tex from the from state to the to state.
// Swapchain images are tracked so that submission can
// synchronize with presentation.
func (cb *cmdBuffer) Transition(tex driver.Texture, from, to driver.TextureUsage) {
	t := tex.(*texture)
	old := layoutOf(from)
	if t.s != nil {
		cb.sc = t.s
		cb.scImg = t.idx
		if from == driver.UPresent {
			// Contents of acquired images are not
			// preserved across presentation.
			old = vk.ImageLayoutUndefined
		}
	}
	barrier(cb.cb, t.img, t.subres, old, from, to)
}

// BeginRenderPass begins a render pass.
func (cb *cmdBuffer) BeginRenderPass(pass driver.RenderPass) {
	p := pass.(*renderPass)
	info := vk.RenderPassBeginInfo{
		SType:       vk.StructureTypeRenderPassBeginInfo,
		RenderPass:  p.pass,
		Framebuffer: p.fb,
		RenderArea: vk.Rect2D{
			Extent: vk.Extent2D{Width: uint32(p.desc.Width), Height: uint32(p.desc.Height)},
		},
	}
	vk.CmdBeginRenderPass(cb.cb, &info, vk.SubpassContentsInline)
	cb.pass = p
}

// EndRenderPass ends the current render pass.
func (cb *cmdBuffer) EndRenderPass() {
	vk.CmdEndRenderPass(cb.cb)
	cb.pass = nil
}

// SetViewport sets the viewport.
func (cb *cmdBuffer) SetViewport(vp driver.Viewport) {
	vk.CmdSetViewport(cb.cb, 0, 1, []vk.Viewport{{
		X:        vp.X,
		Y:        vp.Y,
		Width:    vp.Width,
		Height:   vp.Height,
		MinDepth: vp.Znear,
		MaxDepth: vp.Zfar,
	}})
}

// SetScissor sets the scissor rectangle.
func (cb *cmdBuffer) SetScissor(sciss driver.Scissor) {
	vk.CmdSetScissor(cb.cb, 0, 1, []vk.Rect2D{{
		Offset: vk.Offset2D{X: int32(sciss.X), Y: int32(sciss.Y)},
		Extent: vk.Extent2D{Width: uint32(sciss.Width), Height: uint32(sciss.Height)},
	}})
}

// BindRenderPipeline binds a render pipeline.
func (cb *cmdBuffer) BindRenderPipeline(pl driver.RenderPipeline) {
	vk.CmdBindPipeline(cb.cb, vk.PipelineBindPointGraphics, pl.(*pipeline).pl)
}

// BindDescriptorSet binds a descriptor set.
func (cb *cmdBuffer) BindDescriptorSet(ds driver.DescriptorSet) {
	h := ds.(*descSet)
	if h.set == nil {
		return
	}
	vk.CmdBindDescriptorSets(cb.cb, vk.PipelineBindPointGraphics, h.playout, 0, 1, []vk.DescriptorSet{h.set}, 0, nil)
}

// BindVertexBuffers binds vertex buffers.
func (cb *cmdBuffer) BindVertexBuffers(start int, buf []driver.Buffer, off []int64) {
	if len(buf) == 0 {
		return
	}
	bufs := make([]vk.Buffer, len(buf))
	offs := make([]vk.DeviceSize, len(buf))
	for i := range buf {
		bufs[i] = buf[i].(*buffer).buf
		offs[i] = vk.DeviceSize(off[i])
	}
	vk.CmdBindVertexBuffers(cb.cb, uint32(start), uint32(len(bufs)), bufs, offs)
}

// BindIndexBuffer binds an index buffer.
func (cb *cmdBuffer) BindIndexBuffer(buf driver.Buffer, off int64) {
	b := buf.(*buffer)
	typ := vk.IndexTypeUint32
	if b.stride == 2 {
		typ = vk.IndexTypeUint16
	}
	vk.CmdBindIndexBuffer(cb.cb, b.buf, vk.DeviceSize(off), typ)
}

// clearRect returns the rectangle covering the current
// render pass.
func (cb *cmdBuffer) clearRect() []vk.ClearRect {
	return []vk.ClearRect{{
		Rect: vk.Rect2D{
			Extent: vk.Extent2D{Width: uint32(cb.pass.desc.Width), Height: uint32(cb.pass.desc.Height)},
		},
		LayerCount: 1,
	}}
}

// ClearColor clears a color attachment of the current
// render pass.
func (cb *cmdBuffer) ClearColor(index int, color [4]float32) {
	if cb.pass == nil {
		return
	}
	var cv vk.ClearValue
	cv.SetColor(color[:])
	vk.CmdClearAttachments(cb.cb, 1, []vk.ClearAttachment{{
		AspectMask:      vk.ImageAspectFlags(vk.ImageAspectColorBit),
		ColorAttachment: uint32(index),
		ClearValue:      cv,
	}}, 1, cb.clearRect())
}

// ClearDepthStencil clears the depth/stencil attachment
// of the current render pass.
func (cb *cmdBuffer) ClearDepthStencil(depth float32, stencil uint32) {
	if cb.pass == nil || cb.pass.desc.DepthStencilAttachment == nil {
		return
	}
	var cv vk.ClearValue
	cv.SetDepthStencil(depth, stencil)
	vk.CmdClearAttachments(cb.cb, 1, []vk.ClearAttachment{{
		AspectMask: aspectOf(cb.pass.desc.DepthStencilFormat),
		ClearValue: cv,
	}}, 1, cb.clearRect())
}

// Draw draws primitives.
func (cb *cmdBuffer) Draw(vertCount, vertStart int) {
	vk.CmdDraw(cb.cb, uint32(vertCount), 1, uint32(vertStart), 0)
}

// DrawIndexed draws indexed primitives.
func (cb *cmdBuffer) DrawIndexed(idxCount, idxStart int) {
	vk.CmdDrawIndexed(cb.cb, uint32(idxCount), 1, uint32(idxStart), 0, 0)
}

// Resolve resolves the multisample texture src into dst.
func (cb *cmdBuffer) Resolve(src, dst driver.Texture) {
	s := src.(*texture)
	d := dst.(*texture)
	subres := vk.ImageSubresourceLayers{
		AspectMask: vk.ImageAspectFlags(vk.ImageAspectColorBit),
		LayerCount: 1,
	}
	vk.CmdResolveImage(cb.cb, s.img, layoutOf(driver.UResolveSrc), d.img, layoutOf(driver.UResolveDst), 1, []vk.ImageResolve{{
		SrcSubresource: subres,
		DstSubresource: subres,
		Extent: vk.Extent3D{
			Width:  uint32(s.desc.Width),
			Height: uint32(s.desc.Height),
			Depth:  1,
		},
	}})
}

// Destroy destroys the command buffer.
func (cb *cmdBuffer) Destroy() {
	if cb == nil {
		return
	}
	if cb.d != nil {
		vk.FreeCommandBuffers(cb.d.dev, cb.pool, 1, []vk.CommandBuffer{cb.cb})
		vk.DestroyCommandPool(cb.d.dev, cb.pool, nil)
	}
	*cb = cmdBuffer{}
}

// Submit submits a command buffer for execution.
// If cb renders to a swapchain image, execution waits for
// the image to be acquired and presentation waits for
// execution.
func (d *Driver) Submit(cmd driver.CmdBuffer, fence driver.Fence, value uint64) error {
	cb := cmd.(*cmdBuffer)
	if !cb.ended {
		return driver.ErrNotEnded
	}
	var fen vk.Fence
	if fence != nil {
		f := fence.(*fenceT)
		if err := f.arm(value); err != nil {
			return err
		}
		fen = f.fen
	}
	info := vk.SubmitInfo{
		SType:              vk.StructureTypeSubmitInfo,
		CommandBufferCount: 1,
		PCommandBuffers:    []vk.CommandBuffer{cb.cb},
	}
	sc, img := cb.sc, cb.scImg
	if sc != nil && img >= 0 && img < len(sc.views) {
		info.WaitSemaphoreCount = 1
		info.PWaitSemaphores = []vk.Semaphore{sc.nextSem[sc.viewSync[img]]}
		info.PWaitDstStageMask = []vk.PipelineStageFlags{vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit)}
		info.SignalSemaphoreCount = 1
		info.PSignalSemaphores = []vk.Semaphore{sc.presSem[img]}
	}
	d.qmu.Lock()
	err := checkResult(vk.QueueSubmit(d.que, 1, []vk.SubmitInfo{info}, fen))
	d.qmu.Unlock()
	if err != nil {
		return err
	}
	if sc != nil && img >= 0 && img < len(sc.views) {
		sc.pending[img] = true
	}
	// The command buffer must be reset before reuse.
	cb.ended = false
	cb.sc = nil
	cb.scImg = -1
	return nil
}
