// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package driver

import "errors"

// GPU is the main interface to an underlying driver
// implementation.
// It is used to create other types and to execute commands.
// A GPU is obtained from a call to Driver.Open.
type GPU interface {
	// Driver returns the Driver that owns the GPU.
	Driver() Driver

	// NewBuffer creates a new buffer.
	// Uniform buffer sizes are rounded up to UniformAlign.
	// If visible is true, the buffer is mapped once and
	// stays mapped until destroyed.
	NewBuffer(usage BufferUsage, size int64, stride int, visible bool) (Buffer, error)

	// NewTexture creates a new texture.
	// If data is not nil, it is copied to the first mip
	// level of every layer, tightly packed.
	// The texture is placed in the desc.Usage.Initial()
	// state.
	NewTexture(desc *TextureDesc, data []byte) (Texture, error)

	// NewSampler creates a new sampler.
	NewSampler(desc *SamplerDesc) (Sampler, error)

	// NewShader creates a new shader from compiled code.
	NewShader(code []byte) (Shader, error)

	// NewDescriptorSet creates a new descriptor set.
	// The heap layout is computed by LayoutDescriptors.
	// It fails with ErrDescHeap if a heap would exceed
	// Limits.MaxDescHeap slots.
	NewDescriptorSet(ds []Descriptor) (DescriptorSet, error)

	// NewRenderPass creates a new render pass.
	NewRenderPass(desc *RenderPassDesc) (RenderPass, error)

	// NewRenderPipeline creates a new render pipeline.
	// Compilation happens synchronously, once.
	NewRenderPipeline(state *PipelineState) (RenderPipeline, error)

	// NewCmdBuffer creates a new command buffer.
	NewCmdBuffer() (CmdBuffer, error)

	// NewFence creates a new fence whose completed value
	// is zero.
	NewFence() (Fence, error)

	// Submit submits a command buffer to the GPU for
	// execution.
	// The command buffer must have been ended.
	// When execution completes, fence's completed value
	// is set to value. Submit does not block.
	// A fence has at most one pending signal: the caller
	// must wait for it before reusing the fence.
	Submit(cb CmdBuffer, fence Fence, value uint64) error

	// WaitIdle blocks until all submitted work completes.
	WaitIdle() error

	// Limits returns the implementation limits.
	// They are immutable for the lifetime of the GPU.
	Limits() Limits
}

// CmdBuffer is the interface that defines a command buffer.
// Commands are recorded into command buffers and later
// submitted to the GPU for execution. The usage is as
// follows:
//
//  1. call Begin
//  2. call Transition as needed
//  3. call BeginRenderPass
//  4. call Set*, Bind* and Clear* methods
//  5. call Draw* commands
//  6. repeat 4-5 as needed
//  7. call EndRenderPass
//  8. call Resolve and Transition as needed
//  9. repeat 2-8 as needed
//  10. call End and, if it succeeds, GPU.Submit
//
// Recording methods other than Begin, End and Reset do
// not return errors; misuse is undefined behavior.
type CmdBuffer interface {
	Destroyer

	// Begin prepares the command buffer for recording.
	// It needs to be called again if the command buffer
	// is executed or reset.
	Begin() error

	// End ends command recording and prepares the
	// command buffer for execution.
	End() error

	// Reset discards all recorded commands.
	// It must not be called while the command buffer
	// is pending execution.
	Reset() error

	// BeginRenderPass begins a render pass.
	// Attachment contents are loaded.
	BeginRenderPass(pass RenderPass)

	// EndRenderPass ends the current render pass.
	EndRenderPass()

	// SetViewport sets the viewport.
	SetViewport(vp Viewport)

	// SetScissor sets the scissor rectangle.
	SetScissor(sciss Scissor)

	// BindRenderPipeline binds a render pipeline and sets
	// its primitive topology.
	BindRenderPipeline(pl RenderPipeline)

	// BindDescriptorSet binds a descriptor set for use
	// by the bound pipeline.
	BindDescriptorSet(ds DescriptorSet)

	// BindVertexBuffers binds vertex buffers to
	// consecutive bindings, starting at start.
	// off is the byte offset into each buffer.
	BindVertexBuffers(start int, buf []Buffer, off []int64)

	// BindIndexBuffer binds an index buffer.
	// The index format is derived from the buffer's
	// stride (2 or 4 bytes).
	BindIndexBuffer(buf Buffer, off int64)

	// ClearColor clears the color attachment at index
	// of the current render pass.
	ClearColor(index int, color [4]float32)

	// ClearDepthStencil clears the depth/stencil
	// attachment of the current render pass.
	ClearDepthStencil(depth float32, stencil uint32)

	// Draw draws primitives.
	Draw(vertCount, vertStart int)

	// DrawIndexed draws indexed primitives.
	DrawIndexed(idxCount, idxStart int)

	// Transition moves a texture from the from state
	// to the to state.
	// It must not be called during a render pass.
	Transition(tex Texture, from, to TextureUsage)

	// Resolve resolves the multisample texture src into
	// the single-sample texture dst.
	// src must be in the UResolveSrc state and dst in
	// the UResolveDst state.
	// It must not be called during a render pass.
	Resolve(src, dst Texture)
}

// Fence is the interface that defines a synchronization
// primitive carrying a monotonically increasing value,
// which is set by the GPU when submitted work completes.
type Fence interface {
	Destroyer

	// Wait blocks until the completed value is at least
	// value.
	Wait(value uint64) error

	// Completed returns the completed value.
	Completed() uint64
}

// ErrNotEnded means that a command buffer was submitted
// without being ended.
var ErrNotEnded = errors.New("driver: command buffer not ended")

// ErrFenceValue means that a fence was signaled with a
// value not greater than its completed value, or that
// a wait can never be satisfied.
var ErrFenceValue = errors.New("driver: invalid fence value")
