// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package mtl

import (
	"errors"

	"gviegas/gp3d/driver"
)

// Op identifies an MTLCommandBuffer or
// MTLRenderCommandEncoder method.
type Op int

// Encoder operations.
const (
	OpRenderCommandEncoder Op = iota
	OpEndEncoding
	OpSetRenderPipelineState
	OpSetDepthStencilState
	OpSetCullMode
	OpSetFrontFacingWinding
	OpSetTriangleFillMode
	OpSetDepthClipMode
	OpSetDepthBias
	OpSetBlendColor
	OpSetStencilReferenceValues
	OpSetViewport
	OpSetScissorRect
	OpSetVertexBuffer
	OpSetFragmentBuffer
	OpUseResource
	OpDrawPrimitives
	OpDrawIndexedPrimitives
)

var opNames = [...]string{
	OpRenderCommandEncoder:      "renderCommandEncoderWithDescriptor",
	OpEndEncoding:               "endEncoding",
	OpSetRenderPipelineState:    "setRenderPipelineState",
	OpSetDepthStencilState:      "setDepthStencilState",
	OpSetCullMode:               "setCullMode",
	OpSetFrontFacingWinding:     "setFrontFacingWinding",
	OpSetTriangleFillMode:       "setTriangleFillMode",
	OpSetDepthClipMode:          "setDepthClipMode",
	OpSetDepthBias:              "setDepthBias",
	OpSetBlendColor:             "setBlendColor",
	OpSetStencilReferenceValues: "setStencilFrontReferenceValue:backReferenceValue",
	OpSetViewport:               "setViewport",
	OpSetScissorRect:            "setScissorRect",
	OpSetVertexBuffer:           "setVertexBuffer",
	OpSetFragmentBuffer:         "setFragmentBuffer",
	OpUseResource:               "useResource",
	OpDrawPrimitives:            "drawPrimitives",
	OpDrawIndexedPrimitives:     "drawIndexedPrimitives",
}

func (op Op) String() string {
	if op < 0 || int(op) >= len(opNames) {
		return "Op(?)"
	}
	return opNames[op]
}

// Viewport mirrors MTLViewport.
type Viewport struct {
	OriginX, OriginY, Width, Height, Znear, Zfar float64
}

// ScissorRect mirrors MTLScissorRect.
type ScissorRect struct {
	X, Y, Width, Height uint
}

// Command is a recorded call.
// Only the fields that the call takes are set.
type Command struct {
	Op Op

	Pass        RenderPassDescriptor
	Pipeline    *Pipeline
	Cull        CullMode
	Winding     Winding
	Fill        TriangleFillMode
	Clip        DepthClipMode
	Bias        DepthBias
	Color       [4]float32
	StencilRefs [2]uint32
	Viewport    Viewport
	Scissor     ScissorRect
	// Argument is set instead of Buffer when an
	// argument buffer is bound.
	Argument  *ArgumentBuffer
	Buffer    driver.Buffer
	Texture   driver.Texture
	Offset    int64
	Index     uint
	Usage     ResourceUsage
	Stages    RenderStages
	Primitive PrimitiveType
	Start     uint
	Count     uint
	IndexType IndexType
}

var errNotRecording = errors.New("mtl: encoder is not recording")

type vertexBinding struct {
	buf driver.Buffer
	off int64
}

// Encoder records driver commands as Metal calls.
// It implements driver.CmdBuffer.
//
// Render command encoders are created lazily, on the
// first draw of a render pass, so clears issued before
// it become clear load actions. A clear issued after
// that ends the current encoder; the next one starts
// with the clear and the bound state is set again.
type Encoder struct {
	cmds      []Command
	recording bool

	inPass  bool
	open    bool
	base    RenderPassDescriptor
	next    RenderPassDescriptor
	pending bool

	pl    *Pipeline
	vp    *Viewport
	sciss *ScissorRect
	set   driver.DescriptorSet
	args  []ArgumentBuffer
	vbufs [MaxBufferArguments]vertexBinding
	ibuf  driver.Buffer
	ioff  int64
}

// NewEncoder creates a new encoder.
func NewEncoder() *Encoder { return &Encoder{} }

// Commands returns the recorded calls.
// The returned slice must not be modified.
func (e *Encoder) Commands() []Command { return e.cmds }

func (e *Encoder) add(c Command) { e.cmds = append(e.cmds, c) }

func (e *Encoder) clear() {
	cmds := e.cmds[:0]
	*e = Encoder{cmds: cmds}
}

// Begin starts recording, discarding previous commands.
func (e *Encoder) Begin() error {
	e.clear()
	e.recording = true
	return nil
}

// End stops recording. An encoder left open is ended.
func (e *Encoder) End() error {
	if !e.recording {
		return errNotRecording
	}
	if e.open {
		e.add(Command{Op: OpEndEncoding})
		e.open = false
	}
	e.recording = false
	return nil
}

// Reset discards all recorded commands.
func (e *Encoder) Reset() error {
	e.clear()
	return nil
}

// BeginRenderPass starts a render pass.
// No encoder is created until one is needed.
func (e *Encoder) BeginRenderPass(pass driver.RenderPass) {
	desc := pass.Desc()
	rp, err := PlanRenderPass(&desc)
	if err != nil {
		driver.Logger().Warn("mtl render pass not planned", "err", err)
		return
	}
	e.inPass = true
	e.base = rp
	e.next = rp.Clone()
	e.pending = false
}

// EndRenderPass ends the current render pass.
// A pass whose only commands are clears still gets an
// encoder so that the clears take effect.
func (e *Encoder) EndRenderPass() {
	if !e.inPass {
		return
	}
	if !e.open && e.pending {
		e.openEncoder()
	}
	if e.open {
		e.add(Command{Op: OpEndEncoding})
		e.open = false
	}
	e.inPass = false
	e.pending = false
}

// openEncoder creates a render command encoder with the
// next pass descriptor and sets the bound state on it.
func (e *Encoder) openEncoder() {
	e.add(Command{Op: OpRenderCommandEncoder, Pass: e.next})
	e.open = true
	e.next = e.base.Clone()
	e.pending = false
	if e.pl != nil {
		e.emitPipeline()
	}
	if e.vp != nil {
		e.add(Command{Op: OpSetViewport, Viewport: *e.vp})
	}
	if e.sciss != nil {
		e.add(Command{Op: OpSetScissorRect, Scissor: *e.sciss})
	}
	if e.set != nil {
		e.emitArguments()
	}
	for i, vb := range e.vbufs {
		if vb.buf != nil {
			e.add(Command{Op: OpSetVertexBuffer, Buffer: vb.buf, Offset: vb.off, Index: uint(i)})
		}
	}
}

// ensureEncoder returns whether an encoder is open,
// opening one if inside a render pass.
func (e *Encoder) ensureEncoder() bool {
	if e.open {
		return true
	}
	if !e.inPass {
		driver.Logger().Warn("mtl command outside of render pass")
		return false
	}
	e.openEncoder()
	return true
}

// SetViewport sets the viewport.
func (e *Encoder) SetViewport(vp driver.Viewport) {
	e.vp = &Viewport{
		OriginX: float64(vp.X),
		OriginY: float64(vp.Y),
		Width:   float64(vp.Width),
		Height:  float64(vp.Height),
		Znear:   float64(vp.Znear),
		Zfar:    float64(vp.Zfar),
	}
	if e.open {
		e.add(Command{Op: OpSetViewport, Viewport: *e.vp})
	}
}

// SetScissor sets the scissor rectangle.
func (e *Encoder) SetScissor(sciss driver.Scissor) {
	e.sciss = &ScissorRect{
		X:      uint(max(sciss.X, 0)),
		Y:      uint(max(sciss.Y, 0)),
		Width:  uint(max(sciss.Width, 0)),
		Height: uint(max(sciss.Height, 0)),
	}
	if e.open {
		e.add(Command{Op: OpSetScissorRect, Scissor: *e.sciss})
	}
}

// BindRenderPipeline binds pl, which must be a *Pipeline.
func (e *Encoder) BindRenderPipeline(pl driver.RenderPipeline) {
	e.pl = pl.(*Pipeline)
	if e.open {
		e.emitPipeline()
	}
}

// emitPipeline sets the pipeline states and the encoder
// state of the bound pipeline.
func (e *Encoder) emitPipeline() {
	p := e.pl
	e.add(Command{Op: OpSetRenderPipelineState, Pipeline: p})
	e.add(Command{Op: OpSetDepthStencilState, Pipeline: p})
	e.add(Command{Op: OpSetCullMode, Cull: p.CullMode})
	e.add(Command{Op: OpSetFrontFacingWinding, Winding: p.Winding})
	e.add(Command{Op: OpSetTriangleFillMode, Fill: p.FillMode})
	e.add(Command{Op: OpSetDepthClipMode, Clip: p.ClipMode})
	e.add(Command{Op: OpSetDepthBias, Bias: p.DepthBias})
	e.add(Command{Op: OpSetBlendColor, Color: p.BlendColor})
	e.add(Command{Op: OpSetStencilReferenceValues, StencilRefs: p.StencilRefs})
}

// BindDescriptorSet binds the argument buffers of ds to
// the stages that use them and makes its resources
// resident.
func (e *Encoder) BindDescriptorSet(ds driver.DescriptorSet) {
	hl := ds.Layout()
	args, err := PlanArgumentBuffers(ds.Descriptors(), &hl)
	if err != nil {
		driver.Logger().Warn("mtl descriptor set not bound", "err", err)
		return
	}
	e.set = ds
	e.args = args
	if e.open {
		e.emitArguments()
	}
}

func (e *Encoder) emitArguments() {
	for i := range e.args {
		ab := &e.args[i]
		if ab.Stages&RenderStageVertex != 0 {
			e.add(Command{Op: OpSetVertexBuffer, Argument: ab, Index: ab.BufferIndex})
		}
		if ab.Stages&RenderStageFragment != 0 {
			e.add(Command{Op: OpSetFragmentBuffer, Argument: ab, Index: ab.BufferIndex})
		}
	}
	for _, d := range e.set.Descriptors() {
		stages := ConvStages(d.Stages)
		for _, b := range d.Buffers {
			if b != nil {
				e.add(Command{Op: OpUseResource, Buffer: b, Usage: ResourceUsageRead, Stages: stages})
			}
		}
		for _, t := range d.Textures {
			if t != nil {
				e.add(Command{Op: OpUseResource, Texture: t, Usage: ResourceUsageRead, Stages: stages})
			}
		}
	}
}

// BindVertexBuffers binds vertex buffers.
// Binding b is set at buffer index VertexBufferIndex(b).
func (e *Encoder) BindVertexBuffers(start int, buf []driver.Buffer, off []int64) {
	for i, b := range buf {
		idx := VertexBufferIndex(start + i)
		if idx < 0 {
			driver.Logger().Warn("mtl vertex binding out of range", "binding", start+i)
			continue
		}
		e.vbufs[idx] = vertexBinding{b, off[i]}
		if e.open {
			e.add(Command{Op: OpSetVertexBuffer, Buffer: b, Offset: off[i], Index: uint(idx)})
		}
	}
}

// BindIndexBuffer binds an index buffer.
// Metal takes the index buffer in indexed draws, so
// nothing is recorded here.
func (e *Encoder) BindIndexBuffer(buf driver.Buffer, off int64) {
	e.ibuf = buf
	e.ioff = off
}

// ClearColor clears the color target at index.
func (e *Encoder) ClearColor(index int, color [4]float32) {
	if !e.inPass || index < 0 || index >= len(e.next.ColorAttachments) {
		driver.Logger().Warn("mtl color clear ignored", "index", index)
		return
	}
	e.restartIfOpen()
	a := &e.next.ColorAttachments[index]
	a.LoadAction = LoadActionClear
	for i, c := range color {
		a.ClearColor[i] = float64(c)
	}
}

// ClearDepthStencil clears the depth/stencil attachment.
// Only the aspects of its format are cleared.
func (e *Encoder) ClearDepthStencil(depth float32, stencil uint32) {
	if !e.inPass || (e.next.DepthAttachment == nil && e.next.StencilAttachment == nil) {
		driver.Logger().Warn("mtl depth/stencil clear ignored")
		return
	}
	e.restartIfOpen()
	if a := e.next.DepthAttachment; a != nil {
		a.LoadAction = LoadActionClear
		a.ClearDepth = float64(depth)
	}
	if a := e.next.StencilAttachment; a != nil {
		a.LoadAction = LoadActionClear
		a.ClearStencil = stencil
	}
}

// restartIfOpen ends the current encoder, if any, so
// that the next one can load with a clear.
func (e *Encoder) restartIfOpen() {
	if e.open {
		e.add(Command{Op: OpEndEncoding})
		e.open = false
	}
	e.pending = true
}

// Draw draws a single instance.
func (e *Encoder) Draw(vertCount, vertStart int) {
	if !e.ensureEncoder() {
		return
	}
	e.add(Command{Op: OpDrawPrimitives, Primitive: e.primitive(), Start: uint(vertStart), Count: uint(vertCount)})
}

// DrawIndexed draws a single indexed instance.
// The first index is given to Metal as a byte offset
// into the index buffer.
func (e *Encoder) DrawIndexed(idxCount, idxStart int) {
	if e.ibuf == nil {
		driver.Logger().Warn("mtl indexed draw without index buffer")
		return
	}
	if !e.ensureEncoder() {
		return
	}
	typ, size := IndexTypeUInt16, int64(2)
	if e.ibuf.Stride() == 4 {
		typ, size = IndexTypeUInt32, 4
	}
	e.add(Command{
		Op:        OpDrawIndexedPrimitives,
		Primitive: e.primitive(),
		Count:     uint(idxCount),
		IndexType: typ,
		Buffer:    e.ibuf,
		Offset:    e.ioff + int64(idxStart)*size,
	})
}

func (e *Encoder) primitive() PrimitiveType {
	if e.pl == nil {
		return PrimitiveTypeTriangle
	}
	return e.pl.PrimitiveType
}

// Transition does nothing. Metal tracks hazards of
// tracked resources itself.
func (e *Encoder) Transition(driver.Texture, driver.TextureUsage, driver.TextureUsage) {}

// Resolve resolves src into dst with a pass that only
// stores.
func (e *Encoder) Resolve(src, dst driver.Texture) {
	if e.open {
		e.add(Command{Op: OpEndEncoding})
		e.open = false
	}
	e.add(Command{Op: OpRenderCommandEncoder, Pass: PlanResolvePass(src, dst)})
	e.add(Command{Op: OpEndEncoding})
}

// Destroy discards the encoder.
func (e *Encoder) Destroy() {
	if e == nil {
		return
	}
	*e = Encoder{}
}

var (
	_ driver.CmdBuffer      = (*Encoder)(nil)
	_ driver.RenderPipeline = (*Pipeline)(nil)
)
