// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package d3d12

import (
	"errors"

	"gviegas/gp3d/driver"
)

// Op identifies an ID3D12GraphicsCommandList method.
type Op int

// Command list operations.
const (
	OpResourceBarrier Op = iota
	OpOMSetRenderTargets
	OpSetPipelineState
	OpSetGraphicsRootSignature
	OpIASetPrimitiveTopology
	OpOMSetBlendFactor
	OpOMSetStencilRef
	OpOMSetDepthBounds
	OpSetDescriptorHeaps
	OpSetGraphicsRootDescriptorTable
	OpRSSetViewports
	OpRSSetScissorRects
	OpIASetVertexBuffers
	OpIASetIndexBuffer
	OpClearRenderTargetView
	OpClearDepthStencilView
	OpDrawInstanced
	OpDrawIndexedInstanced
	OpResolveSubresource
	OpClose
)

var opNames = [...]string{
	OpResourceBarrier:                "ResourceBarrier",
	OpOMSetRenderTargets:             "OMSetRenderTargets",
	OpSetPipelineState:               "SetPipelineState",
	OpSetGraphicsRootSignature:       "SetGraphicsRootSignature",
	OpIASetPrimitiveTopology:         "IASetPrimitiveTopology",
	OpOMSetBlendFactor:               "OMSetBlendFactor",
	OpOMSetStencilRef:                "OMSetStencilRef",
	OpOMSetDepthBounds:               "OMSetDepthBounds",
	OpSetDescriptorHeaps:             "SetDescriptorHeaps",
	OpSetGraphicsRootDescriptorTable: "SetGraphicsRootDescriptorTable",
	OpRSSetViewports:                 "RSSetViewports",
	OpRSSetScissorRects:              "RSSetScissorRects",
	OpIASetVertexBuffers:             "IASetVertexBuffers",
	OpIASetIndexBuffer:               "IASetIndexBuffer",
	OpClearRenderTargetView:          "ClearRenderTargetView",
	OpClearDepthStencilView:          "ClearDepthStencilView",
	OpDrawInstanced:                  "DrawInstanced",
	OpDrawIndexedInstanced:           "DrawIndexedInstanced",
	OpResolveSubresource:             "ResolveSubresource",
	OpClose:                          "Close",
}

func (op Op) String() string {
	if op < 0 || int(op) >= len(opNames) {
		return "Op(?)"
	}
	return opNames[op]
}

// Viewport mirrors D3D12_VIEWPORT.
type Viewport struct {
	TopLeftX, TopLeftY, Width, Height, MinDepth, MaxDepth float32
}

// Rect mirrors D3D12_RECT.
type Rect struct {
	Left, Top, Right, Bottom int32
}

// VertexBufferView mirrors D3D12_VERTEX_BUFFER_VIEW.
type VertexBufferView struct {
	Buffer        driver.Buffer
	Offset        int64
	SizeInBytes   uint32
	StrideInBytes uint32
}

// IndexBufferView mirrors D3D12_INDEX_BUFFER_VIEW.
type IndexBufferView struct {
	Buffer      driver.Buffer
	Offset      int64
	SizeInBytes uint32
	Format      Format
}

// Command is a recorded command list call.
// Only the fields that the call takes are set.
type Command struct {
	Op Op

	Barriers    []Barrier
	Targets     RenderTargets
	Pipeline    *Pipeline
	Topology    PrimitiveTopology
	Factor      [4]float32
	StencilRef  uint32
	DepthBounds [2]float32
	Heaps       []DescriptorHeapType
	Table       TableBind
	Viewport    Viewport
	Rect        Rect
	StartSlot   uint32
	Vertex      []VertexBufferView
	Index       IndexBufferView
	Attachment  int
	Color       [4]float32
	Depth       float32
	Stencil     uint8
	ClearFlags  uint32
	Count       uint32
	Start       uint32
	Src, Dst    driver.Texture
	ResolveFmt  Format
}

// Clear flags of ClearDepthStencilView.
const (
	ClearFlagDepth   = 0x1
	ClearFlagStencil = 0x2
)

var errNotRecording = errors.New("d3d12: command list is not recording")

// List records driver commands as D3D12 command list
// calls. It implements driver.CmdBuffer.
type List struct {
	cmds      []Command
	recording bool
	pass      driver.RenderPass
	pl        *Pipeline
}

// NewList creates a new command list.
func NewList() *List { return &List{} }

// Commands returns the recorded calls.
// The returned slice must not be modified.
func (l *List) Commands() []Command { return l.cmds }

func (l *List) add(c Command) { l.cmds = append(l.cmds, c) }

// Begin starts recording, discarding previous commands.
func (l *List) Begin() error {
	l.cmds = l.cmds[:0]
	l.recording = true
	l.pass = nil
	l.pl = nil
	return nil
}

// End closes the command list.
func (l *List) End() error {
	if !l.recording {
		return errNotRecording
	}
	l.add(Command{Op: OpClose})
	l.recording = false
	return nil
}

// Reset discards all recorded commands.
func (l *List) Reset() error {
	l.cmds = l.cmds[:0]
	l.recording = false
	l.pass = nil
	l.pl = nil
	return nil
}

// BeginRenderPass sets the render targets of pass.
// The attachments must be in their attachment states.
func (l *List) BeginRenderPass(pass driver.RenderPass) {
	desc := pass.Desc()
	rts, err := PlanRenderTargets(&desc)
	if err != nil {
		driver.Logger().Warn("d3d12 render pass not planned", "err", err)
		return
	}
	l.pass = pass
	l.add(Command{Op: OpOMSetRenderTargets, Targets: rts})
}

// EndRenderPass ends the current render pass.
// D3D12 has no render pass scope; the render targets
// stay set until others are.
func (l *List) EndRenderPass() { l.pass = nil }

// SetViewport sets the viewport.
func (l *List) SetViewport(vp driver.Viewport) {
	l.add(Command{Op: OpRSSetViewports, Viewport: Viewport{
		TopLeftX: vp.X,
		TopLeftY: vp.Y,
		Width:    vp.Width,
		Height:   vp.Height,
		MinDepth: vp.Znear,
		MaxDepth: vp.Zfar,
	}})
}

// SetScissor sets the scissor rectangle.
func (l *List) SetScissor(sciss driver.Scissor) {
	l.add(Command{Op: OpRSSetScissorRects, Rect: Rect{
		Left:   int32(sciss.X),
		Top:    int32(sciss.Y),
		Right:  int32(sciss.X + sciss.Width),
		Bottom: int32(sciss.Y + sciss.Height),
	}})
}

// BindRenderPipeline binds pl, which must be a *Pipeline.
// The pipeline state, the root signature and the
// primitive topology are set in this order, followed by
// the dynamic state of the pipeline.
func (l *List) BindRenderPipeline(pl driver.RenderPipeline) {
	p := pl.(*Pipeline)
	l.pl = p
	l.add(Command{Op: OpSetPipelineState, Pipeline: p})
	l.add(Command{Op: OpSetGraphicsRootSignature, Pipeline: p})
	l.add(Command{Op: OpIASetPrimitiveTopology, Topology: p.PrimitiveTopology})
	l.add(Command{Op: OpOMSetBlendFactor, Factor: p.BlendFactor})
	l.add(Command{Op: OpOMSetStencilRef, StencilRef: p.StencilRef})
	if p.Desc.DepthStencil.DepthBoundsTestEnable {
		l.add(Command{Op: OpOMSetDepthBounds, DepthBounds: p.DepthBounds})
	}
}

// BindDescriptorSet sets the descriptor heaps of ds and
// binds one descriptor table per root parameter.
func (l *List) BindDescriptorSet(ds driver.DescriptorSet) {
	hl := ds.Layout()
	var heaps []DescriptorHeapType
	for c, n := range hl.Size {
		if n > 0 {
			heaps = append(heaps, ConvHeapType(driver.HeapClass(c)))
		}
	}
	if len(heaps) == 0 {
		return
	}
	l.add(Command{Op: OpSetDescriptorHeaps, Heaps: heaps})
	for _, b := range PlanTableBinds(&hl) {
		l.add(Command{Op: OpSetGraphicsRootDescriptorTable, Table: b})
	}
}

// BindVertexBuffers binds vertex buffers.
// Strides come from the bound pipeline's input layout,
// or from the buffers if no pipeline uses the slot.
func (l *List) BindVertexBuffers(start int, buf []driver.Buffer, off []int64) {
	views := make([]VertexBufferView, len(buf))
	for i, b := range buf {
		stride := uint32(b.Stride())
		if l.pl != nil {
			if s, ok := l.pl.Strides[start+i]; ok {
				stride = s
			}
		}
		views[i] = VertexBufferView{
			Buffer:        b,
			Offset:        off[i],
			SizeInBytes:   uint32(b.Size() - off[i]),
			StrideInBytes: stride,
		}
	}
	l.add(Command{Op: OpIASetVertexBuffers, StartSlot: uint32(start), Vertex: views})
}

// BindIndexBuffer binds an index buffer.
func (l *List) BindIndexBuffer(buf driver.Buffer, off int64) {
	f := FormatR16Uint
	if buf.Stride() == 4 {
		f = FormatR32Uint
	}
	l.add(Command{Op: OpIASetIndexBuffer, Index: IndexBufferView{
		Buffer:      buf,
		Offset:      off,
		SizeInBytes: uint32(buf.Size() - off),
		Format:      f,
	}})
}

// ClearColor clears the render target view at index.
func (l *List) ClearColor(index int, color [4]float32) {
	l.add(Command{Op: OpClearRenderTargetView, Attachment: index, Color: color})
}

// ClearDepthStencil clears the depth/stencil view of the
// current render pass. Only the aspects of its format
// are cleared.
func (l *List) ClearDepthStencil(depth float32, stencil uint32) {
	var flags uint32 = ClearFlagDepth | ClearFlagStencil
	if l.pass != nil {
		f := l.pass.Desc().DepthStencilFormat
		flags = 0
		if f.HasDepth() {
			flags |= ClearFlagDepth
		}
		if f.HasStencil() {
			flags |= ClearFlagStencil
		}
	}
	l.add(Command{Op: OpClearDepthStencilView, Depth: depth, Stencil: uint8(stencil), ClearFlags: flags})
}

// Draw draws a single instance.
func (l *List) Draw(vertCount, vertStart int) {
	l.add(Command{Op: OpDrawInstanced, Count: uint32(vertCount), Start: uint32(vertStart)})
}

// DrawIndexed draws a single indexed instance.
func (l *List) DrawIndexed(idxCount, idxStart int) {
	l.add(Command{Op: OpDrawIndexedInstanced, Count: uint32(idxCount), Start: uint32(idxStart)})
}

// Transition records a resource barrier, unless both
// states are the same resource state.
func (l *List) Transition(tex driver.Texture, from, to driver.TextureUsage) {
	if b, ok := PlanTransition(tex, from, to); ok {
		l.add(Command{Op: OpResourceBarrier, Barriers: []Barrier{b}})
	}
}

// Resolve resolves src into dst.
func (l *List) Resolve(src, dst driver.Texture) {
	l.add(Command{Op: OpResolveSubresource, Src: src, Dst: dst, ResolveFmt: ConvFormat(dst.Desc().Format)})
}

// Destroy discards the list.
func (l *List) Destroy() {
	if l == nil {
		return
	}
	*l = List{}
}

var (
	_ driver.CmdBuffer      = (*List)(nil)
	_ driver.RenderPipeline = (*Pipeline)(nil)
)
