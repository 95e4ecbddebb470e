// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package soft

import (
	"encoding/binary"
	"errors"
	"sync/atomic"

	"gviegas/gp3d/driver"
)

// Command buffer status.
const (
	cbInitial int32 = iota
	cbRecording
	cbExecutable
	cbPending
)

// cmdBuffer implements driver.CmdBuffer.
// Commands are recorded as closures and executed in
// order on the driver's queue goroutine.
type cmdBuffer struct {
	d      *Driver
	status atomic.Int32
	ops    []func(*execState)
	inPass bool
}

// execState is the state of a command buffer during
// execution.
type execState struct {
	d     *Driver
	pass  *renderPass
	pl    *pipeline
	ds    *descSet
	vbuf  [maxVertexBuffer]vertexBuffer
	ibuf  *buffer
	ioff  int64
	vp    driver.Viewport
	sciss driver.Scissor
}

type vertexBuffer struct {
	buf *buffer
	off int64
}

// NewCmdBuffer creates a new command buffer.
func (d *Driver) NewCmdBuffer() (driver.CmdBuffer, error) {
	d.live.Add(1)
	return &cmdBuffer{d: d}, nil
}

// Begin prepares the command buffer for recording.
func (cb *cmdBuffer) Begin() error {
	if cb.status.Load() == cbPending {
		return errors.New("soft: command buffer pending execution")
	}
	cb.ops = cb.ops[:0]
	cb.inPass = false
	cb.status.Store(cbRecording)
	return nil
}

// End ends command recording.
func (cb *cmdBuffer) End() error {
	if cb.status.Load() != cbRecording {
		return errors.New("soft: command buffer not recording")
	}
	if cb.inPass {
		return errors.New("soft: render pass not ended")
	}
	cb.status.Store(cbExecutable)
	return nil
}

// Reset discards all recorded commands.
func (cb *cmdBuffer) Reset() error {
	if cb.status.Load() == cbPending {
		return errors.New("soft: command buffer pending execution")
	}
	cb.ops = cb.ops[:0]
	cb.inPass = false
	cb.status.Store(cbInitial)
	return nil
}

// record appends op to the command buffer.
func (cb *cmdBuffer) record(name string, op func(*execState)) {
	if cb.status.Load() != cbRecording {
		cb.d.warn("command recorded outside recording", "cmd", name)
		return
	}
	cb.ops = append(cb.ops, op)
}

// BeginRenderPass begins a render pass.
func (cb *cmdBuffer) BeginRenderPass(pass driver.RenderPass) {
	p := pass.(*renderPass)
	cb.inPass = true
	cb.record("BeginRenderPass", func(es *execState) {
		if es.pass != nil {
			es.d.warn("render pass already begun")
		}
		if p.d == nil {
			es.d.warn("render pass was destroyed")
			return
		}
		for i, t := range p.color {
			if t.state != driver.UColorAttachment {
				es.d.warn("color attachment not in UColorAttachment state", "index", i, "state", t.state)
			}
		}
		if p.ds != nil && p.ds.state != driver.UDepthStencilAttachment {
			es.d.warn("depth/stencil attachment not in UDepthStencilAttachment state", "state", p.ds.state)
		}
		es.pass = p
		es.vp = driver.Viewport{Width: float32(p.desc.Width), Height: float32(p.desc.Height), Zfar: 1}
		es.sciss = driver.Scissor{Width: p.desc.Width, Height: p.desc.Height}
		if es.pl != nil && es.pl.pass != p.key() {
			es.d.warn("bound pipeline incompatible with render pass")
		}
	})
}

// EndRenderPass ends the current render pass.
func (cb *cmdBuffer) EndRenderPass() {
	cb.inPass = false
	cb.record("EndRenderPass", func(es *execState) {
		if es.pass == nil {
			es.d.warn("no render pass to end")
		}
		es.pass = nil
	})
}

// SetViewport sets the viewport.
func (cb *cmdBuffer) SetViewport(vp driver.Viewport) {
	cb.record("SetViewport", func(es *execState) {
		if vp.Znear != saturate(vp.Znear) || vp.Zfar != saturate(vp.Zfar) {
			es.d.warn("viewport depth range outside [0, 1]", "znear", vp.Znear, "zfar", vp.Zfar)
		}
		es.vp = vp
	})
}

// SetScissor sets the scissor rectangle.
func (cb *cmdBuffer) SetScissor(sciss driver.Scissor) {
	cb.record("SetScissor", func(es *execState) {
		if sciss.X < 0 || sciss.Y < 0 || sciss.Width < 0 || sciss.Height < 0 {
			es.d.warn("negative scissor rectangle", "scissor", sciss)
		}
		es.sciss = sciss
	})
}

// BindRenderPipeline binds a render pipeline.
func (cb *cmdBuffer) BindRenderPipeline(pl driver.RenderPipeline) {
	p := pl.(*pipeline)
	cb.record("BindRenderPipeline", func(es *execState) {
		if es.pass != nil && p.pass != es.pass.key() {
			es.d.warn("pipeline incompatible with render pass")
		}
		es.pl = p
	})
}

// BindDescriptorSet binds a descriptor set.
func (cb *cmdBuffer) BindDescriptorSet(ds driver.DescriptorSet) {
	s := ds.(*descSet)
	cb.record("BindDescriptorSet", func(es *execState) {
		if s.d == nil {
			es.d.warn("descriptor set was destroyed")
			return
		}
		es.ds = s
	})
}

// BindVertexBuffers binds vertex buffers.
func (cb *cmdBuffer) BindVertexBuffers(start int, buf []driver.Buffer, off []int64) {
	vb := make([]vertexBuffer, len(buf))
	for i := range buf {
		vb[i].buf = buf[i].(*buffer)
		if i < len(off) {
			vb[i].off = off[i]
		}
	}
	cb.record("BindVertexBuffers", func(es *execState) {
		for i, b := range vb {
			if start+i >= maxVertexBuffer {
				es.d.warn("vertex buffer binding out of range", "binding", start+i)
				return
			}
			if b.buf.usage != driver.UVertexBuffer {
				es.d.warn("buffer bound as vertex buffer lacks UVertexBuffer usage", "binding", start+i)
			}
			es.vbuf[start+i] = b
		}
	})
}

// BindIndexBuffer binds an index buffer.
func (cb *cmdBuffer) BindIndexBuffer(buf driver.Buffer, off int64) {
	b := buf.(*buffer)
	cb.record("BindIndexBuffer", func(es *execState) {
		if b.usage != driver.UIndexBuffer {
			es.d.warn("buffer bound as index buffer lacks UIndexBuffer usage")
		}
		es.ibuf = b
		es.ioff = off
	})
}

// ClearColor clears a color attachment.
func (cb *cmdBuffer) ClearColor(index int, color [4]float32) {
	cb.record("ClearColor", func(es *execState) {
		if es.pass == nil {
			es.d.warn("clear outside render pass")
			return
		}
		if index < 0 || index >= len(es.pass.color) {
			es.d.warn("color attachment index out of range", "index", index)
			return
		}
		t := es.pass.color[index]
		fill(t.sub[0], packColor(t.desc.Format, color))
		es.d.count(func(s *Stats) { s.Clears++ })
	})
}

// ClearDepthStencil clears the depth/stencil attachment.
func (cb *cmdBuffer) ClearDepthStencil(depth float32, stencil uint32) {
	cb.record("ClearDepthStencil", func(es *execState) {
		if es.pass == nil || es.pass.ds == nil {
			es.d.warn("no depth/stencil attachment to clear")
			return
		}
		t := es.pass.ds
		fill(t.sub[0], packDepthStencil(t.desc.Format, depth, stencil))
		es.d.count(func(s *Stats) { s.Clears++ })
	})
}

// Draw draws primitives.
func (cb *cmdBuffer) Draw(vertCount, vertStart int) {
	cb.record("Draw", func(es *execState) {
		if !es.validateDraw() {
			return
		}
		if vertCount > 0 {
			es.validateVertices(vertStart + vertCount)
		}
		es.d.count(func(s *Stats) {
			s.Draws++
			s.Vertices += int64(vertCount)
		})
	})
}

// DrawIndexed draws indexed primitives.
func (cb *cmdBuffer) DrawIndexed(idxCount, idxStart int) {
	cb.record("DrawIndexed", func(es *execState) {
		if !es.validateDraw() {
			return
		}
		if es.ibuf == nil || es.ibuf.d == nil {
			es.d.warn("no index buffer bound")
			return
		}
		stride := es.ibuf.stride
		start := es.ioff + int64(idxStart*stride)
		end := start + int64(idxCount*stride)
		if end > int64(len(es.ibuf.p)) {
			es.d.warn("index buffer overrun", "end", end, "size", len(es.ibuf.p))
			return
		}
		if idxCount > 0 {
			var maxIdx uint32
			for p := es.ibuf.p[start:end]; len(p) > 0; p = p[stride:] {
				var idx uint32
				if stride == 2 {
					idx = uint32(binary.LittleEndian.Uint16(p))
				} else {
					idx = binary.LittleEndian.Uint32(p)
				}
				maxIdx = max(maxIdx, idx)
			}
			es.validateVertices(int(maxIdx) + 1)
		}
		es.d.count(func(s *Stats) {
			s.Draws++
			s.Vertices += int64(idxCount)
		})
	})
}

// validateDraw checks that the state bound for a draw
// is consistent. It returns false if the draw must be
// skipped.
func (es *execState) validateDraw() bool {
	switch {
	case es.pass == nil:
		es.d.warn("draw outside render pass")
		return false
	case es.pl == nil || es.pl.d == nil:
		es.d.warn("draw with no pipeline bound")
		return false
	case es.pl.pass != es.pass.key():
		es.d.warn("pipeline incompatible with render pass")
	}
	if len(es.pl.descs) > 0 {
		if es.ds == nil || !compatible(es.pl.descs, es.ds.ds) {
			es.d.warn("descriptor set does not match pipeline")
			return true
		}
		for _, dsc := range es.ds.ds {
			for i, t := range dsc.Textures {
				if t == nil {
					continue
				}
				if t := t.(*texture); t.state != driver.USampled && t.state != driver.UStorage {
					es.d.warn("texture not in USampled state", "binding", dsc.Binding, "index", i, "state", t.state)
				}
			}
		}
	}
	return true
}

// validateVertices checks that the bound vertex buffers
// hold at least n vertices for the bound pipeline.
func (es *execState) validateVertices(n int) {
	for i, b := range es.pl.bindings {
		vb := es.vbuf[b]
		if vb.buf == nil || vb.buf.d == nil {
			es.d.warn("vertex buffer not bound", "binding", b)
			continue
		}
		stride := int64(vb.buf.stride)
		if stride == 0 {
			stride = int64(es.pl.strides[i])
		}
		need := vb.off + int64(n-1)*stride + int64(es.pl.strides[i])
		if need > int64(len(vb.buf.p)) {
			es.d.warn("vertex buffer overrun", "binding", b, "need", need, "size", len(vb.buf.p))
		}
	}
}

// Transition moves a texture between states.
func (cb *cmdBuffer) Transition(tex driver.Texture, from, to driver.TextureUsage) {
	t := tex.(*texture)
	cb.record("Transition", func(es *execState) {
		if es.pass != nil {
			es.d.warn("transition during render pass")
		}
		if t.d == nil {
			es.d.warn("transition of destroyed texture")
			return
		}
		if from != driver.UUndefined && t.state != from {
			es.d.warn("texture state mismatch", "have", t.state, "want", from)
		}
		if to.Index() == -1 || t.desc.Usage&to == 0 {
			es.d.warn("transition to state not in texture usage", "state", to, "usage", t.desc.Usage)
		}
		t.state = to
		es.d.count(func(s *Stats) { s.Transitions++ })
	})
}

// Resolve resolves a multisample texture.
func (cb *cmdBuffer) Resolve(src, dst driver.Texture) {
	s := src.(*texture)
	d := dst.(*texture)
	cb.record("Resolve", func(es *execState) {
		if es.pass != nil {
			es.d.warn("resolve during render pass")
		}
		if s.d == nil || d.d == nil {
			es.d.warn("resolve of destroyed texture")
			return
		}
		sd, dd := &s.desc, &d.desc
		if sd.SampleCount < 2 || dd.SampleCount != 1 || sd.Format != dd.Format ||
			sd.Width != dd.Width || sd.Height != dd.Height {
			es.d.warn("textures cannot be resolved")
			return
		}
		if s.state != driver.UResolveSrc {
			es.d.warn("resolve source not in UResolveSrc state", "state", s.state)
		}
		if d.state != driver.UResolveDst {
			es.d.warn("resolve destination not in UResolveDst state", "state", d.state)
		}
		resolve(sd.Format, d.sub[0], s.sub[0], sd.SampleCount)
		es.d.count(func(s *Stats) { s.Resolves++ })
	})
}

// Destroy destroys the command buffer.
func (cb *cmdBuffer) Destroy() {
	if cb == nil || cb.d == nil {
		return
	}
	cb.d.live.Add(-1)
	cb.d = nil
	cb.ops = nil
}

// Submit submits a command buffer for execution.
func (d *Driver) Submit(cb driver.CmdBuffer, fnc driver.Fence, value uint64) error {
	c := cb.(*cmdBuffer)
	if c.status.Load() != cbExecutable {
		return driver.ErrNotEnded
	}
	var f *fence
	if fnc != nil {
		f = fnc.(*fence)
		if err := f.arm(value); err != nil {
			return err
		}
	}
	c.status.Store(cbPending)
	ops := c.ops
	d.enqueue(func() {
		es := execState{d: d}
		if d.debug.Load() {
			logger().Debug("executing command buffer", "commands", len(ops), "fence", value)
		}
		for _, op := range ops {
			op(&es)
		}
		if es.pass != nil {
			d.warn("render pass not ended at end of command buffer")
		}
		d.count(func(s *Stats) { s.Submits++ })
		c.status.Store(cbExecutable)
		if f != nil {
			f.signal()
		}
	})
	return nil
}
