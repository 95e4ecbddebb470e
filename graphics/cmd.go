// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package graphics

import (
	"errors"
	"fmt"

	"gviegas/gp3d/driver"
)

// ErrNotRecording means that a command was recorded
// into a CommandBuffer that was not in the Recording
// state.
var ErrNotRecording = errors.New("graphics: command buffer not recording")

// State is the type of command buffer states.
type State int

// Command buffer states.
const (
	Unrecorded State = iota
	Recording
	Executable
	Submitted
)

var stateNames = [...]string{"Unrecorded", "Recording", "Executable", "Submitted"}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "State(?)"
	}
	return stateNames[s]
}

// CommandBuffer records commands for a Frame.
// Commands are not executed until the command buffer is
// submitted.
// Recording methods do not return errors. The first
// failure is kept and reported by Graphics.EndCommands.
type CommandBuffer struct {
	g     *Graphics
	cb    driver.CmdBuffer
	frame *Frame
	state State
	err   error
	// Current render pass.
	pass driver.RenderPass
	// Texture states set by recorded commands. They are
	// committed to the Graphics on submission.
	states map[driver.Texture]driver.TextureUsage
}

// State returns the state of cb.
func (cb *CommandBuffer) State() State { return cb.state }

// Frame returns the frame for which cb records.
func (cb *CommandBuffer) Frame() *Frame { return cb.frame }

// reset discards the recorded commands.
func (cb *CommandBuffer) reset() {
	if cb.cb != nil {
		if err := cb.cb.Reset(); err != nil {
			logger().Warn("command buffer reset failed", "err", err)
		}
	}
	cb.state = Unrecorded
	cb.err = nil
	cb.pass = nil
	clear(cb.states)
}

// stateOf returns the state of t after the commands
// recorded so far.
func (cb *CommandBuffer) stateOf(t driver.Texture) driver.TextureUsage {
	if s, ok := cb.states[t]; ok {
		return s
	}
	return cb.g.state(t)
}

// setState sets the state of t after the commands
// recorded so far.
func (cb *CommandBuffer) setState(t driver.Texture, s driver.TextureUsage) {
	if cb.states == nil {
		cb.states = make(map[driver.Texture]driver.TextureUsage)
	}
	cb.states[t] = s
}

// commit makes the recorded texture states current.
func (cb *CommandBuffer) commit() {
	for t, s := range cb.states {
		cb.g.states[t] = s
	}
	clear(cb.states)
}

// recording returns whether commands can be recorded.
// If not, the failure is kept.
func (cb *CommandBuffer) recording(cmd string) bool {
	if cb.state == Recording {
		return cb.err == nil
	}
	if cb.err == nil {
		cb.err = fmt.Errorf("%w: %s", ErrNotRecording, cmd)
	}
	return false
}

// fail keeps the first failure.
func (cb *CommandBuffer) fail(format string, a ...any) {
	if cb.err == nil {
		cb.err = fmt.Errorf("graphics: "+format, a...)
	}
}

// transition records a state transition of t, if it is
// not in the to state already.
func (cb *CommandBuffer) transition(t driver.Texture, to driver.TextureUsage) {
	from := cb.stateOf(t)
	if from == to {
		return
	}
	cb.cb.Transition(t, from, to)
	cb.setState(t, to)
}

// BeginRenderPass begins a render pass.
// Color attachments are transitioned to the
// UColorAttachment state and the depth/stencil
// attachment to UDepthStencilAttachment.
func (cb *CommandBuffer) BeginRenderPass(pass driver.RenderPass) {
	if !cb.recording("BeginRenderPass") {
		return
	}
	if cb.pass != nil {
		cb.fail("BeginRenderPass: render pass already begun")
		return
	}
	desc := pass.Desc()
	for _, t := range desc.Targets() {
		cb.transition(t, driver.UColorAttachment)
	}
	if desc.DepthStencilAttachment != nil {
		cb.transition(desc.DepthStencilAttachment, driver.UDepthStencilAttachment)
	}
	cb.cb.BeginRenderPass(pass)
	cb.pass = pass
}

// EndRenderPass ends the current render pass.
// Multisample attachments are resolved into the color
// attachments that can be resolved to. Afterwards,
// color attachments that can be presented are in the
// UPresent state and the others are in the
// UColorAttachment state.
func (cb *CommandBuffer) EndRenderPass() {
	if !cb.recording("EndRenderPass") {
		return
	}
	if cb.pass == nil {
		cb.fail("EndRenderPass: no render pass")
		return
	}
	cb.cb.EndRenderPass()
	desc := cb.pass.Desc()
	cb.pass = nil
	for i, t := range desc.ColorAttachments {
		usage := t.Desc().Usage
		if desc.Multisampled() {
			ms := desc.ColorMultisampleAttachments[i]
			if usage&driver.UResolveDst == 0 || ms.Desc().Usage&driver.UResolveSrc == 0 {
				logger().Debug("multisample attachment not resolved", "index", i)
				continue
			}
			cb.transition(ms, driver.UResolveSrc)
			cb.transition(t, driver.UResolveDst)
			cb.cb.Resolve(ms, t)
			cb.transition(ms, driver.UColorAttachment)
		}
		if usage&driver.UPresent != 0 {
			cb.transition(t, driver.UPresent)
		} else {
			cb.transition(t, driver.UColorAttachment)
		}
	}
}

// SetViewport sets the viewport.
func (cb *CommandBuffer) SetViewport(x, y, width, height, depthMin, depthMax float32) {
	if !cb.recording("SetViewport") {
		return
	}
	cb.cb.SetViewport(driver.Viewport{
		X:      x,
		Y:      y,
		Width:  width,
		Height: height,
		Znear:  depthMin,
		Zfar:   depthMax,
	})
}

// SetScissor sets the scissor rectangle.
func (cb *CommandBuffer) SetScissor(x, y, width, height int) {
	if !cb.recording("SetScissor") {
		return
	}
	cb.cb.SetScissor(driver.Scissor{X: x, Y: y, Width: width, Height: height})
}

// BindRenderPipeline binds a render pipeline.
func (cb *CommandBuffer) BindRenderPipeline(pl driver.RenderPipeline) {
	if !cb.recording("BindRenderPipeline") {
		return
	}
	cb.cb.BindRenderPipeline(pl)
}

// BindDescriptorSet binds a descriptor set.
func (cb *CommandBuffer) BindDescriptorSet(ds driver.DescriptorSet) {
	if !cb.recording("BindDescriptorSet") {
		return
	}
	cb.cb.BindDescriptorSet(ds)
}

// BindVertexBuffer binds buf to the first vertex
// buffer binding.
func (cb *CommandBuffer) BindVertexBuffer(buf driver.Buffer) {
	cb.BindVertexBuffers(0, []driver.Buffer{buf}, []int64{0})
}

// BindVertexBuffers binds vertex buffers starting at
// the given binding.
// off holds the byte offset into each buffer.
func (cb *CommandBuffer) BindVertexBuffers(start int, buf []driver.Buffer, off []int64) {
	if !cb.recording("BindVertexBuffers") {
		return
	}
	if len(buf) != len(off) {
		cb.fail("BindVertexBuffers: %d buffers and %d offsets", len(buf), len(off))
		return
	}
	cb.cb.BindVertexBuffers(start, buf, off)
}

// BindIndexBuffer binds an index buffer.
// The index type is given by the buffer stride.
func (cb *CommandBuffer) BindIndexBuffer(buf driver.Buffer) {
	if !cb.recording("BindIndexBuffer") {
		return
	}
	cb.cb.BindIndexBuffer(buf, 0)
}

// ClearColor clears a color attachment of the current
// render pass.
func (cb *CommandBuffer) ClearColor(r, g, b, a float32, attachment int) {
	if !cb.recording("ClearColor") {
		return
	}
	if cb.pass == nil {
		cb.fail("ClearColor: no render pass")
		return
	}
	desc := cb.pass.Desc()
	if n := desc.ColorAttachmentCount(); attachment < 0 || attachment >= n {
		cb.fail("ClearColor: attachment %d out of range [0, %d)", attachment, n)
		return
	}
	cb.cb.ClearColor(attachment, [4]float32{r, g, b, a})
}

// ClearDepthStencil clears the depth/stencil attachment
// of the current render pass.
func (cb *CommandBuffer) ClearDepthStencil(depth float32, stencil uint32) {
	if !cb.recording("ClearDepthStencil") {
		return
	}
	if cb.pass == nil {
		cb.fail("ClearDepthStencil: no render pass")
		return
	}
	cb.cb.ClearDepthStencil(depth, stencil)
}

// Draw draws primitives.
func (cb *CommandBuffer) Draw(vertexCount, vertexStart int) {
	if !cb.recording("Draw") {
		return
	}
	cb.cb.Draw(vertexCount, vertexStart)
}

// DrawIndexed draws indexed primitives.
func (cb *CommandBuffer) DrawIndexed(indexCount, indexStart int) {
	if !cb.recording("DrawIndexed") {
		return
	}
	cb.cb.DrawIndexed(indexCount, indexStart)
}

// TransitionImage transitions tex from the usageOld
// state to the usageNew state.
// UUndefined as usageOld means that the contents of tex
// can be discarded.
func (cb *CommandBuffer) TransitionImage(tex driver.Texture, usageOld, usageNew driver.TextureUsage) {
	if !cb.recording("TransitionImage") {
		return
	}
	if cb.pass != nil {
		cb.fail("TransitionImage: inside render pass")
		return
	}
	if s := cb.stateOf(tex); usageOld != driver.UUndefined && s != usageOld {
		logger().Debug("texture transitioned from unexpected state", "have", s, "want", usageOld)
	}
	cb.cb.Transition(tex, usageOld, usageNew)
	cb.setState(tex, usageNew)
}
