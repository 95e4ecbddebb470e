// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package graphics

import (
	"errors"
	"fmt"

	"gviegas/gp3d/driver"
)

// ErrFrame means that a Frame is not valid anymore,
// which happens when the swapchain is recreated.
var ErrFrame = errors.New("graphics: stale frame")

// Frame identifies an acquired swapchain image.
type Frame struct {
	g     *Graphics
	gen   uint64
	index int
}

// Index returns the index of the swapchain image.
func (f *Frame) Index() int { return f.index }

// RenderPass returns the render pass that targets the
// swapchain image, or nil if f is stale or the device
// was closed.
func (f *Frame) RenderPass() driver.RenderPass {
	if f.g.check(f) != nil {
		return nil
	}
	return f.g.passes[f.index]
}

// check fails if f cannot be used with g.
func (g *Graphics) check(f *Frame) error {
	switch {
	case g.gpu == nil:
		return ErrNotInitialized
	case f == nil || f.g != g || f.gen != g.gen:
		return ErrFrame
	}
	return nil
}

// AcquireNextSwapchainImage acquires the next writable
// swapchain image.
// The swapchain is recreated first if needed.
func (g *Graphics) AcquireNextSwapchainImage() (*Frame, error) {
	if g.gpu == nil {
		return nil, ErrNotInitialized
	}
	if g.stale || g.win.Width() != g.width || g.win.Height() != g.height {
		if err := g.recreate(); err != nil {
			return nil, err
		}
	}
	i, err := g.sc.Next()
	if errors.Is(err, driver.ErrSwapchain) {
		logger().Debug("swapchain out of date on acquire", "err", err)
		if err = g.recreate(); err != nil {
			return nil, err
		}
		i, err = g.sc.Next()
	}
	if err != nil {
		return nil, err
	}
	return &Frame{g: g, gen: g.gen, index: i}, nil
}

// BeginCommands begins recording commands for f.
// It waits for the previous commands submitted for the
// same swapchain image to complete.
func (g *Graphics) BeginCommands(f *Frame) (*CommandBuffer, error) {
	if err := g.check(f); err != nil {
		return nil, err
	}
	s := &g.slots[f.index]
	if s.cb.state == Recording {
		return nil, errors.New("graphics: command buffer already recording")
	}
	if err := s.fence.Wait(s.value); err != nil {
		return nil, err
	}
	if err := s.cb.cb.Begin(); err != nil {
		return nil, err
	}
	s.cb.frame = f
	s.cb.state = Recording
	s.cb.err = nil
	s.cb.pass = nil
	clear(s.cb.states)
	return &s.cb, nil
}

// EndCommands ends command recording.
// It fails with ErrNotRecording if any command was
// recorded while cb was not in the Recording state.
func (g *Graphics) EndCommands(cb *CommandBuffer) error {
	if cb.state != Recording {
		return fmt.Errorf("%w: EndCommands", ErrNotRecording)
	}
	if cb.err == nil && cb.pass != nil {
		cb.err = errors.New("graphics: render pass not ended")
	}
	if err := cb.err; err != nil {
		cb.reset()
		return err
	}
	if err := cb.cb.End(); err != nil {
		cb.reset()
		return err
	}
	cb.state = Executable
	return nil
}

// Submit submits cb for execution.
// It does not block.
func (g *Graphics) Submit(cb *CommandBuffer) error {
	if cb.state != Executable {
		return fmt.Errorf("%w: command buffer is %v", driver.ErrNotEnded, cb.state)
	}
	if err := g.check(cb.frame); err != nil {
		return err
	}
	s := &g.slots[cb.frame.index]
	if err := g.gpu.Submit(cb.cb, s.fence, s.value+1); err != nil {
		logger().Error("submission failed", "err", err)
		return err
	}
	s.value++
	cb.commit()
	cb.state = Submitted
	return nil
}

// Present presents the swapchain image of f.
// The commands that render to the image must have been
// submitted. It does not block.
func (g *Graphics) Present(f *Frame) error {
	if err := g.check(f); err != nil {
		return err
	}
	err := g.sc.Present(f.index)
	switch {
	case err == nil:
		g.resized = false
	case errors.Is(err, driver.ErrSwapchain):
		logger().Warn("present on out-of-date swapchain", "err", err)
		g.stale = true
		return nil
	}
	return err
}

// WaitIdle blocks until the commands submitted for the
// swapchain image of f complete.
func (g *Graphics) WaitIdle(f *Frame) error {
	if err := g.check(f); err != nil {
		return err
	}
	s := &g.slots[f.index]
	if err := s.fence.Wait(s.value); err != nil {
		return err
	}
	if s.cb.state == Submitted {
		s.cb.state = Unrecorded
	}
	return nil
}
