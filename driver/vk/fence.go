// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package vk

import (
	"fmt"
	"sync"

	vk "github.com/goki/vulkan"

	"gviegas/gp3d/driver"
)

// fenceT implements driver.Fence.
// The value semantics are kept on the host: a VkFence
// signals the completion of the one submission that may
// be pending, which carries the value pending.
type fenceT struct {
	d   *Driver
	fen vk.Fence

	mu        sync.Mutex
	completed uint64
	pending   uint64
}

// NewFence creates a new fence.
func (d *Driver) NewFence() (driver.Fence, error) {
	info := vk.FenceCreateInfo{SType: vk.StructureTypeFenceCreateInfo}
	var fen vk.Fence
	if err := checkResult(vk.CreateFence(d.dev, &info, nil, &fen)); err != nil {
		return nil, err
	}
	return &fenceT{d: d, fen: fen}, nil
}

// poll updates f.completed if the pending submission has
// completed. f.mu must be held.
func (f *fenceT) poll() {
	if f.pending > f.completed && vk.GetFenceStatus(f.d.dev, f.fen) == vk.Success {
		f.completed = f.pending
	}
}

// arm prepares f to be signaled with value by the next
// submission. A previous pending signal is waited for.
func (f *fenceT) arm(value uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if value <= f.completed || value <= f.pending {
		return fmt.Errorf("%w: signal %d (completed %d)", driver.ErrFenceValue, value, f.completed)
	}
	if f.pending > f.completed {
		if err := checkResult(vk.WaitForFences(f.d.dev, 1, []vk.Fence{f.fen}, vk.True, vk.MaxUint64)); err != nil {
			return err
		}
		f.completed = f.pending
	}
	if err := checkResult(vk.ResetFences(f.d.dev, 1, []vk.Fence{f.fen})); err != nil {
		return err
	}
	f.pending = value
	return nil
}

// Wait blocks until the completed value is at least value.
func (f *fenceT) Wait(value uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.completed >= value {
		return nil
	}
	if f.pending < value {
		return fmt.Errorf("%w: wait %d (pending %d)", driver.ErrFenceValue, value, f.pending)
	}
	if err := checkResult(vk.WaitForFences(f.d.dev, 1, []vk.Fence{f.fen}, vk.True, vk.MaxUint64)); err != nil {
		return err
	}
	f.completed = f.pending
	return nil
}

// Completed returns the completed value.
func (f *fenceT) Completed() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.poll()
	return f.completed
}

// Destroy destroys the fence.
func (f *fenceT) Destroy() {
	if f == nil {
		return
	}
	if f.d != nil {
		vk.DestroyFence(f.d.dev, f.fen, nil)
	}
	f.d = nil
	f.fen = nil
}
