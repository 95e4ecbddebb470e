// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package soft

import (
	"sync"

	"gviegas/gp3d/driver"
)

// fence implements driver.Fence.
type fence struct {
	d         *Driver
	mu        sync.Mutex
	cond      sync.Cond
	completed uint64
	// Value to be signaled by the pending submission,
	// or zero if there is none.
	pending uint64
}

// NewFence creates a new fence.
func (d *Driver) NewFence() (driver.Fence, error) {
	f := &fence{d: d}
	f.cond.L = &f.mu
	d.live.Add(1)
	return f, nil
}

// arm prepares f to be signaled with value.
func (f *fence) arm(value uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if value <= f.completed || f.pending != 0 {
		return driver.ErrFenceValue
	}
	f.pending = value
	return nil
}

// signal sets the completed value to the pending value.
func (f *fence) signal() {
	f.mu.Lock()
	f.completed = f.pending
	f.pending = 0
	f.mu.Unlock()
	f.cond.Broadcast()
}

// Wait blocks until the completed value is at least
// value.
// It fails with driver.ErrFenceValue if value is greater
// than any value that f will be signaled with.
func (f *fence) Wait(value uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for f.completed < value {
		if f.pending < value {
			return driver.ErrFenceValue
		}
		f.cond.Wait()
	}
	return nil
}

// Completed returns the completed value.
func (f *fence) Completed() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.completed
}

// Destroy destroys the fence.
func (f *fence) Destroy() {
	if f == nil || f.d == nil {
		return
	}
	f.d.live.Add(-1)
	f.d = nil
}
