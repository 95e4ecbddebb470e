// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Package soft implements driver interfaces in host memory.
// It executes recorded commands asynchronously on a queue
// goroutine, tracks the state of every texture and warns,
// through the driver logger, about misuse that a native
// API would report as a validation error.
// It does not rasterize: draws are validated and counted,
// while clears and resolves write to texture memory.
package soft

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"gviegas/gp3d/driver"
	"gviegas/gp3d/internal/bitvec"
	"gviegas/gp3d/wsi"
)

const driverName = "soft"

// Implementation limits.
const (
	maxTexture1D    = 16384
	maxTexture2D    = 16384
	maxTextureCube  = 16384
	maxTexture3D    = 2048
	maxSamples      = 8
	maxDescHeap     = 4096
	maxAnisotropy   = 16
	maxVertexBuffer = 16
)

// Driver implements driver.Driver, driver.Debugger,
// driver.GPU and driver.Presenter.
type Driver struct {
	// Submitted jobs, executed in order by run.
	queue chan func()
	// Tracks jobs that were queued but not executed.
	pending sync.WaitGroup
	// Closed when run returns.
	done chan struct{}

	// Descriptor heaps, indexed by driver.HeapClass,
	// and windows that have a swapchain.
	// Guarded by mu.
	mu    sync.Mutex
	heaps [driver.HeapClassN]bitvec.V[uint64]
	wins  map[wsi.Window]*swapchain

	live  atomic.Int64
	debug atomic.Bool
	smu   sync.Mutex
	stats Stats
}

func init() {
	driver.Register(&Driver{})
}

// Open initializes the driver.
func (d *Driver) Open() (driver.GPU, error) {
	if d.queue != nil {
		return d, nil
	}
	d.queue = make(chan func(), 64)
	d.done = make(chan struct{})
	for i := range d.heaps {
		d.heaps[i].Grow(maxDescHeap / 64)
	}
	go d.run()
	logger().Info("driver opened")
	return d, nil
}

// run executes queued jobs until the queue is closed.
func (d *Driver) run() {
	defer close(d.done)
	for job := range d.queue {
		job()
		d.pending.Done()
	}
}

// enqueue queues job for execution.
func (d *Driver) enqueue(job func()) {
	d.pending.Add(1)
	d.queue <- job
}

// Name returns the driver name.
func (d *Driver) Name() string { return driverName }

// Close deinitializes the driver.
func (d *Driver) Close() {
	if d == nil || d.queue == nil {
		return
	}
	d.pending.Wait()
	close(d.queue)
	<-d.done
	if n := d.live.Load(); n != 0 {
		logger().Warn("objects not destroyed", "count", n)
	}
	d.queue = nil
	d.done = nil
	d.mu.Lock()
	d.heaps = [driver.HeapClassN]bitvec.V[uint64]{}
	d.wins = nil
	d.mu.Unlock()
	d.smu.Lock()
	d.stats = Stats{}
	d.smu.Unlock()
	logger().Info("driver closed")
}

// SetDebug sets whether executed commands are logged.
// Misuse is reported regardless.
func (d *Driver) SetDebug(on bool) { d.debug.Store(on) }

// Driver returns the Driver that owns the GPU.
func (d *Driver) Driver() driver.Driver { return d }

// WaitIdle blocks until all submitted work completes.
func (d *Driver) WaitIdle() error {
	d.pending.Wait()
	return nil
}

// Limits returns the implementation limits.
func (d *Driver) Limits() driver.Limits {
	return driver.Limits{
		MaxTexture1D:        maxTexture1D,
		MaxTexture2D:        maxTexture2D,
		MaxTextureCube:      maxTextureCube,
		MaxTexture3D:        maxTexture3D,
		MaxColorAttachments: driver.MaxColorAttachments,
		MaxSamples:          maxSamples,
		MaxDescHeap:         maxDescHeap,
		MaxAnisotropy:       maxAnisotropy,
		MaxPassSize:         [2]int{maxTexture2D, maxTexture2D},
	}
}

// Live returns the number of objects created from d
// that were not destroyed yet.
func (d *Driver) Live() int { return int(d.live.Load()) }

// Stats holds execution statistics.
type Stats struct {
	Submits     int64
	Draws       int64
	Vertices    int64
	Clears      int64
	Transitions int64
	Resolves    int64
	Presents    int64
	// Warnings counts misuse detected during execution,
	// such as drawing with a pipeline that does not
	// match the bound descriptor set, or transitioning
	// a texture from a state it is not in.
	Warnings int64
}

// Stats returns the execution statistics accumulated
// since the driver was opened.
// Only work that completed execution is accounted for.
func (d *Driver) Stats() Stats {
	d.smu.Lock()
	defer d.smu.Unlock()
	return d.stats
}

// count updates the statistics.
func (d *Driver) count(f func(*Stats)) {
	d.smu.Lock()
	f(&d.stats)
	d.smu.Unlock()
}

// warn logs a misuse and counts it.
func (d *Driver) warn(msg string, args ...any) {
	logger().Warn(msg, args...)
	d.count(func(s *Stats) { s.Warnings++ })
}

func logger() *slog.Logger { return driver.Logger().With("driver", driverName) }
