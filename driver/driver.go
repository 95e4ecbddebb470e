// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Package driver defines a set of interfaces encompassing
// the graphics functionality that backends must provide.
// It is designed to allow platform-specific APIs to be
// implemented in a mostly straightforward manner: the
// types in this package describe GPU resources and
// pipelines, and each backend translates them into
// native objects.
package driver

import (
	"errors"
	"sync"
)

// Driver is the interface that provides methods for
// loading and unloading an underlying implementation.
type Driver interface {
	// Open initializes the driver.
	// If it succeeds, further calls with the same receiver
	// have no effect and must return the same GPU instance.
	// Callers should assume that Open is not safe for
	// parallel execution.
	Open() (GPU, error)

	// Name returns the name of the driver.
	// It must not cause the driver to be opened.
	Name() string

	// Close deinitializes the driver.
	// Closing a driver that is not open has no effect.
	// Callers should assume that Close is not safe for
	// parallel execution.
	Close()
}

// Debugger is the interface that a Driver may implement
// to enable validation of API usage.
// SetDebug must be called before Open to have an effect.
type Debugger interface {
	SetDebug(on bool)
}

// Errors that drivers may return.
// Backends wrap these sentinels so callers can use
// errors.Is to classify failures.
var (
	// ErrNotInstalled means that a platform library that
	// the backend needs is missing.
	ErrNotInstalled = errors.New("driver: missing required library")
	// ErrNoDevice means that no usable device exists.
	ErrNoDevice = errors.New("driver: no suitable device found")
	// ErrNoHostMemory means that a host allocation failed.
	ErrNoHostMemory = errors.New("driver: out of host memory")
	// ErrNoDeviceMemory means that a device allocation
	// failed.
	ErrNoDeviceMemory = errors.New("driver: out of device memory")
	// ErrFatal means that the backend cannot recover.
	// Everything created from its GPU must be destroyed
	// and the driver closed; it can then be opened again.
	ErrFatal = errors.New("driver: fatal error")
	// ErrDescHeap means that a descriptor set would
	// exceed the capacity of a backend descriptor heap.
	ErrDescHeap = errors.New("driver: descriptor heap size exceeded")
	// ErrUnsupported means that the backend cannot
	// realize the requested combination of parameters.
	ErrUnsupported = errors.New("driver: unsupported parameters")
)

// Drivers returns a copy of the registered Drivers, in
// registration order.
// Backends register from init, so importing a backend
// package (possibly for side effects only) is what makes
// it available here.
func Drivers() []Driver {
	mu.Lock()
	defer mu.Unlock()
	drv := make([]Driver, len(drivers))
	copy(drv, drivers)
	return drv
}

// Lookup returns the registered Driver whose name
// is name, or nil if there is no such driver.
func Lookup(name string) Driver {
	mu.Lock()
	defer mu.Unlock()
	for _, d := range drivers {
		if d.Name() == name {
			return d
		}
	}
	return nil
}

// Register adds drv to the set of known drivers.
// Backends call it once, from init.
// A previously registered driver with the same name is
// replaced.
func Register(drv Driver) {
	mu.Lock()
	defer mu.Unlock()
	for i := range drivers {
		if drivers[i].Name() == drv.Name() {
			drivers[i] = drv
			Logger().Warn("driver replaced", "name", drv.Name())
			return
		}
	}
	drivers = append(drivers, drv)
	Logger().Info("driver registered", "name", drv.Name())
}

var (
	mu      sync.Mutex
	drivers []Driver
)
