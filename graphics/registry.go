// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package graphics

import (
	"errors"
	"fmt"
	"slices"

	"gviegas/gp3d/driver"
)

var (
	// ErrTargetExists means that a render target with
	// the given name already exists.
	ErrTargetExists = errors.New("graphics: render target already exists")

	// ErrNoTarget means that no render target has the
	// given name.
	ErrNoTarget = errors.New("graphics: render target not found")
)

// Registry owns named render targets.
// Each target is a render pass created with
// Graphics.CreateRenderPass, along with its attachments.
// Targets are destroyed when the Graphics is closed.
type Registry struct {
	g       *Graphics
	targets map[string]driver.RenderPass
}

// Create creates a named render target.
func (r *Registry) Create(name string, width, height, colorCount int, colorFormat, dsFormat driver.Format, sampleCount int) (driver.RenderPass, error) {
	if _, ok := r.targets[name]; ok {
		return nil, fmt.Errorf("%w: %q", ErrTargetExists, name)
	}
	p, err := r.g.CreateRenderPass(width, height, colorCount, colorFormat, dsFormat, sampleCount)
	if err != nil {
		return nil, err
	}
	if r.targets == nil {
		r.targets = make(map[string]driver.RenderPass)
	}
	r.targets[name] = p
	return p, nil
}

// Get returns the render target with the given name.
func (r *Registry) Get(name string) (driver.RenderPass, error) {
	if p, ok := r.targets[name]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrNoTarget, name)
}

// Destroy destroys the render target with the given
// name. It does nothing if there is no such target.
func (r *Registry) Destroy(name string) {
	if p, ok := r.targets[name]; ok {
		delete(r.targets, name)
		r.g.DestroyRenderPass(p)
	}
}

// Names returns the sorted names of all render targets.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.targets))
	for name := range r.targets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Len returns the number of render targets.
func (r *Registry) Len() int { return len(r.targets) }

// clear destroys all render targets.
func (r *Registry) clear() {
	for name := range r.targets {
		r.Destroy(name)
	}
}
