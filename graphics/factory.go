// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package graphics

import (
	"fmt"
	"os"
	"path/filepath"

	"gviegas/gp3d/driver"
)

// add tracks a created object.
func (g *Graphics) add(obj driver.Destroyer) { g.objs[obj] = struct{}{} }

// remove stops tracking obj and destroys it.
func (g *Graphics) remove(obj driver.Destroyer) {
	delete(g.objs, obj)
	obj.Destroy()
}

// created logs a creation failure or tracks obj.
func (g *Graphics) created(kind string, obj driver.Destroyer, err error) error {
	if err != nil {
		logger().Error("creation failed", "kind", kind, "err", err)
		return err
	}
	g.add(obj)
	logger().Debug("created", "kind", kind)
	return nil
}

func (g *Graphics) createBuffer(usage driver.BufferUsage, size int64, stride int, hostVisible bool) (driver.Buffer, error) {
	if g.gpu == nil {
		return nil, ErrNotInitialized
	}
	b, err := g.gpu.NewBuffer(usage, size, stride, hostVisible)
	if err = g.created("buffer", b, err); err != nil {
		return nil, err
	}
	return b, nil
}

// CreateVertexBuffer creates a vertex buffer.
// If hostVisible is true, the buffer's memory can be
// written through its Bytes method.
func (g *Graphics) CreateVertexBuffer(size int64, stride int, hostVisible bool) (driver.Buffer, error) {
	return g.createBuffer(driver.UVertexBuffer, size, stride, hostVisible)
}

// CreateIndexBuffer creates an index buffer.
// stride must be 2 (16-bit indices) or 4 (32-bit
// indices).
func (g *Graphics) CreateIndexBuffer(size int64, stride int, hostVisible bool) (driver.Buffer, error) {
	return g.createBuffer(driver.UIndexBuffer, size, stride, hostVisible)
}

// CreateUniformBuffer creates a uniform buffer.
// The size is rounded up to a multiple of
// driver.UniformAlign.
func (g *Graphics) CreateUniformBuffer(size int64, hostVisible bool) (driver.Buffer, error) {
	return g.createBuffer(driver.UUniformBuffer, size, 0, hostVisible)
}

// DestroyBuffer destroys a buffer.
func (g *Graphics) DestroyBuffer(b driver.Buffer) {
	if b != nil {
		g.remove(b)
	}
}

func (g *Graphics) createTexture(desc *driver.TextureDesc, data []byte) (driver.Texture, error) {
	if g.gpu == nil {
		return nil, ErrNotInitialized
	}
	t, err := g.gpu.NewTexture(desc, data)
	if err = g.created("texture", t, err); err != nil {
		return nil, err
	}
	g.track(t)
	return t, nil
}

// CreateTexture1D creates a 1D texture.
// If mipLevels is not in the range [1, driver.MaxMipLevels],
// the full mip chain is used.
// data, if not nil, holds the contents of the first mip
// level.
func (g *Graphics) CreateTexture1D(width, mipLevels int, format driver.Format, usage driver.TextureUsage, hostVisible bool, data []byte) (driver.Texture, error) {
	return g.createTexture(&driver.TextureDesc{
		Type:        driver.Tex1D,
		Width:       width,
		Height:      1,
		Depth:       1,
		MipLevels:   driver.ResolveMipLevels(mipLevels, width, 1),
		Format:      format,
		Usage:       usage,
		SampleCount: 1,
		HostVisible: hostVisible,
	}, data)
}

// CreateTexture2D creates a 2D texture.
// Multisample textures have a single mip level.
func (g *Graphics) CreateTexture2D(width, height, mipLevels int, format driver.Format, usage driver.TextureUsage, sampleCount int, hostVisible bool, data []byte) (driver.Texture, error) {
	if sampleCount > 1 {
		mipLevels = 1
	}
	return g.createTexture(&driver.TextureDesc{
		Type:        driver.Tex2D,
		Width:       width,
		Height:      height,
		Depth:       1,
		MipLevels:   driver.ResolveMipLevels(mipLevels, width, height),
		Format:      format,
		Usage:       usage,
		SampleCount: max(sampleCount, 1),
		HostVisible: hostVisible,
	}, data)
}

// CreateTexture3D creates a 3D texture.
func (g *Graphics) CreateTexture3D(width, height, depth, mipLevels int, format driver.Format, usage driver.TextureUsage, hostVisible bool, data []byte) (driver.Texture, error) {
	return g.createTexture(&driver.TextureDesc{
		Type:        driver.Tex3D,
		Width:       width,
		Height:      height,
		Depth:       depth,
		MipLevels:   driver.ResolveMipLevels(mipLevels, width, height),
		Format:      format,
		Usage:       usage,
		SampleCount: 1,
		HostVisible: hostVisible,
	}, data)
}

// CreateTextureCube creates a cube texture.
// data, if not nil, holds the six faces of the first
// mip level, in +X, -X, +Y, -Y, +Z, -Z order.
func (g *Graphics) CreateTextureCube(size, mipLevels int, format driver.Format, usage driver.TextureUsage, hostVisible bool, data []byte) (driver.Texture, error) {
	return g.createTexture(&driver.TextureDesc{
		Type:        driver.TexCube,
		Width:       size,
		Height:      size,
		Depth:       1,
		MipLevels:   driver.ResolveMipLevels(mipLevels, size, size),
		Format:      format,
		Usage:       usage,
		SampleCount: 1,
		HostVisible: hostVisible,
	}, data)
}

// DestroyTexture destroys a texture.
func (g *Graphics) DestroyTexture(t driver.Texture) {
	if t != nil {
		delete(g.states, t)
		g.remove(t)
	}
}

// CreateRenderPass creates a render pass and its
// attachments.
// Color attachments can be sampled and copied from,
// and so can the depth/stencil attachment, if dsFormat
// is not FUndefined. If sampleCount is greater than 1,
// multisample color attachments are created as well,
// and they are resolved when the render pass ends.
// The attachments are destroyed by DestroyRenderPass.
func (g *Graphics) CreateRenderPass(width, height, colorCount int, colorFormat, dsFormat driver.Format, sampleCount int) (pass driver.RenderPass, err error) {
	if g.gpu == nil {
		return nil, ErrNotInitialized
	}
	if colorCount < 0 || colorCount > driver.MaxColorAttachments {
		return nil, fmt.Errorf("%w: %d color attachments", driver.ErrRenderPass, colorCount)
	}
	var owned []driver.Texture
	defer func() {
		if err != nil {
			for _, t := range owned {
				delete(g.states, t)
				t.Destroy()
			}
			logger().Error("creation failed", "kind", "render pass", "err", err)
		}
	}()
	newTarget := func(f driver.Format, usage driver.TextureUsage, samples int) (driver.Texture, error) {
		t, err := g.gpu.NewTexture(&driver.TextureDesc{
			Type:        driver.Tex2D,
			Width:       width,
			Height:      height,
			Depth:       1,
			MipLevels:   1,
			Format:      f,
			Usage:       usage,
			SampleCount: samples,
		}, nil)
		if err != nil {
			return nil, err
		}
		owned = append(owned, t)
		g.track(t)
		return t, nil
	}

	samples := max(sampleCount, 1)
	desc := driver.RenderPassDesc{
		Width:              width,
		Height:             height,
		ColorFormat:        colorFormat,
		DepthStencilFormat: dsFormat,
		SampleCount:        samples,
	}
	colorUsage := driver.UColorAttachment | driver.USampled | driver.UTransferSrc
	if samples > 1 {
		colorUsage |= driver.UResolveDst
	}
	for range colorCount {
		t, err := newTarget(colorFormat, colorUsage, 1)
		if err != nil {
			return nil, err
		}
		desc.ColorAttachments = append(desc.ColorAttachments, t)
		if samples > 1 {
			ms, err := newTarget(colorFormat, driver.UColorAttachment|driver.UResolveSrc, samples)
			if err != nil {
				return nil, err
			}
			desc.ColorMultisampleAttachments = append(desc.ColorMultisampleAttachments, ms)
		}
	}
	if dsFormat != driver.FUndefined {
		usage := driver.UDepthStencilAttachment
		if samples == 1 {
			usage |= driver.USampled
		}
		if desc.DepthStencilAttachment, err = newTarget(dsFormat, usage, samples); err != nil {
			return nil, err
		}
	}
	if pass, err = g.gpu.NewRenderPass(&desc); err != nil {
		return nil, err
	}
	g.add(pass)
	g.owned[pass] = owned
	logger().Debug("created", "kind", "render pass", "width", width, "height", height, "colors", colorCount, "samples", samples)
	return pass, nil
}

// CreateRenderPassWithAttachments creates a render pass
// that renders to the attachments in desc.
// The attachments are not destroyed by
// DestroyRenderPass.
func (g *Graphics) CreateRenderPassWithAttachments(desc *driver.RenderPassDesc) (driver.RenderPass, error) {
	if g.gpu == nil {
		return nil, ErrNotInitialized
	}
	p, err := g.gpu.NewRenderPass(desc)
	if err = g.created("render pass", p, err); err != nil {
		return nil, err
	}
	return p, nil
}

// DestroyRenderPass destroys a render pass, along with
// any attachments that CreateRenderPass created for it.
func (g *Graphics) DestroyRenderPass(p driver.RenderPass) {
	if p == nil {
		return
	}
	owned := g.owned[p]
	delete(g.owned, p)
	g.remove(p)
	for _, t := range owned {
		delete(g.states, t)
		t.Destroy()
	}
}

// CreateSampler creates a sampler.
func (g *Graphics) CreateSampler(desc *driver.SamplerDesc) (driver.Sampler, error) {
	if g.gpu == nil {
		return nil, ErrNotInitialized
	}
	s, err := g.gpu.NewSampler(desc)
	if err = g.created("sampler", s, err); err != nil {
		return nil, err
	}
	return s, nil
}

// DestroySampler destroys a sampler.
func (g *Graphics) DestroySampler(s driver.Sampler) {
	if s != nil {
		g.remove(s)
	}
}

// Default extension of compiled shader files, by driver
// name.
var shaderExts = map[string]string{
	"vulkan": ".spv",
	"soft":   ".spv",
	"d3d12":  ".cso",
	"metal":  ".metallib",
}

// ShaderPath returns the path of the compiled shader
// file identified by url.
// The extension is appended to url unless it has one.
func (g *Graphics) ShaderPath(url string) string {
	if filepath.Ext(url) == "" {
		ext := g.cfg.ShaderExt
		if ext == "" && g.drv != nil {
			ext = shaderExts[g.drv.Name()]
		}
		url += ext
	}
	return filepath.Join(g.cfg.ShaderRoot, filepath.FromSlash(url))
}

// CreateShader loads a compiled shader from the shader
// root directory.
func (g *Graphics) CreateShader(url string) (driver.Shader, error) {
	if g.gpu == nil {
		return nil, ErrNotInitialized
	}
	path := g.ShaderPath(url)
	code, err := os.ReadFile(path)
	if err != nil {
		logger().Error("shader not found", "url", url, "path", path, "err", err)
		return nil, err
	}
	s, err := g.gpu.NewShader(code)
	if err = g.created("shader", s, err); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// DestroyShader destroys a shader.
func (g *Graphics) DestroyShader(s driver.Shader) {
	if s != nil {
		g.remove(s)
	}
}

// CreateDescriptorSet creates a descriptor set.
func (g *Graphics) CreateDescriptorSet(ds []driver.Descriptor) (driver.DescriptorSet, error) {
	if g.gpu == nil {
		return nil, ErrNotInitialized
	}
	s, err := g.gpu.NewDescriptorSet(ds)
	if err = g.created("descriptor set", s, err); err != nil {
		return nil, err
	}
	return s, nil
}

// DestroyDescriptorSet destroys a descriptor set.
func (g *Graphics) DestroyDescriptorSet(s driver.DescriptorSet) {
	if s != nil {
		g.remove(s)
	}
}

// CreateRenderPipeline creates a render pipeline.
func (g *Graphics) CreateRenderPipeline(state *driver.PipelineState) (driver.RenderPipeline, error) {
	if g.gpu == nil {
		return nil, ErrNotInitialized
	}
	p, err := g.gpu.NewRenderPipeline(state)
	if err = g.created("render pipeline", p, err); err != nil {
		return nil, err
	}
	return p, nil
}

// DestroyRenderPipeline destroys a render pipeline.
func (g *Graphics) DestroyRenderPipeline(p driver.RenderPipeline) {
	if p != nil {
		g.remove(p)
	}
}

// destroyAll destroys every tracked object, dependents
// first.
func (g *Graphics) destroyAll() {
	order := [...]func(driver.Destroyer) bool{
		func(x driver.Destroyer) bool { _, ok := x.(driver.RenderPipeline); return ok },
		func(x driver.Destroyer) bool { _, ok := x.(driver.DescriptorSet); return ok },
		func(x driver.Destroyer) bool { _, ok := x.(driver.RenderPass); return ok },
		func(driver.Destroyer) bool { return true },
	}
	for _, match := range order {
		for obj := range g.objs {
			if !match(obj) {
				continue
			}
			if p, ok := obj.(driver.RenderPass); ok {
				g.DestroyRenderPass(p)
			} else {
				g.remove(obj)
			}
		}
	}
}
