// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package soft

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gviegas/gp3d/driver"
	"gviegas/gp3d/wsi"
)

func openDriver(t *testing.T) *Driver {
	t.Helper()
	d := &Driver{}
	gpu, err := d.Open()
	require.NoError(t, err)
	require.Same(t, d, gpu)
	t.Cleanup(func() {
		assert.Zero(t, d.Live(), "objects not destroyed")
		d.Close()
	})
	return d
}

// spirv is the smallest code that NewShader accepts.
var spirv = []byte{0x03, 0x02, 0x23, 0x07, 0, 0, 1, 0, 0, 0, 0, 0, 1, 0, 0, 0, 0, 0, 0, 0}

func TestRegistered(t *testing.T) {
	drv := driver.Lookup(driverName)
	require.NotNil(t, drv)
	assert.Equal(t, driverName, drv.Name())
}

func TestBuffer(t *testing.T) {
	d := openDriver(t)

	b, err := d.NewBuffer(driver.UVertexBuffer, 100, 12, true)
	require.NoError(t, err)
	assert.Equal(t, int64(100), b.Size())
	assert.Len(t, b.Bytes(), 100)
	b.Destroy()
	b.Destroy()

	u, err := d.NewBuffer(driver.UUniformBuffer, 100, 0, true)
	require.NoError(t, err)
	assert.Equal(t, int64(driver.UniformAlign), u.Size())
	u.Destroy()

	hidden, err := d.NewBuffer(driver.UIndexBuffer, 64, 2, false)
	require.NoError(t, err)
	assert.Nil(t, hidden.Bytes())
	hidden.Destroy()

	_, err = d.NewBuffer(driver.UIndexBuffer, 64, 3, true)
	assert.Error(t, err)
	_, err = d.NewBuffer(driver.UVertexBuffer, 0, 0, true)
	assert.Error(t, err)
}

func TestTexture(t *testing.T) {
	d := openDriver(t)

	tex, err := d.NewTexture(&driver.TextureDesc{
		Type:   driver.Tex2D,
		Width:  256,
		Height: 64,
		Depth:  1,
		Format: driver.RGBA8un,
		Usage:  driver.USampled | driver.UTransferDst,
	}, nil)
	require.NoError(t, err)
	desc := tex.Desc()
	assert.Equal(t, 9, desc.MipLevels)
	assert.Equal(t, 1, desc.SampleCount)
	assert.True(t, tex.HostOwned())
	assert.Equal(t, driver.USampled, tex.(*texture).state)
	tex.Destroy()

	cube, err := d.NewTexture(&driver.TextureDesc{
		Type:      driver.TexCube,
		Width:     4,
		Height:    4,
		Depth:     1,
		MipLevels: 1,
		Format:    driver.R8un,
		Usage:     driver.USampled,
	}, make([]byte, 4*4*6))
	require.NoError(t, err)
	assert.Len(t, cube.(*texture).sub, 6)
	cube.Destroy()

	for _, desc := range [...]driver.TextureDesc{
		{Type: driver.TexCube, Width: 4, Height: 8, Depth: 1, Format: driver.R8un, Usage: driver.USampled},
		{Type: driver.Tex2D, Width: 4, Height: 4, Depth: 1, Format: driver.D16un, Usage: driver.UColorAttachment},
		{Type: driver.Tex2D, Width: 4, Height: 4, Depth: 1, Format: driver.RGBA8un, Usage: driver.UDepthStencilAttachment},
		{Type: driver.Tex3D, Width: 4, Height: 4, Depth: 4, Format: driver.RGBA8un, Usage: driver.USampled, SampleCount: 4},
		{Type: driver.Tex2D, Width: 4, Height: 4, Depth: 1, Format: driver.RGBA8un, Usage: driver.USampled, SampleCount: 3},
		{Type: driver.Tex2D, Width: 4, Height: 4, Depth: 1, Format: driver.FUndefined, Usage: driver.USampled},
	} {
		_, err := d.NewTexture(&desc, nil)
		assert.Error(t, err, "%+v", desc)
	}

	// Data of the wrong size.
	_, err = d.NewTexture(&driver.TextureDesc{
		Type:   driver.Tex2D,
		Width:  4,
		Height: 4,
		Depth:  1,
		Format: driver.RGBA8un,
		Usage:  driver.USampled,
	}, make([]byte, 10))
	assert.Error(t, err)
}

func TestSampler(t *testing.T) {
	d := openDriver(t)

	s, err := d.NewSampler(&driver.SamplerDesc{MaxLOD: 4})
	require.NoError(t, err)
	s.Destroy()

	_, err = d.NewSampler(&driver.SamplerDesc{MaxAniso: 64})
	assert.Error(t, err)
	_, err = d.NewSampler(&driver.SamplerDesc{MinLOD: 2, MaxLOD: 1})
	assert.Error(t, err)
}

func TestShader(t *testing.T) {
	d := openDriver(t)

	s, err := d.NewShader(spirv)
	require.NoError(t, err)
	s.Destroy()

	_, err = d.NewShader([]byte("not spir-v, honestly"))
	assert.Error(t, err)
	_, err = d.NewShader(spirv[:16])
	assert.Error(t, err)
}

func TestDescriptorHeap(t *testing.T) {
	d := openDriver(t)

	full, err := d.NewDescriptorSet([]driver.Descriptor{
		{Type: driver.DSampler, Binding: 0, Count: maxDescHeap, Stages: driver.SFragment},
	})
	require.NoError(t, err)

	one := []driver.Descriptor{
		{Type: driver.DUniform, Binding: 0, Count: 1, Stages: driver.SVertex},
		{Type: driver.DSampler, Binding: 1, Count: 1, Stages: driver.SFragment},
	}
	_, err = d.NewDescriptorSet(one)
	assert.ErrorIs(t, err, driver.ErrDescHeap)

	full.Destroy()
	s, err := d.NewDescriptorSet(one)
	require.NoError(t, err)
	ds := s.(*descSet)
	assert.Equal(t, 0, ds.heapOffset(0))
	assert.Equal(t, 0, ds.heapOffset(1))
	s.Destroy()

	_, err = d.NewDescriptorSet([]driver.Descriptor{
		{Type: driver.DTexture, Binding: 0, Count: maxDescHeap + 1, Stages: driver.SFragment},
	})
	assert.ErrorIs(t, err, driver.ErrDescHeap)
}

func TestDescriptorSetCopy(t *testing.T) {
	d := openDriver(t)

	b1, err := d.NewBuffer(driver.UUniformBuffer, 256, 0, true)
	require.NoError(t, err)
	defer b1.Destroy()
	b2, err := d.NewBuffer(driver.UUniformBuffer, 256, 0, true)
	require.NoError(t, err)
	defer b2.Destroy()

	descs := []driver.Descriptor{
		{Type: driver.DUniform, Binding: 0, Count: 1, Stages: driver.SVertex, Buffers: []driver.Buffer{b1}},
	}
	s, err := d.NewDescriptorSet(descs)
	require.NoError(t, err)
	defer s.Destroy()
	descs[0].Binding = 3
	descs[0].Buffers[0] = b2

	have := s.Descriptors()
	assert.Equal(t, 0, have[0].Binding)
	assert.Same(t, b1, have[0].Buffers[0])
}

func TestFence(t *testing.T) {
	d := openDriver(t)

	f, err := d.NewFence()
	require.NoError(t, err)
	defer f.Destroy()
	require.NoError(t, f.Wait(0))
	assert.ErrorIs(t, f.Wait(1), driver.ErrFenceValue)

	cb, err := d.NewCmdBuffer()
	require.NoError(t, err)
	defer cb.Destroy()
	assert.ErrorIs(t, d.Submit(cb, f, 1), driver.ErrNotEnded)

	for i := uint64(1); i <= 3; i++ {
		require.NoError(t, cb.Begin())
		require.NoError(t, cb.End())
		require.NoError(t, d.Submit(cb, f, i))
		require.NoError(t, f.Wait(i))
		assert.Equal(t, i, f.Completed())
	}
	require.NoError(t, cb.Begin())
	require.NoError(t, cb.End())
	assert.ErrorIs(t, d.Submit(cb, f, 3), driver.ErrFenceValue)
	assert.Equal(t, int64(3), d.Stats().Submits)
}

// target creates a 2D texture that can be rendered to.
func target(t *testing.T, d *Driver, f driver.Format, samples int, usage driver.TextureUsage) *texture {
	t.Helper()
	tex, err := d.NewTexture(&driver.TextureDesc{
		Type:        driver.Tex2D,
		Width:       4,
		Height:      4,
		Depth:       1,
		MipLevels:   1,
		Format:      f,
		Usage:       usage,
		SampleCount: samples,
	}, nil)
	require.NoError(t, err)
	return tex.(*texture)
}

// run records and submits commands, then waits for them
// to complete.
func run(t *testing.T, d *Driver, rec func(driver.CmdBuffer)) {
	t.Helper()
	cb, err := d.NewCmdBuffer()
	require.NoError(t, err)
	defer cb.Destroy()
	require.NoError(t, cb.Begin())
	rec(cb)
	require.NoError(t, cb.End())
	require.NoError(t, d.Submit(cb, nil, 0))
	require.NoError(t, d.WaitIdle())
}

func TestClear(t *testing.T) {
	d := openDriver(t)

	color := target(t, d, driver.RGBA8un, 1, driver.UColorAttachment)
	defer color.Destroy()
	ds := target(t, d, driver.D24unS8ui, 1, driver.UDepthStencilAttachment)
	defer ds.Destroy()
	pass, err := d.NewRenderPass(&driver.RenderPassDesc{
		Width:                  4,
		Height:                 4,
		ColorFormat:            driver.RGBA8un,
		DepthStencilFormat:     driver.D24unS8ui,
		SampleCount:            1,
		ColorAttachments:       []driver.Texture{color},
		DepthStencilAttachment: ds,
	})
	require.NoError(t, err)
	defer pass.Destroy()

	run(t, d, func(cb driver.CmdBuffer) {
		cb.BeginRenderPass(pass)
		cb.ClearColor(0, [4]float32{1, 0.5, 0, 1})
		cb.ClearDepthStencil(1, 0xff)
		cb.EndRenderPass()
	})
	for i := 0; i < len(color.sub[0]); i += 4 {
		require.Equal(t, []byte{255, 128, 0, 255}, color.sub[0][i:i+4])
	}
	for i := 0; i < len(ds.sub[0]); i += 4 {
		require.Equal(t, []byte{255, 255, 255, 255}, ds.sub[0][i:i+4])
	}
	st := d.Stats()
	assert.Equal(t, int64(2), st.Clears)
	assert.Zero(t, st.Warnings)
}

func TestPackDepth(t *testing.T) {
	le := binary.LittleEndian
	for _, x := range [...]struct {
		depth float32
		want  uint32
	}{
		{0, 0},
		{0.5, 0x800000},
		{1, 0xffffff},
		{2, 0xffffff},
		{-1, 0},
	} {
		px := packDepthStencil(driver.D24unS8ui, x.depth, 0x7f)
		assert.Equal(t, x.want, le.Uint32(px)&0xffffff, "D24unS8ui depth %v", x.depth)
		assert.Equal(t, byte(0x7f), px[3], "D24unS8ui stencil")
		px = packDepthStencil(driver.X8D24un, x.depth, 0)
		assert.Equal(t, x.want, le.Uint32(px), "X8D24un depth %v", x.depth)
	}
	assert.Equal(t, uint16(0xffff), le.Uint16(packDepthStencil(driver.D16un, 1, 0)))
	assert.Equal(t, uint16(0x8000), le.Uint16(packDepthStencil(driver.D16unS8ui, 0.5, 0)))
}

func TestResolve(t *testing.T) {
	d := openDriver(t)

	ms := target(t, d, driver.RGBA8un, 4, driver.UColorAttachment|driver.UResolveSrc)
	defer ms.Destroy()
	dst := target(t, d, driver.RGBA8un, 1, driver.UColorAttachment|driver.UResolveDst)
	defer dst.Destroy()
	pass, err := d.NewRenderPass(&driver.RenderPassDesc{
		Width:                       4,
		Height:                      4,
		ColorFormat:                 driver.RGBA8un,
		SampleCount:                 4,
		ColorAttachments:            []driver.Texture{dst},
		ColorMultisampleAttachments: []driver.Texture{ms},
	})
	require.NoError(t, err)
	defer pass.Destroy()

	run(t, d, func(cb driver.CmdBuffer) {
		cb.BeginRenderPass(pass)
		cb.ClearColor(0, [4]float32{0, 1, 0, 1})
		cb.EndRenderPass()
		cb.Transition(ms, driver.UColorAttachment, driver.UResolveSrc)
		cb.Transition(dst, driver.UColorAttachment, driver.UResolveDst)
		cb.Resolve(ms, dst)
		cb.Transition(dst, driver.UResolveDst, driver.UColorAttachment)
	})
	assert.Len(t, ms.sub[0], 4*4*4*4)
	for i := 0; i < len(dst.sub[0]); i += 4 {
		require.Equal(t, []byte{0, 255, 0, 255}, dst.sub[0][i:i+4])
	}
	st := d.Stats()
	assert.Equal(t, int64(1), st.Resolves)
	assert.Equal(t, int64(3), st.Transitions)
	assert.Zero(t, st.Warnings)
}

func TestTransitionMismatch(t *testing.T) {
	d := openDriver(t)

	tex := target(t, d, driver.RGBA8un, 1, driver.UColorAttachment|driver.USampled)
	defer tex.Destroy()
	run(t, d, func(cb driver.CmdBuffer) {
		// Wrong source state.
		cb.Transition(tex, driver.USampled, driver.UColorAttachment)
		// Not in usage.
		cb.Transition(tex, driver.UColorAttachment, driver.UTransferSrc)
	})
	assert.Equal(t, int64(2), d.Stats().Warnings)
	assert.Equal(t, driver.UTransferSrc, tex.state)
}

func TestDraw(t *testing.T) {
	d := openDriver(t)

	color := target(t, d, driver.RGBA8un, 1, driver.UColorAttachment)
	defer color.Destroy()
	pass, err := d.NewRenderPass(&driver.RenderPassDesc{
		Width:            4,
		Height:           4,
		ColorFormat:      driver.RGBA8un,
		SampleCount:      1,
		ColorAttachments: []driver.Texture{color},
	})
	require.NoError(t, err)
	defer pass.Destroy()
	ds, err := d.NewDescriptorSet(nil)
	require.NoError(t, err)
	defer ds.Destroy()
	vs, err := d.NewShader(spirv)
	require.NoError(t, err)
	defer vs.Destroy()
	layout, err := driver.NewVertexLayout([]driver.VertexAttr{{Semantic: driver.Position, Format: driver.RGB32f}})
	require.NoError(t, err)
	pl, err := d.NewRenderPipeline(&driver.PipelineState{
		Topology:     driver.TTriangle,
		VertexLayout: layout,
		Rasterizer:   driver.DefaultRasterizer(),
		ColorBlend:   driver.DefaultColorBlend(),
		DepthStencil: driver.DefaultDepthStencil(),
		Pass:         pass,
		Descriptors:  ds,
		Vert:         vs,
	})
	require.NoError(t, err)
	defer pl.Destroy()
	assert.Equal(t, driver.TTriangle, pl.Topology())

	vb, err := d.NewBuffer(driver.UVertexBuffer, 3*12, 12, true)
	require.NoError(t, err)
	defer vb.Destroy()
	ib, err := d.NewBuffer(driver.UIndexBuffer, 6, 2, true)
	require.NoError(t, err)
	defer ib.Destroy()
	copy(ib.Bytes(), []byte{0, 0, 1, 0, 2, 0})

	run(t, d, func(cb driver.CmdBuffer) {
		cb.BeginRenderPass(pass)
		cb.BindRenderPipeline(pl)
		cb.BindDescriptorSet(ds)
		cb.BindVertexBuffers(0, []driver.Buffer{vb}, []int64{0})
		cb.BindIndexBuffer(ib, 0)
		cb.Draw(3, 0)
		cb.DrawIndexed(3, 0)
		cb.EndRenderPass()
	})
	st := d.Stats()
	assert.Equal(t, int64(2), st.Draws)
	assert.Equal(t, int64(6), st.Vertices)
	assert.Zero(t, st.Warnings)

	run(t, d, func(cb driver.CmdBuffer) {
		cb.BeginRenderPass(pass)
		cb.BindRenderPipeline(pl)
		cb.BindVertexBuffers(0, []driver.Buffer{vb}, []int64{0})
		// Overrun.
		cb.Draw(4, 0)
		cb.EndRenderPass()
		// Outside pass.
		cb.Draw(3, 0)
	})
	st = d.Stats()
	assert.Equal(t, int64(3), st.Draws)
	assert.Equal(t, int64(2), st.Warnings)
}

func TestSwapchain(t *testing.T) {
	d := openDriver(t)

	win, err := wsi.NewHeadless(64, 32)
	require.NoError(t, err)
	defer win.Close()

	sc, err := d.NewSwapchain(win, 2)
	require.NoError(t, err)
	_, err = d.NewSwapchain(win, 2)
	assert.ErrorIs(t, err, driver.ErrWindow)

	views := sc.Textures()
	require.Len(t, views, 2)
	for _, v := range views {
		assert.False(t, v.HostOwned())
		assert.Equal(t, 64, v.Desc().Width)
		assert.Equal(t, driver.UPresent, v.(*texture).state)
	}
	assert.Equal(t, driver.BGRA8un, sc.Format())

	i, err := sc.Next()
	require.NoError(t, err)
	j, err := sc.Next()
	require.NoError(t, err)
	assert.NotEqual(t, i, j)
	_, err = sc.Next()
	assert.ErrorIs(t, err, driver.ErrNoBackbuffer)

	require.NoError(t, sc.Present(i))
	assert.ErrorIs(t, sc.Present(i), driver.ErrSwapchain)
	k, err := sc.Next()
	require.NoError(t, err)
	assert.Equal(t, i, k)

	require.NoError(t, win.Resize(32, 32))
	_, err = sc.Next()
	assert.ErrorIs(t, err, driver.ErrSwapchain)
	require.NoError(t, sc.Recreate())
	assert.Equal(t, 32, sc.Textures()[0].Desc().Width)
	_, err = sc.Next()
	require.NoError(t, err)

	require.NoError(t, d.WaitIdle())
	st := d.Stats()
	assert.Equal(t, int64(1), st.Presents)
	assert.Zero(t, st.Warnings)

	sc.Destroy()
	// The window can have a new swapchain.
	sc, err = d.NewSwapchain(win, 3)
	require.NoError(t, err)
	sc.Destroy()
}
