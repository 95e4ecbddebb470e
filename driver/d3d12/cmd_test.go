// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package d3d12

import (
	"testing"

	"gviegas/gp3d/driver"
)

func ops(l *List) []Op {
	var s []Op
	for _, c := range l.Commands() {
		s = append(s, c.Op)
	}
	return s
}

func checkOps(t *testing.T, l *List, want ...Op) {
	t.Helper()
	have := ops(l)
	if len(have) != len(want) {
		t.Fatalf("List.Commands:\nhave %v\nwant %v", have, want)
	}
	for i := range have {
		if have[i] != want[i] {
			t.Fatalf("List.Commands:\nhave %v\nwant %v", have, want)
		}
	}
}

func TestListFrame(t *testing.T) {
	state := testState(t)
	pl, err := NewPipeline(state)
	if err != nil {
		t.Fatal(err)
	}
	pass := state.Pass
	desc := pass.Desc()
	vb := &fakeBuffer{driver.UVertexBuffer, 1200, 0}
	tb := &fakeBuffer{driver.UVertexBuffer, 800, 8}
	ib := &fakeBuffer{driver.UIndexBuffer, 600, 2}

	l := NewList()
	if err := l.Begin(); err != nil {
		t.Fatalf("List.Begin:\nhave %v\nwant nil", err)
	}
	for _, x := range desc.Targets() {
		l.Transition(x, driver.UResolveSrc, driver.UColorAttachment)
	}
	l.BeginRenderPass(pass)
	l.SetViewport(driver.Viewport{Width: 640, Height: 480, Zfar: 1})
	l.SetScissor(driver.Scissor{X: 10, Y: 20, Width: 100, Height: 50})
	l.BindRenderPipeline(pl)
	l.BindDescriptorSet(state.Descriptors)
	l.BindVertexBuffers(0, []driver.Buffer{vb, tb}, []int64{0, 200})
	l.BindIndexBuffer(ib, 0)
	l.ClearColor(1, [4]float32{0, 0, 0, 1})
	l.ClearDepthStencil(1, 0)
	l.DrawIndexed(300, 0)
	l.Draw(3, 6)
	l.EndRenderPass()
	ms, ss := desc.ColorMultisampleAttachments[0], desc.ColorAttachments[0]
	l.Transition(ms, driver.UColorAttachment, driver.UResolveSrc)
	l.Transition(ss, driver.UColorAttachment, driver.UResolveDst)
	l.Resolve(ms, ss)
	l.Transition(ss, driver.UResolveDst, driver.UPresent)
	if err := l.End(); err != nil {
		t.Fatalf("List.End:\nhave %v\nwant nil", err)
	}

	checkOps(t, l,
		OpResourceBarrier, OpResourceBarrier,
		OpOMSetRenderTargets,
		OpRSSetViewports, OpRSSetScissorRects,
		OpSetPipelineState, OpSetGraphicsRootSignature, OpIASetPrimitiveTopology,
		OpOMSetBlendFactor, OpOMSetStencilRef,
		OpSetDescriptorHeaps,
		OpSetGraphicsRootDescriptorTable, OpSetGraphicsRootDescriptorTable,
		OpSetGraphicsRootDescriptorTable, OpSetGraphicsRootDescriptorTable,
		OpIASetVertexBuffers, OpIASetIndexBuffer,
		OpClearRenderTargetView, OpClearDepthStencilView,
		OpDrawIndexedInstanced, OpDrawInstanced,
		OpResourceBarrier, OpResourceBarrier,
		OpResolveSubresource,
		OpResourceBarrier,
		OpClose,
	)

	cmds := l.Commands()
	if b := cmds[0].Barriers[0]; b.StateBefore != StateResolveSource || b.StateAfter != StateRenderTarget {
		t.Fatalf("ResourceBarrier:\nhave %#x -> %#x\nwant %#x -> %#x", b.StateBefore, b.StateAfter, StateResolveSource, StateRenderTarget)
	}
	if rts := cmds[2].Targets; rts.RTVHeap.NumDescriptors != 2 || !rts.Multisample {
		t.Fatalf("OMSetRenderTargets:\nhave %+v\nwant 2 multisample targets", rts)
	}
	if r := cmds[4].Rect; r != (Rect{10, 20, 110, 70}) {
		t.Fatalf("RSSetScissorRects:\nhave %+v\nwant {10 20 110 70}", r)
	}
	if cmds[5].Pipeline != pl || cmds[6].Pipeline != pl {
		t.Fatal("SetPipelineState/SetGraphicsRootSignature: wrong pipeline")
	}
	if cmds[7].Topology != TopologyTriangleList {
		t.Fatalf("IASetPrimitiveTopology:\nhave %d\nwant %d", cmds[7].Topology, TopologyTriangleList)
	}
	if cmds[9].StencilRef != 7 {
		t.Fatalf("OMSetStencilRef:\nhave %d\nwant 7", cmds[9].StencilRef)
	}
	if h := cmds[10].Heaps; len(h) != 2 || h[0] != HeapCBVSRVUAV || h[1] != HeapSampler {
		t.Fatalf("SetDescriptorHeaps:\nhave %v\nwant [%d %d]", h, HeapCBVSRVUAV, HeapSampler)
	}
	for i := range 4 {
		if have := cmds[11+i].Table.RootParameter; have != uint32(i) {
			t.Fatalf("SetGraphicsRootDescriptorTable: RootParameter:\nhave %d\nwant %d", have, i)
		}
	}
	if tb := cmds[13].Table; tb.Heap != HeapSampler || tb.Offset != 0 {
		t.Fatalf("SetGraphicsRootDescriptorTable(sampler):\nhave %+v\nwant sampler heap at offset 0", tb)
	}
	vbs := cmds[15].Vertex
	if vbs[0].StrideInBytes != 12 || vbs[1].StrideInBytes != 8 || vbs[1].SizeInBytes != 600 {
		t.Fatalf("IASetVertexBuffers:\nhave %+v\nwant strides 12/8 and size 600", vbs)
	}
	if ibv := cmds[16].Index; ibv.Format != FormatR16Uint || ibv.SizeInBytes != 600 {
		t.Fatalf("IASetIndexBuffer:\nhave %+v\nwant R16Uint of 600 bytes", ibv)
	}
	if c := cmds[17]; c.Attachment != 1 || c.Color != [4]float32{0, 0, 0, 1} {
		t.Fatalf("ClearRenderTargetView:\nhave %d %v\nwant 1 [0 0 0 1]", c.Attachment, c.Color)
	}
	if f := cmds[18].ClearFlags; f != ClearFlagDepth|ClearFlagStencil {
		t.Fatalf("ClearDepthStencilView: flags:\nhave %#x\nwant %#x", f, ClearFlagDepth|ClearFlagStencil)
	}
	if c := cmds[20]; c.Count != 3 || c.Start != 6 {
		t.Fatalf("DrawInstanced:\nhave %d, %d\nwant 3, 6", c.Count, c.Start)
	}
	if c := cmds[23]; c.Src != ms || c.Dst != ss || c.ResolveFmt != FormatR8G8B8A8Unorm {
		t.Fatalf("ResolveSubresource:\nhave %+v\nwant ms -> ss as R8G8B8A8Unorm", c)
	}
}

func TestListRecording(t *testing.T) {
	l := NewList()
	if err := l.End(); err == nil {
		t.Fatal("List.End (not recording):\nhave nil\nwant error")
	}
	if err := l.Begin(); err != nil {
		t.Fatal(err)
	}
	l.Draw(3, 0)
	l.Transition(newTexture(driver.RGBA8un, 4, 4, 1, driver.USampled), driver.USampled, driver.USampled)
	if err := l.End(); err != nil {
		t.Fatal(err)
	}
	checkOps(t, l, OpDrawInstanced, OpClose)

	if err := l.Reset(); err != nil {
		t.Fatal(err)
	}
	if n := len(l.Commands()); n != 0 {
		t.Fatalf("List.Reset: len(Commands()):\nhave %d\nwant 0", n)
	}
	if err := l.End(); err == nil {
		t.Fatal("List.End (after Reset):\nhave nil\nwant error")
	}
	l.Destroy()
}

func TestListEmptyDescriptorSet(t *testing.T) {
	l := NewList()
	_ = l.Begin()
	l.BindDescriptorSet(newDescSet(nil))
	if n := len(l.Commands()); n != 0 {
		t.Fatalf("BindDescriptorSet(empty): len(Commands()):\nhave %d\nwant 0", n)
	}
}

func TestOpString(t *testing.T) {
	if have := OpSetGraphicsRootDescriptorTable.String(); have != "SetGraphicsRootDescriptorTable" {
		t.Fatalf("Op.String:\nhave %q\nwant %q", have, "SetGraphicsRootDescriptorTable")
	}
	if have := Op(-1).String(); have != "Op(?)" {
		t.Fatalf("Op(-1).String:\nhave %q\nwant %q", have, "Op(?)")
	}
}
