// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package vk

import (
	"errors"
	"testing"

	"gviegas/gp3d/driver"
	"gviegas/gp3d/wsi"
)

func TestNewSwapchainHeadless(t *testing.T) {
	checkDevice(t)
	win, err := wsi.NewHeadless(320, 240)
	if err != nil {
		t.Fatalf("wsi.NewHeadless\nhave %v\nwant nil", err)
	}
	defer win.Close()
	// Headless windows have no native surface.
	if _, err := tDrv.NewSwapchain(win, 2); !errors.Is(err, driver.ErrCannotPresent) {
		t.Errorf("tDrv.NewSwapchain(headless, 2)\nhave %v\nwant %v", err, driver.ErrCannotPresent)
	}
}

func TestSwapchain(t *testing.T) {
	checkDevice(t)
	if !tDrv.swapchain {
		t.Skip("swapchain extension not enabled")
	}
	win, err := wsi.NewWindow(480, 360, "vk test")
	if err != nil {
		t.Skipf("wsi.NewWindow failed, cannot test swapchain\n%v", err)
	}
	defer win.Close()
	win.Map()
	sc, err := tDrv.NewSwapchain(win, 3)
	if err != nil {
		t.Fatalf("tDrv.NewSwapchain(win, 3)\nhave %v\nwant nil", err)
	}
	s := sc.(*swapchain)
	if s.sf == nil || s.sc == nil {
		t.Errorf("tDrv.NewSwapchain: s.sf, s.sc\nhave %v, %v\nwant valid handles", s.sf, s.sc)
	}
	texs := s.Textures()
	if len(texs) == 0 || len(s.presSem) != len(texs) || len(s.nextSem) != len(texs)+1 {
		t.Fatalf("tDrv.NewSwapchain: %d textures, %d presSem, %d nextSem", len(texs), len(s.presSem), len(s.nextSem))
	}
	for i, x := range texs {
		tex := x.(*texture)
		if tex.HostOwned() || tex.idx != i || tex.s != s {
			t.Errorf("s.Textures()[%d]\nhave HostOwned %t, idx %d\nwant false, %d", i, tex.HostOwned(), tex.idx, i)
		}
		if u := tex.Desc().Usage; u&driver.UPresent == 0 || u&driver.UColorAttachment == 0 {
			t.Errorf("s.Textures()[%d].Desc().Usage\nhave %d\nwant UPresent|UColorAttachment", i, u)
		}
		if f := tex.Desc().Format; f != s.Format() {
			t.Errorf("s.Textures()[%d].Desc().Format\nhave %v\nwant %v", i, f, s.Format())
		}
	}
	if s.Format() == driver.FUndefined {
		t.Error("s.Format()\nhave FUndefined\nwant defined format")
	}

	cmd, err := tDrv.NewCmdBuffer()
	if err != nil {
		t.Fatalf("tDrv.NewCmdBuffer failed, cannot present\n%v", err)
	}
	defer cmd.Destroy()
	for range 4 {
		idx, err := s.Next()
		if err != nil {
			t.Fatalf("s.Next()\nhave %v\nwant nil", err)
		}
		// Presenting without a submission fails.
		if err := s.Present(idx); !errors.Is(err, driver.ErrSwapchain) {
			t.Errorf("s.Present(%d) without submission\nhave %v\nwant %v", idx, err, driver.ErrSwapchain)
		}
		cmd.Begin()
		cmd.Transition(texs[idx], driver.UPresent, driver.UColorAttachment)
		cmd.Transition(texs[idx], driver.UColorAttachment, driver.UPresent)
		cmd.End()
		if err := tDrv.Submit(cmd, nil, 0); err != nil {
			t.Fatalf("tDrv.Submit\nhave %v\nwant nil", err)
		}
		if err := s.Present(idx); err != nil && !errors.Is(err, driver.ErrSwapchain) {
			t.Fatalf("s.Present(%d)\nhave %v\nwant nil", idx, err)
		}
		tDrv.WaitIdle()
	}
	if err := s.SetVSync(false); err != nil {
		t.Errorf("s.SetVSync(false)\nhave %v\nwant nil", err)
	}
	if err := s.Recreate(); err != nil {
		t.Errorf("s.Recreate()\nhave %v\nwant nil", err)
	}
	s.Destroy()
	if s.d != nil || s.sc != nil || s.sf != nil {
		t.Error("s.Destroy()\nhave non-zero\nwant swapchain{}")
	}
}

// acquired returns a swapchain that is not backed by a
// Vulkan swapchain, whose image 0 was acquired using
// semaphore 1.
func acquired() *swapchain {
	return &swapchain{
		views:    make([]driver.Texture, 2),
		maxAcq:   2,
		curAcq:   1,
		syncUsed: []bool{false, true, false},
		viewSync: []int{1, 0},
		pending:  []bool{false, false},
	}
}

func TestSwapchainState(t *testing.T) {
	s := acquired()
	if err := s.Present(2); !errors.Is(err, driver.ErrSwapchain) {
		t.Errorf("s.Present(2)\nhave %v\nwant %v", err, driver.ErrSwapchain)
	}
	if err := s.Present(-1); !errors.Is(err, driver.ErrSwapchain) {
		t.Errorf("s.Present(-1)\nhave %v\nwant %v", err, driver.ErrSwapchain)
	}
	// Image 1 was not acquired.
	if err := s.Present(1); !errors.Is(err, driver.ErrSwapchain) {
		t.Errorf("s.Present(1)\nhave %v\nwant %v", err, driver.ErrSwapchain)
	}
	// Image 0 has no submission.
	if err := s.Present(0); !errors.Is(err, driver.ErrSwapchain) {
		t.Errorf("s.Present(0)\nhave %v\nwant %v", err, driver.ErrSwapchain)
	}
	if s.curAcq != 1 || !s.syncUsed[1] {
		t.Errorf("s.Present(0): state\nhave curAcq %d, syncUsed %v\nwant 1, [false true false]", s.curAcq, s.syncUsed)
	}

	s.curAcq = s.maxAcq
	if _, err := s.Next(); !errors.Is(err, driver.ErrNoBackbuffer) {
		t.Errorf("s.Next() with every image acquired\nhave %v\nwant %v", err, driver.ErrNoBackbuffer)
	}
	s.broken = true
	if _, err := s.Next(); !errors.Is(err, driver.ErrSwapchain) {
		t.Errorf("s.Next() on broken swapchain\nhave %v\nwant %v", err, driver.ErrSwapchain)
	}
	if x := s.Textures(); len(x) != 2 {
		t.Errorf("s.Textures()\nhave %d textures\nwant 2", len(x))
	}
}
