// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package wsi

import (
	"go/build/constraint"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type E struct {
	closed  []Window
	resized [][2]int
}

func (e *E) WindowClose(win Window) { e.closed = append(e.closed, win) }

func (e *E) WindowResize(win Window, newWidth, newHeight int) {
	e.resized = append(e.resized, [2]int{newWidth, newHeight})
}

func TestHeadless(t *testing.T) {
	e := &E{}
	SetWindowHandler(e)
	defer SetWindowHandler(nil)

	n := len(Windows())
	win, err := NewHeadless(480, 360)
	if err != nil {
		t.Fatalf("NewHeadless:\nhave %v\nwant nil", err)
	}
	if k := len(Windows()); k != n+1 {
		t.Fatalf("len(Windows())\nhave %d\nwant %d", k, n+1)
	}
	if win.Width() != 480 || win.Height() != 360 {
		t.Fatalf("Headless size\nhave %dx%d\nwant 480x360", win.Width(), win.Height())
	}

	win.Map()
	if !win.Mapped() {
		t.Fatal("Headless.Map: not mapped")
	}
	win.Unmap()
	if win.Mapped() {
		t.Fatal("Headless.Unmap: still mapped")
	}
	win.SetTitle("My window")
	if s := win.Title(); s != "My window" {
		t.Fatalf("Headless.Title\nhave %q\nwant \"My window\"", s)
	}

	if err := win.Resize(600, 300); err != nil {
		t.Fatalf("Headless.Resize:\nhave %v\nwant nil", err)
	}
	// Same size, no event.
	win.Resize(600, 300)
	if len(e.resized) != 1 || e.resized[0] != [2]int{600, 300} {
		t.Fatalf("WindowResize events\nhave %v\nwant [[600 300]]", e.resized)
	}
	if err := win.Resize(0, 300); err == nil {
		t.Fatal("Headless.Resize(0, 300): unexpected nil error")
	}

	win.Close()
	win.Close()
	if len(e.closed) != 1 || e.closed[0] != win {
		t.Fatalf("WindowClose events\nhave %v\nwant [%v]", e.closed, win)
	}
	if k := len(Windows()); k != n {
		t.Fatalf("len(Windows())\nhave %d\nwant %d", k, n)
	}
}

func TestHeadlessLimit(t *testing.T) {
	n := len(Windows())
	var wins []*Headless
	defer func() {
		for _, w := range wins {
			w.Close()
		}
	}()
	for range MaxWindows - n {
		w, err := NewHeadless(1, 1)
		if err != nil {
			t.Fatalf("NewHeadless:\nhave %v\nwant nil", err)
		}
		wins = append(wins, w)
	}
	if _, err := NewHeadless(1, 1); err == nil {
		t.Fatal("NewHeadless: unexpected nil error over MaxWindows")
	}
	if _, err := NewHeadless(0, 1); err == nil {
		t.Fatal("NewHeadless(0, 1): unexpected nil error")
	}
}

func TestPlatform(t *testing.T) {
	switch PlatformInUse() {
	case None:
		win, err := NewWindow(480, 360, "Will fail")
		if win != nil || err != ErrMissing {
			t.Fatalf("NewWindow: win, err\nhave %v, %v\nwant nil, %v", win, err, ErrMissing)
		}
		if _, err := VulkanProcAddr(); err != ErrMissing {
			t.Fatalf("VulkanProcAddr\nhave %v\nwant %v", err, ErrMissing)
		}
		// Dummy Dispatch does nothing.
		Dispatch()
	case GLFW:
		// Creating a window needs a display; only check
		// that dispatching before initialization is safe.
		Dispatch()
	}
	SetAppName("My app")
	if s := AppName(); s != "My app" {
		t.Fatalf("AppName\nhave %s\nwant My app", s)
	}
}

// headless is a tag of github.com/goki/vulkan. Selecting
// the dummy platform with it would also switch the
// Vulkan wrapper that driver/vk links against.
func TestBuildTags(t *testing.T) {
	files, err := filepath.Glob("*.go")
	if err != nil {
		t.Fatal(err)
	}
	seen := false
	for _, name := range files {
		b, err := os.ReadFile(name)
		if err != nil {
			t.Fatal(err)
		}
		for _, line := range strings.Split(string(b), "\n") {
			if !constraint.IsGoBuild(line) {
				continue
			}
			expr, err := constraint.Parse(line)
			if err != nil {
				t.Fatalf("%s: %v", name, err)
			}
			expr.Eval(func(tag string) bool {
				switch tag {
				case "headless":
					t.Errorf("%s: build tag\nhave %q\nwant nowsi", name, tag)
				case "nowsi":
					seen = true
				}
				return false
			})
		}
	}
	if !seen {
		t.Fatal("no file is constrained by the nowsi tag")
	}
}
