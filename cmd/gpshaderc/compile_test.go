// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package main

import (
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

const vertWGSL = `
@vertex
fn main(@builtin(vertex_index) i: u32) -> @builtin(position) vec4<f32> {
	let x = f32(i) - 1.0;
	return vec4<f32>(x, 0.0, 0.0, 1.0);
}
`

func writeFile(t *testing.T, path, s string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(s), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestPlan(t *testing.T) {
	src := t.TempDir()
	writeFile(t, filepath.Join(src, "a.wgsl"), vertWGSL)
	writeFile(t, filepath.Join(src, "post", "blur.wgsl"), vertWGSL)
	writeFile(t, filepath.Join(src, "README"), "")
	single := filepath.Join(t.TempDir(), "single.wgsl")
	writeFile(t, single, vertWGSL)

	c := &compiler{out: "out", ext: ".spv"}
	jobs, err := c.plan([]string{src, single})
	if err != nil {
		t.Fatalf("compiler.plan:\nhave %v\nwant nil", err)
	}
	want := []job{
		{filepath.Join(src, "a.wgsl"), filepath.Join("out", "a.spv")},
		{filepath.Join(src, "post", "blur.wgsl"), filepath.Join("out", "post", "blur.spv")},
		{single, filepath.Join("out", "single.spv")},
	}
	if !slices.Equal(jobs, want) {
		t.Fatalf("compiler.plan:\nhave %v\nwant %v", jobs, want)
	}

	if _, err := c.plan([]string{filepath.Join(src, "README")}); err == nil {
		t.Fatal("compiler.plan: non-WGSL file:\nhave nil\nwant error")
	}
	if _, err := c.plan([]string{filepath.Join(src, "missing.wgsl")}); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("compiler.plan: missing file:\nhave %v\nwant %v", err, os.ErrNotExist)
	}
}

func TestCompile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "tri.wgsl")
	writeFile(t, src, vertWGSL)
	c := &compiler{out: filepath.Join(dir, "out"), ext: ".spv"}
	j := c.job(src, "tri.wgsl")
	if err := c.compile(j); err != nil {
		t.Fatalf("compiler.compile:\nhave %v\nwant nil", err)
	}
	spv, err := os.ReadFile(j.dst)
	if err != nil {
		t.Fatal(err)
	}
	if have := binary.LittleEndian.Uint32(spv); have != spirvMagic {
		t.Fatalf("compiler.compile: magic:\nhave %#x\nwant %#x", have, spirvMagic)
	}
	ents, err := os.ReadDir(c.out)
	if err != nil {
		t.Fatal(err)
	}
	if len(ents) != 1 {
		t.Fatalf("compiler.compile: output directory:\nhave %d entries\nwant 1", len(ents))
	}
}

func TestCompileError(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "bad.wgsl")
	writeFile(t, src, "fn main( {")
	c := &compiler{out: filepath.Join(dir, "out"), ext: ".spv"}
	if n := c.compileAll([]job{c.job(src, "bad.wgsl")}); n != 1 {
		t.Fatalf("compiler.compileAll:\nhave %d\nwant 1", n)
	}
	if _, err := os.Stat(filepath.Join(c.out, "bad.spv")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("compiler.compileAll: output of failed compilation:\nhave %v\nwant %v", err, os.ErrNotExist)
	}
}

func TestCheckSPIRV(t *testing.T) {
	valid := make([]byte, 20)
	binary.LittleEndian.PutUint32(valid, spirvMagic)
	if err := checkSPIRV(valid); err != nil {
		t.Fatalf("checkSPIRV:\nhave %v\nwant nil", err)
	}
	for _, b := range [][]byte{nil, valid[:16], append(valid[:20:20], 0), make([]byte, 20)} {
		if err := checkSPIRV(b); !errors.Is(err, errSPIRV) {
			t.Fatalf("checkSPIRV(%v):\nhave %v\nwant %v", b, err, errSPIRV)
		}
	}
}

func TestJobFor(t *testing.T) {
	c := &compiler{out: "out", ext: ".spv"}
	root := filepath.Join("src", "shaders")
	file := filepath.Join("other", "x.wgsl")
	roots := map[string]bool{root: true, file: false}
	for _, x := range [...]struct {
		name string
		dst  string
		ok   bool
	}{
		{filepath.Join(root, "lit.wgsl"), filepath.Join("out", "lit.spv"), true},
		{filepath.Join(root, "fx", "bloom.wgsl"), filepath.Join("out", "fx", "bloom.spv"), true},
		{file, filepath.Join("out", "x.spv"), true},
		{filepath.Join("other", "y.wgsl"), "", false},
	} {
		j, ok := c.jobFor(x.name, roots)
		if ok != x.ok || ok && j.dst != x.dst {
			t.Fatalf("compiler.jobFor(%q):\nhave %v %t\nwant %q %t", x.name, j, ok, x.dst, x.ok)
		}
	}
}
