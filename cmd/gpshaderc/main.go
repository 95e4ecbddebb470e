// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Command gpshaderc compiles WGSL shaders into the SPIR-V
// files that graphics.CreateShader loads.
//
// Usage:
//
//	gpshaderc [flags] path ...
//
// Each path is either a .wgsl file or a directory, which
// is searched recursively for .wgsl files. The output of
// a file found in a directory keeps its path relative to
// that directory. With -watch, gpshaderc keeps running and
// recompiles sources as they change.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"gviegas/gp3d/driver"
)

var (
	outDir  = flag.String("out", "shaders", "output directory for compiled shaders")
	ext     = flag.String("ext", ".spv", "extension of compiled shader files")
	watch   = flag.Bool("watch", false, "recompile sources when they change")
	verbose = flag.Bool("v", false, "log every compiled file")
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: gpshaderc [flags] path ...\n")
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	driver.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	c := &compiler{out: *outDir, ext: *ext}
	jobs, err := c.plan(flag.Args())
	if err != nil {
		driver.Logger().Error("gpshaderc", "err", err)
		os.Exit(1)
	}
	failed := c.compileAll(jobs)
	if !*watch {
		if failed > 0 {
			os.Exit(1)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := c.watch(ctx, flag.Args()); err != nil {
		driver.Logger().Error("gpshaderc: watch", "err", err)
		os.Exit(1)
	}
}
