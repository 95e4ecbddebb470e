// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package main

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gogpu/naga"

	"gviegas/gp3d/driver"
)

// srcExt is the extension of shader sources.
const srcExt = ".wgsl"

// spirvMagic is the first word of every SPIR-V module.
const spirvMagic = 0x07230203

var errSPIRV = errors.New("gpshaderc: compiler output is not SPIR-V")

// job is the compilation of one source file.
type job struct {
	src string
	dst string
}

type compiler struct {
	out string
	ext string
}

// plan expands paths into compilation jobs.
// A file path is compiled into the output directory
// under its base name. A directory is walked, and the
// sources in it keep their relative paths.
func (c *compiler) plan(paths []string) ([]job, error) {
	var jobs []job
	for _, p := range paths {
		fi, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !fi.IsDir() {
			if filepath.Ext(p) != srcExt {
				return nil, fmt.Errorf("gpshaderc: %s: not a %s file", p, srcExt)
			}
			jobs = append(jobs, c.job(p, filepath.Base(p)))
			continue
		}
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() || filepath.Ext(path) != srcExt {
				return err
			}
			rel, err := filepath.Rel(p, path)
			if err != nil {
				return err
			}
			jobs = append(jobs, c.job(path, rel))
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return jobs, nil
}

func (c *compiler) job(src, rel string) job {
	return job{
		src: src,
		dst: filepath.Join(c.out, strings.TrimSuffix(rel, srcExt)+c.ext),
	}
}

// compile compiles j.src and writes the module to j.dst.
// The module is written to a temporary file and then
// renamed into place.
func (c *compiler) compile(j job) error {
	src, err := os.ReadFile(j.src)
	if err != nil {
		return err
	}
	spv, err := naga.Compile(string(src))
	if err != nil {
		return fmt.Errorf("gpshaderc: %s: %w", j.src, err)
	}
	if err := checkSPIRV(spv); err != nil {
		return fmt.Errorf("%w: %s", err, j.src)
	}
	if err := os.MkdirAll(filepath.Dir(j.dst), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(j.dst), ".gpshaderc-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(spv); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), j.dst)
}

// compileAll compiles every job, logging failures.
// It returns the number of jobs that failed.
func (c *compiler) compileAll(jobs []job) (failed int) {
	for _, j := range jobs {
		if err := c.compile(j); err != nil {
			driver.Logger().Error("gpshaderc: compile", "src", j.src, "err", err)
			failed++
			continue
		}
		driver.Logger().Debug("gpshaderc: compiled", "src", j.src, "dst", j.dst)
	}
	driver.Logger().Info("gpshaderc: done", "files", len(jobs), "failed", failed)
	return
}

// checkSPIRV checks that spv is a whole number of
// little-endian words starting with the SPIR-V magic.
func checkSPIRV(spv []byte) error {
	if len(spv) < 20 || len(spv)%4 != 0 || binary.LittleEndian.Uint32(spv) != spirvMagic {
		return errSPIRV
	}
	return nil
}
