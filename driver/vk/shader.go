// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package vk

import (
	"encoding/binary"
	"errors"

	vk "github.com/goki/vulkan"

	"gviegas/gp3d/driver"
)

// shader implements driver.Shader.
type shader struct {
	d   *Driver
	mod vk.ShaderModule
}

// NewShader creates a new shader from SPIR-V code.
func (d *Driver) NewShader(code []byte) (driver.Shader, error) {
	n := len(code)
	// The code size must be a multiple of four.
	if n == 0 || n&3 != 0 {
		return nil, errors.New("vk: invalid shader code size")
	}
	words := make([]uint32, n/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(code[i*4:])
	}
	info := vk.ShaderModuleCreateInfo{
		SType:    vk.StructureTypeShaderModuleCreateInfo,
		CodeSize: uint64(n),
		PCode:    words,
	}
	var mod vk.ShaderModule
	err := checkResult(vk.CreateShaderModule(d.dev, &info, nil, &mod))
	if err != nil {
		return nil, err
	}
	return &shader{
		d:   d,
		mod: mod,
	}, nil
}

// Destroy destroys the shader.
func (s *shader) Destroy() {
	if s == nil {
		return
	}
	if s.d != nil {
		vk.DestroyShaderModule(s.d.dev, s.mod, nil)
	}
	*s = shader{}
}
