// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package soft

import (
	"encoding/binary"
	"errors"

	"gviegas/gp3d/driver"
)

// spirvMagic is the first word of every SPIR-V module.
const spirvMagic = 0x07230203

// shader implements driver.Shader.
// Code is validated as a SPIR-V module and kept for
// inspection; it is never executed.
type shader struct {
	d    *Driver
	code []byte
}

// NewShader creates a new shader.
func (d *Driver) NewShader(code []byte) (driver.Shader, error) {
	if len(code) < 20 || len(code)%4 != 0 {
		return nil, errors.New("soft: shader code is not a SPIR-V module")
	}
	if binary.LittleEndian.Uint32(code) != spirvMagic && binary.BigEndian.Uint32(code) != spirvMagic {
		return nil, errors.New("soft: shader code is not a SPIR-V module")
	}
	d.live.Add(1)
	return &shader{
		d:    d,
		code: append([]byte(nil), code...),
	}, nil
}

// Destroy destroys the shader.
func (s *shader) Destroy() {
	if s == nil || s.d == nil {
		return
	}
	s.d.live.Add(-1)
	*s = shader{}
}
