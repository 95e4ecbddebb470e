// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package vk

import (
	vk "github.com/goki/vulkan"

	"gviegas/gp3d/driver"
)

// sampler implements driver.Sampler.
type sampler struct {
	d    *Driver
	splr vk.Sampler
	desc driver.SamplerDesc
}

// NewSampler creates a new sampler.
func (d *Driver) NewSampler(desc *driver.SamplerDesc) (driver.Sampler, error) {
	info := vk.SamplerCreateInfo{
		SType:        vk.StructureTypeSamplerCreateInfo,
		MagFilter:    convFilter(desc.Mag),
		MinFilter:    convFilter(desc.Min),
		MipmapMode:   convMipFilter(desc.Mipmap),
		AddressModeU: convAddrMode(desc.AddrU),
		AddressModeV: convAddrMode(desc.AddrV),
		AddressModeW: convAddrMode(desc.AddrW),
		MinLod:       desc.MinLOD,
		MaxLod:       desc.MaxLOD,
		BorderColor:  convBorder(desc.Border),
	}
	if desc.MaxAniso > 1 && d.feat.SamplerAnisotropy == vk.True {
		info.AnisotropyEnable = vk.True
		info.MaxAnisotropy = float32(min(desc.MaxAniso, d.lim.MaxAnisotropy))
	}
	if desc.Compare {
		info.CompareEnable = vk.True
		info.CompareOp = convCmpFunc(desc.Cmp)
	}
	var splr vk.Sampler
	err := checkResult(vk.CreateSampler(d.dev, &info, nil, &splr))
	if err != nil {
		return nil, err
	}
	return &sampler{
		d:    d,
		splr: splr,
		desc: *desc,
	}, nil
}

// Desc returns the description of the sampler.
func (s *sampler) Desc() driver.SamplerDesc { return s.desc }

// Destroy destroys the sampler.
func (s *sampler) Destroy() {
	if s == nil {
		return
	}
	if s.d != nil {
		vk.DestroySampler(s.d.dev, s.splr, nil)
	}
	*s = sampler{}
}
