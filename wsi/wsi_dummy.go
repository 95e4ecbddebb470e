// Copyright 2022 Gustavo C. Viegas. All rights reserved.

//go:build nowsi

package wsi

import "unsafe"

func init() {
	newWindow = newWindowDummy
	dispatch = dispatchDummy
	setAppName = setAppNameDummy
	vulkanProcAddr = vulkanProcAddrDummy
	vulkanInstanceExts = func() []string { return nil }
	platform = None
}

func newWindowDummy(int, int, string) (Window, error) {
	return nil, ErrMissing
}

func vulkanProcAddrDummy() (unsafe.Pointer, error) {
	return nil, ErrMissing
}

func dispatchDummy()         {}
func setAppNameDummy(string) {}
