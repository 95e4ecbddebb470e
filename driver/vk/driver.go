// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Package vk implements driver interfaces using the Vulkan API.
package vk

import (
	"errors"
	"math/bits"
	"slices"
	"sync"
	"unsafe"

	vk "github.com/goki/vulkan"

	"gviegas/gp3d/driver"
	"gviegas/gp3d/wsi"
)

const driverName = "vulkan"

const validationLayer = "VK_LAYER_KHRONOS_validation"

// Driver implements driver.Driver and driver.GPU.
type Driver struct {
	inst  vk.Instance
	pdev  vk.PhysicalDevice
	dname string
	dvers uint32
	dev   vk.Device
	que   vk.Queue
	qfam  uint32

	// Queue submission requires that the queue handle
	// be externally synchronized.
	qmu sync.Mutex

	// Pool and fence for one-shot commands (uploads).
	umu   sync.Mutex
	upool vk.CommandPool
	ufen  vk.Fence

	// Whether the swapchain extension is enabled.
	swapchain bool
	debug     bool

	// Used device memory, indexed by heap indices.
	mused []int64
	mprop vk.PhysicalDeviceMemoryProperties

	// Enabled features.
	feat vk.PhysicalDeviceFeatures

	// Limits of pdev.
	lim driver.Limits
}

func init() {
	driver.Register(&Driver{})
}

// safeString returns s terminated by a null byte, as
// the binding expects for every string passed to the
// API.
func safeString(s string) string {
	if len(s) > 0 && s[len(s)-1] == 0 {
		return s
	}
	return s + "\x00"
}

func safeStrings(ss []string) []string {
	r := make([]string, len(ss))
	for i, s := range ss {
		r[i] = safeString(s)
	}
	return r
}

// loadProcs loads the global procs.
func loadProcs() error {
	if p, err := wsi.VulkanProcAddr(); err == nil && p != nil {
		vk.SetGetInstanceProcAddr(p)
	} else if err := vk.SetDefaultGetInstanceProcAddr(); err != nil {
		driver.Logger().Debug("vulkan loader not found", "err", err)
		return driver.ErrNotInstalled
	}
	if err := vk.Init(); err != nil {
		driver.Logger().Debug("vulkan init failed", "err", err)
		return driver.ErrNotInstalled
	}
	return nil
}

// instanceExts returns the names of the available instance
// extensions.
func instanceExts() ([]string, error) {
	var n uint32
	if err := checkResult(vk.EnumerateInstanceExtensionProperties("", &n, nil)); err != nil {
		return nil, err
	}
	props := make([]vk.ExtensionProperties, n)
	if err := checkResult(vk.EnumerateInstanceExtensionProperties("", &n, props)); err != nil {
		return nil, err
	}
	names := make([]string, 0, n)
	for _, p := range props[:n] {
		p.Deref()
		names = append(names, vk.ToString(p.ExtensionName[:]))
	}
	return names, nil
}

// instanceLayers returns the names of the available
// instance layers.
func instanceLayers() ([]string, error) {
	var n uint32
	if err := checkResult(vk.EnumerateInstanceLayerProperties(&n, nil)); err != nil {
		return nil, err
	}
	props := make([]vk.LayerProperties, n)
	if err := checkResult(vk.EnumerateInstanceLayerProperties(&n, props)); err != nil {
		return nil, err
	}
	names := make([]string, 0, n)
	for _, p := range props[:n] {
		p.Deref()
		names = append(names, vk.ToString(p.LayerName[:]))
	}
	return names, nil
}

// deviceExts returns the names of the extensions that dev
// supports.
func deviceExts(dev vk.PhysicalDevice) ([]string, error) {
	var n uint32
	if err := checkResult(vk.EnumerateDeviceExtensionProperties(dev, "", &n, nil)); err != nil {
		return nil, err
	}
	props := make([]vk.ExtensionProperties, n)
	if err := checkResult(vk.EnumerateDeviceExtensionProperties(dev, "", &n, props)); err != nil {
		return nil, err
	}
	names := make([]string, 0, n)
	for _, p := range props[:n] {
		p.Deref()
		names = append(names, vk.ToString(p.ExtensionName[:]))
	}
	return names, nil
}

// initInstance initializes the Vulkan instance.
// Surface extensions are enabled if the platform
// requires them and the instance exposes them.
func (d *Driver) initInstance() error {
	avail, err := instanceExts()
	if err != nil {
		return err
	}
	var exts []string
	for _, e := range wsi.VulkanInstanceExtensions() {
		if slices.Contains(avail, e) {
			exts = append(exts, e)
		} else {
			driver.Logger().Warn("instance extension not present", "name", e)
		}
	}
	var layers []string
	if d.debug {
		if ls, err := instanceLayers(); err == nil && slices.Contains(ls, validationLayer) {
			layers = append(layers, validationLayer)
		} else {
			driver.Logger().Warn("validation layer not present", "name", validationLayer)
		}
	}
	info := vk.InstanceCreateInfo{
		SType: vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo: &vk.ApplicationInfo{
			SType:            vk.StructureTypeApplicationInfo,
			PApplicationName: safeString(wsi.AppName()),
			PEngineName:      "gp3d\x00",
			ApiVersion:       vk.MakeVersion(1, 0, 0),
		},
		EnabledExtensionCount:   uint32(len(exts)),
		PpEnabledExtensionNames: safeStrings(exts),
		EnabledLayerCount:       uint32(len(layers)),
		PpEnabledLayerNames:     safeStrings(layers),
	}
	var inst vk.Instance
	if err := checkResult(vk.CreateInstance(&info, nil, &inst)); err != nil {
		return err
	}
	d.inst = inst
	if err := vk.InitInstance(inst); err != nil {
		return err
	}
	return nil
}

// initDevice initializes the Vulkan device.
func (d *Driver) initDevice() error {
	var n uint32
	if err := checkResult(vk.EnumeratePhysicalDevices(d.inst, &n, nil)); err != nil {
		return err
	}
	// vkEnumeratePhysicalDevices need not expose any
	// devices at all.
	if n == 0 {
		return driver.ErrNoDevice
	}
	devs := make([]vk.PhysicalDevice, n)
	if err := checkResult(vk.EnumeratePhysicalDevices(d.inst, &n, devs)); err != nil {
		return err
	}

	// Select a suitable physical device to use. The bare minimum is a
	// device with a queue supporting graphics operations. Ideally, the
	// device will be capable of creating swapchains and be
	// hardware-accelerated.
	weight := 0
	for _, dev := range devs[:n] {
		var props vk.PhysicalDeviceProperties
		vk.GetPhysicalDeviceProperties(dev, &props)
		props.Deref()
		if isVariant(props.ApiVersion) {
			// Do not support variants.
			continue
		}
		var nq uint32
		vk.GetPhysicalDeviceQueueFamilyProperties(dev, &nq, nil)
		qprops := make([]vk.QueueFamilyProperties, nq)
		vk.GetPhysicalDeviceQueueFamilyProperties(dev, &nq, qprops)
		fam := -1
		for i := range qprops[:nq] {
			qprops[i].Deref()
			if qprops[i].QueueFlags&vk.QueueFlags(vk.QueueGraphicsBit) != 0 {
				fam = i
				break
			}
		}
		if fam == -1 {
			continue
		}
		wgt := 1
		switch props.DeviceType {
		case vk.PhysicalDeviceTypeIntegratedGpu, vk.PhysicalDeviceTypeDiscreteGpu:
			wgt++
		}
		sc := false
		if exts, err := deviceExts(dev); err == nil && slices.Contains(exts, vk.KhrSwapchainExtensionName) {
			sc = true
			wgt += 2
		}
		if wgt > weight {
			d.pdev = dev
			d.dname = vk.ToString(props.DeviceName[:])
			d.dvers = props.ApiVersion
			d.qfam = uint32(fam)
			d.swapchain = sc
			props.Limits.Deref()
			d.setLimits(&props.Limits)
			weight = wgt
		}
	}
	if weight == 0 {
		// None of the exposed devices will suffice.
		return driver.ErrNoDevice
	}
	vk.GetPhysicalDeviceMemoryProperties(d.pdev, &d.mprop)
	d.mprop.Deref()
	for i := range d.mprop.MemoryTypes[:d.mprop.MemoryTypeCount] {
		d.mprop.MemoryTypes[i].Deref()
	}
	d.mused = make([]int64, d.mprop.MemoryHeapCount)
	d.setFeatures()

	var exts []string
	if d.swapchain {
		exts = append(exts, vk.KhrSwapchainExtensionName)
	}
	info := vk.DeviceCreateInfo{
		SType:                vk.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount: 1,
		PQueueCreateInfos: []vk.DeviceQueueCreateInfo{{
			SType:            vk.StructureTypeDeviceQueueCreateInfo,
			QueueFamilyIndex: d.qfam,
			QueueCount:       1,
			PQueuePriorities: []float32{1},
		}},
		EnabledExtensionCount:   uint32(len(exts)),
		PpEnabledExtensionNames: safeStrings(exts),
		PEnabledFeatures:        []vk.PhysicalDeviceFeatures{d.feat},
	}
	var dev vk.Device
	if err := checkResult(vk.CreateDevice(d.pdev, &info, nil, &dev)); err != nil {
		return err
	}
	d.dev = dev
	var que vk.Queue
	vk.GetDeviceQueue(d.dev, d.qfam, 0, &que)
	d.que = que
	driver.Logger().Info("vulkan device selected", "name", d.dname, "swapchain", d.swapchain)
	return nil
}

// setLimits sets d.lim.
func (d *Driver) setLimits(lim *vk.PhysicalDeviceLimits) {
	samples := lim.FramebufferColorSampleCounts & lim.FramebufferDepthSampleCounts
	d.lim = driver.Limits{
		MaxTexture1D:        int(lim.MaxImageDimension1D),
		MaxTexture2D:        int(lim.MaxImageDimension2D),
		MaxTextureCube:      int(lim.MaxImageDimensionCube),
		MaxTexture3D:        int(lim.MaxImageDimension3D),
		MaxColorAttachments: min(int(lim.MaxColorAttachments), driver.MaxColorAttachments),
		MaxSamples:          1 << (bits.Len32(uint32(samples)|1) - 1),
		MaxDescHeap: min(
			int(lim.MaxDescriptorSetUniformBuffers)+int(lim.MaxDescriptorSetSampledImages),
			int(lim.MaxDescriptorSetSamplers),
		),
		MaxAnisotropy: int(lim.MaxSamplerAnisotropy),
		MaxPassSize:   [2]int{int(lim.MaxFramebufferWidth), int(lim.MaxFramebufferHeight)},
	}
}

// setFeatures chooses which features to enable.
// Only the ones that the pipeline and sampler states can
// make use of are considered.
func (d *Driver) setFeatures() {
	var fq vk.PhysicalDeviceFeatures
	vk.GetPhysicalDeviceFeatures(d.pdev, &fq)
	fq.Deref()
	d.feat = vk.PhysicalDeviceFeatures{
		GeometryShader:     fq.GeometryShader,
		TessellationShader: fq.TessellationShader,
		DualSrcBlend:       fq.DualSrcBlend,
		DepthClamp:         fq.DepthClamp,
		DepthBiasClamp:     fq.DepthBiasClamp,
		FillModeNonSolid:   fq.FillModeNonSolid,
		DepthBounds:        fq.DepthBounds,
		WideLines:          fq.WideLines,
		SamplerAnisotropy:  fq.SamplerAnisotropy,
	}
	if fq.SamplerAnisotropy != vk.True {
		d.lim.MaxAnisotropy = 1
	}
}

// initUpload creates the objects used by oneShot.
func (d *Driver) initUpload() error {
	info := vk.CommandPoolCreateInfo{
		SType:            vk.StructureTypeCommandPoolCreateInfo,
		Flags:            vk.CommandPoolCreateFlags(vk.CommandPoolCreateTransientBit),
		QueueFamilyIndex: d.qfam,
	}
	var pool vk.CommandPool
	if err := checkResult(vk.CreateCommandPool(d.dev, &info, nil, &pool)); err != nil {
		return err
	}
	d.upool = pool
	finfo := vk.FenceCreateInfo{SType: vk.StructureTypeFenceCreateInfo}
	var fen vk.Fence
	if err := checkResult(vk.CreateFence(d.dev, &finfo, nil, &fen)); err != nil {
		return err
	}
	d.ufen = fen
	return nil
}

// oneShot records commands using rec and executes them,
// blocking until execution completes.
func (d *Driver) oneShot(rec func(cb vk.CommandBuffer)) error {
	d.umu.Lock()
	defer d.umu.Unlock()
	cbs := make([]vk.CommandBuffer, 1)
	info := vk.CommandBufferAllocateInfo{
		SType:              vk.StructureTypeCommandBufferAllocateInfo,
		CommandPool:        d.upool,
		Level:              vk.CommandBufferLevelPrimary,
		CommandBufferCount: 1,
	}
	if err := checkResult(vk.AllocateCommandBuffers(d.dev, &info, cbs)); err != nil {
		return err
	}
	defer vk.FreeCommandBuffers(d.dev, d.upool, 1, cbs)
	binfo := vk.CommandBufferBeginInfo{
		SType: vk.StructureTypeCommandBufferBeginInfo,
		Flags: vk.CommandBufferUsageFlags(vk.CommandBufferUsageOneTimeSubmitBit),
	}
	if err := checkResult(vk.BeginCommandBuffer(cbs[0], &binfo)); err != nil {
		return err
	}
	rec(cbs[0])
	if err := checkResult(vk.EndCommandBuffer(cbs[0])); err != nil {
		return err
	}
	if err := checkResult(vk.ResetFences(d.dev, 1, []vk.Fence{d.ufen})); err != nil {
		return err
	}
	sinfo := []vk.SubmitInfo{{
		SType:              vk.StructureTypeSubmitInfo,
		CommandBufferCount: 1,
		PCommandBuffers:    cbs,
	}}
	d.qmu.Lock()
	err := checkResult(vk.QueueSubmit(d.que, 1, sinfo, d.ufen))
	d.qmu.Unlock()
	if err != nil {
		return err
	}
	return checkResult(vk.WaitForFences(d.dev, 1, []vk.Fence{d.ufen}, vk.True, vk.MaxUint64))
}

// Open initializes the driver.
func (d *Driver) Open() (gpu driver.GPU, err error) {
	if d.dev != nil {
		return d, nil
	}
	if err = loadProcs(); err != nil {
		goto fail
	}
	if err = d.initInstance(); err != nil {
		goto fail
	}
	if err = d.initDevice(); err != nil {
		goto fail
	}
	if err = d.initUpload(); err != nil {
		goto fail
	}
	return d, nil
fail:
	driver.Logger().Error("vulkan driver failed to open", "err", err)
	d.Close()
	return nil, err
}

// Name returns the driver name.
func (d *Driver) Name() string { return driverName }

// SetDebug enables the validation layer when on is true.
// It must be called before Open.
func (d *Driver) SetDebug(on bool) { d.debug = on }

// Close deinitializes the driver.
func (d *Driver) Close() {
	if d == nil {
		return
	}
	if d.inst != nil {
		if d.dev != nil {
			vk.DeviceWaitIdle(d.dev)
			if d.ufen != nil {
				vk.DestroyFence(d.dev, d.ufen, nil)
			}
			if d.upool != nil {
				vk.DestroyCommandPool(d.dev, d.upool, nil)
			}
			vk.DestroyDevice(d.dev, nil)
		}
		vk.DestroyInstance(d.inst, nil)
	}
	debug := d.debug
	*d = Driver{debug: debug}
}

// memory represents a device memory allocation.
type memory struct {
	d     *Driver
	size  int64
	vis   bool
	bound bool
	p     []byte
	mem   vk.DeviceMemory
	typ   int
	heap  int
}

// selectMemory selects a suitable memory type from the device.
// It returns the index of the selected memory, or -1 if none suffices.
func (d *Driver) selectMemory(typeBits uint32, prop vk.MemoryPropertyFlags) int {
	for i := 0; i < int(d.mprop.MemoryTypeCount); i++ {
		if 1<<i&typeBits != 0 {
			flags := d.mprop.MemoryTypes[i].PropertyFlags
			if flags&prop == prop {
				return i
			}
		}
	}
	return -1
}

// newMemory creates a new memory allocation.
func (d *Driver) newMemory(req vk.MemoryRequirements, visible bool) (*memory, error) {
	prop := vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit)
	if visible {
		prop |= vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit | vk.MemoryPropertyHostCoherentBit)
	}

	typ := d.selectMemory(req.MemoryTypeBits, prop)
	if typ == -1 {
		// Device-local memory is desired but not required.
		prop &^= vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit)
		typ = d.selectMemory(req.MemoryTypeBits, prop)
	}
	if typ == -1 {
		return nil, errors.New("vk: no suitable memory type found")
	}

	info := vk.MemoryAllocateInfo{
		SType:           vk.StructureTypeMemoryAllocateInfo,
		AllocationSize:  req.Size,
		MemoryTypeIndex: uint32(typ),
	}
	var mem vk.DeviceMemory
	if err := checkResult(vk.AllocateMemory(d.dev, &info, nil, &mem)); err != nil {
		return nil, err
	}
	heap := int(d.mprop.MemoryTypes[typ].HeapIndex)
	d.mused[heap] += int64(req.Size)

	return &memory{
		d:    d,
		size: int64(req.Size),
		vis:  visible,
		mem:  mem,
		typ:  typ,
		heap: heap,
	}, nil
}

// mmap maps the memory for host access.
// The memory must be host visible (m.vis) and must have been bound to a
// resource (m.bound).
func (m *memory) mmap() error {
	if !m.vis {
		panic("cannot map memory that is not host visible")
	}
	if !m.bound {
		panic("cannot map memory that is not bound to a resource")
	}
	if len(m.p) == 0 {
		var p unsafe.Pointer
		if err := checkResult(vk.MapMemory(m.d.dev, m.mem, 0, vk.DeviceSize(vk.WholeSize), 0, &p)); err != nil {
			return err
		}
		m.p = unsafe.Slice((*byte)(p), m.size)
	}
	return nil
}

// unmap unmaps the memory.
func (m *memory) unmap() {
	if len(m.p) != 0 {
		vk.UnmapMemory(m.d.dev, m.mem)
		m.p = nil
	}
}

// free deallocates and invalidates the memory.
func (m *memory) free() {
	if m == nil {
		return
	}
	if m.d != nil {
		m.unmap()
		vk.FreeMemory(m.d.dev, m.mem, nil)
		m.d.mused[m.heap] -= m.size
	}
	*m = memory{}
}

// Driver returns the receiver (for driver.GPU conformance).
func (d *Driver) Driver() driver.Driver { return d }

// Limits returns the implementation limits.
func (d *Driver) Limits() driver.Limits { return d.lim }

// WaitIdle blocks until the device is idle.
func (d *Driver) WaitIdle() error {
	d.qmu.Lock()
	defer d.qmu.Unlock()
	return checkResult(vk.DeviceWaitIdle(d.dev))
}

// checkResult returns an error derived from a vk.Result value.
// If such value does not indicate an error, it returns nil instead.
func checkResult(res vk.Result) error {
	if res >= 0 {
		// Not an error: VK_ERROR_* values are all negative.
		return nil
	}
	switch res {
	case vk.ErrorOutOfHostMemory:
		return errNoHostMemory
	case vk.ErrorOutOfDeviceMemory:
		return errNoDeviceMemory
	case vk.ErrorInitializationFailed:
		return errInitFailed
	case vk.ErrorDeviceLost:
		return errDeviceLost
	case vk.ErrorMemoryMapFailed:
		return errMMapFailed
	case vk.ErrorLayerNotPresent:
		return errNoLayer
	case vk.ErrorExtensionNotPresent:
		return errNoExtension
	case vk.ErrorFeatureNotPresent:
		return errNoFeature
	case vk.ErrorIncompatibleDriver:
		return errDriverCompat
	case vk.ErrorTooManyObjects:
		return errTooManyObjects
	case vk.ErrorFormatNotSupported:
		return errUnsupportedFormat
	case vk.ErrorFragmentedPool:
		return errFragmentedPool
	case vk.ErrorSurfaceLost:
		return errSurfaceLost
	case vk.ErrorNativeWindowInUse:
		return errWindowInUse
	case vk.ErrorOutOfDate:
		return errOutOfDate
	case vk.ErrorIncompatibleDisplay:
		return errDisplayCompat
	}
	return errUnknown
}

// Common Vulkan errors (VK_ERROR_*).
var (
	errNoHostMemory      = driver.ErrNoHostMemory
	errNoDeviceMemory    = driver.ErrNoDeviceMemory
	errInitFailed        = errors.New("vk: initialization failed")
	errDeviceLost        = driver.ErrFatal
	errMMapFailed        = errors.New("vk: memory map failed")
	errNoLayer           = errors.New("vk: layer not present")
	errNoExtension       = errors.New("vk: extension not present")
	errNoFeature         = errors.New("vk: feature not present")
	errDriverCompat      = errors.New("vk: incompatible driver")
	errTooManyObjects    = errors.New("vk: too many objects")
	errUnsupportedFormat = driver.ErrUnsupported
	errFragmentedPool    = errors.New("vk: fragmented pool")
	errUnknown           = errors.New("vk: unknown error")
	errSurfaceLost       = driver.ErrWindow
	errWindowInUse       = driver.ErrWindow
	errOutOfDate         = driver.ErrSwapchain
	errDisplayCompat     = errors.New("vk: incompatible display")
)

// DeviceName returns the name of the VkDevice that the driver
// is using.
func (d *Driver) DeviceName() string { return d.dname }

// DeviceVersion returns the version of the VkDevice that
// the driver is using.
func (d *Driver) DeviceVersion() (major, minor, patch int) {
	major = versionMajor(d.dvers)
	minor = versionMinor(d.dvers)
	patch = versionPatch(d.dvers)
	return
}

// versionMajor extracts the major version number from v.
// v must have been generated by VK_MAKE_API_VERSION.
func versionMajor(v uint32) int { return int(v >> 22 & 0x7f) }

// versionMinor extracts the minor version number from v.
// v must have been generated by VK_MAKE_API_VERSION.
func versionMinor(v uint32) int { return int(v >> 12 & 0x3ff) }

// versionPatch extracts the patch version number from v.
// v must have been generated by VK_MAKE_API_VERSION.
func versionPatch(v uint32) int { return int(v & 0xfff) }

// isVariant returns whether version v identifies a variant
// implementation of the Vulkan API.
// v must have been generated by VK_MAKE_API_VERSION.
func isVariant(v uint32) bool { return v>>29 != 0 }
