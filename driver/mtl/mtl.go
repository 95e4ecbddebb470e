// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Package mtl translates driver descriptions into Metal
// terms.
//
// Metal applies much of the fixed-function state on the
// render command encoder rather than on the pipeline, so
// the planned pipelines carry that state separately and
// the Encoder type, which records driver commands as
// encoder calls, applies it when a pipeline is bound.
// The values of the native enumerators match those of
// the Metal framework.
package mtl

// PixelFormat is an MTLPixelFormat value.
type PixelFormat uint

// Pixel formats.
const (
	PixelFormatInvalid              PixelFormat = 0
	PixelFormatR8Unorm              PixelFormat = 10
	PixelFormatR16Unorm             PixelFormat = 20
	PixelFormatR16Float             PixelFormat = 25
	PixelFormatRG8Unorm             PixelFormat = 30
	PixelFormatR32Uint              PixelFormat = 53
	PixelFormatR32Float             PixelFormat = 55
	PixelFormatRG16Unorm            PixelFormat = 60
	PixelFormatRG16Float            PixelFormat = 65
	PixelFormatRGBA8Unorm           PixelFormat = 70
	PixelFormatBGRA8Unorm           PixelFormat = 80
	PixelFormatRG32Uint             PixelFormat = 103
	PixelFormatRG32Float            PixelFormat = 105
	PixelFormatRGBA16Unorm          PixelFormat = 110
	PixelFormatRGBA16Float          PixelFormat = 115
	PixelFormatRGBA32Uint           PixelFormat = 123
	PixelFormatRGBA32Float          PixelFormat = 125
	PixelFormatDepth16Unorm         PixelFormat = 250
	PixelFormatDepth32Float         PixelFormat = 252
	PixelFormatStencil8             PixelFormat = 253
	PixelFormatDepth24UnormStencil8 PixelFormat = 255
	PixelFormatDepth32FloatStencil8 PixelFormat = 260
)

// VertexFormat is an MTLVertexFormat value.
type VertexFormat uint

// Vertex formats.
const (
	VertexFormatInvalid              VertexFormat = 0
	VertexFormatUChar2Normalized     VertexFormat = 7
	VertexFormatUChar3Normalized     VertexFormat = 8
	VertexFormatUChar4Normalized     VertexFormat = 9
	VertexFormatUShort2Normalized    VertexFormat = 19
	VertexFormatUShort3Normalized    VertexFormat = 20
	VertexFormatUShort4Normalized    VertexFormat = 21
	VertexFormatHalf2                VertexFormat = 25
	VertexFormatHalf3                VertexFormat = 26
	VertexFormatHalf4                VertexFormat = 27
	VertexFormatFloat                VertexFormat = 28
	VertexFormatFloat2               VertexFormat = 29
	VertexFormatFloat3               VertexFormat = 30
	VertexFormatFloat4               VertexFormat = 31
	VertexFormatUInt                 VertexFormat = 36
	VertexFormatUInt2                VertexFormat = 37
	VertexFormatUInt3                VertexFormat = 38
	VertexFormatUInt4                VertexFormat = 39
	VertexFormatUChar4NormalizedBGRA VertexFormat = 42
	VertexFormatUCharNormalized      VertexFormat = 47
	VertexFormatUShortNormalized     VertexFormat = 51
	VertexFormatHalf                 VertexFormat = 53
)

// VertexStepFunction is an MTLVertexStepFunction value.
type VertexStepFunction uint

// Vertex step functions.
const (
	StepFunctionConstant    VertexStepFunction = 0
	StepFunctionPerVertex   VertexStepFunction = 1
	StepFunctionPerInstance VertexStepFunction = 2
)

// BlendFactor is an MTLBlendFactor value.
type BlendFactor uint

// Blend factors.
const (
	BlendFactorZero                     BlendFactor = 0
	BlendFactorOne                      BlendFactor = 1
	BlendFactorSourceColor              BlendFactor = 2
	BlendFactorOneMinusSourceColor      BlendFactor = 3
	BlendFactorSourceAlpha              BlendFactor = 4
	BlendFactorOneMinusSourceAlpha      BlendFactor = 5
	BlendFactorDestinationColor         BlendFactor = 6
	BlendFactorOneMinusDestinationColor BlendFactor = 7
	BlendFactorDestinationAlpha         BlendFactor = 8
	BlendFactorOneMinusDestinationAlpha BlendFactor = 9
	BlendFactorSourceAlphaSaturated     BlendFactor = 10
	BlendFactorBlendColor               BlendFactor = 11
	BlendFactorOneMinusBlendColor       BlendFactor = 12
	BlendFactorBlendAlpha               BlendFactor = 13
	BlendFactorOneMinusBlendAlpha       BlendFactor = 14
	BlendFactorSource1Color             BlendFactor = 15
	BlendFactorOneMinusSource1Color     BlendFactor = 16
	BlendFactorSource1Alpha             BlendFactor = 17
	BlendFactorOneMinusSource1Alpha     BlendFactor = 18
)

// BlendOperation is an MTLBlendOperation value.
type BlendOperation uint

// Blend operations.
const (
	BlendOperationAdd             BlendOperation = 0
	BlendOperationSubtract        BlendOperation = 1
	BlendOperationReverseSubtract BlendOperation = 2
	BlendOperationMin             BlendOperation = 3
	BlendOperationMax             BlendOperation = 4
)

// ColorWriteMask is an MTLColorWriteMask value.
// Its bits are in the reverse order of those of
// driver.ColorMask.
type ColorWriteMask uint

// Color write masks.
const (
	ColorWriteMaskNone  ColorWriteMask = 0
	ColorWriteMaskAlpha ColorWriteMask = 1
	ColorWriteMaskBlue  ColorWriteMask = 2
	ColorWriteMaskGreen ColorWriteMask = 4
	ColorWriteMaskRed   ColorWriteMask = 8
	ColorWriteMaskAll   ColorWriteMask = 15
)

// CompareFunction is an MTLCompareFunction value.
type CompareFunction uint

// Compare functions.
const (
	CompareFunctionNever        CompareFunction = 0
	CompareFunctionLess         CompareFunction = 1
	CompareFunctionEqual        CompareFunction = 2
	CompareFunctionLessEqual    CompareFunction = 3
	CompareFunctionGreater      CompareFunction = 4
	CompareFunctionNotEqual     CompareFunction = 5
	CompareFunctionGreaterEqual CompareFunction = 6
	CompareFunctionAlways       CompareFunction = 7
)

// StencilOperation is an MTLStencilOperation value.
type StencilOperation uint

// Stencil operations.
const (
	StencilOperationKeep           StencilOperation = 0
	StencilOperationZero           StencilOperation = 1
	StencilOperationReplace        StencilOperation = 2
	StencilOperationIncrementClamp StencilOperation = 3
	StencilOperationDecrementClamp StencilOperation = 4
	StencilOperationInvert         StencilOperation = 5
	StencilOperationIncrementWrap  StencilOperation = 6
	StencilOperationDecrementWrap  StencilOperation = 7
)

// TriangleFillMode is an MTLTriangleFillMode value.
type TriangleFillMode uint

// Triangle fill modes.
const (
	TriangleFillModeFill  TriangleFillMode = 0
	TriangleFillModeLines TriangleFillMode = 1
)

// CullMode is an MTLCullMode value.
type CullMode uint

// Cull modes.
const (
	CullModeNone  CullMode = 0
	CullModeFront CullMode = 1
	CullModeBack  CullMode = 2
)

// Winding is an MTLWinding value.
type Winding uint

// Windings.
const (
	WindingClockwise        Winding = 0
	WindingCounterClockwise Winding = 1
)

// DepthClipMode is an MTLDepthClipMode value.
type DepthClipMode uint

// Depth clip modes.
const (
	DepthClipModeClip  DepthClipMode = 0
	DepthClipModeClamp DepthClipMode = 1
)

// PrimitiveType is an MTLPrimitiveType value.
type PrimitiveType uint

// Primitive types.
const (
	PrimitiveTypePoint         PrimitiveType = 0
	PrimitiveTypeLine          PrimitiveType = 1
	PrimitiveTypeLineStrip     PrimitiveType = 2
	PrimitiveTypeTriangle      PrimitiveType = 3
	PrimitiveTypeTriangleStrip PrimitiveType = 4
)

// PrimitiveTopologyClass is an MTLPrimitiveTopologyClass
// value.
type PrimitiveTopologyClass uint

// Primitive topology classes.
const (
	TopologyClassUnspecified PrimitiveTopologyClass = 0
	TopologyClassPoint       PrimitiveTopologyClass = 1
	TopologyClassLine        PrimitiveTopologyClass = 2
	TopologyClassTriangle    PrimitiveTopologyClass = 3
)

// IndexType is an MTLIndexType value.
type IndexType uint

// Index types.
const (
	IndexTypeUInt16 IndexType = 0
	IndexTypeUInt32 IndexType = 1
)

// SamplerAddressMode is an MTLSamplerAddressMode value.
type SamplerAddressMode uint

// Sampler address modes.
const (
	AddressModeClampToEdge       SamplerAddressMode = 0
	AddressModeMirrorClampToEdge SamplerAddressMode = 1
	AddressModeRepeat            SamplerAddressMode = 2
	AddressModeMirrorRepeat      SamplerAddressMode = 3
	AddressModeClampToZero       SamplerAddressMode = 4
	AddressModeClampToBorder     SamplerAddressMode = 5
)

// SamplerMinMagFilter is an MTLSamplerMinMagFilter value.
type SamplerMinMagFilter uint

// Min/mag filters.
const (
	MinMagFilterNearest SamplerMinMagFilter = 0
	MinMagFilterLinear  SamplerMinMagFilter = 1
)

// SamplerMipFilter is an MTLSamplerMipFilter value.
type SamplerMipFilter uint

// Mip filters.
const (
	MipFilterNotMipmapped SamplerMipFilter = 0
	MipFilterNearest      SamplerMipFilter = 1
	MipFilterLinear       SamplerMipFilter = 2
)

// SamplerBorderColor is an MTLSamplerBorderColor value.
type SamplerBorderColor uint

// Border colors.
const (
	BorderColorTransparentBlack SamplerBorderColor = 0
	BorderColorOpaqueBlack      SamplerBorderColor = 1
	BorderColorOpaqueWhite      SamplerBorderColor = 2
)

// TextureType is an MTLTextureType value.
type TextureType uint

// Texture types.
const (
	TextureType1D            TextureType = 0
	TextureType1DArray       TextureType = 1
	TextureType2D            TextureType = 2
	TextureType2DArray       TextureType = 3
	TextureType2DMultisample TextureType = 4
	TextureTypeCube          TextureType = 5
	TextureTypeCubeArray     TextureType = 6
	TextureType3D            TextureType = 7
)

// TextureUsage is an MTLTextureUsage mask.
type TextureUsage uint

// Texture usages.
const (
	TextureUsageUnknown         TextureUsage = 0
	TextureUsageShaderRead      TextureUsage = 1
	TextureUsageShaderWrite     TextureUsage = 2
	TextureUsageRenderTarget    TextureUsage = 4
	TextureUsagePixelFormatView TextureUsage = 16
)

// StorageMode is an MTLStorageMode value.
type StorageMode uint

// Storage modes.
const (
	StorageModeShared     StorageMode = 0
	StorageModeManaged    StorageMode = 1
	StorageModePrivate    StorageMode = 2
	StorageModeMemoryless StorageMode = 3
)

// ResourceOptions is an MTLResourceOptions mask.
type ResourceOptions uint

// Resource options.
const (
	ResourceCPUCacheModeDefaultCache  ResourceOptions = 0
	ResourceCPUCacheModeWriteCombined ResourceOptions = 1
	// Storage mode options are the StorageMode values
	// shifted by resourceStorageModeShift.
	resourceStorageModeShift = 4
)

// LoadAction is an MTLLoadAction value.
type LoadAction uint

// Load actions.
const (
	LoadActionDontCare LoadAction = 0
	LoadActionLoad     LoadAction = 1
	LoadActionClear    LoadAction = 2
)

// StoreAction is an MTLStoreAction value.
type StoreAction uint

// Store actions.
const (
	StoreActionDontCare                   StoreAction = 0
	StoreActionStore                      StoreAction = 1
	StoreActionMultisampleResolve         StoreAction = 2
	StoreActionStoreAndMultisampleResolve StoreAction = 3
)

// DataType is an MTLDataType value, as used in argument
// descriptors.
type DataType uint

// Argument data types.
const (
	DataTypeTexture DataType = 58
	DataTypeSampler DataType = 59
	DataTypePointer DataType = 60
)

// BindingAccess is an MTLBindingAccess value.
type BindingAccess uint

// Binding accesses.
const (
	BindingAccessReadOnly  BindingAccess = 0
	BindingAccessReadWrite BindingAccess = 1
	BindingAccessWriteOnly BindingAccess = 2
)

// ResourceUsage is an MTLResourceUsage mask.
type ResourceUsage uint

// Resource usages.
const (
	ResourceUsageRead  ResourceUsage = 1
	ResourceUsageWrite ResourceUsage = 2
)

// RenderStages is an MTLRenderStages mask.
type RenderStages uint

// Render stages.
const (
	RenderStageVertex   RenderStages = 1
	RenderStageFragment RenderStages = 2
)

// MaxColorAttachments is the number of color attachments
// of Metal render pass and pipeline descriptors.
const MaxColorAttachments = 8

// MaxBufferArguments is the number of entries in the
// buffer argument table of each stage.
const MaxBufferArguments = 31
