// SPDX-License-Identifier: Unlicense OR MIT

package d3d11

import (
	"math"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

type swapChainDesc struct {
	BufferDesc   modeDesc
	SampleDesc   sampleDesc
	BufferUsage  uint32
	BufferCount  uint32
	OutputWindow windows.Handle
	Windowed     uint32
	SwapEffect   uint32
	Flags        uint32
}

type sampleDesc struct {
	Count   uint32
	Quality uint32
}

type modeDesc struct {
	Width            uint32
	Height           uint32
	RefreshRate      rational
	Format           uint32
	ScanlineOrdering uint32
	Scaling          uint32
}

type rational struct {
	Numerator   uint32
	Denominator uint32
}

type texture2DDesc struct {
	Width          uint32
	Height         uint32
	MipLevels      uint32
	ArraySize      uint32
	Format         uint32
	SampleDesc     sampleDesc
	Usage          uint32
	BindFlags      uint32
	CPUAccessFlags uint32
	MiscFlags      uint32
}

type depthStencilViewDesc struct {
	Format        uint32
	ViewDimension uint32
	Flags         uint32
	MipSlice      uint32
}

type rect struct {
	Left, Top, Right, Bottom int32
}

type presentParameters struct {
	DirtyRectsCount uint32
	DirtyRects      *rect
	ScrollRect      *rect
	ScrollOffset    uintptr
}

type guid struct {
	Data1   uint32
	Data2   uint16
	Data3   uint16
	Data4_0 uint8
	Data4_1 uint8
	Data4_2 uint8
	Data4_3 uint8
	Data4_4 uint8
	Data4_5 uint8
	Data4_6 uint8
	Data4_7 uint8
}

type unknownVtbl struct {
	QueryInterface uintptr
	AddRef         uintptr
	Release        uintptr
}

type unknown struct {
	Vtbl *struct {
		unknownVtbl
	}
}

type dxgiObject struct {
	Vtbl *struct {
		unknownVtbl
		SetPrivateData          uintptr
		SetPrivateDataInterface uintptr
		GetPrivateData          uintptr
		GetParent               uintptr
	}
}

type dxgiDevice struct {
	Vtbl *struct {
		unknownVtbl
		SetPrivateData          uintptr
		SetPrivateDataInterface uintptr
		GetPrivateData          uintptr
		GetParent               uintptr
		GetAdapter              uintptr
		CreateSurface           uintptr
		QueryResourceResidency  uintptr
		SetGPUThreadPriority    uintptr
		GetGPUThreadPriority    uintptr
	}
}

type dxgiFactory struct {
	Vtbl *struct {
		unknownVtbl
		SetPrivateData          uintptr
		SetPrivateDataInterface uintptr
		GetPrivateData          uintptr
		GetParent               uintptr
		EnumAdapters            uintptr
		MakeWindowAssociation   uintptr
		GetWindowAssociation    uintptr
		CreateSwapChain         uintptr
		CreateSoftwareAdapter   uintptr
	}
}

type dxgiSwapChain struct {
	Vtbl *struct {
		unknownVtbl
		SetPrivateData          uintptr
		SetPrivateDataInterface uintptr
		GetPrivateData          uintptr
		GetParent               uintptr
		GetDevice               uintptr
		Present                 uintptr
		GetBuffer               uintptr
		SetFullscreenState      uintptr
		GetFullscreenState      uintptr
		GetDesc                 uintptr
		ResizeBuffers           uintptr
		ResizeTarget            uintptr
		GetContainingOutput     uintptr
		GetFrameStatistics      uintptr
		GetLastPresentCount     uintptr
	}
}

// dxgiSwapChain1 extends dxgiSwapChain with dirty rectangle
// presentation. DXGI 1.2 and later.
type dxgiSwapChain1 struct {
	Vtbl *struct {
		unknownVtbl
		SetPrivateData           uintptr
		SetPrivateDataInterface  uintptr
		GetPrivateData           uintptr
		GetParent                uintptr
		GetDevice                uintptr
		Present                  uintptr
		GetBuffer                uintptr
		SetFullscreenState       uintptr
		GetFullscreenState       uintptr
		GetDesc                  uintptr
		ResizeBuffers            uintptr
		ResizeTarget             uintptr
		GetContainingOutput      uintptr
		GetFrameStatistics       uintptr
		GetLastPresentCount      uintptr
		GetDesc1                 uintptr
		GetFullscreenDesc        uintptr
		GetHwnd                  uintptr
		GetCoreWindow            uintptr
		Present1                 uintptr
		IsTemporaryMonoSupported uintptr
		GetRestrictToOutput      uintptr
		SetBackgroundColor       uintptr
		GetBackgroundColor       uintptr
		SetRotation              uintptr
		GetRotation              uintptr
	}
}

type texture2D struct {
	Vtbl *struct {
		unknownVtbl
		GetDevice               uintptr
		GetPrivateData          uintptr
		SetPrivateData          uintptr
		SetPrivateDataInterface uintptr
		GetType                 uintptr
		SetEvictionPriority     uintptr
		GetEvictionPriority     uintptr
		GetDesc                 uintptr
	}
}

type renderTargetView struct {
	Vtbl *struct {
		unknownVtbl
	}
}

type depthStencilView struct {
	Vtbl *struct {
		unknownVtbl
	}
}

var (
	iidTexture2D      = guid{0x6f15aaf2, 0xd208, 0x4e89, 0x9a, 0xb4, 0x48, 0x95, 0x35, 0xd3, 0x4f, 0x9c}
	iidDXGIDevice     = guid{0x54ec77fa, 0x1377, 0x44e6, 0x8c, 0x32, 0x88, 0xfd, 0x5f, 0x44, 0xc8, 0x4c}
	iidDXGIFactory    = guid{0x7b7166ec, 0x21c7, 0x44ae, 0xb2, 0x1a, 0xc9, 0xae, 0x32, 0x1a, 0xe3, 0x69}
	iidDXGISwapChain1 = guid{0x790a45f7, 0x0d42, 0x4876, 0x98, 0x3a, 0x0a, 0x55, 0xcf, 0xe6, 0xf4, 0xaa}
)

var (
	d3d11DLL = windows.NewLazySystemDLL("d3d11.dll")

	_D3D11CreateDevice = d3d11DLL.NewProc("D3D11CreateDevice")
)

const (
	sdkVersion        = 7
	driverTypeHW      = 1
	driverTypeWARP    = 5
	createBGRA        = 0x20
	usageRenderOut    = 1 << (1 + 4)
	swapEffectDiscard = 0
	bindRenderTarget  = 0x20
	bindDepthStencil  = 0x40
	bindShaderRes     = 0x8
	miscShared        = 0x2
	dsvTexture2D      = 3
	clearDepth        = 0x1
	clearStencil      = 0x2
)

func createDevice(driverType uint32, flags uint32) (*device, *deviceContext, uint32, error) {
	var (
		dev     *device
		ctx     *deviceContext
		featLvl uint32
	)
	r, _, _ := _D3D11CreateDevice.Call(
		0,                                 // pAdapter
		uintptr(driverType),               // driverType
		0,                                 // Software
		uintptr(flags),                    // Flags
		0,                                 // pFeatureLevels
		0,                                 // FeatureLevels
		sdkVersion,                        // SDKVersion
		uintptr(unsafe.Pointer(&dev)),     // ppDevice
		uintptr(unsafe.Pointer(&featLvl)), // pFeatureLevel
		uintptr(unsafe.Pointer(&ctx)),     // ppImmediateContext
	)
	if r != 0 {
		return nil, nil, 0, ErrorCode{Name: "D3D11CreateDevice", Code: uint32(r)}
	}
	return dev, ctx, featLvl, nil
}

type device struct {
	Vtbl *struct {
		unknownVtbl
		CreateBuffer                         uintptr
		CreateTexture1D                      uintptr
		CreateTexture2D                      uintptr
		CreateTexture3D                      uintptr
		CreateShaderResourceView             uintptr
		CreateUnorderedAccessView            uintptr
		CreateRenderTargetView               uintptr
		CreateDepthStencilView               uintptr
		CreateInputLayout                    uintptr
		CreateVertexShader                   uintptr
		CreateGeometryShader                 uintptr
		CreateGeometryShaderWithStreamOutput uintptr
		CreatePixelShader                    uintptr
		CreateHullShader                     uintptr
		CreateDomainShader                   uintptr
		CreateComputeShader                  uintptr
		CreateClassLinkage                   uintptr
		CreateBlendState                     uintptr
		CreateDepthStencilState              uintptr
		CreateRasterizerState                uintptr
		CreateSamplerState                   uintptr
		CreateQuery                          uintptr
		CreatePredicate                      uintptr
		CreateCounter                        uintptr
		CreateDeferredContext                uintptr
		OpenSharedResource                   uintptr
		CheckFormatSupport                   uintptr
		CheckMultisampleQualityLevels        uintptr
		CheckCounterInfo                     uintptr
		CheckCounter                         uintptr
		CheckFeatureSupport                  uintptr
		GetPrivateData                       uintptr
		SetPrivateData                       uintptr
		SetPrivateDataInterface              uintptr
		GetFeatureLevel                      uintptr
		GetCreationFlags                     uintptr
		GetDeviceRemovedReason               uintptr
		GetImmediateContext                  uintptr
		SetExceptionMode                     uintptr
		GetExceptionMode                     uintptr
	}
}

type deviceContext struct {
	Vtbl *struct {
		unknownVtbl
		GetDevice                                 uintptr
		GetPrivateData                            uintptr
		SetPrivateData                            uintptr
		SetPrivateDataInterface                   uintptr
		VSSetConstantBuffers                      uintptr
		PSSetShaderResources                      uintptr
		PSSetShader                               uintptr
		PSSetSamplers                             uintptr
		VSSetShader                               uintptr
		DrawIndexed                               uintptr
		Draw                                      uintptr
		Map                                       uintptr
		Unmap                                     uintptr
		PSSetConstantBuffers                      uintptr
		IASetInputLayout                          uintptr
		IASetVertexBuffers                        uintptr
		IASetIndexBuffer                          uintptr
		DrawIndexedInstanced                      uintptr
		DrawInstanced                             uintptr
		GSSetConstantBuffers                      uintptr
		GSSetShader                               uintptr
		IASetPrimitiveTopology                    uintptr
		VSSetShaderResources                      uintptr
		VSSetSamplers                             uintptr
		Begin                                     uintptr
		End                                       uintptr
		GetData                                   uintptr
		SetPredication                            uintptr
		GSSetShaderResources                      uintptr
		GSSetSamplers                             uintptr
		OMSetRenderTargets                        uintptr
		OMSetRenderTargetsAndUnorderedAccessViews uintptr
		OMSetBlendState                           uintptr
		OMSetDepthStencilState                    uintptr
		SOSetTargets                              uintptr
		DrawAuto                                  uintptr
		DrawIndexedInstancedIndirect              uintptr
		DrawInstancedIndirect                     uintptr
		Dispatch                                  uintptr
		DispatchIndirect                          uintptr
		RSSetState                                uintptr
		RSSetViewports                            uintptr
		RSSetScissorRects                         uintptr
		CopySubresourceRegion                     uintptr
		CopyResource                              uintptr
		UpdateSubresource                         uintptr
		CopyStructureCount                        uintptr
		ClearRenderTargetView                     uintptr
		ClearUnorderedAccessViewUint              uintptr
		ClearUnorderedAccessViewFloat             uintptr
		ClearDepthStencilView                     uintptr
		GenerateMips                              uintptr
		SetResourceMinLOD                         uintptr
		GetResourceMinLOD                         uintptr
		ResolveSubresource                        uintptr
		ExecuteCommandList                        uintptr
		HSSetShaderResources                      uintptr
		HSSetShader                               uintptr
		HSSetSamplers                             uintptr
		HSSetConstantBuffers                      uintptr
		DSSetShaderResources                      uintptr
		DSSetShader                               uintptr
		DSSetSamplers                             uintptr
		DSSetConstantBuffers                      uintptr
		CSSetShaderResources                      uintptr
		CSSetUnorderedAccessViews                 uintptr
		CSSetShader                               uintptr
		CSSetSamplers                             uintptr
		CSSetConstantBuffers                      uintptr
		VSGetConstantBuffers                      uintptr
		PSGetShaderResources                      uintptr
		PSGetShader                               uintptr
		PSGetSamplers                             uintptr
		VSGetShader                               uintptr
		PSGetConstantBuffers                      uintptr
		IAGetInputLayout                          uintptr
		IAGetVertexBuffers                        uintptr
		IAGetIndexBuffer                          uintptr
		GSGetConstantBuffers                      uintptr
		GSGetShader                               uintptr
		IAGetPrimitiveTopology                    uintptr
		VSGetShaderResources                      uintptr
		VSGetSamplers                             uintptr
		GetPredication                            uintptr
		GSGetShaderResources                      uintptr
		GSGetSamplers                             uintptr
		OMGetRenderTargets                        uintptr
		OMGetRenderTargetsAndUnorderedAccessViews uintptr
		OMGetBlendState                           uintptr
		OMGetDepthStencilState                    uintptr
		SOGetTargets                              uintptr
		RSGetState                                uintptr
		RSGetViewports                            uintptr
		RSGetScissorRects                         uintptr
		HSGetShaderResources                      uintptr
		HSGetShader                               uintptr
		HSGetSamplers                             uintptr
		HSGetConstantBuffers                      uintptr
		DSGetShaderResources                      uintptr
		DSGetShader                               uintptr
		DSGetSamplers                             uintptr
		DSGetConstantBuffers                      uintptr
		CSGetShaderResources                      uintptr
		CSGetUnorderedAccessViews                 uintptr
		CSGetShader                               uintptr
		CSGetSamplers                             uintptr
		CSGetConstantBuffers                      uintptr
		ClearState                                uintptr
		Flush                                     uintptr
		GetType                                   uintptr
		GetContextFlags                           uintptr
		FinishCommandList                         uintptr
	}
}

func (d *device) CreateTexture2D(desc *texture2DDesc) (*texture2D, error) {
	var tex *texture2D
	r, _, _ := syscall.SyscallN(
		d.Vtbl.CreateTexture2D,
		uintptr(unsafe.Pointer(d)),
		uintptr(unsafe.Pointer(desc)),
		0, // pInitialData
		uintptr(unsafe.Pointer(&tex)),
	)
	if r != 0 {
		return nil, ErrorCode{Name: "CreateTexture2D", Code: uint32(r)}
	}
	return tex, nil
}

func (d *device) CreateRenderTargetView(res *unknown) (*renderTargetView, error) {
	var target *renderTargetView
	r, _, _ := syscall.SyscallN(
		d.Vtbl.CreateRenderTargetView,
		uintptr(unsafe.Pointer(d)),
		uintptr(unsafe.Pointer(res)),
		0, // pDesc
		uintptr(unsafe.Pointer(&target)),
	)
	if r != 0 {
		return nil, ErrorCode{Name: "CreateRenderTargetView", Code: uint32(r)}
	}
	return target, nil
}

func (d *device) CreateDepthStencilView(res *unknown, desc *depthStencilViewDesc) (*depthStencilView, error) {
	var view *depthStencilView
	r, _, _ := syscall.SyscallN(
		d.Vtbl.CreateDepthStencilView,
		uintptr(unsafe.Pointer(d)),
		uintptr(unsafe.Pointer(res)),
		uintptr(unsafe.Pointer(desc)),
		uintptr(unsafe.Pointer(&view)),
	)
	if r != 0 {
		return nil, ErrorCode{Name: "CreateDepthStencilView", Code: uint32(r)}
	}
	return view, nil
}

// OpenSharedResource opens a texture shared by another device.
func (d *device) OpenSharedResource(handle uintptr) (*texture2D, error) {
	var tex *texture2D
	r, _, _ := syscall.SyscallN(
		d.Vtbl.OpenSharedResource,
		uintptr(unsafe.Pointer(d)),
		handle,
		uintptr(unsafe.Pointer(&iidTexture2D)),
		uintptr(unsafe.Pointer(&tex)),
	)
	if r != 0 {
		return nil, ErrorCode{Name: "OpenSharedResource", Code: uint32(r)}
	}
	return tex, nil
}

// GetDeviceRemovedReason returns nil while the device is usable.
func (d *device) GetDeviceRemovedReason() error {
	r, _, _ := syscall.SyscallN(d.Vtbl.GetDeviceRemovedReason, uintptr(unsafe.Pointer(d)))
	if r != 0 {
		return ErrorCode{Name: "GetDeviceRemovedReason", Code: uint32(r)}
	}
	return nil
}

func (t *texture2D) GetDesc() texture2DDesc {
	var desc texture2DDesc
	syscall.SyscallN(t.Vtbl.GetDesc, uintptr(unsafe.Pointer(t)), uintptr(unsafe.Pointer(&desc)))
	return desc
}

func (c *deviceContext) OMSetRenderTargets(target *renderTargetView, depthStencil *depthStencilView) {
	var targets **renderTargetView
	n := 0
	if target != nil {
		targets = &target
		n = 1
	}
	syscall.SyscallN(
		c.Vtbl.OMSetRenderTargets,
		uintptr(unsafe.Pointer(c)),
		uintptr(n),
		uintptr(unsafe.Pointer(targets)),
		uintptr(unsafe.Pointer(depthStencil)),
	)
}

func (c *deviceContext) ClearRenderTargetView(target *renderTargetView, color *[4]float32) {
	syscall.SyscallN(
		c.Vtbl.ClearRenderTargetView,
		uintptr(unsafe.Pointer(c)),
		uintptr(unsafe.Pointer(target)),
		uintptr(unsafe.Pointer(color)),
	)
}

func (c *deviceContext) ClearDepthStencilView(target *depthStencilView, flags uint32, depth float32, stencil uint8) {
	syscall.SyscallN(
		c.Vtbl.ClearDepthStencilView,
		uintptr(unsafe.Pointer(c)),
		uintptr(unsafe.Pointer(target)),
		uintptr(flags),
		uintptr(math.Float32bits(depth)),
		uintptr(stencil),
	)
}

func (c *deviceContext) Flush() {
	syscall.SyscallN(c.Vtbl.Flush, uintptr(unsafe.Pointer(c)))
}

func (c *deviceContext) ClearState() {
	syscall.SyscallN(c.Vtbl.ClearState, uintptr(unsafe.Pointer(c)))
}

func (s *dxgiSwapChain) Present(interval int, flags uint32) error {
	r, _, _ := syscall.SyscallN(
		s.Vtbl.Present,
		uintptr(unsafe.Pointer(s)),
		uintptr(interval),
		uintptr(flags),
	)
	if r != 0 {
		return ErrorCode{Name: "IDXGISwapChainPresent", Code: uint32(r)}
	}
	return nil
}

func (s *dxgiSwapChain) ResizeBuffers(buffers, width, height, format, flags uint32) error {
	r, _, _ := syscall.SyscallN(
		s.Vtbl.ResizeBuffers,
		uintptr(unsafe.Pointer(s)),
		uintptr(buffers),
		uintptr(width),
		uintptr(height),
		uintptr(format),
		uintptr(flags),
	)
	if r != 0 {
		return ErrorCode{Name: "IDXGISwapChainResizeBuffers", Code: uint32(r)}
	}
	return nil
}

func (s *dxgiSwapChain) GetBuffer(index int, riid *guid) (*unknown, error) {
	var buf *unknown
	r, _, _ := syscall.SyscallN(
		s.Vtbl.GetBuffer,
		uintptr(unsafe.Pointer(s)),
		uintptr(index),
		uintptr(unsafe.Pointer(riid)),
		uintptr(unsafe.Pointer(&buf)),
	)
	if r != 0 {
		return nil, ErrorCode{Name: "IDXGISwapChainGetBuffer", Code: uint32(r)}
	}
	return buf, nil
}

// Present1 presents with the given dirty rectangles.
func (s *dxgiSwapChain1) Present1(interval int, flags uint32, dirty []rect) error {
	params := presentParameters{DirtyRectsCount: uint32(len(dirty))}
	if len(dirty) > 0 {
		params.DirtyRects = &dirty[0]
	}
	r, _, _ := syscall.SyscallN(
		s.Vtbl.Present1,
		uintptr(unsafe.Pointer(s)),
		uintptr(interval),
		uintptr(flags),
		uintptr(unsafe.Pointer(&params)),
	)
	if r != 0 {
		return ErrorCode{Name: "IDXGISwapChain1Present1", Code: uint32(r)}
	}
	return nil
}

func (d *dxgiObject) GetParent(riid *guid) (*dxgiObject, error) {
	var parent *dxgiObject
	r, _, _ := syscall.SyscallN(
		d.Vtbl.GetParent,
		uintptr(unsafe.Pointer(d)),
		uintptr(unsafe.Pointer(riid)),
		uintptr(unsafe.Pointer(&parent)),
	)
	if r != 0 {
		return nil, ErrorCode{Name: "IDXGIObjectGetParent", Code: uint32(r)}
	}
	return parent, nil
}

func (d *dxgiDevice) GetAdapter() (*dxgiObject, error) {
	var adapter *dxgiObject
	r, _, _ := syscall.SyscallN(
		d.Vtbl.GetAdapter,
		uintptr(unsafe.Pointer(d)),
		uintptr(unsafe.Pointer(&adapter)),
	)
	if r != 0 {
		return nil, ErrorCode{Name: "IDXGIDeviceGetAdapter", Code: uint32(r)}
	}
	return adapter, nil
}

func (f *dxgiFactory) CreateSwapChain(dev *unknown, desc *swapChainDesc) (*dxgiSwapChain, error) {
	var sc *dxgiSwapChain
	r, _, _ := syscall.SyscallN(
		f.Vtbl.CreateSwapChain,
		uintptr(unsafe.Pointer(f)),
		uintptr(unsafe.Pointer(dev)),
		uintptr(unsafe.Pointer(desc)),
		uintptr(unsafe.Pointer(&sc)),
	)
	if r != 0 {
		return nil, ErrorCode{Name: "IDXGIFactoryCreateSwapChain", Code: uint32(r)}
	}
	return sc, nil
}

func queryInterface(obj unsafe.Pointer, method uintptr, riid *guid) (*unknown, error) {
	var ref *unknown
	r, _, _ := syscall.SyscallN(
		method,
		uintptr(obj),
		uintptr(unsafe.Pointer(riid)),
		uintptr(unsafe.Pointer(&ref)),
	)
	if r != 0 {
		return nil, ErrorCode{Name: "IUnknownQueryInterface", Code: uint32(r)}
	}
	return ref, nil
}

func release(obj unsafe.Pointer, method uintptr) {
	syscall.SyscallN(method, uintptr(obj))
}

// factoryOf returns the DXGI factory that created dev.
func factoryOf(dev *device) (*dxgiFactory, error) {
	dxgiDev, err := queryInterface(unsafe.Pointer(dev), dev.Vtbl.QueryInterface, &iidDXGIDevice)
	if err != nil {
		return nil, err
	}
	adapter, err := (*dxgiDevice)(unsafe.Pointer(dxgiDev)).GetAdapter()
	release(unsafe.Pointer(dxgiDev), dxgiDev.Vtbl.Release)
	if err != nil {
		return nil, err
	}
	f, err := adapter.GetParent(&iidDXGIFactory)
	release(unsafe.Pointer(adapter), adapter.Vtbl.Release)
	if err != nil {
		return nil, err
	}
	return (*dxgiFactory)(unsafe.Pointer(f)), nil
}
