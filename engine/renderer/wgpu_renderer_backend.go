package renderer

import (
	_ "embed"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/Carmen-Shannon/oxy-orrery/engine/camera"
	"github.com/cogentcore/webgpu/wgpu"
)

//go:embed assets/bodies.wgsl
var bodiesShaderSource string

//go:embed assets/orbits.wgsl
var orbitsShaderSource string

type wgpuRendererBackendImpl struct {
	mu *sync.Mutex

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue
	surface  *wgpu.Surface

	surfaceFormat *wgpu.TextureFormat
	presentMode   wgpu.PresentMode

	depthTexture     *wgpu.Texture
	depthTextureView *wgpu.TextureView

	cameraBuffer    *wgpu.Buffer
	cameraBindGroup *wgpu.BindGroup
	bodiesPipeline  *wgpu.RenderPipeline
	orbitsPipeline  *wgpu.RenderPipeline

	bodyBuffer       *wgpu.Buffer
	bodyCount        uint32
	bodyCapacity     uint64
	orbitBuffer      *wgpu.Buffer
	orbitVertexCount uint32
	orbitCapacity    uint64

	renderPassDescriptor *wgpu.RenderPassDescriptor

	frameEncoder *wgpu.CommandEncoder
	framePass    *wgpu.RenderPassEncoder
	frameSurface *wgpu.Texture
	frameView    *wgpu.TextureView
}

var _ RendererBackend = &wgpuRendererBackendImpl{}

func newWGPURendererBackend(surfaceDescriptor *wgpu.SurfaceDescriptor, mode PresentMode) (*wgpuRendererBackendImpl, error) {
	if surfaceDescriptor == nil {
		return nil, errors.New("window has no surface")
	}
	runtime.LockOSThread()
	b := &wgpuRendererBackendImpl{
		mu:          &sync.Mutex{},
		instance:    wgpu.CreateInstance(nil),
		presentMode: wgpu.PresentModeFifo,
	}
	if mode == PresentModeUncapped {
		b.presentMode = wgpu.PresentModeImmediate
	}
	b.surface = b.instance.CreateSurface(surfaceDescriptor)

	a, err := b.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: b.surface,
	})
	if err != nil {
		return nil, err
	}
	b.adapter = a

	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{Label: "Orrery Device"})
	if err != nil {
		return nil, err
	}
	b.device = d
	b.queue = d.GetQueue()

	capabilities := b.surface.GetCapabilities(b.adapter)
	b.surfaceFormat = &capabilities.Formats[0]

	if err := b.createPipelines(); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *wgpuRendererBackendImpl) createPipelines() error {
	var uniform camera.GPUCameraUniform
	buf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Camera Uniform Buffer",
		Size:  uint64(uniform.Size()),
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return err
	}
	b.cameraBuffer = buf

	layout, err := b.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "Camera Bind Group Layout",
		Entries: []wgpu.BindGroupLayoutEntry{{
			Binding:    0,
			Visibility: wgpu.ShaderStageVertex,
			Buffer: wgpu.BufferBindingLayout{
				Type:           wgpu.BufferBindingTypeUniform,
				MinBindingSize: uint64(uniform.Size()),
			},
		}},
	})
	if err != nil {
		return fmt.Errorf("failed to create camera bind group layout: %w", err)
	}
	b.cameraBindGroup, err = b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Camera Bind Group",
		Layout: layout,
		Entries: []wgpu.BindGroupEntry{{
			Binding: 0,
			Buffer:  b.cameraBuffer,
			Offset:  0,
			Size:    wgpu.WholeSize,
		}},
	})
	if err != nil {
		return fmt.Errorf("failed to create camera bind group: %w", err)
	}

	pipelineLayout, err := b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "Orrery Pipeline Layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{layout},
	})
	if err != nil {
		return err
	}

	var instance GPUBodyInstance
	b.bodiesPipeline, err = b.createRenderPipeline("Bodies", bodiesShaderSource, pipelineLayout,
		wgpu.PrimitiveTopologyTriangleList,
		wgpu.VertexBufferLayout{
			ArrayStride: uint64(instance.Size()),
			StepMode:    wgpu.VertexStepModeInstance,
			Attributes: []wgpu.VertexAttribute{
				{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
				{Format: wgpu.VertexFormatFloat32, Offset: 12, ShaderLocation: 1},
				{Format: wgpu.VertexFormatFloat32x4, Offset: 16, ShaderLocation: 2},
				{Format: wgpu.VertexFormatFloat32, Offset: 32, ShaderLocation: 3},
			},
		}, true)
	if err != nil {
		return err
	}

	var vertex GPUOrbitVertex
	b.orbitsPipeline, err = b.createRenderPipeline("Orbits", orbitsShaderSource, pipelineLayout,
		wgpu.PrimitiveTopologyLineList,
		wgpu.VertexBufferLayout{
			ArrayStride: uint64(vertex.Size()),
			StepMode:    wgpu.VertexStepModeVertex,
			Attributes: []wgpu.VertexAttribute{
				{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
				{Format: wgpu.VertexFormatFloat32x4, Offset: 12, ShaderLocation: 1},
			},
		}, false)
	return err
}

// createRenderPipeline compiles source (with the camera uniform prepended) into a
// pipeline with one vertex buffer. Orbit lines are blended and do not write depth
// so bodies behind them stay visible.
func (b *wgpuRendererBackendImpl) createRenderPipeline(
	label, source string,
	layout *wgpu.PipelineLayout,
	topology wgpu.PrimitiveTopology,
	vertexLayout wgpu.VertexBufferLayout,
	depthWrite bool,
) (*wgpu.RenderPipeline, error) {
	module, err := b.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: label + " Shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: camera.GPUCameraUniformSource + "\n" + source,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to compile %s shader: %w", label, err)
	}

	target := wgpu.ColorTargetState{
		Format:    *b.surfaceFormat,
		WriteMask: wgpu.ColorWriteMaskAll,
	}
	if !depthWrite {
		target.Blend = &wgpu.BlendState{
			Color: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorSrcAlpha,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				Operation: wgpu.BlendOperationAdd,
			},
			Alpha: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorOne,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				Operation: wgpu.BlendOperationAdd,
			},
		}
	}

	created, err := b.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  label + " Render Pipeline",
		Layout: layout,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: "vs_main",
			Buffers:    []wgpu.VertexBufferLayout{vertexLayout},
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: "fs_main",
			Targets:    []wgpu.ColorTargetState{target},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  topology,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:            wgpu.TextureFormatDepth24Plus,
			DepthWriteEnabled: depthWrite,
			DepthCompare:      wgpu.CompareFunctionLess,
			StencilFront: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
			StencilBack: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create %s pipeline: %w", label, err)
	}
	return created, nil
}

func (b *wgpuRendererBackendImpl) ConfigureSurface(width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	capabilities := b.surface.GetCapabilities(b.adapter)
	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      *b.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: b.presentMode,
		AlphaMode:   capabilities.AlphaModes[0],
	})

	if b.depthTextureView != nil {
		b.depthTextureView.Release()
		b.depthTexture.Release()
	}
	depthTexture, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: "Depth Texture",
		Size: wgpu.Extent3D{
			Width:              uint32(width),
			Height:             uint32(height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatDepth24Plus,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		panic(err)
	}
	b.depthTexture = depthTexture
	b.depthTextureView, err = depthTexture.CreateView(nil)
	if err != nil {
		panic(err)
	}

	b.renderPassDescriptor = &wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			LoadOp:  wgpu.LoadOpClear,
			StoreOp: wgpu.StoreOpStore,
			ClearValue: wgpu.Color{
				R: 0.01, G: 0.01, B: 0.03, A: 1.0,
			},
		}},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            b.depthTextureView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpDiscard,
			DepthClearValue: 1.0,
		},
	}
}

func (b *wgpuRendererBackendImpl) WriteCamera(data []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.queue.WriteBuffer(b.cameraBuffer, 0, data)
}

// ensureBuffer grows buf to hold size bytes, replacing it when its capacity is too small.
func (b *wgpuRendererBackendImpl) ensureBuffer(buf *wgpu.Buffer, capacity *uint64, label string, size uint64) (*wgpu.Buffer, error) {
	if buf != nil && *capacity >= size {
		return buf, nil
	}
	if buf != nil {
		buf.Release()
	}
	// Vertex buffers are sized in whole 4-byte words and never zero-length.
	size = max((size+3)&^3, 4)
	created, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label,
		Size:  size,
		Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		*capacity = 0
		return nil, err
	}
	*capacity = size
	return created, nil
}

func (b *wgpuRendererBackendImpl) WriteBodies(data []byte, count int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	buf, err := b.ensureBuffer(b.bodyBuffer, &b.bodyCapacity, "Body Instance Buffer", uint64(len(data)))
	if err != nil {
		b.bodyBuffer = nil
		return err
	}
	b.bodyBuffer = buf
	if len(data) > 0 {
		b.queue.WriteBuffer(buf, 0, data)
	}
	b.bodyCount = uint32(count)
	return nil
}

func (b *wgpuRendererBackendImpl) WriteOrbits(data []byte, count int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	buf, err := b.ensureBuffer(b.orbitBuffer, &b.orbitCapacity, "Orbit Vertex Buffer", uint64(len(data)))
	if err != nil {
		b.orbitBuffer = nil
		return err
	}
	b.orbitBuffer = buf
	if len(data) > 0 {
		b.queue.WriteBuffer(buf, 0, data)
	}
	b.orbitVertexCount = uint32(count)
	return nil
}

func (b *wgpuRendererBackendImpl) BeginFrame() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frameSurface != nil {
		return fmt.Errorf("previous frame surface not yet presented")
	}

	surfaceTexture, err := b.surface.GetCurrentTexture()
	if err != nil {
		return err
	}
	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		surfaceTexture.Release()
		return err
	}
	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		view.Release()
		surfaceTexture.Release()
		return err
	}

	b.renderPassDescriptor.ColorAttachments[0].View = view
	b.framePass = encoder.BeginRenderPass(b.renderPassDescriptor)
	b.frameEncoder = encoder
	b.frameSurface = surfaceTexture
	b.frameView = view
	b.framePass.SetBindGroup(0, b.cameraBindGroup, nil)
	return nil
}

func (b *wgpuRendererBackendImpl) DrawOrbits() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.framePass == nil || b.orbitVertexCount == 0 {
		return
	}
	b.framePass.SetPipeline(b.orbitsPipeline)
	b.framePass.SetVertexBuffer(0, b.orbitBuffer, 0, wgpu.WholeSize)
	b.framePass.Draw(b.orbitVertexCount, 1, 0, 0)
}

func (b *wgpuRendererBackendImpl) DrawBodies() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.framePass == nil || b.bodyCount == 0 {
		return
	}
	b.framePass.SetPipeline(b.bodiesPipeline)
	b.framePass.SetVertexBuffer(0, b.bodyBuffer, 0, wgpu.WholeSize)
	b.framePass.Draw(6, b.bodyCount, 0, 0)
}

func (b *wgpuRendererBackendImpl) EndFrame() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.framePass == nil {
		return
	}
	b.framePass.End()

	commandBuffer, err := b.frameEncoder.Finish(nil)
	if err != nil {
		b.frameEncoder.Release()
		b.frameView.Release()
		b.frameSurface.Release()
		b.frameEncoder = nil
		b.framePass = nil
		b.frameSurface = nil
		b.frameView = nil
		return
	}

	b.queue.Submit(commandBuffer)

	commandBuffer.Release()
	b.frameEncoder.Release()
	b.frameEncoder = nil
	b.framePass = nil
}

func (b *wgpuRendererBackendImpl) Present() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frameSurface == nil {
		return
	}
	b.surface.Present()

	if b.frameView != nil {
		b.frameView.Release()
		b.frameView = nil
	}
	b.frameSurface.Release()
	b.frameSurface = nil
}

func (b *wgpuRendererBackendImpl) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, buf := range []*wgpu.Buffer{b.bodyBuffer, b.orbitBuffer, b.cameraBuffer} {
		if buf != nil {
			buf.Release()
		}
	}
	if b.depthTextureView != nil {
		b.depthTextureView.Release()
		b.depthTexture.Release()
	}
	b.device.Release()
	b.adapter.Release()
	b.surface.Release()
	b.instance.Release()
}
