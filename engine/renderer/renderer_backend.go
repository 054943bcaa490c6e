package renderer

// RendererBackend is the GPU API surface the Renderer drives. Exactly one frame is
// in flight: BeginFrame, the draw calls, EndFrame, then Present.
type RendererBackend interface {
	// ConfigureSurface (re)creates the swapchain and depth target at the given size.
	ConfigureSurface(width, height int)

	// WriteCamera uploads the camera uniform.
	WriteCamera(data []byte)

	// WriteBodies uploads the per-instance body buffer.
	//
	// Parameters:
	//   - data: marshaled GPUBodyInstance records
	//   - count: number of instances in data
	WriteBodies(data []byte, count int) error

	// WriteOrbits uploads the orbit line list.
	//
	// Parameters:
	//   - data: marshaled GPUOrbitVertex records
	//   - count: number of vertices in data
	WriteOrbits(data []byte, count int) error

	// BeginFrame acquires the next surface texture and begins the render pass.
	BeginFrame() error

	// DrawOrbits draws the last uploaded orbit line list.
	DrawOrbits()

	// DrawBodies draws the last uploaded body instances.
	DrawBodies()

	// EndFrame ends the render pass and submits the command buffer.
	EndFrame()

	// Present shows the frame and releases the surface texture.
	Present()

	// Release frees every GPU resource.
	Release()
}
