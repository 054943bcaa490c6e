package camera

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUCameraUniformSource is the canonical WGSL definition of the CameraUniform struct.
// Matches GPUCameraUniform layout exactly (96 bytes).
//
//go:embed assets/camera_uniform.wgsl
var GPUCameraUniformSource string

// GPUCameraUniform is the GPU-aligned camera uniform. Right and Up are the camera
// axes in world space, used to face body billboards toward the viewer.
type GPUCameraUniform struct {
	ViewProj [16]float32 // offset  0: combined view-projection matrix (mat4x4<f32>)
	Right    [3]float32  // offset 64: camera right axis (vec3<f32>)
	_pad0    float32     // offset 76
	Up       [3]float32  // offset 80: camera up axis (vec3<f32>)
	_pad1    float32     // offset 92: padding to 96 bytes
}

// NewGPUCameraUniform snapshots the camera for upload.
//
// Parameters:
//   - c: the camera to snapshot
//
// Returns:
//   - GPUCameraUniform: the uniform contents for this frame
func NewGPUCameraUniform(c Camera) GPUCameraUniform {
	right, up, _ := c.Basis()
	return GPUCameraUniform{
		ViewProj: c.ViewProjectionMatrix(),
		Right:    vec32(right),
		Up:       vec32(up),
	}
}

// Size returns the size of the GPUCameraUniform struct in bytes.
func (g *GPUCameraUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUCameraUniform struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPUCameraUniform) Marshal() []byte {
	buf := make([]byte, g.Size())
	for i := range 16 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(g.ViewProj[i]))
	}
	for i := range 3 {
		binary.LittleEndian.PutUint32(buf[64+i*4:], math.Float32bits(g.Right[i]))
		binary.LittleEndian.PutUint32(buf[80+i*4:], math.Float32bits(g.Up[i]))
	}
	return buf
}
