package renderer

import (
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUBodyInstance is one per-instance vertex record of the body billboard pipeline.
type GPUBodyInstance struct {
	Center   [3]float32 // offset  0: world position (vec3<f32>)
	Radius   float32    // offset 12: billboard half size
	Color    [4]float32 // offset 16: linear RGBA
	Rotation float32    // offset 32: spin angle in radians
	_pad     [3]float32 // offset 36: padding to 48 bytes
}

// Size returns the size of the GPUBodyInstance struct in bytes.
func (g *GPUBodyInstance) Size() int {
	return int(unsafe.Sizeof(*g))
}

// MarshalInto writes the instance into buf, which must hold at least Size bytes.
func (g *GPUBodyInstance) MarshalInto(buf []byte) {
	putFloats(buf[0:], g.Center[:])
	binary.LittleEndian.PutUint32(buf[12:], math.Float32bits(g.Radius))
	putFloats(buf[16:], g.Color[:])
	binary.LittleEndian.PutUint32(buf[32:], math.Float32bits(g.Rotation))
	clear(buf[36:48])
}

// GPUOrbitVertex is one vertex of the orbit line list.
type GPUOrbitVertex struct {
	Position [3]float32 // offset  0
	Color    [4]float32 // offset 12
}

// Size returns the size of the GPUOrbitVertex struct in bytes.
func (g *GPUOrbitVertex) Size() int {
	return int(unsafe.Sizeof(*g))
}

// MarshalInto writes the vertex into buf, which must hold at least Size bytes.
func (g *GPUOrbitVertex) MarshalInto(buf []byte) {
	putFloats(buf[0:], g.Position[:])
	putFloats(buf[12:], g.Color[:])
}

func putFloats(buf []byte, values []float32) {
	for i, v := range values {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
}

// MarshalBodyInstances packs instances into one vertex buffer upload.
func MarshalBodyInstances(instances []GPUBodyInstance) []byte {
	var proto GPUBodyInstance
	stride := proto.Size()
	buf := make([]byte, len(instances)*stride)
	for i := range instances {
		instances[i].MarshalInto(buf[i*stride:])
	}
	return buf
}

// MarshalOrbitVertices packs line vertices into one vertex buffer upload.
func MarshalOrbitVertices(vertices []GPUOrbitVertex) []byte {
	var proto GPUOrbitVertex
	stride := proto.Size()
	buf := make([]byte, len(vertices)*stride)
	for i := range vertices {
		vertices[i].MarshalInto(buf[i*stride:])
	}
	return buf
}
