package renderer

import (
	"maps"
	"slices"

	"github.com/Carmen-Shannon/oxy-orrery/common"
	"github.com/Carmen-Shannon/oxy-orrery/engine/scene"
	"gonum.org/v1/gonum/spatial/r3"
)

var defaultOrbitColor = [4]float32{0.5, 0.5, 0.5, 1}

// BuildBodyInstances appends one instance per body whose bounding sphere intersects
// the frustum. A nil frustum keeps every body.
//
// Parameters:
//   - dst: slice to append to (reused across frames)
//   - frustum: the view frustum, or nil to disable culling
//   - bodies: the bodies to consider
//
// Returns:
//   - []GPUBodyInstance: dst with the visible bodies appended
//   - int: the number of bodies culled
func BuildBodyInstances(dst []GPUBodyInstance, frustum *common.Frustum, bodies []scene.BodySnapshot) ([]GPUBodyInstance, int) {
	culled := 0
	for _, b := range bodies {
		center := vec32(b.Position)
		radius := float32(b.Radius)
		if frustum != nil && !frustum.ContainsSphere(center[0], center[1], center[2], radius) {
			culled++
			continue
		}
		color := b.Color
		if b.Failed {
			// Bodies stuck on their last good transform are drawn desaturated.
			grey := (color[0] + color[1] + color[2]) / 3
			color = [4]float32{grey, grey, grey, color[3]}
		}
		dst = append(dst, GPUBodyInstance{
			Center:   center,
			Radius:   radius,
			Color:    color,
			Rotation: float32(b.Rotation),
		})
	}
	return dst, culled
}

// BuildOrbitVertices turns sampled paths into a closed line list: each path of n
// points becomes n segments, the last joining back to the first. Paths are emitted
// in name order so the buffer layout is stable across calls.
//
// Parameters:
//   - paths: sampled points keyed by body name
//   - colors: RGBA per body name
//   - opacity: alpha applied to every line
//
// Returns:
//   - []GPUOrbitVertex: two vertices per segment
func BuildOrbitVertices(paths map[string][]r3.Vec, colors map[string][4]float32, opacity float32) []GPUOrbitVertex {
	total := 0
	for _, p := range paths {
		if len(p) >= 2 {
			total += 2 * len(p)
		}
	}
	out := make([]GPUOrbitVertex, 0, total)
	for _, name := range slices.Sorted(maps.Keys(paths)) {
		points := paths[name]
		if len(points) < 2 {
			continue
		}
		color, ok := colors[name]
		if !ok {
			color = defaultOrbitColor
		}
		color[3] = opacity
		for i, p := range points {
			next := points[(i+1)%len(points)]
			out = append(out,
				GPUOrbitVertex{Position: vec32(p), Color: color},
				GPUOrbitVertex{Position: vec32(next), Color: color},
			)
		}
	}
	return out
}

func vec32(v r3.Vec) [3]float32 {
	return [3]float32{float32(v.X), float32(v.Y), float32(v.Z)}
}
