package camera

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-orrery/common"
	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestLookAtMapsTargetOntoViewAxis(t *testing.T) {
	tests := []struct {
		name     string
		position r3.Vec
	}{
		{"from +Z", r3.Vec{Z: 10}},
		{"from +X", r3.Vec{X: 10}},
		{"from above at an angle", r3.Vec{X: 3, Y: 8, Z: -5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCamera(WithPosition(tt.position))
			c.LookAt(r3.Vec{})

			got := common.MulPoint(c.ViewMatrix(), [3]float32{0, 0, 0})
			want := float32(r3.Norm(tt.position))
			if math.Abs(float64(got[0])) > 1e-4 || math.Abs(float64(got[1])) > 1e-4 ||
				!scalar.EqualWithinAbs(float64(got[2]), float64(-want), 1e-4) {
				t.Errorf("target in view space = %v, want (0, 0, %v)", got, -want)
			}
		})
	}
}

func TestBasisIsOrthonormal(t *testing.T) {
	c := NewCamera(WithPosition(r3.Vec{X: 4, Y: 2, Z: 7}))
	c.LookAt(r3.Vec{X: -1, Y: 0, Z: 1})

	right, up, backward := c.Basis()
	for _, v := range []r3.Vec{right, up, backward} {
		if !scalar.EqualWithinAbs(r3.Norm(v), 1, 1e-9) {
			t.Errorf("axis %v is not unit length", v)
		}
	}
	if d := r3.Dot(right, up); math.Abs(d) > 1e-9 {
		t.Errorf("right·up = %v", d)
	}
	if right.Y > 1e-9 || right.Y < -1e-9 {
		t.Errorf("right axis %v should stay horizontal with a Y-up world", right)
	}
	if r3.Dot(backward, r3.Sub(c.Position(), r3.Vec{X: -1, Y: 0, Z: 1})) <= 0 {
		t.Errorf("backward axis %v does not point away from the target", backward)
	}
}

func TestPerspectiveDepthRange(t *testing.T) {
	c := NewCamera(WithClip(1, 100))
	proj := c.ProjectionMatrix()

	near := common.MulPoint(proj, [3]float32{0, 0, -1})
	far := common.MulPoint(proj, [3]float32{0, 0, -100})
	if !scalar.EqualWithinAbs(float64(near[2]), 0, 1e-5) {
		t.Errorf("near plane depth = %v, want 0", near[2])
	}
	if !scalar.EqualWithinAbs(float64(far[2]), 1, 1e-5) {
		t.Errorf("far plane depth = %v, want 1", far[2])
	}
}

func TestFrustumCullsBehindCamera(t *testing.T) {
	c := NewCamera(WithPosition(r3.Vec{Z: 50}), WithClip(0.1, 1000))
	c.LookAt(r3.Vec{})
	f := c.Frustum()

	if !f.ContainsSphere(0, 0, 0, 1) {
		t.Error("target should be inside the frustum")
	}
	if f.ContainsSphere(0, 0, 100, 1) {
		t.Error("point behind the camera should be culled")
	}
}

func TestOrthographicZoomShrinksVolume(t *testing.T) {
	c := NewCamera(WithAspect(2), WithOrthographic(10))
	left, right, top, bottom := c.OrthoBounds()
	if left != -20 || right != 20 || top != 10 || bottom != -10 {
		t.Fatalf("bounds = %v %v %v %v", left, right, top, bottom)
	}

	edge := [3]float32{20, 0, -1}
	if p := common.MulPoint(c.ProjectionMatrix(), edge); !scalar.EqualWithinAbs(float64(p[0]), 1, 1e-6) {
		t.Errorf("edge at zoom 1 maps to x=%v, want 1", p[0])
	}
	c.SetZoom(2)
	if p := common.MulPoint(c.ProjectionMatrix(), edge); !scalar.EqualWithinAbs(float64(p[0]), 2, 1e-6) {
		t.Errorf("edge at zoom 2 maps to x=%v, want 2", p[0])
	}
}

func TestSetAspectKeepsOrthoHeight(t *testing.T) {
	c := NewCamera(WithOrthographic(5))
	c.SetAspect(1.5)
	left, right, top, bottom := c.OrthoBounds()
	if top != 5 || bottom != -5 || left != -7.5 || right != 7.5 {
		t.Errorf("bounds = %v %v %v %v", left, right, top, bottom)
	}
}

func TestGPUCameraUniformLayout(t *testing.T) {
	c := NewCamera(WithPosition(r3.Vec{Z: 5}))
	c.LookAt(r3.Vec{})
	u := NewGPUCameraUniform(c)
	if u.Size() != 96 {
		t.Errorf("Size = %d, want 96", u.Size())
	}
	if len(u.Marshal()) != 96 {
		t.Errorf("Marshal length = %d, want 96", len(u.Marshal()))
	}
	if !scalar.EqualWithinAbs(float64(u.Up[1]), 1, 1e-6) {
		t.Errorf("camera up = %v, want +Y", u.Up)
	}
}
