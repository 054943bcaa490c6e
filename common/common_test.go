package common

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		name            string
		v, lo, hi, want float64
	}{
		{"inside", 0.5, 0, 1, 0.5},
		{"below", -2, 0, 1, 0},
		{"above", 3, 0, 1, 1},
		{"infinite bounds", 1e300, 0, math.Inf(1), 1e300},
		{"inverted bounds", 0.5, 2, 1, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clamp(tt.v, tt.lo, tt.hi); got != tt.want {
				t.Errorf("Clamp(%v, %v, %v) = %v, want %v", tt.v, tt.lo, tt.hi, got, tt.want)
			}
		})
	}
	if !math.IsNaN(Clamp(math.NaN(), 0, 1)) {
		t.Error("NaN should propagate")
	}
}

func TestCoalesce(t *testing.T) {
	if got := Coalesce("", "", "b", "c"); got != "b" {
		t.Errorf("Coalesce = %q, want b", got)
	}
	if got := Coalesce(0, 0); got != 0 {
		t.Errorf("Coalesce of zeros = %d", got)
	}
}

func TestQuatFromUnitVectors(t *testing.T) {
	tests := []struct {
		name     string
		from, to r3.Vec
	}{
		{"x to y", r3.Vec{X: 1}, r3.Vec{Y: 1}},
		{"same", r3.Vec{Z: 1}, r3.Vec{Z: 1}},
		{"opposite", r3.Vec{X: 1}, r3.Vec{X: -1}},
		{"opposite z", r3.Vec{Z: 1}, r3.Vec{Z: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := QuatFromUnitVectors(tt.from, tt.to)
			got := Rotate(q, tt.from)
			if r3.Norm(r3.Sub(got, tt.to)) > 1e-9 {
				t.Errorf("rotated %v to %v, want %v", tt.from, got, tt.to)
			}
			back := Rotate(QuatInverse(q), got)
			if r3.Norm(r3.Sub(back, tt.from)) > 1e-9 {
				t.Errorf("inverse gave %v, want %v", back, tt.from)
			}
		})
	}
}

func TestQuatFromBasisMatchesRotation(t *testing.T) {
	// 90 degrees about +Y: x -> -z, z -> x.
	q := QuatFromBasis(r3.Vec{Z: -1}, r3.Vec{Y: 1}, r3.Vec{X: 1})
	want := QuatFromUnitVectors(r3.Vec{X: 1}, r3.Vec{Z: -1})
	if !scalar.EqualWithinAbs(math.Abs(QuatDot(q, want)), 1, 1e-9) {
		t.Errorf("basis quaternion %v, want %v", q, want)
	}
	if !scalar.EqualWithinAbs(QuatDot(QuatIdentity, QuatFromBasis(r3.Vec{X: 1}, r3.Vec{Y: 1}, r3.Vec{Z: 1})), 1, 1e-12) {
		t.Error("identity basis should give the identity quaternion")
	}
}

func TestPerspectiveFrustum(t *testing.T) {
	proj := Perspective(float32(math.Pi/2), 1, 1, 100)
	f := ExtractFrustumFromMatrix(proj[:])

	tests := []struct {
		name    string
		p       [3]float32
		r       float32
		visible bool
	}{
		{"center", [3]float32{0, 0, -10}, 1, true},
		{"behind", [3]float32{0, 0, 10}, 1, false},
		{"beyond far", [3]float32{0, 0, -200}, 1, false},
		{"outside left", [3]float32{-50, 0, -10}, 1, false},
		{"straddling left", [3]float32{-10.5, 0, -10}, 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := f.ContainsSphere(tt.p[0], tt.p[1], tt.p[2], tt.r); got != tt.visible {
				t.Errorf("ContainsSphere(%v, %v) = %v, want %v", tt.p, tt.r, got, tt.visible)
			}
		})
	}
}
