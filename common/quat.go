package common

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// QuatIdentity is the rotation that leaves every vector unchanged.
var QuatIdentity = quat.Number{Real: 1}

// Rotate applies the unit quaternion q to v.
//
// Parameters:
//   - q: a unit quaternion
//   - v: the vector to rotate
//
// Returns:
//   - r3.Vec: the rotated vector
func Rotate(q quat.Number, v r3.Vec) r3.Vec {
	return r3.Rotation(q).Rotate(v)
}

// QuatDot returns the 4D dot product of two quaternions. For unit quaternions
// it is 1 when they represent the same orientation.
func QuatDot(a, b quat.Number) float64 {
	return a.Real*b.Real + a.Imag*b.Imag + a.Jmag*b.Jmag + a.Kmag*b.Kmag
}

// QuatInverse returns the inverse of a unit quaternion.
func QuatInverse(q quat.Number) quat.Number {
	return quat.Conj(q)
}

// QuatFromUnitVectors returns the shortest-arc rotation taking unit vector from onto unit vector to.
//
// Parameters:
//   - from: normalized source direction
//   - to: normalized destination direction
//
// Returns:
//   - quat.Number: a unit quaternion
func QuatFromUnitVectors(from, to r3.Vec) quat.Number {
	r := r3.Dot(from, to) + 1

	var q quat.Number
	if r < 1e-8 {
		// Opposite vectors: rotate 180 degrees around any axis orthogonal to from.
		if math.Abs(from.X) > math.Abs(from.Z) {
			q = quat.Number{Real: 0, Imag: -from.Y, Jmag: from.X, Kmag: 0}
		} else {
			q = quat.Number{Real: 0, Imag: 0, Jmag: -from.Z, Kmag: from.Y}
		}
	} else {
		c := r3.Cross(from, to)
		q = quat.Number{Real: r, Imag: c.X, Jmag: c.Y, Kmag: c.Z}
	}
	return quatNormalize(q)
}

// QuatFromBasis returns the rotation whose matrix has the orthonormal columns x, y, z.
//
// Parameters:
//   - x, y, z: orthonormal basis vectors (right-handed)
//
// Returns:
//   - quat.Number: a unit quaternion
func QuatFromBasis(x, y, z r3.Vec) quat.Number {
	m11, m12, m13 := x.X, y.X, z.X
	m21, m22, m23 := x.Y, y.Y, z.Y
	m31, m32, m33 := x.Z, y.Z, z.Z

	trace := m11 + m22 + m33
	var q quat.Number
	switch {
	case trace > 0:
		s := 0.5 / math.Sqrt(trace+1)
		q = quat.Number{Real: 0.25 / s, Imag: (m32 - m23) * s, Jmag: (m13 - m31) * s, Kmag: (m21 - m12) * s}
	case m11 > m22 && m11 > m33:
		s := 2 * math.Sqrt(1+m11-m22-m33)
		q = quat.Number{Real: (m32 - m23) / s, Imag: 0.25 * s, Jmag: (m12 + m21) / s, Kmag: (m13 + m31) / s}
	case m22 > m33:
		s := 2 * math.Sqrt(1+m22-m11-m33)
		q = quat.Number{Real: (m13 - m31) / s, Imag: (m12 + m21) / s, Jmag: 0.25 * s, Kmag: (m23 + m32) / s}
	default:
		s := 2 * math.Sqrt(1+m33-m11-m22)
		q = quat.Number{Real: (m21 - m12) / s, Imag: (m13 + m31) / s, Jmag: (m23 + m32) / s, Kmag: 0.25 * s}
	}
	return quatNormalize(q)
}

func quatNormalize(q quat.Number) quat.Number {
	n := quat.Abs(q)
	if n == 0 {
		return QuatIdentity
	}
	return quat.Scale(1/n, q)
}
