package math3d

import "math"

// Mat4 is a 4x4 matrix stored in row-major order and applied to row vectors,
// so a point is transformed as p' = p * M and A.Mul(B) applies A first.
//
// Memory layout (indices):
// | 0  1  2  3  |
// | 4  5  6  7  |
// | 8  9  10 11 |
// | 12 13 14 15 |
//
// For an affine transform the rotation/scale lives in the upper 3x3 block
// and the translation in the bottom row (12, 13, 14).
type Mat4 [16]float64

// Identity returns the identity matrix.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Translate creates a translation matrix.
func Translate(v Vec3) Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		v.X, v.Y, v.Z, 1,
	}
}

// RotateX creates a rotation matrix around the X axis (angle in radians).
func RotateX(angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Mat4{
		1, 0, 0, 0,
		0, c, s, 0,
		0, -s, c, 0,
		0, 0, 0, 1,
	}
}

// RotateY creates a rotation matrix around the Y axis (angle in radians).
// The sine terms are arranged opposite to RotateX and RotateZ; callers that
// want the same handedness as the other axes pass a negated angle.
func RotateY(angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Mat4{
		c, 0, s, 0,
		0, 1, 0, 0,
		-s, 0, c, 0,
		0, 0, 0, 1,
	}
}

// RotateZ creates a rotation matrix around the Z axis (angle in radians).
func RotateZ(angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Mat4{
		c, s, 0, 0,
		-s, c, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Mul multiplies two matrices: a * b.
//
//nolint:st1016 // a*b naming convention is clearer for matrix multiplication
func (a Mat4) Mul(b Mat4) Mat4 {
	var m Mat4
	for row := range 4 {
		for col := range 4 {
			m[row*4+col] = a[row*4]*b[col] +
				a[row*4+1]*b[4+col] +
				a[row*4+2]*b[8+col] +
				a[row*4+3]*b[12+col]
		}
	}
	return m
}

// MulPoint transforms v as a point (w=1). No perspective divide is applied.
func (m Mat4) MulPoint(v Vec3) Vec3 {
	return Vec3{
		v.X*m[0] + v.Y*m[4] + v.Z*m[8] + m[12],
		v.X*m[1] + v.Y*m[5] + v.Z*m[9] + m[13],
		v.X*m[2] + v.Y*m[6] + v.Z*m[10] + m[14],
	}
}

// Determinant returns the determinant of the matrix by cofactor expansion
// along the first row.
func (m Mat4) Determinant() float64 {
	// 2x2 minors of the bottom two rows.
	s0 := m[8]*m[13] - m[9]*m[12]
	s1 := m[8]*m[14] - m[10]*m[12]
	s2 := m[8]*m[15] - m[11]*m[12]
	s3 := m[9]*m[14] - m[10]*m[13]
	s4 := m[9]*m[15] - m[11]*m[13]
	s5 := m[10]*m[15] - m[11]*m[14]

	c0 := m[5]*s5 - m[6]*s4 + m[7]*s3
	c1 := m[4]*s5 - m[6]*s2 + m[7]*s1
	c2 := m[4]*s4 - m[5]*s2 + m[7]*s0
	c3 := m[4]*s3 - m[5]*s1 + m[6]*s0

	return m[0]*c0 - m[1]*c1 + m[2]*c2 - m[3]*c3
}

// Inverse returns the inverse of the matrix using Gauss-Jordan elimination
// with partial pivoting. ok is false if the matrix is singular.
func (m Mat4) Inverse() (inv Mat4, ok bool) {
	inv = Identity()
	work := m

	for col := range 4 {
		// Pick the row with the largest absolute pivot.
		pivot := col
		best := math.Abs(work[col*4+col])
		for row := col + 1; row < 4; row++ {
			if v := math.Abs(work[row*4+col]); v > best {
				pivot, best = row, v
			}
		}
		if best == 0 {
			return Mat4{}, false
		}

		if pivot != col {
			for k := range 4 {
				work[col*4+k], work[pivot*4+k] = work[pivot*4+k], work[col*4+k]
				inv[col*4+k], inv[pivot*4+k] = inv[pivot*4+k], inv[col*4+k]
			}
		}

		// Eliminate the column from every other row.
		for row := range 4 {
			if row == col {
				continue
			}
			f := work[row*4+col] / work[col*4+col]
			if f == 0 {
				continue
			}
			for k := range 4 {
				work[row*4+k] -= f * work[col*4+k]
				inv[row*4+k] -= f * inv[col*4+k]
			}
		}
	}

	// Scale each row so the diagonal becomes 1.
	for row := range 4 {
		d := work[row*4+row]
		for k := range 4 {
			inv[row*4+k] /= d
		}
	}

	return inv, true
}

// Translation extracts the translation component.
func (m Mat4) Translation() Vec3 {
	return Vec3{m[12], m[13], m[14]}
}

// ApproxEqual reports whether every element of a and b differs by at most eps.
func (a Mat4) ApproxEqual(b Mat4, eps float64) bool {
	for i := range a {
		if math.Abs(a[i]-b[i]) > eps {
			return false
		}
	}
	return true
}
