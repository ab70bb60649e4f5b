package types

import "math"

// Mat4 is a 4x4 float matrix stored in column-major order; element (row, col)
// lives at index col*4+row.
type Mat4 [16]float32

// Create an identity matrix.
func Ident4() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Create a scale matrix.
func Scale4(s Vec3) Mat4 {
	return Mat4{
		s[0], 0, 0, 0,
		0, s[1], 0, 0,
		0, 0, s[2], 0,
		0, 0, 0, 1,
	}
}

// Create a translation matrix.
func Translate4(t Vec3) Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		t[0], t[1], t[2], 1,
	}
}

// Build a matrix from 16 values listed row by row.
func Mat4FromRows(rows [16]float32) Mat4 {
	var m Mat4
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			m[col*4+row] = rows[row*4+col]
		}
	}
	return m
}

// Get the element at the given row and column.
func (m Mat4) At(row, col int) float32 {
	return m[col*4+row]
}

// Multiply with another matrix and return m * m2.
func (m Mat4) Mul4(m2 Mat4) Mat4 {
	var out Mat4
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += m[k*4+row] * m2[col*4+k]
			}
			out[col*4+row] = sum
		}
	}
	return out
}

// Multiply with a column vector.
func (m Mat4) Mul4x1(v Vec4) Vec4 {
	return Vec4{
		m[0]*v[0] + m[4]*v[1] + m[8]*v[2] + m[12]*v[3],
		m[1]*v[0] + m[5]*v[1] + m[9]*v[2] + m[13]*v[3],
		m[2]*v[0] + m[6]*v[1] + m[10]*v[2] + m[14]*v[3],
		m[3]*v[0] + m[7]*v[1] + m[11]*v[2] + m[15]*v[3],
	}
}

// Transpose matrix.
func (m Mat4) Transpose() Mat4 {
	var out Mat4
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			out[row*4+col] = m[col*4+row]
		}
	}
	return out
}

// Rows returns the matrix elements listed row by row.
func (m Mat4) Rows() [16]float32 {
	return m.Transpose()
}

// Generate a camera-to-world matrix for a camera positioned at eye looking
// at target. The camera looks down its local -Z axis.
func LookAt(eye, target, up Vec3) Mat4 {
	z := eye.Sub(target).Normalize()
	x := up.Cross(z).Normalize()
	y := z.Cross(x)

	return Mat4{
		x[0], x[1], x[2], 0,
		y[0], y[1], y[2], 0,
		z[0], z[1], z[2], 0,
		eye[0], eye[1], eye[2], 1,
	}
}

// Compose a translation, XYZ euler rotation (radians) and scale into a
// single T * R * S matrix.
func Compose(translation, rotation, scale Vec3) Mat4 {
	rotMat := EulerXYZ(rotation[0], rotation[1], rotation[2]).Mat4()
	return Translate4(translation).Mul4(rotMat.Mul4(Scale4(scale)))
}

// Convert degrees to radians.
func Radians(deg float32) float32 {
	return deg * math.Pi / 180.0
}

// Convert radians to degrees.
func Degrees(rad float32) float32 {
	return rad * 180.0 / math.Pi
}
