// seehuhn.de/go/lineart - trace the vector graphics of PDF pages
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package geometry implements the 2-D geometry used by the tracing device:
// affine matrices, points, rectangles, integer rectangles and quads.
//
// Coordinates follow the device-space convention of the tracer: the y-axis
// points down and a point is transformed as the row vector [x y 1] times
// the matrix.
package geometry

import (
	"errors"
	"fmt"
	"math"

	"seehuhn.de/go/geom/matrix"
)

// Epsilon is the tolerance used for all comparisons against zero.
const Epsilon = 1e-5

// Matrix is an affine transformation [x y 1] * M, where
//
//	    | A B 0 |
//	M = | C D 0 |
//	    | E F 1 |
type Matrix struct {
	A, B, C, D, E, F float64
}

// Identity is the identity transformation.
var Identity = Matrix{A: 1, D: 1}

// ErrSingular is matched by errors returned when a singular matrix is inverted.
var ErrSingular = errors.New("singular matrix")

// SingularMatrixError is returned by [Matrix.Invert] when the determinant
// of the matrix is too close to zero.
type SingularMatrixError struct {
	M   Matrix
	Det float64
}

func (err *SingularMatrixError) Error() string {
	return fmt.Sprintf("cannot invert matrix %v: determinant %g", err.M, err.Det)
}

// Is makes errors.Is(err, ErrSingular) report true.
func (err *SingularMatrixError) Is(target error) bool {
	return target == ErrSingular
}

// Translate returns a matrix which shifts by (dx, dy).
func Translate(dx, dy float64) Matrix {
	return Matrix{A: 1, D: 1, E: dx, F: dy}
}

// Scale returns a matrix which scales by sx horizontally and sy vertically.
func Scale(sx, sy float64) Matrix {
	return Matrix{A: sx, D: sy}
}

// RotateDeg returns a matrix which rotates by the given angle in degrees.
// Multiples of 90 degrees are exact.
func RotateDeg(deg float64) Matrix {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	var s, c float64
	switch {
	case nearlyEqual(deg, 0):
		s, c = 0, 1
	case nearlyEqual(deg, 90):
		s, c = 1, 0
	case nearlyEqual(deg, 180):
		s, c = 0, -1
	case nearlyEqual(deg, 270):
		s, c = -1, 0
	default:
		s, c = math.Sincos(deg * math.Pi / 180)
	}
	return Matrix{A: c, B: s, C: -s, D: c}
}

// Concat returns the transformation which first applies m and then n.
func (m Matrix) Concat(n Matrix) Matrix {
	return Matrix{
		A: m.A*n.A + m.B*n.C,
		B: m.A*n.B + m.B*n.D,
		C: m.C*n.A + m.D*n.C,
		D: m.C*n.B + m.D*n.D,
		E: m.E*n.A + m.F*n.C + n.E,
		F: m.E*n.B + m.F*n.D + n.F,
	}
}

// Det returns the determinant of the linear part of m.
func (m Matrix) Det() float64 {
	return m.A*m.D - m.B*m.C
}

// Invert returns the inverse of m.
// If m is singular, a [*SingularMatrixError] is returned.
func (m Matrix) Invert() (Matrix, error) {
	det := m.Det()
	if det > -Epsilon && det < Epsilon {
		return Matrix{}, &SingularMatrixError{M: m, Det: det}
	}
	rdet := 1 / det
	inv := Matrix{
		A: m.D * rdet,
		B: -m.B * rdet,
		C: -m.C * rdet,
		D: m.A * rdet,
	}
	inv.E = -m.E*inv.A - m.F*inv.C
	inv.F = -m.E*inv.B - m.F*inv.D
	return inv, nil
}

// IsRectilinear reports whether m maps axis-aligned rectangles to
// axis-aligned rectangles.  This is the case if either both off-diagonal
// or both diagonal terms are zero.
func (m Matrix) IsRectilinear() bool {
	return (isZero(m.B) && isZero(m.C)) || (isZero(m.A) && isZero(m.D))
}

// Expansion returns the largest factor by which m can stretch a length.
func (m Matrix) Expansion() float64 {
	return max(math.Abs(m.A), math.Abs(m.B), math.Abs(m.C), math.Abs(m.D))
}

// Geom converts m to the matrix type of seehuhn.de/go/geom.
func (m Matrix) Geom() matrix.Matrix {
	return matrix.Matrix{m.A, m.B, m.C, m.D, m.E, m.F}
}

// FromGeom converts a seehuhn.de/go/geom matrix.
// The zero matrix is mapped to the identity.
func FromGeom(m matrix.Matrix) Matrix {
	if m == (matrix.Matrix{}) {
		return Identity
	}
	return Matrix{A: m[0], B: m[1], C: m[2], D: m[3], E: m[4], F: m[5]}
}

func (m Matrix) String() string {
	return fmt.Sprintf("[%g %g %g %g %g %g]", m.A, m.B, m.C, m.D, m.E, m.F)
}

func isZero(x float64) bool {
	return x > -Epsilon && x < Epsilon
}

func nearlyEqual(a, b float64) bool {
	return isZero(a - b)
}
