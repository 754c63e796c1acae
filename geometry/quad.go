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

package geometry

// Quad is a quadrilateral given by its four corners.  For a quad obtained
// from a rectangle, UL is the corner (X0, Y0) and LR is (X1, Y1).
type Quad struct {
	UL, UR, LL, LR Point
}

// Transform applies m to all corners of q.
func (q Quad) Transform(m Matrix) Quad {
	return Quad{
		UL: q.UL.Transform(m),
		UR: q.UR.Transform(m),
		LL: q.LL.Transform(m),
		LR: q.LR.Transform(m),
	}
}

// Rect returns the bounding box of q.
func (q Quad) Rect() Rect {
	return RectFromPoints(q.UL, q.UR, q.LL, q.LR)
}

// IsConvex reports whether q is a convex quadrilateral.  This is the case
// if each of the two diagonals separates the two remaining corners.
func (q Quad) IsConvex() bool {
	return separates(q.UL, q.LR, q.UR, q.LL) && separates(q.UR, q.LL, q.UL, q.LR)
}

// IsRectangular reports whether q is a rectangle, possibly rotated.
// All angles need to be right angles within Epsilon.
func (q Quad) IsRectangular() bool {
	if !q.IsConvex() {
		return false
	}
	top := q.UR.Sub(q.UL)
	left := q.LL.Sub(q.UL)
	bottom := q.LR.Sub(q.LL)
	right := q.LR.Sub(q.UR)
	return isZero(dot(top, left)) && isZero(dot(bottom, right)) &&
		isZero(dot(top, right)) && isZero(dot(bottom, left))
}

// IsEmpty reports whether q encloses no area.
func (q Quad) IsEmpty() bool {
	area := q.UR.Sub(q.UL).Cross(q.LR.Sub(q.UL)) + q.LR.Sub(q.UL).Cross(q.LL.Sub(q.UL))
	return isZero(area)
}

// separates reports whether the line through a and b has p and q strictly
// on opposite sides.
func separates(a, b, p, q Point) bool {
	d := b.Sub(a)
	sp := d.Cross(p.Sub(a))
	sq := d.Cross(q.Sub(a))
	return (sp > Epsilon && sq < -Epsilon) || (sp < -Epsilon && sq > Epsilon)
}

func dot(p, q Point) float64 {
	return p.X*q.X + p.Y*q.Y
}
