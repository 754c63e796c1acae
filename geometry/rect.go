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

import (
	"fmt"
	"math"

	"seehuhn.de/go/geom/rect"
)

// Sentinel bounds of the infinite rectangle.  All coordinates computed by
// this package are clamped to [MinInfRect, MaxInfRect].
const (
	MinInfRect = -2147483648.0
	MaxInfRect = 2147483520.0
)

// Rect is an axis-aligned rectangle.
// A rectangle is empty if X0 >= X1 or Y0 >= Y1.
type Rect struct {
	X0, Y0, X1, Y1 float64
}

// Infinite is the rectangle which contains everything.
// It is preserved exactly by all operations of this package.
var Infinite = Rect{X0: MinInfRect, Y0: MinInfRect, X1: MaxInfRect, Y1: MaxInfRect}

// Empty is the canonical empty rectangle.  Its corners are swapped, so that
// including a point gives a single-point rectangle.
var Empty = Rect{X0: MaxInfRect, Y0: MaxInfRect, X1: MinInfRect, Y1: MinInfRect}

// Unit is the unit square, the image space of all PDF images.
var Unit = Rect{X1: 1, Y1: 1}

// RectFromPoints returns the bounding box of the given points.
func RectFromPoints(pts ...Point) Rect {
	r := Empty
	for _, p := range pts {
		r = r.IncludePoint(p)
	}
	return r
}

// IsEmpty reports whether r contains no area.
func (r Rect) IsEmpty() bool {
	return r.X0 >= r.X1 || r.Y0 >= r.Y1
}

// IsInfinite reports whether r is the infinite rectangle.
func (r Rect) IsInfinite() bool {
	return r == Infinite
}

// IsValid reports whether the corners of r are ordered.
// Degenerate rectangles of zero width or height are valid.
func (r Rect) IsValid() bool {
	return r.X0 <= r.X1 && r.Y0 <= r.Y1
}

// Width returns the width of r, or 0 for an invalid rectangle.
func (r Rect) Width() float64 {
	return max(r.X1-r.X0, 0)
}

// Height returns the height of r, or 0 for an invalid rectangle.
func (r Rect) Height() float64 {
	return max(r.Y1-r.Y0, 0)
}

// Normalize returns r with the corners swapped where necessary.
func (r Rect) Normalize() Rect {
	if r.X0 > r.X1 {
		r.X0, r.X1 = r.X1, r.X0
	}
	if r.Y0 > r.Y1 {
		r.Y0, r.Y1 = r.Y1, r.Y0
	}
	return r
}

// Clamp limits the coordinates of r to [MinInfRect, MaxInfRect].
// NaN coordinates are replaced by zero.
func (r Rect) Clamp() Rect {
	return Rect{
		X0: clampCoord(r.X0),
		Y0: clampCoord(r.Y0),
		X1: clampCoord(r.X1),
		Y1: clampCoord(r.Y1),
	}
}

// Intersect returns the intersection of r and s.
func (r Rect) Intersect(s Rect) Rect {
	if r.IsEmpty() || s.IsEmpty() {
		return Empty
	}
	if s.IsInfinite() {
		return r
	}
	if r.IsInfinite() {
		return s
	}
	res := Rect{
		X0: max(r.X0, s.X0),
		Y0: max(r.Y0, s.Y0),
		X1: min(r.X1, s.X1),
		Y1: min(r.Y1, s.Y1),
	}
	if res.IsEmpty() {
		return Empty
	}
	return res
}

// Union returns the smallest rectangle containing both r and s.
// Invalid rectangles do not contribute.
func (r Rect) Union(s Rect) Rect {
	if !s.IsValid() {
		return r
	}
	if !r.IsValid() {
		return s
	}
	if r.IsInfinite() || s.IsInfinite() {
		return Infinite
	}
	return Rect{
		X0: min(r.X0, s.X0),
		Y0: min(r.Y0, s.Y0),
		X1: max(r.X1, s.X1),
		Y1: max(r.Y1, s.Y1),
	}
}

// IncludePoint returns the smallest rectangle containing r and p.
// The infinite rectangle is returned unchanged.
func (r Rect) IncludePoint(p Point) Rect {
	if r.IsInfinite() {
		return r
	}
	x, y := clampCoord(p.X), clampCoord(p.Y)
	if !r.IsValid() {
		return Rect{X0: x, Y0: y, X1: x, Y1: y}
	}
	return Rect{
		X0: min(r.X0, x),
		Y0: min(r.Y0, y),
		X1: max(r.X1, x),
		Y1: max(r.Y1, y),
	}
}

// ContainsPoint reports whether p lies inside r or on its boundary.
func (r Rect) ContainsPoint(p Point) bool {
	if r.IsInfinite() {
		return true
	}
	return p.X >= r.X0 && p.X <= r.X1 && p.Y >= r.Y0 && p.Y <= r.Y1
}

// Contains reports whether s is a subset of r.
// Every rectangle contains the empty rectangle.
func (r Rect) Contains(s Rect) bool {
	if s.IsEmpty() || r.IsInfinite() {
		return true
	}
	if r.IsEmpty() || s.IsInfinite() {
		return false
	}
	return s.X0 >= r.X0 && s.Y0 >= r.Y0 && s.X1 <= r.X1 && s.Y1 <= r.Y1
}

// Transform returns the bounding box of the image of r under m.
// The infinite rectangle and invalid rectangles are returned unchanged.
func (r Rect) Transform(m Matrix) Rect {
	if r.IsInfinite() || !r.IsValid() {
		return r
	}
	if isZero(m.B) && isZero(m.C) {
		res := Rect{
			X0: r.X0*m.A + m.E,
			X1: r.X1*m.A + m.E,
			Y0: r.Y0*m.D + m.F,
			Y1: r.Y1*m.D + m.F,
		}
		return res.Normalize().Clamp()
	}
	return r.Quad().Transform(m).Rect()
}

// Quad returns r as a quad.
func (r Rect) Quad() Quad {
	return Quad{
		UL: Point{X: r.X0, Y: r.Y0},
		UR: Point{X: r.X1, Y: r.Y0},
		LL: Point{X: r.X0, Y: r.Y1},
		LR: Point{X: r.X1, Y: r.Y1},
	}
}

// Round returns the smallest integer rectangle containing r, allowing a
// small tolerance for values just beyond an integer.
func (r Rect) Round() IRect {
	if r.IsInfinite() {
		return InfiniteIRect
	}
	if !r.IsValid() {
		return IRect{}
	}
	return IRect{
		X0: clampInt(math.Floor(r.X0 + 0.001)),
		Y0: clampInt(math.Floor(r.Y0 + 0.001)),
		X1: clampInt(math.Ceil(r.X1 - 0.001)),
		Y1: clampInt(math.Ceil(r.Y1 - 0.001)),
	}
}

// Geom converts r to a seehuhn.de/go/geom rectangle.
func (r Rect) Geom() rect.Rect {
	return rect.Rect{LLx: r.X0, LLy: r.Y0, URx: r.X1, URy: r.Y1}
}

// RectFromGeom converts a seehuhn.de/go/geom rectangle.
func RectFromGeom(r rect.Rect) Rect {
	return Rect{X0: r.LLx, Y0: r.LLy, X1: r.URx, Y1: r.URy}.Normalize()
}

func (r Rect) String() string {
	if r.IsInfinite() {
		return "Rect(infinite)"
	}
	return fmt.Sprintf("Rect(%g, %g, %g, %g)", r.X0, r.Y0, r.X1, r.Y1)
}

func clampCoord(x float64) float64 {
	switch {
	case math.IsNaN(x):
		return 0
	case x < MinInfRect:
		return MinInfRect
	case x > MaxInfRect:
		return MaxInfRect
	}
	return x
}
