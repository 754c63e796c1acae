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

import "math"

// IRect is an axis-aligned rectangle with integer coordinates, for example
// a pixel area.
type IRect struct {
	X0, Y0, X1, Y1 int
}

// InfiniteIRect is the integer rectangle which contains everything.
var InfiniteIRect = IRect{
	X0: int(MinInfRect),
	Y0: int(MinInfRect),
	X1: int(MaxInfRect),
	Y1: int(MaxInfRect),
}

// IsEmpty reports whether r contains no pixels.
func (r IRect) IsEmpty() bool {
	return r.X0 >= r.X1 || r.Y0 >= r.Y1
}

// IsInfinite reports whether r is the infinite integer rectangle.
func (r IRect) IsInfinite() bool {
	return r == InfiniteIRect
}

// Dx returns the width of r.
func (r IRect) Dx() int {
	return max(r.X1-r.X0, 0)
}

// Dy returns the height of r.
func (r IRect) Dy() int {
	return max(r.Y1-r.Y0, 0)
}

// Intersect returns the intersection of r and s.
func (r IRect) Intersect(s IRect) IRect {
	if r.IsEmpty() || s.IsEmpty() {
		return IRect{}
	}
	res := IRect{
		X0: max(r.X0, s.X0),
		Y0: max(r.Y0, s.Y0),
		X1: min(r.X1, s.X1),
		Y1: min(r.Y1, s.Y1),
	}
	if res.IsEmpty() {
		return IRect{}
	}
	return res
}

// Rect converts r to a floating point rectangle.
// The infinite integer rectangle maps to [Infinite].
func (r IRect) Rect() Rect {
	if r.IsInfinite() {
		return Infinite
	}
	return Rect{X0: float64(r.X0), Y0: float64(r.Y0), X1: float64(r.X1), Y1: float64(r.Y1)}
}

func clampInt(x float64) int {
	switch {
	case math.IsNaN(x):
		return 0
	case x < MinInfRect:
		return int(MinInfRect)
	case x > MaxInfRect:
		return int(MaxInfRect)
	}
	return int(x)
}
