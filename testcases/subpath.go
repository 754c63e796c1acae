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

package testcases

import (
	"seehuhn.de/go/geom/path"
)

var subpathCases = []TestCase{
	{
		Name:   "two_rectangles",
		Path:   overlappingRectangles(10, 10, 40, 40, 24, 24, 54, 54),
		Width:  64,
		Height: 64,
		Op:     Fill{Rule: EvenOdd},
		Items:  []string{"re", "re"},
	},
	{
		Name:   "two_triangles",
		Path:   twoTriangles(16, 32, 48, 32, 12),
		Width:  64,
		Height: 64,
		Op:     Fill{Rule: NonZero},
		Items:  []string{"l", "l", "l", "l", "l", "l"},
	},
	{
		Name:   "rectangle_and_line",
		Path:   rectangleAndLine(),
		Width:  64,
		Height: 64,
		Op:     stroke(1),
		Items:  []string{"re", "l"},
	},
	{
		// moveto alone draws nothing
		Name:   "lone_moveto",
		Path:   (&path.Data{}).MoveTo(pt(10, 10)).MoveTo(pt(20, 20)),
		Width:  64,
		Height: 64,
		Op:     Fill{Rule: NonZero},
		Items:  nil,
	},
}

// overlappingRectangles builds two rectangles as separate subpaths.
func overlappingRectangles(ax1, ay1, ax2, ay2, bx1, by1, bx2, by2 float64) *path.Data {
	return (&path.Data{}).
		MoveTo(pt(ax1, ay1)).
		LineTo(pt(ax2, ay1)).
		LineTo(pt(ax2, ay2)).
		LineTo(pt(ax1, ay2)).
		Close().
		MoveTo(pt(bx1, by1)).
		LineTo(pt(bx2, by1)).
		LineTo(pt(bx2, by2)).
		LineTo(pt(bx1, by2)).
		Close()
}

// twoTriangles builds two separate, disjoint triangles.
func twoTriangles(cx1, cy1, cx2, cy2, r float64) *path.Data {
	return (&path.Data{}).
		MoveTo(pt(cx1, cy1-r)).
		LineTo(pt(cx1+r, cy1+r)).
		LineTo(pt(cx1-r, cy1+r)).
		Close().
		MoveTo(pt(cx2, cy2-r)).
		LineTo(pt(cx2+r, cy2+r)).
		LineTo(pt(cx2-r, cy2+r)).
		Close()
}

func rectangleAndLine() *path.Data {
	return rectangle(10, 10, 30, 30).
		MoveTo(pt(40, 10)).
		LineTo(pt(54, 54))
}
