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
	"math"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
)

var fillCases = []TestCase{
	{
		Name:   "rectangle",
		Path:   rectangle(10, 10, 54, 44),
		Width:  64,
		Height: 64,
		Op:     Fill{Rule: NonZero},
		Items:  []string{"re"},
	},
	{
		Name:   "rectangle_evenodd",
		Path:   rectangle(10, 10, 54, 44),
		Width:  64,
		Height: 64,
		Op:     Fill{Rule: EvenOdd},
		Items:  []string{"re"},
	},
	{
		// the first edge is vertical, so this is not recognised
		Name:   "rectangle_clockwise",
		Path:   (&path.Data{}).MoveTo(pt(10, 10)).LineTo(pt(10, 44)).LineTo(pt(54, 44)).LineTo(pt(54, 10)).Close(),
		Width:  64,
		Height: 64,
		Op:     Fill{Rule: NonZero},
		Items:  []string{"l", "l", "l", "l"},
	},
	{
		Name:   "rectangle_open",
		Path:   polyline(pt(10, 10), pt(54, 10), pt(54, 44), pt(10, 44)),
		Width:  64,
		Height: 64,
		Op:     Fill{Rule: NonZero},
		Items:  []string{"l", "l", "l"},
	},
	{
		Name:   "triangle",
		Path:   triangle(10, 50, 32, 10, 54, 50),
		Width:  64,
		Height: 64,
		Op:     Fill{Rule: NonZero},
		Items:  []string{"l", "l", "l"},
	},
	{
		Name:   "star_evenodd",
		Path:   fivePointStar(32, 32, 25),
		Width:  64,
		Height: 64,
		Op:     Fill{Rule: EvenOdd},
		Items:  []string{"l", "l", "l", "l", "l"},
	},
	{
		// quads are only recognised for strokes and clips
		Name:   "square_explicit_close",
		Path:   closedPolygon(pt(10, 10), pt(10, 54), pt(54, 54), pt(54, 10)),
		Width:  64,
		Height: 64,
		Op:     Fill{Rule: NonZero},
		Items:  []string{"l", "l", "l", "l"},
	},
}

// triangle builds a triangular path.
func triangle(x1, y1, x2, y2, x3, y3 float64) *path.Data {
	return (&path.Data{}).
		MoveTo(pt(x1, y1)).
		LineTo(pt(x2, y2)).
		LineTo(pt(x3, y3)).
		Close()
}

// fivePointStar builds a five-pointed star (self-intersecting).
func fivePointStar(cx, cy, r float64) *path.Data {
	// five points, connecting every second point
	pts := make([]vec.Vec2, 5)
	for i := range 5 {
		angle := float64(i)*2*math.Pi/5 - math.Pi/2
		pts[i] = vec.Vec2{
			X: cx + r*math.Cos(angle),
			Y: cy + r*math.Sin(angle),
		}
	}

	// draw star: 0 -> 2 -> 4 -> 1 -> 3 -> 0
	order := []int{0, 2, 4, 1, 3}
	p := (&path.Data{}).MoveTo(pts[order[0]])
	for _, i := range order[1:] {
		p = p.LineTo(pts[i])
	}
	return p.Close()
}
