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
	"seehuhn.de/go/pdf/graphics"
)

var strokeCases = []TestCase{
	{
		Name:   "line",
		Path:   horizontalLine(10, 32, 54),
		Width:  64,
		Height: 64,
		Op:     stroke(8),
		Items:  []string{"l"},
	},
	{
		Name:   "line_round",
		Path:   horizontalLine(10, 32, 54),
		Width:  64,
		Height: 64,
		Op: Stroke{
			Width:      8,
			Cap:        graphics.LineCapRound,
			Join:       graphics.LineJoinRound,
			MiterLimit: 10,
		},
		Items: []string{"l"},
	},
	{
		Name:   "corner_bevel",
		Path:   polyline(pt(10, 50), pt(32, 14), pt(54, 50)),
		Width:  64,
		Height: 64,
		Op: Stroke{
			Width:      6,
			Cap:        graphics.LineCapButt,
			Join:       graphics.LineJoinBevel,
			MiterLimit: 10,
		},
		Items: []string{"l", "l"},
	},
	{
		Name:   "rectangle",
		Path:   rectangle(10, 10, 54, 44),
		Width:  64,
		Height: 64,
		Op:     stroke(2),
		Items:  []string{"re"},
	},
	{
		Name:   "square_explicit_close",
		Path:   closedPolygon(pt(10, 10), pt(10, 54), pt(54, 54), pt(54, 10)),
		Width:  64,
		Height: 64,
		Op:     stroke(2),
		Items:  []string{"qu"},
	},
	{
		Name:   "diamond",
		Path:   closedPolygon(pt(32, 6), pt(6, 32), pt(32, 58), pt(58, 32)),
		Width:  64,
		Height: 64,
		Op:     stroke(2),
		Items:  []string{"qu"},
	},
	{
		// the closing segment is synthesised and does not form a quad
		Name:   "diamond_implicit_close",
		Path:   (&path.Data{}).MoveTo(pt(32, 6)).LineTo(pt(6, 32)).LineTo(pt(32, 58)).LineTo(pt(58, 32)).Close(),
		Width:  64,
		Height: 64,
		Op:     stroke(2),
		Items:  []string{"l", "l", "l", "l"},
	},
	{
		// after a failed quad test, no further quads are found in the
		// same run of lines
		Name:   "pentagon_explicit_close",
		Path:   closedPolygon(pt(32, 6), pt(6, 26), pt(16, 58), pt(48, 58), pt(58, 26)),
		Width:  64,
		Height: 64,
		Op:     stroke(2),
		Items:  []string{"l", "l", "l", "l", "l"},
	},
}

// horizontalLine builds a horizontal line segment.
func horizontalLine(x1, y, x2 float64) *path.Data {
	return (&path.Data{}).
		MoveTo(pt(x1, y)).
		LineTo(pt(x2, y))
}
