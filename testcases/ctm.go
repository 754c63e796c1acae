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
	"seehuhn.de/go/geom/matrix"
)

var ctmCases = []TestCase{
	{
		Name:   "scale_2x",
		Path:   rectangle(0, 0, 20, 20),
		Width:  128,
		Height: 128,
		Op:     Fill{Rule: NonZero},
		CTM:    matrix.Matrix{2, 0, 0, 2, 24, 24},
		Items:  []string{"re"},
	},
	{
		Name:   "flip_y",
		Path:   rectangle(10, 10, 54, 44),
		Width:  64,
		Height: 64,
		Op:     stroke(1),
		CTM:    matrix.Matrix{1, 0, 0, -1, 0, 64},
		Items:  []string{"re"},
	},
	{
		// after a quarter turn, the first edge is vertical
		Name:   "rotate_90",
		Path:   rectangle(10, 10, 54, 44),
		Width:  64,
		Height: 64,
		Op:     Fill{Rule: NonZero},
		CTM:    matrix.Matrix{0, 1, -1, 0, 64, 0},
		Items:  []string{"l", "l", "l", "l"},
	},
	{
		Name:   "rotate_30_quad",
		Path:   closedPolygon(pt(-10, -10), pt(-10, 10), pt(10, 10), pt(10, -10)),
		Width:  64,
		Height: 64,
		Op:     stroke(2),
		CTM:    matrix.RotateDeg(30).Translate(32, 32),
		Items:  []string{"qu"},
	},
	{
		Name:   "skew_x",
		Path:   rectangle(-10, -10, 10, 10),
		Width:  64,
		Height: 64,
		Op:     Fill{Rule: NonZero},
		CTM:    matrix.Matrix{1, 0, 0.5, 1, 0, 0}.Translate(32, 32),
		Items:  []string{"l", "l", "l", "l"},
	},
	{
		Name:   "stretch_stroke",
		Path:   horizontalLine(-20, 0, 20),
		Width:  128,
		Height: 64,
		Op:     stroke(2),
		CTM:    matrix.Scale(2, 1).Translate(64, 32),
		Items:  []string{"l"},
	},
}
