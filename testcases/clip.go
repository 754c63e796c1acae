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

var clipCases = []TestCase{
	{
		Name:   "rectangle",
		Path:   rectangle(10, 10, 54, 44),
		Width:  64,
		Height: 64,
		Op:     Clip{Rule: NonZero},
		Items:  []string{"re"},
	},
	{
		Name:   "square_explicit_close",
		Path:   closedPolygon(pt(10, 10), pt(10, 54), pt(54, 54), pt(54, 10)),
		Width:  64,
		Height: 64,
		Op:     Clip{Rule: EvenOdd},
		Items:  []string{"qu"},
	},
	{
		Name:   "circle",
		Path:   circle(32, 32, 20),
		Width:  64,
		Height: 64,
		Op:     Clip{Rule: NonZero},
		Items:  []string{"c", "c", "c", "c"},
	},
}
