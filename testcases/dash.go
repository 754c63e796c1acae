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
	"seehuhn.de/go/pdf/graphics"
)

var dashCases = []TestCase{
	{
		Name:   "dash_simple",
		Path:   horizontalLine(5, 32, 59),
		Width:  64,
		Height: 64,
		Op:     dashed(4, 8, 4),
		Items:  []string{"l"},
	},
	{
		Name:   "dash_three_element",
		Path:   horizontalLine(5, 32, 59),
		Width:  64,
		Height: 64,
		Op:     dashed(4, 5, 3, 8),
		Items:  []string{"l"},
	},
	{
		Name:   "dash_phase",
		Path:   horizontalLine(5, 32, 59),
		Width:  64,
		Height: 64,
		Op: Stroke{
			Width:      4,
			Cap:        graphics.LineCapButt,
			Join:       graphics.LineJoinMiter,
			MiterLimit: 10,
			Dash:       []float64{8, 4},
			DashPhase:  6,
		},
		Items: []string{"l"},
	},
	{
		// widths and dash lengths are scaled by the uniform scale factor
		Name:   "dash_scaled",
		Path:   horizontalLine(2, 16, 30),
		Width:  64,
		Height: 64,
		Op:     dashed(2, 4, 2),
		CTM:    matrix.Matrix{2, 0, 0, 2, 0, 0},
		Items:  []string{"l"},
	},
	{
		Name:   "dash_rectangle",
		Path:   rectangle(10, 10, 54, 44),
		Width:  64,
		Height: 64,
		Op:     dashed(2, 6, 2),
		Items:  []string{"re"},
	},
}

// dashed returns a butt-capped stroke with the given width and dash
// pattern.
func dashed(width float64, pattern ...float64) Stroke {
	st := stroke(width)
	st.Dash = pattern
	return st
}
