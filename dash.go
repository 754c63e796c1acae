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

package lineart

import (
	"math"
	"strconv"
	"strings"

	"seehuhn.de/go/lineart/geometry"
)

// FormatDashes formats a dash pattern the way it is written in a PDF
// content stream, for example "[ 3 2 ] 0".  A solid line gives "[] 0".
// All lengths, including the phase, are multiplied by scale.
func FormatDashes(dash []float64, phase, scale float64) string {
	var b strings.Builder
	if len(dash) == 0 {
		b.WriteString("[] ")
	} else {
		b.WriteString("[ ")
		for _, d := range dash {
			b.WriteString(formatNumber(d * scale))
			b.WriteByte(' ')
		}
		b.WriteString("] ")
	}
	b.WriteString(formatNumber(phase * scale))
	return b.String()
}

func formatNumber(x float64) string {
	if x == 0 || math.IsNaN(x) {
		return "0"
	}
	return strconv.FormatFloat(x, 'g', 6, 64)
}

// pathFactor returns the factor by which line widths and dash lengths are
// scaled when the path is mapped to device space.  It is only different
// from one for transformations which scale both axes by the same amount.
func pathFactor(m geometry.Matrix) float64 {
	a, b, c, d := math.Abs(m.A), math.Abs(m.B), math.Abs(m.C), math.Abs(m.D)
	switch {
	case a != 0 && a == d:
		return a
	case b != 0 && b == c:
		return b
	default:
		return 1
	}
}
