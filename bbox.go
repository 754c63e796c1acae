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
	"seehuhn.de/go/pdf/graphics"

	"seehuhn.de/go/lineart/geometry"
)

func (d *Device) addBBox(kind BBoxKind, r geometry.Rect) {
	rec := BBoxRecord{Kind: kind, Rect: r}
	if d.layers {
		rec.Layer = d.layer
		rec.Layered = true
	}
	d.bboxes = append(d.bboxes, rec)
}

// strokeBound widens the bound of a path by the amount a stroke can
// extend beyond the path outline.
func strokeBound(r geometry.Rect, st *StrokeState, ctm geometry.Matrix) geometry.Rect {
	if r.IsInfinite() || !r.IsValid() {
		return r
	}
	width := st.Width
	if width == 0 {
		width = 1
	}
	expand := width * ctm.Expansion()
	if st.Join == graphics.LineJoinMiter && st.MiterLimit > 1 {
		expand *= st.MiterLimit
	}
	expand *= 0.5
	return geometry.Rect{
		X0: r.X0 - expand,
		Y0: r.Y0 - expand,
		X1: r.X1 + expand,
		Y1: r.Y1 + expand,
	}.Clamp()
}
