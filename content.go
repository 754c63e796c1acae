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

import "seehuhn.de/go/lineart/geometry"

// Text is a piece of text shown by a single text operator.
type Text struct {
	Spans []TextSpan
}

// TextSpan is a run of glyphs in one font.
type TextSpan struct {
	Font string
	Size float64

	// Text is the best-effort Unicode rendering of the glyphs.
	Text string

	// Bound is the bounding box of the glyphs, in the coordinate system
	// which the ctm of the text event maps to device space.
	Bound geometry.Rect
}

// Bound returns the union of the span bounds.
func (t *Text) Bound() geometry.Rect {
	if t == nil {
		return geometry.Empty
	}
	r := geometry.Empty
	for _, s := range t.Spans {
		r = r.Union(s.Bound)
	}
	return r
}

// Image describes an image or image mask.  Images occupy the unit square
// of the coordinate system given by the ctm.
type Image struct {
	Name          string
	Width, Height int
	IsMask        bool
}

// Shade describes a shading.
type Shade struct {
	Name string
	Type int

	// Bound is the extent of the shading in the coordinate system given by
	// the ctm.  Shadings without a /BBox use [geometry.Infinite]; their
	// painted area is then limited by the current scissor.
	Bound geometry.Rect
}
