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
	"fmt"
	"testing"

	"seehuhn.de/go/geom/path"

	"seehuhn.de/go/lineart/geometry"
)

// BenchmarkFillO benchmarks tracing an "O" shape made of two circles.
func BenchmarkFillO(b *testing.B) {
	for _, size := range []float64{20, 200, 2000} {
		b.Run(fmt.Sprintf("%g", size), func(b *testing.B) {
			c := size / 2
			p := makeOPath(c, c, size*0.45, size*0.30)
			d := New(&Options{Sink: func(*ShapeRecord) error { return nil }})

			b.ReportAllocs()
			for b.Loop() {
				if err := d.FillPath(p, true, geometry.Identity, nil, 1); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkFillStrokeRects benchmarks the recognition and merging of
// rectangles, the most common shape in tables and forms.
func BenchmarkFillStrokeRects(b *testing.B) {
	paths := make([]*path.Data, 100)
	for i := range paths {
		x := float64(i)
		paths[i] = rectPath(x, 0, x+1, 10)
	}
	st := DefaultStrokeState()

	b.ReportAllocs()
	for b.Loop() {
		d := New(nil)
		for _, p := range paths {
			if err := d.FillPath(p, false, geometry.Identity, red, 1); err != nil {
				b.Fatal(err)
			}
			if err := d.StrokePath(p, st, geometry.Identity, red, 1); err != nil {
				b.Fatal(err)
			}
		}
		if n := len(d.Records()); n != len(paths) {
			b.Fatalf("got %d records, want %d", n, len(paths))
		}
	}
}

// makeOPath builds an "O": the outer circle clockwise, the inner one
// counter-clockwise.
func makeOPath(cx, cy, outerR, innerR float64) *path.Data {
	p := addCircle(&path.Data{}, cx, cy, outerR, true)
	return addCircle(p, cx, cy, innerR, false)
}

// addCircle appends a circle made of four cubic Bézier curves.
func addCircle(p *path.Data, cx, cy, r float64, clockwise bool) *path.Data {
	const k = 0.5522847498
	kr := k * r
	s := 1.0
	if !clockwise {
		s = -1
	}
	return p.MoveTo(pt(cx, cy-r)).
		CubeTo(pt(cx-s*kr, cy-r), pt(cx-s*r, cy-kr), pt(cx-s*r, cy)).
		CubeTo(pt(cx-s*r, cy+kr), pt(cx-s*kr, cy+r), pt(cx, cy+r)).
		CubeTo(pt(cx+s*kr, cy+r), pt(cx+s*r, cy+kr), pt(cx+s*r, cy)).
		CubeTo(pt(cx+s*r, cy-kr), pt(cx+s*kr, cy-r), pt(cx, cy-r)).
		Close()
}
