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

// Package preview draws traced line art into an image, for a quick visual
// check of a trace.
//
// Paths are rasterised with anti-aliasing.  Fills honour the even-odd and
// non-zero rules, strokes are drawn with the recorded caps, joins and dash
// patterns.  Stroke widths below one pixel are widened to one pixel.
package preview

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"
	"strings"

	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/graphics"
	"seehuhn.de/go/pdf/graphics/scanner"

	"seehuhn.de/go/lineart"
	"seehuhn.de/go/lineart/geometry"
)

// Flatness is the maximal distance, in pixels, between a curve and its
// approximating line segments.
const Flatness = 0.25

// BBoxColor is the colour of bounding box outlines.
var BBoxColor = color.NRGBA{R: 0, G: 128, B: 255, A: 255}

// Render draws the fill and stroke records and the outlines of the bounding
// box records on a white canvas of the given size.  Clip and group records
// are ignored.
func Render(records []*lineart.ShapeRecord, bboxes []lineart.BBoxRecord, width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	p := &painter{
		img: img,
		r:   newRasterizer(width, height),
	}
	for _, rec := range records {
		if f := rec.Fill; f != nil {
			p.col = toNRGBA(f.Color, f.Opacity)
			p.r.Fill(rec.Items, f.EvenOdd, p.blend)
		}
		if s := rec.Stroke; s != nil {
			p.setStroke(s)
			p.col = toNRGBA(s.Color, s.Opacity)
			p.r.Stroke(rec.Items, p.blend)
		}
	}
	for _, box := range bboxes {
		p.outline(box.Rect)
	}
	return img
}

// WritePNG encodes img as a PNG image.
func WritePNG(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}

type painter struct {
	img *image.RGBA
	r   *rasterizer
	col color.NRGBA
}

func (p *painter) setStroke(s *lineart.StrokeInfo) {
	p.r.Width = max(s.Width, 1)
	p.r.Cap = s.LineCap
	p.r.Join = s.LineJoin
	p.r.MiterLimit = s.MiterLimit
	if p.r.MiterLimit < 1 {
		p.r.MiterLimit = 10
	}
	p.r.Dash, p.r.DashPhase = parseDashes(s.Dashes)
}

// blend composites the current colour onto one row of the image, with
// the given coverage values.
func (p *painter) blend(y, xMin int, coverage []float32) {
	a := float64(p.col.A) / 255
	for i, c := range coverage {
		alpha := a * float64(c)
		if alpha <= 0 {
			continue
		}
		x := xMin + i
		dst := p.img.RGBAAt(x, y)
		p.img.SetRGBA(x, y, color.RGBA{
			R: mix(dst.R, p.col.R, alpha),
			G: mix(dst.G, p.col.G, alpha),
			B: mix(dst.B, p.col.B, alpha),
			A: mix(dst.A, 255, alpha),
		})
	}
}

func mix(dst, src uint8, alpha float64) uint8 {
	return uint8(math.Round(float64(dst)*(1-alpha) + float64(src)*alpha))
}

func (p *painter) outline(r geometry.Rect) {
	b := p.img.Bounds()
	r = r.Intersect(geometry.Rect{X1: float64(b.Dx()), Y1: float64(b.Dy())})
	if !r.IsValid() {
		return
	}
	p.setStroke(&lineart.StrokeInfo{Width: 1, LineJoin: graphics.LineJoinMiter})
	p.col = BBoxColor
	p.r.Stroke([]lineart.PathItem{lineart.RectItem{Rect: r, Orientation: 1}}, p.blend)
}

// parseDashes reads a dash pattern in content stream notation, as written
// by [lineart.FormatDashes].  Malformed patterns give a solid line.
func parseDashes(s string) ([]float64, float64) {
	if s == "" {
		return nil, 0
	}
	var dash []float64
	var phase float64
	sc := scanner.NewScanner()
	err := sc.Scan(strings.NewReader(s + " d"))(func(op string, args []pdf.Object) error {
		if op != "d" || len(args) != 2 {
			return errMalformedDash
		}
		arr, ok := args[0].(pdf.Array)
		if !ok {
			return errMalformedDash
		}
		for _, obj := range arr {
			x, ok := number(obj)
			if !ok || x < 0 {
				return errMalformedDash
			}
			dash = append(dash, x)
		}
		if phase, ok = number(args[1]); !ok {
			return errMalformedDash
		}
		return nil
	})
	if err != nil {
		return nil, 0
	}
	return dash, phase
}

var errMalformedDash = errors.New("malformed dash pattern")

func number(obj pdf.Object) (float64, bool) {
	switch x := obj.(type) {
	case pdf.Integer:
		return float64(x), true
	case pdf.Real:
		return float64(x), true
	case pdf.Number:
		return float64(x), true
	default:
		return 0, false
	}
}

func toNRGBA(col lineart.Color, alpha float64) color.NRGBA {
	var r, g, b float64
	switch len(col) {
	case 1:
		r, g, b = col[0], col[0], col[0]
	case 3:
		r, g, b = col[0], col[1], col[2]
	}
	return color.NRGBA{R: to8(r), G: to8(g), B: to8(b), A: to8(alpha)}
}

func to8(x float64) uint8 {
	return uint8(math.Round(min(max(x, 0), 1) * 255))
}
