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

package preview

import (
	"math"
	"slices"

	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"

	"seehuhn.de/go/lineart"
	"seehuhn.de/go/lineart/geometry"
)

// edge is a non-horizontal line segment in pixel coordinates.
type edge struct {
	x0, y0 float64
	x1, y1 float64
	dxdy   float64 // (x1-x0)/(y1-y0)
}

// subpath is a flattened subpath of a traced path.  The closing segment
// of a closed subpath is implicit.
type subpath struct {
	pts    []vec.Vec2
	closed bool
}

// rasterizer computes anti-aliased pixel coverage for the path items of
// shape records.  Items are already in device space, so one device unit
// is one pixel.  Buffers are reused between calls.
type rasterizer struct {
	width, height int

	// Flatness is the curve flattening tolerance in pixels.
	Flatness float64

	// Stroke parameters, in pixels.
	Width      float64
	Cap        graphics.LineCapStyle
	Join       graphics.LineJoinStyle
	MiterLimit float64
	Dash       []float64
	DashPhase  float64

	subpaths []subpath

	edges        []edge
	haveBox      bool
	boxX0, boxX1 float64
	boxY0, boxY1 float64
	cover, area  []float32
	rowHasEdges  []bool
	outline      []vec.Vec2 // stroke outline polygons, contiguous
	outlineStart []int      // start index of each polygon
	segs         []segment
	dashSegs     []segment
	dashes       [][2]int // index ranges into dashSegs
}

func newRasterizer(width, height int) *rasterizer {
	return &rasterizer{
		width:      width,
		height:     height,
		Flatness:   Flatness,
		Width:      1,
		Cap:        graphics.LineCapButt,
		Join:       graphics.LineJoinMiter,
		MiterLimit: 10,
	}
}

// flatten converts path items into flattened subpaths.  A line or curve
// which does not start at the current point begins a new subpath.
// Rectangles and quads are closed subpaths of their own.
func (r *rasterizer) flatten(items []lineart.PathItem) {
	r.subpaths = r.subpaths[:0]
	open := false
	var current vec.Vec2

	extend := func(from vec.Vec2) {
		if !open || from != current {
			r.subpaths = append(r.subpaths, subpath{pts: []vec.Vec2{from}})
			open = true
		}
	}
	add := func(_, to vec.Vec2) {
		sp := &r.subpaths[len(r.subpaths)-1]
		sp.pts = append(sp.pts, to)
		current = to
	}
	polygon := func(corners ...geometry.Point) {
		sp := subpath{closed: true}
		for _, c := range corners {
			sp.pts = append(sp.pts, c.Vec())
		}
		r.subpaths = append(r.subpaths, sp)
		open = false
	}

	for _, item := range items {
		switch item := item.(type) {
		case lineart.Line:
			extend(item.From.Vec())
			add(item.From.Vec(), item.To.Vec())
		case lineart.Curve:
			p0 := item.From.Vec()
			extend(p0)
			r.flattenCubic(p0, item.C1.Vec(), item.C2.Vec(), item.To.Vec(), add)
			current = item.To.Vec()
		case lineart.RectItem:
			q := item.Rect.Quad()
			if item.Orientation < 0 {
				polygon(q.UL, q.LL, q.LR, q.UR)
			} else {
				polygon(q.UL, q.UR, q.LR, q.LL)
			}
		case lineart.QuadItem:
			q := item.Quad
			polygon(q.UL, q.LL, q.LR, q.UR)
		}
	}

	// a subpath which returns to its start was closed by the tracer
	for i := range r.subpaths {
		sp := &r.subpaths[i]
		n := len(sp.pts)
		if !sp.closed && n > 2 && sp.pts[0] == sp.pts[n-1] {
			sp.pts = sp.pts[:n-1]
			sp.closed = true
		}
	}
}

// flattenCubic calls emit for the line segments approximating a cubic
// Bézier curve.  The number of segments follows Wang's formula.
func (r *rasterizer) flattenCubic(p0, p1, p2, p3 vec.Vec2, emit func(from, to vec.Vec2)) {
	d1 := p0.Sub(p1.Mul(2)).Add(p2)
	d2 := p1.Sub(p2.Mul(2)).Add(p3)
	m := max(d1.Length(), d2.Length())
	n := 1
	if nf := math.Sqrt(3 * m / (4 * r.Flatness)); nf > 1 {
		n = int(math.Ceil(nf))
	}

	prev := p0
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		s := 1 - t
		pt := p0.Mul(s * s * s).Add(p1.Mul(3 * s * s * t)).Add(p2.Mul(3 * s * t * t)).Add(p3.Mul(t * t * t))
		emit(prev, pt)
		prev = pt
	}
}

// Fill computes the coverage of the area enclosed by items.  Open
// subpaths are closed implicitly.
func (r *rasterizer) Fill(items []lineart.PathItem, evenOdd bool, emit func(y, xMin int, coverage []float32)) {
	r.flatten(items)
	r.resetEdges()
	for _, sp := range r.subpaths {
		n := len(sp.pts)
		if n < 2 {
			continue
		}
		for i := 1; i < n; i++ {
			r.addEdge(sp.pts[i-1], sp.pts[i])
		}
		r.addEdge(sp.pts[n-1], sp.pts[0])
	}
	r.rasterize(evenOdd, emit)
}

func (r *rasterizer) resetEdges() {
	r.edges = r.edges[:0]
	r.haveBox = false
}

func (r *rasterizer) addEdge(p0, p1 vec.Vec2) {
	dy := p1.Y - p0.Y
	if dy > -horizontalEdgeThreshold && dy < horizontalEdgeThreshold {
		return
	}
	r.edges = append(r.edges, edge{
		x0: p0.X, y0: p0.Y,
		x1: p1.X, y1: p1.Y,
		dxdy: (p1.X - p0.X) / dy,
	})

	x0, x1 := min(p0.X, p1.X), max(p0.X, p1.X)
	y0, y1 := min(p0.Y, p1.Y), max(p0.Y, p1.Y)
	if !r.haveBox {
		r.boxX0, r.boxX1, r.boxY0, r.boxY1 = x0, x1, y0, y1
		r.haveBox = true
		return
	}
	r.boxX0 = min(r.boxX0, x0)
	r.boxX1 = max(r.boxX1, x1)
	r.boxY0 = min(r.boxY0, y0)
	r.boxY1 = max(r.boxY1, y1)
}

// rasterize accumulates the collected edges into per-pixel cover and area
// values over the bounding box of the edges, and emits the coverage of
// each row.
//
// An edge crossing a pixel adds its signed vertical extent to cover, and
// the same weighted by the distance to the right pixel border to area.
// Scanning a row from left to right, the coverage of a pixel is the sum
// of cover over all pixels to its left, plus its own area.
func (r *rasterizer) rasterize(evenOdd bool, emit func(y, xMin int, coverage []float32)) {
	if len(r.edges) == 0 {
		return
	}
	xMin := max(int(math.Floor(r.boxX0)), 0)
	xMax := min(int(math.Floor(r.boxX1))+1, r.width)
	yMin := max(int(math.Floor(r.boxY0)), 0)
	yMax := min(int(math.Floor(r.boxY1))+1, r.height)
	if xMin >= xMax || yMin >= yMax {
		return
	}
	width := xMax - xMin
	height := yMax - yMin

	size := width * height
	r.cover = slices.Grow(r.cover[:0], size)[:size]
	r.area = slices.Grow(r.area[:0], size)[:size]
	clear(r.cover)
	clear(r.area)
	r.rowHasEdges = slices.Grow(r.rowHasEdges[:0], height)[:height]
	clear(r.rowHasEdges)

	for i := range r.edges {
		e := &r.edges[i]
		y0 := int(math.Floor(min(e.y0, e.y1)))
		y1 := int(math.Floor(max(e.y0, e.y1))) + 1
		for y := max(y0, yMin); y < min(y1, yMax); y++ {
			row := y - yMin
			offs := row * width
			accumulate(e, y, r.cover[offs:offs+width], r.area[offs:offs+width], xMin, xMax)
			r.rowHasEdges[row] = true
		}
	}

	for row := range height {
		if !r.rowHasEdges[row] {
			continue
		}
		offs := row * width
		coverage := r.cover[offs : offs+width]
		if evenOdd {
			integrateEvenOdd(coverage, r.area[offs:offs+width])
		} else {
			integrateNonZero(coverage, r.area[offs:offs+width])
		}
		if trimmed, skip := trimZeros(coverage); trimmed != nil {
			emit(yMin+row, xMin+skip, trimmed)
		}
	}
}

// accumulate adds the contribution of e within scanline y to a row of the
// cover and area buffers.  The buffers start at pixel xMin.  Edges left of
// the buffer are accounted for in its first pixel.
func accumulate(e *edge, y int, cover, area []float32, xMin, xMax int) {
	yTop := max(float64(y), min(e.y0, e.y1))
	yBot := min(float64(y+1), max(e.y0, e.y1))
	if yBot <= yTop {
		return
	}

	sign := float32(1)
	if e.y1 < e.y0 {
		sign = -1
	}

	xTop := e.x0 + e.dxdy*(yTop-e.y0)
	xBot := e.x0 + e.dxdy*(yBot-e.y0)
	pixLeft := int(math.Floor(min(xTop, xBot)))
	pixRight := int(math.Floor(max(xTop, xBot)))

	add := func(pix int, y0, y1 float64) {
		c := sign * float32(y1-y0)
		switch {
		case pix < xMin:
			cover[0] += c
			area[0] += c
		case pix < xMax:
			xMid := e.x0 + e.dxdy*((y0+y1)/2-e.y0)
			i := pix - xMin
			cover[i] += c
			area[i] += c * float32(1-(xMid-float64(pix)))
		}
	}

	if pixRight < xMin {
		add(pixRight, yTop, yBot)
		return
	}
	if pixLeft >= xMax {
		return
	}
	if pixLeft == pixRight {
		add(pixLeft, yTop, yBot)
		return
	}

	// split the edge at the pixel column boundaries
	dydx := 1 / e.dxdy
	for pix := pixLeft; pix <= pixRight; pix++ {
		ya := e.y0 + dydx*(float64(pix)-e.x0)
		yb := e.y0 + dydx*(float64(pix+1)-e.x0)
		y0 := max(min(ya, yb), yTop)
		y1 := min(max(ya, yb), yBot)
		if y1 > y0 {
			add(pix, y0, y1)
		}
	}
}

func integrateNonZero(cover, area []float32) {
	var acc float32
	for i := range cover {
		raw := acc + area[i]
		acc += cover[i]
		cover[i] = min(abs32(raw), 1)
	}
}

func integrateEvenOdd(cover, area []float32) {
	var acc float32
	for i := range cover {
		raw := abs32(acc + area[i])
		acc += cover[i]
		mod := raw - 2*float32(int(raw/2))
		cover[i] = 1 - abs32(1-mod)
	}
}

func abs32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

// trimZeros returns the part of coverage between the first and last
// non-zero value, and the index where it starts.
func trimZeros(coverage []float32) ([]float32, int) {
	lo, hi := 0, len(coverage)
	for lo < hi && coverage[lo] == 0 {
		lo++
	}
	if lo == hi {
		return nil, 0
	}
	for coverage[hi-1] == 0 {
		hi--
	}
	return coverage[lo:hi], lo
}

const (
	// horizontalEdgeThreshold is the minimal vertical extent of an edge
	// which contributes to coverage.
	horizontalEdgeThreshold = 1e-10

	// zeroLengthThreshold is the minimal length of a stroke segment.
	zeroLengthThreshold = 1e-10

	// collinearityThreshold is the sine of the angle below which two
	// segments need no join.
	collinearityThreshold = 1e-6

	// cuspCosineThreshold detects segments which double back on
	// themselves.  These get two caps instead of a join.
	cuspCosineThreshold = -0.9999
)
