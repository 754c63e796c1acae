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
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/lineart/geometry"
)

// traceKind says which drawing operation a path is traced for.
// Quads are only recognised for strokes and clips.
type traceKind int

const (
	traceFill traceKind = iota
	traceStroke
	traceClip
	traceClipStroke
)

// walker converts a path into device space items and recognises
// rectangles and quads on the way.
type walker struct {
	ctm  geometry.Matrix
	kind traceKind

	items     []PathItem
	rect      geometry.Rect
	first     geometry.Point // start of the current subpath
	last      geometry.Point // current point
	lineCount int            // number of consecutive lines
	haveMove  bool
	closePath bool
}

// trace walks p and leaves the result in w.items, w.rect and w.closePath.
// The item slice is freshly allocated, so that it can be handed to a
// record.
func (w *walker) trace(p *path.Data, ctm geometry.Matrix, kind traceKind) {
	*w = walker{
		ctm:  ctm,
		kind: kind,
		rect: geometry.Infinite,
	}
	if p == nil {
		return
	}

	var current, subpath vec.Vec2 // content space
	coordIdx := 0
	for _, cmd := range p.Cmds {
		switch cmd {
		case path.CmdMoveTo:
			current = p.Coords[coordIdx]
			subpath = current
			w.moveTo(current)
			coordIdx++

		case path.CmdLineTo:
			current = p.Coords[coordIdx]
			w.lineTo(current)
			coordIdx++

		case path.CmdQuadTo:
			// degree elevation: the control points of the equivalent cubic
			// are two thirds of the way towards the quadratic control point
			q1, q2 := p.Coords[coordIdx], p.Coords[coordIdx+1]
			c1 := current.Add(q1.Sub(current).Mul(2.0 / 3))
			c2 := q2.Add(q1.Sub(q2).Mul(2.0 / 3))
			w.curveTo(c1, c2, q2)
			current = q2
			coordIdx += 2

		case path.CmdCubeTo:
			w.curveTo(p.Coords[coordIdx], p.Coords[coordIdx+1], p.Coords[coordIdx+2])
			current = p.Coords[coordIdx+2]
			coordIdx += 3

		case path.CmdClose:
			w.close()
			current = subpath
		}
	}
}

func (w *walker) moveTo(p vec.Vec2) {
	w.first = geometry.PointFromVec(p).Transform(w.ctm)
	w.last = w.first
	if w.rect.IsInfinite() {
		w.rect = geometry.Rect{X0: w.first.X, Y0: w.first.Y, X1: w.first.X, Y1: w.first.Y}
	}
	w.lineCount = 0
	w.haveMove = true
}

func (w *walker) lineTo(p vec.Vec2) {
	to := geometry.PointFromVec(p).Transform(w.ctm)
	w.rect = w.rect.IncludePoint(to)
	w.items = append(w.items, Line{From: w.last, To: to})
	w.last = to
	w.lineCount++
	if w.lineCount == 4 && w.kind != traceFill {
		w.collapseQuad()
	}
}

func (w *walker) curveTo(c1, c2, p vec.Vec2) {
	d1 := geometry.PointFromVec(c1).Transform(w.ctm)
	d2 := geometry.PointFromVec(c2).Transform(w.ctm)
	to := geometry.PointFromVec(p).Transform(w.ctm)
	w.rect = w.rect.IncludePoint(d1).IncludePoint(d2).IncludePoint(to)
	w.items = append(w.items, Curve{From: w.last, C1: d1, C2: d2, To: to})
	w.last = to
	w.lineCount = 0
}

func (w *walker) close() {
	if w.lineCount == 3 && w.collapseRect() {
		w.last = w.first
		w.lineCount = 0
		w.haveMove = false
		return
	}
	if w.last != w.first {
		w.items = append(w.items, Line{From: w.last, To: w.first})
		w.last = w.first
	} else {
		w.closePath = true
	}
	w.lineCount = 0
	w.haveMove = false
}

// collapseRect replaces the last three lines by a rectangle, if they
// trace three sides of an axis-aligned rectangle.
func (w *walker) collapseRect() bool {
	n := len(w.items)
	if n < 3 {
		return false
	}
	l0, ok0 := w.items[n-3].(Line)
	l1, ok1 := w.items[n-2].(Line)
	l2, ok2 := w.items[n-1].(Line)
	if !ok0 || !ok1 || !ok2 {
		return false
	}
	ll, lr, ur, ul := l0.From, l1.From, l2.From, l2.To
	if ll.Y != lr.Y || ll.X != ul.X || ur.Y != ul.Y || ur.X != lr.X {
		return false
	}

	orientation := -1
	if signedArea(ll, lr, ur, ul) > 0 {
		orientation = 1
	}
	w.items = append(w.items[:n-3], RectItem{
		Rect:        geometry.RectFromPoints(ll, lr, ur, ul),
		Orientation: orientation,
	})
	return true
}

// collapseQuad replaces the last four lines by a quad, if they form a
// closed loop.
func (w *walker) collapseQuad() {
	n := len(w.items)
	var s [4]geometry.Point
	for i := range 4 {
		l, ok := w.items[n-4+i].(Line)
		if !ok {
			return
		}
		s[i] = l.From
	}
	if w.items[n-1].(Line).To != s[0] {
		return
	}
	w.items = append(w.items[:n-4], QuadItem{
		Quad: geometry.Quad{UL: s[0], UR: s[3], LL: s[1], LR: s[2]},
	})
	w.lineCount = 0
}

// signedArea returns twice the signed area of a polygon.  The result is
// positive for counter-clockwise vertex order in a y-up coordinate system.
func signedArea(pts ...geometry.Point) float64 {
	var area float64
	for i, p := range pts {
		q := pts[(i+1)%len(pts)]
		area += p.Cross(q)
	}
	return area
}
