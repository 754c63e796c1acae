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
)

// segment is a line segment of a flattened subpath.
type segment struct {
	A, B vec.Vec2
	T    vec.Vec2 // unit tangent, A to B
	N    vec.Vec2 // unit normal, T rotated by 90 degrees
}

// Stroke computes the coverage of the stroke along items, using Width,
// Cap, Join, MiterLimit, Dash and DashPhase.  Subpaths which end at their
// start point are stroked as closed subpaths.
func (r *rasterizer) Stroke(items []lineart.PathItem, emit func(y, xMin int, coverage []float32)) {
	r.flatten(items)

	r.outline = r.outline[:0]
	r.outlineStart = r.outlineStart[:0]
	r.segs = r.segs[:0]

	var subStart []int
	var subClosed []bool
	for _, sp := range r.subpaths {
		start := len(r.segs)
		for i := 1; i < len(sp.pts); i++ {
			r.addSegment(sp.pts[i-1], sp.pts[i])
		}
		if sp.closed {
			r.addSegment(sp.pts[len(sp.pts)-1], sp.pts[0])
		}
		if len(r.segs) == start {
			// a single point only shows with round caps
			if r.Cap == graphics.LineCapRound && len(sp.pts) > 0 {
				r.startPolygon()
				r.addArc(sp.pts[0], r.Width/2, vec.Vec2{X: 1}, 2*math.Pi, true)
			}
			continue
		}
		subStart = append(subStart, start)
		subClosed = append(subClosed, sp.closed)
	}

	subpath := func(i int) []segment {
		end := len(r.segs)
		if i+1 < len(subStart) {
			end = subStart[i+1]
		}
		return r.segs[subStart[i]:end]
	}

	if len(r.Dash) > 0 {
		r.dashSegs = r.dashSegs[:0]
		r.dashes = r.dashes[:0]
		for i := range subStart {
			r.applyDash(subpath(i), subClosed[i])
		}
		for _, span := range r.dashes {
			segs := r.dashSegs[span[0]:span[1]]
			if len(segs) == 1 && segs[0].A == segs[0].B {
				switch r.Cap {
				case graphics.LineCapRound:
					r.startPolygon()
					r.addArc(segs[0].A, r.Width/2, vec.Vec2{X: 1}, 2*math.Pi, true)
				case graphics.LineCapSquare:
					r.startPolygon()
					r.addSquare(segs[0].A, segs[0].T, r.Width/2)
				}
				continue
			}
			r.startPolygon()
			r.strokeSubpath(segs, false)
		}
	} else {
		for i := range subStart {
			r.startPolygon()
			r.strokeSubpath(subpath(i), subClosed[i])
		}
	}

	r.resetEdges()
	for i, start := range r.outlineStart {
		end := len(r.outline)
		if i+1 < len(r.outlineStart) {
			end = r.outlineStart[i+1]
		}
		poly := r.outline[start:end]
		if len(poly) < 3 {
			continue
		}
		for j := 1; j < len(poly); j++ {
			r.addEdge(poly[j-1], poly[j])
		}
		r.addEdge(poly[len(poly)-1], poly[0])
	}
	r.rasterize(false, emit)
}

func (r *rasterizer) startPolygon() {
	r.outlineStart = append(r.outlineStart, len(r.outline))
}

func (r *rasterizer) addSegment(a, b vec.Vec2) {
	d := b.Sub(a)
	l := d.Length()
	if l < zeroLengthThreshold {
		return
	}
	t := d.Mul(1 / l)
	r.segs = append(r.segs, segment{A: a, B: b, T: t, N: vec.Vec2{X: -t.Y, Y: t.X}})
}

// strokeSubpath appends the outline of the stroke along segs as a single
// polygon: the +N side forwards, then the -N side backwards.  Joins are
// added on the outer side of each corner.
func (r *rasterizer) strokeSubpath(segs []segment, closed bool) {
	if len(segs) == 0 {
		return
	}
	d := r.Width / 2
	first := &segs[0]
	last := &segs[len(segs)-1]

	if closed {
		sinClose := cross(last.T, first.T)
		r.outline = append(r.outline, first.A.Add(first.N.Mul(d)))
		for i := range segs {
			seg := &segs[i]
			next := first
			sin := sinClose
			if i < len(segs)-1 {
				next = &segs[i+1]
				sin = cross(seg.T, next.T)
			}
			switch {
			case math.Abs(sin) < collinearityThreshold:
				r.outline = append(r.outline, seg.B.Add(seg.N.Mul(d)), next.A.Add(next.N.Mul(d)))
			case sin > 0:
				r.addInner(seg.B, seg.T, next.T, seg.N, next.N, d, true)
			default:
				r.outline = append(r.outline, seg.B.Add(seg.N.Mul(d)))
				r.addJoin(seg.B, seg.T, next.T, d, true)
				r.outline = append(r.outline, next.A.Add(next.N.Mul(d)))
			}
		}

		switch {
		case math.Abs(sinClose) < collinearityThreshold:
			r.outline = append(r.outline, first.A.Sub(first.N.Mul(d)), last.B.Sub(last.N.Mul(d)))
		case sinClose > 0:
			r.outline = append(r.outline, first.A.Sub(first.N.Mul(d)))
			r.addJoin(first.A, last.T, first.T, d, false)
			r.outline = append(r.outline, last.B.Sub(last.N.Mul(d)))
		default:
			r.addInner(first.A, last.T, first.T, last.N, first.N, d, false)
		}
		for i := len(segs) - 1; i > 0; i-- {
			seg := &segs[i]
			prev := &segs[i-1]
			sin := cross(prev.T, seg.T)
			switch {
			case math.Abs(sin) < collinearityThreshold:
				r.outline = append(r.outline, seg.A.Sub(seg.N.Mul(d)), prev.B.Sub(prev.N.Mul(d)))
			case sin > 0:
				r.outline = append(r.outline, seg.A.Sub(seg.N.Mul(d)))
				r.addJoin(seg.A, prev.T, seg.T, d, false)
				r.outline = append(r.outline, prev.B.Sub(prev.N.Mul(d)))
			default:
				r.addInner(seg.A, prev.T, seg.T, prev.N, seg.N, d, false)
			}
		}
		r.outline = append(r.outline, first.A.Sub(first.N.Mul(d)))
		return
	}

	r.addCap(first.A, first.T.Mul(-1), d)
	skip := false
	for i := range segs {
		seg := &segs[i]
		if !skip {
			r.outline = append(r.outline, seg.A.Add(seg.N.Mul(d)))
		}
		skip = false
		if i == len(segs)-1 {
			r.outline = append(r.outline, seg.B.Add(seg.N.Mul(d)))
			break
		}
		next := &segs[i+1]
		sin := cross(seg.T, next.T)
		switch {
		case math.Abs(sin) < collinearityThreshold:
			r.outline = append(r.outline, seg.B.Add(seg.N.Mul(d)))
		case sin > 0:
			skip = r.addInner(seg.B, seg.T, next.T, seg.N, next.N, d, true)
		default:
			r.outline = append(r.outline, seg.B.Add(seg.N.Mul(d)))
			r.addJoin(seg.B, seg.T, next.T, d, true)
		}
	}

	r.addCap(last.B, last.T, d)
	skip = false
	for i := len(segs) - 1; i >= 0; i-- {
		seg := &segs[i]
		if !skip {
			r.outline = append(r.outline, seg.B.Sub(seg.N.Mul(d)))
		}
		skip = false
		if i == 0 {
			r.outline = append(r.outline, seg.A.Sub(seg.N.Mul(d)))
			break
		}
		prev := &segs[i-1]
		sin := cross(prev.T, seg.T)
		switch {
		case math.Abs(sin) < collinearityThreshold:
			r.outline = append(r.outline, seg.A.Sub(seg.N.Mul(d)))
		case sin > 0:
			r.outline = append(r.outline, seg.A.Sub(seg.N.Mul(d)))
			r.addJoin(seg.A, prev.T, seg.T, d, false)
		default:
			skip = r.addInner(seg.A, prev.T, seg.T, prev.N, seg.N, d, false)
		}
	}
}

func cross(a, b vec.Vec2) float64 {
	return a.X*b.Y - a.Y*b.X
}

// addCap adds a line cap at p.  The tangent t points away from the line.
func (r *rasterizer) addCap(p, t vec.Vec2, d float64) {
	n := vec.Vec2{X: -t.Y, Y: t.X}
	switch r.Cap {
	case graphics.LineCapSquare:
		ext := p.Add(t.Mul(d))
		r.outline = append(r.outline, ext.Add(n.Mul(d)), ext.Sub(n.Mul(d)))
	case graphics.LineCapRound:
		r.addArc(p, d, n, -math.Pi, true)
	}
}

// innerPoint returns the intersection of the two offset lines on the
// inner side of a corner at p.
func innerPoint(p, t1, t2 vec.Vec2, d float64, positive bool) (vec.Vec2, bool) {
	cos := t1.Dot(t2)
	if cos > 1-1e-9 {
		return vec.Vec2{}, false
	}
	half := math.Sqrt((1 + cos) / 2)
	if half < 1e-9 {
		return vec.Vec2{}, false
	}

	dir := vec.Vec2{X: -t1.Y, Y: t1.X}.Add(vec.Vec2{X: -t2.Y, Y: t2.X})
	if !positive {
		dir = dir.Mul(-1)
	}
	l := dir.Length()
	if l < 1e-9 {
		return vec.Vec2{}, false
	}
	return p.Add(dir.Mul(d / (half * l))), true
}

// addInner adds the inner side of a corner.  It reports whether the
// intersection point replaced the offset point of the following segment.
func (r *rasterizer) addInner(p, t1, t2, n1, n2 vec.Vec2, d float64, positive bool) bool {
	if pt, ok := innerPoint(p, t1, t2, d, positive); ok {
		r.outline = append(r.outline, pt)
		return true
	}
	if positive {
		r.outline = append(r.outline, p.Add(n1.Mul(d)), p.Add(n2.Mul(d)))
	} else {
		r.outline = append(r.outline, p.Sub(n1.Mul(d)), p.Sub(n2.Mul(d)))
	}
	return false
}

// addJoin adds the outer side of a join at p, where the tangent turns
// from t1 to t2.
func (r *rasterizer) addJoin(p, t1, t2 vec.Vec2, d float64, positive bool) {
	cos := t1.Dot(t2)
	sin := cross(t1, t2)
	if sin > -collinearityThreshold && sin < collinearityThreshold {
		return
	}
	if cos < cuspCosineThreshold {
		r.addCap(p, t1, d)
		r.addCap(p, t2.Mul(-1), d)
		return
	}

	switch r.Join {
	case graphics.LineJoinMiter:
		half := math.Sqrt((1 + cos) / 2)
		if half > 0 && 1/half <= r.MiterLimit+1e-10 {
			bisector := vec.Vec2{X: -t1.Y, Y: t1.X}.Add(vec.Vec2{X: -t2.Y, Y: t2.X})
			if !positive {
				bisector = bisector.Mul(-1)
			}
			if l := bisector.Length(); l > zeroLengthThreshold {
				r.outline = append(r.outline, p.Add(bisector.Mul(d/(half*l))))
			}
		}
		// beyond the miter limit, miter joins are drawn as bevels

	case graphics.LineJoinRound:
		angle := math.Acos(max(-1, min(1, cos)))
		if positive {
			start := vec.Vec2{X: -t1.Y, Y: t1.X}
			if sin > 0 {
				r.addArc(p, d, start, angle, false)
			} else {
				r.addArc(p, d, start, -angle, false)
			}
		} else {
			start := vec.Vec2{X: t2.Y, Y: -t2.X}
			if sin > 0 {
				r.addArc(p, d, start, -angle, false)
			} else {
				r.addArc(p, d, start, angle, false)
			}
		}
	}
}

// addArc adds the vertices of a circular arc around center.  The arc
// starts in direction start and turns by sweep radians, counter-clockwise
// for positive sweep.
func (r *rasterizer) addArc(center vec.Vec2, radius float64, start vec.Vec2, sweep float64, includeStart bool) {
	rotate := func(angle float64) vec.Vec2 {
		c, s := math.Cos(angle), math.Sin(angle)
		return vec.Vec2{X: start.X*c - start.Y*s, Y: start.X*s + start.Y*c}
	}

	if radius < r.Flatness {
		if includeStart {
			r.outline = append(r.outline, center.Add(start.Mul(radius)))
		}
		r.outline = append(r.outline, center.Add(rotate(sweep).Mul(radius)))
		return
	}

	step := 2 * math.Acos(1-r.Flatness/radius)
	if step <= 0 || math.IsNaN(step) {
		step = math.Pi / 4
	}
	n := max(int(math.Ceil(math.Abs(sweep)/step)), 1)

	i0 := 1
	if includeStart {
		i0 = 0
	}
	for i := i0; i <= n; i++ {
		r.outline = append(r.outline, center.Add(rotate(sweep*float64(i)/float64(n)).Mul(radius)))
	}
}

// addSquare adds a square of side 2d centred at c, aligned with t.
func (r *rasterizer) addSquare(c, t vec.Vec2, d float64) {
	n := vec.Vec2{X: -t.Y, Y: t.X}
	r.outline = append(r.outline,
		c.Add(t.Mul(d)).Add(n.Mul(d)),
		c.Add(t.Mul(d)).Sub(n.Mul(d)),
		c.Sub(t.Mul(d)).Sub(n.Mul(d)),
		c.Sub(t.Mul(d)).Add(n.Mul(d)),
	)
}

// applyDash splits segs into dashes.  The segments of each dash are
// appended to r.dashSegs and their index range to r.dashes.  For a closed
// subpath, a dash running through the start point is merged with the
// first dash.
func (r *rasterizer) applyDash(segs []segment, closed bool) {
	dash := r.Dash
	total := 0.0
	for _, x := range dash {
		total += x
	}
	if len(dash)%2 == 1 {
		total *= 2
	}
	if total <= 0 || len(segs) == 0 {
		return
	}
	phase := math.Mod(r.DashPhase, total)
	if phase < 0 {
		phase += total
	}

	idx := 0
	for phase >= dash[idx%len(dash)] && dash[idx%len(dash)] > 0 {
		phase -= dash[idx%len(dash)]
		idx++
	}
	remaining := dash[idx%len(dash)] - phase
	on := idx%2 == 0

	if on && remaining == 0 {
		s := segs[0]
		r.dashes = append(r.dashes, [2]int{len(r.dashSegs), len(r.dashSegs) + 1})
		r.dashSegs = append(r.dashSegs, segment{A: s.A, B: s.A, T: s.T, N: s.N})
		idx++
		remaining = dash[idx%len(dash)]
		on = idx%2 == 0
	}

	startedOn := on
	first := -1 // index of the first dash in r.dashes
	cur := len(r.dashSegs)
	pos := 0.0
	for i := 0; i < len(segs); {
		s := segs[i]
		l := s.B.Sub(s.A).Length()
		left := l - pos

		if remaining >= left {
			if on {
				if pos > 0 {
					a := s.A.Add(s.B.Sub(s.A).Mul(pos / l))
					r.dashSegs = append(r.dashSegs, segment{A: a, B: s.B, T: s.T, N: s.N})
				} else {
					r.dashSegs = append(r.dashSegs, s)
				}
			}
			remaining -= left
			i++
			pos = 0
			continue
		}

		end := pos + remaining
		b := s.A.Add(s.B.Sub(s.A).Mul(end / l))
		if on {
			a := s.A.Add(s.B.Sub(s.A).Mul(pos / l))
			if b.Sub(a).Length() > zeroLengthThreshold {
				r.dashSegs = append(r.dashSegs, segment{A: a, B: b, T: s.T, N: s.N})
			} else if len(r.dashSegs) == cur {
				r.dashSegs = append(r.dashSegs, segment{A: a, B: a, T: s.T, N: s.N})
			}
			if len(r.dashSegs) > cur {
				if first < 0 {
					first = len(r.dashes)
				}
				r.dashes = append(r.dashes, [2]int{cur, len(r.dashSegs)})
				cur = len(r.dashSegs)
			}
		}
		pos = end
		idx++
		remaining = dash[idx%len(dash)]
		on = idx%2 == 0
	}

	if len(r.dashSegs) > cur {
		if closed && startedOn && on && first >= 0 {
			span := r.dashes[first]
			r.dashSegs = append(r.dashSegs, r.dashSegs[span[0]:span[1]]...)
			r.dashes = slices.Delete(r.dashes, first, first+1)
		}
		r.dashes = append(r.dashes, [2]int{cur, len(r.dashSegs)})
	}
}
