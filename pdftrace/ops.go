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

package pdftrace

import (
	"context"
	"slices"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/graphics"

	"seehuhn.de/go/lineart/geometry"
)

// do executes a single content stream operator.
// Malformed operators are logged and skipped.
func (t *Interpreter) do(ctx context.Context, op string, args []pdf.Object) error {
	if t.inlineImage != nil {
		// skip the image data of an inline image
		if op == "EI" {
			t.inlineImage = nil
		}
		return nil
	}

	getNum := func(i int) (float64, bool) {
		if i >= len(args) {
			return 0, false
		}
		return getNumber(args[i])
	}
	nums := func(n int) ([]float64, bool) {
		if len(args) < n {
			t.log.Debug("missing operands", "op", op, "want", n, "got", len(args))
			return nil, false
		}
		res := make([]float64, n)
		for i := range n {
			x, ok := getNum(len(args) - n + i)
			if !ok {
				t.log.Debug("invalid operand", "op", op, "arg", args[len(args)-n+i])
				return nil, false
			}
			res[i] = x
		}
		return res, true
	}
	getName := func(i int) (pdf.Name, bool) {
		if i >= len(args) {
			return "", false
		}
		x, ok := args[i].(pdf.Name)
		return x, ok
	}

	s := &t.state
	switch op {

	// == General graphics state ========================================

	case "w":
		if c, ok := nums(1); ok {
			s.stroke.Width = c[0]
		}
	case "J":
		if c, ok := nums(1); ok && c[0] >= 0 && c[0] <= 2 {
			s.stroke.Cap = graphics.LineCapStyle(c[0])
		}
	case "j":
		if c, ok := nums(1); ok && c[0] >= 0 && c[0] <= 2 {
			s.stroke.Join = graphics.LineJoinStyle(c[0])
		}
	case "M":
		if c, ok := nums(1); ok {
			s.stroke.MiterLimit = c[0]
		}
	case "d":
		if len(args) != 2 {
			break
		}
		pattern, ok1 := t.numbers(args[0])
		phase, ok2 := getNum(1)
		if ok1 && ok2 {
			s.stroke.Dash = pattern
			s.stroke.DashPhase = phase
		}
	case "ri", "i":
		// rendering intent and flatness do not affect tracing
	case "gs":
		name, ok := getName(0)
		if !ok {
			break
		}
		dict := t.getDict(t.lookup("ExtGState", name))
		if dict == nil {
			t.log.Warn("missing graphics state", "name", name)
			break
		}
		t.applyExtGState(dict)

	// == Special graphics state ========================================

	case "q":
		t.stack = append(t.stack, t.state)
		t.state = t.state.clone()
	case "Q":
		if len(t.stack) == 0 {
			t.log.Warn("unbalanced Q operator")
			break
		}
		if err := t.popClips(); err != nil {
			return err
		}
		t.state = t.stack[len(t.stack)-1]
		t.stack = t.stack[:len(t.stack)-1]
	case "cm":
		c, ok := nums(6)
		if !ok {
			break
		}
		m := geometry.Matrix{A: c[0], B: c[1], C: c[2], D: c[3], E: c[4], F: c[5]}
		s.ctm = m.Concat(s.ctm)

	// == Path construction =============================================

	case "m":
		if c, ok := nums(2); ok {
			p := vec.Vec2{X: c[0], Y: c[1]}
			t.path = t.path.MoveTo(p)
			t.current, t.subpath = p, p
		}
	case "l":
		if c, ok := nums(2); ok {
			p := vec.Vec2{X: c[0], Y: c[1]}
			t.ensureMove()
			t.path = t.path.LineTo(p)
			t.current = p
		}
	case "c":
		if c, ok := nums(6); ok {
			p := vec.Vec2{X: c[4], Y: c[5]}
			t.ensureMove()
			t.path = t.path.CubeTo(vec.Vec2{X: c[0], Y: c[1]}, vec.Vec2{X: c[2], Y: c[3]}, p)
			t.current = p
		}
	case "v":
		if c, ok := nums(4); ok {
			p := vec.Vec2{X: c[2], Y: c[3]}
			t.ensureMove()
			t.path = t.path.CubeTo(t.current, vec.Vec2{X: c[0], Y: c[1]}, p)
			t.current = p
		}
	case "y":
		if c, ok := nums(4); ok {
			p := vec.Vec2{X: c[2], Y: c[3]}
			t.ensureMove()
			t.path = t.path.CubeTo(vec.Vec2{X: c[0], Y: c[1]}, p, p)
			t.current = p
		}
	case "h":
		if len(t.path.Cmds) > 0 {
			t.path = t.path.Close()
			t.current = t.subpath
		}
	case "re":
		c, ok := nums(4)
		if !ok {
			break
		}
		x, y, w, h := c[0], c[1], c[2], c[3]
		p0 := vec.Vec2{X: x, Y: y}
		t.path = t.path.MoveTo(p0).
			LineTo(vec.Vec2{X: x + w, Y: y}).
			LineTo(vec.Vec2{X: x + w, Y: y + h}).
			LineTo(vec.Vec2{X: x, Y: y + h}).
			Close()
		t.current, t.subpath = p0, p0

	// == Path painting =================================================

	case "S":
		return t.paint(false, false, true, false)
	case "s":
		return t.paint(true, false, true, false)
	case "f", "F":
		return t.paint(false, true, false, false)
	case "f*":
		return t.paint(false, true, false, true)
	case "B":
		return t.paint(false, true, true, false)
	case "B*":
		return t.paint(false, true, true, true)
	case "b":
		return t.paint(true, true, true, false)
	case "b*":
		return t.paint(true, true, true, true)
	case "n":
		return t.paint(false, false, false, false)

	// == Clipping paths ================================================

	case "W":
		t.clipPending = true
		t.clipEvenOdd = false
	case "W*":
		t.clipPending = true
		t.clipEvenOdd = true

	// == Text objects, text state and text showing =====================

	case "BT", "ET", "Tc", "Tw", "Tz", "TL", "Tf", "Tr", "Ts",
		"Td", "TD", "Tm", "T*", "Tj", "TJ", "'", "\"":
		return t.doText(op, args, nums, getName)

	case "d0", "d1":
		// glyph metrics of type 3 fonts

	// == Colour ========================================================

	case "CS", "cs", "SC", "SCN", "sc", "scn", "G", "g", "RG", "rg", "K", "k":
		t.doColor(op, args)

	// == Shading, XObjects and inline images ===========================

	case "sh":
		name, ok := getName(0)
		if !ok {
			break
		}
		return t.shade(name)
	case "Do":
		name, ok := getName(0)
		if !ok {
			break
		}
		return t.xObject(ctx, name)
	case "BI":
	case "ID":
		dict := pdf.Dict{}
		for i := 0; i+1 < len(args); i += 2 {
			if key, ok := args[i].(pdf.Name); ok {
				dict[key] = args[i+1]
			}
		}
		t.inlineImage = dict
		return t.inline(dict)
	case "EI":

	// == Marked content ================================================

	case "MP", "DP":
	case "BMC":
		t.marked = append(t.marked, false)
	case "BDC":
		return t.beginMarked(args)
	case "EMC":
		return t.endMarked()

	case "BX", "EX":

	default:
		t.log.Debug("unknown operator", "op", op)
	}
	return nil
}

// ensureMove starts a subpath at the current point, if needed.
func (t *Interpreter) ensureMove() {
	if len(t.path.Cmds) == 0 {
		t.path = t.path.MoveTo(t.current)
		t.subpath = t.current
	}
}

// paint ends the current path.  A clip requested by "W" or "W*" is applied
// after the painting operation.
func (t *Interpreter) paint(closePath, fill, stroke, evenOdd bool) error {
	p := t.path
	t.path = &path.Data{}
	if closePath && len(p.Cmds) > 0 {
		p = p.Close()
	}
	s := &t.state

	if fill {
		if err := t.dev.FillPath(p, evenOdd, s.ctm, slices.Clone(s.fillColor), s.fillAlpha); err != nil {
			return err
		}
	}
	if stroke {
		if err := t.dev.StrokePath(p, s.strokeState(), s.ctm, slices.Clone(s.strokeColor), s.strokeAlpha); err != nil {
			return err
		}
	}

	if t.clipPending {
		t.clipPending = false
		if err := t.dev.ClipPath(p, t.clipEvenOdd, s.ctm); err != nil {
			return err
		}
		s.clips++
	}
	return nil
}
