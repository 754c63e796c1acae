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
	"fmt"
	"io"
	"slices"

	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/graphics"

	"seehuhn.de/go/lineart"
	"seehuhn.de/go/lineart/geometry"
)

// graphicsState holds the parts of the PDF graphics state which are
// relevant for tracing.
type graphicsState struct {
	ctm    geometry.Matrix
	stroke lineart.StrokeState

	fillColor, strokeColor lineart.Color
	fillSpace, strokeSpace colorSpace
	fillAlpha, strokeAlpha float64
	blendMode              string

	charSpace  float64
	wordSpace  float64
	hScale     float64 // 1 = 100%
	leading    float64
	font       *fontInfo
	fontSize   float64
	renderMode int
	rise       float64

	// clips counts the clip operations since the matching "q".
	clips int
}

func newGraphicsState(ctm geometry.Matrix) graphicsState {
	return graphicsState{
		ctm:         ctm,
		stroke:      *lineart.DefaultStrokeState(),
		fillColor:   lineart.Color{0, 0, 0},
		strokeColor: lineart.Color{0, 0, 0},
		fillSpace:   deviceGray,
		strokeSpace: deviceGray,
		fillAlpha:   1,
		strokeAlpha: 1,
		blendMode:   "Normal",
		hScale:      1,
	}
}

// clone returns a copy of s which shares no slices with s.
func (s *graphicsState) clone() graphicsState {
	res := *s
	res.stroke.Dash = slices.Clone(s.stroke.Dash)
	res.fillColor = slices.Clone(s.fillColor)
	res.strokeColor = slices.Clone(s.strokeColor)
	res.clips = 0
	return res
}

func (s *graphicsState) strokeState() *lineart.StrokeState {
	st := s.stroke
	st.Dash = slices.Clone(s.stroke.Dash)
	return &st
}

// popClips undoes the clip operations of the current graphics state.
func (t *Interpreter) popClips() error {
	for t.state.clips > 0 {
		t.state.clips--
		if err := t.dev.PopClip(); err != nil {
			return err
		}
	}
	return nil
}

// applyExtGState applies a graphics state parameter dictionary.
func (t *Interpreter) applyExtGState(dict pdf.Dict) {
	s := &t.state
	for key, obj := range dict {
		obj = t.resolve(obj)
		switch key {
		case "LW":
			if x, ok := getNumber(obj); ok {
				s.stroke.Width = x
			}
		case "LC":
			if x, ok := getNumber(obj); ok && x >= 0 && x <= 2 {
				s.stroke.Cap = graphics.LineCapStyle(x)
			}
		case "LJ":
			if x, ok := getNumber(obj); ok && x >= 0 && x <= 2 {
				s.stroke.Join = graphics.LineJoinStyle(x)
			}
		case "ML":
			if x, ok := getNumber(obj); ok {
				s.stroke.MiterLimit = x
			}
		case "D":
			arr, ok := obj.(pdf.Array)
			if !ok || len(arr) != 2 {
				break
			}
			pattern, ok1 := t.numbers(arr[0])
			phase, ok2 := getNumber(t.resolve(arr[1]))
			if ok1 && ok2 {
				s.stroke.Dash = pattern
				s.stroke.DashPhase = phase
			}
		case "CA":
			if x, ok := getNumber(obj); ok {
				s.strokeAlpha = x
			}
		case "ca":
			if x, ok := getNumber(obj); ok {
				s.fillAlpha = x
			}
		case "BM":
			switch bm := obj.(type) {
			case pdf.Name:
				s.blendMode = string(bm)
			case pdf.Array:
				if len(bm) > 0 {
					if name, ok := t.resolve(bm[0]).(pdf.Name); ok {
						s.blendMode = string(name)
					}
				}
			}
		}
	}
}

// resolve follows references.  Without a getter, references resolve to
// nil.  Errors are logged and also give nil.
func (t *Interpreter) resolve(obj pdf.Object) pdf.Object {
	if _, isRef := obj.(pdf.Reference); !isRef {
		return obj
	}
	if t.r == nil {
		return nil
	}
	res, err := pdf.Resolve(t.r, obj)
	if err != nil {
		if t.log != nil {
			t.log.Warn("cannot resolve object", "err", err)
		}
		return nil
	}
	return res
}

func (t *Interpreter) getDict(obj pdf.Object) pdf.Dict {
	switch x := t.resolve(obj).(type) {
	case pdf.Dict:
		return x
	case *pdf.Stream:
		return x.Dict
	default:
		return nil
	}
}

// lookup returns an entry of a resource category, for example a font.
func (t *Interpreter) lookup(category, name pdf.Name) pdf.Object {
	return t.resolve(t.getDict(t.resources[category])[name])
}

// openStream returns the decoded data of a stream.
func (t *Interpreter) openStream(stm *pdf.Stream) (io.Reader, error) {
	if _, hasFilter := stm.Dict["Filter"]; !hasFilter || t.r == nil {
		if hasFilter {
			return nil, fmt.Errorf("cannot decode stream without a file")
		}
		return stm.R, nil
	}
	body, err := pdf.DecodeStream(t.r, stm, 0)
	if err != nil {
		return nil, err
	}
	return body, nil
}

// numbers converts an array of numbers.
func (t *Interpreter) numbers(obj pdf.Object) ([]float64, bool) {
	arr, ok := t.resolve(obj).(pdf.Array)
	if !ok {
		return nil, obj == nil
	}
	res := make([]float64, len(arr))
	for i, x := range arr {
		if res[i], ok = getNumber(t.resolve(x)); !ok {
			return nil, false
		}
	}
	return res, true
}

func (t *Interpreter) matrix(obj pdf.Object) (geometry.Matrix, bool) {
	c, ok := t.numbers(obj)
	if !ok || len(c) != 6 {
		return geometry.Identity, false
	}
	return geometry.Matrix{A: c[0], B: c[1], C: c[2], D: c[3], E: c[4], F: c[5]}, true
}

func (t *Interpreter) rect(obj pdf.Object) (geometry.Rect, bool) {
	c, ok := t.numbers(obj)
	if !ok || len(c) != 4 {
		return geometry.Rect{}, false
	}
	return geometry.Rect{X0: c[0], Y0: c[1], X1: c[2], Y1: c[3]}.Normalize(), true
}

func getNumber(x pdf.Object) (float64, bool) {
	switch x := x.(type) {
	case pdf.Real:
		return float64(x), true
	case pdf.Integer:
		return float64(x), true
	case pdf.Number:
		return float64(x), true
	default:
		return 0, false
	}
}

// getBool reads a PDF boolean.  Missing values are false.
func getBool(x pdf.Object) bool {
	b, _ := x.(pdf.Boolean)
	return bool(b)
}
