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
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/go-cmp/cmp"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/pdf/graphics"

	"seehuhn.de/go/lineart/geometry"
)

var quietLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

var red = Color{1, 0, 0}

func TestFillStrokeMerge(t *testing.T) {
	d := New(&Options{Logger: quietLogger})
	p := rectPath(0, 0, 10, 5)
	st := DefaultStrokeState()

	if err := d.FillPath(p, false, geometry.Identity, red, 1); err != nil {
		t.Fatal(err)
	}
	if err := d.StrokePath(p, st, geometry.Identity, Color{0, 0, 1}, 0.5); err != nil {
		t.Fatal(err)
	}

	recs := d.Records()
	if len(recs) != 1 {
		t.Fatalf("got %d records, want 1", len(recs))
	}
	rec := recs[0]
	if rec.Kind != KindFillStroke {
		t.Errorf("kind = %s, want fs", rec.Kind)
	}
	wantFill := &FillInfo{Color: red, Opacity: 1}
	if d := cmp.Diff(wantFill, rec.Fill); d != "" {
		t.Errorf("fill mismatch (-want +got):\n%s", d)
	}
	wantStroke := &StrokeInfo{
		Color:      Color{0, 0, 1},
		Opacity:    0.5,
		Width:      1,
		LineCap:    graphics.LineCapButt,
		LineJoin:   graphics.LineJoinMiter,
		MiterLimit: 10,
		Dashes:     "[] 0",
	}
	if d := cmp.Diff(wantStroke, rec.Stroke); d != "" {
		t.Errorf("stroke mismatch (-want +got):\n%s", d)
	}
	if rec.Seqno != 0 {
		t.Errorf("seqno = %d, want 0", rec.Seqno)
	}
}

func TestFillStrokeDifferentPaths(t *testing.T) {
	d := New(&Options{Logger: quietLogger})
	if err := d.FillPath(rectPath(0, 0, 10, 5), false, geometry.Identity, red, 1); err != nil {
		t.Fatal(err)
	}
	if err := d.StrokePath(rectPath(0, 0, 10, 6), nil, geometry.Identity, red, 1); err != nil {
		t.Fatal(err)
	}

	recs := d.Records()
	if len(recs) != 2 {
		t.Fatalf("got %d records, want 2", len(recs))
	}
	if recs[0].Kind != KindFill || recs[1].Kind != KindStroke {
		t.Errorf("kinds = %s, %s", recs[0].Kind, recs[1].Kind)
	}
}

func TestMergeOnlyOnce(t *testing.T) {
	d := New(&Options{Logger: quietLogger})
	p := rectPath(0, 0, 10, 5)
	events := []Event{
		FillPath{Path: p, CTM: geometry.Identity, Color: red, Alpha: 1},
		StrokePath{Path: p, CTM: geometry.Identity, Color: red, Alpha: 1},
		StrokePath{Path: p, CTM: geometry.Identity, Color: red, Alpha: 1},
	}
	if err := Replay(d, events); err != nil {
		t.Fatal(err)
	}

	var kinds []Kind
	for _, rec := range d.Records() {
		kinds = append(kinds, rec.Kind)
	}
	if d := cmp.Diff([]Kind{KindFillStroke, KindStroke}, kinds); d != "" {
		t.Errorf("kinds mismatch (-want +got):\n%s", d)
	}
}

func TestMergeError(t *testing.T) {
	prev := &ShapeRecord{Kind: KindFill, Stroke: &StrokeInfo{Width: 3}}
	rec := &ShapeRecord{Kind: KindStroke, Stroke: &StrokeInfo{Width: 1}}
	if err := mergeStroke(prev, rec); err == nil {
		t.Error("merge into a record with stroke information succeeded")
	}
	if prev.Stroke.Width != 3 || prev.Kind != KindFill {
		t.Error("failed merge modified the previous record")
	}
}

func TestEmptyPathNoSeqno(t *testing.T) {
	d := New(nil)
	lone := (&path.Data{}).MoveTo(pt(1, 1))
	if err := d.FillPath(lone, false, geometry.Identity, red, 1); err != nil {
		t.Fatal(err)
	}
	if err := d.StrokePath(&path.Data{}, nil, geometry.Identity, red, 1); err != nil {
		t.Fatal(err)
	}
	if len(d.Records()) != 0 || d.Seqno() != 0 {
		t.Errorf("got %d records and seqno %d, want none", len(d.Records()), d.Seqno())
	}
}

func sampleEvents() []Event {
	a := rectPath(0, 0, 10, 10)
	b := rectPath(20, 20, 30, 40)
	tri := (&path.Data{}).MoveTo(pt(0, 0)).LineTo(pt(5, 9)).LineTo(pt(9, 1)).Close()
	text := &Text{Spans: []TextSpan{{Font: "F1", Size: 12, Text: "hi", Bound: geometry.Rect{X0: 0, Y0: 0, X1: 12, Y1: 12}}}}
	return []Event{
		BeginLayer{Name: "background"},
		FillPath{Path: a, CTM: geometry.Identity, Color: red, Alpha: 1},
		EndLayer{},
		ClipPath{Path: b, CTM: geometry.Identity},
		FillText{Text: text, CTM: geometry.Translate(5, 5), Color: red, Alpha: 1},
		StrokePath{Path: tri, Stroke: DefaultStrokeState(), CTM: geometry.Scale(2, 2), Color: red, Alpha: 1},
		FillImage{Image: &Image{Width: 4, Height: 4}, CTM: geometry.Scale(10, 10), Alpha: 1},
		BeginGroup{BBox: geometry.Rect{X1: 50, Y1: 50}, Isolated: true, Alpha: 0.5},
		FillPath{Path: b, EvenOdd: true, CTM: geometry.Identity, Color: red, Alpha: 0.5},
		EndGroup{},
		PopClip{},
		FillShade{Shade: &Shade{Type: 2, Bound: geometry.Infinite}, CTM: geometry.Identity, Alpha: 1},
		StrokePath{Path: a, Stroke: DefaultStrokeState(), CTM: geometry.Identity, Color: red, Alpha: 1},
	}
}

func TestSeqnoMonotonic(t *testing.T) {
	for _, clips := range []bool{false, true} {
		d := New(&Options{Clips: clips, Logger: quietLogger})
		if err := Replay(d, sampleEvents()); err != nil {
			t.Fatal(err)
		}
		recs := d.Records()
		if len(recs) == 0 {
			t.Fatal("no records")
		}
		for i := 1; i < len(recs); i++ {
			if recs[i].Seqno <= recs[i-1].Seqno {
				t.Errorf("clips=%t: seqno %d after %d", clips, recs[i].Seqno, recs[i-1].Seqno)
			}
		}
	}
}

func TestSeqnoCountsEveryEvent(t *testing.T) {
	d := New(nil)
	if err := Replay(d, sampleEvents()); err != nil {
		t.Fatal(err)
	}
	// without clip tracking: two fills, two strokes, text, image and shade
	if got := d.Seqno(); got != 7 {
		t.Errorf("seqno = %d, want 7", got)
	}
	want := []uint64{0, 2, 4, 6}
	var got []uint64
	for _, rec := range d.Records() {
		got = append(got, rec.Seqno)
	}
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("seqno mismatch (-want +got):\n%s", d)
	}
}

func TestStreamingEquivalence(t *testing.T) {
	for _, clips := range []bool{false, true} {
		buffered := New(&Options{Clips: clips, Logger: quietLogger})
		if err := Replay(buffered, sampleEvents()); err != nil {
			t.Fatal(err)
		}

		var streamed []*ShapeRecord
		streaming := New(&Options{
			Clips:  clips,
			Logger: quietLogger,
			Sink: func(rec *ShapeRecord) error {
				streamed = append(streamed, rec)
				return nil
			},
		})
		if err := Replay(streaming, sampleEvents()); err != nil {
			t.Fatal(err)
		}

		if len(streaming.Records()) != 0 {
			t.Error("streaming device buffered records")
		}
		if d := cmp.Diff(buffered.Records(), streamed); d != "" {
			t.Errorf("clips=%t: records differ (-buffered +streamed):\n%s", clips, d)
		}
	}
}

func TestStreamingNeverMerges(t *testing.T) {
	var streamed []*ShapeRecord
	d := New(&Options{Sink: func(rec *ShapeRecord) error {
		streamed = append(streamed, rec)
		return nil
	}})
	p := rectPath(0, 0, 10, 5)
	if err := d.FillPath(p, false, geometry.Identity, red, 1); err != nil {
		t.Fatal(err)
	}
	if err := d.StrokePath(p, nil, geometry.Identity, red, 1); err != nil {
		t.Fatal(err)
	}
	if len(streamed) != 2 || streamed[0].Kind != KindFill || streamed[1].Kind != KindStroke {
		t.Errorf("got %d streamed records", len(streamed))
	}
}

func TestSinkError(t *testing.T) {
	errFull := errors.New("sink full")
	d := New(&Options{Sink: func(*ShapeRecord) error { return errFull }})
	err := d.FillPath(rectPath(0, 0, 1, 1), false, geometry.Identity, red, 1)
	if !errors.Is(err, errFull) {
		t.Errorf("got error %v, want %v", err, errFull)
	}
}

func TestStrokeWidthScaling(t *testing.T) {
	st := &StrokeState{
		Width:      1.5,
		Cap:        graphics.LineCapRound,
		Join:       graphics.LineJoinBevel,
		MiterLimit: 10,
		Dash:       []float64{3, 2},
		DashPhase:  1,
	}
	cases := []struct {
		name       string
		ctm        geometry.Matrix
		wantWidth  float64
		wantDashes string
	}{
		{"identity", geometry.Identity, 1.5, "[ 3 2 ] 1"},
		{"uniform", geometry.Scale(2, 2), 3, "[ 6 4 ] 2"},
		{"flip", geometry.Scale(2, -2), 3, "[ 6 4 ] 2"},
		{"stretch", geometry.Scale(2, 1), 1.5, "[ 3 2 ] 1"},
		{"rotate", geometry.Matrix{B: 2, C: -2}, 3, "[ 6 4 ] 2"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			d := New(nil)
			line := (&path.Data{}).MoveTo(pt(0, 0)).LineTo(pt(1, 1))
			if err := d.StrokePath(line, st, c.ctm, red, 1); err != nil {
				t.Fatal(err)
			}
			s := d.Records()[0].Stroke
			if s.Width != c.wantWidth || s.Dashes != c.wantDashes {
				t.Errorf("width=%g dashes=%q, want %g %q", s.Width, s.Dashes, c.wantWidth, c.wantDashes)
			}
			if s.LineJoin != graphics.LineJoinBevel || s.LineCap != graphics.LineCapRound {
				t.Errorf("cap/join = %v/%v", s.LineCap, s.LineJoin)
			}
		})
	}
}

func TestLayers(t *testing.T) {
	d := New(nil)
	p := rectPath(0, 0, 1, 1)
	_ = d.BeginLayer("one")
	_ = d.BeginLayer("two")
	_ = d.FillPath(p, false, geometry.Identity, red, 1)
	_ = d.EndLayer()
	_ = d.FillPath(p, false, geometry.Identity, red, 1)

	recs := d.Records()
	if recs[0].Layer != "two" || recs[1].Layer != "" {
		t.Errorf("layers = %q, %q", recs[0].Layer, recs[1].Layer)
	}
	if recs[0].Level != nil {
		t.Error("level set without clip tracking")
	}
}
