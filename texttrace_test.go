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
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"seehuhn.de/go/lineart/geometry"
)

func TestTextTrace(t *testing.T) {
	log := &TextLog{}
	d := New(&Options{Mode: ModeTextTrace, Clips: true, TextTracer: log})
	text := &Text{Spans: []TextSpan{{Font: "F1", Size: 10, Text: "abc", Bound: geometry.Rect{X1: 15, Y1: 10}}}}
	st := DefaultStrokeState()
	st.Width = 0.7

	_ = d.FillPath(rectPath(0, 0, 5, 5), false, geometry.Identity, red, 1)
	_ = d.StrokePath(rectPath(0, 0, 5, 5), st, geometry.Identity, red, 1)
	_ = d.ClipPath(rectPath(0, 0, 100, 100), false, geometry.Identity)
	_ = d.BeginLayer("notes")
	if err := d.FillText(text, geometry.Translate(10, 20), red, 1); err != nil {
		t.Fatal(err)
	}
	_ = d.IgnoreText(text, geometry.Identity)

	want := []TextEvent{
		{
			Op:        TextFill,
			Text:      text,
			CTM:       geometry.Translate(10, 20),
			Color:     red,
			Alpha:     1,
			Bound:     geometry.Rect{X0: 10, Y0: 20, X1: 25, Y1: 30},
			Seqno:     2,
			Layer:     "notes",
			Depth:     1,
			LineWidth: 0.7,
		},
		{
			Op:        TextIgnore,
			Text:      text,
			CTM:       geometry.Identity,
			Bound:     geometry.Rect{X1: 15, Y1: 10},
			Seqno:     3,
			Layer:     "notes",
			Depth:     1,
			LineWidth: 0.7,
		},
	}
	if d := cmp.Diff(want, log.Events, cmpopts.EquateEmpty()); d != "" {
		t.Errorf("text events mismatch (-want +got):\n%s", d)
	}
	if len(d.Records()) != 0 {
		t.Errorf("text mode produced %d shape records", len(d.Records()))
	}
}

type failingTracer struct{ err error }

func (f failingTracer) TraceText(*TextEvent) error { return f.err }

func TestTextTracerError(t *testing.T) {
	errStop := errors.New("stop")
	d := New(&Options{Mode: ModeTextTrace, TextTracer: failingTracer{errStop}})
	err := d.FillText(&Text{}, geometry.Identity, nil, 1)
	if !errors.Is(err, errStop) {
		t.Errorf("got %v, want %v", err, errStop)
	}
}

func TestLineArtIgnoresText(t *testing.T) {
	log := &TextLog{}
	d := New(&Options{TextTracer: log})
	_ = d.FillText(&Text{}, geometry.Identity, red, 1)
	if len(log.Events) != 0 {
		t.Error("text tracer called in line art mode")
	}
	if d.Seqno() != 1 {
		t.Errorf("seqno = %d, want 1", d.Seqno())
	}
}
