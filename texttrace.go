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

	"seehuhn.de/go/lineart/geometry"
)

// TextOp says how text is painted.
type TextOp int

// These are the text operations passed to a [TextTracer].
const (
	TextFill TextOp = iota
	TextStroke
	TextIgnore
)

func (op TextOp) String() string {
	switch op {
	case TextFill:
		return "fill-text"
	case TextStroke:
		return "stroke-text"
	case TextIgnore:
		return "ignore-text"
	default:
		return fmt.Sprintf("TextOp(%d)", int(op))
	}
}

// MarshalText implements the [encoding.TextMarshaler] interface.
func (op TextOp) MarshalText() ([]byte, error) {
	return []byte(op.String()), nil
}

// TextEvent is a text operation as seen by the device in [ModeTextTrace].
type TextEvent struct {
	Op    TextOp
	Text  *Text
	CTM   geometry.Matrix
	Color Color
	Alpha float64

	// Bound is the bounding box of the text in device space.
	Bound geometry.Rect

	Seqno uint64
	Layer string
	Depth int

	// LineWidth is the line width of the most recent stroke.
	LineWidth float64
}

// A TextTracer turns text events into a structured representation of the
// text, for example spans and words.
type TextTracer interface {
	TraceText(ev *TextEvent) error
}

// TextLog is a [TextTracer] which keeps all events.
type TextLog struct {
	Events []TextEvent
}

// TraceText implements the [TextTracer] interface.
func (l *TextLog) TraceText(ev *TextEvent) error {
	l.Events = append(l.Events, *ev)
	return nil
}

func (d *Device) traceText(op TextOp, t *Text, ctm geometry.Matrix, col Color, alpha float64, bound geometry.Rect) error {
	if d.tracer == nil {
		return nil
	}
	ev := &TextEvent{
		Op:        op,
		Text:      t,
		CTM:       ctm,
		Color:     col,
		Alpha:     alpha,
		Bound:     bound,
		Seqno:     d.seqno,
		Layer:     d.layer,
		Depth:     d.depth,
		LineWidth: d.lineWidth,
	}
	if err := d.tracer.TraceText(ev); err != nil {
		return fmt.Errorf("lineart: text tracer: %w", err)
	}
	return nil
}
