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
	"log/slog"

	"seehuhn.de/go/geom/path"

	"seehuhn.de/go/lineart/geometry"
)

// Mode selects what a [Device] records.
type Mode int

const (
	// ModeLineArt builds a [ShapeRecord] for every path.  Text, image and
	// shading events only advance the sequence number.
	ModeLineArt Mode = iota

	// ModeBBox records a [BBoxRecord] for every painting operation.
	ModeBBox

	// ModeTextTrace hands text events to [Options.TextTracer].  Path
	// events only advance the sequence number.
	ModeTextTrace
)

func (m Mode) String() string {
	switch m {
	case ModeLineArt:
		return "lineart"
	case ModeBBox:
		return "bbox"
	case ModeTextTrace:
		return "text"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode converts the output of [Mode.String] back to a Mode.
func ParseMode(s string) (Mode, error) {
	for _, m := range []Mode{ModeLineArt, ModeBBox, ModeTextTrace} {
		if m.String() == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("lineart: unknown mode %q", s)
}

// Options configures a [Device].
// The zero value traces line art without clip tracking.
type Options struct {
	Mode Mode

	// Clips enables tracking of clip paths and transparency groups.
	// When set, clip and group records are emitted and every record
	// carries its nesting level.
	Clips bool

	// Layers enables recording the optional content layer in bounding box
	// records.  Shape records always carry the layer.
	Layers bool

	// Sink, if set, receives every shape record as soon as it is complete.
	// Fill and stroke records are then never merged.  An error returned by
	// Sink is passed on to the caller of the event method.
	Sink func(*ShapeRecord) error

	// TextTracer receives the text events in [ModeTextTrace].
	TextTracer TextTracer

	// PageRect is the initial scissor.  The zero value means the infinite
	// rectangle.
	PageRect geometry.Rect

	// Logger receives warnings.  If nil, slog.Default() is used.
	Logger *slog.Logger

	// Strict makes unbalanced clip and group scopes an error.
	Strict bool
}

// Device records the drawing callbacks of one page or content stream.
// A Device must not be used concurrently.
type Device struct {
	mode     Mode
	clips    bool
	layers   bool
	strict   bool
	sink     func(*ShapeRecord) error
	tracer   TextTracer
	pageRect geometry.Rect
	log      *slog.Logger

	walker    walker
	scissors  []geometry.Rect
	depth     int
	layer     string
	seqno     uint64
	lineWidth float64

	records []*ShapeRecord
	bboxes  []BBoxRecord
}

// New allocates a new device.  A nil opt is the same as the zero Options.
func New(opt *Options) *Device {
	if opt == nil {
		opt = &Options{}
	}
	d := &Device{
		mode:     opt.Mode,
		clips:    opt.Clips,
		layers:   opt.Layers,
		strict:   opt.Strict,
		sink:     opt.Sink,
		tracer:   opt.TextTracer,
		pageRect: opt.PageRect,
		log:      opt.Logger,
	}
	if d.pageRect == (geometry.Rect{}) {
		d.pageRect = geometry.Infinite
	}
	if d.log == nil {
		d.log = slog.Default()
	}
	return d
}

// Records returns the shape records collected so far.
// In streaming mode, the result is always empty.
func (d *Device) Records() []*ShapeRecord {
	return d.records
}

// BBoxes returns the bounding box records collected in [ModeBBox].
func (d *Device) BBoxes() []BBoxRecord {
	return d.bboxes
}

// Depth returns the current nesting depth of clips and groups.
func (d *Device) Depth() int {
	return d.depth
}

// Seqno returns the sequence number the next record will get.
func (d *Device) Seqno() uint64 {
	return d.seqno
}

// Layer returns the name of the current optional content layer.
func (d *Device) Layer() string {
	return d.layer
}

// Close finishes the trace.  In strict mode, an error is returned if clip
// or group scopes are still open.
func (d *Device) Close() error {
	if d.depth != 0 && d.strict {
		return fmt.Errorf("%w: %d scopes still open", ErrUnbalanced, d.depth)
	}
	return nil
}

// FillPath records a fill of p.
func (d *Device) FillPath(p *path.Data, evenOdd bool, ctm geometry.Matrix, col Color, alpha float64) error {
	switch d.mode {
	case ModeBBox:
		d.walker.trace(p, ctm, traceFill)
		if len(d.walker.items) > 0 {
			d.addBBox(BBoxFillPath, d.walker.rect)
		}
		d.seqno++
		return nil
	case ModeTextTrace:
		d.seqno++
		return nil
	}

	d.walker.trace(p, ctm, traceFill)
	if len(d.walker.items) == 0 {
		return nil
	}
	rec := d.newRecord(KindFill)
	rec.Fill = &FillInfo{
		EvenOdd: evenOdd,
		Color:   col,
		Opacity: alpha,
	}
	return d.emit(rec)
}

// StrokePath records a stroke of p.
func (d *Device) StrokePath(p *path.Data, st *StrokeState, ctm geometry.Matrix, col Color, alpha float64) error {
	if st == nil {
		st = DefaultStrokeState()
	}
	switch d.mode {
	case ModeBBox:
		d.walker.trace(p, ctm, traceStroke)
		if len(d.walker.items) > 0 {
			d.addBBox(BBoxStrokePath, strokeBound(d.walker.rect, st, ctm))
		}
		d.seqno++
		return nil
	case ModeTextTrace:
		d.lineWidth = st.Width
		d.seqno++
		return nil
	}

	d.walker.trace(p, ctm, traceStroke)
	if len(d.walker.items) == 0 {
		return nil
	}
	factor := pathFactor(ctm)
	rec := d.newRecord(KindStroke)
	rec.Stroke = &StrokeInfo{
		Color:      col,
		Opacity:    alpha,
		Width:      st.Width * factor,
		LineCap:    st.Cap,
		LineJoin:   st.Join,
		MiterLimit: st.MiterLimit,
		Dashes:     FormatDashes(st.Dash, st.DashPhase, factor),
	}
	return d.emit(rec)
}

// FillText records a text showing operation which fills the glyphs.
func (d *Device) FillText(t *Text, ctm geometry.Matrix, col Color, alpha float64) error {
	return d.text(TextFill, BBoxFillText, t, ctm, col, alpha)
}

// StrokeText records a text showing operation which strokes the glyph
// outlines.
func (d *Device) StrokeText(t *Text, st *StrokeState, ctm geometry.Matrix, col Color, alpha float64) error {
	if st != nil {
		d.lineWidth = st.Width
	}
	return d.text(TextStroke, BBoxStrokeText, t, ctm, col, alpha)
}

// IgnoreText records invisible text.
func (d *Device) IgnoreText(t *Text, ctm geometry.Matrix) error {
	return d.text(TextIgnore, BBoxIgnoreText, t, ctm, nil, 0)
}

func (d *Device) text(op TextOp, kind BBoxKind, t *Text, ctm geometry.Matrix, col Color, alpha float64) error {
	bound := t.Bound().Transform(ctm)
	switch d.mode {
	case ModeBBox:
		d.addBBox(kind, bound)
	case ModeTextTrace:
		if err := d.traceText(op, t, ctm, col, alpha, bound); err != nil {
			return err
		}
	}
	d.seqno++
	return nil
}

// FillImage records an image.
func (d *Device) FillImage(img *Image, ctm geometry.Matrix, alpha float64) error {
	if d.mode == ModeBBox {
		d.addBBox(BBoxFillImage, geometry.Unit.Transform(ctm))
	}
	d.seqno++
	return nil
}

// FillImageMask records a stencil mask painted in the given colour.
func (d *Device) FillImageMask(img *Image, ctm geometry.Matrix, col Color, alpha float64) error {
	if d.mode == ModeBBox {
		d.addBBox(BBoxFillImageMask, geometry.Unit.Transform(ctm))
	}
	d.seqno++
	return nil
}

// FillShade records a shading.
func (d *Device) FillShade(sh *Shade, ctm geometry.Matrix, alpha float64) error {
	if d.mode == ModeBBox {
		bound := geometry.Infinite
		if sh != nil && sh.Bound.IsValid() {
			bound = sh.Bound.Transform(ctm)
		}
		d.addBBox(BBoxFillShade, bound.Intersect(d.scissor()))
	}
	d.seqno++
	return nil
}

// BeginLayer sets the current optional content layer.
// Layers do not nest; a new layer replaces the previous one.
func (d *Device) BeginLayer(name string) error {
	d.layer = name
	return nil
}

// EndLayer clears the current optional content layer.
func (d *Device) EndLayer() error {
	d.layer = ""
	return nil
}

// newRecord starts a record of the given kind from the result of the
// last path walk, and assigns the next sequence number.
func (d *Device) newRecord(kind Kind) *ShapeRecord {
	rec := &ShapeRecord{
		Kind:      kind,
		Items:     d.walker.items,
		Rect:      d.walker.rect,
		ClosePath: d.walker.closePath,
		Seqno:     d.seqno,
		Layer:     d.layer,
	}
	if d.clips {
		level := d.depth
		rec.Level = &level
	}
	d.seqno++
	return rec
}
