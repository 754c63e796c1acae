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

// Package pdftrace interprets PDF content streams and reports the drawing
// operations to a tracing device.
//
// The interpreter keeps track of the graphics state, builds paths in user
// space and calls the device with the current transformation matrix for
// every painting operation.  Fonts are only read as far as needed to
// estimate the extent of text.
package pdftrace

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/graphics/scanner"

	"seehuhn.de/go/lineart"
	"seehuhn.de/go/lineart/geometry"
)

// Device receives the drawing operations found in a content stream.
// [*lineart.Device] implements this interface.
type Device interface {
	FillPath(p *path.Data, evenOdd bool, ctm geometry.Matrix, col lineart.Color, alpha float64) error
	StrokePath(p *path.Data, st *lineart.StrokeState, ctm geometry.Matrix, col lineart.Color, alpha float64) error
	ClipPath(p *path.Data, evenOdd bool, ctm geometry.Matrix) error
	ClipStrokePath(p *path.Data, st *lineart.StrokeState, ctm geometry.Matrix) error
	ClipText(t *lineart.Text, ctm geometry.Matrix) error
	ClipStrokeText(t *lineart.Text, st *lineart.StrokeState, ctm geometry.Matrix) error
	ClipImageMask(img *lineart.Image, ctm geometry.Matrix) error
	PopClip() error

	FillText(t *lineart.Text, ctm geometry.Matrix, col lineart.Color, alpha float64) error
	StrokeText(t *lineart.Text, st *lineart.StrokeState, ctm geometry.Matrix, col lineart.Color, alpha float64) error
	IgnoreText(t *lineart.Text, ctm geometry.Matrix) error

	FillImage(img *lineart.Image, ctm geometry.Matrix, alpha float64) error
	FillImageMask(img *lineart.Image, ctm geometry.Matrix, col lineart.Color, alpha float64) error
	FillShade(sh *lineart.Shade, ctm geometry.Matrix, alpha float64) error

	BeginGroup(bbox geometry.Rect, isolated, knockout bool, blendMode string, alpha float64) error
	EndGroup() error
	BeginLayer(name string) error
	EndLayer() error
}

var _ Device = (*lineart.Device)(nil)

// DefaultMaxFormDepth is the default nesting limit for form XObjects.
const DefaultMaxFormDepth = 32

// Options configures an [Interpreter].
type Options struct {
	// Logger receives warnings about malformed content.
	// If nil, slog.Default() is used.
	Logger *slog.Logger

	// MaxFormDepth limits the nesting of form XObjects.
	// Zero means [DefaultMaxFormDepth].
	MaxFormDepth int
}

// Interpreter runs content streams against a [Device].
// An Interpreter must not be used concurrently.
type Interpreter struct {
	r        pdf.Getter
	dev      Device
	log      *slog.Logger
	maxDepth int

	state     graphicsState
	stack     []graphicsState
	resources pdf.Dict
	formDepth int

	path        *path.Data
	current     vec.Vec2 // current point, user space
	subpath     vec.Vec2 // start of the current subpath, user space
	clipPending bool
	clipEvenOdd bool

	inText         bool
	tm, tlm        geometry.Matrix
	textClip       []lineart.TextSpan
	textClipStroke bool

	marked      []bool   // for every open marked content sequence: is it a layer?
	layers      []string // names of the open layers
	inlineImage pdf.Dict

	fonts map[pdf.Reference]*fontInfo
}

// New allocates a new interpreter.  The getter is used to resolve
// indirect objects and may be nil for self-contained content.
func New(r pdf.Getter, dev Device, opt *Options) *Interpreter {
	if opt == nil {
		opt = &Options{}
	}
	t := &Interpreter{
		r:        r,
		dev:      dev,
		log:      opt.Logger,
		maxDepth: opt.MaxFormDepth,
		fonts:    make(map[pdf.Reference]*fontInfo),
	}
	if t.log == nil {
		t.log = slog.Default()
	}
	if t.maxDepth <= 0 {
		t.maxDepth = DefaultMaxFormDepth
	}
	return t
}

// TracePage runs the content streams of a page.  Content space is mapped
// to a y-down device space of the size of the page's media box, taking
// /Rotate into account.
func (t *Interpreter) TracePage(ctx context.Context, pageDict pdf.Dict) error {
	ctm, _ := PageGeometry(t.r, pageDict)
	resources := t.getDict(pageDict["Resources"])

	var parts []io.Reader
	switch contents := t.resolve(pageDict["Contents"]).(type) {
	case nil:
		return nil
	case *pdf.Stream:
		body, err := t.openStream(contents)
		if err != nil {
			return fmt.Errorf("content stream: %w", err)
		}
		parts = append(parts, body)
	case pdf.Array:
		for i, obj := range contents {
			stm, ok := t.resolve(obj).(*pdf.Stream)
			if !ok {
				continue
			}
			body, err := t.openStream(stm)
			if err != nil {
				return fmt.Errorf("content stream %d: %w", i, err)
			}
			// streams are joined as if they were one
			parts = append(parts, body, strings.NewReader("\n"))
		}
	default:
		return &pdf.MalformedFileError{
			Err: fmt.Errorf("unexpected type %T for content stream", contents),
		}
	}

	return t.TraceContent(ctx, io.MultiReader(parts...), resources, ctm)
}

// TraceContent runs a single content stream with the given resources.
// Clips which are still in force at the end of the stream are popped.
func (t *Interpreter) TraceContent(ctx context.Context, content io.Reader, resources pdf.Dict, ctm geometry.Matrix) error {
	t.state = newGraphicsState(ctm)
	t.stack = t.stack[:0]
	t.path = &path.Data{}
	t.clipPending = false
	t.inText = false
	t.textClip = t.textClip[:0]
	t.marked = t.marked[:0]
	t.layers = t.layers[:0]
	t.inlineImage = nil

	err := t.run(ctx, content, resources)

	// close everything which the content stream left open
	for len(t.marked) > 0 {
		err = errors.Join(err, t.endMarked())
	}
	for {
		err = errors.Join(err, t.popClips())
		if len(t.stack) == 0 {
			break
		}
		t.state = t.stack[len(t.stack)-1]
		t.stack = t.stack[:len(t.stack)-1]
	}
	return err
}

func (t *Interpreter) run(ctx context.Context, content io.Reader, resources pdf.Dict) error {
	saved := t.resources
	t.resources = resources
	defer func() { t.resources = saved }()

	s := scanner.NewScanner()
	err := s.Scan(content)(func(op string, args []pdf.Object) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		return t.do(ctx, op, args)
	})
	if t.inlineImage != nil {
		t.log.Warn("content stream ends inside inline image data, operators after ID were skipped")
		t.inlineImage = nil
	}
	return err
}

// PageGeometry returns the matrix which maps the default user space of a
// page to device space, and the page area in device space.
// Device space has its origin in the top-left corner of the visible page
// and the y-axis pointing down.
func PageGeometry(r pdf.Getter, pageDict pdf.Dict) (geometry.Matrix, geometry.Rect) {
	t := &Interpreter{r: r}
	box := geometry.Rect{X1: 612, Y1: 792} // US Letter
	if arr, ok := t.resolve(pageDict["MediaBox"]).(pdf.Array); ok && len(arr) == 4 {
		var c [4]float64
		valid := true
		for i, obj := range arr {
			x, ok := getNumber(t.resolve(obj))
			if !ok {
				valid = false
				break
			}
			c[i] = x
		}
		if valid {
			box = geometry.Rect{X0: c[0], Y0: c[1], X1: c[2], Y1: c[3]}.Normalize()
		}
	}

	w, h := box.Width(), box.Height()
	ctm := geometry.Matrix{A: 1, D: -1, E: -box.X0, F: box.Y1}
	bounds := geometry.Rect{X1: w, Y1: h}

	rot, _ := getNumber(t.resolve(pageDict["Rotate"]))
	switch (int(rot)%360 + 360) % 360 {
	case 90:
		ctm = ctm.Concat(geometry.Matrix{B: 1, C: -1, E: h})
		bounds = geometry.Rect{X1: h, Y1: w}
	case 180:
		ctm = ctm.Concat(geometry.Matrix{A: -1, D: -1, E: w, F: h})
	case 270:
		ctm = ctm.Concat(geometry.Matrix{B: -1, C: 1, F: w})
		bounds = geometry.Rect{X1: h, Y1: w}
	}
	return ctm, bounds
}
