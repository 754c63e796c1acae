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
	"encoding/json"

	"seehuhn.de/go/pdf/graphics"

	"seehuhn.de/go/lineart/geometry"
)

// Kind identifies the drawing operation which produced a [ShapeRecord].
type Kind int

// These are the possible kinds of shape records.
const (
	KindFill Kind = iota + 1
	KindStroke
	KindFillStroke
	KindClip
	KindGroup
)

func (k Kind) String() string {
	switch k {
	case KindFill:
		return "f"
	case KindStroke:
		return "s"
	case KindFillStroke:
		return "fs"
	case KindClip:
		return "clip"
	case KindGroup:
		return "group"
	default:
		return "unknown"
	}
}

// MarshalJSON implements the [json.Marshaler] interface.
func (k Kind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// A PathItem is one element of a traced path, in device coordinates.
// The concrete types are [Line], [Curve], [RectItem] and [QuadItem].
type PathItem interface {
	isPathItem()
}

// Line is a straight line segment.
type Line struct {
	From, To geometry.Point
}

// Curve is a cubic Bézier curve.
type Curve struct {
	From, C1, C2, To geometry.Point
}

// RectItem is an axis-aligned rectangle recognised from a closed run of
// three lines.
type RectItem struct {
	Rect geometry.Rect

	// Orientation is +1 if the rectangle was traversed counter-clockwise
	// (in a y-up coordinate system) and -1 otherwise.
	Orientation int
}

// QuadItem is a closed quadrilateral recognised from a run of four lines.
type QuadItem struct {
	Quad geometry.Quad
}

func (Line) isPathItem()     {}
func (Curve) isPathItem()    {}
func (RectItem) isPathItem() {}
func (QuadItem) isPathItem() {}

// MarshalJSON encodes the line as ["l", p1, p2].
func (l Line) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{"l", jsonPoint(l.From), jsonPoint(l.To)})
}

// MarshalJSON encodes the curve as ["c", p1, c1, c2, p2].
func (c Curve) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{"c", jsonPoint(c.From), jsonPoint(c.C1), jsonPoint(c.C2), jsonPoint(c.To)})
}

// MarshalJSON encodes the rectangle as ["re", rect, orientation].
func (r RectItem) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{"re", jsonRect(r.Rect), r.Orientation})
}

// MarshalJSON encodes the quad as ["qu", [ul, ur, ll, lr]].
func (q QuadItem) MarshalJSON() ([]byte, error) {
	corners := [4][2]float64{jsonPoint(q.Quad.UL), jsonPoint(q.Quad.UR), jsonPoint(q.Quad.LL), jsonPoint(q.Quad.LR)}
	return json.Marshal([]any{"qu", corners})
}

// Color holds the components of a colour, as computed by the caller.
// A nil Color means that no colour is set.
type Color []float64

// StrokeState describes how a path is stroked.
type StrokeState struct {
	Width      float64
	Cap        graphics.LineCapStyle
	Join       graphics.LineJoinStyle
	MiterLimit float64
	Dash       []float64
	DashPhase  float64
}

// DefaultStrokeState returns the PDF default stroke parameters.
func DefaultStrokeState() *StrokeState {
	return &StrokeState{
		Width:      1,
		Cap:        graphics.LineCapButt,
		Join:       graphics.LineJoinMiter,
		MiterLimit: 10,
	}
}

// FillInfo holds the fields of a record which are set by a fill operation.
type FillInfo struct {
	EvenOdd bool
	Color   Color
	Opacity float64
}

// StrokeInfo holds the fields of a record which are set by a stroke
// operation.  Width and dash lengths are in device units.
type StrokeInfo struct {
	Color      Color
	Opacity    float64
	Width      float64
	LineCap    graphics.LineCapStyle
	LineJoin   graphics.LineJoinStyle
	MiterLimit float64
	Dashes     string
}

// ClipInfo holds the fields of a clip record.
type ClipInfo struct {
	// EvenOdd is nil for stroke, text and image mask clips.
	EvenOdd *bool

	// Scissor is the clip rectangle in force after this clip.
	Scissor geometry.Rect
}

// GroupInfo holds the fields of a transparency group record.
type GroupInfo struct {
	Isolated  bool
	Knockout  bool
	BlendMode string
	Opacity   float64
}

// ShapeRecord describes one traced drawing operation.
//
// Exactly one of Fill, Stroke, Clip and Group is set, except for
// records of kind [KindFillStroke] which carry both Fill and Stroke.
type ShapeRecord struct {
	Kind      Kind
	Items     []PathItem
	Rect      geometry.Rect
	ClosePath bool
	Seqno     uint64
	Layer     string

	// Level is the nesting depth of clips and groups at the time the
	// record was made.  It is only set when clip tracking is enabled.
	Level *int

	Fill   *FillInfo
	Stroke *StrokeInfo
	Clip   *ClipInfo
	Group  *GroupInfo
}

type jsonShape struct {
	Type          Kind        `json:"type"`
	Items         []PathItem  `json:"items,omitempty"`
	Rect          [4]float64  `json:"rect"`
	ClosePath     *bool       `json:"closePath,omitempty"`
	EvenOdd       *bool       `json:"even_odd,omitempty"`
	Fill          Color       `json:"fill,omitempty"`
	FillOpacity   *float64    `json:"fill_opacity,omitempty"`
	Color         Color       `json:"color,omitempty"`
	StrokeOpacity *float64    `json:"stroke_opacity,omitempty"`
	Width         *float64    `json:"width,omitempty"`
	LineCap       *int        `json:"lineCap,omitempty"`
	LineJoin      *int        `json:"lineJoin,omitempty"`
	Dashes        *string     `json:"dashes,omitempty"`
	Scissor       *[4]float64 `json:"scissor,omitempty"`
	Isolated      *bool       `json:"isolated,omitempty"`
	Knockout      *bool       `json:"knockout,omitempty"`
	BlendMode     *string     `json:"blendmode,omitempty"`
	Opacity       *float64    `json:"opacity,omitempty"`
	Seqno         uint64      `json:"seqno"`
	Layer         string      `json:"layer"`
	Level         *int        `json:"level,omitempty"`
}

// MarshalJSON encodes the record using the key names of PyMuPDF's
// Page.get_drawings().
func (r *ShapeRecord) MarshalJSON() ([]byte, error) {
	out := jsonShape{
		Type:  r.Kind,
		Items: r.Items,
		Rect:  jsonRect(r.Rect),
		Seqno: r.Seqno,
		Layer: r.Layer,
		Level: r.Level,
	}
	if r.Kind != KindGroup {
		out.ClosePath = &r.ClosePath
	}
	if f := r.Fill; f != nil {
		out.EvenOdd = &f.EvenOdd
		out.Fill = f.Color
		out.FillOpacity = &f.Opacity
	}
	if s := r.Stroke; s != nil {
		out.Color = s.Color
		out.StrokeOpacity = &s.Opacity
		out.Width = &s.Width
		lineCap, lineJoin := int(s.LineCap), int(s.LineJoin)
		out.LineCap = &lineCap
		out.LineJoin = &lineJoin
		out.Dashes = &s.Dashes
	}
	if c := r.Clip; c != nil {
		out.EvenOdd = c.EvenOdd
		scissor := jsonRect(c.Scissor)
		out.Scissor = &scissor
	}
	if g := r.Group; g != nil {
		out.Isolated = &g.Isolated
		out.Knockout = &g.Knockout
		out.BlendMode = &g.BlendMode
		out.Opacity = &g.Opacity
	}
	return json.Marshal(out)
}

// BBoxKind identifies the operation of a [BBoxRecord].
type BBoxKind string

// These are the operations recorded by the bounding box personality.
const (
	BBoxFillPath      BBoxKind = "fill-path"
	BBoxStrokePath    BBoxKind = "stroke-path"
	BBoxFillText      BBoxKind = "fill-text"
	BBoxStrokeText    BBoxKind = "stroke-text"
	BBoxIgnoreText    BBoxKind = "ignore-text"
	BBoxFillImage     BBoxKind = "fill-image"
	BBoxFillImageMask BBoxKind = "fill-imgmask"
	BBoxFillShade     BBoxKind = "fill-shade"
)

// BBoxRecord is the output of the bounding box personality.
type BBoxRecord struct {
	Kind BBoxKind
	Rect geometry.Rect

	// Layer is only filled in if [Options.Layers] is set.
	Layer string

	// Layered is set if the record was made with [Options.Layers], so
	// that Layer is part of the record even when it is empty.
	Layered bool
}

// MarshalJSON encodes the record as [kind, rect], or as [kind, rect, layer]
// if b.Layered is set.
func (b BBoxRecord) MarshalJSON() ([]byte, error) {
	if !b.Layered {
		return json.Marshal([]any{b.Kind, jsonRect(b.Rect)})
	}
	return json.Marshal([]any{b.Kind, jsonRect(b.Rect), b.Layer})
}

func jsonPoint(p geometry.Point) [2]float64 {
	return [2]float64{p.X, p.Y}
}

func jsonRect(r geometry.Rect) [4]float64 {
	return [4]float64{r.X0, r.Y0, r.X1, r.Y1}
}
