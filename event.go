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

	"seehuhn.de/go/geom/path"

	"seehuhn.de/go/lineart/geometry"
)

// An Event is one drawing callback, in a form which can be stored and
// replayed.  The concrete types correspond one-to-one to the event methods
// of [Device].
type Event interface {
	isEvent()
}

type (
	// FillPath records a call to [Device.FillPath].
	FillPath struct {
		Path    *path.Data
		EvenOdd bool
		CTM     geometry.Matrix
		Color   Color
		Alpha   float64
	}
	// StrokePath records a call to [Device.StrokePath].
	StrokePath struct {
		Path   *path.Data
		Stroke *StrokeState
		CTM    geometry.Matrix
		Color  Color
		Alpha  float64
	}
	// ClipPath records a call to [Device.ClipPath].
	ClipPath struct {
		Path    *path.Data
		EvenOdd bool
		CTM     geometry.Matrix
	}
	// ClipStrokePath records a call to [Device.ClipStrokePath].
	ClipStrokePath struct {
		Path   *path.Data
		Stroke *StrokeState
		CTM    geometry.Matrix
	}
	// ClipText records a call to [Device.ClipText].
	ClipText struct {
		Text *Text
		CTM  geometry.Matrix
	}
	// ClipStrokeText records a call to [Device.ClipStrokeText].
	ClipStrokeText struct {
		Text   *Text
		Stroke *StrokeState
		CTM    geometry.Matrix
	}
	// ClipImageMask records a call to [Device.ClipImageMask].
	ClipImageMask struct {
		Image *Image
		CTM   geometry.Matrix
	}
	// PopClip records a call to [Device.PopClip].
	PopClip struct{}
	// FillText records a call to [Device.FillText].
	FillText struct {
		Text  *Text
		CTM   geometry.Matrix
		Color Color
		Alpha float64
	}
	// StrokeText records a call to [Device.StrokeText].
	StrokeText struct {
		Text   *Text
		Stroke *StrokeState
		CTM    geometry.Matrix
		Color  Color
		Alpha  float64
	}
	// IgnoreText records a call to [Device.IgnoreText].
	IgnoreText struct {
		Text *Text
		CTM  geometry.Matrix
	}
	// FillImage records a call to [Device.FillImage].
	FillImage struct {
		Image *Image
		CTM   geometry.Matrix
		Alpha float64
	}
	// FillImageMask records a call to [Device.FillImageMask].
	FillImageMask struct {
		Image *Image
		CTM   geometry.Matrix
		Color Color
		Alpha float64
	}
	// FillShade records a call to [Device.FillShade].
	FillShade struct {
		Shade *Shade
		CTM   geometry.Matrix
		Alpha float64
	}
	// BeginGroup records a call to [Device.BeginGroup].
	BeginGroup struct {
		BBox      geometry.Rect
		Isolated  bool
		Knockout  bool
		BlendMode string
		Alpha     float64
	}
	// EndGroup records a call to [Device.EndGroup].
	EndGroup struct{}
	// BeginLayer records a call to [Device.BeginLayer].
	BeginLayer struct {
		Name string
	}
	// EndLayer records a call to [Device.EndLayer].
	EndLayer struct{}
)

func (FillPath) isEvent()       {}
func (StrokePath) isEvent()     {}
func (ClipPath) isEvent()       {}
func (ClipStrokePath) isEvent() {}
func (ClipText) isEvent()       {}
func (ClipStrokeText) isEvent() {}
func (ClipImageMask) isEvent()  {}
func (PopClip) isEvent()        {}
func (FillText) isEvent()       {}
func (StrokeText) isEvent()     {}
func (IgnoreText) isEvent()     {}
func (FillImage) isEvent()      {}
func (FillImageMask) isEvent()  {}
func (FillShade) isEvent()      {}
func (BeginGroup) isEvent()     {}
func (EndGroup) isEvent()       {}
func (BeginLayer) isEvent()     {}
func (EndLayer) isEvent()       {}

// Handle calls the event method corresponding to ev.
func (d *Device) Handle(ev Event) error {
	switch ev := ev.(type) {
	case FillPath:
		return d.FillPath(ev.Path, ev.EvenOdd, ev.CTM, ev.Color, ev.Alpha)
	case StrokePath:
		return d.StrokePath(ev.Path, ev.Stroke, ev.CTM, ev.Color, ev.Alpha)
	case ClipPath:
		return d.ClipPath(ev.Path, ev.EvenOdd, ev.CTM)
	case ClipStrokePath:
		return d.ClipStrokePath(ev.Path, ev.Stroke, ev.CTM)
	case ClipText:
		return d.ClipText(ev.Text, ev.CTM)
	case ClipStrokeText:
		return d.ClipStrokeText(ev.Text, ev.Stroke, ev.CTM)
	case ClipImageMask:
		return d.ClipImageMask(ev.Image, ev.CTM)
	case PopClip:
		return d.PopClip()
	case FillText:
		return d.FillText(ev.Text, ev.CTM, ev.Color, ev.Alpha)
	case StrokeText:
		return d.StrokeText(ev.Text, ev.Stroke, ev.CTM, ev.Color, ev.Alpha)
	case IgnoreText:
		return d.IgnoreText(ev.Text, ev.CTM)
	case FillImage:
		return d.FillImage(ev.Image, ev.CTM, ev.Alpha)
	case FillImageMask:
		return d.FillImageMask(ev.Image, ev.CTM, ev.Color, ev.Alpha)
	case FillShade:
		return d.FillShade(ev.Shade, ev.CTM, ev.Alpha)
	case BeginGroup:
		return d.BeginGroup(ev.BBox, ev.Isolated, ev.Knockout, ev.BlendMode, ev.Alpha)
	case EndGroup:
		return d.EndGroup()
	case BeginLayer:
		return d.BeginLayer(ev.Name)
	case EndLayer:
		return d.EndLayer()
	default:
		return fmt.Errorf("lineart: unsupported event %T", ev)
	}
}

// Replay feeds the events to d, in order, and then closes d.
// It stops at the first error.
func Replay(d *Device, events []Event) error {
	for i, ev := range events {
		if err := d.Handle(ev); err != nil {
			return fmt.Errorf("event %d (%T): %w", i, ev, err)
		}
	}
	return d.Close()
}
