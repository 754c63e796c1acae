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

// ClipPath intersects the clipping region with the interior of p.
func (d *Device) ClipPath(p *path.Data, evenOdd bool, ctm geometry.Matrix) error {
	if !d.clips {
		return nil
	}
	d.walker.trace(p, ctm, traceClip)
	return d.pushClip(&evenOdd, d.walker.rect, true)
}

// ClipStrokePath intersects the clipping region with the area covered by
// stroking p.
func (d *Device) ClipStrokePath(p *path.Data, st *StrokeState, ctm geometry.Matrix) error {
	if !d.clips {
		return nil
	}
	d.walker.trace(p, ctm, traceClipStroke)
	return d.pushClip(nil, d.walker.rect, true)
}

// ClipText intersects the clipping region with the glyph shapes of t.
func (d *Device) ClipText(t *Text, ctm geometry.Matrix) error {
	if !d.clips {
		return nil
	}
	return d.pushClip(nil, t.Bound().Transform(ctm), false)
}

// ClipStrokeText intersects the clipping region with the stroked glyph
// outlines of t.
func (d *Device) ClipStrokeText(t *Text, st *StrokeState, ctm geometry.Matrix) error {
	if !d.clips {
		return nil
	}
	return d.pushClip(nil, t.Bound().Transform(ctm), false)
}

// ClipImageMask intersects the clipping region with an image mask.
func (d *Device) ClipImageMask(img *Image, ctm geometry.Matrix) error {
	if !d.clips {
		return nil
	}
	return d.pushClip(nil, geometry.Unit.Transform(ctm), false)
}

// PopClip restores the clipping region in force before the most recent
// clip operation.
func (d *Device) PopClip() error {
	if !d.clips {
		return nil
	}
	if len(d.scissors) == 0 || d.depth == 0 {
		return d.unbalanced("PopClip")
	}
	d.scissors = d.scissors[:len(d.scissors)-1]
	d.depth--
	return nil
}

// BeginGroup starts a transparency group.  The bounding box is given in
// device space.
func (d *Device) BeginGroup(bbox geometry.Rect, isolated, knockout bool, blendMode string, alpha float64) error {
	if !d.clips {
		return nil
	}
	if blendMode == "" {
		blendMode = "Normal"
	}
	if d.mode == ModeLineArt {
		rec := d.newScope(KindGroup, nil, bbox)
		rec.Group = &GroupInfo{
			Isolated:  isolated,
			Knockout:  knockout,
			BlendMode: blendMode,
			Opacity:   alpha,
		}
		if err := d.emit(rec); err != nil {
			return err
		}
	}
	d.depth++
	return nil
}

// EndGroup ends the most recent transparency group.
func (d *Device) EndGroup() error {
	if !d.clips {
		return nil
	}
	if d.depth <= len(d.scissors) {
		return d.unbalanced("EndGroup")
	}
	d.depth--
	return nil
}

// scissor returns the clip rectangle currently in force.
func (d *Device) scissor() geometry.Rect {
	if n := len(d.scissors); n > 0 {
		return d.scissors[n-1]
	}
	return d.pageRect
}

// pushClip pushes a new scissor and emits the corresponding clip record.
// If useItems is set, the record takes the items of the last path walk.
func (d *Device) pushClip(evenOdd *bool, bound geometry.Rect, useItems bool) error {
	scissor := d.scissor().Intersect(bound)
	d.scissors = append(d.scissors, scissor)

	var err error
	if d.mode == ModeLineArt {
		var items []PathItem
		if useItems {
			items = d.walker.items
		}
		rec := d.newScope(KindClip, items, bound)
		rec.ClosePath = useItems && d.walker.closePath
		rec.Clip = &ClipInfo{
			EvenOdd: evenOdd,
			Scissor: scissor,
		}
		err = d.emit(rec)
	}
	d.depth++
	return err
}

func (d *Device) newScope(kind Kind, items []PathItem, bound geometry.Rect) *ShapeRecord {
	level := d.depth
	rec := &ShapeRecord{
		Kind:  kind,
		Items: items,
		Rect:  bound,
		Seqno: d.seqno,
		Layer: d.layer,
		Level: &level,
	}
	d.seqno++
	return rec
}

func (d *Device) unbalanced(op string) error {
	if d.strict {
		return fmt.Errorf("%w: %s at depth %d", ErrUnbalanced, op, d.depth)
	}
	d.log.Warn("unbalanced scope", "op", op, "depth", d.depth)
	return nil
}
