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
	"fmt"
	"slices"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf"

	"seehuhn.de/go/lineart"
	"seehuhn.de/go/lineart/geometry"
)

// xObject handles the Do operator.
func (t *Interpreter) xObject(ctx context.Context, name pdf.Name) error {
	obj := t.lookup("XObject", name)
	stm, ok := obj.(*pdf.Stream)
	if !ok {
		t.log.Warn("missing XObject", "name", name)
		return nil
	}

	subtype, _ := t.resolve(stm.Dict["Subtype"]).(pdf.Name)
	switch subtype {
	case "Image":
		return t.withLayer(stm.Dict, func() error {
			return t.image(string(name), stm.Dict, "Width", "Height", "ImageMask")
		})
	case "Form":
		return t.withLayer(stm.Dict, func() error {
			return t.form(ctx, name, stm)
		})
	default:
		t.log.Debug("unsupported XObject", "name", name, "subtype", subtype)
		return nil
	}
}

// withLayer runs fn inside the optional content layer named by the /OC
// entry of dict, if any.
func (t *Interpreter) withLayer(dict pdf.Dict, fn func() error) error {
	name, ok := t.layerName(t.getDict(dict["OC"]))
	if !ok {
		return fn()
	}
	if err := t.beginLayer(name); err != nil {
		return err
	}
	err := fn()
	t.marked = t.marked[:len(t.marked)-1]
	if err2 := t.endLayer(); err == nil {
		err = err2
	}
	return err
}

// image reports an image or image mask.  The key arguments allow to use
// the abbreviations of inline images.
func (t *Interpreter) image(name string, dict pdf.Dict, wKey, hKey, maskKey pdf.Name) error {
	w, _ := getNumber(t.resolve(dict[wKey]))
	h, _ := getNumber(t.resolve(dict[hKey]))
	img := &lineart.Image{
		Name:   name,
		Width:  int(w),
		Height: int(h),
		IsMask: getBool(t.resolve(dict[maskKey])),
	}
	s := &t.state
	if img.IsMask {
		return t.dev.FillImageMask(img, s.ctm, slices.Clone(s.fillColor), s.fillAlpha)
	}
	return t.dev.FillImage(img, s.ctm, s.fillAlpha)
}

// inline reports an inline image.
func (t *Interpreter) inline(dict pdf.Dict) error {
	wKey, hKey, maskKey := pdf.Name("W"), pdf.Name("H"), pdf.Name("IM")
	if _, ok := dict["Width"]; ok {
		wKey = "Width"
	}
	if _, ok := dict["Height"]; ok {
		hKey = "Height"
	}
	if _, ok := dict["ImageMask"]; ok {
		maskKey = "ImageMask"
	}
	return t.image("inline", dict, wKey, hKey, maskKey)
}

// form runs the content stream of a form XObject.
func (t *Interpreter) form(ctx context.Context, name pdf.Name, stm *pdf.Stream) error {
	if t.formDepth >= t.maxDepth {
		t.log.Warn("form XObjects nested too deeply", "name", name, "depth", t.formDepth)
		return nil
	}
	body, err := t.openStream(stm)
	if err != nil {
		return fmt.Errorf("form %q: %w", name, err)
	}

	dict := stm.Dict
	resources := t.getDict(dict["Resources"])
	if resources == nil {
		resources = t.resources
	}

	base := len(t.stack)
	t.stack = append(t.stack, t.state)
	t.state = t.state.clone()
	s := &t.state
	if m, ok := t.matrix(dict["Matrix"]); ok {
		s.ctm = m.Concat(s.ctm)
	}
	bbox, hasBBox := t.rect(dict["BBox"])

	group := t.getDict(dict["Group"])
	isGroup := group != nil
	if isGroup {
		if sub, _ := t.resolve(group["S"]).(pdf.Name); sub != "Transparency" {
			isGroup = false
		}
	}
	if isGroup {
		deviceBox := geometry.Infinite
		if hasBBox {
			deviceBox = bbox.Transform(s.ctm)
		}
		isolated := getBool(t.resolve(group["I"]))
		knockout := getBool(t.resolve(group["K"]))
		err = t.dev.BeginGroup(deviceBox, isolated, knockout, s.blendMode, s.fillAlpha)
		if err != nil {
			t.state = t.stack[base]
			t.stack = t.stack[:base]
			return err
		}
		// the group applies blend mode and alpha as a whole
		s.blendMode = "Normal"
		s.fillAlpha = 1
		s.strokeAlpha = 1
	}

	if hasBBox {
		p0 := vec.Vec2{X: bbox.X0, Y: bbox.Y0}
		clip := (&path.Data{}).MoveTo(p0).
			LineTo(vec.Vec2{X: bbox.X1, Y: bbox.Y0}).
			LineTo(vec.Vec2{X: bbox.X1, Y: bbox.Y1}).
			LineTo(vec.Vec2{X: bbox.X0, Y: bbox.Y1}).
			Close()
		err = t.dev.ClipPath(clip, false, s.ctm)
		if err == nil {
			s.clips++
		}
	}

	if err == nil {
		savedPath := t.path
		t.path = &path.Data{}
		t.formDepth++
		err = t.run(ctx, body, resources)
		t.formDepth--
		t.path = savedPath
	}

	// unwind q operators which the form left open
	for len(t.stack) > base+1 {
		if e := t.popClips(); e != nil && err == nil {
			err = e
		}
		t.state = t.stack[len(t.stack)-1]
		t.stack = t.stack[:len(t.stack)-1]
	}
	if e := t.popClips(); e != nil && err == nil {
		err = e
	}
	if isGroup {
		if e := t.dev.EndGroup(); e != nil && err == nil {
			err = e
		}
	}
	t.state = t.stack[base]
	t.stack = t.stack[:base]

	if err != nil {
		return fmt.Errorf("form %q: %w", name, err)
	}
	return nil
}

// shade handles the sh operator.
func (t *Interpreter) shade(name pdf.Name) error {
	dict := t.getDict(t.lookup("Shading", name))
	if dict == nil {
		t.log.Warn("missing shading", "name", name)
		return nil
	}
	tp, _ := getNumber(t.resolve(dict["ShadingType"]))
	sh := &lineart.Shade{
		Name:  string(name),
		Type:  int(tp),
		Bound: geometry.Infinite,
	}
	if bbox, ok := t.rect(dict["BBox"]); ok {
		sh.Bound = bbox
	}
	s := &t.state
	return t.dev.FillShade(sh, s.ctm, s.fillAlpha)
}
