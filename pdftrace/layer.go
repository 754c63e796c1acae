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
	"bytes"

	"seehuhn.de/go/pdf"
)

// beginMarked handles the BDC operator.  Marked content tagged /OC starts
// an optional content layer.
func (t *Interpreter) beginMarked(args []pdf.Object) error {
	if len(args) != 2 {
		t.marked = append(t.marked, false)
		return nil
	}
	tag, _ := args[0].(pdf.Name)
	if tag != "OC" {
		t.marked = append(t.marked, false)
		return nil
	}

	var props pdf.Dict
	switch x := args[1].(type) {
	case pdf.Name:
		props = t.getDict(t.lookup("Properties", x))
	case pdf.Dict:
		props = x
	}
	name, ok := t.layerName(props)
	if !ok {
		t.marked = append(t.marked, false)
		return nil
	}
	return t.beginLayer(name)
}

// endMarked handles the EMC operator.
func (t *Interpreter) endMarked() error {
	if len(t.marked) == 0 {
		t.log.Warn("unbalanced EMC operator")
		return nil
	}
	isLayer := t.marked[len(t.marked)-1]
	t.marked = t.marked[:len(t.marked)-1]
	if !isLayer {
		return nil
	}
	return t.endLayer()
}

func (t *Interpreter) beginLayer(name string) error {
	t.marked = append(t.marked, true)
	t.layers = append(t.layers, name)
	return t.dev.BeginLayer(name)
}

// endLayer closes the innermost layer.  The device only knows a single
// current layer, so the enclosing layer is started again.
func (t *Interpreter) endLayer() error {
	if len(t.layers) == 0 {
		return nil
	}
	t.layers = t.layers[:len(t.layers)-1]
	if err := t.dev.EndLayer(); err != nil {
		return err
	}
	if n := len(t.layers); n > 0 {
		return t.dev.BeginLayer(t.layers[n-1])
	}
	return nil
}

// layerName returns the name of an optional content group.  For an optional
// content membership dictionary, the first member group is used.
func (t *Interpreter) layerName(dict pdf.Dict) (string, bool) {
	if dict == nil {
		return "", false
	}
	if tp, _ := t.resolve(dict["Type"]).(pdf.Name); tp == "OCMD" {
		switch ocgs := t.resolve(dict["OCGs"]).(type) {
		case pdf.Dict:
			dict = ocgs
		case pdf.Array:
			if len(ocgs) == 0 {
				return "", false
			}
			dict = t.getDict(ocgs[0])
		default:
			return "", false
		}
		if dict == nil {
			return "", false
		}
	}
	name, ok := t.resolve(dict["Name"]).(pdf.String)
	if !ok {
		return "", false
	}
	return decodeTextString(name), true
}

var bomUTF8 = []byte{0xEF, 0xBB, 0xBF}

// decodeTextString decodes a PDF text string.  In addition to UTF-16BE and
// PDFDocEncoding, UTF-8 strings with a byte order mark are recognised.
func decodeTextString(s pdf.String) string {
	if b := []byte(s); bytes.HasPrefix(b, bomUTF8) {
		return string(b[len(bomUTF8):])
	}
	return s.AsTextString()
}
