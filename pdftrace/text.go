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
	"slices"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/font/charcode"
	"seehuhn.de/go/pdf/font/cmap"

	"seehuhn.de/go/lineart"
	"seehuhn.de/go/lineart/geometry"
)

// fontInfo holds the font metrics needed to estimate the extent of text.
type fontInfo struct {
	name string

	// codec splits strings into character codes.  If this is nil,
	// every byte is one code.
	codec *charcode.Codec

	// encoding maps codes to CIDs for composite fonts.  For simple fonts
	// this is nil and widths is indexed by the code itself.
	encoding *cmap.File

	widths       map[int]float64
	defaultWidth float64
	widthScale   float64 // glyph space to text space

	ascent, descent float64 // in text space units, for font size 1

	toUnicode *cmap.ToUnicodeFile
}

// defaultFont is used when Tf names a missing font.
var defaultFont = &fontInfo{
	name:         "",
	defaultWidth: 500,
	widthScale:   0.001,
	ascent:       0.8,
	descent:      -0.2,
}

// doText handles the text operators.
func (t *Interpreter) doText(op string, args []pdf.Object,
	nums func(int) ([]float64, bool), getName func(int) (pdf.Name, bool)) error {
	s := &t.state
	switch op {
	case "BT":
		t.inText = true
		t.tm = geometry.Identity
		t.tlm = geometry.Identity
		t.textClip = t.textClip[:0]
		t.textClipStroke = false
	case "ET":
		t.inText = false
		return t.endText()

	case "Tc":
		if c, ok := nums(1); ok {
			s.charSpace = c[0]
		}
	case "Tw":
		if c, ok := nums(1); ok {
			s.wordSpace = c[0]
		}
	case "Tz":
		if c, ok := nums(1); ok {
			s.hScale = c[0] / 100
		}
	case "TL":
		if c, ok := nums(1); ok {
			s.leading = c[0]
		}
	case "Tf":
		name, ok1 := getName(0)
		c, ok2 := nums(1)
		if !ok1 || !ok2 {
			break
		}
		s.font = t.loadFont(name)
		s.fontSize = c[0]
	case "Tr":
		if c, ok := nums(1); ok && c[0] >= 0 && c[0] <= 7 {
			s.renderMode = int(c[0])
		}
	case "Ts":
		if c, ok := nums(1); ok {
			s.rise = c[0]
		}

	case "Td":
		if c, ok := nums(2); ok {
			t.newLine(c[0], c[1])
		}
	case "TD":
		if c, ok := nums(2); ok {
			s.leading = -c[1]
			t.newLine(c[0], c[1])
		}
	case "Tm":
		c, ok := nums(6)
		if !ok {
			break
		}
		t.tm = geometry.Matrix{A: c[0], B: c[1], C: c[2], D: c[3], E: c[4], F: c[5]}
		t.tlm = t.tm
	case "T*":
		t.newLine(0, -s.leading)

	case "Tj":
		if len(args) < 1 {
			break
		}
		if str, ok := args[0].(pdf.String); ok {
			return t.show(pdf.Array{str})
		}
	case "'":
		if len(args) < 1 {
			break
		}
		t.newLine(0, -s.leading)
		if str, ok := args[0].(pdf.String); ok {
			return t.show(pdf.Array{str})
		}
	case "\"":
		if len(args) != 3 {
			break
		}
		aw, ok1 := getNumber(args[0])
		ac, ok2 := getNumber(args[1])
		str, ok3 := args[2].(pdf.String)
		if !ok1 || !ok2 || !ok3 {
			break
		}
		s.wordSpace = aw
		s.charSpace = ac
		t.newLine(0, -s.leading)
		return t.show(pdf.Array{str})
	case "TJ":
		if len(args) < 1 {
			break
		}
		if arr, ok := args[0].(pdf.Array); ok {
			return t.show(arr)
		}
	}
	return nil
}

func (t *Interpreter) newLine(tx, ty float64) {
	t.tlm = geometry.Translate(tx, ty).Concat(t.tlm)
	t.tm = t.tlm
}

// show lays out the strings in seq and reports them to the device.
// Numbers in seq move the text position, as for the TJ operator.
func (t *Interpreter) show(seq pdf.Array) error {
	s := &t.state
	font := s.font
	if font == nil {
		font = defaultFont
	}
	size := s.fontSize

	text := &lineart.Text{}
	for _, obj := range seq {
		if adj, ok := getNumber(obj); ok {
			t.tm = geometry.Translate(-adj/1000*size*s.hScale, 0).Concat(t.tm)
			continue
		}
		str, ok := obj.(pdf.String)
		if !ok || len(str) == 0 {
			continue
		}

		var adv float64
		var buf strings.Builder
		for code := range font.codes(str) {
			w := font.width(code)*size + s.charSpace
			if len(code) == 1 && code[0] == ' ' {
				w += s.wordSpace
			}
			adv += w * s.hScale
			buf.WriteString(font.decode(code))
		}

		box := geometry.Rect{
			X0: 0,
			Y0: font.descent*size + s.rise,
			X1: adv,
			Y1: font.ascent*size + s.rise,
		}.Normalize()
		text.Spans = append(text.Spans, lineart.TextSpan{
			Font:  font.name,
			Size:  size,
			Text:  buf.String(),
			Bound: box.Transform(t.tm),
		})
		t.tm = geometry.Translate(adv, 0).Concat(t.tm)
	}
	if len(text.Spans) == 0 {
		return nil
	}

	col, alpha := slices.Clone(s.fillColor), s.fillAlpha
	switch s.renderMode {
	case 0, 4:
		t.noteClip(text, false)
		return t.dev.FillText(text, s.ctm, col, alpha)
	case 1, 5:
		t.noteClip(text, s.renderMode == 5)
		return t.dev.StrokeText(text, s.strokeState(), s.ctm, slices.Clone(s.strokeColor), s.strokeAlpha)
	case 2, 6:
		if err := t.dev.FillText(text, s.ctm, col, alpha); err != nil {
			return err
		}
		t.noteClip(text, s.renderMode == 6)
		return t.dev.StrokeText(text, s.strokeState(), s.ctm, slices.Clone(s.strokeColor), s.strokeAlpha)
	case 3:
		return t.dev.IgnoreText(text, s.ctm)
	default: // 7
		t.noteClip(text, false)
		return nil
	}
}

// noteClip adds the spans of text to the pending text clip, if the render
// mode adds text to the clipping path.
func (t *Interpreter) noteClip(text *lineart.Text, stroke bool) {
	if t.state.renderMode < 4 {
		return
	}
	t.textClip = append(t.textClip, text.Spans...)
	t.textClipStroke = t.textClipStroke || stroke
}

// endText applies the text clip accumulated since BT.
func (t *Interpreter) endText() error {
	if len(t.textClip) == 0 {
		return nil
	}
	text := &lineart.Text{Spans: t.textClip}
	t.textClip = nil

	s := &t.state
	var err error
	if t.textClipStroke {
		err = t.dev.ClipStrokeText(text, s.strokeState(), s.ctm)
	} else {
		err = t.dev.ClipText(text, s.ctm)
	}
	if err != nil {
		return err
	}
	s.clips++
	return nil
}

// codes iterates over the character codes in s.
func (f *fontInfo) codes(s pdf.String) func(yield func([]byte) bool) {
	return func(yield func([]byte) bool) {
		if f.codec == nil {
			for i := range s {
				if !yield(s[i : i+1]) {
					return
				}
			}
			return
		}
		for len(s) > 0 {
			_, k, _ := f.codec.Decode(s)
			if k == 0 {
				k = 1
			}
			if !yield(s[:k]) {
				return
			}
			s = s[k:]
		}
	}
}

// width returns the advance width of a glyph, for font size 1.
func (f *fontInfo) width(code []byte) float64 {
	var key int
	if f.encoding != nil {
		key = int(f.encoding.LookupCID(code))
	} else {
		for _, b := range code {
			key = key<<8 | int(b)
		}
	}
	w, ok := f.widths[key]
	if !ok {
		w = f.defaultWidth
	}
	return w * f.widthScale
}

// decode returns a best-effort Unicode rendering of a character code.
func (f *fontInfo) decode(code []byte) string {
	if s, ok := f.toUnicode.Lookup(code); ok {
		return s
	}
	if len(code) == 1 {
		return string(charmap.Windows1252.DecodeByte(code[0]))
	}
	return "\uFFFD"
}

// loadFont reads the metrics of a font resource.
func (t *Interpreter) loadFont(name pdf.Name) *fontInfo {
	obj := t.getDict(t.resources["Font"])[name]
	ref, isRef := obj.(pdf.Reference)
	if isRef {
		if f, ok := t.fonts[ref]; ok {
			return f
		}
	}

	dict := t.getDict(obj)
	if dict == nil {
		t.log.Warn("missing font", "name", name)
		return defaultFont
	}

	f := &fontInfo{
		defaultWidth: 500,
		widthScale:   0.001,
		ascent:       0.8,
		descent:      -0.2,
		widths:       make(map[int]float64),
	}
	if base, ok := t.resolve(dict["BaseFont"]).(pdf.Name); ok {
		f.name = string(base)
	} else {
		f.name = string(name)
	}

	descriptor := t.getDict(dict["FontDescriptor"])
	subtype, _ := t.resolve(dict["Subtype"]).(pdf.Name)
	switch subtype {
	case "Type0":
		f.encoding = t.readEncoding(dict["Encoding"])
		f.defaultWidth = 1000
		if desc, ok := t.resolve(dict["DescendantFonts"]).(pdf.Array); ok && len(desc) > 0 {
			cidFont := t.getDict(desc[0])
			if dw, ok := getNumber(t.resolve(cidFont["DW"])); ok {
				f.defaultWidth = dw
			}
			t.readCIDWidths(f, cidFont["W"])
			descriptor = t.getDict(cidFont["FontDescriptor"])
		}
	case "Type3":
		if m, ok := t.matrix(dict["FontMatrix"]); ok {
			f.widthScale = m.A
		}
		t.readSimpleWidths(f, dict)
		f.defaultWidth = 0
	default:
		t.readSimpleWidths(f, dict)
	}

	if descriptor != nil {
		asc, ok1 := getNumber(t.resolve(descriptor["Ascent"]))
		desc, ok2 := getNumber(t.resolve(descriptor["Descent"]))
		if ok1 && ok2 && asc > desc {
			f.ascent = asc / 1000
			f.descent = desc / 1000
		}
		if mw, ok := getNumber(t.resolve(descriptor["MissingWidth"])); ok && mw > 0 {
			f.defaultWidth = mw
		}
	}

	if dict["ToUnicode"] != nil {
		tu, err := cmap.ExtractToUnicode(t.r, dict["ToUnicode"])
		if err != nil {
			t.log.Warn("cannot read ToUnicode CMap", "font", f.name, "err", err)
		}
		f.toUnicode = tu
	}
	f.codec = t.fontCodec(f)

	if isRef {
		t.fonts[ref] = f
	}
	return f
}

func (t *Interpreter) readSimpleWidths(f *fontInfo, dict pdf.Dict) {
	first, _ := getNumber(t.resolve(dict["FirstChar"]))
	widths, ok := t.numbers(dict["Widths"])
	if !ok {
		return
	}
	for i, w := range widths {
		f.widths[int(first)+i] = w
	}
}

// readCIDWidths reads the /W array of a CIDFont.  Entries have the forms
// "c [w1 w2 ...]" and "cFirst cLast w".
func (t *Interpreter) readCIDWidths(f *fontInfo, obj pdf.Object) {
	arr, _ := t.resolve(obj).(pdf.Array)
	for i := 0; i+1 < len(arr); {
		c0, ok := getNumber(t.resolve(arr[i]))
		if !ok {
			return
		}
		if ws, ok := t.resolve(arr[i+1]).(pdf.Array); ok {
			for j, w := range ws {
				if x, ok := getNumber(t.resolve(w)); ok {
					f.widths[int(c0)+j] = x
				}
			}
			i += 2
			continue
		}
		if i+2 >= len(arr) {
			return
		}
		c1, ok1 := getNumber(t.resolve(arr[i+1]))
		w, ok2 := getNumber(t.resolve(arr[i+2]))
		if !ok1 || !ok2 || c1-c0 > 0xFFFF {
			return
		}
		for c := int(c0); c <= int(c1); c++ {
			f.widths[c] = w
		}
		i += 3
	}
}

// readEncoding reads the CMap of a composite font.  If the CMap cannot
// be read, codes are taken to be two bytes long and used as CIDs directly.
func (t *Interpreter) readEncoding(obj pdf.Object) *cmap.File {
	enc, err := cmap.ExtractNew(t.r, obj)
	if err != nil || enc == nil || len(enc.CodeSpaceRange) == 0 {
		t.log.Warn("cannot read font encoding", "err", err)
		return &cmap.File{
			CodeSpaceRange: charcode.UCS2,
			CIDRanges: []cmap.RangeNew{
				{First: []byte{0x00, 0x00}, Last: []byte{0xFF, 0xFF}},
			},
		}
	}
	return enc
}

// fontCodec returns the codec used to split strings shown with f.  Composite
// fonts use the code space of their CMap, merged with the code space of the
// ToUnicode CMap where the two are compatible.
func (t *Interpreter) fontCodec(f *fontInfo) *charcode.Codec {
	if f.encoding == nil {
		return nil
	}
	var csr charcode.CodeSpaceRange
	csr = append(csr, f.encoding.CodeSpaceRange...)
	if f.toUnicode != nil {
		csr = append(csr, f.toUnicode.CodeSpaceRange...)
	}
	codec, err := charcode.NewCodec(csr)
	if err != nil {
		codec, err = charcode.NewCodec(f.encoding.CodeSpaceRange)
	}
	if err != nil {
		t.log.Warn("invalid code space", "font", f.name, "err", err)
		return nil
	}
	return codec
}
