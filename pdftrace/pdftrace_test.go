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
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/pdf"

	"seehuhn.de/go/lineart"
	"seehuhn.de/go/lineart/geometry"
)

var quietLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// recorder is a Device which logs all calls.
type recorder struct {
	calls  []string
	ctms   []geometry.Matrix
	colors []lineart.Color
	alphas []float64
	widths []float64
	texts  []*lineart.Text
	images []*lineart.Image
	shades []*lineart.Shade
	groups []geometry.Rect
}

func (r *recorder) log(op string, ctm geometry.Matrix) {
	r.calls = append(r.calls, op)
	r.ctms = append(r.ctms, ctm)
}

func (r *recorder) FillPath(p *path.Data, evenOdd bool, ctm geometry.Matrix, col lineart.Color, alpha float64) error {
	r.log(fmt.Sprintf("FillPath evenOdd=%t", evenOdd), ctm)
	r.colors = append(r.colors, col)
	r.alphas = append(r.alphas, alpha)
	return nil
}

func (r *recorder) StrokePath(p *path.Data, st *lineart.StrokeState, ctm geometry.Matrix, col lineart.Color, alpha float64) error {
	r.log("StrokePath", ctm)
	r.colors = append(r.colors, col)
	r.alphas = append(r.alphas, alpha)
	r.widths = append(r.widths, st.Width)
	return nil
}

func (r *recorder) ClipPath(p *path.Data, evenOdd bool, ctm geometry.Matrix) error {
	r.log(fmt.Sprintf("ClipPath evenOdd=%t", evenOdd), ctm)
	return nil
}

func (r *recorder) ClipStrokePath(p *path.Data, st *lineart.StrokeState, ctm geometry.Matrix) error {
	r.log("ClipStrokePath", ctm)
	return nil
}

func (r *recorder) ClipText(t *lineart.Text, ctm geometry.Matrix) error {
	r.log("ClipText", ctm)
	r.texts = append(r.texts, t)
	return nil
}

func (r *recorder) ClipStrokeText(t *lineart.Text, st *lineart.StrokeState, ctm geometry.Matrix) error {
	r.log("ClipStrokeText", ctm)
	r.texts = append(r.texts, t)
	return nil
}

func (r *recorder) ClipImageMask(img *lineart.Image, ctm geometry.Matrix) error {
	r.log("ClipImageMask", ctm)
	return nil
}

func (r *recorder) PopClip() error {
	r.calls = append(r.calls, "PopClip")
	return nil
}

func (r *recorder) FillText(t *lineart.Text, ctm geometry.Matrix, col lineart.Color, alpha float64) error {
	r.log("FillText", ctm)
	r.texts = append(r.texts, t)
	r.colors = append(r.colors, col)
	return nil
}

func (r *recorder) StrokeText(t *lineart.Text, st *lineart.StrokeState, ctm geometry.Matrix, col lineart.Color, alpha float64) error {
	r.log("StrokeText", ctm)
	r.texts = append(r.texts, t)
	return nil
}

func (r *recorder) IgnoreText(t *lineart.Text, ctm geometry.Matrix) error {
	r.log("IgnoreText", ctm)
	r.texts = append(r.texts, t)
	return nil
}

func (r *recorder) FillImage(img *lineart.Image, ctm geometry.Matrix, alpha float64) error {
	r.log("FillImage", ctm)
	r.images = append(r.images, img)
	return nil
}

func (r *recorder) FillImageMask(img *lineart.Image, ctm geometry.Matrix, col lineart.Color, alpha float64) error {
	r.log("FillImageMask", ctm)
	r.images = append(r.images, img)
	return nil
}

func (r *recorder) FillShade(sh *lineart.Shade, ctm geometry.Matrix, alpha float64) error {
	r.log("FillShade", ctm)
	r.shades = append(r.shades, sh)
	return nil
}

func (r *recorder) BeginGroup(bbox geometry.Rect, isolated, knockout bool, blendMode string, alpha float64) error {
	r.calls = append(r.calls, fmt.Sprintf("BeginGroup isolated=%t", isolated))
	r.groups = append(r.groups, bbox)
	return nil
}

func (r *recorder) EndGroup() error {
	r.calls = append(r.calls, "EndGroup")
	return nil
}

func (r *recorder) BeginLayer(name string) error {
	r.calls = append(r.calls, "BeginLayer "+name)
	return nil
}

func (r *recorder) EndLayer() error {
	r.calls = append(r.calls, "EndLayer")
	return nil
}

// traceString runs a content stream against a fresh recorder.
func traceString(t *testing.T, content string, resources pdf.Dict) *recorder {
	t.Helper()
	rec := &recorder{}
	in := New(nil, rec, &Options{Logger: quietLogger})
	err := in.TraceContent(context.Background(), strings.NewReader(content), resources, geometry.Identity)
	if err != nil {
		t.Fatal(err)
	}
	return rec
}

func stream(dict pdf.Dict, content string) *pdf.Stream {
	return &pdf.Stream{Dict: dict, R: bytes.NewReader([]byte(content))}
}

func TestPaintingOperators(t *testing.T) {
	cases := []struct {
		content string
		want    []string
	}{
		{"0 0 m 10 0 l 10 10 l h f", []string{"FillPath evenOdd=false"}},
		{"0 0 10 10 re F", []string{"FillPath evenOdd=false"}},
		{"0 0 10 10 re f*", []string{"FillPath evenOdd=true"}},
		{"0 0 m 10 10 l S", []string{"StrokePath"}},
		{"0 0 m 10 10 l s", []string{"StrokePath"}},
		{"0 0 10 10 re B", []string{"FillPath evenOdd=false", "StrokePath"}},
		{"0 0 10 10 re b*", []string{"FillPath evenOdd=true", "StrokePath"}},
		{"0 0 10 10 re n", nil},
		{"0 0 10 10 re W n", []string{"ClipPath evenOdd=false", "PopClip"}},
		{"0 0 10 10 re W* f", []string{"FillPath evenOdd=false", "ClipPath evenOdd=true", "PopClip"}},
		{"q 0 0 10 10 re W n Q 0 0 5 5 re f", []string{"ClipPath evenOdd=false", "PopClip", "FillPath evenOdd=false"}},
	}
	for _, c := range cases {
		t.Run(c.content, func(t *testing.T) {
			rec := traceString(t, c.content, nil)
			if d := cmp.Diff(c.want, rec.calls); d != "" {
				t.Errorf("calls mismatch (-want +got):\n%s", d)
			}
		})
	}
}

func TestLineArtRecords(t *testing.T) {
	dev := lineart.New(&lineart.Options{Logger: quietLogger})
	in := New(nil, dev, &Options{Logger: quietLogger})
	content := "1 0 0 rg 0 0 1 RG 10 10 20 30 re B 0 0 m 10 0 l 10 10 l h f"
	err := in.TraceContent(context.Background(), strings.NewReader(content), nil, geometry.Identity)
	if err != nil {
		t.Fatal(err)
	}

	recs := dev.Records()
	if len(recs) != 2 {
		t.Fatalf("got %d records, want 2", len(recs))
	}
	if recs[0].Kind != lineart.KindFillStroke {
		t.Errorf("first record has kind %s, want fs", recs[0].Kind)
	}
	if d := cmp.Diff(lineart.Color{1, 0, 0}, recs[0].Fill.Color); d != "" {
		t.Errorf("fill colour mismatch (-want +got):\n%s", d)
	}
	if d := cmp.Diff(lineart.Color{0, 0, 1}, recs[0].Stroke.Color); d != "" {
		t.Errorf("stroke colour mismatch (-want +got):\n%s", d)
	}
	want := geometry.Rect{X0: 10, Y0: 10, X1: 30, Y1: 40}
	if d := cmp.Diff(want, recs[0].Rect); d != "" {
		t.Errorf("rect mismatch (-want +got):\n%s", d)
	}
	if recs[1].Kind != lineart.KindFill || len(recs[1].Items) != 3 {
		t.Errorf("second record: kind %s with %d items, want f with 3 items",
			recs[1].Kind, len(recs[1].Items))
	}
}

func TestGraphicsState(t *testing.T) {
	resources := pdf.Dict{
		"ExtGState": pdf.Dict{
			"G1": pdf.Dict{"LW": pdf.Real(5), "CA": pdf.Real(0.5)},
		},
	}
	content := "2 w 0 0 m 1 1 l S q /G1 gs 3 0 0 3 1 2 cm 0 0 m 1 1 l S Q 0 0 m 1 1 l S"
	rec := traceString(t, content, resources)

	if d := cmp.Diff([]float64{2, 5, 2}, rec.widths); d != "" {
		t.Errorf("widths mismatch (-want +got):\n%s", d)
	}
	if d := cmp.Diff([]float64{1, 0.5, 1}, rec.alphas); d != "" {
		t.Errorf("alphas mismatch (-want +got):\n%s", d)
	}
	wantCTM := []geometry.Matrix{geometry.Identity, {A: 3, D: 3, E: 1, F: 2}, geometry.Identity}
	if d := cmp.Diff(wantCTM, rec.ctms); d != "" {
		t.Errorf("ctm mismatch (-want +got):\n%s", d)
	}
}

func TestUnbalancedQ(t *testing.T) {
	rec := traceString(t, "Q Q 0 0 1 1 re f q 0 0 1 1 re W n", nil)
	want := []string{"FillPath evenOdd=false", "ClipPath evenOdd=false", "PopClip"}
	if d := cmp.Diff(want, rec.calls); d != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", d)
	}
}

func TestColors(t *testing.T) {
	resources := pdf.Dict{
		"ColorSpace": pdf.Dict{
			"CS1": pdf.Array{pdf.Name("Indexed"), pdf.Name("DeviceRGB"), pdf.Integer(3), pdf.String("")},
		},
	}
	content := "0.5 g 0 0 1 1 re f " +
		"0 0 0 1 k 0 0 1 1 re f " +
		"1 0 1 0 k 0 0 1 1 re f " +
		"/DeviceRGB cs 0 1 0 sc 0 0 1 1 re f " +
		"/CS1 cs 0 0 1 1 re f 3 sc 0 0 1 1 re f"
	rec := traceString(t, content, resources)

	want := []lineart.Color{
		{0.5, 0.5, 0.5},
		{0, 0, 0},
		{0, 1, 0},
		{0, 1, 0},
		{0, 0, 0},
		{1, 1, 1},
	}
	if d := cmp.Diff(want, rec.colors); d != "" {
		t.Errorf("colours mismatch (-want +got):\n%s", d)
	}
}

func testFont() pdf.Dict {
	return pdf.Dict{
		"Type":      pdf.Name("Font"),
		"Subtype":   pdf.Name("Type1"),
		"BaseFont":  pdf.Name("Helvetica"),
		"FirstChar": pdf.Integer(65),
		"Widths":    pdf.Array{pdf.Integer(600), pdf.Integer(700)},
	}
}

func TestText(t *testing.T) {
	resources := pdf.Dict{"Font": pdf.Dict{"F1": testFont()}}
	content := "BT /F1 10 Tf 1 0 0 1 100 200 Tm (AB) Tj ET"
	rec := traceString(t, content, resources)

	if d := cmp.Diff([]string{"FillText"}, rec.calls); d != "" {
		t.Fatalf("calls mismatch (-want +got):\n%s", d)
	}
	want := []lineart.TextSpan{{
		Font:  "Helvetica",
		Size:  10,
		Text:  "AB",
		Bound: geometry.Rect{X0: 100, Y0: 198, X1: 113, Y1: 208},
	}}
	if d := cmp.Diff(want, rec.texts[0].Spans, cmpopts.EquateApprox(0, 1e-9)); d != "" {
		t.Errorf("spans mismatch (-want +got):\n%s", d)
	}
}

func TestTextPositioning(t *testing.T) {
	resources := pdf.Dict{"Font": pdf.Dict{"F1": testFont()}}
	// the glyph without a width uses the fallback of half an em
	content := "BT /F1 10 Tf 14 TL 0 100 Td [(A) -400 (B)] TJ T* (C) Tj ET"
	rec := traceString(t, content, resources)

	if len(rec.texts) != 2 {
		t.Fatalf("got %d text events, want 2", len(rec.texts))
	}
	spans := rec.texts[0].Spans
	if len(spans) != 2 {
		t.Fatalf("got %d spans, want 2", len(spans))
	}
	if d := cmp.Diff(10.0, spans[1].Bound.X0, cmpopts.EquateApprox(0, 1e-9)); d != "" {
		t.Errorf("TJ adjustment mismatch (-want +got):\n%s", d)
	}
	c := rec.texts[1].Spans[0]
	wantC := geometry.Rect{X0: 0, Y0: 84, X1: 5, Y1: 94}
	if d := cmp.Diff(wantC, c.Bound, cmpopts.EquateApprox(0, 1e-9)); d != "" {
		t.Errorf("T* bound mismatch (-want +got):\n%s", d)
	}
}

func TestTextRenderModes(t *testing.T) {
	resources := pdf.Dict{"Font": pdf.Dict{"F1": testFont()}}
	cases := []struct {
		mode int
		want []string
	}{
		{0, []string{"FillText"}},
		{1, []string{"StrokeText"}},
		{2, []string{"FillText", "StrokeText"}},
		{3, []string{"IgnoreText"}},
		{4, []string{"FillText", "ClipText", "PopClip"}},
		{5, []string{"StrokeText", "ClipStrokeText", "PopClip"}},
		{7, []string{"ClipText", "PopClip"}},
	}
	for _, c := range cases {
		t.Run(fmt.Sprintf("Tr%d", c.mode), func(t *testing.T) {
			content := fmt.Sprintf("BT /F1 12 Tf %d Tr [(A) 100 (B)] TJ ET", c.mode)
			rec := traceString(t, content, resources)
			if d := cmp.Diff(c.want, rec.calls); d != "" {
				t.Errorf("calls mismatch (-want +got):\n%s", d)
			}
		})
	}
}

func TestTextClipScope(t *testing.T) {
	resources := pdf.Dict{"Font": pdf.Dict{"F1": testFont()}}
	content := "q BT /F1 12 Tf 7 Tr (A) Tj ET Q 0 0 1 1 re f"
	rec := traceString(t, content, resources)
	want := []string{"ClipText", "PopClip", "FillPath evenOdd=false"}
	if d := cmp.Diff(want, rec.calls); d != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", d)
	}
	if n := len(rec.texts[0].Spans); n != 1 {
		t.Errorf("clip has %d spans, want 1", n)
	}
}

// cmapStream wraps the given CMap sections into a CMap file.
func cmapStream(name string, cmapType int, body string) *pdf.Stream {
	content := "/CIDInit /ProcSet findresource begin\n" +
		"12 dict begin\n" +
		"begincmap\n" +
		"/CIDSystemInfo << /Registry (Adobe) /Ordering (Identity) /Supplement 0 >> def\n" +
		"/CMapName /" + name + " def\n" +
		fmt.Sprintf("/CMapType %d def\n", cmapType) +
		body +
		"endcmap\n" +
		"CMapName currentdict /CMap defineresource pop\n" +
		"end\n" +
		"end\n"
	return stream(pdf.Dict{}, content)
}

func TestToUnicode(t *testing.T) {
	tu := cmapStream("Test-UCS", 2,
		"1 begincodespacerange\n<00> <FF>\nendcodespacerange\n"+
			"1 beginbfchar\n<41> <03B1>\nendbfchar\n"+
			"1 beginbfrange\n<42> <43> <0061>\nendbfrange\n")
	font := testFont()
	font["ToUnicode"] = tu
	resources := pdf.Dict{"Font": pdf.Dict{"F1": font}}
	rec := traceString(t, "BT /F1 12 Tf (ABCD) Tj ET", resources)

	if got := rec.texts[0].Spans[0].Text; got != "αabD" {
		t.Errorf("text = %q, want %q", got, "αabD")
	}
}

func TestCompositeFont(t *testing.T) {
	font := pdf.Dict{
		"Subtype":  pdf.Name("Type0"),
		"BaseFont": pdf.Name("Test-Identity-H"),
		"Encoding": pdf.Name("Identity-H"),
		"DescendantFonts": pdf.Array{pdf.Dict{
			"DW": pdf.Integer(1000),
			"W": pdf.Array{
				pdf.Integer(1), pdf.Array{pdf.Integer(500), pdf.Integer(250)},
				pdf.Integer(10), pdf.Integer(20), pdf.Integer(100),
			},
		}},
	}
	resources := pdf.Dict{"Font": pdf.Dict{"F1": font}}
	// codes 1, 2, 15 and 30
	rec := traceString(t, "BT /F1 10 Tf <00010002000F001E> Tj ET", resources)

	bound := rec.texts[0].Spans[0].Bound
	want := 5 + 2.5 + 1 + 10.0
	if d := cmp.Diff(want, bound.X1, cmpopts.EquateApprox(0, 1e-9)); d != "" {
		t.Errorf("advance mismatch (-want +got):\n%s", d)
	}
}

// TestCompositeFontCodeSpace checks that a composite font with a one-byte
// code space splits strings into single bytes, and that widths are looked
// up by CID rather than by character code.
func TestCompositeFontCodeSpace(t *testing.T) {
	enc := cmapStream("Test-OneByte", 1,
		"1 begincodespacerange\n<00> <FF>\nendcodespacerange\n"+
			"1 begincidrange\n<00> <FF> 100\nendcidrange\n")
	tu := cmapStream("Test-OneByte-UCS", 2,
		"1 begincodespacerange\n<00> <FF>\nendcodespacerange\n"+
			"2 beginbfchar\n<41> <03B1>\n<42> <03B2>\nendbfchar\n")
	font := pdf.Dict{
		"Subtype":   pdf.Name("Type0"),
		"BaseFont":  pdf.Name("Test-OneByte"),
		"Encoding":  enc,
		"ToUnicode": tu,
		"DescendantFonts": pdf.Array{pdf.Dict{
			"DW": pdf.Integer(1000),
			"W": pdf.Array{
				pdf.Integer(165), pdf.Array{pdf.Integer(500), pdf.Integer(250)},
			},
		}},
	}
	resources := pdf.Dict{"Font": pdf.Dict{"F1": font}}
	rec := traceString(t, "BT /F1 10 Tf (ABC) Tj ET", resources)

	span := rec.texts[0].Spans[0]
	if span.Text != "αβC" {
		t.Errorf("text = %q, want %q", span.Text, "αβC")
	}
	want := 5 + 2.5 + 10.0
	if d := cmp.Diff(want, span.Bound.X1, cmpopts.EquateApprox(0, 1e-9)); d != "" {
		t.Errorf("advance mismatch (-want +got):\n%s", d)
	}
}

func TestLayers(t *testing.T) {
	resources := pdf.Dict{
		"Properties": pdf.Dict{
			"oc1": pdf.Dict{"Type": pdf.Name("OCG"), "Name": pdf.String("Layer 1")},
			"oc2": pdf.Dict{
				"Type": pdf.Name("OCMD"),
				"OCGs": pdf.Array{pdf.Dict{"Type": pdf.Name("OCG"), "Name": pdf.String("\xfe\xff\x00L\x00\xe4")}},
			},
		},
	}
	content := "/OC /oc1 BDC /P BMC /OC /oc2 BDC 0 0 1 1 re f EMC EMC EMC /OC /oc1 BDC"
	rec := traceString(t, content, resources)

	want := []string{
		"BeginLayer Layer 1",
		"BeginLayer Lä",
		"FillPath evenOdd=false",
		"EndLayer",
		"BeginLayer Layer 1",
		"EndLayer",
		"BeginLayer Layer 1",
		"EndLayer",
	}
	if d := cmp.Diff(want, rec.calls); d != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", d)
	}
}

func TestDecodeTextString(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"caf\xe9", "café"},
		{"\xfe\xff\x00A\x00B", "AB"},
		{"\xef\xbb\xbfüber", "über"},
		{"a\x84b", "a\u2014b"},
		{"\x93x", "ﬁx"},
	}
	for _, c := range cases {
		if got := decodeTextString(pdf.String(c.in)); got != c.want {
			t.Errorf("decodeTextString(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestImages(t *testing.T) {
	resources := pdf.Dict{
		"XObject": pdf.Dict{
			"Im1": stream(pdf.Dict{
				"Subtype": pdf.Name("Image"),
				"Width":   pdf.Integer(8),
				"Height":  pdf.Integer(4),
			}, ""),
			"Im2": stream(pdf.Dict{
				"Subtype":   pdf.Name("Image"),
				"Width":     pdf.Integer(2),
				"Height":    pdf.Integer(2),
				"ImageMask": pdf.Boolean(true),
			}, ""),
		},
	}
	content := "q 100 0 0 50 10 20 cm /Im1 Do Q /Im2 Do " +
		"BI /W 3 /H 5 /IM true /BPC 1 ID \x00\x07 EI 0 0 1 1 re f"
	rec := traceString(t, content, resources)

	wantCalls := []string{"FillImage", "FillImageMask", "FillImageMask", "FillPath evenOdd=false"}
	if d := cmp.Diff(wantCalls, rec.calls); d != "" {
		t.Fatalf("calls mismatch (-want +got):\n%s", d)
	}
	wantImages := []*lineart.Image{
		{Name: "Im1", Width: 8, Height: 4},
		{Name: "Im2", Width: 2, Height: 2, IsMask: true},
		{Name: "inline", Width: 3, Height: 5, IsMask: true},
	}
	if d := cmp.Diff(wantImages, rec.images); d != "" {
		t.Errorf("images mismatch (-want +got):\n%s", d)
	}
	if d := cmp.Diff(geometry.Matrix{A: 100, D: 50, E: 10, F: 20}, rec.ctms[0]); d != "" {
		t.Errorf("image ctm mismatch (-want +got):\n%s", d)
	}
}

func TestInlineImageWithoutEnd(t *testing.T) {
	logBuf := &bytes.Buffer{}
	rec := &recorder{}
	in := New(nil, rec, &Options{Logger: slog.New(slog.NewTextHandler(logBuf, nil))})
	content := "BI /W 1 /H 1 /BPC 8 /CS /G ID ab 0 0 1 1 re f"
	err := in.TraceContent(context.Background(), strings.NewReader(content), pdf.Dict{}, geometry.Identity)
	if err != nil {
		t.Fatal(err)
	}

	if d := cmp.Diff([]string{"FillImage"}, rec.calls); d != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", d)
	}
	if !strings.Contains(logBuf.String(), "inside inline image data") {
		t.Errorf("missing warning, log is %q", logBuf.String())
	}
}

func TestShading(t *testing.T) {
	resources := pdf.Dict{
		"Shading": pdf.Dict{
			"Sh1": pdf.Dict{"ShadingType": pdf.Integer(2), "BBox": pdf.Array{
				pdf.Integer(0), pdf.Integer(0), pdf.Integer(10), pdf.Integer(20),
			}},
			"Sh2": pdf.Dict{"ShadingType": pdf.Integer(3)},
		},
	}
	rec := traceString(t, "/Sh1 sh /Sh2 sh /missing sh", resources)

	want := []*lineart.Shade{
		{Name: "Sh1", Type: 2, Bound: geometry.Rect{X1: 10, Y1: 20}},
		{Name: "Sh2", Type: 3, Bound: geometry.Infinite},
	}
	if d := cmp.Diff(want, rec.shades); d != "" {
		t.Errorf("shades mismatch (-want +got):\n%s", d)
	}
}

func TestForm(t *testing.T) {
	form := stream(pdf.Dict{
		"Subtype": pdf.Name("Form"),
		"BBox":    pdf.Array{pdf.Integer(0), pdf.Integer(0), pdf.Integer(10), pdf.Integer(10)},
		"Matrix":  pdf.Array{pdf.Integer(2), pdf.Integer(0), pdf.Integer(0), pdf.Integer(2), pdf.Integer(5), pdf.Integer(5)},
		"Group":   pdf.Dict{"S": pdf.Name("Transparency"), "I": pdf.Boolean(true)},
		"OC":      pdf.Dict{"Type": pdf.Name("OCG"), "Name": pdf.String("Form Layer")},
	}, "q 0 0 1 1 re W n 0 0 1 1 re f")
	resources := pdf.Dict{"XObject": pdf.Dict{"Fm1": form}}
	rec := traceString(t, "/Fm1 Do 0 0 1 1 re f", resources)

	want := []string{
		"BeginLayer Form Layer",
		"BeginGroup isolated=true",
		"ClipPath evenOdd=false",
		"ClipPath evenOdd=false",
		"FillPath evenOdd=false",
		"PopClip",
		"PopClip",
		"EndGroup",
		"EndLayer",
		"FillPath evenOdd=false",
	}
	if d := cmp.Diff(want, rec.calls); d != "" {
		t.Fatalf("calls mismatch (-want +got):\n%s", d)
	}
	formCTM := geometry.Matrix{A: 2, D: 2, E: 5, F: 5}
	if d := cmp.Diff(formCTM, rec.ctms[2]); d != "" {
		t.Errorf("form ctm mismatch (-want +got):\n%s", d)
	}
	if d := cmp.Diff(geometry.Identity, rec.ctms[len(rec.ctms)-1]); d != "" {
		t.Errorf("ctm after form mismatch (-want +got):\n%s", d)
	}
	if d := cmp.Diff([]geometry.Rect{{X0: 5, Y0: 5, X1: 25, Y1: 25}}, rec.groups); d != "" {
		t.Errorf("group bbox mismatch (-want +got):\n%s", d)
	}
}

func TestFormDepth(t *testing.T) {
	inner := stream(pdf.Dict{"Subtype": pdf.Name("Form")}, "0 0 1 1 re f")
	outer := stream(pdf.Dict{
		"Subtype":   pdf.Name("Form"),
		"Resources": pdf.Dict{"XObject": pdf.Dict{"Inner": inner}},
	}, "/Inner Do 0 0 2 2 re f")
	resources := pdf.Dict{"XObject": pdf.Dict{"Outer": outer}}

	rec := &recorder{}
	in := New(nil, rec, &Options{Logger: quietLogger, MaxFormDepth: 1})
	err := in.TraceContent(context.Background(), strings.NewReader("/Outer Do"), resources, geometry.Identity)
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff([]string{"FillPath evenOdd=false"}, rec.calls); d != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", d)
	}
}

func TestTracePage(t *testing.T) {
	page := pdf.Dict{
		"MediaBox": pdf.Array{pdf.Integer(0), pdf.Integer(0), pdf.Integer(200), pdf.Integer(100)},
		"Contents": pdf.Array{
			stream(pdf.Dict{}, "0 0 m"),
			stream(pdf.Dict{}, "10 10 l S"),
		},
	}
	dev := lineart.New(&lineart.Options{Logger: quietLogger})
	in := New(nil, dev, &Options{Logger: quietLogger})
	if err := in.TracePage(context.Background(), page); err != nil {
		t.Fatal(err)
	}

	recs := dev.Records()
	if len(recs) != 1 || recs[0].Kind != lineart.KindStroke {
		t.Fatalf("got %d records, want one stroke", len(recs))
	}
	want := geometry.Rect{X0: 0, Y0: 90, X1: 10, Y1: 100}
	if d := cmp.Diff(want, recs[0].Rect); d != "" {
		t.Errorf("rect mismatch (-want +got):\n%s", d)
	}
}

func TestTracePageMalformed(t *testing.T) {
	page := pdf.Dict{"Contents": pdf.Integer(7)}
	in := New(nil, &recorder{}, &Options{Logger: quietLogger})
	err := in.TracePage(context.Background(), page)
	var malformed *pdf.MalformedFileError
	if !errors.As(err, &malformed) {
		t.Errorf("got error %v, want MalformedFileError", err)
	}
}

func TestPageGeometry(t *testing.T) {
	box := pdf.Array{pdf.Integer(0), pdf.Integer(0), pdf.Integer(200), pdf.Integer(100)}
	cases := []struct {
		rotate     int
		bounds     geometry.Rect
		origin     geometry.Point
		lowerRight geometry.Point // image of (200, 0)
	}{
		{0, geometry.Rect{X1: 200, Y1: 100}, geometry.Point{X: 0, Y: 100}, geometry.Point{X: 200, Y: 100}},
		{90, geometry.Rect{X1: 100, Y1: 200}, geometry.Point{X: 0, Y: 0}, geometry.Point{X: 0, Y: 200}},
		{180, geometry.Rect{X1: 200, Y1: 100}, geometry.Point{X: 200, Y: 0}, geometry.Point{X: 0, Y: 0}},
		{270, geometry.Rect{X1: 100, Y1: 200}, geometry.Point{X: 100, Y: 200}, geometry.Point{X: 100, Y: 0}},
		{-90, geometry.Rect{X1: 100, Y1: 200}, geometry.Point{X: 100, Y: 200}, geometry.Point{X: 100, Y: 0}},
	}
	for _, c := range cases {
		t.Run(fmt.Sprint(c.rotate), func(t *testing.T) {
			page := pdf.Dict{"MediaBox": box, "Rotate": pdf.Integer(c.rotate)}
			ctm, bounds := PageGeometry(nil, page)
			if d := cmp.Diff(c.bounds, bounds); d != "" {
				t.Errorf("bounds mismatch (-want +got):\n%s", d)
			}
			if d := cmp.Diff(c.origin, geometry.Point{}.Transform(ctm)); d != "" {
				t.Errorf("origin mismatch (-want +got):\n%s", d)
			}
			if d := cmp.Diff(c.lowerRight, geometry.Point{X: 200}.Transform(ctm)); d != "" {
				t.Errorf("corner mismatch (-want +got):\n%s", d)
			}
		})
	}
}

func TestPageGeometryDefault(t *testing.T) {
	_, bounds := PageGeometry(nil, pdf.Dict{})
	if d := cmp.Diff(geometry.Rect{X1: 612, Y1: 792}, bounds); d != "" {
		t.Errorf("bounds mismatch (-want +got):\n%s", d)
	}
}

func TestCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	in := New(nil, &recorder{}, &Options{Logger: quietLogger})
	err := in.TraceContent(ctx, strings.NewReader("0 0 1 1 re f"), nil, geometry.Identity)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("got error %v, want context.Canceled", err)
	}
}
