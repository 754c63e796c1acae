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

package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/document"
	"seehuhn.de/go/pdf/graphics/color"

	"seehuhn.de/go/lineart"
)

// writeTestFile writes a 100x100 page with a gray rectangle.
func writeTestFile(t *testing.T) string {
	t.Helper()
	fname := filepath.Join(t.TempDir(), "test.pdf")
	paper := &pdf.Rectangle{URx: 100, URy: 100}
	page, err := document.CreateSinglePage(fname, paper, pdf.V1_7, nil)
	if err != nil {
		t.Fatal(err)
	}
	page.SetFillColor(color.DeviceGray(0.5))
	page.Rectangle(10, 10, 50, 30)
	page.Fill()
	if err := page.Close(); err != nil {
		t.Fatal(err)
	}
	return fname
}

func testOptions() *options {
	return &options{
		Mode:    lineart.ModeLineArt,
		Workers: 1,
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

type testRecord struct {
	Type string     `json:"type"`
	Rect [4]float64 `json:"rect"`
	Fill []float64  `json:"fill"`
}

func TestTraceFile(t *testing.T) {
	fname := writeTestFile(t)

	buf := &bytes.Buffer{}
	err := traceFile(context.Background(), fname, testOptions(), buf)
	if err != nil {
		t.Fatal(err)
	}

	var res struct {
		Page    int          `json:"page"`
		Width   float64      `json:"width"`
		Height  float64      `json:"height"`
		Records []testRecord `json:"records"`
	}
	if err := json.Unmarshal(buf.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if res.Page != 1 || res.Width != 100 || res.Height != 100 {
		t.Errorf("page %d of size %gx%g, want page 1 of size 100x100", res.Page, res.Width, res.Height)
	}
	want := []testRecord{{Type: "f", Rect: [4]float64{10, 60, 60, 90}, Fill: []float64{0.5, 0.5, 0.5}}}
	if d := cmp.Diff(want, res.Records); d != "" {
		t.Errorf("records mismatch (-want +got):\n%s", d)
	}
}

func TestTraceFileStream(t *testing.T) {
	fname := writeTestFile(t)
	opt := testOptions()
	opt.Stream = true

	buf := &bytes.Buffer{}
	if err := traceFile(context.Background(), fname, opt, buf); err != nil {
		t.Fatal(err)
	}

	var lines []string
	s := bufio.NewScanner(buf)
	for s.Scan() {
		lines = append(lines, s.Text())
	}
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1", len(lines))
	}
	var rec struct {
		Page   int        `json:"page"`
		Record testRecord `json:"record"`
	}
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatal(err)
	}
	if rec.Page != 1 || rec.Record.Type != "f" {
		t.Errorf("got page %d record %q, want page 1 record \"f\"", rec.Page, rec.Record.Type)
	}
}

func TestTraceFileStreamBBox(t *testing.T) {
	fname := writeTestFile(t)
	opt := testOptions()
	opt.Mode = lineart.ModeBBox
	opt.Stream = true

	buf := &bytes.Buffer{}
	if err := traceFile(context.Background(), fname, opt, buf); err != nil {
		t.Fatal(err)
	}

	var lines []string
	s := bufio.NewScanner(buf)
	for s.Scan() {
		lines = append(lines, s.Text())
	}
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1", len(lines))
	}
	var res struct {
		Page   int     `json:"page"`
		BBoxes [][]any `json:"bboxes"`
	}
	if err := json.Unmarshal([]byte(lines[0]), &res); err != nil {
		t.Fatal(err)
	}
	if res.Page != 1 || len(res.BBoxes) != 1 || res.BBoxes[0][0] != "fill-path" {
		t.Errorf("unexpected output %s", lines[0])
	}
}

func TestTraceFileBBox(t *testing.T) {
	fname := writeTestFile(t)
	opt := testOptions()
	opt.Mode = lineart.ModeBBox
	opt.Page = 1
	opt.PNG = filepath.Join(t.TempDir(), "preview")

	buf := &bytes.Buffer{}
	if err := traceFile(context.Background(), fname, opt, buf); err != nil {
		t.Fatal(err)
	}

	var res struct {
		BBoxes [][]any `json:"bboxes"`
	}
	if err := json.Unmarshal(buf.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if len(res.BBoxes) != 1 || res.BBoxes[0][0] != "fill-path" {
		t.Errorf("unexpected bboxes %v", res.BBoxes)
	}
	if _, err := os.Stat(opt.PNG + "-001.png"); err != nil {
		t.Error(err)
	}
}

func TestTraceFileBadPage(t *testing.T) {
	fname := writeTestFile(t)
	opt := testOptions()
	opt.Page = 2
	if err := traceFile(context.Background(), fname, opt, io.Discard); err == nil {
		t.Error("expected an error for a missing page")
	}
}

func TestTraceParallel(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "multi.pdf")
	doc, err := document.CreateMultiPage(fname, 100, 100)
	if err != nil {
		t.Fatal(err)
	}
	const numPages = 7
	for i := range numPages {
		page := doc.AddPage()
		page.Rectangle(float64(i), 0, 10, 10)
		page.Fill()
		if err := page.Close(); err != nil {
			t.Fatal(err)
		}
	}
	if err := doc.Close(); err != nil {
		t.Fatal(err)
	}

	opt := testOptions()
	opt.Workers = 3
	buf := &bytes.Buffer{}
	if err := traceFile(context.Background(), fname, opt, buf); err != nil {
		t.Fatal(err)
	}

	dec := json.NewDecoder(buf)
	for i := range numPages {
		var res struct {
			Page    int          `json:"page"`
			Records []testRecord `json:"records"`
		}
		if err := dec.Decode(&res); err != nil {
			t.Fatal(err)
		}
		if res.Page != i+1 {
			t.Errorf("result %d is for page %d", i, res.Page)
		}
		if len(res.Records) != 1 || res.Records[0].Rect[0] != float64(i) {
			t.Errorf("page %d: unexpected records %v", i+1, res.Records)
		}
	}
}
