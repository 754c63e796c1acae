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
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"sync"

	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/pagetree"

	"seehuhn.de/go/lineart"
	"seehuhn.de/go/lineart/pdftrace"
	"seehuhn.de/go/lineart/preview"
)

// options controls how a file is traced.
type options struct {
	Mode   lineart.Mode
	Clips  bool
	Layers bool
	Strict bool
	Stream bool

	Page    int // 1-based, 0 for all pages
	Workers int
	PNG     string

	Password     string
	ReadPassword func() (string, error)
	MaxFormDepth int

	Logger *slog.Logger
	Indent bool
}

// pageResult is the JSON output for one page.
type pageResult struct {
	Page    int                    `json:"page"`
	Width   float64                `json:"width"`
	Height  float64                `json:"height"`
	Records []*lineart.ShapeRecord `json:"records,omitempty"`
	BBoxes  []lineart.BBoxRecord   `json:"bboxes,omitempty"`
	Text    []lineart.TextEvent    `json:"text,omitempty"`
	Seqno   uint64                 `json:"seqno"`
}

// streamRecord is one line of output in streaming mode.
type streamRecord struct {
	Page   int                  `json:"page"`
	Record *lineart.ShapeRecord `json:"record"`
}

// traceFile traces the selected pages of a PDF file and writes the results
// to w, in page order.
func traceFile(ctx context.Context, fname string, opt *options, w io.Writer) error {
	pw := &passwords{opt: opt}
	r, err := pw.open(fname)
	if err != nil {
		return err
	}
	defer r.Close()

	numPages, err := pagetree.NumPages(r)
	if err != nil {
		return fmt.Errorf("%s: %w", fname, err)
	}
	var pages []int
	if opt.Page > 0 {
		if opt.Page > numPages {
			return fmt.Errorf("%s: page %d requested, file has %d pages", fname, opt.Page, numPages)
		}
		pages = []int{opt.Page - 1}
	} else {
		for i := range numPages {
			pages = append(pages, i)
		}
	}

	enc := json.NewEncoder(w)
	if opt.Indent && !opt.Stream {
		enc.SetIndent("", "  ")
	}

	if opt.Stream {
		// Line art records are written by the sink, so pages are traced
		// in order.  The other modes have no records and write one line
		// per page instead.
		for _, pageNo := range pages {
			sink := func(rec *lineart.ShapeRecord) error {
				return enc.Encode(&streamRecord{Page: pageNo + 1, Record: rec})
			}
			res, err := tracePage(ctx, r, pageNo, opt, sink)
			if err != nil {
				return err
			}
			if opt.Mode != lineart.ModeLineArt {
				if err := enc.Encode(res); err != nil {
					return err
				}
			}
		}
		return nil
	}

	workers := min(opt.Workers, len(pages))
	if workers <= 1 {
		for _, pageNo := range pages {
			res, err := tracePage(ctx, r, pageNo, opt, nil)
			if err != nil {
				return err
			}
			if err := enc.Encode(res); err != nil {
				return err
			}
		}
		return nil
	}
	return traceParallel(ctx, fname, pw, r, pages, workers, opt, enc)
}

type job struct {
	idx    int
	pageNo int
}

type result struct {
	idx int
	res *pageResult
	err error
}

// traceParallel traces pages using several workers.  Each worker uses its
// own reader, since a pdf.Reader must not be used concurrently.  Results are
// written in page order.
func traceParallel(ctx context.Context, fname string, pw *passwords, r *pdf.Reader,
	pages []int, workers int, opt *options, enc *json.Encoder) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan job)
	results := make(chan result)

	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rw := r
			if i > 0 {
				var err error
				rw, err = pw.open(fname)
				if err != nil {
					results <- result{idx: -1, err: err}
					return
				}
				defer rw.Close()
			}
			for j := range jobs {
				res, err := tracePage(ctx, rw, j.pageNo, opt, nil)
				select {
				case results <- result{idx: j.idx, res: res, err: err}:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for idx, pageNo := range pages {
			select {
			case jobs <- job{idx: idx, pageNo: pageNo}:
			case <-ctx.Done():
				return
			}
		}
	}()
	go func() {
		wg.Wait()
		close(results)
	}()

	pending := make(map[int]*pageResult)
	next := 0
	var firstErr error
	for res := range results {
		if firstErr != nil {
			continue
		}
		if res.err != nil {
			firstErr = res.err
			cancel()
			continue
		}
		pending[res.idx] = res.res
		for pending[next] != nil {
			if err := enc.Encode(pending[next]); err != nil {
				firstErr = err
				cancel()
				break
			}
			delete(pending, next)
			next++
		}
	}
	if firstErr == nil && next < len(pages) {
		firstErr = ctx.Err()
	}
	return firstErr
}

// tracePage traces a single page.  pageNo is 0-based.
func tracePage(ctx context.Context, r pdf.Getter, pageNo int, opt *options, sink func(*lineart.ShapeRecord) error) (*pageResult, error) {
	_, pageDict, err := pagetree.GetPage(r, pageNo)
	if err != nil {
		return nil, fmt.Errorf("page %d: %w", pageNo+1, err)
	}
	ctm, bounds := pdftrace.PageGeometry(r, pageDict)

	var textLog *lineart.TextLog
	devOpt := &lineart.Options{
		Mode:     opt.Mode,
		Clips:    opt.Clips,
		Layers:   opt.Layers,
		Strict:   opt.Strict,
		Sink:     sink,
		PageRect: bounds,
		Logger:   opt.Logger.With("page", pageNo+1),
	}
	if opt.Mode == lineart.ModeTextTrace {
		textLog = &lineart.TextLog{}
		devOpt.TextTracer = textLog
	}
	dev := lineart.New(devOpt)

	in := pdftrace.New(r, dev, &pdftrace.Options{
		Logger:       devOpt.Logger,
		MaxFormDepth: opt.MaxFormDepth,
	})
	if err := in.TracePage(ctx, pageDict); err != nil {
		return nil, fmt.Errorf("page %d: %w", pageNo+1, err)
	}
	if err := dev.Close(); err != nil {
		return nil, fmt.Errorf("page %d: %w", pageNo+1, err)
	}

	res := &pageResult{
		Page:    pageNo + 1,
		Width:   bounds.Width(),
		Height:  bounds.Height(),
		Records: dev.Records(),
		BBoxes:  dev.BBoxes(),
		Seqno:   dev.Seqno(),
	}
	if textLog != nil {
		res.Text = textLog.Events
	}

	if opt.PNG != "" {
		if err := writePreview(opt.PNG, res); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func writePreview(prefix string, res *pageResult) error {
	w := int(math.Ceil(res.Width))
	h := int(math.Ceil(res.Height))
	img := preview.Render(res.Records, res.BBoxes, w, h)

	fname := fmt.Sprintf("%s-%03d.png", prefix, res.Page)
	fd, err := os.Create(fname)
	if err != nil {
		return err
	}
	err = preview.WritePNG(fd, img)
	if err2 := fd.Close(); err == nil {
		err = err2
	}
	if err != nil {
		return fmt.Errorf("preview for page %d: %w", res.Page, err)
	}
	return nil
}

// passwords opens files, asking for a password at most once.
type passwords struct {
	opt *options

	mu    sync.Mutex
	known string
}

func (p *passwords) open(fname string) (*pdf.Reader, error) {
	ropt := &pdf.ReaderOptions{
		ReadPassword: p.readPassword,
	}
	r, err := pdf.Open(fname, ropt)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (p *passwords) readPassword(_ []byte, try int) string {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch {
	case try == 0 && p.known != "":
		return p.known
	case try == 0 && p.opt.Password != "":
		p.known = p.opt.Password
		return p.known
	case p.opt.Password != "" || p.opt.ReadPassword == nil || try > 3:
		return ""
	}
	passwd, err := p.opt.ReadPassword()
	if err != nil {
		p.opt.Logger.Error("cannot read password", "err", err)
		return ""
	}
	p.known = passwd
	return passwd
}
