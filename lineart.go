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

// Package lineart implements a tracing device for vector graphics.
//
// A [Device] receives the ordered drawing callbacks of a rendering pipeline
// (fill, stroke and clip paths, text, images, transparency groups and
// optional content layers) and turns them into a list of [ShapeRecord]
// values.  Axis-aligned rectangles and closed quadrilaterals are recognised
// from runs of lines, a fill which is immediately followed by a stroke of
// the same path is merged into one record, and the nesting of clip paths
// is tracked as a stack of scissor rectangles.  Every record carries a
// sequence number which gives the painting order.
//
// The package seehuhn.de/go/lineart/pdftrace generates the callbacks from
// the content streams of PDF pages.
package lineart

import "errors"

// ErrUnbalanced is returned in strict mode when clip or group scopes are
// closed which were never opened, or are left open at the end of a trace.
var ErrUnbalanced = errors.New("lineart: unbalanced clip or group stack")
