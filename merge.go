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
	"errors"
	"fmt"
	"slices"
)

var errAlreadyStroked = errors.New("previous record already has stroke information")

// emit delivers a finished record.  In streaming mode the record goes
// straight to the sink.  Otherwise a stroke which repeats the path of the
// immediately preceding fill is merged into that fill.
func (d *Device) emit(rec *ShapeRecord) error {
	if d.sink != nil {
		if err := d.sink(rec); err != nil {
			return fmt.Errorf("lineart: sink failed on record %d: %w", rec.Seqno, err)
		}
		return nil
	}

	if n := len(d.records); n > 0 && rec.Kind == KindStroke {
		prev := d.records[n-1]
		if prev.Kind == KindFill && slices.Equal(prev.Items, rec.Items) {
			err := mergeStroke(prev, rec)
			if err == nil {
				return nil
			}
			d.log.Warn("cannot merge fill and stroke",
				"fill", prev.Seqno, "stroke", rec.Seqno, "err", err)
		}
	}
	d.records = append(d.records, rec)
	return nil
}

// mergeStroke adds the stroke information of rec to prev.  Fields which
// prev already has are left alone.
func mergeStroke(prev, rec *ShapeRecord) error {
	if prev.Stroke != nil {
		return errAlreadyStroked
	}
	prev.Stroke = rec.Stroke
	prev.Kind = KindFillStroke
	return nil
}
