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
	"seehuhn.de/go/pdf"

	"seehuhn.de/go/lineart"
)

type colorFamily int

const (
	familyGray colorFamily = iota
	familyRGB
	familyCMYK
	familyIndexed
	familyTint // Separation and DeviceN
	familyPattern
)

// colorSpace describes how colour operands are converted to RGB.
type colorSpace struct {
	family colorFamily
	n      int // number of operands
	hival  float64
}

var (
	deviceGray = colorSpace{family: familyGray, n: 1}
	deviceRGB  = colorSpace{family: familyRGB, n: 3}
	deviceCMYK = colorSpace{family: familyCMYK, n: 4}
)

// initial returns the initial colour of the colour space.
func (cs colorSpace) initial() lineart.Color {
	switch cs.family {
	case familyCMYK:
		return cs.rgb([]float64{0, 0, 0, 1})
	case familyTint:
		ones := make([]float64, cs.n)
		for i := range ones {
			ones[i] = 1
		}
		return cs.rgb(ones)
	}
	return lineart.Color{0, 0, 0}
}

// rgb converts colour operands to RGB.  The conversion ignores colour
// management.
func (cs colorSpace) rgb(c []float64) lineart.Color {
	switch {
	case cs.family == familyIndexed && len(c) == 1:
		g := 0.0
		if cs.hival > 0 {
			g = clamp01(c[0] / cs.hival)
		}
		return lineart.Color{g, g, g}
	case cs.family == familyTint && len(c) > 0:
		g := 1 - clamp01(c[0])
		return lineart.Color{g, g, g}
	}
	return rgbFromComponents(c)
}

// rgbFromComponents interprets 1, 3 or 4 operands as gray, RGB or CMYK.
func rgbFromComponents(c []float64) lineart.Color {
	switch len(c) {
	case 1:
		g := clamp01(c[0])
		return lineart.Color{g, g, g}
	case 3:
		return lineart.Color{clamp01(c[0]), clamp01(c[1]), clamp01(c[2])}
	case 4:
		k := c[3]
		return lineart.Color{
			1 - clamp01(c[0]+k),
			1 - clamp01(c[1]+k),
			1 - clamp01(c[2]+k),
		}
	}
	return lineart.Color{0, 0, 0}
}

func clamp01(x float64) float64 {
	return min(max(x, 0), 1)
}

// doColor handles the colour operators.
func (t *Interpreter) doColor(op string, args []pdf.Object) {
	s := &t.state

	operands := func() ([]float64, bool) {
		res := make([]float64, 0, len(args))
		for _, obj := range args {
			if x, ok := getNumber(obj); ok {
				res = append(res, x)
			} else if _, isName := obj.(pdf.Name); !isName {
				return nil, false
			}
		}
		return res, true
	}

	switch op {
	case "G", "g", "RG", "rg", "K", "k":
		c, ok := operands()
		want := map[string]colorSpace{
			"G": deviceGray, "g": deviceGray,
			"RG": deviceRGB, "rg": deviceRGB,
			"K": deviceCMYK, "k": deviceCMYK,
		}[op]
		if !ok || len(c) != want.n {
			t.log.Debug("invalid colour operands", "op", op)
			return
		}
		if op == "G" || op == "RG" || op == "K" {
			s.strokeSpace, s.strokeColor = want, want.rgb(c)
		} else {
			s.fillSpace, s.fillColor = want, want.rgb(c)
		}

	case "CS", "cs":
		if len(args) != 1 {
			return
		}
		cs := t.parseColorSpace(args[0])
		if op == "CS" {
			s.strokeSpace, s.strokeColor = cs, cs.initial()
		} else {
			s.fillSpace, s.fillColor = cs, cs.initial()
		}

	case "SC", "SCN", "sc", "scn":
		c, ok := operands()
		if !ok {
			return
		}
		cs := &s.fillSpace
		col := &s.fillColor
		if op == "SC" || op == "SCN" {
			cs, col = &s.strokeSpace, &s.strokeColor
		}
		if cs.family == familyPattern {
			// patterns are reported with the underlying colour, if any
			if len(c) > 0 {
				*col = rgbFromComponents(c)
			}
			return
		}
		if len(c) == 0 {
			return
		}
		*col = cs.rgb(c)
	}
}

// parseColorSpace interprets a colour space operand.
func (t *Interpreter) parseColorSpace(obj pdf.Object) colorSpace {
	if name, ok := obj.(pdf.Name); ok {
		if cs, ok := deviceColorSpace(name); ok {
			return cs
		}
		obj = t.lookup("ColorSpace", name)
		if obj == nil {
			t.log.Debug("unknown colour space", "name", name)
			return deviceGray
		}
	}

	switch x := t.resolve(obj).(type) {
	case pdf.Name:
		if cs, ok := deviceColorSpace(x); ok {
			return cs
		}
	case pdf.Array:
		if len(x) == 0 {
			return deviceGray
		}
		family, _ := t.resolve(x[0]).(pdf.Name)
		switch family {
		case "CalGray":
			return deviceGray
		case "CalRGB", "Lab":
			return deviceRGB
		case "ICCBased":
			if len(x) > 1 {
				if n, ok := getNumber(t.resolve(t.getDict(x[1])["N"])); ok {
					switch int(n) {
					case 1:
						return deviceGray
					case 4:
						return deviceCMYK
					}
				}
			}
			return deviceRGB
		case "Indexed", "I":
			cs := colorSpace{family: familyIndexed, n: 1}
			if len(x) > 2 {
				cs.hival, _ = getNumber(t.resolve(x[2]))
			}
			return cs
		case "Separation":
			return colorSpace{family: familyTint, n: 1}
		case "DeviceN":
			n := 1
			if len(x) > 1 {
				if names, ok := t.resolve(x[1]).(pdf.Array); ok && len(names) > 0 {
					n = len(names)
				}
			}
			return colorSpace{family: familyTint, n: n}
		case "Pattern":
			return colorSpace{family: familyPattern}
		}
	}
	return deviceGray
}

func deviceColorSpace(name pdf.Name) (colorSpace, bool) {
	switch name {
	case "DeviceGray", "CalGray", "G":
		return deviceGray, true
	case "DeviceRGB", "CalRGB", "RGB":
		return deviceRGB, true
	case "DeviceCMYK", "CMYK":
		return deviceCMYK, true
	case "Pattern":
		return colorSpace{family: familyPattern}, true
	}
	return colorSpace{}, false
}
