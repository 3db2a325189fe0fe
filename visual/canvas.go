//----------------------------------------------------------------------
// This file is part of swarmsim.
// Copyright (C) 2026 the swarmsim authors
//
// swarmsim is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License,
// or (at your option) any later version.
//
// swarmsim is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.
//
// SPDX-License-Identifier: AGPL3.0-or-later
//----------------------------------------------------------------------

// Package visual renders a static snapshot of a finished simulation
// run. It is a read-only observer: nothing here feeds back into the
// swarm package's behavioral core.
package visual

import (
	"bytes"
	"fmt"
	"image/color"
	"os"

	svg "github.com/ajstarks/svgo"
)

// Color definitions for drawing.
var (
	ClrWhite = &color.RGBA{R: 255, G: 255, B: 255}
	ClrBlack = &color.RGBA{}
	ClrBlue  = &color.RGBA{B: 255}
	ClrGray  = &color.RGBA{R: 160, G: 160, B: 160}
	ClrGreen = &color.RGBA{G: 160}
	ClrTrace = &color.RGBA{R: 255, G: 140, A: 180}
)

// Canvas is the drawing surface for the network diagram.
type Canvas interface {
	Open()
	Start(w, h float64)
	Circle(x, y, r, strokeW float64, border, fill *color.RGBA)
	Line(x1, y1, x2, y2, w float64, clr *color.RGBA)
	Text(x, y, fontSize float64, s string)
	End()
	Close()
}

// SVGCanvas renders into an in-memory buffer and writes it to fn on
// End. Coordinates are in world units (meters); prec controls the
// sub-unit resolution of the SVG's integer coordinate space.
type SVGCanvas struct {
	fn   string
	prec float64
	svg  *svg.SVG
	buf  *bytes.Buffer
	w, h int
}

// NewSVGCanvas creates a canvas that will write its rendering to fn
// when End is called. An empty fn disables the file write (useful in
// tests that only want to exercise the drawing calls).
func NewSVGCanvas(fn string) *SVGCanvas {
	return &SVGCanvas{fn: fn, prec: 0.5, buf: new(bytes.Buffer)}
}

func (c *SVGCanvas) Open() {
	c.svg = svg.New(c.buf)
}

func (c *SVGCanvas) Start(w, h float64) {
	c.w = c.xlate(w)
	c.h = c.xlate(h)
	c.svg.Start(c.w, c.h)
}

func (c *SVGCanvas) Circle(x, y, r, strokeW float64, border, fill *color.RGBA) {
	fillStr := "none"
	if fill != nil {
		fillStr = hexColor(fill)
	}
	borderStr := ""
	if strokeW > 0 && border != nil {
		borderStr = fmt.Sprintf("stroke:%s;stroke-width:%.2f;", hexColor(border), strokeW)
	}
	style := fmt.Sprintf("%sfill:%s", borderStr, fillStr)
	c.svg.Circle(c.xlate(x), c.xlate(y), c.xlate(r), style)
}

func (c *SVGCanvas) Line(x1, y1, x2, y2, w float64, clr *color.RGBA) {
	style := "stroke:black;stroke-width:1"
	if w > 0 && clr != nil {
		style = fmt.Sprintf("stroke:%s;stroke-width:%.2f;", hexColor(clr), w)
	}
	c.svg.Line(c.xlate(x1), c.xlate(y1), c.xlate(x2), c.xlate(y2), style)
}

func (c *SVGCanvas) Text(x, y, fontSize float64, s string) {
	style := fmt.Sprintf("text-anchor:middle;font-size:%dpx", c.xlate(fontSize))
	c.svg.Text(c.xlate(x), c.xlate(y), s, style)
}

func (c *SVGCanvas) End() {
	c.svg.End()
	if c.fn == "" {
		return
	}
	f, err := os.Create(c.fn)
	if err != nil {
		return
	}
	defer f.Close()
	_, _ = f.Write(c.buf.Bytes())
}

func (c *SVGCanvas) Close() {
	c.buf = nil
}

func (c *SVGCanvas) xlate(v float64) int {
	return int(v / c.prec)
}

func hexColor(c *color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
