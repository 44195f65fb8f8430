/*
Copyright © 2022 the l1b authors.
This file is part of l1b.

l1b is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

l1b is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with l1b.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package quicklook draws preview images of calibrated bands.
package quicklook

import (
	"fmt"
	"io"
	"math"

	"github.com/a301/l1b"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Default image size.
const (
	Width  = 6 * vg.Inch
	Height = 4.5 * vg.Inch
)

// Histogram returns a histogram of the radiances in r with the given
// number of bins. NaN values are left out.
func Histogram(r *l1b.Radiance, bins int) (*plot.Plot, error) {
	if bins <= 0 {
		return nil, fmt.Errorf("quicklook: number of bins must be positive, not %d", bins)
	}
	vals := make(plotter.Values, 0, len(r.Data.Elements))
	for _, v := range r.Data.Elements {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			vals = append(vals, v)
		}
	}
	if len(vals) == 0 {
		return nil, fmt.Errorf("quicklook: band %g has no valid values", r.Band)
	}
	p, err := plot.New()
	if err != nil {
		return nil, err
	}
	h, err := plotter.NewHist(vals, bins)
	if err != nil {
		return nil, fmt.Errorf("quicklook: creating histogram: %w", err)
	}
	p.Add(h)
	p.Title.Text = fmt.Sprintf("band %g radiance", r.Band)
	p.X.Label.Text = r.Units
	p.Y.Label.Text = "count"
	return p, nil
}

// Image returns a heat map of the radiances in r with the first row at the
// bottom. Values are clipped to [vmin, vmax]; if vmin >= vmax the range of the
// data is used instead. NaN values are drawn in the lowest color.
func Image(r *l1b.Radiance, vmin, vmax float64) (*plot.Plot, error) {
	if len(r.Data.Elements) == 0 {
		return nil, fmt.Errorf("quicklook: band %g is empty", r.Band)
	}
	if vmin >= vmax {
		s := l1b.Summarize(r)
		if s.N == 0 {
			return nil, fmt.Errorf("quicklook: band %g has no valid values", r.Band)
		}
		vmin, vmax = widen(s.Min, s.Max)
	}
	g := grid{rows: r.Rows(), cols: r.Cols(), data: r.Data.Elements, min: vmin, max: vmax}
	return heatMap(g, fmt.Sprintf("band %g radiance (%s)", r.Band, r.Units))
}

// Counts returns a heat map of the uncalibrated counts in raw, which were
// read for band. Limits work the same way as in Image.
func Counts(raw *l1b.RawFrame, band float64, vmin, vmax float64) (*plot.Plot, error) {
	if len(raw.Counts) == 0 {
		return nil, fmt.Errorf("quicklook: band %g is empty", band)
	}
	data := make([]float64, len(raw.Counts))
	for i, c := range raw.Counts {
		data[i] = float64(c)
	}
	if vmin >= vmax {
		vmin, vmax = widen(floats.Min(data), floats.Max(data))
	}
	g := grid{rows: raw.Rows, cols: raw.Cols, data: data, min: vmin, max: vmax}
	return heatMap(g, fmt.Sprintf("band %g counts", band))
}

// widen makes sure that a color range has a nonzero width.
func widen(min, max float64) (float64, float64) {
	if min == max {
		return min - 0.5, max + 0.5
	}
	return min, max
}

func heatMap(g grid, title string) (*plot.Plot, error) {
	p, err := plot.New()
	if err != nil {
		return nil, err
	}
	cm := moreland.ExtendedBlackBody()
	cm.SetMin(g.min)
	cm.SetMax(g.max)
	h := plotter.NewHeatMap(g, cm.Palette(255))
	h.Min, h.Max = g.min, g.max
	p.Add(h)
	p.Title.Text = title
	p.X.Label.Text = "column"
	p.Y.Label.Text = "row"
	return p, nil
}

// grid adapts a row-major frame to plotter.GridXYZ.
type grid struct {
	rows, cols int
	data       []float64
	min, max   float64
}

func (g grid) Dims() (c, r int) { return g.cols, g.rows }

// Z returns the value at column c and row r clipped to [min, max].
func (g grid) Z(c, r int) float64 {
	v := g.data[r*g.cols+c]
	switch {
	case math.IsNaN(v), v < g.min:
		return g.min
	case v > g.max:
		return g.max
	}
	return v
}

func (g grid) X(c int) float64 { return float64(c) }

func (g grid) Y(r int) float64 { return float64(r) }

// WritePNG renders p as a PNG image of the given size.
func WritePNG(p *plot.Plot, w io.Writer, width, height vg.Length) error {
	wt, err := p.WriterTo(width, height, "png")
	if err != nil {
		return fmt.Errorf("quicklook: rendering plot: %w", err)
	}
	_, err = wt.WriteTo(w)
	return err
}
