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

package l1b

import (
	"fmt"
	"os"

	"github.com/ctessum/cdf"
)

// WriteRadiance writes r to w as a NetCDF file holding a single
// (row, col) dataset called name.
func WriteRadiance(w *os.File, name string, r *Radiance) error {
	data := r.Data
	if len(data.Shape) != 2 {
		return fmt.Errorf("l1b: radiance for %s has %d dimensions; expected 2", name, len(data.Shape))
	}
	if n := data.Shape[0] * data.Shape[1]; len(data.Elements) != n {
		return fmt.Errorf("l1b: radiance dims are %d but array length is %d", n, len(data.Elements))
	}
	if data.Shape[0] == 0 || data.Shape[1] == 0 {
		return fmt.Errorf("l1b: cannot write empty radiance %v", data.Shape)
	}
	units := r.Units
	if units == "" {
		units = DefaultUnits
	}

	h := cdf.NewHeader([]string{"row", "col"}, []int{data.Shape[0], data.Shape[1]})
	h.AddAttribute("", "history", fmt.Sprintf("calibrated by l1b v%s", Version))
	h.AddVariable(name, []string{"row", "col"}, []float64{0})
	h.AddAttribute(name, "units", units)
	h.AddAttribute(name, "_FillValue", []float64{0})
	h.AddAttribute(name, "long_name", fmt.Sprintf("band %g radiance", r.Band))
	h.AddAttribute(name, "band_number", []float64{r.Band})
	h.AddAttribute(name, "radiance_scale", []float64{r.Scale})
	h.AddAttribute(name, "radiance_offset", []float64{r.Offset})
	if r.Dataset != "" {
		h.AddAttribute(name, "source_dataset", r.Dataset)
	}
	h.Define()

	f, err := cdf.Create(w, h) // writes the header to w
	if err != nil {
		return fmt.Errorf("l1b: writing radiance header: %w", err)
	}
	if err = writeVar(f, name, data.Elements); err != nil {
		return err
	}
	return cdf.UpdateNumRecs(w)
}

// WriteSwath writes swath s and its coefficients c to w using the dataset and
// attribute names in g. Counts are stored as SHORT with the _Unsigned attribute.
func WriteSwath(w *os.File, g SwathGroup, s *Swath, c *Coefficients) error {
	if err := g.check(); err != nil {
		return fmt.Errorf("l1b: writing swath: %w", err)
	}
	if err := s.check(); err != nil {
		return err
	}
	if err := c.Validate(); err != nil {
		return err
	}
	if s.Bands != len(c.Bands) {
		return &DatasetShapeMismatchError{Dataset: g.Counts, Shape: s.Shape(), TableLen: len(c.Bands)}
	}
	// A zero length dimension would be taken as the record dimension.
	if s.Rows == 0 || s.Cols == 0 {
		return fmt.Errorf("l1b: cannot write empty swath %v", s.Shape())
	}

	h := cdf.NewHeader([]string{"band", "row", "col"}, []int{s.Bands, s.Rows, s.Cols})
	h.AddAttribute("", "history", fmt.Sprintf("written by l1b v%s", Version))
	h.AddVariable(g.Counts, []string{"band", "row", "col"}, []int16{0})
	h.AddAttribute(g.Counts, "_Unsigned", "true")
	h.AddAttribute(g.Counts, g.Scales, toFloat32s(c.Scales))
	h.AddAttribute(g.Counts, g.Offsets, toFloat32s(c.Offsets))
	if g.Units != "" {
		units := c.Units
		if units == "" {
			units = DefaultUnits
		}
		h.AddAttribute(g.Counts, g.Units, units)
	}
	h.AddVariable(g.Bands, []string{"band"}, []float32{0})
	h.Define()

	f, err := cdf.Create(w, h)
	if err != nil {
		return fmt.Errorf("l1b: writing swath header: %w", err)
	}
	counts := make([]int16, len(s.Counts))
	for i, v := range s.Counts {
		counts[i] = int16(v)
	}
	if err = writeVar(f, g.Counts, counts); err != nil {
		return err
	}
	if err = writeVar(f, g.Bands, toFloat32s(c.Bands)); err != nil {
		return err
	}
	return cdf.UpdateNumRecs(w)
}

// writeVar writes all of variable name. The writer is given the full
// extent of the variable so it stops at the end instead of returning io.EOF.
func writeVar(f *cdf.File, name string, data interface{}) error {
	end := f.Header.Lengths(name)
	start := make([]int, len(end))
	if _, err := f.Writer(name, start, end).Write(data); err != nil {
		return fmt.Errorf("l1b: writing dataset %s: %w", name, err)
	}
	return nil
}

func toFloat32s(v []float64) []float32 {
	o := make([]float32, len(v))
	for i, x := range v {
		o[i] = float32(x)
	}
	return o
}
