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
	"github.com/ctessum/sparse"
)

// DefaultUnits are the radiance units used when a file doesn't specify any.
const DefaultUnits = "W/m^2/micron/sr"

// Radiance is a calibrated band along with information about where it came from.
type Radiance struct {
	Requested float64 // band number that was asked for
	Band      float64 // band number that was selected
	Index     int     // position of Band in the band table
	Scale     float64
	Offset    float64
	Units     string
	Dataset   string // name of the counts dataset

	// Data holds the radiances with shape (row, col).
	Data *sparse.DenseArray
}

// Rows returns the number of rows in r.
func (r *Radiance) Rows() int { return r.Data.Shape[0] }

// Cols returns the number of columns in r.
func (r *Radiance) Cols() int { return r.Data.Shape[1] }

// Calibrate converts raw counts to radiance using
// radiance = (raw - offset) * scale. The result has the same shape
// as raw and does not share memory with it.
func Calibrate(raw *RawFrame, scale, offset float64) *sparse.DenseArray {
	out := sparse.ZerosDense(raw.Rows, raw.Cols)
	for i, v := range raw.Counts {
		out.Elements[i] = (float64(v) - offset) * scale
	}
	return out
}

// Read returns the calibrated radiance for band from swath s, where c holds
// the band table and the calibration coefficients for the bands in s.
// The band is located using a lower-bound search, so if band is
// not in the table, the next band above it is used.
func Read(s *Swath, c *Coefficients, band float64) (*sparse.DenseArray, error) {
	r, err := ReadRadiance(s, c, band)
	if err != nil {
		return nil, err
	}
	return r.Data, nil
}

// ReadRadiance is like Read but also returns information about the
// band that was selected.
func ReadRadiance(s *Swath, c *Coefficients, band float64) (*Radiance, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := s.check(); err != nil {
		return nil, err
	}
	if s.Bands != len(c.Bands) {
		return nil, &DatasetShapeMismatchError{Shape: s.Shape(), TableLen: len(c.Bands)}
	}
	i, err := c.Locate(band)
	if err != nil {
		return nil, err
	}
	raw, err := s.Frame(i)
	if err != nil {
		return nil, err
	}
	units := c.Units
	if units == "" {
		units = DefaultUnits
	}
	return &Radiance{
		Requested: band,
		Band:      c.Bands[i],
		Index:     i,
		Scale:     c.Scales[i],
		Offset:    c.Offsets[i],
		Units:     units,
		Data:      Calibrate(raw, c.Scales[i], c.Offsets[i]),
	}, nil
}
