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
	"math"
	"sort"
)

// Swath holds the uncalibrated sensor counts for a group of bands,
// stored in row-major (band, row, col) order.
type Swath struct {
	Bands, Rows, Cols int
	Counts            []uint16
}

// NewSwath returns a zero-valued swath of the given shape.
func NewSwath(bands, rows, cols int) *Swath {
	return &Swath{
		Bands:  bands,
		Rows:   rows,
		Cols:   cols,
		Counts: make([]uint16, bands*rows*cols),
	}
}

// Shape returns the swath dimensions as (band, row, col).
func (s *Swath) Shape() []int { return []int{s.Bands, s.Rows, s.Cols} }

// check makes sure that the counts fit the declared shape.
func (s *Swath) check() error {
	if s.Bands < 0 || s.Rows < 0 || s.Cols < 0 {
		return fmt.Errorf("l1b: swath has negative dimensions %v", s.Shape())
	}
	if n := s.Bands * s.Rows * s.Cols; len(s.Counts) != n {
		return fmt.Errorf("l1b: swath dims are %v (%d elements) but "+
			"there are %d counts: %w", s.Shape(), n, len(s.Counts), ErrDatasetShapeMismatch)
	}
	return nil
}

// Frame returns a copy of the counts for the band at position i.
func (s *Swath) Frame(i int) (*RawFrame, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	if i < 0 || i >= s.Bands {
		return nil, fmt.Errorf("l1b: band position %d is outside of swath with %d bands", i, s.Bands)
	}
	n := s.Rows * s.Cols
	f := &RawFrame{Rows: s.Rows, Cols: s.Cols, Counts: make([]uint16, n)}
	copy(f.Counts, s.Counts[i*n:(i+1)*n])
	return f, nil
}

// RawFrame holds the uncalibrated counts for a single band.
type RawFrame struct {
	Rows, Cols int
	Counts     []uint16
}

// At returns the count at row r and column c.
func (f *RawFrame) At(r, c int) uint16 { return f.Counts[r*f.Cols+c] }

// Coefficients holds a band table and the calibration coefficients that
// go along with it. Entry i of Scales and Offsets belongs to Bands[i].
type Coefficients struct {
	Bands   []float64
	Scales  []float64
	Offsets []float64

	// Units are the units of the calibrated radiance, if known.
	Units string
}

func (c *Coefficients) invalid(index int, reason string) error {
	return &InvalidBandTableError{
		Bands:   len(c.Bands),
		Scales:  len(c.Scales),
		Offsets: len(c.Offsets),
		Index:   index,
		Reason:  reason,
	}
}

// Validate checks that the tables are the same length and that the band
// table is sorted in non-decreasing order.
func (c *Coefficients) Validate() error {
	if len(c.Scales) != len(c.Bands) || len(c.Offsets) != len(c.Bands) {
		return c.invalid(-1, "table lengths differ")
	}
	if len(c.Bands) == 0 {
		return c.invalid(-1, "table is empty")
	}
	for i, b := range c.Bands {
		if math.IsNaN(b) {
			return c.invalid(i, "band is NaN")
		}
		if i > 0 && b < c.Bands[i-1] {
			return c.invalid(i, "bands are not sorted")
		}
	}
	return nil
}

// Locate returns the position of the first band in the table that is
// greater than or equal to band. If band is not in the table, the
// next band above it is selected.
func (c *Coefficients) Locate(band float64) (int, error) {
	if err := c.Validate(); err != nil {
		return -1, err
	}
	i := sort.SearchFloat64s(c.Bands, band)
	if i == len(c.Bands) {
		return -1, &BandOutOfRangeError{Requested: band, Max: c.Bands[len(c.Bands)-1]}
	}
	return i, nil
}

// LocateExact is like Locate but returns an error if band is not
// in the table.
func (c *Coefficients) LocateExact(band float64) (int, error) {
	i, err := c.Locate(band)
	if err != nil {
		return -1, err
	}
	if c.Bands[i] != band {
		return -1, &BandNotFoundError{Requested: band, Nearest: c.Bands[i], Index: i}
	}
	return i, nil
}

// Contains returns whether band is in the table.
func (c *Coefficients) Contains(band float64) bool {
	i := sort.SearchFloat64s(c.Bands, band)
	return i < len(c.Bands) && c.Bands[i] == band
}

// Subset returns the coefficients for the bands at the given positions.
func (c *Coefficients) Subset(positions []int) *Coefficients {
	o := &Coefficients{
		Bands:   make([]float64, len(positions)),
		Scales:  make([]float64, len(positions)),
		Offsets: make([]float64, len(positions)),
		Units:   c.Units,
	}
	for j, i := range positions {
		o.Bands[j] = c.Bands[i]
		o.Scales[j] = c.Scales[i]
		o.Offsets[j] = c.Offsets[i]
	}
	return o
}
