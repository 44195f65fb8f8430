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
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// SwathSource is a store of named datasets and attributes that swaths can
// be read from. *File implements SwathSource.
type SwathSource interface {
	// Shape returns the dimension lengths of a dataset, or nil if
	// it doesn't exist.
	Shape(name string) []int
	ReadVector(name string) ([]float64, error)
	ReadFrame(name string, index int) (*RawFrame, error)
	FloatAttribute(name, attr string) ([]float64, error)
	StringAttribute(name, attr string) (string, bool)
	ValidRange(name string) (lo, hi float64, ok bool)
}

// Reader reads calibrated bands from one swath group of a SwathSource.
// It is safe for concurrent use.
type Reader struct {
	src   SwathSource
	Group SwathGroup

	// Exact specifies whether requesting a band that is not in the
	// band table is an error. If false, the next band above the
	// requested one is used.
	Exact bool

	// MaskInvalid specifies whether counts outside of the valid_range
	// of the counts dataset should be set to NaN.
	MaskInvalid bool

	Log logrus.FieldLogger

	coefOnce sync.Once
	coef     *Coefficients
	coefErr  error
}

// NewReader returns a reader for group g of src.
func NewReader(src SwathSource, g SwathGroup) *Reader {
	return &Reader{
		src:   src,
		Group: g,
		Log:   logrus.StandardLogger(),
	}
}

// Coefficients returns the band table and calibration coefficients for
// the reader's group.
func (r *Reader) Coefficients() (*Coefficients, error) {
	r.coefOnce.Do(func() {
		r.coef, r.coefErr = r.loadCoefficients()
	})
	return r.coef, r.coefErr
}

func (r *Reader) loadCoefficients() (*Coefficients, error) {
	bands, err := r.src.ReadVector(r.Group.Bands)
	if err != nil {
		return nil, err
	}
	scales, err := r.src.FloatAttribute(r.Group.Counts, r.Group.Scales)
	if err != nil {
		return nil, err
	}
	offsets, err := r.src.FloatAttribute(r.Group.Counts, r.Group.Offsets)
	if err != nil {
		return nil, err
	}
	c := &Coefficients{Bands: bands, Scales: scales, Offsets: offsets, Units: r.Units()}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Units returns the radiance units of the group.
func (r *Reader) Units() string {
	if r.Group.Units != "" {
		if u, ok := r.src.StringAttribute(r.Group.Counts, r.Group.Units); ok && u != "" {
			return u
		}
	}
	return DefaultUnits
}

// Locate returns the position of band in the band table.
func (r *Reader) Locate(band float64) (int, error) {
	c, err := r.Coefficients()
	if err != nil {
		return -1, err
	}
	if r.Exact {
		return c.LocateExact(band)
	}
	i, err := c.Locate(band)
	if err != nil {
		return -1, err
	}
	if c.Bands[i] != band {
		r.Log.WithFields(logrus.Fields{
			"dataset":   r.Group.Counts,
			"requested": band,
			"selected":  c.Bands[i],
			"index":     i,
		}).Warn("l1b: requested band is not in the band table; using the next band above it")
	}
	return i, nil
}

// ReadRaw reads the uncalibrated counts of band. It also returns the
// band number that was selected.
func (r *Reader) ReadRaw(band float64) (*RawFrame, float64, error) {
	c, i, raw, err := r.readFrame(band)
	if err != nil {
		return nil, 0, err
	}
	return raw, c.Bands[i], nil
}

// readFrame locates band and reads its counts.
func (r *Reader) readFrame(band float64) (*Coefficients, int, *RawFrame, error) {
	c, err := r.Coefficients()
	if err != nil {
		return nil, -1, nil, err
	}
	shape := r.src.Shape(r.Group.Counts)
	if shape == nil {
		return nil, -1, nil, fmt.Errorf("l1b: dataset %s not in file", r.Group.Counts)
	}
	if len(shape) != 3 || shape[0] != len(c.Bands) {
		return nil, -1, nil, &DatasetShapeMismatchError{
			Dataset:  r.Group.Counts,
			Shape:    shape,
			TableLen: len(c.Bands),
		}
	}
	i, err := r.Locate(band)
	if err != nil {
		return nil, -1, nil, err
	}
	raw, err := r.src.ReadFrame(r.Group.Counts, i)
	if err != nil {
		return nil, -1, nil, err
	}
	return c, i, raw, nil
}

// ReadBand reads and calibrates band.
func (r *Reader) ReadBand(band float64) (*Radiance, error) {
	c, i, raw, err := r.readFrame(band)
	if err != nil {
		return nil, err
	}
	rad := &Radiance{
		Requested: band,
		Band:      c.Bands[i],
		Index:     i,
		Scale:     c.Scales[i],
		Offset:    c.Offsets[i],
		Units:     c.Units,
		Dataset:   r.Group.Counts,
		Data:      Calibrate(raw, c.Scales[i], c.Offsets[i]),
	}
	if r.MaskInvalid {
		if lo, hi, ok := r.src.ValidRange(r.Group.Counts); ok {
			masked := maskInvalid(raw, rad, lo, hi)
			r.Log.WithFields(logrus.Fields{
				"band":   rad.Band,
				"masked": masked,
			}).Debug("l1b: masked invalid counts")
		}
	}
	r.Log.WithFields(logrus.Fields{
		"dataset": r.Group.Counts,
		"band":    rad.Band,
		"index":   i,
		"scale":   rad.Scale,
		"offset":  rad.Offset,
		"rows":    raw.Rows,
		"cols":    raw.Cols,
	}).Info("l1b: calibrated band")
	return rad, nil
}

// maskInvalid sets radiances whose counts are outside of [lo, hi] to NaN
// and returns the number of values that were masked.
func maskInvalid(raw *RawFrame, rad *Radiance, lo, hi float64) int {
	var n int
	for i, v := range raw.Counts {
		if c := float64(v); c < lo || c > hi {
			rad.Data.Elements[i] = math.NaN()
			n++
		}
	}
	return n
}

// ReadBands reads and calibrates several bands concurrently. The results
// are in the same order as bands.
func (r *Reader) ReadBands(ctx context.Context, bands ...float64) ([]*Radiance, error) {
	out := make([]*Radiance, len(bands))
	g, ctx := errgroup.WithContext(ctx)
	for i, b := range bands {
		i, b := i, b
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rad, err := r.ReadBand(b)
			if err != nil {
				return err
			}
			out[i] = rad
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
