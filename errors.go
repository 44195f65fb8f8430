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
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is.
var (
	ErrInvalidBandTable     = errors.New("invalid band table")
	ErrBandOutOfRange       = errors.New("band out of range")
	ErrDatasetShapeMismatch = errors.New("dataset shape mismatch")
	ErrBandNotFound         = errors.New("band not found")
)

// InvalidBandTableError is returned when the band table and its calibration
// coefficients cannot be used for a lookup.
type InvalidBandTableError struct {
	Bands, Scales, Offsets int // table lengths

	// Index is the offending table position, or -1 if the
	// problem is not tied to a single entry.
	Index  int
	Reason string
}

func (e *InvalidBandTableError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("l1b: invalid band table: %s at index %d (bands=%d, scales=%d, offsets=%d)",
			e.Reason, e.Index, e.Bands, e.Scales, e.Offsets)
	}
	return fmt.Sprintf("l1b: invalid band table: %s (bands=%d, scales=%d, offsets=%d)",
		e.Reason, e.Bands, e.Scales, e.Offsets)
}

// Is reports whether target is ErrInvalidBandTable.
func (e *InvalidBandTableError) Is(target error) bool { return target == ErrInvalidBandTable }

// BandOutOfRangeError is returned when the requested band is greater than
// every entry in the band table.
type BandOutOfRangeError struct {
	Requested float64
	Max       float64
}

func (e *BandOutOfRangeError) Error() string {
	return fmt.Sprintf("l1b: band %g is out of range; the largest band in the table is %g",
		e.Requested, e.Max)
}

// Is reports whether target is ErrBandOutOfRange.
func (e *BandOutOfRangeError) Is(target error) bool { return target == ErrBandOutOfRange }

// DatasetShapeMismatchError is returned when the band axis of a counts
// dataset does not line up with the band table.
type DatasetShapeMismatchError struct {
	Dataset  string
	Shape    []int
	TableLen int
}

func (e *DatasetShapeMismatchError) Error() string {
	name := e.Dataset
	if name == "" {
		name = "swath"
	}
	return fmt.Sprintf("l1b: %s has shape %v but the band table has %d entries",
		name, e.Shape, e.TableLen)
}

// Is reports whether target is ErrDatasetShapeMismatch.
func (e *DatasetShapeMismatchError) Is(target error) bool { return target == ErrDatasetShapeMismatch }

// BandNotFoundError is returned by exact lookups when the requested band
// is not in the table.
type BandNotFoundError struct {
	Requested float64
	Nearest   float64 // the band a lower-bound lookup would have selected
	Index     int
}

func (e *BandNotFoundError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("l1b: band %g is not in any band table", e.Requested)
	}
	return fmt.Sprintf("l1b: band %g is not in the band table (nearest band at or above it is %g at index %d)",
		e.Requested, e.Nearest, e.Index)
}

// Is reports whether target is ErrBandNotFound.
func (e *BandNotFoundError) Is(target error) bool { return target == ErrBandNotFound }
