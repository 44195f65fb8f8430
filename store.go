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
	"io"
	"math"
	"os"
	"strings"

	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"
)

// File is a swath file opened for reading. The underlying storage
// is a NetCDF classic file.
type File struct {
	cf     *cdf.File
	closer io.Closer
	name   string
}

// Open reads the header of the swath file stored in rw.
// The caller is responsible for closing rw.
func Open(rw cdf.ReaderWriterAt) (*File, error) {
	cf, err := cdf.Open(rw)
	if err != nil {
		return nil, fmt.Errorf("l1b: opening swath file: %w", err)
	}
	return &File{cf: cf}, nil
}

// OpenFile opens the swath file at path. The returned File must be closed
// when it is no longer needed.
func OpenFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("l1b: opening swath file: %w", err)
	}
	sf, err := Open(readOnly{f})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%w (%s)", err, path)
	}
	sf.closer = f
	sf.name = path
	return sf, nil
}

// readOnly adapts a read-only file to cdf.ReaderWriterAt.
type readOnly struct{ *os.File }

func (r readOnly) WriteAt(p []byte, off int64) (int, error) {
	return 0, fmt.Errorf("l1b: %s is open for reading only", r.Name())
}

// Close closes the underlying file if it was opened by OpenFile.
func (f *File) Close() error {
	if f.closer == nil {
		return nil
	}
	err := f.closer.Close()
	f.closer = nil
	return err
}

// Name returns the path the file was opened from, if any.
func (f *File) Name() string { return f.name }

// Datasets returns the names of all of the datasets in the file.
func (f *File) Datasets() []string { return f.cf.Header.Variables() }

// Has returns whether the file contains a dataset called name.
func (f *File) Has(name string) bool { return f.cf.Header.Lengths(name) != nil }

// Dims returns the dimension names of dataset name.
func (f *File) Dims(name string) []string { return f.cf.Header.Dimensions(name) }

// Shape returns the dimension lengths of dataset name, or nil if the
// dataset does not exist.
func (f *File) Shape(name string) []int {
	l := f.cf.Header.Lengths(name)
	if l == nil {
		return nil
	}
	o := make([]int, len(l))
	copy(o, l)
	return o
}

// Attributes returns the attributes of dataset name, or the global
// attributes if name is "". Values are []uint8, string, []int16, []int32,
// []float32 or []float64.
func (f *File) Attributes(name string) map[string]interface{} {
	o := make(map[string]interface{})
	for _, a := range f.cf.Header.Attributes(name) {
		o[a] = f.cf.Header.GetAttribute(name, a)
	}
	return o
}

// StringAttribute returns the text attribute attr of dataset name.
func (f *File) StringAttribute(name, attr string) (string, bool) {
	s, ok := f.cf.Header.GetAttribute(name, attr).(string)
	return strings.TrimRight(s, "\x00"), ok
}

// FloatAttribute returns numeric attribute attr of dataset name as float64s.
func (f *File) FloatAttribute(name, attr string) ([]float64, error) {
	if !f.Has(name) && name != "" {
		return nil, fmt.Errorf("l1b: dataset %s not in file", name)
	}
	v := f.cf.Header.GetAttribute(name, attr)
	if v == nil {
		return nil, fmt.Errorf("l1b: dataset %s has no attribute %s", name, attr)
	}
	o, err := toFloat64s(v)
	if err != nil {
		return nil, fmt.Errorf("l1b: attribute %s of %s: %w", attr, name, err)
	}
	return o, nil
}

// ReadVector reads the one-dimensional numeric dataset name.
func (f *File) ReadVector(name string) ([]float64, error) {
	dims := f.cf.Header.Lengths(name)
	if dims == nil {
		return nil, fmt.Errorf("l1b: dataset %s not in file", name)
	}
	if len(dims) != 1 {
		return nil, fmt.Errorf("l1b: dataset %s has %d dimensions; expected 1", name, len(dims))
	}
	r := f.cf.Reader(name, nil, nil)
	buf := r.Zero(dims[0])
	if _, err := r.Read(buf); err != nil {
		return nil, fmt.Errorf("l1b: reading dataset %s: %w", name, err)
	}
	return toFloat64s(buf)
}

// ReadArray reads all of numeric dataset name.
func (f *File) ReadArray(name string) (*sparse.DenseArray, error) {
	dims := f.Shape(name)
	if dims == nil {
		return nil, fmt.Errorf("l1b: dataset %s not in file", name)
	}
	out := sparse.ZerosDense(dims...)
	r := f.cf.Reader(name, nil, nil)
	buf := r.Zero(len(out.Elements))
	if _, err := r.Read(buf); err != nil {
		return nil, fmt.Errorf("l1b: reading dataset %s: %w", name, err)
	}
	v, err := toFloat64s(buf)
	if err != nil {
		return nil, fmt.Errorf("l1b: dataset %s: %w", name, err)
	}
	copy(out.Elements, v)
	return out, nil
}

// ReadFrame reads the counts for position index along the first axis of
// the three-dimensional dataset name.
func (f *File) ReadFrame(name string, index int) (*RawFrame, error) {
	dims, err := f.countsDims(name)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= dims[0] {
		return nil, fmt.Errorf("l1b: band position %d is outside of dataset %s with %d bands",
			index, name, dims[0])
	}
	// The end corner is inclusive.
	start := []int{index, 0, 0}
	end := []int{index, dims[1] - 1, dims[2] - 1}
	counts, err := f.readCounts(name, start, end, dims[1]*dims[2])
	if err != nil {
		return nil, err
	}
	return &RawFrame{Rows: dims[1], Cols: dims[2], Counts: counts}, nil
}

// ReadSwath reads all of the counts in the three-dimensional dataset name.
func (f *File) ReadSwath(name string) (*Swath, error) {
	dims, err := f.countsDims(name)
	if err != nil {
		return nil, err
	}
	counts, err := f.readCounts(name, nil, nil, dims[0]*dims[1]*dims[2])
	if err != nil {
		return nil, err
	}
	return &Swath{Bands: dims[0], Rows: dims[1], Cols: dims[2], Counts: counts}, nil
}

func (f *File) countsDims(name string) ([]int, error) {
	dims := f.cf.Header.Lengths(name)
	if dims == nil {
		return nil, fmt.Errorf("l1b: dataset %s not in file", name)
	}
	if len(dims) != 3 {
		return nil, fmt.Errorf("l1b: dataset %s has %d dimensions; expected (band, row, col)",
			name, len(dims))
	}
	return dims, nil
}

// readCounts reads n elements of dataset name between start and end and
// converts them to unsigned counts.
func (f *File) readCounts(name string, start, end []int, n int) ([]uint16, error) {
	r := f.cf.Reader(name, start, end)
	buf := r.Zero(n)
	if _, err := r.Read(buf); err != nil {
		return nil, fmt.Errorf("l1b: reading dataset %s: %w", name, err)
	}
	o := make([]uint16, n)
	switch v := buf.(type) {
	case []int16:
		if !f.unsigned(name) {
			for _, c := range v {
				if c < 0 {
					return nil, fmt.Errorf("l1b: dataset %s has negative count %d; "+
						"unsigned data needs the _Unsigned attribute", name, c)
				}
			}
		}
		for i, c := range v {
			o[i] = uint16(c)
		}
	case []uint8:
		for i, c := range v {
			o[i] = uint16(c)
		}
	case []int32:
		for i, c := range v {
			if c < 0 || c > math.MaxUint16 {
				return nil, fmt.Errorf("l1b: dataset %s count %d at %d does not fit in 16 bits", name, c, i)
			}
			o[i] = uint16(c)
		}
	default:
		return nil, fmt.Errorf("l1b: dataset %s has type %T; expected integer counts", name, buf)
	}
	return o, nil
}

// unsigned returns whether dataset name is marked as holding unsigned values.
func (f *File) unsigned(name string) bool {
	s, ok := f.StringAttribute(name, "_Unsigned")
	return ok && strings.EqualFold(strings.TrimSpace(s), "true")
}

// ValidRange returns the valid_range attribute of dataset name, if it has one.
func (f *File) ValidRange(name string) (lo, hi float64, ok bool) {
	v, err := f.FloatAttribute(name, "valid_range")
	if err != nil || len(v) != 2 {
		return 0, 0, false
	}
	if f.unsigned(name) {
		// Unsigned SHORT ranges are stored as signed values.
		for i := range v {
			if v[i] < 0 {
				v[i] += 1 << 16
			}
		}
	}
	return v[0], v[1], true
}

func toFloat64s(v interface{}) ([]float64, error) {
	switch vv := v.(type) {
	case []float64:
		o := make([]float64, len(vv))
		copy(o, vv)
		return o, nil
	case []float32:
		o := make([]float64, len(vv))
		for i, x := range vv {
			o[i] = float64(x)
		}
		return o, nil
	case []int32:
		o := make([]float64, len(vv))
		for i, x := range vv {
			o[i] = float64(x)
		}
		return o, nil
	case []int16:
		o := make([]float64, len(vv))
		for i, x := range vv {
			o[i] = float64(x)
		}
		return o, nil
	case []uint8:
		o := make([]float64, len(vv))
		for i, x := range vv {
			o[i] = float64(x)
		}
		return o, nil
	default:
		return nil, fmt.Errorf("unsupported value type %T", v)
	}
}
