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

package quicklook

import (
	"bytes"
	"image/png"
	"math"
	"testing"

	"github.com/a301/l1b"
)

func testRadiance(t *testing.T) *l1b.Radiance {
	t.Helper()
	s := l1b.NewSwath(2, 3, 4)
	for i := range s.Counts {
		s.Counts[i] = uint16(i * 100)
	}
	c := &l1b.Coefficients{
		Bands:   []float64{31, 32},
		Scales:  []float64{0.01, 0.02},
		Offsets: []float64{100, 200},
	}
	r, err := l1b.ReadRadiance(s, c, 31)
	if err != nil {
		t.Fatal(err)
	}
	return r
}

// checkPNG checks that b holds a PNG image that is wider than it is tall.
func checkPNG(t *testing.T, b *bytes.Buffer) {
	t.Helper()
	img, err := png.Decode(b)
	if err != nil {
		t.Fatal(err)
	}
	if bounds := img.Bounds(); bounds.Dx() <= bounds.Dy() || bounds.Dy() == 0 {
		t.Errorf("image size %v", bounds)
	}
}

func TestHistogram(t *testing.T) {
	r := testRadiance(t)
	r.Data.Elements[0] = math.NaN()
	p, err := Histogram(r, 5)
	if err != nil {
		t.Fatal(err)
	}
	b := new(bytes.Buffer)
	if err := WritePNG(p, b, 200, 100); err != nil {
		t.Fatal(err)
	}
	checkPNG(t, b)

	if _, err := Histogram(r, 0); err == nil {
		t.Error("expected error for zero bins")
	}
	for i := range r.Data.Elements {
		r.Data.Elements[i] = math.NaN()
	}
	if _, err := Histogram(r, 5); err == nil {
		t.Error("expected error for all-NaN band")
	}
}

func TestImage(t *testing.T) {
	r := testRadiance(t)
	r.Data.Elements[5] = math.NaN()
	r.Data.Elements[6] = math.Inf(1)
	for _, lim := range [][2]float64{{0, 0}, {-1, 5}} {
		p, err := Image(r, lim[0], lim[1])
		if err != nil {
			t.Fatal(err)
		}
		b := new(bytes.Buffer)
		if err := WritePNG(p, b, 300, 200); err != nil {
			t.Fatal(err)
		}
		checkPNG(t, b)
	}
}

func TestCounts(t *testing.T) {
	raw := &l1b.RawFrame{Rows: 2, Cols: 3, Counts: []uint16{0, 10, 20, 30, 40, 65535}}
	for _, lim := range [][2]float64{{0, 0}, {0, 30}} {
		p, err := Counts(raw, 30, lim[0], lim[1])
		if err != nil {
			t.Fatal(err)
		}
		if p.Title.Text != "band 30 counts" {
			t.Errorf("title: %q", p.Title.Text)
		}
		b := new(bytes.Buffer)
		if err := WritePNG(p, b, 300, 200); err != nil {
			t.Fatal(err)
		}
		checkPNG(t, b)
	}
	if _, err := Counts(&l1b.RawFrame{}, 30, 0, 0); err == nil {
		t.Error("expected error for empty frame")
	}

	flat := &l1b.RawFrame{Rows: 1, Cols: 2, Counts: []uint16{7, 7}}
	if _, err := Counts(flat, 30, 0, 0); err != nil {
		t.Errorf("constant frame: %v", err)
	}
}

func TestGrid(t *testing.T) {
	r := testRadiance(t)
	r.Data.Elements[1] = math.NaN()
	g := grid{rows: r.Rows(), cols: r.Cols(), data: r.Data.Elements, min: 0, max: 5}
	if c, rows := g.Dims(); c != 4 || rows != 3 {
		t.Errorf("dims %d, %d", c, rows)
	}
	// Counts are 0, 100, 200 ... so radiances are -1, NaN, 1, 2, 3, 4, 5, 6 ...
	tests := []struct {
		c, r int
		want float64
	}{
		{c: 0, r: 0, want: 0},
		{c: 1, r: 0, want: 0},
		{c: 2, r: 0, want: 1},
		{c: 1, r: 1, want: 4},
		{c: 3, r: 2, want: 5},
	}
	for _, test := range tests {
		if z := g.Z(test.c, test.r); z != test.want {
			t.Errorf("Z(%d, %d) = %g, want %g", test.c, test.r, z, test.want)
		}
	}
}
