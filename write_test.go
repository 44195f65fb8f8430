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
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestWriteRadiance(t *testing.T) {
	r, err := ReadRadiance(scenarioSwath(), emissiveTable(0.01, 300), 25)
	if err != nil {
		t.Fatal(err)
	}
	r.Dataset = Emissive.Counts
	path := filepath.Join(t.TempDir(), "ch25.nc")
	w, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := WriteRadiance(w, "ch25", r); err != nil {
		t.Fatal(err)
	}
	w.Close()

	f, err := OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if dims := f.Dims("ch25"); !reflect.DeepEqual(dims, []string{"row", "col"}) {
		t.Errorf("dims: %v", dims)
	}
	data, err := f.ReadArray("ch25")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(data.Shape, []int{2, 2}) {
		t.Errorf("shape: %v", data.Shape)
	}
	if !reflect.DeepEqual(data.Elements, []float64{7, 8, 9, 10}) {
		t.Errorf("values: %v", data.Elements)
	}
	if u, _ := f.StringAttribute("ch25", "units"); u != "W/m^2/micron/sr" {
		t.Errorf("units: %q", u)
	}
	if s, _ := f.StringAttribute("ch25", "source_dataset"); s != Emissive.Counts {
		t.Errorf("source_dataset: %q", s)
	}
	band, err := f.FloatAttribute("ch25", "band_number")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(band, []float64{25}) {
		t.Errorf("band_number: %v", band)
	}
	if _, ok := f.Attributes("ch25")["_FillValue"]; !ok {
		t.Error("missing _FillValue")
	}
}

func TestWriteRadianceEmpty(t *testing.T) {
	r := &Radiance{Data: Calibrate(&RawFrame{Rows: 0, Cols: 3}, 1, 0)}
	w, err := os.Create(filepath.Join(t.TempDir(), "empty.nc"))
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()
	if err := WriteRadiance(w, "empty", r); err == nil {
		t.Error("expected error for empty radiance")
	}
}

func TestWriteSwathErrors(t *testing.T) {
	w, err := os.Create(filepath.Join(t.TempDir(), "bad.nc"))
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()
	if err := WriteSwath(w, SwathGroup{Name: "x"}, testSwath(), testCoefficients()); err == nil {
		t.Error("expected error for incomplete group")
	}
	if err := WriteSwath(w, Emissive, NewSwath(3, 2, 3), testCoefficients()); err == nil {
		t.Error("expected error for shape mismatch")
	}
	if err := WriteSwath(w, Emissive, NewSwath(17, 0, 3), testCoefficients()); err == nil {
		t.Error("expected error for empty swath")
	}
}
