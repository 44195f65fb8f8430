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
	"reflect"
	"strings"
	"testing"
)

const testGroups = `
[[group]]
name = "emissive"
counts = "EV_1KM_Emissive"
bands = "Band_1KM_Emissive"
scales = "radiance_scales"
offsets = "radiance_offsets"
units = "radiance_units"

[[group]]
name = "reflectance"
counts = "EV_1KM_RefSB"
bands = "Band_1KM_RefSB"
scales = "reflectance_scales"
offsets = "reflectance_offsets"
`

func TestLoadGroups(t *testing.T) {
	groups, err := LoadGroups(strings.NewReader(testGroups))
	if err != nil {
		t.Fatal(err)
	}
	want := []SwathGroup{
		Emissive,
		{
			Name:    "reflectance",
			Counts:  "EV_1KM_RefSB",
			Bands:   "Band_1KM_RefSB",
			Scales:  "reflectance_scales",
			Offsets: "reflectance_offsets",
		},
	}
	if !reflect.DeepEqual(groups, want) {
		t.Errorf("have %+v, want %+v", groups, want)
	}
}

func TestLoadGroupsErrors(t *testing.T) {
	for name, in := range map[string]string{
		"empty":   "",
		"syntax":  "[[group]\nname=",
		"missing": "[[group]]\nname = \"x\"\ncounts = \"c\"\n",
	} {
		if _, err := LoadGroups(strings.NewReader(in)); err == nil {
			t.Errorf("%s: expected an error", name)
		}
	}
}

func TestGroupByName(t *testing.T) {
	g, err := GroupByName(DefaultGroups, "500m")
	if err != nil {
		t.Fatal(err)
	}
	if g.Counts != "EV_500_Aggr1km_RefSB" || g.Bands != "Band_500M" {
		t.Errorf("group: %+v", g)
	}
	_, err = GroupByName(DefaultGroups, "thermal")
	if err == nil || !strings.Contains(err.Error(), "emissive") {
		t.Errorf("have %v", err)
	}
}

func TestFindGroup(t *testing.T) {
	f, err := OpenFile(writeTestSwath(t))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	g, err := FindGroup(f, DefaultGroups, 31)
	if err != nil {
		t.Fatal(err)
	}
	if g.Name != "emissive" {
		t.Errorf("group %s", g.Name)
	}
	_, err = FindGroup(f, DefaultGroups, 31.5)
	if !errors.Is(err, ErrBandNotFound) {
		t.Errorf("have %v, want ErrBandNotFound", err)
	}
	_, err = FindGroup(f, DefaultGroups[1:], 31)
	if !errors.Is(err, ErrBandNotFound) {
		t.Errorf("have %v, want ErrBandNotFound", err)
	}
}
