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
	"strings"

	"github.com/BurntSushi/toml"
)

// SwathGroup gives the names of the datasets and attributes that together
// describe a set of bands that can be calibrated.
type SwathGroup struct {
	Name string `toml:"name"`

	// Counts is the (band, row, col) dataset of raw counts.
	Counts string `toml:"counts"`

	// Bands is the one-dimensional dataset holding the band
	// number for each position along the first axis of Counts.
	Bands string `toml:"bands"`

	// Scales and Offsets are the attributes of Counts holding
	// the calibration coefficients.
	Scales  string `toml:"scales"`
	Offsets string `toml:"offsets"`

	// Units is the attribute of Counts holding the radiance units.
	// It is optional.
	Units string `toml:"units"`
}

// Emissive is the MODIS Level-1B 1 km emissive band group (bands 20–36).
var Emissive = SwathGroup{
	Name:    "emissive",
	Counts:  "EV_1KM_Emissive",
	Bands:   "Band_1KM_Emissive",
	Scales:  "radiance_scales",
	Offsets: "radiance_offsets",
	Units:   "radiance_units",
}

// DefaultGroups are the radiance groups in a MODIS Level-1B 1 km file.
var DefaultGroups = []SwathGroup{
	Emissive,
	{
		Name:    "refsb",
		Counts:  "EV_1KM_RefSB",
		Bands:   "Band_1KM_RefSB",
		Scales:  "radiance_scales",
		Offsets: "radiance_offsets",
		Units:   "radiance_units",
	},
	{
		Name:    "250m",
		Counts:  "EV_250_Aggr1km_RefSB",
		Bands:   "Band_250M",
		Scales:  "radiance_scales",
		Offsets: "radiance_offsets",
		Units:   "radiance_units",
	},
	{
		Name:    "500m",
		Counts:  "EV_500_Aggr1km_RefSB",
		Bands:   "Band_500M",
		Scales:  "radiance_scales",
		Offsets: "radiance_offsets",
		Units:   "radiance_units",
	},
}

// LoadGroups reads swath group definitions in TOML format from r, e.g.:
//
//	[[group]]
//	name = "emissive"
//	counts = "EV_1KM_Emissive"
//	bands = "Band_1KM_Emissive"
//	scales = "radiance_scales"
//	offsets = "radiance_offsets"
func LoadGroups(r io.Reader) ([]SwathGroup, error) {
	var c struct {
		Group []SwathGroup `toml:"group"`
	}
	if _, err := toml.DecodeReader(r, &c); err != nil {
		return nil, fmt.Errorf("l1b: reading swath groups: %w", err)
	}
	if len(c.Group) == 0 {
		return nil, fmt.Errorf("l1b: no swath groups defined")
	}
	for i, g := range c.Group {
		if err := g.check(); err != nil {
			return nil, fmt.Errorf("l1b: swath group %d: %w", i, err)
		}
	}
	return c.Group, nil
}

func (g SwathGroup) check() error {
	var missing []string
	for _, f := range []struct{ name, val string }{
		{"name", g.Name},
		{"counts", g.Counts},
		{"bands", g.Bands},
		{"scales", g.Scales},
		{"offsets", g.Offsets},
	} {
		if f.val == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing %s", strings.Join(missing, ", "))
	}
	return nil
}

// GroupByName returns the group in groups called name.
func GroupByName(groups []SwathGroup, name string) (SwathGroup, error) {
	var names []string
	for _, g := range groups {
		if g.Name == name {
			return g, nil
		}
		names = append(names, g.Name)
	}
	return SwathGroup{}, fmt.Errorf("l1b: swath group %q is not defined; valid options are %s",
		name, strings.Join(names, ", "))
}

// FindGroup returns the first group in groups whose band table in src
// contains band exactly. Groups whose datasets are not in src are skipped.
func FindGroup(src SwathSource, groups []SwathGroup, band float64) (SwathGroup, error) {
	for _, g := range groups {
		if src.Shape(g.Bands) == nil {
			continue
		}
		bands, err := src.ReadVector(g.Bands)
		if err != nil {
			return SwathGroup{}, err
		}
		c := Coefficients{Bands: bands}
		if c.Contains(band) {
			return g, nil
		}
	}
	return SwathGroup{}, &BandNotFoundError{Requested: band, Index: -1}
}
