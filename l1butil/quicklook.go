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

package l1butil

import (
	"fmt"
	"os"

	"github.com/a301/l1b"
	"github.com/a301/l1b/quicklook"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/plot"
)

// Quicklook reads band using r and saves a PNG image of kind "hist",
// "image" or "counts" to outputFile. "counts" draws the uncalibrated
// counts of the band.
func Quicklook(r *l1b.Reader, band float64, outputFile, kind string, bins int, vmin, vmax float64) error {
	var p *plot.Plot
	var selected float64
	switch kind {
	case "hist", "image":
		rad, err := r.ReadBand(band)
		if err != nil {
			return err
		}
		selected = rad.Band
		if kind == "hist" {
			p, err = quicklook.Histogram(rad, bins)
		} else {
			p, err = quicklook.Image(rad, vmin, vmax)
		}
		if err != nil {
			return err
		}
	case "counts":
		raw, b, err := r.ReadRaw(band)
		if err != nil {
			return err
		}
		selected = b
		if p, err = quicklook.Counts(raw, b, vmin, vmax); err != nil {
			return err
		}
	default:
		return fmt.Errorf("l1b: invalid quicklook kind %q; valid options are hist, image and counts", kind)
	}
	w, err := os.Create(outputFile)
	if err != nil {
		return fmt.Errorf("l1b: creating output file: %v", err)
	}
	if err := quicklook.WritePNG(p, w, quicklook.Width, quicklook.Height); err != nil {
		w.Close()
		return err
	}
	r.Log.WithFields(logrus.Fields{
		"file": outputFile,
		"kind": kind,
		"band": selected,
	}).Info("l1b: wrote quicklook")
	return w.Close()
}
