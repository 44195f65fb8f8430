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
	"io"
	"os"
	"sort"

	"github.com/a301/l1b"
	"github.com/sirupsen/logrus"
)

// Calibrate reads band using r and writes the radiance to outputFile as a
// dataset called name. If name is empty, the dataset is named after the
// selected band.
func Calibrate(out io.Writer, r *l1b.Reader, band float64, outputFile, name string) error {
	rad, err := r.ReadBand(band)
	if err != nil {
		return err
	}
	if name == "" {
		name = bandName(rad.Band)
	}
	w, err := os.Create(outputFile)
	if err != nil {
		return fmt.Errorf("l1b: creating output file: %v", err)
	}
	if err := l1b.WriteRadiance(w, name, rad); err != nil {
		w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	stats := l1b.Summarize(rad)
	r.Log.WithFields(logrus.Fields{
		"file":    outputFile,
		"dataset": name,
		"min":     stats.Min,
		"max":     stats.Max,
		"mean":    stats.Mean,
	}).Info("l1b: wrote radiance")
	fmt.Fprintf(out, "band %g (%s position %d): %dx%d %s\n%s\nwritten to %s:%s\n",
		rad.Band, rad.Dataset, rad.Index, rad.Rows(), rad.Cols(), rad.Units, stats, outputFile, name)
	return nil
}

// Subset copies the bands read by r that match bands to a new swath file
// at outputFile.
func Subset(out io.Writer, f *l1b.File, r *l1b.Reader, bands []float64, outputFile string) error {
	c, err := r.Coefficients()
	if err != nil {
		return err
	}
	seen := make(map[int]bool)
	var positions []int
	for _, b := range bands {
		i, err := r.Locate(b)
		if err != nil {
			return err
		}
		if !seen[i] {
			seen[i] = true
			positions = append(positions, i)
		}
	}
	// Keep the band table sorted.
	sort.Ints(positions)

	shape := f.Shape(r.Group.Counts)
	if len(shape) != 3 {
		return fmt.Errorf("l1b: dataset %s has shape %v; expected (band, row, col)", r.Group.Counts, shape)
	}
	frames := make([]*l1b.RawFrame, len(positions))
	for j, i := range positions {
		if frames[j], err = f.ReadFrame(r.Group.Counts, i); err != nil {
			return err
		}
	}
	s := l1b.NewSwath(len(positions), shape[1], shape[2])
	n := shape[1] * shape[2]
	for j, fr := range frames {
		copy(s.Counts[j*n:(j+1)*n], fr.Counts)
	}
	sub := c.Subset(positions)

	w, err := os.Create(outputFile)
	if err != nil {
		return fmt.Errorf("l1b: creating output file: %v", err)
	}
	if err := l1b.WriteSwath(w, r.Group, s, sub); err != nil {
		w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	r.Log.WithFields(logrus.Fields{
		"file":  outputFile,
		"bands": sub.Bands,
	}).Info("l1b: wrote swath subset")
	fmt.Fprintf(out, "bands %v of %s written to %s\n", sub.Bands, r.Group.Counts, outputFile)
	return nil
}
