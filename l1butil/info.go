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
	"strings"
	"text/tabwriter"

	"github.com/a301/l1b"
	"github.com/kr/pretty"
)

// Info writes the names, dimensions and shapes of the datasets in f to w.
// If dataset is not empty, its attributes are written as well; "global"
// selects the global attributes.
func Info(w io.Writer, f *l1b.File, dataset string) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "dataset\tdimensions\tshape")
	for _, name := range f.Datasets() {
		fmt.Fprintf(tw, "%s\t(%s)\t%v\n", name, strings.Join(f.Dims(name), ", "), f.Shape(name))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if dataset == "" {
		return nil
	}
	name := dataset
	if dataset == "global" {
		name = ""
	} else if !f.Has(dataset) {
		return fmt.Errorf("l1b: dataset %s not in file", dataset)
	}
	_, err := pretty.Fprintf(w, "\n%s attributes:\n%# v\n", dataset, f.Attributes(name))
	return err
}

// Bands writes the band table and calibration coefficients read by r to w.
func Bands(w io.Writer, r *l1b.Reader) error {
	c, err := r.Coefficients()
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintf(tw, "%s (%s, %s)\n", r.Group.Name, r.Group.Counts, r.Units())
	fmt.Fprintln(tw, "index\tband\tscale\toffset")
	for i, b := range c.Bands {
		fmt.Fprintf(tw, "%d\t%g\t%g\t%g\n", i, b, c.Scales[i], c.Offsets[i])
	}
	return tw.Flush()
}
