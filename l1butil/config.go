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
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/a301/l1b"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cast"
)

// DataDirs holds the directories where input data are stored.
type DataDirs struct {
	Work    string // base working directory
	Share   string // shared files
	SatData string // satellite data
}

// DataDirs returns the data directories specified by the configuration,
// with environment variables expanded and defaults filled in.
func (cfg *Cfg) DataDirs() DataDirs {
	d := DataDirs{
		Work:    os.ExpandEnv(cfg.GetString("DataDir.Work")),
		Share:   os.ExpandEnv(cfg.GetString("DataDir.Share")),
		SatData: os.ExpandEnv(cfg.GetString("DataDir.SatData")),
	}
	if d.Share == "" {
		d.Share = filepath.Join(d.Work, "shared_files")
	}
	if d.SatData == "" {
		d.SatData = filepath.Join(d.Work, "sat_data")
	}
	return d
}

// findInput returns the first file in dir matching pattern.
func findInput(dir, pattern string, log logrus.FieldLogger) (string, error) {
	files, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return "", fmt.Errorf("l1b: invalid InputPattern %q: %v", pattern, err)
	}
	if len(files) == 0 {
		return "", fmt.Errorf("l1b: no files in %s match %q; set InputFile or DataDir.SatData", dir, pattern)
	}
	sort.Strings(files)
	if len(files) > 1 {
		log.WithFields(logrus.Fields{
			"matches": len(files),
			"using":   files[0],
		}).Info("l1b: more than one input file found")
	}
	return files[0], nil
}

// InputFile returns the local path of the input file, downloading it
// first if necessary.
func (cfg *Cfg) InputFile(ctx context.Context) (string, error) {
	path := os.ExpandEnv(cfg.GetString("InputFile"))
	if path == "" {
		return findInput(cfg.DataDirs().SatData, cfg.GetString("InputPattern"), cfg.Log)
	}
	return maybeDownload(ctx, path, cfg.Log)
}

// withFile opens the input file, calls f, and closes the file.
func (cfg *Cfg) withFile(f func(*l1b.File) error) error {
	path, err := cfg.InputFile(context.Background())
	if err != nil {
		return err
	}
	sf, err := l1b.OpenFile(path)
	if err != nil {
		return err
	}
	defer sf.Close()
	cfg.Log.WithField("file", path).Debug("l1b: opened input file")
	return f(sf)
}

// groups returns the built-in swath groups along with any defined in GroupFile.
func (cfg *Cfg) groups() ([]l1b.SwathGroup, error) {
	path := os.ExpandEnv(cfg.GetString("GroupFile"))
	if path == "" {
		return l1b.DefaultGroups, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("l1b: opening GroupFile: %v", err)
	}
	defer f.Close()
	g, err := l1b.LoadGroups(f)
	if err != nil {
		return nil, err
	}
	return append(g, l1b.DefaultGroups...), nil
}

// reader returns a reader for the configured swath group. If the group
// is "auto", the group whose band table contains band is used.
func (cfg *Cfg) reader(src l1b.SwathSource, band float64) (*l1b.Reader, error) {
	groups, err := cfg.groups()
	if err != nil {
		return nil, err
	}
	var g l1b.SwathGroup
	if name := cfg.GetString("group"); name == "auto" {
		g, err = l1b.FindGroup(src, groups, band)
	} else {
		g, err = l1b.GroupByName(groups, name)
	}
	if err != nil {
		return nil, err
	}
	r := l1b.NewReader(src, g)
	r.Exact = cfg.GetBool("exact")
	r.MaskInvalid = cfg.GetBool("MaskInvalid")
	r.Log = cfg.Log.WithField("group", g.Name)
	return r, nil
}

// checkOutputFile makes sure that the output file directory or bucket
// exists and expands any environment variables. If f is empty, a name
// based on band and ext is returned.
func checkOutputFile(f string, band float64, ext string) (string, error) {
	if f == "" {
		return bandName(band) + ext, nil
	}
	f = os.ExpandEnv(f)
	if IsBlob(f) {
		url, err := url.Parse(f)
		if err != nil {
			return f, err
		}
		if _, err = OpenBucket(context.TODO(), url.Scheme+"://"+url.Host); err != nil {
			return f, fmt.Errorf("l1b: error when checking OutputFile location: %v", err)
		}
		return f, nil
	}
	outdir := filepath.Dir(f)
	if _, err := os.Stat(outdir); err != nil {
		return f, fmt.Errorf("l1b: the OutputFile directory doesn't exist: %v", err)
	}
	return f, nil
}

// selectedBand returns the band in the table of r that band will be
// read from, or band itself if it can't be located. Default output
// file names use it so they match the name of the dataset inside.
func selectedBand(r *l1b.Reader, band float64) float64 {
	c, err := r.Coefficients()
	if err != nil {
		return band
	}
	i, err := c.Locate(band)
	if err != nil {
		return band
	}
	return c.Bands[i]
}

// writeOutput calls write with a local path for outputFile and then
// uploads the result if outputFile is a blob.
func (cfg *Cfg) writeOutput(outputFile string, write func(local string) error) error {
	local, upload, err := maybeUpload(context.TODO(), outputFile, cfg.Log)
	if err != nil {
		return err
	}
	if err := write(local); err != nil {
		return err
	}
	return upload()
}

// bandName returns a name for band such as "ch30".
func bandName(band float64) string {
	return "ch" + strings.Replace(strconv.FormatFloat(band, 'g', -1, 64), ".", "_", -1)
}

// parseBands converts a list of band numbers, which may be strings
// or numbers and may be separated by commas, to float64s.
func parseBands(v interface{}) ([]float64, error) {
	s, err := cast.ToStringSliceE(v)
	if err != nil {
		return nil, fmt.Errorf("l1b: reading bands: %v", err)
	}
	var o []float64
	for _, ss := range s {
		for _, b := range strings.Split(strings.Trim(ss, "[]"), ",") {
			b = strings.TrimSpace(b)
			if b == "" {
				continue
			}
			f, err := cast.ToFloat64E(b)
			if err != nil {
				return nil, fmt.Errorf("l1b: invalid band number %q", b)
			}
			o = append(o, f)
		}
	}
	if len(o) == 0 {
		return nil, fmt.Errorf("l1b: no bands specified")
	}
	return o, nil
}
