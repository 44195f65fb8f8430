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
	"math"

	"gonum.org/v1/gonum/floats"
)

// Stats summarizes a calibrated frame. NaN values, such as masked
// counts, and infinite values are excluded from Min, Max and Mean.
type Stats struct {
	Min, Max, Mean float64
	N              int // number of finite values
	NaN            int // number of NaN values
	Inf            int // number of infinite values
}

// Summarize returns statistics for the values in r.
func Summarize(r *Radiance) Stats {
	vals := make([]float64, 0, len(r.Data.Elements))
	var s Stats
	for _, v := range r.Data.Elements {
		if math.IsNaN(v) {
			s.NaN++
			continue
		}
		if math.IsInf(v, 0) {
			s.Inf++
			continue
		}
		vals = append(vals, v)
	}
	s.N = len(vals)
	if s.N == 0 {
		s.Min, s.Max, s.Mean = math.NaN(), math.NaN(), math.NaN()
		return s
	}
	s.Min = floats.Min(vals)
	s.Max = floats.Max(vals)
	s.Mean = floats.Sum(vals) / float64(s.N)
	return s
}

func (s Stats) String() string {
	return fmt.Sprintf("min=%g max=%g mean=%g n=%d nan=%d inf=%d", s.Min, s.Max, s.Mean, s.N, s.NaN, s.Inf)
}
