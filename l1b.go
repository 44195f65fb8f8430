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

// Package l1b reads uncalibrated sensor counts from MODIS Level-1B swath
// files and converts them to radiance.
//
// A swath holds the counts for a group of bands with shape (band, row, col).
// The band number of each position along the first axis is given by a band
// table, and each band has its own scale and offset so that
//
//	radiance = (count - offset) * scale
//
// Bands are looked up with a lower-bound search: if the requested band is
// not in the table, the next band above it is used. Set Reader.Exact to make
// that an error instead.
package l1b

// Version gives the version of this software.
const Version = "0.3.0"
