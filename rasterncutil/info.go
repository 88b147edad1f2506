/*
Copyright © 2020 the RasterNC authors.
This file is part of RasterNC.

RasterNC is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

RasterNC is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with RasterNC.  If not, see <http://www.gnu.org/licenses/>.
*/

package rasterncutil

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spatialmodel/rasternc"
)

// Info writes a description of the dimensions, variables and attributes
// of the raster file at path to w. If stats is true, the minimum,
// maximum and mean sample values of each numeric variable are included.
func Info(w io.Writer, path string, stats bool) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	r, err := rasternc.NewReader(f)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 8, 1, '\t', 0)
	fmt.Fprintln(tw, "dimensions:")
	lengths := r.Header.Lengths("")
	for i, d := range r.Header.Dimensions("") {
		fmt.Fprintf(tw, "\t%s\t%d\n", d, lengths[i])
	}
	fmt.Fprintln(tw, "variables:")
	for _, v := range r.Header.Variables() {
		t, err := r.SampleTypeOf(v)
		if err != nil {
			return err
		}
		fmt.Fprintf(tw, "\t%s\t%v\t%v\n", v, t, r.Header.Dimensions(v))
		for _, a := range r.Header.Attributes(v) {
			fmt.Fprintf(tw, "\t\t%s\t%v\n", a, r.Header.GetAttribute(v, a))
		}
		if stats && t != rasternc.Char {
			data, err := r.ReadFully(v)
			if err != nil {
				return err
			}
			min, max, err := rasternc.Range(data)
			if err != nil {
				return err
			}
			mean, err := rasternc.Mean(data)
			if err != nil {
				return err
			}
			fmt.Fprintf(tw, "\t\tmin %g\tmax %g\tmean %g\n", min, max, mean)
		}
	}
	fmt.Fprintln(tw, "global attributes:")
	for _, a := range r.Header.Attributes("") {
		fmt.Fprintf(tw, "\t%s\t%v\n", a, r.Header.GetAttribute("", a))
	}
	return tw.Flush()
}
