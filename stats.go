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

package rasternc

import (
	"fmt"

	"github.com/gonum/floats"
)

// Range returns the minimum and maximum sample values in data, which
// must be a numeric sample slice as returned by Reader.ReadFully or
// Reader.ReadRect.
func Range(data interface{}) (min, max float64, err error) {
	s, err := toFloat64(data)
	if err != nil {
		return 0, 0, err
	}
	if len(s) == 0 {
		return 0, 0, fmt.Errorf("rasternc: calculating range: no samples")
	}
	return floats.Min(s), floats.Max(s), nil
}

// Mean returns the arithmetic mean of the sample values in data, which
// must be a numeric sample slice as returned by Reader.ReadFully or
// Reader.ReadRect.
func Mean(data interface{}) (float64, error) {
	s, err := toFloat64(data)
	if err != nil {
		return 0, err
	}
	if len(s) == 0 {
		return 0, fmt.Errorf("rasternc: calculating mean: no samples")
	}
	return floats.Sum(s) / float64(len(s)), nil
}
