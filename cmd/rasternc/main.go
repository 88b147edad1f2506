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

// Command rasternc is a command-line interface for reading and writing
// raster scenes in classic-format NetCDF files.
package main

import (
	"fmt"
	"os"

	"github.com/spatialmodel/rasternc/rasterncutil"
)

func main() {
	if err := rasterncutil.Root.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(-1)
	}
}
