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
	"context"
	"os"

	"github.com/spatialmodel/rasternc"
)

// Copy reads the contents of the raster file at srcPath and writes them
// to a new file at dstPath. Two-dimensional variables are copied tile by
// tile with tiles of tileW x tileH samples, workers tiles at a time; if
// yFlip is true they are flipped vertically in the process. If stats is
// true, each two-dimensional numeric variable in the new file is given
// an actual_range attribute calculated from its samples, unless it
// already has one.
func Copy(srcPath, dstPath string, tileW, tileH, workers, cacheSize int, yFlip, stats bool) error {
	src, err := os.Open(srcPath)
	if err != nil {
		return err
	}
	defer src.Close()
	r, err := rasternc.NewReader(src)
	if err != nil {
		return err
	}
	r.CacheSize = cacheSize

	fw := rasternc.NewFileWriter(dstPath)
	fw.TileW, fw.TileH = tileW, tileH
	lengths := r.Header.Lengths("")
	for i, d := range r.Header.Dimensions("") {
		if err := fw.AddDimension(d, lengths[i]); err != nil {
			return err
		}
	}
	vars := make(map[string]*rasternc.Variable)
	for _, name := range r.Header.Variables() {
		t, err := r.SampleTypeOf(name)
		if err != nil {
			return err
		}
		v, err := fw.AddVariable(name, r.Header.Dimensions(name), t)
		if err != nil {
			return err
		}
		for _, a := range r.Header.Attributes(name) {
			if _, err := v.AddAttribute(a, r.Header.GetAttribute(name, a)); err != nil {
				return err
			}
		}
		if stats && t != rasternc.Char && len(r.Header.Lengths(name)) == 2 {
			data, err := r.ReadFully(name)
			if err != nil {
				return err
			}
			min, max, err := rasternc.Range(data)
			if err != nil {
				return err
			}
			if _, err := v.AddAttribute("actual_range", []float64{min, max}); err != nil {
				return err
			}
		}
		vars[name] = v
	}
	for _, a := range r.Header.Attributes("") {
		if _, err := fw.AddAttribute(a, r.Header.GetAttribute("", a)); err != nil {
			return err
		}
	}
	if err := fw.Create(); err != nil {
		return err
	}

	ctx := context.Background()
	for _, name := range r.Header.Variables() {
		v := vars[name]
		if len(r.Header.Lengths(name)) == 2 {
			// The writer remaps flipped tile coordinates itself, so a
			// vertical mirror only needs each tile's rows reversed.
			tile := func(rect rasternc.Rect) (interface{}, error) {
				data, err := r.ReadRect(ctx, name, rect)
				if err != nil {
					return nil, err
				}
				if yFlip {
					return rasternc.FlipRows(data, rect.W, rect.H)
				}
				return data, nil
			}
			if err := fw.WriteTiled(ctx, v, yFlip, tile, workers); err != nil {
				return err
			}
			continue
		}
		data, err := r.ReadFully(name)
		if err != nil {
			return err
		}
		if err := v.WriteFully(data); err != nil {
			return err
		}
	}
	return fw.Close()
}
