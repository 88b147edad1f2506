/*
Copyright © 2021 the RasterNC authors.
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
	"bufio"
	"fmt"
	"io/ioutil"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/ctessum/sparse"
	"github.com/spatialmodel/rasternc"
)

// A Manifest describes the contents of a raster file to be created.
type Manifest struct {
	// Dimensions maps dimension names to their lengths.
	Dimensions map[string]int

	// Variables lists the variables of the file.
	Variables []ManifestVariable

	// Attributes holds the global attributes of the file.
	Attributes map[string]interface{}
}

// A ManifestVariable describes one variable of a raster file to be
// created.
type ManifestVariable struct {
	// Name is the variable name.
	Name string

	// Type is the sample type: byte, char, short, int, float or double.
	Type string

	// Dimensions lists the names of the variable's dimensions.
	Dimensions []string

	// Fill is the value the variable is filled with. The default is 0.
	Fill *float64

	// Attributes holds the attributes of the variable.
	Attributes map[string]interface{}
}

func readManifest(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	reader := bufio.NewReader(f)
	bytes, err := ioutil.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("rasternc: problem reading manifest file: %v", err)
	}
	m := new(Manifest)
	if _, err := toml.Decode(string(bytes), m); err != nil {
		return nil, fmt.Errorf("rasternc: problem parsing manifest file: %v", err)
	}
	return m, nil
}

// Create writes a new raster file at outPath with the dimensions,
// variables and attributes listed in the TOML manifest at manifestPath.
// Every variable is filled with its fill value, or zero if none is
// given, so the created file is complete.
func Create(manifestPath, outPath string) error {
	m, err := readManifest(manifestPath)
	if err != nil {
		return err
	}

	fw := rasternc.NewFileWriter(outPath)
	dims := make([]string, 0, len(m.Dimensions))
	for d := range m.Dimensions {
		dims = append(dims, d)
	}
	sort.Strings(dims)
	for _, d := range dims {
		if err := fw.AddDimension(d, m.Dimensions[d]); err != nil {
			return err
		}
	}
	vars := make(map[string]*rasternc.Variable)
	for _, mv := range m.Variables {
		t, err := rasternc.ParseSampleType(mv.Type)
		if err != nil {
			return err
		}
		v, err := fw.AddVariable(mv.Name, mv.Dimensions, t)
		if err != nil {
			return err
		}
		for _, a := range sortedKeys(mv.Attributes) {
			if _, err := v.AddAttribute(a, mv.Attributes[a]); err != nil {
				return err
			}
		}
		vars[mv.Name] = v
	}
	for _, a := range sortedKeys(m.Attributes) {
		if _, err := fw.AddAttribute(a, m.Attributes[a]); err != nil {
			return err
		}
	}
	if err := fw.Create(); err != nil {
		return err
	}

	for _, mv := range m.Variables {
		v := vars[mv.Name]
		lengths := make([]int, len(mv.Dimensions))
		n := 1
		for i, d := range mv.Dimensions {
			lengths[i] = m.Dimensions[d]
			n *= lengths[i]
		}
		var fill float64
		if mv.Fill != nil {
			fill = *mv.Fill
		}
		if v.Type() == rasternc.Char {
			text := strings.Repeat(string([]byte{byte(fill)}), n)
			if err := v.WriteFully(text); err != nil {
				return err
			}
			continue
		}
		a := sparse.ZerosDense(lengths...)
		if fill != 0 {
			for i := range a.Elements {
				a.Elements[i] = fill
			}
		}
		if err := v.WriteDense(a); err != nil {
			return err
		}
	}
	return fw.Close()
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
