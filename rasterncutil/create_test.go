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
	"fmt"
	"os"
	"reflect"
	"testing"

	"github.com/spatialmodel/rasternc"
)

const testManifest = `
[Dimensions]
y = 3
x = 4

[[Variables]]
Name = "elevation"
Type = "float"
Dimensions = ["y", "x"]
Fill = 1.5

[Variables.Attributes]
units = "m"
"valid.range" = [0, 8848]

[[Variables]]
Name = "label"
Type = "char"
Dimensions = ["x"]

[Attributes]
title = "created scene"
samples = 12
`

func TestCreate(t *testing.T) {
	const manifest = "tmp_manifest.toml"
	const out = "TestCreate.nc"
	defer os.Remove(manifest)
	defer os.Remove(out)
	f, err := os.Create(manifest)
	if err != nil {
		t.Fatal(err)
	}
	fmt.Fprint(f, testManifest)
	f.Close()

	if err := Create(manifest, out); err != nil {
		t.Fatal(err)
	}

	nc, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer nc.Close()
	r, err := rasternc.NewReader(nc)
	if err != nil {
		t.Fatal(err)
	}
	t.Run("dimensions", func(t *testing.T) {
		dims := r.Header.Dimensions("")
		if want := []string{"x", "y"}; !reflect.DeepEqual(dims, want) {
			t.Errorf("%v != %v", want, dims)
		}
		if lengths := r.Header.Lengths(""); !reflect.DeepEqual(lengths, []int{4, 3}) {
			t.Errorf("[4 3] != %v", lengths)
		}
	})
	t.Run("elevation", func(t *testing.T) {
		if typ, err := r.SampleTypeOf("elevation"); err != nil || typ != rasternc.Float {
			t.Errorf("float != %v, %v", typ, err)
		}
		data, err := r.ReadFully("elevation")
		if err != nil {
			t.Fatal(err)
		}
		want := make([]float32, 12)
		for i := range want {
			want[i] = 1.5
		}
		if !reflect.DeepEqual(data, want) {
			t.Errorf("%v != %v", want, data)
		}
		if a := r.Attribute("elevation", "units"); a != "m" {
			t.Errorf("m != %v", a)
		}
		// The dotted attribute name is normalized, and the integer
		// array is stored as doubles.
		if a := r.Attribute("elevation", "valid_range"); !reflect.DeepEqual(a, []float64{0, 8848}) {
			t.Errorf("[0 8848] != %v", a)
		}
	})
	t.Run("label", func(t *testing.T) {
		data, err := r.ReadFully("label")
		if err != nil {
			t.Fatal(err)
		}
		if want := make([]uint8, 4); !reflect.DeepEqual(data, want) {
			t.Errorf("%v != %v", want, data)
		}
	})
	t.Run("global attributes", func(t *testing.T) {
		if a := r.Attribute("", "title"); a != "created scene" {
			t.Errorf("created scene != %v", a)
		}
		if a := r.Attribute("", "samples"); !reflect.DeepEqual(a, []float64{12}) {
			t.Errorf("[12] != %v", a)
		}
	})
}

func TestCreateErrors(t *testing.T) {
	if err := Create("no_such_manifest.toml", "unused.nc"); err == nil {
		t.Error("no error for a missing manifest")
	}

	f, err := os.Create("tmp_bad_manifest.toml")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove("tmp_bad_manifest.toml")
	fmt.Fprint(f, `
[Dimensions]
y = 3

[[Variables]]
Name = "data"
Type = "quadruple"
Dimensions = ["y"]
`)
	f.Close()
	if err := Create("tmp_bad_manifest.toml", "unused.nc"); err == nil {
		t.Error("no error for an unknown sample type")
	}
}
