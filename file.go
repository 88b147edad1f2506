/*
Copyright © 2019 the RasterNC authors.
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
	"os"
	"sync"

	"github.com/ctessum/cdf"
	"github.com/sirupsen/logrus"
)

// Version is the version number of this release of RasterNC.
const Version = "1.1.0"

// defaultTileSize is the chunk edge length used when the caller does
// not configure one.
const defaultTileSize = 512

// A FileWriter writes a raster scene to a classic-format NetCDF file.
//
// A FileWriter starts in define mode: dimensions, variables and
// attributes are declared first. Create writes the file header and
// switches the writer to write mode, in which sample data is written
// through the variable handles. Close finalizes the file.
type FileWriter struct {
	// TileW and TileH set the size of the chunks used for chunked
	// variable writes. The zero values select a default of 512.
	TileW, TileH int

	// Log is used to report progress and diagnostics. If it is nil,
	// the standard logger is used.
	Log logrus.FieldLogger

	path     string
	dims     []string
	lengths  []int
	varOrder []string
	vars     map[string]*Variable
	gattrs   *attrSet

	ws *os.File
	f  *cdf.File

	// mu serializes physical writes to the file.
	mu sync.Mutex
}

// NewFileWriter returns a FileWriter in define mode that will write to
// the file at path. Nothing is written until Create is called.
func NewFileWriter(path string) *FileWriter {
	return &FileWriter{
		path:   path,
		vars:   make(map[string]*Variable),
		gattrs: newAttrSet(),
	}
}

func (fw *FileWriter) logger() logrus.FieldLogger {
	if fw.Log == nil {
		return logrus.StandardLogger()
	}
	return fw.Log
}

func (fw *FileWriter) tileW() int {
	if fw.TileW > 0 {
		return fw.TileW
	}
	return defaultTileSize
}

func (fw *FileWriter) tileH() int {
	if fw.TileH > 0 {
		return fw.TileH
	}
	return defaultTileSize
}

func (fw *FileWriter) store() Store { return cdfStore{fw.f} }

// AddDimension declares a dimension. The length must be positive;
// record dimensions are not supported.
func (fw *FileWriter) AddDimension(name string, length int) error {
	if fw.f != nil {
		return fmt.Errorf("rasternc: adding dimension %s: the file has already been created", name)
	}
	if length <= 0 {
		return fmt.Errorf("rasternc: adding dimension %s: invalid length %d", name, length)
	}
	for _, d := range fw.dims {
		if d == name {
			return fmt.Errorf("rasternc: adding dimension %s: already declared", name)
		}
	}
	fw.dims = append(fw.dims, name)
	fw.lengths = append(fw.lengths, length)
	return nil
}

// AddVariable declares a variable with the given sample type and
// previously declared dimensions and returns a handle to it. For
// two-dimensional variables the first dimension is the scene height
// and the second the scene width.
func (fw *FileWriter) AddVariable(name string, dims []string, t SampleType) (*Variable, error) {
	if fw.f != nil {
		return nil, fmt.Errorf("rasternc: adding variable %s: the file has already been created", name)
	}
	if _, ok := fw.vars[name]; ok {
		return nil, fmt.Errorf("rasternc: adding variable %s: already declared", name)
	}
	if t.zeroValue() == nil {
		return nil, fmt.Errorf("rasternc: adding variable %s: invalid sample type %v", name, t)
	}
	for _, d := range dims {
		found := false
		for _, dd := range fw.dims {
			if d == dd {
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("rasternc: adding variable %s: unknown dimension %s", name, d)
		}
	}
	v := &Variable{fw: fw, name: name, dims: dims, typ: t, attrs: newAttrSet()}
	fw.vars[name] = v
	fw.varOrder = append(fw.varOrder, name)
	return v, nil
}

// AddAttribute attaches a global attribute to the file. It behaves like
// the method of the same name on Variable.
func (fw *FileWriter) AddAttribute(name string, value interface{}) (Attribute, error) {
	return fw.addAttribute(name, value, false)
}

// AddUnsignedAttribute is like AddAttribute but marks integer values as
// unsigned.
func (fw *FileWriter) AddUnsignedAttribute(name string, value interface{}) (Attribute, error) {
	return fw.addAttribute(name, value, true)
}

func (fw *FileWriter) addAttribute(name string, value interface{}, unsigned bool) (Attribute, error) {
	if a, ok := fw.gattrs.find(name); ok {
		return a, nil
	}
	if fw.f != nil {
		return Attribute{}, &WriteError{Op: "adding attribute " + name,
			Err: fmt.Errorf("the file has already been created")}
	}
	return fw.gattrs.resolve(name, value, unsigned, fw.logger())
}

// FindAttribute returns the global attribute stored under name.
func (fw *FileWriter) FindAttribute(name string) (Attribute, bool) {
	return fw.gattrs.find(name)
}

// Create writes the file header and switches the writer to write mode.
// After Create no dimensions, variables or attributes can be added.
func (fw *FileWriter) Create() (err error) {
	if fw.f != nil {
		return fmt.Errorf("rasternc: creating %s: already created", fw.path)
	}
	// The header library reports misuse by panicking; return those
	// reports as errors instead.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("rasternc: defining header for %s: %v", fw.path, r)
		}
	}()
	h := cdf.NewHeader(fw.dims, fw.lengths)
	for _, name := range fw.varOrder {
		v := fw.vars[name]
		h.AddVariable(name, v.dims, v.typ.zeroValue())
		for _, a := range v.attrs.names {
			h.AddAttribute(name, a, v.attrs.byName[a].Value)
		}
	}
	for _, a := range fw.gattrs.names {
		h.AddAttribute("", a, fw.gattrs.byName[a].Value)
	}
	h.Define()
	for _, e := range h.Check() {
		return fmt.Errorf("rasternc: checking header for %s: %v", fw.path, e)
	}
	ws, err := os.Create(fw.path)
	if err != nil {
		return fmt.Errorf("rasternc: creating %s: %v", fw.path, err)
	}
	f, err := cdf.Create(ws, h)
	if err != nil {
		ws.Close()
		return fmt.Errorf("rasternc: creating %s: %v", fw.path, err)
	}
	fw.ws, fw.f = ws, f
	fw.logger().WithFields(logrus.Fields{
		"path":      fw.path,
		"variables": len(fw.varOrder),
	}).Info("rasternc created file")
	return nil
}

// Close finalizes the header and closes the file.
func (fw *FileWriter) Close() error {
	if fw.f == nil {
		return fmt.Errorf("rasternc: closing %s: the file was never created", fw.path)
	}
	if err := cdf.UpdateNumRecs(fw.ws); err != nil {
		fw.ws.Close()
		return fmt.Errorf("rasternc: finalizing %s: %v", fw.path, err)
	}
	if err := fw.ws.Close(); err != nil {
		return fmt.Errorf("rasternc: closing %s: %v", fw.path, err)
	}
	return nil
}
