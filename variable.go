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
	"sync"

	"github.com/ctessum/sparse"
)

// A Variable is a handle to one variable of the file being written.
type Variable struct {
	fw   *FileWriter
	name string
	dims []string
	typ  SampleType

	attrs *attrSet

	planOnce sync.Once
	cw       *chunkWriter
	cwErr    error
}

// Name returns the variable's name.
func (v *Variable) Name() string { return v.name }

// Type returns the variable's sample type.
func (v *Variable) Type() SampleType { return v.typ }

// Dimensions returns the names of the variable's dimensions.
func (v *Variable) Dimensions() []string { return v.dims }

// AddAttribute attaches a named metadata value to the variable. The
// name is normalized by replacing '.' with '_'. If an attribute with
// the normalized name already exists, the existing record is returned
// unchanged and value is ignored. New attributes can only be added
// before the file is created.
func (v *Variable) AddAttribute(name string, value interface{}) (Attribute, error) {
	return v.addAttribute(name, value, false)
}

// AddUnsignedAttribute is like AddAttribute but marks integer values as
// unsigned. The marker is kept on the returned record for 32-bit and
// generic integer values and ignored for all other value types.
func (v *Variable) AddUnsignedAttribute(name string, value interface{}) (Attribute, error) {
	return v.addAttribute(name, value, true)
}

func (v *Variable) addAttribute(name string, value interface{}, unsigned bool) (Attribute, error) {
	if a, ok := v.attrs.find(name); ok {
		return a, nil
	}
	if v.fw.f != nil {
		return Attribute{}, &WriteError{Op: "adding attribute " + name, Variable: v.name,
			Err: fmt.Errorf("the file has already been created")}
	}
	return v.attrs.resolve(name, value, unsigned, v.fw.logger())
}

// FindAttribute returns the attribute stored under name, normalized the
// same way as in AddAttribute.
func (v *Variable) FindAttribute(name string) (Attribute, bool) {
	return v.attrs.find(name)
}

// Write writes a w x h block of row-major samples whose corner is at
// (x, y). The block must cover exactly one chunk of the variable's
// chunk grid; supplying chunk-aligned blocks is the caller's
// responsibility. Each distinct chunk is physically written at most
// once: repeated writes of the same chunk do nothing, and a failed
// write may be retried. Write may be called concurrently.
//
// If yFlipped is true, y is measured from the bottom of the scene
// instead of the top. The flag is latched when the first block is
// written; later calls must pass the same value.
func (v *Variable) Write(x, y, w, h int, yFlipped bool, values interface{}) error {
	if v.fw.f == nil {
		return &WriteError{Op: "writing chunk", Variable: v.name,
			Err: fmt.Errorf("the file has not been created yet")}
	}
	v.planOnce.Do(func() {
		v.cw, v.cwErr = newChunkWriter(v.fw.store(), v.name, v.fw.tileW(), v.fw.tileH(), yFlipped, &v.fw.mu)
	})
	if v.cwErr != nil {
		return v.cwErr
	}
	return v.cw.writeChunk(Rect{X: x, Y: y, W: w, H: h}, values)
}

// WriteFully writes values, which must hold samples for the entire
// variable, in a single operation starting at the origin. It is
// independent of chunked writing: it neither consults nor updates the
// record of written chunks.
func (v *Variable) WriteFully(values interface{}) error {
	if v.fw.f == nil {
		return &WriteError{Op: "full write", Variable: v.name,
			Err: fmt.Errorf("the file has not been created yet")}
	}
	st := v.fw.store()
	lengths := st.Lengths(v.name)
	origin := make([]int, len(lengths))
	v.fw.mu.Lock()
	defer v.fw.mu.Unlock()
	if err := st.WriteBlock(v.name, origin, lengths, values); err != nil {
		return &WriteError{Op: "full write", Variable: v.name, Err: err}
	}
	return nil
}

// WriteDense converts the elements of a to the variable's sample type
// and writes them with WriteFully. The shape of a must match the
// variable's dimension lengths.
func (v *Variable) WriteDense(a *sparse.DenseArray) error {
	if v.fw.f == nil {
		return &WriteError{Op: "full write", Variable: v.name,
			Err: fmt.Errorf("the file has not been created yet")}
	}
	if lengths := v.fw.store().Lengths(v.name); !equalInts(a.Shape, lengths) {
		return &WriteError{Op: "full write", Variable: v.name,
			Err: fmt.Errorf("array shape %v does not match dimension lengths %v", a.Shape, lengths)}
	}
	values, err := v.typ.fromFloat64(a.Elements)
	if err != nil {
		return &WriteError{Op: "full write", Variable: v.name, Err: err}
	}
	return v.WriteFully(values)
}
