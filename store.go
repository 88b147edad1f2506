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

	"github.com/ctessum/cdf"
)

// A WriteError wraps a failure to store data in the underlying file.
type WriteError struct {
	// Op describes the operation that failed.
	Op string

	// Variable is the name of the variable being written, if any.
	Variable string

	// Err is the underlying error.
	Err error
}

func (e *WriteError) Error() string {
	if e.Variable == "" {
		return fmt.Sprintf("rasternc: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("rasternc: %s of variable %s: %v", e.Op, e.Variable, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// A Store accepts positioned writes of sample slices. It is the seam
// between the chunk bookkeeping and the on-disk format, and can be
// substituted in tests.
type Store interface {
	// WriteBlock writes the row-major samples in values into the
	// variable v at the given origin. origin and shape are index
	// vectors ordered like the variable's dimensions.
	WriteBlock(v string, origin, shape []int, values interface{}) error

	// Lengths returns the dimension lengths of the variable v, or nil
	// if there is no such variable.
	Lengths(v string) []int
}

// cdfStore implements Store on a classic-format NetCDF file.
type cdfStore struct {
	f *cdf.File
}

func (s cdfStore) Lengths(v string) []int { return s.f.Header.Lengths(v) }

// WriteBlock writes a block of samples. The file layout is linear, so a
// partial block is written one contiguous row at a time; a block that
// covers the whole variable is written in a single pass.
func (s cdfStore) WriteBlock(v string, origin, shape []int, values interface{}) error {
	lengths := s.Lengths(v)
	if lengths == nil {
		return fmt.Errorf("no variable %s in file", v)
	}
	if len(origin) != len(lengths) || len(shape) != len(lengths) {
		return fmt.Errorf("origin and shape must have %d elements for variable %s", len(lengths), v)
	}
	n := 1
	for _, l := range shape {
		n *= l
	}
	if l := sampleLen(values); l != n {
		return fmt.Errorf("have %d samples for a block of %d", l, n)
	}
	if zeroOrigin(origin) && equalInts(shape, lengths) {
		_, err := s.f.Writer(v, nil, nil).Write(values)
		return err
	}
	if len(shape) != 2 {
		return fmt.Errorf("partial writes are only supported for 2-d variables; %s has %d dimensions", v, len(lengths))
	}
	rowLen := shape[1]
	for r := 0; r < shape[0]; r++ {
		begin := []int{origin[0] + r, origin[1]}
		end := []int{origin[0] + r, origin[1] + rowLen - 1}
		row := sliceSamples(values, r*rowLen, (r+1)*rowLen)
		if _, err := s.f.Writer(v, begin, end).Write(row); err != nil {
			return fmt.Errorf("row %d: %v", origin[0]+r, err)
		}
	}
	return nil
}

func zeroOrigin(origin []int) bool {
	for _, o := range origin {
		if o != 0 {
			return false
		}
	}
	return true
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
