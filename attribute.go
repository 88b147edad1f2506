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
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cast"
)

// MaxAttributeLen is the maximum number of characters in a text
// attribute value. The storage format prefixes attribute values with a
// 16-bit length field; values are cropped to stay safely below that
// ceiling.
const MaxAttributeLen = 65535 - 1000

// An Attribute is a named metadata value attached to a variable, or to
// the file as a whole.
type Attribute struct {
	// Name is the attribute name as stored in the file.
	Name string

	// Value is the stored value. Its dynamic type is one of []uint8,
	// string, []int16, []int32, []float32 or []float64.
	Value interface{}

	// Unsigned reports whether an integer value should be interpreted
	// as unsigned. The storage format cannot record this flag, so
	// attributes read back from a file always report false.
	Unsigned bool
}

// An UnsupportedTypeError reports an attempt to store an attribute
// value of a type that has no equivalent in the storage format.
type UnsupportedTypeError struct {
	Attribute string
	Value     interface{}
}

func (e UnsupportedTypeError) Error() string {
	return fmt.Sprintf("rasternc: unsupported value type %T for attribute %s", e.Value, e.Attribute)
}

// normalizeAttrName replaces the '.' characters in an attribute name
// with '_', because '.' collides with the hierarchy separator used by
// common metadata conventions.
func normalizeAttrName(name string) string {
	return strings.Replace(name, ".", "_", -1)
}

// An attrSet holds the attributes of one variable (or the global
// attributes) in insertion order during the define phase.
type attrSet struct {
	names  []string
	byName map[string]Attribute
}

func newAttrSet() *attrSet {
	return &attrSet{byName: make(map[string]Attribute)}
}

// resolve normalizes name and returns the attribute record stored under
// it. If the name is already present the existing record is returned
// unchanged and value is ignored; otherwise value is encoded and a new
// record is stored. Text values longer than MaxAttributeLen are cropped,
// with a single diagnostic per cropped attribute.
func (s *attrSet) resolve(name string, value interface{}, unsigned bool, log logrus.FieldLogger) (Attribute, error) {
	name = normalizeAttrName(name)
	if a, ok := s.byName[name]; ok {
		return a, nil
	}
	stored, keepUnsigned, err := encodeAttribute(name, value)
	if err != nil {
		return Attribute{}, err
	}
	if str, ok := stored.(string); ok && len(str) > MaxAttributeLen {
		log.WithFields(logrus.Fields{
			"attribute": name,
			"length":    len(str),
			"limit":     MaxAttributeLen,
		}).Warn("rasternc cropping attribute value")
		stored = str[:MaxAttributeLen]
	}
	a := Attribute{Name: name, Value: stored, Unsigned: unsigned && keepUnsigned}
	s.names = append(s.names, name)
	s.byName[name] = a
	return a, nil
}

func (s *attrSet) find(name string) (Attribute, bool) {
	a, ok := s.byName[normalizeAttrName(name)]
	return a, ok
}

// encodeAttribute converts value to the form it will be stored in. The
// set of accepted types is closed; anything else fails with an
// UnsupportedTypeError. keepUnsigned reports whether an unsigned marker
// is meaningful for the value's kind: it is for 32-bit and generic
// integers, and is dropped by the floating point conversions.
func encodeAttribute(name string, value interface{}) (stored interface{}, keepUnsigned bool, err error) {
	switch v := value.(type) {
	case nil:
		return "", false, nil
	case string:
		return v, false, nil
	case int:
		return []int32{int32(v)}, true, nil
	case int32:
		return []int32{v}, true, nil
	case int64, uint, uint16, uint32, uint64:
		// Generic integers are widened to doubles, the only storage
		// type that can hold the full 64-bit range.
		f, err := cast.ToFloat64E(v)
		if err != nil {
			return nil, false, UnsupportedTypeError{Attribute: name, Value: value}
		}
		return []float64{f}, true, nil
	case float32:
		return []float32{v}, false, nil
	case float64:
		return []float64{v}, false, nil
	case uint8:
		return []uint8{v}, false, nil
	case int8:
		return []uint8{uint8(v)}, false, nil
	case int16:
		return []int16{v}, false, nil
	case []interface{}:
		o := make([]float64, len(v))
		for i, e := range v {
			f, err := cast.ToFloat64E(e)
			if err != nil {
				return nil, false, UnsupportedTypeError{Attribute: name, Value: value}
			}
			o[i] = f
		}
		return o, false, nil
	case []uint8, []int16, []int32, []float32, []float64:
		return v, false, nil
	case []int64:
		o := make([]float64, len(v))
		for i, e := range v {
			o[i] = float64(e)
		}
		return o, false, nil
	case []bool:
		o := make([]uint8, len(v))
		for i, e := range v {
			if e {
				o[i] = 1
			}
		}
		return o, false, nil
	}
	return nil, false, UnsupportedTypeError{Attribute: name, Value: value}
}
