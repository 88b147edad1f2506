package rasternc

import (
	"fmt"
	"strings"
)

// A SampleType is the element type of the samples stored in a variable.
// The types correspond to the storage types of the classic NetCDF format.
type SampleType int

// The supported sample types.
const (
	Byte   SampleType = iota + 1 // unsigned 8-bit integers
	Char                         // text
	Short                        // signed 16-bit integers
	Int                          // signed 32-bit integers
	Float                        // 32-bit floating point numbers
	Double                       // 64-bit floating point numbers
)

func (t SampleType) String() string {
	switch t {
	case Byte:
		return "byte"
	case Char:
		return "char"
	case Short:
		return "short"
	case Int:
		return "int"
	case Float:
		return "float"
	case Double:
		return "double"
	}
	return fmt.Sprintf("SampleType(%d)", int(t))
}

// ParseSampleType returns the sample type named by s.
func ParseSampleType(s string) (SampleType, error) {
	switch strings.ToLower(s) {
	case "byte":
		return Byte, nil
	case "char":
		return Char, nil
	case "short":
		return Short, nil
	case "int":
		return Int, nil
	case "float":
		return Float, nil
	case "double":
		return Double, nil
	}
	return 0, fmt.Errorf("rasternc: unknown sample type %q", s)
}

// zeroValue returns an empty value of the dynamic type that the storage
// format associates with t.
func (t SampleType) zeroValue() interface{} {
	switch t {
	case Byte:
		return []uint8{}
	case Char:
		return ""
	case Short:
		return []int16{}
	case Int:
		return []int32{}
	case Float:
		return []float32{}
	case Double:
		return []float64{}
	}
	return nil
}

// sampleTypeOf classifies a storable sample slice by its dynamic type,
// returning 0 for types the storage format cannot hold.
func sampleTypeOf(values interface{}) SampleType {
	switch values.(type) {
	case []uint8:
		return Byte
	case string:
		return Char
	case []int16:
		return Short
	case []int32:
		return Int
	case []float32:
		return Float
	case []float64:
		return Double
	}
	return 0
}

// sampleLen returns the number of samples in values, or -1 if values is
// not a storable sample slice.
func sampleLen(values interface{}) int {
	switch v := values.(type) {
	case []uint8:
		return len(v)
	case string:
		return len(v)
	case []int16:
		return len(v)
	case []int32:
		return len(v)
	case []float32:
		return len(v)
	case []float64:
		return len(v)
	}
	return -1
}

// sliceSamples returns values[a:b], preserving the dynamic type.
func sliceSamples(values interface{}, a, b int) interface{} {
	switch v := values.(type) {
	case []uint8:
		return v[a:b]
	case string:
		return v[a:b]
	case []int16:
		return v[a:b]
	case []int32:
		return v[a:b]
	case []float32:
		return v[a:b]
	case []float64:
		return v[a:b]
	}
	panic(fmt.Sprintf("rasternc: cannot slice values of type %T", values))
}

// appendSamples appends the samples in src to dst, preserving the dynamic
// type. dst may be nil, in which case a new slice is allocated.
func appendSamples(dst, src interface{}) interface{} {
	switch s := src.(type) {
	case []uint8:
		if dst == nil {
			dst = []uint8{}
		}
		return append(dst.([]uint8), s...)
	case string:
		if dst == nil {
			dst = ""
		}
		return dst.(string) + s
	case []int16:
		if dst == nil {
			dst = []int16{}
		}
		return append(dst.([]int16), s...)
	case []int32:
		if dst == nil {
			dst = []int32{}
		}
		return append(dst.([]int32), s...)
	case []float32:
		if dst == nil {
			dst = []float32{}
		}
		return append(dst.([]float32), s...)
	case []float64:
		if dst == nil {
			dst = []float64{}
		}
		return append(dst.([]float64), s...)
	}
	panic(fmt.Sprintf("rasternc: cannot append values of type %T", src))
}

// FlipRows returns a copy of values, which holds the samples of a w x h
// raster block in row-major order, with the order of the rows reversed.
// It is useful for preparing blocks for writers that store rows
// bottom-up.
func FlipRows(values interface{}, w, h int) (interface{}, error) {
	if n := sampleLen(values); n != w*h {
		return nil, fmt.Errorf("rasternc: flipping rows: have %d samples for a %dx%d block", n, w, h)
	}
	var out interface{}
	for r := h - 1; r >= 0; r-- {
		out = appendSamples(out, sliceSamples(values, r*w, (r+1)*w))
	}
	return out, nil
}

// fromFloat64 converts data to a sample slice of type t.
func (t SampleType) fromFloat64(data []float64) (interface{}, error) {
	switch t {
	case Byte:
		o := make([]uint8, len(data))
		for i, v := range data {
			o[i] = uint8(v)
		}
		return o, nil
	case Short:
		o := make([]int16, len(data))
		for i, v := range data {
			o[i] = int16(v)
		}
		return o, nil
	case Int:
		o := make([]int32, len(data))
		for i, v := range data {
			o[i] = int32(v)
		}
		return o, nil
	case Float:
		o := make([]float32, len(data))
		for i, v := range data {
			o[i] = float32(v)
		}
		return o, nil
	case Double:
		o := make([]float64, len(data))
		copy(o, data)
		return o, nil
	}
	return nil, fmt.Errorf("cannot convert float64 samples to type %v", t)
}

// toFloat64 widens a numeric sample slice to []float64. Text samples
// cannot be widened.
func toFloat64(values interface{}) ([]float64, error) {
	switch v := values.(type) {
	case []uint8:
		o := make([]float64, len(v))
		for i, val := range v {
			o[i] = float64(val)
		}
		return o, nil
	case []int16:
		o := make([]float64, len(v))
		for i, val := range v {
			o[i] = float64(val)
		}
		return o, nil
	case []int32:
		o := make([]float64, len(v))
		for i, val := range v {
			o[i] = float64(val)
		}
		return o, nil
	case []float32:
		o := make([]float64, len(v))
		for i, val := range v {
			o[i] = float64(val)
		}
		return o, nil
	case []float64:
		o := make([]float64, len(v))
		copy(o, v)
		return o, nil
	}
	return nil, fmt.Errorf("rasternc: cannot convert values of type %T to float64", values)
}
