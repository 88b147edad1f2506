package rasternc

import (
	"reflect"
	"testing"
)

func TestParseSampleType(t *testing.T) {
	for _, typ := range []SampleType{Byte, Char, Short, Int, Float, Double} {
		parsed, err := ParseSampleType(typ.String())
		if err != nil {
			t.Fatal(err)
		}
		if parsed != typ {
			t.Errorf("%v != %v", typ, parsed)
		}
	}
	if parsed, err := ParseSampleType("DOUBLE"); err != nil || parsed != Double {
		t.Errorf("double != %v, %v", parsed, err)
	}
	if _, err := ParseSampleType("quadruple"); err == nil {
		t.Error("no error for an unknown type name")
	}
}

func TestFlipRows(t *testing.T) {
	flipped, err := FlipRows([]int32{
		1, 2, 3,
		4, 5, 6,
	}, 3, 2)
	if err != nil {
		t.Fatal(err)
	}
	want := []int32{
		4, 5, 6,
		1, 2, 3,
	}
	if !reflect.DeepEqual(flipped, want) {
		t.Errorf("%v != %v", want, flipped)
	}

	text, err := FlipRows("abcd", 2, 2)
	if err != nil {
		t.Fatal(err)
	}
	if text != "cdab" {
		t.Errorf("cdab != %v", text)
	}

	if _, err := FlipRows([]int32{1, 2, 3}, 2, 2); err == nil {
		t.Error("no error for a sample count mismatch")
	}
}
