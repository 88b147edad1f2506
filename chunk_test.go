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
	"reflect"
	"strings"
	"sync"
	"testing"
)

// A fakeStore records the block writes made to it. The first failures
// writes return an error without recording anything.
type fakeStore struct {
	lengths  map[string][]int
	failures int
	writes   []fakeWrite
}

type fakeWrite struct {
	variable      string
	origin, shape []int
}

func (s *fakeStore) Lengths(v string) []int { return s.lengths[v] }

func (s *fakeStore) WriteBlock(v string, origin, shape []int, values interface{}) error {
	if s.failures > 0 {
		s.failures--
		return fmt.Errorf("broken pipe")
	}
	s.writes = append(s.writes, fakeWrite{
		variable: v,
		origin:   append([]int{}, origin...),
		shape:    append([]int{}, shape...),
	})
	return nil
}

func TestTileRects(t *testing.T) {
	rects := tileRects(10, 7, 4, 3)
	want := []Rect{
		{X: 0, Y: 0, W: 4, H: 3}, {X: 4, Y: 0, W: 4, H: 3}, {X: 8, Y: 0, W: 2, H: 3},
		{X: 0, Y: 3, W: 4, H: 3}, {X: 4, Y: 3, W: 4, H: 3}, {X: 8, Y: 3, W: 2, H: 3},
		{X: 0, Y: 6, W: 4, H: 1}, {X: 4, Y: 6, W: 4, H: 1}, {X: 8, Y: 6, W: 2, H: 1},
	}
	if !reflect.DeepEqual(rects, want) {
		t.Errorf("%v != %v", want, rects)
	}

	t.Run("single tile", func(t *testing.T) {
		rects := tileRects(3, 2, 512, 512)
		want := []Rect{{X: 0, Y: 0, W: 3, H: 2}}
		if !reflect.DeepEqual(rects, want) {
			t.Errorf("%v != %v", want, rects)
		}
	})
}

func TestChunkWriter(t *testing.T) {
	newTestWriter := func(st *fakeStore, flip bool) *chunkWriter {
		cw, err := newChunkWriter(st, "data", 3, 2, flip, new(sync.Mutex))
		if err != nil {
			t.Fatal(err)
		}
		return cw
	}

	t.Run("write once", func(t *testing.T) {
		st := &fakeStore{lengths: map[string][]int{"data": {4, 6}}}
		cw := newTestWriter(st, false)
		vals := make([]float32, 6)
		if err := cw.writeChunk(Rect{X: 3, Y: 2, W: 3, H: 2}, vals); err != nil {
			t.Fatal(err)
		}
		if err := cw.writeChunk(Rect{X: 3, Y: 2, W: 3, H: 2}, vals); err != nil {
			t.Fatal(err)
		}
		if len(st.writes) != 1 {
			t.Fatalf("1 != %d writes", len(st.writes))
		}
		want := fakeWrite{variable: "data", origin: []int{2, 3}, shape: []int{2, 3}}
		if !reflect.DeepEqual(st.writes[0], want) {
			t.Errorf("%v != %v", want, st.writes[0])
		}
	})

	t.Run("concurrent writes", func(t *testing.T) {
		st := &fakeStore{lengths: map[string][]int{"data": {4, 6}}}
		cw := newTestWriter(st, false)
		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if err := cw.writeChunk(Rect{W: 3, H: 2}, make([]float32, 6)); err != nil {
					t.Error(err)
				}
			}()
		}
		wg.Wait()
		if len(st.writes) != 1 {
			t.Errorf("1 != %d writes", len(st.writes))
		}
	})

	t.Run("flip", func(t *testing.T) {
		st := &fakeStore{lengths: map[string][]int{"data": {10, 6}}}
		cw := newTestWriter(st, true)
		if err := cw.writeChunk(Rect{X: 3, Y: 2, W: 3, H: 2}, make([]float32, 6)); err != nil {
			t.Fatal(err)
		}
		// Row 2 from the bottom of a 10-row scene starts at storage row 6.
		want := fakeWrite{variable: "data", origin: []int{6, 3}, shape: []int{2, 3}}
		if !reflect.DeepEqual(st.writes[0], want) {
			t.Errorf("%v != %v", want, st.writes[0])
		}
	})

	t.Run("failed write can be retried", func(t *testing.T) {
		st := &fakeStore{lengths: map[string][]int{"data": {4, 6}}, failures: 1}
		cw := newTestWriter(st, false)
		if err := cw.writeChunk(Rect{W: 3, H: 2}, make([]float32, 6)); err == nil {
			t.Fatal("no error from the failed write")
		}
		if len(cw.written) != 0 {
			t.Fatalf("failed write was recorded")
		}
		if err := cw.writeChunk(Rect{W: 3, H: 2}, make([]float32, 6)); err != nil {
			t.Fatal(err)
		}
		if len(st.writes) != 1 {
			t.Errorf("1 != %d writes", len(st.writes))
		}
		if len(cw.written) != 1 {
			t.Errorf("1 != %d recorded chunks", len(cw.written))
		}
	})

	t.Run("bad values", func(t *testing.T) {
		st := &fakeStore{lengths: map[string][]int{"data": {4, 6}}}
		cw := newTestWriter(st, false)
		err := cw.writeChunk(Rect{W: 3, H: 2}, 42)
		if err == nil || !strings.Contains(err.Error(), "cannot store values of type int") {
			t.Errorf("unexpected error %v", err)
		}
		err = cw.writeChunk(Rect{W: 3, H: 2}, make([]float32, 5))
		if err == nil || !strings.Contains(err.Error(), "have 5 samples for chunk 3x2+0+0") {
			t.Errorf("unexpected error %v", err)
		}
		if len(st.writes) != 0 {
			t.Errorf("0 != %d writes", len(st.writes))
		}
	})

	t.Run("unknown variable", func(t *testing.T) {
		st := &fakeStore{lengths: map[string][]int{"data": {4, 6}}}
		if _, err := newChunkWriter(st, "missing", 3, 2, false, new(sync.Mutex)); err == nil {
			t.Error("no error for an unknown variable")
		}
	})

	t.Run("wrong dimensions", func(t *testing.T) {
		st := &fakeStore{lengths: map[string][]int{"t": {9}}}
		if _, err := newChunkWriter(st, "t", 3, 2, false, new(sync.Mutex)); err == nil {
			t.Error("no error for a one-dimensional variable")
		}
	})
}
