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
)

// A Rect is an axis-aligned rectangle of samples within a scene, in
// pixel coordinates. X and Y locate the corner with the lowest indices.
type Rect struct {
	X, Y, W, H int
}

func (r Rect) String() string {
	return fmt.Sprintf("%dx%d+%d+%d", r.W, r.H, r.X, r.Y)
}

// tileRects splits a sceneW x sceneH scene into tiles of at most
// tileW x tileH samples, in row-major order. Tiles in the last row and
// column are clamped to the scene boundary.
func tileRects(sceneW, sceneH, tileW, tileH int) []Rect {
	var rects []Rect
	for y := 0; y < sceneH; y += tileH {
		h := tileH
		if y+h > sceneH {
			h = sceneH - y
		}
		for x := 0; x < sceneW; x += tileW {
			w := tileW
			if x+w > sceneW {
				w = sceneW - x
			}
			rects = append(rects, Rect{X: x, Y: y, W: w, H: h})
		}
	}
	return rects
}

// A chunkWriter writes rectangular chunks of a two-dimensional
// variable, writing each distinct chunk at most once.
type chunkWriter struct {
	st   Store
	name string

	// sceneH and sceneW are the variable's dimension lengths: height
	// is the first dimension, width the second.
	sceneH, sceneW int

	// flip indicates that chunk Y coordinates are measured from the
	// bottom of the scene, while storage rows run top-down.
	flip bool

	// mu guards written and serializes writes to the store, which
	// accepts only one write at a time.
	mu      *sync.Mutex
	written map[Rect]struct{}
}

// newChunkWriter plans chunked writing for the named two-dimensional
// variable, splitting it into chunks of at most tileW x tileH samples.
// mu must be the mutex that serializes all writes to st.
func newChunkWriter(st Store, name string, tileW, tileH int, flip bool, mu *sync.Mutex) (*chunkWriter, error) {
	lengths := st.Lengths(name)
	if lengths == nil {
		return nil, fmt.Errorf("rasternc: planning chunks: no variable %s in file", name)
	}
	if len(lengths) != 2 {
		return nil, fmt.Errorf("rasternc: planning chunks for %s: have %d dimensions, need 2", name, len(lengths))
	}
	sceneH, sceneW := lengths[0], lengths[1]
	n := ((sceneW + tileW - 1) / tileW) * ((sceneH + tileH - 1) / tileH)
	return &chunkWriter{
		st:      st,
		name:    name,
		sceneH:  sceneH,
		sceneW:  sceneW,
		flip:    flip,
		mu:      mu,
		written: make(map[Rect]struct{}, n),
	}, nil
}

// writeChunk writes the samples in values into the chunk at rect. Each
// distinct rectangle is written at most once; repeated calls for a
// rectangle that has already been written do nothing. A failed write is
// not recorded as written, so it may be retried.
func (cw *chunkWriter) writeChunk(rect Rect, values interface{}) error {
	n := sampleLen(values)
	if n < 0 {
		return &WriteError{Op: "writing chunk", Variable: cw.name,
			Err: fmt.Errorf("cannot store values of type %T", values)}
	}
	if n != rect.W*rect.H {
		return &WriteError{Op: "writing chunk", Variable: cw.name,
			Err: fmt.Errorf("have %d samples for chunk %v", n, rect)}
	}
	y := rect.Y
	if cw.flip {
		y = cw.sceneH - rect.Y - rect.H
	}
	cw.mu.Lock()
	defer cw.mu.Unlock()
	if _, ok := cw.written[rect]; ok {
		return nil
	}
	if err := cw.st.WriteBlock(cw.name, []int{y, rect.X}, []int{rect.H, rect.W}, values); err != nil {
		return &WriteError{Op: "writing chunk", Variable: cw.name, Err: err}
	}
	cw.written[rect] = struct{}{}
	return nil
}
