/*
Copyright © 2020 the RasterNC authors.
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
	"context"
	"encoding/gob"
	"fmt"
	"hash/fnv"
	"runtime"
	"sync"

	"github.com/ctessum/cdf"
	"github.com/ctessum/requestcache"
	"github.com/davecgh/go-spew/spew"
)

// A Reader reads variables and attributes back from a raster file.
type Reader struct {
	cdf.File

	// CacheSize specifies the number of blocks to be held in the
	// memory cache used by ReadRect. Larger numbers lead to faster
	// repeated access but greater memory use. The default is 100.
	// CacheSize can only be changed before the first call to ReadRect.
	CacheSize int

	// blockCache is a cache for rectangular block reads.
	blockCache *requestcache.Cache
	// blockInit is used to initialize blockCache.
	blockInit sync.Once
}

// NewReader creates a Reader for the file stored in r.
func NewReader(r cdf.ReaderWriterAt) (*Reader, error) {
	cf, err := cdf.Open(r)
	if err != nil {
		return nil, err
	}
	return &Reader{File: *cf, CacheSize: 100}, nil
}

// SampleTypeOf returns the sample type of the variable v.
func (r *Reader) SampleTypeOf(v string) (SampleType, error) {
	if t := sampleTypeOf(r.Header.ZeroValue(v, 0)); t != 0 {
		return t, nil
	}
	return 0, fmt.Errorf("rasternc: no variable %s in file", v)
}

// Attribute returns the value of the attribute a of the variable v, or
// of the global attribute a if v is empty. The attribute name is
// normalized the same way as when writing. The result is nil if there
// is no such attribute, and is shared by all callers: do not modify it.
func (r *Reader) Attribute(v, a string) interface{} {
	return r.Header.GetAttribute(v, normalizeAttrName(a))
}

// ReadFully reads and returns all samples of the variable v. The
// returned slice is typed according to the variable's sample type;
// text variables are read as []uint8.
func (r *Reader) ReadFully(v string) (interface{}, error) {
	rr := r.File.Reader(v, nil, nil)
	if rr == nil {
		return nil, fmt.Errorf("rasternc: reading %s: no such variable", v)
	}
	buf := rr.Zero(-1)
	if _, err := rr.Read(buf); err != nil {
		return nil, fmt.Errorf("rasternc: reading %s: %v", v, err)
	}
	return buf, nil
}

// blockRequest identifies one rectangular block read.
type blockRequest struct {
	V string
	R Rect
}

// ReadRect reads the samples of the block rect of the two-dimensional
// variable v, in row-major order. Results are cached and concurrent
// requests for the same block are deduplicated, so the returned slice
// may be shared by several callers: do not modify it.
func (r *Reader) ReadRect(ctx context.Context, v string, rect Rect) (interface{}, error) {
	r.blockInit.Do(func() {
		r.blockCache = requestcache.NewCache(func(ctx context.Context, request interface{}) (interface{}, error) {
			req := request.(blockRequest)
			return r.readBlock(req.V, req.R)
		}, runtime.GOMAXPROCS(-1),
			requestcache.Deduplicate(), requestcache.Memory(r.CacheSize))
	})
	req := r.blockCache.NewRequest(ctx, blockRequest{V: v, R: rect}, cacheKey(blockRequest{V: v, R: rect}))
	return req.Result()
}

// readBlock reads one rectangular block, row by row.
func (r *Reader) readBlock(v string, rect Rect) (interface{}, error) {
	lengths := r.Header.Lengths(v)
	if lengths == nil {
		return nil, fmt.Errorf("rasternc: reading %s: no such variable", v)
	}
	if len(lengths) != 2 {
		return nil, fmt.Errorf("rasternc: reading block of %s: have %d dimensions, need 2", v, len(lengths))
	}
	if rect.X < 0 || rect.Y < 0 || rect.W < 1 || rect.H < 1 ||
		rect.X+rect.W > lengths[1] || rect.Y+rect.H > lengths[0] {
		return nil, fmt.Errorf("rasternc: reading block of %s: %v is outside the %dx%d scene",
			v, rect, lengths[1], lengths[0])
	}
	var out interface{}
	for row := 0; row < rect.H; row++ {
		begin := []int{rect.Y + row, rect.X}
		end := []int{rect.Y + row, rect.X + rect.W - 1}
		rr := r.File.Reader(v, begin, end)
		buf := rr.Zero(-1)
		if _, err := rr.Read(buf); err != nil {
			return nil, fmt.Errorf("rasternc: reading block of %s: row %d: %v", v, rect.Y+row, err)
		}
		out = appendSamples(out, buf)
	}
	return out, nil
}

// cacheKey returns a stable string key for a cached request. Types that
// implement fmt.Stringer are keyed by their String output; other types
// are keyed by a hash of their gob encoding, with a reflection-based
// dump as the fallback for values gob cannot encode.
func cacheKey(object interface{}) string {
	if s, ok := object.(fmt.Stringer); ok {
		return s.String()
	}
	h := fnv.New128a()
	e := gob.NewEncoder(h)
	if err := e.Encode(object); err == nil {
		return fmt.Sprintf("%x", h.Sum(nil))
	}
	printer := spew.ConfigState{
		Indent:                  " ",
		SortKeys:                true,
		DisableMethods:          true,
		SpewKeys:                true,
		DisablePointerAddresses: true,
		DisableCapacities:       true,
	}
	printer.Fprintf(h, "%#v", object)
	return fmt.Sprintf("%x", h.Sum(nil))
}
