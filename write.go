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
	"fmt"
	"runtime"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/sirupsen/logrus"
)

// A TileFunc computes the samples for one tile of a variable. It must
// be safe for concurrent use.
type TileFunc func(rect Rect) (interface{}, error)

// writeRetries is the number of times a failed tile write is retried.
const writeRetries = 4

// WriteTiled writes the two-dimensional variable v tile by tile,
// computing the samples for each tile with tile. The tiles match the
// variable's chunk grid, with tiles in the last row and column clamped
// to the scene boundary. workers tiles are computed and written
// concurrently; if workers is less than 1, the number of available
// CPUs is used.
//
// Failed tile writes are retried with exponential backoff; a chunk is
// only recorded as written when its write succeeds, so retrying never
// duplicates data. If ctx is canceled, no new tiles are started, tiles
// already in progress are completed, and ctx's error is returned.
func (fw *FileWriter) WriteTiled(ctx context.Context, v *Variable, yFlipped bool, tile TileFunc, workers int) error {
	if fw.f == nil {
		return &WriteError{Op: "writing tiles", Variable: v.name,
			Err: fmt.Errorf("the file has not been created yet")}
	}
	lengths := fw.store().Lengths(v.name)
	if len(lengths) != 2 {
		return &WriteError{Op: "writing tiles", Variable: v.name,
			Err: fmt.Errorf("have %d dimensions, need 2", len(lengths))}
	}
	if workers < 1 {
		workers = runtime.GOMAXPROCS(-1)
	}
	rects := tileRects(lengths[1], lengths[0], fw.tileW(), fw.tileH())
	fw.logger().WithFields(logrus.Fields{
		"variable": v.name,
		"tiles":    len(rects),
		"workers":  workers,
	}).Info("rasternc writing tiled variable")

	jobChan := make(chan Rect, len(rects))
	errChan := make(chan error)
	for x := 0; x < workers; x++ {
		go func() {
			for rect := range jobChan {
				if err := ctx.Err(); err != nil {
					errChan <- err
					return
				}
				values, err := tile(rect)
				if err != nil {
					errChan <- fmt.Errorf("rasternc: computing tile %v of %s: %v", rect, v.name, err)
					return
				}
				err = backoff.RetryNotify(
					func() error {
						return v.Write(rect.X, rect.Y, rect.W, rect.H, yFlipped, values)
					},
					backoff.WithMaxRetries(backoff.NewExponentialBackOff(), writeRetries),
					func(err error, d time.Duration) {
						fw.logger().WithFields(logrus.Fields{
							"variable": v.name,
							"tile":     rect.String(),
						}).Warnf("%v: retrying in %v", err, d)
					},
				)
				if err != nil {
					errChan <- err
					return
				}
			}
			errChan <- nil
		}()
	}
	for _, rect := range rects {
		if ctx.Err() != nil {
			break
		}
		jobChan <- rect
	}
	close(jobChan)
	var firstErr error
	for x := 0; x < workers; x++ {
		if err := <-errChan; err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if firstErr != nil {
		return firstErr
	}
	return ctx.Err()
}
