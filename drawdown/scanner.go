// Copyright 2021-2023
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package drawdown

// Point is a single observation of a sequence
type Point struct {
	Index int
	Level float64
}

// searchStart returns the first index examined by a forward scan that begins
// strictly after start. Index 0 has no left neighbour so it is never a candidate.
func searchStart(start int) int {
	if start < 0 {
		return 1
	}
	return start + 1
}

// NextLocalMax returns the first interior point after start that is at least
// as high as both of its neighbours. The last index of seq is never returned.
func NextLocalMax(seq []float64, start int) (Point, bool) {
	for ii := searchStart(start); ii < len(seq)-1; ii++ {
		if seq[ii] >= seq[ii-1] && seq[ii] >= seq[ii+1] {
			return Point{Index: ii, Level: seq[ii]}, true
		}
	}
	return Point{}, false
}

// NextLocalMin returns the first interior point after start that is at most
// as high as both of its neighbours. The last index of seq is never returned.
func NextLocalMin(seq []float64, start int) (Point, bool) {
	for ii := searchStart(start); ii < len(seq)-1; ii++ {
		if seq[ii] <= seq[ii-1] && seq[ii] <= seq[ii+1] {
			return Point{Index: ii, Level: seq[ii]}, true
		}
	}
	return Point{}, false
}

// NextGreaterThan returns the first interior point after start whose level
// exceeds threshold. Like the extremum searches it stops before the last index,
// so a series that only climbs above threshold on its final observation
// reports no match.
func NextGreaterThan(seq []float64, start int, threshold float64) (Point, bool) {
	ii := start + 1
	if ii < 0 {
		ii = 0
	}
	for ; ii < len(seq)-1; ii++ {
		if seq[ii] > threshold {
			return Point{Index: ii, Level: seq[ii]}, true
		}
	}
	return Point{}, false
}

// minimum returns the lowest point of seq[from:to]; ties resolve to the
// earliest index. The caller guarantees from < to.
func minimum(seq []float64, from, to int) Point {
	low := Point{Index: from, Level: seq[from]}
	for ii := from + 1; ii < to; ii++ {
		if seq[ii] < low.Level {
			low = Point{Index: ii, Level: seq[ii]}
		}
	}
	return low
}
