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

// Episode is one peak -> trough -> recovery cycle of a cumulative-return
// curve. Recovery is nil when the series ended before regaining the peak;
// only the final episode of a scan can be unresolved.
type Episode struct {
	Peak     Point
	Trough   Point
	Recovery *Point
}

// Recovered reports whether the curve climbed back above the peak
func (ep Episode) Recovered() bool {
	return ep.Recovery != nil
}

// Magnitude is the trough level minus the peak level; always <= 0
func (ep Episode) Magnitude() float64 {
	return ep.Trough.Level - ep.Peak.Level
}

// PeriodsToRecover is the number of periods from trough to recovery
func (ep Episode) PeriodsToRecover() (int, bool) {
	if ep.Recovery == nil {
		return 0, false
	}
	return ep.Recovery.Index - ep.Trough.Index, true
}

// PeriodsTotal is the number of periods from peak to recovery
func (ep Episode) PeriodsTotal() (int, bool) {
	if ep.Recovery == nil {
		return 0, false
	}
	return ep.Recovery.Index - ep.Peak.Index, true
}

// FindEpisode locates the next drawdown whose peak lies after start. The
// trough is the lowest point between the peak and the recovery (inclusive),
// or between the peak and the end of the series when no recovery occurs.
// Returns false when there is no further interior peak.
func FindEpisode(seq []float64, start int) (Episode, bool) {
	peak, ok := NextLocalMax(seq, start)
	if !ok {
		return Episode{}, false
	}

	recovery, ok := NextGreaterThan(seq, peak.Index, peak.Level)
	if !ok {
		return Episode{
			Peak:   peak,
			Trough: minimum(seq, peak.Index, len(seq)),
		}, true
	}

	return Episode{
		Peak:     peak,
		Trough:   minimum(seq, peak.Index, recovery.Index+1),
		Recovery: &recovery,
	}, true
}
