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

import (
	"math"

	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/stat"
)

// Episodes is an ordered, non-overlapping collection of drawdowns in the
// order they were found
type Episodes []Episode

// Summary aggregates a collection of episodes. Aggregates that cannot be
// computed are NaN; see Defined.
type Summary struct {
	MaxDrawdown             float64
	NumEpisodes             int
	NumRecovered            int
	AverageDrawdown         float64
	AveragePeriodsToRecover float64
	AveragePeriodsTotal     float64
}

// Defined reports whether at least one episode contributed to the summary
func (s *Summary) Defined() bool {
	return s.NumEpisodes > 0
}

// Analyze segments the cumulative-return curve seq into drawdown episodes and
// summarizes them. Each search resumes at the previous episode's recovery
// index; scanning stops when no further peak exists or after an episode that
// never recovered.
func Analyze(seq []float64) (Episodes, *Summary) {
	episodes := Episodes{}

	cursor := 0
	for {
		ep, ok := FindEpisode(seq, cursor)
		if !ok {
			break
		}
		episodes = append(episodes, ep)
		if !ep.Recovered() {
			break
		}
		cursor = ep.Recovery.Index
	}

	summary := episodes.Summarize()
	log.Debug().Int("Length", len(seq)).Int("NumEpisodes", summary.NumEpisodes).Int("NumRecovered", summary.NumRecovered).Msg("drawdown analysis complete")

	return episodes, summary
}

// Summarize computes the aggregate statistics of the collection. Period
// averages only consider recovered episodes.
func (episodes Episodes) Summarize() *Summary {
	summary := &Summary{
		MaxDrawdown:             math.NaN(),
		NumEpisodes:             len(episodes),
		AverageDrawdown:         math.NaN(),
		AveragePeriodsToRecover: math.NaN(),
		AveragePeriodsTotal:     math.NaN(),
	}

	if len(episodes) == 0 {
		return summary
	}

	magnitudes := make([]float64, 0, len(episodes))
	toRecover := make([]float64, 0, len(episodes))
	total := make([]float64, 0, len(episodes))

	for _, ep := range episodes {
		magnitudes = append(magnitudes, ep.Magnitude())
		if periods, ok := ep.PeriodsToRecover(); ok {
			toRecover = append(toRecover, float64(periods))
		}
		if periods, ok := ep.PeriodsTotal(); ok {
			total = append(total, float64(periods))
		}
	}

	summary.MaxDrawdown = magnitudes[0]
	for _, m := range magnitudes[1:] {
		summary.MaxDrawdown = math.Min(summary.MaxDrawdown, m)
	}
	summary.AverageDrawdown = stat.Mean(magnitudes, nil)
	summary.NumRecovered = len(toRecover)

	if len(toRecover) > 0 {
		summary.AveragePeriodsToRecover = stat.Mean(toRecover, nil)
		summary.AveragePeriodsTotal = stat.Mean(total, nil)
	}

	return summary
}

// Unresolved returns the trailing episode that never recovered, if any
func (episodes Episodes) Unresolved() (Episode, bool) {
	if len(episodes) == 0 {
		return Episode{}, false
	}
	last := episodes[len(episodes)-1]
	return last, !last.Recovered()
}
