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

import "github.com/rs/zerolog"

func (p Point) MarshalZerologObject(e *zerolog.Event) {
	e.Int("Index", p.Index).Float64("Level", p.Level)
}

func (ep Episode) MarshalZerologObject(e *zerolog.Event) {
	e.Object("Peak", ep.Peak).Object("Trough", ep.Trough).Float64("Magnitude", ep.Magnitude())
	if ep.Recovery != nil {
		e.Object("Recovery", ep.Recovery)
	}
}

func (s *Summary) MarshalZerologObject(e *zerolog.Event) {
	e.Float64("MaxDrawdown", s.MaxDrawdown).
		Int("NumEpisodes", s.NumEpisodes).
		Int("NumRecovered", s.NumRecovered).
		Float64("AverageDrawdown", s.AverageDrawdown).
		Float64("AveragePeriodsToRecover", s.AveragePeriodsToRecover).
		Float64("AveragePeriodsTotal", s.AveragePeriodsTotal)
}
