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

package analysis

import "github.com/rs/zerolog"

func (s *Summary) MarshalZerologObject(e *zerolog.Event) {
	e.Str("Asset", s.Asset).
		Float64("Sharpe", s.Sharpe).
		Float64("Sortino", s.Sortino).
		Float64("Kurtosis", s.Kurtosis).
		Float64("Skewness", s.Skewness).
		Float64("StandardDeviation", s.StandardDeviation).
		Float64("Mean", s.Mean).
		Float64("TotalReturn", s.TotalReturn)
	if s.Drawdown != nil {
		e.Object("Drawdown", s.Drawdown)
	}
}

func (row EpisodeRow) MarshalZerologObject(e *zerolog.Event) {
	e.Time("Peak", row.PeakDate).Time("Trough", row.TroughDate).Float64("Magnitude", row.Magnitude)
	if row.RecoveryDate != nil {
		e.Time("Recovery", *row.RecoveryDate)
	}
}
