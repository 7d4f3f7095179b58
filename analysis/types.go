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

import (
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/penny-vault/pv-returns/dataframe"
	"github.com/penny-vault/pv-returns/drawdown"
	"go.uber.org/multierr"
)

// Column names of the returns dataframe attached to a report
const (
	PriceCol            = "PRICE"
	ReturnCol           = "RETURN"
	CumulativeReturnCol = "CUMULATIVE_RETURN"
	RiskFreeCol         = "RISK_FREE"
	ExcessReturnCol     = "EXCESS_RETURN"
)

// Summary collects the headline statistics of an analysis. Statistics that
// are undefined for the input are NaN and the reason is recorded in
// Report.Warnings.
type Summary struct {
	Asset             string
	Sharpe            float64
	Sortino           float64
	Kurtosis          float64
	Skewness          float64
	StandardDeviation float64
	Mean              float64
	TotalReturn       float64
	Drawdown          *drawdown.Summary
}

// EpisodeRow is a drawdown episode annotated with the dates of its peak,
// trough and recovery. Recovery fields are nil when the drawdown never recovered.
type EpisodeRow struct {
	PeakIndex        int        `json:"peak_index"`
	PeakDate         time.Time  `json:"peak_date"`
	PeakLevel        float64    `json:"peak_level"`
	TroughIndex      int        `json:"trough_index"`
	TroughDate       time.Time  `json:"trough_date"`
	TroughLevel      float64    `json:"trough_level"`
	RecoveryIndex    *int       `json:"recovery_index"`
	RecoveryDate     *time.Time `json:"recovery_date"`
	RecoveryLevel    *float64   `json:"recovery_level"`
	Magnitude        float64    `json:"drawdown_level_abs"`
	PeriodsToRecover *int       `json:"num_periods_to_recover"`
	PeriodsTotal     *int       `json:"num_periods_total"`
}

// Report is the result of analyzing one asset
type Report struct {
	ID       uuid.UUID
	Asset    string
	Summary  *Summary
	Episodes []EpisodeRow

	// Returns holds the aligned PRICE, RETURN, CUMULATIVE_RETURN, RISK_FREE and
	// EXCESS_RETURN columns the statistics were computed from
	Returns *dataframe.DataFrame

	Warnings []error
}

// Err combines every warning raised while computing the summary; nil when
// all statistics are defined
func (r *Report) Err() error {
	return multierr.Combine(r.Warnings...)
}

func newEpisodeRow(ep drawdown.Episode, dates []time.Time) EpisodeRow {
	row := EpisodeRow{
		PeakIndex:   ep.Peak.Index,
		PeakDate:    dates[ep.Peak.Index],
		PeakLevel:   ep.Peak.Level,
		TroughIndex: ep.Trough.Index,
		TroughDate:  dates[ep.Trough.Index],
		TroughLevel: ep.Trough.Level,
		Magnitude:   ep.Magnitude(),
	}

	if ep.Recovery != nil {
		idx := ep.Recovery.Index
		level := ep.Recovery.Level
		date := dates[idx]
		row.RecoveryIndex = &idx
		row.RecoveryLevel = &level
		row.RecoveryDate = &date
	}

	if periods, ok := ep.PeriodsToRecover(); ok {
		row.PeriodsToRecover = &periods
	}

	if periods, ok := ep.PeriodsTotal(); ok {
		row.PeriodsTotal = &periods
	}

	return row
}

func nullable(v float64) interface{} {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return v
}
