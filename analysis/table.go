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
	"fmt"
	"math"
	"strings"

	"github.com/goccy/go-json"
	"github.com/olekukonko/tablewriter"
)

// KeyValue is one row of the flat summary table. Value is a string, an int or
// a float64.
type KeyValue struct {
	Key   string
	Value interface{}
}

// Table flattens the summary into its key/value rows, asset label first
func (s *Summary) Table() []KeyValue {
	rows := []KeyValue{
		{"asset_name", s.Asset},
		{"total_return", s.TotalReturn},
		{"mean", s.Mean},
		{"standard_deviation", s.StandardDeviation},
		{"skewness", s.Skewness},
		{"kurtosis", s.Kurtosis},
		{"sharpe", s.Sharpe},
		{"sortino", s.Sortino},
	}

	if s.Drawdown != nil {
		rows = append(rows,
			KeyValue{"average_drawdown", s.Drawdown.AverageDrawdown},
			KeyValue{"average_periods_total", s.Drawdown.AveragePeriodsTotal},
			KeyValue{"average_periods_to_recover", s.Drawdown.AveragePeriodsToRecover},
			KeyValue{"num_drawdowns", s.Drawdown.NumEpisodes},
			KeyValue{"num_recovered_drawdowns", s.Drawdown.NumRecovered},
			KeyValue{"max_drawdown", s.Drawdown.MaxDrawdown},
		)
	}

	return rows
}

// MarshalJSON writes the summary as a flat object. Undefined statistics are null.
func (s *Summary) MarshalJSON() ([]byte, error) {
	obj := make(map[string]interface{})
	for _, kv := range s.Table() {
		if f, ok := kv.Value.(float64); ok {
			obj[kv.Key] = nullable(f)
			continue
		}
		obj[kv.Key] = kv.Value
	}
	return json.Marshal(obj)
}

type reportJSON struct {
	ID       string       `json:"id"`
	Asset    string       `json:"asset"`
	Summary  *Summary     `json:"summary"`
	Episodes []EpisodeRow `json:"episodes"`
	Warnings []string     `json:"warnings"`
}

// MarshalJSON serializes the summary, episodes and warnings of the report. The
// returns dataframe is not included.
func (r *Report) MarshalJSON() ([]byte, error) {
	out := reportJSON{
		ID:       r.ID.String(),
		Asset:    r.Asset,
		Summary:  r.Summary,
		Episodes: r.Episodes,
		Warnings: make([]string, 0, len(r.Warnings)),
	}

	if out.Episodes == nil {
		out.Episodes = []EpisodeRow{}
	}

	for _, w := range r.Warnings {
		out.Warnings = append(out.Warnings, w.Error())
	}

	return json.Marshal(out)
}

// SummaryTable renders the summary as a two column ASCII table
func (r *Report) SummaryTable() string {
	s := &strings.Builder{}
	table := tablewriter.NewWriter(s)
	table.SetHeader([]string{"Statistic", "Value"})
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)

	if r.Summary != nil {
		for _, kv := range r.Summary.Table() {
			table.Append([]string{kv.Key, formatValue(kv.Value)})
		}
	}

	table.Render()
	return s.String()
}

// EpisodeTable renders one row per drawdown episode. Fields of an episode
// that never recovered are shown as "-".
func (r *Report) EpisodeTable() string {
	if len(r.Episodes) == 0 {
		return "<NO DRAWDOWNS>"
	}

	s := &strings.Builder{}
	table := tablewriter.NewWriter(s)
	table.SetHeader([]string{"Peak", "Trough", "Recovery", "Drawdown", "Periods To Recover", "Periods Total"})
	table.SetBorder(false)

	for _, row := range r.Episodes {
		recovery := "-"
		if row.RecoveryDate != nil {
			recovery = row.RecoveryDate.Format("2006-01-02")
		}
		table.Append([]string{
			row.PeakDate.Format("2006-01-02"),
			row.TroughDate.Format("2006-01-02"),
			recovery,
			fmt.Sprintf("%.2f%%", row.Magnitude*100),
			formatPeriods(row.PeriodsToRecover),
			formatPeriods(row.PeriodsTotal),
		})
	}

	table.Render()
	return s.String()
}

func formatPeriods(periods *int) string {
	if periods == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *periods)
}

func formatValue(v interface{}) string {
	switch val := v.(type) {
	case float64:
		if math.IsNaN(val) {
			return "NaN"
		}
		return fmt.Sprintf("%.4f", val)
	case int:
		return fmt.Sprintf("%d", val)
	default:
		return fmt.Sprintf("%v", val)
	}
}
