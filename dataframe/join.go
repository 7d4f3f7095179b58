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

package dataframe

import (
	"math"

	"github.com/rs/zerolog/log"
)

// LeftJoin aligns the columns of other onto the dates of df and returns a new
// dataframe holding the columns of both. Both dataframes must be sorted by
// date. Dates of df that other cannot supply are NaN (see FillPolicy). If
// not a single date can be supplied the dataframes do not describe the same
// period and ErrDateIndexNotAligned is returned.
func (df *DataFrame) LeftJoin(other *DataFrame, fill FillPolicy) (*DataFrame, error) {
	res := df.Copy()
	joined := make([][]float64, len(other.Vals))
	for colIdx := range joined {
		joined[colIdx] = make([]float64, df.Len())
	}

	matched := 0
	otherIdx := 0
	for rowIdx, date := range df.Dates {
		// advance to the last row of other on or before date
		for otherIdx < other.Len() && !other.Dates[otherIdx].After(date) {
			otherIdx++
		}

		srcIdx := -1
		if otherIdx > 0 {
			prev := otherIdx - 1
			switch fill {
			case FillForward:
				srcIdx = prev
			default:
				if other.Dates[prev].Equal(date) {
					srcIdx = prev
				}
			}
		}

		for colIdx := range joined {
			if srcIdx == -1 {
				joined[colIdx][rowIdx] = math.NaN()
			} else {
				joined[colIdx][rowIdx] = other.Vals[colIdx][srcIdx]
			}
		}

		if srcIdx != -1 {
			matched++
		}
	}

	if df.Len() > 0 && matched == 0 {
		log.Warn().Time("Start", df.Start()).Time("End", df.End()).Time("OtherStart", other.Start()).Time("OtherEnd", other.End()).Str("Fill", string(fill)).Msg("no overlapping dates between dataframes")
		return nil, ErrDateIndexNotAligned
	}

	res.ColNames = append(res.ColNames, other.ColNames...)
	res.Vals = append(res.Vals, joined...)

	return res, nil
}
