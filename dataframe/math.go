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

	"gonum.org/v1/gonum/floats"
)

// CumulativeReturn computes the return of every row relative to the first row of
// each column: (v[t] - v[0]) / v[0]. Returns a new dataframe.
func (df *DataFrame) CumulativeReturn() *DataFrame {
	df2 := df.Copy()
	for _, col := range df2.Vals {
		if len(col) == 0 {
			continue
		}
		base := col[0]
		floats.AddConst(-base, col)
		floats.Scale(1/base, col)
	}
	return df2
}

// MulScalar multiplies all columns in dataframe df by the scalar and returns a new dataframe
func (df *DataFrame) MulScalar(scalar float64) *DataFrame {
	df2 := df.Copy()
	for _, col := range df2.Vals {
		floats.Scale(scalar, col)
	}
	return df2
}

// PctChange computes the period-over-period change of each column:
// (v[t] - v[t-1]) / v[t-1]. The first row has no prior value and is NaN.
// Returns a new dataframe.
func (df *DataFrame) PctChange() *DataFrame {
	df2 := df.Copy()
	for colIdx, col := range df.Vals {
		res := df2.Vals[colIdx]
		for rowIdx := range col {
			if rowIdx == 0 {
				res[rowIdx] = math.NaN()
				continue
			}
			res[rowIdx] = (col[rowIdx] - col[rowIdx-1]) / col[rowIdx-1]
		}
	}
	return df2
}
