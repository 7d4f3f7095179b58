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
	"errors"
	"time"
)

// DataFrame stores a table of values organized by date
// the vals array is column major - e.g.,
// PRICE  RETURN
// 1      NaN
// 2      1.0
// 3      0.5
//
// Vals[0][1] = 2
// Vals[1][1] = 1.0
type DataFrame struct {
	Dates    []time.Time
	ColNames []string
	Vals     [][]float64
}

// FillPolicy controls how values missing on a date are filled during a join
type FillPolicy string

const (
	// FillNone leaves dates without an exact match as NaN
	FillNone FillPolicy = "none"

	// FillForward carries the most recent earlier observation forward
	FillForward FillPolicy = "forward"
)

var (
	ErrDateIndexNotAligned = errors.New("date index does not align")
	ErrColumnNotFound      = errors.New("column not found")
	ErrUnknownFillPolicy   = errors.New("unknown fill policy")
)

// ParseFillPolicy converts a configuration string into a FillPolicy
func ParseFillPolicy(s string) (FillPolicy, error) {
	switch FillPolicy(s) {
	case FillNone, "":
		return FillNone, nil
	case FillForward:
		return FillForward, nil
	default:
		return "", ErrUnknownFillPolicy
	}
}
