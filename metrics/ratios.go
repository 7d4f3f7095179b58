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

package metrics

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// SharpeRatio is the average return earned in excess of the risk-free rate
// per unit of volatility, annualized by the square root of the number of
// periods in a year.
//
// Sharpe = mean(Rp - Rf) / σ(Rp - Rf) * √periodsPerYear
//
// σ is the population standard deviation. Absent (NaN) periods are ignored.
func SharpeRatio(excess []float64, periodsPerYear int) (float64, error) {
	if periodsPerYear <= 0 {
		return math.NaN(), ErrInvalidPeriods
	}

	vals := present(excess)
	if err := enough(vals, 2, "sharpe ratio"); err != nil {
		return math.NaN(), err
	}

	mean, std := stat.PopMeanStdDev(vals, nil)
	if std == 0 {
		return math.NaN(), fmt.Errorf("sharpe ratio with zero volatility: %w", ErrUndefinedStatistic)
	}

	return mean / std * math.Sqrt(float64(periodsPerYear)), nil
}

// SortinoRatio is a variation of the Sharpe ratio that only penalizes harmful
// volatility. The numerator is the mean of all excess returns; the
// denominator is the population standard deviation of the excess returns
// that are less than or equal to zero.
//
// Sortino = mean(Rp - Rf) / σ(Rp - Rf | Rp - Rf <= 0) * √periodsPerYear
func SortinoRatio(excess []float64, periodsPerYear int) (float64, error) {
	if periodsPerYear <= 0 {
		return math.NaN(), ErrInvalidPeriods
	}

	vals := present(excess)
	if err := enough(vals, 2, "sortino ratio"); err != nil {
		return math.NaN(), err
	}

	downside := make([]float64, 0, len(vals))
	for _, v := range vals {
		if v <= 0 {
			downside = append(downside, v)
		}
	}

	if len(downside) == 0 {
		return math.NaN(), fmt.Errorf("sortino ratio without non-positive periods: %w", ErrUndefinedStatistic)
	}

	downsideDeviation := stat.PopStdDev(downside, nil)
	if downsideDeviation == 0 {
		return math.NaN(), fmt.Errorf("sortino ratio with zero downside deviation: %w", ErrUndefinedStatistic)
	}

	return stat.Mean(vals, nil) / downsideDeviation * math.Sqrt(float64(periodsPerYear)), nil
}
