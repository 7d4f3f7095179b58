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

// Estimator selects how the skewness and kurtosis moments are normalized
type Estimator string

const (
	// Population uses biased moment estimators (divide by n)
	Population Estimator = "population"

	// Sample applies the usual small-sample bias corrections
	Sample Estimator = "sample"
)

// ParseEstimator converts a configuration string into an Estimator. An empty
// string selects Population.
func ParseEstimator(s string) (Estimator, error) {
	switch Estimator(s) {
	case Population, "":
		return Population, nil
	case Sample:
		return Sample, nil
	default:
		return "", fmt.Errorf("unknown estimator %q", s)
	}
}

// present removes absent (NaN) observations
func present(xs []float64) []float64 {
	res := make([]float64, 0, len(xs))
	for _, x := range xs {
		if !math.IsNaN(x) {
			res = append(res, x)
		}
	}
	return res
}

// enough checks that at least n observations are available. No observations
// at all is an empty input; too few to define the statistic is undefined.
func enough(vals []float64, n int, name string) error {
	switch {
	case len(vals) == 0:
		return fmt.Errorf("%s: %w", name, ErrEmptyInput)
	case len(vals) < n:
		return fmt.Errorf("%s needs %d observations, have %d: %w", name, n, len(vals), ErrUndefinedStatistic)
	}
	return nil
}

// Mean is the arithmetic average of the non-absent excess returns
//
// Mean = Σ(Rp - Rf) / n
func Mean(excess []float64) (float64, error) {
	vals := present(excess)
	if err := enough(vals, 1, "mean"); err != nil {
		return math.NaN(), err
	}
	return stat.Mean(vals, nil), nil
}

// StdDev computes the population standard deviation of the non-absent excess
// returns. A single observation has no dispersion to measure and is rejected.
//
// σ = √(Σ(x - mean)² / n)
func StdDev(excess []float64) (float64, error) {
	vals := present(excess)
	if err := enough(vals, 2, "standard deviation"); err != nil {
		return math.NaN(), err
	}
	return stat.PopStdDev(vals, nil), nil
}

// Skewness is the third standardized moment of the non-absent excess returns.
// Population: m3 / σ³ with σ the population standard deviation. Sample applies
// the adjusted Fisher-Pearson correction √(n(n-1)) / (n-2).
func Skewness(excess []float64, estimator Estimator) (float64, error) {
	vals := present(excess)
	if err := enough(vals, 3, "skewness"); err != nil {
		return math.NaN(), err
	}

	std := stat.PopStdDev(vals, nil)
	if std == 0 {
		return math.NaN(), fmt.Errorf("skewness of constant series: %w", ErrUndefinedStatistic)
	}

	if estimator == Sample {
		return stat.Skew(vals, nil), nil
	}

	return stat.Moment(3, vals, nil) / math.Pow(std, 3), nil
}

// Kurtosis is the excess (Fisher) kurtosis of the non-absent excess returns;
// a normal distribution scores 0.
//
// Kurtosis = m4 / σ⁴ - 3
//
// Sample uses gonum's bias-corrected excess kurtosis instead.
func Kurtosis(excess []float64, estimator Estimator) (float64, error) {
	vals := present(excess)
	if err := enough(vals, 4, "kurtosis"); err != nil {
		return math.NaN(), err
	}

	variance := stat.PopVariance(vals, nil)
	if variance == 0 {
		return math.NaN(), fmt.Errorf("kurtosis of constant series: %w", ErrUndefinedStatistic)
	}

	if estimator == Sample {
		return stat.ExKurtosis(vals, nil), nil
	}

	return stat.Moment(4, vals, nil)/(variance*variance) - 3.0, nil
}
