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

package metrics_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/penny-vault/pv-returns/metrics"
)

var _ = Describe("Return metrics", func() {
	var excess []float64

	BeforeEach(func() {
		excess = []float64{0.01, -0.02, 0.03, 0.0}
	})

	Describe("When computing the sharpe ratio", func() {
		It("uses the population standard deviation", func() {
			sharpe, err := metrics.SharpeRatio(excess, 12)
			Expect(err).To(BeNil())
			// mean = 0.005, population variance = 0.000325
			Expect(sharpe).To(BeNumerically("~", 0.005/math.Sqrt(0.000325)*math.Sqrt(12), 1e-12))
		})

		It("ignores absent periods", func() {
			withGap, err := metrics.SharpeRatio(append([]float64{math.NaN()}, excess...), 12)
			Expect(err).To(BeNil())
			sharpe, _ := metrics.SharpeRatio(excess, 12)
			Expect(withGap).To(Equal(sharpe))
		})

		It("fails on a constant series", func() {
			_, err := metrics.SharpeRatio([]float64{0.25, 0.25, 0.25}, 12)
			Expect(err).To(MatchError(metrics.ErrUndefinedStatistic))
		})

		It("fails on empty input", func() {
			_, err := metrics.SharpeRatio([]float64{math.NaN()}, 12)
			Expect(err).To(MatchError(metrics.ErrEmptyInput))
		})

		It("rejects non-positive periods per year", func() {
			_, err := metrics.SharpeRatio(excess, 0)
			Expect(err).To(MatchError(metrics.ErrInvalidPeriods))
		})
	})

	Describe("When computing the sortino ratio", func() {
		It("divides by the deviation of non-positive returns", func() {
			sortino, err := metrics.SortinoRatio(excess, 12)
			Expect(err).To(BeNil())
			// downside = {-0.02, 0.0}, population std = 0.01
			Expect(sortino).To(BeNumerically("~", 0.005/0.01*math.Sqrt(12), 1e-12))
		})

		It("is undefined when every return is positive", func() {
			sortino, err := metrics.SortinoRatio([]float64{0.01, 0.02, 0.03}, 12)
			Expect(err).To(MatchError(metrics.ErrUndefinedStatistic))
			Expect(math.IsNaN(sortino)).To(BeTrue())
		})

		It("is undefined when the downside has no dispersion", func() {
			_, err := metrics.SortinoRatio([]float64{0.01, -0.02, 0.03}, 12)
			Expect(err).To(MatchError(metrics.ErrUndefinedStatistic))
		})
	})

	Describe("When computing distribution moments", func() {
		It("computes mean and population standard deviation", func() {
			mean, err := metrics.Mean(excess)
			Expect(err).To(BeNil())
			Expect(mean).To(BeNumerically("~", 0.005, 1e-15))

			std, err := metrics.StdDev(excess)
			Expect(err).To(BeNil())
			Expect(std).To(BeNumerically("~", math.Sqrt(0.000325), 1e-12))
		})

		It("refuses the standard deviation of a single observation", func() {
			_, err := metrics.StdDev([]float64{0.01})
			Expect(err).To(MatchError(metrics.ErrUndefinedStatistic))
		})

		It("reports zero skew for a symmetric series", func() {
			skew, err := metrics.Skewness(excess, metrics.Population)
			Expect(err).To(BeNil())
			Expect(skew).To(BeNumerically("~", 0, 1e-12))
		})

		It("computes population and sample skew", func() {
			vals := []float64{1, 2, 3, 10}
			skew, err := metrics.Skewness(vals, metrics.Population)
			Expect(err).To(BeNil())
			Expect(skew).To(BeNumerically("~", 45/math.Pow(12.5, 1.5), 1e-12))

			skew, err = metrics.Skewness(vals, metrics.Sample)
			Expect(err).To(BeNil())
			// adjusted Fisher-Pearson coefficient: g1 * sqrt(n(n-1)) / (n-2)
			Expect(skew).To(BeNumerically("~", 45/math.Pow(12.5, 1.5)*math.Sqrt(12)/2, 1e-12))
		})

		It("computes excess kurtosis", func() {
			kurt, err := metrics.Kurtosis(excess, metrics.Population)
			Expect(err).To(BeNil())
			Expect(kurt).To(BeNumerically("~", 1.95625e-7/(0.000325*0.000325)-3, 1e-9))
		})

		It("needs enough observations for higher moments", func() {
			_, err := metrics.Skewness([]float64{0.1, 0.2}, metrics.Population)
			Expect(err).To(MatchError(metrics.ErrUndefinedStatistic))
			_, err = metrics.Kurtosis([]float64{}, metrics.Population)
			Expect(err).To(MatchError(metrics.ErrEmptyInput))
		})

		It("parses estimator names", func() {
			est, err := metrics.ParseEstimator("sample")
			Expect(err).To(BeNil())
			Expect(est).To(Equal(metrics.Sample))

			est, err = metrics.ParseEstimator("")
			Expect(err).To(BeNil())
			Expect(est).To(Equal(metrics.Population))

			_, err = metrics.ParseEstimator("bogus")
			Expect(err).To(HaveOccurred())
		})
	})
})
