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
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/penny-vault/pv-returns/data"
	"github.com/penny-vault/pv-returns/dataframe"
	"github.com/penny-vault/pv-returns/drawdown"
	"github.com/penny-vault/pv-returns/metrics"
	"github.com/penny-vault/pv-returns/observability/opentelemetry"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// DefaultPeriodsPerYear assumes monthly observations
const DefaultPeriodsPerYear = 12

// Options configure a call to Analyze
type Options struct {
	// Asset is a free-form label carried into the summary
	Asset string

	// PriceColumn selects the price column; defaults to the first column
	PriceColumn string

	// PeriodsPerYear annualizes the sharpe and sortino ratios (12 for monthly,
	// 252 for daily data); defaults to DefaultPeriodsPerYear
	PeriodsPerYear int

	// RiskFree is an optional annualized rate in percent. Without it excess
	// returns equal the raw returns.
	RiskFree       *dataframe.DataFrame
	RiskFreeColumn string
	RiskFreeFill   dataframe.FillPolicy

	Estimator metrics.Estimator
}

func (opts Options) withDefaults() Options {
	if opts.PeriodsPerYear == 0 {
		opts.PeriodsPerYear = DefaultPeriodsPerYear
	}
	if opts.RiskFreeFill == "" {
		opts.RiskFreeFill = dataframe.FillNone
	}
	if opts.Estimator == "" {
		opts.Estimator = metrics.Population
	}
	return opts
}

// Analyze computes the return statistics and drawdown episodes of the price
// series in prices. The input dataframe is not modified.
func Analyze(ctx context.Context, prices *dataframe.DataFrame, opts Options) (*Report, error) {
	_, span := otel.Tracer(opentelemetry.Name).Start(ctx, "analysis.Analyze")
	defer span.End()

	opts = opts.withDefaults()
	span.SetAttributes(
		attribute.String("Asset", opts.Asset),
		attribute.Int("PeriodsPerYear", opts.PeriodsPerYear),
		attribute.String("Estimator", string(opts.Estimator)),
	)

	subLog := log.With().Str("Asset", opts.Asset).Int("PeriodsPerYear", opts.PeriodsPerYear).Logger()

	if opts.PeriodsPerYear < 0 {
		span.SetStatus(codes.Error, "invalid periods per year")
		return nil, metrics.ErrInvalidPeriods
	}

	if prices == nil || prices.Len() < 2 {
		span.SetStatus(codes.Error, "not enough prices")
		return nil, fmt.Errorf("%w: at least two prices are required", ErrEmptyInput)
	}

	priceDf, err := selectColumn(prices, opts.PriceColumn, PriceCol)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "price column")
		return nil, err
	}
	priceDf.Drop(math.NaN()).Sort()

	if priceDf.Len() < 2 {
		span.SetStatus(codes.Error, "not enough prices")
		return nil, fmt.Errorf("%w: at least two prices are required", ErrEmptyInput)
	}

	for idx, price := range priceDf.Vals[0] {
		if price <= 0 {
			err := fmt.Errorf("%w: %.4f on %s", ErrNonPositivePrice, price, priceDf.Dates[idx].Format("2006-01-02"))
			span.RecordError(err)
			span.SetStatus(codes.Error, "non-positive price")
			return nil, err
		}
	}

	returns := priceDf.PctChange().Vals[0]
	cumulative := priceDf.CumulativeReturn().Vals[0]

	riskFree, err := riskFreePerPeriod(priceDf, opts)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "risk free alignment")
		subLog.Error().Err(err).Msg("could not align risk free rate with prices")
		return nil, err
	}

	excess := make([]float64, len(returns))
	for idx := range returns {
		excess[idx] = returns[idx] - riskFree[idx]
	}

	returnsDf := priceDf.Copy()
	for _, col := range []struct {
		name string
		vals []float64
	}{
		{ReturnCol, returns},
		{CumulativeReturnCol, cumulative},
		{RiskFreeCol, riskFree},
		{ExcessReturnCol, excess},
	} {
		if err := returnsDf.Insert(col.name, col.vals); err != nil {
			return nil, err
		}
	}

	episodes, ddSummary := drawdown.Analyze(cumulative)

	report := &Report{
		ID:       uuid.New(),
		Asset:    opts.Asset,
		Episodes: make([]EpisodeRow, 0, len(episodes)),
		Returns:  returnsDf,
	}

	for _, ep := range episodes {
		report.Episodes = append(report.Episodes, newEpisodeRow(ep, returnsDf.Dates))
	}

	// each undefined statistic is recorded and the remaining ones still computed
	stat := func(name string, val float64, err error) float64 {
		if err != nil {
			report.Warnings = append(report.Warnings, fmt.Errorf("%s: %w", name, err))
			subLog.Warn().Err(err).Str("Statistic", name).Msg("statistic is undefined")
			return math.NaN()
		}
		return val
	}

	summary := &Summary{
		Asset:       opts.Asset,
		TotalReturn: cumulative[len(cumulative)-1],
		Drawdown:    ddSummary,
	}

	val, err := metrics.SharpeRatio(excess, opts.PeriodsPerYear)
	summary.Sharpe = stat("sharpe", val, err)

	val, err = metrics.SortinoRatio(excess, opts.PeriodsPerYear)
	summary.Sortino = stat("sortino", val, err)

	val, err = metrics.Kurtosis(excess, opts.Estimator)
	summary.Kurtosis = stat("kurtosis", val, err)

	val, err = metrics.Skewness(excess, opts.Estimator)
	summary.Skewness = stat("skewness", val, err)

	val, err = metrics.StdDev(excess)
	summary.StandardDeviation = stat("standard_deviation", val, err)

	val, err = metrics.Mean(excess)
	summary.Mean = stat("mean", val, err)

	report.Summary = summary

	span.SetAttributes(
		attribute.Int("Rows", returnsDf.Len()),
		attribute.Int("NumEpisodes", ddSummary.NumEpisodes),
		attribute.Int("NumWarnings", len(report.Warnings)),
	)
	span.SetStatus(codes.Ok, "")

	subLog.Info().Str("ReportID", report.ID.String()).Object("Summary", summary).Msg("analysis complete")

	return report, nil
}

// selectColumn returns a copy of df holding only the requested column renamed
// to newName. An empty colName selects the first column.
func selectColumn(df *dataframe.DataFrame, colName, newName string) (*dataframe.DataFrame, error) {
	if df.ColCount() == 0 {
		return nil, fmt.Errorf("%w: dataframe has no columns", dataframe.ErrColumnNotFound)
	}

	colIdx := 0
	if colName != "" {
		colIdx = df.ColIndex(colName)
		if colIdx == -1 {
			return nil, fmt.Errorf("%w: %s", dataframe.ErrColumnNotFound, colName)
		}
	}

	vals := make([]float64, len(df.Vals[colIdx]))
	copy(vals, df.Vals[colIdx])
	dates := make([]time.Time, len(df.Dates))
	copy(dates, df.Dates)

	return &dataframe.DataFrame{
		Dates:    dates,
		ColNames: []string{newName},
		Vals:     [][]float64{vals},
	}, nil
}

// riskFreePerPeriod aligns the annualized risk-free series onto the price
// dates and converts it into a per-period rate. Dates without a rate are NaN.
func riskFreePerPeriod(prices *dataframe.DataFrame, opts Options) ([]float64, error) {
	if opts.RiskFree == nil {
		return make([]float64, prices.Len()), nil
	}

	rf, err := selectColumn(opts.RiskFree, opts.RiskFreeColumn, RiskFreeCol)
	if err != nil {
		return nil, err
	}
	rf.Drop(math.NaN()).Sort()
	rf = rf.MulScalar(data.PerPeriodRate(1, opts.PeriodsPerYear))

	joined, err := prices.LeftJoin(rf, opts.RiskFreeFill)
	if err != nil {
		return nil, fmt.Errorf("%w: risk free %s to %s, prices %s to %s", err,
			rf.Start().Format("2006-01-02"), rf.End().Format("2006-01-02"),
			prices.Start().Format("2006-01-02"), prices.End().Format("2006-01-02"))
	}

	return joined.Column(RiskFreeCol)
}
