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

package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-json"
	"github.com/penny-vault/pv-returns/analysis"
	"github.com/penny-vault/pv-returns/common"
	"github.com/penny-vault/pv-returns/data"
	"github.com/penny-vault/pv-returns/dataframe"
	"github.com/penny-vault/pv-returns/metrics"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	analyzeAsset             string
	analyzeDateColumn        string
	analyzePriceColumn       string
	analyzeDateFormat        string
	analyzePeriodsPerYear    int
	analyzeRiskFree          string
	analyzeRiskFreeColumn    string
	analyzeRiskFreeFred      string
	analyzeRiskFreeFrequency string
	analyzeRiskFreeFill      string
	analyzeEstimator         string
	analyzeOutput            string
	analyzeEpisodes          bool
	analyzeReturns           bool
	analyzeStart             string
	analyzeEnd               string
)

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&analyzeAsset, "asset", "", "Label of the asset, defaults to the file name")
	analyzeCmd.Flags().StringVar(&analyzeDateColumn, "date-column", common.DateIdx, "Name of the date column")
	analyzeCmd.Flags().StringVar(&analyzePriceColumn, "price-column", common.PriceIdx, "Name of the price column")
	analyzeCmd.Flags().StringVar(&analyzeDateFormat, "date-format", "2006-01-02", "Layout of the dates (see time.Parse)")
	analyzeCmd.Flags().IntVar(&analyzePeriodsPerYear, "periods-per-year", analysis.DefaultPeriodsPerYear, "Number of periods in a year: 252 for daily, 52 for weekly, 12 for monthly, 4 for quarterly")
	analyzeCmd.Flags().StringVar(&analyzeRiskFree, "risk-free", "", "CSV file with an annualized risk free rate in percent")
	analyzeCmd.Flags().StringVar(&analyzeRiskFreeColumn, "risk-free-column", "", "Name of the rate column in the risk free file")
	analyzeCmd.Flags().StringVar(&analyzeRiskFreeFred, "risk-free-fred", "", "FRED series to download as the risk free rate, e.g. TB3MS or DTB3")
	analyzeCmd.Flags().StringVar(&analyzeRiskFreeFrequency, "risk-free-frequency", "Monthly", "Frequency FRED should aggregate the risk free rate to")
	analyzeCmd.Flags().StringVar(&analyzeRiskFreeFill, "risk-free-fill", string(dataframe.FillNone), "How to fill dates without a risk free rate: none or forward")
	analyzeCmd.Flags().StringVar(&analyzeEstimator, "estimator", string(metrics.Population), "Moment estimator for skewness and kurtosis: population or sample")
	analyzeCmd.Flags().StringVar(&analyzeOutput, "output", "table", "Output format: table or json")
	analyzeCmd.Flags().BoolVar(&analyzeEpisodes, "episodes", false, "Also print every drawdown episode")
	analyzeCmd.Flags().BoolVar(&analyzeReturns, "returns", false, "Also print the aligned price, return and risk free series")
	analyzeCmd.Flags().StringVar(&analyzeStart, "start", "", "Ignore prices before this date")
	analyzeCmd.Flags().StringVar(&analyzeEnd, "end", "", "Ignore prices after this date")
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze [flags] <prices.csv>",
	Short: "Compute return statistics and drawdowns of a price series",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		subLog := log.With().Str("File", args[0]).Logger()

		fill, err := dataframe.ParseFillPolicy(analyzeRiskFreeFill)
		if err != nil {
			subLog.Fatal().Err(err).Msg("invalid risk free fill policy")
		}

		estimator, err := metrics.ParseEstimator(analyzeEstimator)
		if err != nil {
			subLog.Fatal().Err(err).Msg("invalid estimator")
		}

		if analyzeOutput != "table" && analyzeOutput != "json" {
			subLog.Fatal().Str("Output", analyzeOutput).Msg("output must be one of table or json")
		}

		prices, err := loadPrices(ctx, args[0])
		if err != nil {
			subLog.Fatal().Err(err).Msg("could not load prices")
		}

		prices, err = trimPrices(prices)
		if err != nil {
			subLog.Fatal().Err(err).Msg("invalid date range")
		}

		riskFree, err := loadRiskFree(ctx, prices)
		if err != nil {
			subLog.Fatal().Err(err).Msg("could not load risk free rate")
		}

		asset := analyzeAsset
		if asset == "" {
			asset = args[0]
		}

		report, err := analysis.Analyze(ctx, prices, analysis.Options{
			Asset:          asset,
			PeriodsPerYear: analyzePeriodsPerYear,
			RiskFree:       riskFree,
			RiskFreeFill:   fill,
			Estimator:      estimator,
		})
		if err != nil {
			subLog.Fatal().Err(err).Msg("analysis failed")
		}

		switch analyzeOutput {
		case "json":
			buf, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				subLog.Fatal().Err(err).Msg("could not serialize report")
			}
			fmt.Println(string(buf))
		default:
			fmt.Println(report.SummaryTable())
			if analyzeEpisodes {
				fmt.Println(report.EpisodeTable())
			}
			if analyzeReturns {
				fmt.Println(report.Returns.Table())
			}
			for _, w := range report.Warnings {
				fmt.Printf("warning: %s\n", w)
			}
		}
	},
}

func loadPrices(ctx context.Context, fn string) (*dataframe.DataFrame, error) {
	fh, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	return data.LoadPricesCSV(ctx, fh, data.CSVOptions{
		DateColumn:  analyzeDateColumn,
		ValueColumn: analyzePriceColumn,
		DateLayout:  analyzeDateFormat,
	})
}

// trimPrices restricts prices to the --start and --end dates, both inclusive
func trimPrices(prices *dataframe.DataFrame) (*dataframe.DataFrame, error) {
	if analyzeStart == "" && analyzeEnd == "" {
		return prices, nil
	}

	tz := common.GetTimezone()
	begin := prices.Start()
	end := prices.End()

	var err error
	if analyzeStart != "" {
		if begin, err = time.ParseInLocation(analyzeDateFormat, analyzeStart, tz); err != nil {
			return nil, fmt.Errorf("%w: %q", data.ErrInvalidDate, analyzeStart)
		}
	}
	if analyzeEnd != "" {
		if end, err = time.ParseInLocation(analyzeDateFormat, analyzeEnd, tz); err != nil {
			return nil, fmt.Errorf("%w: %q", data.ErrInvalidDate, analyzeEnd)
		}
	}

	if end.Before(begin) {
		return nil, data.ErrBeginAfterEnd
	}

	return prices.Trim(begin, end), nil
}

// loadRiskFree reads the risk free rate from a file or FRED; nil when neither
// was requested
func loadRiskFree(ctx context.Context, prices *dataframe.DataFrame) (*dataframe.DataFrame, error) {
	switch {
	case analyzeRiskFree != "" && analyzeRiskFreeFred != "":
		return nil, fmt.Errorf("only one of --risk-free and --risk-free-fred may be given")
	case analyzeRiskFree != "":
		if analyzeRiskFreeColumn == "" {
			return nil, fmt.Errorf("%w: --risk-free-column is required with --risk-free", data.ErrMissingColumn)
		}

		fh, err := os.Open(analyzeRiskFree)
		if err != nil {
			return nil, err
		}
		defer fh.Close()

		return data.LoadRiskFreeCSV(ctx, fh, data.CSVOptions{
			DateColumn:  analyzeDateColumn,
			ValueColumn: analyzeRiskFreeColumn,
			DateLayout:  analyzeDateFormat,
		})
	case analyzeRiskFreeFred != "":
		// start one month early so a forward fill has a value for the first price
		begin := prices.Start().AddDate(0, -1, 0)
		return data.NewFred().RiskFreeRate(ctx, analyzeRiskFreeFred, analyzeRiskFreeFrequency, begin, prices.End())
	default:
		return nil, nil
	}
}
