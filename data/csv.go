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

package data

import (
	"context"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/penny-vault/pv-returns/common"
	"github.com/penny-vault/pv-returns/dataframe"

	rdf "github.com/rocketlaunchr/dataframe-go"
	imports "github.com/rocketlaunchr/dataframe-go/imports"
	"github.com/rs/zerolog/log"
)

// CSVOptions describe the layout of a CSV file holding a date column and a
// value column
type CSVOptions struct {
	DateColumn  string
	ValueColumn string

	// DateLayout is a time.Parse layout; defaults to 2006-01-02
	DateLayout string

	// Location dates are interpreted in; defaults to common.GetTimezone()
	Location *time.Location

	// ColumnName is the name of the value column in the resulting dataframe;
	// defaults to ValueColumn
	ColumnName string

	Comma rune
}

func (opts *CSVOptions) withDefaults() CSVOptions {
	res := *opts
	if res.DateColumn == "" {
		res.DateColumn = common.DateIdx
	}
	if res.DateLayout == "" {
		res.DateLayout = "2006-01-02"
	}
	if res.Location == nil {
		res.Location = common.GetTimezone()
	}
	if res.ColumnName == "" {
		res.ColumnName = res.ValueColumn
	}
	if res.Comma == 0 {
		res.Comma = ','
	}
	return res
}

// LoadPricesCSV reads a price series from r. Rows whose price cannot be parsed
// are dropped and the result is sorted by date. At least two prices are
// required for any return to be computed.
func LoadPricesCSV(ctx context.Context, r io.ReadSeeker, opts CSVOptions) (*dataframe.DataFrame, error) {
	if opts.ValueColumn == "" {
		opts.ValueColumn = common.PriceIdx
	}

	df, err := loadCSV(ctx, r, opts)
	if err != nil {
		return nil, err
	}

	if df.Len() < 2 {
		return nil, fmt.Errorf("%w: found %d prices", ErrInsufficientData, df.Len())
	}

	return df, nil
}

// LoadRiskFreeCSV reads an annualized risk-free rate series, expressed in
// percent, from r
func LoadRiskFreeCSV(ctx context.Context, r io.ReadSeeker, opts CSVOptions) (*dataframe.DataFrame, error) {
	return loadCSV(ctx, r, opts)
}

func loadCSV(ctx context.Context, r io.ReadSeeker, opts CSVOptions) (*dataframe.DataFrame, error) {
	opts = opts.withDefaults()

	raw, err := imports.LoadFromCSV(ctx, r, imports.CSVLoadOptions{
		Comma:            opts.Comma,
		TrimLeadingSpace: true,
		DictateDataType: map[string]interface{}{
			opts.DateColumn: imports.Converter{
				ConcreteType: time.Time{},
				ConverterFunc: func(in interface{}) (interface{}, error) {
					s := strings.TrimSpace(in.(string))
					t, err := time.ParseInLocation(opts.DateLayout, s, opts.Location)
					if err != nil {
						return nil, fmt.Errorf("%w: %q", ErrInvalidDate, s)
					}
					return t, nil
				},
			},
			opts.ValueColumn: imports.Converter{
				ConcreteType: float64(0),
				ConverterFunc: func(in interface{}) (interface{}, error) {
					v, err := strconv.ParseFloat(strings.TrimSpace(in.(string)), 64)
					if err != nil {
						return math.NaN(), nil
					}
					return v, nil
				},
			},
		},
	})
	if err != nil {
		return nil, err
	}

	return toDataFrame(raw, opts)
}

// toDataFrame converts the loaded table into a sorted, NaN free date indexed dataframe
func toDataFrame(raw *rdf.DataFrame, opts CSVOptions) (*dataframe.DataFrame, error) {
	dateIdx, err := raw.NameToColumn(opts.DateColumn)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, opts.DateColumn)
	}

	valIdx, err := raw.NameToColumn(opts.ValueColumn)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, opts.ValueColumn)
	}

	nrows := raw.NRows()
	df := &dataframe.DataFrame{
		Dates:    make([]time.Time, 0, nrows),
		ColNames: []string{opts.ColumnName},
		Vals:     [][]float64{make([]float64, 0, nrows)},
	}

	dateSeries := raw.Series[dateIdx]
	valSeries := raw.Series[valIdx]
	for row := 0; row < nrows; row++ {
		date, ok := dateSeries.Value(row).(time.Time)
		if !ok {
			continue
		}

		val, ok := valSeries.Value(row).(float64)
		if !ok {
			val = math.NaN()
		}

		df.Dates = append(df.Dates, date)
		df.Vals[0] = append(df.Vals[0], val)
	}

	before := df.Len()
	df.Drop(math.NaN()).Sort()
	if dropped := before - df.Len(); dropped > 0 {
		log.Debug().Int("Dropped", dropped).Str("Column", opts.ValueColumn).Msg("dropped rows without a value")
	}

	return df, nil
}

// PerPeriodRate converts an annualized percentage rate into a per-period
// fraction, e.g. 1.2 (%) with 12 periods per year is 0.001
func PerPeriodRate(rate float64, periodsPerYear int) float64 {
	return rate / (100 * float64(periodsPerYear))
}
