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
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/penny-vault/pv-returns/common"
	"github.com/penny-vault/pv-returns/dataframe"
	"github.com/penny-vault/pv-returns/observability/opentelemetry"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/rs/zerolog/log"
)

var fredURL = "https://fred.stlouisfed.org"

// Fred downloads interest rate series from the St. Louis Fed
type Fred struct {
	client *http.Client
}

// NewFred creates a new FRED data provider
func NewFred() *Fred {
	return &Fred{
		client: http.DefaultClient,
	}
}

// RiskFreeRate returns the annualized rate, in percent, of the FRED series
// symbol (e.g. TB3MS, DTB3) between begin and end sampled at frequency
// (Daily, Weekly, Monthly, ...). Downloads are cached.
func (f *Fred) RiskFreeRate(ctx context.Context, symbol string, frequency string, begin, end time.Time) (*dataframe.DataFrame, error) {
	ctx, span := otel.Tracer(opentelemetry.Name).Start(ctx, "fred.RiskFreeRate")
	defer span.End()

	symbol = strings.ToUpper(symbol)
	span.SetAttributes(
		attribute.String("Symbol", symbol),
		attribute.String("Frequency", frequency),
		attribute.String("Begin", begin.Format("2006-01-02")),
		attribute.String("End", end.Format("2006-01-02")),
	)

	subLog := log.With().Str("Symbol", symbol).Str("Frequency", frequency).Time("Begin", begin).Time("End", end).Logger()

	if end.Before(begin) {
		span.SetStatus(codes.Error, "begin after end")
		return nil, ErrBeginAfterEnd
	}

	// build URL to get data
	url := fmt.Sprintf("%s/graph/fredgraph.csv?mode=fred&id=%s&cosd=%s&coed=%s&fq=%s&fam=avg", fredURL, symbol, begin.Format("2006-01-02"), end.Format("2006-01-02"), frequency)

	body, ok, err := common.CacheGet(ctx, url)
	if err != nil {
		subLog.Warn().Err(err).Msg("ignoring cache error")
	}

	if ok {
		subLog.Debug().Msg("risk free rate loaded from cache")
	} else {
		body, err = f.download(ctx, url)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "download failed")
			subLog.Error().Err(err).Msg("could not download risk free rate")
			return nil, err
		}

		if err := common.CacheSet(ctx, url, body); err != nil {
			subLog.Warn().Err(err).Msg("could not cache risk free rate")
		}
	}

	df, err := loadCSV(ctx, bytes.NewReader(body), CSVOptions{
		DateColumn:  common.DateIdx,
		ValueColumn: symbol,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "parse failed")
		return nil, err
	}

	span.SetAttributes(attribute.Int("Rows", df.Len()))
	span.SetStatus(codes.Ok, "")
	return df, nil
}

func (f *Fred) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrDownloadFailed, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%w: HTTP request returned invalid status code: %d", ErrDownloadFailed, resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}
