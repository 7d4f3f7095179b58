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

package data_test

import (
	"bytes"
	"context"
	"os"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/penny-vault/pv-returns/common"
	"github.com/penny-vault/pv-returns/data"
)

var _ = Describe("CSV loading", func() {
	var tz *time.Location

	BeforeEach(func() {
		tz = common.GetTimezone()
	})

	Context("with a price file", func() {
		It("parses, sorts and drops missing prices", func() {
			fh, err := os.Open("testdata/prices.csv")
			Expect(err).To(BeNil())
			defer fh.Close()

			df, err := data.LoadPricesCSV(context.Background(), fh, data.CSVOptions{ValueColumn: "CLOSE"})
			Expect(err).To(BeNil())
			Expect(df.ColNames).To(Equal([]string{"CLOSE"}))
			Expect(df.Dates).To(Equal([]time.Time{
				time.Date(2021, time.January, 31, 0, 0, 0, 0, tz),
				time.Date(2021, time.February, 28, 0, 0, 0, 0, tz),
				time.Date(2021, time.March, 31, 0, 0, 0, 0, tz),
				time.Date(2021, time.May, 31, 0, 0, 0, 0, tz),
			}))
			Expect(df.Vals[0]).To(Equal([]float64{100, 110, 99, 132}))
		})

		It("supports custom layouts and column names", func() {
			csv := "Day;Px\n01/02/2021;10\n01/03/2021;11\n"
			df, err := data.LoadPricesCSV(context.Background(), strings.NewReader(csv), data.CSVOptions{
				DateColumn:  "Day",
				ValueColumn: "Px",
				DateLayout:  "02/01/2006",
				ColumnName:  common.PriceIdx,
				Comma:       ';',
			})
			Expect(err).To(BeNil())
			Expect(df.ColNames).To(Equal([]string{common.PriceIdx}))
			Expect(df.Start()).To(Equal(time.Date(2021, time.February, 1, 0, 0, 0, 0, tz)))
			Expect(df.Vals[0]).To(Equal([]float64{10, 11}))
		})

		It("requires the value column", func() {
			csv := "DATE,OTHER\n2021-01-01,1\n2021-02-01,2\n"
			_, err := data.LoadPricesCSV(context.Background(), strings.NewReader(csv), data.CSVOptions{ValueColumn: "CLOSE"})
			Expect(err).To(MatchError(data.ErrMissingColumn))
		})

		It("requires at least two prices", func() {
			csv := "DATE,PRICE\n2021-01-01,1\n"
			_, err := data.LoadPricesCSV(context.Background(), strings.NewReader(csv), data.CSVOptions{})
			Expect(err).To(MatchError(data.ErrInsufficientData))
		})

		It("fails on dates that do not match the layout", func() {
			csv := "DATE,PRICE\nJan 1 2021,1\n2021-02-01,2\n"
			_, err := data.LoadPricesCSV(context.Background(), strings.NewReader(csv), data.CSVOptions{})
			Expect(err).To(HaveOccurred())
		})
	})

	Context("with a risk free file", func() {
		It("reads a file handle", func() {
			fh, err := os.Open("testdata/TB3MS.csv")
			Expect(err).To(BeNil())
			defer fh.Close()

			df, err := data.LoadRiskFreeCSV(context.Background(), fh, data.CSVOptions{ValueColumn: "TB3MS"})
			Expect(err).To(BeNil())
			Expect(df.Len()).To(Equal(5))
			Expect(df.Start()).To(Equal(time.Date(2021, time.January, 1, 0, 0, 0, 0, tz)))
		})

		It("reads an in-memory download", func() {
			body := []byte("DATE,TB3MS\n2021-01-01,0.08\n2021-02-01,0.04\n")
			df, err := data.LoadRiskFreeCSV(context.Background(), bytes.NewReader(body), data.CSVOptions{ValueColumn: "TB3MS"})
			Expect(err).To(BeNil())
			Expect(df.Vals[0]).To(Equal([]float64{0.08, 0.04}))
		})

		It("keeps a single observation", func() {
			csv := "DATE,TB3MS\n2021-01-01,0.08\n"
			df, err := data.LoadRiskFreeCSV(context.Background(), strings.NewReader(csv), data.CSVOptions{ValueColumn: "TB3MS"})
			Expect(err).To(BeNil())
			Expect(df.Len()).To(Equal(1))
		})
	})

	It("converts annual percentages to per period rates", func() {
		Expect(data.PerPeriodRate(1.2, 12)).To(BeNumerically("~", 0.001, 1e-15))
		Expect(data.PerPeriodRate(0, 252)).To(Equal(0.0))
	})
})
