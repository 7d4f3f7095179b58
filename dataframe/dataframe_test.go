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

package dataframe_test

import (
	"math"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/penny-vault/pv-returns/common"
	"github.com/penny-vault/pv-returns/dataframe"
)

var _ = Describe("DataFrame", func() {
	var (
		tz  *time.Location
		df1 *dataframe.DataFrame
	)

	month := func(m time.Month) time.Time {
		return time.Date(2021, m, 1, 0, 0, 0, 0, tz)
	}

	BeforeEach(func() {
		tz = common.GetTimezone()
		df1 = &dataframe.DataFrame{
			Dates:    []time.Time{month(time.January), month(time.February), month(time.March), month(time.April)},
			ColNames: []string{"PRICE"},
			Vals:     [][]float64{{100, 110, 99, 132}},
		}
	})

	Context("with no values", func() {
		It("has zero length", func() {
			df := &dataframe.DataFrame{}
			Expect(df.Len()).To(Equal(0))
			Expect(df.Start()).To(Equal(time.Time{}))
			Expect(df.End()).To(Equal(time.Time{}))
			Expect(df.Table()).To(Equal("<NO DATA>"))
		})
	})

	Context("when accessing columns", func() {
		It("finds existing columns", func() {
			col, err := df1.Column("PRICE")
			Expect(err).To(BeNil())
			Expect(col).To(Equal([]float64{100, 110, 99, 132}))
		})

		It("reports missing columns", func() {
			_, err := df1.Column("MISSING")
			Expect(err).To(MatchError(dataframe.ErrColumnNotFound))
			Expect(df1.ColIndex("MISSING")).To(Equal(-1))
		})

		It("inserts and replaces columns", func() {
			Expect(df1.Insert("OTHER", []float64{1, 2, 3, 4})).To(Succeed())
			Expect(df1.ColCount()).To(Equal(2))
			Expect(df1.Insert("OTHER", []float64{5, 6, 7, 8})).To(Succeed())
			Expect(df1.ColCount()).To(Equal(2))
			Expect(df1.Vals[1]).To(Equal([]float64{5, 6, 7, 8}))
		})

		It("rejects columns of the wrong length", func() {
			Expect(df1.Insert("OTHER", []float64{1})).To(MatchError(dataframe.ErrDateIndexNotAligned))
		})
	})

	Context("when sorting", func() {
		It("orders rows chronologically", func() {
			df := &dataframe.DataFrame{
				Dates:    []time.Time{month(time.March), month(time.January), month(time.February)},
				ColNames: []string{"PRICE"},
				Vals:     [][]float64{{3, 1, 2}},
			}
			df.Sort()
			Expect(df.Dates).To(Equal([]time.Time{month(time.January), month(time.February), month(time.March)}))
			Expect(df.Vals[0]).To(Equal([]float64{1, 2, 3}))
		})
	})

	Context("when dropping values", func() {
		It("removes rows containing NaN", func() {
			df1.Vals[0][1] = math.NaN()
			df1.Drop(math.NaN())
			Expect(df1.Len()).To(Equal(3))
			Expect(df1.Vals[0]).To(Equal([]float64{100, 99, 132}))
		})
	})

	Context("when trimming", func() {
		It("keeps rows inside the inclusive range", func() {
			df := df1.Trim(month(time.February), month(time.March))
			Expect(df.Dates).To(Equal([]time.Time{month(time.February), month(time.March)}))
			Expect(df.Vals[0]).To(Equal([]float64{110, 99}))
		})

		It("returns an empty dataframe for an inverted range", func() {
			df := df1.Trim(month(time.March), month(time.February))
			Expect(df.Len()).To(Equal(0))
		})
	})

	Context("when computing returns", func() {
		It("computes period returns", func() {
			rets := df1.PctChange()
			Expect(math.IsNaN(rets.Vals[0][0])).To(BeTrue())
			Expect(rets.Vals[0][1]).To(BeNumerically("~", 0.1, 1e-12))
			Expect(rets.Vals[0][2]).To(BeNumerically("~", -0.1, 1e-12))
			Expect(rets.Vals[0][3]).To(BeNumerically("~", 1.0/3.0, 1e-12))

			// original is untouched
			Expect(df1.Vals[0]).To(Equal([]float64{100, 110, 99, 132}))
		})

		It("computes cumulative returns", func() {
			cum := df1.CumulativeReturn()
			Expect(cum.Vals[0][0]).To(Equal(0.0))
			Expect(cum.Vals[0][1]).To(BeNumerically("~", 0.1, 1e-12))
			Expect(cum.Vals[0][2]).To(BeNumerically("~", -0.01, 1e-12))
			Expect(cum.Vals[0][3]).To(BeNumerically("~", 0.32, 1e-12))
		})

		It("scales values", func() {
			Expect(df1.MulScalar(0.5).Vals[0]).To(Equal([]float64{50, 55, 49.5, 66}))
		})
	})

	Context("when joining", func() {
		var rf *dataframe.DataFrame

		BeforeEach(func() {
			rf = &dataframe.DataFrame{
				Dates:    []time.Time{month(time.January), month(time.March)},
				ColNames: []string{"RF"},
				Vals:     [][]float64{{1.2, 1.5}},
			}
		})

		It("matches exact dates only by default", func() {
			joined, err := df1.LeftJoin(rf, dataframe.FillNone)
			Expect(err).To(BeNil())
			Expect(joined.ColNames).To(Equal([]string{"PRICE", "RF"}))
			col, _ := joined.Column("RF")
			Expect(col[0]).To(Equal(1.2))
			Expect(math.IsNaN(col[1])).To(BeTrue())
			Expect(col[2]).To(Equal(1.5))
			Expect(math.IsNaN(col[3])).To(BeTrue())
		})

		It("fills forward when asked", func() {
			joined, err := df1.LeftJoin(rf, dataframe.FillForward)
			Expect(err).To(BeNil())
			col, _ := joined.Column("RF")
			Expect(col).To(Equal([]float64{1.2, 1.2, 1.5, 1.5}))
		})

		It("fails when no dates overlap", func() {
			rf.Dates = []time.Time{
				time.Date(2019, time.January, 1, 0, 0, 0, 0, tz),
				time.Date(2019, time.March, 1, 0, 0, 0, 0, tz),
			}
			_, err := df1.LeftJoin(rf, dataframe.FillNone)
			Expect(err).To(MatchError(dataframe.ErrDateIndexNotAligned))
		})

		It("parses fill policies", func() {
			policy, err := dataframe.ParseFillPolicy("forward")
			Expect(err).To(BeNil())
			Expect(policy).To(Equal(dataframe.FillForward))

			_, err = dataframe.ParseFillPolicy("backward")
			Expect(err).To(MatchError(dataframe.ErrUnknownFillPolicy))
		})
	})

	Context("when rendering", func() {
		It("includes every column", func() {
			table := df1.Table()
			Expect(table).To(ContainSubstring("PRICE"))
			Expect(table).To(ContainSubstring("2021-04-01"))
			Expect(table).To(ContainSubstring("132.0000"))
		})
	})
})
