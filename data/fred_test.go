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
	"context"
	"os"
	"time"

	"github.com/jarcoal/httpmock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/viper"

	"github.com/penny-vault/pv-returns/common"
	"github.com/penny-vault/pv-returns/data"
)

const tb3msURL = "https://fred.stlouisfed.org/graph/fredgraph.csv?mode=fred&id=TB3MS&cosd=2021-01-01&coed=2021-06-30&fq=Monthly&fam=avg"

var _ = Describe("Fred", func() {
	var (
		fred  *data.Fred
		tz    *time.Location
		begin time.Time
		end   time.Time
	)

	BeforeEach(func() {
		viper.Set("cache.redis", false)
		viper.Set("cache.local_size", 16)
		Expect(common.SetupCache()).To(Succeed())

		tz = common.GetTimezone()
		begin = time.Date(2021, time.January, 1, 0, 0, 0, 0, tz)
		end = time.Date(2021, time.June, 30, 0, 0, 0, 0, tz)
		fred = data.NewFred()

		content, err := os.ReadFile("testdata/TB3MS.csv")
		Expect(err).To(BeNil())
		httpmock.RegisterResponder("GET", tb3msURL, httpmock.NewBytesResponder(200, content))
	})

	It("downloads and parses the series", func() {
		df, err := fred.RiskFreeRate(context.Background(), "tb3ms", "Monthly", begin, end)
		Expect(err).To(BeNil())
		Expect(df.ColNames).To(Equal([]string{"TB3MS"}))

		// the missing observation in May is dropped
		Expect(df.Len()).To(Equal(5))
		Expect(df.Vals[0]).To(Equal([]float64{0.08, 0.04, 0.03, 0.02, 0.04}))
		Expect(df.End()).To(Equal(time.Date(2021, time.June, 1, 0, 0, 0, 0, tz)))
	})

	It("serves repeated requests from the cache", func() {
		_, err := fred.RiskFreeRate(context.Background(), "TB3MS", "Monthly", begin, end)
		Expect(err).To(BeNil())
		_, err = fred.RiskFreeRate(context.Background(), "TB3MS", "Monthly", begin, end)
		Expect(err).To(BeNil())
		Expect(httpmock.GetCallCountInfo()["GET "+tb3msURL]).To(Equal(1))
	})

	It("reports HTTP errors", func() {
		httpmock.RegisterResponder("GET", tb3msURL, httpmock.NewStringResponder(500, "oops"))
		_, err := fred.RiskFreeRate(context.Background(), "TB3MS", "Monthly", begin, end)
		Expect(err).To(MatchError(data.ErrDownloadFailed))
	})

	It("rejects inverted ranges", func() {
		_, err := fred.RiskFreeRate(context.Background(), "TB3MS", "Monthly", end, begin)
		Expect(err).To(MatchError(data.ErrBeginAfterEnd))
	})
})
