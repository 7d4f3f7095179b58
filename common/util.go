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

package common

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
	"github.com/spf13/viper"
)

const (
	DateIdx  = "DATE"
	PriceIdx = "PRICE"
)

// ParseLogLevel maps a configured level name to a zerolog level. Unknown or
// empty names log at warn; "warning" is accepted as an alias for warn.
func ParseLogLevel(name string) zerolog.Level {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "warning" {
		name = "warn"
	}

	level, err := zerolog.ParseLevel(name)
	if err != nil || level == zerolog.NoLevel {
		return zerolog.WarnLevel
	}
	return level
}

// logWriter opens the configured log destination; stdout is reserved for
// analysis results so logs default to stderr
func logWriter(output string, pretty bool) (io.Writer, error) {
	var out io.Writer
	noColor := false

	switch output {
	case "stdout":
		out = os.Stdout
	case "stderr", "":
		out = os.Stderr
	default:
		fh, err := os.OpenFile(output, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0600)
		if err != nil {
			return nil, err
		}
		out = fh
		noColor = true
	}

	if pretty {
		return zerolog.ConsoleWriter{Out: out, NoColor: noColor}, nil
	}
	return out, nil
}

// SetupLogging configures the global zerolog logger from viper settings
func SetupLogging() {
	zerolog.SetGlobalLevel(ParseLogLevel(viper.GetString("log.level")))
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack

	out, err := logWriter(viper.GetString("log.output"), viper.GetBool("log.pretty"))
	if err != nil {
		log.Panic().Err(err).Str("Output", viper.GetString("log.output")).Msg("could not open log output")
	}

	ctx := zerolog.New(out).With().Timestamp()
	if viper.GetBool("log.report_caller") {
		ctx = ctx.Caller()
	}
	log.Logger = ctx.Logger()
}

// GetTimezone returns the reference timezone used when parsing dates
func GetTimezone() *time.Location {
	tz, err := time.LoadLocation(viper.GetString("timezone"))
	if err != nil {
		log.Panic().Err(err).Str("Timezone", viper.GetString("timezone")).Msg("could not load timezone")
	}
	return tz
}

func init() {
	viper.SetDefault("timezone", "America/New_York") // New York is the reference time
}
