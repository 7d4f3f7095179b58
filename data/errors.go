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

import "errors"

var (
	ErrMissingColumn    = errors.New("column not present in input")
	ErrInsufficientData = errors.New("at least two observations are required")
	ErrInvalidDate      = errors.New("could not parse date")
	ErrDownloadFailed   = errors.New("download failed")
	ErrBeginAfterEnd    = errors.New("invalid interval; begin after end date")
)
