//go:build mage

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

package main

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binaryName = "pvreturns"
	modulePath = "github.com/penny-vault/pv-returns"
)

// goexe may be overridden with GOEXE=xxx mage ...
var goexe = "go"

func init() {
	if exe := os.Getenv("GOEXE"); exe != "" {
		goexe = exe
	}
}

// Build compiles the pvreturns binary with the commit hash and build date embedded
func Build() error {
	fmt.Println("Building...")
	return sh.RunWith(versionEnv(), goexe, goArgs("build", "-o", binaryName, "-ldflags", ldflags(), ".")...)
}

// Install puts pvreturns into $GOPATH/bin
func Install() error {
	return sh.RunWith(versionEnv(), goexe, goArgs("install", "-ldflags", ldflags(), ".")...)
}

// Clean removes the built binary
func Clean() error {
	return sh.Rm(binaryName)
}

// Test runs every ginkgo suite
func Test() error {
	fmt.Println("Go Test")
	return sh.RunV(goexe, "test", "./...")
}

// TestRace runs the suites under the race detector
func TestRace() error {
	fmt.Println("Go Test Race")
	return sh.RunV(goexe, "test", "-race", "./...")
}

// Vet runs go vet over the module
func Vet() error {
	fmt.Println("Go Vet")
	if err := sh.RunV(goexe, "vet", "./..."); err != nil {
		return fmt.Errorf("error running go vet: %w", err)
	}
	return nil
}

// Check vets the code then runs the race enabled tests
func Check() {
	mg.SerialDeps(Vet, TestRace)
}

// ldflags stamps version information into the common package; the values are
// expanded from versionEnv by sh.RunWith
func ldflags() string {
	pkg := modulePath + "/common"
	return strings.Join([]string{
		"-X " + pkg + ".commitHash=$COMMIT_HASH",
		"-X " + pkg + ".buildDate=$BUILD_DATE",
	}, " ")
}

func versionEnv() map[string]string {
	hash, err := sh.Output("git", "rev-parse", "--short", "HEAD")
	if err != nil {
		hash = ""
	}
	return map[string]string{
		"COMMIT_HASH": hash,
		"BUILD_DATE":  time.Now().Format("2006-01-02T15:04:05Z0700"),
	}
}

// goArgs inserts platform specific flags after the go sub-command
func goArgs(subcommand string, args ...string) []string {
	res := []string{subcommand}
	if runtime.GOOS == "windows" {
		res = append(res, "-buildmode", "exe")
	}
	return append(res, args...)
}
