//go:build mage

// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package main provides build targets for the swatch project using Mage.
//
// Usage:
//
//	mage build      Compile swatch binary to bin/
//	mage test       Run all tests
//	mage testShort  Run tests, skipping the filesystem watcher
//	mage lint       Run golangci-lint
//	mage clean      Remove build artifacts
//	mage install    Install swatch to GOPATH/bin
//	mage example    Build the sample site into a temp directory
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binGo      = "go"
	binaryName = "swatch"
	binaryDir  = "bin"
	cmdDir     = "./cmd/swatch"
)

// Build compiles the swatch binary to bin/.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	return sh.RunV(binGo, "build", "-v", "-o", filepath.Join(binaryDir, binaryName), cmdDir)
}

// Test runs all tests with the race detector.
func Test() error {
	return sh.RunV(binGo, "test", "-race", "./...")
}

// TestShort runs tests without the watcher package, which depends on
// filesystem notifications.
func TestShort() error {
	pkgs, err := sh.Output(binGo, "list", "./...")
	if err != nil {
		return err
	}
	args := []string{"test"}
	for pkg := range strings.SplitSeq(pkgs, "\n") {
		if pkg != "" && filepath.Base(pkg) != "watch" {
			args = append(args, pkg)
		}
	}
	return sh.RunV(binGo, args...)
}

// Lint runs golangci-lint.
func Lint() error {
	return sh.RunV("golangci-lint", "run", "./...")
}

// Clean removes build artifacts.
func Clean() error {
	if err := os.RemoveAll(binaryDir); err != nil {
		return err
	}
	return sh.RunV(binGo, "clean")
}

// Install builds and copies the binary to GOPATH/bin.
func Install() error {
	mg.Deps(Build)
	gopath, err := sh.Output(binGo, "env", "GOPATH")
	if err != nil {
		return err
	}
	src := filepath.Join(binaryDir, binaryName)
	dst := filepath.Join(gopath, "bin", binaryName)
	return sh.Copy(dst, src)
}

// Example initializes and builds the sample site in a temporary directory.
func Example() error {
	mg.Deps(Build)
	dir, err := os.MkdirTemp("", "swatch-example-")
	if err != nil {
		return err
	}
	bin, err := filepath.Abs(filepath.Join(binaryDir, binaryName))
	if err != nil {
		return err
	}
	flags := []string{
		"--config-dir", filepath.Join(dir, ".swatch"),
		"--data-dir", filepath.Join(dir, ".swatch-db"),
		"--content-dir", filepath.Join(dir, "content"),
		"--catalog", filepath.Join(dir, "options.yaml"),
		"--output-dir", filepath.Join(dir, "public"),
	}
	for _, cmd := range []string{"init", "build"} {
		if err := sh.RunV(bin, append(flags, cmd)...); err != nil {
			return err
		}
	}
	fmt.Println("Example site:", dir)
	return nil
}
