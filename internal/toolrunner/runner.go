// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package toolrunner locates and executes external conversion binaries,
// returning the exit status and captured output streams of each run.
package toolrunner

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
)

const (
	binMagick   = "magick"
	binConvert  = "convert"
	binPdftoppm = "pdftoppm"
)

// Outcome holds the result of one external tool invocation.
type Outcome struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Runner locates external tools and runs them to completion.
type Runner interface {
	// LookPath reports the absolute path of the named binary, or an
	// error if it is not on PATH.
	LookPath(tool string) (string, error)

	// Run executes the tool synchronously with both streams captured.
	// A non-zero exit status is not an error; it is reported through
	// Outcome.ExitCode. The returned error covers failures to start
	// the process at all.
	Run(tool string, args ...string) (Outcome, error)
}

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	RunCaptured(name string, args ...string) (exitCode int, stdout, stderr string, err error)
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) RunCaptured(name string, args ...string) (int, string, string, error) {
	var outBuf, errBuf bytes.Buffer
	cmd := exec.Command(name, args...)
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	err := cmd.Run()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode(), outBuf.String(), errBuf.String(), nil
		}
		return -1, outBuf.String(), errBuf.String(), err
	}
	return 0, outBuf.String(), errBuf.String(), nil
}

// osRunner implements Runner on top of an executor.
type osRunner struct {
	exec executor
}

func (r *osRunner) LookPath(tool string) (string, error) {
	return r.exec.LookPath(tool)
}

func (r *osRunner) Run(tool string, args ...string) (Outcome, error) {
	code, stdout, stderr, err := r.exec.RunCaptured(tool, args...)
	if err != nil {
		return Outcome{}, fmt.Errorf("running %s: %w", tool, err)
	}
	return Outcome{ExitCode: code, Stdout: stdout, Stderr: stderr}, nil
}

var defaultExec = &osExecutor{}

// New returns the production Runner.
func New() Runner {
	return &osRunner{exec: defaultExec}
}

// FindMagick locates an ImageMagick entry point. ImageMagick 7 installs a
// single magick binary; older installations ship the legacy convert
// command, so magick is tried first with convert as fallback. An explicit
// override path, when non-empty, wins over detection.
func FindMagick(r Runner, override string) (string, error) {
	return findTool(r, override, binMagick, binConvert)
}

// FindPdftoppm locates the poppler pdftoppm binary, honoring an explicit
// override path when non-empty.
func FindPdftoppm(r Runner, override string) (string, error) {
	return findTool(r, override, binPdftoppm)
}

func findTool(r Runner, override string, candidates ...string) (string, error) {
	if override != "" {
		return override, nil
	}
	for _, name := range candidates {
		if path, err := r.LookPath(name); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("none of %v found on PATH", candidates)
}
