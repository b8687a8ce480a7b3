// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rasterize

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the failure kinds a conversion can report. Callers
// match them with errors.Is.
var (
	// ErrInputNotFound means the source PDF does not exist.
	ErrInputNotFound = errors.New("input PDF not found")

	// ErrToolMissing means the external rasterizer binary could not be
	// located on PATH.
	ErrToolMissing = errors.New("external rasterizer not found")

	// ErrPageCountUnavailable means the rasterizer's diagnostic output
	// contained no page-count progress lines, so the conversion cannot
	// be verified.
	ErrPageCountUnavailable = errors.New("page count unavailable in rasterizer output")
)

// ToolError reports an external rasterizer that ran but exited non-zero.
// It carries the captured streams so the user sees what the tool said.
type ToolError struct {
	Tool     string
	ExitCode int
	Stdout   string
	Stderr   string
}

func (e *ToolError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s exited with code %d", e.Tool, e.ExitCode)
	if out := strings.TrimSpace(e.Stdout); out != "" {
		fmt.Fprintf(&b, "\nstdout:\n%s", out)
	}
	if errOut := strings.TrimSpace(e.Stderr); errOut != "" {
		fmt.Fprintf(&b, "\nstderr:\n%s", errOut)
	}
	return b.String()
}
