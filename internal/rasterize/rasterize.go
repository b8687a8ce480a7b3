// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rasterize orchestrates PDF-to-image conversion through external
// rasterizer tools. It validates inputs, prepares the output directory,
// invokes one rasterizer per call, interprets its captured output, and
// normalizes the produced filenames into a canonical sequential pattern.
// All rendering is delegated to the tools; nothing here touches PDF or
// image bytes.
package rasterize

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/taogaetz/pdumpf/internal/toolrunner"
	"github.com/taogaetz/pdumpf/pkg/types"
)

// DefaultDPI is the rendering resolution used when the request does not
// set one.
const DefaultDPI = 150

// Result holds the outcome of one successful conversion run.
type Result struct {
	// Pages is the number of pages the rasterizer reported or produced.
	Pages int

	// Files lists the canonical output paths in page order. Shorter than
	// Pages when the rasterizer produced fewer files than it claimed.
	Files []string

	// Missing lists page numbers whose expected output file was absent
	// during normalization. Non-empty Missing means partial success: the
	// run is still reported as successful for the pages that exist.
	Missing []int
}

// Partial reports whether the rasterizer produced fewer files than the
// page count it claimed.
func (r *Result) Partial() bool {
	return len(r.Missing) > 0
}

// ConvertToJPGs renders every page of the PDF at pdfPath to a JPEG file in
// cfg.OutputDir using ImageMagick, then renames the output to contiguous
// 1-based page-NNN.jpg names. Per-step status is printed to w.
func ConvertToJPGs(r toolrunner.Runner, pdfPath string, cfg types.ConversionConfig, w io.Writer) (*Result, error) {
	dir, dpi, err := prepare(pdfPath, cfg)
	if err != nil {
		return nil, err
	}

	tool, err := toolrunner.FindMagick(r, cfg.Tools.Magick)
	if err != nil {
		return nil, fmt.Errorf("imagemagick is not installed or not on PATH: %w", ErrToolMissing)
	}

	fmt.Fprintf(w, "converting %s to JPGs in %s at %d dpi\n", pdfPath, dir, dpi)
	outcome, err := r.Run(tool,
		"-density", strconv.Itoa(dpi),
		pdfPath,
		filepath.Join(dir, "page-%03d.jpg"),
	)
	if err != nil {
		return nil, err
	}
	if outcome.ExitCode != 0 {
		return nil, &ToolError{
			Tool:     filepath.Base(tool),
			ExitCode: outcome.ExitCode,
			Stdout:   outcome.Stdout,
			Stderr:   outcome.Stderr,
		}
	}

	files, err := NormalizeJPGs(dir)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(w, "converted: %d page(s) to %s\n", len(files), dir)
	return &Result{Pages: len(files), Files: files}, nil
}

// ConvertToPPMs renders every page of the PDF at pdfPath to a PPM file in
// cfg.OutputDir using pdftoppm, recovers the page count from the tool's
// progress lines, and renames the output to canonical page-N.ppm names.
// Missing per-page files are warned about on w and recorded in the result
// rather than aborting. Per-step status is printed to w.
func ConvertToPPMs(r toolrunner.Runner, pdfPath string, cfg types.ConversionConfig, w io.Writer) (*Result, error) {
	dir, dpi, err := prepare(pdfPath, cfg)
	if err != nil {
		return nil, err
	}

	tool, err := toolrunner.FindPdftoppm(r, cfg.Tools.Pdftoppm)
	if err != nil {
		return nil, fmt.Errorf("pdftoppm is not installed or not on PATH: %w", ErrToolMissing)
	}

	fmt.Fprintf(w, "converting %s to PPMs in %s at %d dpi\n", pdfPath, dir, dpi)
	// -l 0 selects through the final page without knowing the count.
	outcome, err := r.Run(tool,
		"-f", "1",
		"-l", "0",
		"-r", strconv.Itoa(dpi),
		"-progress",
		pdfPath,
		filepath.Join(dir, "page"),
	)
	if err != nil {
		return nil, err
	}
	if outcome.ExitCode != 0 {
		return nil, &ToolError{
			Tool:     filepath.Base(tool),
			ExitCode: outcome.ExitCode,
			Stdout:   outcome.Stdout,
			Stderr:   outcome.Stderr,
		}
	}

	pages, ok := PageCount(outcome.Stderr)
	if !ok {
		return nil, fmt.Errorf("no progress lines in pdftoppm output: %w", ErrPageCountUnavailable)
	}

	files, missing := NormalizePPMs(dir, pages, w)

	if len(missing) > 0 {
		fmt.Fprintf(w, "converted: %d of %d page(s) to %s (%d missing)\n", len(files), pages, dir, len(missing))
	} else {
		fmt.Fprintf(w, "converted: %d page(s) to %s\n", len(files), dir)
	}
	return &Result{Pages: pages, Files: files, Missing: missing}, nil
}

// prepare validates the source path, applies the DPI default, and creates
// the output directory. It runs before the rasterizer is located so that a
// missing input never touches the filesystem.
func prepare(pdfPath string, cfg types.ConversionConfig) (dir string, dpi int, err error) {
	if _, err := os.Stat(pdfPath); err != nil {
		return "", 0, fmt.Errorf("%s: %w", pdfPath, ErrInputNotFound)
	}

	dpi = cfg.DPI
	if dpi <= 0 {
		dpi = DefaultDPI
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return "", 0, fmt.Errorf("creating output directory %s: %w", cfg.OutputDir, err)
	}
	return cfg.OutputDir, dpi, nil
}
