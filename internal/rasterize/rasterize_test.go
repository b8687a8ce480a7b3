// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rasterize

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taogaetz/pdumpf/internal/toolrunner"
	"github.com/taogaetz/pdumpf/pkg/types"
)

// fakeRunner implements toolrunner.Runner without spawning processes. Its
// run function can create output files to simulate a rasterizer's side
// effects.
type fakeRunner struct {
	tools   map[string]string // binary name -> path for LookPath
	runFunc func(tool string, args ...string) (toolrunner.Outcome, error)
	ranTool string
	ranArgs []string
}

func (f *fakeRunner) LookPath(tool string) (string, error) {
	if path, ok := f.tools[tool]; ok {
		return path, nil
	}
	return "", errors.New("not found: " + tool)
}

func (f *fakeRunner) Run(tool string, args ...string) (toolrunner.Outcome, error) {
	f.ranTool = tool
	f.ranArgs = args
	if f.runFunc != nil {
		return f.runFunc(tool, args...)
	}
	return toolrunner.Outcome{}, nil
}

// setupPDF writes a fake source PDF and returns its path.
func setupPDF(t *testing.T) string {
	t.Helper()
	pdfPath := filepath.Join(t.TempDir(), "doc.pdf")
	require.NoError(t, os.WriteFile(pdfPath, []byte("%PDF-1.4 fake"), 0o644))
	return pdfPath
}

func TestConvertToJPGs_InputNotFound(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "out")
	runner := &fakeRunner{tools: map[string]string{"magick": "/usr/bin/magick"}}

	var log bytes.Buffer
	_, err := ConvertToJPGs(runner, filepath.Join(t.TempDir(), "missing.pdf"),
		types.ConversionConfig{OutputDir: outDir}, &log)

	require.ErrorIs(t, err, ErrInputNotFound)
	// Nothing was written: not even the output directory.
	_, statErr := os.Stat(outDir)
	assert.True(t, os.IsNotExist(statErr), "output directory should not exist")
	assert.Empty(t, runner.ranTool, "rasterizer should not have run")
}

func TestConvertToJPGs_ToolMissing(t *testing.T) {
	pdfPath := setupPDF(t)
	outDir := filepath.Join(t.TempDir(), "out")
	runner := &fakeRunner{tools: map[string]string{}}

	var log bytes.Buffer
	_, err := ConvertToJPGs(runner, pdfPath, types.ConversionConfig{OutputDir: outDir}, &log)

	require.ErrorIs(t, err, ErrToolMissing)
	// The output directory is created before tool lookup, but no images.
	entries, readErr := os.ReadDir(outDir)
	require.NoError(t, readErr)
	assert.Empty(t, entries)
}

func TestConvertToJPGs_ToolFailure(t *testing.T) {
	pdfPath := setupPDF(t)
	outDir := filepath.Join(t.TempDir(), "out")
	runner := &fakeRunner{
		tools: map[string]string{"convert": "/usr/bin/convert"},
		runFunc: func(tool string, args ...string) (toolrunner.Outcome, error) {
			return toolrunner.Outcome{
				ExitCode: 1,
				Stdout:   "partial output",
				Stderr:   "convert: unable to open image",
			}, nil
		},
	}

	var log bytes.Buffer
	_, err := ConvertToJPGs(runner, pdfPath, types.ConversionConfig{OutputDir: outDir}, &log)

	var toolErr *ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, 1, toolErr.ExitCode)
	assert.Equal(t, "partial output", toolErr.Stdout)
	assert.Equal(t, "convert: unable to open image", toolErr.Stderr)
	assert.Contains(t, toolErr.Error(), "exited with code 1")
	assert.Contains(t, toolErr.Error(), "unable to open image")
}

func TestConvertToJPGs_Success(t *testing.T) {
	pdfPath := setupPDF(t)
	outDir := filepath.Join(t.TempDir(), "out")
	runner := &fakeRunner{
		tools: map[string]string{"magick": "/usr/bin/magick", "convert": "/usr/bin/convert"},
		runFunc: func(tool string, args ...string) (toolrunner.Outcome, error) {
			// ImageMagick numbers scenes from zero.
			for i := 0; i < 3; i++ {
				name := fmt.Sprintf("page-%03d.jpg", i)
				if err := os.WriteFile(filepath.Join(outDir, name), []byte{byte(i)}, 0o644); err != nil {
					return toolrunner.Outcome{}, err
				}
			}
			return toolrunner.Outcome{}, nil
		},
	}

	var log bytes.Buffer
	result, err := ConvertToJPGs(runner, pdfPath, types.ConversionConfig{OutputDir: outDir, DPI: 300}, &log)
	require.NoError(t, err)

	assert.Equal(t, 3, result.Pages)
	assert.False(t, result.Partial())
	require.Len(t, result.Files, 3)
	for i, f := range result.Files {
		assert.Equal(t, filepath.Join(outDir, fmt.Sprintf("page-%03d.jpg", i+1)), f)
		_, statErr := os.Stat(f)
		assert.NoError(t, statErr)
	}

	// magick preferred over convert, invoked with the requested density
	// and the scene-numbered output pattern.
	assert.Equal(t, "/usr/bin/magick", runner.ranTool)
	assert.Equal(t, []string{"-density", "300", pdfPath, filepath.Join(outDir, "page-%03d.jpg")}, runner.ranArgs)
	assert.Contains(t, log.String(), "converted: 3 page(s)")
}

func TestConvertToJPGs_DefaultDPI(t *testing.T) {
	pdfPath := setupPDF(t)
	outDir := filepath.Join(t.TempDir(), "out")
	runner := &fakeRunner{tools: map[string]string{"convert": "/usr/bin/convert"}}

	var log bytes.Buffer
	_, err := ConvertToJPGs(runner, pdfPath, types.ConversionConfig{OutputDir: outDir}, &log)
	require.NoError(t, err)
	assert.Equal(t, []string{"-density", "150", pdfPath, filepath.Join(outDir, "page-%03d.jpg")}, runner.ranArgs)
}

func TestConvertToJPGs_ToolOverride(t *testing.T) {
	pdfPath := setupPDF(t)
	outDir := filepath.Join(t.TempDir(), "out")
	runner := &fakeRunner{tools: map[string]string{}} // nothing on PATH

	cfg := types.ConversionConfig{
		OutputDir: outDir,
		Tools:     types.ToolsConfig{Magick: "/opt/imagemagick/bin/magick"},
	}
	var log bytes.Buffer
	_, err := ConvertToJPGs(runner, pdfPath, cfg, &log)
	require.NoError(t, err)
	assert.Equal(t, "/opt/imagemagick/bin/magick", runner.ranTool)
}

// ppmRunner returns a fake pdftoppm that writes native per-page files for
// the given pages and reports progress for total pages on stderr.
func ppmRunner(outDir string, produce []int, total int) *fakeRunner {
	return &fakeRunner{
		tools: map[string]string{"pdftoppm": "/usr/bin/pdftoppm"},
		runFunc: func(tool string, args ...string) (toolrunner.Outcome, error) {
			for _, n := range produce {
				name := fmt.Sprintf("page-%d-%d.ppm", n, n)
				if err := os.WriteFile(filepath.Join(outDir, name), []byte{byte(n)}, 0o644); err != nil {
					return toolrunner.Outcome{}, err
				}
			}
			var diag bytes.Buffer
			for i := 1; i <= total; i++ {
				fmt.Fprintf(&diag, "Page %d/%d\n", i, total)
			}
			return toolrunner.Outcome{Stderr: diag.String()}, nil
		},
	}
}

func TestConvertToPPMs_Success(t *testing.T) {
	pdfPath := setupPDF(t)
	outDir := filepath.Join(t.TempDir(), "out")
	runner := ppmRunner(outDir, []int{1, 2, 3}, 3)

	var log bytes.Buffer
	result, err := ConvertToPPMs(runner, pdfPath, types.ConversionConfig{OutputDir: outDir}, &log)
	require.NoError(t, err)

	assert.Equal(t, 3, result.Pages)
	assert.False(t, result.Partial())

	// Directory holds exactly the canonical names; natives are gone.
	entries, readErr := os.ReadDir(outDir)
	require.NoError(t, readErr)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.Equal(t, []string{"page-1.ppm", "page-2.ppm", "page-3.ppm"}, names)

	assert.Equal(t, "/usr/bin/pdftoppm", runner.ranTool)
	assert.Equal(t, []string{
		"-f", "1", "-l", "0", "-r", "150", "-progress", pdfPath, filepath.Join(outDir, "page"),
	}, runner.ranArgs)
}

func TestConvertToPPMs_PageCountUnavailable(t *testing.T) {
	pdfPath := setupPDF(t)
	outDir := filepath.Join(t.TempDir(), "out")
	// Tool writes files but emits no progress lines.
	runner := ppmRunner(outDir, []int{1, 2}, 0)

	var log bytes.Buffer
	_, err := ConvertToPPMs(runner, pdfPath, types.ConversionConfig{OutputDir: outDir}, &log)

	require.ErrorIs(t, err, ErrPageCountUnavailable)
	// The files the tool produced are still on disk under native names;
	// the run is fatal regardless.
	_, statErr := os.Stat(filepath.Join(outDir, "page-1-1.ppm"))
	assert.NoError(t, statErr)
}

func TestConvertToPPMs_PartialOutput(t *testing.T) {
	pdfPath := setupPDF(t)
	outDir := filepath.Join(t.TempDir(), "out")
	// Tool claims 3 pages but produces files only for 1 and 3.
	runner := ppmRunner(outDir, []int{1, 3}, 3)

	var log bytes.Buffer
	result, err := ConvertToPPMs(runner, pdfPath, types.ConversionConfig{OutputDir: outDir}, &log)
	require.NoError(t, err, "partial output is a warning, not a failure")

	assert.Equal(t, 3, result.Pages)
	assert.True(t, result.Partial())
	assert.Equal(t, []int{2}, result.Missing)
	require.Len(t, result.Files, 2)
	assert.Contains(t, log.String(), "warning:")
	assert.Contains(t, log.String(), "2 of 3 page(s)")
}

func TestConvertToPPMs_ToolMissing(t *testing.T) {
	pdfPath := setupPDF(t)
	outDir := filepath.Join(t.TempDir(), "out")
	runner := &fakeRunner{tools: map[string]string{"convert": "/usr/bin/convert"}}

	var log bytes.Buffer
	_, err := ConvertToPPMs(runner, pdfPath, types.ConversionConfig{OutputDir: outDir}, &log)
	require.ErrorIs(t, err, ErrToolMissing)
}

func TestConvertToJPGs_Idempotent(t *testing.T) {
	pdfPath := setupPDF(t)

	runOnce := func() []string {
		outDir := filepath.Join(t.TempDir(), "out")
		runner := &fakeRunner{
			tools: map[string]string{"magick": "/usr/bin/magick"},
			runFunc: func(tool string, args ...string) (toolrunner.Outcome, error) {
				for i := 0; i < 2; i++ {
					name := fmt.Sprintf("page-%03d.jpg", i)
					if err := os.WriteFile(filepath.Join(outDir, name), []byte("x"), 0o644); err != nil {
						return toolrunner.Outcome{}, err
					}
				}
				return toolrunner.Outcome{}, nil
			},
		}
		var log bytes.Buffer
		result, err := ConvertToJPGs(runner, pdfPath, types.ConversionConfig{OutputDir: outDir}, &log)
		require.NoError(t, err)
		names := make([]string, len(result.Files))
		for i, f := range result.Files {
			names[i] = filepath.Base(f)
		}
		return names
	}

	assert.Equal(t, runOnce(), runOnce())
}
