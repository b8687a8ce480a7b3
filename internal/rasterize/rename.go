// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rasterize

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// jpgScenePattern matches ImageMagick's scene-numbered output files.
var jpgScenePattern = regexp.MustCompile(`^page-(\d+)\.jpg$`)

// NormalizeJPGs renames ImageMagick's scene-numbered page-*.jpg files in
// dir to contiguous 1-based canonical names page-001.jpg..page-NNN.jpg.
// ImageMagick numbers scenes from zero, so without this pass a three-page
// document would end at page-002.jpg. Returns the canonical paths in page
// order.
func NormalizeJPGs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("listing output directory %s: %w", dir, err)
	}

	type sceneFile struct {
		scene int
		name  string
	}
	scenes := make([]sceneFile, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		m := jpgScenePattern.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		scenes = append(scenes, sceneFile{scene: n, name: entry.Name()})
	}
	sort.Slice(scenes, func(i, j int) bool { return scenes[i].scene < scenes[j].scene })

	// Two-phase rename: scene numbers and canonical page numbers overlap
	// (scene 1 becomes page-001.jpg while a file of that name may still
	// hold scene 1's successor), so every file moves to a temporary name
	// before taking its final one.
	files := make([]string, len(scenes))
	for i, sf := range scenes {
		native := filepath.Join(dir, sf.name)
		tmp := filepath.Join(dir, fmt.Sprintf("page-%03d.jpg.seq", i+1))
		if err := os.Rename(native, tmp); err != nil {
			return nil, fmt.Errorf("renaming %s: %w", native, err)
		}
		files[i] = tmp
	}
	for i, tmp := range files {
		canonical := strings.TrimSuffix(tmp, ".seq")
		if err := os.Rename(tmp, canonical); err != nil {
			return nil, fmt.Errorf("renaming %s: %w", tmp, err)
		}
		files[i] = canonical
	}
	return files, nil
}

// nativePPMName is the per-page filename pdftoppm produces for page n
// under the "page" output prefix.
func nativePPMName(n int) string {
	return fmt.Sprintf("page-%d-%d.ppm", n, n)
}

// canonicalPPMName is the normalized per-page filename for page n.
func canonicalPPMName(n int) string {
	return fmt.Sprintf("page-%d.ppm", n)
}

// NormalizePPMs renames pdftoppm's native per-page files in dir to the
// canonical page-<N>.ppm names for pages 1..pages. A missing expected file
// is printed to w as a warning and recorded in missing; remaining renames
// continue. Returns the canonical paths that exist, in page order.
func NormalizePPMs(dir string, pages int, w io.Writer) (files []string, missing []int) {
	for n := 1; n <= pages; n++ {
		native := filepath.Join(dir, nativePPMName(n))
		canonical := filepath.Join(dir, canonicalPPMName(n))

		if err := os.Rename(native, canonical); err != nil {
			fmt.Fprintf(w, "warning: expected %s not found, skipping\n", nativePPMName(n))
			missing = append(missing, n)
			continue
		}
		files = append(files, canonical)
	}
	return files, missing
}
