// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rasterize

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.yaml.in/yaml/v3"
)

// ManifestName is the filename of the conversion record written into the
// output directory when the caller asks for one.
const ManifestName = "conversion.yaml"

// Manifest is the on-disk record of one conversion run. It lives alongside
// the image files it describes so a later consumer can see what produced
// them without re-running the tool.
type Manifest struct {
	Source       string    `yaml:"source"`
	Format       string    `yaml:"format"`
	DPI          int       `yaml:"dpi"`
	Pages        int       `yaml:"pages"`
	Files        []string  `yaml:"files"`
	MissingPages []int     `yaml:"missing_pages,omitempty"`
	ConvertedAt  time.Time `yaml:"converted_at"`
}

// WriteManifest records the result of a conversion run as YAML in the
// output directory. File entries are stored as base names relative to the
// directory so the record survives a directory move.
func WriteManifest(dir, source, format string, dpi int, result *Result) error {
	m := Manifest{
		Source:       source,
		Format:       format,
		DPI:          dpi,
		Pages:        result.Pages,
		MissingPages: result.Missing,
		ConvertedAt:  time.Now().UTC(),
	}
	for _, f := range result.Files {
		m.Files = append(m.Files, filepath.Base(f))
	}

	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}

	path := filepath.Join(dir, ManifestName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing manifest %s: %w", path, err)
	}
	return nil
}
