package types

// ToolsConfig holds explicit paths to the external rasterizer binaries.
// Empty values mean the binary is located on PATH.
type ToolsConfig struct {
	// Magick is the path to the ImageMagick entry point (magick or
	// legacy convert).
	Magick string `json:"magick,omitempty" yaml:"magick,omitempty"`

	// Pdftoppm is the path to poppler's pdftoppm.
	Pdftoppm string `json:"pdftoppm,omitempty" yaml:"pdftoppm,omitempty"`
}

// ConversionConfig holds the settings for one conversion run.
type ConversionConfig struct {
	// OutputDir is the directory the image files are written to. It is
	// created recursively when absent.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// DPI is the rendering resolution in dots per inch (default 150).
	DPI int `json:"dpi" yaml:"dpi"`

	// Tools overrides rasterizer binary locations.
	Tools ToolsConfig `json:"tools,omitempty" yaml:"tools,omitempty"`
}
