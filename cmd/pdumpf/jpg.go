package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/taogaetz/pdumpf/internal/rasterize"
	"github.com/taogaetz/pdumpf/internal/toolrunner"
	"github.com/taogaetz/pdumpf/pkg/types"
)

const defaultJPGDir = "output_jpgs"

var jpgCmd = &cobra.Command{
	Use:   "jpg <pdf>",
	Short: "Convert a PDF to JPEG images with ImageMagick",
	Long: `Jpg renders every page of the input PDF to a JPEG file using ImageMagick
at the requested resolution. Output files are named page-001.jpg through
page-NNN.jpg in the output directory.`,
	Args: cobra.ExactArgs(1),
	RunE: runJPG,
}

func init() {
	jpgCmd.Flags().String("output-dir", "", "directory to save JPG files (default \"output_jpgs\")")
	jpgCmd.Flags().Int("dpi", 0, "resolution for conversion (default 150)")
	jpgCmd.Flags().Bool("manifest", false, "write a conversion.yaml record into the output directory")

	rootCmd.AddCommand(jpgCmd)
}

func runJPG(cmd *cobra.Command, args []string) error {
	outputDir, _ := cmd.Flags().GetString("output-dir")
	if outputDir == "" {
		outputDir = viper.GetString("jpg.output_dir")
	}
	if outputDir == "" {
		outputDir = defaultJPGDir
	}

	cfg := types.ConversionConfig{
		OutputDir: outputDir,
		DPI:       resolveDPI(cmd),
		Tools:     toolsConfig(),
	}

	result, err := rasterize.ConvertToJPGs(toolrunner.New(), args[0], cfg, os.Stdout)
	if err != nil {
		return err
	}

	manifest, _ := cmd.Flags().GetBool("manifest")
	if manifest {
		return rasterize.WriteManifest(cfg.OutputDir, args[0], "jpg", cfg.DPI, result)
	}
	return nil
}

// resolveDPI returns the resolution, preferring the flag over the config
// file over the built-in default.
func resolveDPI(cmd *cobra.Command) int {
	dpi, _ := cmd.Flags().GetInt("dpi")
	if dpi == 0 {
		dpi = viper.GetInt("dpi")
	}
	if dpi == 0 {
		dpi = rasterize.DefaultDPI
	}
	return dpi
}

// toolsConfig reads rasterizer binary overrides from the config file.
func toolsConfig() types.ToolsConfig {
	return types.ToolsConfig{
		Magick:   viper.GetString("tools.magick"),
		Pdftoppm: viper.GetString("tools.pdftoppm"),
	}
}
