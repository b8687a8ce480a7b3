package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/taogaetz/pdumpf/internal/rasterize"
	"github.com/taogaetz/pdumpf/internal/toolrunner"
	"github.com/taogaetz/pdumpf/pkg/types"
)

const defaultPPMDir = "output_ppms"

var ppmCmd = &cobra.Command{
	Use:   "ppm <pdf>",
	Short: "Convert a PDF to PPM images with pdftoppm",
	Long: `Ppm renders every page of the input PDF to a PPM file using poppler's
pdftoppm at the requested resolution. The page count is recovered from the
tool's progress output and the files are renamed to page-1.ppm through
page-N.ppm in the output directory. A page whose file the tool failed to
produce is reported as a warning; the remaining pages are still kept.`,
	Args: cobra.ExactArgs(1),
	RunE: runPPM,
}

func init() {
	ppmCmd.Flags().String("output-dir", "", "directory to save PPM files (default \"output_ppms\")")
	ppmCmd.Flags().Int("dpi", 0, "resolution for conversion (default 150)")
	ppmCmd.Flags().Bool("manifest", false, "write a conversion.yaml record into the output directory")

	rootCmd.AddCommand(ppmCmd)
}

func runPPM(cmd *cobra.Command, args []string) error {
	outputDir, _ := cmd.Flags().GetString("output-dir")
	if outputDir == "" {
		outputDir = viper.GetString("ppm.output_dir")
	}
	if outputDir == "" {
		outputDir = defaultPPMDir
	}

	cfg := types.ConversionConfig{
		OutputDir: outputDir,
		DPI:       resolveDPI(cmd),
		Tools:     toolsConfig(),
	}

	result, err := rasterize.ConvertToPPMs(toolrunner.New(), args[0], cfg, os.Stdout)
	if err != nil {
		return err
	}

	manifest, _ := cmd.Flags().GetBool("manifest")
	if manifest {
		return rasterize.WriteManifest(cfg.OutputDir, args[0], "ppm", cfg.DPI, result)
	}
	return nil
}
