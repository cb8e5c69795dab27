package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/armbian/targetgen/pkg/targets"
)

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:   "generate <image-info.json|url> [output_dir]",
	Short: "Writes every release-target manifest and exposed.map",
	Long: `Writes targets-release-apps.yaml, targets-release-standard-support.yaml,
targets-release-nightly.yaml, targets-release-community-maintained.yaml and
exposed.map into output_dir (default: current directory).`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		outputDir := "."
		if len(args) == 2 {
			outputDir = args[1]
		} else if wd, err := os.Getwd(); err == nil {
			outputDir = wd
		}

		written, err := targets.Generate(cmd.Context(), buildOptions(args[0], outputDir))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Done! %d files written to %s\n", len(written), outputDir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)
}
