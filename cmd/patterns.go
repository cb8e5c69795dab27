package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/armbian/targetgen/pkg/exposure"
)

// patternsCmd represents the patterns command
var patternsCmd = &cobra.Command{
	Use:   "patterns <image-info.json|url>",
	Short: "Prints the exposed.map patterns to stdout",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		outputDir, _ := cmd.Flags().GetString("output-dir")

		plan, err := buildPlan(cmd.Context(), args[0], outputDir)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(exposure.Render(plan.Patterns))
		if err != nil {
			return fmt.Errorf("could not print patterns: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(patternsCmd)
	patternsCmd.Flags().StringP("output-dir", "o", ".", "Directory holding the manifest sidecars and extension maps")
}
