package cmd

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/armbian/targetgen/pkg/classify"
	"github.com/armbian/targetgen/pkg/partition"
	"github.com/armbian/targetgen/pkg/targets"
)

// buildPlan runs the generation pass without writing anything. Sidecars and
// extension maps are looked up in outputDir as during generate.
func buildPlan(ctx context.Context, inventoryPath, outputDir string) (*targets.Plan, error) {
	opts := buildOptions(inventoryPath, outputDir)
	in, err := targets.LoadInputs(ctx, opts)
	if err != nil {
		return nil, err
	}
	return targets.Build(in, opts)
}

// boardsCmd represents the boards command
var boardsCmd = &cobra.Command{
	Use:   "boards <image-info.json|url>",
	Short: "Prints the classified board table",
	Long:  "Prints every board/branch pair that survives partitioning along with its category and merged extensions.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tier, _ := cmd.Flags().GetString("tier")
		oneBranch, _ := cmd.Flags().GetBool("one-branch")
		outputDir, _ := cmd.Flags().GetString("output-dir")

		plan, err := buildPlan(cmd.Context(), args[0], outputDir)
		if err != nil {
			return err
		}

		var boards []classify.Board
		switch tier {
		case "primary":
			boards = plan.Exposed.Primary
		case "community":
			boards = plan.Exposed.Community
		case "all":
			boards = append(append(boards, plan.Exposed.Primary...), plan.Exposed.Community...)
		default:
			return fmt.Errorf("invalid tier %q (available: primary, community, all)", tier)
		}
		if oneBranch {
			boards = partition.SelectOneBranchPerBoard(boards)
		}

		if len(boards) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No boards matched.")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "BOARD\tBRANCH\tTIER\tARCH\tCATEGORY\tDESKTOP\tEXTENSIONS\t")
		for _, b := range boards {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%t\t%s\t\n",
				b.Board, b.Branch, b.SupportTier, b.Architecture, b.Category, b.HasDesktopVariant, b.Extensions)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(boardsCmd)
	boardsCmd.Flags().String("tier", "all", "Support tier group to show: primary, community, all")
	boardsCmd.Flags().Bool("one-branch", false, "Show only the preferred branch of each board")
	boardsCmd.Flags().StringP("output-dir", "o", ".", "Directory holding the manifest sidecars and extension maps")
}
