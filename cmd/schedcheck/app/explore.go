package app

import (
	"github.com/spf13/cobra"

	"github.com/klrn-data/schedcheck/pkg/explore"
)

// NewExploreCommand creates the explore command.
func (a *App) NewExploreCommand() *cobra.Command {
	opts := explore.DefaultOptions()

	cmd := &cobra.Command{
		Use:   "explore <file.json>",
		Short: "Print the shape of a JSON feed file",
		Long: `Explore prints an indented outline of a JSON document's structure:
object keys, list lengths, and element types, truncated at a depth and
item limit. Useful for sizing up a feed before wiring it into a parser.`,
		Example: `  schedcheck explore data/pbs.json
  schedcheck explore data/pbs.json --level 6 --items 10`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return explore.File(cmd.OutOrStdout(), args[0], opts)
		},
	}

	cmd.Flags().IntVar(&opts.MaxLevel, "level", opts.MaxLevel, "maximum nesting depth to print")
	cmd.Flags().IntVar(&opts.MaxItems, "items", opts.MaxItems, "maximum list items to print per list")
	return cmd
}
