package cmd

import (
	"github.com/spf13/cobra"

	"github.com/rmolin/wowpkg/internal/addon"
)

var pinUndo bool

var pinCmd = &cobra.Command{
	Use:   "pin <addon>...",
	Short: "Pin add-ons to their installed version",
	Long: `Pin add-ons so updates stop moving them past the currently
installed version. --undo releases the pin.

Examples:
  wowpkg pin Questie
  wowpkg pin --undo Questie`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		sess, err := getSession(ctx)
		if err != nil {
			return err
		}

		targets := make([]addon.Addon, 0, len(args))
		for _, arg := range args {
			a, err := findInstalled(sess, arg)
			if err != nil {
				return err
			}
			targets = append(targets, a)
		}

		results, err := sess.Pin(ctx, targets, !pinUndo)
		if err != nil {
			return err
		}

		printResults(results)
		printAlerts(sess)
		return nil
	},
}

func init() {
	pinCmd.Flags().BoolVar(&pinUndo, "undo", false, "Unpin instead of pin")
	rootCmd.AddCommand(pinCmd)
}
