package cmd

import (
	"github.com/spf13/cobra"

	"github.com/rmolin/wowpkg/internal/addon"
	"github.com/rmolin/wowpkg/internal/service"
)

var removeKeepFolders bool

var removeCmd = &cobra.Command{
	Use:   "remove <addon>...",
	Short: "Remove installed add-ons",
	Long: `Remove add-ons from the active profile.

With --keep-folders, the add-on is dropped from the installed set but
its folders stay on disk, ready to be claimed by a replacement.

Examples:
  wowpkg remove Questie
  wowpkg remove --keep-folders curse:23350`,
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

		results, err := sess.Modify(ctx, service.MethodRemove, targets, service.ModifyParams{
			KeepFolders: removeKeepFolders,
		})
		if err != nil {
			return err
		}

		printResults(results)
		printAlerts(sess)
		return nil
	},
}

func init() {
	removeCmd.Flags().BoolVar(&removeKeepFolders, "keep-folders", false, "Keep the add-on's folders on disk")
	rootCmd.AddCommand(removeCmd)
}
