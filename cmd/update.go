package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rmolin/wowpkg/internal/addon"
	"github.com/rmolin/wowpkg/internal/service"
)

var updateCmd = &cobra.Command{
	Use:   "update [addon]...",
	Short: "Update installed add-ons",
	Long: `Update installed add-ons to their latest resolvable version.

Without arguments, refreshes everything and updates whatever is
outdated. Pinned add-ons keep their pinned version either way.

Examples:
  wowpkg update
  wowpkg update Questie pfQuest`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		sess, err := getSession(ctx)
		if err != nil {
			return err
		}

		var targets []addon.Addon
		if len(args) == 0 {
			results, err := sess.UpdateAll(ctx)
			if err != nil {
				return err
			}
			if len(results) == 0 {
				fmt.Println("Everything is up to date")
			}
			printResults(results)
			printAlerts(sess)
			return nil
		}

		for _, arg := range args {
			a, err := findInstalled(sess, arg)
			if err != nil {
				return err
			}
			targets = append(targets, a)
		}

		defns := make([]addon.Defn, 0, len(targets))
		for _, a := range targets {
			defns = append(defns, addon.DefnOf(a))
		}

		results, err := runWithProgress(sess, "Updating add-ons", defns,
			func() ([]addon.ModifyResult, error) {
				return sess.Modify(ctx, service.MethodUpdate, targets, service.ModifyParams{})
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
	rootCmd.AddCommand(updateCmd)
}
