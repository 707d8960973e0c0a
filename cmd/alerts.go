package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rmolin/wowpkg/internal/ui/styles"
)

var alertsDismiss bool

var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "Check all installed add-ons and report problems",
	Long: `Re-resolve every installed add-on and report anything that no
longer resolves cleanly: vanished catalogue entries, sources that
error out, pinned versions that are gone.

--dismiss clears the reported alerts afterwards.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		sess, err := getSession(ctx)
		if err != nil {
			return err
		}

		if err := sess.Refresh(ctx); err != nil {
			return fmt.Errorf("failed to refresh: %w", err)
		}

		alerts := sess.Alerts().All()
		if len(alerts) == 0 {
			fmt.Println(styles.SuccessText.Render("No problems found"))
			return nil
		}

		for _, a := range alerts {
			fmt.Printf("%s %s\n  %s\n", styles.WarningText.Render("!"), a.Heading, a.Message)
		}
		fmt.Printf("\n%d alert(s)\n", sess.Alerts().Len())

		if alertsDismiss {
			sess.Alerts().DismissAll()
		}
		return nil
	},
}

func init() {
	alertsCmd.Flags().BoolVar(&alertsDismiss, "dismiss", false, "Clear alerts after showing them")
	rootCmd.AddCommand(alertsCmd)
}
