package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rmolin/wowpkg/internal/addon"
	"github.com/rmolin/wowpkg/internal/session"
	"github.com/rmolin/wowpkg/internal/ui/styles"
)

var listUpdatesOnly bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List installed add-ons",
	Long: `List the add-ons installed in the active profile.

With --updates, refreshes every add-on against the service first and
shows only the ones with a newer version available.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		sess, err := getSession(ctx)
		if err != nil {
			return err
		}

		if listUpdatesOnly {
			if err := sess.Refresh(ctx); err != nil {
				return fmt.Errorf("failed to refresh: %w", err)
			}
		}

		triplets := sess.Views().Installed
		if listUpdatesOnly {
			outdated := triplets[:0:0]
			for _, t := range triplets {
				if t.HasUpdate() {
					outdated = append(outdated, t)
				}
			}
			triplets = outdated
		}

		if len(triplets) == 0 {
			if listUpdatesOnly {
				fmt.Println("Everything is up to date")
			} else {
				fmt.Println("No add-ons installed")
				fmt.Println("\nFind add-ons with: wowpkg search <terms>")
			}
			printAlerts(sess)
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)

		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			styles.Title.Render("ADDON"),
			styles.Title.Render("SOURCE"),
			styles.Title.Render("INSTALLED"),
			styles.Title.Render("AVAILABLE"),
			styles.Title.Render("FLAGS"),
		)

		for _, t := range triplets {
			available := t.Resolved.Version
			if !t.HasUpdate() {
				available = "-"
			}
			flags := ""
			if t.Reference.Options.VersionEq != "" {
				flags = styles.FormatPinnedBadge()
			}
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				t.Reference.Name, t.Reference.Source, t.Reference.Version, available, flags)
		}

		_ = w.Flush()

		fmt.Printf("\n%d add-on(s)\n", len(triplets))
		printAlerts(sess)
		return nil
	},
}

// findInstalled looks an installed add-on up by token, slug, or name.
func findInstalled(sess *session.Session, key string) (addon.Addon, error) {
	for _, a := range sess.Installed() {
		if string(a.Token()) == key || a.Slug == key || a.Name == key {
			return a, nil
		}
	}
	return addon.Addon{}, fmt.Errorf("add-on %q is not installed", key)
}

func init() {
	listCmd.Flags().BoolVar(&listUpdatesOnly, "updates", false, "Show only add-ons with pending updates")
	rootCmd.AddCommand(listCmd)
}
