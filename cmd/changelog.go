package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rmolin/wowpkg/internal/changelog"
)

var changelogCmd = &cobra.Command{
	Use:   "changelog <addon>",
	Short: "Show an installed add-on's changelog",
	Long: `Fetch and print the changelog of an installed add-on.

HTML changelogs are rendered as plain text; other formats pass
through unchanged.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		sess, err := getSession(ctx)
		if err != nil {
			return err
		}

		a, err := findInstalled(sess, args[0])
		if err != nil {
			return err
		}
		if a.ChangelogURL == "" {
			return fmt.Errorf("%s has no changelog", a.Name)
		}

		client := getClient()
		payload, err := client.GetChangelog(ctx, a.Source, a.ChangelogURL)
		if err != nil {
			return fmt.Errorf("failed to fetch changelog: %w", err)
		}

		format := ""
		if sources, err := client.Sources().Get(ctx, false); err == nil {
			for _, s := range sources {
				if s.Source == a.Source {
					format = s.ChangelogFormat
					break
				}
			}
		}

		fmt.Printf("%s %s\n\n", a.Name, a.Version)
		fmt.Println(changelog.AsText(format, payload))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(changelogCmd)
}
