package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/rmolin/wowpkg/internal/addon"
	"github.com/rmolin/wowpkg/internal/ui/styles"
)

var (
	sourcesRefresh bool
	switchTo       string
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List known add-on sources",
	Long: `List the sources the resolution service knows about, with the
strategies and changelog format each one supports.

The source list is cached on disk for a day; --refresh bypasses the
cache.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		client := getClient()
		sources, err := client.Sources().Get(ctx, sourcesRefresh)
		if err != nil {
			return fmt.Errorf("failed to list sources: %w", err)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			styles.Title.Render("SOURCE"),
			styles.Title.Render("NAME"),
			styles.Title.Render("STRATEGIES"),
			styles.Title.Render("CHANGELOG"),
		)
		for _, s := range sources {
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				s.Source, s.Name, orDash(strings.Join(s.Strategies, ",")), orDash(s.ChangelogFormat))
		}
		_ = w.Flush()

		info := client.Sources().Info()
		if info.HasCache {
			state := "fresh"
			if info.IsStale {
				state = "stale"
			}
			fmt.Println("\n" + styles.Subtitle.Render(fmt.Sprintf("Cached %s (%s, updated %s)",
				state, info.Age.Round(time.Minute), info.LastUpdated.Format("2006-01-02 15:04"))))
		}
		return nil
	},
}

var sourcesSwitchCmd = &cobra.Command{
	Use:   "switch",
	Short: "Move installed add-ons to a different source",
	Long: `Find installed add-ons that are also published by other sources.

Without --to, lists each add-on with its alternatives. With --to, every
add-on that has an alternative from that source is removed (keeping its
folders) and reinstalled from the new source, claiming the folders back.

Examples:
  wowpkg sources switch
  wowpkg sources switch --to wowi`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		sess, err := getSession(ctx)
		if err != nil {
			return err
		}

		candidates, err := sess.ListSwapCandidates(ctx)
		if err != nil {
			return fmt.Errorf("failed to list alternatives: %w", err)
		}
		if len(candidates) == 0 {
			fmt.Println("No add-on has an alternative source")
			return nil
		}

		if switchTo == "" {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n",
				styles.Title.Render("ADDON"),
				styles.Title.Render("CURRENT"),
				styles.Title.Render("ALTERNATIVES"),
			)
			for _, c := range candidates {
				alts := make([]string, 0, len(c.Alternatives))
				for _, a := range c.Alternatives {
					alts = append(alts, a.Source)
				}
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n",
					c.Installed.Name, c.Installed.Source, strings.Join(alts, ", "))
			}
			_ = w.Flush()
			fmt.Println("\nUse --to <source> to switch")
			return nil
		}

		selections := make([]*addon.Addon, len(candidates))
		matched := 0
		for i, c := range candidates {
			for _, alt := range c.Alternatives {
				if alt.Source == switchTo {
					pick := alt
					selections[i] = &pick
					matched++
					break
				}
			}
		}
		if matched == 0 {
			return fmt.Errorf("no add-on has an alternative from source %q", switchTo)
		}

		results, err := sess.ApplySwaps(ctx, selections)
		if err != nil {
			return err
		}

		printResults(results)
		printAlerts(sess)
		return nil
	},
}

func init() {
	sourcesCmd.Flags().BoolVar(&sourcesRefresh, "refresh", false, "Bypass the on-disk source cache")
	sourcesSwitchCmd.Flags().StringVar(&switchTo, "to", "", "Source to switch matching add-ons to")
	sourcesCmd.AddCommand(sourcesSwitchCmd)
	rootCmd.AddCommand(sourcesCmd)
}
