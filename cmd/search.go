package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/rmolin/wowpkg/internal/addon"
	"github.com/rmolin/wowpkg/internal/session"
	uipicker "github.com/rmolin/wowpkg/internal/ui/picker"
	"github.com/rmolin/wowpkg/internal/ui/styles"
)

var (
	searchSources         []string
	searchLimit           int
	searchSinceDays       int
	searchFilterInstalled bool
	searchForceAlias      bool
	searchPick            bool
)

var searchCmd = &cobra.Command{
	Use:   "search [terms]",
	Short: "Search the add-on catalogue",
	Long: `Search the catalogue for add-ons.

A "source:alias" query skips the catalogue and resolves the alias
directly. With --filter-installed the results narrow the installed
collection instead of replacing it. --pick opens an interactive
picker and installs the selection.

Examples:
  wowpkg search questie
  wowpkg search curse:deadly-boss-mods
  wowpkg search --filter-installed quest
  wowpkg search --pick`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		sess, err := getSession(ctx)
		if err != nil {
			return err
		}

		opts := session.SearchOptions{
			Limit:           searchLimit,
			Sources:         searchSources,
			ForceAlias:      searchForceAlias,
			FilterInstalled: searchFilterInstalled,
		}
		if searchSinceDays > 0 {
			since := time.Now().AddDate(0, 0, -searchSinceDays)
			opts.StartDate = &since
		}

		if searchPick {
			return runPicker(cmd, sess, opts)
		}

		if len(args) == 0 {
			return fmt.Errorf("search terms required (or use --pick)")
		}

		if err := sess.Search(ctx, strings.Join(args, " "), opts); err != nil {
			return fmt.Errorf("search failed: %w", err)
		}

		printSearchResults(sess)
		printAlerts(sess)
		return nil
	},
}

// runPicker drives the interactive picker and installs the choice.
func runPicker(cmd *cobra.Command, sess *session.Session, opts session.SearchOptions) error {
	sink := uipicker.NewSink()
	m := uipicker.NewModel(sess, opts, sink)

	p := tea.NewProgram(m, tea.WithAltScreen())
	sink.Bind(p.Send)

	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	chosen := final.(uipicker.Model).Chosen()
	if chosen == nil {
		return nil
	}
	if chosen.Installed {
		fmt.Printf("%s is already installed\n", chosen.Resolved.Name)
		return nil
	}

	ctx := cmd.Context()
	defns := []addon.Defn{addon.DefnOf(chosen.Resolved)}
	results, err := runWithProgress(sess, "Installing "+chosen.Resolved.Name, defns,
		func() ([]addon.ModifyResult, error) {
			return sess.Install(ctx, defns, false)
		})
	if err != nil {
		return err
	}

	printResults(results)
	printAlerts(sess)
	return nil
}

// printSearchResults renders whichever collection the search settled
// the session on.
func printSearchResults(sess *session.Session) {
	views := sess.Views()
	var triplets []addon.Triplet
	switch sess.ActiveView() {
	case session.ViewFilterInstalled:
		triplets = views.FilteredInstalled
	case session.ViewSearch:
		triplets = views.Search
	default:
		triplets = views.Installed
	}

	if len(triplets) == 0 {
		fmt.Println("No results")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
		styles.Title.Render("ADDON"),
		styles.Title.Render("SOURCE"),
		styles.Title.Render("VERSION"),
		styles.Title.Render("STATUS"),
	)

	for _, t := range triplets {
		status := ""
		if t.Installed {
			status = styles.FormatInstalledBadge()
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			t.Resolved.Name, t.Resolved.Source, t.Resolved.Version, status)
	}
	_ = w.Flush()
}

func init() {
	searchCmd.Flags().StringSliceVar(&searchSources, "source", nil, "Restrict results to these sources")
	searchCmd.Flags().IntVar(&searchLimit, "limit", session.DefaultSearchLimit, "Maximum number of results")
	searchCmd.Flags().IntVar(&searchSinceDays, "since", 0, "Only results updated in the last N days")
	searchCmd.Flags().BoolVar(&searchFilterInstalled, "filter-installed", false, "Narrow the installed collection instead of searching the catalogue")
	searchCmd.Flags().BoolVar(&searchForceAlias, "alias", false, "Treat the query as an alias even without a known source prefix")
	searchCmd.Flags().BoolVar(&searchPick, "pick", false, "Pick and install interactively")
	rootCmd.AddCommand(searchCmd)
}
