package cmd

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/rmolin/wowpkg/internal/addon"
	"github.com/rmolin/wowpkg/internal/session"
	uiprogress "github.com/rmolin/wowpkg/internal/ui/progress"
	"github.com/rmolin/wowpkg/internal/ui/styles"
)

var installReplace bool

var installCmd = &cobra.Command{
	Use:   "install <source:alias>...",
	Short: "Install add-ons",
	Long: `Install one or more add-ons by source and alias.

An alias may be a slug, a numeric id, or a URL fragment the source
understands. Without a source prefix the alias is resolved against
whichever source claims it.

Examples:
  wowpkg install curse:deadly-boss-mods
  wowpkg install wowi:24921 details
  wowpkg install --replace curse:questie`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		sess, err := getSession(ctx)
		if err != nil {
			return err
		}

		defns := make([]addon.Defn, 0, len(args))
		for _, arg := range args {
			defns = append(defns, parseDefn(arg))
		}

		results, err := runWithProgress(sess, "Installing add-ons", defns,
			func() ([]addon.ModifyResult, error) {
				return sess.Install(ctx, defns, installReplace)
			})
		if err != nil {
			return err
		}

		printResults(results)
		printAlerts(sess)
		return nil
	},
}

// parseDefn splits "source:alias" requests; a bare alias resolves
// against the wildcard source.
func parseDefn(arg string) addon.Defn {
	if source, alias, ok := strings.Cut(arg, ":"); ok && source != "" {
		return addon.Defn{Source: source, Alias: alias}
	}
	return addon.Defn{Source: addon.WildcardSource, Alias: arg}
}

// runWithProgress runs one modification batch behind the progress TUI,
// feeding it the session's download snapshots until the batch settles.
func runWithProgress(sess *session.Session, title string, defns []addon.Defn,
	run func() ([]addon.ModifyResult, error)) ([]addon.ModifyResult, error) {

	tokens := make([]addon.Token, 0, len(defns))
	for _, d := range defns {
		tokens = append(tokens, d.Token())
	}

	m := uiprogress.NewModel(title, tokens)
	p := tea.NewProgram(m)

	done := make(chan struct{})
	go func() {
		t := time.NewTicker(200 * time.Millisecond)
		defer t.Stop()
		for {
			select {
			case <-done:
				return
			case <-t.C:
				p.Send(uiprogress.SnapshotMsg(sess.Progress()))
			}
		}
	}()
	go func() {
		results, err := run()
		close(done)
		p.Send(uiprogress.DoneMsg{Results: results, Err: err})
	}()

	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("error running TUI: %w", err)
	}

	fm := final.(uiprogress.Model)
	if fm.Err() != nil {
		return nil, fm.Err()
	}
	return fm.Results(), nil
}

// printResults reports per-item outcomes of a modification batch.
func printResults(results []addon.ModifyResult) {
	for _, r := range results {
		if r.OK() {
			name := r.Defn.Alias
			if r.Addon != nil {
				name = r.Addon.Name
			}
			version := ""
			if r.Addon != nil {
				version = " " + r.Addon.Version
			}
			fmt.Printf("%s %s%s\n", styles.SuccessText.Render("ok"), name, version)
		} else {
			fmt.Printf("%s %s: %s\n", styles.ErrorText.Render("failed"), r.Defn.Token(), r.Message)
		}
	}
}

func init() {
	installCmd.Flags().BoolVar(&installReplace, "replace", false, "Replace folders claimed by other add-ons")
	rootCmd.AddCommand(installCmd)
}
