package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rmolin/wowpkg/internal/addon"
	"github.com/rmolin/wowpkg/internal/scan"
	"github.com/rmolin/wowpkg/internal/ui/styles"
)

var (
	reconcileAuto bool
	reconcileScan bool
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Match unmanaged add-on folders to catalogue entries",
	Long: `Match folders that exist on disk but are not tracked by any
installed add-on against the catalogue.

Matching runs in stages of decreasing accuracy (source ids recorded in
.toc files, then folder names, then interface version). By default the
candidates of the first productive stage are printed for review. With
--auto every group's top-ranked candidate is installed and the
remaining stages run unattended.

--scan skips the service entirely and lists the unmanaged folders
found on disk, with whatever hints their .toc files and git remotes
give.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if reconcileScan {
			return runScan(cmd)
		}

		sess, err := getSession(ctx)
		if err != nil {
			return err
		}

		stage, err := sess.AdvanceReconcile(ctx, addon.FirstStage)
		if err != nil {
			return err
		}

		matches := sess.Views().Reconcile
		if len(matches) == 0 {
			fmt.Println("Nothing to reconcile")
			return nil
		}

		if !reconcileAuto {
			printMatches(stage, matches)
			fmt.Println("\nRun with --auto to install each group's top candidate")
			return nil
		}

		for i, m := range matches {
			if len(m.Matches) > 0 {
				pick := m.Matches[0]
				sess.SelectReconcileCandidate(i, &pick)
			}
		}

		results, err := sess.InstallReconcileSelections(ctx, stage, sess.ReconcileSelections(), true)
		if err != nil {
			return err
		}

		if len(results) == 0 {
			fmt.Println("No candidates found")
		}
		printResults(results)
		printAlerts(sess)
		return nil
	},
}

// runScan lists unmanaged folders straight from disk.
func runScan(cmd *cobra.Command) error {
	ctx := cmd.Context()

	sess, err := getSession(ctx)
	if err != nil {
		return err
	}

	claimed := make(map[string]bool)
	for _, a := range sess.Installed() {
		for _, f := range a.Folders {
			claimed[f.Name] = true
		}
	}

	scanner := scan.New(cfg.ProfileConfig(profileName()).AddonsDir(), getLogger())
	folders, err := scanner.Unregistered(claimed)
	if err != nil {
		return fmt.Errorf("failed to scan addons directory: %w", err)
	}

	if len(folders) == 0 {
		fmt.Println("No unmanaged folders found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
		styles.Title.Render("FOLDER"),
		styles.Title.Render("VERSION"),
		styles.Title.Render("SOURCE ID"),
		styles.Title.Render("REMOTE"),
	)
	for _, f := range folders {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			f.Name, orDash(f.Version), orDash(f.SourceID), orDash(f.RemoteURL))
	}
	_ = w.Flush()

	fmt.Printf("\n%d unmanaged folder(s)\n", len(folders))
	return nil
}

func printMatches(stage addon.Stage, matches []addon.Match) {
	fmt.Printf("Stage: %s\n\n", stage)

	for i, m := range matches {
		names := make([]string, 0, len(m.Folders))
		for _, f := range m.Folders {
			names = append(names, f.Name)
		}
		fmt.Printf("%d. %s\n", i+1, strings.Join(names, ", "))

		if len(m.Matches) == 0 {
			fmt.Println("   " + styles.MutedText.Render("no candidates"))
			continue
		}
		for j, c := range m.Matches {
			marker := "   "
			if j == 0 {
				marker = " * "
			}
			fmt.Printf("%s%s (%s, %s)\n", marker, c.Name, c.Source, c.Version)
		}
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func init() {
	reconcileCmd.Flags().BoolVar(&reconcileAuto, "auto", false, "Install top candidates and run remaining stages unattended")
	reconcileCmd.Flags().BoolVar(&reconcileScan, "scan", false, "List unmanaged folders on disk without querying the service")
	rootCmd.AddCommand(reconcileCmd)
}
