package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rmolin/wowpkg/internal/profile"
	"github.com/rmolin/wowpkg/internal/ui/styles"
)

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List configured profiles",
	Long: `List the profiles from the config file, with their add-on
directories. The active profile is the config default unless
--profile overrides it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(cfg.Profiles) == 0 {
			fmt.Println("No profiles configured")
			fmt.Printf("\nAdd profiles to the config file and set a default, e.g.:\n\n")
			fmt.Println("  profile: retail")
			fmt.Println("  profiles:")
			fmt.Println("    retail:")
			fmt.Println("      game_dir: ~/Games/wow")
			return nil
		}

		active := profileName()

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n",
			styles.Title.Render("PROFILE"),
			styles.Title.Render("ADDONS DIR"),
			styles.Title.Render(""),
		)
		for name, p := range cfg.Profiles {
			marker := ""
			if name == active {
				marker = styles.SuccessText.Render("active")
			}
			if problems := profile.ValidateName(name, nil); len(problems) > 0 {
				marker = styles.ErrorText.Render(problems["name"])
			}
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", name, orDash(p.AddonsDir()), marker)
		}
		_ = w.Flush()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(profilesCmd)
}
