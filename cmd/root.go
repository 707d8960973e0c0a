package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/rmolin/wowpkg/internal/config"
	"github.com/rmolin/wowpkg/internal/logger"
	"github.com/rmolin/wowpkg/internal/profile"
	"github.com/rmolin/wowpkg/internal/service"
	"github.com/rmolin/wowpkg/internal/session"
	"github.com/rmolin/wowpkg/internal/ui/styles"
)

// Version info set via ldflags at build time
var (
	version = "dev"
	commit  = "unknown"
)

var (
	verbose     bool
	profileFlag string

	cfg      *config.Config
	registry *profile.Registry
)

var rootCmd = &cobra.Command{
	Use:     "wowpkg",
	Short:   "WoW add-on manager",
	Version: version + " (" + commit + ")",
	Long: `A CLI tool to install, update, and untangle World of Warcraft
add-ons through a resolution service.

Quick start:
  wowpkg search --pick   Find and install add-ons interactively
  wowpkg list --updates  Show installed add-ons with pending updates
  wowpkg update          Update everything that is outdated`,
	SilenceUsage: true,
}

func Execute() {
	defer logger.Close()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if err := logger.Init(verbose); err != nil {
			return err
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		registry = profile.NewRegistry(func(name string) (service.Service, error) {
			return service.NewClient(cfg.ServiceURL, name, cfg.ProfileCacheDir(name), getLogger()), nil
		}, getLogger())

		return nil
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose/debug logging")
	rootCmd.PersistentFlags().StringVarP(&profileFlag, "profile", "p", "", "Profile to operate on (defaults to config)")
}

// getLogger returns the shared logger instance.
func getLogger() *log.Logger {
	return logger.Log
}

// profileName resolves which profile a command operates on.
func profileName() string {
	if profileFlag != "" {
		return profileFlag
	}
	return cfg.Profile
}

// getSession loads (or returns) the session for the selected profile,
// seeded with the installed collection and the known sources.
func getSession(ctx context.Context) (*session.Session, error) {
	sess, err := registry.Load(ctx, profileName())
	if err != nil {
		return nil, fmt.Errorf("failed to load profile %q: %w", profileName(), err)
	}
	return sess, nil
}

// getClient builds a service client for the selected profile, for
// commands that talk to the service without a session.
func getClient() *service.Client {
	name := profileName()
	return service.NewClient(cfg.ServiceURL, name, cfg.ProfileCacheDir(name), getLogger())
}

// printAlerts dumps any alerts the session accumulated to stderr.
func printAlerts(sess *session.Session) {
	alerts := sess.Alerts().All()
	if len(alerts) == 0 {
		return
	}
	for _, a := range alerts {
		fmt.Fprintf(os.Stderr, "%s %s: %s\n",
			styles.WarningText.Render("!"), a.Heading, a.Message)
	}
}
