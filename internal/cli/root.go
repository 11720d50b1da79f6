package cli

import (
	"fmt"
	"os"

	"github.com/prefsync-dev/prefsync/internal/branding"
	"github.com/spf13/cobra"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` downloads the latest canonical user.js, combines it with
your customizations from user-overrides.js, and atomically replaces the
live script in your Firefox profile, keeping a timestamped backup.

Run it from inside the profile directory, or point it at one with --profile.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	// A bare invocation behaves like `prefsync update`.
	RunE: runUpdate,
}

// Execute runs the root command with build info injected via ldflags. Any
// error has already been reported to stderr when this returns.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "An error occurred during execution:\n%v\n", err)
	}
	return err
}
