package cli

import (
	"fmt"
	"os"

	"github.com/prefsync-dev/prefsync/internal/config"
	"github.com/prefsync-dev/prefsync/internal/fetch"
	"github.com/prefsync-dev/prefsync/internal/header"
	"github.com/prefsync-dev/prefsync/internal/menu"
	"github.com/prefsync-dev/prefsync/internal/workflow"
	"github.com/spf13/cobra"
)

var (
	updateUnattended   bool
	updateMinify       bool
	updateSingleBackup bool
	updateCheck        bool
	updateProfileDir   string
)

func init() {
	// The root command doubles as `update`, so both carry the same flags.
	for _, cmd := range []*cobra.Command{rootCmd, updateCmd} {
		cmd.Flags().BoolVarP(&updateUnattended, "unattended", "u", false, "Run without the interactive menu")
		cmd.Flags().BoolVarP(&updateMinify, "minify", "m", false, "Merge overrides into the script instead of appending them")
		cmd.Flags().BoolVar(&updateSingleBackup, "single-backup", false, "Keep only the most recent backup")
		cmd.Flags().BoolVar(&updateCheck, "check", false, "Report what would happen without touching the live script")
		cmd.Flags().StringVar(&updateProfileDir, "profile", "", "Firefox profile directory (default: current directory)")
	}

	rootCmd.AddCommand(updateCmd)
}

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Fetch the latest user.js and update the profile",
	Long: `Downloads the canonical user.js, applies user-overrides.js, validates the
result, and replaces the live script via a staged, backed-up rename.

  prefsync update              # append overrides (default)
  prefsync update --minify     # merge overrides, declarations only
  prefsync update --check      # dry run, nothing is touched`,
	RunE: runUpdate,
}

const intro = `
This tool should be run from your Firefox profile directory. It will
download the latest version of the canonical user.js and then apply your
own changes from user-overrides.js to it.
`

func runUpdate(cmd *cobra.Command, args []string) error {
	config.Load()

	opts := workflow.Options{
		Minify:       updateMinify || config.GetBool(config.KeyMinify),
		SingleBackup: updateSingleBackup || config.GetBool(config.KeySingleBackup),
		DryRun:       updateCheck,
	}

	// A non-terminal stdin means nobody can answer the menu.
	unattended := updateUnattended ||
		config.GetBool(config.KeyUnattended) ||
		!menu.IsInteractive()

	if !unattended && !updateCheck {
		fmt.Fprint(os.Stderr, intro)
		choice, err := menu.Run()
		if err != nil {
			return fmt.Errorf("showing menu: %w", err)
		}
		switch choice {
		case menu.ChoiceExit:
			return nil
		case menu.ChoiceHelp:
			fmt.Fprintln(os.Stdout, helpText)
			return nil
		}
	}

	profileDir := updateProfileDir
	if profileDir == "" {
		profileDir = config.Get(config.KeyProfileDir)
	}

	client := fetch.New(config.Get(config.KeyUpstreamURL))
	wf := workflow.New(profileDir, client,
		workflow.WithRecognitionToken(config.Get(config.KeyRecognitionToken)))

	attempt, err := wf.Run(opts)
	if err != nil {
		return err
	}

	if updateCheck {
		printVersionHint(attempt)
	}
	return nil
}

// printVersionHint gives a best-effort ordering of the two version strings.
// Upstream versions are not guaranteed to be semver, in which case nothing
// is printed.
func printVersionHint(attempt *workflow.Attempt) {
	cmp, err := header.Compare(attempt.OldVersion.Version, attempt.NewVersion.Version)
	if err != nil {
		return
	}
	switch {
	case cmp < 0:
		fmt.Fprintln(os.Stderr, "Upstream version looks newer than the local script.")
	case cmp > 0:
		fmt.Fprintln(os.Stderr, "Local script looks newer than upstream.")
	default:
		fmt.Fprintln(os.Stderr, "Local and upstream version strings look the same.")
	}
}
