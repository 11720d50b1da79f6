package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/prefsync-dev/prefsync/internal/config"
	"github.com/prefsync-dev/prefsync/internal/header"
	"github.com/prefsync-dev/prefsync/internal/workflow"
	"github.com/spf13/cobra"
)

func init() {
	doctorCmd.Flags().StringVar(&updateProfileDir, "profile", "", "Firefox profile directory (default: current directory)")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Health check for the profile and configuration",
	Long:  `Checks the config file, the profile directory, the live user.js header, and the overrides file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		config.Load()

		profileDir := updateProfileDir
		if profileDir == "" {
			profileDir = config.Get(config.KeyProfileDir)
		}

		problems := 0

		// Config file schema.
		if _, err := os.Stat(config.FilePath()); err == nil {
			res, err := config.ValidateFile(config.FilePath())
			switch {
			case err != nil:
				problems++
				fmt.Printf("[FAIL] config file: %v\n", err)
			case !res.Valid:
				problems++
				fmt.Printf("[FAIL] config file %s:\n", config.FilePath())
				for _, issue := range res.Issues {
					fmt.Printf("       %s: %s\n", issue.Path, issue.Message)
				}
			default:
				fmt.Printf("[OK]   config file %s\n", config.FilePath())
			}
		} else {
			fmt.Println("[OK]   no config file (defaults in effect)")
		}

		// Profile directory.
		if info, err := os.Stat(profileDir); err != nil || !info.IsDir() {
			problems++
			fmt.Printf("[FAIL] profile directory %s not found\n", profileDir)
			return fmt.Errorf("doctor found %d problem(s)", problems)
		}
		fmt.Printf("[OK]   profile directory %s\n", profileDir)

		// Live script and its header.
		scriptPath := filepath.Join(profileDir, workflow.ScriptName)
		if f, err := os.Open(scriptPath); err != nil {
			problems++
			fmt.Printf("[FAIL] %s not found\n", workflow.ScriptName)
		} else {
			v, perr := header.Parse(f, config.Get(config.KeyRecognitionToken))
			f.Close()
			if perr != nil {
				problems++
				fmt.Printf("[FAIL] %s header: %v\n", workflow.ScriptName, perr)
			} else {
				fmt.Printf("[OK]   %s (%s)\n", workflow.ScriptName, v)
			}
		}

		// Overrides file. Required: the update refuses to run without it.
		if _, err := os.Stat(filepath.Join(profileDir, workflow.OverridesName)); err != nil {
			problems++
			fmt.Printf("[FAIL] %s not found (required for updates)\n", workflow.OverridesName)
		} else {
			fmt.Printf("[OK]   %s\n", workflow.OverridesName)
		}

		if problems > 0 {
			return fmt.Errorf("doctor found %d problem(s)", problems)
		}
		fmt.Println("All checks passed.")
		return nil
	},
}
