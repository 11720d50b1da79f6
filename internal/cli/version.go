package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/prefsync-dev/prefsync/internal/branding"
	"github.com/prefsync-dev/prefsync/internal/config"
	"github.com/prefsync-dev/prefsync/internal/header"
	"github.com/prefsync-dev/prefsync/internal/workflow"
	"github.com/spf13/cobra"
)

var (
	versionShort bool
	versionJSON  bool
)

func init() {
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "Print version number only")
	versionCmd.Flags().BoolVar(&versionJSON, "json", false, "Print version info as JSON")
	versionCmd.Flags().StringVar(&updateProfileDir, "profile", "", "Firefox profile directory (default: current directory)")
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information for the tool and the local script",
	RunE: func(cmd *cobra.Command, args []string) error {
		if versionShort {
			fmt.Println(buildVersion)
			return nil
		}

		script, scriptErr := localScriptVersion()

		if versionJSON {
			info := map[string]string{
				"version": buildVersion,
				"commit":  buildCommit,
				"date":    buildDate,
			}
			if scriptErr == nil {
				info["script_name"] = script.Name
				info["script_version"] = script.Version
				info["script_date"] = script.Date
			}
			out, err := json.MarshalIndent(info, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling version info: %w", err)
			}
			fmt.Println(string(out))
			return nil
		}

		fmt.Printf("%s version %s (commit: %s, built: %s)\n",
			branding.CLIName(), buildVersion, buildCommit, buildDate)
		if scriptErr == nil {
			fmt.Printf("local script: %s\n", script)
		}
		return nil
	},
}

// localScriptVersion parses the header of the live user.js, if present.
func localScriptVersion() (header.Version, error) {
	config.Load()

	profileDir := updateProfileDir
	if profileDir == "" {
		profileDir = config.Get(config.KeyProfileDir)
	}

	f, err := os.Open(filepath.Join(profileDir, workflow.ScriptName))
	if err != nil {
		return header.Version{}, err
	}
	defer f.Close()

	return header.Parse(f, config.Get(config.KeyRecognitionToken))
}
