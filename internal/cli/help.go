package cli

import (
	"fmt"

	"github.com/prefsync-dev/prefsync/internal/branding"
	"github.com/prefsync-dev/prefsync/internal/config"
)

// helpText is shown when the user picks Help from the start menu.
var helpText = fmt.Sprintf(`Available options:

  -m, --minify

    Merge overrides into the downloaded script instead of appending
    them. Only user_pref declarations survive the merge; free-standing
    comments and blank lines from the body are dropped. When the same
    pref is declared more than once, the value of the last declaration
    wins.

  --single-backup

    Keep only the most recent user-backup-*.js file, removing older
    backups after a successful update.

  --check

    Run every step up to the version comparison, report what would
    happen, and leave the live script untouched.

  --profile <dir>

    Operate on the given Firefox profile directory instead of the
    current directory.

  -u, --unattended

    Run without user input.

Configuration:

  Persistent settings live in %s and can be
  changed with '%s config set <key> <value>'. The download location
  can also be overridden with the %s environment
  variable.`,
	config.FilePath(), branding.CLIName(), branding.EnvVar("UPSTREAM_URL"))
