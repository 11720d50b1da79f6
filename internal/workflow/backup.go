package workflow

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	backupPrefix     = "user-backup-"
	backupTimeFormat = "2006-01-02_15-04-05"
)

// backupName returns the timestamped backup file name for t, e.g.
// user-backup-2020-02-14_09-30-00.js. Second resolution, local wall clock.
func backupName(t time.Time) string {
	return backupPrefix + t.Format(backupTimeFormat) + ".js"
}

// pruneBackups removes every user-backup-*.js in the profile directory
// except keep. Implements the single-backup retention policy: after a
// commit, only the backup just created survives.
func (w *Workflow) pruneBackups(keep string) error {
	matches, err := filepath.Glob(filepath.Join(w.dir, backupPrefix+"*.js"))
	if err != nil {
		return fmt.Errorf("listing backups: %w", err)
	}
	for _, m := range matches {
		if m == keep {
			continue
		}
		if err := os.Remove(m); err != nil {
			return fmt.Errorf("removing old backup %s: %w", filepath.Base(m), err)
		}
	}
	return nil
}
