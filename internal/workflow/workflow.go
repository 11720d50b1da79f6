// Package workflow drives the version-gated atomic update of a live
// user.js: read the local header, fetch the upstream candidate, combine it
// with the user's overrides into a staging file, re-validate the staging
// header, and only then back up and promote. The live file is only ever
// mutated by the two renames in the commit branch; every other failure
// leaves it untouched.
package workflow

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/prefsync-dev/prefsync/internal/branding"
	"github.com/prefsync-dev/prefsync/internal/header"
	"github.com/prefsync-dev/prefsync/internal/platform"
	"github.com/prefsync-dev/prefsync/internal/prefs"
)

// File names, fixed relative to the profile directory.
const (
	ScriptName    = "user.js"
	OverridesName = "user-overrides.js"
	StagingName   = "user.js.new"
)

var (
	// ErrMissingScript means the live user.js is absent. Distinct from a
	// parse failure: the workflow refuses to run at all, before any
	// network call.
	ErrMissingScript = errors.New("user.js not detected in the profile directory")

	// ErrMissingOverrides means user-overrides.js is absent. Running
	// without user customizations is treated as a configuration error,
	// not silently skipped.
	ErrMissingOverrides = errors.New("user-overrides.js not detected in the profile directory")
)

// Fetcher obtains the upstream replacement script.
type Fetcher interface {
	Script() (string, error)
}

// Options are caller-supplied switches. The workflow consumes them but
// does not own them.
type Options struct {
	// Minify merges overrides into the candidate instead of appending
	// them verbatim.
	Minify bool

	// SingleBackup keeps only the backup created by this run, removing
	// older user-backup-*.js files after a successful commit.
	SingleBackup bool

	// DryRun performs every step through the version comparison, reports
	// what would happen, and always discards the staging file.
	DryRun bool
}

// Outcome is the terminal state of one run.
type Outcome int

const (
	OutcomeFailed Outcome = iota
	OutcomeCommitted
	OutcomeDiscarded
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCommitted:
		return "committed"
	case OutcomeDiscarded:
		return "discarded"
	default:
		return "failed"
	}
}

// Attempt records one workflow run. It exists only for the duration of the
// run and is never persisted.
type Attempt struct {
	ID          uuid.UUID
	OldVersion  header.Version
	NewVersion  header.Version
	StagingPath string
	BackupPath  string
	Outcome     Outcome
}

// Workflow runs the update state machine against one profile directory.
// Runs share no mutable state; a Workflow may be reused.
type Workflow struct {
	dir     string
	fetcher Fetcher
	token   string
	out     io.Writer
	now     func() time.Time
}

// Option configures a Workflow.
type Option func(*Workflow)

// WithRecognitionToken overrides the file-family token the header parser
// requires.
func WithRecognitionToken(token string) Option {
	return func(w *Workflow) {
		w.token = token
	}
}

// WithOutput redirects progress messages (default os.Stderr).
func WithOutput(out io.Writer) Option {
	return func(w *Workflow) {
		w.out = out
	}
}

// WithClock overrides the wall clock used for backup names (for tests).
func WithClock(now func() time.Time) Option {
	return func(w *Workflow) {
		w.now = now
	}
}

// New creates a Workflow for the given profile directory.
func New(dir string, fetcher Fetcher, opts ...Option) *Workflow {
	w := &Workflow{
		dir:     dir,
		fetcher: fetcher,
		token:   branding.RecognitionToken(),
		out:     os.Stderr,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *Workflow) path(name string) string {
	return filepath.Join(w.dir, name)
}

// source names where the candidate comes from, for progress output.
func (w *Workflow) source() string {
	if u, ok := w.fetcher.(interface{ URL() string }); ok && u.URL() != "" {
		return u.URL()
	}
	return "upstream"
}

// Run executes one pass of the state machine:
//
//	LocalVersionRead → CandidateFetched → OverridesRead → CandidateBuilt →
//	CandidateVersionRead → Decision → Committed | Discarded
//
// Any step can fail, in which case the returned Attempt carries
// OutcomeFailed and the error says why. There are no retries.
func (w *Workflow) Run(opts Options) (*Attempt, error) {
	attempt := &Attempt{
		ID:          uuid.New(),
		StagingPath: w.path(StagingName),
	}

	oldVersion, err := w.readLocalVersion()
	if err != nil {
		return attempt, err
	}
	attempt.OldVersion = oldVersion
	fmt.Fprintf(w.out, "Found version: %s\n", oldVersion)

	fmt.Fprintf(w.out, "Retrieving latest user.js from %s...\n", w.source())
	candidate, err := w.fetcher.Script()
	if err != nil {
		return attempt, err
	}

	overrides, err := w.readOverrides()
	if err != nil {
		return attempt, err
	}

	if err := w.writeStaging(candidate, overrides, opts.Minify); err != nil {
		return attempt, err
	}

	newVersion, err := w.readStagingVersion()
	if err != nil {
		// A candidate whose own header is unreadable is never promoted.
		return attempt, err
	}
	attempt.NewVersion = newVersion

	// The candidate is committed when the two versions are structurally
	// equal, matching the classic updater scripts this tool replaces.
	changed := oldVersion.Equal(newVersion)

	if opts.DryRun {
		if err := os.Remove(attempt.StagingPath); err != nil {
			return attempt, fmt.Errorf("removing staging file: %w", err)
		}
		attempt.Outcome = OutcomeDiscarded
		if changed {
			fmt.Fprintln(w.out, "Check complete: a run without --check would commit the candidate.")
		} else {
			fmt.Fprintln(w.out, "Check complete: the candidate would be discarded.")
		}
		return attempt, nil
	}

	if !changed {
		if err := os.Remove(attempt.StagingPath); err != nil {
			return attempt, fmt.Errorf("removing staging file: %w", err)
		}
		attempt.Outcome = OutcomeDiscarded
		fmt.Fprintln(w.out, "Update completed without any changes")
		return attempt, nil
	}

	fmt.Fprintf(w.out, "Version changed\n  Old version: %s\n  New version: %s\n", oldVersion, newVersion)

	backupPath, err := w.commit()
	if err != nil {
		return attempt, err
	}
	attempt.BackupPath = backupPath
	attempt.Outcome = OutcomeCommitted

	if opts.SingleBackup {
		if err := w.pruneBackups(backupPath); err != nil {
			return attempt, err
		}
	}

	fmt.Fprintln(w.out, "Update complete!")
	return attempt, nil
}

// readLocalVersion parses the live file's header.
func (w *Workflow) readLocalVersion() (header.Version, error) {
	f, err := os.Open(w.path(ScriptName))
	if err != nil {
		if os.IsNotExist(err) {
			return header.Version{}, ErrMissingScript
		}
		return header.Version{}, fmt.Errorf("opening %s: %w", ScriptName, err)
	}
	defer f.Close()

	return header.Parse(f, w.token)
}

// readOverrides reads the overrides file as a single string.
func (w *Workflow) readOverrides() (string, error) {
	data, err := os.ReadFile(w.path(OverridesName))
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrMissingOverrides
		}
		return "", fmt.Errorf("reading %s: %w", OverridesName, err)
	}
	return string(data), nil
}

// writeStaging builds the candidate document and writes it to the staging
// path. The live path is never written directly.
func (w *Workflow) writeStaging(candidate, overrides string, minify bool) error {
	var content string
	if minify {
		merged, err := prefs.Merge(candidate, overrides)
		if err != nil {
			return err
		}
		content = merged
	} else {
		content = candidate + "\n" + overrides
	}

	if err := os.WriteFile(w.path(StagingName), []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", StagingName, err)
	}
	return nil
}

// readStagingVersion re-parses the header of the freshly built candidate.
func (w *Workflow) readStagingVersion() (header.Version, error) {
	f, err := os.Open(w.path(StagingName))
	if err != nil {
		return header.Version{}, fmt.Errorf("opening %s: %w", StagingName, err)
	}
	defer f.Close()

	return header.Parse(f, w.token)
}

// commit backs up the live file under a timestamped name, then renames the
// staging file onto the live path. Both steps are atomic renames; the
// original is never deleted before its replacement exists on disk. If the
// backup rename succeeds but the promote rename fails, the live path is
// left vacant with the backup still on disk; the error names the backup so
// the user can restore it.
func (w *Workflow) commit() (string, error) {
	livePath := w.path(ScriptName)

	backupPath := w.path(backupName(w.now()))
	fmt.Fprintf(w.out, "Backing up to %s\n", filepath.Base(backupPath))
	if err := os.Rename(livePath, backupPath); err != nil {
		return "", fmt.Errorf("backing up %s: %w", ScriptName, err)
	}

	fmt.Fprintln(w.out, "Renaming new file...")
	if err := os.Rename(w.path(StagingName), livePath); err != nil {
		return "", fmt.Errorf("promoting %s (previous script preserved at %s): %w",
			StagingName, backupPath, err)
	}

	// The backup is the old live file, so it carries the mode to restore.
	_ = platform.CopyMode(backupPath, livePath)

	return backupPath, nil
}
