package workflow

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

const (
	localScript = `/******
* name: ghacks user.js
* date: 14 February 2020
* version 67-alpha
******/
user_pref("a.b", true);
user_pref("c.d", 1);
`
	overridesDoc = `// my overrides
user_pref("c.d", 2);
user_pref("e.f", "x");
`
)

// candidateScript returns an upstream document with the given version line.
func candidateScript(version string) string {
	return strings.Replace(localScript, "67-alpha", version, 1)
}

type fakeFetcher struct {
	script string
	url    string
	err    error
	calls  int
}

func (f *fakeFetcher) Script() (string, error) {
	f.calls++
	return f.script, f.err
}

func (f *fakeFetcher) URL() string {
	return f.url
}

func fixedClock() time.Time {
	return time.Date(2020, 2, 14, 9, 30, 0, 0, time.Local)
}

// newProfile lays out a profile directory with the given live and
// overrides content; empty strings mean "do not create".
func newProfile(t *testing.T, live, overrides string) string {
	t.Helper()
	dir := t.TempDir()
	if live != "" {
		if err := os.WriteFile(filepath.Join(dir, ScriptName), []byte(live), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if overrides != "" {
		if err := os.WriteFile(filepath.Join(dir, OverridesName), []byte(overrides), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func newTestWorkflow(dir string, f Fetcher) *Workflow {
	return New(dir, f, WithOutput(io.Discard), WithClock(fixedClock))
}

func mustNotExist(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("%s exists, want absent", filepath.Base(path))
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}

func TestRun_MissingScriptBeforeFetch(t *testing.T) {
	dir := newProfile(t, "", overridesDoc)
	fetcher := &fakeFetcher{script: candidateScript("67-alpha")}

	_, err := newTestWorkflow(dir, fetcher).Run(Options{})
	if !errors.Is(err, ErrMissingScript) {
		t.Fatalf("err = %v, want ErrMissingScript", err)
	}
	if fetcher.calls != 0 {
		t.Errorf("fetcher called %d times before local read, want 0", fetcher.calls)
	}
}

func TestRun_MissingOverridesAfterFetch(t *testing.T) {
	dir := newProfile(t, localScript, "")
	fetcher := &fakeFetcher{script: candidateScript("67-alpha")}

	_, err := newTestWorkflow(dir, fetcher).Run(Options{})
	if !errors.Is(err, ErrMissingOverrides) {
		t.Fatalf("err = %v, want ErrMissingOverrides", err)
	}
	if fetcher.calls != 1 {
		t.Errorf("fetcher calls = %d, want 1", fetcher.calls)
	}

	// No mutation of any kind.
	if got := readFile(t, filepath.Join(dir, ScriptName)); got != localScript {
		t.Error("live file changed")
	}
	mustNotExist(t, filepath.Join(dir, StagingName))
}

func TestRun_FetchFailureIsFatal(t *testing.T) {
	dir := newProfile(t, localScript, overridesDoc)
	fetchErr := errors.New("connection refused")
	fetcher := &fakeFetcher{err: fetchErr}

	_, err := newTestWorkflow(dir, fetcher).Run(Options{})
	if !errors.Is(err, fetchErr) {
		t.Fatalf("err = %v, want wrapped fetch error", err)
	}
	mustNotExist(t, filepath.Join(dir, StagingName))
}

func TestRun_EqualVersionsCommits(t *testing.T) {
	dir := newProfile(t, localScript, overridesDoc)
	candidate := candidateScript("67-alpha")
	fetcher := &fakeFetcher{script: candidate}

	attempt, err := newTestWorkflow(dir, fetcher).Run(Options{})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if attempt.Outcome != OutcomeCommitted {
		t.Fatalf("Outcome = %s, want committed", attempt.Outcome)
	}
	if attempt.ID == uuid.Nil {
		t.Error("attempt has no run id")
	}
	if !attempt.OldVersion.Equal(attempt.NewVersion) {
		t.Error("committed run with unequal versions")
	}

	// Staging was promoted: live now holds candidate + blank line + overrides.
	wantLive := candidate + "\n" + overridesDoc
	if got := readFile(t, filepath.Join(dir, ScriptName)); got != wantLive {
		t.Errorf("live content = %q, want %q", got, wantLive)
	}
	mustNotExist(t, filepath.Join(dir, StagingName))

	// Backup carries the prior live content under the timestamped name.
	wantBackup := filepath.Join(dir, "user-backup-2020-02-14_09-30-00.js")
	if attempt.BackupPath != wantBackup {
		t.Errorf("BackupPath = %s, want %s", attempt.BackupPath, wantBackup)
	}
	if got := readFile(t, wantBackup); got != localScript {
		t.Error("backup does not hold the prior live content")
	}
}

func TestRun_DifferentVersionsDiscard(t *testing.T) {
	dir := newProfile(t, localScript, overridesDoc)
	fetcher := &fakeFetcher{script: candidateScript("68-beta")}

	attempt, err := newTestWorkflow(dir, fetcher).Run(Options{})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if attempt.Outcome != OutcomeDiscarded {
		t.Fatalf("Outcome = %s, want discarded", attempt.Outcome)
	}

	if got := readFile(t, filepath.Join(dir, ScriptName)); got != localScript {
		t.Error("live file changed on discard")
	}
	mustNotExist(t, filepath.Join(dir, StagingName))

	backups, _ := filepath.Glob(filepath.Join(dir, "user-backup-*.js"))
	if len(backups) != 0 {
		t.Errorf("backups created on discard: %v", backups)
	}
}

func TestRun_MinifyMergesOverrides(t *testing.T) {
	dir := newProfile(t, localScript, overridesDoc)
	candidate := candidateScript("67-alpha")
	fetcher := &fakeFetcher{script: candidate}

	attempt, err := newTestWorkflow(dir, fetcher).Run(Options{Minify: true})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if attempt.Outcome != OutcomeCommitted {
		t.Fatalf("Outcome = %s, want committed", attempt.Outcome)
	}

	live := readFile(t, filepath.Join(dir, ScriptName))
	if !strings.HasPrefix(live, "/******\n* name: ghacks user.js") {
		t.Error("merged output lost the candidate header")
	}
	if !strings.Contains(live, `user_pref("c.d", 2);`) {
		t.Error("override value did not win in merged output")
	}
	if !strings.Contains(live, `user_pref("e.f", "x");`) {
		t.Error("override-only key missing from merged output")
	}
	if strings.Contains(live, "// my overrides") {
		t.Error("override comment survived merge")
	}
}

func TestRun_UnreadableStagingHeaderNeverPromoted(t *testing.T) {
	dir := newProfile(t, localScript, overridesDoc)
	foreign := strings.Replace(candidateScript("67-alpha"), "ghacks user.js", "mystery user.js", 1)
	fetcher := &fakeFetcher{script: foreign}

	_, err := newTestWorkflow(dir, fetcher).Run(Options{})
	if err == nil {
		t.Fatal("expected error for unrecognized candidate header")
	}

	if got := readFile(t, filepath.Join(dir, ScriptName)); got != localScript {
		t.Error("live file changed after bad candidate")
	}
	backups, _ := filepath.Glob(filepath.Join(dir, "user-backup-*.js"))
	if len(backups) != 0 {
		t.Error("backup created for bad candidate")
	}
}

func TestRun_DryRunNeverMutates(t *testing.T) {
	dir := newProfile(t, localScript, overridesDoc)
	fetcher := &fakeFetcher{script: candidateScript("67-alpha")}

	attempt, err := newTestWorkflow(dir, fetcher).Run(Options{DryRun: true})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if attempt.Outcome != OutcomeDiscarded {
		t.Fatalf("Outcome = %s, want discarded", attempt.Outcome)
	}

	if got := readFile(t, filepath.Join(dir, ScriptName)); got != localScript {
		t.Error("live file changed during dry run")
	}
	mustNotExist(t, filepath.Join(dir, StagingName))

	backups, _ := filepath.Glob(filepath.Join(dir, "user-backup-*.js"))
	if len(backups) != 0 {
		t.Error("backup created during dry run")
	}
}

func TestRun_SingleBackupRetention(t *testing.T) {
	dir := newProfile(t, localScript, overridesDoc)
	stale := filepath.Join(dir, "user-backup-2019-01-01_00-00-00.js")
	if err := os.WriteFile(stale, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}

	fetcher := &fakeFetcher{script: candidateScript("67-alpha")}
	attempt, err := newTestWorkflow(dir, fetcher).Run(Options{SingleBackup: true})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}

	mustNotExist(t, stale)
	if _, err := os.Stat(attempt.BackupPath); err != nil {
		t.Errorf("fresh backup missing: %v", err)
	}
}

func TestRun_ProgressNamesSource(t *testing.T) {
	dir := newProfile(t, localScript, overridesDoc)
	fetcher := &fakeFetcher{
		script: candidateScript("68-beta"),
		url:    "https://example.com/user.js",
	}

	var out strings.Builder
	wf := New(dir, fetcher, WithOutput(&out), WithClock(fixedClock))
	if _, err := wf.Run(Options{}); err != nil {
		t.Fatalf("Run error: %v", err)
	}

	if !strings.Contains(out.String(), "https://example.com/user.js") {
		t.Errorf("progress output does not name the source URL:\n%s", out.String())
	}
}

func TestBackupName(t *testing.T) {
	name := backupName(fixedClock())
	if name != "user-backup-2020-02-14_09-30-00.js" {
		t.Errorf("backupName = %q", name)
	}
	pattern := regexp.MustCompile(`^user-backup-\d{4}-\d{2}-\d{2}_\d{2}-\d{2}-\d{2}\.js$`)
	if !pattern.MatchString(name) {
		t.Errorf("backupName %q does not match the timestamp pattern", name)
	}
}
