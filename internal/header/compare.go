package header

import (
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Compare orders two version strings using semver, tolerating a leading
// "v". It returns -1, 0, or 1. Upstream version strings are not required
// to be semver (e.g. "67-alpha"), so this is best-effort display sugar:
// the update decision itself never depends on it.
func Compare(current, latest string) (int, error) {
	cv, err := semver.NewVersion(strings.TrimPrefix(current, "v"))
	if err != nil {
		return 0, err
	}
	lv, err := semver.NewVersion(strings.TrimPrefix(latest, "v"))
	if err != nil {
		return 0, err
	}
	return cv.Compare(lv), nil
}
