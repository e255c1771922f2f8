package release

import (
	"fmt"
	"os"

	"github.com/trougnouf/cutover/internal/manifest"
	"github.com/trougnouf/cutover/internal/semver"
)

// SyncVersionCode rewrites the manifest's version_code field to match its
// version field, returning the derived version and code. The manifest is
// rewritten in place; all other content is preserved byte for byte.
func SyncVersionCode(manifestPath string) (semver.Version, int, error) {
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return semver.Version{}, 0, fmt.Errorf("reading manifest: %w", err)
	}

	ver, err := semver.Parse(string(data))
	if err != nil {
		return semver.Version{}, 0, fmt.Errorf("%s: %w", manifestPath, err)
	}
	code := ver.BuildCode()

	patched, err := manifest.SetVersionCode(string(data), code)
	if err != nil {
		return semver.Version{}, 0, fmt.Errorf("%s: %w", manifestPath, err)
	}
	if err := manifest.ValidateTOML(patched); err != nil {
		return semver.Version{}, 0, err
	}
	if patched != string(data) {
		if err := os.WriteFile(manifestPath, []byte(patched), 0o644); err != nil {
			return semver.Version{}, 0, fmt.Errorf("writing manifest: %w", err)
		}
	}
	return ver, code, nil
}
