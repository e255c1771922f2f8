// Package semver derives the release version and its distribution build code
// from the project manifest. Parsing is text-anchored on the manifest's
// version field rather than TOML-aware so that the same extraction rule works
// on any manifest that carries a `version = "X.Y.Z"` line.
package semver

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

// ErrNoVersion indicates the manifest text contains no parseable version field.
var ErrNoVersion = errors.New("no version field found in manifest")

// versionRe matches a `version = "MAJOR.MINOR.PATCH"` line at the start of a
// line. Anchoring on the field label keeps unrelated version-like strings
// elsewhere in the manifest (dependency constraints, URLs) from matching.
var versionRe = regexp.MustCompile(`(?m)^version\s*=\s*"(\d+)\.(\d+)\.(\d+)"`)

// Version is a three-part semantic version. Immutable once parsed; derived
// fresh from the manifest on every run.
type Version struct {
	Major int
	Minor int
	Patch int
}

// Parse extracts the version from manifest text. The first matching line wins
// when the manifest contains more than one version field.
func Parse(text string) (Version, error) {
	m := versionRe.FindStringSubmatch(text)
	if m == nil {
		return Version{}, ErrNoVersion
	}
	major, err := strconv.Atoi(m[1])
	if err != nil {
		return Version{}, fmt.Errorf("parsing major version %q: %w", m[1], err)
	}
	minor, err := strconv.Atoi(m[2])
	if err != nil {
		return Version{}, fmt.Errorf("parsing minor version %q: %w", m[2], err)
	}
	patch, err := strconv.Atoi(m[3])
	if err != nil {
		return Version{}, fmt.Errorf("parsing patch version %q: %w", m[3], err)
	}
	return Version{Major: major, Minor: minor, Patch: patch}, nil
}

// String renders the canonical dotted form, e.g. "0.3.2".
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// BuildCode encodes the version as a single strictly-increasing integer for
// distribution channels that require one: 0.3.2 -> 302. The encoding is
// lossless only while minor and patch stay below 100; larger values overflow
// into the next field, which is a known quirk of the scheme and is not
// corrected here.
func (v Version) BuildCode() int {
	return v.Major*10000 + v.Minor*100 + v.Patch
}
