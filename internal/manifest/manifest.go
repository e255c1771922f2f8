// Package manifest applies targeted textual substitutions to the on-disk
// release artifacts: the package manifest's version_code, the build
// descriptor's tag and commit fields, and the metainfo document's release
// list. Every substitution is anchored on a field label and rewrites only the
// field's value, leaving all surrounding bytes untouched. The structured
// parsers (TOML, YAML) are used to validate results after patching, never to
// rewrite the files, so formatting and comments survive.
package manifest

import (
	"errors"
	"fmt"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ErrFieldMissing indicates the anchored field was not found in the text.
// Callers decide whether that is fatal (mandatory fields in the primary
// manifest) or a skipped step (optional descriptor fields).
var ErrFieldMissing = errors.New("field not found")

// SetVersionCode rewrites the `version_code = N` field. Idempotent: patching
// already-patched text with the same code yields identical output.
func SetVersionCode(text string, code int) (string, error) {
	if !versionCodeRe.MatchString(text) {
		return "", fmt.Errorf("version_code: %w", ErrFieldMissing)
	}
	return versionCodeRe.ReplaceAllString(text, fmt.Sprintf("${1}%d", code)), nil
}

// SetTag rewrites the descriptor's `tag:` field to v<version>.
func SetTag(text, version string) (string, error) {
	if !tagRe.MatchString(text) {
		return "", fmt.Errorf("tag: %w", ErrFieldMissing)
	}
	return tagRe.ReplaceAllString(text, "${1}v"+version), nil
}

// SetCommit rewrites the descriptor's `commit:` field to the given revision
// hash. The anchored pattern only matches a full 40-character hash, so a
// descriptor pinned to something else is left alone and reported missing.
func SetCommit(text, hash string) (string, error) {
	if !commitRe.MatchString(text) {
		return "", fmt.Errorf("commit: %w", ErrFieldMissing)
	}
	return commitRe.ReplaceAllString(text, "${1}"+hash), nil
}

// InsertRelease adds a release entry to the metainfo document. The entry goes
// immediately after the opening <releases> tag (newest first); when the
// document has no <releases> container yet, one is created before the closing
// </component> tag. Insertion is not idempotent: running it again appends a
// duplicate entry. Repeat runs against an already-patched document are
// reconciled by hand.
func InsertRelease(doc, version, date, description string) string {
	var entry strings.Builder
	if description == "" {
		fmt.Fprintf(&entry, "    <release version=%q date=%q/>", version, date)
	} else {
		fmt.Fprintf(&entry, "    <release version=%q date=%q>\n", version, date)
		entry.WriteString("      <description>\n")
		for _, line := range strings.Split(description, "\n") {
			entry.WriteString("        " + line + "\n")
		}
		entry.WriteString("      </description>\n")
		entry.WriteString("    </release>")
	}

	if strings.Contains(doc, "<releases>") {
		return strings.Replace(doc, "<releases>", "<releases>\n"+entry.String(), 1)
	}
	block := "  <releases>\n" + entry.String() + "\n  </releases>\n</component>"
	return strings.Replace(doc, "</component>", block, 1)
}

// ValidateTOML reports whether text still parses as TOML after patching.
func ValidateTOML(text string) error {
	var v map[string]any
	if err := toml.Unmarshal([]byte(text), &v); err != nil {
		return fmt.Errorf("patched manifest is not valid TOML: %w", err)
	}
	return nil
}

// ValidateYAML reports whether text still parses as YAML after patching.
func ValidateYAML(text string) error {
	var v any
	if err := yaml.Unmarshal([]byte(text), &v); err != nil {
		return fmt.Errorf("patched descriptor is not valid YAML: %w", err)
	}
	return nil
}
