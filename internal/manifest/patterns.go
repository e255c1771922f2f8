package manifest

import "regexp"

// One anchored pattern per patchable field. Each pattern captures the field
// label (and its indentation) and matches only the current value, so
// replacement is idempotent and never touches unrelated content.
var (
	versionCodeRe = regexp.MustCompile(`(?m)^(version_code\s*=\s*)\d+`)
	tagRe         = regexp.MustCompile(`(?m)^(\s*tag:\s*)v[\d.]+`)
	commitRe      = regexp.MustCompile(`(?m)^(\s*commit:\s*)[a-f0-9]{40}`)
)
