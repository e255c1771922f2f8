// Package changelog parses the generator's unreleased-section body into
// titled sections of list items and renders them as the escaped markup block
// embedded in the metainfo document.
//
// The parser is deliberately tolerant: the changelog body is generated text
// whose format drifts across generator versions, and an unparsable body must
// never block a release. Unknown line types are skipped, not rejected.
package changelog

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	// orderRe matches the generator's inline ordering comments, e.g. <!-- 3 -->.
	orderRe = regexp.MustCompile(`<!--\s*\d+\s*-->`)
	// scopeRe matches an emphasized *(scope)* annotation at the start of an item.
	scopeRe = regexp.MustCompile(`^\*\(([^)]+)\)\*:?`)
	// breakingRe matches the breaking-change marker, optionally bracketed.
	breakingRe = regexp.MustCompile(`(?i)\[?\*\*breaking\*\*\]?`)
)

// StripMarkers removes the generator's ordering-comment markers and trims the
// result. The stripped body doubles as the flat store-listing text.
func StripMarkers(body string) string {
	return strings.TrimSpace(orderRe.ReplaceAllString(body, ""))
}

// Section is one titled group of changelog items, in source order.
type Section struct {
	Title string
	Items []string
}

// Document is the parsed unreleased changelog for a single release.
type Document struct {
	Sections []Section
}

// Fallback is rendered in place of the description block when parsing
// produced no usable sections.
const Fallback = "<p>See CHANGELOG.md for the full list of changes.</p>"

// decorative is the fixed set of leading symbols stripped from section
// titles. These are the group markers the generator's default configurations
// prepend to headings.
const decorative = "⛰🚀✨🐛🚜📚🎨⚡🧪⚙🛡◀❗💼🗑🔒"

// Parse splits the unreleased body into sections. Ordering-comment markers
// should already have been removed with StripMarkers.
//
// Top-level headings (release/version headers) and blank lines carry no
// section data and are skipped. A third-level heading starts a new section;
// bulleted lines belong to the current section. A section is kept only when
// both its cleaned title and at least one cleaned item survive.
func Parse(body string) Document {
	var doc Document
	var title string
	var items []string

	flush := func() {
		if title != "" && len(items) > 0 {
			doc.Sections = append(doc.Sections, Section{Title: title, Items: items})
		}
	}

	for _, raw := range strings.Split(body, "\n") {
		line := strings.TrimSpace(raw)
		switch {
		case line == "":
		case strings.HasPrefix(line, "### "):
			flush()
			title = cleanTitle(strings.TrimPrefix(line, "### "))
			items = nil
		case strings.HasPrefix(line, "#"):
			// Release header or deeper heading; no data for this document.
		case strings.HasPrefix(line, "- "), strings.HasPrefix(line, "* "), strings.HasPrefix(line, "+ "):
			if item := cleanItem(line[2:]); item != "" {
				items = append(items, item)
			}
		default:
			// Tolerate unrecognized line types (continuation text,
			// horizontal rules, link references).
		}
	}
	flush()
	return doc
}

// cleanTitle removes ordering-comment remnants and decorative leading
// symbols. An empty result discards the section.
func cleanTitle(s string) string {
	s = orderRe.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	for s != "" {
		r, size := utf8.DecodeRuneInString(s)
		if strings.ContainsRune(decorative, r) || r == 0xFE0F || unicode.IsSpace(r) {
			s = s[size:]
			continue
		}
		break
	}
	return strings.TrimSpace(s)
}

// cleanItem applies the fixed inline cleanups to a bulleted line with its
// marker already stripped: the *(scope)* annotation becomes a plain (scope)
// prefix, the **breaking** marker becomes a literal [breaking] tag, and any
// remaining emphasis markers are dropped.
func cleanItem(s string) string {
	s = strings.TrimSpace(s)
	if m := scopeRe.FindStringSubmatch(s); m != nil {
		s = "(" + m[1] + ") " + strings.TrimSpace(s[len(m[0]):])
	}
	s = breakingRe.ReplaceAllString(s, "[breaking]")
	s = strings.ReplaceAll(s, "**", "")
	s = strings.ReplaceAll(s, "*", "")
	return strings.TrimSpace(s)
}

// MetainfoDescription renders the document as the markup block embedded in a
// metainfo release entry: a label line per section followed by its escaped
// items. When the document has no sections the single Fallback line is
// rendered instead, so the pipeline never fails on an unparsable body.
func (d Document) MetainfoDescription() string {
	if len(d.Sections) == 0 {
		return Fallback
	}
	var b strings.Builder
	for i, s := range d.Sections {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "<p>%s:</p>\n<ul>\n", Escape(s.Title))
		for _, item := range s.Items {
			fmt.Fprintf(&b, "<li>%s</li>\n", Escape(item))
		}
		b.WriteString("</ul>")
	}
	return b.String()
}
