// Package workspaces derives URL-safe workspace identifiers from
// human-readable names. Slug generation is deterministic and idempotent;
// global uniqueness is enforced by the workspaces table, not here.
package workspaces

import (
	"regexp"
	"strings"
)

const (
	MinSlugLength = 2
	MaxSlugLength = 50
)

var (
	disallowed = regexp.MustCompile(`[^a-z0-9\s-]`)
	whitespace = regexp.MustCompile(`\s+`)
	hyphenRuns = regexp.MustCompile(`-+`)
	slugShape  = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]*[a-z0-9])?$`)
)

// Slugify normalizes a workspace name into a slug: lowercased, symbols
// stripped, whitespace collapsed to single hyphens, hyphen runs collapsed,
// edge hyphens trimmed. Degenerate input (an all-symbol name) produces an
// empty string, which ValidSlug rejects.
func Slugify(name string) string {
	slug := strings.ToLower(name)
	slug = disallowed.ReplaceAllString(slug, "")
	slug = whitespace.ReplaceAllString(slug, "-")
	slug = hyphenRuns.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	return slug
}

// ValidSlug reports whether slug is usable as a workspace identifier:
// alphanumeric edges, hyphen-separated interior, length within bounds.
func ValidSlug(slug string) bool {
	if len(slug) < MinSlugLength || len(slug) > MaxSlugLength {
		return false
	}
	return slugShape.MatchString(slug)
}
