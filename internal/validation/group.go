package validation

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"
)

// GroupTitleMaxLength bounds Group.Title.
const GroupTitleMaxLength = 200

var groupSlugRegex = regexp.MustCompile(`^[-a-zA-Z0-9_]{1,50}$`)

// Slugs that would shadow a top-level route.
var reservedGroupSlugs = map[string]struct{}{
	"api":     {},
	"admin":   {},
	"auth":    {},
	"create":  {},
	"follow":  {},
	"media":   {},
	"metrics": {},
	"swagger": {},
}

// ValidateGroupSlug checks slug format and reserved names.
func ValidateGroupSlug(slug string) error {
	if !groupSlugRegex.MatchString(slug) {
		return errors.New("slug must be 1-50 characters of letters, numbers, underscores or hyphens")
	}
	if _, exists := reservedGroupSlugs[strings.ToLower(slug)]; exists {
		return errors.New("slug is reserved")
	}
	return nil
}

// ValidateGroupTitle requires a non-blank title of at most GroupTitleMaxLength characters.
func ValidateGroupTitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return errors.New("title is required")
	}
	if utf8.RuneCountInString(title) > GroupTitleMaxLength {
		return errors.New("title must be at most 200 characters")
	}
	return nil
}
