package domain

import (
	"net/url"
	"strings"
)

// DefaultMaxNameLength bounds category and bookmark names.
const DefaultMaxNameLength = 64

// MaxOrder bounds client-supplied orders. Appends after it still fit a
// float64 sorted-set score exactly.
const MaxOrder = 1<<50 - 1

// ValidateNewCategory checks the fields required to create a category.
func ValidateNewCategory(in NewCategory, maxName int) error {
	return validateName("category", in.Name, maxName)
}

// ValidateCategoryPatch checks only the fields being changed.
func ValidateCategoryPatch(p CategoryPatch, maxName int) error {
	if p.IsEmpty() {
		return Invalid("category", "no fields to update")
	}
	if p.Name != nil {
		return validateName("category", *p.Name, maxName)
	}
	return nil
}

// ValidateNewBookmark checks name, logo and link.
func ValidateNewBookmark(in NewBookmark, maxName int) error {
	if strings.TrimSpace(in.CategoryID) == "" {
		return Invalid("categoryId", "is required")
	}
	if err := validateName("name", in.Name, maxName); err != nil {
		return err
	}
	if strings.TrimSpace(in.Logo) == "" {
		return Invalid("logo", "is required")
	}
	return ValidateLink(in.Link)
}

// ValidateBookmarkPatch re-validates only the fields being changed.
func ValidateBookmarkPatch(p BookmarkPatch, maxName int) error {
	if p.IsEmpty() {
		return Invalid("bookmark", "no fields to update")
	}
	if p.Name != nil {
		if err := validateName("name", *p.Name, maxName); err != nil {
			return err
		}
	}
	if p.Logo != nil && strings.TrimSpace(*p.Logo) == "" {
		return Invalid("logo", "must not be empty")
	}
	if p.Link != nil {
		return ValidateLink(*p.Link)
	}
	return nil
}

// ValidateLink accepts absolute http(s) URLs with a host.
func ValidateLink(link string) error {
	link = strings.TrimSpace(link)
	if link == "" {
		return Invalid("link", "is required")
	}
	u, err := url.ParseRequestURI(link)
	if err != nil {
		return Invalid("link", "is not a valid URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return Invalid("link", "scheme must be http or https")
	}
	if u.Host == "" {
		return Invalid("link", "is missing a host")
	}
	return nil
}

// ValidateOrderBatch rejects empty batches, blank ids and duplicates.
func ValidateOrderBatch(field string, updates []OrderUpdate) error {
	if len(updates) == 0 {
		return Invalid(field, "is empty")
	}
	seen := make(map[string]struct{}, len(updates))
	for _, u := range updates {
		if strings.TrimSpace(u.ID) == "" {
			return Invalid(field, "contains an empty id")
		}
		if _, dup := seen[u.ID]; dup {
			return Invalid(field, "contains %s twice", u.ID)
		}
		if u.Order < -MaxOrder || u.Order > MaxOrder {
			return Invalid(field, "order of %s is out of range", u.ID)
		}
		seen[u.ID] = struct{}{}
	}
	return nil
}

func validateName(field, name string, maxLen int) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return Invalid(field, "is required")
	}
	if maxLen > 0 && len([]rune(name)) > maxLen {
		return Invalid(field, "must be at most %d characters", maxLen)
	}
	return nil
}
