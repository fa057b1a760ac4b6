package homepage

import (
	"fmt"
	"strings"

	"github.com/MrSnakeDoc/webmark/internal/domain"
)

// DefaultLogo is used when an entry has neither an icon nor an abbreviation.
const DefaultLogo = "🔖"

// ImportCategory is one category of an import plan, bookmarks in file order.
type ImportCategory struct {
	Name      string
	Bookmarks []domain.NewBookmark // CategoryID is filled in at import time
}

// Skipped records an entry the mapper could not use.
type Skipped struct {
	Category string
	Name     string
	Reason   string
}

// MapImportPlan converts BookmarksConfig into categories and bookmarks,
// keeping the order of the file. Entries without href are skipped.
func MapImportPlan(config BookmarksConfig) ([]ImportCategory, []Skipped, error) {
	plan := make([]ImportCategory, 0, len(config))
	var skipped []Skipped

	for _, category := range config {
		// Each list item is a single-key map: CategoryName -> bookmarks
		for categoryName, bookmarkList := range category {
			ic := ImportCategory{Name: strings.TrimSpace(categoryName)}

			for _, bookmarkMap := range bookmarkList {
				for bookmarkName, entryList := range bookmarkMap {
					// Each bookmark has a list with a single entry
					if len(entryList) == 0 {
						skipped = append(skipped, Skipped{Category: ic.Name, Name: bookmarkName, Reason: "no properties"})
						continue
					}
					entry := entryList[0]

					href := strings.TrimSpace(entry.Href)
					if href == "" {
						skipped = append(skipped, Skipped{Category: ic.Name, Name: bookmarkName, Reason: "missing href"})
						continue
					}

					ic.Bookmarks = append(ic.Bookmarks, domain.NewBookmark{
						Name:  strings.TrimSpace(bookmarkName),
						Link:  href,
						Logo:  pickLogo(entry),
						Notes: strings.TrimSpace(entry.Description),
					})
				}
			}

			plan = append(plan, ic)
		}
	}

	if len(plan) == 0 {
		return nil, skipped, fmt.Errorf("no categories found in config")
	}

	return plan, skipped, nil
}

// pickLogo prefers the icon, then the abbreviation.
func pickLogo(entry BookmarkEntry) string {
	if icon := strings.TrimSpace(entry.Icon); icon != "" {
		return icon
	}
	if abbr := strings.TrimSpace(entry.Abbr); abbr != "" {
		return abbr
	}
	return DefaultLogo
}
