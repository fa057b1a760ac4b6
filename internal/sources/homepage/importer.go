package homepage

import (
	"context"
	"fmt"

	"github.com/MrSnakeDoc/webmark/internal/domain"
	"github.com/MrSnakeDoc/webmark/internal/hierarchy"
	"github.com/MrSnakeDoc/webmark/internal/logger"
)

// ImportReport summarizes an import run.
type ImportReport struct {
	Categories int
	Bookmarks  int
	Skipped    []Skipped
}

// Importer writes an import plan into a user's account through the
// hierarchy service, so every record passes the usual validation.
type Importer struct {
	service *hierarchy.Service
	logger  logger.Logger
}

// NewImporter creates a new importer
func NewImporter(service *hierarchy.Service, log logger.Logger) *Importer {
	return &Importer{service: service, logger: log}
}

// Import creates every category of plan for userID, then its bookmarks in order.
// Rejected entries are reported and skipped; infrastructure errors stop the run.
func (im *Importer) Import(ctx context.Context, userID string, plan []ImportCategory) (ImportReport, error) {
	var report ImportReport
	log := im.logger.With(logger.String("user_id", userID))

	for _, ic := range plan {
		res, err := im.service.CreateCategory(ctx, userID, domain.NewCategory{Name: ic.Name})
		if err != nil {
			return report, fmt.Errorf("failed to create category %q: %w", ic.Name, err)
		}
		if !res.Success {
			report.Skipped = append(report.Skipped, Skipped{Category: ic.Name, Reason: res.Message})
			continue
		}
		report.Categories++
		categoryID := res.Data.ID

		for _, nb := range ic.Bookmarks {
			nb.CategoryID = categoryID
			bres, err := im.service.CreateBookmark(ctx, userID, nb)
			if err != nil {
				return report, fmt.Errorf("failed to create bookmark %q: %w", nb.Name, err)
			}
			if !bres.Success {
				report.Skipped = append(report.Skipped, Skipped{Category: ic.Name, Name: nb.Name, Reason: bres.Message})
				continue
			}
			report.Bookmarks++
		}

		log.Debug("category imported",
			logger.String("category", ic.Name),
			logger.Int("bookmarks", len(ic.Bookmarks)))
	}

	log.Info("import completed",
		logger.Int("categories", report.Categories),
		logger.Int("bookmarks", report.Bookmarks),
		logger.Int("skipped", len(report.Skipped)))
	return report, nil
}
