package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/webmark/internal/app"
	"github.com/MrSnakeDoc/webmark/internal/config"
	"github.com/MrSnakeDoc/webmark/internal/hierarchy"
	"github.com/MrSnakeDoc/webmark/internal/logger"
	"github.com/MrSnakeDoc/webmark/internal/sources/homepage"
	"github.com/MrSnakeDoc/webmark/internal/utils"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import a Homepage bookmarks.yaml into a user's account",
	Long: `Creates one category per top-level group of a Homepage bookmarks.yaml and
one bookmark per entry, in file order, appended after the user's existing data.

Examples:
  webmarkctl import --user 42 --file ./bookmarks.yaml
  webmarkctl import --user 42 --file ./bookmarks.yaml --dry-run`,
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, _ := cmd.Flags().GetString("user")
		file, _ := cmd.Flags().GetString("file")
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		return runImport(cmd, strings.TrimSpace(userID), file, dryRun)
	},
}

func init() {
	importCmd.Flags().String("user", "", "User id that will own the imported data")
	importCmd.Flags().String("file", "", "Path to bookmarks.yaml")
	importCmd.Flags().Bool("dry-run", false, "Print the plan without writing")
	_ = importCmd.MarkFlagRequired("user")
	_ = importCmd.MarkFlagRequired("file")
}

func runImport(cmd *cobra.Command, userID, file string, dryRun bool) error {
	if userID == "" {
		return fmt.Errorf("--user must not be empty")
	}

	bookmarks, err := homepage.NewBookmarkLoader(file).Load()
	if err != nil {
		return err
	}
	plan, skipped, err := homepage.MapImportPlan(bookmarks)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if dryRun {
		for _, c := range plan {
			fmt.Fprintf(out, "%s (%d bookmarks)\n", c.Name, len(c.Bookmarks))
			for _, b := range c.Bookmarks {
				fmt.Fprintf(out, "  - %s -> %s\n", b.Name, b.Link)
			}
		}
		printSkipped(cmd, skipped)
		return nil
	}

	cfg := config.Load()
	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)
	defer func() { _ = loggerClient.Sync() }()

	store, closer, err := app.OpenStore(cmd.Context(), cfg, loggerClient)
	if err != nil {
		return err
	}
	defer utils.Close(closer)

	service := hierarchy.NewService(store, loggerClient,
		hierarchy.WithMaxNameLength(cfg.MaxNameLength))

	report, err := homepage.NewImporter(service, loggerClient).Import(cmd.Context(), userID, plan)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "imported %d categories and %d bookmarks for user %s\n",
		report.Categories, report.Bookmarks, userID)
	printSkipped(cmd, append(skipped, report.Skipped...))
	return nil
}

func printSkipped(cmd *cobra.Command, skipped []homepage.Skipped) {
	for _, s := range skipped {
		name := s.Category
		if s.Name != "" {
			name += "/" + s.Name
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "skipped %s: %s\n", name, s.Reason)
	}
}
