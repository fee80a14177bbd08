package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/bilgisen/titan/internal/feed"
	"github.com/bilgisen/titan/internal/models"
)

var recordsCmd = &cobra.Command{
	Use:       "records <portfolio|blog>",
	Short:     "Fetch a feed and print its records",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{string(models.KindPortfolio), string(models.KindBlog)},
	RunE:      runRecords,
}

func init() {
	f := recordsCmd.Flags()
	f.String("url", "", "Override the configured feed URL")
	f.Int("limit", 0, "Show at most N records (0=all)")
}

func runRecords(cmd *cobra.Command, args []string) error {
	kind := models.FeedKind(args[0])
	if !kind.Valid() {
		return fmt.Errorf("unknown feed kind %q", args[0])
	}

	src := siteCfg.Source(kind)
	if url, _ := cmd.Flags().GetString("url"); url != "" {
		src.URL = url
	}

	records, err := newProcessor().Records(cmd.Context(), src.URL)
	if err != nil {
		return fmt.Errorf("failed to load %s feed: %w", kind, err)
	}
	if limit, _ := cmd.Flags().GetInt("limit"); limit > 0 && len(records) > limit {
		records = records[:limit]
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(styleGray).
		Headers(recordHeaders(kind)...).
		Rows(recordRows(kind, records, src.DefaultImage)...)

	fmt.Fprintln(cmd.OutOrStdout(), t.Render())
	fmt.Fprintln(cmd.OutOrStdout(), styleGreen.Render(fmt.Sprintf("%d %s records", len(records), kind)))
	return nil
}

func recordHeaders(kind models.FeedKind) []string {
	if kind == models.KindBlog {
		return []string{"Slug", "Title", "Date", "Category", "Summary"}
	}
	return []string{"Name", "Price", "Summary", "Image"}
}

func recordRows(kind models.FeedKind, records []models.FeedRecord, defaultImage string) [][]string {
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		if kind == models.KindBlog {
			p := feed.ProjectBlog(rec, defaultImage)
			rows = append(rows, []string{p.Slug, p.Title, p.Date, p.Category, feed.Truncate(p.Summary, feed.SummaryLimit)})
			continue
		}
		p := feed.ProjectPortfolio(rec, defaultImage)
		rows = append(rows, []string{p.Name, p.Price, feed.Truncate(p.Description, feed.SummaryLimit), p.Image})
	}
	return rows
}
