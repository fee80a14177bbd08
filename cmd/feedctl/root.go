package main

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/bilgisen/titan/internal/feed"
	"github.com/bilgisen/titan/internal/logger"
	"github.com/bilgisen/titan/internal/models"
	"github.com/bilgisen/titan/internal/site"
)

var (
	styleCyan  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	styleRed   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1"))
	styleGreen = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))
	styleGray  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// siteCfg is loaded once before any subcommand runs.
var siteCfg *models.Site

var rootCmd = &cobra.Command{
	Use:   "feedctl",
	Short: "Inspect feeds and render page shells",
	Long: `feedctl reads the site config used by the server, fetches the
configured CSV feeds and renders page shells without running the service.`,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		level, _ := cmd.Flags().GetString("log-level")
		if err := logger.Init(logger.Config{Level: level, Output: "stderr", Pretty: true}); err != nil {
			return err
		}

		path, _ := cmd.Flags().GetString("site")
		s, err := site.Load(path)
		if err != nil {
			return err
		}
		if demo, _ := cmd.Flags().GetBool("demo"); demo {
			s.Demo = true
		}
		siteCfg = s
		return nil
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().String("site", "site.yaml", "Site config file path")
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level: debug|info|warn|error")
	rootCmd.PersistentFlags().Bool("demo", false, "Force demo mode")

	rootCmd.AddCommand(recordsCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(scriptCmd)
}

func newProcessor() *feed.Processor {
	return feed.NewProcessor(feed.NewFetcher())
}
