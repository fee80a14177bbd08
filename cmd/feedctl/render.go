package main

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/natefinch/atomic"
	"github.com/spf13/cobra"

	"github.com/bilgisen/titan/internal/feed"
	"github.com/bilgisen/titan/internal/page"
)

var renderCmd = &cobra.Command{
	Use:   "render <shell.html>",
	Short: "Hydrate a page shell with live feed data",
	Long: `Render runs the same pipeline as the server against a local page
shell and prints the resulting HTML. Query parameters such as the detail
identifier are passed with --query.`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	f := renderCmd.Flags()
	f.String("query", "", "Query string for the page, e.g. item=Alpha")
	f.String("page-url", "", "Public URL of the page, used in share links")
	f.StringP("out", "o", "", "Write the HTML to a file instead of stdout")
}

func runRender(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read shell: %w", err)
	}
	doc, err := page.ParseString(string(data))
	if err != nil {
		return err
	}

	rawQuery, _ := cmd.Flags().GetString("query")
	query, err := url.ParseQuery(strings.TrimPrefix(rawQuery, "?"))
	if err != nil {
		return fmt.Errorf("invalid query: %w", err)
	}
	pageURL, _ := cmd.Flags().GetString("page-url")

	report := newProcessor().Hydrate(cmd.Context(), doc, siteCfg.Bindings(), feed.Request{
		Query:   query.Get,
		PageURL: pageURL,
		Demo:    siteCfg.Demo,
	})

	html, err := doc.HTML()
	if err != nil {
		return err
	}

	stderr := cmd.ErrOrStderr()
	for _, res := range report.Results {
		if res.Outcome == feed.OutcomeNoTarget {
			continue
		}
		style := styleGreen
		if res.Outcome != feed.OutcomeRendered {
			style = styleRed
		}
		line := fmt.Sprintf("%-9s %-14s %s", res.Binding.Feed, res.Binding.Target, style.Render(string(res.Outcome)))
		if res.Err != nil {
			line += " " + styleGray.Render(res.Err.Error())
		}
		fmt.Fprintln(stderr, line)
	}

	out, _ := cmd.Flags().GetString("out")
	if out == "" {
		fmt.Fprintln(cmd.OutOrStdout(), html)
		return nil
	}
	if err := atomic.WriteFile(out, strings.NewReader(html)); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}
	fmt.Fprintln(stderr, styleCyan.Render("Wrote "+out))
	return nil
}
