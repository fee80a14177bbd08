package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bilgisen/titan/internal/page"
	"github.com/bilgisen/titan/internal/scripts"
)

var scriptCmd = &cobra.Command{
	Use:   "script",
	Short: "Print the client-side loader scripts for the site",
	RunE:  runScript,
}

func init() {
	scriptCmd.Flags().String("shell", "", "Only emit loaders for targets present in this page shell")
}

func runScript(cmd *cobra.Command, _ []string) error {
	gen, err := scripts.New()
	if err != nil {
		return err
	}

	bindings := siteCfg.Bindings()
	if shell, _ := cmd.Flags().GetString("shell"); shell != "" {
		data, err := os.ReadFile(shell)
		if err != nil {
			return fmt.Errorf("failed to read shell: %w", err)
		}
		doc, err := page.ParseString(string(data))
		if err != nil {
			return err
		}
		bindings = doc.Present(bindings)
	}

	bundle, err := gen.Bundle(bindings, siteCfg.Demo)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), bundle)
	return nil
}
