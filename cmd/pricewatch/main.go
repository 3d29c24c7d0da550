package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/emberline/pricewatch/internal/api"
	"github.com/emberline/pricewatch/internal/cmd"
	"github.com/emberline/pricewatch/internal/config"
	"github.com/emberline/pricewatch/internal/ui"
)

func main() {
	root := &cobra.Command{
		Use:   "pricewatch",
		Short: "Pricewatch - market price alerts",
		Long:  "Pricewatch CLI: create price alerts, manage saved item collections, and watch alert groups.",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runTUI()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(cmd.LoginCmd())
	root.AddCommand(cmd.CollectionsCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	// Force truecolor so hex colors render correctly
	// Must be set before any lipgloss style initialization
	os.Setenv("COLORTERM", "truecolor")
}

func runTUI() error {
	if !isInteractiveTerminal(os.Stdin) || !isInteractiveTerminal(os.Stdout) {
		return fmt.Errorf("pricewatch needs an interactive terminal; use the subcommands for scripting")
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Println("not logged in. run 'pricewatch login' first.")
		return err
	}

	client := api.NewClient(cfg.BaseURL, cfg.CSRFToken)
	app := ui.NewApp(client, *cfg)

	// All-motion mouse reporting: hover highlighting needs motion events
	// without a button held.
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseAllMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}

func isInteractiveTerminal(file *os.File) bool {
	if file == nil {
		return false
	}
	info, err := file.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
