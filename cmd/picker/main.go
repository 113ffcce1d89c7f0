package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/gravitrone/picker/internal/api"
	"github.com/gravitrone/picker/internal/cmd"
	"github.com/gravitrone/picker/internal/config"
	"github.com/gravitrone/picker/internal/ui"
)

func main() {
	root := &cobra.Command{
		Use:   "picker",
		Short: "Picker - product selection for opportunities",
		Long:  "Picker CLI: browse the product catalog, select products across pages, and create opportunities.",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runTUI()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(cmd.LoginCmd())
	root.AddCommand(cmd.ProductsCmd())
	root.AddCommand(cmd.SubmitCmd())
	root.AddCommand(cmd.ServeCmd())

	closeLog := setupLogging()
	defer closeLog()

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		closeLog()
		os.Exit(1)
	}
}

func init() {
	// Force truecolor so hex colors render correctly
	// Must be set before any lipgloss style initialization
	os.Setenv("COLORTERM", "truecolor")
}

// setupLogging sends the standard logger to the picker log file so the TUI
// screen stays clean. Logging is discarded when the file cannot be opened.
func setupLogging() func() {
	path := config.LogPath()
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		log.SetOutput(io.Discard)
		return func() {}
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		log.SetOutput(io.Discard)
		return func() {}
	}
	log.SetOutput(f)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	return func() { _ = f.Close() }
}

func runTUI() error {
	cfg, err := config.Load()
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		if !isInteractiveTerminal(os.Stdin) || !isInteractiveTerminal(os.Stdout) {
			fmt.Println("not logged in. run 'picker login' first.")
			return err
		}
		if err := cmd.RunInteractiveLogin(os.Stdin, os.Stdout); err != nil {
			return err
		}
		if cfg, err = config.Load(); err != nil {
			return err
		}
	}

	client := api.NewClient(cfg.APIURL, cfg.APIKey)
	app := ui.NewApp(client, cfg)
	defer app.Close()

	p := tea.NewProgram(app, tea.WithAltScreen())
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
