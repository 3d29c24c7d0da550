package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/emberline/pricewatch/internal/config"
)

// RunInteractiveLogin prompts for the server URL and CSRF token and persists
// them. The token is issued by the web app's account page; the CLI never sees
// a password.
func RunInteractiveLogin(in io.Reader, out io.Writer) error {
	reader := bufio.NewReader(in)

	fmt.Fprintf(out, "server url [%s]: ", config.DefaultBaseURL)
	baseURL, _ := reader.ReadString('\n')
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		baseURL = config.DefaultBaseURL
	}

	fmt.Fprint(out, "csrf token: ")
	token, _ := reader.ReadString('\n')
	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("csrf token is required")
	}

	cfg := &config.Config{
		BaseURL:   baseURL,
		CSRFToken: token,
	}
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	fmt.Fprintf(out, "config saved to %s\n", config.Path())
	return nil
}

// LoginCmd returns the `pricewatch login` command.
func LoginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Store the server URL and CSRF token",
		RunE: func(_ *cobra.Command, _ []string) error {
			return RunInteractiveLogin(os.Stdin, os.Stdout)
		},
	}
}
