package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gravitrone/picker/internal/api"
	"github.com/gravitrone/picker/internal/config"
)

// RunInteractiveLogin prompts for the catalog URL, API key and account,
// checks the server is reachable, and persists config.
func RunInteractiveLogin(in io.Reader, out io.Writer) error {
	reader := bufio.NewReader(in)

	apiURL := prompt(reader, out, fmt.Sprintf("api url [%s]: ", api.DefaultBaseURL))
	if apiURL == "" {
		apiURL = api.DefaultBaseURL
	}
	apiKey := prompt(reader, out, "api key (optional): ")
	accountID := prompt(reader, out, "account id: ")
	if accountID == "" {
		return fmt.Errorf("account id is required")
	}

	client := api.NewClient(apiURL, apiKey)
	if _, err := client.Health(); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	cfg := &config.Config{
		APIURL:    client.BaseURL(),
		APIKey:    apiKey,
		AccountID: accountID,
		Username:  os.Getenv("USER"),
		PageSize:  config.DefaultPageSize,
		VimKeys:   true,
	}

	if err := cfg.Save(); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	fmt.Fprintf(out, "connected to %s as account %s\n", cfg.APIURL, cfg.AccountID)
	fmt.Fprintf(out, "config saved to %s\n", config.Path())
	return nil
}

func prompt(reader *bufio.Reader, out io.Writer, label string) string {
	fmt.Fprint(out, label)
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}

// LoginCmd returns the `picker login` command.
func LoginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Connect to a product catalog server",
		RunE: func(c *cobra.Command, _ []string) error {
			return RunInteractiveLogin(c.InOrStdin(), c.OutOrStdout())
		},
	}
}
