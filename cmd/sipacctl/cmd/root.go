package cmd

import (
	"fmt"
	"os"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

var (
	serverURL string
	apiToken  string
)

var rootCmd = &cobra.Command{
	Use:   "sipacctl",
	Short: "Control the SIPAC mirror service",
	Long: `sipacctl talks to a running sipacmirror server over its HTTP API.

It can trigger synchronization runs for materials, requisitions and
contracts, and report the current state of the mirror.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}

// resolveToken returns the API token for sync endpoints: the --token
// flag wins, then the API_TOKEN environment variable, and as a last
// resort an interactive prompt on the terminal.
func resolveToken() (string, error) {
	if apiToken != "" {
		return apiToken, nil
	}
	if tok := viper.GetString("api_token"); tok != "" {
		return tok, nil
	}

	if !term.IsTerminal(int(syscall.Stdin)) {
		return "", fmt.Errorf("no API token: set --token or API_TOKEN")
	}

	fmt.Fprint(os.Stderr, "API token: ")
	raw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read token: %w", err)
	}
	return string(raw), nil
}

func init() {
	viper.AutomaticEnv()

	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8080", "sipacmirror server URL")
	rootCmd.PersistentFlags().StringVar(&apiToken, "token", "", "API token for sync endpoints")

	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(statusCmd)
}
