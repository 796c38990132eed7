package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the state of the mirror",
	Long:  "Queries the server's health endpoint and the mirrored row totals per entity family.",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func runStatus(_ *cobra.Command, _ []string) error {
	api := newAPIClient(serverURL, "")

	report, err := api.health()
	if err != nil {
		return fmt.Errorf("server unreachable: %w", err)
	}

	fmt.Printf("Server:   %s\n", colorize(report.Status))
	fmt.Printf("Database: %s\n", colorize(report.Database))
	fmt.Println()

	rows := []struct {
		label string
		path  string
	}{
		{"Materials", "/api/v1/materiais"},
		{"Material requisitions", "/api/v1/requisicoes/material"},
		{"Maintenance requisitions", "/api/v1/requisicoes/manutencao"},
		{"Contracts", "/api/v1/contratos"},
	}

	for _, row := range rows {
		total, err := api.total(row.path)
		if err != nil {
			fmt.Printf("%-26s %s\n", row.label, color.RedString("unavailable: %v", err))
			continue
		}
		fmt.Printf("%-26s %d\n", row.label, total)
	}

	return nil
}

func colorize(status string) string {
	if status == "OK" {
		return color.GreenString(status)
	}
	return color.RedString(status)
}
