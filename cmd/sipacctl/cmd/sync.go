package cmd

import (
	"fmt"
	"net/url"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	syncAll  bool
	syncFrom string
	syncTo   string
	syncAno  int
)

// family maps a CLI resource name onto its server routes and the JSON
// key its sync endpoint expects.
type family struct {
	basePath string
	bodyKey  string
	keyed    bool
}

var families = map[string]family{
	"materiais":              {basePath: "/api/v1/materiais", bodyKey: "codigos"},
	"requisicoes-material":   {basePath: "/api/v1/requisicoes/material", bodyKey: "requisicoes", keyed: true},
	"requisicoes-manutencao": {basePath: "/api/v1/requisicoes/manutencao", bodyKey: "requisicoes", keyed: true},
	"contratos":              {basePath: "/api/v1/contratos", bodyKey: "contratos", keyed: true},
}

var syncCmd = &cobra.Command{
	Use:   "sync <family> [keys...]",
	Short: "Trigger a synchronization run",
	Long: `Trigger a synchronization run for one entity family.

Families: materiais, requisicoes-material, requisicoes-manutencao, contratos.

Pass catalog codes (materiais) or numero/ano keys (everything else) to
mirror specific records, or --all for a full background run.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSync,
}

func runSync(_ *cobra.Command, args []string) error {
	fam, ok := families[args[0]]
	if !ok {
		return fmt.Errorf("unknown family %q", args[0])
	}

	token, err := resolveToken()
	if err != nil {
		return err
	}
	api := newAPIClient(serverURL, token)

	if syncAll {
		return runSyncAll(api, args[0], fam)
	}

	keys := args[1:]
	if len(keys) == 0 {
		return fmt.Errorf("pass record keys or --all")
	}

	start := time.Now()
	result, err := api.sync(fam.basePath+"/sync", map[string][]string{fam.bodyKey: keys})
	if err != nil {
		return err
	}

	printResult(result, time.Since(start))
	if result.Failed > 0 {
		return fmt.Errorf("%d of %d records failed", result.Failed, result.TotalProcessed)
	}
	return nil
}

func runSyncAll(api *apiClient, name string, fam family) error {
	query := url.Values{}
	switch {
	case name == "contratos":
		ano := syncAno
		if ano == 0 {
			ano = time.Now().Year()
		}
		query.Set("ano", fmt.Sprint(ano))
	case fam.keyed:
		if syncFrom == "" || syncTo == "" {
			return fmt.Errorf("--all needs --from and --to (YYYY-MM-DD) for %s", name)
		}
		query.Set("from", syncFrom)
		query.Set("to", syncTo)
	}

	run, err := api.syncAll(fam.basePath+"/sync/all", query)
	if err != nil {
		return err
	}

	color.Green("Accepted")
	fmt.Printf("Run id: %s\n", run.RunID)
	fmt.Println("The run continues on the server; check its logs for the outcome.")
	return nil
}

func printResult(result *syncResult, elapsed time.Duration) {
	if result.Failed == 0 {
		color.Green("Synchronized %d records in %v", result.Successful, elapsed.Round(time.Millisecond))
	} else {
		color.Yellow("Synchronized %d of %d records in %v",
			result.Successful, result.TotalProcessed, elapsed.Round(time.Millisecond))
	}
	fmt.Printf("Run id: %s\n", result.RunID)

	for _, d := range result.Details {
		if d.Status == "success" {
			fmt.Printf("  %s %s\n", color.GreenString("ok"), d.Identifier)
		} else {
			fmt.Printf("  %s %s: %s\n", color.RedString("failed"), d.Identifier, d.Message)
		}
	}
}

func init() {
	syncCmd.Flags().BoolVar(&syncAll, "all", false, "mirror the whole family in the background")
	syncCmd.Flags().StringVar(&syncFrom, "from", "", "registration range start for --all (YYYY-MM-DD)")
	syncCmd.Flags().StringVar(&syncTo, "to", "", "registration range end for --all (YYYY-MM-DD)")
	syncCmd.Flags().IntVar(&syncAno, "ano", 0, "contract year for --all (defaults to the current year)")
}
