package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/grosnap/backend/internal/usecase"
)

var (
	matchText   string
	matchFile   string
	matchOutput string
)

// matchCmd represents the match command
var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Match a shopping list against every shop's inventory",
	Long: `Splits the shopping list on newlines and commas, then reports for every shop
which items it stocks and which it does not. Matching ignores case,
punctuation and extra whitespace.`,
	Example: `  grosnap match --text "milk, bread, turmeric"
  grosnap match --file ./list.txt --output json`,
	RunE: runMatch,
}

func init() {
	rootCmd.AddCommand(matchCmd)

	matchCmd.Flags().StringVar(&matchText, "text", "", "Shopping list text")
	matchCmd.Flags().StringVar(&matchFile, "file", "", "Read the shopping list from a file")
	matchCmd.Flags().StringVar(&matchOutput, "output", "table", "Output format: table or json")
	matchCmd.MarkFlagsMutuallyExclusive("text", "file")
}

func runMatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	text := matchText
	if matchFile != "" {
		content, err := os.ReadFile(matchFile)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}
		text = string(content)
	}
	if strings.TrimSpace(text) == "" {
		return errors.New("a shopping list is required (use --text or --file)")
	}

	store, err := openCatalog(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	serviceCfg := usecase.FinderServiceConfig{}
	if cfg != nil {
		serviceCfg.Separator = cfg.Matching.SeparatorString()
		serviceCfg.FetchConcurrency = cfg.Matching.FetchConcurrency
	}
	service := usecase.NewFinderService(store, nil, logger, serviceCfg)

	result, err := service.FindItems(ctx, text)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if matchOutput == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{
			"message":       result.Summary.Message,
			"store_results": result.Reports,
		})
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STORE\tFOUND\tMISSING")
	for _, r := range result.Reports {
		fmt.Fprintf(w, "%s\t%s\t%s\n", r.Store, strings.Join(r.FoundItems, ", "), strings.Join(r.NotFoundItems, ", "))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintln(out, result.Summary.Message)
	return nil
}
