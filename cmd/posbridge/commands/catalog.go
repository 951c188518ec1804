package commands

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmylchreest/posbridge/internal/config"
	"github.com/jmylchreest/posbridge/internal/convert"
	"github.com/jmylchreest/posbridge/internal/logger"
	"github.com/jmylchreest/posbridge/internal/output"
	"github.com/jmylchreest/posbridge/pkg/catalog"
)

var catalogCmd = &cobra.Command{
	Use:     "catalog [input]",
	Aliases: []string{"csv2btcpay"},
	Short:   "Map extracted records into a point-of-sale item catalog",
	Long: `Read a CSV file with a header row and write a catalog mapping each item
key to its title and price.

The key is the lower-cased title, or "<prefix> - <title>" lower-cased
when a prefix column is given. When two rows share a key the later row
wins.

Examples:
  posbridge catalog -i prices.csv -o catalog.yaml --title-field 1 --price-field 4
  posbridge catalog prices.csv --prefix-field 0 --format json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCatalog,
}

func init() {
	rootCmd.AddCommand(catalogCmd)

	flags := catalogCmd.Flags()

	flags.StringP("input", "i", "", "CSV file to read")
	flags.StringP("output", "o", "-", "output file (- for stdout)")
	flags.StringP("format", "f", "yaml", "output format: yaml, json")
	flags.Int("title-field", 0, "zero-based index of the title column")
	flags.Int("price-field", 1, "zero-based index of the price column")
	flags.String("prefix-field", "", "zero-based index of a column prefixed to titles")

	bind := map[string]string{
		config.CatalogInput:       "input",
		config.CatalogOutput:      "output",
		config.CatalogFormat:      "format",
		config.CatalogTitleField:  "title-field",
		config.CatalogPriceField:  "price-field",
		config.CatalogPrefixField: "prefix-field",
	}
	for key, flag := range bind {
		_ = viper.BindPFlag(key, flags.Lookup(flag))
	}
}

func runCatalog(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if len(args) == 1 {
		if err := cmd.Flags().Set("input", args[0]); err != nil {
			return err
		}
	}

	cfg, err := config.LoadCatalog(viper.GetViper())
	if err != nil {
		return err
	}

	opts := convert.CatalogOptions{
		Input:  cfg.Input,
		Output: cfg.Output,
		Fields: catalog.Fields{
			Title:  cfg.TitleField,
			Price:  cfg.PriceField,
			Prefix: cfg.PrefixField,
		},
		Format: output.Format(cfg.Format),
		Stdout: cmd.OutOrStdout(),
	}

	items, err := convert.BuildCatalog(ctx, opts)
	if err != nil {
		return err
	}

	logger.Info("built catalog", "items", items, "output", cfg.Output)
	return nil
}
