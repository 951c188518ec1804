package commands

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmylchreest/posbridge/internal/config"
	"github.com/jmylchreest/posbridge/internal/convert"
	"github.com/jmylchreest/posbridge/internal/logger"
	"github.com/jmylchreest/posbridge/internal/output"
	"github.com/jmylchreest/posbridge/pkg/fetcher"
)

var extractCmd = &cobra.Command{
	Use:     "extract [input]",
	Aliases: []string{"gbpos2csv"},
	Short:   "Extract the price table of an exported page as records",
	Long: `Read an exported HTML page and write every non-empty row of the table
inside its scrollable table container as one record.

The input is a file path or an http(s) URL. Cell text is written as it
appears in the markup; markup inside a cell splits it into separate
fields.

Examples:
  posbridge extract -i export.html -o prices.csv
  posbridge extract export.html --strip-currency --format jsonl`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	flags := extractCmd.Flags()

	flags.StringP("input", "i", "", "HTML file or URL to read")
	flags.StringP("output", "o", "-", "output file (- for stdout)")
	flags.StringP("format", "f", "csv", "output format: csv, json, jsonl, yaml")
	flags.String("delimiter", "", "CSV field delimiter (default ,)")
	flags.Bool("flexible", false, "allow CSV rows with differing field counts")

	flags.Bool("strip-currency", false, "strip trailing non-numeric characters from the price column")
	flags.Int("currency-column", 4, "zero-based index of the price column")
	flags.String("container-class", "table-scrollable", "class attribute of the div holding the table")

	flags.String("max-input-size", "0", "largest input accepted (e.g. 512KB, 0=unlimited)")
	flags.Duration("timeout", 30*time.Second, "request timeout for URL inputs")
	flags.String("user-agent", "", "user agent for URL inputs")

	bind := map[string]string{
		config.ExtractInput:          "input",
		config.ExtractOutput:         "output",
		config.ExtractFormat:         "format",
		config.ExtractDelimiter:      "delimiter",
		config.ExtractFlexible:       "flexible",
		config.ExtractStripCurrency:  "strip-currency",
		config.ExtractCurrencyColumn: "currency-column",
		config.ExtractContainerClass: "container-class",
		config.ExtractMaxInputSize:   "max-input-size",
		config.ExtractTimeout:        "timeout",
		config.ExtractUserAgent:      "user-agent",
	}
	for key, flag := range bind {
		_ = viper.BindPFlag(key, flags.Lookup(flag))
	}
}

func runExtract(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if len(args) == 1 {
		if err := cmd.Flags().Set("input", args[0]); err != nil {
			return err
		}
	}

	cfg, err := config.LoadExtract(viper.GetViper())
	if err != nil {
		return err
	}

	maxSize, err := fetcher.ParseSize(cfg.MaxInputSize)
	if err != nil {
		return err
	}

	currencyColumn := cfg.CurrencyColumn
	opts := convert.ExtractOptions{
		Input:          cfg.Input,
		Output:         cfg.Output,
		Format:         output.Format(cfg.Format),
		Flexible:       cfg.Flexible,
		Delimiter:      cfg.DelimiterRune(),
		StripCurrency:  cfg.StripCurrency,
		CurrencyColumn: &currencyColumn,
		ContainerClass: cfg.ContainerClass,
		Fetch: fetcher.Options{
			MaxSize: maxSize,
		},
		Static: fetcher.StaticConfig{
			UserAgent: cfg.UserAgent,
			Timeout:   cfg.Timeout,
		},
		Stdout: cmd.OutOrStdout(),
	}

	logger.Debug("extract starting",
		"input", cfg.Input,
		"output", cfg.Output,
		"format", cfg.Format,
		"strip_currency", cfg.StripCurrency,
		"currency_column", cfg.CurrencyColumn,
		"container_class", cfg.ContainerClass,
		"max_input_size", maxSize)

	stats, err := convert.ExtractTable(ctx, opts)
	if err != nil {
		logger.Debug("extract failed", "rows_written", stats.Rows, "error", err)
		return err
	}

	logger.Info("extracted price table",
		"rows", stats.Rows,
		"read", humanize.Bytes(uint64(stats.InputBytes)), // #nosec G115 -- size is never negative
		"output", cfg.Output,
		"duration", stats.Duration.Round(time.Millisecond))
	return nil
}
