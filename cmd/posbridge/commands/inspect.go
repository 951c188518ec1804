package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/posbridge/internal/convert"
	"github.com/jmylchreest/posbridge/internal/inspect"
	"github.com/jmylchreest/posbridge/internal/logger"
	"github.com/jmylchreest/posbridge/internal/output"
	"github.com/jmylchreest/posbridge/pkg/fetcher"
	"github.com/jmylchreest/posbridge/pkg/tablescan"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <input>",
	Short: "Report the price tables a page contains",
	Long: `Parse a page fully and report every container div, its tables and
rows. Use it when extract yields fewer rows than expected: a div nested
inside the container before the table ends the container early.`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	flags := inspectCmd.Flags()
	flags.String("container-class", tablescan.DefaultContainerClass, "class attribute of the div holding the table")
	flags.StringP("format", "f", "yaml", "report format: yaml, json")
	flags.Duration("timeout", 30*time.Second, "request timeout for URL inputs")
}

func runInspect(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	class, _ := cmd.Flags().GetString("container-class")
	formatStr, _ := cmd.Flags().GetString("format")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	format := output.Format(formatStr)
	if format != output.FormatYAML && format != output.FormatJSON {
		return fmt.Errorf("unsupported report format: %s (use yaml or json)", formatStr)
	}

	f := fetcher.ForLocation(args[0], fetcher.StaticConfig{Timeout: timeout})
	defer func() { _ = f.Close() }()

	content, err := f.Fetch(ctx, args[0], fetcher.Options{})
	if err != nil {
		return &convert.FileError{Path: args[0], Op: convert.OpRead, Err: err}
	}

	report, err := inspect.Page(content.HTML, class)
	if err != nil {
		return err
	}
	logger.Debug("page inspected", "input", args[0], "containers", len(report.Containers))

	w, err := output.NewWriter(cmd.OutOrStdout(), format, output.WithPretty(true))
	if err != nil {
		return err
	}
	if err := w.Write(report); err != nil {
		return err
	}
	return w.Close()
}
