package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/posbridge/internal/output"
	"github.com/jmylchreest/posbridge/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	RunE: func(cmd *cobra.Command, args []string) error {
		formatStr, _ := cmd.Flags().GetString("format")
		if formatStr == "" {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), version.Full())
			return err
		}

		w, err := output.NewWriter(cmd.OutOrStdout(), output.Format(formatStr), output.WithPretty(true))
		if err != nil {
			return err
		}
		if err := w.Write(version.Get()); err != nil {
			return err
		}
		return w.Close()
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().StringP("format", "f", "", "structured output: json, yaml")
}
