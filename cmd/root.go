package cmd

import (
	"fmt"
	"os"

	"report-manager/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "report-manager",
	Short: "Report Manager Service",
	Long: `Report Manager runs daily business reports with a stock reconciliation
engine: it syncs consumption from the POS provider, collects physical
counts with photo evidence, and gates report submission on a complete count.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Console format with debug level gives readable ISO8601 output
		// for a CLI invocation.
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			fmt.Println(err)
		}
		os.Exit(1)
	}
}
