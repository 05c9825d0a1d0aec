package cli

import (
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/vietddude/stylelog"

	"github.com/vietddude/logship/internal/core/config"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the configuration and print the resolved run config",
	Run:   runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) {
	stylelog.InitDefault()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	runCfg, err := config.Resolve(cfg, resolvedFlags())
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.Debug)
	_, _ = fmt.Fprintln(w, "SETTING\tVALUE")
	_, _ = fmt.Fprintf(w, "transport\t%s\n", runCfg.Transport)
	_, _ = fmt.Fprintf(w, "mode\t%s\n", runCfg.Mode)
	_, _ = fmt.Fprintf(w, "hostname\t%s\n", runCfg.Hostname)
	for _, fc := range runCfg.Files {
		if fc.Path != "" {
			_, _ = fmt.Fprintf(w, "path\t%s\n", fc.Path)
		}
		if fc.Glob != "" {
			_, _ = fmt.Fprintf(w, "glob\t%s\n", fc.Glob)
		}
	}
	_ = w.Flush()
}
