// Package scan wires the analyzer façades into CLI commands.
package scan

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/scambane/scanbridge/internal/helper"
	"github.com/scambane/scanbridge/pkg/config"
)

var (
	configPath string
	verbose    bool
)

func NewScanCmd() *cobra.Command {
	scanCmd := &cobra.Command{
		Use:   "scan",
		Short: "Run one of the analysis façades",
	}

	scanCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Engine configuration YAML file")
	scanCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose Logging")

	scanCmd.AddCommand(NewURLCmd())
	scanCmd.AddCommand(NewFileCmd())
	scanCmd.AddCommand(NewImageCmd())
	scanCmd.AddCommand(NewBatchCmd())

	return scanCmd
}

func loadConfig() config.Config {
	helper.SetLogLevel(verbose)

	if configPath == "" {
		return config.Default()
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", configPath).Msg("Failed loading engine configuration")
	}

	return cfg
}

func printResult(result any) {
	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed rendering result")
	}

	fmt.Println(string(out))
}
