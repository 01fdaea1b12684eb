package cmd

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/scambane/scanbridge/internal/cmd/engines"
	"github.com/scambane/scanbridge/internal/cmd/scan"
)

var (
	rootCmd = &cobra.Command{
		Use:   "scanbridge",
		Short: "Run external analysis engines safely from one bridge",
		Long:  "Scanbridge invokes steganography, malware and URL analysis engines as isolated subprocesses and guarantees cleanup of every temporary resource, whatever the outcome.",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(scan.NewScanCmd())
	rootCmd.AddCommand(engines.NewEnginesCmd())

	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	log.Logger = zerolog.New(output).With().Timestamp().Logger()
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}
