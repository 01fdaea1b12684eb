package scan

import (
	"os"
	"path/filepath"

	units "github.com/docker/go-units"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/scambane/scanbridge/pkg/analyzer"
)

var declaredName string

func NewFileCmd() *cobra.Command {
	fileCmd := &cobra.Command{
		Use:   "file [path]",
		Short: "Analyze a file for malware",
		Args:  cobra.ExactArgs(1),
		Run:   scanFile,
	}

	fileCmd.Flags().StringVarP(&declaredName, "name", "n", "", "Declared original file name, defaults to the path's base name")

	return fileCmd
}

func scanFile(cmd *cobra.Command, args []string) {
	cfg := loadConfig()

	data, err := os.ReadFile(args[0])
	if err != nil {
		log.Fatal().Err(err).Str("path", args[0]).Msg("Failed reading input file")
	}

	name := declaredName
	if name == "" {
		name = filepath.Base(args[0])
	}

	log.Debug().Str("name", name).Str("size", units.HumanSize(float64(len(data)))).Msg("Submitting file for analysis")

	bridge := analyzer.New(cfg)
	result := bridge.AnalyzeFile(cmd.Context(), data, name)
	if result.Error != "" {
		log.Warn().Str("error", result.Error).Msg("Analysis degraded to negative default")
	}

	log.Info().Bool("isMalicious", result.IsMalicious).Float64("confidence", result.Confidence).Msg("Malware analysis finished")
	printResult(result)
}
