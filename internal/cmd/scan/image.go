package scan

import (
	"os"

	"github.com/h2non/filetype"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/scambane/scanbridge/pkg/analyzer"
)

func NewImageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "image [path]",
		Short: "Analyze an image for steganography",
		Args:  cobra.ExactArgs(1),
		Run:   scanImage,
	}
}

func scanImage(cmd *cobra.Command, args []string) {
	cfg := loadConfig()

	data, err := os.ReadFile(args[0])
	if err != nil {
		log.Fatal().Err(err).Str("path", args[0]).Msg("Failed reading input image")
	}

	kind, _ := filetype.Match(data)
	log.Debug().Str("detectedType", kind.MIME.Value).Msg("Submitting image for analysis")

	bridge := analyzer.New(cfg)
	result := bridge.AnalyzeImage(cmd.Context(), data)
	if result.Error != "" {
		log.Warn().Str("error", result.Error).Msg("Analysis degraded to negative default")
	}

	log.Info().Bool("hasSteganography", result.HasSteganography).Float64("confidence", result.Confidence).Msg("Steganography analysis finished")
	printResult(result)
}
