package scan

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/scambane/scanbridge/pkg/analyzer"
	"github.com/scambane/scanbridge/pkg/analyzer/urlintel"
)

var useLocalBackend bool

func NewURLCmd() *cobra.Command {
	urlCmd := &cobra.Command{
		Use:   "url [url]",
		Short: "Analyze a URL's reputation",
		Args:  cobra.ExactArgs(1),
		Run:   scanURL,
	}

	urlCmd.Flags().BoolVar(&useLocalBackend, "local", false, "Use the in-process analyzer instead of the external engine")

	return urlCmd
}

func scanURL(cmd *cobra.Command, args []string) {
	cfg := loadConfig()

	bridge := analyzer.New(cfg)
	if useLocalBackend {
		bridge = analyzer.NewWithBackend(cfg, urlintel.New())
	}

	result := bridge.AnalyzeURL(cmd.Context(), args[0])
	if result.Error != "" {
		log.Warn().Str("error", result.Error).Msg("Analysis degraded to negative default")
	}

	log.Info().Bool("isMalicious", result.IsMalicious).Float64("confidence", result.Confidence).Str("threatType", result.ThreatType).Msg("URL analysis finished")
	printResult(result)
}
