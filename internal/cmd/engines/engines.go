// Package engines provides operational commands for the configured
// analysis engines.
package engines

import (
	"os/exec"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/scambane/scanbridge/pkg/config"
)

var configPath string

func NewEnginesCmd() *cobra.Command {
	enginesCmd := &cobra.Command{
		Use:   "engines",
		Short: "Inspect the configured analysis engines",
	}

	enginesCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Engine configuration YAML file")
	enginesCmd.AddCommand(newCheckCmd())

	return enginesCmd
}

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify every engine executable is resolvable",
		Run:   checkEngines,
	}
}

func checkEngines(cmd *cobra.Command, args []string) {
	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", configPath).Msg("Failed loading engine configuration")
		}
		cfg = loaded
	}

	engines := map[string]config.Engine{
		"steganography": cfg.Steganography,
		"malware":       cfg.Malware,
		"url":           cfg.URL,
	}

	missing := 0
	for name, eng := range engines {
		path, err := exec.LookPath(eng.Command)
		if err != nil {
			missing++
			log.Error().Str("engine", name).Str("command", eng.Command).Msg("Engine executable not resolvable")
			continue
		}

		log.Info().Str("engine", name).Str("command", path).Str("timeout", eng.Timeout.Std().String()).Msg("Engine available")
	}

	if missing > 0 {
		log.Warn().Int("missing", missing).Msg("Some engines are unavailable, their façades will return negative defaults")
	}
}
