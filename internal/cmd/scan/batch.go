package scan

import (
	"bufio"
	"context"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/wandb/parallel"

	"github.com/scambane/scanbridge/internal/helper"
	"github.com/scambane/scanbridge/pkg/analyzer"
	"github.com/scambane/scanbridge/pkg/analyzer/urlintel"
)

var batchThreads int

func NewBatchCmd() *cobra.Command {
	batchCmd := &cobra.Command{
		Use:   "batch [file]",
		Short: "Analyze a list of URLs, one per line",
		Args:  cobra.ExactArgs(1),
		Run:   scanBatch,
	}

	batchCmd.Flags().IntVarP(&batchThreads, "threads", "t", 4, "Number of concurrent analyses")
	batchCmd.Flags().BoolVar(&useLocalBackend, "local", false, "Use the in-process analyzer instead of the external engine")

	return batchCmd
}

func scanBatch(cmd *cobra.Command, args []string) {
	cfg := loadConfig()

	file, err := os.Open(args[0])
	if err != nil {
		log.Fatal().Err(err).Str("path", args[0]).Msg("Failed opening URL list")
	}
	defer func() { _ = file.Close() }()

	var targets []string
	sc := bufio.NewScanner(file)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		targets = append(targets, line)
	}
	if err := sc.Err(); err != nil {
		log.Fatal().Err(err).Msg("Failed reading URL list")
	}

	bridge := analyzer.New(cfg)
	if useLocalBackend {
		bridge = analyzer.NewWithBackend(cfg, urlintel.New())
	}

	var processed atomic.Int64
	var malicious atomic.Int64

	helper.RegisterGracefulShutdownHandler(func() {
		log.Info().Int64("processed", processed.Load()).Int("total", len(targets)).Msg("Batch scan interrupted")
	})

	go helper.ShortcutListeners(func() *zerolog.Event {
		return log.Info().Int64("processed", processed.Load()).Int("total", len(targets)).Int64("malicious", malicious.Load())
	})

	ctx := cmd.Context()
	group := parallel.Limited(ctx, batchThreads)

	var mu sync.Mutex
	results := make(map[string]analyzer.URLResult, len(targets))

	for _, target := range targets {
		group.Go(func(ctx context.Context) {
			result := bridge.AnalyzeURL(ctx, target)
			processed.Add(1)
			if result.IsMalicious {
				malicious.Add(1)
				log.Warn().Str("url", target).Float64("confidence", result.Confidence).Str("threatType", result.ThreatType).Msg("Malicious URL detected")
			}

			mu.Lock()
			results[target] = result
			mu.Unlock()
		})
	}

	group.Wait()

	log.Info().Int("total", len(targets)).Int64("malicious", malicious.Load()).Msg("Batch scan finished")
	printResult(results)
}
