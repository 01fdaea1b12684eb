package analyzer

import (
	"context"

	units "github.com/docker/go-units"
	"github.com/h2non/filetype"
	"github.com/rs/zerolog/log"

	"github.com/scambane/scanbridge/pkg/tempfile"
)

// AnalyzeFile scans file bytes for malware. The declared name survives
// sanitized in the temp file name so the engine keeps extension based
// cues, without any chance of path traversal.
func (b *Bridge) AnalyzeFile(ctx context.Context, file []byte, declaredName string) MalwareResult {
	if len(file) == 0 {
		return malwareFailure("empty file payload")
	}

	path, cleanup, err := tempfile.Spill(file, declaredName)
	if err != nil {
		return malwareFailure(err.Error())
	}
	defer cleanup()

	kind, _ := filetype.Match(file)
	log.Debug().
		Str("tempFile", path).
		Str("declaredName", declaredName).
		Str("detectedType", kind.MIME.Value).
		Str("size", units.HumanSize(float64(len(file)))).
		Msg("Analyzing file for malware")

	var result MalwareResult
	if err := b.invoke(ctx, b.cfg.Malware, []string{path}, nil, &result, "isMalicious", "confidence"); err != nil {
		log.Debug().Err(err).Msg("Malware analysis degraded to negative default")
		return malwareFailure(err.Error())
	}

	return result
}

func malwareFailure(msg string) MalwareResult {
	return MalwareResult{IsMalicious: false, Confidence: 0.0, Error: msg}
}
