package analyzer

import (
	"context"

	units "github.com/docker/go-units"
	"github.com/h2non/filetype"
	"github.com/rs/zerolog/log"

	"github.com/scambane/scanbridge/pkg/tempfile"
)

// AnalyzeImage checks image bytes for hidden content. The payload is
// spilled to a temp file handed to the steganography engine and removed
// again before the call returns, on every branch.
func (b *Bridge) AnalyzeImage(ctx context.Context, image []byte) StegoResult {
	if len(image) == 0 {
		return stegoFailure("empty image payload")
	}

	if !filetype.IsImage(image) {
		return stegoFailure("payload is not a recognized image format")
	}

	path, cleanup, err := tempfile.Spill(image, "")
	if err != nil {
		return stegoFailure(err.Error())
	}
	defer cleanup()

	log.Debug().Str("tempFile", path).Str("size", units.HumanSize(float64(len(image)))).Msg("Analyzing image for steganography")

	var result StegoResult
	if err := b.invoke(ctx, b.cfg.Steganography, []string{path}, nil, &result, "hasSteganography", "confidence"); err != nil {
		log.Debug().Err(err).Msg("Steganography analysis degraded to negative default")
		return stegoFailure(err.Error())
	}

	return result
}

func stegoFailure(msg string) StegoResult {
	return StegoResult{HasSteganography: false, Confidence: 0.0, Error: msg}
}
