package analyzer

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"
)

// AnalyzeURL checks a URL against the reputation engine. No temp file is
// involved, the normalized URL is passed as an argument.
func (b *Bridge) AnalyzeURL(ctx context.Context, rawURL string) URLResult {
	normalized, err := NormalizeURL(rawURL)
	if err != nil {
		return urlFailure(err.Error())
	}

	log.Debug().Str("url", normalized).Msg("Analyzing URL reputation")

	var result URLResult
	if err := b.invoke(ctx, b.cfg.URL, []string{normalized}, nil, &result, "isMalicious", "confidence"); err != nil {
		log.Debug().Err(err).Msg("URL analysis degraded to negative default")
		return urlFailure(err.Error())
	}

	return result
}

// NormalizeURL brings a user supplied URL into canonical form: scheme
// added when missing, default ports and fragments stripped, a bare
// trailing slash removed.
func NormalizeURL(rawURL string) (string, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return "", fmt.Errorf("empty URL")
	}

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		rawURL = "http://" + rawURL
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid URL %q: %w", rawURL, err)
	}

	if parsed.Hostname() == "" {
		return "", fmt.Errorf("URL %q has no host", rawURL)
	}

	host := parsed.Host
	if (parsed.Scheme == "http" && parsed.Port() == "80") || (parsed.Scheme == "https" && parsed.Port() == "443") {
		host = parsed.Hostname()
	}

	parsed.Host = host
	parsed.Fragment = ""
	if parsed.Path == "/" {
		parsed.Path = ""
	}

	return parsed.String(), nil
}

func urlFailure(msg string) URLResult {
	return URLResult{IsMalicious: false, Confidence: 0.0, Error: msg}
}
