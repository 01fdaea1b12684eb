// Package urlintel is an in-process URL analysis backend. It combines a
// URLhaus reputation lookup with phishing heuristics on the live page
// content and emits the same result schema as the external URL engine, so
// the façade cannot tell the two apart.
package urlintel

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"resty.dev/v3"

	"github.com/scambane/scanbridge/pkg/analyzer"
	"github.com/scambane/scanbridge/pkg/engine"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// Backend implements engine.Backend without leaving the process.
type Backend struct {
	client      *resty.Client
	urlhausBase string
}

// New returns a Backend talking to the public URLhaus API.
func New() *Backend {
	return NewWithBaseURL("https://urlhaus-api.abuse.ch/v1")
}

// NewWithBaseURL allows pointing the reputation lookup at a different
// URLhaus compatible endpoint.
func NewWithBaseURL(urlhausBase string) *Backend {
	client := resty.New().
		SetTimeout(10 * time.Second).
		SetHeader("User-Agent", userAgent).
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(5))

	return &Backend{client: client, urlhausBase: urlhausBase}
}

// Analyze treats the last invocation argument as the target URL, runs both
// checks best effort and renders the combined result as the engine contract
// demands: one JSON object on stdout, exit code zero.
func (b *Backend) Analyze(ctx context.Context, inv engine.Invocation) (engine.Outcome, error) {
	if len(inv.Args) == 0 {
		return engine.Outcome{}, fmt.Errorf("urlintel: no target URL in invocation")
	}
	target := inv.Args[len(inv.Args)-1]

	result := analyzer.URLResult{IsMalicious: false, Confidence: 0.0}

	reputation, repErr := b.checkURLhaus(ctx, target)
	if repErr != nil {
		log.Debug().Err(repErr).Str("url", target).Msg("URLhaus lookup unavailable")
	} else if reputation.listed {
		result.IsMalicious = true
		result.Confidence = maxFloat(result.Confidence, 0.9)
		result.ThreatType = reputation.threat
		result.DetectionMethods = append(result.DetectionMethods, "urlhaus")
	}

	content, contentErr := b.analyzeContent(ctx, target)
	if contentErr != nil {
		log.Debug().Err(contentErr).Str("url", target).Msg("Page content analysis unavailable")
	} else if content.phishingIndicators {
		result.IsMalicious = true
		result.Confidence = maxFloat(result.Confidence, 0.75)
		if result.ThreatType == "" {
			result.ThreatType = "phishing"
		}
		result.DetectionMethods = append(result.DetectionMethods, "contentAnalysis")
	}

	if repErr != nil && contentErr != nil {
		// both causes stay unwrappable so a deadline failure is still
		// recognizable upstream
		return engine.Outcome{}, fmt.Errorf("urlintel: all checks failed: %w / %w", repErr, contentErr)
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return engine.Outcome{}, err
	}

	return engine.Outcome{ExitCode: 0, Stdout: string(payload)}, nil
}

type urlhausReputation struct {
	listed bool
	threat string
}

type urlhausResponse struct {
	QueryStatus string `json:"query_status"`
	URLStatus   string `json:"url_status"`
	Threat      string `json:"threat"`
}

func (b *Backend) checkURLhaus(ctx context.Context, target string) (urlhausReputation, error) {
	resp := &urlhausResponse{}
	res, err := b.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{"url": target}).
		SetResult(resp).
		Post(b.urlhausBase + "/url/")

	if err != nil {
		return urlhausReputation{}, err
	}

	if res.StatusCode() >= 400 {
		return urlhausReputation{}, fmt.Errorf("urlhaus returned status %d", res.StatusCode())
	}

	if resp.QueryStatus != "ok" {
		// no_results means the URL is simply unknown to URLhaus
		return urlhausReputation{}, nil
	}

	return urlhausReputation{listed: resp.URLStatus == "online", threat: resp.Threat}, nil
}

func maxFloat(a float64, b float64) float64 {
	if a > b {
		return a
	}

	return b
}
