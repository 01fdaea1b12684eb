package urlintel

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scambane/scanbridge/pkg/analyzer"
	"github.com/scambane/scanbridge/pkg/config"
	"github.com/scambane/scanbridge/pkg/decode"
	"github.com/scambane/scanbridge/pkg/engine"
)

func init() {
	zerolog.SetGlobalLevel(zerolog.Disabled)
}

const phishingPage = `<html><body>
<p>Please verify your account, unusual activity was detected by our security team.</p>
<form action="/steal" method="post">
  <input type="email" name="email">
  <input type="password" name="password">
</form>
</body></html>`

const benignPage = `<html><body><h1>Hello</h1><p>Nothing to see.</p></body></html>`

func urlhausStub(t *testing.T, response string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, response)
	}))
	t.Cleanup(server.Close)
	return server
}

func pageStub(t *testing.T, html string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, html)
	}))
	t.Cleanup(server.Close)
	return server
}

func analyze(t *testing.T, backend *Backend, target string) analyzer.URLResult {
	t.Helper()

	outcome, err := backend.Analyze(context.Background(), engine.Invocation{Args: []string{target}})
	require.NoError(t, err)
	require.Equal(t, 0, outcome.ExitCode)

	var result analyzer.URLResult
	require.NoError(t, decode.JSON(outcome.Stdout, &result, "isMalicious", "confidence"))
	return result
}

func TestAnalyzeListedURL(t *testing.T) {
	haus := urlhausStub(t, `{"query_status": "ok", "url_status": "online", "threat": "malware_download"}`)
	page := pageStub(t, benignPage)

	result := analyze(t, NewWithBaseURL(haus.URL), page.URL)

	assert.True(t, result.IsMalicious)
	assert.Equal(t, 0.9, result.Confidence)
	assert.Equal(t, "malware_download", result.ThreatType)
	assert.Contains(t, result.DetectionMethods, "urlhaus")
}

func TestAnalyzePhishingContent(t *testing.T) {
	haus := urlhausStub(t, `{"query_status": "no_results"}`)
	page := pageStub(t, phishingPage)

	result := analyze(t, NewWithBaseURL(haus.URL), page.URL)

	assert.True(t, result.IsMalicious)
	assert.Equal(t, 0.75, result.Confidence)
	assert.Equal(t, "phishing", result.ThreatType)
	assert.Contains(t, result.DetectionMethods, "contentAnalysis")
}

func TestAnalyzeBenignURL(t *testing.T) {
	haus := urlhausStub(t, `{"query_status": "no_results"}`)
	page := pageStub(t, benignPage)

	result := analyze(t, NewWithBaseURL(haus.URL), page.URL)

	assert.False(t, result.IsMalicious)
	assert.Equal(t, 0.0, result.Confidence)
	assert.Empty(t, result.Error)
}

func TestAnalyzeThroughBridge(t *testing.T) {
	haus := urlhausStub(t, `{"query_status": "ok", "url_status": "online", "threat": "phishing"}`)
	page := pageStub(t, benignPage)

	bridge := analyzer.NewWithBackend(config.Default(), NewWithBaseURL(haus.URL))
	result := bridge.AnalyzeURL(context.Background(), page.URL)

	assert.True(t, result.IsMalicious)
	assert.Equal(t, "phishing", result.ThreatType)
	assert.Empty(t, result.Error)
}

func TestAnalyzeAllChecksFailing(t *testing.T) {
	// both endpoints unreachable, the backend must report instead of
	// fabricating a verdict
	backend := NewWithBaseURL("http://127.0.0.1:1")

	_, err := backend.Analyze(context.Background(), engine.Invocation{Args: []string{"http://127.0.0.1:1/page"}})
	assert.Error(t, err)

	bridge := analyzer.NewWithBackend(config.Default(), backend)
	result := bridge.AnalyzeURL(context.Background(), "http://127.0.0.1:1/page")
	assert.False(t, result.IsMalicious)
	assert.NotEmpty(t, result.Error)
}

func TestAnalyzeKeepsDeadlineRecognizable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	<-ctx.Done()

	backend := NewWithBaseURL("http://127.0.0.1:1")
	_, err := backend.Analyze(ctx, engine.Invocation{Args: []string{"http://127.0.0.1:1/page"}})

	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded), "the deadline cause must survive the combined error")
}

func TestAnalyzeMissingTarget(t *testing.T) {
	_, err := New().Analyze(context.Background(), engine.Invocation{})
	assert.Error(t, err)
}

func TestInspectHTML(t *testing.T) {
	tests := []struct {
		name          string
		html          string
		wantIndicator bool
	}{
		{
			name:          "phishing page",
			html:          phishingPage,
			wantIndicator: true,
		},
		{
			name:          "benign page",
			html:          benignPage,
			wantIndicator: false,
		},
		{
			name:          "login form without keyword stuffing",
			html:          `<html><body><form><input type="text" name="user"><input type="password" name="p"></form></body></html>`,
			wantIndicator: false,
		},
		{
			name: "login form with credential script",
			html: `<html><body>
<form><input type="text" name="user"><input type="password" name="p"></form>
<script>document.cookie = "x"; sendHome(password);</script>
</body></html>`,
			wantIndicator: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			findings, err := inspectHTML(tc.html)
			require.NoError(t, err)
			assert.Equal(t, tc.wantIndicator, findings.phishingIndicators)
		})
	}
}
