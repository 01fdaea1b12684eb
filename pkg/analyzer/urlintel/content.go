package urlintel

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// the same indicator lists the external URL engine uses, three or more
// keyword hits count as a signal
var phishingKeywords = []string{
	"verify", "account", "suspended", "unusual activity", "security",
	"update", "confirm", "login", "sign in", "validate", "unauthorized",
	"expire",
}

var suspiciousScriptPatterns = []string{
	"password", "login", "document.cookie", "localstorage",
	"sessionstorage", "keylogger", "addeventlistener(\"keydown\"",
	"addeventlistener(\"keypress\"",
}

type contentFindings struct {
	isHTML             bool
	hasLoginForm       bool
	hasPasswordField   bool
	keywordHits        int
	suspiciousScripts  bool
	phishingIndicators bool
}

func (b *Backend) analyzeContent(ctx context.Context, target string) (contentFindings, error) {
	res, err := b.client.R().
		SetContext(ctx).
		Get(target)

	if err != nil {
		return contentFindings{}, err
	}

	if res.StatusCode() >= 400 {
		return contentFindings{}, fmt.Errorf("page fetch returned status %d", res.StatusCode())
	}

	contentType := strings.ToLower(res.Header().Get("Content-Type"))
	if !strings.Contains(contentType, "text/html") {
		return contentFindings{isHTML: false}, nil
	}

	return inspectHTML(res.String())
}

// inspectHTML applies the phishing page heuristics: a login form with a
// password field combined with either keyword stuffing or scripts touching
// credentials marks the page.
func inspectHTML(body string) (contentFindings, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return contentFindings{}, err
	}

	findings := contentFindings{isHTML: true}

	doc.Find("form").EachWithBreak(func(_ int, form *goquery.Selection) bool {
		hasPassword := form.Find("input[type='password']").Length() > 0
		if hasPassword {
			findings.hasPasswordField = true
		}

		hasUsername := false
		form.Find("input").Each(func(_ int, input *goquery.Selection) {
			inputType, _ := input.Attr("type")
			name, _ := input.Attr("name")
			name = strings.ToLower(name)
			if inputType == "text" || inputType == "email" ||
				strings.Contains(name, "user") || strings.Contains(name, "email") || strings.Contains(name, "login") {
				hasUsername = true
			}
		})

		if hasPassword && hasUsername {
			findings.hasLoginForm = true
			return false
		}

		return true
	})

	text := strings.ToLower(doc.Text())
	for _, keyword := range phishingKeywords {
		if strings.Contains(text, keyword) {
			findings.keywordHits++
		}
	}

	doc.Find("script").Each(func(_ int, script *goquery.Selection) {
		content := strings.ToLower(script.Text())
		if content == "" {
			return
		}
		for _, pattern := range suspiciousScriptPatterns {
			if strings.Contains(content, pattern) {
				findings.suspiciousScripts = true
				return
			}
		}
	})

	findings.phishingIndicators = findings.hasLoginForm &&
		findings.hasPasswordField &&
		(findings.keywordHits > 2 || findings.suspiciousScripts)

	return findings, nil
}
