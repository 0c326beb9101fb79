package service_test

import (
	"net/url"
	"strings"
	"testing"

	"github.com/unclebandit/coursemail-backend/internal/service"
)

const trackBase = "https://mail.example.com"

func TestInjectTrackingAddsPixelBeforeBodyClose(t *testing.T) {
	html := `<html><body><p>Hello</p></body></html>`
	out := service.InjectTracking(html, "abc-123", trackBase)

	pixel := `<img src="` + trackBase + `/track/open/abc-123" width="1" height="1" style="display:none" />`
	if !strings.Contains(out, pixel+"</body>") {
		t.Errorf("pixel not injected before </body>:\n%s", out)
	}
}

func TestInjectTrackingAppendsPixelWithoutBody(t *testing.T) {
	out := service.InjectTracking("<p>no body tag</p>", "abc-123", trackBase)
	if !strings.HasSuffix(out, `/track/open/abc-123" width="1" height="1" style="display:none" />`) {
		t.Errorf("pixel not appended:\n%s", out)
	}
}

func TestInjectTrackingRewritesLinks(t *testing.T) {
	html := `<body><a href="https://example.com/course?id=7">go</a></body>`
	out := service.InjectTracking(html, "abc-123", trackBase)

	want := trackBase + "/track/click/abc-123?url=" + url.QueryEscape("https://example.com/course?id=7")
	if !strings.Contains(out, `href="`+want+`"`) {
		t.Errorf("link not rewritten through tracker:\n%s", out)
	}
	if strings.Contains(out, `href="https://example.com/course?id=7"`) {
		t.Errorf("original link left untracked:\n%s", out)
	}
}

func TestInjectTrackingSkipsTrackerLinks(t *testing.T) {
	link := trackBase + "/track/click/other?url=x"
	html := `<body><a href="` + link + `">go</a></body>`
	out := service.InjectTracking(html, "abc-123", trackBase)

	if !strings.Contains(out, `href="`+link+`"`) {
		t.Errorf("tracker link was rewritten again:\n%s", out)
	}
}

func TestInjectTrackingIsDeterministic(t *testing.T) {
	html := `<body><a href="https://example.com">a</a><a href="https://example.org">b</a></body>`
	first := service.InjectTracking(html, "abc-123", trackBase)
	second := service.InjectTracking(html, "abc-123", trackBase)
	if first != second {
		t.Error("same inputs produced different output")
	}
}

func TestGenerateEmailIDUnique(t *testing.T) {
	if service.GenerateEmailID() == service.GenerateEmailID() {
		t.Error("expected distinct ids")
	}
}
