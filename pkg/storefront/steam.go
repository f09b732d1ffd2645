// Package storefront resolves Steam application ids to titles by scraping
// the public store page.
package storefront

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/shotsort/shotsort/pkg/httputils"
	"github.com/shotsort/shotsort/pkg/logger"
	"github.com/shotsort/shotsort/pkg/runtime"
)

// DefaultURLTemplate is the store page of an application.
const DefaultURLTemplate = "https://store.steampowered.com/app/%d"

type SteamConfig struct {
	URLTemplate string
	Timeout     time.Duration
	RateLimit   int
	Retries     int
}

// LookupError reports a failed store request for an application id. It is
// distinct from a page that simply has no title.
type LookupError struct {
	AppID int
	Err   error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("lookup app %d: %v", e.AppID, e.Err)
}

func (e *LookupError) Unwrap() error {
	return e.Err
}

type Steam struct {
	cfg     SteamConfig
	http    *http.Client
	headers map[string]string
	log     *logrus.Entry
}

func NewSteam(c SteamConfig) *Steam {
	if c.URLTemplate == "" {
		c.URLTemplate = DefaultURLTemplate
	}

	l := logger.GetLogger("steam")
	return &Steam{
		cfg:  c,
		http: httputils.NewRetryableHttpClient(c.Timeout, c.Retries, httputils.NewLimiter(c.RateLimit), l),
		headers: map[string]string{
			"Accept":          "text/html",
			"Accept-Language": "en-US,en;q=0.9",
			"User-Agent":      "shotsort/" + runtime.Version,
		},
		log: l,
	}
}

func (s *Steam) Name() string {
	return "Steam"
}

// URL returns the store page of appID.
func (s *Steam) URL(appID int) string {
	return fmt.Sprintf(s.cfg.URLTemplate, appID)
}

// Resolve fetches the store page of appID and returns its sanitized title.
// found is false when the page is empty or carries no usable title; err is
// set only when the request itself failed.
func (s *Steam) Resolve(ctx context.Context, appID int) (title string, found bool, err error) {
	requestURL := s.URL(appID)
	s.log.Tracef("Fetching %s", requestURL)

	body, err := httputils.MakeRequest(ctx, s.http, http.MethodGet, requestURL, s.headers)
	if err != nil {
		return "", false, &LookupError{AppID: appID, Err: err}
	}

	if len(body) == 0 {
		s.log.Debugf("Empty store page: appId=%d", appID)
		return "", false, nil
	}

	raw, ok := ExtractTitle(string(body))
	if !ok {
		s.log.Debugf("No <title> tag: appId=%d", appID)
		return "", false, nil
	}

	title = SanitizeTitle(raw)
	if title == "" {
		s.log.Debugf("Title is empty after sanitizing %q: appId=%d", raw, appID)
		return "", false, nil
	}

	return title, true, nil
}
