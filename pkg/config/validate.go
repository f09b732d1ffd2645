package config

import (
	"strings"

	"github.com/pkg/errors"
)

// Validate normalises the configuration and rejects values the pipeline
// cannot work with.
func (c *Configuration) Validate() error {
	c.Scan.Extension = strings.TrimSpace(c.Scan.Extension)
	if c.Scan.Extension == "" {
		return errors.New("scan.extension must be set")
	}
	if !strings.HasPrefix(c.Scan.Extension, ".") {
		c.Scan.Extension = "." + c.Scan.Extension
	}

	if strings.TrimSpace(c.Cache.File) == "" {
		return errors.New("cache.file must be set")
	}
	if strings.ContainsAny(c.Cache.File, `/\`) {
		return errors.Errorf("cache.file must be a plain file name: %q", c.Cache.File)
	}

	if strings.Count(c.Store.URLTemplate, "%d") != 1 {
		return errors.Errorf("store.url_template must contain exactly one %%d: %q", c.Store.URLTemplate)
	}
	if c.Store.Timeout < 0 {
		return errors.New("store.timeout must not be negative")
	}
	if c.Store.RateLimit < 0 {
		return errors.New("store.rate_limit must not be negative")
	}
	if c.Store.Retries < 0 {
		return errors.New("store.retries must not be negative")
	}

	c.Store.OnError = strings.ToLower(strings.TrimSpace(c.Store.OnError))
	switch c.Store.OnError {
	case OnErrorSkip, OnErrorAbort:
	default:
		return errors.Errorf("store.on_error must be %q or %q: %q", OnErrorSkip, OnErrorAbort, c.Store.OnError)
	}

	return nil
}
