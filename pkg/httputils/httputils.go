package httputils

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"
)

// StatusError is returned by MakeRequest for responses outside the 2xx range.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s", e.StatusCode, e.URL)
}

// NewRetryableHttpClient builds a standard client backed by go-retryablehttp.
// Every attempt, retries included, waits on rl when it is not nil.
func NewRetryableHttpClient(timeout time.Duration, retries int, rl ratelimit.Limiter, log *logrus.Entry) *http.Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = retries
	retryClient.RetryWaitMin = 1 * time.Second
	retryClient.RetryWaitMax = 10 * time.Second
	retryClient.RequestLogHook = func(_ retryablehttp.Logger, request *http.Request, i int) {
		if rl != nil {
			rl.Take()
		}

		if i > 0 && log != nil {
			log.Debugf("Retrying HTTP request %d: %s", i, request.URL.String())
		}
	}
	retryClient.HTTPClient.Timeout = timeout
	retryClient.Logger = nil

	return retryClient.StandardClient()
}

// NewLimiter returns a limiter allowing perSecond requests per second, or
// nil (unlimited) when perSecond is zero.
func NewLimiter(perSecond int) ratelimit.Limiter {
	if perSecond <= 0 {
		return nil
	}

	return ratelimit.New(perSecond, ratelimit.WithoutSlack)
}

// MakeRequest performs the request and returns the full response body.
func MakeRequest(ctx context.Context, c *http.Client, method string, requestURL string,
	headers map[string]string) ([]byte, error) {

	req, err := http.NewRequestWithContext(ctx, method, requestURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "creating request")
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "making request")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &StatusError{URL: requestURL, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "reading response body")
	}

	return body, nil
}
