package http

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/buger/jsonparser"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	DefaultBaseURL = "https://tokenmap.tokenly.com"
	apiPrefix      = "/api/v1/"
)

var (
	// ErrNotFound matches any 404 from the service
	ErrNotFound = errors.New("not found")
	// ErrUnexpectedResponse is returned when a 2xx body is not a JSON object or array
	ErrUnexpectedResponse = errors.New("unexpected response")
)

type Client struct {
	BaseURL   *url.URL
	StdClient *http.Client
	UserAgent string
}

func New(rawBaseURL string, timeout time.Duration, rawProxyURL string) (*Client, error) {
	if rawBaseURL == "" {
		rawBaseURL = DefaultBaseURL
	}
	baseURL, err := url.Parse(strings.TrimRight(rawBaseURL, "/"))
	if err != nil {
		return nil, errors.Wrapf(err, "parse base url %s", rawBaseURL)
	}

	// Thread safe
	stdClient := &http.Client{Timeout: timeout}
	if timeout != 0 {
		logrus.Debugf("HTTP request timeout is set to %s", timeout)
	}
	if rawProxyURL != "" {
		proxyURL, err := url.Parse(rawProxyURL)
		if err != nil {
			logrus.Warnf("Failed to parse proxy URL: %s, error: %v, using system proxy", rawProxyURL, err)
		} else {
			logrus.Debugf("Using proxy %s", rawProxyURL)
			stdClient.Transport = &http.Transport{Proxy: http.ProxyURL(proxyURL)}
		}
	}
	return &Client{
		BaseURL:   baseURL,
		StdClient: stdClient,
		UserAgent: "Mozilla/5.0 (compatible; tokenmap; +https://github.com/polyrabbit/tokenmap)",
	}, nil
}

func (c *Client) buildURL(path string, params map[string]string) string {
	u := *c.BaseURL
	u.Path = strings.TrimRight(u.Path, "/") + apiPrefix + strings.TrimLeft(path, "/")
	if len(params) != 0 {
		query := url.Values{}
		for k, v := range params {
			query.Set(k, v)
		}
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// Get fetches /api/v1/{path} and returns the raw JSON body.
// A 204 yields a nil body and no error.
func (c *Client) Get(ctx context.Context, path string, params map[string]string) ([]byte, error) {
	rawURL := c.buildURL(path, params)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "build request for %s", rawURL)
	}
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.StdClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "read response of %s", rawURL)
	}

	if !(resp.StatusCode >= 200 && resp.StatusCode < 300) {
		return nil, newResponseError(resp, respBytes)
	}
	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}

	trimmed := bytes.TrimSpace(respBytes)
	if len(trimmed) == 0 || (trimmed[0] != '{' && trimmed[0] != '[') {
		return nil, errors.Wrapf(ErrUnexpectedResponse, "GET %s", rawURL)
	}
	return trimmed, nil
}

type ResponseError struct {
	StatusCode int
	Status     string
	Message    string
	Body       []byte
}

func newResponseError(resp *http.Response, body []byte) *ResponseError {
	rerr := &ResponseError{StatusCode: resp.StatusCode, Status: resp.Status, Body: body}
	// Most non-2xx responses have a json body with a message
	if message, err := jsonparser.GetString(body, "message"); err == nil && message != "" {
		rerr.Message = message
	}
	return rerr
}

func (e *ResponseError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("unexpected response from server: HTTP %s", e.Status)
}

func (e *ResponseError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// IsNotFound reports whether err carries the service's 404 signal
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
