package github

import (
	"bytes"
	"context"
	"encoding/base64"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/kacemyassine/atlantis-league/internal/platform/logging"
	"github.com/kacemyassine/atlantis-league/internal/platform/resilience"
	"github.com/kacemyassine/atlantis-league/internal/usecase"
	"github.com/valyala/bytebufferpool"
)

const (
	defaultAPIBaseURL = "https://api.github.com"
	defaultRawBaseURL = "https://raw.githubusercontent.com"
	maxResponseBytes  = 6 << 20
)

var errGitHubTransient = crerr.New("github transient failure")

// UpstreamError carries the GitHub status and body verbatim so callers that
// relay responses can pass them through instead of flattening them into a
// generic failure.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("github api status=%d body=%s", e.StatusCode, abbreviateBody([]byte(e.Body)))
}

type ClientConfig struct {
	HTTPClient     *http.Client
	APIBaseURL     string
	RawBaseURL     string
	Token          string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client talks to the GitHub contents API and the raw content host. It
// implements usecase.RemoteStore.
type Client struct {
	httpClient     *http.Client
	apiBaseURL     string
	rawBaseURL     string
	token          string
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
	now            func() time.Time
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 20 * time.Second
	}

	apiBaseURL := strings.TrimRight(strings.TrimSpace(cfg.APIBaseURL), "/")
	if apiBaseURL == "" {
		apiBaseURL = defaultAPIBaseURL
	}
	rawBaseURL := strings.TrimRight(strings.TrimSpace(cfg.RawBaseURL), "/")
	if rawBaseURL == "" {
		rawBaseURL = defaultRawBaseURL
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		apiBaseURL:     apiBaseURL,
		rawBaseURL:     rawBaseURL,
		token:          strings.TrimSpace(cfg.Token),
		maxRetries:     maxInt(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
		now:            time.Now,
	}
}

// Authenticated reports whether a contents-API token is configured. Raw
// fetches work without one; writes do not.
func (c *Client) Authenticated() bool {
	return c.token != ""
}

// FetchRaw downloads the file from the raw content host. A unique cache-bust
// parameter is appended on every call because the raw host sits behind a CDN
// that otherwise serves minutes-old content. Concurrent fetches of the same
// file are coalesced.
func (c *Client) FetchRaw(ctx context.Context, ref usecase.RemoteFileRef) ([]byte, error) {
	if err := c.allow(ctx); err != nil {
		return nil, err
	}
	if err := validateRef(ref); err != nil {
		return nil, err
	}

	branch := ref.Branch
	if branch == "" {
		branch = "main"
	}

	key := "raw:" + ref.Owner + "/" + ref.Repo + "/" + branch + "/" + ref.Path
	out, err, _ := c.flight.Do(key, func() (any, error) {
		fullURL := fmt.Sprintf("%s/%s/%s/%s/%s?t=%d",
			c.rawBaseURL,
			url.PathEscape(ref.Owner),
			url.PathEscape(ref.Repo),
			url.PathEscape(branch),
			escapeContentPath(ref.Path),
			c.now().UnixNano(),
		)
		headers := map[string]string{
			"Cache-Control": "no-cache",
			"Pragma":        "no-cache",
		}
		raw, reqErr := c.executeRequest(ctx, http.MethodGet, fullURL, nil, headers)
		c.recordCircuitResult(reqErr)
		return raw, reqErr
	})
	if err != nil {
		return nil, err
	}

	raw, ok := out.([]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected response payload type %T", out)
	}

	return raw, nil
}

// GetContentSHA looks up the current blob revision of the file. A missing
// file is not an error: it returns ("", false, nil) so the caller can create
// the file on the next write.
func (c *Client) GetContentSHA(ctx context.Context, ref usecase.RemoteFileRef) (string, bool, error) {
	if err := c.allow(ctx); err != nil {
		return "", false, err
	}
	if err := validateRef(ref); err != nil {
		return "", false, err
	}

	raw, err := c.executeRequest(ctx, http.MethodGet, c.contentsURL(ref, true), nil, c.apiHeaders())
	c.recordCircuitResult(err)
	if err != nil {
		var upstream *UpstreamError
		if stderrors.As(err, &upstream) && upstream.StatusCode == http.StatusNotFound {
			return "", false, nil
		}
		return "", false, err
	}

	var payload struct {
		SHA string `json:"sha"`
	}
	if err := sonic.Unmarshal(raw, &payload); err != nil {
		return "", false, fmt.Errorf("decode contents metadata: %w", err)
	}
	if payload.SHA == "" {
		return "", false, fmt.Errorf("contents metadata has no sha")
	}

	return payload.SHA, true, nil
}

// PutContent writes the full file through the contents API. The sha must be
// the revision the caller last read, or empty to create the file; GitHub
// rejects a stale sha, which is surfaced as usecase.ErrRemoteConflict.
func (c *Client) PutContent(ctx context.Context, ref usecase.RemoteFileRef, content []byte, sha, message string) (string, error) {
	if err := c.allow(ctx); err != nil {
		return "", err
	}
	if err := validateRef(ref); err != nil {
		return "", err
	}
	if !c.Authenticated() {
		return "", fmt.Errorf("%w: github token is not configured", usecase.ErrDependencyUnavailable)
	}

	payload := map[string]any{
		"message": message,
		"content": base64.StdEncoding.EncodeToString(content),
	}
	if ref.Branch != "" {
		payload["branch"] = ref.Branch
	}
	if sha != "" {
		payload["sha"] = sha
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	if err := sonic.ConfigDefault.NewEncoder(buf).Encode(payload); err != nil {
		return "", fmt.Errorf("encode contents payload: %w", err)
	}

	raw, err := c.executeRequest(ctx, http.MethodPut, c.contentsURL(ref, false), buf.Bytes(), c.apiHeaders())
	c.recordCircuitResult(err)
	if err != nil {
		var upstream *UpstreamError
		if stderrors.As(err, &upstream) && isConflictStatus(upstream.StatusCode) {
			return "", fmt.Errorf("%w: %w", usecase.ErrRemoteConflict, err)
		}
		return "", err
	}

	var updated struct {
		Content struct {
			SHA string `json:"sha"`
		} `json:"content"`
	}
	if err := sonic.Unmarshal(raw, &updated); err != nil {
		return "", fmt.Errorf("decode contents response: %w", err)
	}

	c.logger.InfoContext(ctx, "github contents updated",
		"owner", ref.Owner,
		"repo", ref.Repo,
		"path", ref.Path,
		"sha", updated.Content.SHA,
	)

	return updated.Content.SHA, nil
}

func (c *Client) allow(ctx context.Context) error {
	if !c.circuitEnabled {
		return nil
	}
	if err := c.breaker.Allow(); err != nil {
		c.logger.WarnContext(ctx, "github circuit breaker rejected request", "state", c.breaker.State())
		return fmt.Errorf("%w: github is temporarily unavailable", usecase.ErrDependencyUnavailable)
	}
	return nil
}

func (c *Client) recordCircuitResult(err error) {
	if !c.circuitEnabled {
		return
	}
	if err != nil && stderrors.Is(err, errGitHubTransient) {
		c.breaker.RecordFailure()
		return
	}
	c.breaker.RecordSuccess()
}

func (c *Client) contentsURL(ref usecase.RemoteFileRef, withRefQuery bool) string {
	fullURL := fmt.Sprintf("%s/repos/%s/%s/contents/%s",
		c.apiBaseURL,
		url.PathEscape(ref.Owner),
		url.PathEscape(ref.Repo),
		escapeContentPath(ref.Path),
	)
	if withRefQuery && ref.Branch != "" {
		fullURL += "?ref=" + url.QueryEscape(ref.Branch)
	}
	return fullURL
}

func (c *Client) apiHeaders() map[string]string {
	headers := map[string]string{
		"Accept":               "application/vnd.github+json",
		"X-GitHub-Api-Version": "2022-11-28",
	}
	if c.token != "" {
		headers["Authorization"] = "Bearer " + c.token
	}
	return headers
}

func (c *Client) executeRequest(ctx context.Context, method, fullURL string, body []byte, headers map[string]string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		for key, value := range headers {
			req.Header.Set(key, value)
		}
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %s", errGitHubTransient, sanitizeSensitiveText(err.Error(), c.token))
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = fmt.Errorf("%w: read response body: %v", errGitHubTransient, readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case isRetryableStatus(resp.StatusCode):
				lastErr = fmt.Errorf("%w: github status=%d body=%s", errGitHubTransient, resp.StatusCode, abbreviateBody(raw))
			default:
				return nil, &UpstreamError{StatusCode: resp.StatusCode, Body: string(raw)}
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("github request failed")
	}
	c.logger.WarnContext(ctx, "github request failed", "method", method, "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func validateRef(ref usecase.RemoteFileRef) error {
	if strings.TrimSpace(ref.Owner) == "" || strings.TrimSpace(ref.Repo) == "" || strings.TrimSpace(ref.Path) == "" {
		return fmt.Errorf("owner, repo and path are required")
	}
	return nil
}

// escapeContentPath escapes each path segment but keeps the separators, the
// form the contents API expects.
func escapeContentPath(path string) string {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}
	return strings.Join(segments, "/")
}

func sanitizeSensitiveText(value, token string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	if token != "" {
		value = strings.ReplaceAll(value, token, "REDACTED")
	}
	return value
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func isConflictStatus(code int) bool {
	return code == http.StatusConflict || code == http.StatusUnprocessableEntity
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}

func maxInt(left, right int) int {
	if left > right {
		return left
	}
	return right
}
