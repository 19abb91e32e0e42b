package lessonapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/phrazzld/lingual/internal/quiz"
)

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 1 << 20

var slugPattern = regexp.MustCompile(`^[a-zA-Z0-9\-]+$`)

// ValidSlug reports whether lesson is a well-formed lesson slug.
func ValidSlug(lesson string) bool {
	return slugPattern.MatchString(lesson)
}

// Client fetches quiz collections over HTTP.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a Client for the endpoint rooted at baseURL. Requests for
// lesson L go to baseURL/L.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for lesson API Client")
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url %q must be http or https", baseURL)
	}

	httpClient := cleanhttp.DefaultPooledClient()
	httpClient.Timeout = timeout

	return &Client{
		baseURL:    u,
		httpClient: httpClient,
		logger:     logger.With(slog.String("component", "lesson_api")),
	}, nil
}

// FetchQuizzes retrieves the quiz collection of lesson.
func (c *Client) FetchQuizzes(ctx context.Context, lesson string) (quiz.Collection, error) {
	if !ValidSlug(lesson) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidLesson, lesson)
	}

	endpoint := c.baseURL.JoinPath(lesson)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", endpoint.Redacted(), err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		_ = resp.Body.Close()
	}()

	c.logger.DebugContext(ctx, "quiz collection fetched",
		slog.String("lesson", lesson),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s", ErrUnexpectedStatus, resp.Status)
	}

	if ct := resp.Header.Get("Content-Type"); ct != "" && !strings.Contains(ct, "json") {
		return nil, fmt.Errorf("%w: content type %q", ErrMalformedResponse, ct)
	}

	var collection quiz.Collection
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&collection); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if collection == nil {
		return nil, fmt.Errorf("%w: empty document", ErrMalformedResponse)
	}

	return collection, nil
}
