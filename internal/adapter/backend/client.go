package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pallapizza/daily-report-runner/internal/domain"
	"github.com/pallapizza/daily-report-runner/internal/observability"
)

// Endpoint names, also used as metric labels.
const (
	EndpointDailyReport = "daily_report"
	EndpointSaveReport  = "save_report_csv"
)

// StatusError reports a non-200 answer from the backend.
type StatusError struct {
	Endpoint   string
	StatusCode int
	Status     string
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: status %d %s", e.Endpoint, e.StatusCode, e.Status)
	}
	return fmt.Sprintf("%s: status %d %s: %s", e.Endpoint, e.StatusCode, e.Status, e.Body)
}

// Client talks to the reporting backend. It implements pipeline.ReportFetcher
// and pipeline.ReportSaver.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a backend client. Endpoint paths are joined to baseURL
// without its trailing slash. A zero timeout leaves requests unbounded except
// by their context. An empty token sends no Authorization header.
func NewClient(baseURL, token string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		metrics: metrics,
		logger:  logger,
	}
}

// FetchDailyReport requests the daily report of one venue.
func (c *Client) FetchDailyReport(ctx context.Context, r domain.ReportRequest) (domain.DailyReport, error) {
	params := url.Values{
		"url":        {r.BackendURL},
		"venue_name": {r.Venue},
		"date":       {r.Date},
		"lang":       {r.Lang},
		"tone":       {r.Tone},
	}
	fullURL := c.baseURL + "/" + EndpointDailyReport + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return domain.DailyReport{}, fmt.Errorf("create request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	body, err := c.do(req, EndpointDailyReport)
	if err != nil {
		return domain.DailyReport{}, err
	}

	if isFalsy(body) {
		c.observe(EndpointDailyReport, "empty")
		return domain.DailyReport{}, domain.ErrEmptyReport
	}

	var report domain.DailyReport
	if err := json.Unmarshal(body, &report); err != nil {
		c.observe(EndpointDailyReport, "error")
		return domain.DailyReport{}, fmt.Errorf("decode daily report: %w", err)
	}

	c.observe(EndpointDailyReport, "success")
	return report, nil
}

// SaveReport posts a merged record to the backend's CSV store.
func (c *Client) SaveReport(ctx context.Context, record *domain.Fields) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+EndpointSaveReport, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	if _, err := c.do(req, EndpointSaveReport); err != nil {
		return err
	}

	c.observe(EndpointSaveReport, "success")
	return nil
}

// do sends the request and returns the body of a 200 answer.
func (c *Client) do(req *http.Request, endpoint string) ([]byte, error) {
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.BackendDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		c.observe(endpoint, "error")
		return nil, fmt.Errorf("%s request: %w", endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.observe(endpoint, "error")
		return nil, fmt.Errorf("read %s response: %w", endpoint, err)
	}

	if resp.StatusCode != http.StatusOK {
		c.observe(endpoint, "error")
		return nil, &StatusError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Status:     http.StatusText(resp.StatusCode),
			Body:       string(bytes.TrimSpace(body)),
		}
	}

	c.logger.Debug("backend request done", "endpoint", endpoint, "status", resp.StatusCode, "bytes", len(body))
	return body, nil
}

func (c *Client) observe(endpoint, outcome string) {
	c.metrics.BackendRequests.WithLabelValues(endpoint, outcome).Inc()
}

// isFalsy reports whether a response body carries no report: nothing at all,
// or a JSON null, false, numeric zero, or empty string.
func isFalsy(body []byte) bool {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return true
	}
	var v any
	if err := json.Unmarshal(trimmed, &v); err != nil {
		return false
	}
	switch x := v.(type) {
	case nil:
		return true
	case bool:
		return !x
	case float64:
		return x == 0
	case string:
		return x == ""
	}
	return false
}
