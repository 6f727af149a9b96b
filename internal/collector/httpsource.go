package collector

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// HTTPSourceConfig describes a JSON feed of inference messages. The field
// paths are gjson paths evaluated per item, so any reasonably shaped upstream
// can be mapped without code changes.
type HTTPSourceConfig struct {
	Name           string `mapstructure:"name"`
	BaseURL        string `mapstructure:"base_url"`
	Token          string `mapstructure:"token"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`

	ItemsPath    string `mapstructure:"items_path"`
	IDPath       string `mapstructure:"id_path"`
	TimePath     string `mapstructure:"time_path"`
	PromptPath   string `mapstructure:"prompt_path"`
	ResponsePath string `mapstructure:"response_path"`
}

func (c *HTTPSourceConfig) applyDefaults() {
	if c.Name == "" {
		c.Name = "http"
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 15
	}
	if c.ItemsPath == "" {
		c.ItemsPath = "data"
	}
	if c.IDPath == "" {
		c.IDPath = "id"
	}
	if c.TimePath == "" {
		c.TimePath = "timestamp"
	}
	if c.PromptPath == "" {
		c.PromptPath = "prompt"
	}
	if c.ResponsePath == "" {
		c.ResponsePath = "response"
	}
}

// HTTPSource pulls inference messages from a JSON HTTP endpoint.
type HTTPSource struct {
	cfg        HTTPSourceConfig
	baseURL    *url.URL
	httpClient *http.Client
}

// NewHTTPSource validates the config and builds the source.
func NewHTTPSource(cfg HTTPSourceConfig) (*HTTPSource, error) {
	cfg.applyDefaults()
	raw := strings.TrimSpace(cfg.BaseURL)
	if raw == "" {
		return nil, fmt.Errorf("collector source %s: base_url cannot be empty", cfg.Name)
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("collector source %s: parse base_url: %w", cfg.Name, err)
	}
	return &HTTPSource{
		cfg:        cfg,
		baseURL:    parsed,
		httpClient: &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
	}, nil
}

// SetHTTPClient sets the HTTP client for testing.
func (s *HTTPSource) SetHTTPClient(client *http.Client) {
	s.httpClient = client
}

func (s *HTTPSource) Name() string { return s.cfg.Name }

// Fetch requests messages newer than since and maps them into events. Items
// without a usable id or timestamp are skipped.
func (s *HTTPSource) Fetch(ctx context.Context, since time.Time, limit int) ([]InferenceEvent, error) {
	if limit <= 0 {
		limit = 100
	}
	endpoint := *s.baseURL
	q := endpoint.Query()
	q.Set("since", strconv.FormatInt(since.Unix(), 10))
	q.Set("limit", strconv.Itoa(limit))
	endpoint.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if s.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+s.cfg.Token)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("collector source %s: request failed: %w", s.cfg.Name, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("collector source %s: status %d", s.cfg.Name, resp.StatusCode)
	}

	items := gjson.GetBytes(body, s.cfg.ItemsPath)
	if !items.Exists() {
		return nil, fmt.Errorf("collector source %s: items path %q missing in response", s.cfg.Name, s.cfg.ItemsPath)
	}

	var events []InferenceEvent
	items.ForEach(func(_, item gjson.Result) bool {
		id := item.Get(s.cfg.IDPath).String()
		if id == "" {
			return true
		}
		ts, ok := parseEventTime(item.Get(s.cfg.TimePath))
		if !ok {
			return true
		}
		events = append(events, InferenceEvent{
			ExternalID: id,
			Time:       ts,
			Prompt:     item.Get(s.cfg.PromptPath).String(),
			Response:   item.Get(s.cfg.ResponsePath).String(),
		})
		return len(events) < limit
	})
	return events, nil
}

// parseEventTime accepts unix seconds, unix milliseconds or RFC3339 strings.
func parseEventTime(v gjson.Result) (time.Time, bool) {
	switch v.Type {
	case gjson.Number:
		n := v.Int()
		if n <= 0 {
			return time.Time{}, false
		}
		if n > 1e12 {
			return time.UnixMilli(n), true
		}
		return time.Unix(n, 0), true
	case gjson.String:
		if t, err := time.Parse(time.RFC3339, v.String()); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
