package feargreed

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"FinSignal/internal/domain/models"
	drepo "FinSignal/internal/domain/repository"
	xhttp "FinSignal/pkg/http"
	"FinSignal/pkg/logger"
)

const (
	DefaultBaseURL = "https://api.alternative.me"
	fngPath        = "/fng/"
)

// Client reads the crypto Fear & Greed index from alternative.me.
type Client struct {
	baseURL string
	http    *xhttp.Client
	l       *logger.Logger
}

type fngEntry struct {
	Value          string `json:"value"`
	Classification string `json:"value_classification"`
	Timestamp      string `json:"timestamp"`
}

type fngResponse struct {
	Name     string     `json:"name"`
	Data     []fngEntry `json:"data"`
	Metadata struct {
		Error *string `json:"error"`
	} `json:"metadata"`
}

// New creates a Fear & Greed sentiment provider.
func New(baseURL string, httpClient *xhttp.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = xhttp.NewClient()
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

// SetLogger sets optional logger.
func (c *Client) SetLogger(l *logger.Logger) { c.l = l }

// Current returns the latest index reading.
func (c *Client) Current(ctx context.Context) (models.SentimentPoint, error) {
	pts, err := c.fetch(ctx, 1)
	if err != nil {
		return models.SentimentPoint{}, err
	}
	if len(pts) == 0 {
		return models.SentimentPoint{}, fmt.Errorf("fear&greed: empty response")
	}
	return pts[0], nil
}

// History returns up to limit daily readings, newest first as served upstream.
// limit <= 0 requests the full history.
func (c *Client) History(ctx context.Context, limit int) ([]models.SentimentPoint, error) {
	if limit < 0 {
		limit = 0
	}
	return c.fetch(ctx, limit)
}

func (c *Client) fetch(ctx context.Context, limit int) ([]models.SentimentPoint, error) {
	var resp fngResponse
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:      xhttp.MethodGet,
		URL:         c.baseURL + fngPath,
		QueryParams: map[string][]string{"limit": {strconv.Itoa(limit)}},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("fear&greed fetch: %w", err)
	}
	if resp.Metadata.Error != nil && *resp.Metadata.Error != "" {
		return nil, fmt.Errorf("fear&greed: %s", *resp.Metadata.Error)
	}

	pts := make([]models.SentimentPoint, 0, len(resp.Data))
	for _, e := range resp.Data {
		p, err := e.point()
		if err != nil {
			// one bad row should not drop the whole series
			if c.l != nil {
				c.l.Warn("fear&greed: skipping malformed entry", logger.Error(err))
			}
			continue
		}
		pts = append(pts, p)
	}
	return pts, nil
}

func (e fngEntry) point() (models.SentimentPoint, error) {
	v, err := strconv.Atoi(strings.TrimSpace(e.Value))
	if err != nil {
		return models.SentimentPoint{}, fmt.Errorf("value %q: %w", e.Value, err)
	}
	ts, err := strconv.ParseInt(strings.TrimSpace(e.Timestamp), 10, 64)
	if err != nil {
		return models.SentimentPoint{}, fmt.Errorf("timestamp %q: %w", e.Timestamp, err)
	}
	return models.SentimentPoint{Timestamp: ts, Value: v, Classification: e.Classification}, nil
}

var _ drepo.SentimentProvider = (*Client)(nil)
