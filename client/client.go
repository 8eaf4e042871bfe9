// Package client talks to the upstream article API.
package client

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/SergeyParamoshkin/articlefront/internal/metrics"
	"github.com/SergeyParamoshkin/articlefront/internal/model"
	"go.uber.org/zap"
)

const (
	// KeyHeader carries the shared secret on every upstream call.
	KeyHeader = "X-Renderer-Key"

	listPath = "/GetArticles"
	byIDPath = "/GetArticleByID"

	maxErrBody = 512
)

var (
	ErrMissingKey    = errors.New("client: API key is required")
	ErrMissingAddr   = errors.New("client: API base URL is required")
	ErrEmptyEnvelope = errors.New("client: response envelope has no article")
)

// StatusError is returned when the upstream answers with a non-2xx status.
type StatusError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("client: %s returned %d", e.Endpoint, e.StatusCode)
}

// IsStatus reports whether err is a *StatusError with the given code.
func IsStatus(err error, code int) bool {
	var se *StatusError

	return errors.As(err, &se) && se.StatusCode == code
}

type Client struct {
	http.Client
	Addr string

	key     string
	log     *zap.SugaredLogger
	metrics *metrics.Metrics
}

type Option func(*Client)

// WithTransport replaces the default transport, which always verifies
// server certificates.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) { c.Transport = rt }
}

func WithLogger(l *zap.SugaredLogger) Option {
	return func(c *Client) { c.log = l }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// New returns a client for the API at addr. Calls are bounded by timeout.
func New(addr, key string, timeout time.Duration, opts ...Option) (*Client, error) {
	if key == "" {
		return nil, ErrMissingKey
	}
	if addr == "" {
		return nil, ErrMissingAddr
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = &tls.Config{MinVersion: tls.VersionTLS12}

	c := &Client{
		Client: http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
		Addr: addr,
		key:  key,
		log:  zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// ListArticles fetches one page of articles, filtered by search when it is
// not empty.
func (c *Client) ListArticles(ctx context.Context, page int, search string) (*model.ArticlePage, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	if search != "" {
		q.Set("search", search)
	}

	var out model.ArticlePage
	if err := c.get(ctx, listPath, q, &out); err != nil {
		c.logFailure("list articles failed", err, "page", page, "search", search)

		return nil, err
	}

	return &out, nil
}

// GetArticleByID fetches a single article and unwraps its envelope.
func (c *Client) GetArticleByID(ctx context.Context, id int64) (*model.ArticleDetail, error) {
	q := url.Values{}
	q.Set("id", strconv.FormatInt(id, 10))

	var env model.ArticleEnvelope
	err := c.get(ctx, byIDPath, q, &env)
	if err == nil && env.D == nil {
		err = ErrEmptyEnvelope
	}
	if err != nil {
		c.logFailure("get article failed", err, "article_id", id)

		return nil, err
	}

	return env.D, nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values, v interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Addr+path+"?"+q.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set(KeyHeader, c.key)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.Do(req)
	if err != nil {
		c.metrics.UpstreamCall(ctx, path, 0, time.Since(start))

		return fmt.Errorf("client: get %s: %w", path, err)
	}
	defer resp.Body.Close()

	c.metrics.UpstreamCall(ctx, path, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrBody))

		return &StatusError{Endpoint: path, StatusCode: resp.StatusCode, Body: string(body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("client: decode %s: %w", path, err)
	}

	return nil
}

func (c *Client) logFailure(msg string, err error, kv ...interface{}) {
	var se *StatusError
	if errors.As(err, &se) {
		kv = append(kv, "status", se.StatusCode, "body", se.Body)
	}
	c.log.Errorw(msg, append(kv, "err", err)...)
}
