package deliveryapi

import (
	"bytes"
	"context"
	"delivery-tracker/internal/platform/httpx"
	"delivery-tracker/internal/platform/obs"
	"delivery-tracker/internal/ports"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"
)

// TokenSource supplies the bearer token and is told when the API rejects it.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
	ClearToken(ctx context.Context) error
}

// Client implements ports.DeliveryAPI over the delivery backend's REST API.
//
// Every request carries the stored bearer token. A 401 response clears the
// stored token and surfaces as ports.ErrUnauthorized. Only idempotent reads
// are retried.
type Client struct {
	baseURL string
	http    *httpx.Client
	tokens  TokenSource
}

var _ ports.DeliveryAPI = (*Client)(nil)

func NewClient(baseURL string, session *http.Client, tokens TokenSource) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpx.NewClient(session),
		tokens:  tokens,
	}
}

type call struct {
	method string
	path   string
	body   any
	out    any
	auth   bool
}

func (c *Client) newRequest(ctx context.Context, cl call, payload []byte) (*http.Request, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, c.baseURL+cl.path, body)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if id := obs.RequestID(ctx); id != "" {
		req.Header.Set("X-Request-ID", id)
	}

	if cl.auth && c.tokens != nil {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return nil, fmt.Errorf("read token: %w", err)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	return req, nil
}

func (c *Client) do(ctx context.Context, cl call) error {
	var payload []byte
	if cl.body != nil {
		b, err := json.Marshal(cl.body)
		if err != nil {
			return fmt.Errorf("%s %s: encode body: %w", cl.method, cl.path, err)
		}
		payload = b
	}

	makeReq := func() (*http.Request, error) {
		return c.newRequest(ctx, cl, payload)
	}

	var (
		resp *http.Response
		err  error
	)
	if cl.method == http.MethodGet {
		resp, err = c.http.DoWithRetry(ctx, makeReq)
	} else {
		var req *http.Request
		req, err = makeReq()
		if err != nil {
			return fmt.Errorf("%s %s: build request: %w", cl.method, cl.path, err)
		}
		resp, err = c.http.Do(req)
	}

	if err != nil {
		if cl.auth && httpx.HasStatus(err, http.StatusUnauthorized) {
			c.clearToken(ctx)
			return fmt.Errorf("%s %s: %w: %w", cl.method, cl.path, ports.ErrUnauthorized, err)
		}
		return fmt.Errorf("%s %s: %w", cl.method, cl.path, err)
	}
	defer resp.Body.Close()

	if cl.out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(cl.out); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%s %s: empty response body: %w", cl.method, cl.path, err)
		}
		return fmt.Errorf("%s %s: decode response: %w", cl.method, cl.path, err)
	}
	return nil
}

func (c *Client) clearToken(ctx context.Context) {
	if c.tokens == nil {
		return
	}
	if err := c.tokens.ClearToken(ctx); err != nil {
		logrus.WithError(err).Warn("clear rejected token")
	}
}
