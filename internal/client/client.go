package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/ghaggin/erp-console/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const maxErrorBody = 64 << 10

// Client calls the ERP REST API. Every request goes through the Pipeline.
type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger
}

type Params struct {
	fx.In

	Config   *config.Config
	Pipeline *Pipeline
	Log      *zap.Logger
}

func New(p Params) *Client {
	return NewWithPipeline(p.Config.API.BaseURL, p.Pipeline, p.Config.API, p.Log)
}

func NewWithPipeline(baseURL string, pipeline *Pipeline, api config.API, log *zap.Logger) *Client {
	return &Client{
		baseURL: config.NormalizeBaseURL(baseURL),
		http: &http.Client{
			Transport: pipeline,
			Timeout:   api.Timeout,
		},
		log: log,
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, query), body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("api request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil || len(b) == 0 {
		return apiErr
	}

	var body errorBody
	if json.Unmarshal(b, &body) == nil {
		apiErr.Message = body.Message
		if apiErr.Message == "" {
			apiErr.Message = body.Error
		}
		return apiErr
	}

	apiErr.Message = strings.TrimSpace(string(b))
	return apiErr
}
