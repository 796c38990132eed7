package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// apiClient is a thin wrapper over the server's HTTP API.
type apiClient struct {
	base  string
	token string
	http  *http.Client
}

func newAPIClient(base, token string) *apiClient {
	return &apiClient{
		base:  strings.TrimRight(base, "/"),
		token: token,
		http:  &http.Client{Timeout: 5 * time.Minute},
	}
}

type syncResult struct {
	RunID          string `json:"run_id"`
	TotalProcessed int    `json:"total_processed"`
	Successful     int    `json:"successful"`
	Failed         int    `json:"failed"`
	Details        []struct {
		Identifier string `json:"identifier"`
		Status     string `json:"status"`
		Message    string `json:"message"`
	} `json:"details"`
}

type acceptedRun struct {
	RunID  string `json:"run_id"`
	Status string `json:"status"`
}

type healthReport struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

func (c *apiClient) health() (*healthReport, error) {
	var report healthReport
	if err := c.do(http.MethodGet, "/api/v1/health", nil, nil, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (c *apiClient) total(path string) (int, error) {
	var body struct {
		Total int `json:"total"`
	}
	query := url.Values{"limit": {"1"}}
	if err := c.do(http.MethodGet, path, query, nil, &body); err != nil {
		return 0, err
	}
	return body.Total, nil
}

func (c *apiClient) sync(path string, payload any) (*syncResult, error) {
	var result syncResult
	if err := c.do(http.MethodPost, path, nil, payload, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *apiClient) syncAll(path string, query url.Values) (*acceptedRun, error) {
	var run acceptedRun
	if err := c.do(http.MethodPost, path, query, nil, &run); err != nil {
		return nil, err
	}
	return &run, nil
}

func (c *apiClient) do(method, path string, query url.Values, payload, out any) error {
	target := c.base + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, target, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("server answered %d for %s: %s", resp.StatusCode, path, strings.TrimSpace(string(raw)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
