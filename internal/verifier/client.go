// Copyright 2026 Interfase
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package verifier drives OpenID4VP verification exchanges against an
// external verification backend.
package verifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/interfase/vp-verifier/internal/request"
)

var defaultHTTPClient = &http.Client{
	Timeout: 15 * time.Second,
}

// Client talks to the verification backend's presentation endpoints.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a backend client for baseURL (e.g.
// "https://verifier-backend.example/ui").
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: defaultHTTPClient,
	}
}

// Transaction identifies one in-flight verification exchange.
type Transaction struct {
	ID         string
	RequestURI string
}

// Status is a poll response for a transaction. PresentationSubmission is the
// success sentinel, Error the failure sentinel; VPToken may appear before
// either and is decodable on its own.
type Status struct {
	PresentationSubmission json.RawMessage `json:"presentation_submission,omitempty"`
	Error                  string          `json:"error,omitempty"`
	VPToken                any             `json:"vp_token,omitempty"`
}

type createResponse struct {
	TransactionID string `json:"transaction_id"`
	RequestURI    string `json:"request_uri"`
	QRURL         string `json:"qr_url"`
	QRCode        string `json:"qrCode"`
}

// CreatePresentation POSTs a presentation request and returns the resulting
// transaction. A non-2xx response or a response missing the transaction id
// or request URI is an error.
func (c *Client) CreatePresentation(ctx context.Context, pr *request.PresentationRequest) (*Transaction, error) {
	body, err := json.Marshal(pr)
	if err != nil {
		return nil, fmt.Errorf("encoding presentation request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/presentations", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("creating presentation: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("backend returned %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	var cr createResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return nil, fmt.Errorf("decoding backend response: %w", err)
	}

	// Older backends report the request URI under qr_url or qrCode.
	requestURI := cr.RequestURI
	if requestURI == "" {
		requestURI = cr.QRURL
	}
	if requestURI == "" {
		requestURI = cr.QRCode
	}

	if cr.TransactionID == "" || requestURI == "" {
		return nil, fmt.Errorf("backend response missing transaction_id or request_uri")
	}

	return &Transaction{ID: cr.TransactionID, RequestURI: requestURI}, nil
}

// TransactionStatus GETs the current status of a transaction.
func (c *Client) TransactionStatus(ctx context.Context, transactionID string) (*Status, error) {
	u := c.baseURL + "/presentations/" + url.PathEscape(transactionID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("polling transaction %s: %w", transactionID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("polling transaction %s: status %d", transactionID, resp.StatusCode)
	}

	var st Status
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		return nil, fmt.Errorf("decoding status for %s: %w", transactionID, err)
	}
	return &st, nil
}
