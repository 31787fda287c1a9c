// Package api is the HTTP client for the sync endpoint. It implements
// the engine's RemoteClient: mutations go out as POSTs, an HTTP 409
// comes back as a typed conflict carrying the server's snapshot.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/steveg1983/wealthtracker-pro-sub004/internal/models"
	enginesync "github.com/steveg1983/wealthtracker-pro-sub004/internal/sync"
	"github.com/steveg1983/wealthtracker-pro-sub004/pkg/api"
)

// Client is the HTTP client for the remote authority.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

var _ enginesync.RemoteClient = (*Client)(nil)

// NewClient creates an API client. The token is sent as a bearer token
// on every request; pass an empty string for unauthenticated servers.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("stopped after 10 redirects")
				}
				if len(via) > 0 && via[0].Header.Get("Authorization") != "" {
					req.Header.Set("Authorization", via[0].Header.Get("Authorization"))
				}
				return nil
			},
		},
	}
}

// Apply submits one operation. A 409 response is decoded into a
// *sync.ConflictError so the engine can route it to the resolver.
func (c *Client) Apply(ctx context.Context, op *models.Operation, pctx *enginesync.ProcessContext) error {
	req := api.ApplyRequest{
		OperationID: op.ID,
		Type:        string(op.Type),
		Entity:      op.Entity,
		EntityID:    op.EntityID,
		ClientID:    op.ClientID,
		UserID:      pctx.UserID,
		Data:        op.Data,
		Timestamp:   op.Timestamp,
		Version:     op.Version,
	}

	var resp api.ApplyResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/v1/sync/apply", req, &resp); err != nil {
		return fmt.Errorf("apply request failed: %w", err)
	}

	if resp.SyncHint && pctx.EnqueueImmediateSync != nil {
		pctx.EnqueueImmediateSync()
	}

	return nil
}

// FetchSnapshot pulls the server's full state for the user.
func (c *Client) FetchSnapshot(ctx context.Context, userID string) ([]*models.EntityRecord, error) {
	var resp api.SnapshotResponse
	url := fmt.Sprintf("/api/v1/sync/snapshot/%s", userID)
	if err := c.doRequest(ctx, http.MethodGet, url, nil, &resp); err != nil {
		return nil, fmt.Errorf("snapshot request failed: %w", err)
	}

	records := make([]*models.EntityRecord, 0, len(resp.Records))
	for _, r := range resp.Records {
		records = append(records, &models.EntityRecord{
			Entity:    r.Entity,
			EntityID:  r.EntityID,
			Data:      r.Data,
			Version:   r.Version,
			UpdatedAt: r.UpdatedAt,
		})
	}

	return records, nil
}

func (c *Client) doRequest(ctx context.Context, method, path string, body, result any) error {
	url := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode == http.StatusConflict {
		var conflict api.ConflictResponse
		if err := json.Unmarshal(respBody, &conflict); err != nil {
			return fmt.Errorf("failed to decode conflict body: %w", err)
		}
		return &enginesync.ConflictError{
			Entity:        conflict.Entity,
			EntityID:      conflict.EntityID,
			ServerData:    conflict.ServerData,
			ServerVersion: conflict.ServerVersion,
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp api.ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Message != "" {
			return fmt.Errorf("server error (%d): %s", resp.StatusCode, errResp.Message)
		}
		return fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}
