// Package directory is the client for the external User Directory, which
// owns user records, their roles, and account creation.
package directory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"zalo-hr-gateway/internal/faults"
	"zalo-hr-gateway/internal/models"
)

// Client is an HTTP JSON client for the User Directory API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// GetByChannelID looks up the user bound to a Zalo channel id. A missing
// record is ErrNotFound; the caller maps it to the unknown role.
func (c *Client) GetByChannelID(ctx context.Context, channelID string) (*models.UserRecord, error) {
	endpoint := c.baseURL + "/api/users/by-channel/" + url.PathEscape(channelID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &faults.ErrExternalService{Service: "user-directory", Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &faults.ErrExternalService{Service: "user-directory", Err: err}
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var record models.UserRecord
		if err := json.NewDecoder(resp.Body).Decode(&record); err != nil {
			return nil, &faults.ErrExternalService{Service: "user-directory", Err: err}
		}
		return &record, nil
	case http.StatusNotFound:
		return nil, &faults.ErrNotFound{Entity: "user", ID: channelID}
	default:
		return nil, &faults.ErrExternalService{
			Service: "user-directory",
			Err:     fmt.Errorf("lookup: status %d", resp.StatusCode),
		}
	}
}

// CreateUser registers an approved candidate as a directory user. A
// duplicate identity (email/phone already registered) comes back as
// ErrValidation so the operator can correct and retry the approval.
func (c *Client) CreateUser(ctx context.Context, user models.NewUser) (*models.UserRecord, error) {
	body, err := json.Marshal(user)
	if err != nil {
		return nil, &faults.ErrExternalService{Service: "user-directory", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/users/create", bytes.NewReader(body))
	if err != nil {
		return nil, &faults.ErrExternalService{Service: "user-directory", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &faults.ErrExternalService{Service: "user-directory", Err: err}
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		var record models.UserRecord
		if err := json.NewDecoder(resp.Body).Decode(&record); err != nil {
			return nil, &faults.ErrExternalService{Service: "user-directory", Err: err}
		}
		return &record, nil
	case http.StatusBadRequest, http.StatusConflict:
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &faults.ErrValidation{Detail: string(detail)}
	default:
		return nil, &faults.ErrExternalService{
			Service: "user-directory",
			Err:     fmt.Errorf("create user: status %d", resp.StatusCode),
		}
	}
}
