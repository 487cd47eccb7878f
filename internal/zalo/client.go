// Package zalo wraps the two Zalo OA API primitives this service needs:
// sending a text message to a channel id and downloading an attachment by
// URL. Everything else about the platform is consumed through webhooks.
package zalo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"zalo-hr-gateway/internal/faults"
)

const sendMessagePath = "/v3.0/oa/message/cs"

// Client talks to the Zalo OA open API with a bearer access token.
type Client struct {
	baseURL     string
	accessToken string
	sendClient  *http.Client
	fileClient  *http.Client
	logger      *slog.Logger
}

// NewClient creates a client. sendTimeout bounds message sends, fileTimeout
// bounds attachment downloads (downloads are allowed to run longer).
func NewClient(baseURL, accessToken string, sendTimeout, fileTimeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL:     baseURL,
		accessToken: accessToken,
		sendClient:  &http.Client{Timeout: sendTimeout},
		fileClient:  &http.Client{Timeout: fileTimeout},
		logger:      logger,
	}
}

type sendTextRequest struct {
	Recipient struct {
		UserID string `json:"user_id"`
	} `json:"recipient"`
	Message struct {
		Text string `json:"text"`
	} `json:"message"`
}

// SendText delivers a plain text message to the given channel id.
func (c *Client) SendText(ctx context.Context, userID, text string) error {
	payload := sendTextRequest{}
	payload.Recipient.UserID = userID
	payload.Message.Text = text

	body, err := json.Marshal(payload)
	if err != nil {
		return &faults.ErrExternalService{Service: "zalo", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+sendMessagePath, bytes.NewReader(body))
	if err != nil {
		return &faults.ErrExternalService{Service: "zalo", Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.sendClient.Do(req)
	if err != nil {
		return &faults.ErrExternalService{Service: "zalo", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &faults.ErrExternalService{
			Service: "zalo",
			Err:     fmt.Errorf("send message: status %d: %s", resp.StatusCode, detail),
		}
	}
	return nil
}

// Download fetches an attachment by the URL delivered in the webhook
// payload. The access token is attached; attachment URLs are served by the
// same platform.
func (c *Client) Download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &faults.ErrExternalService{Service: "zalo", Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.fileClient.Do(req)
	if err != nil {
		return nil, &faults.ErrExternalService{Service: "zalo", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &faults.ErrExternalService{
			Service: "zalo",
			Err:     fmt.Errorf("download: status %d", resp.StatusCode),
		}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &faults.ErrExternalService{Service: "zalo", Err: err}
	}
	c.logger.Info("Attachment downloaded", "bytes", len(data))
	return data, nil
}
