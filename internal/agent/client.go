// Package agent is the client for the chatbot/planning agent: free-text
// Q&A for open-ended chat and task generation from WBS file content.
package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"net/http"
	"strconv"
	"time"

	"zalo-hr-gateway/internal/faults"
)

// Client posts to the agent's /chat endpoint.
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

// chatRequest is the agent's wire contract: a numeric user id, an optional
// query, and optional file content as a plain string.
type chatRequest struct {
	UserID int64  `json:"user_id"`
	Query  string `json:"query"`
	File   string `json:"file"`
}

type chatResponse struct {
	Response string `json:"response"`
}

// Chat sends a free-text query and returns the agent's answer.
func (c *Client) Chat(ctx context.Context, userID, query string) (string, error) {
	return c.post(ctx, chatRequest{UserID: numericUserID(userID), Query: query})
}

// GenerateTasks forwards WBS file content, unmodified, for task
// generation. The returned text is the agent's summary of generated tasks.
func (c *Client) GenerateTasks(ctx context.Context, userID, fileContent string) (string, error) {
	return c.post(ctx, chatRequest{UserID: numericUserID(userID), File: fileContent})
}

func (c *Client) post(ctx context.Context, payload chatRequest) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", &faults.ErrExternalService{Service: "chatbot-agent", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat", bytes.NewReader(body))
	if err != nil {
		return "", &faults.ErrExternalService{Service: "chatbot-agent", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &faults.ErrExternalService{Service: "chatbot-agent", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &faults.ErrExternalService{
			Service: "chatbot-agent",
			Err:     fmt.Errorf("chat: status %d", resp.StatusCode),
		}
	}

	var result chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", &faults.ErrExternalService{Service: "chatbot-agent", Err: err}
	}
	return result.Response, nil
}

// numericUserID maps a Zalo channel id onto the agent's integer user id
// space: numeric ids parse directly, anything else hashes into ten digits.
func numericUserID(channelID string) int64 {
	if id, err := strconv.ParseInt(channelID, 10, 64); err == nil {
		return id
	}
	h := fnv.New64a()
	h.Write([]byte(channelID))
	return int64(h.Sum64() % 10_000_000_000)
}
