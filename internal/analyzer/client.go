// Package analyzer is the client for the external CV Analyzer, which turns
// a stored CV document into a structured candidate profile.
package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"zalo-hr-gateway/internal/faults"
	"zalo-hr-gateway/internal/models"
)

// Client posts CV files to the analyzer service and maps its response.
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

// analyzeResponse mirrors the analyzer's candidates envelope. The service
// is built for batch analysis; a single CV yields a one-element list.
type analyzeResponse struct {
	Candidates []models.CandidateProfile `json:"candidates"`
}

// Analyze uploads the file at path and returns the extracted profile. The
// analyzer may be nondeterministic; callers cache the result by path.
func (c *Client) Analyze(ctx context.Context, path string) (*models.CandidateProfile, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, &faults.ErrExternalService{Service: "cv-analyzer", Err: err}
	}
	defer file.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return nil, &faults.ErrExternalService{Service: "cv-analyzer", Err: err}
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, &faults.ErrExternalService{Service: "cv-analyzer", Err: err}
	}
	if err := writer.Close(); err != nil {
		return nil, &faults.ErrExternalService{Service: "cv-analyzer", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/analyze", &buf)
	if err != nil {
		return nil, &faults.ErrExternalService{Service: "cv-analyzer", Err: err}
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &faults.ErrExternalService{Service: "cv-analyzer", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &faults.ErrExternalService{
			Service: "cv-analyzer",
			Err:     fmt.Errorf("analyze: status %d", resp.StatusCode),
		}
	}

	var result analyzeResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &faults.ErrExternalService{Service: "cv-analyzer", Err: err}
	}
	if len(result.Candidates) == 0 {
		return nil, &faults.ErrExternalService{
			Service: "cv-analyzer",
			Err:     fmt.Errorf("no candidate extracted from %s", filepath.Base(path)),
		}
	}
	profile := result.Candidates[0]
	return &profile, nil
}
