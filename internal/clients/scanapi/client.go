package scanapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	types "github.com/cardnexus/cardnexus-backend/internal/domain/cards"
	"github.com/cardnexus/cardnexus-backend/internal/pkg/httpx"
	"github.com/cardnexus/cardnexus-backend/internal/pkg/logger"
	"github.com/cardnexus/cardnexus-backend/internal/utils"
)

const (
	scanMaxAttempts  = 3
	scanRetryBackoff = 500 * time.Millisecond
)

// Client talks to the external text-scan service. The service is a black box
// from our side: image in, OCR text blocks out.
type Client interface {
	Scan(ctx context.Context, image []byte, filename string) (*types.ScanAPIResponse, error)
}

type client struct {
	baseURL    string
	httpClient *http.Client
	log        *logger.Logger
}

func NewClient(baseLog *logger.Logger) Client {
	baseURL := utils.GetEnv("SCANNER_API_URL", "http://localhost:8000", baseLog)
	return &client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		log:        baseLog.With("service", "ScanAPIClient"),
	}
}

func (c *client) Scan(ctx context.Context, image []byte, filename string) (*types.ScanAPIResponse, error) {
	c.log.Info("Starting card scan", "filename", filename)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("build multipart body: %w", err)
	}
	if _, err := part.Write(image); err != nil {
		return nil, fmt.Errorf("write multipart body: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close multipart body: %w", err)
	}
	payload := body.Bytes()

	var lastErr error
	for attempt := 1; attempt <= scanMaxAttempts; attempt++ {
		result, retryable, err := c.scanOnce(ctx, payload, mw.FormDataContentType())
		if err == nil {
			return result, nil
		}
		lastErr = err
		if !retryable || attempt == scanMaxAttempts {
			break
		}
		c.log.Warn("scan attempt failed, retrying", "attempt", attempt, "error", err)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(httpx.JitterSleep(scanRetryBackoff * time.Duration(attempt))):
		}
	}
	return nil, lastErr
}

func (c *client) scanOnce(ctx context.Context, payload []byte, contentType string) (*types.ScanAPIResponse, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/scan?simple=true", bytes.NewReader(payload))
	if err != nil {
		return nil, false, fmt.Errorf("build scan request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, httpx.IsRetryableError(err), fmt.Errorf("call scan API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		errText, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, httpx.IsRetryableHTTPStatus(resp.StatusCode),
			fmt.Errorf("scan API error (%d): %s", resp.StatusCode, strings.TrimSpace(string(errText)))
	}

	var result types.ScanAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, false, fmt.Errorf("decode scan API response: %w", err)
	}
	return &result, false, nil
}
