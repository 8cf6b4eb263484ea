package paystack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// Initialize opens a transaction with Paystack and returns the hosted
// checkout location plus the reference the processor settled on.
func (s *service) Initialize(ctx context.Context, reqBody InitializeRequest) (InitializeData, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	url := s.cfg.BaseURL + "/transaction/initialize"
	log := s.logger.With(
		slog.String("paystack_url", url),
		slog.String("reference", reqBody.Reference),
	)

	body, err := json.Marshal(reqBody)
	if err != nil {
		log.Error("initialize marshal failed", slog.Any("error", err))
		return InitializeData{}, fmt.Errorf("marshal initialize body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		log.Error("initialize create request failed", slog.Any("error", err))
		return InitializeData{}, fmt.Errorf("create initialize request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.cfg.SecretKey)

	start := time.Now()
	resp, err := s.client.Do(req)
	latency := time.Since(start)

	if err != nil {
		log.Error("initialize request failed",
			slog.Any("error", err),
			slog.Duration("latency", latency),
		)
		return InitializeData{}, fmt.Errorf("initialize request: %w", err)
	}
	defer resp.Body.Close()

	respBytes, _ := io.ReadAll(resp.Body)

	log.Info("initialize response received",
		slog.Int("status", resp.StatusCode),
		slog.Duration("latency", latency),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet := string(respBytes)
		if len(snippet) > 800 {
			snippet = snippet[:800] + "..."
		}

		log.Error("initialize non-2xx",
			slog.Int("status", resp.StatusCode),
			slog.String("body_snippet", snippet),
		)

		return InitializeData{}, fmt.Errorf("paystack initialize failed: status=%d", resp.StatusCode)
	}

	var response initializeResponse
	if err := json.Unmarshal(respBytes, &response); err != nil {
		log.Error("initialize decode failed", slog.Any("error", err))
		return InitializeData{}, fmt.Errorf("decode initialize response: %w", err)
	}

	if !response.Status {
		return InitializeData{}, fmt.Errorf("paystack initialize rejected: %s", response.Message)
	}

	return response.Data, nil
}
