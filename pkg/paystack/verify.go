package paystack

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// Verify fetches the current state of a transaction by reference.
func (s *service) Verify(ctx context.Context, reference string) (VerifyData, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	requestURL := s.cfg.BaseURL + "/transaction/verify/" + url.PathEscape(reference)
	log := s.logger.With(
		slog.String("paystack_url", requestURL),
		slog.String("reference", reference),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		log.Error("verify create request failed", slog.Any("error", err))
		return VerifyData{}, fmt.Errorf("create verify request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.cfg.SecretKey)

	start := time.Now()
	resp, err := s.client.Do(req)
	latency := time.Since(start)

	if err != nil {
		log.Error("verify request failed",
			slog.Any("error", err),
			slog.Duration("latency", latency),
		)
		return VerifyData{}, fmt.Errorf("verify request: %w", err)
	}
	defer resp.Body.Close()

	respBytes, _ := io.ReadAll(resp.Body)

	log.Debug("verify response received",
		slog.Int("status", resp.StatusCode),
		slog.Duration("latency", latency),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return VerifyData{}, fmt.Errorf("paystack verify failed: status=%d", resp.StatusCode)
	}

	var response verifyResponse
	if err := json.Unmarshal(respBytes, &response); err != nil {
		log.Error("verify decode failed", slog.Any("error", err))
		return VerifyData{}, fmt.Errorf("decode verify response: %w", err)
	}

	if !response.Status {
		return VerifyData{}, fmt.Errorf("paystack verify rejected: %s", response.Message)
	}

	return response.Data, nil
}
