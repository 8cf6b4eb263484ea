package sheetdb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

type writeBody struct {
	Data []any `json:"data"`
}

// Updates carry a single object, not an array.
type updateBody struct {
	Data map[string]any `json:"data"`
}

type writeResponse struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
}

// Append writes rows to the sheet. SheetDB reports how many rows it
// created; anything less than one is treated as a failed write even
// on a 2xx response.
func (s *service) Append(ctx context.Context, rows ...any) (int, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	log := s.logger.With(
		slog.String("sheetdb_url", s.cfg.APIURL),
		slog.Int("rows", len(rows)),
	)

	body, err := json.Marshal(writeBody{Data: rows})
	if err != nil {
		return 0, fmt.Errorf("marshal append body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.APIURL, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("create append request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	s.authorize(req)

	start := time.Now()
	resp, err := s.client.Do(req)
	latency := time.Since(start)

	if err != nil {
		log.Error("append request failed",
			slog.Any("error", err),
			slog.Duration("latency", latency),
		)
		return 0, fmt.Errorf("append request: %w", err)
	}
	defer resp.Body.Close()

	respBytes, _ := io.ReadAll(resp.Body)

	log.Info("append response received",
		slog.Int("status", resp.StatusCode),
		slog.Duration("latency", latency),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet := string(respBytes)
		if len(snippet) > 800 {
			snippet = snippet[:800] + "..."
		}

		log.Error("append non-2xx",
			slog.Int("status", resp.StatusCode),
			slog.String("body_snippet", snippet),
		)

		return 0, fmt.Errorf("sheetdb append failed: status=%d", resp.StatusCode)
	}

	var out writeResponse
	if err := json.Unmarshal(respBytes, &out); err != nil {
		return 0, fmt.Errorf("decode append response: %w", err)
	}

	if out.Created < 1 {
		log.Error("append created no rows")
		return 0, ErrNoRowsCreated
	}

	return out.Created, nil
}

// UpdateByReference patches every row whose paymentReference column
// matches reference, stamping a fresh updatedAt alongside the caller's
// fields. Returns the number of rows SheetDB updated.
func (s *service) UpdateByReference(ctx context.Context, reference string, patch any) (int, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	requestURL := s.cfg.APIURL + "/paymentReference/" + url.PathEscape(reference)
	log := s.logger.With(
		slog.String("sheetdb_url", requestURL),
		slog.String("reference", reference),
	)

	raw, err := json.Marshal(patch)
	if err != nil {
		return 0, fmt.Errorf("marshal update patch: %w", err)
	}

	fields := make(map[string]any)
	if err := json.Unmarshal(raw, &fields); err != nil {
		return 0, fmt.Errorf("update patch must be an object: %w", err)
	}
	fields["updatedAt"] = time.Now().UTC().Format(time.RFC3339)

	body, err := json.Marshal(updateBody{Data: fields})
	if err != nil {
		return 0, fmt.Errorf("marshal update body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, requestURL, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("create update request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	s.authorize(req)

	start := time.Now()
	resp, err := s.client.Do(req)
	latency := time.Since(start)

	if err != nil {
		log.Error("update request failed",
			slog.Any("error", err),
			slog.Duration("latency", latency),
		)
		return 0, fmt.Errorf("update request: %w", err)
	}
	defer resp.Body.Close()

	respBytes, _ := io.ReadAll(resp.Body)

	log.Info("update response received",
		slog.Int("status", resp.StatusCode),
		slog.Duration("latency", latency),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, fmt.Errorf("sheetdb update failed: status=%d", resp.StatusCode)
	}

	var out writeResponse
	if err := json.Unmarshal(respBytes, &out); err != nil {
		return 0, fmt.Errorf("decode update response: %w", err)
	}

	return out.Updated, nil
}

// SearchByReference returns rows whose paymentReference column equals
// reference. An empty slice means no match.
func (s *service) SearchByReference(ctx context.Context, reference string) ([]map[string]any, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	requestURL := s.cfg.APIURL + "/search?paymentReference=" + url.QueryEscape(reference)
	log := s.logger.With(
		slog.String("sheetdb_url", requestURL),
		slog.String("reference", reference),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create search request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	s.authorize(req)

	start := time.Now()
	resp, err := s.client.Do(req)
	latency := time.Since(start)

	if err != nil {
		log.Error("search request failed",
			slog.Any("error", err),
			slog.Duration("latency", latency),
		)
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()

	respBytes, _ := io.ReadAll(resp.Body)

	log.Debug("search response received",
		slog.Int("status", resp.StatusCode),
		slog.Duration("latency", latency),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("sheetdb search failed: status=%d", resp.StatusCode)
	}

	var rows []map[string]any
	if err := json.Unmarshal(respBytes, &rows); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	return rows, nil
}
