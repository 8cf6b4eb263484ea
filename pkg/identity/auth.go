package identity

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

type credentialRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// SignIn exchanges an email/password pair for a session.
func (s *service) SignIn(ctx context.Context, email, password string) (Session, error) {
	return s.exchange(ctx, "accounts:signInWithPassword", email, password)
}

// SignUp creates a new account and returns its first session.
func (s *service) SignUp(ctx context.Context, email, password string) (Session, error) {
	return s.exchange(ctx, "accounts:signUp", email, password)
}

func (s *service) exchange(ctx context.Context, endpoint, email, password string) (Session, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	requestURL := s.cfg.BaseURL + "/" + endpoint + "?key=" + url.QueryEscape(s.cfg.APIKey)
	log := s.logger.With(
		slog.String("endpoint", endpoint),
		slog.String("email", email),
	)

	body, err := json.Marshal(credentialRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	})
	if err != nil {
		return Session{}, fmt.Errorf("marshal credential body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, requestURL, bytes.NewReader(body))
	if err != nil {
		return Session{}, fmt.Errorf("create credential request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := s.client.Do(req)
	latency := time.Since(start)

	if err != nil {
		log.Error("credential request failed",
			slog.Any("error", err),
			slog.Duration("latency", latency),
		)
		return Session{}, fmt.Errorf("credential request: %w", err)
	}
	defer resp.Body.Close()

	respBytes, _ := io.ReadAll(resp.Body)

	log.Info("credential response received",
		slog.Int("status", resp.StatusCode),
		slog.Duration("latency", latency),
	)

	if resp.StatusCode == http.StatusBadRequest {
		var out errorResponse
		if err := json.Unmarshal(respBytes, &out); err == nil && out.Error.Message != "" {
			log.Warn("credentials rejected", slog.String("reason", out.Error.Message))
		}
		return Session{}, ErrInvalidCredentials
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Session{}, fmt.Errorf("identity %s failed: status=%d", endpoint, resp.StatusCode)
	}

	var session Session
	if err := json.Unmarshal(respBytes, &session); err != nil {
		return Session{}, fmt.Errorf("decode credential response: %w", err)
	}

	return session, nil
}
