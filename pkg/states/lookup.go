package states

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"
)

const (
	statesCacheKey  = "states:all"
	lgaCachePrefix  = "states:lgas:"
	defaultCacheTTL = 24 * time.Hour
)

type stateEntry struct {
	Name    string `json:"name"`
	Capital string `json:"capital"`
}

type lgaEntry struct {
	Name string `json:"name"`
}

// fallbackStates keeps the picker usable when the upstream is down.
var fallbackStates = []string{
	"Abia", "Abuja", "Adamawa", "Akwa Ibom", "Anambra", "Bauchi",
	"Bayelsa", "Benue", "Borno", "Cross River", "Delta", "Ebonyi",
	"Edo", "Ekiti", "Enugu", "Gombe", "Imo", "Jigawa", "Kaduna",
	"Kano", "Katsina", "Kebbi", "Kogi", "Kwara", "Lagos", "Nasarawa",
	"Niger", "Ogun", "Ondo", "Osun", "Oyo", "Plateau", "Rivers",
	"Sokoto", "Taraba", "Yobe", "Zamfara",
}

// States returns all Nigerian state names sorted alphabetically. On
// upstream failure it falls back to a built-in list rather than
// erroring, so the enrollment form never loses its state picker.
func (s *service) States(ctx context.Context) ([]string, error) {
	if cached, ok := s.cacheGet(ctx, statesCacheKey); ok {
		return cached, nil
	}

	var entries []stateEntry
	if err := s.fetch(ctx, s.cfg.BaseURL+"/states", &entries); err != nil {
		s.logger.Warn("states fetch failed, using fallback", slog.Any("error", err))
		return fallbackStates, nil
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name)
	}
	sort.Strings(names)

	s.cacheSet(ctx, statesCacheKey, names)
	return names, nil
}

// LGAs returns the local government areas of a state, sorted. An
// unknown state or upstream failure yields an empty slice.
func (s *service) LGAs(ctx context.Context, state string) ([]string, error) {
	state = strings.TrimSpace(state)
	if state == "" {
		return []string{}, nil
	}

	cacheKey := lgaCachePrefix + strings.ToLower(state)
	if cached, ok := s.cacheGet(ctx, cacheKey); ok {
		return cached, nil
	}

	requestURL := s.cfg.BaseURL + "/state/" + url.PathEscape(strings.ToLower(state)) + "/lgas"

	var entries []lgaEntry
	if err := s.fetch(ctx, requestURL, &entries); err != nil {
		s.logger.Warn("lga fetch failed",
			slog.String("state", state),
			slog.Any("error", err),
		)
		return []string{}, nil
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name)
	}
	sort.Strings(names)

	s.cacheSet(ctx, cacheKey, names)
	return names, nil
}

func (s *service) fetch(ctx context.Context, requestURL string, out any) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := s.client.Do(req)
	latency := time.Since(start)

	if err != nil {
		return fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	respBytes, _ := io.ReadAll(resp.Body)

	s.logger.Debug("lookup response received",
		slog.String("url", requestURL),
		slog.Int("status", resp.StatusCode),
		slog.Duration("latency", latency),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("lookup failed: status=%d", resp.StatusCode)
	}

	if err := json.Unmarshal(respBytes, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

func (s *service) cacheGet(ctx context.Context, key string) ([]string, bool) {
	if s.rdb == nil {
		return nil, false
	}

	raw, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}

	var names []string
	if err := json.Unmarshal(raw, &names); err != nil {
		return nil, false
	}

	return names, true
}

func (s *service) cacheSet(ctx context.Context, key string, names []string) {
	if s.rdb == nil {
		return
	}

	raw, err := json.Marshal(names)
	if err != nil {
		return
	}

	ttl := s.cfg.CacheTTL
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}

	if err := s.rdb.Set(ctx, key, raw, ttl).Err(); err != nil {
		s.logger.Warn("lookup cache write failed",
			slog.String("key", key),
			slog.Any("error", err),
		)
	}
}
