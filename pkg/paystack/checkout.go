package paystack

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"
)

// CheckoutRequest carries what the gateway needs to open a checkout
// for a single transaction.
type CheckoutRequest struct {
	Email      string
	AmountKobo int64
	Reference  string
	Metadata   map[string]string
}

// CheckoutOutcome reports how a checkout attempt ended. Completed is
// true only when Paystack verified the transaction as successful.
type CheckoutOutcome struct {
	Completed bool
	Reference string
	// Status is the raw transaction status Paystack reported last.
	Status string
}

// Checkout initializes a transaction and polls verification until the
// transaction reaches a terminal state or ctx expires. The caller owns
// the deadline; an expired ctx surfaces as ctx.Err().
type Checkout struct {
	svc      Service
	interval time.Duration
	logger   *slog.Logger
}

func NewCheckout(svc Service, interval time.Duration, logger *slog.Logger) *Checkout {
	if logger == nil {
		logger = slog.Default()
	}
	if interval <= 0 {
		interval = 3 * time.Second
	}

	return &Checkout{
		svc:      svc,
		interval: interval,
		logger:   logger.With(slog.String("component", "paystack_checkout")),
	}
}

func (c *Checkout) Launch(ctx context.Context, req CheckoutRequest) (CheckoutOutcome, error) {
	initReq := InitializeRequest{
		Email:     req.Email,
		Amount:    req.AmountKobo,
		Reference: req.Reference,
		Metadata:  metadataFields(req.Metadata),
	}

	data, err := c.svc.Initialize(ctx, initReq)
	if err != nil {
		return CheckoutOutcome{Reference: req.Reference}, fmt.Errorf("open checkout: %w", err)
	}

	reference := data.Reference
	if reference == "" {
		reference = req.Reference
	}

	log := c.logger.With(slog.String("reference", reference))
	log.Info("checkout opened", slog.String("authorization_url", data.AuthorizationURL))

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return CheckoutOutcome{Reference: reference}, ctx.Err()
		case <-ticker.C:
		}

		verified, err := c.svc.Verify(ctx, reference)
		if err != nil {
			if ctx.Err() != nil {
				return CheckoutOutcome{Reference: reference}, ctx.Err()
			}
			// Transient verify failures keep the poll alive; the
			// deadline bounds how long we retry.
			log.Warn("verify attempt failed", slog.Any("error", err))
			continue
		}

		if !verified.Terminal() {
			log.Debug("transaction still open", slog.String("status", verified.Status))
			continue
		}

		outcome := CheckoutOutcome{
			Completed: verified.Status == TransactionSuccess,
			Reference: reference,
			Status:    verified.Status,
		}

		log.Info("checkout settled",
			slog.String("status", verified.Status),
			slog.Bool("completed", outcome.Completed),
		)

		return outcome, nil
	}
}

// metadataFields renders loose key/value metadata as Paystack custom
// fields, skipping blank values. Keys are sorted so the rendered order
// is stable.
func metadataFields(meta map[string]string) *Metadata {
	if len(meta) == 0 {
		return nil
	}

	keys := make([]string, 0, len(meta))
	for k := range meta {
		if meta[k] == "" {
			continue
		}
		keys = append(keys, k)
	}
	if len(keys) == 0 {
		return nil
	}
	sort.Strings(keys)

	fields := make([]CustomField, 0, len(keys))
	for _, k := range keys {
		fields = append(fields, CustomField{
			DisplayName:  displayName(k),
			VariableName: k,
			Value:        meta[k],
		})
	}

	return &Metadata{CustomFields: fields}
}

func displayName(key string) string {
	out := make([]rune, 0, len(key))
	upper := true
	for _, r := range key {
		if r == '_' {
			out = append(out, ' ')
			upper = true
			continue
		}
		if upper && r >= 'a' && r <= 'z' {
			r = r - 'a' + 'A'
		}
		upper = false
		out = append(out, r)
	}
	return string(out)
}
