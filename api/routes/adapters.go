package routes

import (
	"context"
	"fmt"

	"github.com/riserschool/enrollment-portal-api/pkg/enrollment"
	"github.com/riserschool/enrollment-portal-api/pkg/paystack"
	"github.com/riserschool/enrollment-portal-api/pkg/sheetdb"
)

// paystackCheckout adapts the Paystack checkout poller to the
// workflow's Checkout port.
type paystackCheckout struct {
	checkout *paystack.Checkout
}

func (a *paystackCheckout) Launch(ctx context.Context, session enrollment.PaymentSession) (enrollment.CheckoutOutcome, error) {
	out, err := a.checkout.Launch(ctx, paystack.CheckoutRequest{
		Email:      session.Email,
		AmountKobo: session.AmountKobo,
		Reference:  session.Reference,
		Metadata:   session.Metadata,
	})
	if err != nil {
		return enrollment.CheckoutOutcome{Reference: out.Reference}, err
	}

	return enrollment.CheckoutOutcome{
		Completed: out.Completed,
		Reference: out.Reference,
	}, nil
}

// sheetRecordStore adapts the SheetDB client to the workflow's
// RecordStore port.
type sheetRecordStore struct {
	svc sheetdb.Service
}

func (s *sheetRecordStore) Append(ctx context.Context, record enrollment.Record) error {
	if _, err := s.svc.Append(ctx, record); err != nil {
		return fmt.Errorf("append enrollment row: %w", err)
	}
	return nil
}
