package enrollment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/riserschool/enrollment-portal-api/pkg/draft"
)

// State is the position of the submission workflow within one attempt.
type State int32

const (
	StateIdle State = iota
	StateValidating
	StateAwaitingPayment
	StatePaymentSucceeded
	StateCommitting
	StateSuccessDisplayed
)

var stateName = map[State]string{
	StateIdle:             "IDLE",
	StateValidating:       "VALIDATING",
	StateAwaitingPayment:  "AWAITING_PAYMENT",
	StatePaymentSucceeded: "PAYMENT_SUCCEEDED",
	StateCommitting:       "COMMITTING",
	StateSuccessDisplayed: "SUCCESS_DISPLAYED",
}

func (s State) String() string {
	return stateName[s]
}

// ErrSubmissionInFlight is returned when a second attempt is started for a
// form that already has one running. Mutual exclusion is scoped to the
// form, not the server: independent forms submit concurrently.
var ErrSubmissionInFlight = errors.New("a submission is already in flight for this form")

// CheckoutOutcome is the terminal event of one checkout attempt. Completed
// means the processor confirmed payment; anything else is a dismissal, not
// an error. Reference may be empty even on success, in which case the
// locally generated pending reference is used instead.
type CheckoutOutcome struct {
	Completed bool
	Reference string
}

// Checkout opens the payment processor's hosted checkout and blocks until a
// terminal outcome or context cancellation. Exactly one outcome is returned
// per attempt.
type Checkout interface {
	Launch(ctx context.Context, session PaymentSession) (CheckoutOutcome, error)
}

// RecordStore commits the flattened enrollment record after payment.
type RecordStore interface {
	Append(ctx context.Context, record Record) error
}

// CommitError wraps a storage failure that happened after money already
// moved. The payment is sunk; the reference is retained so support can
// reconcile manually. Never retried automatically.
type CommitError struct {
	Reference string
	Err       error
}

func (e *CommitError) Error() string {
	return fmt.Sprintf("enrollment commit failed for payment %s: %v", e.Reference, e.Err)
}

func (e *CommitError) Unwrap() error {
	return e.Err
}

const (
	msgMissingKey   = "Paystack public key is missing."
	msgMissingEmail = "Please provide a parent email address."
	msgNoPayable    = "Please add at least one fee with a valid amount."
	msgCancelled    = "Payment cancelled. Please try again."
	msgTimedOut     = "Payment was not completed in time. Please try again."
	msgCommitFailed = "Payment succeeded, but saving enrollment failed. Contact support."
	msgSucceeded    = "Thank you! Your payment and enrollment have been successfully submitted."
)

// SubmissionKey identifies the form instance an attempt belongs to. The
// draft id wins when present; otherwise the parent email stands in for the
// form, since one parent fills one form at a time.
func SubmissionKey(form Form, draftID string) string {
	if draftID != "" {
		return "draft:" + draftID
	}
	return "email:" + strings.ToLower(strings.TrimSpace(form.ParentEmail))
}

type Options struct {
	Logger *slog.Logger
	// How long to wait for a terminal checkout outcome before abandoning
	// the attempt locally. Defaults to 60 seconds.
	Failsafe time.Duration
	// Override for testing.
	Clock func() time.Time
	// Override for testing.
	NewReference func() string
}

// Workflow owns the enrollment submission sequence: validate, aggregate,
// hand off to checkout, commit the record. One shared instance coordinates
// all forms; in-flight guards, states and pending references are keyed per
// form by SubmissionKey.
type Workflow struct {
	publicKey string
	checkout  Checkout
	store     RecordStore
	drafts    draft.Store
	logger    *slog.Logger

	failsafe     time.Duration
	clock        func() time.Time
	newReference func() string

	mu          sync.Mutex
	inFlight    map[string]struct{}
	states      map[string]State
	pendingRefs map[string]string
}

func NewWorkflow(publicKey string, checkout Checkout, store RecordStore, drafts draft.Store, opts Options) *Workflow {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "enrollment"))

	failsafe := opts.Failsafe
	if failsafe <= 0 {
		failsafe = 60 * time.Second
	}

	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}

	newReference := opts.NewReference
	if newReference == nil {
		newReference = NewReference
	}

	return &Workflow{
		publicKey:    publicKey,
		checkout:     checkout,
		store:        store,
		drafts:       drafts,
		logger:       logger,
		failsafe:     failsafe,
		clock:        clock,
		newReference: newReference,
		inFlight:     make(map[string]struct{}),
		states:       make(map[string]State),
		pendingRefs:  make(map[string]string),
	}
}

// State reports where the given form's attempt currently is. A form with
// no running attempt is idle.
func (w *Workflow) State(key string) State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.states[key]
}

// PendingReference is the reference the form's next checkout attempt will
// be opened with, generated on first use.
func (w *Workflow) PendingReference(key string) string {
	w.mu.Lock()
	defer w.mu.Unlock()

	ref, ok := w.pendingRefs[key]
	if !ok {
		ref = w.newReference()
		w.pendingRefs[key] = ref
	}
	return ref
}

// begin claims the form's in-flight slot; false means an attempt for the
// same form is still running.
func (w *Workflow) begin(key string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, busy := w.inFlight[key]; busy {
		return false
	}
	w.inFlight[key] = struct{}{}
	return true
}

func (w *Workflow) end(ctx context.Context, key string) {
	w.mu.Lock()
	prev := w.states[key]
	delete(w.inFlight, key)
	delete(w.states, key)
	w.mu.Unlock()

	w.logger.DebugContext(ctx, "state transition",
		slog.String("key", key),
		slog.String("from", prev.String()),
		slog.String("to", StateIdle.String()),
	)
}

func (w *Workflow) setState(ctx context.Context, key string, next State) {
	w.mu.Lock()
	prev := w.states[key]
	w.states[key] = next
	w.mu.Unlock()

	w.logger.DebugContext(ctx, "state transition",
		slog.String("key", key),
		slog.String("from", prev.String()),
		slog.String("to", next.String()),
	)
}

// regenerateReference swaps in a fresh pending reference for the form and
// returns the one it replaced. Called after every attempt regardless of
// outcome.
func (w *Workflow) regenerateReference(key string) string {
	w.mu.Lock()
	defer w.mu.Unlock()

	prev := w.pendingRefs[key]
	w.pendingRefs[key] = w.newReference()
	return prev
}

// Submit runs one full submission attempt. Domain outcomes (invalid input,
// cancellation, timeout) are reported through the Result; the error return
// carries ErrSubmissionInFlight, a wrapped checkout failure, or a
// *CommitError alongside the commit-failed Result.
func (w *Workflow) Submit(ctx context.Context, form Form, draftID string) (Result, error) {
	key := SubmissionKey(form, draftID)

	if !w.begin(key) {
		return Result{}, ErrSubmissionInFlight
	}
	defer w.end(ctx, key)

	w.setState(ctx, key, StateValidating)

	if verr := w.validateAttempt(form); verr != nil {
		return Result{
			Status:      StatusInvalidInput,
			Message:     verr.Message,
			FieldErrors: verr.Fields,
		}, nil
	}

	total := TotalAmount(form.Students)
	session := PaymentSession{
		Reference:  w.PendingReference(key),
		Email:      form.ParentEmail,
		AmountKobo: AmountInKobo(total),
		Metadata:   form.SessionMetadata(),
	}

	w.setState(ctx, key, StateAwaitingPayment)

	outcome, err := w.launchCheckout(ctx, session)
	if err != nil {
		w.regenerateReference(key)
		if errors.Is(err, context.DeadlineExceeded) {
			// The failsafe fired before a terminal outcome arrived. A
			// success surfacing after this point is stale and is not
			// committed.
			w.logger.WarnContext(ctx, "checkout failsafe fired",
				slog.String("reference", session.Reference),
				slog.Duration("failsafe", w.failsafe),
			)
			return Result{Status: StatusTimedOut, Message: msgTimedOut}, nil
		}
		return Result{}, fmt.Errorf("checkout: %w", err)
	}

	if !outcome.Completed {
		w.regenerateReference(key)
		return Result{Status: StatusCancelled, Message: msgCancelled}, nil
	}

	w.setState(ctx, key, StatePaymentSucceeded)

	finalRef := outcome.Reference
	if finalRef == "" {
		finalRef = session.Reference
	}

	w.setState(ctx, key, StateCommitting)

	record := BuildRecord(form, finalRef, w.clock())
	if err := w.store.Append(ctx, record); err != nil {
		w.regenerateReference(key)
		cerr := &CommitError{Reference: finalRef, Err: err}
		w.logger.ErrorContext(ctx, "post-payment commit failed",
			slog.String("reference", finalRef),
			slog.Any("err", err),
		)
		return Result{
			Status:    StatusCommitFailed,
			Message:   msgCommitFailed,
			Reference: finalRef,
		}, cerr
	}

	w.setState(ctx, key, StateSuccessDisplayed)

	if draftID != "" {
		if err := w.drafts.Clear(ctx, draftID); err != nil {
			w.logger.WarnContext(ctx, "failed to clear draft after commit",
				slog.String("draft_id", draftID),
				slog.Any("err", err),
			)
		}
	}

	w.regenerateReference(key)

	w.logger.InfoContext(ctx, "enrollment committed",
		slog.String("reference", finalRef),
		slog.Float64("amount", total),
		slog.Int("students", len(form.Students)),
	)

	return Result{
		Success:   true,
		Status:    StatusSucceeded,
		Message:   msgSucceeded,
		Reference: finalRef,
	}, nil
}

// validateAttempt covers both the schema checks and the fail-fast guards
// the payment handoff applies before opening the checkout.
func (w *Workflow) validateAttempt(form Form) *ValidationError {
	if w.publicKey == "" {
		return newValidationError(msgMissingKey)
	}
	if form.ParentEmail == "" {
		return newValidationError(msgMissingEmail)
	}
	if verr := ValidateForm(form); verr != nil {
		return verr
	}
	if TotalAmount(form.Students) <= 0 {
		return newValidationError(msgNoPayable)
	}
	return nil
}

func (w *Workflow) launchCheckout(ctx context.Context, session PaymentSession) (CheckoutOutcome, error) {
	cctx, cancel := context.WithTimeout(ctx, w.failsafe)
	defer cancel()

	return w.checkout.Launch(cctx, session)
}

// SaveDraft mirrors the in-progress form while it has not been submitted.
func (w *Workflow) SaveDraft(ctx context.Context, draftID string, data []byte) error {
	if !json.Valid(data) {
		return newValidationError("draft payload is not valid JSON")
	}
	return w.drafts.Save(ctx, draftID, data)
}

// LoadDraft returns the persisted draft payload, or draft.ErrNotFound.
func (w *Workflow) LoadDraft(ctx context.Context, draftID string) ([]byte, error) {
	return w.drafts.Load(ctx, draftID)
}

// ClearDraft discards a persisted draft.
func (w *Workflow) ClearDraft(ctx context.Context, draftID string) error {
	return w.drafts.Clear(ctx, draftID)
}

// Rehydrate fills an entirely empty form from the persisted draft. A form
// with anything already entered is returned untouched; a missing draft is
// not an error.
func (w *Workflow) Rehydrate(ctx context.Context, form Form, draftID string) (Form, error) {
	if !form.IsEmpty() {
		return form, nil
	}

	data, err := w.drafts.Load(ctx, draftID)
	if errors.Is(err, draft.ErrNotFound) {
		return form, nil
	}
	if err != nil {
		return form, err
	}

	restored, err := DecodeForm(data)
	if err != nil {
		return form, fmt.Errorf("rehydrate draft %s: %w", draftID, err)
	}
	return restored, nil
}
