package enrollment

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riserschool/enrollment-portal-api/pkg/draft"
)

type fakeCheckout struct {
	called  bool
	session PaymentSession
	outcome CheckoutOutcome
	err     error
	// When set, Launch blocks until the context is done and returns its
	// error, simulating a checkout that never reaches a terminal outcome.
	hang bool
}

func (f *fakeCheckout) Launch(ctx context.Context, session PaymentSession) (CheckoutOutcome, error) {
	f.called = true
	f.session = session
	if f.hang {
		<-ctx.Done()
		return CheckoutOutcome{}, ctx.Err()
	}
	return f.outcome, f.err
}

type fakeStore struct {
	called bool
	record Record
	err    error
}

func (f *fakeStore) Append(_ context.Context, record Record) error {
	f.called = true
	f.record = record
	return f.err
}

func validForm() Form {
	return Form{
		ParentFirstName: "Ada",
		ParentLastName:  "Obi",
		ParentEmail:     "ada@example.com",
		ParentPhone:     "08012345678",
		AcademicYear:    "2026-2027",
		Term:            "First term",
		Students: []StudentRecord{
			{
				FirstName:  "Ngozi",
				LastName:   "Obi",
				DOB:        "2018-03-14",
				Gender:     "female",
				GradeLevel: "Primary 1",
				Fees: []FeeLine{
					{Type: "Tuition Fee", Amount: 5000},
					{Type: "Registration Fee", Amount: 500},
				},
			},
		},
	}
}

func newTestWorkflow(t *testing.T, checkout Checkout, store RecordStore, drafts draft.Store) *Workflow {
	t.Helper()

	if drafts == nil {
		drafts = draft.NewMemoryStore()
	}

	return NewWorkflow("pk_test_abc", checkout, store, drafts, Options{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func TestSubmit_MissingPublicKey(t *testing.T) {
	checkout := &fakeCheckout{}
	store := &fakeStore{}
	wf := NewWorkflow("", checkout, store, draft.NewMemoryStore(), Options{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	result, err := wf.Submit(context.Background(), validForm(), "")
	require.NoError(t, err)

	assert.Equal(t, StatusInvalidInput, result.Status)
	assert.Equal(t, "Paystack public key is missing.", result.Message)
	assert.False(t, checkout.called, "checkout must never open on local validation failure")
	assert.False(t, store.called)
}

func TestSubmit_EmptyEmailNeverOpensCheckout(t *testing.T) {
	checkout := &fakeCheckout{}
	form := validForm()
	form.ParentEmail = ""

	wf := newTestWorkflow(t, checkout, &fakeStore{}, nil)

	result, err := wf.Submit(context.Background(), form, "")
	require.NoError(t, err)

	assert.Equal(t, StatusInvalidInput, result.Status)
	assert.False(t, checkout.called)
}

func TestSubmit_NonPositiveTotalNeverOpensCheckout(t *testing.T) {
	checkout := &fakeCheckout{}
	form := validForm()
	form.Students[0].Fees = []FeeLine{{Type: "Tuition Fee", Amount: 0}}

	wf := newTestWorkflow(t, checkout, &fakeStore{}, nil)

	result, err := wf.Submit(context.Background(), form, "")
	require.NoError(t, err)

	assert.Equal(t, StatusInvalidInput, result.Status)
	assert.False(t, checkout.called)
}

func TestSubmit_SchemaViolationsReportFields(t *testing.T) {
	checkout := &fakeCheckout{}
	form := validForm()
	form.ParentEmail = "not-an-email"
	form.Students[0].Fees = nil

	wf := newTestWorkflow(t, checkout, &fakeStore{}, nil)

	result, err := wf.Submit(context.Background(), form, "")
	require.NoError(t, err)

	assert.Equal(t, StatusInvalidInput, result.Status)
	assert.Contains(t, result.FieldErrors, "parentEmail")
	assert.Contains(t, result.FieldErrors, "students[0].fees")
	assert.False(t, checkout.called)
}

func TestSubmit_Cancelled(t *testing.T) {
	checkout := &fakeCheckout{outcome: CheckoutOutcome{Completed: false}}
	store := &fakeStore{}
	wf := newTestWorkflow(t, checkout, store, nil)

	key := SubmissionKey(validForm(), "")
	before := wf.PendingReference(key)

	result, err := wf.Submit(context.Background(), validForm(), "")
	require.NoError(t, err)

	assert.Equal(t, StatusCancelled, result.Status)
	assert.Equal(t, "Payment cancelled. Please try again.", result.Message)
	assert.False(t, store.called, "cancellation must not commit anything")
	assert.NotEqual(t, before, wf.PendingReference(key), "reference regenerated after every attempt")
}

func TestSubmit_Success(t *testing.T) {
	checkout := &fakeCheckout{outcome: CheckoutOutcome{Completed: true, Reference: "PSK_123"}}
	store := &fakeStore{}
	drafts := draft.NewMemoryStore()
	require.NoError(t, drafts.Save(context.Background(), "d1", []byte(`{}`)))

	wf := newTestWorkflow(t, checkout, store, drafts)
	key := SubmissionKey(validForm(), "d1")
	before := wf.PendingReference(key)

	result, err := wf.Submit(context.Background(), validForm(), "d1")
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, StatusSucceeded, result.Status)
	assert.Equal(t, "PSK_123", result.Reference)

	require.True(t, store.called)
	assert.Equal(t, "PSK_123", store.record.PaymentReference)
	assert.Equal(t, "completed", store.record.PaymentStatus)
	assert.Equal(t, int64(550000), store.record.AmountInKobo)

	_, err = drafts.Load(context.Background(), "d1")
	assert.ErrorIs(t, err, draft.ErrNotFound, "draft cleared after confirmed commit")

	assert.NotEqual(t, before, wf.PendingReference(key))

	assert.True(t, checkout.called)
	assert.Equal(t, before, checkout.session.Reference, "checkout opened with the pending reference")
	assert.Equal(t, "ada@example.com", checkout.session.Email)
}

func TestSubmit_SuccessWithoutProcessorReferenceFallsBack(t *testing.T) {
	checkout := &fakeCheckout{outcome: CheckoutOutcome{Completed: true}}
	store := &fakeStore{}
	wf := newTestWorkflow(t, checkout, store, nil)

	pending := wf.PendingReference(SubmissionKey(validForm(), ""))

	result, err := wf.Submit(context.Background(), validForm(), "")
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, pending, result.Reference)
	assert.Equal(t, pending, store.record.PaymentReference)
}

func TestSubmit_CommitFailureRetainsReference(t *testing.T) {
	checkout := &fakeCheckout{outcome: CheckoutOutcome{Completed: true, Reference: "PSK_9"}}
	store := &fakeStore{err: errors.New("upstream 500")}
	drafts := draft.NewMemoryStore()
	require.NoError(t, drafts.Save(context.Background(), "d1", []byte(`{}`)))

	wf := newTestWorkflow(t, checkout, store, drafts)

	result, err := wf.Submit(context.Background(), validForm(), "d1")

	var cerr *CommitError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "PSK_9", cerr.Reference)

	assert.False(t, result.Success)
	assert.Equal(t, StatusCommitFailed, result.Status)
	assert.Equal(t, "PSK_9", result.Reference, "reference retained for manual support")
	assert.Equal(t, "Payment succeeded, but saving enrollment failed. Contact support.", result.Message)

	_, loadErr := drafts.Load(context.Background(), "d1")
	assert.NoError(t, loadErr, "draft must survive a failed commit")
}

func TestSubmit_FailsafeTimeout(t *testing.T) {
	checkout := &fakeCheckout{hang: true}
	store := &fakeStore{}
	wf := NewWorkflow("pk_test_abc", checkout, store, draft.NewMemoryStore(), Options{
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Failsafe: 20 * time.Millisecond,
	})

	key := SubmissionKey(validForm(), "")
	before := wf.PendingReference(key)

	result, err := wf.Submit(context.Background(), validForm(), "")
	require.NoError(t, err)

	assert.Equal(t, StatusTimedOut, result.Status)
	assert.False(t, store.called, "a success after the failsafe is stale and never committed")
	assert.NotEqual(t, before, wf.PendingReference(key))
	assert.Equal(t, StateIdle, wf.State(key))
}

func TestSubmit_SingleAttemptInFlight(t *testing.T) {
	release := make(chan struct{})
	checkout := &blockingCheckout{
		entered: make(chan struct{}),
		release: release,
	}
	wf := newTestWorkflow(t, checkout, &fakeStore{}, nil)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = wf.Submit(context.Background(), validForm(), "")
	}()

	<-checkout.entered

	_, err := wf.Submit(context.Background(), validForm(), "")
	assert.ErrorIs(t, err, ErrSubmissionInFlight)

	close(release)
	<-done
}

// blockingCheckout parks its first Launch until released; later launches
// return a dismissal immediately.
type blockingCheckout struct {
	entered chan struct{}
	release chan struct{}
	once    bool
}

func (b *blockingCheckout) Launch(ctx context.Context, _ PaymentSession) (CheckoutOutcome, error) {
	if b.once {
		return CheckoutOutcome{Completed: false}, nil
	}
	b.once = true
	close(b.entered)

	select {
	case <-b.release:
		return CheckoutOutcome{Completed: false}, nil
	case <-ctx.Done():
		return CheckoutOutcome{}, ctx.Err()
	}
}

func TestSubmit_IndependentFormsNotSerialized(t *testing.T) {
	release := make(chan struct{})
	checkout := &blockingCheckout{
		entered: make(chan struct{}),
		release: release,
	}
	wf := newTestWorkflow(t, checkout, &fakeStore{}, nil)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = wf.Submit(context.Background(), validForm(), "")
	}()

	<-checkout.entered

	// A different parent's form must not be blocked by the first
	// parent's in-progress checkout.
	other := validForm()
	other.ParentEmail = "bola@example.com"

	result, err := wf.Submit(context.Background(), other, "")
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, result.Status)

	close(release)
	<-done
}

func TestSubmissionKey(t *testing.T) {
	form := validForm()

	assert.Equal(t, "draft:d1", SubmissionKey(form, "d1"), "draft id wins when present")
	assert.Equal(t, "email:ada@example.com", SubmissionKey(form, ""))

	form.ParentEmail = "  Ada@Example.com "
	assert.Equal(t, "email:ada@example.com", SubmissionKey(form, ""), "email is normalized")
}

func TestRehydrate_OnlyIntoEmptyForm(t *testing.T) {
	drafts := draft.NewMemoryStore()
	saved := validForm()
	data, err := json.Marshal(saved)
	require.NoError(t, err)
	require.NoError(t, drafts.Save(context.Background(), "d1", data))

	wf := newTestWorkflow(t, &fakeCheckout{}, &fakeStore{}, drafts)

	restored, err := wf.Rehydrate(context.Background(), Form{}, "d1")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", restored.ParentEmail)

	partial := Form{ParentFirstName: "Chidi"}
	untouched, err := wf.Rehydrate(context.Background(), partial, "d1")
	require.NoError(t, err)
	assert.Equal(t, partial, untouched, "a non-empty form is never overwritten by the draft")

	stateOnly := Form{State: "Lagos"}
	kept, err := wf.Rehydrate(context.Background(), stateOnly, "d1")
	require.NoError(t, err)
	assert.Equal(t, stateOnly, kept, "picking only a state already counts as input")

	missing, err := wf.Rehydrate(context.Background(), Form{}, "no-such-draft")
	require.NoError(t, err)
	assert.True(t, missing.IsEmpty())
}

func TestSaveDraft_RejectsInvalidJSON(t *testing.T) {
	wf := newTestWorkflow(t, &fakeCheckout{}, &fakeStore{}, nil)

	err := wf.SaveDraft(context.Background(), "d1", []byte("{nope"))
	require.Error(t, err)

	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}
