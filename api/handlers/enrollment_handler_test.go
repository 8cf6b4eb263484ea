package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/riserschool/enrollment-portal-api/pkg/draft"
	"github.com/riserschool/enrollment-portal-api/pkg/enrollment"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCheckout struct {
	outcome enrollment.CheckoutOutcome
	err     error
}

func (f *fakeCheckout) Launch(context.Context, enrollment.PaymentSession) (enrollment.CheckoutOutcome, error) {
	return f.outcome, f.err
}

type fakeRecordStore struct {
	records []enrollment.Record
	err     error
}

func (f *fakeRecordStore) Append(_ context.Context, record enrollment.Record) error {
	if f.err != nil {
		return f.err
	}
	f.records = append(f.records, record)
	return nil
}

func validFormJSON() []byte {
	form := enrollment.Form{
		ShapeVersion:    enrollment.ShapeMultiStudent,
		ParentFirstName: "Ada",
		ParentLastName:  "Obi",
		ParentEmail:     "ada.obi@example.com",
		ParentPhone:     "08012345678",
		AcademicYear:    "2026-2027",
		Term:            "First Term",
		Students: []enrollment.StudentRecord{
			{
				FirstName:  "Chidi",
				LastName:   "Obi",
				DOB:        "2015-03-12",
				Gender:     "Male",
				GradeLevel: "Primary 4",
				Fees:       []enrollment.FeeLine{{Type: "Tuition Fee", Amount: 5000}},
			},
		},
	}
	data, _ := json.Marshal(form)
	return data
}

func newEnrollmentApp(checkout enrollment.Checkout, store enrollment.RecordStore) (*fiber.App, *enrollment.Workflow) {
	wf := enrollment.NewWorkflow("pk_test_abc", checkout, store, draft.NewMemoryStore(), enrollment.Options{
		Logger: slog.Default(),
	})

	app := fiber.New()
	app.Post("/api/enrollments", SubmitEnrollment(wf, slog.Default()))
	app.Get("/api/drafts/:id", GetDraft(wf))
	app.Put("/api/drafts/:id", SaveDraft(wf))
	app.Delete("/api/drafts/:id", DeleteDraft(wf))
	app.Post("/api/drafts/:id/rehydrate", RehydrateDraft(wf))

	return app, wf
}

func postJSON(t *testing.T, app *fiber.App, path string, body []byte) *http.Response {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeResult(t *testing.T, resp *http.Response) enrollment.Result {
	t.Helper()

	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var result enrollment.Result
	require.NoError(t, json.Unmarshal(data, &result))
	return result
}

func TestSubmitEnrollment_Success(t *testing.T) {
	store := &fakeRecordStore{}
	app, _ := newEnrollmentApp(&fakeCheckout{
		outcome: enrollment.CheckoutOutcome{Completed: true, Reference: "RISER_1_abc"},
	}, store)

	resp := postJSON(t, app, "/api/enrollments", validFormJSON())
	require.Equal(t, http.StatusOK, resp.StatusCode)

	result := decodeResult(t, resp)
	assert.True(t, result.Success)
	assert.Equal(t, enrollment.StatusSucceeded, result.Status)
	assert.Equal(t, "RISER_1_abc", result.Reference)
	require.Len(t, store.records, 1)
}

func TestSubmitEnrollment_InvalidForm(t *testing.T) {
	app, _ := newEnrollmentApp(&fakeCheckout{}, &fakeRecordStore{})

	form := enrollment.Form{
		ShapeVersion: enrollment.ShapeMultiStudent,
		ParentEmail:  "ada.obi@example.com",
	}
	body, _ := json.Marshal(form)

	resp := postJSON(t, app, "/api/enrollments", body)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	result := decodeResult(t, resp)
	assert.Equal(t, enrollment.StatusInvalidInput, result.Status)
	assert.NotEmpty(t, result.FieldErrors)
}

func TestSubmitEnrollment_MalformedPayload(t *testing.T) {
	app, _ := newEnrollmentApp(&fakeCheckout{}, &fakeRecordStore{})

	resp := postJSON(t, app, "/api/enrollments", []byte(`{"students": "nope"`))
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSubmitEnrollment_Cancelled(t *testing.T) {
	app, _ := newEnrollmentApp(&fakeCheckout{
		outcome: enrollment.CheckoutOutcome{Completed: false},
	}, &fakeRecordStore{})

	resp := postJSON(t, app, "/api/enrollments", validFormJSON())
	require.Equal(t, http.StatusOK, resp.StatusCode)

	result := decodeResult(t, resp)
	assert.False(t, result.Success)
	assert.Equal(t, enrollment.StatusCancelled, result.Status)
}

func TestSubmitEnrollment_CommitFailure(t *testing.T) {
	app, _ := newEnrollmentApp(&fakeCheckout{
		outcome: enrollment.CheckoutOutcome{Completed: true, Reference: "RISER_2_def"},
	}, &fakeRecordStore{err: assert.AnError})

	resp := postJSON(t, app, "/api/enrollments", validFormJSON())
	require.Equal(t, http.StatusBadGateway, resp.StatusCode)

	result := decodeResult(t, resp)
	assert.Equal(t, enrollment.StatusCommitFailed, result.Status)
	assert.Equal(t, "RISER_2_def", result.Reference)
}

func TestDraftRoundTrip(t *testing.T) {
	app, _ := newEnrollmentApp(&fakeCheckout{}, &fakeRecordStore{})

	payload := validFormJSON()

	req := httptest.NewRequest(http.MethodPut, "/api/drafts/d1", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/api/drafts/d1", http.NoBody)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	defer resp.Body.Close()
	stored, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, string(payload), string(stored))

	req = httptest.NewRequest(http.MethodDelete, "/api/drafts/d1", http.NoBody)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/api/drafts/d1", http.NoBody)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSaveDraft_RejectsInvalidJSON(t *testing.T) {
	app, _ := newEnrollmentApp(&fakeCheckout{}, &fakeRecordStore{})

	req := httptest.NewRequest(http.MethodPut, "/api/drafts/d1", bytes.NewReader([]byte(`{broken`)))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRehydrateDraft_FillsEmptyForm(t *testing.T) {
	app, wf := newEnrollmentApp(&fakeCheckout{}, &fakeRecordStore{})

	require.NoError(t, wf.SaveDraft(context.Background(), "d2", validFormJSON()))

	empty, _ := json.Marshal(enrollment.Form{})
	resp := postJSON(t, app, "/api/drafts/d2/rehydrate", empty)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var restored enrollment.Form
	require.NoError(t, json.Unmarshal(data, &restored))
	assert.Equal(t, "Ada", restored.ParentFirstName)
	require.Len(t, restored.Students, 1)
}
