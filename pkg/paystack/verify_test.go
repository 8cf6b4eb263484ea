package paystack

import (
	"context"
	"net/http"
	"testing"

	"github.com/riserschool/enrollment-portal-api/pkg/core"
	"github.com/stretchr/testify/require"
)

func TestVerify_Success(t *testing.T) {
	ft := &fakeTransport{
		resp: jsonResponse(http.StatusOK, `{
			"status": true,
			"message": "Verification successful",
			"data": {
				"status": "success",
				"reference": "RISER_1756600000000_a1b2c3d4",
				"amount": 550000,
				"gateway_response": "Successful",
				"channel": "card",
				"currency": "NGN"
			}
		}`),
	}

	svc := New(&core.PaystackConfig{
		BaseURL:   "https://example.test",
		SecretKey: "sk_test_abc",
	}, Options{HTTPClient: ft})

	out, err := svc.Verify(context.Background(), "RISER_1756600000000_a1b2c3d4")
	require.NoError(t, err)

	require.Equal(t, http.MethodGet, ft.req.Method)
	require.Equal(t, "https://example.test/transaction/verify/RISER_1756600000000_a1b2c3d4", ft.req.URL.String())
	require.Equal(t, "Bearer sk_test_abc", ft.req.Header.Get("Authorization"))

	require.Equal(t, TransactionSuccess, out.Status)
	require.Equal(t, int64(550000), out.Amount)
	require.True(t, out.Terminal())
}

func TestVerify_PendingNotTerminal(t *testing.T) {
	ft := &fakeTransport{
		resp: jsonResponse(http.StatusOK, `{
			"status": true,
			"message": "Verification successful",
			"data": {"status": "ongoing", "reference": "RISER_1_x"}
		}`),
	}

	svc := New(&core.PaystackConfig{
		BaseURL:   "https://example.test",
		SecretKey: "sk_test_abc",
	}, Options{HTTPClient: ft})

	out, err := svc.Verify(context.Background(), "RISER_1_x")
	require.NoError(t, err)
	require.False(t, out.Terminal())
}

func TestVerify_Non2xx(t *testing.T) {
	ft := &fakeTransport{
		resp: jsonResponse(http.StatusNotFound, `{"status": false, "message": "Transaction reference not found"}`),
	}

	svc := New(&core.PaystackConfig{
		BaseURL:   "https://example.test",
		SecretKey: "sk_test_abc",
	}, Options{HTTPClient: ft})

	_, err := svc.Verify(context.Background(), "missing")
	require.Error(t, err)
	require.Contains(t, err.Error(), "status=404")
}
