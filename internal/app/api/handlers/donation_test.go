package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/storyloom/treasury/internal/app/service/reconciler"
	"github.com/storyloom/treasury/internal/models"
	"github.com/storyloom/treasury/pkg/types"
)

type stubReconciler struct {
	lastReq *reconciler.Request
}

func (s *stubReconciler) Reconcile(_ context.Context, req *reconciler.Request) (*reconciler.Result, error) {
	s.lastReq = req
	if req.ProcessorRef == "" {
		return nil, fmt.Errorf("%w: processor ref is empty", reconciler.ErrValidation)
	}
	return &reconciler.Result{
		Donation: &models.Donation{
			ID:            "don-1",
			ProcessorRef:  req.ProcessorRef,
			PaymentMethod: req.Method,
			Status:        types.DonationStatusCollected,
		},
		Created:      true,
		Transitioned: true,
	}, nil
}

func TestApiConfirmDonation_ReconcilesToCollected(t *testing.T) {
	gin.SetMode(gin.TestMode)
	stub := &stubReconciler{}
	r := gin.New()
	r.POST("/api/v1/donations/confirm", ApiConfirmDonation(stub))

	body, _ := json.Marshal(map[string]any{
		"processor_ref":  "pi_123",
		"payment_method": "stripe",
		"amount_cents":   2500,
		"donor_id":       "user-donor",
		"recipient_id":   "user-author",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/donations/confirm", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"code":0`)
	require.Contains(t, w.Body.String(), "don-1")

	require.NotNil(t, stub.lastReq)
	require.Equal(t, types.DonationStatusCollected, stub.lastReq.ProposedStatus)
	require.Equal(t, types.DonationChangeReasonConfirm, stub.lastReq.Reason)
	require.NotNil(t, stub.lastReq.Payload)
	require.Equal(t, int64(2500), stub.lastReq.Payload.AmountCents)
}

func TestApiConfirmDonation_ValidationError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/v1/donations/confirm", ApiConfirmDonation(&stubReconciler{}))

	body, _ := json.Marshal(map[string]any{
		"payment_method": "stripe",
		"amount_cents":   2500,
		"donor_id":       "user-donor",
		"recipient_id":   "user-author",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/donations/confirm", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"code":40000`)
}
