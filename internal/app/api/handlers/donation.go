package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/storyloom/treasury/internal/app/service/reconciler"
	"github.com/storyloom/treasury/pkg/response"
	"github.com/storyloom/treasury/pkg/types"
)

type ConfirmDonationRequest struct {
	ProcessorRef  string              `json:"processor_ref"`
	PaymentMethod types.PaymentMethod `json:"payment_method"`
	AmountCents   int64               `json:"amount_cents"`
	DonorID       string              `json:"donor_id"`
	RecipientID   string              `json:"recipient_id"`
	StoryID       *string             `json:"story_id,omitempty"`
	Message       *string             `json:"message,omitempty"`
}

// @Summary      Confirm Donation
// @Description  Client-side confirmation that a gateway payment completed. Idempotent: repeated calls and webhook deliveries for the same payment converge on one donation.
// @Tags         Donation
// @Accept       json
// @Produce      json
// @Param        request body ConfirmDonationRequest true "Donation confirmation"
// @Success      200  {object}  handlers.RespDonation
// @Router       /api/v1/donations/confirm [post]
func ApiConfirmDonation(rec reconciler.Reconciler) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ConfirmDonationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}

		res, err := rec.Reconcile(c.Request.Context(), &reconciler.Request{
			ProcessorRef:   req.ProcessorRef,
			Method:         req.PaymentMethod,
			ProposedStatus: types.DonationStatusCollected,
			Payload: &reconciler.Payload{
				DonorID:     req.DonorID,
				RecipientID: req.RecipientID,
				AmountCents: req.AmountCents,
				StoryID:     req.StoryID,
				Message:     req.Message,
			},
			Reason: types.DonationChangeReasonConfirm,
		})
		if err != nil {
			if errors.Is(err, reconciler.ErrValidation) {
				c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
				return
			}
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(res.Donation))
	}
}

func RegisterDonationRoutes(r gin.IRouter, rec reconciler.Reconciler) {
	r.POST("/confirm", ApiConfirmDonation(rec))
}
