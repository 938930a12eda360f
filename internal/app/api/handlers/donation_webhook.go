package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/storyloom/treasury/internal/app/service/webhookingest"
	"github.com/storyloom/treasury/internal/platform/gateway"
	"github.com/storyloom/treasury/pkg/logctx"
	"github.com/storyloom/treasury/pkg/response"
	"github.com/storyloom/treasury/pkg/types"
)

// @Summary      Stripe Webhook
// @Description  Handles Stripe payment events. The body must carry a valid Stripe-Signature header.
// @Tags         Webhook
// @Accept       json
// @Produce      json
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/payment/webhook/stripe [post]
func ApiStripeWebhook(h *webhookingest.Handler) gin.HandlerFunc {
	return webhookHandler(h, types.PaymentMethodStripe)
}

// @Summary      PayPal Webhook
// @Description  Handles PayPal payment events, verified against the configured webhook ID.
// @Tags         Webhook
// @Accept       json
// @Produce      json
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/payment/webhook/paypal [post]
func ApiPayPalWebhook(h *webhookingest.Handler) gin.HandlerFunc {
	return webhookHandler(h, types.PaymentMethodPayPal)
}

func webhookHandler(h *webhookingest.Handler, provider types.PaymentMethod) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logctx.FromGin(c, h.Logger)
		log.Infow("webhook_received", "provider", provider)

		if err := h.HandleWebhook(c, provider); err != nil {
			log.Errorw("webhook_handle_error", "provider", provider, "error", err.Error())
			// An unverifiable delivery gets a non-200 so the gateway retries;
			// anything past verification is acknowledged with an error envelope.
			if errors.Is(err, gateway.ErrSignature) {
				c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
				return
			}
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		log.Infow("webhook_handled", "provider", provider)
		c.JSON(http.StatusOK, response.OKT[any](nil))
	}
}

func RegisterPaymentWebhookRoutes(r gin.IRouter, h *webhookingest.Handler) {
	r.POST("/stripe", ApiStripeWebhook(h))
	r.POST("/paypal", ApiPayPalWebhook(h))
}
