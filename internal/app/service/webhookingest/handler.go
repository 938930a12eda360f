package webhookingest

import (
	"encoding/json"
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/storyloom/treasury/internal/app/service/eventlog"
	"github.com/storyloom/treasury/internal/app/service/reconciler"
	"github.com/storyloom/treasury/internal/models"
	"github.com/storyloom/treasury/pkg/types"
)

// Handler authenticates and normalizes inbound gateway events, then hands
// them to the reconciler. It is safe to receive the same event any number
// of times: reconciliation is idempotent, so repeated deliveries converge.
type Handler struct {
	rec     reconciler.Reconciler
	events  *eventlog.Service
	parsers map[types.PaymentMethod]EventParser
	Logger  *zap.SugaredLogger
}

func NewHandler(rec reconciler.Reconciler, events *eventlog.Service, stripe *StripeParser, paypal *PayPalParser, log *zap.SugaredLogger) *Handler {
	return &Handler{
		rec:    rec,
		events: events,
		parsers: map[types.PaymentMethod]EventParser{
			stripe.Provider(): stripe,
			paypal.Provider(): paypal,
		},
		Logger: log,
	}
}

// HandleWebhook processes one delivery for the given provider. A returned
// error is either a signature/parse rejection (the HTTP layer maps
// gateway.ErrSignature to a non-200 so the gateway retries the delivery) or
// a business failure (acknowledged with an error envelope, logged, not
// retried by the gateway).
func (h *Handler) HandleWebhook(c *gin.Context, provider types.PaymentMethod) (resErr error) {
	parser, ok := h.parsers[provider]
	if !ok {
		return fmt.Errorf("unsupported provider: %s", provider)
	}

	event, err := parser.VerifyAndParse(c)
	if err != nil {
		return err
	}

	traceID := c.GetString("traceID")
	dataBytes, _ := json.Marshal(event)

	h.events.Save(c.Request.Context(), &models.WebhookEventLog{
		Provider:     string(provider),
		EventKind:    event.GatewayKind,
		ProcessorRef: event.ProcessorRef,
		TraceID:      traceID,
		Data:         datatypes.JSON(dataBytes),
		Status:       models.WebhookEventLogStatusReceived,
	})

	if event.Kind == EventKindIgnored {
		h.Logger.Infow("webhook event ignored", "provider", provider, "gateway_kind", event.GatewayKind)
		return nil
	}

	var result *reconciler.Result
	defer func() {
		resMap := map[string]any{}
		if result != nil {
			resMap["donation_id"] = result.Donation.ID
			resMap["status"] = result.Donation.Status
			resMap["transitioned"] = result.Transitioned
		}
		if resErr != nil {
			resMap["error"] = resErr.Error()
		}
		resBytes, _ := json.Marshal(resMap)
		resJSON := datatypes.JSON(resBytes)
		status := models.WebhookEventLogStatusHandled
		if resErr != nil {
			status = models.WebhookEventLogStatusHandleFailed
		}
		h.events.Save(c.Request.Context(), &models.WebhookEventLog{
			Provider:     string(provider),
			EventKind:    event.GatewayKind,
			ProcessorRef: event.ProcessorRef,
			TraceID:      traceID,
			Data:         datatypes.JSON(dataBytes),
			Result:       &resJSON,
			Status:       status,
		})
	}()

	result, resErr = h.rec.Reconcile(c.Request.Context(), &reconciler.Request{
		ProcessorRef:   event.ProcessorRef,
		Method:         provider,
		ProposedStatus: event.proposedStatus(),
		Payload:        event.Payload,
		Reason:         types.DonationChangeReasonWebhook,
	})
	if resErr != nil {
		resErr = fmt.Errorf("failed to reconcile webhook event: %w", resErr)
		return resErr
	}

	h.Logger.Infow("webhook event reconciled",
		"provider", provider, "gateway_kind", event.GatewayKind,
		"processor_ref", event.ProcessorRef, "donation_id", result.Donation.ID,
		"status", result.Donation.Status, "transitioned", result.Transitioned)
	return nil
}
