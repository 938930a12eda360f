package webhookingest

import (
	"github.com/gin-gonic/gin"

	"github.com/storyloom/treasury/pkg/types"
)

// EventParser verifies and normalizes one provider's webhook deliveries.
// VerifyAndParse must complete signature verification before doing any
// parsing or database access; a signature failure wraps gateway.ErrSignature.
type EventParser interface {
	Provider() types.PaymentMethod
	VerifyAndParse(c *gin.Context) (*Event, error)
}
