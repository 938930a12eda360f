package handlers

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/storyloom/treasury/internal/app/service/payout"
	"github.com/storyloom/treasury/pkg/config"
	"github.com/storyloom/treasury/pkg/response"
)

const payoutSecretHeader = "X-Payout-Secret"

// @Summary      Run Payout Batch
// @Description  Triggers one payout sweep over settled, unclaimed donations. Called by the external scheduler; authenticated with a shared secret header.
// @Tags         Payout
// @Produce      json
// @Param        X-Payout-Secret header string true "Shared trigger secret"
// @Success      200  {object}  handlers.RespBatchReport
// @Router       /api/v1/payouts/run [post]
func ApiRunPayouts(cfg *config.Config, svc *payout.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		secret := cfg.Payout.TriggerSecret
		given := c.GetHeader(payoutSecretHeader)
		if secret == "" || subtle.ConstantTimeCompare([]byte(secret), []byte(given)) != 1 {
			c.JSON(http.StatusUnauthorized, response.ErrorT[any](response.APIResponseCodeUnauthorized, "invalid payout trigger secret"))
			return
		}

		report, err := svc.Run(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(report))
	}
}

func RegisterPayoutRoutes(r gin.IRouter, cfg *config.Config, svc *payout.Service) {
	r.POST("/run", ApiRunPayouts(cfg, svc))
}
