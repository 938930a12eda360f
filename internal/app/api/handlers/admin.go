package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/storyloom/treasury/internal/app/service/ledger"
	"github.com/storyloom/treasury/internal/app/service/statistics"
	"github.com/storyloom/treasury/pkg/response"
)

// @Summary      Scan Donations (Admin)
// @Description  Retrieves a paginated and filterable list of donations.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body ledger.ScanRequest true "Scan request with filters, pagination, and sorting"
// @Success      200  {object}  handlers.RespScanDonations
// @Router       /api/v1/admin/donations/scan [post]
func ApiScanDonations(svc *ledger.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ledger.ScanRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		res, err := svc.ScanDonations(c.Request.Context(), &req)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// @Summary      Scan Payouts (Admin)
// @Description  Retrieves a paginated and filterable list of payouts.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body ledger.ScanRequest true "Scan request with filters, pagination, and sorting"
// @Success      200  {object}  handlers.RespScanPayouts
// @Router       /api/v1/admin/payouts/scan [post]
func ApiScanPayouts(svc *ledger.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ledger.ScanRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		res, err := svc.ScanPayouts(c.Request.Context(), &req)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// @Summary      Get Donation Statistics (Admin)
// @Description  Retrieves dashboard aggregates over donations and payouts.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body statistics.DonationStatisticRequest true "Statistic request parameters"
// @Success      200  {object}  handlers.RespDonationStatistic
// @Router       /api/v1/admin/statistics/donations [post]
func ApiGetDonationStatistic(svc *statistics.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req statistics.DonationStatisticRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		res, err := svc.GetDonationStatistic(c.Request.Context(), &req)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

func RegisterAdminRoutes(r gin.IRouter, led *ledger.Service, stats *statistics.Service) {
	r.POST("/donations/scan", ApiScanDonations(led))
	r.POST("/payouts/scan", ApiScanPayouts(led))
	r.POST("/statistics/donations", ApiGetDonationStatistic(stats))
}
