package handlers

import (
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/storyloom/treasury/pkg/config"
)

func TestRegisterRoutes_RegistersEndpoints(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	apiV1 := r.Group("/api/v1")
	RegisterDonationRoutes(apiV1.Group("/donations"), nil)
	RegisterPaymentWebhookRoutes(apiV1.Group("/payment/webhook"), nil)
	RegisterPayoutRoutes(apiV1.Group("/payouts"), &config.Config{}, nil)
	RegisterNotificationRoutes(apiV1.Group("/users"), nil)
	RegisterAdminRoutes(apiV1.Group("/admin"), nil, nil)
	RegisterHealthRoutes(r)

	routes := r.Routes()
	contains := func(target string) bool {
		for _, rt := range routes {
			if rt.Method+" "+rt.Path == target {
				return true
			}
		}
		return false
	}

	require.True(t, contains("POST /api/v1/donations/confirm"))
	require.True(t, contains("POST /api/v1/payment/webhook/stripe"))
	require.True(t, contains("POST /api/v1/payment/webhook/paypal"))
	require.True(t, contains("POST /api/v1/payouts/run"))
	require.True(t, contains("GET /api/v1/users/:id/notifications"))
	require.True(t, contains("GET /api/v1/users/:id/notifications/unread_count"))
	require.True(t, contains("POST /api/v1/users/:id/notifications/:notification_id/read"))
	require.True(t, contains("POST /api/v1/users/:id/notifications/read_all"))
	require.True(t, contains("POST /api/v1/admin/donations/scan"))
	require.True(t, contains("POST /api/v1/admin/payouts/scan"))
	require.True(t, contains("POST /api/v1/admin/statistics/donations"))
	require.True(t, contains("GET /healthz"))
}
