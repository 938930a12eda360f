package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/storyloom/treasury/docs"
	"github.com/storyloom/treasury/internal/app/api/handlers"
	mw "github.com/storyloom/treasury/internal/app/api/middleware"
	"github.com/storyloom/treasury/internal/app/service/ledger"
	"github.com/storyloom/treasury/internal/app/service/notification"
	"github.com/storyloom/treasury/internal/app/service/payout"
	"github.com/storyloom/treasury/internal/app/service/reconciler"
	"github.com/storyloom/treasury/internal/app/service/statistics"
	"github.com/storyloom/treasury/internal/app/service/webhookingest"
	cfgpkg "github.com/storyloom/treasury/pkg/config"
	metrics "github.com/storyloom/treasury/pkg/metrics"
)

func newEngine() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	// Add request tracing middleware only; request logger & access log are attached per group in registerRoutes
	r.Use(mw.TraceMiddleware())
	return r
}

func registerRoutes(
	r *gin.Engine,
	log *zap.SugaredLogger,
	cfg *cfgpkg.Config,
	rec reconciler.Reconciler,
	webhooks *webhookingest.Handler,
	notif *notification.Service,
	payouts *payout.Service,
	led *ledger.Service,
	stats *statistics.Service,
) {
	// Prometheus metrics
	if cfg != nil && cfg.MetricsAddr != "" {
		p := metrics.NewPrometheus(metrics.NewPrometheusOptions{
			ReqCntURLLabelMappingFn: func(c *gin.Context) string {
				if fp := c.FullPath(); fp != "" {
					return fp
				}
				return c.Request.URL.Path
			},
			Logger: log,
		})
		p.SetListenAddress(cfg.MetricsAddr)
		p.Use(r)

		log.Infow("metrics started", "addr", cfg.MetricsAddr)
	}
	// Public group: request logger + access log
	pub := r.Group("/")
	pub.Use(mw.RequestLoggerMiddleware(log), mw.AccessLogMiddleware())
	handlers.RegisterHealthRoutes(pub)
	// Swagger UI
	docs.SwaggerInfo.BasePath = "/"
	pub.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	apiV1 := r.Group("/api/v1")
	apiV1.Use(mw.RequestLoggerMiddleware(log), mw.AccessLogMiddleware())

	handlers.RegisterDonationRoutes(apiV1.Group("/donations"), rec)
	handlers.RegisterPaymentWebhookRoutes(apiV1.Group("/payment/webhook"), webhooks)
	handlers.RegisterPayoutRoutes(apiV1.Group("/payouts"), cfg, payouts)
	handlers.RegisterNotificationRoutes(apiV1.Group("/users"), notif)
	handlers.RegisterAdminRoutes(apiV1.Group("/admin"), led, stats)
}

func runServer(lc fx.Lifecycle, log *zap.SugaredLogger, cfg *cfgpkg.Config, r *gin.Engine) {
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{Addr: addr, Handler: r, ReadHeaderTimeout: 5 * time.Second}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("starting HTTP server", "addr", addr)
			go func() {
				if err := srv.ListenAndServe(); err != nil {
					log.Errorf("server error: %v", err)
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Infow("stopping HTTP server")
			shutdownCtx, cancel := context.WithTimeout(ctx, 120*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

var Module = fx.Options(
	fx.Provide(newEngine),
	fx.Invoke(registerRoutes),
	fx.Invoke(runServer),
)
