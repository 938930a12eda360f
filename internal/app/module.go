package app

import (
	"time"

	"go.uber.org/fx"

	"github.com/storyloom/treasury/internal/app/api/server"
	"github.com/storyloom/treasury/internal/app/service/eventlog"
	"github.com/storyloom/treasury/internal/app/service/ledger"
	"github.com/storyloom/treasury/internal/app/service/notification"
	"github.com/storyloom/treasury/internal/app/service/payout"
	"github.com/storyloom/treasury/internal/app/service/reconciler"
	"github.com/storyloom/treasury/internal/app/service/statistics"
	"github.com/storyloom/treasury/internal/app/service/webhookingest"
	"github.com/storyloom/treasury/internal/platform/db"
	"github.com/storyloom/treasury/internal/platform/gateway"
	"github.com/storyloom/treasury/pkg/cache"
	"github.com/storyloom/treasury/pkg/config"
	"github.com/storyloom/treasury/pkg/logger"
)

const (
	DefaultStartTimeout = 15 * time.Second
	DefaultStopTimeout  = 10 * time.Second
)

var Module = fx.Options(
	logger.Module,
	config.Module,
	db.Module,
	cache.Module,
	gateway.Module,
	server.Module,
	eventlog.Module,
	notification.Module,
	fx.Provide(func(s *notification.Service) reconciler.Notifier { return s }),
	reconciler.Module,
	webhookingest.Module,
	payout.Module,
	ledger.Module,
	statistics.Module,
)
