package payout

import (
	"go.uber.org/fx"

	"github.com/storyloom/treasury/internal/platform/gateway"
)

var Module = fx.Options(
	fx.Provide(NewDBResolver),
	fx.Provide(func(r *gateway.Registry) GatewayRegistry { return r }),
	fx.Provide(NewService),
)
