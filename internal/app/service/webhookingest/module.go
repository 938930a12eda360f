package webhookingest

import "go.uber.org/fx"

var Module = fx.Options(
	fx.Provide(NewStripeParser),
	fx.Provide(NewPayPalParser),
	fx.Provide(NewHandler),
)
