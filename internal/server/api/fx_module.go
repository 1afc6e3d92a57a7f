package api

import (
	"go.uber.org/fx"
)

var Module = fx.Module("api",
	fx.Provide(NewAuthHandlers),
	fx.Provide(NewStoreHandlers),
	fx.Provide(NewProductHandlers),
	fx.Provide(NewCartHandlers),
	fx.Provide(NewOrderHandlers),
	fx.Provide(NewSystemHandlers),
)
