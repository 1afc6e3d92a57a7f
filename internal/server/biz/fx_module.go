package biz

import (
	"go.uber.org/fx"
)

var Module = fx.Module("biz",
	fx.Provide(NewAuthService),
	fx.Provide(NewUserService),
	fx.Provide(NewOwnershipService),
	fx.Provide(NewStoreService),
	fx.Provide(NewProductService),
	fx.Provide(NewReviewService),
	fx.Provide(NewOrderService),
)
