package stock

import (
	"github.com/smallbiznis/gstbilling/internal/stock/service"
	"go.uber.org/fx"
)

var Module = fx.Module("stock.guard",
	fx.Provide(service.New),
)
