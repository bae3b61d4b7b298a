package purchaseorder

import (
	"github.com/smallbiznis/gstbilling/internal/purchaseorder/repository"
	"github.com/smallbiznis/gstbilling/internal/purchaseorder/service"
	"go.uber.org/fx"
)

var Module = fx.Module("purchaseorder.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
