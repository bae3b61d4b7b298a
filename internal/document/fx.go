package document

import (
	"github.com/smallbiznis/gstbilling/internal/document/service"
	"go.uber.org/fx"
)

var Module = fx.Module("document.builder",
	fx.Provide(service.New),
)
