package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/gstbilling/internal/clock"
	"github.com/smallbiznis/gstbilling/internal/config"
	"github.com/smallbiznis/gstbilling/internal/migration"
	"github.com/smallbiznis/gstbilling/internal/observability"
	"github.com/smallbiznis/gstbilling/internal/server"
	"github.com/smallbiznis/gstbilling/pkg/db"
	"go.uber.org/fx"
)

func main() {
	// Money fields go out as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true

	app := fx.New(
		// Core Infrastructure
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,

		// Billing domains and the HTTP API
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() (*snowflake.Node, error) {
	return snowflake.NewNode(1)
}
