package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/convtrack/internal/bot"
	"github.com/smallbiznis/convtrack/internal/config"
	"github.com/smallbiznis/convtrack/internal/conversion"
	"github.com/smallbiznis/convtrack/internal/notifier"
	"github.com/smallbiznis/convtrack/internal/observability"
	"github.com/smallbiznis/convtrack/internal/server"
	"github.com/smallbiznis/convtrack/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,

		notifier.Module,
		conversion.Module,
		server.Module,
		bot.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
