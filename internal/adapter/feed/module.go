package feed

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/quangND1998/app-p2p/internal/config"
)

// Module exposes the feed client implementation to the fx graph.
var Module = fx.Provide(newClient)

type clientParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newClient(p clientParams) (Client, error) {
	return NewHTTPClient(
		p.Config.FeedAddress,
		p.Config.FeedAPIKey,
		p.Config.FeedAPISecret,
		p.Config.PageSize,
		p.Config.MaxPages,
		p.Logger,
	)
}
