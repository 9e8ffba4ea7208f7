package extractor

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/quangND1998/app-p2p/internal/config"
)

// Module exposes the extractor client implementation to the fx graph.
var Module = fx.Provide(newClient)

type clientParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newClient(p clientParams) (Client, error) {
	return NewHTTPClient(p.Config.ExtractorAddress, p.Logger)
}
