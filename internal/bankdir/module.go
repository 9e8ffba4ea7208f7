package bankdir

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/quangND1998/app-p2p/internal/config"
)

// Module exposes the bank directory to the fx graph.
var Module = fx.Provide(newDirectory)

type directoryParams struct {
	fx.In

	Config *config.Config
	Lister BankLister
	Logger *slog.Logger
}

func newDirectory(p directoryParams) (*Directory, error) {
	return New(p.Config.DataDir, p.Config.BankMatchThreshold, p.Lister, p.Logger)
}
