package translog

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/quangND1998/app-p2p/internal/config"
	"github.com/quangND1998/app-p2p/internal/domain/repository"
)

// Module exposes the file-backed transaction log as the domain repository.
var Module = fx.Provide(newRepository)

type logParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newRepository(p logParams) (repository.TransactionRepository, error) {
	return New(p.Config.DataDir, p.Logger)
}
