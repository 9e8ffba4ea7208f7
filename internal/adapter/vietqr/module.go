package vietqr

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/quangND1998/app-p2p/internal/bankdir"
	"github.com/quangND1998/app-p2p/internal/config"
)

// Module exposes the QR provider client to the fx graph, both as the QR
// generator and as the bank-list source for directory refreshes.
var Module = fx.Options(
	fx.Provide(newClient),
	fx.Provide(func(c Client) bankdir.BankLister { return c }),
)

type clientParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newClient(p clientParams) (Client, error) {
	return NewHTTPClient(p.Config.QRAddress, p.Config.QRClientID, p.Config.QRAPIKey, p.Logger)
}
