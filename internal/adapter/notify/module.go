package notify

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/quangND1998/app-p2p/internal/config"
)

// Module builds the fixed sink list from configuration and exposes the fanout.
var Module = fx.Provide(newFanout)

type fanoutParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newFanout(p fanoutParams) Sink {
	var sinks []Sink
	if p.Config.DiscordWebhookURL != "" {
		sinks = append(sinks, NewDiscordSink(p.Config.DiscordWebhookURL))
	}
	if p.Config.TelegramToken != "" {
		sinks = append(sinks, NewTelegramSink("", p.Config.TelegramToken, p.Config.TelegramChatID))
	}
	return NewFanout(p.Logger, sinks...)
}
