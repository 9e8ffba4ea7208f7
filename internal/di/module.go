package di

import (
	"go.uber.org/fx"

	"github.com/quangND1998/app-p2p/internal/adapter/extractor"
	"github.com/quangND1998/app-p2p/internal/adapter/feed"
	"github.com/quangND1998/app-p2p/internal/adapter/notify"
	"github.com/quangND1998/app-p2p/internal/adapter/vietqr"
	"github.com/quangND1998/app-p2p/internal/app"
	"github.com/quangND1998/app-p2p/internal/bankdir"
	"github.com/quangND1998/app-p2p/internal/config"
	"github.com/quangND1998/app-p2p/internal/logger"
	"github.com/quangND1998/app-p2p/internal/metrics"
	"github.com/quangND1998/app-p2p/internal/server/http/router"
	"github.com/quangND1998/app-p2p/internal/storage/translog"
	"github.com/quangND1998/app-p2p/internal/usecase"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		metrics.Module,
		translog.Module,
		feed.Module,
		extractor.Module,
		vietqr.Module,
		bankdir.Module,
		notify.Module,
		usecase.Module,
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
