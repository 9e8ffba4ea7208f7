package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/quangND1998/app-p2p/internal/config"
	"github.com/quangND1998/app-p2p/internal/metrics"
	"github.com/quangND1998/app-p2p/internal/server/http/handlers"
	"github.com/quangND1998/app-p2p/internal/worker"
)

// Module wires application services, runtime components, and lifecycle hooks.
var Module = fx.Options(
	fx.Provide(
		NewTradeFacade,
		newHTTPServer,
		newReconciler,
		func(f *TradeFacade) worker.TradeFacade { return f },
		func(f *TradeFacade) handlers.TransactionFacade { return f },
	),
	fx.Invoke(registerLifecycle),
)

type serverParams struct {
	fx.In

	Config *config.Config
	Router *gin.Engine
}

func newHTTPServer(p serverParams) *http.Server {
	return &http.Server{
		Addr:    p.Config.RunAddress,
		Handler: p.Router,
	}
}

type workerParams struct {
	fx.In

	Facade  worker.TradeFacade
	Config  *config.Config
	Metrics *metrics.ReconcilerMetrics
	Logger  *slog.Logger
}

func newReconciler(p workerParams) *worker.Reconciler {
	return worker.NewReconciler(
		p.Facade,
		p.Config.PollInterval,
		p.Config.LookbackWindow,
		p.Config.SeedWindow,
		p.Config.MaxConsecutiveFailures,
		p.Metrics,
		p.Logger,
	)
}

type lifecycleParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
	Logger     *slog.Logger
	Server     *http.Server
	Facade     *TradeFacade
	Worker     *worker.Reconciler
	Config     *config.Config
}

func registerLifecycle(p lifecycleParams) {
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			p.Logger.Info("starting p2pwatch", slog.String("addr", p.Server.Addr))

			// Best effort: a stale snapshot keeps working until the next refresh.
			if err := p.Facade.RefreshBankDirectory(ctx); err != nil {
				p.Logger.Warn("bank directory refresh failed", slog.String("error", err.Error()))
			}

			if err := p.Worker.Seed(ctx); err != nil {
				return err
			}
			p.Worker.Start(ctx)

			go func() {
				if err := p.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					p.Logger.Error("http server terminated", slog.String("error", err.Error()))
					_ = p.Shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			p.Worker.Stop()

			shutdownCtx := ctx
			cancel := func() {}
			if _, ok := ctx.Deadline(); !ok {
				shutdownCtx, cancel = context.WithTimeout(ctx, p.Config.ShutdownTimeout)
			}
			defer cancel()

			if err := p.Server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			p.Logger.Info("p2pwatch stopped")
			return nil
		},
	})
}
