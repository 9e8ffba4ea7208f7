package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/fx"

	"github.com/quangND1998/app-p2p/internal/di"
)

func main() {
	// A missing .env is fine, the environment wins either way.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app := fx.New(
		fx.Provide(func() context.Context { return ctx }),
		di.Module(),
	)

	run(ctx, app)
}
