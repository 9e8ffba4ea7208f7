package usecase

import "go.uber.org/fx"

// Module exposes use case constructors for fx graphs.
var Module = fx.Provide(
	NewTransactionUseCase,
	NewSettlementUseCase,
)
