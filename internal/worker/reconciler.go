package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	domainErrors "github.com/quangND1998/app-p2p/internal/domain/errors"
	"github.com/quangND1998/app-p2p/internal/domain/model"
	"github.com/quangND1998/app-p2p/internal/metrics"
)

const orderDetailLink = "https://p2p.binance.com/en/fiatOrderDetail?orderNo="

// TradeFacade exposes the subset of application functionality required by the
// reconciler.
type TradeFacade interface {
	RecentOrders(ctx context.Context, side model.TradeSide, start, end time.Time) ([]model.Order, error)
	RebuildStatusIndex(ctx context.Context, windowStart, windowEnd *time.Time) (map[string]model.OrderStatus, error)
	RecordStatus(ctx context.Context, orderNumber string, status model.OrderStatus) error
	RecordSettlement(ctx context.Context, record model.TransactionRecord, image []byte) (model.TransactionRecord, error)
	ResolveSettlement(ctx context.Context, orderNumber string) (*model.SettlementInfo, error)
	GenerateSettlementQR(ctx context.Context, info *model.SettlementInfo) ([]byte, error)
	GenerateMerchantQR(ctx context.Context, amount float64, note string) ([]byte, error)
	Notify(ctx context.Context, text string) error
	NotifyPhoto(ctx context.Context, image []byte, caption string) error
}

// Reconciler polls the order feed, detects status transitions against the
// last-known-status index and reacts to each transition exactly once. A single
// goroutine owns the index, so it needs no locking; running two reconcilers
// over one data dir is not supported.
type Reconciler struct {
	facade      TradeFacade
	interval    time.Duration
	lookback    time.Duration
	seedWindow  time.Duration
	maxFailures int
	logger      *slog.Logger
	metrics     *metrics.ReconcilerMetrics

	index    map[string]model.OrderStatus
	failures int

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewReconciler constructs the reconciliation worker.
func NewReconciler(facade TradeFacade, interval, lookback, seedWindow time.Duration, maxFailures int, m *metrics.ReconcilerMetrics, logger *slog.Logger) *Reconciler {
	if interval <= 0 {
		interval = time.Second
	}
	if maxFailures <= 0 {
		maxFailures = 3
	}
	return &Reconciler{
		facade:      facade,
		interval:    interval,
		lookback:    lookback,
		seedWindow:  seedWindow,
		maxFailures: maxFailures,
		metrics:     m,
		logger:      logger,
		index:       make(map[string]model.OrderStatus),
	}
}

// Seed rebuilds the status index from the transaction log over the trailing
// seed window, then backfills it with one unwindowed feed query per trade
// side. Backfilled orders get their status recorded but trigger no action;
// orders resolved before the window are assumed settled.
func (r *Reconciler) Seed(ctx context.Context) error {
	since := time.Now().Add(-r.seedWindow)
	index, err := r.facade.RebuildStatusIndex(ctx, &since, nil)
	if err != nil {
		return fmt.Errorf("rebuild status index: %w", err)
	}
	r.index = index

	for _, side := range model.Sides {
		orders, err := r.facade.RecentOrders(ctx, side, time.Time{}, time.Time{})
		if err != nil {
			return fmt.Errorf("seed %s orders: %w", side, err)
		}
		for _, o := range orders {
			if _, seen := r.index[o.Number]; !seen {
				r.index[o.Number] = o.Status
			}
		}
	}

	r.logger.Info("status index seeded", slog.Int("orders", len(r.index)))
	return nil
}

// Start launches the polling loop.
func (r *Reconciler) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	r.wg.Add(1)
	go r.run(runCtx)
}

// Stop signals the loop and waits for the current iteration to finish.
// Cancellation is cooperative: it takes effect between iterations.
func (r *Reconciler) Stop() {
	r.mu.Lock()
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.mu.Unlock()

	r.wg.Wait()
}

func (r *Reconciler) run(ctx context.Context) {
	defer r.wg.Done()

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if stopped := r.tick(ctx); stopped {
				return
			}
		}
	}
}

// tick runs one iteration and applies the consecutive-failure budget.
// It reports true when the budget is exhausted and the loop must stop.
func (r *Reconciler) tick(ctx context.Context) bool {
	if err := r.pollOnce(ctx); err != nil {
		if ctx.Err() != nil {
			return true
		}
		r.failures++
		r.metrics.PollFailures.Inc()
		r.logger.Error("poll iteration failed",
			slog.String("error", err.Error()),
			slog.Int("consecutive", r.failures),
		)
		if r.failures > r.maxFailures {
			r.logger.Warn("failure budget exhausted, reconciler stopping", slog.Int("failures", r.failures))
			// Final best-effort notification before going silent.
			if nerr := r.facade.Notify(ctx, fmt.Sprintf("Error count is %d. Bot stopped.", r.failures)); nerr != nil {
				r.metrics.NotifyFailures.Inc()
			}
			return true
		}
		return false
	}
	r.failures = 0
	r.metrics.PollIterations.Inc()
	return false
}

// pollOnce queries the sliding history window for both trade sides and
// processes every returned order. Per-order failures are contained inside
// processOrder; only feed and durability errors abort the iteration.
func (r *Reconciler) pollOnce(ctx context.Context) error {
	for _, side := range model.Sides {
		end := time.Now()
		start := end.Add(-r.lookback)

		orders, err := r.facade.RecentOrders(ctx, side, start, end)
		if err != nil {
			return fmt.Errorf("query %s history: %w", side, err)
		}

		for _, o := range orders {
			if err := r.processOrder(ctx, o); err != nil {
				return err
			}
		}
	}
	return nil
}

// processOrder reacts to one feed entry. Unchanged statuses are skipped, which
// makes overlapping history windows idempotent. The returned error is a
// durability failure only; everything else is logged and contained here.
func (r *Reconciler) processOrder(ctx context.Context, o model.Order) error {
	previous, seen := r.index[o.Number]
	if seen && previous == o.Status {
		return nil
	}

	r.logger.Info("order transition",
		slog.String("order", o.Number),
		slog.String("side", string(o.Side)),
		slog.String("from", string(previous)),
		slog.String("to", string(o.Status)),
	)
	r.metrics.Transitions.WithLabelValues(string(o.Side), string(o.Status)).Inc()

	message := formatOrderMessage(o)
	if err := r.facade.Notify(ctx, message); err != nil {
		r.metrics.NotifyFailures.Inc()
		r.logger.Warn("notification failed", slog.String("order", o.Number), slog.String("error", err.Error()))
	}

	r.index[o.Number] = o.Status
	if err := r.facade.RecordStatus(ctx, o.Number, o.Status); err != nil {
		// Losing a log entry silently would be a correctness violation.
		return fmt.Errorf("record status of order %s: %w", o.Number, err)
	}

	if o.Status == model.OrderStatusTrading {
		return r.handleTrading(ctx, o, message)
	}
	return nil
}

// handleTrading drives the actionable transition: settlement resolution, QR
// generation and the full transaction record. Missing settlement data and QR
// failures leave the already-recorded status-only update in place.
func (r *Reconciler) handleTrading(ctx context.Context, o model.Order, caption string) error {
	var (
		image []byte
		info  *model.SettlementInfo
		err   error
	)

	switch o.Side {
	case model.TradeSideSell:
		// Counterparty pays us: the QR carries the merchant's own account.
		image, err = r.facade.GenerateMerchantQR(ctx, o.FiatAmount, o.Number)
		if err != nil {
			r.metrics.QRFailures.Inc()
			r.logger.Warn("merchant qr generation failed", slog.String("order", o.Number), slog.String("error", err.Error()))
			return nil
		}
	default:
		info, err = r.facade.ResolveSettlement(ctx, o.Number)
		if err != nil {
			var incomplete domainErrors.IncompleteSettlementError
			switch {
			case errors.As(err, &incomplete):
				r.metrics.SettlementIncompl.Inc()
				r.logger.Warn("settlement info incomplete",
					slog.String("order", o.Number),
					slog.Any("missing", incomplete.Missing),
				)
			default:
				r.metrics.SettlementFailures.Inc()
				r.logger.Warn("settlement resolution failed", slog.String("order", o.Number), slog.String("error", err.Error()))
			}
			return nil
		}

		image, err = r.facade.GenerateSettlementQR(ctx, info)
		if err != nil {
			r.metrics.QRFailures.Inc()
			r.logger.Warn("settlement qr generation failed", slog.String("order", o.Number), slog.String("error", err.Error()))
			return nil
		}
	}

	r.metrics.QRGenerated.Inc()

	record := model.TransactionRecord{
		Type:        model.RecordTypeForSide(o.Side),
		OrderNumber: o.Number,
		Amount:      o.FiatAmount,
		Message:     caption,
		OrderStatus: o.Status,
		Timestamp:   time.Now().Unix(),
	}
	if info != nil {
		record.Amount = info.Amount
		record.BankName = info.BankName
		record.AccountNumber = info.AccountNumber
		record.AccountName = info.AccountName
		record.Reference = info.Reference
	}

	if _, err := r.facade.RecordSettlement(ctx, record, image); err != nil {
		return fmt.Errorf("record settlement of order %s: %w", o.Number, err)
	}

	if err := r.facade.NotifyPhoto(ctx, image, caption); err != nil {
		r.metrics.NotifyFailures.Inc()
		r.logger.Warn("photo notification failed", slog.String("order", o.Number), slog.String("error", err.Error()))
	}
	return nil
}

func formatOrderMessage(o model.Order) string {
	return fmt.Sprintf(
		"Status: %s\nType: %s\nPrice: %s%s\nFiat Amount: %s %s\nCrypto Amount: %s %s\nOrder No.: <a href='%s%s'>%s</a>",
		o.Status.Display(),
		o.Side,
		o.FiatSymbol, formatDecimal(o.UnitPrice),
		formatDecimal(o.FiatAmount), o.FiatCurrency,
		formatDecimal(o.CryptoAmount), o.CryptoAsset,
		orderDetailLink, o.Number, o.Number,
	)
}

func formatDecimal(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
