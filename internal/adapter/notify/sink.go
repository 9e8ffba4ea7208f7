package notify

import (
	"context"
	"errors"
	"log/slog"
)

// Sink delivers operator notifications. Delivery failures never interrupt
// order processing: callers log and move on.
type Sink interface {
	SendMessage(ctx context.Context, text string) error
	SendPhoto(ctx context.Context, image []byte, caption string) error
}

// Fanout broadcasts to a fixed list of sinks. Which sinks exist is decided at
// configuration time, never probed at runtime.
type Fanout struct {
	sinks  []Sink
	logger *slog.Logger
}

// NewFanout composes the configured sinks into one.
func NewFanout(logger *slog.Logger, sinks ...Sink) *Fanout {
	return &Fanout{sinks: sinks, logger: logger}
}

// SendMessage delivers text to every sink. Every sink is attempted even when
// an earlier one fails; the joined error reports all failures.
func (f *Fanout) SendMessage(ctx context.Context, text string) error {
	var errs []error
	for _, s := range f.sinks {
		if err := s.SendMessage(ctx, text); err != nil {
			f.logger.Warn("notification delivery failed", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// SendPhoto delivers an image to every sink, attempting all of them.
func (f *Fanout) SendPhoto(ctx context.Context, image []byte, caption string) error {
	var errs []error
	for _, s := range f.sinks {
		if err := s.SendPhoto(ctx, image, caption); err != nil {
			f.logger.Warn("photo delivery failed", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
