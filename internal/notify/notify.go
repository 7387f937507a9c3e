// Package notify delivers analysis outcomes to the outside world: a
// Notifier for free-text messages and a Trader for trade signals. The
// Telegram sink relays trades as ToxiSol bot commands; the log sink
// stands in when no Telegram credentials are configured.
package notify

import (
	"context"
	"log"

	"dexwatch/internal/domain"
)

// Notifier delivers a free-text message to a destination.
type Notifier interface {
	Notify(ctx context.Context, message string) error
}

// Trader relays a trade signal to an execution venue.
type Trader interface {
	Execute(ctx context.Context, sig *domain.TradeSignal) error
}

// LogSink writes notifications and trades to a logger and never fails.
type LogSink struct {
	logger *log.Logger
}

var (
	_ Notifier = (*LogSink)(nil)
	_ Trader   = (*LogSink)(nil)
)

// NewLogSink creates a sink writing to logger, defaulting to the
// standard logger.
func NewLogSink(logger *log.Logger) *LogSink {
	if logger == nil {
		logger = log.Default()
	}
	return &LogSink{logger: logger}
}

// Notify writes the message to the log.
func (s *LogSink) Notify(_ context.Context, message string) error {
	s.logger.Printf("Notification: %s", message)
	return nil
}

// Execute logs the signal instead of trading it.
func (s *LogSink) Execute(_ context.Context, sig *domain.TradeSignal) error {
	s.logger.Printf("Trade signal (not executed): %s %s of %s (%s) on %s",
		sig.Action, formatAmount(sig.Amount), sig.BaseSymbol, sig.PairAddress, sig.ChainID)
	return nil
}
