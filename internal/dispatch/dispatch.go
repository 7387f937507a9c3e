// Package dispatch decouples outbound delivery from analysis. A
// Dispatcher owns a bounded queue drained by one background goroutine;
// enqueueing never blocks the caller, and a full queue drops the
// delivery with a log line.
package dispatch

import (
	"context"
	"fmt"
	"log"
	"time"

	"dexwatch/internal/domain"
	"dexwatch/internal/notify"
	"dexwatch/internal/observability"
)

const (
	// DefaultQueueSize bounds the number of pending deliveries.
	DefaultQueueSize = 64
	// DefaultDeliveryTimeout bounds one delivery attempt.
	DefaultDeliveryTimeout = 10 * time.Second
)

// delivery is one queued outbound item: a trade signal for the Trader
// or a free-text message for the Notifier.
type delivery struct {
	signal  *domain.TradeSignal
	message string
}

// Options contains configuration for creating a Dispatcher.
type Options struct {
	Trader   notify.Trader   // nil falls back to the log sink
	Notifier notify.Notifier // nil falls back to the log sink

	QueueSize       int           // default DefaultQueueSize
	DeliveryTimeout time.Duration // default DefaultDeliveryTimeout
	Logger          *log.Logger
}

// Dispatcher delivers signals and notifications asynchronously.
type Dispatcher struct {
	trader   notify.Trader
	notifier notify.Notifier
	queue    chan delivery
	timeout  time.Duration
	logger   *log.Logger
}

// NewDispatcher creates a dispatcher from options, filling in defaults.
// Run must be started for queued items to be delivered.
func NewDispatcher(opts Options) *Dispatcher {
	queueSize := opts.QueueSize
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}

	timeout := opts.DeliveryTimeout
	if timeout <= 0 {
		timeout = DefaultDeliveryTimeout
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	trader := opts.Trader
	notifier := opts.Notifier
	if trader == nil || notifier == nil {
		sink := notify.NewLogSink(logger)
		if trader == nil {
			trader = sink
		}
		if notifier == nil {
			notifier = sink
		}
	}

	return &Dispatcher{
		trader:   trader,
		notifier: notifier,
		queue:    make(chan delivery, queueSize),
		timeout:  timeout,
		logger:   logger,
	}
}

// Run drains the queue until ctx is cancelled, then attempts the
// deliveries accepted before shutdown and returns.
func (d *Dispatcher) Run(ctx context.Context) error {
	d.logger.Println("Dispatcher started")

	for {
		select {
		case <-ctx.Done():
			d.drain()
			d.logger.Println("Dispatcher stopping...")
			return ctx.Err()

		case item := <-d.queue:
			d.deliver(item)
			observability.SetQueueDepth(len(d.queue))
		}
	}
}

// EnqueueSignal queues a trade signal for delivery. It never blocks: a
// full queue drops the delivery and reports false.
func (d *Dispatcher) EnqueueSignal(sig *domain.TradeSignal) bool {
	if sig == nil {
		return false
	}
	return d.enqueue(delivery{signal: sig})
}

// EnqueueMessage queues a free-text notification.
func (d *Dispatcher) EnqueueMessage(message string) bool {
	return d.enqueue(delivery{message: message})
}

func (d *Dispatcher) enqueue(item delivery) bool {
	select {
	case d.queue <- item:
		observability.SetQueueDepth(len(d.queue))
		return true
	default:
		what := "notification"
		if item.signal != nil {
			what = fmt.Sprintf("signal for %s", item.signal.PairAddress)
		}
		d.logger.Printf("Dispatch queue full, dropping %s", what)
		observability.RecordDeliveryDropped()
		return false
	}
}

// deliver runs one attempt under the delivery timeout. Accepted items
// are attempted even during shutdown, so the timeout hangs off a fresh
// context rather than the run context.
func (d *Dispatcher) deliver(item delivery) {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	if item.signal != nil {
		if err := d.trader.Execute(ctx, item.signal); err != nil {
			d.logger.Printf("Trade delivery failed for %s: %v", item.signal.PairAddress, err)
			observability.RecordDelivery("trade", "error")
			return
		}
		observability.RecordDelivery("trade", "ok")
		return
	}

	if err := d.notifier.Notify(ctx, item.message); err != nil {
		d.logger.Printf("Notification delivery failed: %v", err)
		observability.RecordDelivery("message", "error")
		return
	}
	observability.RecordDelivery("message", "ok")
}

// drain attempts everything still queued, then zeroes the depth gauge.
func (d *Dispatcher) drain() {
	for {
		select {
		case item := <-d.queue:
			d.deliver(item)
		default:
			observability.SetQueueDepth(0)
			return
		}
	}
}
