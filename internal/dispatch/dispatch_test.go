package dispatch

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"
	"time"

	"dexwatch/internal/domain"
)

type recordingTrader struct {
	executed chan *domain.TradeSignal
	err      error
}

func (r *recordingTrader) Execute(_ context.Context, sig *domain.TradeSignal) error {
	r.executed <- sig
	return r.err
}

type recordingNotifier struct {
	notified chan string
}

func (r *recordingNotifier) Notify(_ context.Context, message string) error {
	r.notified <- message
	return nil
}

func testSignal(pair string) *domain.TradeSignal {
	return &domain.TradeSignal{
		PairAddress: pair,
		ChainID:     "ethereum",
		BaseSymbol:  "UNI",
		Action:      domain.ActionBuy,
		Amount:      50,
		PriceUSD:    7.25,
		Reason:      "pump",
		IssuedAt:    time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func quietLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func waitForSignal(t *testing.T, ch chan *domain.TradeSignal) *domain.TradeSignal {
	t.Helper()
	select {
	case sig := <-ch:
		return sig
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for delivery")
		return nil
	}
}

func waitForMessage(t *testing.T, ch chan string) string {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for delivery")
		return ""
	}
}

func TestDispatcher_DeliversSignal(t *testing.T) {
	trader := &recordingTrader{executed: make(chan *domain.TradeSignal, 1)}
	d := NewDispatcher(Options{Trader: trader, Logger: quietLogger()})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.Run(ctx)

	if !d.EnqueueSignal(testSignal("0xaaa")) {
		t.Fatal("enqueue rejected with queue capacity available")
	}

	got := waitForSignal(t, trader.executed)
	if got.PairAddress != "0xaaa" {
		t.Errorf("delivered pair = %q, want %q", got.PairAddress, "0xaaa")
	}
}

func TestDispatcher_DeliversMessage(t *testing.T) {
	notifier := &recordingNotifier{notified: make(chan string, 1)}
	d := NewDispatcher(Options{Notifier: notifier, Logger: quietLogger()})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.Run(ctx)

	if !d.EnqueueMessage("cycle done") {
		t.Fatal("enqueue rejected with queue capacity available")
	}

	if got := waitForMessage(t, notifier.notified); got != "cycle done" {
		t.Errorf("delivered message = %q, want %q", got, "cycle done")
	}
}

func TestDispatcher_QueueOverflowDrops(t *testing.T) {
	// No Run: the queue fills and the second enqueue must drop.
	trader := &recordingTrader{executed: make(chan *domain.TradeSignal, 2)}
	d := NewDispatcher(Options{Trader: trader, QueueSize: 1, Logger: quietLogger()})

	if !d.EnqueueSignal(testSignal("0xaaa")) {
		t.Fatal("first enqueue should fit")
	}
	if d.EnqueueSignal(testSignal("0xbbb")) {
		t.Error("second enqueue should drop on a full queue")
	}
}

func TestDispatcher_DrainsOnShutdown(t *testing.T) {
	trader := &recordingTrader{executed: make(chan *domain.TradeSignal, 2)}
	d := NewDispatcher(Options{Trader: trader, Logger: quietLogger()})

	d.EnqueueSignal(testSignal("0xaaa"))
	d.EnqueueSignal(testSignal("0xbbb"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := d.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Run returned %v, want context.Canceled", err)
	}

	// Both deliveries accepted before shutdown were attempted.
	first := waitForSignal(t, trader.executed)
	second := waitForSignal(t, trader.executed)
	if first.PairAddress != "0xaaa" || second.PairAddress != "0xbbb" {
		t.Errorf("drained %q then %q, want queue order preserved", first.PairAddress, second.PairAddress)
	}
}

func TestDispatcher_FailedDeliveryDoesNotStall(t *testing.T) {
	trader := &recordingTrader{executed: make(chan *domain.TradeSignal, 2), err: errors.New("venue down")}
	d := NewDispatcher(Options{Trader: trader, Logger: quietLogger()})

	d.EnqueueSignal(testSignal("0xaaa"))
	d.EnqueueSignal(testSignal("0xbbb"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = d.Run(ctx)

	waitForSignal(t, trader.executed)
	waitForSignal(t, trader.executed)
}

func TestDispatcher_NilSignalRejected(t *testing.T) {
	d := NewDispatcher(Options{Logger: quietLogger()})
	if d.EnqueueSignal(nil) {
		t.Error("nil signal should be rejected")
	}
}

func TestDispatcher_Defaults(t *testing.T) {
	d := NewDispatcher(Options{Logger: quietLogger()})
	if cap(d.queue) != DefaultQueueSize {
		t.Errorf("queue capacity = %d, want %d", cap(d.queue), DefaultQueueSize)
	}
	if d.timeout != DefaultDeliveryTimeout {
		t.Errorf("timeout = %v, want %v", d.timeout, DefaultDeliveryTimeout)
	}
	if d.trader == nil || d.notifier == nil {
		t.Error("nil sinks should fall back to the log sink")
	}
}
