package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Delivery outcomes reported to DispatcherConfig.OnResult.
const (
	OutcomeSent    = "sent"
	OutcomeFailed  = "failed"
	OutcomeDropped = "dropped"
)

type DispatcherConfig struct {
	// Buffer is the queue length. A full queue drops new messages.
	Buffer int
	// Workers is the number of concurrent deliveries.
	Workers int
	// SendTimeout bounds a single delivery.
	SendTimeout time.Duration
	// OnResult, when set, observes every message's fate.
	OnResult func(kind Kind, outcome string)
}

// Dispatcher queues messages and delivers them on background workers so
// callers never wait on a mail server.
type Dispatcher struct {
	sender Sender
	log    *slog.Logger
	cfg    DispatcherConfig

	mu     sync.RWMutex
	closed bool
	queue  chan Message
	wg     sync.WaitGroup
}

// NewDispatcher starts the workers. Call Close to drain and stop them.
func NewDispatcher(sender Sender, logger *slog.Logger, cfg DispatcherConfig) *Dispatcher {
	if cfg.Buffer <= 0 {
		cfg.Buffer = 256
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 2
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = 15 * time.Second
	}

	d := &Dispatcher{
		sender: sender,
		log:    logger.With("component", "notify"),
		cfg:    cfg,
		queue:  make(chan Message, cfg.Buffer),
	}
	d.wg.Add(cfg.Workers)
	for range cfg.Workers {
		go d.work()
	}
	return d
}

// Notify enqueues msg without blocking. Messages are dropped with a warning
// when the queue is full or the dispatcher is closed.
func (d *Dispatcher) Notify(_ context.Context, msg Message) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.drop(msg, "dispatcher closed")
		return
	}
	select {
	case d.queue <- msg:
	default:
		d.drop(msg, "queue full")
	}
}

// Close stops accepting messages and waits for queued ones to be delivered.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	d.wg.Wait()
}

func (d *Dispatcher) work() {
	defer d.wg.Done()
	for msg := range d.queue {
		d.deliver(msg)
	}
}

func (d *Dispatcher) deliver(msg Message) {
	ctx, cancel := context.WithTimeout(context.Background(), d.cfg.SendTimeout)
	defer cancel()

	if err := d.sender.Send(ctx, msg); err != nil {
		d.log.Error("notification delivery failed",
			slog.String("kind", string(msg.Kind)),
			slog.String("to", msg.To),
			slog.Any("error", err),
		)
		d.report(msg.Kind, OutcomeFailed)
		return
	}
	d.report(msg.Kind, OutcomeSent)
}

func (d *Dispatcher) drop(msg Message, reason string) {
	d.log.Warn("notification dropped",
		slog.String("kind", string(msg.Kind)),
		slog.String("to", msg.To),
		slog.String("reason", reason),
	)
	d.report(msg.Kind, OutcomeDropped)
}

func (d *Dispatcher) report(kind Kind, outcome string) {
	if d.cfg.OnResult != nil {
		d.cfg.OnResult(kind, outcome)
	}
}

var _ Notifier = (*Dispatcher)(nil)
