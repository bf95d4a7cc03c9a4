// Package broadcast implements the operator fan-out: one message delivered
// once to every consented user, with pacing and per-recipient failure
// isolation.
package broadcast

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/drigmma/ankety/internal/database"
)

// Sender delivers a single message to a single recipient.
type Sender interface {
	SendText(ctx context.Context, chatID int64, text string) error
	SendPhoto(ctx context.Context, chatID int64, fileID, caption string) error
}

// Message is the operator payload: plain text, or a photo with an
// optional caption.
type Message struct {
	Text        string
	PhotoFileID string
}

// empty reports whether there is nothing to send.
func (m Message) empty() bool {
	return m.Text == "" && m.PhotoFileID == ""
}

// Report summarizes one broadcast run. Recipients skipped because the
// payload was empty count as neither success nor failure.
type Report struct {
	Recipients int
	Sent       int
	Failed     int
	Skipped    int
}

// Dispatcher runs broadcasts against a point-in-time snapshot of consented
// users. It also tracks which operators have armed a pending broadcast
// (the /broadcast command arms; the next message is the payload).
type Dispatcher struct {
	logger    *slog.Logger
	store     database.Store
	sender    Sender
	sendDelay time.Duration

	mu    sync.Mutex
	armed map[int64]bool
}

// NewDispatcher creates a broadcast dispatcher. sendDelay is the minimum
// pause between consecutive deliveries.
func NewDispatcher(logger *slog.Logger, store database.Store, sender Sender, sendDelay time.Duration) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		logger:    logger.With("component", "broadcast"),
		store:     store,
		sender:    sender,
		sendDelay: sendDelay,
		armed:     make(map[int64]bool),
	}
}

// Arm marks the operator as having a pending broadcast: their next message
// becomes the payload.
func (d *Dispatcher) Arm(operatorID int64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.armed[operatorID] = true
}

// Disarm clears the operator's pending broadcast, if any.
func (d *Dispatcher) Disarm(operatorID int64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.armed, operatorID)
}

// Armed reports whether the operator has a pending broadcast.
func (d *Dispatcher) Armed(operatorID int64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.armed[operatorID]
}

// Run delivers the message to every consented user known at the start of
// the run; users consenting mid-run are not added.
func (d *Dispatcher) Run(ctx context.Context, msg Message) (Report, error) {
	userIDs, err := d.store.ConsentedUserIDs(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("failed to snapshot consented users: %w", err)
	}
	return d.Deliver(ctx, userIDs, msg), nil
}

// Deliver sends the message to exactly the given recipients, so a caller
// that already announced a recipient count works from the same snapshot.
// Each recipient gets exactly one delivery attempt; failures are counted
// and logged but never abort the run or trigger retries. Runs are not
// cancellable once started.
func (d *Dispatcher) Deliver(ctx context.Context, userIDs []int64, msg Message) Report {
	report := Report{Recipients: len(userIDs)}
	d.logger.InfoContext(ctx, "Broadcast started",
		"recipients", report.Recipients, "has_photo", msg.PhotoFileID != "")

	for i, userID := range userIDs {
		if msg.empty() {
			report.Skipped++
			continue
		}

		if i > 0 && d.sendDelay > 0 {
			time.Sleep(d.sendDelay)
		}

		if err := d.deliver(ctx, userID, msg); err != nil {
			report.Failed++
			d.logger.WarnContext(ctx, "Broadcast delivery failed", "user_id", userID, "error", err)
			continue
		}
		report.Sent++
	}

	d.logger.InfoContext(ctx, "Broadcast finished",
		"recipients", report.Recipients, "sent", report.Sent,
		"failed", report.Failed, "skipped", report.Skipped)
	return report
}

func (d *Dispatcher) deliver(ctx context.Context, userID int64, msg Message) error {
	if msg.PhotoFileID != "" {
		return d.sender.SendPhoto(ctx, userID, msg.PhotoFileID, msg.Text)
	}
	return d.sender.SendText(ctx, userID, msg.Text)
}
