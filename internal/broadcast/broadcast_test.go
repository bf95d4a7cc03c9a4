package broadcast_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/drigmma/ankety/internal/broadcast"
	"github.com/drigmma/ankety/internal/database"
)

// fakeStore implements the consent snapshot against a fixed id list.
type fakeStore struct {
	database.Store

	userIDs []int64
	err     error
}

func (f *fakeStore) ConsentedUserIDs(_ context.Context) ([]int64, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.userIDs, nil
}

type sentMessage struct {
	chatID  int64
	text    string
	fileID  string
	isPhoto bool
}

// fakeSender records deliveries and fails for configured recipients.
type fakeSender struct {
	failFor map[int64]error
	sent    []sentMessage
}

func (f *fakeSender) SendText(_ context.Context, chatID int64, text string) error {
	if err := f.failFor[chatID]; err != nil {
		return err
	}
	f.sent = append(f.sent, sentMessage{chatID: chatID, text: text})
	return nil
}

func (f *fakeSender) SendPhoto(_ context.Context, chatID int64, fileID, caption string) error {
	if err := f.failFor[chatID]; err != nil {
		return err
	}
	f.sent = append(f.sent, sentMessage{chatID: chatID, text: caption, fileID: fileID, isPhoto: true})
	return nil
}

func newTestDispatcher(store *fakeStore, sender *fakeSender) *broadcast.Dispatcher {
	return broadcast.NewDispatcher(slog.Default(), store, sender, 0)
}

func TestRunDeliversToEveryConsentedUser(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := &fakeStore{userIDs: []int64{10, 20, 30}}
	sender := &fakeSender{}
	dispatcher := newTestDispatcher(store, sender)

	report, err := dispatcher.Run(ctx, broadcast.Message{Text: "привет"})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if report.Recipients != 3 || report.Sent != 3 || report.Failed != 0 || report.Skipped != 0 {
		t.Errorf("report = %+v, want 3 recipients all sent", report)
	}
	if len(sender.sent) != 3 {
		t.Fatalf("deliveries = %d, want 3", len(sender.sent))
	}
	for i, want := range []int64{10, 20, 30} {
		if sender.sent[i].chatID != want {
			t.Errorf("delivery %d went to %d, want %d", i, sender.sent[i].chatID, want)
		}
		if sender.sent[i].text != "привет" {
			t.Errorf("delivery %d text = %q", i, sender.sent[i].text)
		}
	}
}

func TestRunIsolatesPerRecipientFailures(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := &fakeStore{userIDs: []int64{1, 2, 3}}
	sender := &fakeSender{failFor: map[int64]error{2: errors.New("blocked by user")}}
	dispatcher := newTestDispatcher(store, sender)

	report, err := dispatcher.Run(ctx, broadcast.Message{Text: "hi"})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if report.Sent != 2 || report.Failed != 1 {
		t.Errorf("report = %+v, want sent=2 failed=1", report)
	}
	if len(sender.sent) != 2 || sender.sent[0].chatID != 1 || sender.sent[1].chatID != 3 {
		t.Errorf("deliveries = %v, want users 1 and 3", sender.sent)
	}
}

func TestRunSendsPhotoWithCaption(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := &fakeStore{userIDs: []int64{7}}
	sender := &fakeSender{}
	dispatcher := newTestDispatcher(store, sender)

	report, err := dispatcher.Run(ctx, broadcast.Message{Text: "подпись", PhotoFileID: "file-123"})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if report.Sent != 1 {
		t.Fatalf("report = %+v, want sent=1", report)
	}
	got := sender.sent[0]
	if !got.isPhoto || got.fileID != "file-123" || got.text != "подпись" {
		t.Errorf("delivery = %+v, want photo file-123 with caption", got)
	}
}

func TestRunEmptyPayloadSkipsEveryone(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := &fakeStore{userIDs: []int64{1, 2}}
	sender := &fakeSender{}
	dispatcher := newTestDispatcher(store, sender)

	report, err := dispatcher.Run(ctx, broadcast.Message{})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if report.Sent != 0 || report.Failed != 0 || report.Skipped != 2 {
		t.Errorf("report = %+v, want skipped=2", report)
	}
	if len(sender.sent) != 0 {
		t.Errorf("deliveries = %d, want 0", len(sender.sent))
	}
}

func TestRunWithNoRecipients(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	dispatcher := newTestDispatcher(&fakeStore{}, &fakeSender{})

	report, err := dispatcher.Run(ctx, broadcast.Message{Text: "hi"})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if report.Recipients != 0 || report.Sent != 0 {
		t.Errorf("report = %+v, want zero everything", report)
	}
}

func TestDeliverUsesProvidedSnapshot(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	// The store would yield a different set; Deliver must honor the
	// caller's snapshot so an announced recipient count stays accurate.
	store := &fakeStore{userIDs: []int64{100, 200, 300}}
	sender := &fakeSender{}
	dispatcher := newTestDispatcher(store, sender)

	snapshot := []int64{5, 6}
	report := dispatcher.Deliver(ctx, snapshot, broadcast.Message{Text: "hi"})

	if report.Recipients != len(snapshot) || report.Sent != 2 {
		t.Errorf("report = %+v, want recipients=2 sent=2", report)
	}
	if len(sender.sent) != 2 || sender.sent[0].chatID != 5 || sender.sent[1].chatID != 6 {
		t.Errorf("deliveries = %v, want exactly users 5 and 6", sender.sent)
	}
}

func TestRunPropagatesSnapshotError(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := &fakeStore{err: errors.New("db closed")}
	dispatcher := newTestDispatcher(store, &fakeSender{})

	if _, err := dispatcher.Run(ctx, broadcast.Message{Text: "hi"}); err == nil {
		t.Fatal("Run() error = nil, want snapshot error")
	}
}

func TestRunPacesBetweenDeliveries(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := &fakeStore{userIDs: []int64{1, 2, 3}}
	sender := &fakeSender{}
	dispatcher := broadcast.NewDispatcher(slog.Default(), store, sender, 10*time.Millisecond)

	start := time.Now()
	if _, err := dispatcher.Run(ctx, broadcast.Message{Text: "hi"}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	// Two gaps between three deliveries.
	if elapsed := time.Since(start); elapsed < 20*time.Millisecond {
		t.Errorf("run took %v, want at least 20ms of pacing", elapsed)
	}
}

func TestArmDisarm(t *testing.T) {
	t.Parallel()
	dispatcher := newTestDispatcher(&fakeStore{}, &fakeSender{})

	if dispatcher.Armed(1) {
		t.Error("operator armed before Arm()")
	}
	dispatcher.Arm(1)
	if !dispatcher.Armed(1) {
		t.Error("operator not armed after Arm()")
	}
	if dispatcher.Armed(2) {
		t.Error("arming one operator must not arm another")
	}
	dispatcher.Disarm(1)
	if dispatcher.Armed(1) {
		t.Error("operator still armed after Disarm()")
	}
}
