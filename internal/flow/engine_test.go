package flow_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/drigmma/ankety/internal/config"
	"github.com/drigmma/ankety/internal/database"
	"github.com/drigmma/ankety/internal/flow"
	"github.com/drigmma/ankety/internal/forms"
)

// fakeStore is an in-memory database.Store for engine tests.
type fakeStore struct {
	mu    sync.Mutex
	users map[int64]*database.User
}

func newFakeStore() *fakeStore {
	return &fakeStore{users: make(map[int64]*database.User)}
}

func (s *fakeStore) Ping(context.Context) error { return nil }

func (s *fakeStore) UpsertUser(_ context.Context, userID int64, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[userID]; ok {
		u.Username = username
		return nil
	}
	s.users[userID] = &database.User{UserID: userID, Username: username}
	return nil
}

func (s *fakeStore) SetConsent(_ context.Context, userID int64, consented bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[userID]; ok {
		u.Consent = consented
	}
	return nil
}

func (s *fakeStore) HasConsent(_ context.Context, userID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[userID]; ok {
		return u.Consent, nil
	}
	return false, nil
}

func (s *fakeStore) GetUser(_ context.Context, userID int64) (*database.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users[userID], nil
}

func (s *fakeStore) ConsentedUserIDs(context.Context) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ids []int64
	for id, u := range s.users {
		if u.Consent {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (s *fakeStore) RunSQLMaintenance(context.Context) error { return nil }

// fakeSink records appended rows and can be told to fail.
type fakeSink struct {
	mu      sync.Mutex
	err     error
	appends []appendCall
}

type appendCall struct {
	title   string
	headers []string
	row     map[string]string
}

func (s *fakeSink) AppendRow(_ context.Context, title string, headers []string, row map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.appends = append(s.appends, appendCall{title: title, headers: headers, row: row})
	return nil
}

var testMsgs = config.MessagesConfig{
	Welcome:          "welcome",
	MenuPrompt:       "menu",
	ConsentPrompt:    "consent?",
	ConsentAccepted:  "accepted",
	ConsentDeclined:  "declined",
	ConsentUseButton: "use-button",
	FormIntro:        "intro: %s (%d questions)",
	FormSaving:       "saving",
	FormSaved:        "saved",
	FormSaveFailed:   "save-failed",
	CancelDone:       "cancelled",
	CancelNothing:    "nothing-to-cancel",
}

func newTestEngine(t *testing.T) (*flow.Engine, *fakeStore, *fakeSink) {
	t.Helper()

	catalog, err := forms.NewCatalog([]forms.Form{
		{
			ID:        "camp",
			Title:     "Camp Form",
			Button:    "Camp",
			Questions: []string{"Q1", "Q2", "Q3"},
		},
	})
	if err != nil {
		t.Fatalf("NewCatalog() error = %v", err)
	}

	store := newFakeStore()
	sink := &fakeSink{}
	engine := flow.NewEngine(nil, store, catalog, sink, flow.NewMemorySessions(), testMsgs)
	return engine, store, sink
}

// lastReply returns the final reply text of a transition.
func lastReply(t *testing.T, replies []flow.Reply) string {
	t.Helper()
	if len(replies) == 0 {
		t.Fatal("expected at least one reply")
	}
	return replies[len(replies)-1].Text
}

// consentUser walks a user through the consent gate.
func consentUser(t *testing.T, engine *flow.Engine, user flow.User) {
	t.Helper()
	ctx := context.Background()
	if _, err := engine.HandleStart(ctx, user); err != nil {
		t.Fatalf("HandleStart() error = %v", err)
	}
	replies, err := engine.HandleText(ctx, user, "Да")
	if err != nil {
		t.Fatalf("HandleText(consent) error = %v", err)
	}
	if got := lastReply(t, replies); got != testMsgs.ConsentAccepted {
		t.Fatalf("consent answer reply = %q, want %q", got, testMsgs.ConsentAccepted)
	}
}

func TestConsentGate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	engine, store, _ := newTestEngine(t)
	user := flow.User{ID: 1, Username: "alice"}

	// First contact opens the consent gate; consent is never set before an answer.
	replies, err := engine.HandleStart(ctx, user)
	if err != nil {
		t.Fatalf("HandleStart() error = %v", err)
	}
	if got := lastReply(t, replies); got != testMsgs.ConsentPrompt {
		t.Errorf("start reply = %q, want consent prompt", got)
	}
	if consented, _ := store.HasConsent(ctx, user.ID); consented {
		t.Error("consent set before any answer")
	}

	// Unrecognized answer re-prompts without touching the flag.
	replies, err = engine.HandleText(ctx, user, "что?")
	if err != nil {
		t.Fatalf("HandleText() error = %v", err)
	}
	if got := lastReply(t, replies); got != testMsgs.ConsentUseButton {
		t.Errorf("unrecognized answer reply = %q, want %q", got, testMsgs.ConsentUseButton)
	}
	if consented, _ := store.HasConsent(ctx, user.ID); consented {
		t.Error("consent set by unrecognized answer")
	}

	// Negative answer explicitly revokes and keeps the gate open.
	replies, err = engine.HandleText(ctx, user, "Нет")
	if err != nil {
		t.Fatalf("HandleText() error = %v", err)
	}
	if got := lastReply(t, replies); got != testMsgs.ConsentDeclined {
		t.Errorf("negative answer reply = %q, want %q", got, testMsgs.ConsentDeclined)
	}
	if consented, _ := store.HasConsent(ctx, user.ID); consented {
		t.Error("consent true after negative answer")
	}

	// Affirmative answer resolves the gate.
	replies, err = engine.HandleText(ctx, user, "да")
	if err != nil {
		t.Fatalf("HandleText() error = %v", err)
	}
	if got := lastReply(t, replies); got != testMsgs.ConsentAccepted {
		t.Errorf("affirmative answer reply = %q, want %q", got, testMsgs.ConsentAccepted)
	}
	if consented, _ := store.HasConsent(ctx, user.ID); !consented {
		t.Error("consent false after affirmative answer")
	}
}

func TestFormCompletionAppendsOneRow(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	engine, _, sink := newTestEngine(t)
	user := flow.User{ID: 7, Username: "bob"}
	consentUser(t, engine, user)

	replies, err := engine.HandleText(ctx, user, "Camp")
	if err != nil {
		t.Fatalf("HandleText(menu) error = %v", err)
	}
	if got := lastReply(t, replies); got != "Q1" {
		t.Fatalf("form start reply = %q, want first question", got)
	}

	answers := []struct {
		text string
		next string
	}{
		{"A", "Q2"},
		{"B", "Q3"},
	}
	for _, step := range answers {
		replies, err = engine.HandleText(ctx, user, step.text)
		if err != nil {
			t.Fatalf("HandleText(%q) error = %v", step.text, err)
		}
		if got := lastReply(t, replies); got != step.next {
			t.Errorf("after %q reply = %q, want %q", step.text, got, step.next)
		}
	}

	replies, err = engine.HandleText(ctx, user, "  C  ")
	if err != nil {
		t.Fatalf("HandleText(final) error = %v", err)
	}
	if got := lastReply(t, replies); got != testMsgs.FormSaved {
		t.Errorf("final reply = %q, want %q", got, testMsgs.FormSaved)
	}

	if len(sink.appends) != 1 {
		t.Fatalf("sink appends = %d, want 1", len(sink.appends))
	}
	call := sink.appends[0]
	if call.title != "Camp Form" {
		t.Errorf("append title = %q, want %q", call.title, "Camp Form")
	}

	wantHeaders := []string{"timestamp_utc", "telegram_user_id", "telegram_username", "Q1", "Q2", "Q3"}
	if len(call.headers) != len(wantHeaders) {
		t.Fatalf("append headers = %v, want %v", call.headers, wantHeaders)
	}
	for i := range wantHeaders {
		if call.headers[i] != wantHeaders[i] {
			t.Errorf("headers[%d] = %q, want %q", i, call.headers[i], wantHeaders[i])
		}
	}

	wantAnswers := map[string]string{"Q1": "A", "Q2": "B", "Q3": "C"}
	for question, want := range wantAnswers {
		if got := call.row[question]; got != want {
			t.Errorf("row[%q] = %q, want %q (answers stored trimmed, in question order)", question, got, want)
		}
	}
	for _, meta := range []string{"timestamp_utc", "telegram_user_id", "telegram_username"} {
		if call.row[meta] == "" {
			t.Errorf("metadata column %q is empty", meta)
		}
	}

	// Session is cleared after submission: the next message falls back to the menu.
	replies, err = engine.HandleText(ctx, user, "hello")
	if err != nil {
		t.Fatalf("HandleText(after submit) error = %v", err)
	}
	if got := lastReply(t, replies); got != testMsgs.MenuPrompt {
		t.Errorf("post-submission reply = %q, want menu prompt", got)
	}
}

func TestCancellationDiscardsAnswers(t *testing.T) {
	t.Parallel()

	for cursor := 0; cursor < 3; cursor++ {
		cursor := cursor
		t.Run(fmt.Sprintf("cursor_%d", cursor), func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()
			engine, _, sink := newTestEngine(t)
			user := flow.User{ID: 42, Username: "carol"}
			consentUser(t, engine, user)

			if _, err := engine.HandleText(ctx, user, "Camp"); err != nil {
				t.Fatalf("HandleText(menu) error = %v", err)
			}
			for i := 0; i < cursor; i++ {
				if _, err := engine.HandleText(ctx, user, "answer"); err != nil {
					t.Fatalf("HandleText(answer %d) error = %v", i, err)
				}
			}

			replies, err := engine.HandleCancel(ctx, user)
			if err != nil {
				t.Fatalf("HandleCancel() error = %v", err)
			}
			if got := lastReply(t, replies); got != testMsgs.CancelDone {
				t.Errorf("cancel reply = %q, want %q", got, testMsgs.CancelDone)
			}
			if len(sink.appends) != 0 {
				t.Errorf("cancelled session produced %d sink appends", len(sink.appends))
			}

			// A new selection starts a fresh session at cursor 0.
			replies, err = engine.HandleText(ctx, user, "Camp")
			if err != nil {
				t.Fatalf("HandleText(restart) error = %v", err)
			}
			if got := lastReply(t, replies); got != "Q1" {
				t.Errorf("restart reply = %q, want first question", got)
			}
		})
	}
}

func TestCancelWithoutSession(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	engine, _, _ := newTestEngine(t)
	user := flow.User{ID: 5, Username: "dave"}
	consentUser(t, engine, user)

	replies, err := engine.HandleCancel(ctx, user)
	if err != nil {
		t.Fatalf("HandleCancel() error = %v", err)
	}
	if got := lastReply(t, replies); got != testMsgs.CancelNothing {
		t.Errorf("cancel reply = %q, want %q", got, testMsgs.CancelNothing)
	}
}

func TestSubmissionFailureClearsSession(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	engine, _, sink := newTestEngine(t)
	user := flow.User{ID: 9, Username: "erin"}
	consentUser(t, engine, user)

	sink.err = errors.New("sheets unavailable")

	if _, err := engine.HandleText(ctx, user, "Camp"); err != nil {
		t.Fatalf("HandleText(menu) error = %v", err)
	}
	for _, answer := range []string{"A", "B"} {
		if _, err := engine.HandleText(ctx, user, answer); err != nil {
			t.Fatalf("HandleText(%q) error = %v", answer, err)
		}
	}

	replies, err := engine.HandleText(ctx, user, "C")
	if err != nil {
		t.Fatalf("HandleText(final) error = %v", err)
	}
	if got := lastReply(t, replies); got != testMsgs.FormSaveFailed {
		t.Errorf("failure reply = %q, want %q", got, testMsgs.FormSaveFailed)
	}

	// The session is cleared regardless of the append outcome.
	replies, err = engine.HandleText(ctx, user, "anything")
	if err != nil {
		t.Fatalf("HandleText(after failure) error = %v", err)
	}
	if got := lastReply(t, replies); got != testMsgs.MenuPrompt {
		t.Errorf("post-failure reply = %q, want menu prompt", got)
	}
}

func TestEmptyAnswerRecordsEmptyCellAndAdvances(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	engine, _, sink := newTestEngine(t)
	user := flow.User{ID: 13, Username: "grace"}
	consentUser(t, engine, user)

	if engine.InForm(user.ID) {
		t.Error("InForm() = true before a form was started")
	}
	if _, err := engine.HandleText(ctx, user, "Camp"); err != nil {
		t.Fatalf("HandleText(menu) error = %v", err)
	}
	if !engine.InForm(user.ID) {
		t.Error("InForm() = false with an active form session")
	}

	// A message with no text (photo, sticker) is still an answer: the
	// empty string is recorded and the next question is asked.
	replies, err := engine.HandleText(ctx, user, "")
	if err != nil {
		t.Fatalf("HandleText(empty) error = %v", err)
	}
	if got := lastReply(t, replies); got != "Q2" {
		t.Fatalf("after empty answer reply = %q, want %q", got, "Q2")
	}

	for _, step := range []struct{ text, next string }{
		{"B", "Q3"},
		{"C", testMsgs.FormSaved},
	} {
		replies, err = engine.HandleText(ctx, user, step.text)
		if err != nil {
			t.Fatalf("HandleText(%q) error = %v", step.text, err)
		}
		if got := lastReply(t, replies); got != step.next {
			t.Errorf("after %q reply = %q, want %q", step.text, got, step.next)
		}
	}

	if len(sink.appends) != 1 {
		t.Fatalf("sink appends = %d, want 1", len(sink.appends))
	}
	row := sink.appends[0].row
	if got, ok := row["Q1"]; !ok || got != "" {
		t.Errorf("row[Q1] = %q (present=%t), want recorded empty cell", got, ok)
	}
	if row["Q2"] != "B" || row["Q3"] != "C" {
		t.Errorf("row = %v, want Q2=B Q3=C", row)
	}

	if engine.InForm(user.ID) {
		t.Error("InForm() = true after submission")
	}
}

func TestIdleTextWithoutConsentReopensGate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	engine, _, _ := newTestEngine(t)
	user := flow.User{ID: 11, Username: "frank"}

	// Any interaction while consent is false routes to the consent gate.
	replies, err := engine.HandleText(ctx, user, "Camp")
	if err != nil {
		t.Fatalf("HandleText() error = %v", err)
	}
	if got := lastReply(t, replies); got != testMsgs.ConsentPrompt {
		t.Errorf("idle reply = %q, want consent prompt", got)
	}
}

func TestConsentTokens(t *testing.T) {
	t.Parallel()

	affirmatives := []string{"да", "ДА", " Да ", "yes", "ОК", "согласна", "✅ Да, согласен"}
	for _, text := range affirmatives {
		if !flow.IsAffirmative(text) {
			t.Errorf("IsAffirmative(%q) = false, want true", text)
		}
	}

	negatives := []string{"нет", "НЕТ", "no", "Не согласен", "❌ Нет, не согласен"}
	for _, text := range negatives {
		if !flow.IsNegative(text) {
			t.Errorf("IsNegative(%q) = false, want true", text)
		}
	}

	neither := []string{"", "может быть", "далеко не факт", "согл"}
	for _, text := range neither {
		if flow.IsAffirmative(text) || flow.IsNegative(text) {
			t.Errorf("%q recognized as a consent answer", text)
		}
	}
}
