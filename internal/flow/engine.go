package flow

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/drigmma/ankety/internal/config"
	"github.com/drigmma/ankety/internal/database"
	"github.com/drigmma/ankety/internal/forms"
)

// Sink receives one row per completed submission. The row is keyed by
// question text; the implementation maps it onto the header order.
type Sink interface {
	AppendRow(ctx context.Context, title string, headers []string, row map[string]string) error
}

// User identifies the sender of an inbound message.
type User struct {
	ID        int64
	Username  string
	FirstName string
}

// Markup selects the reply keyboard attached to an outgoing message.
type Markup int

const (
	// MarkupNone leaves the current keyboard untouched.
	MarkupNone Markup = iota
	// MarkupMainMenu shows the form selection menu.
	MarkupMainMenu
	// MarkupConsent shows the consent yes/no keyboard.
	MarkupConsent
	// MarkupRemove removes the reply keyboard.
	MarkupRemove
)

// Reply is one outgoing message produced by a transition.
type Reply struct {
	Text   string
	Markup Markup
}

// Engine drives the conversation state machine. Message processing for a
// single user is serialized by a per-user mutex, so out-of-order or
// duplicate delivery cannot corrupt the cursor or collected answers. No
// cross-user lock is held across store or sink calls.
type Engine struct {
	logger   *slog.Logger
	store    database.Store
	catalog  *forms.Catalog
	sink     Sink
	sessions Sessions
	msgs     config.MessagesConfig

	mu        sync.Mutex
	userLocks map[int64]*sync.Mutex
}

// NewEngine creates a conversation engine with all collaborators injected.
func NewEngine(
	logger *slog.Logger,
	store database.Store,
	catalog *forms.Catalog,
	sink Sink,
	sessions Sessions,
	msgs config.MessagesConfig,
) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		logger:    logger.With("component", "flow_engine"),
		store:     store,
		catalog:   catalog,
		sink:      sink,
		sessions:  sessions,
		msgs:      msgs,
		userLocks: make(map[int64]*sync.Mutex),
	}
}

// lockUser returns the mutex serializing message processing for one user.
func (e *Engine) lockUser(userID int64) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()

	lock, ok := e.userLocks[userID]
	if !ok {
		lock = &sync.Mutex{}
		e.userLocks[userID] = lock
	}
	return lock
}

// HandleStart processes /start: upserts the user record and either shows
// the main menu or opens the consent gate.
func (e *Engine) HandleStart(ctx context.Context, user User) ([]Reply, error) {
	lock := e.lockUser(user.ID)
	lock.Lock()
	defer lock.Unlock()

	if err := e.store.UpsertUser(ctx, user.ID, user.Username); err != nil {
		return nil, fmt.Errorf("failed to upsert user: %w", err)
	}

	consented, err := e.store.HasConsent(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check consent: %w", err)
	}

	if !consented {
		e.sessions.Put(user.ID, &Session{State: StateAwaitingConsent})
		return []Reply{
			{Text: e.msgs.Welcome, Markup: MarkupRemove},
			{Text: e.msgs.ConsentPrompt, Markup: MarkupConsent},
		}, nil
	}

	// /start always aborts whatever was in progress.
	e.sessions.Delete(user.ID)
	return []Reply{{Text: e.msgs.Welcome, Markup: MarkupMainMenu}}, nil
}

// HandleCancel processes /cancel: discards any in-progress session without
// a submission.
func (e *Engine) HandleCancel(ctx context.Context, user User) ([]Reply, error) {
	lock := e.lockUser(user.ID)
	lock.Lock()
	defer lock.Unlock()

	if err := e.store.UpsertUser(ctx, user.ID, user.Username); err != nil {
		return nil, fmt.Errorf("failed to upsert user: %w", err)
	}

	session := e.sessions.Get(user.ID)
	if session == nil {
		return []Reply{{Text: e.msgs.CancelNothing, Markup: MarkupMainMenu}}, nil
	}

	e.sessions.Delete(user.ID)
	e.logger.InfoContext(ctx, "Session cancelled", "user_id", user.ID, "state", session.State, "cursor", session.Cursor)
	return []Reply{{Text: e.msgs.CancelDone, Markup: MarkupMainMenu}}, nil
}

// InForm reports whether the user currently has an active form session.
// The transport layer uses it to decide whether a non-text message should
// still be fed through as an (empty) answer.
func (e *Engine) InForm(userID int64) bool {
	session := e.sessions.Get(userID)
	return session != nil && session.State == StateInForm
}

// HandleText processes a free-text inbound message, dispatching on the
// user's current state.
func (e *Engine) HandleText(ctx context.Context, user User, text string) ([]Reply, error) {
	lock := e.lockUser(user.ID)
	lock.Lock()
	defer lock.Unlock()

	if err := e.store.UpsertUser(ctx, user.ID, user.Username); err != nil {
		return nil, fmt.Errorf("failed to upsert user: %w", err)
	}

	session := e.sessions.Get(user.ID)
	if session == nil {
		session = &Session{State: StateNone}
	}

	switch session.State {
	case StateAwaitingConsent:
		return e.handleConsentAnswer(ctx, user, text)
	case StateInForm:
		return e.handleFormAnswer(ctx, user, session, text)
	default:
		return e.handleIdleText(ctx, user, text)
	}
}

// handleConsentAnswer resolves the consent gate. Only an explicit
// affirmative sets consent; a negative answer explicitly revokes it and
// anything else re-prompts without touching the stored flag.
func (e *Engine) handleConsentAnswer(ctx context.Context, user User, text string) ([]Reply, error) {
	switch {
	case IsAffirmative(text):
		if err := e.store.SetConsent(ctx, user.ID, true); err != nil {
			return nil, fmt.Errorf("failed to store consent: %w", err)
		}
		e.sessions.Delete(user.ID)
		e.logger.InfoContext(ctx, "Consent granted", "user_id", user.ID)
		return []Reply{{Text: e.msgs.ConsentAccepted, Markup: MarkupMainMenu}}, nil

	case IsNegative(text):
		if err := e.store.SetConsent(ctx, user.ID, false); err != nil {
			return nil, fmt.Errorf("failed to store consent: %w", err)
		}
		e.logger.InfoContext(ctx, "Consent declined", "user_id", user.ID)
		return []Reply{{Text: e.msgs.ConsentDeclined, Markup: MarkupConsent}}, nil

	default:
		return []Reply{{Text: e.msgs.ConsentUseButton, Markup: MarkupConsent}}, nil
	}
}

// handleFormAnswer records the answer for the current question and either
// asks the next question or submits the completed form.
func (e *Engine) handleFormAnswer(ctx context.Context, user User, session *Session, text string) ([]Reply, error) {
	form, ok := e.catalog.Get(session.FormID)
	if !ok {
		// The catalog is static; an active session pointing at a missing
		// form is an internal consistency error, not user-recoverable.
		e.sessions.Delete(user.ID)
		return nil, fmt.Errorf("session references unknown form %q", session.FormID)
	}

	if session.Cursor < len(form.Questions) {
		question := form.Questions[session.Cursor]
		session.Answers[question] = strings.TrimSpace(text)
	}
	session.Cursor++
	e.sessions.Put(user.ID, session)

	if session.Cursor < len(form.Questions) {
		return []Reply{{Text: form.Questions[session.Cursor], Markup: MarkupRemove}}, nil
	}

	return e.submit(ctx, user, form, session), nil
}

// submit builds the submission row and appends it to the sink. The session
// is cleared whether or not the append succeeds: the reference behavior
// discards the answers on failure rather than retrying.
func (e *Engine) submit(ctx context.Context, user User, form *forms.Form, session *Session) []Reply {
	defer e.sessions.Delete(user.ID)

	row := map[string]string{
		"timestamp_utc":     time.Now().UTC().Format(time.RFC3339),
		"telegram_user_id":  strconv.FormatInt(user.ID, 10),
		"telegram_username": displayHandle(user),
	}
	for question, answer := range session.Answers {
		row[question] = answer
	}

	replies := []Reply{{Text: e.msgs.FormSaving, Markup: MarkupRemove}}

	if err := e.sink.AppendRow(ctx, form.Title, form.Headers(), row); err != nil {
		e.logger.ErrorContext(ctx, "Failed to append submission",
			"user_id", user.ID, "form_id", form.ID, "error", err)
		return append(replies, Reply{Text: e.msgs.FormSaveFailed, Markup: MarkupMainMenu})
	}

	e.logger.InfoContext(ctx, "Submission appended",
		"user_id", user.ID, "form_id", form.ID, "answers", len(session.Answers))
	return append(replies, Reply{Text: e.msgs.FormSaved, Markup: MarkupMainMenu})
}

// handleIdleText handles a message while no flow is active: re-open the
// consent gate for non-consented users, start a form on a menu button,
// otherwise show the menu again.
func (e *Engine) handleIdleText(ctx context.Context, user User, text string) ([]Reply, error) {
	consented, err := e.store.HasConsent(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check consent: %w", err)
	}

	if !consented {
		e.sessions.Put(user.ID, &Session{State: StateAwaitingConsent})
		return []Reply{{Text: e.msgs.ConsentPrompt, Markup: MarkupConsent}}, nil
	}

	if form, ok := e.catalog.ByButton(strings.TrimSpace(text)); ok {
		return e.startForm(ctx, user, form), nil
	}

	return []Reply{{Text: e.msgs.MenuPrompt, Markup: MarkupMainMenu}}, nil
}

// startForm initializes a fresh session at cursor 0 and asks the first
// question.
func (e *Engine) startForm(ctx context.Context, user User, form *forms.Form) []Reply {
	e.sessions.Put(user.ID, &Session{
		State:   StateInForm,
		FormID:  form.ID,
		Answers: make(map[string]string, len(form.Questions)),
	})

	e.logger.InfoContext(ctx, "Form started",
		"user_id", user.ID, "form_id", form.ID, "questions", len(form.Questions))

	return []Reply{
		{Text: fmt.Sprintf(e.msgs.FormIntro, form.Title, len(form.Questions)), Markup: MarkupRemove},
		{Text: form.Questions[0], Markup: MarkupRemove},
	}
}

// displayHandle returns a never-empty handle for the metadata columns.
func displayHandle(user User) string {
	if user.Username != "" {
		return user.Username
	}
	if user.FirstName != "" {
		return user.FirstName
	}
	return strconv.FormatInt(user.ID, 10)
}

// Consent token sets. Matching is case-insensitive on the trimmed text.
var (
	affirmativeTokens = map[string]struct{}{
		"да": {}, "yes": {}, "y": {}, "ага": {}, "ок": {}, "okay": {},
		"окей": {}, "согласен": {}, "согласна": {}, "✅ да, согласен": {},
	}
	negativeTokens = map[string]struct{}{
		"нет": {}, "no": {}, "n": {}, "не согласен": {}, "не согласна": {},
		"❌ нет, не согласен": {},
	}
)

// IsAffirmative reports whether the text is an accepted consent answer.
func IsAffirmative(text string) bool {
	_, ok := affirmativeTokens[strings.ToLower(strings.TrimSpace(text))]
	return ok
}

// IsNegative reports whether the text is a recognized consent refusal.
func IsNegative(text string) bool {
	_, ok := negativeTokens[strings.ToLower(strings.TrimSpace(text))]
	return ok
}
