// Package events defines the domain events exchanged between modules over
// the in-process event bus. The activity log and backup scheduler subscribe
// to these.
package events

import (
	"bess_quote_backend/platform/events"

	"github.com/google/uuid"
)

// Bus re-exports the platform bus interface for module signatures.
type Bus = events.Bus

// Event re-exports the platform event interface.
type Event = events.Event

// Handler re-exports the platform handler interface.
type Handler = events.Handler

// HandlerFunc re-exports the platform handler adapter.
type HandlerFunc = events.HandlerFunc

// QuoteCreated fires after a quote is persisted.
type QuoteCreated struct {
	events.BaseEvent
	QuoteID     uuid.UUID
	QuoteNumber string
	TotalAmount float64
	UserID      uuid.UUID
	Username    string
}

// EventName identifies the event type.
func (QuoteCreated) EventName() string { return "quote.created" }

// QuoteUpdated fires after quote fields or items change.
type QuoteUpdated struct {
	events.BaseEvent
	QuoteID     uuid.UUID
	QuoteNumber string
	UserID      uuid.UUID
	Username    string
}

// EventName identifies the event type.
func (QuoteUpdated) EventName() string { return "quote.updated" }

// QuoteStatusChanged fires on every lifecycle transition.
type QuoteStatusChanged struct {
	events.BaseEvent
	QuoteID     uuid.UUID
	QuoteNumber string
	OldStatus   string
	NewStatus   string
	UserID      uuid.UUID
	Username    string
}

// EventName identifies the event type.
func (QuoteStatusChanged) EventName() string { return "quote.status_changed" }

// QuoteSent fires after the offer email is handed to the mailer.
type QuoteSent struct {
	events.BaseEvent
	QuoteID     uuid.UUID
	QuoteNumber string
	Recipient   string
	UserID      uuid.UUID
	Username    string
}

// EventName identifies the event type.
func (QuoteSent) EventName() string { return "quote.sent" }

// QuoteDeleted fires after a quote is removed.
type QuoteDeleted struct {
	events.BaseEvent
	QuoteID     uuid.UUID
	QuoteNumber string
	UserID      uuid.UUID
	Username    string
}

// EventName identifies the event type.
func (QuoteDeleted) EventName() string { return "quote.deleted" }

// UserLoggedIn fires on successful authentication.
type UserLoggedIn struct {
	events.BaseEvent
	UserID   uuid.UUID
	Username string
}

// EventName identifies the event type.
func (UserLoggedIn) EventName() string { return "user.logged_in" }

// UserLoggedOut fires on logout.
type UserLoggedOut struct {
	events.BaseEvent
	UserID   uuid.UUID
	Username string
}

// EventName identifies the event type.
func (UserLoggedOut) EventName() string { return "user.logged_out" }

// UserCreated fires after an admin creates an account.
type UserCreated struct {
	events.BaseEvent
	UserID    uuid.UUID
	Username  string
	ActorID   uuid.UUID
	ActorName string
}

// EventName identifies the event type.
func (UserCreated) EventName() string { return "user.created" }

// UserUpdated fires after account changes (including activation toggles).
type UserUpdated struct {
	events.BaseEvent
	UserID    uuid.UUID
	Username  string
	ActorID   uuid.UUID
	ActorName string
}

// EventName identifies the event type.
func (UserUpdated) EventName() string { return "user.updated" }

// UserDeleted fires after an account is removed.
type UserDeleted struct {
	events.BaseEvent
	UserID    uuid.UUID
	Username  string
	ActorID   uuid.UUID
	ActorName string
}

// EventName identifies the event type.
func (UserDeleted) EventName() string { return "user.deleted" }

// BackupCompleted fires after a backup attempt, successful or not.
type BackupCompleted struct {
	events.BaseEvent
	Provider string
	Object   string
	Success  bool
	Detail   string
}

// EventName identifies the event type.
func (BackupCompleted) EventName() string { return "backup.completed" }
