package database

import (
	"time"
)

// User represents a Telegram user known to the bot. A row exists for every
// user who has sent at least one message. Consent reflects the most recent
// explicit answer to the privacy policy prompt and is never set implicitly.
type User struct {
	UserID    int64     `db:"user_id"`
	Username  string    `db:"username"`
	Consent   bool      `db:"consent"`
	FirstSeen time.Time `db:"first_seen"`
	LastSeen  time.Time `db:"last_seen"`
}
