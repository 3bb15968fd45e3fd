package entity

import (
	"time"
)

// User is the aggregate root for the credential store.
// Password holds a bcrypt digest, never the plaintext.
type User struct {
	ID        string
	Email     string
	Password  string
	CreatedAt time.Time
}
