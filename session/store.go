package session

import (
	"context"
	"errors"
	"time"
)

// DefaultTTL is how long an idle session is kept
const DefaultTTL = 24 * time.Hour

var ErrNotFound = errors.New("session not found")

// Store persists session states. Get returns ErrNotFound for unknown or expired sessions.
type Store interface {
	Get(ctx context.Context, id string) (*State, error)
	Save(ctx context.Context, state *State) error
	Delete(ctx context.Context, id string) error
}

// SessionLocker is implemented by stores shared between processes.
// LockSession blocks until id is held exclusively or ctx is done, the returned func releases it.
type SessionLocker interface {
	LockSession(ctx context.Context, id string) (func(), error)
}
